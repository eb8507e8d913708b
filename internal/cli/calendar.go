package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
)

var (
	flagHolidaysSorted   bool
	flagHolidaysUpcoming bool
	flagHolidaysGroup    bool
)

func newHijriCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hijri [YYYY-MM-DD]",
		Short: "Show the approximate Hijri date",
		Long:  "Print the approximate Hijri date for a Gregorian date (default: today).\nThe conversion is arithmetic and can differ from the observed calendar by a day or more.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHijri,
	}
}

func newHolidaysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays [year]",
		Short: "List Islamic holidays for a year",
		Long:  "List the nine approximate Islamic holidays for a Gregorian year (default: this year).",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHolidays,
	}

	cmd.Flags().BoolVar(&flagHolidaysSorted, "sorted", false, "Sort by date instead of table order")
	cmd.Flags().BoolVar(&flagHolidaysUpcoming, "upcoming", false, "Only holidays from today on")
	cmd.Flags().BoolVar(&flagHolidaysGroup, "group", false, "Group by Gregorian month")

	return cmd
}

// today returns now in the configured timezone, or the system zone.
func today(cmd *cobra.Command) (time.Time, error) {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return time.Time{}, err
	}
	tz := time.Local
	if cfg.Timezone != "" {
		if tz, err = time.LoadLocation(cfg.Timezone); err != nil {
			return time.Time{}, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
		}
	}
	return now().In(tz), nil
}

type hijriJSON struct {
	Gregorian string `json:"gregorian"`
	hijri.Date
	EraSuffix  string `json:"eraSuffix"`
	Label      string `json:"label"`
	MonthLabel string `json:"monthLabel"`
}

func runHijri(cmd *cobra.Command, args []string) error {
	var date time.Time
	if len(args) > 0 {
		d, err := time.Parse("2006-01-02", args[0])
		if err != nil {
			return fmt.Errorf("invalid date %q: use YYYY-MM-DD", args[0])
		}
		date = d
	} else {
		d, err := today(cmd)
		if err != nil {
			return err
		}
		date = d
	}

	h := hijri.FromGregorian(date)
	out := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(out, hijriJSON{
			Gregorian:  date.Format("2006-01-02"),
			Date:       h,
			EraSuffix:  hijri.EraSuffix,
			Label:      h.String(),
			MonthLabel: h.MonthLabel(),
		})
	}

	fmt.Fprintf(out, "%s  %s\n", date.Format("02 Jan 2006"), display.Bold(h.String()))
	return nil
}

type holidayJSON struct {
	Name        string           `json:"name"`
	Date        string           `json:"date"`
	Hijri       string           `json:"hijri"`
	Description string           `json:"description"`
	Importance  hijri.Importance `json:"importance"`
}

func runHolidays(cmd *cobra.Command, args []string) error {
	t, err := today(cmd)
	if err != nil {
		return err
	}

	year := t.Year()
	if len(args) > 0 {
		y, err := strconv.Atoi(args[0])
		if err != nil || y < 1 {
			return fmt.Errorf("invalid year %q", args[0])
		}
		year = y
	}

	hs := hijri.HolidaysForYear(year)
	if flagHolidaysSorted || flagHolidaysGroup {
		hs = hijri.Chronological(hs)
	}
	if flagHolidaysUpcoming {
		hs = hijri.Upcoming(hs, t)
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		list := make([]holidayJSON, len(hs))
		for i, h := range hs {
			list[i] = holidayJSON{
				Name:        h.Name,
				Date:        h.Date.Format("2006-01-02"),
				Hijri:       h.HijriLabel(),
				Description: h.Description,
				Importance:  h.Importance,
			}
		}
		return writeJSON(out, list)
	}

	major, minor := hijri.Count(hs)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold(fmt.Sprintf("Islamic Holidays %d", year)))
	fmt.Fprintf(out, "  %s\n", display.Gray(fmt.Sprintf("%d major, %d minor (approximate dates)", major, minor)))
	fmt.Fprintln(out)

	if flagHolidaysGroup {
		for _, g := range hijri.GroupByMonth(hs) {
			fmt.Fprintf(out, "  %s\n", display.Cyan(g.Month.String()))
			printHolidayTable(out, g.Holidays)
		}
		return nil
	}

	printHolidayTable(out, hs)
	return nil
}

func printHolidayTable(w io.Writer, hs []hijri.Holiday) {
	tbl := display.NewTable([]string{"Date", "Holiday", "Hijri", "Type"})
	for _, h := range hs {
		kind := display.Gray(h.Importance.String())
		if h.Importance == hijri.Major {
			kind = display.Green(h.Importance.String())
		}
		tbl.AddRow([]string{h.Date.Format("Mon 02 Jan"), h.Name, h.HijriLabel(), kind})
	}
	if tbl.Len() == 0 {
		fmt.Fprintf(w, "  %s\n\n", display.Gray("No holidays left this year."))
		return
	}
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
}
