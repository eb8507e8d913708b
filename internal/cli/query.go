package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
	"github.com/smokyabdulrahman/miqat/internal/service"
)

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <prayer>",
		Short: "Query a specific prayer time",
		Long: "Query a specific prayer time for today, or across multiple days with --days.\n\nValid prayer names: " +
			strings.Join(prayer.DefaultPrayerNames, ", "),
		Args: cobra.ExactArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

type queryJSONDay struct {
	Date  string `json:"date"`
	Hijri string `json:"hijri"`
	Time  string `json:"time"`
	ISO   string `json:"iso"`
}

type queryJSONOutput struct {
	Location locationJSON   `json:"location"`
	Prayer   string         `json:"prayer"`
	Days     []queryJSONDay `json:"days"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	prayerName := ""
	for _, name := range prayer.DefaultPrayerNames {
		if strings.EqualFold(name, args[0]) {
			prayerName = name
			break
		}
	}
	if prayerName == "" {
		return fmt.Errorf("unknown prayer %q; valid names: %s", args[0], strings.Join(prayer.DefaultPrayerNames, ", "))
	}

	days := 1
	if flagQueryDays != "" {
		n, err := parseDays(flagQueryDays)
		if err != nil {
			return fmt.Errorf("invalid --days value: %w", err)
		}
		days = n
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	t := now().In(s.tz)
	results, err := s.days(cmdContext(cmd), t, days)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		o := queryJSONOutput{Location: s.locationJSON(), Prayer: strings.ToLower(prayerName)}
		for _, r := range results {
			at, _ := r.Times.Get(prayerName)
			o.Days = append(o.Days, queryJSONDay{
				Date:  r.Date.Format("2006-01-02"),
				Hijri: hijri.FromGregorian(r.Date).String(),
				Time:  at.Format(s.layout),
				ISO:   service.FormatISO(at),
			})
		}
		return writeJSON(out, o)
	}

	if days == 1 {
		at, _ := results[0].Times.Get(prayerName)
		fmt.Fprintf(out, "%s %s\n", prayerName, at.Format(s.layout))
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold(fmt.Sprintf("%s Times - %d Days", prayerName, days)))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", locationLabel(s.loc))
	fmt.Fprintln(out)

	tbl := display.NewTable([]string{"Date", prayerName})
	todayStr := t.Format("2006-01-02")
	for i, r := range results {
		at, _ := r.Times.Get(prayerName)
		tbl.AddRow([]string{r.Date.Format("Mon 02 Jan"), at.Format(s.layout)})
		if r.Date.Format("2006-01-02") == todayStr {
			tbl.SetHighlightRow(i)
		}
	}

	fmt.Fprint(out, tbl.Render())
	fmt.Fprintln(out)
	return nil
}
