package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
	"github.com/smokyabdulrahman/miqat/internal/service"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show prayer times for multiple days",
		Long:  "Display a grid of prayer times for N days (default: 7), with the approximate Hijri day.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, 7)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show prayer times for the next 7 days",
		Long:  "Alias for 'list 7'. Display a grid of prayer times for 7 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show prayer times for the next 30 days",
		Long:  "Alias for 'list 30'. Display a grid of prayer times for 30 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 30)
		},
	}
}

// parseDays reads a positive day count, also accepting "week" and "month".
func parseDays(raw string) (int, error) {
	switch raw {
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid number of days: %q (must be a positive integer, 'week', or 'month')", raw)
	}
	return n, nil
}

// runList is the handler for the list subcommand.
func runList(cmd *cobra.Command, args []string, defaultDays int) error {
	days := defaultDays
	if len(args) > 0 {
		n, err := parseDays(args[0])
		if err != nil {
			return err
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

	names := s.prayers
	if len(names) == 0 {
		names = prayer.DefaultPrayerNames
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printListJSON(out, s, results, names)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold(fmt.Sprintf("Prayer Times - %d Days", days)))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", locationLabel(s.loc))
	fmt.Fprintf(out, "  %s\n", display.Gray(hijri.MonthLabel(t)))
	fmt.Fprintln(out)

	headers := append([]string{"Date", "Hijri"}, names...)
	tbl := display.NewTable(headers)
	todayStr := t.Format("2006-01-02")

	for i, r := range results {
		h := hijri.FromGregorian(r.Date)
		row := []string{r.Date.Format("Mon 02 Jan"), fmt.Sprintf("%d %s", h.Day, h.MonthName)}
		row = append(row, formatTimes(r, names, s.layout)...)
		tbl.AddRow(row)

		if r.Date.Format("2006-01-02") == todayStr {
			tbl.SetHighlightRow(i)
		}
	}

	fmt.Fprint(out, tbl.Render())
	fmt.Fprintln(out)
	return nil
}

// formatTimes renders the named instants of r with layout, in order.
func formatTimes(r service.Result, names []string, layout string) []string {
	cells := make([]string, len(names))
	for i, n := range names {
		if at, ok := r.Times.Get(n); ok {
			cells[i] = at.Format(layout)
		}
	}
	return cells
}

// listJSONOutput is the JSON structure for the list command.
type listJSONOutput struct {
	Location locationJSON  `json:"location"`
	Method   string        `json:"method"`
	Madhhab  string        `json:"madhhab"`
	Days     []listJSONDay `json:"days"`
}

type listJSONDay struct {
	Date    string            `json:"date"`
	Hijri   string            `json:"hijri"`
	Backend string            `json:"backend"`
	Timings map[string]string `json:"timings"`
}

func printListJSON(w io.Writer, s *session, results []service.Result, names []string) error {
	out := listJSONOutput{Location: s.locationJSON()}
	if len(results) > 0 {
		out.Method = results[0].Method.String()
		out.Madhhab = results[0].Madhhab.String()
	}

	for _, r := range results {
		timings := make(map[string]string, len(names))
		cells := formatTimes(r, names, s.layout)
		for i, n := range names {
			timings[strings.ToLower(n)] = cells[i]
		}
		out.Days = append(out.Days, listJSONDay{
			Date:    r.Date.Format("2006-01-02"),
			Hijri:   hijri.FromGregorian(r.Date).String(),
			Backend: r.Backend,
			Timings: timings,
		})
	}
	return writeJSON(w, out)
}
