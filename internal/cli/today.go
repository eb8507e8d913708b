package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
	"github.com/smokyabdulrahman/miqat/internal/service"
)

// todayView is everything the root command prints.
type todayView struct {
	res      service.Result
	prayers  []prayer.Prayer
	current  *prayer.Prayer
	next     *prayer.Prayer
	now      time.Time
	location string
}

func runToday(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	ctx := cmdContext(cmd)
	t := now().In(s.tz)

	res, prayers, err := s.day(ctx, t)
	if err != nil {
		return err
	}

	v := todayView{
		res:      res,
		prayers:  prayers,
		current:  prayer.CurrentPrayer(prayers, t),
		next:     prayer.NextPrayer(prayers, t),
		now:      t,
		location: locationLabel(s.loc),
	}

	// After the last prayer the countdown runs to tomorrow's first one.
	if v.next == nil {
		_, tomorrow, err := s.day(ctx, t.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		v.next = prayer.NextAcross(prayers, tomorrow, t)
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printTodayJSON(out, s, v)
	}
	printTodayRich(out, s, v)
	return nil
}

// printTodayRich renders the colored terminal output for today's prayer schedule.
func printTodayRich(w io.Writer, s *session, v todayView) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Prayer Times"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s\n", v.location)
	fmt.Fprintf(w, "  %s\n", s.tz)
	fmt.Fprintf(w, "  %s\n", v.now.Format("Monday, 02 January 2006"))
	fmt.Fprintf(w, "  %s\n", hijri.FromGregorian(v.now))
	fmt.Fprintf(w, "  %s\n", display.Gray(fmt.Sprintf("%s · %s · %s", v.res.Method.Params().Name, v.res.Madhhab, v.res.Backend)))
	fmt.Fprintln(w)

	maxNameLen := 0
	for _, p := range v.prayers {
		maxNameLen = max(maxNameLen, len(p.Name))
	}

	for _, p := range v.prayers {
		line := fmt.Sprintf("  %-*s  %s", maxNameLen, p.Name, p.Time.Format(s.layout))

		switch {
		case v.current != nil && p.Name == v.current.Name:
			fmt.Fprintln(w, display.Dim(line))
		case v.next != nil && p.Name == v.next.Name && p.Time.Equal(v.next.Time):
			remaining := prayer.FormatRemaining(prayer.TimeRemaining(p, v.now))
			fmt.Fprintln(w, display.Accent(line)+display.Accent(fmt.Sprintf("  <- next in %s", remaining)))
		default:
			fmt.Fprintln(w, line)
		}
	}

	if v.next != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s %s  %s\n",
			display.Bold(v.next.Name),
			display.Cyan(prayer.Countdown(prayer.TimeRemaining(*v.next, v.now))),
			display.Bar(progress(v), 20))
	}
	fmt.Fprintln(w)
}

// progress is how far now is through the interval ending at the next prayer.
func progress(v todayView) float64 {
	if v.next == nil || v.current == nil {
		return 0
	}
	return prayer.Progress(v.current.Time, v.next.Time, v.now)
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Location locationJSON      `json:"location"`
	Date     todayJSONDate     `json:"date"`
	Method   string            `json:"method"`
	Madhhab  string            `json:"madhhab"`
	Backend  string            `json:"backend"`
	Timings  map[string]string `json:"timings"`
	ISO      map[string]string `json:"iso"`
	Current  string            `json:"current"`
	Next     *todayJSONNext    `json:"next"`
}

type todayJSONDate struct {
	Gregorian string `json:"gregorian"`
	Hijri     string `json:"hijri"`
}

type todayJSONNext struct {
	Prayer    string  `json:"prayer"`
	Time      string  `json:"time"`
	Remaining string  `json:"remaining"`
	Countdown string  `json:"countdown"`
	Progress  float64 `json:"progress"`
}

// printTodayJSON renders structured JSON output.
func printTodayJSON(w io.Writer, s *session, v todayView) error {
	timings := make(map[string]string, len(v.prayers))
	for _, p := range v.prayers {
		timings[strings.ToLower(p.Name)] = p.Time.Format(s.layout)
	}

	out := todayJSON{
		Location: s.locationJSON(),
		Date: todayJSONDate{
			Gregorian: v.now.Format("02 Jan 2006"),
			Hijri:     hijri.FromGregorian(v.now).String(),
		},
		Method:  v.res.Method.String(),
		Madhhab: v.res.Madhhab.String(),
		Backend: v.res.Backend,
		Timings: timings,
		ISO:     v.res.ISO(),
	}

	if v.current != nil {
		out.Current = strings.ToLower(v.current.Name)
	}
	if v.next != nil {
		d := prayer.TimeRemaining(*v.next, v.now)
		out.Next = &todayJSONNext{
			Prayer:    strings.ToLower(v.next.Name),
			Time:      v.next.Time.Format(s.layout),
			Remaining: prayer.FormatRemaining(d),
			Countdown: prayer.Countdown(d),
			Progress:  progress(v),
		}
	}

	return writeJSON(w, out)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
