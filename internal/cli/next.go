package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/miqat/internal/prayer"
	"github.com/smokyabdulrahman/miqat/internal/service"
)

var (
	flagFormat  string
	flagPrayers string
)

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long:  "Display the next upcoming prayer time with a countdown.\nAfter Isha the next prayer is tomorrow's Fajr.",
		RunE:  runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: "+strings.Join(prayer.Formats, ", ")+", or a custom Go template")
	cmd.Flags().StringVar(&flagPrayers, "prayers", "", "Comma-separated list of prayers to track (overrides config)")

	return cmd
}

type nextJSON struct {
	Prayer    string `json:"prayer"`
	Time      string `json:"time"`
	ISO       string `json:"iso"`
	Remaining string `json:"remaining"`
	Countdown string `json:"countdown"`
}

func runNext(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	// Priority: --prayers flag > config > defaults.
	if cmd.Flags().Changed("prayers") && flagPrayers != "" {
		s.prayers = nil
		for _, n := range strings.Split(flagPrayers, ",") {
			if n = strings.TrimSpace(n); n != "" {
				s.prayers = append(s.prayers, n)
			}
		}
	}

	ctx := cmdContext(cmd)
	t := now().In(s.tz)

	_, today, err := s.day(ctx, t)
	if err != nil {
		return err
	}
	next := prayer.NextPrayer(today, t)
	if next == nil {
		_, tomorrow, err := s.day(ctx, t.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		next = prayer.NextAcross(today, tomorrow, t)
	}
	if next == nil {
		return fmt.Errorf("could not determine next prayer")
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		d := prayer.TimeRemaining(*next, t)
		return writeJSON(out, nextJSON{
			Prayer:    strings.ToLower(next.Name),
			Time:      next.Time.Format(s.layout),
			ISO:       service.FormatISO(next.Time),
			Remaining: prayer.FormatRemaining(d),
			Countdown: prayer.Countdown(d),
		})
	}

	fmt.Fprint(out, prayer.FormatOutput(*next, t, flagFormat, s.layout))
	return nil
}
