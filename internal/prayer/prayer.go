// Package prayer turns a day's computed instants into an ordered schedule
// and answers "what's next" questions about it.
package prayer

import (
	"fmt"
	"slices"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/solar"
)

// Prayer represents a single prayer with its name and time.
type Prayer struct {
	Name string
	Time time.Time
}

// DefaultPrayerNames are the prayers tracked by default.
var DefaultPrayerNames = slices.Clone(solar.Names)

// ShortNames maps full prayer names to single-character abbreviations.
var ShortNames = map[string]string{
	"Fajr":    "F",
	"Sunrise": "S",
	"Dhuhr":   "D",
	"Asr":     "A",
	"Maghrib": "M",
	"Isha":    "I",
}

// FromTimes builds the schedule for the selected prayer names, in
// chronological order. An empty selection means DefaultPrayerNames.
func FromTimes(times solar.Times, selected []string) ([]Prayer, error) {
	if len(selected) == 0 {
		selected = DefaultPrayerNames
	}

	prayers := make([]Prayer, 0, len(selected))
	for _, name := range selected {
		at, ok := times.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown prayer name: %s", name)
		}
		prayers = append(prayers, Prayer{Name: name, Time: at})
	}

	slices.SortStableFunc(prayers, func(a, b Prayer) int {
		return a.Time.Compare(b.Time)
	})
	return prayers, nil
}

// NextPrayer finds the next upcoming prayer from the given slice, relative to now.
// If all prayers for today have passed, it returns nil (caller should use tomorrow's schedule).
func NextPrayer(prayers []Prayer, now time.Time) *Prayer {
	for i := range prayers {
		if prayers[i].Time.After(now) {
			return &prayers[i]
		}
	}
	return nil
}

// CurrentPrayer returns the latest prayer at or before now, or nil when now
// is before the first one.
func CurrentPrayer(prayers []Prayer, now time.Time) *Prayer {
	var cur *Prayer
	for i := range prayers {
		if prayers[i].Time.After(now) {
			break
		}
		cur = &prayers[i]
	}
	return cur
}

// NextAcross looks for the next prayer today and then tomorrow.
func NextAcross(today, tomorrow []Prayer, now time.Time) *Prayer {
	if p := NextPrayer(today, now); p != nil {
		return p
	}
	return NextPrayer(tomorrow, now)
}

// TimeRemaining returns the duration until the given prayer time.
func TimeRemaining(prayer Prayer, now time.Time) time.Duration {
	return prayer.Time.Sub(now)
}

// Progress reports how far now is between from and to, in [0, 1].
func Progress(from, to, now time.Time) float64 {
	total := to.Sub(from)
	if total <= 0 {
		return 1
	}
	frac := float64(now.Sub(from)) / float64(total)
	return max(0, min(1, frac))
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// Countdown formats a duration as "HH:MM:SS".
func Countdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d.Truncate(time.Second).Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s/60%60, s%60)
}
