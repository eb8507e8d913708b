package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/solar"
)

// Location returns the timezone the API reported, or fallback when it is
// missing or unknown to the local tz database.
func (m Meta) Location(fallback *time.Location) *time.Location {
	if m.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(m.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}

// Times converts the HH:MM timings into instants on the civil day of date,
// in the timezone reported by Meta. An Isha that wraps past midnight moves
// to the next day.
func (d Data) Times(date time.Time) (solar.Times, error) {
	loc := d.Meta.Location(date.Location())

	var t solar.Times
	raw := []struct {
		name string
		val  string
		dst  *time.Time
	}{
		{"Fajr", d.Timings.Fajr, &t.Fajr},
		{"Sunrise", d.Timings.Sunrise, &t.Sunrise},
		{"Dhuhr", d.Timings.Dhuhr, &t.Dhuhr},
		{"Asr", d.Timings.Asr, &t.Asr},
		{"Maghrib", d.Timings.Maghrib, &t.Maghrib},
		{"Isha", d.Timings.Isha, &t.Isha},
	}

	for _, r := range raw {
		at, err := parseTimeStr(r.val, date, loc)
		if err != nil {
			return solar.Times{}, fmt.Errorf("failed to parse time for %s (%q): %w", r.name, r.val, err)
		}
		*r.dst = at
	}

	if !t.Isha.After(t.Maghrib) {
		t.Isha = t.Isha.AddDate(0, 0, 1)
	}
	return t, nil
}

// parseTimeStr parses a time string like "15:02" or "15:02 (BST)" into a time.Time
// on the given date in the given location.
func parseTimeStr(raw string, date time.Time, loc *time.Location) (time.Time, error) {
	// Strip timezone suffix like " (BST)" that the API sometimes appends.
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}

	clock, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format: %q", raw)
	}

	y, m, d := date.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, loc), nil
}
