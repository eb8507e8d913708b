package hijri

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Importance ranks a holiday.
type Importance int

const (
	Major Importance = iota
	Minor
)

func (i Importance) String() string {
	if i == Minor {
		return "minor"
	}
	return "major"
}

// MarshalText encodes the importance as "major" or "minor".
func (i Importance) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText accepts "major" or "minor" in any case.
func (i *Importance) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "major":
		*i = Major
	case "minor":
		*i = Minor
	default:
		return fmt.Errorf("invalid importance %q", b)
	}
	return nil
}

// Holiday is one entry of the yearly table.
type Holiday struct {
	Name        string     `json:"name"`
	Date        time.Time  `json:"date"`
	Hijri       Date       `json:"hijri"`
	Description string     `json:"description"`
	Importance  Importance `json:"importance"`
}

// HijriLabel is the approximate Hijri date of the holiday, e.g.
// "28 Rabi' al-Awwal 1445 AH".
func (h Holiday) HijriLabel() string {
	return h.Hijri.String()
}

type holidayEntry struct {
	name        string
	month       time.Month
	day         int
	description string
	importance  Importance
}

// The table keeps the same civil month/day every year.
var holidayTable = []holidayEntry{
	{"Islamic New Year", time.August, 8, "The beginning of the Islamic lunar calendar year.", Major},
	{"Ashura", time.August, 17, "The Day of Ashura commemorates the martyrdom of Imam Hussein.", Minor},
	{"Mawlid al-Nabi", time.October, 18, "Celebration of the birth of Prophet Muhammad (PBUH).", Major},
	{"Laylat al-Mi'raj", time.March, 22, "Commemorates the night journey of Prophet Muhammad (PBUH) to Jerusalem and his ascension to heaven.", Minor},
	{"Beginning of Ramadan", time.April, 12, "The beginning of the holy month of fasting.", Major},
	{"Laylat al-Qadr", time.May, 8, "The Night of Power, when the first verses of the Quran were revealed to Prophet Muhammad (PBUH).", Minor},
	{"Eid al-Fitr", time.May, 12, "The Festival of Breaking the Fast, marking the end of Ramadan.", Major},
	{"Day of Arafah", time.July, 19, "The day when pilgrims gather on Mount Arafah during Hajj.", Minor},
	{"Eid al-Adha", time.July, 20, "The Festival of Sacrifice, commemorating Prophet Ibrahim's willingness to sacrifice his son.", Major},
}

// HolidaysForYear returns the nine holidays of the given Gregorian year in
// table order (not chronological). Dates are midnight UTC.
func HolidaysForYear(year int) []Holiday {
	out := make([]Holiday, 0, len(holidayTable))
	for _, e := range holidayTable {
		date := time.Date(year, e.month, e.day, 0, 0, 0, 0, time.UTC)
		out = append(out, Holiday{
			Name:        e.name,
			Date:        date,
			Hijri:       FromGregorian(date),
			Description: e.description,
			Importance:  e.importance,
		})
	}
	return out
}

// Chronological returns a copy of hs sorted by date. Ties keep table order.
func Chronological(hs []Holiday) []Holiday {
	out := make([]Holiday, len(hs))
	copy(out, hs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// MonthGroup is the set of holidays falling in one Gregorian month.
type MonthGroup struct {
	Month    time.Month `json:"month"`
	Holidays []Holiday  `json:"holidays"`
}

// GroupByMonth groups hs by Gregorian month, January first. Months without
// holidays are omitted and each group is chronological.
func GroupByMonth(hs []Holiday) []MonthGroup {
	byMonth := make(map[time.Month][]Holiday)
	for _, h := range Chronological(hs) {
		byMonth[h.Date.Month()] = append(byMonth[h.Date.Month()], h)
	}

	var groups []MonthGroup
	for m := time.January; m <= time.December; m++ {
		if len(byMonth[m]) > 0 {
			groups = append(groups, MonthGroup{Month: m, Holidays: byMonth[m]})
		}
	}
	return groups
}

// Upcoming returns the holidays on or after the civil day of now, in
// chronological order.
func Upcoming(hs []Holiday, now time.Time) []Holiday {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var out []Holiday
	for _, h := range Chronological(hs) {
		if !h.Date.Before(today) {
			out = append(out, h)
		}
	}
	return out
}

// Count returns the number of major and minor holidays in hs.
func Count(hs []Holiday) (major, minor int) {
	for _, h := range hs {
		if h.Importance == Minor {
			minor++
		} else {
			major++
		}
	}
	return major, minor
}
