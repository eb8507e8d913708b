// Package hijri converts civil dates to an approximate Hijri date and
// provides the yearly table of Islamic holidays.
//
// The conversion is a fixed arithmetic mapping, not an astronomical or
// tabular Islamic calendar. It is only meaningful for Gregorian years after
// 622.
package hijri

import (
	"fmt"
	"math"
	"time"
)

// EraSuffix is appended to Hijri years.
const EraSuffix = "AH"

// MonthNames are the twelve Hijri months, indexed from 0.
var MonthNames = [12]string{
	"Muharram",
	"Safar",
	"Rabi' al-Awwal",
	"Rabi' al-Thani",
	"Jumada al-Awwal",
	"Jumada al-Thani",
	"Rajab",
	"Sha'ban",
	"Ramadan",
	"Shawwal",
	"Dhu al-Qi'dah",
	"Dhu al-Hijjah",
}

// Date is an approximate Hijri date.
type Date struct {
	Day        int    `json:"day"`
	MonthIndex int    `json:"monthIndex"`
	MonthName  string `json:"monthName"`
	Year       int    `json:"year"`
}

// FromGregorian maps the civil date of t (in t's location) to a Hijri date.
func FromGregorian(t time.Time) Date {
	y, m, d := t.Date()
	month := (int(m) - 1 + 10) % 12
	return Date{
		Day:        (d+15)%30 + 1,
		MonthIndex: month,
		MonthName:  MonthNames[month],
		Year:       hijriYear(y),
	}
}

func hijriYear(gregorian int) int {
	elapsed := float64(gregorian - 622)
	return int(math.Floor(elapsed + elapsed/33))
}

// String renders the date as "28 Rabi' al-Awwal 1445 AH".
func (d Date) String() string {
	return fmt.Sprintf("%d %s %d %s", d.Day, d.MonthName, d.Year, EraSuffix)
}

// MonthLabel renders only the month and year, e.g. "Rabi' al-Awwal 1445 AH".
func (d Date) MonthLabel() string {
	return fmt.Sprintf("%s %d %s", d.MonthName, d.Year, EraSuffix)
}

// MonthLabel returns the Hijri month label for the civil date of t.
func MonthLabel(t time.Time) string {
	return FromGregorian(t).MonthLabel()
}
