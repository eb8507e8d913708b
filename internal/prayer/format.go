package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Format constants for display modes.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatCountdown          = "countdown"
	FormatFull               = "full"
)

// Formats lists the built-in modes.
var Formats = []string{
	FormatTimeRemaining,
	FormatNextPrayerTime,
	FormatNameAndTime,
	FormatNameAndRemaining,
	FormatShortNameAndTime,
	FormatShortNameAndRemain,
	FormatCountdown,
	FormatFull,
}

// Clock layouts for the time_format setting.
const (
	Layout24h = "15:04"
	Layout12h = "3:04 PM"
)

// Layout maps a time_format value ("12h" or "24h") to a clock layout.
func Layout(timeFormat string) string {
	if timeFormat == "12h" {
		return Layout12h
	}
	return Layout24h
}

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Name      string // Full prayer name, e.g. "Asr"
	ShortName string // Abbreviated name, e.g. "A"
	Time      string // Formatted prayer time, e.g. "15:02" or "3:02 PM"
	Remaining string // Time remaining, e.g. "2h 15m"
	Countdown string // Time remaining, e.g. "02:15:00"
	Hours     int    // Whole hours remaining
	Minutes   int    // Remaining minutes after hours
}

// builtin renders each named mode from the template data.
var builtin = map[string]func(FormatData) string{
	FormatTimeRemaining:      func(d FormatData) string { return d.Remaining },
	FormatNextPrayerTime:     func(d FormatData) string { return d.Time },
	FormatNameAndTime:        func(d FormatData) string { return d.Name + " " + d.Time },
	FormatNameAndRemaining:   func(d FormatData) string { return d.Name + " " + d.Remaining },
	FormatShortNameAndTime:   func(d FormatData) string { return d.ShortName + " " + d.Time },
	FormatShortNameAndRemain: func(d FormatData) string { return d.ShortName + " " + d.Remaining },
	FormatCountdown:          func(d FormatData) string { return d.Name + " " + d.Countdown },
	FormatFull:               func(d FormatData) string { return fmt.Sprintf("%s %s (%s)", d.Name, d.Time, d.Remaining) },
}

// NewFormatData collects the fields a format can show for p at now.
func NewFormatData(p Prayer, now time.Time, layout string) FormatData {
	d := TimeRemaining(p, now)
	return FormatData{
		Name:      p.Name,
		ShortName: ShortNames[p.Name],
		Time:      p.Time.Format(layout),
		Remaining: FormatRemaining(d),
		Countdown: Countdown(d),
		Hours:     int(d.Hours()),
		Minutes:   int(d.Minutes()) % 60,
	}
}

// FormatOutput renders p in one of the built-in modes, or through mode as
// a Go template when it contains "{{", e.g.
// "{{.Name}} in {{.Remaining}}" -> "Asr in 2h 15m". Unknown modes fall
// back to name-and-time. layout is a clock layout such as Layout24h.
func FormatOutput(p Prayer, now time.Time, mode string, layout string) string {
	data := NewFormatData(p, now, layout)
	if strings.Contains(mode, "{{") {
		return formatCustom(mode, data)
	}
	render, ok := builtin[mode]
	if !ok {
		render = builtin[FormatNameAndTime]
	}
	return render(data)
}

// formatCustom executes a user-provided Go template string against the FormatData.
func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}
	return buf.String()
}
