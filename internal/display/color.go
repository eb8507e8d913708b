// Package display styles terminal output with lipgloss.
//
// It respects the NO_COLOR environment variable (https://no-color.org/) and
// detects whether stdout is a terminal. Colors are automatically disabled when
// output is piped or redirected, or when NO_COLOR is set.
package display

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	colorAccent = lipgloss.Color("6")
	colorGood   = lipgloss.Color("2")
	colorWarn   = lipgloss.Color("3")
	colorMuted  = lipgloss.Color("8")
)

// renderer owns the color profile every style renders with.
var renderer = lipgloss.NewRenderer(os.Stdout)

var (
	boldStyle   lipgloss.Style
	dimStyle    lipgloss.Style
	greenStyle  lipgloss.Style
	yellowStyle lipgloss.Style
	cyanStyle   lipgloss.Style
	grayStyle   lipgloss.Style
	accentStyle lipgloss.Style
)

// enabled reports whether color output is active.
var enabled bool

func init() {
	SetEnabled(shouldEnable())
}

// shouldEnable determines whether to use color output.
func shouldEnable() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	// Ascii when stdout is piped or redirected.
	return termenv.NewOutput(os.Stdout).EnvColorProfile() != termenv.Ascii
}

// SetEnabled overrides the auto-detected color state.
// Useful for testing or when --json forces plain output.
func SetEnabled(b bool) {
	enabled = b
	if b {
		renderer.SetColorProfile(termenv.ANSI)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}
	buildStyles()
}

func buildStyles() {
	base := renderer.NewStyle()
	boldStyle = base.Bold(true)
	dimStyle = base.Faint(true)
	greenStyle = base.Foreground(colorGood)
	yellowStyle = base.Foreground(colorWarn)
	cyanStyle = base.Foreground(colorAccent)
	grayStyle = base.Foreground(colorMuted)
	accentStyle = base.Bold(true).Foreground(colorAccent)
}

// Enabled reports whether color output is currently active.
func Enabled() bool {
	return enabled
}

// Bold returns text rendered in bold.
func Bold(text string) string { return boldStyle.Render(text) }

// Dim returns text rendered faint.
func Dim(text string) string { return dimStyle.Render(text) }

// Green returns text rendered in green.
func Green(text string) string { return greenStyle.Render(text) }

// Yellow returns text rendered in yellow.
func Yellow(text string) string { return yellowStyle.Render(text) }

// Cyan returns text rendered in cyan.
func Cyan(text string) string { return cyanStyle.Render(text) }

// Gray returns text rendered in gray.
func Gray(text string) string { return grayStyle.Render(text) }

// Accent returns text rendered in the accent color (cyan + bold).
// Used for the "next prayer" highlight.
func Accent(text string) string { return accentStyle.Render(text) }

// Boldf formats and bolds a string.
func Boldf(format string, a ...any) string {
	return Bold(fmt.Sprintf(format, a...))
}

// Bar renders a progress bar of width cells filled to frac (clamped to
// [0, 1]).
func Bar(frac float64, width int) string {
	if width <= 0 {
		return ""
	}
	frac = max(0, min(1, frac))
	filled := int(frac*float64(width) + 0.5)
	return Cyan(strings.Repeat("█", filled)) + Gray(strings.Repeat("░", width-filled))
}

// Width is the printable width of s, ignoring ANSI sequences.
func Width(s string) int {
	return lipgloss.Width(s)
}
