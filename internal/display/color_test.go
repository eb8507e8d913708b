package display

import (
	"strings"
	"testing"
)

func TestStyles_Enabled(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	funcs := []struct {
		name string
		fn   func(string) string
	}{
		{"Bold", Bold},
		{"Dim", Dim},
		{"Green", Green},
		{"Yellow", Yellow},
		{"Cyan", Cyan},
		{"Gray", Gray},
		{"Accent", Accent},
	}

	for _, f := range funcs {
		t.Run(f.name, func(t *testing.T) {
			got := f.fn("hello")
			if !strings.Contains(got, "\033[") {
				t.Errorf("%s(\"hello\") = %q, want ANSI escape codes", f.name, got)
			}
			if !strings.Contains(got, "hello") {
				t.Errorf("%s(\"hello\") = %q, lost the text", f.name, got)
			}
			if Width(got) != 5 {
				t.Errorf("Width(%q) = %d, want 5", got, Width(got))
			}
		})
	}
}

func TestBold_Enabled(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	got := Bold("hello")
	if !strings.HasPrefix(got, "\033[1") || !strings.HasSuffix(got, "\033[0m") {
		t.Errorf("Bold(\"hello\") = %q, want bold-wrapped", got)
	}
}

func TestAllColors_Disabled_ReturnPlainText(t *testing.T) {
	SetEnabled(false)

	funcs := []struct {
		name string
		fn   func(string) string
	}{
		{"Bold", Bold},
		{"Dim", Dim},
		{"Green", Green},
		{"Yellow", Yellow},
		{"Cyan", Cyan},
		{"Gray", Gray},
		{"Accent", Accent},
	}

	for _, f := range funcs {
		t.Run(f.name, func(t *testing.T) {
			got := f.fn("plain")
			if got != "plain" {
				t.Errorf("%s(\"plain\") with colors disabled = %q, want \"plain\"", f.name, got)
			}
		})
	}
}

func TestBoldf(t *testing.T) {
	SetEnabled(false)

	if got := Boldf("count: %d", 42); got != "count: 42" {
		t.Errorf("Boldf = %q, want %q", got, "count: 42")
	}
}

func TestEnabled_ReportsState(t *testing.T) {
	SetEnabled(true)
	if !Enabled() {
		t.Error("Enabled() should return true after SetEnabled(true)")
	}

	SetEnabled(false)
	if Enabled() {
		t.Error("Enabled() should return false after SetEnabled(false)")
	}
}

func TestShouldEnable_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("FORCE_COLOR", "1")

	if shouldEnable() {
		t.Error("NO_COLOR should win over FORCE_COLOR")
	}
}

func TestShouldEnable_ForceColor(t *testing.T) {
	t.Setenv("FORCE_COLOR", "1")

	if !shouldEnable() {
		t.Error("FORCE_COLOR should enable colors even when stdout is not a terminal")
	}
}

func TestBar(t *testing.T) {
	SetEnabled(false)

	tests := []struct {
		frac  float64
		width int
		want  string
	}{
		{0, 4, "░░░░"},
		{0.5, 4, "██░░"},
		{1, 4, "████"},
		{1.7, 4, "████"},
		{-1, 4, "░░░░"},
		{0.5, 0, ""},
	}

	for _, tt := range tests {
		if got := Bar(tt.frac, tt.width); got != tt.want {
			t.Errorf("Bar(%v, %d) = %q, want %q", tt.frac, tt.width, got, tt.want)
		}
	}
}
