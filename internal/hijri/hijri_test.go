package hijri

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFromGregorian(t *testing.T) {
	tests := []struct {
		date string
		want Date
		str  string
	}{
		{"2025-05-12", Date{28, 2, "Rabi' al-Awwal", 1445}, "28 Rabi' al-Awwal 1445 AH"},
		{"2024-01-01", Date{17, 10, "Dhu al-Qi'dah", 1444}, "17 Dhu al-Qi'dah 1444 AH"},
		{"2026-12-31", Date{17, 9, "Shawwal", 1446}, "17 Shawwal 1446 AH"},
		{"2025-03-15", Date{1, 0, "Muharram", 1445}, "1 Muharram 1445 AH"},
		{"2025-03-14", Date{30, 0, "Muharram", 1445}, "30 Muharram 1445 AH"},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := time.Parse("2006-01-02", tt.date)
			if err != nil {
				t.Fatal(err)
			}
			got := FromGregorian(d)
			if got != tt.want {
				t.Errorf("FromGregorian(%s) = %+v, want %+v", tt.date, got, tt.want)
			}
			if got.String() != tt.str {
				t.Errorf("String() = %q, want %q", got.String(), tt.str)
			}
		})
	}
}

func TestFromGregorian_UsesCivilDayOfLocation(t *testing.T) {
	// 23:30 in UTC-8 on the 14th is already the 15th in UTC.
	loc := time.FixedZone("PST", -8*3600)
	local := time.Date(2025, 3, 14, 23, 30, 0, 0, loc)

	if got := FromGregorian(local).Day; got != 30 {
		t.Errorf("local day = %d, want 30", got)
	}
	if got := FromGregorian(local.UTC()).Day; got != 1 {
		t.Errorf("UTC day = %d, want 1", got)
	}
}

func TestFromGregorian_Ranges(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 366*2; i++ {
		d := FromGregorian(start.AddDate(0, 0, i))
		if d.Day < 1 || d.Day > 30 {
			t.Fatalf("day %d out of range on %s", d.Day, start.AddDate(0, 0, i))
		}
		if d.MonthIndex < 0 || d.MonthIndex > 11 {
			t.Fatalf("month %d out of range", d.MonthIndex)
		}
		if d.MonthName != MonthNames[d.MonthIndex] {
			t.Fatalf("month name %q does not match index %d", d.MonthName, d.MonthIndex)
		}
	}
}

func TestFromGregorian_Stable(t *testing.T) {
	d := time.Date(2025, 9, 3, 17, 0, 0, 0, time.UTC)
	if FromGregorian(d) != FromGregorian(d) {
		t.Error("FromGregorian is not deterministic")
	}
}

func TestMonthLabel(t *testing.T) {
	d := time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)
	if got, want := MonthLabel(d), "Rabi' al-Awwal 1445 AH"; got != want {
		t.Errorf("MonthLabel() = %q, want %q", got, want)
	}
}

func TestDate_JSON(t *testing.T) {
	b, err := json.Marshal(FromGregorian(time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"day":28,"monthIndex":2,"monthName":"Rabi' al-Awwal","year":1445}`
	if string(b) != want {
		t.Errorf("json = %s, want %s", b, want)
	}
}
