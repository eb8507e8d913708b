package solar

import (
	"errors"
	"math"
	"testing"
	"time"
)

// assertClock checks that got shows the wall-clock time want (HH:MM:SS)
// within one second.
func assertClock(t *testing.T, label string, got time.Time, want string) {
	t.Helper()
	w, err := time.Parse("15:04:05", want)
	if err != nil {
		t.Fatalf("bad want %q: %v", want, err)
	}
	gotSec := got.Hour()*3600 + got.Minute()*60 + got.Second()
	if got.Nanosecond() >= 5e8 {
		gotSec++
	}
	wantSec := w.Hour()*3600 + w.Minute()*60 + w.Second()
	if gotSec != wantSec {
		t.Errorf("%s = %s, want %s", label, got.Format("15:04:05.000"), want)
	}
}

func within(a, b time.Time, tol time.Duration) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// ---------------------------------------------------------------------------
// Coordinate
// ---------------------------------------------------------------------------

func TestCoordinate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       Coordinate
		wantErr bool
		field   string
	}{
		{"origin", Coordinate{0, 0}, false, ""},
		{"los angeles", Coordinate{34.0522, -118.2437}, false, ""},
		{"boundaries", Coordinate{90, 180}, false, ""},
		{"negative boundaries", Coordinate{-90, -180}, false, ""},
		{"latitude too high", Coordinate{90.01, 0}, true, "latitude"},
		{"latitude too low", Coordinate{-91, 0}, true, "latitude"},
		{"longitude too high", Coordinate{0, 180.5}, true, "longitude"},
		{"longitude too low", Coordinate{0, -200}, true, "longitude"},
		{"latitude NaN", Coordinate{math.NaN(), 0}, true, "latitude"},
		{"longitude NaN", Coordinate{0, math.NaN()}, true, "longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidCoordinate) {
				t.Errorf("error %v should wrap ErrInvalidCoordinate", err)
			}
			var ce *CoordinateError
			if !errors.As(err, &ce) {
				t.Fatalf("error %T should be *CoordinateError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestCompute_RejectsInvalidCoordinate(t *testing.T) {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, model := range []Model{ModelApproximate, ModelAstronomical} {
		_, err := NewEngine(model).Compute(date, Coordinate{Latitude: 120}, Shafii, NorthAmerica)
		if !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("%s: err = %v, want ErrInvalidCoordinate", model, err)
		}
	}
}

// ---------------------------------------------------------------------------
// Tables
// ---------------------------------------------------------------------------

func TestMethodParams_Complete(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Methods {
		p := m.Params()
		if p.Key == "" || p.Name == "" {
			t.Errorf("method %d has empty key or name", m)
		}
		if seen[p.Key] {
			t.Errorf("duplicate method key %q", p.Key)
		}
		seen[p.Key] = true
		if p.FajrAngle <= 0 {
			t.Errorf("%s: FajrAngle = %v, want > 0", p.Key, p.FajrAngle)
		}
		if p.IshaAngle <= 0 && p.IshaInterval <= 0 {
			t.Errorf("%s: needs an Isha angle or interval", p.Key)
		}
	}
}

func TestMethodParams_OtherUsesNorthAmericaAngles(t *testing.T) {
	other, na := Other.Params(), NorthAmerica.Params()
	if other.FajrAngle != na.FajrAngle || other.IshaAngle != na.IshaAngle {
		t.Errorf("Other angles = %v/%v, want %v/%v", other.FajrAngle, other.IshaAngle, na.FajrAngle, na.IshaAngle)
	}
	if other.Key != "other" {
		t.Errorf("Other key = %q, want %q", other.Key, "other")
	}
}

func TestMethodParams_UmmAlQuraUsesInterval(t *testing.T) {
	if got := UmmAlQura.Params().IshaInterval; got != 90*time.Minute {
		t.Errorf("UmmAlQura IshaInterval = %v, want 90m", got)
	}
}

func TestMadhhab_ShadowFactor(t *testing.T) {
	if Shafii.ShadowFactor() != 1 {
		t.Errorf("Shafii shadow factor = %v, want 1", Shafii.ShadowFactor())
	}
	if Hanafi.ShadowFactor() != 2 {
		t.Errorf("Hanafi shadow factor = %v, want 2", Hanafi.ShadowFactor())
	}
	if Madhhab(42).ShadowFactor() != 1 {
		t.Error("unknown madhhab should default to shadow factor 1")
	}
}

func TestParseModel(t *testing.T) {
	tests := []struct {
		in      string
		want    Model
		wantErr bool
	}{
		{"", ModelApproximate, false},
		{"approximate", ModelApproximate, false},
		{"Astronomical", ModelAstronomical, false},
		{" astro ", ModelAstronomical, false},
		{"lunar", ModelApproximate, true},
	}
	for _, tt := range tests {
		got, err := ParseModel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseModel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseModel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Approximate model
// ---------------------------------------------------------------------------

func TestDeclination(t *testing.T) {
	// Day 355 puts the cosine argument at a full turn.
	if got := Declination(355); math.Abs(got+23.45) > 1e-9 {
		t.Errorf("Declination(355) = %v, want -23.45", got)
	}
	if got := Declination(172); got < 23.4 || got > 23.45 {
		t.Errorf("Declination(172) = %v, want ~23.45", got)
	}
	if got := Declination(81); math.Abs(got) > 1.5 {
		t.Errorf("Declination(81) = %v, want near 0 at the equinox", got)
	}
}

func TestApproximate_Equator(t *testing.T) {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	eng := NewEngine(ModelApproximate)

	got, err := eng.Compute(date, Coordinate{0, 0}, Shafii, NorthAmerica)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	assertClock(t, "Fajr", got.Fajr, "04:48:00")
	assertClock(t, "Sunrise", got.Sunrise, "06:00:00")
	assertClock(t, "Dhuhr", got.Dhuhr, "12:00:00")
	assertClock(t, "Asr", got.Asr, "15:30:00")
	assertClock(t, "Maghrib", got.Maghrib, "18:00:00")
	assertClock(t, "Isha", got.Isha, "19:08:00")

	mwl, _ := eng.Compute(date, Coordinate{0, 0}, Hanafi, MuslimWorldLeague)
	assertClock(t, "MWL Isha", mwl.Isha, "19:12:00")
	assertClock(t, "Hanafi Asr", mwl.Asr, "16:00:00")

	uaq, _ := eng.Compute(date, Coordinate{0, 0}, Shafii, UmmAlQura)
	assertClock(t, "UmmAlQura Isha", uaq.Isha, "19:12:00")
}

func TestApproximate_IntervalMethodsUseIshaAngle(t *testing.T) {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	eng := NewEngine(ModelApproximate)
	c := Coordinate{40, 0}

	karachi, err := eng.Compute(date, c, Shafii, Karachi)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	assertClock(t, "Karachi Isha", karachi.Isha, "18:40:00")

	for _, m := range []Method{UmmAlQura, Qatar} {
		got, err := eng.Compute(date, c, Shafii, m)
		if err != nil {
			t.Fatalf("Compute(%s) error: %v", m, err)
		}
		assertClock(t, m.String()+" Maghrib", got.Maghrib, "18:16:00")
		assertClock(t, m.String()+" Isha", got.Isha, "18:40:00")
	}
}

func TestApproximate_LatitudeAndLongitude(t *testing.T) {
	date := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	eng := NewEngine(ModelApproximate)

	north, err := eng.Compute(date, Coordinate{45, 7.5}, Hanafi, MuslimWorldLeague)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	assertClock(t, "Fajr", north.Fajr, "05:54:00")
	assertClock(t, "Sunrise", north.Sunrise, "06:12:00")
	assertClock(t, "Dhuhr", north.Dhuhr, "12:30:00")
	assertClock(t, "Asr", north.Asr, "16:30:00")
	assertClock(t, "Maghrib", north.Maghrib, "18:48:00")
	assertClock(t, "Isha", north.Isha, "19:06:00")

	south, err := eng.Compute(date, Coordinate{-45, -7.5}, Shafii, NorthAmerica)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	assertClock(t, "south Fajr", south.Fajr, "04:54:00")
	assertClock(t, "south Sunrise", south.Sunrise, "05:48:00")
	assertClock(t, "south Dhuhr", south.Dhuhr, "11:30:00")
	assertClock(t, "south Asr", south.Asr, "15:00:00")
	assertClock(t, "south Maghrib", south.Maghrib, "17:12:00")
	assertClock(t, "south Isha", south.Isha, "18:04:00")
}

func TestApproximate_UsesDateLocation(t *testing.T) {
	loc := time.FixedZone("UTC-7", -7*3600)
	date := time.Date(2026, 3, 1, 23, 30, 0, 0, loc)

	got, err := NewEngine(ModelApproximate).Compute(date, Coordinate{0, 0}, Shafii, NorthAmerica)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if got.Dhuhr.Location() != loc {
		t.Errorf("Dhuhr location = %v, want %v", got.Dhuhr.Location(), loc)
	}
	if got.Dhuhr.Day() != 1 || got.Dhuhr.Hour() != 12 {
		t.Errorf("Dhuhr = %v, want 12:00 on the 1st in UTC-7", got.Dhuhr)
	}
	want := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	if !got.Dhuhr.Equal(want) {
		t.Errorf("Dhuhr absolute = %v, want %v", got.Dhuhr.UTC(), want)
	}
}

func TestApproximate_DeclinationReported(t *testing.T) {
	date := time.Date(2026, 12, 21, 0, 0, 0, 0, time.UTC)
	got, _ := NewEngine(ModelApproximate).Compute(date, Coordinate{21.4, 39.8}, Shafii, UmmAlQura)
	if want := Declination(date.YearDay()); got.Declination != want {
		t.Errorf("Declination = %v, want %v", got.Declination, want)
	}
}

func TestApproximate_LongitudeBandShift(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	eng := NewEngine(ModelApproximate)

	base, _ := eng.Compute(date, Coordinate{30, 0}, Shafii, Karachi)
	shifted, _ := eng.Compute(date, Coordinate{30, 14.25}, Shafii, Karachi)
	wrapped, _ := eng.Compute(date, Coordinate{30, 15}, Shafii, Karachi)

	want := 57 * time.Minute
	base.Each(func(name string, at time.Time) {
		s, _ := shifted.Get(name)
		if d := s.Sub(at); !within(s, at.Add(want), time.Second) {
			t.Errorf("%s shifted by %v, want %v", name, d, want)
		}
		w, _ := wrapped.Get(name)
		if !w.Equal(at) {
			t.Errorf("%s at lon 15 = %v, want same as lon 0 (%v)", name, w, at)
		}
	})
}

// ---------------------------------------------------------------------------
// Astronomical model
// ---------------------------------------------------------------------------

func TestAstronomical_Makkah(t *testing.T) {
	date := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)
	got, err := NewEngine(ModelAstronomical).Compute(date, Coordinate{21.4225, 39.8262}, Shafii, UmmAlQura)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}

	checks := []struct {
		name string
		got  time.Time
		want time.Time
	}{
		{"Sunrise", got.Sunrise, time.Date(2025, 6, 21, 2, 38, 0, 0, time.UTC)},
		{"Dhuhr", got.Dhuhr, time.Date(2025, 6, 21, 9, 22, 0, 0, time.UTC)},
		{"Maghrib", got.Maghrib, time.Date(2025, 6, 21, 16, 6, 0, 0, time.UTC)},
	}
	for _, c := range checks {
		if !within(c.got, c.want, 5*time.Minute) {
			t.Errorf("%s = %v, want ~%v", c.name, c.got.UTC().Format("15:04"), c.want.Format("15:04"))
		}
	}
	if d := got.Isha.Sub(got.Maghrib); d != 90*time.Minute {
		t.Errorf("Isha - Maghrib = %v, want 90m", d)
	}
	if got.Declination < 23 || got.Declination > 23.5 {
		t.Errorf("Declination = %v, want ~23.44", got.Declination)
	}
}

func TestAstronomical_ReturnsDateLocation(t *testing.T) {
	loc := time.FixedZone("AST", 3*3600)
	date := time.Date(2025, 6, 21, 0, 0, 0, 0, loc)
	got, err := NewEngine(ModelAstronomical).Compute(date, Coordinate{21.4225, 39.8262}, Shafii, MuslimWorldLeague)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	got.Each(func(name string, at time.Time) {
		if at.Location() != loc {
			t.Errorf("%s location = %v, want %v", name, at.Location(), loc)
		}
	})
}

func TestAstronomical_LongitudeShiftsOneHour(t *testing.T) {
	date := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	eng := NewEngine(ModelAstronomical)

	east, err := eng.Compute(date, Coordinate{30, 0}, Shafii, NorthAmerica)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	west, err := eng.Compute(date, Coordinate{30, -15}, Shafii, NorthAmerica)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}

	east.Each(func(name string, at time.Time) {
		w, _ := west.Get(name)
		if !within(w, at.Add(time.Hour), 2*time.Minute) {
			t.Errorf("%s: lon -15 = %v, want ~1h after lon 0 (%v)", name, w.Format("15:04"), at.Format("15:04"))
		}
	})
}

func TestAstronomical_UnreachableTwilight(t *testing.T) {
	date := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)
	eng := NewEngine(ModelAstronomical)

	// London at midsummer never gets 18° below the horizon.
	_, err := eng.Compute(date, Coordinate{51.5, -0.12}, Shafii, MuslimWorldLeague)
	if !errors.Is(err, ErrUnreachableAngle) {
		t.Errorf("London MWL err = %v, want ErrUnreachableAngle", err)
	}

	// Svalbard has no sunset at all.
	_, err = eng.Compute(date, Coordinate{78.2, 15.6}, Shafii, NorthAmerica)
	if !errors.Is(err, ErrUnreachableAngle) {
		t.Errorf("Svalbard err = %v, want ErrUnreachableAngle", err)
	}
}

// ---------------------------------------------------------------------------
// Properties shared by both models
// ---------------------------------------------------------------------------

func TestCompute_OrderingApproximate(t *testing.T) {
	eng := NewEngine(ModelApproximate)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for day := 0; day < 365; day++ {
		date := start.AddDate(0, 0, day)
		for lat := -55.0; lat <= 55; lat += 5 {
			for _, m := range Methods {
				for _, mh := range []Madhhab{Shafii, Hanafi} {
					got, err := eng.Compute(date, Coordinate{lat, -118.24}, mh, m)
					if err != nil {
						t.Fatalf("Compute error: %v", err)
					}
					if !got.Ordered() {
						t.Fatalf("not ordered on %s lat=%v method=%s madhhab=%s: %+v",
							date.Format("2006-01-02"), lat, m, mh, got)
					}
				}
			}
		}
	}
}

func TestCompute_OrderingAstronomical(t *testing.T) {
	eng := NewEngine(ModelAstronomical)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for day := 0; day < 365; day += 3 {
		date := start.AddDate(0, 0, day)
		for lat := -45.0; lat <= 45; lat += 15 {
			for _, m := range Methods {
				for _, mh := range []Madhhab{Shafii, Hanafi} {
					got, err := eng.Compute(date, Coordinate{lat, 31.2}, mh, m)
					if err != nil {
						t.Fatalf("Compute error on %s lat=%v method=%s: %v", date.Format("2006-01-02"), lat, m, err)
					}
					if !got.Ordered() {
						t.Fatalf("not ordered on %s lat=%v method=%s madhhab=%s: %+v",
							date.Format("2006-01-02"), lat, m, mh, got)
					}
				}
			}
		}
	}
}

func TestCompute_HanafiAsrNotEarlier(t *testing.T) {
	date := time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC)
	coords := []Coordinate{{34.05, -118.24}, {-33.87, 151.21}, {0, 0}, {40.71, -74.0}}

	for _, model := range []Model{ModelApproximate, ModelAstronomical} {
		eng := NewEngine(model)
		for _, c := range coords {
			shafii, err := eng.Compute(date, c, Shafii, MuslimWorldLeague)
			if err != nil {
				t.Fatalf("Compute error: %v", err)
			}
			hanafi, err := eng.Compute(date, c, Hanafi, MuslimWorldLeague)
			if err != nil {
				t.Fatalf("Compute error: %v", err)
			}
			if hanafi.Asr.Before(shafii.Asr) {
				t.Errorf("%s %v: Hanafi Asr %v before Shafii Asr %v", model, c, hanafi.Asr, shafii.Asr)
			}
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	date := time.Date(2026, 4, 12, 8, 0, 0, 0, time.UTC)
	c := Coordinate{41.0082, 28.9784}

	for _, model := range []Model{ModelApproximate, ModelAstronomical} {
		eng := NewEngine(model)
		a, errA := eng.Compute(date, c, Hanafi, Egyptian)
		b, errB := eng.Compute(date, c, Hanafi, Egyptian)
		if errA != nil || errB != nil {
			t.Fatalf("Compute errors: %v, %v", errA, errB)
		}
		if a != b {
			t.Errorf("%s: repeated Compute differs: %+v vs %+v", model, a, b)
		}
	}
}

// ---------------------------------------------------------------------------
// Times helpers
// ---------------------------------------------------------------------------

func TestTimes_EachOrderAndGet(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tm := Times{
		Fajr: base.Add(5 * time.Hour), Sunrise: base.Add(6 * time.Hour), Dhuhr: base.Add(12 * time.Hour),
		Asr: base.Add(15 * time.Hour), Maghrib: base.Add(18 * time.Hour), Isha: base.Add(19 * time.Hour),
	}

	var names []string
	tm.Each(func(name string, at time.Time) {
		names = append(names, name)
		got, ok := tm.Get(name)
		if !ok || !got.Equal(at) {
			t.Errorf("Get(%q) = %v, %v; want %v", name, got, ok, at)
		}
	})
	for i, n := range Names {
		if names[i] != n {
			t.Errorf("Each order[%d] = %q, want %q", i, names[i], n)
		}
	}
	if _, ok := tm.Get("Tahajjud"); ok {
		t.Error("Get(Tahajjud) should report false")
	}
	if !tm.Ordered() {
		t.Error("Ordered() = false for an ordered schedule")
	}

	tm.Isha = tm.Maghrib
	if tm.Ordered() {
		t.Error("Ordered() = true when Isha equals Maghrib")
	}
}
