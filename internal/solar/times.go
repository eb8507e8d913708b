package solar

import "time"

// Names lists the six instants in chronological order.
var Names = []string{"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha"}

// Times holds the six prayer instants for one civil day.
type Times struct {
	Fajr    time.Time
	Sunrise time.Time
	Dhuhr   time.Time
	Asr     time.Time
	Maghrib time.Time
	Isha    time.Time

	// Declination of the sun for the day, in degrees.
	Declination float64
}

// Each calls fn for every instant in chronological order.
func (t Times) Each(fn func(name string, at time.Time)) {
	fn("Fajr", t.Fajr)
	fn("Sunrise", t.Sunrise)
	fn("Dhuhr", t.Dhuhr)
	fn("Asr", t.Asr)
	fn("Maghrib", t.Maghrib)
	fn("Isha", t.Isha)
}

// Get returns the instant with the given name (case-sensitive, as in Names).
func (t Times) Get(name string) (time.Time, bool) {
	switch name {
	case "Fajr":
		return t.Fajr, true
	case "Sunrise":
		return t.Sunrise, true
	case "Dhuhr":
		return t.Dhuhr, true
	case "Asr":
		return t.Asr, true
	case "Maghrib":
		return t.Maghrib, true
	case "Isha":
		return t.Isha, true
	}
	return time.Time{}, false
}

// Ordered reports whether fajr < sunrise < dhuhr < asr < maghrib < isha.
func (t Times) Ordered() bool {
	seq := []time.Time{t.Fajr, t.Sunrise, t.Dhuhr, t.Asr, t.Maghrib, t.Isha}
	for i := 1; i < len(seq); i++ {
		if !seq[i-1].Before(seq[i]) {
			return false
		}
	}
	return true
}

// In returns a copy with every instant expressed in loc.
func (t Times) In(loc *time.Location) Times {
	return Times{
		Fajr:        t.Fajr.In(loc),
		Sunrise:     t.Sunrise.In(loc),
		Dhuhr:       t.Dhuhr.In(loc),
		Asr:         t.Asr.In(loc),
		Maghrib:     t.Maghrib.In(loc),
		Isha:        t.Isha.In(loc),
		Declination: t.Declination,
	}
}
