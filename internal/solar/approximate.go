package solar

import (
	"math"
	"time"
)

// The approximate model uses a single Fajr angle and only distinguishes
// NorthAmerica for Isha.
const (
	approxFajrAngle        = 18.0
	approxDefaultIshaAngle = 18.0
)

var approxIshaAngles = map[Method]float64{
	NorthAmerica: 17,
	Other:        17,
}

// Declination is the single-harmonic approximation of the sun's declination
// in degrees for a 1-based day of the year.
func Declination(dayOfYear int) float64 {
	return -23.45 * math.Cos(2*math.Pi/365*float64(dayOfYear+10))
}

func computeApproximate(date time.Time, c Coordinate, madhhab Madhhab, method Method) Times {
	y, mo, d := date.Date()
	loc := date.Location()

	// (lon mod 15) keeps the sign of the longitude.
	lonShift := math.Mod(c.Longitude, 15) / 15
	latShift := 0.1 * c.Latitude / 15
	damping := 1 - math.Abs(c.Latitude)/90

	// Wall-clock hours on the civil day; time.Date normalises the overflow.
	at := func(h float64) time.Time {
		return time.Date(y, mo, d, 0, 0, 0, int(hoursToDuration(h+lonShift)), loc)
	}

	ishaAngle := approxDefaultIshaAngle
	if a, ok := approxIshaAngles[method]; ok {
		ishaAngle = a
	}

	t := Times{
		Fajr:        at(6 - approxFajrAngle/15*damping),
		Sunrise:     at(6 - latShift),
		Dhuhr:       at(12),
		Asr:         at(15 + 0.5*madhhab.ShadowFactor()),
		Maghrib:     at(18 + latShift),
		Isha:        at(18 + ishaAngle/15*damping),
		Declination: Declination(date.YearDay()),
	}
	return t
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(math.Round(h * float64(time.Hour)))
}
