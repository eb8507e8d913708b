package solar

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// ErrUnreachableAngle is returned by the astronomical model when the sun
// never reaches an angle the schedule needs on that day (polar day/night or
// persistent twilight).
var ErrUnreachableAngle = errors.New("sun does not reach the required angle")

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi

	unixEpochJD = 2440587.5
	j2000       = 2451545.0
)

func computeAstronomical(date time.Time, c Coordinate, madhhab Madhhab, method Method) (Times, error) {
	y, mo, d := date.Date()
	rise, set := sunrise.SunriseSunset(c.Latitude, c.Longitude, y, mo, d)
	if rise.IsZero() || set.IsZero() {
		return Times{}, fmt.Errorf("sunrise/sunset on %s at %s: %w", date.Format("2006-01-02"), c, ErrUnreachableAngle)
	}

	noon := rise.Add(set.Sub(rise) / 2)
	decl := sunDeclination(noon)
	params := method.Params()

	fajrOffset, err := hourAngle(-params.FajrAngle, c.Latitude, decl)
	if err != nil {
		return Times{}, fmt.Errorf("fajr at %.1f°: %w", params.FajrAngle, err)
	}

	asrOffset, err := hourAngle(asrAltitude(madhhab.ShadowFactor(), c.Latitude, decl), c.Latitude, decl)
	if err != nil {
		return Times{}, fmt.Errorf("asr: %w", err)
	}

	var isha time.Time
	if params.IshaInterval > 0 {
		isha = set.Add(params.IshaInterval)
	} else {
		ishaOffset, err := hourAngle(-params.IshaAngle, c.Latitude, decl)
		if err != nil {
			return Times{}, fmt.Errorf("isha at %.1f°: %w", params.IshaAngle, err)
		}
		isha = noon.Add(ishaOffset)
	}

	loc := date.Location()
	return Times{
		Fajr:        noon.Add(-fajrOffset).In(loc),
		Sunrise:     rise.In(loc),
		Dhuhr:       noon.In(loc),
		Asr:         noon.Add(asrOffset).In(loc),
		Maghrib:     set.In(loc),
		Isha:        isha.In(loc),
		Declination: decl,
	}, nil
}

// sunDeclination returns the sun's declination in degrees at t using the
// low-precision solar coordinates of the Astronomical Almanac.
func sunDeclination(t time.Time) float64 {
	n := float64(t.Unix())/86400 + unixEpochJD - j2000

	g := (357.529 + 0.98560028*n) * degToRad
	q := 280.459 + 0.98564736*n
	lambda := (q + 1.915*math.Sin(g) + 0.020*math.Sin(2*g)) * degToRad
	epsilon := (23.439 - 0.00000036*n) * degToRad

	return math.Asin(math.Sin(epsilon)*math.Sin(lambda)) * radToDeg
}

// asrAltitude is the solar altitude at which an object's shadow equals
// factor times its length plus its noon shadow.
func asrAltitude(factor, latitude, decl float64) float64 {
	return math.Atan(1/(factor+math.Tan(math.Abs(latitude-decl)*degToRad))) * radToDeg
}

// hourAngle returns the time between solar noon and the moment the sun is at
// altitude (degrees; negative below the horizon).
func hourAngle(altitude, latitude, decl float64) (time.Duration, error) {
	lat := latitude * degToRad
	dec := decl * degToRad

	cosH := (math.Sin(altitude*degToRad) - math.Sin(lat)*math.Sin(dec)) / (math.Cos(lat) * math.Cos(dec))
	if cosH < -1 || cosH > 1 || math.IsNaN(cosH) {
		return 0, ErrUnreachableAngle
	}

	h := math.Acos(cosH) * radToDeg / 15
	return hoursToDuration(h), nil
}
