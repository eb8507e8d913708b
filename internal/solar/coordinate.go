// Package solar computes the six daily prayer instants (Fajr, Sunrise, Dhuhr,
// Asr, Maghrib, Isha) from the sun's position for a date and location.
//
// Two models are available. The approximate model reproduces a fixed set of
// linear corrections around 06:00/12:00/15:00/18:00 and is the default. The
// astronomical model solves the solar hour angle for each twilight and shadow
// angle. Both are pure: no I/O, no shared state, safe for concurrent use.
package solar

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinate is returned (wrapped in a *CoordinateError) when a
// latitude or longitude is outside its valid range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate is a geographic position in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CoordinateError describes which component of a Coordinate is out of range.
type CoordinateError struct {
	Field string
	Value float64
	Limit float64
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("invalid %s %v: must be between %v and %v", e.Field, e.Value, -e.Limit, e.Limit)
}

func (e *CoordinateError) Unwrap() error {
	return ErrInvalidCoordinate
}

// Validate checks latitude is within [-90, 90] and longitude within [-180, 180].
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return &CoordinateError{Field: "latitude", Value: c.Latitude, Limit: 90}
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return &CoordinateError{Field: "longitude", Value: c.Longitude, Limit: 180}
	}
	return nil
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Latitude, c.Longitude)
}
