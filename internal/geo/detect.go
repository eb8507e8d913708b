// Package geo resolves where the user is: by IP geolocation or from a table
// of preset cities.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/solar"
)

// Location holds geographic coordinates and the IANA timezone for a place.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Timezone  string  `json:"timezone"`
}

// Coordinate returns the location's position.
func (l Location) Coordinate() solar.Coordinate {
	return solar.Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
}

// TimeLocation loads the location's timezone, falling back to time.Local
// when it is empty or unknown.
func (l Location) TimeLocation() *time.Location {
	if l.Timezone == "" {
		return time.Local
	}
	tz, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return time.Local
	}
	return tz
}

// ipAPIResponse maps the response from ip-api.com.
type ipAPIResponse struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Timezone string  `json:"timezone"`
}

// geoAPIURL is the geolocation API endpoint. It is a variable (not a constant)
// so that tests can override it with an httptest server URL.
var geoAPIURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,timezone"

// DetectLocation uses ip-api.com to determine the user's location from their
// public IP address. The request is bounded by ctx and a 5 second timeout.
func DetectLocation(ctx context.Context) (*Location, error) {
	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, geoAPIURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building geolocation request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	if result.Status != "success" {
		return nil, fmt.Errorf("geolocation failed: %s", result.Message)
	}

	return &Location{
		Latitude:  result.Lat,
		Longitude: result.Lon,
		City:      result.City,
		Country:   result.Country,
		Timezone:  result.Timezone,
	}, nil
}
