package geo

import (
	"strings"
	"unicode"
)

// City is a preset location.
type City struct {
	Slug      string  `json:"slug"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Region    string  `json:"region"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	// Method is the calculation method alias customary in the city.
	Method  string `json:"method"`
	Popular bool   `json:"popular"`
}

// Location converts the preset to a Location.
func (c City) Location() Location {
	return Location{
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		City:      c.Name,
		Country:   c.Country,
		Timezone:  c.Timezone,
	}
}

// Regions in display order.
var Regions = []string{"North America", "Europe", "Middle East", "Asia"}

var cities = []City{
	{"los-angeles", "Los Angeles", "United States", "North America", 34.0522, -118.2437, "America/Los_Angeles", "isna", true},
	{"new-york", "New York", "United States", "North America", 40.7128, -74.0060, "America/New_York", "isna", true},
	{"chicago", "Chicago", "United States", "North America", 41.8781, -87.6298, "America/Chicago", "isna", true},
	{"houston", "Houston", "United States", "North America", 29.7604, -95.3698, "America/Chicago", "isna", true},
	{"toronto", "Toronto", "Canada", "North America", 43.6532, -79.3832, "America/Toronto", "isna", false},
	{"mexico-city", "Mexico City", "Mexico", "North America", 19.4326, -99.1332, "America/Mexico_City", "isna", false},

	{"london", "London", "United Kingdom", "Europe", 51.5074, -0.1278, "Europe/London", "mwl", true},
	{"paris", "Paris", "France", "Europe", 48.8566, 2.3522, "Europe/Paris", "mwl", false},
	{"berlin", "Berlin", "Germany", "Europe", 52.5200, 13.4050, "Europe/Berlin", "mwl", false},
	{"madrid", "Madrid", "Spain", "Europe", 40.4168, -3.7038, "Europe/Madrid", "mwl", false},
	{"rome", "Rome", "Italy", "Europe", 41.9028, 12.4964, "Europe/Rome", "mwl", false},
	{"istanbul", "Istanbul", "Turkey", "Europe", 41.0082, 28.9784, "Europe/Istanbul", "mwl", true},

	{"cairo", "Cairo", "Egypt", "Middle East", 30.0444, 31.2357, "Africa/Cairo", "egyptian", true},
	{"dubai", "Dubai", "United Arab Emirates", "Middle East", 25.2048, 55.2708, "Asia/Dubai", "dubai", true},
	{"riyadh", "Riyadh", "Saudi Arabia", "Middle East", 24.7136, 46.6753, "Asia/Riyadh", "umm_al_qura", false},
	{"mecca", "Mecca", "Saudi Arabia", "Middle East", 21.4225, 39.8262, "Asia/Riyadh", "umm_al_qura", false},
	{"medina", "Medina", "Saudi Arabia", "Middle East", 24.5247, 39.5692, "Asia/Riyadh", "umm_al_qura", false},
	{"tehran", "Tehran", "Iran", "Middle East", 35.6892, 51.3890, "Asia/Tehran", "mwl", false},

	{"kuala-lumpur", "Kuala Lumpur", "Malaysia", "Asia", 3.1390, 101.6869, "Asia/Kuala_Lumpur", "singapore", false},
	{"jakarta", "Jakarta", "Indonesia", "Asia", -6.2088, 106.8456, "Asia/Jakarta", "singapore", false},
	{"karachi", "Karachi", "Pakistan", "Asia", 24.8607, 67.0011, "Asia/Karachi", "karachi", false},
	{"mumbai", "Mumbai", "India", "Asia", 19.0760, 72.8777, "Asia/Kolkata", "karachi", false},
	{"dhaka", "Dhaka", "Bangladesh", "Asia", 23.8103, 90.4125, "Asia/Dhaka", "karachi", false},
	{"singapore", "Singapore", "Singapore", "Asia", 1.3521, 103.8198, "Asia/Singapore", "singapore", false},
}

// Cities returns every preset in region order.
func Cities() []City {
	out := make([]City, len(cities))
	copy(out, cities)
	return out
}

// PopularCities returns the presets shown first in pickers.
func PopularCities() []City {
	var out []City
	for _, c := range cities {
		if c.Popular {
			out = append(out, c)
		}
	}
	return out
}

// Slugify lowercases s and joins its words with hyphens.
func Slugify(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_'
	}), "-")
}

// LookupCity finds a preset by slug or name, ignoring case and separators.
func LookupCity(name string) (City, bool) {
	slug := Slugify(name)
	for _, c := range cities {
		if c.Slug == slug {
			return c, true
		}
	}
	return City{}, false
}

// FormatCityName returns the display name for slug. Unknown slugs are
// title-cased word by word, e.g. "buenos-aires" -> "Buenos Aires".
func FormatCityName(slug string) string {
	if c, ok := LookupCity(slug); ok {
		return c.Name
	}
	words := strings.Split(Slugify(slug), "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
