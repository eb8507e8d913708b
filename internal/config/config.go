// Package config provides persistent configuration for the prayer-times CLI.
//
// Configuration is stored as JSON at ~/.config/prayer-times/config.json
// (XDG-compliant) and may be overridden by PRAYER_TIMES_* environment
// variables, optionally loaded from a .env file. The merge priority is:
// CLI flags > environment > config file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/service"
	"github.com/smokyabdulrahman/miqat/internal/solar"
)

const (
	configDirName  = "prayer-times"
	configFileName = "config.json"

	// EnvPrefix prefixes the upper-cased key of every environment override,
	// e.g. PRAYER_TIMES_METHOD.
	EnvPrefix = "PRAYER_TIMES_"
)

// Backends accepted by the backend key.
const (
	BackendLocal   = "local"
	BackendAlAdhan = "aladhan"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"city",
	"latitude", "longitude",
	"method", "madhhab",
	"model", "backend",
	"timezone",
	"time_format",
	"prayers",
	"cache_dir",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults or auto-detect).
type Config struct {
	City       string   `json:"city,omitempty"` // preset slug
	Latitude   *float64 `json:"latitude,omitempty"`  // pointer so the equator is distinguishable from "not set"
	Longitude  *float64 `json:"longitude,omitempty"` // pointer so the meridian is distinguishable from "not set"
	Method     string   `json:"method,omitempty"`    // alias, e.g. "isna"
	Madhhab    string   `json:"madhhab,omitempty"`   // "shafi" or "hanafi"
	Model      string   `json:"model,omitempty"`     // "approximate" or "astronomical"
	Backend    string   `json:"backend,omitempty"`   // "local" or "aladhan"
	Timezone   string   `json:"timezone,omitempty"`  // IANA name
	TimeFormat string   `json:"time_format,omitempty"`
	Prayers    string   `json:"prayers,omitempty"` // comma-separated list
	CacheDir   string   `json:"cache_dir,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	return Config{
		Method:     "isna",
		Madhhab:    "shafi",
		Model:      solar.ModelApproximate.String(),
		Backend:    BackendLocal,
		TimeFormat: "24h",
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from a .env file into the process environment
// without overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// ApplyEnv overlays PRAYER_TIMES_* variables onto c. Values are validated
// exactly as by Set.
func (c *Config) ApplyEnv() error {
	for _, key := range ValidKeys {
		v, ok := os.LookupEnv(EnvName(key))
		if !ok || v == "" {
			continue
		}
		if err := c.Set(key, v); err != nil {
			return fmt.Errorf("%s: %w", EnvName(key), err)
		}
	}
	return nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "city":
		city, ok := geo.LookupCity(value)
		if !ok {
			return fmt.Errorf("unknown city %q: see `prayer-times cities`", value)
		}
		c.City = city.Slug
	case "latitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q: must be a number", value)
		}
		if v < -90 || v > 90 {
			return fmt.Errorf("invalid latitude %q: must be between -90 and 90", value)
		}
		c.Latitude = &v
	case "longitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q: must be a number", value)
		}
		if v < -180 || v > 180 {
			return fmt.Errorf("invalid longitude %q: must be between -180 and 180", value)
		}
		c.Longitude = &v
	case "method":
		if _, ok := service.NormalizeMethod(value); !ok {
			return fmt.Errorf("invalid method %q: see `prayer-times methods`", value)
		}
		c.Method = strings.ToLower(strings.TrimSpace(value))
	case "madhhab":
		if _, ok := service.NormalizeMadhhab(value); !ok {
			return fmt.Errorf("invalid madhhab %q: must be \"shafi\" or \"hanafi\"", value)
		}
		c.Madhhab = strings.ToLower(strings.TrimSpace(value))
	case "model":
		m, err := solar.ParseModel(value)
		if err != nil {
			return err
		}
		c.Model = m.String()
	case "backend":
		v := strings.ToLower(strings.TrimSpace(value))
		if v != BackendLocal && v != BackendAlAdhan {
			return fmt.Errorf("invalid backend %q: must be %q or %q", value, BackendLocal, BackendAlAdhan)
		}
		c.Backend = v
	case "timezone":
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", value, err)
		}
		c.Timezone = value
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "prayers":
		for _, n := range strings.Split(value, ",") {
			n = strings.TrimSpace(n)
			if !isValidPrayerName(n) {
				return fmt.Errorf("invalid prayer name %q in prayers list", n)
			}
		}
		c.Prayers = value
	case "cache_dir":
		c.CacheDir = value
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "city":
		return c.City, nil
	case "latitude":
		return formatFloatPtr(c.Latitude), nil
	case "longitude":
		return formatFloatPtr(c.Longitude), nil
	case "method":
		return c.Method, nil
	case "madhhab":
		return c.Madhhab, nil
	case "model":
		return c.Model, nil
	case "backend":
		return c.Backend, nil
	case "timezone":
		return c.Timezone, nil
	case "time_format":
		return c.TimeFormat, nil
	case "prayers":
		return c.Prayers, nil
	case "cache_dir":
		return c.CacheDir, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func isValidPrayerName(name string) bool {
	for _, n := range solar.Names {
		if n == name {
			return true
		}
	}
	return false
}

// HasCoordinates reports whether both latitude and longitude are set.
func (c *Config) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// Merge returns a copy of base with every non-empty field of over applied.
func Merge(base, over Config) Config {
	out := base
	if over.City != "" {
		out.City = over.City
	}
	if over.Latitude != nil {
		out.Latitude = over.Latitude
	}
	if over.Longitude != nil {
		out.Longitude = over.Longitude
	}
	if over.Method != "" {
		out.Method = over.Method
	}
	if over.Madhhab != "" {
		out.Madhhab = over.Madhhab
	}
	if over.Model != "" {
		out.Model = over.Model
	}
	if over.Backend != "" {
		out.Backend = over.Backend
	}
	if over.Timezone != "" {
		out.Timezone = over.Timezone
	}
	if over.TimeFormat != "" {
		out.TimeFormat = over.TimeFormat
	}
	if over.Prayers != "" {
		out.Prayers = over.Prayers
	}
	if over.CacheDir != "" {
		out.CacheDir = over.CacheDir
	}
	return out
}

// PrayerList splits Prayers into names, or returns nil when unset.
func (c *Config) PrayerList() []string {
	if c.Prayers == "" {
		return nil
	}
	var out []string
	for _, n := range strings.Split(c.Prayers, ",") {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
