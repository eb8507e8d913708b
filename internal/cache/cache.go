// Package cache keeps reference backend responses and IP geolocation results
// on disk between runs.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/api"
	"github.com/smokyabdulrahman/miqat/internal/geo"
)

const (
	timingsCacheFile = "timings_%s.json" // keyed by hash
	geoCacheFile     = "geolocation.json"
	geoTTL           = 24 * time.Hour
)

// Cache provides file-based caching for reference timings and geolocation data.
// It implements api.Store.
type Cache struct {
	dir string
	now func() time.Time
}

var _ api.Store = (*Cache)(nil)

// TimingsEntry stores one day's reference response along with the
// parameters it was fetched for.
type TimingsEntry struct {
	Date     string       `json:"date"` // YYYY-MM-DD
	Method   int          `json:"method"`
	School   int          `json:"school"`
	Response api.Response `json:"response"`
}

// GeoCacheEntry stores a cached geolocation result with a timestamp.
type GeoCacheEntry struct {
	Location geo.Location `json:"location"`
	CachedAt time.Time    `json:"cached_at"`
}

// DefaultDir is ~/.cache/prayer-times.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "prayer-times"), nil
}

// New creates a Cache rooted at the given directory, creating it if needed.
// If dir is empty, DefaultDir is used.
func New(dir string) (*Cache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &Cache{dir: dir, now: time.Now}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// cacheKey builds a deterministic hash from the parameters that affect prayer times.
func cacheKey(date string, lat, lon float64, method, school int) string {
	raw := fmt.Sprintf("%s|%.6f|%.6f|%d|%d", date, lat, lon, method, school)
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h[:8])
}

func (c *Cache) timingsPath(dateStr string, lat, lon float64, method, school int) string {
	return filepath.Join(c.dir, fmt.Sprintf(timingsCacheFile, cacheKey(dateStr, lat, lon, method, school)))
}

// LoadTimings returns the cached response for the given parameters, or nil
// if it is missing, unreadable or for another day.
func (c *Cache) LoadTimings(date time.Time, lat, lon float64, method, school int) *api.Response {
	dateStr := date.Format("2006-01-02")

	data, err := os.ReadFile(c.timingsPath(dateStr, lat, lon, method, school))
	if err != nil {
		return nil
	}

	var entry TimingsEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}
	if entry.Date != dateStr || entry.Method != method || entry.School != school {
		return nil
	}

	return &entry.Response
}

// SaveTimings writes a reference response to the cache.
func (c *Cache) SaveTimings(date time.Time, lat, lon float64, method, school int, resp *api.Response) error {
	dateStr := date.Format("2006-01-02")

	entry := TimingsEntry{
		Date:     dateStr,
		Method:   method,
		School:   school,
		Response: *resp,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := os.WriteFile(c.timingsPath(dateStr, lat, lon, method, school), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// LoadGeo returns the cached geolocation, or nil if it is missing or older
// than 24 hours.
func (c *Cache) LoadGeo() *geo.Location {
	data, err := os.ReadFile(filepath.Join(c.dir, geoCacheFile))
	if err != nil {
		return nil
	}

	var entry GeoCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}

	if c.now().Sub(entry.CachedAt) > geoTTL {
		return nil
	}

	return &entry.Location
}

// SaveGeo writes a geolocation result to the cache.
func (c *Cache) SaveGeo(loc *geo.Location) error {
	entry := GeoCacheEntry{
		Location: *loc,
		CachedAt: c.now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal geo cache: %w", err)
	}

	if err := os.WriteFile(filepath.Join(c.dir, geoCacheFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write geo cache: %w", err)
	}

	return nil
}

// Prune removes cached timings for days before the given date. It returns
// the number of files removed.
func (c *Cache) Prune(before time.Time) (int, error) {
	matches, err := filepath.Glob(filepath.Join(c.dir, "timings_*.json"))
	if err != nil {
		return 0, err
	}

	cutoff := before.Format("2006-01-02")
	removed := 0
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var entry TimingsEntry
		if err := json.Unmarshal(data, &entry); err != nil || entry.Date < cutoff {
			if err := os.Remove(path); err != nil {
				return removed, fmt.Errorf("failed to remove %s: %w", path, err)
			}
			removed++
		}
	}
	return removed, nil
}
