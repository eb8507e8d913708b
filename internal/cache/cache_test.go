package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/api"
	"github.com/smokyabdulrahman/miqat/internal/geo"
)

func sampleAPIResponse() *api.Response {
	return &api.Response{
		Code:   200,
		Status: "OK",
		Data: api.Data{
			Timings: api.Timings{
				Fajr:    "05:17",
				Sunrise: "06:48",
				Dhuhr:   "12:13",
				Asr:     "15:02",
				Maghrib: "17:39",
				Isha:    "19:10",
			},
			Meta: api.Meta{
				Latitude:  51.5074,
				Longitude: -0.1278,
				Timezone:  "Europe/London",
				Method:    api.MethodInfo{ID: 2, Name: "ISNA"},
				School:    "STANDARD",
			},
		},
	}
}

// ---------------------------------------------------------------------------
// New
// ---------------------------------------------------------------------------

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "subdir", "cache")
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New(%q) error: %v", dir, err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Errorf("directory %q was not created", dir)
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
	}
}

func TestNew_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := New("")
	if err != nil {
		t.Fatalf("New(\"\") error: %v", err)
	}
	want := filepath.Join(home, ".cache", "prayer-times")
	if c.Dir() != want {
		t.Errorf("Dir() = %q, want %q", c.Dir(), want)
	}
}

// ---------------------------------------------------------------------------
// SaveTimings / LoadTimings
// ---------------------------------------------------------------------------

func TestTimings_RoundTrip(t *testing.T) {
	c, _ := New(t.TempDir())
	date := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if err := c.SaveTimings(date, 51.5074, -0.1278, 2, 0, sampleAPIResponse()); err != nil {
		t.Fatalf("SaveTimings error: %v", err)
	}

	got := c.LoadTimings(date, 51.5074, -0.1278, 2, 0)
	if got == nil {
		t.Fatal("LoadTimings returned nil after save")
	}
	if got.Data.Timings.Fajr != "05:17" {
		t.Errorf("Fajr = %q, want %q", got.Data.Timings.Fajr, "05:17")
	}
	if got.Data.Timings.Isha != "19:10" {
		t.Errorf("Isha = %q, want %q", got.Data.Timings.Isha, "19:10")
	}
	if got.Data.Meta.Timezone != "Europe/London" {
		t.Errorf("Timezone = %q, want %q", got.Data.Meta.Timezone, "Europe/London")
	}
}

func TestTimings_Misses(t *testing.T) {
	c, _ := New(t.TempDir())
	date := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	_ = c.SaveTimings(date, 51.5, -0.1, 2, 0, sampleAPIResponse())

	tests := []struct {
		name   string
		date   time.Time
		lat    float64
		method int
		school int
	}{
		{"next day", date.AddDate(0, 0, 1), 51.5, 2, 0},
		{"different method", date, 51.5, 3, 0},
		{"different school", date, 51.5, 2, 1},
		{"different latitude", date, 40.7, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.LoadTimings(tt.date, tt.lat, -0.1, tt.method, tt.school); got != nil {
				t.Error("expected cache miss, got entry")
			}
		})
	}
}

func TestTimings_CorruptedFile(t *testing.T) {
	dir := t.TempDir()
	c, _ := New(dir)
	date := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	_ = c.SaveTimings(date, 51.5, -0.1, 2, 0, sampleAPIResponse())

	matches, _ := filepath.Glob(filepath.Join(dir, "timings_*.json"))
	for _, path := range matches {
		os.WriteFile(path, []byte("not-json"), 0o644)
	}

	if got := c.LoadTimings(date, 51.5, -0.1, 2, 0); got != nil {
		t.Error("expected nil for corrupted cache file, got entry")
	}
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()
	c, _ := New(dir)
	base := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		_ = c.SaveTimings(base.AddDate(0, 0, i), 51.5, -0.1, 2, 0, sampleAPIResponse())
	}
	os.WriteFile(filepath.Join(dir, "timings_broken.json"), []byte("{"), 0o644)

	removed, err := c.Prune(base.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("Prune error: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3 (two old days plus a corrupt file)", removed)
	}
	if c.LoadTimings(base.AddDate(0, 0, 3), 51.5, -0.1, 2, 0) == nil {
		t.Error("Prune removed a current entry")
	}
}

// ---------------------------------------------------------------------------
// SaveGeo / LoadGeo
// ---------------------------------------------------------------------------

func TestGeo_RoundTrip(t *testing.T) {
	c, _ := New(t.TempDir())

	loc := &geo.Location{
		Latitude:  51.5074,
		Longitude: -0.1278,
		City:      "London",
		Country:   "United Kingdom",
		Timezone:  "Europe/London",
	}
	if err := c.SaveGeo(loc); err != nil {
		t.Fatalf("SaveGeo error: %v", err)
	}

	got := c.LoadGeo()
	if got == nil {
		t.Fatal("LoadGeo returned nil after save")
	}
	if *got != *loc {
		t.Errorf("LoadGeo() = %+v, want %+v", *got, *loc)
	}
}

func TestGeo_CacheMiss(t *testing.T) {
	c, _ := New(t.TempDir())
	if got := c.LoadGeo(); got != nil {
		t.Error("expected nil for geo cache miss, got entry")
	}
}

func TestGeo_ExpiredTTL(t *testing.T) {
	dir := t.TempDir()
	c, _ := New(dir)

	// Write a geo cache entry with a timestamp 25 hours ago (past 24h TTL).
	entry := GeoCacheEntry{
		Location: geo.Location{Latitude: 51.5074, Longitude: -0.1278, City: "London"},
		CachedAt: time.Now().Add(-25 * time.Hour),
	}
	data, _ := json.Marshal(entry)
	os.WriteFile(filepath.Join(dir, "geolocation.json"), data, 0o644)

	if got := c.LoadGeo(); got != nil {
		t.Error("expected nil for expired geo cache, got entry")
	}
}

func TestGeo_TTLUsesClock(t *testing.T) {
	c, _ := New(t.TempDir())
	start := time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return start }
	_ = c.SaveGeo(&geo.Location{City: "Cairo"})

	c.now = func() time.Time { return start.Add(23 * time.Hour) }
	if c.LoadGeo() == nil {
		t.Error("entry expired before 24h")
	}
	c.now = func() time.Time { return start.Add(24*time.Hour + time.Minute) }
	if c.LoadGeo() != nil {
		t.Error("entry still valid after 24h")
	}
}

func TestGeo_CorruptedFile(t *testing.T) {
	dir := t.TempDir()
	c, _ := New(dir)
	os.WriteFile(filepath.Join(dir, "geolocation.json"), []byte("{bad json"), 0o644)

	if got := c.LoadGeo(); got != nil {
		t.Error("expected nil for corrupted geo cache, got entry")
	}
}

// ---------------------------------------------------------------------------
// cacheKey
// ---------------------------------------------------------------------------

func TestCacheKey_Deterministic(t *testing.T) {
	k1 := cacheKey("2026-02-28", 51.5, -0.1, 2, 0)
	k2 := cacheKey("2026-02-28", 51.5, -0.1, 2, 0)
	if k1 != k2 {
		t.Errorf("cacheKey not deterministic: %q != %q", k1, k2)
	}
	// 8 bytes -> 16 hex chars
	if len(k1) != 16 {
		t.Errorf("cacheKey length = %d, want 16", len(k1))
	}
}

func TestCacheKey_DifferentInputs(t *testing.T) {
	keys := []string{
		cacheKey("2026-02-28", 51.5, -0.1, 2, 0),
		cacheKey("2026-02-28", 51.5, -0.1, 3, 0),  // different method
		cacheKey("2026-02-28", 51.5, -0.1, 2, 1),  // different school
		cacheKey("2026-03-01", 51.5, -0.1, 2, 0),  // different date
		cacheKey("2026-02-28", 40.7, -74.0, 2, 0), // different coords
	}
	seen := make(map[string]bool)
	for _, k := range keys {
		if seen[k] {
			t.Errorf("duplicate cache key: %q", k)
		}
		seen[k] = true
	}
}
