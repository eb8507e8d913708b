package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/miqat/internal/api"
	"github.com/smokyabdulrahman/miqat/internal/cache"
	"github.com/smokyabdulrahman/miqat/internal/config"
	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/metrics"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
	"github.com/smokyabdulrahman/miqat/internal/service"
	"github.com/smokyabdulrahman/miqat/internal/solar"
)

// detectLocation is replaced in tests to keep them offline.
var detectLocation = geo.DetectLocation

// session is everything a command needs to compute prayer times.
type session struct {
	cfg     *config.Config
	loc     geo.Location
	tz      *time.Location
	svc     *service.Service
	layout  string
	prayers []string
}

// newSession resolves config, location, timezone and backend for cmd.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return nil, err
	}

	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		// Cache init failure is non-fatal; we just skip caching.
		c = nil
		log.Warn().Err(err).Msg("cache disabled")
	}

	ctx := cmdContext(cmd)

	loc, err := resolveLocation(ctx, cfg, c)
	if err != nil {
		return nil, err
	}

	tz, err := resolveTimezone(cfg.Timezone, loc)
	if err != nil {
		return nil, err
	}

	svc, err := buildService(ctx, cfg, c, nil)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:     cfg,
		loc:     loc,
		tz:      tz,
		svc:     svc,
		layout:  prayer.Layout(cfg.TimeFormat),
		prayers: cfg.PrayerList(),
	}, nil
}

// buildService selects the backend named by cfg and wraps it in a Service.
// An unreachable reference backend degrades to the local engine.
func buildService(ctx context.Context, cfg *config.Config, c *cache.Cache, m *metrics.Metrics) (*service.Service, error) {
	model, err := solar.ParseModel(cfg.Model)
	if err != nil {
		return nil, err
	}

	sel := service.FallbackSelection()
	if cfg.Backend == config.BackendAlAdhan {
		client := api.NewClient()
		if c != nil {
			client.WithStore(c)
		}
		sel = service.SelectBackend(ctx, client, service.DefaultProbeTimeout, log.Logger)
	}

	return service.New(sel,
		service.WithEngine(solar.NewEngine(model)),
		service.WithLogger(log.Logger),
		service.WithMetrics(m),
	), nil
}

// resolveLocation determines the effective location.
// Priority: coordinates > preset city > cached geolocation > IP auto-detect.
func resolveLocation(ctx context.Context, cfg *config.Config, c *cache.Cache) (geo.Location, error) {
	switch {
	case cfg.HasCoordinates():
		loc := geo.Location{Latitude: *cfg.Latitude, Longitude: *cfg.Longitude}
		if err := loc.Coordinate().Validate(); err != nil {
			return geo.Location{}, err
		}
		return loc, nil
	case cfg.Latitude != nil || cfg.Longitude != nil:
		return geo.Location{}, errors.New("both --latitude and --longitude are required")
	case cfg.City != "":
		city, ok := geo.LookupCity(cfg.City)
		if !ok {
			return geo.Location{}, fmt.Errorf("unknown city %q: see `prayer-times cities`", cfg.City)
		}
		return city.Location(), nil
	}

	if c != nil {
		if cached := c.LoadGeo(); cached != nil {
			return *cached, nil
		}
	}

	detected, err := detectLocation(ctx)
	if err != nil {
		return geo.Location{}, fmt.Errorf("no location specified and auto-detection failed: %w", err)
	}
	if c != nil {
		if err := c.SaveGeo(detected); err != nil {
			log.Debug().Err(err).Msg("geolocation not cached")
		}
	}
	return *detected, nil
}

// resolveTimezone picks the display zone: explicit setting, then the
// location's zone, then the system zone.
func resolveTimezone(name string, loc geo.Location) (*time.Location, error) {
	if name == "" {
		return loc.TimeLocation(), nil
	}
	tz, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return tz, nil
}

// request builds a service request for the civil day of t in the session's
// timezone.
func (s *session) request(t time.Time) service.Request {
	y, m, d := t.In(s.tz).Date()
	return service.Request{
		Date:       time.Date(y, m, d, 0, 0, 0, 0, s.tz),
		Coordinate: s.loc.Coordinate(),
		Madhhab:    s.cfg.Madhhab,
		Method:     s.cfg.Method,
	}
}

// day computes the schedule for the civil day of t.
func (s *session) day(ctx context.Context, t time.Time) (service.Result, []prayer.Prayer, error) {
	res, err := s.svc.Resolve(ctx, s.request(t))
	if err != nil {
		return service.Result{}, nil, err
	}
	res.Times = res.Times.In(s.tz)
	prayers, err := prayer.FromTimes(res.Times, s.prayers)
	if err != nil {
		return service.Result{}, nil, err
	}
	return res, prayers, nil
}

// days computes n consecutive schedules starting at the civil day of t.
func (s *session) days(ctx context.Context, t time.Time, n int) ([]service.Result, error) {
	results, err := s.svc.ComputeRange(ctx, s.request(t), n)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].Times = results[i].Times.In(s.tz)
	}
	return results, nil
}

// locationLabel is "City, Country" when known, coordinates otherwise.
func locationLabel(loc geo.Location) string {
	if loc.City != "" && loc.Country != "" {
		return loc.City + ", " + loc.Country
	}
	return loc.Coordinate().String()
}

type locationJSON struct {
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (s *session) locationJSON() locationJSON {
	return locationJSON{
		City:      s.loc.City,
		Country:   s.loc.Country,
		Timezone:  s.tz.String(),
		Latitude:  s.loc.Latitude,
		Longitude: s.loc.Longitude,
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
