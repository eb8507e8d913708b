// Package service is the prayer-time adapter used by the CLI and HTTP API.
// It normalises method and madhhab aliases, dispatches to the selected
// backend and serialises results.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/smokyabdulrahman/miqat/internal/metrics"
	"github.com/smokyabdulrahman/miqat/internal/solar"
)

// ISOLayout renders UTC instants with millisecond precision, e.g.
// "2025-05-12T04:48:00.000Z".
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// maxRangeDays caps ComputeRange.
const maxRangeDays = 366

// Request is one prayer-time lookup with raw aliases.
type Request struct {
	Date       time.Time
	Coordinate solar.Coordinate
	Madhhab    string
	Method     string
}

// Result is a computed schedule together with what it was computed with.
type Result struct {
	Date    time.Time
	Times   solar.Times
	Madhhab solar.Madhhab
	Method  solar.Method
	Backend string
}

// ISO returns the six instants keyed fajr..isha as ISO-8601 UTC strings.
func (r Result) ISO() map[string]string {
	out := make(map[string]string, len(solar.Names))
	r.Times.Each(func(name string, at time.Time) {
		out[strings.ToLower(name)] = FormatISO(at)
	})
	return out
}

// FormatISO renders t in UTC with millisecond precision.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// Service computes prayer times through the selected backend.
type Service struct {
	selection Selection
	local     *Local
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for alias and fallback warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics records computations and fallbacks.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithEngine sets the local engine used for fallback selections and for
// reference calls that fail.
func WithEngine(e *solar.Engine) Option {
	return func(s *Service) { s.local = NewLocal(e) }
}

// New creates a Service for a selection made by SelectBackend (or
// FallbackSelection).
func New(sel Selection, opts ...Option) *Service {
	s := &Service{
		selection: sel,
		local:     NewLocal(nil),
		logger:    log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.selection.Kind == KindReference && s.selection.Backend == nil {
		s.selection = FallbackSelection()
	}
	return s
}

// Backend names the backend calls are sent to first.
func (s *Service) Backend() string {
	if s.selection.Kind == KindReference {
		return s.selection.Backend.Name()
	}
	return s.local.Name()
}

// Selection returns the selection the service was created with.
func (s *Service) Selection() Selection {
	return s.selection
}

// Resolve normalises the request's aliases and computes its schedule.
// Unrecognised aliases are logged and replaced by defaults; only invalid
// coordinates and cancelled contexts produce errors.
func (s *Service) Resolve(ctx context.Context, req Request) (Result, error) {
	madhhab, ok := NormalizeMadhhab(req.Madhhab)
	if !ok {
		s.logger.Warn().Str("madhhab", req.Madhhab).Str("using", madhhab.String()).Msg("unrecognised madhhab")
	}
	method, ok := NormalizeMethod(req.Method)
	if !ok {
		s.logger.Warn().Str("method", req.Method).Str("using", method.String()).Msg("unrecognised calculation method")
	}
	return s.compute(ctx, req.Date, req.Coordinate, madhhab, method)
}

func (s *Service) compute(ctx context.Context, date time.Time, c solar.Coordinate, madhhab solar.Madhhab, method solar.Method) (Result, error) {
	if err := c.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{Date: date, Madhhab: madhhab, Method: method}
	start := time.Now()

	if s.selection.Kind == KindReference {
		ref := s.selection.Backend
		times, err := ref.Compute(ctx, date, c, madhhab, method)
		if err == nil {
			s.metrics.ObserveCompute(ref.Name(), time.Since(start))
			res.Times = times.In(date.Location())
			res.Backend = ref.Name()
			return res, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		s.logger.Warn().Err(err).Str("backend", ref.Name()).Msg("reference backend failed, using local engine")
		s.metrics.IncrementFallbacks()
		start = time.Now()
	}

	times, err := s.local.Compute(ctx, date, c, madhhab, method)
	if err != nil {
		return Result{}, err
	}
	s.metrics.ObserveCompute(s.local.Name(), time.Since(start))
	res.Times = times
	res.Backend = s.local.Name()
	return res, nil
}

// Compute returns the six instants for the civil day of date.
func (s *Service) Compute(ctx context.Context, date time.Time, lat, lon float64, madhhab, method string) (solar.Times, error) {
	res, err := s.Resolve(ctx, Request{
		Date:       date,
		Coordinate: solar.Coordinate{Latitude: lat, Longitude: lon},
		Madhhab:    madhhab,
		Method:     method,
	})
	if err != nil {
		return solar.Times{}, err
	}
	return res.Times, nil
}

// GetPrayerTimes is Compute serialised as ISO-8601 strings keyed fajr..isha.
func (s *Service) GetPrayerTimes(ctx context.Context, date time.Time, lat, lon float64, madhhab, method string) (map[string]string, error) {
	res, err := s.Resolve(ctx, Request{
		Date:       date,
		Coordinate: solar.Coordinate{Latitude: lat, Longitude: lon},
		Madhhab:    madhhab,
		Method:     method,
	})
	if err != nil {
		return nil, err
	}
	return res.ISO(), nil
}

// ComputeRange computes days consecutive schedules starting at req.Date.
// Days are computed concurrently; results are in date order.
func (s *Service) ComputeRange(ctx context.Context, req Request, days int) ([]Result, error) {
	if days < 1 || days > maxRangeDays {
		return nil, fmt.Errorf("days must be between 1 and %d, got %d", maxRangeDays, days)
	}
	if err := req.Coordinate.Validate(); err != nil {
		return nil, err
	}

	madhhab, ok := NormalizeMadhhab(req.Madhhab)
	if !ok {
		s.logger.Warn().Str("madhhab", req.Madhhab).Str("using", madhhab.String()).Msg("unrecognised madhhab")
	}
	method, ok := NormalizeMethod(req.Method)
	if !ok {
		s.logger.Warn().Str("method", req.Method).Str("using", method.String()).Msg("unrecognised calculation method")
	}

	results := make([]Result, days)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := 0; i < days; i++ {
		date := req.Date.AddDate(0, 0, i)
		g.Go(func() error {
			res, err := s.compute(gctx, date, req.Coordinate, madhhab, method)
			if err != nil {
				return fmt.Errorf("%s: %w", date.Format("2006-01-02"), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// IsInputError reports whether err was caused by the caller's input rather
// than by a backend.
func IsInputError(err error) bool {
	return errors.Is(err, solar.ErrInvalidCoordinate)
}
