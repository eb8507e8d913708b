package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/miqat/internal/solar"
)

// DefaultProbeTimeout bounds the single reference backend probe.
const DefaultProbeTimeout = 10 * time.Second

// ErrBackendUnavailable means the reference backend could not be reached.
var ErrBackendUnavailable = errors.New("reference backend unavailable")

// Backend computes the six instants for a validated request.
type Backend interface {
	Name() string
	Compute(ctx context.Context, date time.Time, c solar.Coordinate, madhhab solar.Madhhab, method solar.Method) (solar.Times, error)
}

// Reference is a Backend that can be probed before use.
type Reference interface {
	Backend
	Probe(ctx context.Context) error
}

// Local answers requests with the in-process solar engine.
type Local struct {
	engine *solar.Engine
}

// NewLocal wraps engine. A nil engine uses the approximate model.
func NewLocal(engine *solar.Engine) *Local {
	if engine == nil {
		engine = solar.NewEngine(solar.ModelApproximate)
	}
	return &Local{engine: engine}
}

// Name reports "local".
func (l *Local) Name() string { return "local" }

// Compute runs the engine. It never blocks.
func (l *Local) Compute(_ context.Context, date time.Time, c solar.Coordinate, madhhab solar.Madhhab, method solar.Method) (solar.Times, error) {
	return l.engine.Compute(date, c, madhhab, method)
}

// Kind says which backend a Selection settled on.
type Kind int

const (
	// KindFallback uses the local engine for every call.
	KindFallback Kind = iota
	// KindReference sends calls to the reference backend first.
	KindReference
)

func (k Kind) String() string {
	if k == KindReference {
		return "reference"
	}
	return "fallback"
}

// Selection is the outcome of backend selection. It is decided once per
// session and passed to New.
type Selection struct {
	Kind    Kind
	Backend Reference
	// Err records why the reference backend was not selected, if it was offered.
	Err error
}

// FallbackSelection selects the local engine without probing anything.
func FallbackSelection() Selection {
	return Selection{Kind: KindFallback}
}

// SelectBackend probes ref once, bounded by timeout (DefaultProbeTimeout
// when zero or negative). On failure it logs a notice and returns a fallback
// selection whose Err wraps ErrBackendUnavailable. A nil ref is a fallback
// selection without a probe.
func SelectBackend(ctx context.Context, ref Reference, timeout time.Duration, logger zerolog.Logger) Selection {
	if ref == nil {
		return FallbackSelection()
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	if err := ref.Probe(probeCtx); err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrBackendUnavailable, ref.Name(), err)
		logger.Info().Err(err).Str("backend", ref.Name()).Msg("using local prayer time engine")
		return Selection{Kind: KindFallback, Err: err}
	}

	logger.Debug().
		Str("backend", ref.Name()).
		Dur("probe", time.Since(start)).
		Msg("reference backend selected")
	return Selection{Kind: KindReference, Backend: ref}
}
