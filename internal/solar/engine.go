package solar

import (
	"fmt"
	"strings"
	"time"
)

// Model selects the arithmetic used by an Engine.
type Model int

const (
	// ModelApproximate applies fixed linear corrections to base times.
	ModelApproximate Model = iota
	// ModelAstronomical solves hour angles from the sun's declination.
	ModelAstronomical
)

func (m Model) String() string {
	if m == ModelAstronomical {
		return "astronomical"
	}
	return "approximate"
}

// ParseModel maps a configuration string to a Model. The empty string is the
// approximate model.
func ParseModel(s string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "approximate", "approx", "simple":
		return ModelApproximate, nil
	case "astronomical", "astro", "precise":
		return ModelAstronomical, nil
	}
	return ModelApproximate, fmt.Errorf("unknown model %q: must be \"approximate\" or \"astronomical\"", s)
}

// Engine computes prayer times with one Model. The zero value uses the
// approximate model.
type Engine struct {
	model Model
}

// NewEngine returns an Engine for the given model.
func NewEngine(model Model) *Engine {
	return &Engine{model: model}
}

// Model reports which model the engine uses.
func (e *Engine) Model() Model {
	return e.model
}

// Compute returns the six instants for the civil day of date (taken in
// date's location). Coordinates are range-checked first.
func (e *Engine) Compute(date time.Time, c Coordinate, madhhab Madhhab, method Method) (Times, error) {
	if err := c.Validate(); err != nil {
		return Times{}, err
	}
	if e.model == ModelAstronomical {
		return computeAstronomical(date, c, madhhab, method)
	}
	return computeApproximate(date, c, madhhab, method), nil
}
