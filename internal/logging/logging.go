// Package logging configures the zerolog logger shared by the CLI and the
// HTTP server.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultLevel keeps the CLI quiet unless something needs attention.
const DefaultLevel = "warn"

// ParseLevel maps a level name to a zerolog level. Empty means DefaultLevel.
func ParseLevel(level string) (zerolog.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q (use trace, debug, info, warn, error or disabled)", level)
	}
	return lvl, nil
}

// New builds a logger writing to w: JSON lines when json is set, a
// human-readable console format otherwise.
func New(w io.Writer, level string, json bool) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if !json {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: os.Getenv("NO_COLOR") != ""}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// Setup replaces the global logger with one writing to stderr.
func Setup(level string, json bool) error {
	l, err := New(os.Stderr, level, json)
	if err != nil {
		return err
	}
	log.Logger = l
	return nil
}
