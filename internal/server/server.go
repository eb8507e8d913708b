// Package server exposes prayer times, Hijri dates and holidays over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/miqat/internal/metrics"
	"github.com/smokyabdulrahman/miqat/internal/service"
)

// Config holds the listener settings.
type Config struct {
	Addr         string
	CorsOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig listens on localhost:8080 and allows any origin.
func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:8080",
		CorsOrigins:  []string{"*"},
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	router  *chi.Mux
	svc     *service.Service
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

// New creates the HTTP server. m may be nil, in which case /metrics is not
// mounted.
func New(cfg Config, svc *service.Service, m *metrics.Metrics, logger zerolog.Logger) *Server {
	s := &Server{
		svc:     svc,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}

	router := chi.NewRouter()

	router.Use(requestID)
	router.Use(middleware.RealIP)
	router.Use(s.accessLog)
	router.Use(middleware.Recoverer)
	if cfg.WriteTimeout > 0 {
		router.Use(middleware.Timeout(cfg.WriteTimeout))
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CorsOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/v1", func(r chi.Router) {
			r.Get("/prayer-times", s.handlePrayerTimes)
			r.Get("/hijri", s.handleHijri)
			r.Get("/holidays/{year}", s.handleHolidays)
		})
	})

	if m != nil {
		router.Handle("/metrics", m.Handler())
	}

	s.router = router
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	s.logger.Info().Str("addr", s.server.Addr).Str("backend", s.svc.Backend()).Msg("listening")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
