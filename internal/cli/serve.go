package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/miqat/internal/cache"
	"github.com/smokyabdulrahman/miqat/internal/logging"
	"github.com/smokyabdulrahman/miqat/internal/metrics"
	"github.com/smokyabdulrahman/miqat/internal/server"
)

const shutdownTimeout = 10 * time.Second

var (
	flagServeAddr      string
	flagServeCors      []string
	flagServeLogJSON   bool
	flagServeNoMetrics bool
)

func newServeCmd() *cobra.Command {
	def := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve prayer times over HTTP",
		Long: `Start a JSON HTTP API.

Endpoints:
  GET /api/health
  GET /api/v1/prayer-times?lat=..&lon=..[&date=YYYY-MM-DD][&method=..][&madhhab=..][&tz=..]
  GET /api/v1/hijri[?date=YYYY-MM-DD]
  GET /api/v1/holidays/{year}[?sorted=true]
  GET /metrics`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&flagServeAddr, "addr", def.Addr, "Listen address")
	cmd.Flags().StringSliceVar(&flagServeCors, "cors", def.CorsOrigins, "Allowed CORS origins")
	cmd.Flags().BoolVar(&flagServeLogJSON, "log-json", false, "Log as JSON lines")
	cmd.Flags().BoolVar(&flagServeNoMetrics, "no-metrics", false, "Do not expose /metrics")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	level := FlagLogLevel
	if !flagWasSet(cmd.Flags(), cmd.Root().PersistentFlags(), "log-level") {
		level = "info"
	}
	if err := logging.Setup(level, flagServeLogJSON); err != nil {
		return err
	}

	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		c = nil
		log.Warn().Err(err).Msg("cache disabled")
	}

	var m *metrics.Metrics
	if !flagServeNoMetrics {
		m = metrics.New()
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := buildService(ctx, cfg, c, m)
	if err != nil {
		return err
	}

	srvCfg := server.DefaultConfig()
	srvCfg.Addr = flagServeAddr
	srvCfg.CorsOrigins = flagServeCors
	srv := server.New(srvCfg, svc, m, log.Logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
