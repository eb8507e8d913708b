package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/miqat/internal/config"
	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/logging"
)

// Global flags shared across all subcommands.
var (
	FlagCity       string
	FlagLatitude   float64
	FlagLongitude  float64
	FlagMethod     string
	FlagMadhhab    string
	FlagModel      string
	FlagBackend    string
	FlagTimezone   string
	FlagJSON       bool
	FlagCacheDir   string
	FlagTimeFormat string
	FlagLogLevel   string
)

// now is the clock every command reads. Tests replace it.
var now = time.Now

// loadedConfig holds the config loaded during PersistentPreRunE.
// Available to all subcommand handlers.
var loadedConfig *config.Config

// flagKeys maps persistent flag names to config keys.
var flagKeys = []struct{ flag, key string }{
	{"city", "city"},
	{"latitude", "latitude"},
	{"longitude", "longitude"},
	{"method", "method"},
	{"madhhab", "madhhab"},
	{"model", "model"},
	{"backend", "backend"},
	{"timezone", "timezone"},
	{"time-format", "time_format"},
	{"cache-dir", "cache_dir"},
}

// NewRootCmd creates the root command for the prayer-times CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "prayer-times",
		Short:   "Islamic prayer times CLI",
		Long:    "Islamic prayer times, Hijri dates and holidays, computed locally or by the Al Adhan API.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logging.Setup(FlagLogLevel, false); err != nil {
				return err
			}
			if err := config.LoadDotEnv(""); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			loadedConfig = cfg
			if FlagJSON {
				display.SetEnabled(false)
			}
			return nil
		},
		// Default action: show today's prayer schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(PrintVersion(version))

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagCity, "city", "", "Preset city, e.g. \"London\" or \"new-york\" (see `cities`)")
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Override latitude")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Override longitude")
	pf.StringVar(&FlagMethod, "method", "", "Calculation method alias, e.g. isna, mwl, egypt (see `methods`)")
	pf.StringVar(&FlagMadhhab, "madhhab", "", "Madhhab for Asr: shafi or hanafi")
	pf.StringVar(&FlagModel, "model", "", "Local model: approximate or astronomical")
	pf.StringVar(&FlagBackend, "backend", "", "Backend: local or aladhan")
	pf.StringVar(&FlagTimezone, "timezone", "", "IANA timezone for display (default: location's zone)")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/prayer-times/)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.StringVar(&FlagLogLevel, "log-level", logging.DefaultLevel, "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newHijriCmd())
	rootCmd.AddCommand(newHolidaysCmd())
	rootCmd.AddCommand(newMethodsCmd())
	rootCmd.AddCommand(newCitiesCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// PrintVersion returns the --version line, e.g. "prayer-times v1.2.0".
func PrintVersion(version string) string {
	return fmt.Sprintf("prayer-times %s\n", version)
}

// effectiveConfig returns the merged configuration values, applying the
// priority: CLI flags > PRAYER_TIMES_* environment > config file > city
// preset > defaults. Flag values go through the same validation as
// `config set`.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	file := config.Config{}
	if loadedConfig != nil {
		file = *loadedConfig
	}

	env := config.Config{}
	if err := env.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := config.Config{}
	local, root := cmd.Flags(), cmd.Root().PersistentFlags()
	for _, fk := range flagKeys {
		if !flagWasSet(local, root, fk.flag) {
			continue
		}
		f := local.Lookup(fk.flag)
		if f == nil {
			f = root.Lookup(fk.flag)
		}
		if err := flags.Set(fk.key, f.Value.String()); err != nil {
			return nil, fmt.Errorf("--%s: %w", fk.flag, err)
		}
	}

	explicit := config.Merge(config.Merge(file, env), flags)
	if flags.City != "" && !flags.HasCoordinates() {
		explicit.Latitude, explicit.Longitude = nil, nil
	}

	// A preset city supplies the method and timezone nobody chose.
	if explicit.City != "" && !explicit.HasCoordinates() {
		if c, ok := geo.LookupCity(explicit.City); ok {
			if explicit.Method == "" {
				explicit.Method = c.Method
			}
			if explicit.Timezone == "" {
				explicit.Timezone = c.Timezone
			}
		}
	}

	cfg := config.Merge(config.Defaults(), explicit)
	log.Debug().
		Str("method", cfg.Method).
		Str("madhhab", cfg.Madhhab).
		Str("model", cfg.Model).
		Str("backend", cfg.Backend).
		Msg("effective config")
	return &cfg, nil
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}
