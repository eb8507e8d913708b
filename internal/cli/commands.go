package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/miqat/internal/api"
	"github.com/smokyabdulrahman/miqat/internal/cache"
	"github.com/smokyabdulrahman/miqat/internal/config"
	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/service"
	"github.com/smokyabdulrahman/miqat/internal/solar"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long:  "Display current configuration, or use subcommands to modify it.\nWhen run without subcommands, shows the current configuration.",
		RunE:  runConfigShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf("Set a configuration value. Valid keys: %s\n\nEvery key can also be set with a %s<KEY> environment variable.\n\nExamples:\n  prayer-times config set city London\n  prayer-times config set method mwl\n  prayer-times config set madhhab hanafi\n  prayer-times config set time_format 12h\n  prayer-times config set prayers Fajr,Dhuhr,Asr,Maghrib,Isha",
			strings.Join(config.ValidKeys, ", "), config.EnvPrefix),
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset config to defaults",
		Long:  "Delete the config file and restore all settings to defaults.",
		RunE:  runConfigReset,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print config file path",
		RunE:  runConfigPath,
	})

	return cmd
}

// runConfigShow displays the stored configuration, with defaults for unset keys.
func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	defaults := config.Defaults()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  Configuration (%s)\n\n", path)

	for _, key := range config.ValidKeys {
		val, _ := cfg.Get(key)
		shown := val
		switch {
		case val == "":
			if def, _ := defaults.Get(key); def != "" {
				shown = display.Gray(def + " (default)")
			} else {
				shown = display.Gray("(not set)")
			}
		case key == "method":
			shown = formatMethodValue(val)
		case key == "city":
			shown = geo.FormatCityName(val)
		}
		fmt.Fprintf(out, "  %-14s %s\n", key, shown)
	}
	return nil
}

// runConfigSet sets a config key to the given value.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	stored, _ := cfg.Get(key)
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, stored)
	return nil
}

// runConfigReset deletes the config file.
func runConfigReset(cmd *cobra.Command, args []string) error {
	if err := config.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
	return nil
}

// runConfigPath prints the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// formatMethodValue adds the method name to the stored alias.
func formatMethodValue(val string) string {
	m, ok := service.NormalizeMethod(val)
	if !ok {
		return val
	}
	return fmt.Sprintf("%s (%s)", val, m.Params().Name)
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List all calculation methods",
		Long:  "Print the supported calculation methods with their twilight angles and accepted aliases.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Supported calculation methods:")
			fmt.Fprintln(out)

			tbl := display.NewTable([]string{"Key", "Name", "Fajr", "Isha", "Al Adhan", "Aliases"})
			for _, m := range solar.Methods {
				p := m.Params()
				isha := formatAngle(p.IshaAngle)
				if p.IshaInterval > 0 {
					isha = fmt.Sprintf("+%dm", int(p.IshaInterval.Minutes()))
				}
				tbl.AddRow([]string{
					p.Key,
					p.Name,
					formatAngle(p.FajrAngle),
					isha,
					strconv.Itoa(api.MethodID(m)),
					strings.Join(service.MethodAliases(m), ", "),
				})
			}
			fmt.Fprint(out, tbl.Render())
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Use --method <alias> to select a calculation method (default: %s).\n", service.DefaultMethod)
			fmt.Fprintln(out, "Unrecognised aliases fall back to the default with a warning.")
			return nil
		},
	}
}

func formatAngle(deg float64) string {
	return strconv.FormatFloat(deg, 'f', -1, 64) + "°"
}

var flagPopular bool

func newCitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cities",
		Short: "List preset cities",
		Long:  "Print the preset cities usable with --city or `config set city`.",
		RunE: func(cmd *cobra.Command, args []string) error {
			list := geo.Cities()
			if flagPopular {
				list = geo.PopularCities()
			}

			out := cmd.OutOrStdout()
			if FlagJSON {
				return writeJSON(out, list)
			}

			tbl := display.NewTable([]string{"City", "Country", "Region", "Coordinates", "Timezone", "Method"})
			for _, c := range list {
				name := c.Name
				if c.Popular {
					name = display.Bold(name)
				}
				tbl.AddRow([]string{
					name,
					c.Country,
					c.Region,
					c.Location().Coordinate().String(),
					c.Timezone,
					c.Method,
				})
			}
			fmt.Fprint(out, tbl.Render())
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagPopular, "popular", false, "Only the popular presets")
	return cmd
}

var flagPruneOlderThan time.Duration

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached reference timings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Dir())
			return nil
		},
	})

	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete cached timings for past days",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache(cmd)
			if err != nil {
				return err
			}
			n, err := c.Prune(now().Add(-flagPruneOlderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached day(s).\n", n)
			return nil
		},
	}
	prune.Flags().DurationVar(&flagPruneOlderThan, "older-than", 0, "Keep entries newer than this age, e.g. 720h")
	cmd.AddCommand(prune)

	return cmd
}

func openCache(cmd *cobra.Command) (*cache.Cache, error) {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cache.New(cfg.CacheDir)
}
