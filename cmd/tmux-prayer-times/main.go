// Command tmux-prayer-times prints a one-line next-prayer status for tmux
// status bars. Times are always computed locally so the status line never
// waits on the network.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
	"github.com/smokyabdulrahman/miqat/internal/service"
	"github.com/smokyabdulrahman/miqat/internal/solar"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	latitude   float64
	longitude  float64
	city       string
	method     string
	madhhab    string
	model      string
	timezone   string
	format     string
	timeFormat string
	prayers    string
}

func run(args []string, out io.Writer, now time.Time) error {
	fs := pflag.NewFlagSet("tmux-prayer-times", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var o options
	fs.Float64Var(&o.latitude, "latitude", 0, "Latitude for prayer time calculation")
	fs.Float64Var(&o.longitude, "longitude", 0, "Longitude for prayer time calculation")
	fs.StringVar(&o.city, "city", "", "Preset city (alternative to coordinates)")
	fs.StringVar(&o.method, "method", "", "Calculation method alias, e.g. isna or mwl")
	fs.StringVar(&o.madhhab, "madhhab", "", "Madhhab for Asr: shafi or hanafi")
	fs.StringVar(&o.model, "model", solar.ModelApproximate.String(), "Model: approximate or astronomical")
	fs.StringVar(&o.timezone, "timezone", "", "IANA timezone (default: city's zone, else local)")
	fs.StringVar(&o.format, "format", prayer.FormatNameAndTime, "Display format: "+strings.Join(prayer.Formats, ", ")+", or a custom Go template (e.g. '{{.Name}} in {{.Remaining}}')")
	fs.StringVar(&o.timeFormat, "time-format", "24h", "Time format: 12h or 24h")
	fs.StringVar(&o.prayers, "prayers", "", "Comma-separated list of prayers to track (default: all six)")
	showVersion := fs.Bool("version", false, "Print version and exit")
	listMethods := fs.Bool("list-methods", false, "Print supported calculation methods and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fs.SetOutput(out)
			fs.PrintDefaults()
			return nil
		}
		return err
	}

	if *showVersion {
		fmt.Fprintf(out, "tmux-prayer-times %s\n", version)
		return nil
	}
	if *listMethods {
		printMethods(out)
		return nil
	}

	hasCoords := fs.Changed("latitude") || fs.Changed("longitude")
	return status(out, o, hasCoords, now)
}

// printMethods prints the supported method keys and their names.
func printMethods(w io.Writer) {
	fmt.Fprintln(w, "Supported calculation methods:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-22s %s\n", "Key", "Name")
	fmt.Fprintf(w, "  %-22s %s\n", "───", "────")
	for _, m := range solar.Methods {
		fmt.Fprintf(w, "  %-22s %s\n", m, m.Params().Name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Use --method <key or alias> to select a calculation method.")
}

// status prints the next prayer in the requested format, with no newline.
func status(w io.Writer, o options, hasCoords bool, now time.Time) error {
	var (
		coord solar.Coordinate
		loc   = time.Local
	)
	switch {
	case hasCoords:
		coord = solar.Coordinate{Latitude: o.latitude, Longitude: o.longitude}
	case o.city != "":
		c, ok := geo.LookupCity(o.city)
		if !ok {
			return fmt.Errorf("unknown city %q", o.city)
		}
		coord = c.Location().Coordinate()
		loc = c.Location().TimeLocation()
		if o.method == "" {
			o.method = c.Method
		}
	default:
		return errors.New("--latitude/--longitude or --city is required")
	}

	if o.timezone != "" {
		tz, err := time.LoadLocation(o.timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone %q: %w", o.timezone, err)
		}
		loc = tz
	}

	model, err := solar.ParseModel(o.model)
	if err != nil {
		return err
	}
	svc := service.New(service.FallbackSelection(), service.WithEngine(solar.NewEngine(model)))

	var selected []string
	for _, n := range strings.Split(o.prayers, ",") {
		if n = strings.TrimSpace(n); n != "" {
			selected = append(selected, n)
		}
	}

	now = now.In(loc)
	day := func(t time.Time) ([]prayer.Prayer, error) {
		y, m, d := t.Date()
		times, err := svc.Compute(context.Background(), time.Date(y, m, d, 0, 0, 0, 0, loc), coord.Latitude, coord.Longitude, o.madhhab, o.method)
		if err != nil {
			return nil, err
		}
		return prayer.FromTimes(times.In(loc), selected)
	}

	today, err := day(now)
	if err != nil {
		return err
	}
	next := prayer.NextPrayer(today, now)
	if next == nil {
		tomorrow, err := day(now.AddDate(0, 0, 1))
		if err != nil {
			// Keep the status bar readable when tomorrow cannot be computed.
			if len(today) > 0 {
				fmt.Fprintf(w, "%s --:--", today[len(today)-1].Name)
				return nil
			}
			return err
		}
		next = prayer.NextAcross(today, tomorrow, now)
	}
	if next == nil {
		return errors.New("could not determine next prayer")
	}

	fmt.Fprint(w, prayer.FormatOutput(*next, now, o.format, prayer.Layout(o.timeFormat)))
	return nil
}
