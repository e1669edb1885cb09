// One-shot scrape of DraftKings race winner odds.
//
//	go run ./cmd/odds-scraper
//	go run ./cmd/odds-scraper -series nascar -top 10
//	go run ./cmd/odds-scraper -series all -json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Vodeneev/raceodds/internal/parser/draftkings"
	"github.com/Vodeneev/raceodds/internal/pkg/config"
	"github.com/Vodeneev/raceodds/internal/pkg/enums"
	"github.com/Vodeneev/raceodds/internal/pkg/logging"
	"github.com/Vodeneev/raceodds/internal/pkg/models"
)

const seriesAll = "all"

var errUsage = errors.New("usage error")

type options struct {
	series     string
	configPath string
	headless   bool
	top        int
	asJSON     bool
	timeout    time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.series, "series", string(enums.F1), "series to scrape: F1, NASCAR or all")
	flag.StringVar(&opts.configPath, "config", "", "optional config file (scraper and logging sections are used)")
	flag.BoolVar(&opts.headless, "headless", true, "run Chrome without a window")
	flag.IntVar(&opts.top, "top", 10, "number of drivers to print (0 = all)")
	flag.BoolVar(&opts.asJSON, "json", false, "print full snapshots as JSON")
	flag.DurationVar(&opts.timeout, "timeout", 5*time.Minute, "overall deadline")
	flag.Parse()

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, errUsage) || errors.Is(err, draftkings.ErrUnknownSeries) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(opts options, out io.Writer) error {
	targets, err := resolveSeries(opts.series)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if opts.configPath != "" {
		if cfg, err = config.Load(opts.configPath); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	cfg.Scraper.Headless = opts.headless

	_, closer, err := logging.SetupLogger(&cfg.Logging, "odds-scraper")
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	defer closer.Close()

	scraper, err := draftkings.NewFromConfig(&cfg.Scraper)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snapshots := make([]*models.RaceOddsSnapshot, 0, len(targets))
	if len(targets) > 1 {
		results := scraper.ScrapeAll(ctx)
		for _, series := range targets {
			snap, ok := results[series]
			if !ok {
				snap = &models.RaceOddsSnapshot{Series: series, RaceLabel: draftkings.UnknownRace, Entries: []models.DriverPrice{}}
			}
			snapshots = append(snapshots, snap)
		}
	} else {
		snap, err := scraper.Scrape(ctx, targets[0])
		if err != nil {
			return err
		}
		snapshots = append(snapshots, snap)
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshots)
	}
	for i, snap := range snapshots {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := printSnapshot(out, snap, opts.top); err != nil {
			return err
		}
	}
	return nil
}

// resolveSeries turns the -series flag into the list of series to scrape.
func resolveSeries(raw string) ([]enums.Series, error) {
	if strings.EqualFold(strings.TrimSpace(raw), seriesAll) {
		return append([]enums.Series(nil), enums.AllSeries...), nil
	}
	series, err := enums.ParseSeries(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	return []enums.Series{series}, nil
}
