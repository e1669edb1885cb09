package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Vodeneev/raceodds/internal/pkg/enums"
	"github.com/Vodeneev/raceodds/internal/pkg/models"
	"github.com/Vodeneev/raceodds/internal/pkg/storage"
)

// Scraper produces snapshots; implemented by draftkings.Scraper
type Scraper interface {
	Scrape(ctx context.Context, series enums.Series) (*models.RaceOddsSnapshot, error)
	ScrapeAll(ctx context.Context) map[enums.Series]*models.RaceOddsSnapshot
}

// Sink receives every snapshot produced by a sync
type Sink interface {
	Name() string
	Write(ctx context.Context, snap *models.RaceOddsSnapshot) error
}

// Options configures the runner
type Options struct {
	// Interval between scheduled syncs; also bounds a single cycle
	Interval time.Duration
	// RunOnStart runs the first sync immediately instead of after one interval
	RunOnStart bool
	// OnError is called when a sink returns an error. If nil, errors are logged.
	OnError func(sink Sink, series enums.Series, err error)
}

// Runner scrapes all series on a schedule and writes results to the sinks
type Runner struct {
	scraper Scraper
	sinks   []Sink
	cache   storage.SnapshotCache
	store   storage.RaceOddsStorage
	opts    Options

	// serializes cycles; scheduled and manual syncs never overlap
	cycleMu sync.Mutex
	trigger chan struct{}
}

func NewRunner(scraper Scraper, opts Options, sinks ...Sink) *Runner {
	if opts.OnError == nil {
		opts.OnError = func(sink Sink, series enums.Series, err error) {
			slog.Error("Sink failed", "sink", sink.Name(), "series", series, "error", err)
		}
	}
	return &Runner{
		scraper: scraper,
		sinks:   sinks,
		opts:    opts,
		trigger: make(chan struct{}, 1),
	}
}

// WithReaders sets where Latest looks for stored snapshots: cache first, then store. Either may be nil.
func (r *Runner) WithReaders(cache storage.SnapshotCache, store storage.RaceOddsStorage) *Runner {
	r.cache = cache
	r.store = store
	return r
}

// RunOnce scrapes every series and writes the non-empty results to all sinks.
func (r *Runner) RunOnce(ctx context.Context) map[enums.Series]*models.RaceOddsSnapshot {
	r.cycleMu.Lock()
	defer r.cycleMu.Unlock()

	start := time.Now()
	slog.Info("Starting sync cycle", "series", enums.AllSeries)
	results := r.scraper.ScrapeAll(ctx)

	for _, series := range enums.AllSeries {
		snap, ok := results[series]
		if !ok {
			continue
		}
		r.writeSinks(ctx, snap)
	}

	slog.Info("Sync cycle finished", "series_with_odds", len(results), "duration", time.Since(start))
	return results
}

// SyncSeries scrapes one series and writes the result to all sinks.
// Sinks decide what to do with an empty snapshot.
func (r *Runner) SyncSeries(ctx context.Context, series enums.Series) (*models.RaceOddsSnapshot, error) {
	r.cycleMu.Lock()
	defer r.cycleMu.Unlock()

	snap, err := r.scraper.Scrape(ctx, series)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", series, err)
	}
	r.writeSinks(ctx, snap)
	return snap, nil
}

// writeSinks writes snap to all sinks in parallel and waits for them
func (r *Runner) writeSinks(ctx context.Context, snap *models.RaceOddsSnapshot) {
	var wg sync.WaitGroup
	for _, sink := range r.sinks {
		sink := sink
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sink.Write(ctx, snap); err != nil && ctx.Err() == nil {
				r.opts.OnError(sink, snap.Series, err)
			}
		}()
	}
	wg.Wait()
}

// Latest returns the most recent snapshot of series from the cache, falling back to the store.
func (r *Runner) Latest(ctx context.Context, series enums.Series) (*models.RaceOddsSnapshot, error) {
	if r.cache != nil {
		snap, err := r.cache.Latest(ctx, series)
		if err != nil {
			slog.Warn("Snapshot cache read failed, falling back to storage", "series", series, "error", err)
		} else if !snap.Empty() {
			return snap, nil
		}
	}
	if r.store != nil {
		return r.store.LatestSnapshot(ctx, series)
	}
	return nil, nil
}

// Clear removes the stored and cached odds of series, e.g. after a race weekend.
// It waits for a running cycle so the cleared data is not rewritten by it.
func (r *Runner) Clear(ctx context.Context, series enums.Series) error {
	r.cycleMu.Lock()
	defer r.cycleMu.Unlock()

	if r.store != nil {
		if err := r.store.DeleteSeries(ctx, series); err != nil {
			return fmt.Errorf("clear %s storage: %w", series, err)
		}
	}
	if r.cache != nil {
		if err := r.cache.Delete(ctx, series); err != nil {
			return fmt.Errorf("clear %s cache: %w", series, err)
		}
	}
	slog.Info("Cleared stored odds", "series", series)
	return nil
}

// Trigger requests an out-of-schedule cycle (non-blocking)
func (r *Runner) Trigger() {
	select {
	case r.trigger <- struct{}{}:
		slog.Info("Triggered new sync cycle")
	default:
		slog.Debug("Cycle already triggered, skipping duplicate trigger")
	}
}

// Run syncs every Interval until ctx is done
func (r *Runner) Run(ctx context.Context) error {
	if r.opts.Interval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %s", r.opts.Interval)
	}

	slog.Info("Sync loop started", "interval", r.opts.Interval, "run_on_start", r.opts.RunOnStart)
	if r.opts.RunOnStart {
		r.Trigger()
	}

	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	cycles := 0
	for {
		select {
		case <-ctx.Done():
			slog.Info("Sync loop stopped", "total_cycles", cycles)
			return nil
		case <-ticker.C:
		case <-r.trigger:
		}

		cycles++
		cycleCtx, cancel := context.WithTimeout(ctx, r.opts.Interval)
		r.RunOnce(cycleCtx)
		cancel()
	}
}
