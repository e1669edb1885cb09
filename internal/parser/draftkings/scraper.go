package draftkings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Vodeneev/raceodds/internal/pkg/config"
	"github.com/Vodeneev/raceodds/internal/pkg/enums"
	"github.com/Vodeneev/raceodds/internal/pkg/models"
	"github.com/Vodeneev/raceodds/internal/pkg/performance"
)

// ErrUnknownSeries is returned by Scrape for a series without a configured page.
var ErrUnknownSeries = errors.New("unknown series")

// Timings are the waits of one scrape. A zero delay skips that pause;
// a zero SelectorTimeout falls back to the default so the widget wait stays bounded.
type Timings struct {
	SettleDelay     time.Duration // after the DOM is parsed
	SelectorTimeout time.Duration // bounded wait for odds widgets
	RenderDelay     time.Duration // after the widgets appeared (or the wait gave up)
	PolitenessDelay time.Duration // between series in ScrapeAll
}

// Scraper pulls race winner odds for a series out of the DraftKings league page.
// One scrape owns one browser session; scrapes never run concurrently.
type Scraper struct {
	renderer    PageRenderer
	locator     MarketLocator
	diagnostics Diagnostics
	urls        map[enums.Series]string
	timings     Timings
	tracker     *performance.Tracker
	now         func() time.Time
	sleep       func(ctx context.Context, d time.Duration) error
}

// DefaultTimings match the config defaults.
var DefaultTimings = Timings{
	SettleDelay:     5 * time.Second,
	SelectorTimeout: 20 * time.Second,
	RenderDelay:     3 * time.Second,
	PolitenessDelay: 2 * time.Second,
}

type Option func(*Scraper)

func WithLocator(l MarketLocator) Option {
	return func(s *Scraper) { s.locator = l }
}

func WithDiagnostics(d Diagnostics) Option {
	return func(s *Scraper) { s.diagnostics = d }
}

func WithURLs(urls map[enums.Series]string) Option {
	return func(s *Scraper) { s.urls = urls }
}

func WithTimings(t Timings) Option {
	return func(s *Scraper) { s.timings = t }
}

func WithTracker(t *performance.Tracker) Option {
	return func(s *Scraper) { s.tracker = t }
}

func WithClock(now func() time.Time) Option {
	return func(s *Scraper) { s.now = now }
}

func NewScraper(renderer PageRenderer, opts ...Option) *Scraper {
	s := &Scraper{
		renderer:    renderer,
		locator:     FirstTwoColumnMarket{},
		diagnostics: noDiagnostics{},
		urls:        DefaultURLs,
		timings:     DefaultTimings,
		tracker:     performance.GetTracker(),
		now:         func() time.Time { return time.Now().UTC() },
		sleep:       sleepCtx,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromConfig wires a Chrome backed scraper with file diagnostics.
func NewFromConfig(cfg *config.ScraperConfig) (*Scraper, error) {
	locator, err := NewLocator(cfg.MarketLocator, cfg.MarketLabel)
	if err != nil {
		return nil, err
	}
	urls, err := mergeURLs(cfg.URLs)
	if err != nil {
		return nil, err
	}

	renderer := &ChromeRenderer{
		Headless:          cfg.Headless,
		UserAgent:         cfg.UserAgent,
		NavigationTimeout: cfg.NavigationTimeout,
		Debug:             cfg.ChromeDebug,
	}

	return NewScraper(renderer,
		WithLocator(locator),
		WithDiagnostics(FileDiagnostics{Dir: cfg.DiagnosticsDir}),
		WithURLs(urls),
		WithTimings(Timings{
			SettleDelay:     cfg.SettleDelay,
			SelectorTimeout: cfg.SelectorTimeout,
			RenderDelay:     cfg.RenderDelay,
			PolitenessDelay: cfg.PolitenessDelay,
		}),
	), nil
}

// Scrape returns the current race winner odds for series.
// Failures after the series is resolved are logged and yield an empty snapshot, never an error.
func (s *Scraper) Scrape(ctx context.Context, series enums.Series) (*models.RaceOddsSnapshot, error) {
	url, ok := s.urls[series]
	if !ok || url == "" {
		slog.Error("Unknown series", "series", series, "available", enums.AllSeries)
		return nil, fmt.Errorf("%w: %q", ErrUnknownSeries, series)
	}

	start := time.Now()
	snap := s.scrape(ctx, series, url)
	s.tracker.RecordScrape(series, len(snap.Entries), time.Since(start))
	return snap, nil
}

func (s *Scraper) scrape(ctx context.Context, series enums.Series, url string) *models.RaceOddsSnapshot {
	log := slog.With("series", series, "url", url)

	log.Info("Scraping odds", "state", "launching")
	page, err := s.renderer.Open(ctx, url)
	if err != nil {
		log.Error("Failed to open sportsbook page", "error", err)
		return Assemble(series, UnknownRace, nil, s.now())
	}
	defer func() {
		log.Debug("Closing browser", "state", "closing")
		if err := page.Close(); err != nil {
			log.Warn("Failed to release browser resources", "error", err)
		}
	}()

	log.Info("Page loaded, waiting for odds", "state", "waiting")
	if err := s.waitForOdds(ctx, page, log); err != nil {
		log.Error("Scrape aborted while waiting for odds", "error", err)
		return Assemble(series, UnknownRace, nil, s.now())
	}

	log.Info("Extracting race winner market", "state", "extracting", "locator", s.locator.Name())
	raceLabel, raw := s.extract(ctx, page, log)
	if len(raw) == 0 {
		log.Warn("No driver odds found, capturing diagnostics")
		s.diagnostics.Capture(ctx, series, page)
	}

	snap := Assemble(series, raceLabel, raw, s.now())
	log.Info("Scrape finished", "state", "done", "race", snap.RaceLabel, "drivers", len(snap.Entries))
	return snap
}

// waitForOdds gives client-side rendering time to fill the market.
// A missing odds widget is not fatal; only cancellation aborts.
func (s *Scraper) waitForOdds(ctx context.Context, page Page, log *slog.Logger) error {
	if err := s.sleep(ctx, s.timings.SettleDelay); err != nil {
		return err
	}
	timeout := s.timings.SelectorTimeout
	if timeout <= 0 {
		timeout = DefaultTimings.SelectorTimeout
	}
	if err := page.WaitFor(ctx, oddsWidgetSelector, timeout); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("Could not find typical odds selectors, proceeding anyway", "error", err)
	}
	return s.sleep(ctx, s.timings.RenderDelay)
}

func (s *Scraper) extract(ctx context.Context, page Page, log *slog.Logger) (string, []RawPrice) {
	html, err := page.HTML(ctx)
	if err != nil {
		log.Error("Failed to read rendered page", "error", err)
		return UnknownRace, nil
	}
	doc, err := ParseDocument(html)
	if err != nil {
		log.Error("Failed to parse rendered page", "error", err)
		return UnknownRace, nil
	}

	raceLabel := RaceLabel(doc)
	market := s.locator.Locate(doc)
	if market == nil {
		log.Warn("Race winner market not found", "locator", s.locator.Name())
		return raceLabel, nil
	}
	return raceLabel, ExtractPrices(market)
}

// ScrapeAll scrapes every known series in order, pausing between them.
// Series that came back empty are left out of the result.
func (s *Scraper) ScrapeAll(ctx context.Context) map[enums.Series]*models.RaceOddsSnapshot {
	results := make(map[enums.Series]*models.RaceOddsSnapshot, len(enums.AllSeries))
	for i, series := range enums.AllSeries {
		if i > 0 {
			if err := s.sleep(ctx, s.timings.PolitenessDelay); err != nil {
				slog.Warn("ScrapeAll interrupted", "error", err)
				break
			}
		}

		snap, err := s.Scrape(ctx, series)
		if err != nil {
			slog.Error("Scrape failed", "series", series, "error", err)
			continue
		}
		if snap.Empty() {
			slog.Warn("No odds for series, skipping", "series", series)
			continue
		}
		results[series] = snap
	}
	return results
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
