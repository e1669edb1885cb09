package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vodeneev/raceodds/internal/parser/draftkings"
	pkgconfig "github.com/Vodeneev/raceodds/internal/pkg/config"
	"github.com/Vodeneev/raceodds/internal/pkg/health"
	"github.com/Vodeneev/raceodds/internal/pkg/health/handlers"
	"github.com/Vodeneev/raceodds/internal/pkg/logging"
	"github.com/Vodeneev/raceodds/internal/pkg/notify"
	"github.com/Vodeneev/raceodds/internal/pkg/performance"
	"github.com/Vodeneev/raceodds/internal/pkg/storage"
	"github.com/Vodeneev/raceodds/internal/pkg/syncer"
)

const (
	defaultConfigPath = "configs/production.yaml"
	serviceName       = "odds-service"
)

type config struct {
	configPath string
	runFor     time.Duration
}

func main() {
	if err := run(); err != nil {
		slog.Error("Odds service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	slog.Info("Starting odds service...")

	cfg := parseFlags()
	slog.Info("Loading config", "path", cfg.configPath)

	appConfig, err := pkgconfig.Load(cfg.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	_, logCloser, err := logging.SetupLogger(&appConfig.Logging, serviceName)
	if err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	} else {
		slog.Info("Logging initialized", "service", serviceName, "level", appConfig.Logging.Level)
	}
	defer logCloser.Close()

	scraper, err := draftkings.NewFromConfig(&appConfig.Scraper)
	if err != nil {
		return fmt.Errorf("failed to create scraper: %w", err)
	}

	sinks, cleanup, ready, err := buildSinks(appConfig)
	if err != nil {
		return err
	}
	defer cleanup()

	runner := syncer.NewRunner(scraper, syncer.Options{
		Interval:   appConfig.Service.Interval,
		RunOnStart: appConfig.Service.RunOnStart,
	}, sinks.list...).WithReaders(sinks.cache, sinks.store)

	ctx, cancel := createContext(cfg.runFor)
	defer cancel()
	setupSignalHandler(ctx, cancel)

	handlers.SetScrapeFunc(runner.SyncSeries)
	handlers.SetLatestFunc(runner.Latest)
	handlers.SetClearFunc(runner.Clear)
	handlers.SetReadyFunc(ready)

	healthAddr, err := health.AddrFor(appConfig.Health.Port)
	if err != nil {
		return fmt.Errorf("health.port: %w", err)
	}
	if err := health.Run(ctx, healthAddr, serviceName, appConfig.Health.ReadHeaderTimeout); err != nil {
		return err
	}

	slog.Info("Starting periodic sync", "interval", appConfig.Service.Interval)
	if err := runner.Run(ctx); err != nil {
		return err
	}

	performance.GetTracker().PrintSummary()
	slog.Info("Odds service stopped gracefully")
	return nil
}

type sinkSet struct {
	list  []syncer.Sink
	cache storage.SnapshotCache
	store storage.RaceOddsStorage
}

// buildSinks connects every configured backend; a backend without config is skipped.
func buildSinks(appConfig *pkgconfig.Config) (sinkSet, func(), handlers.ReadyFunc, error) {
	var (
		set     sinkSet
		closers []func()
		pingers []func(context.Context) error
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if appConfig.Postgres.DSN != "" {
		store, err := storage.NewPostgresRaceOddsStorage(&appConfig.Postgres)
		if err != nil {
			cleanup()
			return sinkSet{}, nil, nil, fmt.Errorf("failed to create postgres storage: %w", err)
		}
		set.store = store
		set.list = append(set.list, syncer.StorageSink{Store: store})
		closers = append(closers, func() { _ = store.Close() })
		pingers = append(pingers, store.Ping)
	} else {
		slog.Info("postgres.dsn not set, snapshots will not be persisted")
	}

	if appConfig.Redis.Addr != "" {
		cache, err := storage.NewRedisSnapshotCache(&appConfig.Redis)
		if err != nil {
			cleanup()
			return sinkSet{}, nil, nil, fmt.Errorf("failed to create redis cache: %w", err)
		}
		set.cache = cache
		set.list = append(set.list, syncer.CacheSink{Cache: cache})
		closers = append(closers, func() { _ = cache.Close() })
		pingers = append(pingers, cache.Ping)
	} else {
		slog.Info("redis.addr not set, snapshot cache disabled")
	}

	if appConfig.Telegram.BotToken != "" {
		notifier, err := notify.NewTelegramNotifier(&appConfig.Telegram)
		if err != nil {
			cleanup()
			return sinkSet{}, nil, nil, err
		}
		set.list = append(set.list, syncer.NotifySink{Notifier: notifier})
		closers = append(closers, notifier.Stop)
	} else {
		slog.Info("telegram.bot_token not set, notifications disabled")
	}

	ready := func(ctx context.Context) error {
		for _, ping := range pingers {
			if err := ping(ctx); err != nil {
				return err
			}
		}
		return nil
	}
	return set, cleanup, ready, nil
}

func parseFlags() config {
	var cfg config

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	flag.StringVar(&cfg.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.DurationVar(&cfg.runFor, "run-for", 0, "Auto-stop after duration (e.g. 10s, 1m). 0 = run until SIGINT/SIGTERM")
	flag.Parse()
	return cfg
}

func createContext(runFor time.Duration) (context.Context, context.CancelFunc) {
	if runFor > 0 {
		return context.WithTimeout(context.Background(), runFor)
	}
	return context.WithCancel(context.Background())
}

func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal, stopping odds service...", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			// Context already cancelled (timeout or parent cancellation)
		}
		signal.Stop(sigChan)
	}()
}
