package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
postgres:
  dsn: "postgres://localhost/raceodds"
health:
  port: 8090
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.Scraper.Headless {
		t.Error("headless should default to true")
	}
	if cfg.Scraper.NavigationTimeout != 60*time.Second {
		t.Errorf("navigation_timeout = %v, want 60s", cfg.Scraper.NavigationTimeout)
	}
	if cfg.Scraper.SelectorTimeout != 20*time.Second {
		t.Errorf("selector_timeout = %v, want 20s", cfg.Scraper.SelectorTimeout)
	}
	if cfg.Scraper.PolitenessDelay != 2*time.Second {
		t.Errorf("politeness_delay = %v, want 2s", cfg.Scraper.PolitenessDelay)
	}
	if cfg.Scraper.MarketLocator != "first" {
		t.Errorf("market_locator = %q, want first", cfg.Scraper.MarketLocator)
	}
	if cfg.Redis.TTL != 30*time.Minute {
		t.Errorf("redis.ttl = %v, want 30m", cfg.Redis.TTL)
	}
	if cfg.Postgres.DSN != "postgres://localhost/raceodds" {
		t.Errorf("postgres.dsn = %q", cfg.Postgres.DSN)
	}
	if cfg.Health.Port != 8090 {
		t.Errorf("health.port = %d, want 8090", cfg.Health.Port)
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
scraper:
  headless: false
  navigation_timeout: 90s
  market_locator: label
  market_label: "Winner"
  urls:
    F1: "https://example.test/f1"
service:
  interval: 15m
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scraper.Headless {
		t.Error("headless should be false")
	}
	if cfg.Scraper.NavigationTimeout != 90*time.Second {
		t.Errorf("navigation_timeout = %v, want 90s", cfg.Scraper.NavigationTimeout)
	}
	if cfg.Scraper.MarketLabel != "Winner" {
		t.Errorf("market_label = %q, want Winner", cfg.Scraper.MarketLabel)
	}
	if cfg.Scraper.URLs["F1"] != "https://example.test/f1" {
		t.Errorf("urls[F1] = %q", cfg.Scraper.URLs["F1"])
	}
	if cfg.Service.Interval != 15*time.Minute {
		t.Errorf("service.interval = %v, want 15m", cfg.Service.Interval)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "scraper: [")); err == nil {
		t.Error("expected error for malformed yaml")
	}
	if _, err := Load(writeConfig(t, "scraper:\n  market_locator: guess\n")); err == nil {
		t.Error("expected error for unknown market locator")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Health.Port != 8080 {
		t.Errorf("health.port = %d, want 8080", cfg.Health.Port)
	}
	if cfg.Service.Interval != 30*time.Minute {
		t.Errorf("service.interval = %v, want 30m", cfg.Service.Interval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}
