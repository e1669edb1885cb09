package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Scraper  ScraperConfig  `yaml:"scraper"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Telegram TelegramConfig `yaml:"telegram"`
	Health   HealthConfig   `yaml:"health"`
	Service  ServiceConfig  `yaml:"service"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ScraperConfig struct {
	Headless          bool              `yaml:"headless"`
	UserAgent         string            `yaml:"user_agent"`
	NavigationTimeout time.Duration     `yaml:"navigation_timeout"` // Hard ceiling on page navigation (default: 60s)
	SelectorTimeout   time.Duration     `yaml:"selector_timeout"`   // Bounded wait for odds widgets (default: 20s)
	SettleDelay       time.Duration     `yaml:"settle_delay"`       // Pause after DOM parsed (default: 5s)
	RenderDelay       time.Duration     `yaml:"render_delay"`       // Pause after odds widgets appeared (default: 3s)
	PolitenessDelay   time.Duration     `yaml:"politeness_delay"`   // Pause between series in ScrapeAll (default: 2s)
	DiagnosticsDir    string            `yaml:"diagnostics_dir"`    // Where debug_<series>.{html,png} land (default: ".")
	MarketLocator     string            `yaml:"market_locator"`     // "first" or "label"
	MarketLabel       string            `yaml:"market_label"`       // Used by the "label" locator (default: "Race Winner")
	URLs              map[string]string `yaml:"urls"`               // Optional per-series URL overrides
	ChromeDebug       bool              `yaml:"chrome_debug"`       // Forward chromedp logs to slog.Debug
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // Lifetime of a cached snapshot (default: 30m)
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
	TopN     int    `yaml:"top_n"`
}

type HealthConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

type ServiceConfig struct {
	Interval   time.Duration `yaml:"interval"`
	RunOnStart bool          `yaml:"run_on_start"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // DEBUG, INFO, WARN, ERROR
	File  string `yaml:"file"`  // Optional JSON log file in addition to stdout
}

const (
	DefaultUserAgent   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"
	DefaultMarketLabel = "Race Winner"
)

// Default returns a config with every default applied and headless Chrome.
func Default() *Config {
	cfg := &Config{Scraper: ScraperConfig{Headless: true}}
	cfg.ApplyDefaults()
	return cfg
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{Scraper: ScraperConfig{Headless: true}}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	s := &c.Scraper
	if s.UserAgent == "" {
		s.UserAgent = DefaultUserAgent
	}
	if s.NavigationTimeout <= 0 {
		s.NavigationTimeout = 60 * time.Second
	}
	if s.SelectorTimeout <= 0 {
		s.SelectorTimeout = 20 * time.Second
	}
	if s.SettleDelay <= 0 {
		s.SettleDelay = 5 * time.Second
	}
	if s.RenderDelay <= 0 {
		s.RenderDelay = 3 * time.Second
	}
	if s.PolitenessDelay <= 0 {
		s.PolitenessDelay = 2 * time.Second
	}
	if s.DiagnosticsDir == "" {
		s.DiagnosticsDir = "."
	}
	if s.MarketLocator == "" {
		s.MarketLocator = "first"
	}
	if s.MarketLabel == "" {
		s.MarketLabel = DefaultMarketLabel
	}

	if c.Redis.TTL <= 0 {
		c.Redis.TTL = 30 * time.Minute
	}
	if c.Telegram.TopN <= 0 {
		c.Telegram.TopN = 5
	}
	if c.Health.Port <= 0 {
		c.Health.Port = 8080
	}
	if c.Health.ReadHeaderTimeout <= 0 {
		c.Health.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Service.Interval <= 0 {
		c.Service.Interval = 30 * time.Minute
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "INFO"
	}
}

// Validate rejects settings the scraper cannot run with.
func (c *Config) Validate() error {
	switch c.Scraper.MarketLocator {
	case "first", "label":
	default:
		return fmt.Errorf("scraper.market_locator must be \"first\" or \"label\", got %q", c.Scraper.MarketLocator)
	}
	return nil
}
