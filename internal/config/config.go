package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"StockDash/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Watchlist struct {
		Default   string `yaml:"default"`
		StateFile string `yaml:"state_file"`
	} `yaml:"watchlist"`
	Refresh struct {
		IntervalSec int    `yaml:"interval_sec"`
		ChartMode   string `yaml:"chart_mode"`
	} `yaml:"refresh"`
	Cache struct {
		QuoteTTLSec   int    `yaml:"quote_ttl_sec"`
		HistoryTTLSec int    `yaml:"history_ttl_sec"`
		SweepCron     string `yaml:"sweep_cron"`
		SweepGraceMin int    `yaml:"sweep_grace_min"`
	} `yaml:"cache"`
	DataSource struct {
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
		Timezone string `yaml:"timezone"`
	} `yaml:"data_source"`
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist.Default = v
	}
	if v := os.Getenv("REFRESH_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Refresh.IntervalSec = n
		}
	}
	if v := os.Getenv("CHART_MODE"); v != "" {
		cfg.Refresh.ChartMode = v
	}
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("PROVIDER_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Watchlist.Default == "" {
		cfg.Watchlist.Default = "AAPL,MSFT,GOOGL,TSLA,AMZN,META,NVDA"
	}
	if cfg.Watchlist.StateFile == "" {
		cfg.Watchlist.StateFile = "data/settings.json"
	}
	if cfg.Refresh.IntervalSec == 0 {
		cfg.Refresh.IntervalSec = 10
	}
	if cfg.Refresh.ChartMode == "" {
		cfg.Refresh.ChartMode = string(model.ModeLine)
	}
	if cfg.Cache.QuoteTTLSec == 0 {
		cfg.Cache.QuoteTTLSec = 15
	}
	if cfg.Cache.HistoryTTLSec == 0 {
		cfg.Cache.HistoryTTLSec = 30
	}
	if cfg.Cache.SweepCron == "" {
		cfg.Cache.SweepCron = "0 */10 * * * *"
	}
	if cfg.Cache.SweepGraceMin == 0 {
		cfg.Cache.SweepGraceMin = 60
	}
	if cfg.DataSource.Timezone == "" {
		cfg.DataSource.Timezone = "America/New_York"
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stockdash.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are sane.
func (c *Config) Validate() error {
	if c.Refresh.IntervalSec < model.MinRefreshSec || c.Refresh.IntervalSec > model.MaxRefreshSec {
		return fmt.Errorf("refresh.interval_sec must be between %d and %d", model.MinRefreshSec, model.MaxRefreshSec)
	}
	if !model.ValidChartMode(c.Refresh.ChartMode) {
		return fmt.Errorf("refresh.chart_mode must be %q or %q", model.ModeLine, model.ModeCandlestick)
	}
	if c.Cache.QuoteTTLSec <= 0 || c.Cache.HistoryTTLSec <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	return nil
}
