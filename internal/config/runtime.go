package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ytget/kicktracker/internal/platform"
)

// Environment variables that override the runtime file
const (
	EnvConfigPath   = "KICKTRACKER_CONFIG_PATH"
	EnvBaseURL      = "KICKTRACKER_BASE_URL"
	EnvLogLevel     = "KICKTRACKER_LOG_LEVEL"
	EnvSettingsPath = "KICKTRACKER_SETTINGS_PATH"
	EnvCacheSize    = "KICKTRACKER_CACHE_SIZE"
)

// Config holds runtime tuning that is not edited from the UI.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Refresh  RefreshConfig  `yaml:"refresh"`
	Cache    CacheConfig    `yaml:"cache"`
	Locale   LocaleConfig   `yaml:"locale"`
	Log      LogConfig      `yaml:"log"`
	Settings SettingsConfig `yaml:"settings"`
}

type SiteConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

type RefreshConfig struct {
	DataInterval time.Duration `yaml:"data_interval"`
	TickInterval time.Duration `yaml:"tick_interval"`
	Backoff      bool          `yaml:"backoff"`
	BackoffMax   time.Duration `yaml:"backoff_max"`
}

type CacheConfig struct {
	Capacity int `yaml:"capacity"`
}

type LocaleConfig struct {
	Tag    string `yaml:"tag"`
	Symbol string `yaml:"symbol"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type SettingsConfig struct {
	Path string `yaml:"path"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Site: SiteConfig{
			BaseURL: "https://www.kickstarter.com",
			Timeout: 15 * time.Second,
		},
		Refresh: RefreshConfig{
			DataInterval: 30 * time.Second,
			TickInterval: time.Second,
			Backoff:      true,
			BackoffMax:   10 * time.Minute,
		},
		Cache: CacheConfig{
			Capacity: 64,
		},
		Locale: LocaleConfig{
			Tag:    "en-US",
			Symbol: "$",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv(EnvConfigPath); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if baseURL := os.Getenv(EnvBaseURL); baseURL != "" {
		cfg.Site.BaseURL = baseURL
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Log.Level = level
	}
	if path := os.Getenv(EnvSettingsPath); path != "" {
		cfg.Settings.Path = path
	}
	if sizeStr := os.Getenv(EnvCacheSize); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvCacheSize, err)
		}
		cfg.Cache.Capacity = size
	}

	if cfg.Settings.Path == "" {
		path, err := platform.GetDefaultSettingsPath()
		if err != nil {
			return Config{}, fmt.Errorf("resolve settings path: %w", err)
		}
		cfg.Settings.Path = path
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the refresh loop cannot run with
func (c Config) Validate() error {
	if c.Refresh.DataInterval <= 0 {
		return fmt.Errorf("refresh.data_interval must be positive, got %s", c.Refresh.DataInterval)
	}
	if c.Refresh.TickInterval <= 0 {
		return fmt.Errorf("refresh.tick_interval must be positive, got %s", c.Refresh.TickInterval)
	}
	if c.Site.Timeout <= 0 {
		return fmt.Errorf("site.timeout must be positive, got %s", c.Site.Timeout)
	}
	if c.Cache.Capacity <= 0 {
		return fmt.Errorf("cache.capacity must be positive, got %d", c.Cache.Capacity)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
