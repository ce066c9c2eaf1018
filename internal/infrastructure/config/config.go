package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration.
type Config struct {
	Runtime   RuntimeConfig
	Admin     AdminConfig
	Bridge    BridgeConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// RuntimeConfig selects the platform capability set and data locations.
type RuntimeConfig struct {
	Platform    string `envconfig:"XWALK_PLATFORM" default:"desktop"`
	UserDataDir string `envconfig:"XWALK_DATA_DIR" default:"/var/lib/xwalk"`
	AppsDir     string `envconfig:"XWALK_APPS_DIR" default:"/var/lib/xwalk/applications"`
}

// AdminConfig holds the inspection HTTP server configuration.
type AdminConfig struct {
	Port    string `envconfig:"XWALK_ADMIN_PORT" default:"8600"`
	Host    string `envconfig:"XWALK_ADMIN_HOST" default:"127.0.0.1"`
	Enabled bool   `envconfig:"XWALK_ADMIN_ENABLED" default:"true"`
}

// BridgeConfig holds the contents-client bridge endpoint configuration.
type BridgeConfig struct {
	Endpoint string        `envconfig:"XWALK_BRIDGE_ENDPOINT" default:"http://127.0.0.1:8601"`
	Timeout  time.Duration `envconfig:"XWALK_BRIDGE_TIMEOUT" default:"10s"`
	RetryMax int           `envconfig:"XWALK_BRIDGE_RETRY_MAX" default:"3"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"XWALK_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"XWALK_LOG_DEV" default:"false"`
}

// RateLimitConfig holds admin API rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"XWALK_RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"XWALK_RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"XWALK_RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			Platform:    "desktop",
			UserDataDir: "/var/lib/xwalk",
			AppsDir:     "/var/lib/xwalk/applications",
		},
		Admin: AdminConfig{
			Port:    "8600",
			Host:    "127.0.0.1",
			Enabled: true,
		},
		Bridge: BridgeConfig{
			Endpoint: "http://127.0.0.1:8601",
			Timeout:  10 * time.Second,
			RetryMax: 3,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
	}
}
