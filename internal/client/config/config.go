package config

import (
	"time"
)

// Config holds runtime settings for the Talk CLI.
//
// Units: every interval and delay is a time.Duration.
type Config struct {
	// ServerURL is the default server offered by the login prompt.
	ServerURL    string
	DatabasePath string
	LogLevel     string

	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	PurgeInterval       time.Duration

	// Retries is how often a failed room operation is repeated.
	Retries             uint64
	RetryDelay          time.Duration
	SuccessDismissDelay time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DatabasePath = "talk.db"
	c.LogLevel = "info"
	c.RequestTimeout = 15 * time.Second
	c.OnlineCheckInterval = 10 * time.Second
	c.PurgeInterval = time.Minute
	c.Retries = 1
	c.RetryDelay = 250 * time.Millisecond
	c.SuccessDismissDelay = 2500 * time.Millisecond
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
