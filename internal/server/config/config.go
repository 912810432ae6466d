// Package config handles configuration for the development server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// SeedUser is an account created at startup.
type SeedUser struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// Config holds runtime settings for the development Talk server.
//
// Fields:
//   - EndpointAddr: bind address of the HTTP endpoint.
//   - SecretKey: HMAC secret for signing app passwords (HS256).
//   - AppPasswordValidity: lifetime of an issued app password.
//   - LogLevel: slog level name.
//   - Users: accounts created at startup.
//   - SeedRooms: create demo rooms for the first two users.
type Config struct {
	EndpointAddr        string
	SecretKey           string
	AppPasswordValidity time.Duration
	LogLevel            string
	Users               []SeedUser
	SeedRooms           bool
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure and meant for local testing only.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = "127.0.0.1:8080"
	c.SecretKey = "secretKey"
	c.AppPasswordValidity = 30 * 24 * time.Hour
	c.LogLevel = "info"
	c.Users = []SeedUser{
		{Username: "alice", Password: "alice", DisplayName: "Alice"},
		{Username: "bob", Password: "bob", DisplayName: "Bob"},
	}
	c.SeedRooms = true
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
