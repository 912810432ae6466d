package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/talkclient/internal/flagx"
	"github.com/dmitrijs2005/talkclient/internal/timex"
)

// ConfigEnv names the environment variable consulted when neither -c nor
// -config is given.
const ConfigEnv = "TALK_SERVER_CONFIG"

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// Durations accept strings such as "720h" or integer nanoseconds.
type JsonConfig struct {
	EndpointAddr        string         `json:"endpoint_addr"`
	SecretKey           string         `json:"secret_key"`
	AppPasswordValidity timex.Duration `json:"app_password_validity"`
	LogLevel            string         `json:"log_level"`
	Users               []SeedUser     `json:"users"`
	SeedRooms           *bool          `json:"seed_rooms"`
}

// parseJson overlays config with the JSON file named by -c/-config (or
// TALK_SERVER_CONFIG). Absent values keep what config holds; a present
// "users" list replaces the default accounts. Panics on read or unmarshal
// errors.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:], ConfigEnv)

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AppPasswordValidity.Duration != 0 {
		config.AppPasswordValidity = c.AppPasswordValidity.Duration
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	if c.Users != nil {
		config.Users = c.Users
	}
	if c.SeedRooms != nil {
		config.SeedRooms = *c.SeedRooms
	}
}
