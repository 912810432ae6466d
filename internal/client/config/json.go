package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/talkclient/internal/flagx"
	"github.com/dmitrijs2005/talkclient/internal/timex"
)

// ConfigEnv names the environment variable consulted when neither -c nor
// -config is given.
const ConfigEnv = "TALK_CONFIG"

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds.
type JsonConfig struct {
	ServerURL           string         `json:"server_url"`
	DatabasePath        string         `json:"database_path"`
	LogLevel            string         `json:"log_level"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	PurgeInterval       timex.Duration `json:"purge_interval"`
	Retries             *uint64        `json:"retries"`
	RetryDelay          timex.Duration `json:"retry_delay"`
	SuccessDismissDelay timex.Duration `json:"success_dismiss_delay"`
}

// parseJson overlays Config with the values present in the JSON file named by
// -c/-config (or TALK_CONFIG). Absent or zero values keep what cfg holds.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:], ConfigEnv)
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setDuration(&cfg.PurgeInterval, jc.PurgeInterval)
	setDuration(&cfg.RetryDelay, jc.RetryDelay)
	setDuration(&cfg.SuccessDismissDelay, jc.SuccessDismissDelay)
	if jc.Retries != nil {
		cfg.Retries = *jc.Retries
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
