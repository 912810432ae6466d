package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr":         "www.example:9000",
		"secret_key":            "my_secret_key",
		"app_password_validity": "1h",
		"users": []map[string]string{
			{"username": "carol", "password": "pw", "display_name": "Carol"},
		},
		"seed_rooms": false,
	})
	pathEnv := writeTempJSON(t, dir, "env.json", map[string]any{
		"log_level": "debug",
	})

	t.Run("loads from flag", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddr)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, time.Hour, cfg.AppPasswordValidity)
		assert.Equal(t, "info", cfg.LogLevel, "absent keys keep defaults")
		assert.Equal(t, []SeedUser{{Username: "carol", Password: "pw", DisplayName: "Carol"}}, cfg.Users)
		assert.False(t, cfg.SeedRooms)
	})

	t.Run("falls back to env", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv(ConfigEnv, pathEnv)

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Len(t, cfg.Users, 2)
		assert.True(t, cfg.SeedRooms)
	})

	t.Run("no config → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv(ConfigEnv, "")

		cfg := &Config{EndpointAddr: "defaults:1234", SecretKey: "key"}
		parseJson(cfg)

		assert.Equal(t, &Config{EndpointAddr: "defaults:1234", SecretKey: "key"}, cfg)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
