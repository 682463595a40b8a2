package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "sfstate.yaml", `
log_level: debug
time_zone: Europe/Berlin
store:
  driver: postgres
  postgres:
    host: db
    port: 6543
replay:
  concurrency: 8
  stop_on_error: true
`)
	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://sfstate:sfstate@db:6543/sfstate?sslmode=disable", cfg.Store.DSN())
	assert.Equal(t, 8, cfg.Replay.Concurrency)
	assert.True(t, cfg.Replay.StopOnError)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SFSTATE_LOG_LEVEL", "warn")
	t.Setenv("SFSTATE_STORE_DRIVER", "sqlite")
	t.Setenv("SFSTATE_REPLAY_CONCURRENCY", "2")

	path := writeFile(t, "sfstate.yaml", "log_level: debug\n")
	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "sfstate.db", cfg.Store.DSN())
	assert.Equal(t, 2, cfg.Replay.Concurrency)
}

func TestLoad_EnvFile(t *testing.T) {
	// godotenv never overrides variables that are already set.
	t.Setenv("SFSTATE_STORE_SQLITEPATH", "")
	require.NoError(t, os.Unsetenv("SFSTATE_STORE_SQLITEPATH"))

	env := writeFile(t, ".env", "SFSTATE_STORE_SQLITEPATH=/data/snap.db\n")
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"), env)
	require.NoError(t, err)
	assert.Equal(t, "/data/snap.db", cfg.Store.SQLitePath)

	_, err = Load(filepath.Join(t.TempDir(), "none.yaml"), filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"driver", func(c *Config) { c.Store.Driver = "mongo" }},
		{"sqlite path", func(c *Config) { c.Store.Driver = "sqlite"; c.Store.SQLitePath = "" }},
		{"concurrency", func(c *Config) { c.Replay.Concurrency = 0 }},
		{"time zone", func(c *Config) { c.TimeZone = "Mars/Olympus" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}

	require.NoError(t, Default().Validate())
}

func TestLocation_DefaultsToLocal(t *testing.T) {
	loc, err := Default().Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeFile(t, "bad.yaml", "store: [\n")
	_, err := Load(path, "")
	require.Error(t, err)
}
