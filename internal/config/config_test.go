package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvDB, EnvAddr, EnvLogLevel} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 5, cfg.Review.NewLimit)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
database:
  path: /tmp/review.db
  busy_timeout: 2s
server:
  addr: ":9000"
  cors_origins: ["https://review.example.com"]
log:
  level: debug
review:
  new_limit: 3
  timezone: Asia/Tokyo
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/review.db", cfg.Database.Path)
	assert.Equal(t, 2*time.Second, cfg.Database.BusyTimeout)
	assert.Equal(t, 1, cfg.Database.MaxOpenConns, "default kept")
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://review.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout, "default kept")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Review.NewLimit)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9000\"\nlog:\n  level: warn\n")
	t.Setenv(EnvDB, "/data/env.db")
	t.Setenv(EnvAddr, "0.0.0.0:8080")
	t.Setenv(EnvLogLevel, "error")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/env.db", cfg.Database.Path)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server: [unclosed")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestValidateFieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"max open conns", func(c *Config) { c.Database.MaxOpenConns = -1 }, "database.max_open_conns"},
		{"busy timeout", func(c *Config) { c.Database.BusyTimeout = -time.Second }, "database.busy_timeout"},
		{"addr without port", func(c *Config) { c.Server.Addr = "localhost" }, "server.addr"},
		{"cors origin", func(c *Config) { c.Server.CORSOrigins = []string{"*", "localhost:5173"} }, "server.cors_origins[1]"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"new limit", func(c *Config) { c.Review.NewLimit = 0 }, "review.new_limit"},
		{"timezone", func(c *Config) { c.Review.Timezone = "Mars/Olympus" }, "review.timezone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, tt.field, fieldErrs[0].Field)
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "leetreview", "config.yaml"), got)
}

func TestDBPath(t *testing.T) {
	want := filepath.Join(t.TempDir(), "sub", "db.sqlite")
	cfg := DefaultConfig()
	cfg.Database.Path = want

	got, err := cfg.DBPath()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.DirExists(t, filepath.Dir(want))
}
