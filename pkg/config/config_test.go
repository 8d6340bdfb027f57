package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/railinfra/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 100, cfg.Grid.Width)
	assert.Equal(t, 200, cfg.Grid.Height)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
TrackPointDistance = 20.0
TrackPointAngle = 0.3
channel = -42
scene = "yard.yaml"

[grid]
width = 40
height = 10

[cache]
redis_addr = "redis:6379"
ttl = "1h"

[mongo]
uri = "mongodb://db"
database = "rail"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20.0, cfg.TrackPointDistance)
	assert.Equal(t, 0.3, cfg.TrackPointAngle)
	assert.Equal(t, -42, cfg.Channel)
	assert.Equal(t, "yard.yaml", cfg.Scene)
	assert.Equal(t, GridConfig{Width: 40, Height: 10}, cfg.Grid)
	assert.Equal(t, "redis:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 1024, cfg.Cache.Size, "unset keys keep defaults")
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "rail", cfg.Mongo.Database)

	opts := cfg.PipelineOptions()
	assert.Equal(t, 20.0, opts.TrackPointDistance)
	assert.Equal(t, 40, opts.GridWidth)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "missing explicit file: %v", err)

	bad := filepath.Join(dir, "bad.toml")
	writeFile(t, bad, "TrackPointDistance = [")
	_, err = Load(bad)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "syntax error: %v", err)

	invalid := filepath.Join(dir, "invalid.toml")
	writeFile(t, invalid, "TrackPointAngle = 4.0")
	_, err = Load(invalid)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "angle > π: %v", err)
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "railinfra", "config.toml"), p)

	cfg, err := Load("")
	require.NoError(t, err, "missing default file is not an error")
	assert.Equal(t, Default().TrackPointDistance, cfg.TrackPointDistance)

	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	writeFile(t, p, "channel = 5")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Channel)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("RAILINFRA_TRACK_POINT_DISTANCE", "30")
	t.Setenv("RAILINFRA_GRID_WIDTH", "64")
	t.Setenv("RAILINFRA_CACHE_TTL", "90m")
	t.Setenv("RAILINFRA_SERVER_ADDR", "127.0.0.1:9000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 30.0, cfg.TrackPointDistance)
	assert.Equal(t, 64, cfg.Grid.Width)
	assert.Equal(t, 90*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestEnvOverrideErrors(t *testing.T) {
	for _, name := range []string{"TRACK_POINT_ANGLE", "CHANNEL", "CACHE_TTL"} {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			err := cfg.applyEnv(func(key string) (string, bool) {
				return "not-a-number", key == EnvPrefix+name
			})
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "%v", err)
		})
	}
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, ".env"), "RAILINFRA_CHANNEL=99\n")
	t.Chdir(dir)
	t.Cleanup(func() { os.Unsetenv("RAILINFRA_CHANNEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 99, cfg.Channel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero distance", func(c *Config) { c.TrackPointDistance = 0 }},
		{"negative angle", func(c *Config) { c.TrackPointAngle = -0.1 }},
		{"angle above pi", func(c *Config) { c.TrackPointAngle = 3.2 }},
		{"zero grid", func(c *Config) { c.Grid.Width = 0 }},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }},
		{"mongo without database", func(c *Config) { c.Mongo.URI = "mongodb://db" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "%v", err)
		})
	}
}

func TestString(t *testing.T) {
	s := Default().String()
	assert.True(t, strings.Contains(s, "TrackPointDistance = 12.0"), s)
	assert.True(t, strings.Contains(s, "[grid]"), s)
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}
