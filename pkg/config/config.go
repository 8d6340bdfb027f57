// Package config loads railinfra settings.
//
// Settings come from, in increasing precedence: built-in defaults, a TOML
// file, a .env file in the working directory and RAILINFRA_* environment
// variables:
//
//	TrackPointDistance = 12.0
//	TrackPointAngle    = 0.16
//	channel            = 7240
//	scene              = "yard.yaml"
//
//	[grid]
//	width  = 100
//	height = 200
//
//	[cache]
//	dir        = "/var/cache/railinfra"
//	redis_addr = "localhost:6379"
//	ttl        = "24h"
//	prefix     = "staging:"
//
//	[server]
//	addr = ":8080"
//
//	[mongo]
//	uri        = "mongodb://localhost:27017"
//	database   = "railinfra"
//	collection = "markers"
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/railinfra/pkg/chat"
	"github.com/matzehuels/railinfra/pkg/errors"
	"github.com/matzehuels/railinfra/pkg/pipeline"
	"github.com/matzehuels/railinfra/pkg/render/text"
)

const appName = "railinfra"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RAILINFRA_"

// Config holds all settings.
type Config struct {
	TrackPointDistance float64 `toml:"TrackPointDistance"`
	TrackPointAngle    float64 `toml:"TrackPointAngle"`
	Channel            int     `toml:"channel"`
	Scene              string  `toml:"scene"`

	Grid   GridConfig   `toml:"grid"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Mongo  MongoConfig  `toml:"mongo"`
}

// GridConfig sizes the ASCII grid of the console and the API.
type GridConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// CacheConfig selects the artifact cache. RedisAddr takes precedence over
// Dir.
type CacheConfig struct {
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`
	Size      int           `toml:"size"` // server in-memory entries

	// Prefix scopes cache keys when several deployments share a backend.
	Prefix string `toml:"prefix"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// MongoConfig points at a scene database. An empty URI disables it.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Regions    string `toml:"regions"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		TrackPointDistance: pipeline.DefaultTrackPointDistance,
		TrackPointAngle:    pipeline.DefaultTrackPointAngle,
		Channel:            chat.DefaultChannel,
		Grid: GridConfig{
			Width:  text.ConsoleWidth,
			Height: text.ConsoleHeight,
		},
		Cache: CacheConfig{
			TTL:  24 * time.Hour,
			Size: 1024,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/railinfra/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config file at path over the defaults, then applies the
// .env file and environment overrides. An empty path uses DefaultPath; a
// missing default file is not an error, a missing explicit one is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !os.IsNotExist(err) || explicit {
				return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
			}
		}
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	float := func(name string, dst *float64) error {
		if v, ok := lookup(EnvPrefix + name); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, name)
			}
			*dst = f
		}
		return nil
	}
	integer := func(name string, dst *int) error {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, name)
			}
			*dst = n
		}
		return nil
	}

	if err := float("TRACK_POINT_DISTANCE", &c.TrackPointDistance); err != nil {
		return err
	}
	if err := float("TRACK_POINT_ANGLE", &c.TrackPointAngle); err != nil {
		return err
	}
	if err := integer("CHANNEL", &c.Channel); err != nil {
		return err
	}
	if err := integer("GRID_WIDTH", &c.Grid.Width); err != nil {
		return err
	}
	if err := integer("GRID_HEIGHT", &c.Grid.Height); err != nil {
		return err
	}
	if v, ok := lookup(EnvPrefix + "CACHE_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%sCACHE_TTL", EnvPrefix)
		}
		c.Cache.TTL = d
	}
	str("SCENE", &c.Scene)
	str("CACHE_DIR", &c.Cache.Dir)
	str("REDIS_ADDR", &c.Cache.RedisAddr)
	str("CACHE_PREFIX", &c.Cache.Prefix)
	str("SERVER_ADDR", &c.Server.Addr)
	str("MONGO_URI", &c.Mongo.URI)
	str("MONGO_DATABASE", &c.Mongo.Database)
	str("MONGO_COLLECTION", &c.Mongo.Collection)
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := pipeline.ValidateParams(c.TrackPointDistance, c.TrackPointAngle); err != nil {
		return err
	}
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid size must be positive, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	if c.Mongo.URI != "" && c.Mongo.Database == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "mongo.database is required with mongo.uri")
	}
	return nil
}

// PipelineOptions returns scan options for the configured parameters.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		TrackPointDistance: c.TrackPointDistance,
		TrackPointAngle:    c.TrackPointAngle,
		GridWidth:          c.Grid.Width,
		GridHeight:         c.Grid.Height,
	}
}

// String renders the effective configuration as TOML.
func (c Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err.Error()
	}
	return buf.String()
}
