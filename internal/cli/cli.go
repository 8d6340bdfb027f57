package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/railinfra/pkg/cache"
	"github.com/matzehuels/railinfra/pkg/config"
	"github.com/matzehuels/railinfra/pkg/errors"
	"github.com/matzehuels/railinfra/pkg/marker"
	"github.com/matzehuels/railinfra/pkg/pipeline"
	"github.com/matzehuels/railinfra/pkg/scene"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "railinfra"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag; empty uses config.DefaultPath.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the configuration selected by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("loaded config", "path", c.ConfigPath, "scene", cfg.Scene)
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	return c.runnerWith(store, cfg.Cache), nil
}

// runnerWith creates a runner over store with the configured key prefix
// and TTL.
func (c *CLI) runnerWith(store cache.Cache, cfg config.CacheConfig) *pipeline.Runner {
	var keyer cache.Keyer
	if cfg.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Prefix)
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	if cfg.TTL > 0 {
		runner.TTL = cfg.TTL
	}
	return runner
}

// newCache picks Redis when configured, else the file cache. A missing
// home directory silently disables caching.
func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr})
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Marker Sources
// =============================================================================

// source is a marker.Source that may hold a connection.
type source interface {
	marker.Source
	Close(ctx context.Context) error
}

type fileSource struct{ *scene.Source }

func (fileSource) Close(context.Context) error { return nil }

// openSource opens the scene file given on the command line, else the
// configured scene file, else the configured MongoDB database.
func openSource(ctx context.Context, cfg config.Config, args []string) (source, error) {
	path := cfg.Scene
	if len(args) > 0 {
		path = args[0]
	}
	if path != "" {
		src, err := scene.Open(path)
		if err != nil {
			return nil, err
		}
		return fileSource{src}, nil
	}
	if cfg.Mongo.URI != "" {
		src, err := scene.NewMongoSource(ctx, scene.MongoConfig{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Regions:  cfg.Mongo.Regions,
			Markers:  cfg.Mongo.Collection,
		})
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "no scene: pass a scene file or set scene or mongo.uri in the config")
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/railinfra/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatText}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
