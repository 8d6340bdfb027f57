package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/railinfra/pkg/cache"
	"github.com/matzehuels/railinfra/pkg/marker"
	"github.com/matzehuels/railinfra/pkg/observability"
)

// Runner encapsulates pipeline execution with caching and instrumentation.
// The CLI, the console and the server share it to avoid duplicating
// caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached artifacts.
	TTL time.Duration
}

// Execution is the outcome of [Runner.Execute].
type Execution struct {
	// Result is the scan, or nil when every artifact came from the cache.
	Result *Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// RenderTime covers rendering and cache lookups.
	RenderTime time.Duration

	// CacheHit is true when every artifact came from the cache.
	CacheHit bool
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.ArtifactTTL,
	}
}

// Execute scans ms and renders opts.Formats, reusing cached artifacts for an
// unchanged marker set.
func (r *Runner) Execute(ctx context.Context, region marker.Region, ms []marker.Marker, opts Options) (*Execution, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	if !opts.Refresh {
		start := time.Now()
		hash := HashMarkers(marker.Filter(ms))
		if artifacts, ok := r.cachedArtifacts(ctx, r.scanKey(region, hash, opts), opts); ok {
			r.Logger.Info("reused cached artifacts", "region", region.Name, "formats", opts.Formats)
			return &Execution{Artifacts: artifacts, RenderTime: time.Since(start), CacheHit: true}, nil
		}
	}

	res, err := r.Scan(ctx, region, ms, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, err
	}
	return &Execution{
		Result:     res,
		Artifacts:  artifacts,
		RenderTime: time.Since(start),
		CacheHit:   hit,
	}, nil
}

// Scan runs [Scan] and reports it to the scan hooks. Scans are never
// cached; the result holds the live graph.
func (r *Runner) Scan(ctx context.Context, region marker.Region, ms []marker.Marker, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hooks := observability.Scan()
	hooks.OnScanStart(ctx, region.Name, len(ms))
	start := time.Now()

	res, err := Scan(region, ms, opts)
	if err != nil {
		hooks.OnScanComplete(ctx, region.Name, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnScanComplete(ctx, region.Name, res.Layout.Len(), res.Graph.Len(), time.Since(start), nil)

	r.Logger.Info("scanned region",
		"region", region.Name,
		"markers", res.Stats.Eligible,
		"tracks", res.Stats.Tracks,
		"duration", res.Stats.ScanTime)
	return res, nil
}

// RenderWithCacheInfo renders opts.Formats for res with caching and reports
// whether every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	scanKey := r.scanKey(res.Region, res.MarkersHash, opts)
	if !opts.Refresh {
		if artifacts, ok := r.cachedArtifacts(ctx, scanKey, opts); ok {
			return artifacts, true, nil
		}
	}

	hooks := observability.Scan()
	hooks.OnRenderStart(ctx, res.Region.Name, opts.Formats)
	start := time.Now()

	artifacts, err := Render(ctx, res, opts)
	hooks.OnRenderComplete(ctx, res.Region.Name, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(cache.Hash([]byte(scanKey)), opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	r.Logger.Debug("rendered outputs",
		"region", res.Region.Name,
		"formats", opts.Formats,
		"duration", time.Since(start))
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) scanKey(region marker.Region, markersHash string, opts Options) string {
	return r.Keyer.ScanKey(region.Name, markersHash, opts.ScanKeyOpts(region))
}

// cachedArtifacts returns every requested format from the cache, or false
// if any is missing.
func (r *Runner) cachedArtifacts(ctx context.Context, scanKey string, opts Options) (map[string][]byte, bool) {
	hooks := observability.Cache()
	scanHash := cache.Hash([]byte(scanKey))
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(scanHash, opts.ArtifactKeyOpts(format)))
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "error", err)
		}
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		hooks.OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	return artifacts, true
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
