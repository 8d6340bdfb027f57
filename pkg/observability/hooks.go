// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about scans, renders, cache operations and
// served HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// pkg/metrics implements every interface with Prometheus collectors.
//
// # Usage
//
// Register hooks at application startup:
//
//	m := metrics.NewRegistry()
//	observability.SetScanHooks(m)
//	observability.SetCacheHooks(m)
//	observability.SetFleetHooks(m)
//
// Libraries call hooks to emit events:
//
//	observability.Scan().OnScanStart(ctx, region, len(markers))
//	// ... resolve, build, group ...
//	observability.Scan().OnScanComplete(ctx, region, tracks, nodes, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Scan Hooks
// =============================================================================

// ScanHooks receives events from the scan pipeline.
type ScanHooks interface {
	// Scan events
	OnScanStart(ctx context.Context, region string, markers int)
	OnScanComplete(ctx context.Context, region string, tracks, nodes int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, region string, formats []string)
	OnRenderComplete(ctx context.Context, region string, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request. route is the matched route
	// pattern, not the raw path.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// Fleet Hooks
// =============================================================================

// FleetHooks receives events from the vehicle fleet and its script channel.
type FleetHooks interface {
	// OnVehicleRegistered records a registration; vehicles is the new fleet size.
	OnVehicleRegistered(ctx context.Context, vehicles int)

	// OnChatCommand records a handled channel command and its reply code.
	OnChatCommand(ctx context.Context, command string, code int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopScanHooks is a no-op implementation of ScanHooks.
type NoopScanHooks struct{}

func (NoopScanHooks) OnScanStart(context.Context, string, int) {}
func (NoopScanHooks) OnScanComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopScanHooks) OnRenderStart(context.Context, string, []string) {}
func (NoopScanHooks) OnRenderComplete(context.Context, string, []string, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// NoopFleetHooks is a no-op implementation of FleetHooks.
type NoopFleetHooks struct{}

func (NoopFleetHooks) OnVehicleRegistered(context.Context, int)   {}
func (NoopFleetHooks) OnChatCommand(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	scanHooks  ScanHooks  = NoopScanHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	fleetHooks FleetHooks = NoopFleetHooks{}
	hooksMu    sync.RWMutex
)

// SetScanHooks registers custom scan hooks.
// This should be called once at application startup before any scans.
func SetScanHooks(h ScanHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scanHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// SetFleetHooks registers custom fleet hooks.
func SetFleetHooks(h FleetHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		fleetHooks = h
	}
}

// Scan returns the registered scan hooks.
func Scan() ScanHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scanHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Fleet returns the registered fleet hooks.
func Fleet() FleetHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return fleetHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	scanHooks = NoopScanHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
	fleetHooks = NoopFleetHooks{}
}
