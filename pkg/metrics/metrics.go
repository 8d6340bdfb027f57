// Package metrics exports railinfra's Prometheus metrics.
//
// A [Registry] owns its own prometheus.Registry and implements the hook
// interfaces of pkg/observability, so wiring it up is:
//
//	m := metrics.NewRegistry()
//	observability.SetScanHooks(m)
//	observability.SetCacheHooks(m)
//	observability.SetHTTPHooks(m)
//	observability.SetFleetHooks(m)
//	router.Handle("/metrics", m.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/railinfra/pkg/observability"
)

const namespace = "railinfra"

// Registry holds all metrics for the application.
type Registry struct {
	// Scan Metrics
	ScansTotal   *prometheus.CounterVec
	ScanDuration *prometheus.HistogramVec
	Tracks       *prometheus.GaugeVec
	Nodes        *prometheus.GaugeVec

	// Render Metrics
	RendersTotal   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec

	// Cache Metrics
	CacheRequestsTotal *prometheus.CounterVec
	CacheWrittenBytes  *prometheus.CounterVec

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Fleet Metrics
	FleetVehicles     prometheus.Gauge
	ChatCommandsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every metric registered, plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	r.initScanMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()
	r.initFleetMetrics()
	return r
}

func (r *Registry) initScanMetrics() {
	f := promauto.With(r.registry)

	r.ScansTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Total number of region scans",
		},
		[]string{"region", "status"},
	)

	r.ScanDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Duration of region scans in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"region"},
	)

	r.Tracks = f.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracks",
			Help:      "Number of tracks in the last successful scan",
		},
		[]string{"region"},
	)

	r.Nodes = f.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "track_points",
			Help:      "Number of track points in the last successful scan",
		},
		[]string{"region"},
	)

	r.RendersTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Total number of render requests per format",
		},
		[]string{"format", "status"},
	)

	r.RenderDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of render requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"region"},
	)
}

func (r *Registry) initCacheMetrics() {
	f := promauto.With(r.registry)

	r.CacheRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Cache lookups by key type and result",
		},
		[]string{"key_type", "result"}, // hit, miss
	)

	r.CacheWrittenBytes = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache",
		},
		[]string{"key_type"},
	)
}

func (r *Registry) initHTTPMetrics() {
	f := promauto.With(r.registry)

	r.HTTPRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	r.HTTPRequestsInFlight = f.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
}

func (r *Registry) initFleetMetrics() {
	f := promauto.With(r.registry)

	r.FleetVehicles = f.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fleet_vehicles",
			Help:      "Number of registered vehicles",
		},
	)

	r.ChatCommandsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_commands_total",
			Help:      "Script channel commands by command and reply code",
		},
		[]string{"command", "code"},
	)
}

// Handler returns an HTTP handler exposing the registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// RecordChatCommand records a processed chat command and its reply code.
func (r *Registry) RecordChatCommand(command string, code int) {
	r.ChatCommandsTotal.WithLabelValues(command, strconv.Itoa(code)).Inc()
}

// SetFleetSize records the number of registered vehicles.
func (r *Registry) SetFleetSize(n int) {
	r.FleetVehicles.Set(float64(n))
}

// =============================================================================
// Hook Implementations
// =============================================================================

// OnScanStart implements observability.ScanHooks.
func (r *Registry) OnScanStart(context.Context, string, int) {}

// OnScanComplete implements observability.ScanHooks.
func (r *Registry) OnScanComplete(_ context.Context, region string, tracks, nodes int, d time.Duration, err error) {
	r.ScansTotal.WithLabelValues(region, status(err)).Inc()
	r.ScanDuration.WithLabelValues(region).Observe(d.Seconds())
	if err == nil {
		r.Tracks.WithLabelValues(region).Set(float64(tracks))
		r.Nodes.WithLabelValues(region).Set(float64(nodes))
	}
}

// OnRenderStart implements observability.ScanHooks.
func (r *Registry) OnRenderStart(context.Context, string, []string) {}

// OnRenderComplete implements observability.ScanHooks.
func (r *Registry) OnRenderComplete(_ context.Context, region string, formats []string, d time.Duration, err error) {
	for _, f := range formats {
		r.RendersTotal.WithLabelValues(f, status(err)).Inc()
	}
	r.RenderDuration.WithLabelValues(region).Observe(d.Seconds())
}

// OnCacheHit implements observability.CacheHooks.
func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheRequestsTotal.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheRequestsTotal.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheWrittenBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnRequest implements observability.HTTPHooks.
func (r *Registry) OnRequest(context.Context, string, string) {
	r.HTTPRequestsInFlight.Inc()
}

// OnResponse implements observability.HTTPHooks.
func (r *Registry) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	r.HTTPRequestsInFlight.Dec()
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// OnVehicleRegistered implements observability.FleetHooks.
func (r *Registry) OnVehicleRegistered(_ context.Context, vehicles int) {
	r.SetFleetSize(vehicles)
}

// OnChatCommand implements observability.FleetHooks.
func (r *Registry) OnChatCommand(_ context.Context, command string, code int) {
	r.RecordChatCommand(command, code)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

var (
	_ observability.ScanHooks  = (*Registry)(nil)
	_ observability.CacheHooks = (*Registry)(nil)
	_ observability.HTTPHooks  = (*Registry)(nil)
	_ observability.FleetHooks = (*Registry)(nil)
)
