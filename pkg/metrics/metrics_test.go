package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()

	// Verify all metrics are initialized
	if r.ScansTotal == nil || r.ScanDuration == nil || r.Tracks == nil || r.Nodes == nil {
		t.Error("scan metrics not initialized")
	}
	if r.CacheRequestsTotal == nil || r.CacheWrittenBytes == nil {
		t.Error("cache metrics not initialized")
	}
	if r.HTTPRequestsTotal == nil || r.HTTPRequestsInFlight == nil {
		t.Error("HTTP metrics not initialized")
	}
	if r.FleetVehicles == nil || r.ChatCommandsTotal == nil {
		t.Error("fleet metrics not initialized")
	}
}

func TestScanHooks(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	r.OnScanStart(ctx, "yard", 10)
	r.OnScanComplete(ctx, "yard", 2, 10, 5*time.Millisecond, nil)
	r.OnScanComplete(ctx, "yard", 0, 0, time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(r.ScansTotal.WithLabelValues("yard", "success")); got != 1 {
		t.Errorf("successful scans = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.ScansTotal.WithLabelValues("yard", "error")); got != 1 {
		t.Errorf("failed scans = %v, want 1", got)
	}

	// A failed scan leaves the gauges of the last good one
	if got := testutil.ToFloat64(r.Tracks.WithLabelValues("yard")); got != 2 {
		t.Errorf("tracks = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.Nodes.WithLabelValues("yard")); got != 10 {
		t.Errorf("track points = %v, want 10", got)
	}

	r.OnRenderComplete(ctx, "yard", []string{"ascii", "dot"}, time.Millisecond, nil)
	if got := testutil.ToFloat64(r.RendersTotal.WithLabelValues("dot", "success")); got != 1 {
		t.Errorf("dot renders = %v, want 1", got)
	}
}

func TestCacheHooks(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	r.OnCacheHit(ctx, "scan")
	r.OnCacheHit(ctx, "scan")
	r.OnCacheMiss(ctx, "artifact")
	r.OnCacheSet(ctx, "artifact", 512)

	if got := testutil.ToFloat64(r.CacheRequestsTotal.WithLabelValues("scan", "hit")); got != 2 {
		t.Errorf("scan hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.CacheRequestsTotal.WithLabelValues("artifact", "miss")); got != 1 {
		t.Errorf("artifact misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.CacheWrittenBytes.WithLabelValues("artifact")); got != 512 {
		t.Errorf("written bytes = %v, want 512", got)
	}
}

func TestHTTPHooks(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	r.OnRequest(ctx, "GET", "/regions")
	if got := testutil.ToFloat64(r.HTTPRequestsInFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	r.OnResponse(ctx, "GET", "/regions", 200, time.Millisecond)
	if got := testutil.ToFloat64(r.HTTPRequestsInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(r.HTTPRequestsTotal.WithLabelValues("GET", "/regions", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}

func TestFleetMetrics(t *testing.T) {
	r := NewRegistry()
	r.OnVehicleRegistered(context.Background(), 3)
	r.RecordChatCommand("vehicle register", 1)
	r.OnChatCommand(context.Background(), "vehicle register", -1)

	if got := testutil.ToFloat64(r.FleetVehicles); got != 3 {
		t.Errorf("fleet vehicles = %v, want 3", got)
	}
	if got := testutil.ToFloat64(r.ChatCommandsTotal.WithLabelValues("vehicle register", "-1")); got != 1 {
		t.Errorf("failed registrations = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.OnScanComplete(context.Background(), "yard", 1, 1, time.Millisecond, nil)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`railinfra_scans_total{region="yard",status="success"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
