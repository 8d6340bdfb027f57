package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/railinfra/pkg/chat"
	"github.com/matzehuels/railinfra/pkg/errors"
	"github.com/matzehuels/railinfra/pkg/fleet"
	"github.com/matzehuels/railinfra/pkg/httputil"
	"github.com/matzehuels/railinfra/pkg/pipeline"
)

// formatRoutes maps the last path segment to a pipeline format.
var formatRoutes = map[string]string{
	"layout": pipeline.FormatText,
	"ascii":  pipeline.FormatASCII,
	"dot":    pipeline.FormatDOT,
	"svg":    pipeline.FormatSVG,
	"json":   pipeline.FormatJSON,
}

var contentTypes = map[string]string{
	pipeline.FormatText:  "text/plain; charset=utf-8",
	pipeline.FormatASCII: "text/plain; charset=utf-8",
	pipeline.FormatDOT:   "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:   "image/svg+xml",
	pipeline.FormatJSON:  "application/json",
}

// RegionSummary describes a published region.
type RegionSummary struct {
	Name      string    `json:"name"`
	Markers   int       `json:"markers"`
	Eligible  int       `json:"eligible"`
	Tracks    int       `json:"tracks"`
	ScannedAt time.Time `json:"scanned_at"`
	ScanTime  string    `json:"scan_time"`
}

func summarize(res *pipeline.Result) RegionSummary {
	return RegionSummary{
		Name:      res.Region.Name,
		Markers:   res.Stats.Markers,
		Eligible:  res.Stats.Eligible,
		Tracks:    res.Stats.Tracks,
		ScannedAt: res.Stats.ScannedAt,
		ScanTime:  res.Stats.ScanTime.String(),
	}
}

func (s *Server) summaries() []RegionSummary {
	store := s.scanner.Store()
	out := []RegionSummary{}
	for _, name := range store.Names() {
		if res := store.Load(name); res != nil {
			out = append(out, summarize(res))
		}
	}
	return out
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, s.summaries())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	format, ok := formatRoutes[chi.URLParam(r, "format")]
	if !ok {
		httputil.WriteError(w, errors.New(errors.ErrCodeInvalidFormat,
			"unknown format %q (must be one of: layout, ascii, dot, svg, json)", chi.URLParam(r, "format")))
		return
	}

	res := s.scanner.Store().Load(name)
	if res == nil {
		httputil.WriteError(w, errors.New(errors.ErrCodeRegionNotFound, "region %q has no layout", name))
		return
	}

	opts, err := s.renderOptions(r, format)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), res, opts)
	if err != nil {
		s.logger.Warn("render failed", "region", name, "format", format, "err", err)
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// renderOptions applies the width, height and detailed query parameters.
func (s *Server) renderOptions(r *http.Request, format string) (pipeline.Options, error) {
	opts := s.opts
	opts.Formats = []string{format}
	opts.Refresh = false

	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"width", &opts.GridWidth},
		{"height", &opts.GridHeight},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 1000 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer in [1, 1000], got %q", p.name, v)
		}
		*p.dst = n
	}
	if v := q.Get("detailed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "detailed must be a boolean, got %q", v)
		}
		opts.Detailed = b
	}
	return opts, nil
}

func (s *Server) handleRescan(w http.ResponseWriter, r *http.Request) {
	res, err := s.scanner.Scan(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summarize(res))
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.scanner.Reload(r.Context()); err != nil {
		s.logger.Warn("reload failed", "err", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, s.summaries())
}

func (s *Server) handleFleet(w http.ResponseWriter, r *http.Request) {
	vs := []fleet.Vehicle{}
	if s.fleet != nil {
		vs = append(vs, s.fleet.Vehicles()...)
	}
	httputil.WriteJSON(w, http.StatusOK, vs)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.chat == nil {
		httputil.WriteError(w, errors.New(errors.ErrCodeUnsupported, "script channel not configured"))
		return
	}
	var msg chat.Message
	if err := httputil.DecodeJSON(r, &msg); err != nil {
		httputil.WriteError(w, err)
		return
	}
	replies, err := s.chat.Process(r.Context(), msg)
	if err != nil {
		s.logger.Warn("chat reply delivery failed", "sender", msg.Sender, "err", err)
	}
	if replies == nil {
		replies = []chat.LinkMessage{}
	}
	httputil.WriteJSON(w, http.StatusOK, replies)
}
