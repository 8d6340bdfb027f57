// Package server exposes scanned layouts, the fleet and the script channel
// over HTTP.
//
// Routes:
//
//	GET  /regions                      published regions and their stats
//	GET  /regions/{name}/{format}      layout, ascii, dot, svg or json
//	POST /regions/{name}/reload        rescan one region
//	POST /reload                       reload the scene and rescan all regions
//	GET  /fleet                        registered vehicles
//	POST /chat                         deliver a script channel message
//	GET  /metrics                      Prometheus metrics
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/railinfra/pkg/chat"
	"github.com/matzehuels/railinfra/pkg/fleet"
	"github.com/matzehuels/railinfra/pkg/observability"
	"github.com/matzehuels/railinfra/pkg/pipeline"
	"github.com/matzehuels/railinfra/pkg/region"
)

// Config wires a server to its collaborators.
type Config struct {
	Scanner *region.Scanner
	Runner  *pipeline.Runner // renders and caches artifacts
	Fleet   *fleet.Fleet
	Chat    *chat.Handler
	Metrics http.Handler // served at /metrics when set
	Options pipeline.Options
	Logger  *log.Logger
}

// Server is the HTTP API.
type Server struct {
	scanner *region.Scanner
	runner  *pipeline.Runner
	fleet   *fleet.Fleet
	chat    *chat.Handler
	opts    pipeline.Options
	logger  *log.Logger
	router  *chi.Mux
}

// New builds the router.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	runner := cfg.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	s := &Server{
		scanner: cfg.Scanner,
		runner:  runner,
		fleet:   cfg.Fleet,
		chat:    cfg.Chat,
		opts:    cfg.Options,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/regions", s.handleRegions)
	r.Get("/regions/{name}/{format}", s.handleRender)
	r.Post("/regions/{name}/reload", s.handleRescan)
	r.Post("/reload", s.handleReload)
	r.Get("/fleet", s.handleFleet)
	r.Post("/chat", s.handleChat)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// instrument reports requests to the HTTP hooks and the log, labeled with
// the matched route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := s.routePattern(r)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, route)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) routePattern(r *http.Request) string {
	rctx := chi.NewRouteContext()
	if s.router != nil && s.router.Match(rctx, r.Method, r.URL.Path) {
		return rctx.RoutePattern()
	}
	return "unmatched"
}
