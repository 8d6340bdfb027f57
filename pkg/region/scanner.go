package region

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/railinfra/pkg/errors"
	"github.com/matzehuels/railinfra/pkg/marker"
	"github.com/matzehuels/railinfra/pkg/pipeline"
)

// Reloader is implemented by sources that can re-read their backing scene.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Scanner scans regions of a source and publishes the results to a store.
type Scanner struct {
	source marker.Source
	runner *pipeline.Runner
	store  *Store
	opts   pipeline.Options
	logger *log.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewScanner returns a scanner. A nil runner scans without caching; a nil
// logger discards output.
func NewScanner(src marker.Source, runner *pipeline.Runner, store *Store, opts pipeline.Options, logger *log.Logger) *Scanner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Scanner{
		source: src,
		runner: runner,
		store:  store,
		opts:   opts,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Store returns the store results are published to.
func (s *Scanner) Store() *Store { return s.store }

// Source returns the marker source.
func (s *Scanner) Source() marker.Source { return s.source }

// Options returns the scan options.
func (s *Scanner) Options() pipeline.Options { return s.opts }

func (s *Scanner) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.locks[name]
	if l == nil {
		l = new(sync.Mutex)
		s.locks[name] = l
	}
	return l
}

// Scan rebuilds the layout of the named region and publishes it. On error
// the previously published result stays current.
func (s *Scanner) Scan(ctx context.Context, name string) (*pipeline.Result, error) {
	regions, err := s.source.Regions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	for _, r := range regions {
		if r.Name == name {
			return s.scan(ctx, r)
		}
	}
	return nil, errors.New(errors.ErrCodeRegionNotFound, "region %q not found", name)
}

func (s *Scanner) scan(ctx context.Context, r marker.Region) (*pipeline.Result, error) {
	l := s.lock(r.Name)
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ms, err := s.source.Markers(ctx, r.Name)
	if err != nil {
		return nil, fmt.Errorf("region %s: %w", r.Name, err)
	}

	res, err := s.runner.Scan(ctx, r, ms, s.opts)
	if err != nil {
		s.logger.Warn("scan failed, keeping previous layout", "region", r.Name, "err", err)
		return nil, err
	}
	s.store.Publish(res)
	return res, nil
}

// ScanAll scans every region of the source, up to GOMAXPROCS regions at a
// time. A failing region does not stop the others; their errors are joined.
// Regions that disappeared from the source are dropped from the store.
func (s *Scanner) ScanAll(ctx context.Context) error {
	regions, err := s.source.Regions(ctx)
	if err != nil {
		return fmt.Errorf("list regions: %w", err)
	}

	names := make([]string, len(regions))
	errs := make([]error, len(regions))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, r := range regions {
		names[i] = r.Name
		g.Go(func() error {
			_, errs[i] = s.scan(ctx, r)
			return nil
		})
	}
	_ = g.Wait()

	s.prune(names)
	return stderrors.Join(errs...)
}

// prune drops regions the source no longer lists. Each delete holds the
// region lock, so an in-flight scan publishes first and is then dropped,
// and a later scan reads the markers of a region the source no longer has.
func (s *Scanner) prune(names []string) {
	for _, name := range s.store.Stale(names) {
		l := s.lock(name)
		l.Lock()
		s.store.Delete(name)
		l.Unlock()
		s.logger.Debug("dropped region", "region", name)
	}
}

// Reload re-reads the source when it supports it and rescans every region.
func (s *Scanner) Reload(ctx context.Context) error {
	if r, ok := s.source.(Reloader); ok {
		if err := r.Reload(ctx); err != nil {
			return fmt.Errorf("reload source: %w", err)
		}
	}
	return s.ScanAll(ctx)
}
