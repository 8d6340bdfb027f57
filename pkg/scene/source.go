package scene

import (
	"context"
	"os"
	"sync"

	"github.com/matzehuels/railinfra/pkg/errors"
	"github.com/matzehuels/railinfra/pkg/marker"
)

// Source is a marker.Source over a scene document. It is safe for
// concurrent use; Reload swaps the whole document at once.
type Source struct {
	path string

	mu      sync.RWMutex
	regions []marker.Region
	markers map[string][]marker.Marker
}

// Open loads the scene file at path.
func Open(path string) (*Source, error) {
	s := &Source{path: path}
	if err := s.Reload(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// New returns a source serving doc. Reload on such a source is a no-op.
func New(doc Document) (*Source, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	s := &Source{}
	s.load(doc)
	return s, nil
}

// Path returns the scene file, or "" for an in-memory source.
func (s *Source) Path() string { return s.path }

// Reload re-reads the scene file. On error the previous document stays in
// place.
func (s *Source) Reload(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	format, err := FormatOf(s.path)
	if err != nil {
		return err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "open scene")
		}
		return errors.Wrap(errors.ErrCodeInvalidScene, err, "open scene")
	}
	defer f.Close()

	doc, err := Decode(f, format)
	if err != nil {
		return err
	}
	s.load(doc)
	return nil
}

func (s *Source) load(doc Document) {
	regions := make([]marker.Region, len(doc.Regions))
	markers := make(map[string][]marker.Marker, len(doc.Regions))
	for i, rd := range doc.Regions {
		regions[i] = rd.Region()
		r := &regions[i]
		ms := make([]marker.Marker, len(rd.Markers))
		for j, md := range rd.Markers {
			ms[j] = md.Marker(r)
		}
		markers[rd.Name] = ms
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions = regions
	s.markers = markers
}

// Regions lists the regions in document order.
func (s *Source) Regions(ctx context.Context) ([]marker.Region, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]marker.Region, len(s.regions))
	copy(out, s.regions)
	return out, nil
}

// Markers returns every object of the named region, eligible or not.
func (s *Source) Markers(ctx context.Context, region string) ([]marker.Marker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ms, ok := s.markers[region]
	if !ok {
		return nil, errors.New(errors.ErrCodeRegionNotFound, "region %q not found", region)
	}
	out := make([]marker.Marker, len(ms))
	copy(out, ms)
	return out, nil
}

var _ marker.Source = (*Source)(nil)
