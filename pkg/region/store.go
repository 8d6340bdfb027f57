package region

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/matzehuels/railinfra/pkg/pipeline"
)

// Store holds the latest published result per region.
type Store struct {
	mu    sync.RWMutex
	slots map[string]*atomic.Pointer[pipeline.Result]
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{slots: make(map[string]*atomic.Pointer[pipeline.Result])}
}

// Load returns the published result of the region, or nil if the region has
// never been scanned successfully.
func (s *Store) Load(name string) *pipeline.Result {
	s.mu.RLock()
	p := s.slots[name]
	s.mu.RUnlock()
	if p == nil {
		return nil
	}
	return p.Load()
}

// Publish makes res the current result of its region.
func (s *Store) Publish(res *pipeline.Result) {
	s.slot(res.Region.Name).Store(res)
}

func (s *Store) slot(name string) *atomic.Pointer[pipeline.Result] {
	s.mu.RLock()
	p := s.slots[name]
	s.mu.RUnlock()
	if p != nil {
		return p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p = s.slots[name]; p == nil {
		p = new(atomic.Pointer[pipeline.Result])
		s.slots[name] = p
	}
	return p
}

// Names returns the regions with a published result, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.slots))
	for name, p := range s.slots {
		if p.Load() != nil {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Stale returns the stored regions not in names, published or not.
func (s *Store) Stale(names []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stale []string
	for _, name := range slices.Sorted(maps.Keys(s.slots)) {
		if !slices.Contains(names, name) {
			stale = append(stale, name)
		}
	}
	return stale
}

// Delete drops the region's result.
func (s *Store) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, name)
}
