// Package fleet is the registry of vehicles that announced themselves on the
// script channel.
package fleet

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/railinfra/pkg/errors"
	"github.com/matzehuels/railinfra/pkg/observability"
)

// ErrAlreadyRegistered is returned by [Fleet.Register] for a known vehicle.
var ErrAlreadyRegistered = stderrors.New("vehicle already registered")

// State is the operating state of a vehicle.
type State int

const (
	StateNew State = iota
	StateCenter
	StateIdle
	StateRun
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateCenter:
		return "CENTER"
	case StateIdle:
		return "IDLE"
	case StateRun:
		return "RUN"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Vehicle is a registered scene object.
type Vehicle struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	State       State     `json:"-"`
}

// String formats the vehicle as a fixed-width row: id, name, description.
func (v Vehicle) String() string {
	return fmt.Sprintf("%-36s  %-16s  %-16s", v.ID, v.Name, v.Description)
}

// Header returns the column header matching [Fleet.String].
func Header() string {
	return fmt.Sprintf("%-36s  %-36s  %-16s  %-16s", "Key", "UUID", "Name", "Description")
}

// Fleet maps vehicle IDs to vehicles. It is safe for concurrent use.
type Fleet struct {
	mu       sync.RWMutex
	vehicles map[uuid.UUID]Vehicle
}

// New returns an empty fleet.
func New() *Fleet {
	return &Fleet{vehicles: make(map[uuid.UUID]Vehicle)}
}

// Register adds v in state NEW. Registering a known ID fails with
// [ErrAlreadyRegistered] and leaves the fleet unchanged.
func (f *Fleet) Register(ctx context.Context, v Vehicle) error {
	if v.ID == uuid.Nil {
		return errors.New(errors.ErrCodeInvalidInput, "vehicle id is required")
	}

	f.mu.Lock()
	if _, ok := f.vehicles[v.ID]; ok {
		f.mu.Unlock()
		return errors.Wrap(errors.ErrCodeAlreadyRegistered, ErrAlreadyRegistered, "vehicle %s", v.ID)
	}
	v.State = StateNew
	f.vehicles[v.ID] = v
	n := len(f.vehicles)
	f.mu.Unlock()

	observability.Fleet().OnVehicleRegistered(ctx, n)
	return nil
}

// Contains reports whether id is registered.
func (f *Fleet) Contains(id uuid.UUID) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.vehicles[id]
	return ok
}

// Get returns the vehicle with the given id.
func (f *Fleet) Get(id uuid.UUID) (Vehicle, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.vehicles[id]
	return v, ok
}

// Len returns the number of registered vehicles.
func (f *Fleet) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.vehicles)
}

// Vehicles returns all vehicles sorted by ID.
func (f *Fleet) Vehicles() []Vehicle {
	f.mu.RLock()
	out := make([]Vehicle, 0, len(f.vehicles))
	for _, v := range f.vehicles {
		out = append(out, v)
	}
	f.mu.RUnlock()

	slices.SortFunc(out, func(a, b Vehicle) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out
}

// String lists one row per vehicle: key, then [Vehicle.String].
func (f *Fleet) String() string {
	vs := f.Vehicles()
	rows := make([]string, len(vs))
	for i, v := range vs {
		rows[i] = fmt.Sprintf("%-36s  %s", v.ID, v)
	}
	return strings.Join(rows, "\n")
}
