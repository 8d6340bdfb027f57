package fleet

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/railinfra/pkg/errors"
)

var (
	idA = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	idB = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := New()

	if err := f.Register(ctx, Vehicle{ID: idB, Name: "loco", State: StateRun}); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if !f.Contains(idB) || f.Contains(idA) {
		t.Errorf("Contains: B=%v A=%v", f.Contains(idB), f.Contains(idA))
	}
	v, ok := f.Get(idB)
	if !ok || v.State != StateNew || v.Name != "loco" {
		t.Errorf("Get(B) = %+v, %v; want state NEW", v, ok)
	}

	err := f.Register(ctx, Vehicle{ID: idB, Name: "other"})
	if !stderrors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("second Register() error = %v, want ErrAlreadyRegistered", err)
	}
	if !errors.Is(err, errors.ErrCodeAlreadyRegistered) {
		t.Errorf("error code = %v", errors.GetCode(err))
	}
	if v, _ := f.Get(idB); v.Name != "loco" {
		t.Errorf("duplicate registration changed vehicle: %+v", v)
	}

	if err := f.Register(ctx, Vehicle{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Register(nil id) error = %v", err)
	}
	if f.Len() != 1 {
		t.Errorf("Len() = %d, want 1", f.Len())
	}
}

func TestVehiclesSorted(t *testing.T) {
	ctx := context.Background()
	f := New()
	_ = f.Register(ctx, Vehicle{ID: idB, Name: "b"})
	_ = f.Register(ctx, Vehicle{ID: idA, Name: "a"})

	vs := f.Vehicles()
	if len(vs) != 2 || vs[0].ID != idA || vs[1].ID != idB {
		t.Errorf("Vehicles() = %+v", vs)
	}
}

func TestString(t *testing.T) {
	ctx := context.Background()
	f := New()
	if f.String() != "" {
		t.Errorf("empty fleet String() = %q", f.String())
	}
	_ = f.Register(ctx, Vehicle{ID: idA, Name: "loco", Description: "blue"})

	want := idA.String() + "  " + idA.String() + "  loco              blue            "
	if got := f.String(); got != want {
		t.Errorf("String() =\n%q\nwant\n%q", got, want)
	}
	if h := Header(); !strings.HasPrefix(h, "Key") || len(h) != 36+2+36+2+16+2+16 {
		t.Errorf("Header() = %q", h)
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateNew:    "NEW",
		StateCenter: "CENTER",
		StateIdle:   "IDLE",
		StateRun:    "RUN",
		State(9):    "State(9)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(s), got, want)
		}
	}
}

func TestConcurrentRegister(t *testing.T) {
	ctx := context.Background()
	f := New()

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.Register(ctx, Vehicle{ID: idA}) == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Errorf("%d registrations succeeded, want 1", wins)
	}
}
