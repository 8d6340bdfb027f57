package marker

import (
	"testing"

	"github.com/google/uuid"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		tag  string
		want Kind
	}{
		{"Guide", KindGuide},
		{"Alt Guide", KindAltGuide},
		{"guide", KindNone},
		{"AltGuide", KindNone},
		{"", KindNone},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := KindOf(tt.tag); got != tt.want {
				t.Errorf("KindOf(%q) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestEligible(t *testing.T) {
	tests := []struct {
		name string
		m    Marker
		want bool
	}{
		{"guide", Marker{Tag: TagGuide, Parts: 1}, true},
		{"alt guide", Marker{Tag: TagAltGuide, Parts: 1}, true},
		{"linkset", Marker{Tag: TagGuide, Parts: 2}, false},
		{"no parts", Marker{Tag: TagGuide, Parts: 0}, false},
		{"other tag", Marker{Tag: "Vehicle", Parts: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eligible(tt.m); got != tt.want {
				t.Errorf("Eligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterSortsByID(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	b := uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	c := uuid.MustParse("00000000-0000-0000-0000-00000000000c")

	in := []Marker{
		{ID: c, Tag: TagGuide, Parts: 1},
		{ID: b, Tag: "Sign", Parts: 1},
		{ID: a, Tag: TagAltGuide, Parts: 1},
	}

	got := Filter(in)
	if len(got) != 2 {
		t.Fatalf("Filter() len = %d, want 2", len(got))
	}
	if got[0].ID != a || got[1].ID != c {
		t.Errorf("Filter() order = [%s %s], want [%s %s]", got[0].ID, got[1].ID, a, c)
	}
}
