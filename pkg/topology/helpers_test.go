package topology

import (
	"testing"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/railinfra/pkg/geom"
	"github.com/matzehuels/railinfra/pkg/marker"
)

var testRegion = &marker.Region{Name: "test", Width: 256, Height: 256}

// mk returns a single-part marker named name, facing along yaw radians.
func mk(name, tag string, x, y, yaw float64) marker.Marker {
	return marker.Marker{
		ID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
		Tag:      tag,
		Parts:    1,
		Position: r3.Vec{X: x, Y: y},
		Rotation: geom.Yaw(yaw),
		Region:   testRegion,
	}
}

func guide(name string, x, y float64) marker.Marker {
	return mk(name, marker.TagGuide, x, y, 0)
}

func alt(name string, x, y float64) marker.Marker {
	return mk(name, marker.TagAltGuide, x, y, 0)
}

// mustBuild resolves and builds ms, failing the caller on error.
func mustBuild(t testing.TB, ms []marker.Marker, p Params) *Graph {
	t.Helper()
	g, err := Build(ms, Resolve(ms, p, nil))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return g
}
