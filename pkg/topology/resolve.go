package topology

import (
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/railinfra/pkg/geom"
	"github.com/matzehuels/railinfra/pkg/marker"
)

// Params holds the cone test thresholds.
type Params struct {
	// DistanceSquared is the largest squared distance at which a marker
	// can be a forward neighbor.
	DistanceSquared float64
	// Angle is the largest angle in radians between a marker's forward
	// axis and the direction towards the neighbor.
	Angle float64
}

// NewParams returns Params for a plain (unsquared) distance and an angle in
// radians.
func NewParams(distance, angle float64) Params {
	return Params{DistanceSquared: distance * distance, Angle: angle}
}

// Candidates holds the forward candidates found for one marker.
// uuid.Nil means no candidate of that kind.
type Candidates struct {
	Candidate uuid.UUID // nearest qualifying "Guide"
	Alt       uuid.UUID // nearest qualifying "Alt Guide"
}

// HasCandidate reports whether a Guide candidate was found.
func (c Candidates) HasCandidate() bool { return c.Candidate != uuid.Nil }

// HasAlt reports whether an Alt Guide candidate was found.
func (c Candidates) HasAlt() bool { return c.Alt != uuid.Nil }

// Resolve computes the forward candidates of every marker in ms. The result
// is parallel to ms.
//
// For a marker A, every other marker B passing the cone test is a candidate.
// The closest Guide becomes Candidate and the closest Alt Guide becomes Alt;
// a later B only replaces an earlier one if it is strictly closer, so ties go
// to the first marker in ms. An Alt Guide with both kinds of candidate drops
// Candidate: it can only continue along its alternate branch.
//
// A pair whose angle is undefined (coincident positions or a zero forward
// axis) is logged and treated as perfectly aligned.
//
// The search is quadratic in len(ms).
func Resolve(ms []marker.Marker, p Params, logger *log.Logger) []Candidates {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	out := make([]Candidates, len(ms))
	for i, a := range ms {
		var c Candidates
		best, bestAlt := math.Inf(1), math.Inf(1)

		for j, b := range ms {
			if i == j {
				continue
			}
			d, ok := inCone(a, b, p, logger)
			if !ok {
				continue
			}
			switch b.Kind() {
			case marker.KindGuide:
				if d < best {
					best = d
					c.Candidate = b.ID
				}
			case marker.KindAltGuide:
				if d < bestAlt {
					bestAlt = d
					c.Alt = b.ID
				}
			}
		}

		if a.Kind() == marker.KindAltGuide && c.HasCandidate() && c.HasAlt() {
			c.Candidate = uuid.Nil
		}
		out[i] = c
	}
	return out
}

// inCone applies the cone test to the pair (a, b) and returns the squared
// distance between them.
func inCone(a, b marker.Marker, p Params, logger *log.Logger) (float64, bool) {
	d := geom.DistanceSquared(a.Position, b.Position)
	if d > p.DistanceSquared {
		return d, false
	}

	angle, err := geom.Angle(a.Position, a.Rotation, b.Position)
	if err != nil {
		logger.Warn("angle undefined, treating pair as aligned", "from", a.ID, "to", b.ID, "err", err)
		angle = 0
	}
	return d, angle <= p.Angle
}
