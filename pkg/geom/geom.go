package geom

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrDegenerate is returned by [Angle] when one of the two vectors has zero
// length and the angle between them is undefined.
var ErrDegenerate = errors.New("degenerate angle: zero-length vector")

// Identity is the orientation that leaves the forward axis unchanged.
var Identity = quat.Number{Real: 1}

// ForwardAxis is the canonical forward direction of an unrotated marker.
var ForwardAxis = r3.Vec{X: 1}

// Forward returns the forward axis rotated by q.
//
// q is not normalized first: a scaled quaternion yields a scaled forward
// vector, which [Angle] tolerates because it divides by both magnitudes.
func Forward(q quat.Number) r3.Vec {
	return r3.Rotation(q).Rotate(ForwardAxis)
}

// DistanceSquared returns the squared Euclidean distance between a and b.
func DistanceSquared(a, b r3.Vec) float64 {
	return r3.Norm2(r3.Sub(a, b))
}

// Angle returns the angle in radians between the forward axis of an object at
// from with orientation orient and the vector from -> to.
//
// The result lies in [0, π]. If either vector has zero length the angle is
// undefined; Angle then returns 0 and [ErrDegenerate].
func Angle(from r3.Vec, orient quat.Number, to r3.Vec) (float64, error) {
	fwd := Forward(orient)
	diff := r3.Sub(to, from)

	mag := r3.Norm(fwd) * r3.Norm(diff)
	if mag == 0 || math.IsNaN(mag) {
		return 0, ErrDegenerate
	}

	// Rounding can push the cosine just outside [-1, 1].
	cos := r3.Dot(fwd, diff) / mag
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos), nil
}

// Yaw returns an orientation rotated by angle radians about the Z axis.
// Markers laid out on a flat region are usually only yawed.
func Yaw(angle float64) quat.Number {
	return quat.Number(r3.NewRotation(angle, r3.Vec{Z: 1}))
}
