// Package geom provides the small amount of 3D geometry needed to infer a
// track topology from oriented markers.
//
// Positions are gonum [r3.Vec] values and orientations are gonum
// [quat.Number] values, matching how scene objects report their world
// transform. The only derived quantities are the squared distance between two
// positions and the angle between a marker's forward axis and the direction
// towards another position.
//
// # Forward Axis
//
// The canonical forward axis is <1,0,0>. [Forward] rotates it by an
// orientation:
//
//	fwd := geom.Forward(quat.Number{Real: 1}) // r3.Vec{X: 1}
//
// # Degenerate Angles
//
// [Angle] cannot measure the angle towards a position that coincides with the
// origin, nor from a zero forward vector. In that case it returns 0 together
// with [ErrDegenerate]; callers decide whether a degenerate pair is accepted.
package geom
