// Package geom defines the point types and distance metrics shared by the
// trajectory store, the radius index and the Fréchet DP.
package geom

import (
	"github.com/paulmach/orb"
)

// Point is a 2D coordinate. It is an alias for orb.Point so that the radius
// index and downstream consumers can share geometry helpers from orb without
// a wrapper type.
type Point = orb.Point

// SqDist is the squared-distance capability the rest of the module depends
// on. Treating the metric as a capability rather than baking Euclidean
// distance into every consumer keeps the Fréchet DP and the radius index
// generic: swapping in a different point representation only requires a new
// SqDist implementation.
type SqDist func(p, q Point) float64

// Euclidean2D is the squared Euclidean distance between two planar points.
func Euclidean2D(p, q Point) float64 {
	dx := p[0] - q[0]
	dy := p[1] - q[1]
	return dx*dx + dy*dy
}
