// Package motionplan is a motion planning library. Discrete spaces are searched with A* and
// continuous ones with RRT. Callers supply spaces through the interfaces below.
package motionplan

import (
	"math/rand"

	"go.viam.com/robotalgo/spatialmath"
)

// Space reports which points a robot may occupy. Planners borrow spaces read-only for the duration
// of a plan; implementations that are immutable may be shared across concurrent plans.
type Space[P any] interface {
	IsValid(p P) bool
}

// Transition is a single edge out of a point in a discrete space.
type Transition[P any] struct {
	To   P
	Cost float64
}

// DiscreteSpace is a space whose points have an explicit, enumerable set of neighbors.
// Neighbors must return the same transitions in the same order every time it is called with the
// same point.
type DiscreteSpace[P comparable] interface {
	Space[P]
	Neighbors(p P) []Transition[P]
}

// DirectReacher is optionally implemented by discrete spaces that can connect two non-adjacent
// points directly, such as grids with line-of-sight. ok is false when no direct connection exists.
type DirectReacher[P comparable] interface {
	Reach(from, to P) (cost float64, ok bool)
}

// ContinuousSpace is a bounded real-valued configuration space that can be sampled.
type ContinuousSpace interface {
	Space[spatialmath.Configuration]

	// Dimensions is the number of coordinates in every configuration of the space.
	Dimensions() int

	// Distance is the space's metric.
	Distance(a, b spatialmath.Configuration) float64

	// Sample draws a configuration from the space's bounds using rng. The result need not be valid.
	Sample(rng *rand.Rand) spatialmath.Configuration

	// Steer moves from toward toward by at most maxStep, checking validity every resolution, and
	// returns the farthest valid point reached. The segment from from to the returned point must
	// pass IsValidSegment at the same resolution. It returns ErrNoProgress if the first sub-step is
	// already blocked.
	Steer(from, toward spatialmath.Configuration, maxStep, resolution float64) (spatialmath.Configuration, error)

	// IsValidSegment reports whether every point sampled at resolution along the straight segment
	// from a to b is valid, endpoints included.
	IsValidSegment(a, b spatialmath.Configuration, resolution float64) bool
}
