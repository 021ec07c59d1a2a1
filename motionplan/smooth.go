package motionplan

import (
	"math"

	"go.viam.com/robotalgo/spatialmath"
)

// Relative slack allowed when comparing a shortcut against the sub-path it replaces, so that
// floating-point summation order cannot make smoothing a smoothed path change it again.
const shortcutSlack = 1e-9

// SmoothDiscrete shortens a path through a discrete space by replacing runs of waypoints with
// direct connections. A direct connection comes from the space's Reach method when it implements
// DirectReacher, falling back to a single transition from Neighbors. The endpoints are kept,
// every remaining waypoint is a waypoint of the input, and the result is never costlier than the
// input. Smoothing an already smoothed path returns it unchanged.
func SmoothDiscrete[P comparable](space DiscreteSpace[P], path Path[P]) Path[P] {
	reacher, _ := space.(DirectReacher[P])
	connect := func(a, b P) (float64, bool) {
		if reacher != nil {
			if cost, ok := reacher.Reach(a, b); ok {
				return math.Max(cost, 0), true
			}
		}
		return transitionCost(space, a, b)
	}
	segment := func(a, b P) float64 {
		if cost, ok := connect(a, b); ok {
			return cost
		}
		return math.Inf(1)
	}
	return shortcut(path, segment, connect)
}

// SmoothContinuous shortens a path through a continuous space by replacing runs of waypoints with
// straight segments that are valid at the given resolution. It has the same guarantees as
// SmoothDiscrete, measuring cost with the space's Distance.
func SmoothContinuous(
	space ContinuousSpace,
	path Path[spatialmath.Configuration],
	resolution float64,
) Path[spatialmath.Configuration] {
	connect := func(a, b spatialmath.Configuration) (float64, bool) {
		if !space.IsValidSegment(a, b, resolution) {
			return 0, false
		}
		return space.Distance(a, b), true
	}
	return shortcut(path, space.Distance, connect)
}

func transitionCost[P comparable](space DiscreteSpace[P], from, to P) (float64, bool) {
	best, found := math.Inf(1), false
	for _, t := range space.Neighbors(from) {
		if t.To == to && space.IsValid(to) {
			best = math.Min(best, math.Max(t.Cost, 0))
			found = true
		}
	}
	return best, found
}

// shortcut walks the path greedily: from each anchor it jumps to the farthest later waypoint whose
// direct connection is valid and no costlier than the waypoints it skips.
func shortcut[P any](
	path Path[P],
	segment func(a, b P) float64,
	connect func(a, b P) (float64, bool),
) Path[P] {
	if len(path) < 3 {
		return path.Clone()
	}
	// prefix[k] is the cost of path[0..k].
	prefix := make([]float64, len(path))
	for k := 1; k < len(path); k++ {
		prefix[k] = prefix[k-1] + segment(path[k-1], path[k])
	}

	last := len(path) - 1
	out := Path[P]{path[0]}
	for i := 0; i < last; {
		next := i + 1
		for j := last; j > i+1; j-- {
			cost, ok := connect(path[i], path[j])
			if !ok {
				continue
			}
			replaced := prefix[j] - prefix[i]
			if math.IsInf(replaced, 1) || math.IsNaN(replaced) || cost <= replaced+shortcutSlack*math.Max(1, math.Abs(replaced)) {
				next = j
				break
			}
		}
		out = append(out, path[next])
		i = next
	}
	return out
}
