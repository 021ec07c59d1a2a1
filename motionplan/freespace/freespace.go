// Package freespace implements a bounded continuous configuration space with obstacles.
package freespace

import (
	"math"
	"math/rand"

	"github.com/dhconnelly/rtreego"
	"github.com/pkg/errors"

	"go.viam.com/robotalgo/motionplan"
	"go.viam.com/robotalgo/spatialmath"
)

// Padding applied to rectangles handed to the R-tree, which rejects zero-size extents.
const boundsTolerance = 1e-9

// Space is the axis-aligned box [lo, hi] minus a set of obstacles. Obstacles are indexed in an
// R-tree by their bounding boxes, and candidates from the tree are confirmed with Contains.
// A Space does not change after construction and may be shared by concurrent planners.
type Space struct {
	lo, hi    spatialmath.Configuration
	obstacles []spatialmath.Geometry
	tree      *rtreego.Rtree
	metric    motionplan.Metric[spatialmath.Configuration]
}

// Option configures a Space.
type Option func(*Space)

// WithMetric replaces the default Euclidean distance. Steering and segment checks still move
// along straight lines.
func WithMetric(m motionplan.Metric[spatialmath.Configuration]) Option {
	return func(s *Space) {
		s.metric = m
	}
}

// WithObstacles adds obstacles to the space.
func WithObstacles(obstacles ...spatialmath.Geometry) Option {
	return func(s *Space) {
		s.obstacles = append(s.obstacles, obstacles...)
	}
}

type obstacleEntry struct {
	geometry spatialmath.Geometry
	rect     rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *obstacleEntry) Bounds() rtreego.Rect {
	return e.rect
}

// New returns the space bounded by lo and hi.
func New(lo, hi spatialmath.Configuration, opts ...Option) (*Space, error) {
	if len(lo) == 0 || len(lo) != len(hi) {
		return nil, errors.Errorf("bounds must share a non-zero dimensionality, got %d and %d", len(lo), len(hi))
	}
	for i := range lo {
		if !(lo[i] <= hi[i]) {
			return nil, errors.Errorf("lower bound exceeds upper bound on axis %d: %v > %v", i, lo[i], hi[i])
		}
	}
	s := &Space{
		lo:     lo.Clone(),
		hi:     hi.Clone(),
		metric: motionplan.EuclideanMetric,
		tree:   rtreego.NewTree(len(lo), 25, 50),
	}
	for _, opt := range opts {
		opt(s)
	}
	for i, obstacle := range s.obstacles {
		if obstacle.Dims() != len(lo) {
			return nil, errors.Errorf("obstacle %d has %d dims, space has %d", i, obstacle.Dims(), len(lo))
		}
		rect, err := paddedRect(obstacle.Bounds())
		if err != nil {
			return nil, errors.Wrapf(err, "obstacle %d", i)
		}
		s.tree.Insert(&obstacleEntry{geometry: obstacle, rect: rect})
	}
	return s, nil
}

func paddedRect(lo, hi spatialmath.Configuration) (rtreego.Rect, error) {
	corner := make(rtreego.Point, len(lo))
	lengths := make([]float64, len(lo))
	for i := range lo {
		corner[i] = lo[i] - boundsTolerance
		lengths[i] = hi[i] - lo[i] + 2*boundsTolerance
	}
	return rtreego.NewRect(corner, lengths)
}

// Dimensions returns the number of coordinates in a configuration.
func (s *Space) Dimensions() int {
	return len(s.lo)
}

// Bounds returns the corners of the space.
func (s *Space) Bounds() (lo, hi spatialmath.Configuration) {
	return s.lo.Clone(), s.hi.Clone()
}

// Obstacles returns the obstacles in the order they were given.
func (s *Space) Obstacles() []spatialmath.Geometry {
	return append([]spatialmath.Geometry{}, s.obstacles...)
}

// Distance returns the space's metric between a and b.
func (s *Space) Distance(a, b spatialmath.Configuration) float64 {
	return s.metric(a, b)
}

// IsValid reports whether q lies within the bounds and outside every obstacle.
func (s *Space) IsValid(q spatialmath.Configuration) bool {
	if len(q) != len(s.lo) {
		return false
	}
	for i, v := range q {
		if !(v >= s.lo[i] && v <= s.hi[i]) {
			return false
		}
	}
	if s.tree.Size() == 0 {
		return true
	}
	for _, candidate := range s.tree.SearchIntersect(rtreego.Point(q).ToRect(boundsTolerance)) {
		if candidate.(*obstacleEntry).geometry.Contains(q) {
			return false
		}
	}
	return true
}

// Sample draws a configuration uniformly from the bounds.
func (s *Space) Sample(rng *rand.Rand) spatialmath.Configuration {
	q := make(spatialmath.Configuration, len(s.lo))
	for i := range q {
		q[i] = s.lo[i] + rng.Float64()*(s.hi[i]-s.lo[i])
	}
	return q
}

// Steer walks the straight line from from toward toward for at most maxStep, checking validity at
// every resolution, and returns the farthest point reached whose segment from from also passes
// IsValidSegment at the same resolution.
func (s *Space) Steer(from, toward spatialmath.Configuration, maxStep, resolution float64) (spatialmath.Configuration, error) {
	dist := from.Distance(toward)
	if !(dist > 0) || !(maxStep > 0) || !(resolution > 0) {
		return nil, motionplan.ErrNoProgress
	}
	target := toward
	if dist > maxStep {
		target = from.Lerp(toward, maxStep/dist)
		dist = maxStep
	}
	steps := int(math.Ceil(dist / resolution))
	waypoint := func(k int) spatialmath.Configuration {
		if k == steps {
			return target
		}
		return from.Lerp(target, float64(k)/float64(steps))
	}
	reached := 0
	for k := 1; k <= steps; k++ {
		if !s.IsValid(waypoint(k)) {
			break
		}
		reached = k
	}
	// IsValidSegment splits the shorter segment on its own grid, which can land on points the walk
	// above never checked.
	for ; reached > 0; reached-- {
		if q := waypoint(reached); s.IsValidSegment(from, q, resolution) {
			return q.Clone(), nil
		}
	}
	return nil, motionplan.ErrNoProgress
}

// IsValidSegment reports whether the straight segment from a to b is valid when sampled at
// resolution, endpoints included.
func (s *Space) IsValidSegment(a, b spatialmath.Configuration, resolution float64) bool {
	if len(a) != len(s.lo) || len(b) != len(s.lo) {
		return false
	}
	if !s.IsValid(a) || !s.IsValid(b) {
		return false
	}
	if !(resolution > 0) {
		return false
	}
	steps := int(math.Ceil(a.Distance(b) / resolution))
	for k := 1; k < steps; k++ {
		if !s.IsValid(a.Lerp(b, float64(k)/float64(steps))) {
			return false
		}
	}
	return true
}
