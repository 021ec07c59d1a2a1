package spatialmath

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"
)

// Geometry is an obstacle occupying part of a continuous configuration space.
type Geometry interface {
	// Dims returns the dimensionality of configurations the geometry can be tested against.
	Dims() int
	// Contains reports whether the configuration lies inside (or on the boundary of) the geometry.
	Contains(q Configuration) bool
	// Bounds returns the axis-aligned bounding box of the geometry.
	Bounds() (lo, hi Configuration)
}

// Box is an axis-aligned n-dimensional box.
type Box struct {
	lo, hi Configuration
}

// NewBox returns the box spanning lo to hi (inclusive).
func NewBox(lo, hi Configuration) (*Box, error) {
	if len(lo) != len(hi) || len(lo) == 0 {
		return nil, errors.Errorf("box corners must share a non-zero dimensionality, got %d and %d", len(lo), len(hi))
	}
	for i := range lo {
		if lo[i] > hi[i] {
			return nil, errors.Errorf("box lower corner exceeds upper corner on axis %d: %v > %v", i, lo[i], hi[i])
		}
	}
	return &Box{lo: lo.Clone(), hi: hi.Clone()}, nil
}

// NewBoxFromCenter returns the box centered at center with the given side lengths.
func NewBoxFromCenter(center, sides Configuration) (*Box, error) {
	if len(center) != len(sides) {
		return nil, errors.Errorf("box center has %d dims but sides have %d", len(center), len(sides))
	}
	half := sides.Scale(0.5)
	return NewBox(center.Sub(half), center.Add(half))
}

// Dims returns the dimensionality of the box.
func (b *Box) Dims() int {
	return len(b.lo)
}

// Contains reports whether q lies inside the box.
func (b *Box) Contains(q Configuration) bool {
	if len(q) != len(b.lo) {
		return false
	}
	for i, v := range q {
		if v < b.lo[i] || v > b.hi[i] {
			return false
		}
	}
	return true
}

// Bounds returns the box corners.
func (b *Box) Bounds() (lo, hi Configuration) {
	return b.lo.Clone(), b.hi.Clone()
}

// Ball is an n-dimensional closed ball.
type Ball struct {
	center Configuration
	radius float64
}

// NewBall returns the ball of the given radius around center.
func NewBall(center Configuration, radius float64) (*Ball, error) {
	if radius < 0 || math.IsNaN(radius) {
		return nil, errors.Errorf("ball radius must be non-negative, got %v", radius)
	}
	if len(center) == 0 {
		return nil, errors.New("ball center must have at least one dimension")
	}
	return &Ball{center: center.Clone(), radius: radius}, nil
}

// Dims returns the dimensionality of the ball.
func (b *Ball) Dims() int {
	return len(b.center)
}

// Contains reports whether q lies inside the ball.
func (b *Ball) Contains(q Configuration) bool {
	return len(q) == len(b.center) && b.center.Distance(q) <= b.radius
}

// Bounds returns the cube enclosing the ball.
func (b *Ball) Bounds() (lo, hi Configuration) {
	lo, hi = b.center.Clone(), b.center.Clone()
	for i := range lo {
		lo[i] -= b.radius
		hi[i] += b.radius
	}
	return lo, hi
}

// Polygon is a simple planar polygon obstacle, tested against two-dimensional configurations.
type Polygon struct {
	poly  orb.Polygon
	bound orb.Bound
}

// NewPolygon returns the polygon with the given vertices. The ring is closed automatically.
func NewPolygon(vertices ...r2.Point) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, errors.Errorf("polygon needs at least 3 vertices, got %d", len(vertices))
	}
	ring := make(orb.Ring, 0, len(vertices)+1)
	for _, v := range vertices {
		ring = append(ring, orb.Point{v.X, v.Y})
	}
	if !ring[0].Equal(ring[len(ring)-1]) {
		ring = append(ring, ring[0])
	}
	if planar.Area(ring) == 0 {
		return nil, errors.New("polygon has zero area")
	}
	poly := orb.Polygon{ring}
	return &Polygon{poly: poly, bound: poly.Bound()}, nil
}

// Dims always returns 2.
func (p *Polygon) Dims() int {
	return 2
}

// Contains reports whether q lies inside the polygon.
func (p *Polygon) Contains(q Configuration) bool {
	if len(q) != 2 {
		return false
	}
	pt := orb.Point{q[0], q[1]}
	if !p.bound.Contains(pt) {
		return false
	}
	return planar.PolygonContains(p.poly, pt)
}

// Bounds returns the polygon's bounding box.
func (p *Polygon) Bounds() (lo, hi Configuration) {
	return Configuration{p.bound.Min.X(), p.bound.Min.Y()}, Configuration{p.bound.Max.X(), p.bound.Max.Y()}
}
