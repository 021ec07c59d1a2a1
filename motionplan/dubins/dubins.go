// Package dubins computes shortest forward-only paths for a vehicle with a bounded turning radius.
//
// A Dubins path is made of three segments, each a left turn (L), a right turn (R), or a
// straight line (S), and the shortest path between two poses is always one of the six
// words LSL, LSR, RSL, RSR, RLR, and LRL.
package dubins

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/robotalgo/motionplan"
	"go.viam.com/robotalgo/spatialmath"
	"go.viam.com/robotalgo/utils"
)

var (
	// ErrInvalidRadius is returned for a turning radius that is not a positive finite number.
	ErrInvalidRadius = errors.New("dubins: turning radius must be positive and finite")
	// ErrPathNotFound is returned when none of the six words connect the poses.
	ErrPathNotFound = errors.New("dubins: no path found")
)

// Below this separation two poses are treated as sharing a position.
const samePositionEpsilon = 1e-12

// Pose is a planar position with a heading in radians, measured counterclockwise from +X.
type Pose struct {
	Point   r2.Point
	Heading float64
}

// NewPose returns the pose at (x, y) facing heading.
func NewPose(x, y, heading float64) Pose {
	return Pose{Point: r2.Point{X: x, Y: y}, Heading: heading}
}

// PoseFromConfiguration reads an (x, y, heading) configuration.
func PoseFromConfiguration(q spatialmath.Configuration) (Pose, error) {
	if len(q) != 3 {
		return Pose{}, errors.Errorf("dubins: pose configurations have 3 dims, got %d", len(q))
	}
	return NewPose(q[0], q[1], q[2]), nil
}

// Configuration returns the pose as an (x, y, heading) configuration.
func (p Pose) Configuration() spatialmath.Configuration {
	return spatialmath.Configuration{p.Point.X, p.Point.Y, p.Heading}
}

func (p Pose) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.Point.X, p.Point.Y, p.Heading)
}

// SegmentKind is the motion along one segment of a path.
type SegmentKind int

// The three motions a Dubins vehicle can make.
const (
	Left SegmentKind = iota
	Straight
	Right
)

func (k SegmentKind) String() string {
	switch k {
	case Left:
		return "L"
	case Straight:
		return "S"
	case Right:
		return "R"
	}
	return "?"
}

// Word is the sequence of segment kinds making up a path.
type Word [3]SegmentKind

// The six candidate words.
var (
	LSL = Word{Left, Straight, Left}
	LSR = Word{Left, Straight, Right}
	RSL = Word{Right, Straight, Left}
	RSR = Word{Right, Straight, Right}
	RLR = Word{Right, Left, Right}
	LRL = Word{Left, Right, Left}
)

func (w Word) String() string {
	return w[0].String() + w[1].String() + w[2].String()
}

// Segment is one piece of a path. Length is in distance units for every kind, so a turn's
// angle is Length divided by the path radius.
type Segment struct {
	Kind   SegmentKind
	Length float64
}

// Path is a Dubins path between two poses.
type Path struct {
	start, end Pose
	radius     float64
	word       Word
	// Segment lengths normalized by the radius.
	params [3]float64
}

// Start returns the pose the path begins at.
func (p *Path) Start() Pose {
	return p.start
}

// End returns the pose the path finishes at.
func (p *Path) End() Pose {
	return p.end
}

// Radius returns the turning radius the path was computed for.
func (p *Path) Radius() float64 {
	return p.radius
}

// Word returns the path's segment kinds.
func (p *Path) Word() Word {
	return p.word
}

// Length returns the total length of the path.
func (p *Path) Length() float64 {
	return (p.params[0] + p.params[1] + p.params[2]) * p.radius
}

// Segments returns the three segments in travel order. Segments may have zero length.
func (p *Path) Segments() []Segment {
	segs := make([]Segment, 0, len(p.word))
	for i, kind := range p.word {
		segs = append(segs, Segment{Kind: kind, Length: p.params[i] * p.radius})
	}
	return segs
}

// PoseAt returns the pose reached after travelling distance s along the path. s is clamped
// to [0, Length()].
func (p *Path) PoseAt(s float64) Pose {
	if !(s > 0) {
		return p.start
	}
	remaining := s / p.radius
	var x, y float64
	heading := p.start.Heading
	for i, kind := range p.word {
		step := math.Min(remaining, p.params[i])
		x, y, heading = advance(kind, x, y, heading, step)
		remaining -= step
		if remaining <= 0 {
			break
		}
	}
	return Pose{
		Point:   r2.Point{X: p.start.Point.X + x*p.radius, Y: p.start.Point.Y + y*p.radius},
		Heading: utils.WrapTwoPi(heading),
	}
}

// Sample returns poses spaced step apart along the path, starting with the start pose and
// ending with the end pose. A non-positive step returns only the two endpoints.
func (p *Path) Sample(step float64) []Pose {
	length := p.Length()
	if !(step > 0) || length <= step {
		return []Pose{p.start, p.end}
	}
	n := int(math.Ceil(length / step))
	poses := make([]Pose, 0, n+1)
	poses = append(poses, p.start)
	for k := 1; k < n; k++ {
		poses = append(poses, p.PoseAt(float64(k)*step))
	}
	return append(poses, p.end)
}

func (p *Path) String() string {
	return fmt.Sprintf("%v %v -> %v (%.4f)", p.word, p.start, p.end, p.Length())
}

// Advance returns the pose reached by driving length along a segment of kind k with the given
// turning radius. A negative length drives in reverse. The heading is not wrapped.
func (k SegmentKind) Advance(pose Pose, length, radius float64) Pose {
	x, y, heading := advance(k, 0, 0, pose.Heading, length/radius)
	return Pose{
		Point:   r2.Point{X: pose.Point.X + x*radius, Y: pose.Point.Y + y*radius},
		Heading: heading,
	}
}

// advance moves a unit-radius vehicle along one segment for the normalized length t. A negative
// t moves backwards along the same circle or line.
func advance(kind SegmentKind, x, y, heading, t float64) (float64, float64, float64) {
	switch kind {
	case Left:
		return x + math.Sin(heading+t) - math.Sin(heading), y - math.Cos(heading+t) + math.Cos(heading), heading + t
	case Right:
		return x - math.Sin(heading-t) + math.Sin(heading), y + math.Cos(heading-t) - math.Cos(heading), heading - t
	case Straight:
		return x + math.Cos(heading)*t, y + math.Sin(heading)*t, heading
	}
	return x, y, heading
}

// Shortest returns the shortest path from start to end for a vehicle turning no tighter than
// radius.
func Shortest(start, end Pose, radius float64) (*Path, error) {
	candidates, err := All(start, end, radius)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrPathNotFound
	}
	return lo.MinBy(candidates, func(a, b *Path) bool {
		return a.Length() < b.Length()
	}), nil
}

// All returns every feasible word connecting start to end, in the order LSL, LSR, RSL, RSR,
// RLR, LRL with infeasible words omitted.
func All(start, end Pose, radius float64) ([]*Path, error) {
	if !(radius > 0) || math.IsInf(radius, 1) {
		return nil, errors.Wrapf(ErrInvalidRadius, "got %v", radius)
	}
	in := newIntermediate(start, end, radius)
	paths := make([]*Path, 0, len(words))
	for _, w := range words {
		params, ok := w.solve(in)
		if !ok {
			continue
		}
		paths = append(paths, &Path{start: start, end: end, radius: radius, word: w.word, params: params})
	}
	return paths, nil
}

// Metric returns the shortest path length between (x, y, heading) configurations, or +Inf when
// either configuration is malformed. It is not symmetric, so it suits cost-to-go estimates and
// nearest neighbor queries rather than A* heuristics over reversible spaces.
func Metric(radius float64) motionplan.Metric[spatialmath.Configuration] {
	return func(a, b spatialmath.Configuration) float64 {
		from, err := PoseFromConfiguration(a)
		if err != nil {
			return math.Inf(1)
		}
		to, err := PoseFromConfiguration(b)
		if err != nil {
			return math.Inf(1)
		}
		path, err := Shortest(from, to, radius)
		if err != nil {
			return math.Inf(1)
		}
		return path.Length()
	}
}
