// Package reedsshepp computes shortest paths for a vehicle with a bounded turning radius that
// may drive both forwards and in reverse.
//
// A Reeds-Shepp path is a sequence of at most five left turn (L), right turn (R), and straight
// (S) segments, each driven forwards (+) or in reverse (-). The shortest path between two poses
// is one of the words in Reeds and Shepp's families CSC, CCC, CCCC, CCSC, and CCSCC, reached by
// the base formulas together with their time-flipped and reflected variants. Paths reuse the
// pose and segment types of the dubins package.
package reedsshepp

import (
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/robotalgo/motionplan"
	"go.viam.com/robotalgo/motionplan/dubins"
	"go.viam.com/robotalgo/spatialmath"
	"go.viam.com/robotalgo/utils"
)

var (
	// ErrInvalidRadius is returned for a turning radius that is not a positive finite number.
	ErrInvalidRadius = errors.New("reeds-shepp: turning radius must be positive and finite")
	// ErrPathNotFound is returned when no word connects the poses.
	ErrPathNotFound = errors.New("reeds-shepp: no path found")
)

// Path is a Reeds-Shepp path between two poses.
type Path struct {
	start, end dubins.Pose
	radius     float64
	kinds      []dubins.SegmentKind
	// Signed segment lengths normalized by the radius. Negative lengths are driven in reverse.
	params []float64
}

// Start returns the pose the path begins at.
func (p *Path) Start() dubins.Pose {
	return p.start
}

// End returns the pose the path finishes at.
func (p *Path) End() dubins.Pose {
	return p.end
}

// Radius returns the turning radius the path was computed for.
func (p *Path) Radius() float64 {
	return p.radius
}

// Length returns the total distance driven, forwards and in reverse.
func (p *Path) Length() float64 {
	return lo.SumBy(p.params, math.Abs) * p.radius
}

// Segments returns the segments in travel order. A segment driven in reverse has a negative
// Length. Segments may have zero length.
func (p *Path) Segments() []dubins.Segment {
	return lo.Map(p.kinds, func(kind dubins.SegmentKind, i int) dubins.Segment {
		return dubins.Segment{Kind: kind, Length: p.params[i] * p.radius}
	})
}

// Word names the path's segments with their driving direction, e.g. "L+S-R+".
func (p *Path) Word() string {
	var sb strings.Builder
	for i, kind := range p.kinds {
		sb.WriteString(kind.String())
		if p.params[i] < 0 {
			sb.WriteByte('-')
		} else {
			sb.WriteByte('+')
		}
	}
	return sb.String()
}

// PoseAt returns the pose reached after driving distance s along the path, counting reverse
// motion as positive distance. s is clamped to [0, Length()].
func (p *Path) PoseAt(s float64) dubins.Pose {
	if !(s > 0) {
		return p.start
	}
	remaining := s / p.radius
	pose := p.start
	for i, kind := range p.kinds {
		step := math.Min(remaining, math.Abs(p.params[i]))
		pose = kind.Advance(pose, math.Copysign(step, p.params[i])*p.radius, p.radius)
		remaining -= step
		if remaining <= 0 {
			break
		}
	}
	pose.Heading = utils.WrapPi(pose.Heading)
	return pose
}

// Sample returns poses spaced step apart along the path, starting with the start pose and
// ending with the end pose. A non-positive step returns only the two endpoints.
func (p *Path) Sample(step float64) []dubins.Pose {
	length := p.Length()
	if !(step > 0) || length <= step {
		return []dubins.Pose{p.start, p.end}
	}
	n := int(math.Ceil(length / step))
	poses := make([]dubins.Pose, 0, n+1)
	poses = append(poses, p.start)
	for k := 1; k < n; k++ {
		poses = append(poses, p.PoseAt(float64(k)*step))
	}
	return append(poses, p.end)
}

func (p *Path) String() string {
	return fmt.Sprintf("%s %v -> %v (%.4f)", p.Word(), p.start, p.end, p.Length())
}

// Shortest returns the shortest path from start to end for a vehicle turning no tighter than
// radius. When several words tie, the first in All's order wins.
func Shortest(start, end dubins.Pose, radius float64) (*Path, error) {
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

// All returns every candidate path connecting start to end: each word family with its
// time-flipped and reflected variants, in family order. Candidates whose segments do not land on
// the end pose are dropped.
func All(start, end dubins.Pose, radius float64) ([]*Path, error) {
	if !(radius > 0) || math.IsInf(radius, 1) {
		return nil, errors.Wrapf(ErrInvalidRadius, "got %v", radius)
	}
	goal := toLocal(start, end, radius)
	paths := make([]*Path, 0, 16)
	for _, c := range candidates(goal.Point.X, goal.Point.Y, goal.Heading) {
		if !c.reaches(goal) {
			continue
		}
		paths = append(paths, &Path{start: start, end: end, radius: radius, kinds: c.kinds, params: c.params})
	}
	return paths, nil
}

// toLocal expresses end in the frame of start, scaled to a unit turning radius.
func toLocal(start, end dubins.Pose, radius float64) dubins.Pose {
	delta := end.Point.Sub(start.Point)
	sin, cos := math.Sincos(start.Heading)
	return dubins.Pose{
		Point:   r2.Point{X: (cos*delta.X + sin*delta.Y) / radius, Y: (-sin*delta.X + cos*delta.Y) / radius},
		Heading: end.Heading - start.Heading,
	}
}

// Metric returns the shortest path length between (x, y, heading) configurations, or +Inf when
// either configuration is malformed. Reversing makes every path drivable backwards, so unlike the
// Dubins metric it is symmetric.
func Metric(radius float64) motionplan.Metric[spatialmath.Configuration] {
	return func(a, b spatialmath.Configuration) float64 {
		from, err := dubins.PoseFromConfiguration(a)
		if err != nil {
			return math.Inf(1)
		}
		to, err := dubins.PoseFromConfiguration(b)
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
