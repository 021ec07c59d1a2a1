package motionplan

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Path is an ordered sequence of points from a start to a goal, both inclusive.
type Path[P any] []P

// Start returns the first point of the path. ok is false for an empty path.
func (path Path[P]) Start() (p P, ok bool) {
	if len(path) == 0 {
		return p, false
	}
	return path[0], true
}

// Goal returns the last point of the path. ok is false for an empty path.
func (path Path[P]) Goal() (p P, ok bool) {
	if len(path) == 0 {
		return p, false
	}
	return path[len(path)-1], true
}

// Clone returns a copy of the path. The points themselves are not copied.
func (path Path[P]) Clone() Path[P] {
	return append(Path[P]{}, path...)
}

// Evaluate returns the total cost of the path under the given segment cost. A single-point path
// costs 0.
func (path Path[P]) Evaluate(cost func(a, b P) float64) (totalCost float64) {
	for i := 1; i < len(path); i++ {
		totalCost += cost(path[i-1], path[i])
	}
	return totalCost
}

// String returns a human-readable version of the Path, suitable for debugging.
func (path Path[P]) String() string {
	return strings.Join(lo.Map(path, func(p P, _ int) string {
		return fmt.Sprintf("%v", p)
	}), " -> ")
}
