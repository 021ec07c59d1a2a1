package motionplan

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"go.viam.com/robotalgo/spatialmath"
)

// Metric measures the distance between two points. Metrics used as heuristics must be symmetric,
// non-negative, and satisfy the triangle inequality.
type Metric[P any] func(a, b P) float64

// Heuristic estimates the remaining cost from a point to the goal.
type Heuristic[P any] func(from, goal P) float64

// AsHeuristic returns the metric as a cost-to-go estimate.
func (m Metric[P]) AsHeuristic() Heuristic[P] {
	if m == nil {
		return nil
	}
	return Heuristic[P](m)
}

// EuclideanMetric is the L2 distance between two configurations.
func EuclideanMetric(a, b spatialmath.Configuration) float64 {
	return floats.Distance(a, b, 2)
}

// SquaredEuclideanMetric is the squared L2 distance. It is cheaper than EuclideanMetric and orders
// pairs identically, but it violates the triangle inequality and must not be used as a heuristic.
func SquaredEuclideanMetric(a, b spatialmath.Configuration) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

// ManhattanMetric is the L1 distance between two configurations.
func ManhattanMetric(a, b spatialmath.Configuration) float64 {
	return floats.Distance(a, b, 1)
}

// ChebyshevMetric is the L-infinity distance between two configurations.
func ChebyshevMetric(a, b spatialmath.Configuration) float64 {
	return floats.Distance(a, b, math.Inf(1))
}

// WeightedMetric returns the Euclidean distance with each axis scaled by the matching weight.
// Axes beyond the weight vector are weighted 1. Configurations of different dimensions are +Inf
// apart.
func WeightedMetric(weights []float64) Metric[spatialmath.Configuration] {
	w := append([]float64{}, weights...)
	return func(a, b spatialmath.Configuration) float64 {
		if len(a) != len(b) {
			return math.Inf(1)
		}
		sum := 0.
		for i := range a {
			d := a[i] - b[i]
			if i < len(w) {
				d *= w[i]
			}
			sum += d * d
		}
		return math.Sqrt(sum)
	}
}

// CellManhattan is the 4-connected grid distance.
func CellManhattan(a, b spatialmath.Cell) float64 {
	dx, dy := cellDeltas(a, b)
	return dx + dy
}

// CellOctile is the 8-connected grid distance with diagonal steps of length sqrt(2).
func CellOctile(a, b spatialmath.Cell) float64 {
	dx, dy := cellDeltas(a, b)
	return math.Max(dx, dy) + (math.Sqrt2-1)*math.Min(dx, dy)
}

// CellChebyshev is the 8-connected grid distance with unit-cost diagonals.
func CellChebyshev(a, b spatialmath.Cell) float64 {
	dx, dy := cellDeltas(a, b)
	return math.Max(dx, dy)
}

// CellEuclidean is the straight-line distance between cell coordinates.
func CellEuclidean(a, b spatialmath.Cell) float64 {
	dx, dy := cellDeltas(a, b)
	return math.Hypot(dx, dy)
}

func cellDeltas(a, b spatialmath.Cell) (float64, float64) {
	return math.Abs(float64(a.X - b.X)), math.Abs(float64(a.Y - b.Y))
}

// ZeroMetric always returns 0. Used as a heuristic it degrades A* to Dijkstra's algorithm.
func ZeroMetric[P any]() Metric[P] {
	return func(_, _ P) float64 { return 0 }
}

// ScaleMetric returns m multiplied by k.
func ScaleMetric[P any](m Metric[P], k float64) Metric[P] {
	return func(a, b P) float64 {
		return k * m(a, b)
	}
}

// CombineMetrics returns the sum of the given metrics.
func CombineMetrics[P any](metrics ...Metric[P]) Metric[P] {
	return func(a, b P) float64 {
		total := 0.
		for _, m := range metrics {
			total += m(a, b)
		}
		return total
	}
}

// MaxMetric returns the largest value among the given metrics. The maximum of admissible
// heuristics is admissible.
func MaxMetric[P any](metrics ...Metric[P]) Metric[P] {
	return func(a, b P) float64 {
		best := 0.
		for _, m := range metrics {
			best = math.Max(best, m(a, b))
		}
		return best
	}
}
