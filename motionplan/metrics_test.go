package motionplan

import (
	"math"
	"testing"

	"go.viam.com/test"
	"pgregory.net/rapid"

	"go.viam.com/robotalgo/spatialmath"
)

func TestConfigurationMetrics(t *testing.T) {
	a := spatialmath.NewConfiguration(0, 0, 0)
	b := spatialmath.NewConfiguration(3, -4, 0)

	test.That(t, EuclideanMetric(a, b), test.ShouldAlmostEqual, 5)
	test.That(t, SquaredEuclideanMetric(a, b), test.ShouldAlmostEqual, 25)
	test.That(t, ManhattanMetric(a, b), test.ShouldAlmostEqual, 7)
	test.That(t, ChebyshevMetric(a, b), test.ShouldAlmostEqual, 4)
	test.That(t, WeightedMetric([]float64{2})(a, b), test.ShouldAlmostEqual, math.Sqrt(36+16))
	test.That(t, math.IsInf(WeightedMetric([]float64{2})(a, spatialmath.Configuration{1}), 1), test.ShouldBeTrue)
	test.That(t, math.IsInf(WeightedMetric(nil)(spatialmath.Configuration{1}, b), 1), test.ShouldBeTrue)
}

func TestCellMetrics(t *testing.T) {
	a := spatialmath.Cell{X: 0, Y: 0}
	b := spatialmath.Cell{X: 4, Y: -2}

	test.That(t, CellManhattan(a, b), test.ShouldEqual, 6.)
	test.That(t, CellChebyshev(a, b), test.ShouldEqual, 4.)
	test.That(t, CellOctile(a, b), test.ShouldAlmostEqual, 2+2*math.Sqrt2)
	test.That(t, CellEuclidean(a, b), test.ShouldAlmostEqual, math.Sqrt(20))
}

func TestMetricCombinators(t *testing.T) {
	a := spatialmath.NewConfiguration(0, 0)
	b := spatialmath.NewConfiguration(3, 4)

	test.That(t, ZeroMetric[spatialmath.Configuration]()(a, b), test.ShouldEqual, 0.)
	test.That(t, ScaleMetric(EuclideanMetric, 2)(a, b), test.ShouldAlmostEqual, 10)
	test.That(t, CombineMetrics(EuclideanMetric, ManhattanMetric)(a, b), test.ShouldAlmostEqual, 12)
	test.That(t, MaxMetric(EuclideanMetric, ManhattanMetric, ChebyshevMetric)(a, b), test.ShouldAlmostEqual, 7)

	var nilMetric Metric[int]
	test.That(t, nilMetric.AsHeuristic(), test.ShouldBeNil)
	h := Metric[spatialmath.Configuration](ManhattanMetric).AsHeuristic()
	test.That(t, h(a, b), test.ShouldAlmostEqual, 7)
}

func TestMetricProperties(t *testing.T) {
	metrics := map[string]Metric[spatialmath.Configuration]{
		"euclidean": EuclideanMetric,
		"manhattan": ManhattanMetric,
		"chebyshev": ChebyshevMetric,
		"weighted":  WeightedMetric([]float64{1, 0.5, 3}),
	}
	for name, metric := range metrics {
		t.Run(name, func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				coord := rapid.Float64Range(-1e3, 1e3)
				a := spatialmath.Configuration(rapid.SliceOfN(coord, 3, 3).Draw(t, "a"))
				b := spatialmath.Configuration(rapid.SliceOfN(coord, 3, 3).Draw(t, "b"))
				c := spatialmath.Configuration(rapid.SliceOfN(coord, 3, 3).Draw(t, "c"))

				if d := metric(a, a); d != 0 {
					t.Fatalf("distance from a point to itself is %v", d)
				}
				ab, ba := metric(a, b), metric(b, a)
				if ab < 0 {
					t.Fatalf("negative distance %v", ab)
				}
				if math.Abs(ab-ba) > 1e-9*math.Max(1, ab) {
					t.Fatalf("asymmetric: %v vs %v", ab, ba)
				}
				if ac := metric(a, c); ac > ab+metric(b, c)+1e-9*math.Max(1, ac) {
					t.Fatalf("triangle inequality violated: %v > %v + %v", ac, ab, metric(b, c))
				}
			})
		})
	}
}
