package motionplan

import (
	"context"
	"math/rand"
	"testing"

	"go.viam.com/test"

	"go.viam.com/robotalgo/spatialmath"
)

func TestNearestNeighbor(t *testing.T) {
	ctx := context.Background()
	li := &linearIndex{metric: EuclideanMetric, parallelNeighbors: 1000}

	// We add ~110 nodes to the set of candidates. This is smaller than the configured
	// parallelNeighbors of 1000, meaning the nearest call will be evaluated in series.
	for i := 0; i < 110; i++ {
		li.add(i, spatialmath.Configuration{float64(i)})
	}
	nn, err := li.nearest(ctx, spatialmath.Configuration{23.1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, nn, test.ShouldEqual, 23)

	// We add more nodes to trip the 1000 threshold, and the scan is split across goroutines.
	for i := 110; i < 1100; i++ {
		li.add(i, spatialmath.Configuration{float64(i)})
	}
	nn, err = li.nearest(ctx, spatialmath.Configuration{723.6})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, nn, test.ShouldEqual, 724)

	// Equidistant candidates resolve to the lower index.
	nn, err = li.nearest(ctx, spatialmath.Configuration{500.5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, nn, test.ShouldEqual, 500)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = li.nearest(canceled, spatialmath.Configuration{1})
	test.That(t, err, test.ShouldBeError, context.Canceled)
}

func TestNearestNeighborEmpty(t *testing.T) {
	ctx := context.Background()
	nn, err := (&linearIndex{metric: EuclideanMetric}).nearest(ctx, spatialmath.Configuration{0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, nn, test.ShouldEqual, noParent)
	nn, err = newRTreeIndex(1).nearest(ctx, spatialmath.Configuration{0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, nn, test.ShouldEqual, noParent)
}

func TestNearestNeighborIndexesAgree(t *testing.T) {
	ctx := context.Background()
	//nolint:gosec
	rng := rand.New(rand.NewSource(3))
	serial := &linearIndex{metric: EuclideanMetric}
	parallel := &linearIndex{metric: EuclideanMetric, parallelNeighbors: 50}
	rtree := newRTreeIndex(3)
	for i := 0; i < 2000; i++ {
		q := spatialmath.Configuration{rng.Float64() * 10, rng.Float64() * 10, rng.Float64() * 10}
		serial.add(i, q)
		parallel.add(i, q)
		rtree.add(i, q)
	}
	test.That(t, rtree.len(), test.ShouldEqual, 2000)
	test.That(t, parallel.len(), test.ShouldEqual, 2000)

	for i := 0; i < 200; i++ {
		q := spatialmath.Configuration{rng.Float64() * 10, rng.Float64() * 10, rng.Float64() * 10}
		want, err := serial.nearest(ctx, q)
		test.That(t, err, test.ShouldBeNil)
		got, err := parallel.nearest(ctx, q)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldEqual, want)
		got, err = rtree.nearest(ctx, q)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldEqual, want)
	}
}

func TestNearestNeighborTies(t *testing.T) {
	ctx := context.Background()
	serial := &linearIndex{metric: EuclideanMetric}
	rtree := newRTreeIndex(2)
	// More coincident nodes than a single R-tree batch holds, with the lowest index added last.
	for i := 3 * rtreeCandidates; i >= 0; i-- {
		q := spatialmath.Configuration{1, 1}
		serial.add(i, q)
		rtree.add(i, q)
	}
	rtree.add(100, spatialmath.Configuration{5, 5})

	q := spatialmath.Configuration{0, 0}
	want, err := serial.nearest(ctx, q)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, want, test.ShouldEqual, 0)
	got, err := rtree.nearest(ctx, q)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldEqual, 0)
}
