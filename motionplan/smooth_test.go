package motionplan_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"pgregory.net/rapid"

	"go.viam.com/robotalgo/logging"
	"go.viam.com/robotalgo/motionplan"
	"go.viam.com/robotalgo/motionplan/freespace"
	"go.viam.com/robotalgo/motionplan/graphspace"
	"go.viam.com/robotalgo/motionplan/gridspace"
	"go.viam.com/robotalgo/spatialmath"
)

// neighborsOnly hides the graph's Reach method so smoothing falls back to single transitions.
type neighborsOnly struct {
	motionplan.DiscreteSpace[string]
}

// isSubsequence reports whether every point of sub appears in path in the same order.
func isSubsequence[P comparable](sub, path motionplan.Path[P]) bool {
	i := 0
	for _, p := range path {
		if i < len(sub) && sub[i] == p {
			i++
		}
	}
	return i == len(sub)
}

func TestSmoothDiscreteOpenGrid(t *testing.T) {
	grid, err := gridspace.New(5, 5, gridspace.DefaultOptions())
	test.That(t, err, test.ShouldBeNil)
	planner := newGridPlanner(t, grid, nil)
	res, err := planner.Plan(context.Background(), cell(0, 0), cell(4, 4))
	test.That(t, err, test.ShouldBeNil)

	smoothed := motionplan.SmoothDiscrete[spatialmath.Cell](grid, res.Path)
	test.That(t, smoothed, test.ShouldResemble, motionplan.Path[spatialmath.Cell]{cell(0, 0), cell(4, 4)})
	test.That(t, motionplan.SmoothDiscrete[spatialmath.Cell](grid, smoothed), test.ShouldResemble, smoothed)
}

func TestSmoothDiscreteAroundObstacle(t *testing.T) {
	grid, err := gridspace.FromStrings([]string{
		"......",
		"..##..",
		"..##..",
		"......",
	}, gridspace.DefaultOptions())
	test.That(t, err, test.ShouldBeNil)
	planner := newGridPlanner(t, grid, nil)
	res, err := planner.Plan(context.Background(), cell(0, 2), cell(5, 1))
	test.That(t, err, test.ShouldBeNil)

	smoothed := motionplan.SmoothDiscrete[spatialmath.Cell](grid, res.Path)
	test.That(t, len(smoothed), test.ShouldBeLessThan, len(res.Path))
	test.That(t, smoothed[0], test.ShouldResemble, cell(0, 2))
	test.That(t, smoothed[len(smoothed)-1], test.ShouldResemble, cell(5, 1))
	test.That(t, isSubsequence(smoothed, res.Path), test.ShouldBeTrue)
	reach := func(a, b spatialmath.Cell) float64 {
		cost, ok := grid.Reach(a, b)
		test.That(t, ok, test.ShouldBeTrue)
		return cost
	}
	test.That(t, smoothed.Evaluate(reach), test.ShouldBeLessThanOrEqualTo, res.Path.Evaluate(reach))
}

func TestSmoothDiscreteNeighborFallback(t *testing.T) {
	graph := graphspace.New[string]()
	graph.AddEdge("a", "b", 1)
	graph.AddEdge("b", "c", 1)
	graph.AddEdge("c", "d", 1)
	graph.AddEdge("a", "d", 2)
	graph.AddEdge("a", "c", 5)
	space := neighborsOnly{graph}

	path := motionplan.Path[string]{"a", "b", "c", "d"}
	test.That(t, motionplan.SmoothDiscrete[string](space, path), test.ShouldResemble, motionplan.Path[string]{"a", "d"})

	// A shortcut costlier than the waypoints it skips is refused.
	test.That(t, motionplan.SmoothDiscrete[string](space, path[:3]), test.ShouldResemble, path[:3])

	short := motionplan.Path[string]{"a", "b"}
	smoothed := motionplan.SmoothDiscrete[string](space, short)
	test.That(t, smoothed, test.ShouldResemble, short)
	smoothed[0] = "z"
	test.That(t, short[0], test.ShouldEqual, "a")
}

func TestSmoothDiscreteProperties(t *testing.T) {
	ctx := context.Background()
	rapid.Check(t, func(t *rapid.T) {
		conn := gridspace.Connectivity(rapid.IntRange(0, 1).Draw(t, "conn"))
		w := rapid.IntRange(2, 10).Draw(t, "width")
		h := rapid.IntRange(2, 10).Draw(t, "height")
		b := gridspace.NewBuilder(w, h, gridspace.Options{Connectivity: conn})
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				switch rapid.IntRange(0, 5).Draw(t, "cell") {
				case 0:
					b.Block(cell(x, y))
				case 1:
					b.SetWeight(cell(x, y), float64(rapid.IntRange(2, 4).Draw(t, "weight")))
				}
			}
		}
		b.SetWeight(cell(0, 0), 1).SetWeight(cell(w-1, h-1), 1)
		grid, err := b.Build()
		if err != nil {
			t.Fatal(err)
		}
		planner, err := motionplan.NewGraphPlanner[spatialmath.Cell](grid, grid.Heuristic(), nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		res, err := planner.Plan(ctx, cell(0, 0), cell(w-1, h-1))
		if errors.Is(err, motionplan.ErrNoPathExists) {
			return
		}
		if err != nil {
			t.Fatal(err)
		}

		smoothed := motionplan.SmoothDiscrete[spatialmath.Cell](grid, res.Path)
		if smoothed[0] != res.Path[0] || smoothed[len(smoothed)-1] != res.Path[len(res.Path)-1] {
			t.Fatalf("endpoints changed: %v -> %v", res.Path, smoothed)
		}
		if !isSubsequence(smoothed, res.Path) {
			t.Fatalf("%v is not a subsequence of %v", smoothed, res.Path)
		}
		for i := 1; i < len(smoothed); i++ {
			if _, ok := grid.Reach(smoothed[i-1], smoothed[i]); !ok {
				t.Fatalf("smoothed step %v -> %v is not connected", smoothed[i-1], smoothed[i])
			}
		}
		again := motionplan.SmoothDiscrete[spatialmath.Cell](grid, smoothed)
		if len(again) != len(smoothed) || !isSubsequence(again, smoothed) {
			t.Fatalf("smoothing is not idempotent: %v -> %v", smoothed, again)
		}
	})
}

func TestSmoothContinuous(t *testing.T) {
	space := newWallSpace(t)
	opt := rrtOptions(11)
	planner, err := motionplan.NewRRTPlanner(space, opt, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	res, err := planner.Plan(context.Background(), spatialmath.Configuration{1, 5}, spatialmath.Configuration{9, 5})
	test.That(t, err, test.ShouldBeNil)

	smoothed := motionplan.SmoothContinuous(space, res.Path, opt.Resolution)
	test.That(t, smoothed[0], test.ShouldResemble, res.Path[0])
	test.That(t, smoothed[len(smoothed)-1], test.ShouldResemble, res.Path[len(res.Path)-1])
	test.That(t, len(smoothed), test.ShouldBeLessThanOrEqualTo, len(res.Path))
	for i := 1; i < len(smoothed); i++ {
		test.That(t, space.IsValidSegment(smoothed[i-1], smoothed[i], opt.Resolution), test.ShouldBeTrue)
	}
	test.That(t, smoothed.Evaluate(space.Distance), test.ShouldBeLessThanOrEqualTo, res.Path.Evaluate(space.Distance)+1e-9)
	test.That(t, motionplan.SmoothContinuous(space, smoothed, opt.Resolution), test.ShouldResemble, smoothed)
}

func TestSmoothContinuousOpenSpace(t *testing.T) {
	space, err := freespace.New(spatialmath.Configuration{0, 0}, spatialmath.Configuration{4, 4})
	test.That(t, err, test.ShouldBeNil)
	zigzag := motionplan.Path[spatialmath.Configuration]{{0, 0}, {1, 2}, {2, 0}, {3, 2}, {4, 0}}
	smoothed := motionplan.SmoothContinuous(space, zigzag, 0.1)
	test.That(t, smoothed, test.ShouldResemble, motionplan.Path[spatialmath.Configuration]{{0, 0}, {4, 0}})
}
