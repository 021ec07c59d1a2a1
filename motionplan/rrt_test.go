package motionplan_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/robotalgo/logging"
	"go.viam.com/robotalgo/motionplan"
	"go.viam.com/robotalgo/motionplan/freespace"
	"go.viam.com/robotalgo/spatialmath"
)

func newWallSpace(t *testing.T) *freespace.Space {
	t.Helper()
	wall, err := spatialmath.NewBoxFromCenter(spatialmath.Configuration{5, 5}, spatialmath.Configuration{2, 6})
	test.That(t, err, test.ShouldBeNil)
	space, err := freespace.New(
		spatialmath.Configuration{0, 0},
		spatialmath.Configuration{10, 10},
		freespace.WithObstacles(wall),
	)
	test.That(t, err, test.ShouldBeNil)
	return space
}

// newPocketSpace returns a space whose upper right corner is sealed off by two walls.
func newPocketSpace(t *testing.T) *freespace.Space {
	t.Helper()
	horizontal, err := spatialmath.NewBox(spatialmath.Configuration{7, 7}, spatialmath.Configuration{10, 7.5})
	test.That(t, err, test.ShouldBeNil)
	vertical, err := spatialmath.NewBox(spatialmath.Configuration{7, 7}, spatialmath.Configuration{7.5, 10})
	test.That(t, err, test.ShouldBeNil)
	space, err := freespace.New(
		spatialmath.Configuration{0, 0},
		spatialmath.Configuration{10, 10},
		freespace.WithObstacles(horizontal, vertical),
	)
	test.That(t, err, test.ShouldBeNil)
	return space
}

// newClutteredSpace returns a space scattered with small balls that segments often graze.
func newClutteredSpace(t *testing.T) *freespace.Space {
	t.Helper()
	var balls []spatialmath.Geometry
	for _, c := range [][2]float64{
		{2, 2}, {5, 2}, {8, 2}, {2, 5}, {5, 5}, {8, 5},
		{2, 8}, {5, 8}, {8, 8}, {3.5, 3.5}, {6.5, 6.5}, {3.5, 6.5},
	} {
		ball, err := spatialmath.NewBall(spatialmath.Configuration{c[0], c[1]}, 0.6)
		test.That(t, err, test.ShouldBeNil)
		balls = append(balls, ball)
	}
	space, err := freespace.New(
		spatialmath.Configuration{0, 0},
		spatialmath.Configuration{10, 10},
		freespace.WithObstacles(balls...),
	)
	test.That(t, err, test.ShouldBeNil)
	return space
}

func rrtOptions(seed int64) *motionplan.PlannerOptions {
	opt := motionplan.NewBasicPlannerOptions()
	opt.Seed = seed
	opt.PlanIter = 5000
	return opt
}

func checkTreeResult(t *testing.T, space *freespace.Space, opt *motionplan.PlannerOptions, res *motionplan.TreeResult) {
	t.Helper()
	for i, n := range res.Tree {
		test.That(t, space.IsValid(n.Q), test.ShouldBeTrue)
		if i == 0 {
			test.That(t, n.Parent, test.ShouldEqual, -1)
			continue
		}
		test.That(t, n.Parent, test.ShouldBeGreaterThanOrEqualTo, 0)
		test.That(t, n.Parent, test.ShouldBeLessThan, i)
		parent := res.Tree[n.Parent].Q
		test.That(t, space.IsValidSegment(parent, n.Q, opt.Resolution), test.ShouldBeTrue)
		test.That(t, space.Distance(parent, n.Q), test.ShouldBeLessThanOrEqualTo, opt.MaxStep+1e-9)
	}
	for i := 1; i < len(res.Path); i++ {
		test.That(t, space.IsValidSegment(res.Path[i-1], res.Path[i], opt.Resolution), test.ShouldBeTrue)
	}
}

func TestRRTPlannerFindsPath(t *testing.T) {
	space := newWallSpace(t)
	opt := rrtOptions(42)
	logger, observed := logging.NewObservedTestLogger(t)
	planner, err := motionplan.NewRRTPlanner(space, opt, logger)
	test.That(t, err, test.ShouldBeNil)

	start, goal := spatialmath.Configuration{1, 5}, spatialmath.Configuration{9, 5}
	res, err := planner.Plan(context.Background(), start, goal)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Path[0], test.ShouldResemble, start)
	last := res.Path[len(res.Path)-1]
	test.That(t, space.Distance(last, goal), test.ShouldBeLessThanOrEqualTo, opt.GoalTolerance)
	test.That(t, res.Iterations, test.ShouldBeGreaterThanOrEqualTo, 1)
	test.That(t, res.Iterations, test.ShouldBeLessThanOrEqualTo, opt.PlanIter)
	test.That(t, len(res.Tree), test.ShouldBeGreaterThanOrEqualTo, len(res.Path))
	checkTreeResult(t, space, opt, res)

	// The path has to leave the straight line to get around the wall.
	test.That(t, res.Path.Evaluate(space.Distance), test.ShouldBeGreaterThan, 8)
	test.That(t, observed.FilterMessageSnippet("rrt reached the goal").Len(), test.ShouldEqual, 1)
}

func TestRRTPlannerSegmentsValid(t *testing.T) {
	space := newClutteredSpace(t)
	start, goal := spatialmath.Configuration{0.5, 0.5}, spatialmath.Configuration{9.5, 9.5}
	solved := 0
	for seed := int64(1); seed <= 60; seed++ {
		opt := rrtOptions(seed)
		opt.Resolution = 0.2
		planner, err := motionplan.NewRRTPlanner(space, opt, logging.NewBlankLogger("rrt"))
		test.That(t, err, test.ShouldBeNil)
		res, err := planner.Plan(context.Background(), start, goal)
		if err != nil {
			test.That(t, motionplan.IsIncompleteSearch(err), test.ShouldBeTrue)
			continue
		}
		solved++
		checkTreeResult(t, space, opt, res)

		smoothed := motionplan.SmoothContinuous(space, res.Path, opt.Resolution)
		for i := 1; i < len(smoothed); i++ {
			test.That(t, space.IsValidSegment(smoothed[i-1], smoothed[i], opt.Resolution), test.ShouldBeTrue)
		}
	}
	test.That(t, solved, test.ShouldBeGreaterThan, 0)
}

func TestRRTPlannerDeterministic(t *testing.T) {
	space := newWallSpace(t)
	start, goal := spatialmath.Configuration{1, 5}, spatialmath.Configuration{9, 5}
	ctx := context.Background()

	plan := func(opt *motionplan.PlannerOptions) *motionplan.TreeResult {
		planner, err := motionplan.NewRRTPlanner(space, opt, logging.NewTestLogger(t))
		test.That(t, err, test.ShouldBeNil)
		res, err := planner.Plan(ctx, start, goal)
		test.That(t, err, test.ShouldBeNil)
		return res
	}

	first := plan(rrtOptions(7))
	test.That(t, plan(rrtOptions(7)), test.ShouldResemble, first)

	// Without a caller-supplied source every call starts over from the seed.
	reused, err := motionplan.NewRRTPlanner(space, rrtOptions(7), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	for i := 0; i < 2; i++ {
		res, err := reused.Plan(ctx, start, goal)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, res, test.ShouldResemble, first)
	}

	// The R-tree index agrees with the linear scan, so the trees match too.
	withRTree := rrtOptions(7)
	withRTree.NeighborIndex = motionplan.RTreeNeighborIndex
	test.That(t, plan(withRTree), test.ShouldResemble, first)

	// A parallel scan merges to the same neighbors.
	parallel := rrtOptions(7)
	parallel.ParallelNeighbors = 16
	test.That(t, plan(parallel), test.ShouldResemble, first)

	// A caller-supplied source seeded the same way reproduces the run.
	shared := rrtOptions(0)
	//nolint:gosec
	shared.Rand = rand.New(rand.NewSource(7))
	test.That(t, plan(shared), test.ShouldResemble, first)
}

func TestRRTPlannerEnclosedGoal(t *testing.T) {
	space := newPocketSpace(t)
	opt := rrtOptions(1)
	opt.PlanIter = 300
	planner, err := motionplan.NewRRTPlanner(space, opt, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	_, err = planner.Plan(context.Background(), spatialmath.Configuration{1, 1}, spatialmath.Configuration{8.5, 8.5})
	test.That(t, errors.Is(err, motionplan.ErrBudgetExhausted), test.ShouldBeTrue)
	test.That(t, errors.Is(err, motionplan.ErrNoPathExists), test.ShouldBeFalse)
	test.That(t, motionplan.IsIncompleteSearch(err), test.ShouldBeTrue)
}

func TestRRTPlannerEndpoints(t *testing.T) {
	space := newWallSpace(t)
	planner, err := motionplan.NewRRTPlanner(space, rrtOptions(1), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	ctx := context.Background()

	_, err = planner.Plan(ctx, spatialmath.Configuration{5, 5}, spatialmath.Configuration{9, 5})
	test.That(t, errors.Is(err, motionplan.ErrInvalidStartOrGoal), test.ShouldBeTrue)
	_, err = planner.Plan(ctx, spatialmath.Configuration{1, 5}, spatialmath.Configuration{11, 5})
	test.That(t, errors.Is(err, motionplan.ErrInvalidStartOrGoal), test.ShouldBeTrue)
	_, err = planner.Plan(ctx, spatialmath.Configuration{1, 5, 0}, spatialmath.Configuration{9, 5})
	test.That(t, errors.Is(err, motionplan.ErrInvalidStartOrGoal), test.ShouldBeTrue)

	// A goal already within tolerance is connected without sampling.
	start, goal := spatialmath.Configuration{1, 1}, spatialmath.Configuration{1.05, 1}
	res, err := planner.Plan(ctx, start, goal)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Path, test.ShouldResemble, motionplan.Path[spatialmath.Configuration]{start, goal})
	test.That(t, res.Iterations, test.ShouldEqual, 0)

	res, err = planner.Plan(ctx, start, start)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Path, test.ShouldResemble, motionplan.Path[spatialmath.Configuration]{start})
}

func TestRRTPlannerBudgets(t *testing.T) {
	space := newWallSpace(t)
	ctx := context.Background()
	start, goal := spatialmath.Configuration{1, 5}, spatialmath.Configuration{9, 5}

	opt := rrtOptions(1)
	opt.NodeCapacity = 5
	planner, err := motionplan.NewRRTPlanner(space, opt, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	_, err = planner.Plan(ctx, start, goal)
	test.That(t, errors.Is(err, motionplan.ErrCapacityExceeded), test.ShouldBeTrue)

	planner, err = motionplan.NewRRTPlanner(space, rrtOptions(1), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = planner.Plan(canceled, start, goal)
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)

	bad := rrtOptions(1)
	bad.GoalBias = 1.5
	_, err = motionplan.NewRRTPlanner(space, bad, nil)
	test.That(t, err, test.ShouldNotBeNil)
}
