package motionplan

import (
	"math/rand"
	"testing"

	"go.uber.org/multierr"
	"go.viam.com/test"
)

func TestBasicPlannerOptions(t *testing.T) {
	opt := NewBasicPlannerOptions()
	test.That(t, opt.Validate(), test.ShouldBeNil)
	test.That(t, opt.HeuristicWeight, test.ShouldEqual, 1.)
	test.That(t, opt.PlanIter, test.ShouldEqual, defaultPlanIter)
	test.That(t, opt.NeighborIndex, test.ShouldEqual, LinearNeighborIndex)
	test.That(t, opt.MaxExpansions, test.ShouldEqual, 0)
	test.That(t, opt.NodeCapacity, test.ShouldEqual, 0)
}

func TestPlannerOptionsFromMap(t *testing.T) {
	opt, err := NewPlannerOptionsFromMap(map[string]interface{}{
		"heuristic_weight": "1.5",
		"plan_iter":        500,
		"goal_bias":        0.25,
		"seed":             "42",
		"nearest_neighbor": "rtree",
		"strict_costs":     true,
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opt.HeuristicWeight, test.ShouldEqual, 1.5)
	test.That(t, opt.PlanIter, test.ShouldEqual, 500)
	test.That(t, opt.GoalBias, test.ShouldEqual, 0.25)
	test.That(t, opt.Seed, test.ShouldEqual, int64(42))
	test.That(t, opt.NeighborIndex, test.ShouldEqual, RTreeNeighborIndex)
	test.That(t, opt.StrictCosts, test.ShouldBeTrue)
	// Untouched fields keep their defaults.
	test.That(t, opt.MaxStep, test.ShouldEqual, defaultMaxStep)

	_, err = NewPlannerOptionsFromMap(map[string]interface{}{"plan_iterations": 5})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewPlannerOptionsFromMap(map[string]interface{}{"goal_bias": 2})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "goal_bias")
}

func TestPlannerOptionsValidateAggregates(t *testing.T) {
	opt := NewBasicPlannerOptions()
	opt.MaxStep = 0
	opt.Resolution = -1
	opt.NeighborIndex = "kdtree"
	err := opt.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, len(multierr.Errors(err)), test.ShouldEqual, 3)
	test.That(t, err.Error(), test.ShouldContainSubstring, "kdtree")
}

func TestPlannerOptionsRand(t *testing.T) {
	opt := NewBasicPlannerOptions()
	opt.Seed = 7
	a, b := opt.rng(), opt.rng()
	test.That(t, a.Float64(), test.ShouldEqual, b.Float64())

	//nolint:gosec
	shared := rand.New(rand.NewSource(1))
	opt.Rand = shared
	test.That(t, opt.rng(), test.ShouldEqual, shared)
}

func TestLogEvery(t *testing.T) {
	opt := NewBasicPlannerOptions()
	test.That(t, opt.logEvery(1000), test.ShouldEqual, 100)
	test.That(t, opt.logEvery(0), test.ShouldEqual, 0)
	test.That(t, opt.logEvery(3), test.ShouldEqual, 1)
	opt.LoggingInterval = 0
	test.That(t, opt.logEvery(1000), test.ShouldEqual, 0)
}
