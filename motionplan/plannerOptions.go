package motionplan

import (
	"math"
	"math/rand"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// default values for planning options.
const (
	// A* priority is g + defaultHeuristicWeight*h.
	defaultHeuristicWeight = 1.0

	// Number of planner iterations before giving up.
	defaultPlanIter = 20000

	// Probability of sampling the goal itself on an RRT iteration.
	defaultGoalBias = 0.1

	// Max distance an RRT extension may cover.
	defaultMaxStep = 1.0

	// Check validity every this much distance along a segment.
	defaultResolution = 0.05

	// RRT succeeds once a node is within this distance of the goal.
	defaultGoalTolerance = 0.1

	defaultSeed = 1

	// Tree size above which nearest-neighbor scans are split across goroutines.
	defaultParallelNeighbors = 1000

	// Fraction of the budget between progress logs.
	defaultLoggingInterval = 0.1
)

// names of the nearest-neighbor index implementations.
const (
	LinearNeighborIndex = "linear"
	RTreeNeighborIndex  = "rtree"
)

// PlannerOptions are the knobs shared by every planner in this package. For the values below, if
// left uninitialized, defaults are filled in by NewBasicPlannerOptions.
type PlannerOptions struct {
	// Weight applied to the heuristic in A*. 1 keeps A* optimal; above 1 trades optimality for speed.
	HeuristicWeight float64 `json:"heuristic_weight"`

	// Max number of A* expansions before giving up. 0 means unbounded.
	MaxExpansions int `json:"max_expansions"`

	// Number of RRT iterations before giving up.
	PlanIter int `json:"plan_iter"`

	// Probability in [0, 1] that an RRT iteration samples the goal.
	GoalBias float64 `json:"goal_bias"`

	// Max distance covered by a single RRT extension.
	MaxStep float64 `json:"max_step"`

	// Check segment validity every this much distance.
	Resolution float64 `json:"resolution"`

	// RRT stops once a tree node is within this distance of the goal.
	GoalTolerance float64 `json:"goal_tolerance"`

	// Seed for the RRT random source, used when Rand is nil.
	Seed int64 `json:"seed"`

	// Max number of nodes a planner may allocate. 0 lets storage grow without bound.
	NodeCapacity int `json:"node_capacity"`

	// Either "linear" or "rtree". The rtree index is exact only under the Euclidean metric.
	NeighborIndex string `json:"nearest_neighbor"`

	// Tree size above which the linear index scans in parallel.
	ParallelNeighbors int `json:"parallel_neighbors"`

	// Percentage interval of max iterations after which to print debug logs
	LoggingInterval float64 `json:"logging_interval"`

	// Fail with ErrConfigurationSpaceViolation on negative or NaN costs instead of clamping them to 0.
	StrictCosts bool `json:"strict_costs"`

	// Random source for sampling planners. Takes precedence over Seed. Every Plan call draws from
	// it and advances it, so repeated calls give different results, and since *rand.Rand is not
	// safe for concurrent use it must not be shared by plans that run at the same time. Leave it
	// nil to have each call start from a fresh source seeded with Seed.
	Rand *rand.Rand `json:"-"`
}

// NewBasicPlannerOptions specifies a set of basic options for the planners.
func NewBasicPlannerOptions() *PlannerOptions {
	return &PlannerOptions{
		HeuristicWeight:   defaultHeuristicWeight,
		PlanIter:          defaultPlanIter,
		GoalBias:          defaultGoalBias,
		MaxStep:           defaultMaxStep,
		Resolution:        defaultResolution,
		GoalTolerance:     defaultGoalTolerance,
		Seed:              defaultSeed,
		NeighborIndex:     LinearNeighborIndex,
		ParallelNeighbors: defaultParallelNeighbors,
		LoggingInterval:   defaultLoggingInterval,
	}
}

// NewPlannerOptionsFromMap decodes an attribute map keyed by the json field names on top of the
// defaults. Values are weakly typed, so "0.2" and 0.2 both decode into a float field.
func NewPlannerOptionsFromMap(attrs map[string]interface{}) (*PlannerOptions, error) {
	opt := NewBasicPlannerOptions()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           opt,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attrs); err != nil {
		return nil, errors.Wrap(err, "cannot decode planner options")
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	return opt, nil
}

// Validate returns every problem with the options at once.
func (p *PlannerOptions) Validate() error {
	var errs error
	if p.HeuristicWeight < 0 || math.IsNaN(p.HeuristicWeight) {
		errs = multierr.Append(errs, errors.Errorf("heuristic_weight must be non-negative, got %v", p.HeuristicWeight))
	}
	if p.MaxExpansions < 0 {
		errs = multierr.Append(errs, errors.Errorf("max_expansions must be non-negative, got %d", p.MaxExpansions))
	}
	if p.PlanIter < 0 {
		errs = multierr.Append(errs, errors.Errorf("plan_iter must be non-negative, got %d", p.PlanIter))
	}
	if !(p.GoalBias >= 0 && p.GoalBias <= 1) {
		errs = multierr.Append(errs, errors.Errorf("goal_bias must be in [0, 1], got %v", p.GoalBias))
	}
	if !(p.MaxStep > 0) {
		errs = multierr.Append(errs, errors.Errorf("max_step must be positive, got %v", p.MaxStep))
	}
	if !(p.Resolution > 0) {
		errs = multierr.Append(errs, errors.Errorf("resolution must be positive, got %v", p.Resolution))
	}
	if p.GoalTolerance < 0 || math.IsNaN(p.GoalTolerance) {
		errs = multierr.Append(errs, errors.Errorf("goal_tolerance must be non-negative, got %v", p.GoalTolerance))
	}
	if p.NodeCapacity < 0 {
		errs = multierr.Append(errs, errors.Errorf("node_capacity must be non-negative, got %d", p.NodeCapacity))
	}
	if p.NeighborIndex != LinearNeighborIndex && p.NeighborIndex != RTreeNeighborIndex {
		errs = multierr.Append(errs, errors.Errorf("nearest_neighbor must be %q or %q, got %q",
			LinearNeighborIndex, RTreeNeighborIndex, p.NeighborIndex))
	}
	if p.ParallelNeighbors < 0 {
		errs = multierr.Append(errs, errors.Errorf("parallel_neighbors must be non-negative, got %d", p.ParallelNeighbors))
	}
	if p.LoggingInterval < 0 || p.LoggingInterval > 1 {
		errs = multierr.Append(errs, errors.Errorf("logging_interval must be in [0, 1], got %v", p.LoggingInterval))
	}
	return errs
}

// rng returns the random source a sampling planner should draw from: Rand itself, or a new
// source seeded with Seed for each call.
func (p *PlannerOptions) rng() *rand.Rand {
	if p.Rand != nil {
		return p.Rand
	}
	//nolint:gosec
	return rand.New(rand.NewSource(p.Seed))
}

// logEvery converts LoggingInterval into a count of iterations out of total. 0 disables progress logs.
func (p *PlannerOptions) logEvery(total int) int {
	if p.LoggingInterval <= 0 || total <= 0 {
		return 0
	}
	return int(math.Max(1, math.Ceil(p.LoggingInterval*float64(total))))
}
