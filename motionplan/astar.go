package motionplan

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"go.viam.com/robotalgo/logging"
)

// GraphResult is the outcome of a successful graph search.
type GraphResult[P any] struct {
	// Path runs from start to goal inclusive.
	Path Path[P]
	// Cost is the sum of the (sanitized) transition costs along Path.
	Cost float64
	// Expanded is the number of points whose neighbors were enumerated.
	Expanded int
}

// GraphPlanner is a best-first A* search over a discrete space. With a zero heuristic it is
// Dijkstra's algorithm. The returned path is optimal when the heuristic is consistent and
// HeuristicWeight is at most 1.
type GraphPlanner[P comparable] struct {
	space     DiscreteSpace[P]
	heuristic Heuristic[P]
	opts      *PlannerOptions
	logger    logging.Logger
}

// NewGraphPlanner returns a graph planner over space. A nil heuristic searches uninformed, nil
// opts use NewBasicPlannerOptions, and a nil logger uses the global logger.
func NewGraphPlanner[P comparable](
	space DiscreteSpace[P],
	heuristic Heuristic[P],
	opts *PlannerOptions,
	logger logging.Logger,
) (*GraphPlanner[P], error) {
	if space == nil {
		return nil, errors.New("graph planner requires a configuration space")
	}
	if opts == nil {
		opts = NewBasicPlannerOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if heuristic == nil {
		heuristic = ZeroMetric[P]().AsHeuristic()
	}
	if logger == nil {
		logger = logging.Global().Sublogger("astar")
	}
	return &GraphPlanner[P]{space: space, heuristic: heuristic, opts: opts, logger: logger}, nil
}

// Plan searches for the cheapest path from start to goal.
func (gp *GraphPlanner[P]) Plan(ctx context.Context, start, goal P) (*GraphResult[P], error) {
	if !gp.space.IsValid(start) {
		return nil, newInvalidEndpointError("start", start)
	}
	if !gp.space.IsValid(goal) {
		return nil, newInvalidEndpointError("goal", goal)
	}
	if start == goal {
		return &GraphResult[P]{Path: Path[P]{start}}, nil
	}

	arena := newNodeArena[P](gp.opts.NodeCapacity)
	startIdx, err := arena.add(start, 0, noParent)
	if err != nil {
		return nil, err
	}
	index := map[P]int{start: startIdx}
	frontier := NewFrontier[P]()
	frontier.Push(start, gp.priority(0, start, goal))

	gp.logger.CDebugf(ctx, "A* search from %v to %v", start, goal)
	logEvery := gp.opts.logEvery(gp.opts.MaxExpansions)
	expanded := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, _, ok := frontier.Pop()
		if !ok {
			gp.logger.CDebugf(ctx, "A* exhausted the frontier after %d expansions", expanded)
			return nil, errors.Wrapf(ErrNoPathExists, "after %d expansions", expanded)
		}
		current := index[p]
		if p == goal {
			n := arena.get(current)
			gp.logger.CDebugf(ctx, "A* found a path of cost %v after %d expansions", n.cost, expanded)
			return &GraphResult[P]{Path: arena.extractPath(current), Cost: n.cost, Expanded: expanded}, nil
		}
		if gp.opts.MaxExpansions > 0 && expanded >= gp.opts.MaxExpansions {
			return nil, newBudgetExhaustedError("expansions", expanded)
		}
		expanded++
		if logEvery > 0 && expanded%logEvery == 0 {
			gp.logger.CDebugf(ctx, "A* expanded %d of %d, frontier holds %d", expanded, gp.opts.MaxExpansions, frontier.Len())
		}

		g := arena.get(current).cost
		for _, t := range gp.space.Neighbors(p) {
			if frontier.Popped(t.To) || !gp.space.IsValid(t.To) {
				continue
			}
			cost, err := gp.sanitizeCost(ctx, p, t)
			if err != nil {
				return nil, err
			}
			tentative := g + cost
			if j, seen := index[t.To]; seen {
				n := arena.get(j)
				if tentative >= n.cost {
					continue
				}
				// Not yet popped, so it has no children that depend on the old cost.
				n.cost = tentative
				n.parent = current
			} else {
				j, err := arena.add(t.To, tentative, current)
				if err != nil {
					return nil, errors.Wrapf(err, "after %d expansions", expanded)
				}
				index[t.To] = j
			}
			frontier.Push(t.To, gp.priority(tentative, t.To, goal))
		}
	}
}

func (gp *GraphPlanner[P]) priority(g float64, p, goal P) float64 {
	h := gp.heuristic(p, goal)
	if h < 0 || math.IsNaN(h) {
		h = 0
	}
	return g + gp.opts.HeuristicWeight*h
}

// sanitizeCost clamps negative or NaN costs to 0, or rejects them when StrictCosts is set.
func (gp *GraphPlanner[P]) sanitizeCost(ctx context.Context, from P, t Transition[P]) (float64, error) {
	if t.Cost >= 0 {
		return t.Cost, nil
	}
	if gp.opts.StrictCosts {
		return 0, errors.Wrapf(ErrConfigurationSpaceViolation, "transition %v -> %v has cost %v", from, t.To, t.Cost)
	}
	gp.logger.CDebugw(ctx, "clamping invalid transition cost to 0", "from", from, "to", t.To, "cost", t.Cost)
	return 0, nil
}
