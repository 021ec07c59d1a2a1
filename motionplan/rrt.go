package motionplan

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/robotalgo/logging"
	"go.viam.com/robotalgo/spatialmath"
)

// TreeNode is one vertex of the exploration tree. Parent indexes into the same tree and is -1 for
// the root.
type TreeNode struct {
	Q      spatialmath.Configuration
	Parent int
}

// TreeResult is the outcome of a successful sampling plan.
type TreeResult struct {
	// Path runs from start to goal inclusive. Its last point is the goal itself when the final
	// segment to the goal is valid, otherwise the tree node that came within tolerance.
	Path Path[spatialmath.Configuration]
	// Tree is the full exploration tree at termination.
	Tree []TreeNode
	// Iterations is the number of sampling iterations used.
	Iterations int
}

// RRTPlanner grows a rapidly-exploring random tree from the start until it comes within
// GoalTolerance of the goal. Given the same options, seed, and space, it returns identical results.
type RRTPlanner struct {
	space  ContinuousSpace
	opts   *PlannerOptions
	logger logging.Logger
}

// NewRRTPlanner returns a sampling planner over space. nil opts use NewBasicPlannerOptions and
// a nil logger uses the global logger.
func NewRRTPlanner(space ContinuousSpace, opts *PlannerOptions, logger logging.Logger) (*RRTPlanner, error) {
	if space == nil {
		return nil, errors.New("rrt planner requires a configuration space")
	}
	if opts == nil {
		opts = NewBasicPlannerOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Global().Sublogger("rrt")
	}
	return &RRTPlanner{space: space, opts: opts, logger: logger}, nil
}

// Plan searches for a path from start to goal. Failing within PlanIter iterations returns
// ErrBudgetExhausted, which does not mean that no path exists.
func (rp *RRTPlanner) Plan(ctx context.Context, start, goal spatialmath.Configuration) (*TreeResult, error) {
	if err := rp.checkEndpoint("start", start); err != nil {
		return nil, err
	}
	if err := rp.checkEndpoint("goal", goal); err != nil {
		return nil, err
	}

	arena := newNodeArena[spatialmath.Configuration](rp.opts.NodeCapacity)
	nn, err := newNeighborIndex(rp.opts, rp.space)
	if err != nil {
		return nil, err
	}
	root, err := arena.add(start.Clone(), 0, noParent)
	if err != nil {
		return nil, err
	}
	nn.add(root, arena.get(root).q)
	if rp.space.Distance(start, goal) <= rp.opts.GoalTolerance {
		return rp.finish(arena, root, goal, 0), nil
	}

	rng := rp.opts.rng()
	logEvery := rp.opts.logEvery(rp.opts.PlanIter)
	rp.logger.CDebugf(ctx, "rrt planning from %v to %v with %d iterations", start, goal, rp.opts.PlanIter)

	for iter := 1; iter <= rp.opts.PlanIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if logEvery > 0 && iter%logEvery == 0 {
			rp.logger.CDebugf(ctx, "rrt iteration %d of %d, tree holds %d nodes", iter, rp.opts.PlanIter, arena.len())
		}

		var target spatialmath.Configuration
		if rng.Float64() < rp.opts.GoalBias {
			target = goal
		} else {
			target = rp.space.Sample(rng)
		}

		nearIdx, err := nn.nearest(ctx, target)
		if err != nil {
			return nil, err
		}
		near := arena.get(nearIdx)
		q, err := rp.space.Steer(near.q, target, rp.opts.MaxStep, rp.opts.Resolution)
		if err != nil {
			if errors.Is(err, ErrNoProgress) {
				continue
			}
			return nil, err
		}
		step := rp.space.Distance(near.q, q)
		if !(step > 0) || !rp.space.IsValidSegment(near.q, q, rp.opts.Resolution) {
			continue
		}

		idx, err := arena.add(q, near.cost+step, nearIdx)
		if err != nil {
			return nil, errors.Wrapf(err, "after %d iterations", iter)
		}
		nn.add(idx, q)

		if rp.space.Distance(q, goal) <= rp.opts.GoalTolerance {
			rp.logger.CDebugf(ctx, "rrt reached the goal after %d iterations with %d nodes", iter, arena.len())
			return rp.finish(arena, idx, goal, iter), nil
		}
	}
	rp.logger.CDebugf(ctx, "rrt failed to reach the goal, tree holds %d nodes", arena.len())
	return nil, newBudgetExhaustedError("iterations", rp.opts.PlanIter)
}

func (rp *RRTPlanner) checkEndpoint(which string, q spatialmath.Configuration) error {
	if len(q) != rp.space.Dimensions() || !rp.space.IsValid(q) {
		return newInvalidEndpointError(which, q)
	}
	return nil
}

// finish connects the tree node at reached to the exact goal when that final segment is valid and
// capacity allows, then assembles the result.
func (rp *RRTPlanner) finish(
	arena *nodeArena[spatialmath.Configuration],
	reached int,
	goal spatialmath.Configuration,
	iterations int,
) *TreeResult {
	last := arena.get(reached)
	end := reached
	if !last.q.Equal(goal) && rp.space.IsValidSegment(last.q, goal, rp.opts.Resolution) {
		if idx, err := arena.add(goal.Clone(), last.cost+rp.space.Distance(last.q, goal), reached); err == nil {
			end = idx
		}
	}
	return &TreeResult{
		Path: arena.extractPath(end),
		Tree: lo.Map(arena.nodes, func(n searchNode[spatialmath.Configuration], _ int) TreeNode {
			return TreeNode{Q: n.q, Parent: n.parent}
		}),
		Iterations: iterations,
	}
}
