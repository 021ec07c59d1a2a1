package motionplan

import (
	"context"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/pkg/errors"

	"go.viam.com/robotalgo/spatialmath"
	"go.viam.com/robotalgo/utils"
)

const (
	// Padding given to points stored in the R-tree, which rejects zero-size rectangles.
	rtreePointTolerance = 1e-9

	// Number of R-tree candidates re-ranked by exact distance.
	rtreeCandidates = 8
)

// neighborIndex finds the closest tree node to a query configuration. Ties resolve to the node
// with the lowest index, so results do not depend on the index implementation.
type neighborIndex interface {
	add(idx int, q spatialmath.Configuration)
	nearest(ctx context.Context, q spatialmath.Configuration) (int, error)
	len() int
}

func newNeighborIndex(opts *PlannerOptions, space ContinuousSpace) (neighborIndex, error) {
	switch opts.NeighborIndex {
	case RTreeNeighborIndex:
		return newRTreeIndex(space.Dimensions()), nil
	case LinearNeighborIndex, "":
		return &linearIndex{metric: space.Distance, parallelNeighbors: opts.ParallelNeighbors}, nil
	default:
		return nil, errors.Errorf("unknown nearest neighbor index %q", opts.NeighborIndex)
	}
}

type neighbor struct {
	dist float64
	idx  int
}

func (n neighbor) closerThan(o neighbor) bool {
	if n.dist != o.dist {
		return n.dist < o.dist
	}
	return n.idx < o.idx
}

// linearIndex scans every node. It is exact under any metric.
type linearIndex struct {
	metric            Metric[spatialmath.Configuration]
	qs                []spatialmath.Configuration
	idxs              []int
	parallelNeighbors int
}

func (li *linearIndex) add(idx int, q spatialmath.Configuration) {
	li.qs = append(li.qs, q)
	li.idxs = append(li.idxs, idx)
}

func (li *linearIndex) len() int {
	return len(li.qs)
}

func (li *linearIndex) nearest(ctx context.Context, q spatialmath.Configuration) (int, error) {
	if len(li.qs) == 0 {
		return noParent, nil
	}
	if li.parallelNeighbors > 0 && len(li.qs) > li.parallelNeighbors {
		// If the tree is large, calculate distances in parallel
		return li.parallelNearest(ctx, q)
	}
	return li.scan(q, 0, len(li.qs)).idx, nil
}

func (li *linearIndex) scan(q spatialmath.Configuration, from, to int) neighbor {
	best := neighbor{dist: math.Inf(1), idx: noParent}
	for i := from; i < to; i++ {
		candidate := neighbor{dist: li.metric(q, li.qs[i]), idx: li.idxs[i]}
		if best.idx == noParent || candidate.closerThan(best) {
			best = candidate
		}
	}
	return best
}

func (li *linearIndex) parallelNearest(ctx context.Context, q spatialmath.Configuration) (int, error) {
	var groupBest []neighbor
	err := utils.GroupWorkParallel(
		ctx,
		len(li.qs),
		func(numGroups int) {
			groupBest = make([]neighbor, numGroups)
		},
		func(groupNum, _, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
			return nil, func() {
				groupBest[groupNum] = li.scan(q, from, to)
			}
		},
	)
	if err != nil {
		return noParent, err
	}
	best := groupBest[0]
	for _, candidate := range groupBest[1:] {
		if candidate.idx != noParent && (best.idx == noParent || candidate.closerThan(best)) {
			best = candidate
		}
	}
	return best.idx, nil
}

// rtreeIndex answers queries from an R-tree, re-ranking a handful of candidates by exact Euclidean
// distance. It is only correct for spaces whose metric is Euclidean.
type rtreeIndex struct {
	tree *rtreego.Rtree
	n    int
}

type rtreeEntry struct {
	q    spatialmath.Configuration
	idx  int
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *rtreeEntry) Bounds() rtreego.Rect {
	return e.rect
}

func newRTreeIndex(dims int) *rtreeIndex {
	return &rtreeIndex{tree: rtreego.NewTree(dims, 25, 50)}
}

func (ri *rtreeIndex) add(idx int, q spatialmath.Configuration) {
	ri.tree.Insert(&rtreeEntry{q: q, idx: idx, rect: rtreego.Point(q).ToRect(rtreePointTolerance)})
	ri.n++
}

func (ri *rtreeIndex) len() int {
	return ri.n
}

func (ri *rtreeIndex) nearest(ctx context.Context, q spatialmath.Configuration) (int, error) {
	if err := ctx.Err(); err != nil {
		return noParent, err
	}
	if ri.n == 0 {
		return noParent, nil
	}
	// When every candidate in a full batch ties the best distance, nodes with lower indices may
	// sit just outside it, so the batch is widened until a candidate falls behind.
	for k := rtreeCandidates; ; k *= 2 {
		best, tied := ri.rank(q, ri.tree.NearestNeighbors(k, rtreego.Point(q)))
		if tied < k || k >= ri.n {
			return best.idx, nil
		}
	}
}

// rank returns the closest of results and how many results share its distance.
func (ri *rtreeIndex) rank(q spatialmath.Configuration, results []rtreego.Spatial) (neighbor, int) {
	best := neighbor{dist: math.Inf(1), idx: noParent}
	tied := 0
	for _, s := range results {
		if s == nil {
			continue
		}
		entry := s.(*rtreeEntry)
		candidate := neighbor{dist: EuclideanMetric(q, entry.q), idx: entry.idx}
		switch {
		case best.idx == noParent || candidate.dist < best.dist:
			best, tied = candidate, 1
		case candidate.dist == best.dist:
			tied++
			if candidate.idx < best.idx {
				best = candidate
			}
		}
	}
	return best, tied
}
