package motionplan

import (
	"github.com/samber/lo"
)

// noParent marks the root of a search tree.
const noParent = -1

// searchNode wraps a point for planning purposes. Nodes refer to their predecessor by index into
// the arena that owns them.
type searchNode[P any] struct {
	q      P
	cost   float64
	parent int
}

// nodeArena is append-only node storage. With a non-zero capacity it refuses to grow past it.
type nodeArena[P any] struct {
	nodes    []searchNode[P]
	capacity int
}

func newNodeArena[P any](capacity int) *nodeArena[P] {
	a := &nodeArena[P]{capacity: capacity}
	if capacity > 0 {
		a.nodes = make([]searchNode[P], 0, capacity)
	}
	return a
}

// add stores a node and returns its index.
func (a *nodeArena[P]) add(q P, cost float64, parent int) (int, error) {
	if a.capacity > 0 && len(a.nodes) >= a.capacity {
		return noParent, ErrCapacityExceeded
	}
	a.nodes = append(a.nodes, searchNode[P]{q: q, cost: cost, parent: parent})
	return len(a.nodes) - 1, nil
}

func (a *nodeArena[P]) get(i int) *searchNode[P] {
	return &a.nodes[i]
}

func (a *nodeArena[P]) len() int {
	return len(a.nodes)
}

// extractPath follows parent indices from i back to the root and returns the points root first.
func (a *nodeArena[P]) extractPath(i int) []P {
	path := make([]P, 0)
	for i != noParent {
		n := a.nodes[i]
		path = append(path, n.q)
		i = n.parent
	}
	return lo.Reverse(path)
}
