// Package graphspace implements a discrete configuration space over an explicit weighted graph.
package graphspace

import (
	"github.com/pkg/errors"

	"go.viam.com/robotalgo/motionplan"
)

// ErrUnknownVertex indicates an operation on a vertex that was never added.
var ErrUnknownVertex = errors.New("graphspace: unknown vertex")

// Graph is a directed weighted graph whose vertices are points of type P. Neighbors are returned
// in edge insertion order. A Graph is not safe for concurrent mutation, but once built it may be
// planned over concurrently.
type Graph[P comparable] struct {
	adjacency map[P][]motionplan.Transition[P]
	blocked   map[P]bool
	vertices  []P
}

// New returns an empty graph.
func New[P comparable]() *Graph[P] {
	return &Graph[P]{
		adjacency: map[P][]motionplan.Transition[P]{},
		blocked:   map[P]bool{},
	}
}

// AddVertex adds p if it is not already present.
func (g *Graph[P]) AddVertex(p P) {
	if _, ok := g.adjacency[p]; ok {
		return
	}
	g.adjacency[p] = nil
	g.vertices = append(g.vertices, p)
}

// AddEdge adds a directed edge, adding either endpoint as needed. Costs are stored as given;
// planners decide how to treat negative ones.
func (g *Graph[P]) AddEdge(from, to P, cost float64) {
	g.AddVertex(from)
	g.AddVertex(to)
	g.adjacency[from] = append(g.adjacency[from], motionplan.Transition[P]{To: to, Cost: cost})
}

// AddUndirectedEdge adds an edge in each direction.
func (g *Graph[P]) AddUndirectedEdge(a, b P, cost float64) {
	g.AddEdge(a, b, cost)
	g.AddEdge(b, a, cost)
}

// SetBlocked marks p as invalid or valid again without touching its edges.
func (g *Graph[P]) SetBlocked(p P, blocked bool) error {
	if _, ok := g.adjacency[p]; !ok {
		return errors.Wrapf(ErrUnknownVertex, "%v", p)
	}
	if blocked {
		g.blocked[p] = true
	} else {
		delete(g.blocked, p)
	}
	return nil
}

// Vertices returns every vertex in insertion order.
func (g *Graph[P]) Vertices() []P {
	return append([]P{}, g.vertices...)
}

// IsValid reports whether p is a vertex that is not blocked.
func (g *Graph[P]) IsValid(p P) bool {
	_, ok := g.adjacency[p]
	return ok && !g.blocked[p]
}

// Neighbors returns the edges out of p in insertion order.
func (g *Graph[P]) Neighbors(p P) []motionplan.Transition[P] {
	return append([]motionplan.Transition[P]{}, g.adjacency[p]...)
}

// Reach returns the cheapest direct edge from one vertex to another.
func (g *Graph[P]) Reach(from, to P) (float64, bool) {
	if !g.IsValid(from) || !g.IsValid(to) {
		return 0, false
	}
	best, found := 0., false
	for _, t := range g.adjacency[from] {
		if t.To == to && (!found || t.Cost < best) {
			best, found = t.Cost, true
		}
	}
	return best, found
}
