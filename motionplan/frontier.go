package motionplan

import (
	"container/heap"
)

// Frontier is a min-priority queue of points with decrease-key semantics. Decreasing a key pushes
// a fresh heap entry and leaves the old one behind; Pop skips entries that have been superseded.
// Points with equal priority pop in the order they were pushed.
//
// A point that has been popped is final: later pushes for it are rejected.
type Frontier[P comparable] struct {
	entries frontierHeap[P]
	best    map[P]frontierState
	seq     uint64
	live    int
}

type frontierState struct {
	priority float64
	seq      uint64
	popped   bool
}

type frontierEntry[P any] struct {
	point    P
	priority float64
	seq      uint64
}

// NewFrontier returns an empty frontier.
func NewFrontier[P comparable]() *Frontier[P] {
	return &Frontier[P]{best: map[P]frontierState{}}
}

// Push offers p at the given priority. It returns true if the offer was recorded, which happens
// when p has never been pushed or when priority is strictly lower than p's best known priority
// and p has not been popped yet.
func (f *Frontier[P]) Push(p P, priority float64) bool {
	state, seen := f.best[p]
	if seen && (state.popped || priority >= state.priority) {
		return false
	}
	f.seq++
	f.best[p] = frontierState{priority: priority, seq: f.seq}
	heap.Push(&f.entries, frontierEntry[P]{point: p, priority: priority, seq: f.seq})
	if !seen {
		f.live++
	}
	return true
}

// Pop removes and returns the point with the lowest priority. ok is false when the frontier is empty.
func (f *Frontier[P]) Pop() (p P, priority float64, ok bool) {
	for f.entries.Len() > 0 {
		entry := heap.Pop(&f.entries).(frontierEntry[P])
		state := f.best[entry.point]
		if state.popped || state.seq != entry.seq {
			// superseded
			continue
		}
		state.popped = true
		f.best[entry.point] = state
		f.live--
		return entry.point, entry.priority, true
	}
	return p, 0, false
}

// Len returns the number of points waiting to be popped, not counting superseded entries.
func (f *Frontier[P]) Len() int {
	return f.live
}

// Best returns the lowest priority p has been pushed with, whether or not it has been popped.
func (f *Frontier[P]) Best(p P) (float64, bool) {
	state, ok := f.best[p]
	return state.priority, ok
}

// Popped reports whether p has already been removed from the frontier.
func (f *Frontier[P]) Popped(p P) bool {
	return f.best[p].popped
}

type frontierHeap[P any] []frontierEntry[P]

func (h frontierHeap[P]) Len() int { return len(h) }

func (h frontierHeap[P]) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h frontierHeap[P]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *frontierHeap[P]) Push(x any) {
	*h = append(*h, x.(frontierEntry[P]))
}

func (h *frontierHeap[P]) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}
