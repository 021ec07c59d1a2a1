// Package gridspace implements a discrete configuration space over a rectangular grid of cells.
// Each cell is either blocked or free with a traversal weight of at least 1. Moving into a cell
// costs the step length (1 orthogonally, sqrt(2) diagonally) times the weight of the cell entered.
//
// Cells are addressed by spatialmath.Cell with X as the column and Y as the row, so north is -Y.
// A Grid never changes after it is built and may be shared by concurrent planners.
package gridspace

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	"go.viam.com/robotalgo/motionplan"
	"go.viam.com/robotalgo/spatialmath"
	"go.viam.com/robotalgo/utils"
)

var (
	// ErrEmptyGrid indicates a grid with no rows or no columns.
	ErrEmptyGrid = errors.New("gridspace: grid must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("gridspace: all rows must have the same length")
	// ErrOutOfBounds indicates a cell outside the grid.
	ErrOutOfBounds = errors.New("gridspace: cell out of bounds")
	// ErrInvalidWeight indicates a traversal weight below 1 or not finite.
	ErrInvalidWeight = errors.New("gridspace: cell weight must be finite and at least 1")
)

// Connectivity selects neighbor connectivity: orthogonal (Conn4) or including diagonals (Conn8).
type Connectivity int

const (
	// Conn4 moves N, E, S, W.
	Conn4 Connectivity = iota
	// Conn8 moves N, E, S, W, then NE, SE, SW, NW.
	Conn8
)

func (c Connectivity) String() string {
	if c == Conn8 {
		return "conn8"
	}
	return "conn4"
}

var (
	orthogonalOffsets = [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	diagonalOffsets   = [][2]int{{1, -1}, {1, 1}, {-1, 1}, {-1, -1}}
)

// Options contains tunable parameters for grid motion.
type Options struct {
	Connectivity Connectivity
	// AllowCornerCutting lets diagonal moves squeeze between two blocked orthogonal neighbors.
	AllowCornerCutting bool
}

// DefaultOptions returns 4-connected options.
func DefaultOptions() Options {
	return Options{Connectivity: Conn4}
}

// blocked is the weight stored for cells that cannot be entered.
const blocked = 0

// Grid is a weighted occupancy grid.
type Grid struct {
	width, height int
	// weights[y*width+x] holds each cell's weight, or blocked.
	weights   []float64
	minWeight float64
	opts      Options
	offsets   [][2]int
}

// New returns a width×height grid with every cell free at weight 1.
func New(width, height int, opts Options) (*Grid, error) {
	return NewBuilder(width, height, opts).Build()
}

// FromStrings parses one string per row: '#' is blocked, '.' is free at weight 1, and a digit
// '1' through '9' is free at that weight.
func FromStrings(rows []string, opts Options) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	b := NewBuilder(len(rows[0]), len(rows), opts)
	for y, row := range rows {
		if len(row) != b.width {
			return nil, errors.Wrapf(ErrNonRectangular, "row %d has length %d, want %d", y, len(row), b.width)
		}
		for x, r := range row {
			c := spatialmath.Cell{X: x, Y: y}
			switch {
			case r == '#':
				b.Block(c)
			case r == '.':
			case r >= '1' && r <= '9':
				b.SetWeight(c, float64(r-'0'))
			default:
				return nil, errors.Errorf("gridspace: unknown cell %q at %v", r, c)
			}
		}
	}
	return b.Build()
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// Options returns the options the grid was built with.
func (g *Grid) Options() Options {
	return g.opts
}

// InBounds reports whether c lies within the grid.
func (g *Grid) InBounds(c spatialmath.Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// Weight returns the traversal weight of c. ok is false if c is blocked or out of bounds.
func (g *Grid) Weight(c spatialmath.Cell) (weight float64, ok bool) {
	if !g.InBounds(c) {
		return 0, false
	}
	w := g.weights[g.index(c)]
	return w, w != blocked
}

// IsValid reports whether c is an in-bounds free cell.
func (g *Grid) IsValid(c spatialmath.Cell) bool {
	_, ok := g.Weight(c)
	return ok
}

// Neighbors returns the moves out of c in N, E, S, W order, followed for Conn8 by NE, SE, SW, NW.
// Blocked and out-of-bounds cells are omitted.
func (g *Grid) Neighbors(c spatialmath.Cell) []motionplan.Transition[spatialmath.Cell] {
	out := make([]motionplan.Transition[spatialmath.Cell], 0, len(g.offsets))
	for i, d := range g.offsets {
		next := c.Offset(d[0], d[1])
		w, ok := g.Weight(next)
		if !ok {
			continue
		}
		step := 1.
		if i >= len(orthogonalOffsets) {
			if !g.opts.AllowCornerCutting && (!g.IsValid(c.Offset(d[0], 0)) || !g.IsValid(c.Offset(0, d[1]))) {
				continue
			}
			step = math.Sqrt2
		}
		out = append(out, motionplan.Transition[spatialmath.Cell]{To: next, Cost: step * w})
	}
	return out
}

// Heuristic returns an admissible and consistent cost-to-go for the grid's connectivity: the
// Manhattan distance for Conn4 or the octile distance for Conn8, scaled by the smallest weight.
func (g *Grid) Heuristic() motionplan.Heuristic[spatialmath.Cell] {
	base := motionplan.Metric[spatialmath.Cell](motionplan.CellManhattan)
	if g.opts.Connectivity == Conn8 {
		base = motionplan.CellOctile
	}
	return motionplan.ScaleMetric(base, g.minWeight).AsHeuristic()
}

// Reach connects two cells directly when the straight line between their centers crosses only
// free cells. A line passing exactly through a cell corner also needs both cells beside that
// corner free, unless corner cutting is allowed. The cost is the line length times the largest
// weight among the cells entered.
func (g *Grid) Reach(from, to spatialmath.Cell) (float64, bool) {
	if !g.IsValid(from) || !g.IsValid(to) {
		return 0, false
	}
	maxWeight := 0.
	ok := walkSupercover(from, to, func(c spatialmath.Cell, corner bool) bool {
		if corner && g.opts.AllowCornerCutting {
			return true
		}
		w, free := g.Weight(c)
		if !free {
			return false
		}
		if !corner && c != from {
			maxWeight = math.Max(maxWeight, w)
		}
		return true
	})
	if !ok {
		return 0, false
	}
	return motionplan.CellEuclidean(from, to) * maxWeight, true
}

// String renders the grid in the format FromStrings reads.
func (g *Grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < g.width; x++ {
			switch w := g.weights[y*g.width+x]; {
			case w == blocked:
				sb.WriteByte('#')
			case w == 1:
				sb.WriteByte('.')
			case w == math.Trunc(w) && w <= 9:
				sb.WriteByte(byte('0' + int(w)))
			default:
				sb.WriteByte('?')
			}
		}
	}
	return sb.String()
}

func (g *Grid) index(c spatialmath.Cell) int {
	return c.Y*g.width + c.X
}

// walkSupercover visits every cell the segment between the centers of a and b passes through, in
// order from a. Where the segment passes exactly through a corner the two cells beside the corner
// are visited with corner set. Visiting stops early, returning false, when visit returns false.
func walkSupercover(a, b spatialmath.Cell, visit func(c spatialmath.Cell, corner bool) bool) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	nx, ny := utils.AbsInt(dx), utils.AbsInt(dy)
	sx, sy := signInt(dx), signInt(dy)

	p := a
	if !visit(p, false) {
		return false
	}
	for ix, iy := 0, 0; ix < nx || iy < ny; {
		switch decision := (1+2*ix)*ny - (1+2*iy)*nx; {
		case decision == 0:
			if !visit(p.Offset(sx, 0), true) || !visit(p.Offset(0, sy), true) {
				return false
			}
			p = p.Offset(sx, sy)
			ix++
			iy++
		case decision < 0:
			p = p.Offset(sx, 0)
			ix++
		default:
			p = p.Offset(0, sy)
			iy++
		}
		if !visit(p, false) {
			return false
		}
	}
	return true
}

func signInt(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
