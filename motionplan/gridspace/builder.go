package gridspace

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/robotalgo/spatialmath"
)

// Builder accumulates cell changes for a Grid. Errors from individual calls are collected and
// returned together by Build.
type Builder struct {
	width, height int
	weights       []float64
	opts          Options
	errs          error
}

// NewBuilder returns a builder for a width×height grid with every cell free at weight 1.
func NewBuilder(width, height int, opts Options) *Builder {
	b := &Builder{width: width, height: height, opts: opts}
	if width <= 0 || height <= 0 {
		b.errs = errors.Wrapf(ErrEmptyGrid, "got %dx%d", width, height)
		return b
	}
	b.weights = make([]float64, width*height)
	for i := range b.weights {
		b.weights[i] = 1
	}
	return b
}

// Block marks c as impassable.
func (b *Builder) Block(c spatialmath.Cell) *Builder {
	if b.check(c) {
		b.weights[c.Y*b.width+c.X] = blocked
	}
	return b
}

// BlockRect blocks every cell with lo.X <= X <= hi.X and lo.Y <= Y <= hi.Y.
func (b *Builder) BlockRect(lo, hi spatialmath.Cell) *Builder {
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			b.Block(spatialmath.Cell{X: x, Y: y})
		}
	}
	return b
}

// SetWeight makes c free with the given traversal weight.
func (b *Builder) SetWeight(c spatialmath.Cell, weight float64) *Builder {
	if weight < 1 || math.IsInf(weight, 0) || math.IsNaN(weight) {
		b.errs = multierr.Append(b.errs, errors.Wrapf(ErrInvalidWeight, "%v at %v", weight, c))
		return b
	}
	if b.check(c) {
		b.weights[c.Y*b.width+c.X] = weight
	}
	return b
}

// Build returns the finished grid, or every error recorded while building it.
func (b *Builder) Build() (*Grid, error) {
	if b.errs != nil {
		return nil, b.errs
	}
	g := &Grid{
		width:     b.width,
		height:    b.height,
		weights:   append([]float64{}, b.weights...),
		minWeight: math.Inf(1),
		opts:      b.opts,
		offsets:   orthogonalOffsets,
	}
	if b.opts.Connectivity == Conn8 {
		g.offsets = append(append([][2]int{}, orthogonalOffsets...), diagonalOffsets...)
	}
	for _, w := range g.weights {
		if w != blocked {
			g.minWeight = math.Min(g.minWeight, w)
		}
	}
	if math.IsInf(g.minWeight, 1) {
		g.minWeight = 1
	}
	return g, nil
}

func (b *Builder) check(c spatialmath.Cell) bool {
	if b.weights == nil {
		return false
	}
	if c.X < 0 || c.X >= b.width || c.Y < 0 || c.Y >= b.height {
		b.errs = multierr.Append(b.errs, errors.Wrapf(ErrOutOfBounds, "%v in %dx%d grid", c, b.width, b.height))
		return false
	}
	return true
}
