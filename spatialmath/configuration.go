// Package spatialmath defines the points that planners route through: real-valued n-dimensional
// configurations for continuous spaces, integer cells for grids, and the obstacle geometries that
// make parts of a continuous space invalid.
package spatialmath

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Configuration is a point in a real-valued n-dimensional configuration space. Operations on two
// configurations of different dimensionality panic, matching gonum's floats package.
type Configuration []float64

// NewConfiguration returns a configuration holding a copy of values.
func NewConfiguration(values ...float64) Configuration {
	return append(Configuration{}, values...)
}

// Dims returns the dimensionality of the configuration.
func (c Configuration) Dims() int {
	return len(c)
}

// Clone returns a deep copy of the configuration.
func (c Configuration) Clone() Configuration {
	return append(Configuration{}, c...)
}

// Add returns c + o.
func (c Configuration) Add(o Configuration) Configuration {
	return floats.AddTo(make(Configuration, len(c)), c, o)
}

// Sub returns c - o.
func (c Configuration) Sub(o Configuration) Configuration {
	return floats.SubTo(make(Configuration, len(c)), c, o)
}

// Scale returns k * c.
func (c Configuration) Scale(k float64) Configuration {
	return floats.ScaleTo(make(Configuration, len(c)), k, c)
}

// Norm returns the Euclidean norm of the configuration.
func (c Configuration) Norm() float64 {
	return floats.Norm(c, 2)
}

// Distance returns the Euclidean distance between c and o.
func (c Configuration) Distance(o Configuration) float64 {
	return floats.Distance(c, o, 2)
}

// Lerp returns the point a fraction t of the way from c to o.
func (c Configuration) Lerp(o Configuration, t float64) Configuration {
	out := c.Clone()
	for i := range out {
		out[i] += t * (o[i] - c[i])
	}
	return out
}

// Equal reports whether c and o have the same dimensionality and identical coordinates.
func (c Configuration) Equal(o Configuration) bool {
	return len(c) == len(o) && floats.Equal(c, o)
}

// AlmostEqual reports whether every coordinate of c and o is within epsilon.
func (c Configuration) AlmostEqual(o Configuration, epsilon float64) bool {
	return len(c) == len(o) && floats.EqualApprox(c, o, epsilon)
}

// Key returns an exact string encoding of the configuration, usable as a map key.
func (c Configuration) Key() string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (c Configuration) String() string {
	return fmt.Sprintf("%v", []float64(c))
}
