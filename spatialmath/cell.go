package spatialmath

import "fmt"

// Cell is the integer coordinate of a grid square. X is the column and Y is the row.
type Cell struct {
	X, Y int
}

// Offset returns the cell displaced by (dx, dy).
func (c Cell) Offset(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Less orders cells row-major, which is the order grid spaces enumerate them in.
func (c Cell) Less(o Cell) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

// Center returns the configuration at the middle of the cell, with unit-sized cells.
func (c Cell) Center() Configuration {
	return Configuration{float64(c.X) + 0.5, float64(c.Y) + 0.5}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}
