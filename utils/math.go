// Package utils contains small numeric and concurrency helpers shared across robotalgo.
package utils

import (
	"math"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// WrapTwoPi maps an angle in radians onto [0, 2π).
func WrapTwoPi(angle float64) float64 {
	val := math.Mod(angle, 2*math.Pi)
	if val < 0 {
		val += 2 * math.Pi
	}
	// math.Mod can return exactly 2π after the correction for tiny negative inputs.
	if val >= 2*math.Pi {
		val = 0
	}
	return val
}

// WrapPi maps an angle in radians onto [-π, π).
func WrapPi(angle float64) float64 {
	return WrapTwoPi(angle+math.Pi) - math.Pi
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// Clamp returns value limited to [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, value))
}

// Square is faster than math.Pow(n, 2).
func Square(n float64) float64 {
	return n * n
}

// MaxInt returns the larger of two ints.
func MaxInt(a, b int) int {
	if a < b {
		return b
	}
	return a
}

// MinInt returns the smaller of two ints.
func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// AbsInt returns the absolute value of an int.
func AbsInt(n int) int {
	if n < 0 {
		return -1 * n
	}
	return n
}
