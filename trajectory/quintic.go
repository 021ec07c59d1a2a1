// Package trajectory generates smooth planar trajectories between kinematic states.
package trajectory

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidDuration is returned for a duration that is not positive and finite.
	ErrInvalidDuration = errors.New("trajectory: duration must be positive and finite")
	// ErrInvalidTimeStep is returned when a duration search is given an empty or inverted range.
	ErrInvalidTimeStep = errors.New("trajectory: invalid time step or search range")
	// ErrOutOfRange is returned when a trajectory is evaluated outside [0, duration].
	ErrOutOfRange = errors.New("trajectory: time out of range")
	// ErrNoValidTrajectory is returned when no duration in the search range passes the validator.
	ErrNoValidTrajectory = errors.New("trajectory: no valid trajectory in range")
)

// State is a planar position with its first two derivatives.
type State struct {
	Position     r2.Point
	Velocity     r2.Point
	Acceleration r2.Point
}

// boundaryMatrix relates the three highest coefficients, in time normalized by the duration,
// to the position, velocity, and acceleration they must add at the end of the trajectory.
var boundaryMatrix = mat.NewDense(3, 3, []float64{
	1, 1, 1,
	3, 4, 5,
	6, 12, 20,
})

// Quintic is a fifth order polynomial trajectory in x and y meeting a start and end State.
// It is immutable and safe for concurrent use.
type Quintic struct {
	cx, cy   [6]float64
	duration float64
}

// NewQuintic returns the quintic trajectory taking duration to move from start to end.
func NewQuintic(start, end State, duration float64) (*Quintic, error) {
	if !(duration > 0) || math.IsInf(duration, 1) {
		return nil, errors.Wrapf(ErrInvalidDuration, "got %v", duration)
	}
	t := duration
	// One column per axis.
	rhs := mat.NewDense(3, 2, []float64{
		end.Position.X - start.Position.X - start.Velocity.X*t - 0.5*start.Acceleration.X*t*t,
		end.Position.Y - start.Position.Y - start.Velocity.Y*t - 0.5*start.Acceleration.Y*t*t,
		(end.Velocity.X - start.Velocity.X - start.Acceleration.X*t) * t,
		(end.Velocity.Y - start.Velocity.Y - start.Acceleration.Y*t) * t,
		(end.Acceleration.X - start.Acceleration.X) * t * t,
		(end.Acceleration.Y - start.Acceleration.Y) * t * t,
	})
	var high mat.Dense
	if err := high.Solve(boundaryMatrix, rhs); err != nil {
		return nil, errors.Wrap(err, "trajectory: cannot solve boundary conditions")
	}

	q := &Quintic{duration: duration}
	q.cx[0], q.cx[1], q.cx[2] = start.Position.X, start.Velocity.X, 0.5*start.Acceleration.X
	q.cy[0], q.cy[1], q.cy[2] = start.Position.Y, start.Velocity.Y, 0.5*start.Acceleration.Y
	scale := t * t * t
	for k := 0; k < 3; k++ {
		q.cx[k+3] = high.At(k, 0) / scale
		q.cy[k+3] = high.At(k, 1) / scale
		scale *= t
	}
	return q, nil
}

// Duration returns the time the trajectory takes.
func (q *Quintic) Duration() float64 {
	return q.duration
}

// Coefficients returns the polynomial coefficients for x and y, lowest order first.
func (q *Quintic) Coefficients() (cx, cy [6]float64) {
	return q.cx, q.cy
}

// Position returns the position at time t. t is not range checked.
func (q *Quintic) Position(t float64) r2.Point {
	return r2.Point{X: horner(q.cx[:], t), Y: horner(q.cy[:], t)}
}

// Velocity returns the velocity at time t.
func (q *Quintic) Velocity(t float64) r2.Point {
	return r2.Point{X: horner(derive(q.cx[:], 1), t), Y: horner(derive(q.cy[:], 1), t)}
}

// Acceleration returns the acceleration at time t.
func (q *Quintic) Acceleration(t float64) r2.Point {
	return r2.Point{X: horner(derive(q.cx[:], 2), t), Y: horner(derive(q.cy[:], 2), t)}
}

// Jerk returns the jerk at time t.
func (q *Quintic) Jerk(t float64) r2.Point {
	return r2.Point{X: horner(derive(q.cx[:], 3), t), Y: horner(derive(q.cy[:], 3), t)}
}

// Evaluate returns the position at time t, or ErrOutOfRange outside [0, Duration()].
func (q *Quintic) Evaluate(t float64) (r2.Point, error) {
	if !(t >= 0 && t <= q.duration) {
		return r2.Point{}, errors.Wrapf(ErrOutOfRange, "%v not in [0, %v]", t, q.duration)
	}
	return q.Position(t), nil
}

// StateAt returns the full state at time t, or ErrOutOfRange outside [0, Duration()].
func (q *Quintic) StateAt(t float64) (State, error) {
	pos, err := q.Evaluate(t)
	if err != nil {
		return State{}, err
	}
	return State{Position: pos, Velocity: q.Velocity(t), Acceleration: q.Acceleration(t)}, nil
}

// Sample returns the states at every multiple of dt in [0, Duration()], always including the
// final state.
func (q *Quintic) Sample(dt float64) ([]State, error) {
	if !(dt > 0) {
		return nil, errors.Wrapf(ErrInvalidTimeStep, "sample step %v", dt)
	}
	n := int(math.Ceil(q.duration / dt))
	out := make([]State, 0, n+1)
	for k := 0; k < n; k++ {
		s, err := q.StateAt(float64(k) * dt)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	last, err := q.StateAt(q.duration)
	if err != nil {
		return nil, err
	}
	return append(out, last), nil
}

func horner(c []float64, t float64) float64 {
	var v float64
	for i := len(c) - 1; i >= 0; i-- {
		v = v*t + c[i]
	}
	return v
}

// derive returns the coefficients of the order-th derivative.
func derive(c []float64, order int) []float64 {
	for ; order > 0; order-- {
		if len(c) <= 1 {
			return nil
		}
		next := make([]float64, len(c)-1)
		for i := 1; i < len(c); i++ {
			next[i-1] = float64(i) * c[i]
		}
		c = next
	}
	return c
}
