package trajectory

import (
	"math"

	"github.com/pkg/errors"
)

// Validator reports whether a candidate trajectory is acceptable.
type Validator func(q *Quintic) bool

// FindQuintic returns the quickest trajectory from start to end that satisfies validator,
// trying durations minT, minT+step, ... up to maxT. A minT of zero starts the search at step.
func FindQuintic(start, end State, validator Validator, minT, maxT, step float64) (*Quintic, error) {
	if !(step > 0) || !(minT >= 0) || !(maxT >= minT) || math.IsInf(maxT, 1) {
		return nil, errors.Wrapf(ErrInvalidTimeStep, "step %v over [%v, %v]", step, minT, maxT)
	}
	first := minT
	if first == 0 {
		first = step
	}
	for k := 0; ; k++ {
		t := first + float64(k)*step
		if t > maxT {
			break
		}
		q, err := NewQuintic(start, end, t)
		if err != nil {
			return nil, err
		}
		if validator == nil || validator(q) {
			return q, nil
		}
	}
	return nil, errors.Wrapf(ErrNoValidTrajectory, "step %v over [%v, %v]", step, minT, maxT)
}

// WithinLimits returns a Validator that samples the trajectory every dt and rejects it when the
// magnitude of its speed, acceleration, or jerk exceeds the matching limit. A non-positive
// limit is not checked, and a non-positive dt checks only the endpoints.
func WithinLimits(maxSpeed, maxAcceleration, maxJerk, dt float64) Validator {
	return func(q *Quintic) bool {
		step := dt
		if !(step > 0) {
			step = q.Duration()
		}
		samples := int(math.Ceil(q.Duration() / step))
		for k := 0; k <= samples; k++ {
			t := math.Min(float64(k)*step, q.Duration())
			if maxSpeed > 0 && q.Velocity(t).Norm() > maxSpeed {
				return false
			}
			if maxAcceleration > 0 && q.Acceleration(t).Norm() > maxAcceleration {
				return false
			}
			if maxJerk > 0 && q.Jerk(t).Norm() > maxJerk {
				return false
			}
		}
		return true
	}
}
