package motionplan

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidStartOrGoal is returned when the start or goal point is not valid in the space.
	ErrInvalidStartOrGoal = errors.New("start or goal is not a valid point in the configuration space")

	// ErrNoPathExists is returned when a complete search has proven the goal unreachable.
	ErrNoPathExists = errors.New("no path exists between start and goal")

	// ErrBudgetExhausted is returned when a planner ran out of iterations or expansions before
	// finding a path. It says nothing about whether a path exists.
	ErrBudgetExhausted = errors.New("planning budget exhausted before a path was found")

	// ErrConfigurationSpaceViolation is returned when a space breaks its contract, e.g. by
	// reporting a negative or NaN traversal cost while strict cost checking is on.
	ErrConfigurationSpaceViolation = errors.New("configuration space reported an invalid cost")

	// ErrNoProgress is returned by Steer when the first sub-step toward the target is blocked.
	ErrNoProgress = errors.New("unable to make progress toward the target")

	// ErrCapacityExceeded is returned when a planner with a fixed node capacity needs more nodes.
	ErrCapacityExceeded = errors.New("planner node capacity exceeded")
)

// IsIncompleteSearch reports whether err means the planner stopped early: the budget or capacity
// ran out, or the context ended. Such a failure is not proof that no path exists.
func IsIncompleteSearch(err error) bool {
	return errors.Is(err, ErrBudgetExhausted) ||
		errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func newInvalidEndpointError(which string, p any) error {
	return errors.Wrapf(ErrInvalidStartOrGoal, "%s %v", which, p)
}

func newBudgetExhaustedError(kind string, used int) error {
	return errors.Wrapf(ErrBudgetExhausted, "after %d %s", used, kind)
}
