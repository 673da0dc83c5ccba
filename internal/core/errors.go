package core

import "github.com/pkg/errors"

// ErrInfeasible is returned by the high-level search when no conflict-free
// solution is found: the constraint tree is exhausted, some agent has no
// root path, or a conflict involves two frozen agents. Running out of
// time returns ErrTimeout instead.
var ErrInfeasible = errors.New("mapf: no feasible solution found")

// ErrTimeout is returned when a solver is stopped by its context
// deadline before reaching a conclusion.
var ErrTimeout = errors.New("mapf: planning deadline exceeded")

// WrapPrecondition annotates a precondition violation (malformed task,
// unreachable start, caller misuse) with the operation that detected it.
func WrapPrecondition(op string, err error) error {
	return errors.Wrapf(err, "mapf: %s", op)
}
