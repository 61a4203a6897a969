package solver

import "errors"

// Sentinel errors returned by [Solver] operations.
var (
	// ErrDuplicateConstraint is returned when a constraint is added twice.
	ErrDuplicateConstraint = errors.New("duplicate constraint")

	// ErrUnknownConstraint is returned when removing a constraint the solver does not hold.
	ErrUnknownConstraint = errors.New("unknown constraint")

	// ErrUnsatisfiableConstraint is returned when a required constraint conflicts
	// with the required constraints already in the solver.
	ErrUnsatisfiableConstraint = errors.New("unsatisfiable constraint")

	// ErrDuplicateEditVariable is returned when a variable is made editable twice.
	ErrDuplicateEditVariable = errors.New("duplicate edit variable")

	// ErrUnknownEditVariable is returned when suggesting or removing a non-edit variable.
	ErrUnknownEditVariable = errors.New("unknown edit variable")

	// ErrBadRequiredStrength is returned when an edit variable is added with required strength.
	ErrBadRequiredStrength = errors.New("edit variable cannot have required strength")

	// ErrInternal reports a broken solver invariant (unbounded objective, failed dual pivot).
	ErrInternal = errors.New("internal solver error")
)
