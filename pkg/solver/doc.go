// Package solver implements an incremental linear-arithmetic constraint
// solver based on the Cassowary algorithm.
//
// Constraints are linear relations between [Variable] values with a
// [Strength]. Required constraints must hold; weaker ones are satisfied as
// well as possible, stronger tiers always winning over weaker tiers.
//
// Edit variables let a caller repeatedly suggest values (for example the
// size of a window) and re-solve incrementally:
//
//	s := solver.New()
//	width := solver.NewVariable("width")
//	_ = s.AddEditVariable(width, solver.Strong)
//	_ = s.SuggestValue(width, 320)
//	width.SetValue(s.Value(width))
//
// The solver is not safe for concurrent use.
package solver
