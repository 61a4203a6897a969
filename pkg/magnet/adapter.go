package magnet

import (
	"math"

	"github.com/matzehuels/magnet/pkg/errors"
	"github.com/matzehuels/magnet/pkg/solver"
)

// solverAdapter is the stage's only path into the solver. It turns solver
// failures into coded errors and turns solved values into change sets,
// guarding the non-reentrant fetch.
type solverAdapter struct {
	solver   *solver.Solver
	fetching bool
}

func newSolverAdapter() *solverAdapter {
	return &solverAdapter{solver: solver.New()}
}

// add installs every constraint or none of them.
func (a *solverAdapter) add(cs []*solver.Constraint) error {
	for i, c := range cs {
		if err := a.solver.AddConstraint(c); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = a.solver.RemoveConstraint(cs[j])
			}
			return errors.Wrap(errors.ErrCodeInfeasible, err, "add constraint %s", c)
		}
	}
	return nil
}

// remove drops constraints in reverse order. Constraints the solver does not
// hold are skipped.
func (a *solverAdapter) remove(cs []*solver.Constraint) error {
	for i := len(cs) - 1; i >= 0; i-- {
		if !a.solver.HasConstraint(cs[i]) {
			continue
		}
		if err := a.solver.RemoveConstraint(cs[i]); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "remove constraint %s", cs[i])
		}
	}
	return nil
}

func (a *solverAdapter) addEdit(v *solver.Variable, strength solver.Strength) error {
	if a.solver.HasEditVariable(v) {
		return nil
	}
	if err := a.solver.AddEditVariable(v, strength); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "add edit variable %s", v)
	}
	return nil
}

func (a *solverAdapter) removeEdit(v *solver.Variable) error {
	if !a.solver.HasEditVariable(v) {
		return nil
	}
	if err := a.solver.RemoveEditVariable(v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "remove edit variable %s", v)
	}
	return nil
}

func (a *solverAdapter) suggest(v *solver.Variable, value float64) error {
	if err := a.solver.SuggestValue(v, value); err != nil {
		return errors.Wrap(errors.ErrCodeInfeasible, err, "suggest %s = %g", v, value)
	}
	return nil
}

// fetch writes every solved value that differs from the value last written
// onto its variable and returns how many changed. The solver reports
// values, not deltas, so the adapter diffs against what it wrote before.
func (a *solverAdapter) fetch() (int, error) {
	if a.fetching {
		return 0, errors.New(errors.ErrCodeInternal, "re-entrant solver fetch")
	}
	a.fetching = true
	defer func() { a.fetching = false }()

	n := 0
	for _, v := range a.solver.Variables() {
		value := a.solver.Value(v)
		if math.Abs(value-v.Value()) < changeEpsilon {
			continue
		}
		v.SetValue(value)
		n++
	}
	return n, nil
}

// changeEpsilon is the smallest difference fetch reports as a change.
const changeEpsilon = 1e-8

func (a *solverAdapter) constraintCount() int {
	return a.solver.ConstraintCount()
}
