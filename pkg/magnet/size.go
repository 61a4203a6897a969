package magnet

import (
	"strconv"

	"github.com/matzehuels/magnet/pkg/solver"
)

// Unit selects what an element's span is measured against.
type Unit uint8

const (
	// Measured sizes follow the host view's measured size.
	Measured Unit = iota
	// StagePercentage sizes are a fraction of the stage span.
	StagePercentage
	// ConstraintRatio sizes share the span available to a chain in
	// proportion to their multipliers.
	ConstraintRatio
	// OtherAxisRatio sizes are a multiple of the element's other span.
	OtherAxisRatio
)

// String returns the unit name.
func (u Unit) String() string {
	switch u {
	case StagePercentage:
		return "stage"
	case ConstraintRatio:
		return "constraint"
	case OtherAxisRatio:
		return "ratio"
	default:
		return "measured"
	}
}

// Behavior selects how strictly a span follows its size.
type Behavior uint8

const (
	// BehaviorRequired spans equal their size unless overpowered.
	BehaviorRequired Behavior = iota
	// BehaviorShrink spans may be squeezed below their size.
	BehaviorShrink
)

// SizeValue is a declarative size along one axis.
type SizeValue struct {
	Unit       Unit
	Multiplier float64
	Behavior   Behavior
}

// Auto sizes to the measured content.
func Auto() SizeValue { return SizeValue{Unit: Measured, Multiplier: 1} }

// Percent sizes to p percent of the stage span.
func Percent(p float64) SizeValue { return SizeValue{Unit: StagePercentage, Multiplier: p / 100} }

// Weight shares the chain's span with a weight of m.
func Weight(m float64) SizeValue { return SizeValue{Unit: ConstraintRatio, Multiplier: m} }

// Ratio sizes to m times the other axis span.
func Ratio(m float64) SizeValue { return SizeValue{Unit: OtherAxisRatio, Multiplier: m} }

// Shrinkable returns v with shrink behavior.
func (v SizeValue) Shrinkable() SizeValue {
	v.Behavior = BehaviorShrink
	return v
}

// String renders v in the size-value syntax accepted by ParseSizeValue.
func (v SizeValue) String() string {
	var s string
	switch v.Unit {
	case StagePercentage:
		s = strconv.FormatFloat(v.Multiplier*100, 'g', -1, 64) + "%"
	case ConstraintRatio:
		s = multiplierPrefix(v.Multiplier) + "*"
	case OtherAxisRatio:
		s = multiplierPrefix(v.Multiplier) + "r"
	default:
		s = multiplierPrefix(v.Multiplier) + "m"
	}
	if v.Behavior == BehaviorShrink {
		s += "~"
	}
	return s
}

func multiplierPrefix(m float64) string {
	if m == 1 {
		return ""
	}
	return strconv.FormatFloat(m, 'g', -1, 64)
}

// Strength of the preference that pulls Shrink spans toward the stage's
// shrink variables; below every tier used for layout.
var shrinkStrength = solver.NewStrength(0, 0, 0.1, 1)

// sizeConstraints relates the span on axis a to its size source.
func (v *View) sizeConstraints(s *Stage, a Axis) ([]*solver.Constraint, error) {
	near, far := v.axisVars(a)
	span := solver.Var(far).Sub(solver.Var(near))
	cs := []*solver.Constraint{
		solver.NewConstraint(span, solver.GreaterOrEq, solver.Const(0), solver.Required),
	}

	if v.shown == Collapsed {
		cs = append(cs,
			solver.NewConstraint(span, solver.Eq, solver.Const(0), solver.Strong),
			solver.NewConstraint(solver.Var(v.desired[a]), solver.Eq, solver.Const(0), solver.Strong),
		)
		return cs, nil
	}

	sv := v.size(a)
	op := solver.Eq
	if sv.Behavior == BehaviorShrink {
		op = solver.LessOrEq
	}

	var target solver.Expression
	switch sv.Unit {
	case Measured:
		cs = append(cs, solver.NewConstraint(
			solver.Var(v.desired[a]), solver.Eq, solver.Scaled(v.measured[a], sv.Multiplier), solver.Strong))
		target = solver.Var(v.desired[a])
	case StagePercentage:
		target = s.span(a).Mul(sv.Multiplier)
	case ConstraintRatio:
		target = solver.Scaled(v.cs[a], sv.Multiplier)
	case OtherAxisRatio:
		on, of := v.axisVars(a.Other())
		other := solver.Var(of).Sub(solver.Var(on))
		cs = append(cs, solver.NewConstraint(
			solver.Var(v.desired[a]), solver.Eq, other.Mul(sv.Multiplier), solver.Strong))
		target = solver.Var(v.desired[a])
	}
	cs = append(cs, solver.NewConstraint(span, op, target, solver.Weak))

	if sv.Behavior == BehaviorShrink {
		cs = append(cs, solver.NewConstraint(span, solver.Eq, solver.Var(s.shrinkVar(a)), shrinkStrength))
	}
	return cs, nil
}
