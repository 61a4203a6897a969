package magnet

import (
	"slices"

	"github.com/matzehuels/magnet/pkg/errors"
	"github.com/matzehuels/magnet/pkg/solver"
)

// Strength of a barrier's pull toward the stage edge opposite its side.
// Barriers settle on their outermost member without pushing members around.
var barrierStrength = solver.NewStrength(0, 0, 0.5, 1)

// Barrier is a zero-thickness line placed at the outermost Side pole of its
// members, offset by Margin. A barrier with Side Right sits right of every
// member; one with Side Left sits left of every member. Collapsed members
// are ignored.
type Barrier struct {
	element

	side    Pole
	members []string
	margin  float64

	near, far *solver.Variable
}

// NewBarrier creates a barrier tracking side of the given members.
func NewBarrier(id string, side Pole, members ...string) *Barrier {
	nearP, farP := side.Axis().Poles()
	b := &Barrier{
		element: newElement(id),
		side:    side,
		members: slices.Clone(members),
		near:    solver.NewVariable(id + "." + nearP.String()),
		far:     solver.NewVariable(id + "." + farP.String()),
	}
	_ = b.lc.setConstraints(groupBarrier, b.barrierConstraints)
	_ = b.lc.tryAddConstraints(groupIdentity, func(*Stage) ([]*solver.Constraint, error) {
		return []*solver.Constraint{
			solver.NewConstraint(solver.Var(b.far), solver.Eq, solver.Var(b.near), solver.Required),
		}, nil
	})
	return b
}

// Kind returns KindBarrier.
func (b *Barrier) Kind() Kind { return KindBarrier }

// Side returns the tracked pole.
func (b *Barrier) Side() Pole { return b.side }

// Axis returns the axis the barrier is positioned on.
func (b *Barrier) Axis() Axis { return b.side.Axis() }

// Members returns the referenced element ids.
func (b *Barrier) Members() []string { return slices.Clone(b.members) }

// SetMembers replaces the referenced element ids.
func (b *Barrier) SetMembers(ids ...string) error {
	b.members = slices.Clone(ids)
	return b.lc.setConstraints(groupBarrier, b.barrierConstraints)
}

// Margin returns the offset from the outermost member.
func (b *Barrier) Margin() float64 { return b.margin }

// SetMargin sets the offset from the outermost member.
func (b *Barrier) SetMargin(m float64) error {
	b.margin = m
	return b.lc.setConstraints(groupBarrier, b.barrierConstraints)
}

// Position returns the solved position.
func (b *Barrier) Position() float64 { return b.near.Value() }

// Bounds returns a zero-thickness box spanning the stage.
func (b *Barrier) Bounds() Rect {
	var w, h float64
	if s := b.Stage(); s != nil {
		w, h = s.right.Value(), s.bottom.Value()
	}
	if b.Axis() == Vertical {
		return Rect{Y: b.near.Value(), Width: w}
	}
	return Rect{X: b.near.Value(), Height: h}
}

func (b *Barrier) barrierConstraints(s *Stage) ([]*solver.Constraint, error) {
	pos := solver.Var(b.near)
	nearP, farP := b.Axis().Poles()
	trailing := !b.side.IsLeading()

	var cs []*solver.Constraint
	for _, id := range b.members {
		el, ok := s.Element(id)
		if !ok {
			if s.toleratesMissing(id) {
				continue
			}
			return nil, errors.New(errors.ErrCodeUndefinedTarget, "barrier %q references unknown element %q", b.id, id)
		}
		if v, ok := el.(*View); ok && v.shown == Collapsed {
			continue
		}
		pv, err := el.pole(b.side)
		if err != nil {
			return nil, err
		}
		if trailing {
			cs = append(cs, solver.NewConstraint(pos, solver.GreaterOrEq, solver.Var(pv).Plus(b.margin), solver.Required))
		} else {
			cs = append(cs, solver.NewConstraint(pos, solver.LessOrEq, solver.Var(pv).Minus(b.margin), solver.Required))
		}
	}

	edge := farP
	if trailing {
		edge = nearP
	}
	cs = append(cs, solver.NewConstraint(pos, solver.Eq, solver.Var(s.pole(edge)), barrierStrength))
	return cs, nil
}

func (b *Barrier) pole(p Pole) (*solver.Variable, error) {
	return axisPoles(b.Axis(), b.near, b.far, p, b.id)
}

func (b *Barrier) editVariables() []*solver.Variable { return nil }

func (b *Barrier) prepare(*Stage) error { return nil }

func (b *Barrier) finalize(*Stage) (bool, error) { return false, nil }
