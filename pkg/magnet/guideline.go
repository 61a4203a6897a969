package magnet

import (
	"github.com/matzehuels/magnet/pkg/errors"
	"github.com/matzehuels/magnet/pkg/solver"
)

// Guideline is a zero-thickness line at a fixed fraction of the stage span
// plus a pixel offset. A guideline on the Vertical axis owns Top and Bottom;
// one on the Horizontal axis owns Left and Right.
type Guideline struct {
	element

	axis     Axis
	fraction float64
	delta    float64

	near, far *solver.Variable
}

// NewGuideline creates a guideline at fraction (in [0, 1]) of the stage span
// on axis a, shifted by delta.
func NewGuideline(id string, a Axis, fraction, delta float64) (*Guideline, error) {
	if err := errors.ValidateFraction("guideline fraction", fraction); err != nil {
		return nil, err
	}
	nearP, farP := a.Poles()
	g := &Guideline{
		element:  newElement(id),
		axis:     a,
		fraction: fraction,
		delta:    delta,
		near:     solver.NewVariable(id + "." + nearP.String()),
		far:      solver.NewVariable(id + "." + farP.String()),
	}
	_ = g.lc.setConstraints(groupGuide, g.guideConstraints)
	_ = g.lc.tryAddConstraints(groupIdentity, func(*Stage) ([]*solver.Constraint, error) {
		return []*solver.Constraint{
			solver.NewConstraint(solver.Var(g.far), solver.Eq, solver.Var(g.near), solver.Required),
		}, nil
	})
	return g, nil
}

// Kind returns KindGuideline.
func (g *Guideline) Kind() Kind { return KindGuideline }

// Axis returns the axis the guideline is positioned on.
func (g *Guideline) Axis() Axis { return g.axis }

// Fraction returns the fractional position.
func (g *Guideline) Fraction() float64 { return g.fraction }

// Delta returns the pixel offset.
func (g *Guideline) Delta() float64 { return g.delta }

// SetFraction moves the guideline to a new fraction of the stage span.
func (g *Guideline) SetFraction(fraction float64) error {
	if err := errors.ValidateFraction("guideline fraction", fraction); err != nil {
		return err
	}
	g.fraction = fraction
	return g.lc.setConstraints(groupGuide, g.guideConstraints)
}

// SetDelta sets the pixel offset.
func (g *Guideline) SetDelta(delta float64) error {
	g.delta = delta
	return g.lc.setConstraints(groupGuide, g.guideConstraints)
}

// Position returns the solved position.
func (g *Guideline) Position() float64 { return g.near.Value() }

// Bounds returns a zero-thickness box spanning the stage.
func (g *Guideline) Bounds() Rect {
	var w, h float64
	if s := g.Stage(); s != nil {
		w, h = s.right.Value(), s.bottom.Value()
	}
	if g.axis == Vertical {
		return Rect{Y: g.near.Value(), Width: w}
	}
	return Rect{X: g.near.Value(), Height: h}
}

func (g *Guideline) guideConstraints(s *Stage) ([]*solver.Constraint, error) {
	nearP, _ := g.axis.Poles()
	rhs := solver.Var(s.pole(nearP)).Plus(g.delta)
	if g.fraction != 0 {
		rhs = rhs.Add(s.span(g.axis).Mul(g.fraction))
	}
	return []*solver.Constraint{
		solver.NewConstraint(solver.Var(g.near), solver.Eq, rhs, solver.Required),
	}, nil
}

func (g *Guideline) pole(p Pole) (*solver.Variable, error) {
	return axisPoles(g.axis, g.near, g.far, p, g.id)
}

func (g *Guideline) editVariables() []*solver.Variable { return nil }

func (g *Guideline) prepare(*Stage) error { return nil }

func (g *Guideline) finalize(*Stage) (bool, error) { return false, nil }
