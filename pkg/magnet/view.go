package magnet

import (
	"math"

	"github.com/matzehuels/magnet/pkg/errors"
	"github.com/matzehuels/magnet/pkg/solver"
)

// HostView is the host's handle on a laid-out view.
type HostView interface {
	// Measure returns the size the view wants within the given constraints.
	// Unbounded constraints are passed as +Inf.
	Measure(widthConstraint, heightConstraint float64) Size
	Visibility() Visibility
	// Arrange places the view and returns the size it occupies.
	Arrange(bounds Rect) Size
}

// ViewSource resolves host views by element id. Views are looked up on every
// access because the host may recycle them at any time.
type ViewSource interface {
	LookupView(id string) (HostView, bool)
}

// ViewSourceFunc adapts a function to ViewSource.
type ViewSourceFunc func(id string) (HostView, bool)

// LookupView calls f(id).
func (f ViewSourceFunc) LookupView(id string) (HostView, bool) { return f(id) }

// View is an element backed by a host view.
type View struct {
	element

	width, height   SizeValue
	margin          Thickness
	collapsedMargin Thickness
	bias            [2]float64
	pulls           [4]*PullTarget
	visibility      Visibility

	// shown is the visibility seen by the last measure pass.
	shown        Visibility
	lastMeasured Size

	left, top, right, bottom *solver.Variable
	chain                    [4]*solver.Variable
	measured                 [2]*solver.Variable
	desired                  [2]*solver.Variable
	cs                       [2]*solver.Variable
	tail                     [2]*solver.Variable
}

// NewView creates a view element sized to its measured content, centered
// between its pulls.
func NewView(id string) *View {
	v := &View{
		element: newElement(id),
		width:   Auto(),
		height:  Auto(),
		bias:    [2]float64{0.5, 0.5},
	}
	name := func(suffix string) *solver.Variable { return solver.NewVariable(id + "." + suffix) }
	v.left, v.top, v.right, v.bottom = name("Left"), name("Top"), name("Right"), name("Bottom")
	for p := PoleLeft; p <= PoleBottom; p++ {
		v.chain[p] = name("Chain" + p.String())
	}
	for _, a := range []Axis{Horizontal, Vertical} {
		v.measured[a] = name("Measured" + a.String())
		v.desired[a] = name("Desired" + a.String())
		v.cs[a] = name("ConstraintSize" + a.String())
		v.tail[a] = name("TailSpace" + a.String())
	}

	for _, a := range []Axis{Horizontal, Vertical} {
		_ = v.lc.setConstraints(positionGroup(a), func(s *Stage) ([]*solver.Constraint, error) {
			return v.positionConstraints(s, a)
		})
		_ = v.lc.setConstraints(sizeGroup(a), func(s *Stage) ([]*solver.Constraint, error) {
			return v.sizeConstraints(s, a)
		})
	}
	_ = v.lc.setConstraints(groupChain, func(*Stage) ([]*solver.Constraint, error) {
		return v.chainConstraints(), nil
	})
	return v
}

// Kind returns KindView.
func (v *View) Kind() Kind { return KindView }

// Width returns the horizontal size.
func (v *View) Width() SizeValue { return v.width }

// Height returns the vertical size.
func (v *View) Height() SizeValue { return v.height }

// SetWidth sets the horizontal size.
func (v *View) SetWidth(sv SizeValue) {
	v.width = sv
	v.invalidateLayout()
}

// SetHeight sets the vertical size.
func (v *View) SetHeight(sv SizeValue) {
	v.height = sv
	v.invalidateLayout()
}

func (v *View) size(a Axis) SizeValue {
	if a == Vertical {
		return v.height
	}
	return v.width
}

// Margin returns the margin used while the view is not collapsed.
func (v *View) Margin() Thickness { return v.margin }

// SetMargin sets the margin used while the view is not collapsed.
func (v *View) SetMargin(t Thickness) {
	v.margin = t
	v.invalidateLayout()
}

// CollapsedMargin returns the margin used while the view is collapsed.
func (v *View) CollapsedMargin() Thickness { return v.collapsedMargin }

// SetCollapsedMargin sets the margin used while the view is collapsed.
func (v *View) SetCollapsedMargin(t Thickness) {
	v.collapsedMargin = t
	v.invalidateLayout()
}

// EffectiveMargin returns the margin for the current visibility.
func (v *View) EffectiveMargin() Thickness {
	if v.shown == Collapsed {
		return v.collapsedMargin
	}
	return v.margin
}

// Bias returns the bias on axis a.
func (v *View) Bias(a Axis) float64 { return v.bias[a] }

// SetBias sets the bias on axis a. It must lie in [0, 1].
func (v *View) SetBias(a Axis, bias float64) error {
	if err := errors.ValidateFraction(a.String()+" bias", bias); err != nil {
		return err
	}
	v.bias[a] = bias
	v.invalidateLayout()
	return nil
}

// Pull returns the pull target of an edge.
func (v *View) Pull(edge Pole) (PullTarget, bool) {
	if p := v.pulls[edge]; p != nil {
		return *p, true
	}
	return PullTarget{}, false
}

// SetPull pulls an edge toward a pole of another element or the stage. The
// target pole must lie on the same axis as the edge.
func (v *View) SetPull(edge Pole, target PullTarget) error {
	if edge > PoleBottom || target.Pole > PoleBottom {
		return errors.New(errors.ErrCodeInvalidPole, "invalid pole")
	}
	if edge.Axis() != target.Pole.Axis() {
		return errors.New(errors.ErrCodeInvalidPole,
			"%s edge of %q cannot pull %s pole", edge, v.id, target.Pole)
	}
	if target.ElementID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "pull target of %q has no element id", v.id)
	}
	if equalIDs(target.ElementID, v.id) {
		return errors.New(errors.ErrCodeInvalidInput, "%q cannot pull itself", v.id)
	}
	t := target
	v.pulls[edge] = &t
	v.invalidateLayout()
	return nil
}

// ClearPull removes the pull target of an edge.
func (v *View) ClearPull(edge Pole) {
	if v.pulls[edge] == nil {
		return
	}
	v.pulls[edge] = nil
	v.invalidateLayout()
}

// Visibility returns the declared visibility. A resolvable host view
// overrides it at the next measure pass.
func (v *View) Visibility() Visibility { return v.visibility }

// SetVisibility sets the visibility used when no host view is resolvable.
func (v *View) SetVisibility(vis Visibility) {
	v.visibility = vis
	if v.Stage() == nil {
		v.shown = vis
	}
	v.invalidateLayout()
}

// EffectiveVisibility returns the visibility seen by the last measure pass.
func (v *View) EffectiveVisibility() Visibility { return v.shown }

// invalidateLayout is used by properties neighbours read: margins, pulls,
// bias and visibility feed chain and barrier constraints of other elements.
func (v *View) invalidateLayout() {
	if s := v.Stage(); s != nil {
		s.invalidatePositions()
		return
	}
	v.invalidate(groupHPos, groupVPos, groupChain, groupWidth, groupHeight)
}

// Bounds returns the solved box without margins.
func (v *View) Bounds() Rect {
	return rectFromPoles(v.left.Value(), v.top.Value(), v.right.Value(), v.bottom.Value())
}

// MarginBounds returns the solved box expanded by the effective margin.
func (v *View) MarginBounds() Rect {
	m := v.EffectiveMargin()
	return rectFromPoles(
		v.left.Value()-m.Left, v.top.Value()-m.Top,
		v.right.Value()+m.Right, v.bottom.Value()+m.Bottom)
}

// MeasuredSize returns the size reported by the host at the last measure.
func (v *View) MeasuredSize() Size { return v.lastMeasured }

func (v *View) axisVars(a Axis) (near, far *solver.Variable) {
	if a == Vertical {
		return v.top, v.bottom
	}
	return v.left, v.right
}

func (v *View) pole(p Pole) (*solver.Variable, error) {
	switch p {
	case PoleLeft:
		return v.left, nil
	case PoleTop:
		return v.top, nil
	case PoleRight:
		return v.right, nil
	case PoleBottom:
		return v.bottom, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidPole, "invalid pole %d", p)
}

func (v *View) editVariables() []*solver.Variable {
	return v.measured[:]
}

// chainConstraints defines the chain poles: the edge a linked neighbour
// anchors to, net of this view's margin.
func (v *View) chainConstraints() []*solver.Constraint {
	m := v.EffectiveMargin()
	cs := make([]*solver.Constraint, 0, 4)
	for p := PoleLeft; p <= PoleBottom; p++ {
		own, _ := v.pole(p)
		edge := solver.Var(own)
		if p.IsLeading() {
			edge = edge.Minus(m.Edge(p))
		} else {
			edge = edge.Plus(m.Edge(p))
		}
		cs = append(cs, solver.NewConstraint(solver.Var(v.chain[p]), solver.Eq, edge, solver.Required))
	}
	return cs
}

// prepare picks up host visibility changes and measures the host view
// against the stage's available size.
func (v *View) prepare(s *Stage) error {
	host, ok := s.lookupView(v.id)
	vis := v.visibility
	if ok {
		vis = host.Visibility()
	}
	if vis != v.shown {
		s.logger.Debug("visibility changed", "element", v.id, "from", v.shown, "to", vis)
		v.shown = vis
		s.invalidatePositions()
	}

	var m Size
	if ok && vis != Collapsed {
		mg := v.EffectiveMargin()
		m = host.Measure(
			hostConstraint(s.available.Width, mg.Along(Horizontal)),
			hostConstraint(s.available.Height, mg.Along(Vertical)))
	}
	v.lastMeasured = m
	if err := s.adapter.suggest(v.measured[Horizontal], m.Width); err != nil {
		return err
	}
	return s.adapter.suggest(v.measured[Vertical], m.Height)
}

// finalize re-measures a view whose allocated span came out smaller than
// its measured size, so content that wraps can report its new extent on the
// other axis. Only an axis sized to its measured content can take the new
// extent, whatever unit the allocated axis uses.
func (v *View) finalize(s *Stage) (bool, error) {
	if v.shown == Collapsed {
		return false, nil
	}
	host, ok := s.lookupView(v.id)
	if !ok {
		return false, nil
	}
	changed := false
	measured := v.lastMeasured
	for _, a := range []Axis{Horizontal, Vertical} {
		o := a.Other()
		if v.size(o).Unit != Measured {
			continue
		}
		near, far := v.axisVars(a)
		allocated := far.Value() - near.Value()
		if allocated >= measured.Along(a)-epsilon {
			continue
		}

		mg := v.EffectiveMargin()
		var m Size
		if a == Horizontal {
			m = host.Measure(allocated, hostConstraint(s.available.Height, mg.Along(Vertical)))
		} else {
			m = host.Measure(hostConstraint(s.available.Width, mg.Along(Horizontal)), allocated)
		}
		next, prev := m.Along(o), v.lastMeasured.Along(o)
		if math.Abs(next-prev) < epsilon {
			continue
		}
		s.logger.Debug("re-measured", "element", v.id, "axis", o, "from", prev, "to", next)
		s.hooks.OnRemeasure(v.id)
		if o == Vertical {
			v.lastMeasured.Height = next
		} else {
			v.lastMeasured.Width = next
		}
		if err := s.adapter.suggest(v.measured[o], next); err != nil {
			return changed, err
		}
		changed = true
	}
	return changed, nil
}

const epsilon = 1e-6

func hostConstraint(available, margin float64) float64 {
	if isUnbounded(available) {
		return math.Inf(1)
	}
	return max(0, available-margin)
}
