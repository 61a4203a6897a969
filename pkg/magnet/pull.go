package magnet

import (
	"github.com/matzehuels/magnet/pkg/errors"
	"github.com/matzehuels/magnet/pkg/solver"
)

// Traction is how hard a pull holds its edge to the target.
type Traction uint8

const (
	// TractionDefault pulls toward the target but never past it, so two
	// opposing soft pulls are reconciled by bias.
	TractionDefault Traction = iota
	// TractionStrong forces contact with the target. Chains whose links
	// are all strong are packed together.
	TractionStrong
)

// String returns "default" or "strong".
func (t Traction) String() string {
	if t == TractionStrong {
		return "strong"
	}
	return "default"
}

// PullTarget references a pole of another element (or the stage) that an
// edge is pulled toward.
type PullTarget struct {
	ElementID string
	Pole      Pole
	Traction  Traction
	// GoneMargin replaces the edge margin while the target is collapsed.
	GoneMargin *float64
}

// Pull returns a default-traction pull toward pole p of element id.
func Pull(id string, p Pole) PullTarget {
	return PullTarget{ElementID: id, Pole: p}
}

// Strong returns t with strong traction.
func (t PullTarget) Strong() PullTarget {
	t.Traction = TractionStrong
	return t
}

// WithGoneMargin returns t using margin m while the target is collapsed.
func (t PullTarget) WithGoneMargin(m float64) PullTarget {
	t.GoneMargin = &m
	return t
}

// String renders t in the pull-target syntax accepted by ParsePullTarget.
func (t PullTarget) String() string {
	s := t.ElementID + "." + t.Pole.String()
	if t.Traction == TractionStrong {
		s += "!"
	}
	return s
}

// anchor is a resolved pull: the expression an edge is related to.
type anchor struct {
	target   solver.Expression
	traction Traction
	margin   float64
	// peer is set when the target pulls back at this edge; target is then
	// the peer's chain pole.
	peer *View
	// pack is set for peer links where both pulls are strong.
	pack bool
}

func (a *anchor) soft() bool { return a.traction == TractionDefault }

// relation holds edge against the target: contact for strong traction, a
// bound otherwise.
func (a *anchor) relation(edge solver.Expression, op solver.Operator) *solver.Constraint {
	if a.traction == TractionStrong {
		op = solver.Eq
	}
	return solver.NewConstraint(edge, op, a.target, solver.Medium)
}

// resolve turns the pull on edge into an anchor. A nil anchor with a nil
// error means the edge has no anchor, either because it has no pull or
// because the target fell back to none.
func (v *View) resolve(s *Stage, edge Pole) (*anchor, error) {
	p := v.pulls[edge]
	if p == nil {
		return nil, nil
	}
	a := &anchor{traction: p.Traction, margin: v.EffectiveMargin().Edge(edge)}

	if isStageID(p.ElementID) {
		a.target = solver.Var(s.pole(p.Pole))
		return a, nil
	}

	el, ok := s.Element(p.ElementID)
	if !ok {
		if s.toleratesMissing(p.ElementID) {
			s.logger.Debug("pull target missing, no anchor", "element", v.id, "edge", edge, "target", p.ElementID)
			return nil, nil
		}
		return nil, errors.New(errors.ErrCodeUndefinedTarget,
			"%s edge of %q pulls unknown element %q", edge, v.id, p.ElementID)
	}
	pv, err := el.pole(p.Pole)
	if err != nil {
		return nil, err
	}
	a.target = solver.Var(pv)

	tv, isView := el.(*View)
	if !isView {
		return a, nil
	}
	if s.views != nil {
		if _, ok := s.views.LookupView(tv.id); !ok {
			s.logger.Debug("pull target has no view, no anchor", "element", v.id, "edge", edge, "target", tv.id)
			return nil, nil
		}
	}
	if tv.shown == Collapsed && p.GoneMargin != nil {
		a.margin = *p.GoneMargin
	}
	if back := tv.pulls[p.Pole]; back != nil && p.Pole == edge.Opposite() &&
		equalIDs(back.ElementID, v.id) && back.Pole == edge {
		a.peer = tv
		a.target = solver.Var(tv.chain[p.Pole])
		a.pack = p.Traction == TractionStrong && back.Traction == TractionStrong
	}
	return a, nil
}

// linkedPeer returns the view this view is chain-linked to through edge:
// the target pulls back at edge from the opposite pole. With strong set,
// both pulls must have strong traction.
func (v *View) linkedPeer(s *Stage, edge Pole, strong bool) *View {
	p := v.pulls[edge]
	if p == nil || p.Pole != edge.Opposite() || isStageID(p.ElementID) {
		return nil
	}
	if strong && p.Traction != TractionStrong {
		return nil
	}
	tv, ok := s.View(p.ElementID)
	if !ok {
		return nil
	}
	back := tv.pulls[p.Pole]
	if back == nil || back.Pole != edge || !equalIDs(back.ElementID, v.id) {
		return nil
	}
	if strong && back.Traction != TractionStrong {
		return nil
	}
	return tv
}

// chainEnd walks links through edge until the last view of the chain.
func (v *View) chainEnd(s *Stage, edge Pole, strong bool) *View {
	cur := v
	seen := map[*View]bool{v: true}
	for {
		next := cur.linkedPeer(s, edge, strong)
		if next == nil || seen[next] {
			return cur
		}
		seen[next] = true
		cur = next
	}
}

func (v *View) packEnd(s *Stage, edge Pole) *View { return v.chainEnd(s, edge, true) }

// positionConstraints places the view on axis a from its pulls.
//
// With soft pulls on both edges the view sits at the bias-weighted point
// between the targets:
//
//	near = nearT + (farT − nearT − size)·bias, size = far − near
//	⇒ bias·far = nearT·(1−bias) + farT·bias + near·(bias−1)
func (v *View) positionConstraints(s *Stage, a Axis) ([]*solver.Constraint, error) {
	nearP, farP := a.Poles()
	near, far := v.axisVars(a)

	na, err := v.resolve(s, nearP)
	if err != nil {
		return nil, err
	}
	fa, err := v.resolve(s, farP)
	if err != nil {
		return nil, err
	}

	m := v.EffectiveMargin()
	nearMargin, farMargin := m.Edge(nearP), m.Edge(farP)
	if na != nil {
		nearMargin = na.margin
	}
	if fa != nil {
		farMargin = fa.margin
	}
	nearE := solver.Var(near).Minus(nearMargin)
	farE := solver.Var(far).Plus(farMargin)

	var cs []*solver.Constraint
	switch {
	case na == nil && fa == nil:
		cs = append(cs, solver.NewConstraint(nearE, solver.Eq, solver.Var(s.pole(nearP)), solver.Weak))
	case fa == nil:
		cs = append(cs, solver.NewConstraint(nearE, solver.Eq, na.target, solver.Medium))
	case na == nil:
		cs = append(cs, solver.NewConstraint(farE, solver.Eq, fa.target, solver.Medium))
	default:
		cs = append(cs, na.relation(nearE, solver.GreaterOrEq), fa.relation(farE, solver.LessOrEq))
		if na.soft() && fa.soft() {
			c, err := v.headBias(s, a, na, fa, nearE, farE)
			if err != nil {
				return nil, err
			}
			cs = append(cs, c)
		}
	}

	if v.size(a).Unit == ConstraintRatio {
		if na != nil {
			cs = append(cs, solver.NewConstraint(nearE, solver.Eq, na.target, solver.Weak))
		}
		if fa != nil {
			cs = append(cs, solver.NewConstraint(farE, solver.Eq, fa.target, solver.Weak))
			if fa.peer != nil && fa.peer.size(a).Unit == ConstraintRatio {
				cs = append(cs, solver.NewConstraint(
					solver.Var(v.cs[a]), solver.Eq, solver.Var(fa.peer.cs[a]), solver.Strong))
			}
		}
	}

	pack, err := v.packConstraints(s, a, na, fa, nearE, farE)
	if err != nil {
		return nil, err
	}
	return append(cs, pack...), nil
}

// headBias positions a view between two soft pulls. The head of a soft
// chain (no link behind it, a link ahead) interpolates between its own near
// target and the far target of the chain's tail, so its bias places the
// whole chain. Every other view interpolates between its own targets.
func (v *View) headBias(s *Stage, a Axis, na, fa *anchor, nearE, farE solver.Expression) (*solver.Constraint, error) {
	_, farP := a.Poles()
	if na.peer != nil || fa.peer == nil {
		return biasConstraint(nearE, farE, na.target, fa.target, v.bias[a]), nil
	}
	tail := v.chainEnd(s, farP, false)
	if tail == v {
		return biasConstraint(nearE, farE, na.target, fa.target, v.bias[a]), nil
	}
	tfa, err := tail.resolve(s, farP)
	if err != nil {
		return nil, err
	}
	if tfa == nil || !tfa.soft() || tfa.peer != nil {
		return biasConstraint(nearE, farE, na.target, fa.target, v.bias[a]), nil
	}
	_, tailFar := tail.axisVars(a)
	tailE := solver.Var(tailFar).Plus(tfa.margin)
	return biasConstraint(nearE, tailE, na.target, tfa.target, v.bias[a]), nil
}

func biasConstraint(nearE, farE, nearT, farT solver.Expression, bias float64) *solver.Constraint {
	switch bias {
	case 0:
		return solver.NewConstraint(nearE, solver.Eq, nearT, solver.Required)
	case 1:
		return solver.NewConstraint(farE, solver.Eq, farT, solver.Required)
	}
	rhs := nearT.Mul(1 - bias).Add(farT.Mul(bias)).Add(nearE.Mul(bias - 1))
	return solver.NewConstraint(farE.Mul(bias), solver.Eq, rhs, solver.Required)
}

// packConstraints centers a pack chain between its outer targets. The tail
// measures the space left after it, every other member copies its
// successor's value, and the head splits the slack by its bias:
//
//	(headNear − headNearT) = bias·(tailSpace + headNear − headNearT)
func (v *View) packConstraints(s *Stage, a Axis, na, fa *anchor, nearE, farE solver.Expression) ([]*solver.Constraint, error) {
	inNear := na != nil && na.pack
	inFar := fa != nil && fa.pack
	if !inNear && !inFar {
		return nil, nil
	}
	nearP, farP := a.Poles()
	ts := solver.Var(v.tail[a])

	var cs []*solver.Constraint
	switch {
	case inFar:
		cs = append(cs, solver.NewConstraint(ts, solver.Eq, solver.Var(fa.peer.tail[a]), solver.Required))
	case fa != nil:
		cs = append(cs, solver.NewConstraint(ts, solver.Eq, fa.target.Sub(farE), solver.Required))
	}

	if !inNear {
		tail := v.packEnd(s, farP)
		tfa, err := tail.resolve(s, farP)
		if err != nil {
			return nil, err
		}
		switch {
		case na != nil && na.soft() && tfa != nil && tfa.soft():
			gap := nearE.Sub(na.target)
			cs = append(cs, solver.NewConstraint(gap, solver.Eq, ts.Add(gap).Mul(v.bias[a]), solver.Required))
		case na != nil && na.soft() && tfa == nil:
			cs = append(cs, solver.NewConstraint(nearE, solver.Eq, na.target, solver.Medium))
		}
	}

	if !inFar && fa != nil && fa.soft() {
		head := v.packEnd(s, nearP)
		hna, err := head.resolve(s, nearP)
		if err != nil {
			return nil, err
		}
		if hna == nil {
			cs = append(cs, solver.NewConstraint(farE, solver.Eq, fa.target, solver.Medium))
		}
	}
	return cs, nil
}
