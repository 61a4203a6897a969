package magnet

import (
	"slices"

	"github.com/matzehuels/magnet/pkg/errors"
	"github.com/matzehuels/magnet/pkg/solver"
)

// group tags a set of constraints that is recomputed as a unit.
type group string

const (
	groupHPos     group = "hpos"
	groupVPos     group = "vpos"
	groupWidth    group = "width"
	groupHeight   group = "height"
	groupChain    group = "chain"
	groupIdentity group = "identity"
	groupBarrier  group = "barrier"
	groupGuide    group = "guide"
)

func positionGroup(a Axis) group {
	if a == Vertical {
		return groupVPos
	}
	return groupHPos
}

func sizeGroup(a Axis) group {
	if a == Vertical {
		return groupHeight
	}
	return groupWidth
}

// factory builds the constraints of one group against a stage. Factories
// are pure: they read element state and return fresh constraints.
type factory func(s *Stage) ([]*solver.Constraint, error)

type groupState struct {
	factory factory
	applied []*solver.Constraint
	seq     uint64
	pending bool
}

// lifecycle tracks, per group, the factory and the constraints it last
// produced.
type lifecycle struct {
	owner  string
	stage  *Stage
	groups map[group]*groupState
	order  []group
	seq    uint64
}

func newLifecycle() lifecycle {
	return lifecycle{groups: make(map[group]*groupState)}
}

func (lc *lifecycle) state(tag group) *groupState {
	g, ok := lc.groups[tag]
	if !ok {
		g = &groupState{}
		lc.groups[tag] = g
		lc.order = append(lc.order, tag)
	}
	return g
}

// setConstraints replaces the factory for tag. On an attached element the
// group is recomputed immediately unless the stage is inside a pass, in which
// case it is deferred to the next one.
func (lc *lifecycle) setConstraints(tag group, f factory) error {
	g := lc.state(tag)
	g.factory = f
	g.pending = true
	if lc.stage == nil {
		return nil
	}
	if lc.stage.busy() {
		lc.stage.Invalidate()
		return nil
	}
	return lc.recompute(tag, g)
}

// tryAddConstraints installs f only if tag has no factory yet.
func (lc *lifecycle) tryAddConstraints(tag group, f factory) error {
	if g, ok := lc.groups[tag]; ok && g.factory != nil {
		return nil
	}
	return lc.setConstraints(tag, f)
}

// removeConstraints drops the factory for tag and its applied constraints.
func (lc *lifecycle) removeConstraints(tag group) error {
	g, ok := lc.groups[tag]
	if !ok {
		return nil
	}
	if lc.stage != nil {
		if err := lc.stage.adapter.remove(g.applied); err != nil {
			return err
		}
		lc.stage.Invalidate()
	}
	delete(lc.groups, tag)
	lc.order = slices.DeleteFunc(lc.order, func(t group) bool { return t == tag })
	return nil
}

// markPending flags groups for recomputation on the next apply.
func (lc *lifecycle) markPending(tags ...group) {
	for _, tag := range tags {
		if g, ok := lc.groups[tag]; ok {
			g.pending = true
		}
	}
	if lc.stage != nil {
		lc.stage.Invalidate()
	}
}

func (lc *lifecycle) hasPending() bool {
	for _, g := range lc.groups {
		if g.pending {
			return true
		}
	}
	return false
}

// applyConstraints recomputes every pending group in registration order and
// reports how many were recomputed.
func (lc *lifecycle) applyConstraints() (int, error) {
	if lc.stage == nil {
		return 0, nil
	}
	n := 0
	for _, tag := range lc.order {
		g := lc.groups[tag]
		if !g.pending {
			continue
		}
		if err := lc.recompute(tag, g); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// recompute builds the new set first so a failing factory leaves the old set
// applied, then swaps the sets. A solver rejection restores the old set.
func (lc *lifecycle) recompute(tag group, g *groupState) error {
	s := lc.stage
	if g.factory == nil {
		g.pending = false
		return nil
	}
	next, err := g.factory(s)
	if err != nil {
		return err
	}
	prev := g.applied
	if err := s.adapter.remove(prev); err != nil {
		return err
	}
	if err := s.adapter.add(next); err != nil {
		if rerr := s.adapter.add(prev); rerr != nil {
			g.applied = nil
			s.logger.Error("restore constraints", "element", lc.owner, "group", tag, "err", rerr)
		}
		s.hooks.OnSolverError(lc.owner, string(tag), err)
		return errors.Wrap(errors.GetCode(err), err, "element %q: %s constraints", lc.owner, tag)
	}
	lc.seq++
	g.applied = next
	g.seq = lc.seq
	g.pending = false
	s.markDirty()
	return nil
}

// detach removes every applied constraint, newest group first, and keeps the
// factories so a later attach recomputes them.
func (lc *lifecycle) detach() error {
	if lc.stage == nil {
		return nil
	}
	live := make([]*groupState, 0, len(lc.groups))
	for _, tag := range lc.order {
		if g := lc.groups[tag]; len(g.applied) > 0 {
			live = append(live, g)
		}
	}
	slices.SortFunc(live, func(a, b *groupState) int {
		switch {
		case a.seq > b.seq:
			return -1
		case a.seq < b.seq:
			return 1
		}
		return 0
	})
	for _, g := range live {
		if err := lc.stage.adapter.remove(g.applied); err != nil {
			return err
		}
		g.applied = nil
	}
	for _, g := range lc.groups {
		g.pending = true
	}
	return nil
}

func (lc *lifecycle) appliedCount() int {
	n := 0
	for _, g := range lc.groups {
		n += len(g.applied)
	}
	return n
}
