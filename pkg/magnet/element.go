package magnet

import (
	"github.com/matzehuels/magnet/pkg/errors"
	"github.com/matzehuels/magnet/pkg/solver"
)

// Kind identifies an element variant.
type Kind uint8

const (
	KindView Kind = iota
	KindGuideline
	KindBarrier
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindGuideline:
		return "guideline"
	case KindBarrier:
		return "barrier"
	default:
		return "view"
	}
}

// Element is a positioned unit on a stage: *View, *Guideline or *Barrier.
// The set is closed; the unexported methods keep other packages from adding
// variants.
type Element interface {
	ID() string
	Kind() Kind
	// Bounds returns the solved box. Guidelines and barriers span the stage
	// on the axis they do not position.
	Bounds() Rect

	core() *element
	pole(p Pole) (*solver.Variable, error)
	editVariables() []*solver.Variable
	// prepare runs before constraints are applied in a measure pass.
	prepare(s *Stage) error
	// finalize runs after a solve and reports whether it changed any
	// solver input.
	finalize(s *Stage) (bool, error)
}

// element carries the state shared by every variant.
type element struct {
	id string
	lc lifecycle
}

func newElement(id string) element {
	e := element{id: id, lc: newLifecycle()}
	e.lc.owner = id
	return e
}

// ID returns the element identifier.
func (e *element) ID() string { return e.id }

// SetID assigns the identifier. It can only be assigned once.
func (e *element) SetID(id string) error {
	if e.id != "" {
		return errors.New(errors.ErrCodeImmutable, "element id already set to %q", e.id)
	}
	if id == "" {
		return errors.New(errors.ErrCodeInvalidInput, "element id cannot be empty")
	}
	e.id = id
	e.lc.owner = id
	return nil
}

// Stage returns the stage the element is attached to, or nil.
func (e *element) Stage() *Stage { return e.lc.stage }

func (e *element) core() *element { return e }

func (e *element) invalidate(tags ...group) {
	e.lc.markPending(tags...)
}

// setStage moves el onto s, or off its stage when s is nil. Every applied
// constraint and edit variable is removed before detaching; attaching marks
// all groups pending so they materialize on the next apply.
func setStage(el Element, s *Stage) error {
	c := el.core()
	if c.lc.stage == s {
		return nil
	}
	if old := c.lc.stage; old != nil {
		if err := c.lc.detach(); err != nil {
			return err
		}
		for _, v := range el.editVariables() {
			if err := old.adapter.removeEdit(v); err != nil {
				return err
			}
		}
		c.lc.stage = nil
		old.Invalidate()
	}
	if s == nil {
		return nil
	}
	for _, v := range el.editVariables() {
		if err := s.adapter.addEdit(v, solver.Strong); err != nil {
			return err
		}
	}
	c.lc.stage = s
	for _, g := range c.lc.groups {
		g.pending = true
	}
	s.Invalidate()
	return nil
}

func axisPoles(a Axis, near, far *solver.Variable, p Pole, id string) (*solver.Variable, error) {
	if p.Axis() != a {
		return nil, errors.New(errors.ErrCodeInvalidPole, "element %q has no %s pole", id, p)
	}
	if p.IsLeading() {
		return near, nil
	}
	return far, nil
}
