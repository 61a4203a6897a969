package magnet

import (
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/magnet/pkg/errors"
	"github.com/matzehuels/magnet/pkg/observability"
	"github.com/matzehuels/magnet/pkg/solver"
)

// StageID is the reserved id pull targets use to reference the stage.
const StageID = errors.ReservedStageID

// MissingTargetPolicy decides what happens when a pull target or barrier
// member names an element that is not on the stage.
type MissingTargetPolicy uint8

const (
	// MissingTargetStrict fails with UNDEFINED_TARGET while the host still
	// resolves a view for the missing id. Targets without a host view fall
	// back to no anchor.
	MissingTargetStrict MissingTargetPolicy = iota
	// MissingTargetLenient falls back to no anchor for missing elements
	// too.
	MissingTargetLenient
)

// String returns "strict" or "lenient".
func (p MissingTargetPolicy) String() string {
	if p == MissingTargetLenient {
		return "lenient"
	}
	return "strict"
}

// ParseMissingTargetPolicy parses "strict" or "lenient".
func ParseMissingTargetPolicy(s string) (MissingTargetPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return MissingTargetStrict, nil
	case "lenient":
		return MissingTargetLenient, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown missing-target policy %q", s)
}

// Option configures a Stage.
type Option func(*Stage)

// WithViewSource sets where host views are looked up.
func WithViewSource(vs ViewSource) Option {
	return func(s *Stage) { s.views = vs }
}

// WithMissingTargetPolicy sets the missing-target policy.
func WithMissingTargetPolicy(p MissingTargetPolicy) Option {
	return func(s *Stage) { s.policy = p }
}

// WithLogger sets the logger for pass and re-measure events.
func WithLogger(l *log.Logger) Option {
	return func(s *Stage) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHooks sets the layout hooks. The default is observability.Layout().
func WithHooks(h observability.LayoutHooks) Option {
	return func(s *Stage) {
		if h != nil {
			s.hooks = h
		}
	}
}

// Stage is the layout root. It owns the solver, its boundary variables and
// the elements placed on it. A Stage is not safe for concurrent use.
type Stage struct {
	adapter *solverAdapter

	left, top, right, bottom *solver.Variable
	shrink                   [2]*solver.Variable

	elements []Element
	index    map[string]Element

	views  ViewSource
	policy MissingTargetPolicy
	logger *log.Logger
	hooks  observability.LayoutHooks

	state       PassState
	needsLayout bool
	available   Size
	measured    Size
}

// NewStage returns an empty stage.
func NewStage(opts ...Option) *Stage {
	s := &Stage{
		adapter:     newSolverAdapter(),
		left:        solver.NewVariable("Stage.Left"),
		top:         solver.NewVariable("Stage.Top"),
		right:       solver.NewVariable("Stage.Right"),
		bottom:      solver.NewVariable("Stage.Bottom"),
		shrink:      [2]*solver.Variable{solver.NewVariable("Stage.ShrinkWidth"), solver.NewVariable("Stage.ShrinkHeight")},
		logger:      log.New(io.Discard),
		hooks:       observability.Layout(),
		needsLayout: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	// These cannot fail on a fresh solver.
	_ = s.adapter.add([]*solver.Constraint{
		solver.NewConstraint(solver.Var(s.left), solver.Eq, solver.Const(0), solver.Required),
		solver.NewConstraint(solver.Var(s.top), solver.Eq, solver.Const(0), solver.Required),
	})
	for _, v := range []*solver.Variable{s.right, s.bottom, s.shrink[Horizontal], s.shrink[Vertical]} {
		_ = s.adapter.addEdit(v, solver.Strong)
	}
	return s
}

// ID returns StageID.
func (s *Stage) ID() string { return StageID }

// Add places elements on the stage. Ids must be valid and unique among the
// stage's elements, ignoring case. Constraints materialize on the next
// measure pass, so elements may reference each other in any order.
func (s *Stage) Add(els ...Element) error {
	seen := make(map[string]bool, len(els))
	for _, el := range els {
		if el == nil {
			return errors.New(errors.ErrCodeInvalidInput, "nil element")
		}
		if err := errors.ValidateElementID(el.ID()); err != nil {
			return err
		}
		key := strings.ToLower(el.ID())
		if _, dup := s.Element(el.ID()); dup || seen[key] {
			return errors.New(errors.ErrCodeDuplicateID, "duplicate element id %q", el.ID())
		}
		if el.core().lc.stage != nil {
			return errors.New(errors.ErrCodeInvalidInput, "element %q is already on a stage", el.ID())
		}
		seen[key] = true
	}

	for _, el := range els {
		if err := setStage(el, s); err != nil {
			return err
		}
		s.elements = append(s.elements, el)
		s.logger.Debug("element added", "element", el.ID(), "kind", el.Kind())
	}
	s.index = nil
	s.invalidatePositions()
	return nil
}

// Remove takes an element off the stage, removing every constraint it added.
func (s *Stage) Remove(id string) error {
	el, ok := s.Element(id)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "element %q not found", id)
	}
	if err := setStage(el, nil); err != nil {
		return err
	}
	s.elements = slices.DeleteFunc(s.elements, func(e Element) bool { return e == el })
	s.index = nil
	s.invalidatePositions()
	s.logger.Debug("element removed", "element", id)
	return nil
}

// Element looks an element up by id, ignoring case.
func (s *Stage) Element(id string) (Element, bool) {
	if s.index == nil {
		s.index = make(map[string]Element, len(s.elements))
		for _, el := range s.elements {
			s.index[strings.ToLower(el.ID())] = el
		}
	}
	el, ok := s.index[strings.ToLower(id)]
	return el, ok
}

// View looks a view element up by id.
func (s *Stage) View(id string) (*View, bool) {
	el, ok := s.Element(id)
	if !ok {
		return nil, false
	}
	v, ok := el.(*View)
	return v, ok
}

// Elements returns the elements in insertion order.
func (s *Stage) Elements() []Element {
	return slices.Clone(s.elements)
}

// Len returns the number of elements.
func (s *Stage) Len() int { return len(s.elements) }

// ConstraintCount returns the number of constraints in the solver,
// including the stage's own.
func (s *Stage) ConstraintCount() int { return s.adapter.constraintCount() }

// Policy returns the missing-target policy.
func (s *Stage) Policy() MissingTargetPolicy { return s.policy }

// Invalidate schedules a layout pass. It never solves.
func (s *Stage) Invalidate() { s.needsLayout = true }

// NeedsLayout reports whether anything changed since the last measure pass:
// an invalidation, a constraint group recomputed outside a pass, or a group
// still waiting to be recomputed.
func (s *Stage) NeedsLayout() bool {
	if s.needsLayout {
		return true
	}
	for _, el := range s.elements {
		if el.core().lc.hasPending() {
			return true
		}
	}
	return false
}

// Bounds returns the solved stage box.
func (s *Stage) Bounds() Rect {
	return rectFromPoles(s.left.Value(), s.top.Value(), s.right.Value(), s.bottom.Value())
}

// ApplyConstraints recomputes every pending constraint group and returns how
// many groups were recomputed. Applying twice without an intervening change
// recomputes nothing the second time.
func (s *Stage) ApplyConstraints() (int, error) {
	total := 0
	for _, el := range s.elements {
		n, err := el.core().lc.applyConstraints()
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// invalidatePositions marks every group of every element pending. Pulls,
// margins and visibility of one element feed the constraints of others.
func (s *Stage) invalidatePositions() {
	for _, el := range s.elements {
		for tag, g := range el.core().lc.groups {
			if tag != groupIdentity {
				g.pending = true
			}
		}
	}
	s.Invalidate()
}

func (s *Stage) busy() bool {
	switch s.state {
	case PassMeasuring, PassArranging, PassArranged:
		return true
	}
	return s.adapter.fetching
}

// markDirty records that the solver's constraints changed, so the solved
// values no longer match what the host last arranged.
func (s *Stage) markDirty() { s.needsLayout = true }

// toleratesMissing reports whether a reference to id, which names no element
// on the stage, falls back to no anchor. Under the strict policy that only
// happens while the host cannot resolve a view for id either.
func (s *Stage) toleratesMissing(id string) bool {
	if s.policy == MissingTargetLenient {
		return true
	}
	_, ok := s.lookupView(id)
	return !ok
}

func (s *Stage) lookupView(id string) (HostView, bool) {
	if s.views == nil {
		return nil, false
	}
	return s.views.LookupView(id)
}

func (s *Stage) pole(p Pole) *solver.Variable {
	switch p {
	case PoleLeft:
		return s.left
	case PoleTop:
		return s.top
	case PoleRight:
		return s.right
	default:
		return s.bottom
	}
}

func (s *Stage) span(a Axis) solver.Expression {
	near, far := a.Poles()
	return solver.Var(s.pole(far)).Sub(solver.Var(s.pole(near)))
}

func (s *Stage) shrinkVar(a Axis) *solver.Variable { return s.shrink[a] }

func isStageID(id string) bool { return strings.EqualFold(id, StageID) }

func equalIDs(a, b string) bool { return strings.EqualFold(a, b) }
