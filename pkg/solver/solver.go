package solver

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

type tag struct {
	marker symbol
	other  symbol
}

type editInfo struct {
	tag        tag
	constraint *Constraint
	constant   float64
}

type varInfo struct {
	sym  symbol
	refs int
}

// Solver is an incremental Cassowary solver.
type Solver struct {
	nextID     uint64
	cns        map[*Constraint]tag
	rows       map[symbol]*row
	vars       map[*Variable]*varInfo
	varOrder   []*Variable
	edits      map[*Variable]*editInfo
	infeasible []symbol
	objective  *row
	artificial *row
}

// New returns an empty solver.
func New() *Solver {
	return &Solver{
		cns:       make(map[*Constraint]tag),
		rows:      make(map[symbol]*row),
		vars:      make(map[*Variable]*varInfo),
		edits:     make(map[*Variable]*editInfo),
		objective: newRow(0),
	}
}

// ConstraintCount returns the number of constraints held by the solver,
// including the implicit constraints of edit variables.
func (s *Solver) ConstraintCount() int {
	return len(s.cns)
}

// HasConstraint reports whether c has been added.
func (s *Solver) HasConstraint(c *Constraint) bool {
	_, ok := s.cns[c]
	return ok
}

// HasEditVariable reports whether v is an edit variable.
func (s *Solver) HasEditVariable(v *Variable) bool {
	_, ok := s.edits[v]
	return ok
}

// AddConstraint adds c to the solver and re-optimizes.
// A required constraint that conflicts with existing required constraints
// is rejected with [ErrUnsatisfiableConstraint] and leaves the solver unchanged.
func (s *Solver) AddConstraint(c *Constraint) error {
	if _, ok := s.cns[c]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateConstraint, c)
	}

	t, r := s.createRow(c)
	subject := s.chooseSubject(r, t)

	if !subject.valid() && r.allDummies() {
		if !nearZero(r.constant) {
			s.dropMarker(t)
			s.release(c)
			return fmt.Errorf("%w: %s", ErrUnsatisfiableConstraint, c)
		}
		subject = t.marker
	}

	if !subject.valid() {
		snap := s.snapshot()
		ok, err := s.addWithArtificialVariable(r)
		if err != nil || !ok {
			s.restore(snap)
			s.dropMarker(t)
			s.release(c)
			if err != nil {
				return err
			}
			return fmt.Errorf("%w: %s", ErrUnsatisfiableConstraint, c)
		}
	} else {
		r.solveFor(subject)
		s.substitute(subject, r)
		s.rows[subject] = r
	}

	s.cns[c] = t
	return s.optimize(s.objective)
}

// RemoveConstraint removes c and re-optimizes.
func (s *Solver) RemoveConstraint(c *Constraint) error {
	t, ok := s.cns[c]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownConstraint, c)
	}
	delete(s.cns, c)
	s.removeConstraintEffects(c, t)

	if _, ok := s.rows[t.marker]; ok {
		delete(s.rows, t.marker)
	} else {
		leaving, r, found := s.markerLeavingRow(t.marker)
		if !found {
			return fmt.Errorf("%w: failed to find leaving row", ErrInternal)
		}
		delete(s.rows, leaving)
		r.solveForPair(leaving, t.marker)
		s.substitute(t.marker, r)
	}
	s.release(c)
	return s.optimize(s.objective)
}

// AddEditVariable makes v suggestable at the given (non-required) strength.
func (s *Solver) AddEditVariable(v *Variable, strength Strength) error {
	if _, ok := s.edits[v]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEditVariable, v)
	}
	strength = strength.clip()
	if strength.IsRequired() {
		return ErrBadRequiredStrength
	}
	c := NewConstraint(Var(v), Eq, Const(0), strength)
	if err := s.AddConstraint(c); err != nil {
		return err
	}
	s.edits[v] = &editInfo{tag: s.cns[c], constraint: c}
	return nil
}

// RemoveEditVariable removes the edit constraint for v.
func (s *Solver) RemoveEditVariable(v *Variable) error {
	info, ok := s.edits[v]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEditVariable, v)
	}
	if err := s.RemoveConstraint(info.constraint); err != nil {
		return err
	}
	delete(s.edits, v)
	return nil
}

// SuggestValue suggests a value for the edit variable v and re-solves with
// the dual simplex.
func (s *Solver) SuggestValue(v *Variable, value float64) error {
	info, ok := s.edits[v]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEditVariable, v)
	}

	delta := value - info.constant
	info.constant = value

	if r, ok := s.rows[info.tag.marker]; ok {
		if r.add(-delta) < 0 {
			s.infeasible = append(s.infeasible, info.tag.marker)
		}
		return s.dualOptimize()
	}
	if r, ok := s.rows[info.tag.other]; ok {
		if r.add(delta) < 0 {
			s.infeasible = append(s.infeasible, info.tag.other)
		}
		return s.dualOptimize()
	}
	for _, sym := range s.rowSymbols() {
		r := s.rows[sym]
		coeff := r.coefficientFor(info.tag.marker)
		if coeff != 0 && r.add(delta*coeff) < 0 && sym.kind != externalSymbol {
			s.infeasible = append(s.infeasible, sym)
		}
	}
	return s.dualOptimize()
}

// Value returns the solved value of v. Variables no constraint references
// solve to 0.
func (s *Solver) Value(v *Variable) float64 {
	info, ok := s.vars[v]
	if !ok || info.refs == 0 {
		return 0
	}
	r, ok := s.rows[info.sym]
	if !ok || nearZero(r.constant) {
		return 0
	}
	return r.constant
}

// Variables returns the variables referenced by at least one constraint, in
// the order the solver first saw them.
func (s *Solver) Variables() []*Variable {
	vars := make([]*Variable, 0, len(s.varOrder))
	for _, v := range s.varOrder {
		if s.vars[v].refs > 0 {
			vars = append(vars, v)
		}
	}
	return vars
}

// rowSymbols returns the basic symbols in creation order, so every pass
// that queues infeasible rows does so deterministically.
func (s *Solver) rowSymbols() []symbol {
	syms := make([]symbol, 0, len(s.rows))
	for sym := range s.rows {
		syms = append(syms, sym)
	}
	slices.SortFunc(syms, func(a, b symbol) int { return cmp.Compare(a.id, b.id) })
	return syms
}

func (s *Solver) newSymbol(kind symbolKind) symbol {
	s.nextID++
	return symbol{id: s.nextID, kind: kind}
}

func (s *Solver) varSymbol(v *Variable) symbol {
	info, ok := s.vars[v]
	if !ok {
		info = &varInfo{sym: s.newSymbol(externalSymbol)}
		s.vars[v] = info
		s.varOrder = append(s.varOrder, v)
	}
	return info.sym
}

// retain bumps the reference counts of every variable in c.
func (s *Solver) retain(c *Constraint) {
	for _, t := range c.expr.Terms {
		s.vars[t.Variable].refs++
	}
}

// release drops the reference counts taken by createRow.
func (s *Solver) release(c *Constraint) {
	for _, t := range c.expr.Terms {
		if info, ok := s.vars[t.Variable]; ok && info.refs > 0 {
			info.refs--
		}
	}
}

type snapshot struct {
	rows       map[symbol]*row
	objective  *row
	infeasible []symbol
}

// snapshot deep-copies the tableau so a rejected constraint can be rolled back.
func (s *Solver) snapshot() snapshot {
	rows := make(map[symbol]*row, len(s.rows))
	for sym, r := range s.rows {
		rows[sym] = r.clone()
	}
	return snapshot{
		rows:       rows,
		objective:  s.objective.clone(),
		infeasible: slices.Clone(s.infeasible),
	}
}

func (s *Solver) restore(snap snapshot) {
	s.rows = snap.rows
	s.objective = snap.objective
	s.infeasible = snap.infeasible
	s.artificial = nil
}

// dropMarker removes the marker symbols of a rejected constraint from the
// objective so they cannot be chosen as entering symbols later.
func (s *Solver) dropMarker(t tag) {
	s.objective.remove(t.marker)
	s.objective.remove(t.other)
}

func (s *Solver) createRow(c *Constraint) (tag, *row) {
	expr := c.expr
	r := newRow(expr.Constant)
	for _, term := range expr.Terms {
		if nearZero(term.Coefficient) {
			continue
		}
		sym := s.varSymbol(term.Variable)
		if basic, ok := s.rows[sym]; ok {
			r.insertRow(basic, term.Coefficient)
		} else {
			r.insertSymbol(sym, term.Coefficient)
		}
	}
	s.retain(c)

	var t tag
	strength := float64(c.strength)
	switch c.op {
	case LessOrEq, GreaterOrEq:
		coeff := 1.0
		if c.op == GreaterOrEq {
			coeff = -1.0
		}
		slack := s.newSymbol(slackSymbol)
		t.marker = slack
		r.insertSymbol(slack, coeff)
		if !c.strength.IsRequired() {
			errSym := s.newSymbol(errorSymbol)
			t.other = errSym
			r.insertSymbol(errSym, -coeff)
			s.objective.insertSymbol(errSym, strength)
		}
	case Eq:
		if !c.strength.IsRequired() {
			plus := s.newSymbol(errorSymbol)
			minus := s.newSymbol(errorSymbol)
			t.marker = plus
			t.other = minus
			r.insertSymbol(plus, -1.0)
			r.insertSymbol(minus, 1.0)
			s.objective.insertSymbol(plus, strength)
			s.objective.insertSymbol(minus, strength)
		} else {
			dummy := s.newSymbol(dummySymbol)
			t.marker = dummy
			r.insertSymbol(dummy, 1.0)
		}
	}

	if r.constant < 0 {
		r.reverseSign()
	}
	return t, r
}

func (s *Solver) chooseSubject(r *row, t tag) symbol {
	var best symbol
	for sym := range r.cells {
		if sym.kind == externalSymbol && (!best.valid() || sym.id < best.id) {
			best = sym
		}
	}
	if best.valid() {
		return best
	}
	if t.marker.kind == slackSymbol || t.marker.kind == errorSymbol {
		if r.coefficientFor(t.marker) < 0 {
			return t.marker
		}
	}
	if t.other.kind == slackSymbol || t.other.kind == errorSymbol {
		if r.coefficientFor(t.other) < 0 {
			return t.other
		}
	}
	return symbol{}
}

func (s *Solver) addWithArtificialVariable(r *row) (bool, error) {
	art := s.newSymbol(slackSymbol)
	s.rows[art] = r.clone()
	s.artificial = r.clone()

	if err := s.optimize(s.artificial); err != nil {
		s.artificial = nil
		return false, err
	}
	success := nearZero(s.artificial.constant)
	s.artificial = nil

	if basic, ok := s.rows[art]; ok {
		delete(s.rows, art)
		if len(basic.cells) == 0 {
			return success, nil
		}
		entering := anyPivotableSymbol(basic)
		if !entering.valid() {
			return false, nil
		}
		basic.solveForPair(art, entering)
		s.substitute(entering, basic)
		s.rows[entering] = basic
	}

	for _, rr := range s.rows {
		rr.remove(art)
	}
	s.objective.remove(art)
	return success, nil
}

func (s *Solver) substitute(sym symbol, r *row) {
	for _, k := range s.rowSymbols() {
		rr := s.rows[k]
		rr.substitute(sym, r)
		if k.kind != externalSymbol && rr.constant < 0 {
			s.infeasible = append(s.infeasible, k)
		}
	}
	s.objective.substitute(sym, r)
	if s.artificial != nil {
		s.artificial.substitute(sym, r)
	}
}

func (s *Solver) optimize(objective *row) error {
	for {
		entering := enteringSymbol(objective)
		if !entering.valid() {
			return nil
		}
		leaving, r, found := s.leavingRow(entering)
		if !found {
			return fmt.Errorf("%w: objective is unbounded", ErrInternal)
		}
		delete(s.rows, leaving)
		r.solveForPair(leaving, entering)
		s.substitute(entering, r)
		s.rows[entering] = r
	}
}

func (s *Solver) dualOptimize() error {
	for len(s.infeasible) > 0 {
		leaving := s.infeasible[len(s.infeasible)-1]
		s.infeasible = s.infeasible[:len(s.infeasible)-1]

		r, ok := s.rows[leaving]
		if !ok || nearZero(r.constant) || r.constant >= 0 {
			continue
		}
		entering := s.dualEnteringSymbol(r)
		if !entering.valid() {
			return fmt.Errorf("%w: dual optimize failed", ErrInternal)
		}
		delete(s.rows, leaving)
		r.solveForPair(leaving, entering)
		s.substitute(entering, r)
		s.rows[entering] = r
	}
	return nil
}

// enteringSymbol picks the lowest-id non-dummy symbol with a negative
// objective coefficient (Bland's rule).
func enteringSymbol(objective *row) symbol {
	var best symbol
	for sym, coeff := range objective.cells {
		if sym.kind != dummySymbol && coeff < 0 && (!best.valid() || sym.id < best.id) {
			best = sym
		}
	}
	return best
}

func (s *Solver) dualEnteringSymbol(r *row) symbol {
	var entering symbol
	ratio := math.MaxFloat64
	for sym, coeff := range r.cells {
		if coeff <= 0 || sym.kind == dummySymbol {
			continue
		}
		q := s.objective.coefficientFor(sym) / coeff
		if q < ratio || (q == ratio && entering.valid() && sym.id < entering.id) {
			ratio = q
			entering = sym
		}
	}
	return entering
}

func anyPivotableSymbol(r *row) symbol {
	var best symbol
	for sym := range r.cells {
		if (sym.kind == slackSymbol || sym.kind == errorSymbol) && (!best.valid() || sym.id < best.id) {
			best = sym
		}
	}
	return best
}

func (s *Solver) leavingRow(entering symbol) (symbol, *row, bool) {
	ratio := math.MaxFloat64
	var found symbol
	var foundRow *row
	for sym, r := range s.rows {
		if sym.kind == externalSymbol {
			continue
		}
		coeff := r.coefficientFor(entering)
		if coeff >= 0 {
			continue
		}
		q := -r.constant / coeff
		if q < ratio || (q == ratio && sym.id < found.id) {
			ratio = q
			found = sym
			foundRow = r
		}
	}
	return found, foundRow, foundRow != nil
}

func (s *Solver) markerLeavingRow(marker symbol) (symbol, *row, bool) {
	r1, r2 := math.MaxFloat64, math.MaxFloat64
	var first, second, third symbol
	var firstRow, secondRow, thirdRow *row
	for sym, r := range s.rows {
		c := r.coefficientFor(marker)
		if c == 0 {
			continue
		}
		switch {
		case sym.kind == externalSymbol:
			if thirdRow == nil || sym.id < third.id {
				third, thirdRow = sym, r
			}
		case c < 0:
			q := -r.constant / c
			if q < r1 || (q == r1 && sym.id < first.id) {
				r1 = q
				first, firstRow = sym, r
			}
		default:
			q := r.constant / c
			if q < r2 || (q == r2 && sym.id < second.id) {
				r2 = q
				second, secondRow = sym, r
			}
		}
	}
	switch {
	case firstRow != nil:
		return first, firstRow, true
	case secondRow != nil:
		return second, secondRow, true
	case thirdRow != nil:
		return third, thirdRow, true
	}
	return symbol{}, nil, false
}

func (s *Solver) removeConstraintEffects(c *Constraint, t tag) {
	if t.marker.kind == errorSymbol {
		s.removeMarkerEffects(t.marker, c.strength)
	}
	if t.other.kind == errorSymbol {
		s.removeMarkerEffects(t.other, c.strength)
	}
}

func (s *Solver) removeMarkerEffects(marker symbol, strength Strength) {
	if r, ok := s.rows[marker]; ok {
		s.objective.insertRow(r, -float64(strength))
	} else {
		s.objective.insertSymbol(marker, -float64(strength))
	}
}
