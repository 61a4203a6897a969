package solver

import (
	"errors"
	"math"
	"testing"
)

func apply(s *Solver) {
	for _, v := range s.Variables() {
		v.SetValue(s.Value(v))
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func mustAdd(t *testing.T, s *Solver, c *Constraint) {
	t.Helper()
	if err := s.AddConstraint(c); err != nil {
		t.Fatalf("AddConstraint(%s): %v", c, err)
	}
}

func TestSolver_RequiredEquality(t *testing.T) {
	s := New()
	x := NewVariable("x")
	y := NewVariable("y")

	mustAdd(t, s, NewConstraint(Var(x), Eq, Const(20), Required))
	mustAdd(t, s, NewConstraint(Var(y), Eq, Var(x).Plus(10), Required))
	apply(s)

	if !approx(x.Value(), 20) {
		t.Errorf("x = %v, want 20", x.Value())
	}
	if !approx(y.Value(), 30) {
		t.Errorf("y = %v, want 30", y.Value())
	}
}

func TestSolver_StrengthOrdering(t *testing.T) {
	type tc struct {
		strongValue float64
		weakValue   float64
		want        float64
	}

	tests := map[string]tc{
		"strong beats weak": {strongValue: 10, weakValue: 50, want: 10},
		"strong wins even when equal distance": {strongValue: 70, weakValue: 30, want: 70},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := New()
			x := NewVariable("x")
			mustAdd(t, s, NewConstraint(Var(x), Eq, Const(tt.weakValue), Weak))
			mustAdd(t, s, NewConstraint(Var(x), Eq, Const(tt.strongValue), Strong))
			apply(s)
			if !approx(x.Value(), tt.want) {
				t.Errorf("x = %v, want %v", x.Value(), tt.want)
			}
		})
	}
}

func TestSolver_InequalityBoundsWeakPreference(t *testing.T) {
	s := New()
	x := NewVariable("x")

	mustAdd(t, s, NewConstraint(Var(x), LessOrEq, Const(40), Required))
	mustAdd(t, s, NewConstraint(Var(x), Eq, Const(100), Weak))
	apply(s)

	if !approx(x.Value(), 40) {
		t.Errorf("x = %v, want 40", x.Value())
	}
}

func TestSolver_EditVariable(t *testing.T) {
	s := New()
	width := NewVariable("width")
	half := NewVariable("half")

	if err := s.AddEditVariable(width, Strong); err != nil {
		t.Fatalf("AddEditVariable: %v", err)
	}
	mustAdd(t, s, NewConstraint(Scaled(half, 2), Eq, Var(width), Required))

	for _, w := range []float64{100, 300, 50} {
		if err := s.SuggestValue(width, w); err != nil {
			t.Fatalf("SuggestValue(%v): %v", w, err)
		}
		apply(s)
		if !approx(width.Value(), w) {
			t.Errorf("width = %v, want %v", width.Value(), w)
		}
		if !approx(half.Value(), w/2) {
			t.Errorf("half = %v, want %v", half.Value(), w/2)
		}
	}
}

func TestSolver_EditVariableErrors(t *testing.T) {
	s := New()
	v := NewVariable("v")

	if err := s.AddEditVariable(v, Required); !errors.Is(err, ErrBadRequiredStrength) {
		t.Errorf("AddEditVariable(Required) = %v, want ErrBadRequiredStrength", err)
	}
	if err := s.SuggestValue(v, 1); !errors.Is(err, ErrUnknownEditVariable) {
		t.Errorf("SuggestValue on non-edit = %v, want ErrUnknownEditVariable", err)
	}
	if err := s.AddEditVariable(v, Strong); err != nil {
		t.Fatalf("AddEditVariable: %v", err)
	}
	if err := s.AddEditVariable(v, Strong); !errors.Is(err, ErrDuplicateEditVariable) {
		t.Errorf("second AddEditVariable = %v, want ErrDuplicateEditVariable", err)
	}
	if err := s.RemoveEditVariable(v); err != nil {
		t.Errorf("RemoveEditVariable: %v", err)
	}
	if s.ConstraintCount() != 0 {
		t.Errorf("ConstraintCount = %d, want 0", s.ConstraintCount())
	}
}

func TestSolver_UnsatisfiableLeavesSolverUnchanged(t *testing.T) {
	s := New()
	x := NewVariable("x")
	y := NewVariable("y")

	mustAdd(t, s, NewConstraint(Var(x), Eq, Const(10), Required))
	mustAdd(t, s, NewConstraint(Var(y), Eq, Var(x), Required))
	before := s.ConstraintCount()

	err := s.AddConstraint(NewConstraint(Var(y), Eq, Const(20), Required))
	if !errors.Is(err, ErrUnsatisfiableConstraint) {
		t.Fatalf("AddConstraint = %v, want ErrUnsatisfiableConstraint", err)
	}
	if s.ConstraintCount() != before {
		t.Errorf("ConstraintCount = %d, want %d", s.ConstraintCount(), before)
	}

	apply(s)
	if !approx(x.Value(), 10) || !approx(y.Value(), 10) {
		t.Errorf("x, y = %v, %v, want 10, 10", x.Value(), y.Value())
	}
}

func TestSolver_RemoveConstraintRestoresCount(t *testing.T) {
	s := New()
	x := NewVariable("x")

	c1 := NewConstraint(Var(x), GreaterOrEq, Const(5), Required)
	c2 := NewConstraint(Var(x), Eq, Const(50), Medium)
	mustAdd(t, s, c1)
	mustAdd(t, s, c2)
	apply(s)
	if !approx(x.Value(), 50) {
		t.Errorf("x = %v, want 50", x.Value())
	}

	if err := s.RemoveConstraint(c2); err != nil {
		t.Fatalf("RemoveConstraint: %v", err)
	}
	if err := s.RemoveConstraint(c2); !errors.Is(err, ErrUnknownConstraint) {
		t.Errorf("second RemoveConstraint = %v, want ErrUnknownConstraint", err)
	}
	if err := s.AddConstraint(c1); !errors.Is(err, ErrDuplicateConstraint) {
		t.Errorf("duplicate AddConstraint = %v, want ErrDuplicateConstraint", err)
	}
	if err := s.RemoveConstraint(c1); err != nil {
		t.Fatalf("RemoveConstraint: %v", err)
	}
	if s.ConstraintCount() != 0 {
		t.Errorf("ConstraintCount = %d, want 0", s.ConstraintCount())
	}
}

func TestSolver_ValueAndVariables(t *testing.T) {
	s := New()
	x := NewVariable("x")
	y := NewVariable("y")
	unused := NewVariable("unused")

	c := NewConstraint(Var(y), Eq, Const(3), Required)
	mustAdd(t, s, NewConstraint(Var(x), Eq, Const(-2), Required))
	mustAdd(t, s, c)

	if got := s.Variables(); len(got) != 2 || got[0] != x || got[1] != y {
		t.Errorf("Variables = %v, want [x y]", got)
	}
	if s.Value(x) != -2 || s.Value(y) != 3 || s.Value(unused) != 0 {
		t.Errorf("Value(x, y, unused) = %v, %v, %v", s.Value(x), s.Value(y), s.Value(unused))
	}

	if err := s.RemoveConstraint(c); err != nil {
		t.Fatal(err)
	}
	if got := s.Variables(); len(got) != 1 || got[0] != x {
		t.Errorf("Variables after removal = %v, want [x]", got)
	}
}

func TestSolver_SuggestIsDeterministic(t *testing.T) {
	solve := func() []float64 {
		s := New()
		width := NewVariable("width")
		vars := make([]*Variable, 8)
		if err := s.AddEditVariable(width, Strong); err != nil {
			t.Fatal(err)
		}
		for i := range vars {
			vars[i] = NewVariable("v")
			mustAdd(t, s, NewConstraint(Var(vars[i]), LessOrEq, Var(width).Minus(float64(i)), Required))
			mustAdd(t, s, NewConstraint(Var(vars[i]), Eq, Const(50), Weak))
		}
		var out []float64
		for _, w := range []float64{100, 10, 60, 0} {
			if err := s.SuggestValue(width, w); err != nil {
				t.Fatal(err)
			}
			for _, v := range vars {
				out = append(out, s.Value(v))
			}
		}
		return out
	}

	want := solve()
	for range 10 {
		got := solve()
		for i := range want {
			if !approx(got[i], want[i]) {
				t.Fatalf("run differs at %d: %v, want %v", i, got[i], want[i])
			}
		}
	}
}

func TestSolver_RowSymbolsInCreationOrder(t *testing.T) {
	s := New()
	for i := range 6 {
		mustAdd(t, s, NewConstraint(Var(NewVariable("v")), GreaterOrEq, Const(float64(i)), Required))
	}
	syms := s.rowSymbols()
	for i := 1; i < len(syms); i++ {
		if syms[i-1].id >= syms[i].id {
			t.Fatalf("rowSymbols out of order: %v", syms)
		}
	}
}

func TestSolver_BiasInterpolation(t *testing.T) {
	// near + bias·(far − near) with span 20 between targets 0 and 100.
	s := New()
	left := NewVariable("left")
	right := NewVariable("right")
	bias := 0.25

	mustAdd(t, s, NewConstraint(Var(right).Sub(Var(left)), Eq, Const(20), Weak))
	mustAdd(t, s, NewConstraint(
		Scaled(right, bias),
		Eq,
		Const(0*(1-bias)+100*bias).AddVar(left, bias-1),
		Required))
	apply(s)

	if !approx(left.Value(), 20) || !approx(right.Value(), 40) {
		t.Errorf("left, right = %v, %v, want 20, 40", left.Value(), right.Value())
	}
}

func TestExpression_Reduced(t *testing.T) {
	x := NewVariable("x")
	c := NewConstraint(Var(x).Add(Var(x)), Eq, Scaled(x, 2).Plus(4), Required)
	expr := c.Expression()
	if len(expr.Terms) != 0 {
		t.Errorf("Terms = %v, want none", expr.Terms)
	}
	if expr.Constant != -4 {
		t.Errorf("Constant = %v, want -4", expr.Constant)
	}
}

func TestStrength_String(t *testing.T) {
	tests := map[Strength]string{
		Required: "required",
		Strong:   "strong",
		Medium:   "medium",
		Weak:     "weak",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
