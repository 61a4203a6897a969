package solver

import (
	"strconv"
	"strings"
)

// Variable is an unknown the solver assigns a value to.
//
// The value is only updated when a caller writes back [Solver.Value] with
// [Variable.SetValue].
type Variable struct {
	name  string
	value float64
}

// NewVariable creates a variable with the given debug name.
func NewVariable(name string) *Variable {
	return &Variable{name: name}
}

// Name returns the debug name of the variable.
func (v *Variable) Name() string { return v.name }

// Value returns the last value written onto the variable.
func (v *Variable) Value() float64 { return v.value }

// SetValue records a solved value.
func (v *Variable) SetValue(value float64) { v.value = value }

// String implements fmt.Stringer.
func (v *Variable) String() string { return v.name }

// Term is a variable scaled by a coefficient.
type Term struct {
	Variable    *Variable
	Coefficient float64
}

// Expression is a sum of terms plus a constant.
// Expressions are values; every builder method returns a new expression.
type Expression struct {
	Terms    []Term
	Constant float64
}

// Var returns the expression 1·v.
func Var(v *Variable) Expression {
	return Expression{Terms: []Term{{Variable: v, Coefficient: 1}}}
}

// Const returns a constant expression.
func Const(c float64) Expression {
	return Expression{Constant: c}
}

// Scaled returns the expression c·v.
func Scaled(v *Variable, c float64) Expression {
	return Expression{Terms: []Term{{Variable: v, Coefficient: c}}}
}

// Add returns e + other.
func (e Expression) Add(other Expression) Expression {
	terms := make([]Term, 0, len(e.Terms)+len(other.Terms))
	terms = append(terms, e.Terms...)
	terms = append(terms, other.Terms...)
	return Expression{Terms: terms, Constant: e.Constant + other.Constant}
}

// Sub returns e − other.
func (e Expression) Sub(other Expression) Expression {
	return e.Add(other.Mul(-1))
}

// Mul returns e scaled by c.
func (e Expression) Mul(c float64) Expression {
	terms := make([]Term, len(e.Terms))
	for i, t := range e.Terms {
		terms[i] = Term{Variable: t.Variable, Coefficient: t.Coefficient * c}
	}
	return Expression{Terms: terms, Constant: e.Constant * c}
}

// Plus returns e + c.
func (e Expression) Plus(c float64) Expression {
	return Expression{Terms: e.Terms, Constant: e.Constant + c}
}

// Minus returns e − c.
func (e Expression) Minus(c float64) Expression {
	return e.Plus(-c)
}

// AddVar returns e + c·v.
func (e Expression) AddVar(v *Variable, c float64) Expression {
	return e.Add(Scaled(v, c))
}

// Value evaluates the expression with the variables' current values.
func (e Expression) Value() float64 {
	sum := e.Constant
	for _, t := range e.Terms {
		sum += t.Coefficient * t.Variable.value
	}
	return sum
}

// reduced merges duplicate variables and drops zero coefficients.
func (e Expression) reduced() Expression {
	order := make([]*Variable, 0, len(e.Terms))
	coeffs := make(map[*Variable]float64, len(e.Terms))
	for _, t := range e.Terms {
		if _, ok := coeffs[t.Variable]; !ok {
			order = append(order, t.Variable)
		}
		coeffs[t.Variable] += t.Coefficient
	}
	terms := make([]Term, 0, len(order))
	for _, v := range order {
		if c := coeffs[v]; !nearZero(c) {
			terms = append(terms, Term{Variable: v, Coefficient: c})
		}
	}
	return Expression{Terms: terms, Constant: e.Constant}
}

// String renders the expression as "2·a + -1·b + 3".
func (e Expression) String() string {
	var b strings.Builder
	for i, t := range e.Terms {
		if i > 0 {
			b.WriteString(" + ")
		}
		b.WriteString(formatFloat(t.Coefficient))
		b.WriteString("·")
		b.WriteString(t.Variable.name)
	}
	if len(e.Terms) == 0 || e.Constant != 0 {
		if len(e.Terms) > 0 {
			b.WriteString(" + ")
		}
		b.WriteString(formatFloat(e.Constant))
	}
	return b.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
