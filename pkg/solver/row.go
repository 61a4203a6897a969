package solver

import "math"

const epsilon = 1.0e-8

func nearZero(v float64) bool {
	return math.Abs(v) < epsilon
}

type symbolKind uint8

const (
	invalidSymbol symbolKind = iota
	externalSymbol
	slackSymbol
	errorSymbol
	dummySymbol
)

// symbol is a tableau column. ids increase with creation order and break
// ties during pivot selection.
type symbol struct {
	id   uint64
	kind symbolKind
}

func (s symbol) valid() bool { return s.kind != invalidSymbol }

// row is a linear expression "constant + Σ coeff·symbol".
type row struct {
	constant float64
	cells    map[symbol]float64
}

func newRow(constant float64) *row {
	return &row{constant: constant, cells: make(map[symbol]float64)}
}

func (r *row) clone() *row {
	c := newRow(r.constant)
	for s, v := range r.cells {
		c.cells[s] = v
	}
	return c
}

func (r *row) add(v float64) float64 {
	r.constant += v
	return r.constant
}

func (r *row) insertSymbol(s symbol, coeff float64) {
	v := r.cells[s] + coeff
	if nearZero(v) {
		delete(r.cells, s)
		return
	}
	r.cells[s] = v
}

func (r *row) insertRow(other *row, coeff float64) {
	r.constant += other.constant * coeff
	for s, v := range other.cells {
		r.insertSymbol(s, v*coeff)
	}
}

func (r *row) remove(s symbol) {
	delete(r.cells, s)
}

func (r *row) reverseSign() {
	r.constant = -r.constant
	for s, v := range r.cells {
		r.cells[s] = -v
	}
}

// solveFor rewrites "0 = r" as "s = r'" and removes s from the row.
func (r *row) solveFor(s symbol) {
	coeff := -1.0 / r.cells[s]
	delete(r.cells, s)
	r.constant *= coeff
	for k, v := range r.cells {
		r.cells[k] = v * coeff
	}
}

// solveForPair rewrites "lhs = r" as "rhs = r'".
func (r *row) solveForPair(lhs, rhs symbol) {
	r.insertSymbol(lhs, -1.0)
	r.solveFor(rhs)
}

func (r *row) coefficientFor(s symbol) float64 {
	return r.cells[s]
}

func (r *row) substitute(s symbol, other *row) {
	if coeff, ok := r.cells[s]; ok {
		delete(r.cells, s)
		r.insertRow(other, coeff)
	}
}

func (r *row) allDummies() bool {
	for s := range r.cells {
		if s.kind != dummySymbol {
			return false
		}
	}
	return true
}
