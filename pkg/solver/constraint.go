package solver

// Operator is the relation of a constraint.
type Operator uint8

const (
	Eq          Operator = iota // lhs == rhs
	LessOrEq                    // lhs <= rhs
	GreaterOrEq                 // lhs >= rhs
)

// String returns the relational symbol.
func (op Operator) String() string {
	switch op {
	case LessOrEq:
		return "<="
	case GreaterOrEq:
		return ">="
	default:
		return "=="
	}
}

// Constraint is an immutable relation "expression op 0" with a strength.
// Constraints are compared by identity.
type Constraint struct {
	expr     Expression
	op       Operator
	strength Strength
}

// NewConstraint builds the constraint "lhs op rhs" at the given strength.
func NewConstraint(lhs Expression, op Operator, rhs Expression, strength Strength) *Constraint {
	return &Constraint{
		expr:     lhs.Sub(rhs).reduced(),
		op:       op,
		strength: strength.clip(),
	}
}

// Expression returns the reduced expression (lhs − rhs).
func (c *Constraint) Expression() Expression { return c.expr }

// Operator returns the relation.
func (c *Constraint) Operator() Operator { return c.op }

// Strength returns the constraint strength.
func (c *Constraint) Strength() Strength { return c.strength }

// String implements fmt.Stringer.
func (c *Constraint) String() string {
	return c.expr.String() + " " + c.op.String() + " 0 | " + c.strength.String()
}
