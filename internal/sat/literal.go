package sat

import "fmt"

// Var identifies a propositional variable. Variables are allocated
// densely starting at 0 by Solver.NewVar.
type Var int32

// Literal represents a variable together with a polarity. It is encoded
// as 2*var + sign so that negation is a single XOR and the encoding can
// be used directly to index per-literal slices (watch lists, assigns).
type Literal int32

// VarID returns the variable underlying the literal.
func (l Literal) VarID() Var {
	return Var(l >> 1)
}

// IsPositive reports whether l is the variable's positive occurrence.
func (l Literal) IsPositive() bool {
	return l&1 == 0
}

// Opposite returns the negation of l.
func (l Literal) Opposite() Literal {
	return l ^ 1
}

// PositiveLiteral returns the positive literal of variable v.
func PositiveLiteral(v Var) Literal {
	return Literal(v << 1)
}

// NegativeLiteral returns the negative literal of variable v.
func NegativeLiteral(v Var) Literal {
	return PositiveLiteral(v).Opposite()
}

// MkLiteral returns the literal of v with the given sign (true = negated).
func MkLiteral(v Var, negated bool) Literal {
	if negated {
		return NegativeLiteral(v)
	}
	return PositiveLiteral(v)
}

func (l Literal) String() string {
	if l.IsPositive() {
		return fmt.Sprintf("%d", l.VarID())
	}
	return fmt.Sprintf("-%d", l.VarID())
}

// LitUndef is the sentinel used wherever no literal applies (e.g. the
// implicit conflict pseudo-literal at the start of conflict analysis).
const LitUndef Literal = -1
