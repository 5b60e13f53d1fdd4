// Package cnf holds the immutable formula representation: literals, clauses
// and the formula they form once loaded. Nothing in this package mutates
// after a Formula has been built.
package cnf

import "fmt"

// Literal is a signed reference to a Boolean variable. Variables are dense
// and 1-indexed (as in DIMACS); a Literal packs the variable id and its
// polarity into a single comparable value so it can be used directly as a
// slice index into per-literal tables (watch lists, assignment arrays).
//
// Encoding follows the teacher corpus's dense doubling scheme: variable v's
// positive literal is 2*v, its negative literal 2*v+1.
type Literal int32

// NewLiteral builds the Literal for variable v (1-indexed) with the given
// sign; negated=true means the negative occurrence.
func NewLiteral(v int, negated bool) Literal {
	if negated {
		return Literal(v*2 + 1)
	}
	return Literal(v * 2)
}

// FromDimacs converts a signed nonzero DIMACS integer into a Literal.
func FromDimacs(x int) Literal {
	if x < 0 {
		return NewLiteral(-x, true)
	}
	return NewLiteral(x, false)
}

// Var returns the 1-indexed variable id of l.
func (l Literal) Var() int {
	return int(l) / 2
}

// Sign reports whether l is the negated occurrence of its variable.
func (l Literal) Sign() bool {
	return l&1 == 1
}

// Negate returns the complementary literal.
func (l Literal) Negate() Literal {
	return l ^ 1
}

// ToDimacs returns the signed integer representation of l.
func (l Literal) ToDimacs() int {
	if l.Sign() {
		return -l.Var()
	}
	return l.Var()
}

func (l Literal) String() string {
	if l.Sign() {
		return fmt.Sprintf("-%d", l.Var())
	}
	return fmt.Sprintf("%d", l.Var())
}
