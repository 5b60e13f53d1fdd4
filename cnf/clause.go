package cnf

import "sort"

// Clause is a finite ordered list of literals, duplicates removed and
// tautologies (containing both a literal and its complement) rejected
// before construction. The empty Clause is the unsatisfiable sentinel.
type Clause []Literal

// NewClause builds a Clause from raw literals, deduplicating and detecting
// tautology. ok is false when the clause is tautological and must be
// dropped at load time rather than stored in a Formula.
func NewClause(lits []Literal) (c Clause, ok bool) {
	if len(lits) == 0 {
		return Clause{}, true // empty clause: the unsatisfiable sentinel
	}

	seen := make(map[Literal]bool, len(lits))
	out := make(Clause, 0, len(lits))
	for _, l := range lits {
		if seen[l.Negate()] {
			return nil, false // tautological
		}
		if seen[l] {
			continue // duplicate
		}
		seen[l] = true
		out = append(out, l)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, true
}

// IsEmpty reports whether c is the unsatisfiable empty clause.
func (c Clause) IsEmpty() bool {
	return len(c) == 0
}

func (c Clause) String() string {
	s := make([]byte, 0, len(c)*3)
	for i, l := range c {
		if i > 0 {
			s = append(s, ' ')
		}
		s = append(s, []byte(l.String())...)
	}
	return string(s)
}
