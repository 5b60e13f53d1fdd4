package cnf

import "fmt"

// Formula is the tuple (N, C) of spec §3: N variables, C an indexed, immutable
// sequence of clauses. No clause references a variable outside [1..N].
// Formula is read-only for the lifetime of a solve; it is shared by
// reference across all workers, intra- or inter-process.
type Formula struct {
	NumVars int
	Clauses []Clause

	// UnitClauses are the unit clauses found in the input, recorded
	// separately so a solver can eagerly propagate them before search
	// begins, per spec §4.A.
	UnitClauses []Literal
}

// NewFormula builds a Formula from raw, possibly-tautological, possibly
// duplicated clauses expressed as signed variable ids. It drops tautological
// clauses (they are trivially satisfied and add no constraint) and returns an
// error if any clause references a variable outside [1, numVars].
func NewFormula(numVars int, rawClauses [][]int) (*Formula, error) {
	f := &Formula{NumVars: numVars}

	for ci, raw := range rawClauses {
		lits := make([]Literal, len(raw))
		for i, x := range raw {
			if x == 0 {
				return nil, fmt.Errorf("clause %d: literal 0 is not a valid variable reference", ci)
			}
			v := x
			if v < 0 {
				v = -v
			}
			if v > numVars {
				return nil, fmt.Errorf("clause %d: variable %d exceeds declared count %d", ci, v, numVars)
			}
			lits[i] = FromDimacs(x)
		}

		c, ok := NewClause(lits)
		if !ok {
			continue // tautology, dropped
		}
		if c.IsEmpty() {
			f.Clauses = append(f.Clauses, c) // the unsatisfiable sentinel
			continue
		}
		if len(c) == 1 {
			f.UnitClauses = append(f.UnitClauses, c[0])
		}
		f.Clauses = append(f.Clauses, c)
	}

	return f, nil
}

// Eval returns the number of clauses falsified by the given complete
// assignment. assignment[v] holds the boolean value of variable v (1-indexed,
// index 0 unused). Eval is pure and is the ground truth both DPLL's leaf
// check and Walk-SAT's bookkeeping bootstrap are built against (testable
// property 3 and 5 of spec §8).
func (f *Formula) Eval(assignment []bool) int {
	unsat := 0
	for _, c := range f.Clauses {
		if !clauseSatisfied(c, assignment) {
			unsat++
		}
	}
	return unsat
}

func clauseSatisfied(c Clause, assignment []bool) bool {
	for _, l := range c {
		v := assignment[l.Var()]
		if v != l.Sign() {
			return true
		}
	}
	return false
}
