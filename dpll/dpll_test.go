package dpll

import (
	"sort"
	"testing"

	"github.com/cnfsat/dpll-sat/cnf"
)

func models(t *testing.T, sols []cnf.Solution) []string {
	t.Helper()
	out := make([]string, len(sols))
	for i, s := range sols {
		row := ""
		for v := 1; v < len(s.Model); v++ {
			if s.Model[v] {
				row += "1"
			} else {
				row += "0"
			}
		}
		out[i] = row
	}
	sort.Strings(out)
	return out
}

// Scenario 1 (spec §8): p cnf 1 1 / 1 0. max_unsat=0: exactly one solution.
func TestSolveSingleVariableSingleClause(t *testing.T) {
	f, err := cnf.NewFormula(1, [][]int{{1}})
	if err != nil {
		t.Fatalf("NewFormula: %v", err)
	}
	res, err := Solve(f, 0, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if got := models(t, res.Solutions); len(got) != 1 || got[0] != "1" {
		t.Fatalf("want exactly solution [1], got %v", got)
	}
}

// Scenario 2 (spec §8): p cnf 2 2 / 1 2 0 / -1 -2 0. max_unsat=0: two
// solutions, {1 -2, -1 2}.
func TestSolveTwoClauseTwoSolutions(t *testing.T) {
	f, err := cnf.NewFormula(2, [][]int{{1, 2}, {-1, -2}})
	if err != nil {
		t.Fatalf("NewFormula: %v", err)
	}
	res, err := Solve(f, 0, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	got := models(t, res.Solutions)
	want := []string{"01", "10"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("want %v, got %v", want, got)
	}
	for _, s := range res.Solutions {
		if f.Eval(s.Model) > 0 {
			t.Fatalf("solution %v violates max_unsat=0", s.Model)
		}
	}
}

// Scenario 3 (spec §8): p cnf 2 1 / 1 -1 0 (tautology). Dropped at load;
// zero clauses remain; DPLL emits all 4 assignments over 2 variables.
func TestSolveTautologyDroppedEmitsAllAssignments(t *testing.T) {
	f, err := cnf.NewFormula(2, [][]int{{1, -1}})
	if err != nil {
		t.Fatalf("NewFormula: %v", err)
	}
	if len(f.Clauses) != 0 {
		t.Fatalf("want tautology dropped, got %d clauses", len(f.Clauses))
	}
	res, err := Solve(f, 0, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(res.Solutions) != 4 {
		t.Fatalf("want 4 solutions for 0-clause 2-variable formula, got %d", len(res.Solutions))
	}
}

// Scenario 4 (spec §8): p cnf 3 2 / 1 2 0 / -1 -2 0 with max_unsat=1: all 8
// assignments (each violates at most one of the two clauses; variable 3 is
// unconstrained).
func TestSolveBoundedUnsatEmitsAllAssignments(t *testing.T) {
	f, err := cnf.NewFormula(3, [][]int{{1, 2}, {-1, -2}})
	if err != nil {
		t.Fatalf("NewFormula: %v", err)
	}
	res, err := Solve(f, 1, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(res.Solutions) != 8 {
		t.Fatalf("want 8 solutions, got %d", len(res.Solutions))
	}
	for _, s := range res.Solutions {
		if f.Eval(s.Model) > 1 {
			t.Fatalf("solution %v exceeds max_unsat=1", s.Model)
		}
	}
}

// Scenario 5 (spec §8): Pigeonhole PHP(3,2) — 3 pigeons, 2 holes, 9 clauses.
// UNSAT at max_unsat=0.
func TestSolvePigeonholeUnsat(t *testing.T) {
	// Variables: x[p][h] = 2*(p-1) + h, p in 1..3, h in 1..2.
	v := func(p, h int) int { return 2*(p-1) + h }
	var raw [][]int
	for p := 1; p <= 3; p++ {
		raw = append(raw, []int{v(p, 1), v(p, 2)}) // each pigeon in some hole
	}
	for h := 1; h <= 2; h++ {
		for p1 := 1; p1 <= 3; p1++ {
			for p2 := p1 + 1; p2 <= 3; p2++ {
				raw = append(raw, []int{-v(p1, h), -v(p2, h)}) // no two pigeons share a hole
			}
		}
	}
	if len(raw) != 9 {
		t.Fatalf("expected 9 clauses, built %d", len(raw))
	}
	f, err := cnf.NewFormula(6, raw)
	if err != nil {
		t.Fatalf("NewFormula: %v", err)
	}
	res, err := Solve(f, 0, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(res.Solutions) != 0 {
		t.Fatalf("want 0 solutions for PHP(3,2), got %d", len(res.Solutions))
	}
	if res.Satisfiable {
		t.Fatal("want Satisfiable=false for PHP(3,2)")
	}
}

// Testable property 4 variant: with max_unsat=0 and an unsatisfiable root
// (empty clause present), Solve reports no solutions without error.
func TestSolveEmptyClauseUnsatisfiable(t *testing.T) {
	f, err := cnf.NewFormula(1, [][]int{{}})
	if err != nil {
		t.Fatalf("NewFormula: %v", err)
	}
	res, err := Solve(f, 0, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(res.Solutions) != 0 {
		t.Fatalf("want 0 solutions, got %d", len(res.Solutions))
	}
	res, err = Solve(f, 1, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(res.Solutions) != 2 {
		t.Fatalf("want 2^1=2 solutions at max_unsat=1, got %d", len(res.Solutions))
	}
}

// Boundary behaviour (spec §8): empty formula (M=0) admits 2^N solutions at
// any max_unsat.
func TestSolveEmptyFormulaAdmitsAllAssignments(t *testing.T) {
	f, err := cnf.NewFormula(3, nil)
	if err != nil {
		t.Fatalf("NewFormula: %v", err)
	}
	res, err := Solve(f, 0, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(res.Solutions) != 8 {
		t.Fatalf("want 8 solutions for empty 3-variable formula, got %d", len(res.Solutions))
	}
}

func TestSolveCancellation(t *testing.T) {
	f, err := cnf.NewFormula(10, nil)
	if err != nil {
		t.Fatalf("NewFormula: %v", err)
	}
	calls := 0
	stop := func() bool {
		calls++
		return calls > 1
	}
	_, err = Solve(f, 0, stop)
	if err == nil {
		t.Fatal("want ErrCancelled")
	}
}

func TestWorkItemRoundTrip(t *testing.T) {
	f, err := cnf.NewFormula(3, [][]int{{1, 2}, {-1, -2}})
	if err != nil {
		t.Fatalf("NewFormula: %v", err)
	}
	root, ok := NewPropagator(f, 1)
	if !ok {
		t.Fatal("want root propagation to succeed")
	}

	var fromFrontier []cnf.Solution
	fr := NewFrontier(root, func(s cnf.Solution) { fromFrontier = append(fromFrontier, s) })
	fr.Step() // the root frame branches on variable 1 and now owes its v=false visit

	item, ok := fr.Shed()
	if !ok {
		t.Fatal("want a sheddable branch after the 3-variable root frame's first step")
	}
	if len(item.Decisions) == 0 {
		t.Fatal("want at least one decision in a shed work item")
	}

	var fromStolen []cnf.Solution
	stolenFr, ok := item.Frontier(f, func(s cnf.Solution) { fromStolen = append(fromStolen, s) })
	if !ok {
		t.Fatal("want Resume to succeed for a freshly shed item")
	}
	for !stolenFr.Done() {
		stolenFr.Step()
	}
	for !fr.Done() {
		fr.Step()
	}

	total := len(fromFrontier) + len(fromStolen)
	if total != 8 {
		t.Fatalf("want shedding to partition all 8 solutions across both halves, got %d", total)
	}
}
