package cnf

import "testing"

func TestNewFormulaDropsTautology(t *testing.T) {
	// p cnf 2 1 / 1 -1 0 — tautology dropped at load, zero clauses remain.
	f, err := NewFormula(2, [][]int{{1, -1}})
	if err != nil {
		t.Fatalf("NewFormula: %v", err)
	}
	if len(f.Clauses) != 0 {
		t.Fatalf("want 0 clauses after dropping tautology, got %d", len(f.Clauses))
	}
}

func TestNewFormulaDedupesLiterals(t *testing.T) {
	f, err := NewFormula(1, [][]int{{1, 1, 1}})
	if err != nil {
		t.Fatalf("NewFormula: %v", err)
	}
	if len(f.Clauses) != 1 || len(f.Clauses[0]) != 1 {
		t.Fatalf("want one unit clause, got %v", f.Clauses)
	}
}

func TestNewFormulaRecordsUnitClauses(t *testing.T) {
	f, err := NewFormula(2, [][]int{{1}, {1, 2}})
	if err != nil {
		t.Fatalf("NewFormula: %v", err)
	}
	if len(f.UnitClauses) != 1 || f.UnitClauses[0] != FromDimacs(1) {
		t.Fatalf("want unit clause [1], got %v", f.UnitClauses)
	}
}

func TestNewFormulaRejectsOutOfRangeVariable(t *testing.T) {
	if _, err := NewFormula(1, [][]int{{2}}); err == nil {
		t.Fatal("want error for variable exceeding declared count")
	}
}

func TestNewFormulaEmptyClauseIsSentinel(t *testing.T) {
	f, err := NewFormula(1, [][]int{{}})
	if err != nil {
		t.Fatalf("NewFormula: %v", err)
	}
	if len(f.Clauses) != 1 || !f.Clauses[0].IsEmpty() {
		t.Fatalf("want a single empty sentinel clause, got %v", f.Clauses)
	}
}

func TestFormulaEval(t *testing.T) {
	// p cnf 2 2 / 1 2 0 / -1 -2 0
	f, err := NewFormula(2, [][]int{{1, 2}, {-1, -2}})
	if err != nil {
		t.Fatalf("NewFormula: %v", err)
	}
	assignment := []bool{false, true, true} // index 0 unused
	if got := f.Eval(assignment); got != 1 {
		t.Fatalf("Eval: want 1 unsat clause, got %d", got)
	}
}
