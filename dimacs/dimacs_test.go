package dimacs

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadBasic(t *testing.T) {
	src := "c a comment\np cnf 2 2\n1 2 0\n-1 -2 0\n"
	f, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.NumVars != 2 || len(f.Clauses) != 2 {
		t.Fatalf("got NumVars=%d Clauses=%d", f.NumVars, len(f.Clauses))
	}
}

func TestLoadRecordSpansLines(t *testing.T) {
	src := "p cnf 3 1\n1 2\n-3 0\n"
	f, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.Clauses) != 1 || len(f.Clauses[0]) != 3 {
		t.Fatalf("want one 3-literal clause, got %v", f.Clauses)
	}
}

func TestLoadRejectsMismatchedClauseCount(t *testing.T) {
	src := "p cnf 2 2\n1 2 0\n"
	if _, err := Load(strings.NewReader(src)); err == nil {
		t.Fatal("want error for clause-count mismatch")
	}
}

func TestLoadRejectsMissingHeader(t *testing.T) {
	if _, err := Load(strings.NewReader("1 2 0\n")); err == nil {
		t.Fatal("want error for missing header")
	}
}

func TestRoundTrip(t *testing.T) {
	src := "p cnf 3 3\n1 2 0\n-2 3 0\n-1 -3 0\n"
	f1, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, f1); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f2, err := Load(&buf)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}

	if diff := cmp.Diff(f1, f2); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDropsTautologyAtLoad(t *testing.T) {
	// p cnf 2 1 / 1 -1 0 — dropped, zero clauses remain.
	f, err := Load(strings.NewReader("p cnf 2 1\n1 -1 0\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.Clauses) != 0 {
		t.Fatalf("want 0 clauses, got %d", len(f.Clauses))
	}
}
