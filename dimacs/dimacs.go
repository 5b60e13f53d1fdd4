// Package dimacs reads and writes the DIMACS CNF text format described in
// spec §6. Parsing is treated as an external collaborator by the core
// specification, but a runnable module needs a loader, so it lives here,
// isolated from the solving packages in cnf/dpll/walksat.
package dimacs

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cnfsat/dpll-sat/cnf"
)

// Load parses a DIMACS CNF stream into a cnf.Formula. Lines starting with 'c'
// are comments. The header line 'p cnf N M' declares the variable and clause
// count. Clause records are whitespace-separated signed integers terminated
// by 0 and may span multiple lines.
func Load(r io.Reader) (*cnf.Formula, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	numVars, numClauses := -1, -1
	var rawClauses [][]int
	var current []int

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line[0] == 'c' || line[0] == 'C' {
			continue
		}
		if line[0] == 'p' || line[0] == 'P' {
			if numVars >= 0 {
				return nil, fmt.Errorf("dimacs: line %d: duplicate header line", lineNo)
			}
			fields := strings.Fields(line)
			if len(fields) < 4 || fields[1] != "cnf" {
				return nil, fmt.Errorf("dimacs: line %d: malformed header %q", lineNo, line)
			}
			var err error
			numVars, err = strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("dimacs: line %d: bad variable count: %w", lineNo, err)
			}
			numClauses, err = strconv.Atoi(fields[3])
			if err != nil {
				return nil, fmt.Errorf("dimacs: line %d: bad clause count: %w", lineNo, err)
			}
			continue
		}
		if numVars < 0 {
			return nil, fmt.Errorf("dimacs: line %d: clause record before header", lineNo)
		}

		for _, tok := range strings.Fields(line) {
			x, err := strconv.Atoi(tok)
			if err != nil {
				return nil, fmt.Errorf("dimacs: line %d: invalid token %q: %w", lineNo, tok, err)
			}
			if x == 0 {
				rawClauses = append(rawClauses, current)
				current = nil
				continue
			}
			current = append(current, x)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dimacs: %w", err)
	}
	if numVars < 0 {
		return nil, fmt.Errorf("dimacs: missing header line")
	}
	if len(current) > 0 {
		return nil, fmt.Errorf("dimacs: unterminated clause record at end of input")
	}
	if len(rawClauses) != numClauses {
		return nil, fmt.Errorf("dimacs: header declares %d clauses, found %d", numClauses, len(rawClauses))
	}

	return cnf.NewFormula(numVars, rawClauses)
}

// Write serializes f back to DIMACS text. Write followed by Load must yield
// an identical internal representation (spec §8 testable property 6); this
// holds because NewFormula's clause normalization (dedup, sort, tautology
// drop) is idempotent on already-normalized input.
func Write(w io.Writer, f *cnf.Formula) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", f.NumVars, len(f.Clauses)); err != nil {
		return err
	}
	for _, c := range f.Clauses {
		for _, l := range c {
			if _, err := fmt.Fprintf(bw, "%d ", l.ToDimacs()); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("0\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
