package dpll

import (
	"errors"
	"fmt"

	"github.com/cnfsat/dpll-sat/cnf"
)

// ErrCancelled is returned alongside whatever solutions were aggregated so
// far when a solve's stop flag fires before the search completes (spec §5
// Cancellation, spec §7: "Cancelled... surfaced as partial results so far").
var ErrCancelled = errors.New("dpll: cancelled")

// Stats reports search-effort counters alongside a Result (spec.md names
// these only informally; SPEC_FULL.md §9 supplemental feature 3).
type Stats struct {
	Branches int // complete assignments reached by the search, duplicates included
	Pruned   int // frames abandoned because u exceeded max_unsat; Solve does not count these, so it is always 0
	Steps    int // Frontier.Step calls executed
}

// Result is the outcome of a single-goroutine Solve call: the deduplicated
// solutions found plus search statistics. Satisfiable mirrors spec §7's
// "Unsatisfiable... a normal result" — it is true exactly when Solutions is
// non-empty; after a cancelled search it reflects only the solutions found
// before the stop.
type Result struct {
	Solutions    []cnf.Solution
	Stats        Stats
	Satisfiable  bool
	MaxUnsatUsed int
}

// Solve runs bounded-unsat DPLL to completion on a single goroutine: a
// baseline matching spec §4.D with no scheduler involvement. The schedule
// package does not call Solve; its workers drive Frontier directly. stop is
// polled at every propagation fixpoint
// (spec §5); pass nil for no cancellation.
func Solve(f *cnf.Formula, maxUnsat int, stop func() bool) (Result, error) {
	if stop == nil {
		stop = func() bool { return false }
	}

	seen := make(map[string]struct{})
	var solutions []cnf.Solution
	stats := Stats{}

	emit := func(s cnf.Solution) {
		stats.Branches++
		key := s.Key()
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		solutions = append(solutions, s)
	}

	root, ok := NewPropagator(f, maxUnsat)
	if !ok {
		return Result{Stats: stats, MaxUnsatUsed: maxUnsat}, nil // unsatisfiable at the root, not an error
	}

	fr := NewFrontier(root, emit)
	for !fr.Done() {
		if stop() {
			return Result{Solutions: solutions, Stats: stats, Satisfiable: len(solutions) > 0, MaxUnsatUsed: maxUnsat},
				fmt.Errorf("dpll: %w", ErrCancelled)
		}
		fr.Step()
		stats.Steps++
	}

	return Result{
		Solutions:    solutions,
		Stats:        stats,
		Satisfiable:  len(solutions) > 0,
		MaxUnsatUsed: maxUnsat,
	}, nil
}
