// Package walksat implements the randomized local-search kernel of spec
// §4.H: incremental clause-satisfaction bookkeeping, break-count flip
// selection, restarts, and a wall-clock cutoff.
package walksat

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/cnfsat/dpll-sat/cnf"
)

// ErrCancelled mirrors dpll.ErrCancelled for the Walk-SAT kernel (spec §5
// Cancellation: "checked at each Walk-SAT step").
var ErrCancelled = errors.New("walksat: cancelled")

// Stats reports search-effort counters alongside a Result (SPEC_FULL.md
// supplemental feature 4, mirroring the dacroq Walk-SAT client's
// SolveResult{Restarts, TotalSteps}).
type Stats struct {
	Steps     int
	Restarts  int
	BestUnsat int
}

// Config parameterizes one Walk-SAT run (spec §4.H / §6).
type Config struct {
	MaxSteps   int
	P          float64       // walk probability, spec §4.H step 5
	Target     int           // k: the unsat bound a solution must meet
	Seed       int64         // 0 => seed from OS entropy
	WorkerID   int           // combined with Seed per spec §9: seed ^ worker_id
	CutoffTime time.Duration // 0 => stop on first solution meeting Target
}

// Result is the outcome of a Kernel.Run call.
type Result struct {
	Solutions []cnf.Solution
	Stats     Stats
}

// Kernel holds one Walk-SAT run's mutable search state (spec §3 component
// H): a complete assignment, per-clause satisfied-literal counts, the
// currently unsatisfied clause set (O(1) toggle via swap-removal), and the
// per-variable clause membership needed to compute break counts in O(degree).
type Kernel struct {
	f   *cnf.Formula
	cfg Config
	rng *rand.Rand

	assignment []bool // indexed by variable, 1..NumVars
	satCount   []int  // indexed by clause
	unsatSet   []int  // clause indices currently unsatisfied
	unsatPos   []int  // clause index -> position in unsatSet, -1 if satisfied
	varClauses [][]int
}

// NewKernel builds a Kernel over f with an initial random assignment, its
// bookkeeping built in O(|F|) per spec §4.H.
func NewKernel(f *cnf.Formula, cfg Config) *Kernel {
	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Seed ^ int64(cfg.WorkerID)))
	} else {
		var b [8]byte
		seed := time.Now().UnixNano()
		if _, err := crand.Read(b[:]); err == nil {
			seed = int64(binary.LittleEndian.Uint64(b[:]))
		}
		rng = rand.New(rand.NewSource(seed))
	}

	k := &Kernel{f: f, cfg: cfg, rng: rng}
	k.varClauses = make([][]int, f.NumVars+1)
	for ci, c := range f.Clauses {
		for _, l := range c {
			k.varClauses[l.Var()] = append(k.varClauses[l.Var()], ci)
		}
	}
	k.assignment = make([]bool, f.NumVars+1)
	k.satCount = make([]int, len(f.Clauses))
	k.unsatPos = make([]int, len(f.Clauses))
	k.randomizeAssignment()
	return k
}

func (k *Kernel) randomizeAssignment() {
	for v := 1; v <= k.f.NumVars; v++ {
		k.assignment[v] = k.rng.Intn(2) == 1
	}
	k.unsatSet = k.unsatSet[:0]
	for ci, c := range k.f.Clauses {
		sc := 0
		for _, l := range c {
			if k.literalSatisfied(l) {
				sc++
			}
		}
		k.satCount[ci] = sc
		if sc == 0 {
			k.unsatPos[ci] = len(k.unsatSet)
			k.unsatSet = append(k.unsatSet, ci)
		} else {
			k.unsatPos[ci] = -1
		}
	}
}

func (k *Kernel) literalSatisfied(l cnf.Literal) bool {
	return k.assignment[l.Var()] != l.Sign()
}

func clauseLiteral(c cnf.Clause, v int) (cnf.Literal, bool) {
	for _, l := range c {
		if l.Var() == v {
			return l, true
		}
	}
	return 0, false
}

// breakCount returns the number of clauses that would become unsatisfied if
// v were flipped: those with exactly one satisfied literal, where that
// literal is v's occurrence (spec §4.H step 3).
func (k *Kernel) breakCount(v int) int {
	n := 0
	for _, ci := range k.varClauses[v] {
		if k.satCount[ci] != 1 {
			continue
		}
		if l, ok := clauseLiteral(k.f.Clauses[ci], v); ok && k.literalSatisfied(l) {
			n++
		}
	}
	return n
}

// flip toggles variable v and updates sat_count / unsat-set membership for
// every clause containing it (spec §4.H: "updates sat_count only for
// clauses containing v or not-v, and toggles their membership in the unsat
// set").
func (k *Kernel) flip(v int) {
	for _, ci := range k.varClauses[v] {
		l, _ := clauseLiteral(k.f.Clauses[ci], v)
		if k.literalSatisfied(l) {
			k.satCount[ci]--
			if k.satCount[ci] == 0 {
				k.addUnsat(ci)
			}
		} else {
			k.satCount[ci]++
			if k.satCount[ci] == 1 {
				k.removeUnsat(ci)
			}
		}
	}
	k.assignment[v] = !k.assignment[v]
}

func (k *Kernel) addUnsat(ci int) {
	k.unsatPos[ci] = len(k.unsatSet)
	k.unsatSet = append(k.unsatSet, ci)
}

func (k *Kernel) removeUnsat(ci int) {
	pos := k.unsatPos[ci]
	last := len(k.unsatSet) - 1
	k.unsatSet[pos] = k.unsatSet[last]
	k.unsatPos[k.unsatSet[pos]] = pos
	k.unsatSet = k.unsatSet[:last]
	k.unsatPos[ci] = -1
}

// step performs spec §4.H steps 2-5 once: pick a random unsat clause, flip
// a zero-break variable if one exists, else walk randomly with
// probability P or take the minimum-break variable (ties: smallest index).
func (k *Kernel) step() {
	ci := k.unsatSet[k.rng.Intn(len(k.unsatSet))]
	c := k.f.Clauses[ci]

	type candidate struct {
		v      int
		breaks int
	}
	cands := make([]candidate, len(c))
	zeroBreak := -1
	for i, l := range c {
		v := l.Var()
		b := k.breakCount(v)
		cands[i] = candidate{v, b}
		if b == 0 && (zeroBreak == -1 || v < zeroBreak) {
			zeroBreak = v
		}
	}
	if zeroBreak != -1 {
		k.flip(zeroBreak)
		return
	}

	if k.cfg.P > 0 && k.rng.Float64() < k.cfg.P {
		k.flip(c[k.rng.Intn(len(c))].Var())
		return
	}

	best := cands[0]
	for _, cd := range cands[1:] {
		if cd.breaks < best.breaks || (cd.breaks == best.breaks && cd.v < best.v) {
			best = cd
		}
	}
	k.flip(best.v)
}

// Run drives the kernel per spec §4.H's per-step loop until it finds (and,
// with a cutoff, keeps finding) solutions meeting cfg.Target, the deadline
// elapses, or stop fires. When cfg.MaxSteps is 0, each round restarts
// immediately without stepping — the spec leaves this case unspecified;
// this is the documented choice (see DESIGN.md).
func (k *Kernel) Run(stop func() bool) (Result, error) {
	if stop == nil {
		stop = func() bool { return false }
	}
	var deadline time.Time
	hasDeadline := k.cfg.CutoffTime > 0
	if hasDeadline {
		deadline = time.Now().Add(k.cfg.CutoffTime)
	}

	stats := Stats{BestUnsat: len(k.unsatSet)}
	seen := make(map[string]struct{})
	var found []cnf.Solution
	stepsSinceRestart := 0

	for {
		if stop() {
			return Result{Solutions: found, Stats: stats}, fmt.Errorf("walksat: %w", ErrCancelled)
		}
		if hasDeadline && !time.Now().Before(deadline) {
			return Result{Solutions: found, Stats: stats}, nil
		}
		if len(k.unsatSet) < stats.BestUnsat {
			stats.BestUnsat = len(k.unsatSet)
		}

		if len(k.unsatSet) <= k.cfg.Target {
			model := make([]bool, len(k.assignment))
			copy(model, k.assignment)
			sol := cnf.Solution{Model: model, Unsat: len(k.unsatSet)}
			if _, dup := seen[sol.Key()]; !dup {
				seen[sol.Key()] = struct{}{}
				found = append(found, sol)
			}
			if !hasDeadline {
				return Result{Solutions: found, Stats: stats}, nil
			}
			stepsSinceRestart = 0
			stats.Restarts++
			k.randomizeAssignment()
			continue
		}

		if k.cfg.MaxSteps == 0 || stepsSinceRestart >= k.cfg.MaxSteps {
			stats.Restarts++
			stepsSinceRestart = 0
			k.randomizeAssignment()
			continue
		}

		k.step()
		stats.Steps++
		stepsSinceRestart++
	}
}
