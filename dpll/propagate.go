package dpll

import "github.com/cnfsat/dpll-sat/cnf"

// Propagator holds everything one search frame needs to run BCP: the shared,
// read-only formula, this frame's own assignment and watch state, the
// unsat counter u, and the pending-literal queue. It implements spec §4.C's
// two-watched-literals scheme: falsified clauses bump u instead of aborting,
// the search only prunes when u exceeds max_unsat, and a unit clause is
// forced only once that budget is used up (see PropagateToFixpoint).
type Propagator struct {
	formula  *cnf.Formula
	assign   *Assignment
	watches  *watchState
	queue    *litQueue
	unsat    int
	maxUnsat int
}

// NewPropagator builds a Propagator for formula and eagerly propagates the
// formula's unit clauses (spec §4.A: "Unit clauses in the input are
// propagated eagerly before search begins; a conflict there fails the solve
// with Unsatisfiable"). ok is false when that eager propagation conflicts.
func NewPropagator(f *cnf.Formula, maxUnsat int) (p *Propagator, ok bool) {
	p = &Propagator{
		formula:  f,
		assign:   newAssignment(f.NumVars),
		watches:  newWatchState(f),
		queue:    newLitQueue(16),
		maxUnsat: maxUnsat,
	}
	for _, c := range f.Clauses {
		if c.IsEmpty() {
			// permanently falsified, no watches registered for it; counts
			// against the budget like any other falsified clause instead of
			// failing the solve outright (spec §8 scenario: max_unsat>=1
			// still enumerates all 2^N assignments).
			p.unsat++
		}
	}
	for _, l := range f.UnitClauses {
		if !p.enqueue(l) {
			return p, false // two unit clauses conflict outright
		}
	}
	p.PropagateToFixpoint()
	return p, p.unsat <= p.maxUnsat
}

// Unsat returns the current count of falsified clauses.
func (p *Propagator) Unsat() int { return p.unsat }

// Assignment exposes the frame's assignment state.
func (p *Propagator) Assignment() *Assignment { return p.assign }

func (p *Propagator) enqueue(l cnf.Literal) bool {
	switch p.assign.Value(l) {
	case True:
		return true
	case False:
		p.unsat++ // the unit fact itself contradicts an existing assignment
		return false
	}
	p.assign.set(l)
	p.queue.Push(int32(l))
	return true
}

// Decide assigns literal l as a free decision (spec §4.D step 4: "Branch on
// v = true then v = false").
func (p *Propagator) Decide(l cnf.Literal) {
	p.assign.markDecision()
	p.enqueue(l)
}

// PropagateToFixpoint drains the propagation queue, following spec §4.C's
// four-way case split for each watcher examined. A literal becomes false
// exactly when its complement is enqueued as newly true, so each pop walks
// the watch list of the popped literal's complement, not the popped literal
// itself:
//
//  1. the clause's other watch is true: leave watches alone;
//  2. a non-false literal distinct from the other watch exists: move the
//     watch there;
//  3. the other watch is unset: the clause is unit. Forcing it is sound
//     only when the remaining budget (max_unsat - u) is zero — otherwise
//     the unset variable must still be free to take the clause-violating
//     value in some branch (spec §8 completeness property 4), so it is
//     left for the search node to branch on both ways instead of being
//     forced here;
//  4. otherwise the clause is falsified: bump u, do not abort.
func (p *Propagator) PropagateToFixpoint() {
	for !p.queue.IsEmpty() {
		l := cnf.Literal(p.queue.Pop())
		falsified := l.Negate()

		pending := p.watches.lists[falsified]
		p.watches.lists[falsified] = pending[:0]
		kept := p.watches.lists[falsified]

		for _, w := range pending {
			if p.assign.Value(w.guard) == True {
				kept = append(kept, w)
				continue
			}

			moved, newGuard := p.retarget(w.clause, falsified, w.guard)
			if moved {
				continue // watcher now lives in the new watch's list
			}

			if p.assign.Value(newGuard) == Unset {
				// unit: forcing is a sound shortcut only once any violation
				// would already exceed the budget; otherwise the clause's
				// free literal must stay unset so the node branches on it.
				if p.maxUnsat-p.unsat <= 0 {
					p.enqueue(newGuard)
				}
				kept = append(kept, w)
				continue
			}

			// falsified: both watches are false, nowhere left to move
			p.unsat++
			kept = append(kept, w)
		}

		p.watches.lists[falsified] = kept

		if p.unsat > p.maxUnsat {
			return // caller checks Unsat() and prunes; queue may be non-empty
		}
	}
}

// retarget implements the watch-move search for clause ci whose watched
// literal l has just been falsified. other is the clause's other current
// watch. If a replacement is found, the watch moves and moved is true. If
// not, other is returned unchanged for the caller to classify as unit or
// falsified.
func (p *Propagator) retarget(ci int, l, other cnf.Literal) (moved bool, unchangedOther cnf.Literal) {
	pair := &p.watches.pairs[ci]
	// A watcher's guard is not updated when the clause's other watch moves,
	// so the pair, not the caller's guard, names the other current watch.
	if pair[0] == l {
		other = pair[1]
	} else {
		other = pair[0]
	}
	clause := p.formula.Clauses[ci]
	for _, lit := range clause {
		if lit == l || lit == other {
			continue
		}
		if p.assign.Value(lit) != False {
			if pair[0] == l {
				pair[0] = lit
			} else {
				pair[1] = lit
			}
			p.watches.lists[lit] = append(p.watches.lists[lit], watcher{clause: ci, guard: other})
			return true, other
		}
	}
	return false, other
}

// clone returns an independent copy of the propagator's mutable state. The
// formula is shared by reference. This is the checkpoint primitive the DPLL
// search node uses instead of an incremental undo log (see DESIGN.md).
func (p *Propagator) clone() *Propagator {
	return &Propagator{
		formula:  p.formula,
		assign:   p.assign.clone(),
		watches:  p.watches.clone(),
		queue:    p.queue.clone(),
		unsat:    p.unsat,
		maxUnsat: p.maxUnsat,
	}
}
