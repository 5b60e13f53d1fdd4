package dpll

import "github.com/cnfsat/dpll-sat/cnf"

// WorkItem is the serialisable content needed to resume search at an
// arbitrary frontier (spec §3 component E): the decision-literal sequence
// and the solve's max_unsat bound. "A work item plus the immutable formula
// uniquely determines the subtree still to explore" — Resume is that
// determination.
type WorkItem struct {
	Decisions []cnf.Literal
	MaxUnsat  int
}

// newWorkItem captures p's own decision sequence plus one further pending
// decision (the branch being shed), per spec §4.E.
func newWorkItem(p *Propagator, pending cnf.Literal) WorkItem {
	ds := p.Assignment().Decisions()
	full := make([]cnf.Literal, len(ds)+1)
	copy(full, ds)
	full[len(ds)] = pending
	return WorkItem{Decisions: full, MaxUnsat: p.maxUnsat}
}

// Resume replays w's decisions against formula to rebuild the Propagator
// state a thief continues search from. ok is false if replay itself prunes
// the branch outright (the decisions alone already exceed max_unsat) —
// the thief simply discards such an item, nothing is lost since the
// shedding worker already accounted for it in its own unsat bookkeeping.
func (w WorkItem) Resume(f *cnf.Formula) (*Propagator, bool) {
	p, ok := NewPropagator(f, w.MaxUnsat)
	if !ok {
		return p, false
	}
	for _, d := range w.Decisions {
		p.Decide(d)
		p.PropagateToFixpoint()
		if p.Unsat() > p.maxUnsat {
			return p, false
		}
	}
	return p, true
}

// Frontier rebuilds a steppable Frontier from a stolen work item, reporting
// solutions to emit.
func (w WorkItem) Frontier(f *cnf.Formula, emit Emit) (*Frontier, bool) {
	p, ok := w.Resume(f)
	if !ok {
		return nil, false
	}
	return NewFrontier(p, emit), true
}
