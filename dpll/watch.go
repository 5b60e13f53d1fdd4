package dpll

import "github.com/cnfsat/dpll-sat/cnf"

// watcher is one entry in a literal's watch list: a reference to the clause
// (by index into the shared, read-only formula, per spec §9 — "watch lists
// hold clause indices, not owning references") plus a guard literal used to
// skip the clause cheaply when it is already satisfied.
type watcher struct {
	clause int
	guard  cnf.Literal
}

// watchState is the per-worker mutable two-watched-literal bookkeeping for
// one Propagator: the watch lists themselves, indexed by literal, and the
// currently-watched pair for each clause. Clause contents in cnf.Formula are
// immutable and shared; this structure is what actually moves as watches
// slide during BCP, and is cloned wholesale when a search frame forks.
type watchState struct {
	lists [][]watcher    // indexed by literal
	pairs [][2]cnf.Literal // indexed by clause id; unused for unit/empty clauses
}

func newWatchState(f *cnf.Formula) *watchState {
	ws := &watchState{
		lists: make([][]watcher, 2*(f.NumVars+1)),
		pairs: make([][2]cnf.Literal, len(f.Clauses)),
	}
	for ci, c := range f.Clauses {
		if len(c) < 2 {
			continue // unit/empty clauses never carry watches
		}
		a, b := c[0], c[1]
		ws.pairs[ci] = [2]cnf.Literal{a, b}
		ws.lists[a] = append(ws.lists[a], watcher{clause: ci, guard: b})
		ws.lists[b] = append(ws.lists[b], watcher{clause: ci, guard: a})
	}
	return ws
}

func (ws *watchState) clone() *watchState {
	nws := &watchState{
		lists: make([][]watcher, len(ws.lists)),
		pairs: make([][2]cnf.Literal, len(ws.pairs)),
	}
	for i, l := range ws.lists {
		if len(l) == 0 {
			continue
		}
		nl := make([]watcher, len(l))
		copy(nl, l)
		nws.lists[i] = nl
	}
	copy(nws.pairs, ws.pairs)
	return nws
}
