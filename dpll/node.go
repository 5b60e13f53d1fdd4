package dpll

import "github.com/cnfsat/dpll-sat/cnf"

// Emit is called for every complete assignment a Frontier reaches.
type Emit func(cnf.Solution)

// frame is one level of the explicit DPLL decision stack (spec §9:
// "Recursive search -> iterative... an explicit stack of frames (decision
// literal, saved u, pending second-branch flag)"). A frame with second set
// has already spawned its v=true child and still owes a v=false visit;
// shedding it (component E) hands that obligation to another worker.
type frame struct {
	prop     *Propagator // state entering this frame, before its own decision
	variable int         // the variable this frame branches on
	second   bool        // true once the v=true child has been spawned
}

// Frontier is one worker's share of the DPLL search tree, driven one step at
// a time so a scheduler can interleave Step with Shed (spec §4.E/§4.F): the
// stack depth never exceeds the variable count plus one (the root frame), so
// a frontier is always
// cheap to hold open across scheduling decisions.
type Frontier struct {
	stack []*frame
	emit  Emit
}

// NewFrontier starts a frontier rooted at start, reporting solutions to emit.
func NewFrontier(start *Propagator, emit Emit) *Frontier {
	return &Frontier{stack: []*frame{{prop: start}}, emit: emit}
}

// Done reports whether the frontier's subtree has been fully explored.
func (fr *Frontier) Done() bool { return len(fr.stack) == 0 }

// Step performs spec §4.D's explore(node) body for the current top frame:
//
//  1. propagate to fixpoint; prune if u > max_unsat;
//  2. if complete, emit and return;
//  3. pick the smallest-index unset variable;
//  4. branch true then false, both children always explored.
//
// Backtracking is checkpoint-based rather than an incremental undo log: a
// frame keeps the Propagator snapshot taken before its own decision, and its
// v=false child resumes from that same snapshot (see DESIGN.md).
func (fr *Frontier) Step() {
	if fr.Done() {
		return
	}
	top := fr.stack[len(fr.stack)-1]

	if !top.second {
		top.prop.PropagateToFixpoint()

		if top.prop.Unsat() > top.prop.maxUnsat {
			fr.pop()
			return
		}
		if top.prop.Assignment().IsComplete() {
			fr.emit(cnf.Solution{Model: top.prop.Assignment().Model(), Unsat: top.prop.Unsat()})
			fr.pop()
			return
		}

		top.variable = nextUnsetVariable(top.prop)
		child := top.prop.clone()
		child.Decide(cnf.NewLiteral(top.variable, false))
		top.second = true
		fr.stack = append(fr.stack, &frame{prop: child})
		return
	}

	// Second visit: the v=true subtree is done. Explore v=false from this
	// frame's own snapshot, then this frame is exhausted.
	child := top.prop.clone()
	child.Decide(cnf.NewLiteral(top.variable, true))
	fr.stack[len(fr.stack)-1] = &frame{prop: child}
}

func (fr *Frontier) pop() {
	fr.stack = fr.stack[:len(fr.stack)-1]
}

// Shed takes the shallowest open branch (spec §4.E: "the one that prunes
// most future work on success transfer") and removes the local obligation to
// explore it, returning it serialised as a WorkItem. ok is false when no
// frame currently owes a second visit (e.g. the frontier is a single frame
// still on its first visit, or already done).
func (fr *Frontier) Shed() (WorkItem, bool) {
	for i, f := range fr.stack {
		if !f.second {
			continue
		}
		item := newWorkItem(f.prop, cnf.NewLiteral(f.variable, true))
		fr.stack = append(fr.stack[:i], fr.stack[i+1:]...)
		return item, true
	}
	return WorkItem{}, false
}

// nextUnsetVariable implements spec §4.D step 3: "smallest index first
// (deterministic, reproducible)".
func nextUnsetVariable(p *Propagator) int {
	for v := 1; v <= p.formula.NumVars; v++ {
		if p.assign.VarValue(v) == Unset {
			return v
		}
	}
	panic("nextUnsetVariable called on a complete assignment")
}
