package dpll

import "github.com/cnfsat/dpll-sat/cnf"

// Assignment is the partial-assignment state of spec §3 component B: a
// dense per-literal value table plus a trail (ordered assigned literals)
// with decision-level marks. Assignment is owned by exactly one search
// frame; it is cloned, never shared, when a frame forks into two children.
// A shed work item carries only the decision literals, which replay into a
// fresh Assignment.
type Assignment struct {
	numVars int
	values  []LBool       // indexed by cnf.Literal
	trail   []cnf.Literal // assigned literals in assignment order
	marks   []int         // trail length at each decision point
}

func newAssignment(numVars int) *Assignment {
	return &Assignment{
		numVars: numVars,
		values:  make([]LBool, 2*(numVars+1)),
		trail:   make([]cnf.Literal, 0, numVars),
	}
}

// Value returns the current truth value of literal l.
func (a *Assignment) Value(l cnf.Literal) LBool {
	return a.values[l]
}

// VarValue returns the current truth value of variable v's positive literal.
func (a *Assignment) VarValue(v int) LBool {
	return a.values[cnf.NewLiteral(v, false)]
}

// IsComplete reports whether every variable has been assigned.
func (a *Assignment) IsComplete() bool {
	return len(a.trail) == a.numVars
}

// DecisionLevel returns the number of decisions (non-forced assignments) so
// far, i.e. the count of marks on the trail.
func (a *Assignment) DecisionLevel() int {
	return len(a.marks)
}

// Model returns the complete Boolean assignment indexed by variable id
// (1..numVars; index 0 is unused), suitable for cnf.Formula.Eval and for
// result.Solution.
func (a *Assignment) Model() []bool {
	model := make([]bool, a.numVars+1)
	for v := 1; v <= a.numVars; v++ {
		model[v] = a.VarValue(v) == True
	}
	return model
}

// Decisions returns the free-choice literals on the trail, in order (the
// forced/propagated entries between them are omitted). This is the
// "decision-literal sequence" spec §3 names as a work item's replayable
// content.
func (a *Assignment) Decisions() []cnf.Literal {
	ds := make([]cnf.Literal, len(a.marks))
	for i, m := range a.marks {
		ds[i] = a.trail[m]
	}
	return ds
}

func (a *Assignment) set(l cnf.Literal) {
	a.values[l] = True
	a.values[l.Negate()] = False
	a.trail = append(a.trail, l)
}

func (a *Assignment) markDecision() {
	a.marks = append(a.marks, len(a.trail))
}

func (a *Assignment) clone() *Assignment {
	na := &Assignment{
		numVars: a.numVars,
		values:  make([]LBool, len(a.values)),
		trail:   make([]cnf.Literal, len(a.trail), cap(a.trail)),
		marks:   make([]int, len(a.marks)),
	}
	copy(na.values, a.values)
	copy(na.trail, a.trail)
	copy(na.marks, a.marks)
	return na
}
