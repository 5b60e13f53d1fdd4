package schedule

import (
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cnfsat/dpll-sat/cnf"
	"github.com/cnfsat/dpll-sat/dpll"
	"golang.org/x/sync/errgroup"
)

// shedEvery bounds how many Step calls a worker spends on its own branch
// before offering its shallowest pending branch to thieves (spec §4.E):
// too eager and stealing overhead dominates; too lazy and thieves starve.
const shedEvery = 64

// Result is the pool-wide outcome of a parallel solve.
type Result struct {
	Solutions []cnf.Solution
	Stats     dpll.Stats
}

// Pool is the intra-process work-stealing scheduler (spec §4.F): T workers,
// each owning a deque of dpll.WorkItem branches, plus a shared
// active-worker count and condition-variable quiescence barrier (spec §9:
// "the active worker count and stop flag are the only contended atomics on
// the hot path"). Generalizes the teacher's single shared WorkQueue +
// activeWorkers design (solver/parallel_solver.go) to per-worker deques,
// the actual work-stealing discipline the teacher's one shared queue never
// needed.
type Pool struct {
	formula  *cnf.Formula
	maxUnsat int
	deques   []*deque

	mu     sync.Mutex
	cond   *sync.Cond
	active int

	stopped int32

	resultsMu sync.Mutex
	seen      map[string]struct{}
	solutions []cnf.Solution

	stepCount int64
}

// NewPool builds a pool over formula bounded by maxUnsat. workers <= 0 means
// hardware concurrency (spec §6: "n_threads=0 means implementation-chosen").
func NewPool(formula *cnf.Formula, maxUnsat, workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		formula:  formula,
		maxUnsat: maxUnsat,
		deques:   make([]*deque, workers),
		seen:     make(map[string]struct{}),
	}
	p.cond = sync.NewCond(&p.mu)
	for i := range p.deques {
		p.deques[i] = newDeque()
	}
	return p
}

// Stop requests cooperative cancellation (spec §5), checked at each
// worker's step boundary and while idle-waiting.
func (p *Pool) Stop() {
	atomic.StoreInt32(&p.stopped, 1)
	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()
}

func (p *Pool) stopRequested() bool { return atomic.LoadInt32(&p.stopped) == 1 }

// Solve runs every worker to quiescence and returns the deduplicated
// solution set. err is non-nil only when Stop was called before the search
// completed (spec §7 Cancelled: "partial results so far").
func (p *Pool) Solve() (Result, error) {
	if _, ok := dpll.NewPropagator(p.formula, p.maxUnsat); !ok {
		return Result{}, nil // unsatisfiable at the root
	}

	p.active = len(p.deques)
	p.deques[0].PushOwner(dpll.WorkItem{MaxUnsat: p.maxUnsat})

	var g errgroup.Group
	for i := range p.deques {
		id := i
		g.Go(func() error { return p.runWorker(id) })
	}
	err := g.Wait()

	stats := dpll.Stats{Steps: int(atomic.LoadInt64(&p.stepCount))}
	return Result{Solutions: p.snapshotSolutions(), Stats: stats}, err
}

func (p *Pool) runWorker(id int) error {
	own := p.deques[id]
	emit := func(s cnf.Solution) { p.record(s) }

	var current *dpll.Frontier
	stepsSinceShed := 0

	for {
		if p.stopRequested() {
			return dpll.ErrCancelled
		}

		if current == nil || current.Done() {
			item, ok := p.takeWork(id, own)
			if !ok {
				return nil // quiescent: no work anywhere, solve is done
			}
			fr, ok := item.Frontier(p.formula, emit)
			if !ok {
				current = nil // replay pruned the branch outright
				continue
			}
			current = fr
			stepsSinceShed = 0
		}

		current.Step()
		atomic.AddInt64(&p.stepCount, 1)
		stepsSinceShed++

		if stepsSinceShed >= shedEvery {
			stepsSinceShed = 0
			if shed, ok := current.Shed(); ok {
				own.PushOwner(shed)
				p.signalWork()
			}
		}
	}
}

// takeWork returns the next branch for worker id to run: first its own
// deque, then a steal attempt against its peers, then (if both are empty)
// it joins the quiescence wait per spec §4.F.
func (p *Pool) takeWork(id int, own *deque) (dpll.WorkItem, bool) {
	if item, ok := own.PopOwner(); ok {
		return item, true
	}
	if item, ok := p.stealFrom(id); ok {
		return item, true
	}

	p.mu.Lock()
	p.active--
	for {
		if p.stopRequested() {
			p.mu.Unlock()
			return dpll.WorkItem{}, false
		}
		if p.active == 0 && p.allDequesEmptyLocked() {
			p.cond.Broadcast()
			p.mu.Unlock()
			return dpll.WorkItem{}, false
		}
		p.cond.Wait()
		p.mu.Unlock()

		if item, ok := own.PopOwner(); ok {
			p.mu.Lock()
			p.active++
			p.mu.Unlock()
			return item, true
		}
		if item, ok := p.stealFrom(id); ok {
			p.mu.Lock()
			p.active++
			p.mu.Unlock()
			return item, true
		}
		p.mu.Lock()
	}
}

func (p *Pool) signalWork() {
	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()
}

func (p *Pool) stealFrom(id int) (dpll.WorkItem, bool) {
	n := len(p.deques)
	start := rand.Intn(n)
	for i := 0; i < n; i++ {
		j := (start + i) % n
		if j == id {
			continue
		}
		if item, ok := p.deques[j].Steal(); ok {
			return item, true
		}
	}
	return dpll.WorkItem{}, false
}

// allDequesEmptyLocked must be called with p.mu held; it only reads deque
// lengths (each under its own lock), consistent with the lock order used
// throughout (pool mutex outer, deque mutex inner; no deque lock is ever
// held while taking p.mu).
func (p *Pool) allDequesEmptyLocked() bool {
	for _, d := range p.deques {
		if d.Len() > 0 {
			return false
		}
	}
	return true
}

func (p *Pool) record(s cnf.Solution) {
	p.resultsMu.Lock()
	defer p.resultsMu.Unlock()
	key := s.Key()
	if _, dup := p.seen[key]; dup {
		return
	}
	p.seen[key] = struct{}{}
	p.solutions = append(p.solutions, s)
}

func (p *Pool) snapshotSolutions() []cnf.Solution {
	p.resultsMu.Lock()
	defer p.resultsMu.Unlock()
	out := make([]cnf.Solution, len(p.solutions))
	copy(out, p.solutions)
	return out
}
