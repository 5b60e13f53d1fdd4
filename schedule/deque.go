// Package schedule implements the intra-process work-stealing scheduler
// (spec §4.F): a pool of workers, each owning a deque of dpll.WorkItem
// branches, with active-worker/quiescence termination detection.
package schedule

import (
	"sync"

	"github.com/cnfsat/dpll-sat/dpll"
)

// deque is a lock-guarded double-ended queue of work items. The owner
// pushes and pops at the tail (LIFO: depth-first, bounded memory); thieves
// pop at the head (FIFO: shallow frontiers), per spec §4.F. Correctness
// does not depend on a lock-free implementation (spec §5), so this mirrors
// the teacher's mutex-guarded WorkQueue rather than a CAS ring buffer.
type deque struct {
	mu    sync.Mutex
	items []dpll.WorkItem
}

func newDeque() *deque { return &deque{} }

// PushOwner appends to the tail. Only the owning worker calls this.
func (d *deque) PushOwner(item dpll.WorkItem) {
	d.mu.Lock()
	d.items = append(d.items, item)
	d.mu.Unlock()
}

// PopOwner removes from the tail. Only the owning worker calls this.
func (d *deque) PopOwner() (dpll.WorkItem, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.items) == 0 {
		return dpll.WorkItem{}, false
	}
	item := d.items[len(d.items)-1]
	d.items = d.items[:len(d.items)-1]
	return item, true
}

// Steal removes from the head. Called by any worker other than the owner.
func (d *deque) Steal() (dpll.WorkItem, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.items) == 0 {
		return dpll.WorkItem{}, false
	}
	item := d.items[0]
	d.items = d.items[1:]
	return item, true
}

func (d *deque) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}
