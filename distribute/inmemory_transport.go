package distribute

import (
	"errors"
	"fmt"
)

// ErrTransport is the sentinel for unrecoverable communication failure
// (spec §7 TransportError: "distributed only... fatal; all ranks must
// abort").
var ErrTransport = errors.New("distribute: transport failure")

// InMemoryTransport is a same-process stand-in for a real message-passing
// runtime, built from buffered channels and a barrier, generalizing the
// teacher's channel+condvar WorkQueue (solver/parallel_solver.go) from one
// shared queue to many named ranks exchanging point-to-point messages. It
// exists so the distributor (component G) is exercised by tests without a
// real multi-process launcher.
type InMemoryTransport struct {
	rank  int
	world int
	inbox []chan Message
	bar   *barrier
}

// NewInMemoryFleet builds world InMemoryTransport instances, one per rank,
// all wired to the same inboxes and barrier.
func NewInMemoryFleet(world int) []*InMemoryTransport {
	inboxes := make([]chan Message, world)
	for i := range inboxes {
		inboxes[i] = make(chan Message, 64)
	}
	bar := newBarrier(world)

	fleet := make([]*InMemoryTransport, world)
	for i := 0; i < world; i++ {
		fleet[i] = &InMemoryTransport{rank: i, world: world, inbox: inboxes, bar: bar}
	}
	return fleet
}

func (t *InMemoryTransport) Rank() int  { return t.rank }
func (t *InMemoryTransport) World() int { return t.world }

func (t *InMemoryTransport) Send(to int, msg Message) error {
	if to < 0 || to >= t.world {
		return fmt.Errorf("%w: rank %d out of range", ErrTransport, to)
	}
	msg.From = t.rank
	t.inbox[to] <- msg
	return nil
}

func (t *InMemoryTransport) TrySend(to int, msg Message) (bool, error) {
	if to < 0 || to >= t.world {
		return false, fmt.Errorf("%w: rank %d out of range", ErrTransport, to)
	}
	msg.From = t.rank
	select {
	case t.inbox[to] <- msg:
		return true, nil
	default:
		return false, nil
	}
}

func (t *InMemoryTransport) Receive() (Message, error) {
	msg, ok := <-t.inbox[t.rank]
	if !ok {
		return Message{}, fmt.Errorf("%w: inbox closed", ErrTransport)
	}
	return msg, nil
}

func (t *InMemoryTransport) TryReceive() (Message, bool, error) {
	select {
	case msg, ok := <-t.inbox[t.rank]:
		if !ok {
			return Message{}, false, fmt.Errorf("%w: inbox closed", ErrTransport)
		}
		return msg, true, nil
	default:
		return Message{}, false, nil
	}
}

func (t *InMemoryTransport) Barrier() error {
	t.bar.wait()
	return nil
}

// barrier is a simple reusable collective rendezvous for n parties.
type barrier struct {
	n     int
	ch    chan struct{}
	mu    chan struct{} // 1-buffered mutex
	count int
}

func newBarrier(n int) *barrier {
	b := &barrier{n: n, ch: make(chan struct{}), mu: make(chan struct{}, 1)}
	b.mu <- struct{}{}
	return b
}

func (b *barrier) wait() {
	<-b.mu
	b.count++
	if b.count == b.n {
		b.count = 0
		close(b.ch)
		b.ch = make(chan struct{})
		b.mu <- struct{}{}
		return
	}
	ch := b.ch
	b.mu <- struct{}{}
	<-ch
}
