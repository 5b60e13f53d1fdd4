package distribute

import (
	"fmt"
	"math/rand"

	"github.com/cnfsat/dpll-sat/cnf"
	"github.com/cnfsat/dpll-sat/dpll"
)

// stealReplyAttempts bounds how long requestSteal polls for a reply before
// giving up and treating the peer as unresponsive-for-now.
const stealReplyAttempts = 256

// Distributor runs one rank of the inter-process work-stealing protocol
// (spec §4.G). Rank 0 starts with the whole problem; every other rank
// starts idle and steals its first branch from a random peer. Solutions are
// forwarded to rank 0 for global deduplication; termination uses a
// circulating token that returns to rank 0 white only once every rank has
// been idle since it last held the token.
type Distributor struct {
	transport Transport
	formula   *cnf.Formula
	maxUnsat  int
	rng       *rand.Rand

	queue   []dpll.WorkItem
	current *dpll.Frontier

	holdsToken     bool
	tokenDirty     bool
	idleSinceToken bool
	done           bool

	seen      map[string]struct{}
	solutions []cnf.Solution
}

// NewDistributor builds a distributor for one rank of transport over
// formula bounded by maxUnsat.
func NewDistributor(transport Transport, formula *cnf.Formula, maxUnsat int) *Distributor {
	d := &Distributor{
		transport: transport,
		formula:   formula,
		maxUnsat:  maxUnsat,
		rng:       rand.New(rand.NewSource(int64(transport.Rank()) + 1)),
		seen:      make(map[string]struct{}),
	}
	if transport.Rank() == 0 {
		d.queue = []dpll.WorkItem{{MaxUnsat: maxUnsat}}
		d.holdsToken = true
		d.idleSinceToken = true
	}
	return d
}

// Run drives this rank to completion. Only rank 0's returned slice is the
// full, globally deduplicated solution set; other ranks return nil.
func (d *Distributor) Run() ([]cnf.Solution, error) {
	rank := d.transport.Rank()

	for !d.done {
		for {
			msg, ok, err := d.transport.TryReceive()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			if err := d.handle(msg); err != nil {
				return nil, err
			}
			if d.done {
				break
			}
		}
		if d.done {
			break
		}

		if d.current == nil || d.current.Done() {
			if len(d.queue) > 0 {
				item := d.queue[len(d.queue)-1]
				d.queue = d.queue[:len(d.queue)-1]
				if fr, ok := item.Frontier(d.formula, d.emit()); ok {
					d.current = fr
				}
				continue
			}
			if stole, err := d.trySteal(); err != nil {
				return nil, err
			} else if stole {
				continue
			}
			if err := d.participateInTermination(); err != nil {
				return nil, err
			}
			continue
		}

		d.current.Step()
		d.idleSinceToken = false
	}

	if rank != 0 {
		return nil, nil
	}
	return d.snapshotSolutions(), nil
}

func (d *Distributor) emit() dpll.Emit {
	rank := d.transport.Rank()
	return func(s cnf.Solution) {
		if rank == 0 {
			d.record(s)
			return
		}
		// best-effort forward; a dropped solution message would be a
		// transport defect, not a solver one, so errors here are fatal.
		_ = d.transport.Send(0, Message{Kind: MsgSolution, Sol: s})
	}
}

func (d *Distributor) handle(msg Message) error {
	switch msg.Kind {
	case MsgStealRequest:
		item, ok := d.offerWork()
		if ok && msg.From < d.transport.Rank() {
			d.tokenDirty = true
		}
		d.idleSinceToken = false
		return d.transport.Send(msg.From, Message{Kind: MsgStealReply, Ok: ok, Item: item})
	case MsgStealReply:
		// a stray reply arriving outside requestSteal's own poll window;
		// the work is still good, just stash it.
		if msg.Ok {
			d.queue = append(d.queue, msg.Item)
			d.idleSinceToken = false
		}
	case MsgSolution:
		d.record(msg.Sol)
	case MsgToken:
		d.holdsToken = true
		if msg.Token.Color == Black {
			d.tokenDirty = true
		}
	case MsgDone:
		d.done = true
	}
	return nil
}

// offerWork sheds one branch to a thief: first from the local queue, then
// from the currently running frontier's shallowest pending branch.
func (d *Distributor) offerWork() (dpll.WorkItem, bool) {
	if len(d.queue) > 0 {
		item := d.queue[0]
		d.queue = d.queue[1:]
		return item, true
	}
	if d.current != nil {
		return d.current.Shed()
	}
	return dpll.WorkItem{}, false
}

func (d *Distributor) trySteal() (bool, error) {
	world := d.transport.World()
	if world <= 1 {
		return false, nil
	}
	peer := d.rng.Intn(world - 1)
	if peer >= d.transport.Rank() {
		peer++
	}
	if err := d.transport.Send(peer, Message{Kind: MsgStealRequest}); err != nil {
		return false, fmt.Errorf("distribute: steal request: %w", err)
	}
	for attempt := 0; attempt < stealReplyAttempts; attempt++ {
		msg, ok, err := d.transport.TryReceive()
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		if msg.Kind == MsgStealReply && msg.From == peer {
			if !msg.Ok {
				return false, nil
			}
			d.queue = append(d.queue, msg.Item)
			d.idleSinceToken = false
			return true, nil
		}
		if err := d.handle(msg); err != nil {
			return false, err
		}
		if d.done {
			return false, nil
		}
	}
	return false, nil
}

// participateInTermination implements spec §4.G's token circulation: a rank
// holding the token while itself idle passes it on, darkened if it has
// shipped work to a lower-ranked peer since last holding it. Rank 0 closes
// the round: a white token that has been all the way around with every
// rank idle since means the whole fleet is done.
func (d *Distributor) participateInTermination() error {
	rank := d.transport.Rank()
	world := d.transport.World()

	if !d.holdsToken {
		return nil
	}

	if rank == 0 {
		if !d.tokenDirty && d.idleSinceToken {
			d.done = true
			for r := 1; r < world; r++ {
				if err := d.transport.Send(r, Message{Kind: MsgDone}); err != nil {
					return fmt.Errorf("distribute: %w", err)
				}
			}
			return nil
		}
		d.tokenDirty = false
		d.idleSinceToken = true
		if world == 1 {
			return nil // sole rank: stay the permanent token holder, nothing to forward
		}
		d.holdsToken = false
		return d.transport.Send(1, Message{Kind: MsgToken, Token: Token{Color: White}})
	}

	color := White
	if d.tokenDirty {
		color = Black
	}
	d.tokenDirty = false
	d.holdsToken = false
	d.idleSinceToken = true
	return d.transport.Send((rank+1)%world, Message{Kind: MsgToken, Token: Token{Color: color}})
}

func (d *Distributor) record(s cnf.Solution) {
	key := s.Key()
	if _, dup := d.seen[key]; dup {
		return
	}
	d.seen[key] = struct{}{}
	d.solutions = append(d.solutions, s)
}

func (d *Distributor) snapshotSolutions() []cnf.Solution {
	out := make([]cnf.Solution, len(d.solutions))
	copy(out, d.solutions)
	return out
}
