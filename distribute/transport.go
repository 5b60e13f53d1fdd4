// Package distribute implements peer-to-peer work stealing across
// cooperating processes (spec §4.G), against the transport contract spec §6
// names: point-to-point reliable send/receive, non-blocking send, blocking
// or polled receive, and a collective barrier.
package distribute

import (
	"github.com/cnfsat/dpll-sat/cnf"
	"github.com/cnfsat/dpll-sat/dpll"
)

// MessageKind distinguishes the distributor's wire protocol.
type MessageKind int

const (
	MsgStealRequest MessageKind = iota
	MsgStealReply
	MsgSolution
	MsgToken
	MsgDone
)

// TokenColor is the Dijkstra-Scholten-style marker carried by the
// termination token (spec §4.G: "a token that circulates among ranks and
// returns white only when every rank was idle since the token last left
// it").
type TokenColor int

const (
	White TokenColor = iota
	Black
)

// Token is the termination-detection message body.
type Token struct {
	Color TokenColor
}

// Message is the distributor's single wire type; which fields are
// meaningful depends on Kind.
type Message struct {
	Kind  MessageKind
	From  int
	Item  dpll.WorkItem // MsgStealReply
	Ok    bool          // MsgStealReply: whether Item carries real work
	Sol   cnf.Solution  // MsgSolution
	Token Token         // MsgToken
}

// Transport is the contract spec §6 requires of the message-passing
// runtime. The distributor is written entirely against this interface; a
// real deployment plugs in MPI, gRPC, or any transport honoring the same
// contract. InMemoryTransport (inmemory_transport.go) is this module's only implementation,
// used to exercise the distributor in tests without a real launcher
// (SPEC_FULL.md supplemental feature 5).
type Transport interface {
	Rank() int
	World() int

	// Send is point-to-point reliable delivery; it may block.
	Send(to int, msg Message) error
	// TrySend is the non-blocking variant; sent is false if it would block.
	TrySend(to int, msg Message) (sent bool, err error)
	// Receive blocks until a message addressed to this rank arrives.
	Receive() (Message, error)
	// TryReceive polls and returns immediately.
	TryReceive() (Message, bool, error)
	// Barrier is a collective rendezvous across all ranks.
	Barrier() error
}
