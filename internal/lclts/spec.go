// Package lclts implements the sequential specification wrapper and the
// lazy labeled transition system (LTS) built over it (spec §4.D): a
// hash-consed state arena plus cached, lazily-constructed transitions.
package lclts

import (
	"github.com/joeycumines/go-lincheck/internal/lcactor"
	"github.com/joeycumines/go-lincheck/internal/lctask"
)

// Spec is a reference implementation of the data type under test: the same
// named operations as the actors under test, constructible in a known
// initial state via a Factory.
type Spec interface {
	// Invoke executes method with args against the receiver, mutating it,
	// and returns the outcome.
	Invoke(method lcactor.MethodID, args []any) lcactor.Result
	// Clone returns an independent deep copy of the receiver.
	Clone() Spec
	// Key returns a comparable value identifying the receiver's state for
	// equivalence-class interning (spec §4.D: "equals/hashCode on the spec
	// instance, optionally overridden by extracting a pure value"). Two
	// Spec values the user considers equal must produce equal (==-able)
	// keys.
	Key() any
}

// SuspendableSpec additionally supports suspendable operations, stepped one
// call at a time (design note §9: "the reference specification can be
// advanced step-by-step").
type SuspendableSpec interface {
	Spec

	// InvokeSuspendable starts or resumes the invocation of method named by
	// ticket. The LTS always passes an allocated ticket (never
	// lctask.NoTicket), so the spec tells a start from a resume by its own
	// bookkeeping for that ticket. If the
	// operation completes, suspended is false and result is the final
	// outcome. If it suspends again, suspended is true and result is
	// meaningless. resumed lists the tickets of any other previously
	// suspended invocations this call caused to complete.
	InvokeSuspendable(method lcactor.MethodID, args []any, ticket lctask.Ticket) (result lcactor.Result, suspended bool, resumed []lctask.Ticket)

	// Cancel discards the paused continuation for ticket.
	Cancel(ticket lctask.Ticket)
}

// TicketRemapper is an optional extension a SuspendableSpec may implement
// when resuming one ticket requires renumbering others that survive (spec
// §3 TransitionInfo.ticket_remap).
type TicketRemapper interface {
	// TicketRemap returns the renumbering that took effect on the most
	// recent InvokeSuspendable/Cancel call, or nil if none.
	TicketRemap() map[lctask.Ticket]lctask.Ticket
}

// Factory constructs a fresh Spec in its initial state.
type Factory func() Spec
