// Package lctask provides the Ticket type and TicketAllocator the LTS uses
// to name suspended invocations (§4.D), and a standalone suspend/resume/
// cancel state machine (Machine): a task is Ready, steps to either
// Completed or Suspended, and a Suspended task steps again to Completed or
// Cancelled. Neither the LTS nor the runner drives a Machine; the LTS tracks
// suspension through its specs and the runner through blocked goroutines.
package lctask

import "sync/atomic"

// State is a task's current lifecycle stage. Values are ordered the way
// eventloop.LoopState orders its own stages, so CAS transitions read as
// monotonic progress except for the Ready<->Suspended resume loop.
type State uint32

const (
	// StateReady is the initial stage: the task has not yet been stepped.
	StateReady State = iota
	// StateSuspended is a paused stage awaiting resume or cancellation.
	StateSuspended
	// StateCompleted is terminal: the task ran to completion.
	StateCompleted
	// StateCancelled is terminal: a suspended task was cancelled.
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "Ready"
	case StateSuspended:
		return "Suspended"
	case StateCompleted:
		return "Completed"
	case StateCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Ticket is an opaque handle naming a suspended invocation. The zero value,
// NoTicket, means "no ticket assigned".
type Ticket uint32

// NoTicket is the sentinel ticket value meaning "none".
const NoTicket Ticket = 0

// TicketAllocator hands out monotonically increasing tickets. One
// allocator is owned per LTS instance (spec §4.D); allocation is a single
// atomic increment, mirroring FastState's lock-free CAS idiom.
type TicketAllocator struct {
	next atomic.Uint32
}

// Next returns a fresh, never-before-returned ticket.
func (a *TicketAllocator) Next() Ticket {
	return Ticket(a.next.Add(1))
}

// Machine is a single task's state, transitioned via CAS the way
// eventloop.FastState is: TryTransition never blocks and never validates
// beyond the CAS itself.
type Machine struct {
	state  atomic.Uint32
	ticket atomic.Uint32
}

// NewMachine returns a task machine in StateReady.
func NewMachine() *Machine {
	return &Machine{}
}

// State returns the current stage.
func (m *Machine) State() State { return State(m.state.Load()) }

// Ticket returns the ticket assigned by the most recent TrySuspend call, or
// NoTicket if the task has never suspended.
func (m *Machine) Ticket() Ticket { return Ticket(m.ticket.Load()) }

// TrySuspend transitions Ready -> Suspended, recording ticket. Returns
// false if the task was not in StateReady.
func (m *Machine) TrySuspend(ticket Ticket) bool {
	if !m.state.CompareAndSwap(uint32(StateReady), uint32(StateSuspended)) {
		return false
	}
	m.ticket.Store(uint32(ticket))
	return true
}

// TryComplete transitions Ready -> Completed or Suspended -> Completed
// (the latter models a resumed task finishing). Returns false if the task
// was already terminal.
func (m *Machine) TryComplete() bool {
	return m.state.CompareAndSwap(uint32(StateReady), uint32(StateCompleted)) ||
		m.state.CompareAndSwap(uint32(StateSuspended), uint32(StateCompleted))
}

// TryCancel transitions Suspended -> Cancelled. Returns false if the task
// was not currently suspended (spec §5: cancellation is only legal "at any
// later interleaving point with that ticket still paused").
func (m *Machine) TryCancel() bool {
	return m.state.CompareAndSwap(uint32(StateSuspended), uint32(StateCancelled))
}

// TryResume transitions Suspended -> Ready, allowing the task to be
// stepped again toward Completed or re-Suspended with a new ticket.
func (m *Machine) TryResume() bool {
	return m.state.CompareAndSwap(uint32(StateSuspended), uint32(StateReady))
}

// IsTerminal reports whether the task has reached Completed or Cancelled.
func (m *Machine) IsTerminal() bool {
	switch m.State() {
	case StateCompleted, StateCancelled:
		return true
	default:
		return false
	}
}
