package lclts

import (
	"fmt"
	"sync"

	"github.com/joeycumines/go-lincheck/internal/lcactor"
	"github.com/joeycumines/go-lincheck/internal/lctask"
)

// TransitionInfo describes one edge of the LTS: (next_state, result,
// ticket, resumed_tickets, ticket_remap), per spec §3.
type TransitionInfo struct {
	Next           *State
	Result         lcactor.Result
	Ticket         lctask.Ticket
	ResumedTickets []lctask.Ticket
	TicketRemap    map[lctask.Ticket]lctask.Ticket
}

// transitionKey identifies one cached transition: the source state, the
// requested actor (by method + a best-effort rendering of its arguments),
// the expected result, and the thread's current ticket. Argument and
// result payloads are opaque (spec §3), so the key renders them with %#v —
// adequate for the bounded, simple argument values real test operations
// take (ints, strings, bools, small enums).
type transitionKey struct {
	from     StateID
	method   lcactor.MethodID
	args     string
	expected string
	ticket   lctask.Ticket
}

func newTransitionKey(from StateID, actor lcactor.Actor, expected lcactor.Result, ticket lctask.Ticket) transitionKey {
	return transitionKey{
		from:     from,
		method:   actor.Method(),
		args:     fmt.Sprintf("%#v", actor.Args()),
		expected: fmt.Sprintf("%#v", expected),
		ticket:   ticket,
	}
}

// LTS is the lazy labeled transition system over a sequential
// specification: a hash-consed state arena plus a cache of constructed
// transitions. One LTS is owned per sequential_specification configuration
// (spec §5: "each behind a single owner"), never a package-level global.
type LTS struct {
	mu          sync.Mutex
	factory     Factory
	arena       arena
	intern      map[any]*State
	transitions map[transitionKey]*TransitionInfo
	tickets     lctask.TicketAllocator
	initial     *State
}

// New builds an LTS rooted at factory()'s initial state.
func New(factory Factory) *LTS {
	l := &LTS{
		factory:     factory,
		intern:      make(map[any]*State),
		transitions: make(map[transitionKey]*TransitionInfo),
	}
	l.initial = l.internLocked(factory())
	return l
}

// Initial returns the LTS's root state.
func (l *LTS) Initial() *State { return l.initial }

// internLocked interns spec into the arena's equivalence classes. Callers
// must hold l.mu.
func (l *LTS) internLocked(spec Spec) *State {
	key := spec.Key()
	if existing, ok := l.intern[key]; ok {
		return existing
	}
	st := l.arena.alloc(spec, key)
	l.intern[key] = st
	return st
}

// StateCount returns the number of distinct equivalence classes discovered
// so far, for diagnostics/tests.
func (l *LTS) StateCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.arena.len()
}

// Transition returns the cached or newly-constructed edge from state `from`
// for `actor`, given the thread's current `ticket` (lctask.NoTicket if the
// thread has no pending suspension) and the `expected` result to validate
// against. ok is false if the actor's real outcome does not match expected
// (spec §4.D: "On mismatch return None").
func (l *LTS) Transition(from *State, actor lcactor.Actor, expected lcactor.Result, ticket lctask.Ticket) (info *TransitionInfo, ok bool) {
	key := newTransitionKey(from.id, actor, expected, ticket)

	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, hit := l.transitions[key]; hit {
		return cached, cached != nil
	}

	info = l.computeTransition(from, actor, expected, ticket)
	l.transitions[key] = info
	return info, info != nil
}

func (l *LTS) computeTransition(from *State, actor lcactor.Actor, expected lcactor.Result, ticket lctask.Ticket) *TransitionInfo {
	if !actor.IsSuspendable() {
		clone := from.spec.Clone()
		result := clone.Invoke(actor.Method(), actor.Args())
		if !lcactor.ResultsEqual(result, expected) {
			return nil
		}
		return &TransitionInfo{
			Next:           l.internLocked(clone),
			Result:         result,
			Ticket:         ticket,
			ResumedTickets: resumedTicketsOf(clone),
		}
	}

	suspendable, isSuspendable := from.spec.(SuspendableSpec)
	if !isSuspendable {
		return nil
	}
	clone := suspendable.Clone().(SuspendableSpec)

	// A suspendable invocation's ticket is allocated up front, before its
	// first call and whether or not it suspends, so the spec itself can use
	// it as a stable waiter key
	// across the suspend -> resume calls (spec §3: "ticket uniquely names
	// a suspended invocation").
	effectiveTicket := ticket
	if effectiveTicket == lctask.NoTicket {
		effectiveTicket = l.tickets.Next()
	}

	result, suspended, resumed := clone.InvokeSuspendable(actor.Method(), actor.Args(), effectiveTicket)
	if suspended {
		if !lcactor.ResultsEqual(lcactor.SuspendedResult{}, expected) {
			return nil
		}
		return &TransitionInfo{
			Next:           l.internLocked(clone),
			Result:         lcactor.SuspendedResult{},
			Ticket:         effectiveTicket,
			ResumedTickets: resumed,
			TicketRemap:    ticketRemapOf(clone),
		}
	}

	if !lcactor.ResultsEqual(result, expected) {
		return nil
	}
	return &TransitionInfo{
		Next:           l.internLocked(clone),
		Result:         result,
		Ticket:         effectiveTicket,
		ResumedTickets: resumed,
		TicketRemap:    ticketRemapOf(clone),
	}
}

// CancelTransition constructs the LTS edge for cancelling the invocation
// paused under ticket, discarding its continuation (spec §4.D: "For a
// Cancellation transition on ticket t: discard the paused continuation and
// proceed").
func (l *LTS) CancelTransition(from *State, ticket lctask.Ticket) (*TransitionInfo, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := transitionKey{from: from.id, method: "@cancel", ticket: ticket}
	if cached, hit := l.transitions[key]; hit {
		return cached, cached != nil
	}

	suspendable, ok := from.spec.(SuspendableSpec)
	if !ok {
		l.transitions[key] = nil
		return nil, false
	}
	clone := suspendable.Clone().(SuspendableSpec)
	clone.Cancel(ticket)

	info := &TransitionInfo{
		Next:        l.internLocked(clone),
		Result:      lcactor.CancelledResult{},
		Ticket:      ticket,
		TicketRemap: ticketRemapOf(clone),
	}
	l.transitions[key] = info
	return info, true
}

func ticketRemapOf(spec SuspendableSpec) map[lctask.Ticket]lctask.Ticket {
	if remapper, ok := spec.(TicketRemapper); ok {
		return remapper.TicketRemap()
	}
	return nil
}

// ResumeReporter is an optional extension for specs where an ordinary
// (non-suspendable) operation can wake other threads' paused invocations,
// e.g. a semaphore's release() waking a suspended acquire() (spec §4.D:
// "when an operation resumes previously paused operations, list their
// tickets in resumed_tickets").
type ResumeReporter interface {
	// TakeResumedTickets returns, and clears, the tickets resumed by the
	// most recent Invoke call.
	TakeResumedTickets() []lctask.Ticket
}

func resumedTicketsOf(spec Spec) []lctask.Ticket {
	if reporter, ok := spec.(ResumeReporter); ok {
		return reporter.TakeResumedTickets()
	}
	return nil
}
