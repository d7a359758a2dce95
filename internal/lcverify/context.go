// Package lcverify implements the linearizability verifier and its sketch
// variants (spec §4.E): a depth-first search over VerifierContext nodes,
// backed by the LTS (internal/lclts) and filtered by happens-before clocks,
// with a results cache keyed on (scenario, ExecutionResult).
package lcverify

import (
	"github.com/joeycumines/go-lincheck/internal/lcactor"
	"github.com/joeycumines/go-lincheck/internal/lclts"
	"github.com/joeycumines/go-lincheck/internal/lctask"
)

// VerifierContext is one node of the search: the current LTS state plus,
// per logical thread (0=init, 1..threads=parallel, threads+1=post), how
// many of that thread's actors have executed, whether the thread is
// currently mid-suspension, and the ticket naming its paused invocation
// (lctask.NoTicket if none), per spec §3.
type VerifierContext struct {
	state     *lclts.State
	executed  []int
	suspended []bool
	tickets   []lctask.Ticket
}

func newContext(lts *lclts.LTS, threadLimit int) *VerifierContext {
	return &VerifierContext{
		state:     lts.Initial(),
		executed:  make([]int, threadLimit),
		suspended: make([]bool, threadLimit),
		tickets:   make([]lctask.Ticket, threadLimit),
	}
}

func (ctx *VerifierContext) clone() *VerifierContext {
	return &VerifierContext{
		state:     ctx.state,
		executed:  append([]int(nil), ctx.executed...),
		suspended: append([]bool(nil), ctx.suspended...),
		tickets:   append([]lctask.Ticket(nil), ctx.tickets...),
	}
}

// allExecuted reports whether every thread has run all of its actors: the
// search's success base case.
func (ctx *VerifierContext) allExecuted(s lcactor.Scenario) bool {
	for t := lcactor.ThreadID(0); t < s.ThreadLimit(); t++ {
		if ctx.executed[t] < len(s.ThreadActors(t)) {
			return false
		}
	}
	return true
}

// applyTransition builds the child context reached by running thread t's
// next actor via info. Both ordinary completion and suspension advance
// executed[t] (a Cancelled or Suspended outcome still occupies that actor's
// slot); resumed_tickets clears suspended/tickets for every thread parked
// on one of those tickets, and ticket_remap renumbers any ticket that
// survives, per spec §4.D/§4.E.
func applyTransition(ctx *VerifierContext, t lcactor.ThreadID, info *lclts.TransitionInfo) *VerifierContext {
	child := ctx.clone()
	child.state = info.Next
	child.executed[t]++

	if info.TicketRemap != nil {
		for i, tk := range child.tickets {
			if tk == lctask.NoTicket {
				continue
			}
			if remapped, ok := info.TicketRemap[tk]; ok {
				child.tickets[i] = remapped
			}
		}
	}

	if _, stillSuspended := info.Result.(lcactor.SuspendedResult); stillSuspended {
		child.suspended[t] = true
		child.tickets[t] = info.Ticket
	} else {
		child.suspended[t] = false
		child.tickets[t] = lctask.NoTicket
	}

	for _, resumed := range info.ResumedTickets {
		for i, tk := range child.tickets {
			if tk == resumed {
				child.suspended[i] = false
				child.tickets[i] = lctask.NoTicket
			}
		}
	}
	return child
}
