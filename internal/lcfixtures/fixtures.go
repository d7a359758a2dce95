// Package lcfixtures provides small sequential specifications used by the
// engine's own tests and by cmd/lincheck-demo: a counter, an unbounded FIFO
// queue, a semaphore with a suspendable acquire, and a flag/variable pair
// (ClockFlag) for the happens-before scenario. These mirror the seed
// scenarios of spec §8.
package lcfixtures

import (
	"fmt"

	"github.com/joeycumines/go-lincheck/internal/lcactor"
	"github.com/joeycumines/go-lincheck/internal/lclts"
	"github.com/joeycumines/go-lincheck/internal/lctask"
)

// Method ids shared by the fixtures and by cmd/lincheck-demo.
const (
	MethodInc       lcactor.MethodID = "inc"
	MethodGet       lcactor.MethodID = "get"
	MethodAdd       lcactor.MethodID = "add"
	MethodPoll      lcactor.MethodID = "poll"
	MethodPeek      lcactor.MethodID = "peek"
	MethodAcquire   lcactor.MethodID = "acquire"
	MethodRelease   lcactor.MethodID = "release"
	MethodSetX      lcactor.MethodID = "setX"
	MethodSetFlag   lcactor.MethodID = "setFlag"
	MethodWaitFlag  lcactor.MethodID = "waitFlag"
	MethodReadX     lcactor.MethodID = "readX"
)

// Counter is a sequential spec for a single int counter: inc() increments
// and returns void, get() returns the current value.
type Counter struct{ n int }

// NewCounterFactory returns a Factory for a zero-valued Counter.
func NewCounterFactory() lclts.Factory { return func() lclts.Spec { return &Counter{} } }

func (c *Counter) Invoke(method lcactor.MethodID, args []any) lcactor.Result {
	switch method {
	case MethodInc:
		c.n++
		return lcactor.VoidResult{}
	case MethodGet:
		return lcactor.ValueResult{Value: c.n}
	default:
		panic(fmt.Sprintf("lcfixtures.Counter: unknown method %q", method))
	}
}

func (c *Counter) Clone() lclts.Spec { cp := *c; return &cp }
func (c *Counter) Key() any          { return c.n }

// Queue is a sequential spec for an unbounded FIFO queue of ints: add(v)
// appends, poll() removes and returns the head (or nil if empty), peek()
// returns the head without removing it (or nil if empty).
type Queue struct{ items []int }

// NewQueueFactory returns a Factory for an empty Queue.
func NewQueueFactory() lclts.Factory { return func() lclts.Spec { return &Queue{} } }

func (q *Queue) Invoke(method lcactor.MethodID, args []any) lcactor.Result {
	switch method {
	case MethodAdd:
		q.items = append(q.items, args[0].(int))
		return lcactor.VoidResult{}
	case MethodPoll:
		if len(q.items) == 0 {
			return lcactor.ValueResult{Value: nil}
		}
		v := q.items[0]
		q.items = q.items[1:]
		return lcactor.ValueResult{Value: v}
	case MethodPeek:
		if len(q.items) == 0 {
			return lcactor.ValueResult{Value: nil}
		}
		return lcactor.ValueResult{Value: q.items[0]}
	default:
		panic(fmt.Sprintf("lcfixtures.Queue: unknown method %q", method))
	}
}

func (q *Queue) Clone() lclts.Spec {
	cp := &Queue{items: make([]int, len(q.items))}
	copy(cp.items, q.items)
	return cp
}

func (q *Queue) Key() any { return fmt.Sprint(q.items) }

// Semaphore is a sequential spec for a semaphore whose permit count is not
// capped: acquire() blocks
// (suspends) while permits == 0 and decrements on success; release()
// increments permits and, if any acquire is waiting, reserves the permit
// for the longest-waiting ticket and wakes it.
//
// Tickets are allocated by the LTS before an invocation's first suspension
// (lclts.LTS.Transition), so they are stable, non-zero keys from the start
// — a fresh ticket is never seen twice except across its own suspend/resume
// calls.
type Semaphore struct {
	permits int
	order   []lctask.Ticket       // waiting, in arrival order
	ready   map[lctask.Ticket]bool // reserved a permit, awaiting resume
	resumed []lctask.Ticket
}

// NewSemaphoreFactory returns a Factory for a Semaphore starting with
// permits permits (0 for the classic seed test, spec §8 scenario 4).
func NewSemaphoreFactory(permits int) lclts.Factory {
	return func() lclts.Spec { return &Semaphore{permits: permits} }
}

func (s *Semaphore) Invoke(method lcactor.MethodID, args []any) lcactor.Result {
	switch method {
	case MethodRelease:
		s.permits++
		if len(s.order) > 0 {
			woken := s.order[0]
			s.order = s.order[1:]
			s.permits--
			if s.ready == nil {
				s.ready = make(map[lctask.Ticket]bool)
			}
			s.ready[woken] = true
			s.resumed = append(s.resumed, woken)
		}
		return lcactor.VoidResult{}
	default:
		panic(fmt.Sprintf("lcfixtures.Semaphore: unknown non-suspendable method %q", method))
	}
}

func (s *Semaphore) InvokeSuspendable(method lcactor.MethodID, args []any, ticket lctask.Ticket) (lcactor.Result, bool, []lctask.Ticket) {
	if method != MethodAcquire {
		panic(fmt.Sprintf("lcfixtures.Semaphore: unknown suspendable method %q", method))
	}
	if s.ready[ticket] {
		delete(s.ready, ticket)
		return lcactor.VoidResult{}, false, nil
	}
	for _, w := range s.order {
		if w == ticket {
			return nil, true, nil // still waiting
		}
	}
	if s.permits > 0 {
		s.permits--
		return lcactor.VoidResult{}, false, nil
	}
	s.order = append(s.order, ticket)
	return nil, true, nil
}

func (s *Semaphore) Cancel(ticket lctask.Ticket) {
	for i, w := range s.order {
		if w == ticket {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
	delete(s.ready, ticket)
}

func (s *Semaphore) Clone() lclts.Spec {
	cp := &Semaphore{permits: s.permits, order: append([]lctask.Ticket(nil), s.order...)}
	if len(s.ready) > 0 {
		cp.ready = make(map[lctask.Ticket]bool, len(s.ready))
		for k, v := range s.ready {
			cp.ready[k] = v
		}
	}
	return cp
}

func (s *Semaphore) Key() any {
	return fmt.Sprintf("permits=%d order=%v ready=%v", s.permits, s.order, s.ready)
}

// TakeResumedTickets implements lclts.ResumeReporter.
func (s *Semaphore) TakeResumedTickets() []lctask.Ticket {
	out := s.resumed
	s.resumed = nil
	return out
}

// ClockFlag is the sequential spec for spec §8 seed scenario 2 (the classic
// happens-before violation test): setX sets a shared int, setFlag sets a
// shared bool, waitFlag models a busy-wait on that bool (in the reference
// model this always succeeds immediately: the spec captures the data
// dependency, not the spin itself, which is the real runner's concern),
// readX returns the current int.
type ClockFlag struct {
	x    int
	flag bool
}

// NewClockFlagFactory returns a Factory for a zero-valued ClockFlag.
func NewClockFlagFactory() lclts.Factory { return func() lclts.Spec { return &ClockFlag{} } }

func (c *ClockFlag) Invoke(method lcactor.MethodID, args []any) lcactor.Result {
	switch method {
	case MethodSetX:
		c.x = 1
		return lcactor.VoidResult{}
	case MethodSetFlag:
		c.flag = true
		return lcactor.VoidResult{}
	case MethodWaitFlag:
		return lcactor.VoidResult{}
	case MethodReadX:
		return lcactor.ValueResult{Value: c.x}
	default:
		panic(fmt.Sprintf("lcfixtures.ClockFlag: unknown method %q", method))
	}
}

func (c *ClockFlag) Clone() lclts.Spec { cp := *c; return &cp }
func (c *ClockFlag) Key() any          { return [2]any{c.x, c.flag} }
