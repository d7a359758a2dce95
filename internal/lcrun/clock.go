package lcrun

import (
	"sync/atomic"

	"github.com/joeycumines/go-lincheck/internal/lcactor"
)

// clockBoard tracks each parallel thread's executed-actor count as an
// atomic counter, so any thread can cheaply snapshot "how far along is
// every other thread" right before starting its next actor (spec §3
// HBClock / §4.F step 3: "record the current values of all other
// workers' executed counters into its clockOnStart").
type clockBoard struct {
	counters []atomic.Uint32
}

func newClockBoard(threads int) *clockBoard {
	return &clockBoard{counters: make([]atomic.Uint32, threads)}
}

// snapshot returns the current executed counts of every thread, as seen
// from thread self just before it starts its next actor. self's own slot
// reflects its own progress so far (not yet incremented for the actor
// about to run).
func (c *clockBoard) snapshot(self int) lcactor.HBClock {
	clock := make(lcactor.HBClock, len(c.counters))
	for i := range c.counters {
		clock[i] = c.counters[i].Load()
	}
	_ = self
	return clock
}

// advance increments thread self's executed count after it completes an
// actor.
func (c *clockBoard) advance(self int) {
	c.counters[self].Add(1)
}
