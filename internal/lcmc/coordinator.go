package lcmc

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// coordinator is one invocation's lcrun.Scheduler: it enforces single-
// worker-at-a-time cooperative execution (spec §5 "model-checking mode")
// over the runner's actor-boundary interleaving points, consulting a
// shared tree to pick which thread runs next and whether to force a
// switch away from the currently-running thread.
//
// Bytecode instrumentation is out of scope (spec §1), so the only
// interleaving points this scheduler actually sees are the coarse
// BeforeActor/AfterActor boundaries lcrun.Scheduler exposes: one decision
// per whole actor, not per shared-variable access. The ThreadChoosingNode/
// SwitchChoosingNode alternation from spec §4.H is preserved at that
// granularity.
type coordinator struct {
	mu sync.Mutex

	tree        *tree
	rng         *rand.Rand
	maxSwitches int

	parallelThreads int // number of parallel worker thread ids (1..parallelThreads)

	ready     map[int]chan struct{} // threadID -> channel closed to release it
	alive     map[int]bool          // threadID -> still has actors remaining
	remaining map[int]int           // threadID -> actors left to run, incl. the one in flight
	running   int                   // currently-dispatched thread, 0 if none (0 is never a parallel thread id)

	path        string
	switchesUsed int
	lastThread   int // 0 = none yet

	// obstruction-freedom bookkeeping (spec §4.H): count consecutive
	// dispatches of the same solo thread while at least one other thread
	// remains alive but never becomes ready (i.e. presumably blocked).
	soloStreak   int
	soloThread   int
	obstructionThreshold int
	obstructionViolated  bool
}

func newCoordinator(t *tree, rng *rand.Rand, maxSwitches, parallelThreads, obstructionThreshold int, actorCounts map[int]int) *coordinator {
	alive := make(map[int]bool, len(actorCounts))
	remaining := make(map[int]int, len(actorCounts))
	for id, n := range actorCounts {
		remaining[id] = n
		alive[id] = n > 0
	}
	return &coordinator{
		tree:                 t,
		rng:                  rng,
		maxSwitches:          maxSwitches,
		parallelThreads:      parallelThreads,
		ready:                map[int]chan struct{}{},
		alive:                alive,
		remaining:            remaining,
		obstructionThreshold: obstructionThreshold,
	}
}

// BeforeActor implements lcrun.Scheduler. Init (threadID 0) and post
// (threadID parallelThreads+1) run single-threaded already, so only
// parallel thread ids are arbitrated.
func (c *coordinator) BeforeActor(threadID int) {
	if threadID < 1 || threadID > c.parallelThreads {
		return
	}

	c.mu.Lock()
	ch := make(chan struct{})
	c.ready[threadID] = ch
	c.tryDispatch()
	c.mu.Unlock()

	<-ch
}

// AfterActor implements lcrun.Scheduler.
func (c *coordinator) AfterActor(threadID int) {
	if threadID < 1 || threadID > c.parallelThreads {
		return
	}
	c.mu.Lock()
	c.running = 0
	c.remaining[threadID]--
	if c.remaining[threadID] <= 0 {
		c.alive[threadID] = false
	}
	// If threadID has no more actors, it will never call BeforeActor again
	// to trigger the next dispatch itself; do it here so any other thread
	// still blocked in BeforeActor isn't left waiting forever.
	c.tryDispatch()
	c.mu.Unlock()
}

// CancelSignal implements lcrun.Scheduler; this strategy relies entirely
// on ordering choices, not explicit cancellation.
func (c *coordinator) CancelSignal(int) <-chan struct{} { return nil }

// tryDispatch picks the next thread to run, if none is currently running
// and at least one is ready. Must be called with c.mu held.
func (c *coordinator) tryDispatch() {
	if c.running != 0 || len(c.ready) == 0 {
		return
	}

	readyIDs := make([]int, 0, len(c.ready))
	for id := range c.ready {
		readyIDs = append(readyIDs, id)
	}

	var chosen int
	if c.lastThread != 0 {
		if _, stillReady := c.ready[c.lastThread]; stillReady && !c.shouldSwitch() {
			chosen = c.lastThread
		}
	}
	if chosen == 0 {
		candidates := without(readyIDs, c.lastThread)
		if len(candidates) == 0 {
			candidates = readyIDs
		}
		chosen = c.chooseThread(candidates)
	}

	c.trackObstruction(chosen, readyIDs)

	c.running = chosen
	c.lastThread = chosen
	ch := c.ready[chosen]
	delete(c.ready, chosen)
	close(ch)
}

// chooseThread is a ThreadChoosingNode decision (spec §4.H): pick which
// runnable worker runs next, weighted by unexplored fraction.
func (c *coordinator) chooseThread(candidates []int) int {
	cs := c.tree.node(c.path + "|T")
	chosen := cs.pick(c.rng, candidates)
	c.path += fmt.Sprintf("T%d;", chosen)
	return chosen
}

// shouldSwitch is a SwitchChoosingNode decision (spec §4.H): given the
// currently-running thread is ready to continue, decide whether to force
// a switch to some other runnable thread instead. Once max_switches has
// been spent, no further switches are offered and the thread runs to
// completion uninterrupted.
func (c *coordinator) shouldSwitch() bool {
	if c.switchesUsed >= c.maxSwitches {
		return false
	}
	cs := c.tree.node(c.path + "|S")
	choice := cs.pick(c.rng, []int{0, 1}) // 0 = continue, 1 = switch
	c.path += fmt.Sprintf("S%d;", choice)
	if choice == 1 {
		c.switchesUsed++
	}
	return choice == 1
}

func (c *coordinator) trackObstruction(chosen int, readyIDs []int) {
	if c.obstructionThreshold <= 0 {
		return
	}
	others := 0
	for id, alive := range c.alive {
		if id != chosen && alive {
			others++
		}
	}
	solo := len(readyIDs) == 1 && others > 0
	if solo && chosen == c.soloThread {
		c.soloStreak++
	} else {
		c.soloStreak = 1
		c.soloThread = chosen
	}
	if solo && c.soloStreak >= c.obstructionThreshold {
		c.obstructionViolated = true
	}
}

func without(ids []int, exclude int) []int {
	out := ids[:0:0]
	for _, id := range ids {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}
