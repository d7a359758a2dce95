package lcactor

// ThreadID identifies a logical thread within a VerifierContext-style
// numbering: 0 is the init phase, 1..ThreadCount() are the parallel
// threads, and ThreadCount()+1 is the post phase. The parallel executor
// and verifier share this numbering so clocks and executed-counts line up.
type ThreadID int

// Scenario is the immutable init/parallel/post test program described in
// spec §3. Build one with NewScenario; there is no in-place mutation, only
// construction of a new value (e.g. by the minimizer, §4.I).
type Scenario struct {
	Init     []Actor
	Parallel [][]Actor
	Post     []Actor
}

// NewScenario returns a Scenario over the given parts. Slices are retained
// by reference.
func NewScenario(init []Actor, parallel [][]Actor, post []Actor) Scenario {
	return Scenario{Init: init, Parallel: parallel, Post: post}
}

// ThreadCount returns the number of parallel threads.
func (s Scenario) ThreadCount() int { return len(s.Parallel) }

// IsParallelEmpty reports whether every parallel thread is empty, i.e. the
// scenario has no parallel activity at all.
func (s Scenario) IsParallelEmpty() bool {
	for _, t := range s.Parallel {
		if len(t) != 0 {
			return false
		}
	}
	return true
}

// HasSuspendable reports whether any actor in the parallel part may
// suspend.
func (s Scenario) HasSuspendable() bool {
	for _, t := range s.Parallel {
		for _, a := range t {
			if a.IsSuspendable() {
				return true
			}
		}
	}
	return false
}

// IsValid checks the scenario invariant from spec §3/§8:
//
//	scenario_valid(s) ⇔ parallel_nonempty ∧
//	  (¬has_suspendable(s) ∨ (no_suspendable_in_init(s) ∧ post_empty(s)))
//
// init may never itself contain a suspendable actor, independent of
// has_suspendable.
func (s Scenario) IsValid() bool {
	if s.IsParallelEmpty() {
		return false
	}
	for _, a := range s.Init {
		if a.IsSuspendable() {
			return false
		}
	}
	if s.HasSuspendable() && len(s.Post) != 0 {
		return false
	}
	return true
}

// ThreadActors returns the actor sequence for thread id t, using the
// 0=init, 1..ThreadCount()=parallel, ThreadCount()+1=post numbering.
func (s Scenario) ThreadActors(t ThreadID) []Actor {
	switch {
	case t == 0:
		return s.Init
	case int(t) == s.ThreadCount()+1:
		return s.Post
	case int(t) >= 1 && int(t) <= s.ThreadCount():
		return s.Parallel[t-1]
	default:
		return nil
	}
}

// ThreadLimit returns the exclusive upper bound of the thread numbering,
// i.e. ThreadCount()+2 (init, parallel threads, post).
func (s Scenario) ThreadLimit() ThreadID { return ThreadID(s.ThreadCount() + 2) }

// WithoutActor returns a copy of the scenario with the actor at the given
// thread/index removed, pruning the thread entirely if it becomes empty.
// Used by the minimizer (§4.I); does not itself validate the result.
func (s Scenario) WithoutActor(t ThreadID, index int) Scenario {
	switch {
	case t == 0:
		return Scenario{Init: removeAt(s.Init, index), Parallel: s.Parallel, Post: s.Post}
	case int(t) == s.ThreadCount()+1:
		return Scenario{Init: s.Init, Parallel: s.Parallel, Post: removeAt(s.Post, index)}
	case int(t) >= 1 && int(t) <= s.ThreadCount():
		parallel := make([][]Actor, 0, len(s.Parallel))
		for i, actors := range s.Parallel {
			if ThreadID(i+1) == t {
				actors = removeAt(actors, index)
				if len(actors) == 0 {
					continue
				}
			}
			parallel = append(parallel, actors)
		}
		return Scenario{Init: s.Init, Parallel: parallel, Post: s.Post}
	default:
		return s
	}
}

// TotalActors returns the total actor count across all three parts, used by
// the minimizer's monotonicity property (spec §8).
func (s Scenario) TotalActors() int {
	n := len(s.Init) + len(s.Post)
	for _, t := range s.Parallel {
		n += len(t)
	}
	return n
}

func removeAt(actors []Actor, index int) []Actor {
	out := make([]Actor, 0, len(actors)-1)
	out = append(out, actors[:index]...)
	out = append(out, actors[index+1:]...)
	return out
}
