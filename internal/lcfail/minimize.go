package lcfail

import "github.com/joeycumines/go-lincheck/internal/lcactor"

// position names one actor's slot within a scenario, using the same
// thread numbering as lcactor.Scenario.ThreadActors.
type position struct {
	thread lcactor.ThreadID
	index  int
}

// candidatePositions enumerates every actor's removable position, parallel
// threads first (in thread order), then init, then post — the order spec
// §4.I's greedy minimizer tries removals in.
func candidatePositions(s lcactor.Scenario) []position {
	out := make([]position, 0, s.TotalActors())
	for t := 0; t < s.ThreadCount(); t++ {
		tid := lcactor.ThreadID(t + 1)
		for i := range s.Parallel[t] {
			out = append(out, position{thread: tid, index: i})
		}
	}
	for i := range s.Init {
		out = append(out, position{thread: 0, index: i})
	}
	for i := range s.Post {
		out = append(out, position{thread: lcactor.ThreadID(s.ThreadCount() + 1), index: i})
	}
	return out
}

// Minimize implements the greedy scenario minimizer (spec §4.I): repeatedly
// scans the failing scenario's actor positions (parallel first, then init,
// then post), removes the first whose absence still validates
// (Scenario.IsValid) and still reproduces a failure via check, and restarts
// the scan from the smaller scenario. It stops, returning the smallest
// scenario found and the failure it reproduced, once a full scan removes
// nothing. Each scan is linear in the scenario's actor count, and the
// scenario only ever shrinks, so the whole process terminates in at most
// TotalActors scans.
func Minimize(scenario lcactor.Scenario, failure *Failure, check CheckFunc) (lcactor.Scenario, *Failure) {
	current := scenario
	currentFailure := failure

	for {
		shrunk := false
		for _, pos := range candidatePositions(current) {
			smaller := current.WithoutActor(pos.thread, pos.index)
			if !smaller.IsValid() {
				continue
			}
			if f := check(smaller); f != nil {
				current = smaller
				currentFailure = f
				shrunk = true
				break
			}
		}
		if !shrunk {
			return current, currentFailure
		}
	}
}
