package lcverify

import (
	"github.com/joeycumines/go-lincheck/internal/lcactor"
	"github.com/joeycumines/go-lincheck/internal/lclts"
)

// searchOptions toggles the happens-before filter, letting the
// quiescent-consistency and serializability sketch variants (spec §4.E,
// "variants (sketch only)") share this DFS with linearizability while
// relaxing the real-time ordering requirement.
type searchOptions struct {
	enforceHB bool
}

// search performs the DFS described in spec §4.E: at each node, try every
// thread whose next actor is legally orderable and whose expected result
// matches an available LTS transition; succeed as soon as any branch
// reaches a context with every actor executed.
func search(lts *lclts.LTS, scenario lcactor.Scenario, expected lcactor.ExecutionResult, ctx *VerifierContext, opts searchOptions) bool {
	if ctx.allExecuted(scenario) {
		return true
	}

	limit := scenario.ThreadLimit()
	for t := lcactor.ThreadID(0); t < limit; t++ {
		actors := scenario.ThreadActors(t)
		idx := ctx.executed[t]
		if idx >= len(actors) {
			continue
		}
		if !legalOrdering(scenario, ctx, t) {
			continue
		}
		if opts.enforceHB && isParallelThread(scenario, t) && !hbSatisfied(scenario, expected, ctx, t) {
			continue
		}

		actor := actors[idx]
		expectedResult := expectedResultFor(scenario, expected, t, idx)

		if ctx.suspended[t] {
			if !actor.Flags().Has(lcactor.FlagCancelOnSuspension) {
				continue
			}
			if _, wantsCancel := expectedResult.(lcactor.CancelledResult); !wantsCancel {
				continue
			}
			info, ok := lts.CancelTransition(ctx.state, ctx.tickets[t])
			if !ok {
				continue
			}
			if search(lts, scenario, expected, applyTransition(ctx, t, info), opts) {
				return true
			}
			continue
		}

		// An expected Cancelled on a cancel_on_suspension actor is reached by
		// suspending it and then cancelling the suspension in one step.
		if _, wantsCancel := expectedResult.(lcactor.CancelledResult); wantsCancel && actor.IsSuspendable() && actor.Flags().Has(lcactor.FlagCancelOnSuspension) {
			if sInfo, ok := lts.Transition(ctx.state, actor, lcactor.SuspendedResult{}, ctx.tickets[t]); ok {
				if cInfo, ok := lts.CancelTransition(sInfo.Next, sInfo.Ticket); ok {
					if search(lts, scenario, expected, applyTransition(ctx, t, cInfo), opts) {
						return true
					}
				}
			}
		}

		info, ok := lts.Transition(ctx.state, actor, expectedResult, ctx.tickets[t])
		if !ok {
			continue
		}
		if search(lts, scenario, expected, applyTransition(ctx, t, info), opts) {
			return true
		}
	}
	return false
}

func isParallelThread(s lcactor.Scenario, t lcactor.ThreadID) bool {
	return int(t) >= 1 && int(t) <= s.ThreadCount()
}

// legalOrdering enforces spec §4.E's phase ordering: init before any
// parallel actor, the whole parallel part before any post actor.
func legalOrdering(s lcactor.Scenario, ctx *VerifierContext, t lcactor.ThreadID) bool {
	if t == 0 {
		return true
	}
	if ctx.executed[0] < len(s.Init) {
		return false
	}
	if int(t) == s.ThreadCount()+1 {
		for j := 1; j <= s.ThreadCount(); j++ {
			if ctx.executed[j] < len(s.Parallel[j-1]) {
				return false
			}
		}
	}
	return true
}

// hbSatisfied enforces the happens-before filter: the clock recorded when
// thread t's next actor started must be dominated by the other parallel
// threads' current executed counts (spec §4.E).
func hbSatisfied(s lcactor.Scenario, expected lcactor.ExecutionResult, ctx *VerifierContext, t lcactor.ThreadID) bool {
	idx := ctx.executed[t]
	clock := expected.ParallelResults[t-1][idx].Clock
	for j := 1; j <= s.ThreadCount(); j++ {
		var want uint32
		if j-1 < len(clock) {
			want = clock[j-1]
		}
		if uint32(ctx.executed[j]) < want {
			return false
		}
	}
	return true
}

func expectedResultFor(s lcactor.Scenario, expected lcactor.ExecutionResult, t lcactor.ThreadID, idx int) lcactor.Result {
	switch {
	case t == 0:
		return expected.InitResults[idx]
	case int(t) == s.ThreadCount()+1:
		return expected.PostResults[idx]
	default:
		return expected.ParallelResults[t-1][idx].Result
	}
}
