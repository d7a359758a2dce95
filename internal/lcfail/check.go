package lcfail

import (
	"context"

	"github.com/joeycumines/go-lincheck/internal/lcactor"
	"github.com/joeycumines/go-lincheck/internal/lcrun"
	"github.com/joeycumines/go-lincheck/internal/lcverify"
)

// CheckFunc replays one scenario once and reports the Failure it produced,
// or nil if it passed. The minimizer treats this as a black box, so it is
// agnostic to which strategy (stress replay, model-checking exploration)
// originally found the failure.
type CheckFunc func(scenario lcactor.Scenario) *Failure

// Check replays scenario once through runner under sched and, if it
// completes, verifies the result — the CheckFunc a plain strategy-less
// replay needs, used by Check in the root package as the minimizer oracle.
func Check(ctx context.Context, runner *lcrun.Runner, verifier lcverify.Verifier, scenario lcactor.Scenario, sched lcrun.Scheduler) *Failure {
	result := runner.Run(ctx, scenario, sched)
	if result.Outcome == lcrun.Completed && verifier.Verify(scenario, result.Execution) {
		return nil
	}
	return FromInvocation(scenario, result)
}
