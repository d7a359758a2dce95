// Package lincheck is the public entry point: it composes the execution
// generator (internal/lcgen), the runner (internal/lcrun), a strategy
// (internal/lcstress or internal/lcmc), a verifier (internal/lcverify), and
// the minimizer (internal/lcfail) into the iterations loop spec §2/§6
// describe. A user builds a Test describing the data structure under test,
// picks Options, and calls Check.
package lincheck

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/joeycumines/go-lincheck/internal/lcactor"
	"github.com/joeycumines/go-lincheck/internal/lcconfig"
	"github.com/joeycumines/go-lincheck/internal/lcfail"
	"github.com/joeycumines/go-lincheck/internal/lcgen"
	"github.com/joeycumines/go-lincheck/internal/lclts"
	"github.com/joeycumines/go-lincheck/internal/lcmc"
	"github.com/joeycumines/go-lincheck/internal/lcrun"
	"github.com/joeycumines/go-lincheck/internal/lcstress"
	"github.com/joeycumines/go-lincheck/internal/lcverify"
)

// Operation is one named, user-supplied implementation the runner executes
// against the real instance under test (spec §6 "a set of named
// operations").
type Operation = lcrun.OperationFunc

// Group is a non-parallel group of actor generators pinned to the same
// thread (spec §4.C); the zero value Test.Groups may be left nil when every
// generator lives in SharedPool instead.
type Group = lcgen.Group

// ActorGenerator describes one operation the execution generator may draw
// (spec §4.B/§4.C).
type ActorGenerator = lcgen.ActorGenerator

// Test is the user-provided description of the data structure under test
// (spec §6 "Test description"): an initial-state constructor, the real
// operations the runner executes, the matching sequential specification the
// verifier checks against, the pools the execution generator draws from,
// and optional post-phase validations.
type Test struct {
	// NewInstance constructs a fresh instance of the real data structure
	// under test; a new one is built for every invocation (spec §5).
	NewInstance func() any
	// Operations maps every method id to its real implementation.
	Operations map[lcactor.MethodID]Operation
	// Sequential constructs the reference implementation the verifier
	// checks observed results against (spec §6 `sequential_specification`).
	Sequential lclts.Factory
	// Groups are non-parallel generator groups (spec §4.C); actors drawn
	// from one group are pinned to the same thread.
	Groups []Group
	// SharedPool is drawn from by every thread, independent of Groups.
	SharedPool []ActorGenerator
	// Validations run after each phase; a non-nil error becomes a
	// ValidationFailure (spec §4.F step 7).
	Validations []lcrun.ValidationFunc
}

// Failure is the structured, reproducible report of a failing scenario
// (spec §4.I / §6 outputs), re-exported so callers never need to import
// internal/lcfail directly.
type Failure = lcfail.Failure

// Report is what Check returns: nil on success, or the minimized (if
// enabled) failing scenario plus the diff against the original.
type Report struct {
	// Original is the failure as first discovered, before minimization.
	Original *Failure
	// Minimized is the result of running the greedy minimizer over
	// Original, or equal to Original if minimization was disabled or made
	// no further progress.
	Minimized *Failure
	// Diff is a unified diff between Original's and Minimized's rendered
	// scenario tables; empty if they render identically.
	Diff string
}

// String renders Report as the scenario table, failure kind, and diff a
// user reads on a failing test (spec §6 "Outputs").
func (r *Report) String() string {
	if r == nil {
		return ""
	}
	s := fmt.Sprintf("lincheck: %s\n\n%s", r.Minimized.Kind, lcfail.Render(r.Minimized.Scenario, r.Minimized.Execution))
	if r.Minimized.Err != nil {
		s += fmt.Sprintf("\ncause: %v", r.Minimized.Err)
	}
	if r.Diff != "" {
		s += "\n\n" + r.Diff
	}
	return s
}

// Check runs the configured number of iterations against test, returning
// nil on success or a Report describing the first reproducible failure
// (spec §2's data flow, end to end).
func Check(ctx context.Context, test Test, opts ...Option) *Report {
	cfg := lcconfig.Resolve(opts)

	runner := lcrun.New(lcrun.Config{
		Factory:     test.NewInstance,
		Operations:  lcrun.Registry(test.Operations),
		Validations: test.Validations,
		Timeout:     cfg.Timeout,
		Logger:      cfg.Logger,
	})
	verifier := lcconfig.BuildVerifier(cfg.Verifier, test.Sequential)
	runIteration := newStrategyRunner(cfg, runner, verifier)

	genCfg := lcgen.Config{
		Threads:         cfg.Threads,
		ActorsPerThread: cfg.ActorsPerThread,
		ActorsBefore:    cfg.ActorsBefore,
		ActorsAfter:     cfg.ActorsAfter,
		Groups:          test.Groups,
		SharedPool:      test.SharedPool,
	}
	rng := rand.New(rand.NewPCG(cfg.RNGSeed, cfg.RNGSeed^0x9e3779b97f4a7c15))

	for i := 0; i < cfg.Iterations; i++ {
		if ctx.Err() != nil {
			return nil
		}
		scenario := lcgen.Generate(genCfg, rng)
		if scenario.IsParallelEmpty() {
			continue
		}

		failure := runIteration(ctx, scenario)
		if failure == nil {
			continue
		}

		return buildReport(cfg, runner, verifier, scenario, failure)
	}

	return nil
}

// buildReport optionally minimizes failure's scenario (spec §4.I) and
// assembles the user-facing Report.
func buildReport(cfg lcconfig.Config, runner *lcrun.Runner, verifier lcverify.Verifier, scenario lcactor.Scenario, failure *lcfail.Failure) *Report {
	if !cfg.MinimizeFailedScenario {
		return &Report{Original: failure, Minimized: failure}
	}

	check := func(s lcactor.Scenario) *lcfail.Failure {
		return lcfail.Check(context.Background(), runner, verifier, s, lcrun.NoOpScheduler{})
	}
	minimizedScenario, minimizedFailure := lcfail.Minimize(scenario, failure, check)

	report := &Report{Original: failure, Minimized: minimizedFailure}
	if minimizedScenario.TotalActors() != scenario.TotalActors() {
		report.Diff = lcfail.Diff(scenario, minimizedScenario)
	}
	return report
}

// replayRunner uniformly drives either strategy for exactly one scenario,
// returning the Failure it found or nil if the scenario passed under the
// configured invocation budget.
type replayRunner func(ctx context.Context, scenario lcactor.Scenario) *lcfail.Failure

// newStrategyRunner builds the replayRunner for cfg.Strategy, adapting
// internal/lcstress's IterationResult and internal/lcmc's Result — which
// disagree in shape, in particular lcmc's ObstructionFreedomViolated flag
// that lcrun.Outcome alone can't express — into one lcfail.Failure shape.
func newStrategyRunner(cfg lcconfig.Config, runner *lcrun.Runner, verifier lcverify.Verifier) replayRunner {
	switch cfg.Strategy {
	case lcconfig.StrategyModelChecking:
		mc := lcmc.New(lcmc.Config{
			MaxInvocations:            cfg.InvocationsPerIteration,
			CheckObstructionFreedom:   cfg.CheckObstructionFreedom,
			ObstructionRetryThreshold: cfg.HangingDetectionThreshold,
			Seed:                      cfg.RNGSeed,
			Logger:                    cfg.Logger,
		}, runner, verifier)
		return func(ctx context.Context, scenario lcactor.Scenario) *lcfail.Failure {
			result := mc.Explore(ctx, scenario)
			if result.Failing == nil {
				return nil
			}
			if result.ObstructionFreedomViolated {
				return &lcfail.Failure{
					Kind:      lcfail.ObstructionFreedomViolation,
					Scenario:  scenario,
					Execution: result.Failing.Execution,
					Err:       result.Failing.Err,
					StackDump: result.Failing.StackDump,
				}
			}
			return lcfail.FromInvocation(scenario, *result.Failing)
		}
	default:
		stress := lcstress.New(lcstress.Config{
			InvocationsPerIteration: cfg.InvocationsPerIteration,
			MaxConcurrentInvocations: cfg.BatchConcurrency,
			Seed:                     cfg.RNGSeed,
			Logger:                   cfg.Logger,
		}, runner, verifier)
		return func(ctx context.Context, scenario lcactor.Scenario) *lcfail.Failure {
			result := stress.RunIteration(ctx, scenario)
			if result.Passed {
				return nil
			}
			return lcfail.FromInvocation(scenario, result.Failing)
		}
	}
}
