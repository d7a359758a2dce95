// Package lcstress implements the stress strategy (spec §4.G): no
// interleaving tree, just repeated randomized invocations with optional
// scrambling busy-waits, run until invocations_per_iteration is exhausted
// or a failure is found.
package lcstress

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/go-microbatch"

	"github.com/joeycumines/go-lincheck/internal/lcactor"
	"github.com/joeycumines/go-lincheck/internal/lclog"
	"github.com/joeycumines/go-lincheck/internal/lcrun"
	"github.com/joeycumines/go-lincheck/internal/lcverify"
)

// Config configures the stress strategy (spec §4.G / §6).
type Config struct {
	// InvocationsPerIteration bounds how many replays of one scenario are
	// attempted before moving to the next iteration.
	InvocationsPerIteration int
	// AddWaits enables pseudo-random busy-wait scrambling between actors.
	AddWaits bool
	// MaxWaitIterations bounds the busy-wait burst length when AddWaits is
	// set.
	MaxWaitIterations int
	// MaxConcurrentInvocations is the batcher's MaxConcurrency. RunIteration
	// submits one replay at a time and waits for it before submitting the
	// next, so replays never overlap whatever this is set to.
	MaxConcurrentInvocations int
	Seed                     uint64
	// Logger receives per-invocation and per-iteration events (spec §6
	// `logger` option). Defaults to a disabled logger if nil.
	Logger *lclog.Logger
}

// Strategy drives lcrun.Runner through repeated, randomized invocations of
// one scenario and checks each completed invocation with a Verifier.
type Strategy struct {
	cfg      Config
	runner   *lcrun.Runner
	verifier lcverify.Verifier
	limiter  *catrate.Limiter
}

// New builds a stress Strategy.
func New(cfg Config, runner *lcrun.Runner, verifier lcverify.Verifier) *Strategy {
	if cfg.InvocationsPerIteration <= 0 {
		cfg.InvocationsPerIteration = 1
	}
	if cfg.MaxConcurrentInvocations <= 0 {
		cfg.MaxConcurrentInvocations = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = lclog.Discard
	}
	var limiter *catrate.Limiter
	if cfg.AddWaits {
		// Caps how often a wait burst is inserted per thread, so
		// MaxWaitIterations can't itself runaway total iteration latency
		// even with a large worst-case draw (spec §4.G: "bounded by a
		// configurable ceiling").
		limiter = catrate.NewLimiter(map[time.Duration]int{time.Second: 1000})
	}
	return &Strategy{cfg: cfg, runner: runner, verifier: verifier, limiter: limiter}
}

// job is one scheduled replay of the iteration's scenario.
type job struct {
	scenario lcactor.Scenario
	result   lcrun.InvocationResult
	verified bool
}

// IterationResult is what RunIteration found: either every invocation
// passed, or the first failing invocation and its outcome.
type IterationResult struct {
	Passed      bool
	Failing     lcrun.InvocationResult
	Invocations int
}

// RunIteration replays scenario up to cfg.InvocationsPerIteration times,
// stopping at the first LincheckFailure (an incomplete/bad Outcome, or a
// Completed result the verifier rejects), per spec §4.G.
func (s *Strategy) RunIteration(ctx context.Context, scenario lcactor.Scenario) IterationResult {
	s.cfg.Logger.Debug().Int("threads", scenario.ThreadCount()).Int("budget", s.cfg.InvocationsPerIteration).Log("lcstress: iteration starting")

	iterCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var failing lcrun.InvocationResult
	failed := false
	ran := 0

	batcher := microbatch.NewBatcher(&microbatch.BatcherConfig{
		MaxSize:        1, // each invocation is independent; batch purely for bounded concurrency
		FlushInterval:  -1,
		MaxConcurrency: s.cfg.MaxConcurrentInvocations,
	}, func(ctx context.Context, jobs []*job) error {
		for _, j := range jobs {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			sched := s.newScheduler()
			j.result = s.runner.Run(ctx, j.scenario, sched)
			if j.result.Outcome == lcrun.Completed {
				j.verified = s.verifier.Verify(j.scenario, j.result.Execution)
			}
		}
		return nil
	})
	defer batcher.Close()

	rng := newRNG(s.cfg.Seed)
	for i := 0; i < s.cfg.InvocationsPerIteration && !failed; i++ {
		_ = rng // reserved for future per-invocation wait-pattern selection
		j := &job{scenario: scenario}
		jr, err := batcher.Submit(iterCtx, j)
		if err != nil {
			break
		}
		if werr := jr.Wait(iterCtx); werr != nil {
			break
		}
		ran++
		if j.result.Outcome != lcrun.Completed || !j.verified {
			failing = j.result
			failed = true
			s.cfg.Logger.Warning().Int("invocations", ran).Str("outcome", j.result.Outcome.String()).Log("lcstress: iteration found a failure")
			cancel()
		}
	}

	if !failed {
		s.cfg.Logger.Debug().Int("invocations", ran).Log("lcstress: iteration passed")
	}

	return IterationResult{Passed: !failed, Failing: failing, Invocations: ran}
}

func (s *Strategy) newScheduler() lcrun.Scheduler {
	if !s.cfg.AddWaits {
		return lcrun.NoOpScheduler{}
	}
	return &waitScheduler{cfg: s.cfg, limiter: s.limiter, rng: newRNG(s.cfg.Seed)}
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xda942042e4dd58b5))
}

// waitScheduler inserts bounded, rate-limited busy-wait bursts between
// actors to scramble real timing (spec §4.G). It never requests
// cancellation; stress mode relies purely on timing perturbation, not
// explicit switch points.
type waitScheduler struct {
	cfg     Config
	limiter *catrate.Limiter
	rng     *rand.Rand
}

func (w *waitScheduler) BeforeActor(threadID int) {
	if _, ok := w.limiter.Allow(threadID); !ok {
		return
	}
	n := w.rng.IntN(w.cfg.MaxWaitIterations + 1)
	for i := 0; i < n; i++ {
		busySpin()
	}
}

func (w *waitScheduler) AfterActor(int) {}

func (w *waitScheduler) CancelSignal(int) <-chan struct{} { return nil }

// busySpin performs one unit of pure CPU work, the same pattern the
// original stress strategy's timing-scramble uses: a cheap, non-blocking
// way to perturb scheduler interleaving without sleeping.
func busySpin() {
	x := 0
	for i := 0; i < 64; i++ {
		x += i
	}
	_ = x
}
