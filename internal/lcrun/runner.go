// Package lcrun implements the parallel execution runner (spec §4.F): it
// replays a Scenario against a user-supplied test instance, one goroutine
// per parallel thread, recording per-actor results and happens-before
// clocks, and classifies the invocation's outcome.
package lcrun

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/joeycumines/go-lincheck/internal/lcactor"
	"github.com/joeycumines/go-lincheck/internal/lclog"
)

// TestFactory constructs a fresh instance of the data structure under test.
// Per spec §5, a new instance is built for every invocation; instances are
// never shared across invocations.
type TestFactory func() any

// OperationFunc executes one named operation against instance with args,
// honoring ctx for cancellation (suspendable, cancel_on_suspension actors
// are expected to return promptly once ctx is done). Unlike the sequential
// specification's Invoke (internal/lclts), this runs real, possibly
// blocking, user code.
type OperationFunc func(ctx context.Context, instance any, args []any) lcactor.Result

// Registry maps method ids to their real implementations.
type Registry map[lcactor.MethodID]OperationFunc

// ValidationFunc is a check on the test instance run after each phase (spec §4.F step 7); a non-nil error becomes a
// ValidationFailure.
type ValidationFunc func(instance any) error

// Config configures a Runner.
type Config struct {
	Factory     TestFactory
	Operations  Registry
	Validations []ValidationFunc
	// Timeout is the per-invocation wall-clock budget (spec §6
	// timeout_ms); zero disables the watchdog.
	Timeout time.Duration
	// Logger receives invocation lifecycle events (spec §6 `logger`
	// option). Defaults to a disabled logger if nil.
	Logger *lclog.Logger
}

// Outcome classifies how an invocation ended (spec §4.F step 8).
type Outcome int

const (
	Completed Outcome = iota
	Deadlock
	UnexpectedException
	ObstructionFreedomViolation
	ValidationFailure
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "Completed"
	case Deadlock:
		return "Deadlock"
	case UnexpectedException:
		return "UnexpectedException"
	case ObstructionFreedomViolation:
		return "ObstructionFreedomViolation"
	case ValidationFailure:
		return "ValidationFailure"
	default:
		return "Unknown"
	}
}

// InvocationResult is the outcome of one Runner.Run call.
type InvocationResult struct {
	Outcome    Outcome
	Execution  lcactor.ExecutionResult
	Err        error
	StackDump  string // populated only for Deadlock
}

// Scheduler lets a strategy (internal/lcstress, internal/lcmc) observe and
// gate a worker's progress at each interleaving point (spec §5): shared
// variable access, monitor enter/exit, suspend/resume, and operation
// entry/exit. Bytecode instrumentation is out of scope (spec §1), so the
// runner exposes only the coarse entry/exit points around each whole actor
// invocation — the granularity a Go re-implementation without bytecode
// rewriting can actually offer.
type Scheduler interface {
	// BeforeActor is called by threadID's worker immediately before
	// invoking its next actor. Implementations may block to enforce a
	// chosen interleaving.
	BeforeActor(threadID int)
	// AfterActor is called immediately after an actor completes.
	AfterActor(threadID int)
	// CancelSignal returns a channel that closes when the strategy decides
	// to cancel threadID's currently-suspended actor (spec §5: "the
	// strategy may... issue a cancellation"). A nil channel (the zero
	// value) never fires.
	CancelSignal(threadID int) <-chan struct{}
}

// NoOpScheduler lets every worker run unimpeded and never requests
// cancellation; used directly by the stress strategy (internal/lcstress),
// which only perturbs timing via random waits rather than explicit switch
// points.
type NoOpScheduler struct{}

func (NoOpScheduler) BeforeActor(int)                  {}
func (NoOpScheduler) AfterActor(int)                   {}
func (NoOpScheduler) CancelSignal(int) <-chan struct{} { return nil }

// Runner replays scenarios against fresh test instances, one per
// invocation (spec §4.F/§5).
type Runner struct {
	cfg Config
}

// New builds a Runner from cfg.
func New(cfg Config) *Runner {
	if cfg.Operations == nil {
		cfg.Operations = Registry{}
	}
	if cfg.Logger == nil {
		cfg.Logger = lclog.Discard
	}
	return &Runner{cfg: cfg}
}

// Run executes one invocation of scenario under sched, per spec §4.F's
// seven-step invocation protocol.
func (r *Runner) Run(ctx context.Context, scenario lcactor.Scenario, sched Scheduler) (res InvocationResult) {
	if sched == nil {
		sched = NoOpScheduler{}
	}

	defer func() {
		if res.Outcome == Deadlock {
			r.cfg.Logger.Err().Str("outcome", res.Outcome.String()).Err(res.Err).Log("lcrun: invocation ended")
			return
		}
		r.cfg.Logger.Debug().Str("outcome", res.Outcome.String()).Int("threads", scenario.ThreadCount()).Log("lcrun: invocation ended")
	}()

	runCtx := ctx
	var cancel context.CancelFunc
	if r.cfg.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	instance := r.cfg.Factory()

	initResults, err := r.runSequential(runCtx, instance, scenario.Init, 0, sched)
	if err != nil {
		return InvocationResult{Outcome: UnexpectedException, Err: err}
	}
	if verr := r.validate(instance); verr != nil {
		return InvocationResult{Outcome: ValidationFailure, Err: verr}
	}

	clocks := newClockBoard(scenario.ThreadCount())
	parallelResults := make([][]lcactor.ResultWithClock, scenario.ThreadCount())

	var wg sync.WaitGroup
	errs := make([]error, scenario.ThreadCount())
	for i, actors := range scenario.Parallel {
		wg.Add(1)
		threadID := i + 1
		clockIdx := i
		go func(actors []lcactor.Actor) {
			defer wg.Done()
			results, perr := r.runParallel(runCtx, instance, actors, threadID, clocks, clockIdx, sched)
			parallelResults[clockIdx] = results
			errs[clockIdx] = perr
		}(actors)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	select {
	case <-done:
	case <-runCtx.Done():
		if ctx.Err() == nil { // our own timeout, not the caller's cancellation
			// Workers that ignore ctx may never return; per spec §5 "the
			// runner is not reused" after a Deadlock, so we report the
			// failure now rather than block waiting for goroutines that
			// may be genuinely stuck.
			buf := make([]byte, 1<<20)
			n := runtime.Stack(buf, true)
			return InvocationResult{Outcome: Deadlock, Err: runCtx.Err(), StackDump: string(buf[:n])}
		}
		<-done
	}

	for _, e := range errs {
		if e != nil {
			return InvocationResult{Outcome: UnexpectedException, Err: e}
		}
	}

	if verr := r.validate(instance); verr != nil {
		return InvocationResult{Outcome: ValidationFailure, Err: verr}
	}

	postResults, err := r.runSequential(runCtx, instance, scenario.Post, scenario.ThreadCount()+1, sched)
	if err != nil {
		return InvocationResult{Outcome: UnexpectedException, Err: err}
	}
	if verr := r.validate(instance); verr != nil {
		return InvocationResult{Outcome: ValidationFailure, Err: verr}
	}

	return InvocationResult{
		Outcome: Completed,
		Execution: lcactor.ExecutionResult{
			InitResults:     initResults,
			ParallelResults: parallelResults,
			PostResults:     postResults,
		},
	}
}

func (r *Runner) validate(instance any) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("validation function panicked: %v", p)
		}
	}()
	for _, v := range r.cfg.Validations {
		if verr := v(instance); verr != nil {
			return verr
		}
	}
	return nil
}

func (r *Runner) runSequential(ctx context.Context, instance any, actors []lcactor.Actor, threadID int, sched Scheduler) (results []lcactor.Result, err error) {
	for _, actor := range actors {
		sched.BeforeActor(threadID)
		result, ierr := r.invoke(ctx, instance, actor, sched, threadID)
		sched.AfterActor(threadID)
		if ierr != nil {
			return results, ierr
		}
		results = append(results, result)
	}
	return results, nil
}

func (r *Runner) runParallel(ctx context.Context, instance any, actors []lcactor.Actor, threadID int, clocks *clockBoard, clockIdx int, sched Scheduler) ([]lcactor.ResultWithClock, error) {
	results := make([]lcactor.ResultWithClock, 0, len(actors))
	for _, actor := range actors {
		clock := clocks.snapshot(clockIdx)
		sched.BeforeActor(threadID)
		result, ierr := r.invoke(ctx, instance, actor, sched, threadID)
		sched.AfterActor(threadID)
		if ierr != nil {
			return results, ierr
		}
		results = append(results, lcactor.ResultWithClock{Result: result, Clock: clock})
		clocks.advance(clockIdx)
	}
	return results, nil
}

// invoke runs one actor's operation. Any panic is recovered as a plain
// error (an unexpected exception); so is an ExceptionResult whose kind the
// actor does not declare as handled. A handled kind stays the actor's result.
func (r *Runner) invoke(ctx context.Context, instance any, actor lcactor.Actor, sched Scheduler, threadID int) (result lcactor.Result, err error) {
	op, ok := r.cfg.Operations[actor.Method()]
	if !ok {
		return nil, fmt.Errorf("lcrun: no operation registered for method %q", actor.Method())
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("lcrun: actor %q panicked: %v", actor.Method(), p)
		}
	}()

	if !actor.IsSuspendable() {
		result = op(ctx, instance, actor.Args())
	} else {
		result = r.invokeSuspendable(ctx, instance, actor, op, sched, threadID)
	}
	if exc, isExc := result.(lcactor.ExceptionResult); isExc && !actor.HandlesException(exc.Kind) {
		return nil, fmt.Errorf("lcrun: actor %q raised undeclared exception %q", actor.Method(), exc.Kind)
	}
	return result, nil
}

// invokeSuspendable runs a suspendable operation in its own goroutine so a
// cancel_on_suspension actor can be cancelled on request without the
// runner itself modeling suspend/resume as discrete steps: in a real
// concurrent Go program, "suspended" is simply "blocked, not yet returned"
// (design note §9 — no language-level suspension is modeled in the
// runner; only the reference specification (internal/lclts) steps
// suspension explicitly).
func (r *Runner) invokeSuspendable(ctx context.Context, instance any, actor lcactor.Actor, op OperationFunc, sched Scheduler, threadID int) lcactor.Result {
	actorCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultCh := make(chan lcactor.Result, 1)
	go func() { resultCh <- op(actorCtx, instance, actor.Args()) }()

	select {
	case result := <-resultCh:
		return result
	case <-ctx.Done():
		return lcactor.CancelledResult{}
	case <-sched.CancelSignal(threadID):
		if !actor.Flags().Has(lcactor.FlagCancelOnSuspension) {
			// not eligible for cancellation; keep waiting for a real result
			return <-resultCh
		}
		return lcactor.CancelledResult{}
	}
}
