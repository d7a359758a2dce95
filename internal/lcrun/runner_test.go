package lcrun_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-lincheck/internal/lcactor"
	"github.com/joeycumines/go-lincheck/internal/lcrun"
)

type atomicCounter struct{ n atomic.Int64 }

func atomicCounterFactory() any { return &atomicCounter{} }

func atomicCounterOps() lcrun.Registry {
	return lcrun.Registry{
		"inc": func(ctx context.Context, instance any, args []any) lcactor.Result {
			instance.(*atomicCounter).n.Add(1)
			return lcactor.VoidResult{}
		},
		"get": func(ctx context.Context, instance any, args []any) lcactor.Result {
			return lcactor.ValueResult{Value: int(instance.(*atomicCounter).n.Load())}
		},
	}
}

func TestRunner_CompletesConcurrentCounter(t *testing.T) {
	r := lcrun.New(lcrun.Config{Factory: atomicCounterFactory, Operations: atomicCounterOps(), Timeout: time.Second})

	scenario := lcactor.NewScenario(
		nil,
		[][]lcactor.Actor{
			{lcactor.NewActor("inc", nil)},
			{lcactor.NewActor("inc", nil)},
		},
		[]lcactor.Actor{lcactor.NewActor("get", nil)},
	)

	result := r.Run(context.Background(), scenario, nil)
	require.Equal(t, lcrun.Completed, result.Outcome, "%v", result.Err)
	require.Len(t, result.Execution.PostResults, 1)
	assert.Equal(t, lcactor.ValueResult{Value: 2}, result.Execution.PostResults[0])
}

func TestRunner_UnexpectedExceptionFromPanic(t *testing.T) {
	ops := lcrun.Registry{
		"boom": func(ctx context.Context, instance any, args []any) lcactor.Result {
			panic("kaboom")
		},
	}
	r := lcrun.New(lcrun.Config{Factory: atomicCounterFactory, Operations: ops, Timeout: time.Second})
	scenario := lcactor.NewScenario(nil, [][]lcactor.Actor{{lcactor.NewActor("boom", nil)}}, nil)

	result := r.Run(context.Background(), scenario, nil)
	assert.Equal(t, lcrun.UnexpectedException, result.Outcome)
	assert.Error(t, result.Err)
}

func TestRunner_DeadlockOnTimeout(t *testing.T) {
	// A genuinely hung actor: it ignores ctx entirely, as real deadlocked
	// user code would (e.g. blocked forever on a channel nobody closes).
	ops := lcrun.Registry{
		"hang": func(ctx context.Context, instance any, args []any) lcactor.Result {
			select {}
		},
	}
	r := lcrun.New(lcrun.Config{Factory: atomicCounterFactory, Operations: ops, Timeout: 20 * time.Millisecond})
	scenario := lcactor.NewScenario(nil, [][]lcactor.Actor{{lcactor.NewActor("hang", nil)}}, nil)

	result := r.Run(context.Background(), scenario, nil)
	assert.Equal(t, lcrun.Deadlock, result.Outcome)
	assert.NotEmpty(t, result.StackDump)
}

func TestRunner_SuspendableCancelledOnSignal(t *testing.T) {
	acquire := lcactor.NewActor("acquire", nil, lcactor.WithFlags(lcactor.FlagSuspendable|lcactor.FlagCancelOnSuspension))
	ops := lcrun.Registry{
		"acquire": func(ctx context.Context, instance any, args []any) lcactor.Result {
			<-ctx.Done()
			return lcactor.VoidResult{} // discarded: the runner substitutes Cancelled
		},
	}
	r := lcrun.New(lcrun.Config{Factory: atomicCounterFactory, Operations: ops, Timeout: time.Second})
	scenario := lcactor.NewScenario(nil, [][]lcactor.Actor{{acquire}}, nil)

	cancelCh := make(chan struct{})
	sched := cancellingScheduler{threadID: 1, cancelCh: cancelCh}
	close(cancelCh) // request cancellation immediately

	result := r.Run(context.Background(), scenario, sched)
	require.Equal(t, lcrun.Completed, result.Outcome, "%v", result.Err)
	require.Len(t, result.Execution.ParallelResults[0], 1)
	assert.Equal(t, lcactor.CancelledResult{}, result.Execution.ParallelResults[0][0].Result)
}

type cancellingScheduler struct {
	threadID int
	cancelCh chan struct{}
}

func (s cancellingScheduler) BeforeActor(int) {}
func (s cancellingScheduler) AfterActor(int)  {}
func (s cancellingScheduler) CancelSignal(threadID int) <-chan struct{} {
	if threadID == s.threadID {
		return s.cancelCh
	}
	return nil
}
