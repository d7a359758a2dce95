package lincheck_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-lincheck"
	"github.com/joeycumines/go-lincheck/internal/lcactor"
	"github.com/joeycumines/go-lincheck/internal/lcfixtures"
)

// atomicCounter is a correctly-synchronized counter: Check must find no
// failure against it regardless of strategy.
type atomicCounter struct{ n atomic.Int64 }

func atomicCounterTest() lincheck.Test {
	return lincheck.Test{
		NewInstance: func() any { return &atomicCounter{} },
		Operations: map[lincheck.MethodID]lincheck.Operation{
			lcfixtures.MethodInc: func(ctx context.Context, instance any, args []any) lcactor.Result {
				instance.(*atomicCounter).n.Add(1)
				return lcactor.VoidResult{}
			},
			lcfixtures.MethodGet: func(ctx context.Context, instance any, args []any) lcactor.Result {
				return lcactor.ValueResult{Value: int(instance.(*atomicCounter).n.Load())}
			},
		},
		Sequential: lcfixtures.NewCounterFactory(),
		SharedPool: []lincheck.ActorGenerator{
			lincheck.Op(lcfixtures.MethodInc),
			lincheck.Op(lcfixtures.MethodGet),
		},
	}
}

// brokenCounter loses increments under concurrent access; Check must find
// and report a failure against it.
type brokenCounter struct{ n int }

func brokenCounterTest() lincheck.Test {
	return lincheck.Test{
		NewInstance: func() any { return &brokenCounter{} },
		Operations: map[lincheck.MethodID]lincheck.Operation{
			lcfixtures.MethodInc: func(ctx context.Context, instance any, args []any) lcactor.Result {
				c := instance.(*brokenCounter)
				v := c.n
				v++
				c.n = v
				return lcactor.VoidResult{}
			},
			lcfixtures.MethodGet: func(ctx context.Context, instance any, args []any) lcactor.Result {
				return lcactor.ValueResult{Value: instance.(*brokenCounter).n}
			},
		},
		Sequential: lcfixtures.NewCounterFactory(),
		SharedPool: []lincheck.ActorGenerator{
			lincheck.Op(lcfixtures.MethodInc),
			lincheck.Op(lcfixtures.MethodGet),
		},
	}
}

func TestCheck_AtomicCounterPassesUnderStress(t *testing.T) {
	report := lincheck.Check(context.Background(), atomicCounterTest(),
		lincheck.WithIterations(20),
		lincheck.WithThreads(3),
		lincheck.WithActorsPerThread(2),
		lincheck.WithInvocationsPerIteration(20),
		lincheck.WithTimeout(time.Second),
	)
	assert.Nil(t, report)
}

func TestCheck_AtomicCounterPassesUnderModelChecking(t *testing.T) {
	report := lincheck.Check(context.Background(), atomicCounterTest(),
		lincheck.WithIterations(10),
		lincheck.WithThreads(2),
		lincheck.WithActorsPerThread(2),
		lincheck.WithInvocationsPerIteration(30),
		lincheck.WithStrategy(lincheck.StrategyModelChecking),
		lincheck.WithTimeout(time.Second),
	)
	assert.Nil(t, report)
}

func TestCheck_BrokenCounterReportsFailure(t *testing.T) {
	var report *lincheck.Report
	for i := 0; i < 10 && report == nil; i++ {
		report = lincheck.Check(context.Background(), brokenCounterTest(),
			lincheck.WithIterations(50),
			lincheck.WithThreads(4),
			lincheck.WithActorsPerThread(3),
			lincheck.WithInvocationsPerIteration(50),
			lincheck.WithTimeout(time.Second),
		)
	}
	require.NotNil(t, report, "a non-atomic counter should eventually race under repeated iterations")

	assert.NotEmpty(t, report.String())
	// Monotonicity (spec §8): minimization never grows the scenario.
	assert.LessOrEqual(t, report.Minimized.Scenario.TotalActors(), report.Original.Scenario.TotalActors())
}

func TestCheck_MinimizeFailedScenarioDisabledSkipsMinimizer(t *testing.T) {
	var report *lincheck.Report
	for i := 0; i < 10 && report == nil; i++ {
		report = lincheck.Check(context.Background(), brokenCounterTest(),
			lincheck.WithIterations(50),
			lincheck.WithThreads(4),
			lincheck.WithActorsPerThread(3),
			lincheck.WithInvocationsPerIteration(50),
			lincheck.WithTimeout(time.Second),
			lincheck.WithMinimizeFailedScenario(false),
		)
	}
	require.NotNil(t, report, "a non-atomic counter should eventually race under repeated iterations")
	assert.Equal(t, report.Original, report.Minimized)
	assert.Empty(t, report.Diff)
}
