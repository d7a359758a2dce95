package lcverify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-lincheck/internal/lcactor"
	"github.com/joeycumines/go-lincheck/internal/lcfixtures"
	"github.com/joeycumines/go-lincheck/internal/lcverify"
)

func noClock() lcactor.HBClock { return nil }

// TestVerifier_ConcurrentCounter is seed scenario 1 (spec §8): two threads
// each inc() once, post get() must match the completed inc count.
func TestVerifier_ConcurrentCounter(t *testing.T) {
	v := lcverify.NewLinearizability(lcfixtures.NewCounterFactory())

	scenario := lcactor.NewScenario(
		nil,
		[][]lcactor.Actor{
			{lcactor.NewActor(lcfixtures.MethodInc, nil)},
			{lcactor.NewActor(lcfixtures.MethodInc, nil)},
		},
		[]lcactor.Actor{lcactor.NewActor(lcfixtures.MethodGet, nil)},
	)
	require.True(t, scenario.IsValid())

	result := lcactor.ExecutionResult{
		ParallelResults: [][]lcactor.ResultWithClock{
			{{Result: lcactor.VoidResult{}, Clock: noClock()}},
			{{Result: lcactor.VoidResult{}, Clock: noClock()}},
		},
		PostResults: []lcactor.Result{lcactor.ValueResult{Value: 2}},
	}
	assert.True(t, v.Verify(scenario, result))
}

// TestVerifier_ClocksClassicViolation is seed scenario 2 (spec §8): T1 runs
// a() then b(); T2 runs c() then d(). a sets x=1, b is a no-op, c busy-waits
// for b's flag, d reads x. The clocks for d record that d's start happened
// after b (so after a too), so d must observe x=1; a result reporting
// d:0 must be rejected.
func TestVerifier_ClocksClassicViolation(t *testing.T) {
	v := lcverify.NewLinearizability(lcfixtures.NewClockFlagFactory())

	scenario := lcactor.NewScenario(
		nil,
		[][]lcactor.Actor{
			{
				lcactor.NewActor(lcfixtures.MethodSetX, nil),
				lcactor.NewActor(lcfixtures.MethodSetFlag, nil),
			},
			{
				lcactor.NewActor(lcfixtures.MethodWaitFlag, nil),
				lcactor.NewActor(lcfixtures.MethodReadX, nil),
			},
		},
		nil,
	)
	require.True(t, scenario.IsValid())

	// d's clock claims to have observed thread 1 (a, b) fully executed
	// (clock[0] == 2), which happens-before forces since c waited for b's
	// flag. A result claiming d observed x==0 despite that must be
	// rejected: no legal interleaving produces it.
	badResult := lcactor.ExecutionResult{
		ParallelResults: [][]lcactor.ResultWithClock{
			{
				{Result: lcactor.VoidResult{}, Clock: noClock()},
				{Result: lcactor.VoidResult{}, Clock: lcactor.HBClock{0}},
			},
			{
				{Result: lcactor.VoidResult{}, Clock: noClock()},
				{Result: lcactor.ValueResult{Value: 0}, Clock: lcactor.HBClock{2, 1}},
			},
		},
	}
	assert.False(t, v.Verify(scenario, badResult))

	goodResult := lcactor.ExecutionResult{
		ParallelResults: [][]lcactor.ResultWithClock{
			{
				{Result: lcactor.VoidResult{}, Clock: noClock()},
				{Result: lcactor.VoidResult{}, Clock: lcactor.HBClock{0}},
			},
			{
				{Result: lcactor.VoidResult{}, Clock: noClock()},
				{Result: lcactor.ValueResult{Value: 1}, Clock: lcactor.HBClock{2, 1}},
			},
		},
	}
	assert.True(t, v.Verify(scenario, goodResult))
}

// TestVerifier_LinearizableQueue is seed scenario 3 (spec §8).
func TestVerifier_LinearizableQueue(t *testing.T) {
	v := lcverify.NewLinearizability(lcfixtures.NewQueueFactory())

	scenario := lcactor.NewScenario(
		[]lcactor.Actor{
			lcactor.NewActor(lcfixtures.MethodAdd, []any{1}),
			lcactor.NewActor(lcfixtures.MethodAdd, []any{2}),
		},
		[][]lcactor.Actor{
			{lcactor.NewActor(lcfixtures.MethodPoll, nil)},
			{lcactor.NewActor(lcfixtures.MethodPoll, nil)},
		},
		[]lcactor.Actor{lcactor.NewActor(lcfixtures.MethodPeek, nil)},
	)
	require.True(t, scenario.IsValid())

	result := lcactor.ExecutionResult{
		InitResults: []lcactor.Result{lcactor.VoidResult{}, lcactor.VoidResult{}},
		ParallelResults: [][]lcactor.ResultWithClock{
			{{Result: lcactor.ValueResult{Value: 1}, Clock: noClock()}},
			{{Result: lcactor.ValueResult{Value: 2}, Clock: noClock()}},
		},
		PostResults: []lcactor.Result{lcactor.ValueResult{Value: nil}},
	}
	assert.True(t, v.Verify(scenario, result))

	badResult := result
	badResult.PostResults = []lcactor.Result{lcactor.ValueResult{Value: 1}}
	assert.False(t, v.Verify(scenario, badResult))
}

// TestVerifier_SemaphoreCancellation is seed scenario 4 (spec §8): a binary
// semaphore starts with zero permits; T1 acquire(); T2 release(). Every
// outcome where T1 suspends then is resumed by T2, or T1 suspends then
// cancels, must be accepted; an outcome where T1 completes with a Value
// despite T2 never releasing first must be rejected (acquire is void here,
// so that specific shape does not type-check for this fixture — instead we
// assert the two accepted shapes and reject an impossible ordering).
func TestVerifier_SemaphoreCancellation(t *testing.T) {
	newVerifier := func() *lcverify.LinearizabilityVerifier {
		return lcverify.NewLinearizability(lcfixtures.NewSemaphoreFactory(0))
	}
	acquire := lcactor.NewActor(lcfixtures.MethodAcquire, nil, lcactor.WithFlags(lcactor.FlagSuspendable|lcactor.FlagCancelOnSuspension))
	release := lcactor.NewActor(lcfixtures.MethodRelease, nil)

	t.Run("resumed by release", func(t *testing.T) {
		v := newVerifier()
		scenario := lcactor.NewScenario(nil, [][]lcactor.Actor{{acquire}, {release}}, nil)
		require.True(t, scenario.IsValid())
		result := lcactor.ExecutionResult{
			ParallelResults: [][]lcactor.ResultWithClock{
				{{Result: lcactor.VoidResult{}, Clock: noClock()}},
				{{Result: lcactor.VoidResult{}, Clock: noClock()}},
			},
		}
		assert.True(t, v.Verify(scenario, result))
	})

	t.Run("suspends then cancels", func(t *testing.T) {
		v := newVerifier()
		scenario := lcactor.NewScenario(nil, [][]lcactor.Actor{{acquire}, {release}}, nil)
		result := lcactor.ExecutionResult{
			ParallelResults: [][]lcactor.ResultWithClock{
				{{Result: lcactor.CancelledResult{}, Clock: noClock()}},
				{{Result: lcactor.VoidResult{}, Clock: noClock()}},
			},
		}
		assert.True(t, v.Verify(scenario, result))
	})

	t.Run("impossible ordering rejected", func(t *testing.T) {
		v := newVerifier()
		scenario := lcactor.NewScenario(nil, [][]lcactor.Actor{{acquire}, {release}}, nil)
		// T1 claims an ordinary exception result never produced by this
		// sequential spec: the LTS never reaches this outcome.
		result := lcactor.ExecutionResult{
			ParallelResults: [][]lcactor.ResultWithClock{
				{{Result: lcactor.ExceptionResult{Kind: "bogus"}, Clock: noClock()}},
				{{Result: lcactor.VoidResult{}, Clock: noClock()}},
			},
		}
		assert.False(t, v.Verify(scenario, result))
	})
}

// TestVerifier_CacheHitSkipsSearch exercises spec §8's "cached verifier: a
// second call with identical (scenario, result) never exercises the LTS"
// property by checking the LTS state count does not grow on the repeat
// call.
func TestVerifier_CacheHitSkipsSearch(t *testing.T) {
	v := lcverify.NewLinearizability(lcfixtures.NewCounterFactory())
	scenario := lcactor.NewScenario(nil, [][]lcactor.Actor{
		{lcactor.NewActor(lcfixtures.MethodInc, nil)},
	}, nil)
	result := lcactor.ExecutionResult{
		ParallelResults: [][]lcactor.ResultWithClock{
			{{Result: lcactor.VoidResult{}, Clock: noClock()}},
		},
	}
	require.True(t, v.Verify(scenario, result))
	before := v.StateCount()
	require.True(t, v.Verify(scenario, result))
	assert.Equal(t, before, v.StateCount())
}

// TestVerifier_Serializability exercises the flattening sketch: a
// two-thread counter scenario, verified without the happens-before filter.
func TestVerifier_Serializability(t *testing.T) {
	v := lcverify.NewSerializability(lcfixtures.NewCounterFactory())
	scenario := lcactor.NewScenario(nil, [][]lcactor.Actor{
		{lcactor.NewActor(lcfixtures.MethodInc, nil)},
		{lcactor.NewActor(lcfixtures.MethodInc, nil)},
	}, []lcactor.Actor{lcactor.NewActor(lcfixtures.MethodGet, nil)})
	result := lcactor.ExecutionResult{
		ParallelResults: [][]lcactor.ResultWithClock{
			{{Result: lcactor.VoidResult{}}},
			{{Result: lcactor.VoidResult{}}},
		},
		PostResults: []lcactor.Result{lcactor.ValueResult{Value: 2}},
	}
	assert.True(t, v.Verify(scenario, result))
}

func TestEpsilonVerifier_AlwaysAccepts(t *testing.T) {
	v := lcverify.EpsilonVerifier{}
	assert.True(t, v.Verify(lcactor.Scenario{}, lcactor.ExecutionResult{}))
}
