package lcactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario_IsValid(t *testing.T) {
	inc := NewActor("inc", nil)
	get := NewActor("get", nil)
	suspend := NewActor("acquire", nil, WithFlags(FlagSuspendable))

	t.Run("empty parallel is invalid", func(t *testing.T) {
		s := NewScenario(nil, [][]Actor{{}, {}}, nil)
		assert.False(t, s.IsValid())
	})

	t.Run("plain scenario is valid", func(t *testing.T) {
		s := NewScenario([]Actor{inc}, [][]Actor{{inc}, {inc}}, []Actor{get})
		require.True(t, s.IsValid())
	})

	t.Run("suspendable actor in init is always invalid", func(t *testing.T) {
		s := NewScenario([]Actor{suspend}, [][]Actor{{inc}}, nil)
		assert.False(t, s.IsValid())
	})

	t.Run("suspendable in parallel requires empty post", func(t *testing.T) {
		withPost := NewScenario(nil, [][]Actor{{suspend}}, []Actor{get})
		assert.False(t, withPost.IsValid())

		withoutPost := NewScenario(nil, [][]Actor{{suspend}}, nil)
		assert.True(t, withoutPost.IsValid())
	})
}

func TestScenario_ThreadActors(t *testing.T) {
	init := []Actor{NewActor("add", nil)}
	t1 := []Actor{NewActor("poll", nil)}
	t2 := []Actor{NewActor("poll", nil)}
	post := []Actor{NewActor("peek", nil)}
	s := NewScenario(init, [][]Actor{t1, t2}, post)

	assert.Equal(t, init, s.ThreadActors(0))
	assert.Equal(t, t1, s.ThreadActors(1))
	assert.Equal(t, t2, s.ThreadActors(2))
	assert.Equal(t, post, s.ThreadActors(3))
	assert.Equal(t, ThreadID(4), s.ThreadLimit())
}

func TestScenario_WithoutActor_Minimizes(t *testing.T) {
	a := NewActor("a", nil)
	b := NewActor("b", nil)
	s := NewScenario(nil, [][]Actor{{a, b}, {a}}, nil)

	require.Equal(t, 3, s.TotalActors())

	smaller := s.WithoutActor(2, 0) // drop the only actor on thread 2
	assert.Equal(t, 2, smaller.TotalActors())
	assert.Len(t, smaller.Parallel, 1, "empty thread is pruned")
}

func TestResultsEqual_IgnoresClockOnly(t *testing.T) {
	r1 := ResultWithClock{Result: ValueResult{Value: 1}, Clock: HBClock{1, 2}}
	r2 := ResultWithClock{Result: ValueResult{Value: 1}, Clock: HBClock{9, 9}}
	assert.True(t, r1.EqualIgnoringClock(r2))

	r3 := ResultWithClock{Result: ValueResult{Value: 2}, Clock: HBClock{1, 2}}
	assert.False(t, r1.EqualIgnoringClock(r3))
}

func TestExecutionResult_EqualIgnoresStateSnapshots(t *testing.T) {
	base := ExecutionResult{
		InitResults:     []Result{VoidResult{}},
		ParallelResults: [][]ResultWithClock{{{Result: ValueResult{Value: 1}, Clock: HBClock{0, 1}}}},
		PostResults:     []Result{ValueResult{Value: "x"}},
		StateSnapshots:  []any{"state-a"},
	}
	other := base
	other.StateSnapshots = []any{"state-b", 42}
	other.ParallelResults = base.WithEmptyClocks().ParallelResults

	assert.True(t, base.Equal(other))
	assert.True(t, base.Equal(base.WithEmptyClocks()))
}
