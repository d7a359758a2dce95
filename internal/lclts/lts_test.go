package lclts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-lincheck/internal/lcactor"
	"github.com/joeycumines/go-lincheck/internal/lcfixtures"
	"github.com/joeycumines/go-lincheck/internal/lclts"
	"github.com/joeycumines/go-lincheck/internal/lctask"
)

func TestLTS_CounterTransitionsAndInterning(t *testing.T) {
	l := lclts.New(lcfixtures.NewCounterFactory())
	root := l.Initial()

	inc := lcactor.NewActor(lcfixtures.MethodInc, nil)
	info, ok := l.Transition(root, inc, lcactor.VoidResult{}, lctask.NoTicket)
	require.True(t, ok)
	require.NotNil(t, info)
	assert.NotEqual(t, root.ID(), info.Next.ID())

	// A second, independent LTS accepts the same transition; the id
	// interning checked below is the get() edge returning to the same state.
	other := lclts.New(lcfixtures.NewCounterFactory())
	otherRoot := other.Initial()
	otherInfo, ok := other.Transition(otherRoot, inc, lcactor.VoidResult{}, lctask.NoTicket)
	require.True(t, ok)

	get := lcactor.NewActor(lcfixtures.MethodGet, nil)
	getInfo, ok := l.Transition(info.Next, get, lcactor.ValueResult{Value: 1}, lctask.NoTicket)
	require.True(t, ok)
	assert.Equal(t, info.Next.ID(), getInfo.Next.ID(), "get() should not change state")

	_ = otherInfo
}

func TestLTS_MismatchedResultRejected(t *testing.T) {
	l := lclts.New(lcfixtures.NewCounterFactory())
	inc := lcactor.NewActor(lcfixtures.MethodInc, nil)
	_, ok := l.Transition(l.Initial(), inc, lcactor.ValueResult{Value: 99}, lctask.NoTicket)
	assert.False(t, ok)
}

func TestLTS_TransitionsAreCached(t *testing.T) {
	l := lclts.New(lcfixtures.NewCounterFactory())
	inc := lcactor.NewActor(lcfixtures.MethodInc, nil)

	info1, ok1 := l.Transition(l.Initial(), inc, lcactor.VoidResult{}, lctask.NoTicket)
	info2, ok2 := l.Transition(l.Initial(), inc, lcactor.VoidResult{}, lctask.NoTicket)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Same(t, info1, info2, "identical (state, actor, expected, ticket) must hit the cache")
}

func TestLTS_SemaphoreSuspendResumeViaRelease(t *testing.T) {
	l := lclts.New(lcfixtures.NewSemaphoreFactory(0))
	root := l.Initial()

	acquire := lcactor.NewActor(lcfixtures.MethodAcquire, nil, lcactor.WithFlags(lcactor.FlagSuspendable))
	suspendInfo, ok := l.Transition(root, acquire, lcactor.SuspendedResult{}, lctask.NoTicket)
	require.True(t, ok)
	ticket := suspendInfo.Ticket
	assert.NotEqual(t, lctask.NoTicket, ticket)

	release := lcactor.NewActor(lcfixtures.MethodRelease, nil)
	releaseInfo, ok := l.Transition(suspendInfo.Next, release, lcactor.VoidResult{}, lctask.NoTicket)
	require.True(t, ok)
	require.Contains(t, releaseInfo.ResumedTickets, ticket)

	resumeInfo, ok := l.Transition(releaseInfo.Next, acquire, lcactor.VoidResult{}, ticket)
	require.True(t, ok, "resuming the reserved ticket must now complete")
	assert.Equal(t, lcactor.VoidResult{}, resumeInfo.Result)
}

func TestLTS_SemaphoreCancellation(t *testing.T) {
	l := lclts.New(lcfixtures.NewSemaphoreFactory(0))
	acquire := lcactor.NewActor(lcfixtures.MethodAcquire, nil, lcactor.WithFlags(lcactor.FlagSuspendable|lcactor.FlagCancelOnSuspension))

	suspendInfo, ok := l.Transition(l.Initial(), acquire, lcactor.SuspendedResult{}, lctask.NoTicket)
	require.True(t, ok)

	cancelInfo, ok := l.CancelTransition(suspendInfo.Next, suspendInfo.Ticket)
	require.True(t, ok)
	assert.Equal(t, lcactor.CancelledResult{}, cancelInfo.Result)
}
