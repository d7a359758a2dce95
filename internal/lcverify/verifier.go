package lcverify

import (
	"github.com/joeycumines/go-lincheck/internal/lcactor"
	"github.com/joeycumines/go-lincheck/internal/lclts"
)

// Verifier answers whether an observed ExecutionResult is a legal outcome of
// running scenario against the verifier's reference specification (spec
// §4.E). It is the tagged-variant capability trait design note §9 calls
// for, in place of the source's class hierarchy.
type Verifier interface {
	Verify(scenario lcactor.Scenario, result lcactor.ExecutionResult) bool
}

// LinearizabilityVerifier is the DFS search of spec §4.E over an LTS built
// from a sequential specification factory, enforcing both per-thread program
// order and the happens-before clock filter.
type LinearizabilityVerifier struct {
	lts   *lclts.LTS
	cache *cache
}

// NewLinearizability builds a LinearizabilityVerifier rooted at factory's
// initial state.
func NewLinearizability(factory lclts.Factory) *LinearizabilityVerifier {
	return &LinearizabilityVerifier{lts: lclts.New(factory), cache: newCache()}
}

// StateCount returns the number of LTS states discovered so far, for tests
// exercising spec §8's "cached verifier never re-exercises the LTS" property.
func (v *LinearizabilityVerifier) StateCount() int { return v.lts.StateCount() }

func (v *LinearizabilityVerifier) Verify(scenario lcactor.Scenario, result lcactor.ExecutionResult) bool {
	if v.cache.hit(scenario, result) {
		return true
	}
	ok := search(v.lts, scenario, result, newContext(v.lts, int(scenario.ThreadLimit())), searchOptions{enforceHB: true})
	if ok {
		v.cache.store(scenario, result)
	}
	return ok
}

// QuiescentConsistencyVerifier is the sketch variant of spec §4.E that
// permits out-of-order execution across parallel threads: it runs the same
// DFS but without the happens-before filter, so actors need only respect
// their own thread's program order, not real-time order relative to other
// threads.
type QuiescentConsistencyVerifier struct {
	lts   *lclts.LTS
	cache *cache
}

// NewQuiescentConsistency builds a QuiescentConsistencyVerifier rooted at
// factory's initial state.
func NewQuiescentConsistency(factory lclts.Factory) *QuiescentConsistencyVerifier {
	return &QuiescentConsistencyVerifier{lts: lclts.New(factory), cache: newCache()}
}

func (v *QuiescentConsistencyVerifier) Verify(scenario lcactor.Scenario, result lcactor.ExecutionResult) bool {
	if v.cache.hit(scenario, result) {
		return true
	}
	ok := search(v.lts, scenario, result, newContext(v.lts, int(scenario.ThreadLimit())), searchOptions{enforceHB: false})
	if ok {
		v.cache.store(scenario, result)
	}
	return ok
}

// SerializabilityVerifier is the sketch variant of spec §4.E that flattens
// every actor into a single sequential history, in thread-then-position
// document order, and delegates to the same DFS (trivially HB-free, since a
// flattened history has one thread).
type SerializabilityVerifier struct {
	lts   *lclts.LTS
	cache *cache
}

// NewSerializability builds a SerializabilityVerifier rooted at factory's
// initial state.
func NewSerializability(factory lclts.Factory) *SerializabilityVerifier {
	return &SerializabilityVerifier{lts: lclts.New(factory), cache: newCache()}
}

func (v *SerializabilityVerifier) Verify(scenario lcactor.Scenario, result lcactor.ExecutionResult) bool {
	if v.cache.hit(scenario, result) {
		return true
	}
	flatScenario, flatResult := flatten(scenario, result)
	ok := search(v.lts, flatScenario, flatResult, newContext(v.lts, int(flatScenario.ThreadLimit())), searchOptions{enforceHB: false})
	if ok {
		v.cache.store(scenario, result)
	}
	return ok
}

// flatten merges init, every parallel thread, and post — in that order —
// into a single parallel thread, carrying over each actor's expected result
// with a zeroed clock (moot once there is only one thread).
func flatten(s lcactor.Scenario, r lcactor.ExecutionResult) (lcactor.Scenario, lcactor.ExecutionResult) {
	var actors []lcactor.Actor
	var results []lcactor.ResultWithClock

	actors = append(actors, s.Init...)
	for _, res := range r.InitResults {
		results = append(results, lcactor.ResultWithClock{Result: res})
	}
	for ti, thread := range s.Parallel {
		actors = append(actors, thread...)
		for _, res := range r.ParallelResults[ti] {
			results = append(results, lcactor.ResultWithClock{Result: res.Result})
		}
	}
	actors = append(actors, s.Post...)
	for _, res := range r.PostResults {
		results = append(results, lcactor.ResultWithClock{Result: res})
	}

	flatScenario := lcactor.NewScenario(nil, [][]lcactor.Actor{actors}, nil)
	flatResult := lcactor.ExecutionResult{ParallelResults: [][]lcactor.ResultWithClock{results}}
	return flatScenario, flatResult
}

// EpsilonVerifier is the no-op verifier selector of spec §6's configuration
// table: it accepts every result without checking anything, for test suites
// that only want to observe failures other than IncorrectResults.
type EpsilonVerifier struct{}

func (EpsilonVerifier) Verify(lcactor.Scenario, lcactor.ExecutionResult) bool { return true }
