package lcactor

import "reflect"

// Result is the sum type of possible actor outcomes (spec §3). The concrete
// types below are the closed set of variants; isResult is unexported so no
// other package can add a variant.
type Result interface {
	isResult()
}

// ValueResult is a normal return value. Value is opaque to the engine.
type ValueResult struct{ Value any }

// ExceptionResult is one of the actor's declared handled exceptions.
type ExceptionResult struct{ Kind ExceptionKind }

// VoidResult is a result with no value (a void-returning operation).
type VoidResult struct{}

// SuspendedResult marks a coroutine-like suspension point reached.
type SuspendedResult struct{}

// CancelledResult marks a suspension that was cancelled.
type CancelledResult struct{}

// NoResult is a placeholder before execution has happened.
type NoResult struct{}

func (ValueResult) isResult()     {}
func (ExceptionResult) isResult() {}
func (VoidResult) isResult()      {}
func (SuspendedResult) isResult() {}
func (CancelledResult) isResult() {}
func (NoResult) isResult()        {}

// ResultsEqual compares two Results for value equality, the way spec §8's
// "equals ignoring clocks" property requires.
func ResultsEqual(a, b Result) bool {
	switch av := a.(type) {
	case ValueResult:
		bv, ok := b.(ValueResult)
		return ok && reflect.DeepEqual(av.Value, bv.Value)
	case ExceptionResult:
		bv, ok := b.(ExceptionResult)
		return ok && av.Kind == bv.Kind
	case VoidResult:
		_, ok := b.(VoidResult)
		return ok
	case SuspendedResult:
		_, ok := b.(SuspendedResult)
		return ok
	case CancelledResult:
		_, ok := b.(CancelledResult)
		return ok
	case NoResult:
		_, ok := b.(NoResult)
		return ok
	default:
		return false
	}
}

// HBClock is a fixed-size vector of natural numbers, one slot per parallel
// thread: the happens-before clock observed when an actor started.
type HBClock []uint32

// Clone returns an independent copy of the clock.
func (c HBClock) Clone() HBClock {
	out := make(HBClock, len(c))
	copy(out, c)
	return out
}

// GreaterOrEqual reports whether every slot of c is >= the corresponding
// slot of other (c "has seen at least as much progress as" other). Shorter
// clocks are treated as zero-padded.
func (c HBClock) GreaterOrEqual(other HBClock) bool {
	for i, want := range other {
		var have uint32
		if i < len(c) {
			have = c[i]
		}
		if have < want {
			return false
		}
	}
	return true
}

// ResultWithClock pairs a Result with the HBClock snapshot observed when
// the actor started.
type ResultWithClock struct {
	Result Result
	Clock  HBClock
}

// EqualIgnoringClock compares two ResultWithClock values by Result only,
// per spec §3 ("equality ignores clocks unless explicitly requested").
func (r ResultWithClock) EqualIgnoringClock(o ResultWithClock) bool {
	return ResultsEqual(r.Result, o.Result)
}

// ExecutionResult carries the results observed for every actor of a
// scenario: init and post run sequentially with plain Results, parallel
// actors carry their HBClock snapshot. StateSnapshots holds optional,
// opaque state-representation values captured at phase boundaries;
// equality ignores them, since state extraction need not be deterministic
// (spec §3).
type ExecutionResult struct {
	InitResults     []Result
	ParallelResults [][]ResultWithClock
	PostResults     []Result
	StateSnapshots  []any
}

// Equal compares two ExecutionResult values ignoring StateSnapshots and
// ignoring clocks within ParallelResults, per spec §3/§8.
func (e ExecutionResult) Equal(o ExecutionResult) bool {
	if len(e.InitResults) != len(o.InitResults) || len(e.PostResults) != len(o.PostResults) ||
		len(e.ParallelResults) != len(o.ParallelResults) {
		return false
	}
	for i := range e.InitResults {
		if !ResultsEqual(e.InitResults[i], o.InitResults[i]) {
			return false
		}
	}
	for i := range e.PostResults {
		if !ResultsEqual(e.PostResults[i], o.PostResults[i]) {
			return false
		}
	}
	for t := range e.ParallelResults {
		if len(e.ParallelResults[t]) != len(o.ParallelResults[t]) {
			return false
		}
		for i := range e.ParallelResults[t] {
			if !e.ParallelResults[t][i].EqualIgnoringClock(o.ParallelResults[t][i]) {
				return false
			}
		}
	}
	return true
}

// WithEmptyClocks returns a copy of e with every ParallelResults clock
// zeroed, used by the equals_ignoring_clocks property test (spec §8).
func (e ExecutionResult) WithEmptyClocks() ExecutionResult {
	out := ExecutionResult{
		InitResults:    e.InitResults,
		PostResults:    e.PostResults,
		StateSnapshots: e.StateSnapshots,
	}
	out.ParallelResults = make([][]ResultWithClock, len(e.ParallelResults))
	for t, results := range e.ParallelResults {
		row := make([]ResultWithClock, len(results))
		for i, r := range results {
			row[i] = ResultWithClock{Result: r.Result}
		}
		out.ParallelResults[t] = row
	}
	return out
}
