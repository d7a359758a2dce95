// Package lcfail implements the failure taxonomy, the greedy scenario
// minimizer, and scenario/result rendering (spec §4.I): turning a raw
// lcrun.InvocationResult/lcverify rejection into the structured,
// reproducible report a user actually reads.
package lcfail

import (
	"github.com/joeycumines/go-lincheck/internal/lcactor"
	"github.com/joeycumines/go-lincheck/internal/lcrun"
)

// Kind classifies why a scenario failed (spec §4.I).
type Kind int

const (
	// IncorrectResults means the invocation completed but no interleaving
	// of the sequential specification could explain the observed results.
	IncorrectResults Kind = iota
	// Deadlock means the invocation's watchdog fired before every thread
	// finished.
	Deadlock
	// UnexpectedException means an actor panicked, had no registered
	// operation, or returned an ExceptionResult of a kind it did not
	// declare as handled.
	UnexpectedException
	// ObstructionFreedomViolation means one thread was repeatedly forced
	// to run solo while another thread, though still alive, never became
	// ready (spec §4.H's coarse obstruction-freedom proxy).
	ObstructionFreedomViolation
	// ValidationFailure means a validation function, run after each
	// phase, rejected the test instance's state.
	ValidationFailure
)

func (k Kind) String() string {
	switch k {
	case IncorrectResults:
		return "IncorrectResults"
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

// Failure is the structured, reproducible report of one failing invocation
// (spec §4.I / §6's rendered failure report).
type Failure struct {
	Kind      Kind
	Scenario  lcactor.Scenario
	Execution lcactor.ExecutionResult
	Err       error
	StackDump string
}

// fromOutcome converts a non-Completed lcrun.InvocationResult into a
// Failure, or returns nil for Completed (which the caller must instead
// check against a Verifier).
func fromOutcome(scenario lcactor.Scenario, r lcrun.InvocationResult) *Failure {
	var kind Kind
	switch r.Outcome {
	case lcrun.Deadlock:
		kind = Deadlock
	case lcrun.UnexpectedException:
		kind = UnexpectedException
	case lcrun.ObstructionFreedomViolation:
		kind = ObstructionFreedomViolation
	case lcrun.ValidationFailure:
		kind = ValidationFailure
	default:
		return nil
	}
	return &Failure{Kind: kind, Scenario: scenario, Execution: r.Execution, Err: r.Err, StackDump: r.StackDump}
}

// FromInvocation converts an InvocationResult already known not to pass —
// either a non-Completed Outcome, or a Completed one some Verifier
// rejected — into a Failure. Strategies that run their own verification
// loop (internal/lcstress, internal/lcmc) use this to report the failing
// invocation they already found, without replaying it again.
func FromInvocation(scenario lcactor.Scenario, result lcrun.InvocationResult) *Failure {
	if f := fromOutcome(scenario, result); f != nil {
		return f
	}
	return &Failure{Kind: IncorrectResults, Scenario: scenario, Execution: result.Execution}
}
