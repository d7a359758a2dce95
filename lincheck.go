package lincheck

import (
	"github.com/joeycumines/go-lincheck/internal/lcactor"
	"github.com/joeycumines/go-lincheck/internal/lcparam"
)

// MethodID names an operation exposed by both Test.Operations and
// Test.Sequential (spec §3).
type MethodID = lcactor.MethodID

// ExceptionKind names a declared exception type an actor is prepared to
// treat as a result rather than a failure (spec §3).
type ExceptionKind = lcactor.ExceptionKind

// ActorFlags is the bitset of per-actor behavior flags from spec §3.
type ActorFlags = lcactor.ActorFlags

const (
	FlagCancelOnSuspension   = lcactor.FlagCancelOnSuspension
	FlagAllowExtraSuspension = lcactor.FlagAllowExtraSuspension
	FlagBlocking             = lcactor.FlagBlocking
	FlagCausesBlocking       = lcactor.FlagCausesBlocking
	FlagPromptCancellation   = lcactor.FlagPromptCancellation
	FlagUseOnce              = lcactor.FlagUseOnce
	FlagSuspendable          = lcactor.FlagSuspendable
)

// ParamGenerator is a deterministic, per-argument-type random value stream
// (spec §4.B), the argument type ActorGenerator.Args expects.
type ParamGenerator = lcparam.Generator

// Op describes one operation the execution generator may draw, with zero or
// more argument generators (spec §4.B/§4.C). It is a thin constructor over
// ActorGenerator, so a Test's Groups/SharedPool can be built without
// importing internal/lcgen directly. Chain OpFlags/OpHandled to set the
// optional per-actor flags and declared exceptions.
func Op(method MethodID, args ...ParamGenerator) ActorGenerator {
	return ActorGenerator{Method: method, Args: args}
}

// OpFlags returns a copy of g with flags set (spec §3 per-actor flags).
func OpFlags(g ActorGenerator, flags ActorFlags) ActorGenerator {
	g.Flags = flags
	return g
}

// OpHandled returns a copy of g that treats the named exceptions as results
// rather than failures (spec §3).
func OpHandled(g ActorGenerator, kinds ...ExceptionKind) ActorGenerator {
	g.Handled = kinds
	return g
}
