// Package lcactor holds the immutable actor and scenario value types shared
// by every other component of the engine: a method invocation record, its
// typed argument list, and the ordered init/parallel/post test program built
// from them.
package lcactor

// MethodID names an operation exposed by the user's sequential specification
// and test class. It is opaque to the engine beyond equality.
type MethodID string

// ExceptionKind names a declared exception type an actor is prepared to
// treat as a result rather than a failure.
type ExceptionKind string

// ActorFlags is a bitset of the per-actor behavior flags from spec §3.
type ActorFlags uint16

const (
	// FlagCancelOnSuspension allows a strategy to cancel this actor once it
	// reports Suspended.
	FlagCancelOnSuspension ActorFlags = 1 << iota
	// FlagAllowExtraSuspension tolerates one spurious additional suspension
	// before cancellation without failing verification.
	FlagAllowExtraSuspension
	// FlagBlocking marks an actor that may block the calling worker.
	FlagBlocking
	// FlagCausesBlocking marks an actor whose execution may cause some
	// other actor to block.
	FlagCausesBlocking
	// FlagPromptCancellation allows cancellation before the operation's own
	// cleanup has run.
	FlagPromptCancellation
	// FlagUseOnce marks a generator (and the actor it produced) as
	// single-draw: removed from the generator pool after use.
	FlagUseOnce
	// FlagSuspendable marks an actor whose operation may report Suspended
	// partway through.
	FlagSuspendable
)

// Has reports whether all bits in mask are set.
func (f ActorFlags) Has(mask ActorFlags) bool { return f&mask == mask }

// Actor is an immutable invocation record: a method id, its argument list,
// and behavior flags. Construct with NewActor; there are no exported
// mutators.
type Actor struct {
	method    MethodID
	args      []any
	flags     ActorFlags
	handled   map[ExceptionKind]struct{}
	groupName string
}

// actorConfig accumulates ActorOption values before an Actor is frozen.
type actorConfig struct {
	flags     ActorFlags
	handled   map[ExceptionKind]struct{}
	groupName string
}

// ActorOption configures an Actor at construction time, following the same
// functional-option shape as lcparam.Option and the lcconfig.Option set
// behind Check.
type ActorOption interface {
	applyActor(*actorConfig)
}

type actorOptionFunc func(*actorConfig)

func (f actorOptionFunc) applyActor(c *actorConfig) { f(c) }

// WithFlags ORs extra flags onto the actor being constructed.
func WithFlags(flags ActorFlags) ActorOption {
	return actorOptionFunc(func(c *actorConfig) { c.flags |= flags })
}

// WithHandledExceptions declares exception kinds the operation may report
// as an ExceptionResult; the runner fails an ExceptionResult of any other
// kind as an UnexpectedException.
func WithHandledExceptions(kinds ...ExceptionKind) ActorOption {
	return actorOptionFunc(func(c *actorConfig) {
		if c.handled == nil {
			c.handled = make(map[ExceptionKind]struct{}, len(kinds))
		}
		for _, k := range kinds {
			c.handled[k] = struct{}{}
		}
	})
}

// WithNonParallelGroup assigns the actor's generator to a named
// non-parallel group (§4.C): all actors drawn from generators sharing a
// group name are pinned to the same parallel thread.
func WithNonParallelGroup(name string) ActorOption {
	return actorOptionFunc(func(c *actorConfig) { c.groupName = name })
}

// NewActor constructs an immutable Actor. args is retained by reference;
// callers must not mutate it afterward.
func NewActor(method MethodID, args []any, opts ...ActorOption) Actor {
	cfg := actorConfig{}
	for _, o := range opts {
		if o != nil {
			o.applyActor(&cfg)
		}
	}
	a := Actor{
		method:    method,
		args:      args,
		flags:     cfg.flags,
		handled:   cfg.handled,
		groupName: cfg.groupName,
	}
	return a
}

// Method returns the actor's operation id.
func (a Actor) Method() MethodID { return a.method }

// Args returns the actor's argument list. The returned slice must not be
// mutated.
func (a Actor) Args() []any { return a.args }

// Flags returns the actor's behavior flags.
func (a Actor) Flags() ActorFlags { return a.flags }

// Group returns the actor's non-parallel group name, or "" if it belongs to
// the shared parallel pool.
func (a Actor) Group() string { return a.groupName }

// IsSuspendable reports whether the actor's operation may suspend.
func (a Actor) IsSuspendable() bool { return a.flags.Has(FlagSuspendable) }

// HandlesException reports whether kind is declared as a handled exception
// for this actor.
func (a Actor) HandlesException(kind ExceptionKind) bool {
	if a.handled == nil {
		return false
	}
	_, ok := a.handled[kind]
	return ok
}
