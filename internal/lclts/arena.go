package lclts

// StateID is a 32-bit index into the LTS's state arena (design note §9:
// "the LTS owns a slab of States and hands out 32-bit ids; contexts
// reference states by id"). Grounded on
// eventloop/internal/alternatetwo/arena.go's TaskArena pre-allocated-slab
// idiom, generalized from a fixed-size ring to an append-only slab since
// LTS states are never destroyed within a run (spec §3: "States... never
// destroyed within a test run").
type StateID uint32

// State is a hash-consed snapshot of the reference implementation at a
// point in time. Immutable once stored in the arena: transitions never
// mutate an existing State, only produce new ones.
type State struct {
	id   StateID
	spec Spec
	key  any
}

// ID returns the state's arena index.
func (s *State) ID() StateID { return s.id }

// Spec returns the underlying reference-implementation snapshot. Callers
// must treat it as read-only; use Clone via the LTS to mutate.
func (s *State) Spec() Spec { return s.spec }

// arena is the append-only slab backing the LTS's states, guarded by the
// LTS's own mutex (spec §4.D: "LTS construction is process-wide; a mutex
// guards the intern table" — here scoped to one LTS instance per §5's
// "each... behind a single owner", not a package-level global).
type arena struct {
	states []*State
}

func (a *arena) alloc(spec Spec, key any) *State {
	st := &State{id: StateID(len(a.states)), spec: spec, key: key}
	a.states = append(a.states, st)
	return st
}

func (a *arena) get(id StateID) *State {
	return a.states[id]
}

func (a *arena) len() int { return len(a.states) }
