// Package lcparam implements deterministic, per-argument-type random value
// streams (spec §4.B). Each generator owns a PRNG seeded exactly once at
// construction; every subsequent Draw advances that same stream, so a
// generator's sequence is reproducible given its seed.
package lcparam

import "math/rand/v2"

// Generator produces one opaque argument value per Draw call, for use as an
// actor argument by the execution generator (§4.C).
type Generator interface {
	// Draw returns the next value from the generator's deterministic
	// stream.
	Draw() any
	// UseOnce reports whether this generator was built with the UseOnce
	// option. The execution generator does not read it: single-draw pool
	// removal there follows the actor generator's lcactor.FlagUseOnce.
	UseOnce() bool
}

// NewRand builds a PCG-seeded PRNG from a single uint64 seed, the same
// construction every generator in this package uses internally. Exported so
// callers outside this package can share the same deterministic-seeding
// convention.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// newRand builds the single PRNG instance a generator owns for its whole
// lifetime, mirroring the "seeded once" contract of spec §4.B.
func newRand(seed uint64) *rand.Rand {
	return NewRand(seed)
}

// base holds the fields every concrete generator shares.
type base struct {
	rng     *rand.Rand
	useOnce bool
}

func newBase(seed uint64, useOnce bool) base {
	return base{rng: newRand(seed), useOnce: useOnce}
}

// UseOnce implements Generator.
func (b base) UseOnce() bool { return b.useOnce }

// Option configures a generator's UseOnce behavior at construction. All
// constructors in this package accept it as a trailing variadic, following
// the functional-option idiom used for Actor configuration elsewhere in
// this engine.
type Option func(*base)

// UseOnce sets the flag the generator's UseOnce method reports.
func UseOnce() Option {
	return func(b *base) { b.useOnce = true }
}

func applyOptions(b base, opts []Option) base {
	for _, o := range opts {
		if o != nil {
			o(&b)
		}
	}
	return b
}
