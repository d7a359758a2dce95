package lcparam

import "strings"

// IntRangeGenerator draws ints uniformly from [min, max], inclusive.
type IntRangeGenerator struct {
	base
	min, max int
}

// NewIntRange builds an int-range generator over [min, max].
func NewIntRange(seed uint64, min, max int, opts ...Option) *IntRangeGenerator {
	return &IntRangeGenerator{base: applyOptions(newBase(seed, false), opts), min: min, max: max}
}

// Int returns the next drawn int.
func (g *IntRangeGenerator) Int() int {
	width := g.max - g.min + 1
	if width <= 0 {
		return g.min
	}
	return g.min + g.rng.IntN(width)
}

// Draw implements Generator.
func (g *IntRangeGenerator) Draw() any { return g.Int() }

// LongRangeGenerator draws int64s uniformly from [min, max], inclusive.
type LongRangeGenerator struct {
	base
	min, max int64
}

// NewLongRange builds a long-range generator over [min, max].
func NewLongRange(seed uint64, min, max int64, opts ...Option) *LongRangeGenerator {
	return &LongRangeGenerator{base: applyOptions(newBase(seed, false), opts), min: min, max: max}
}

// Long returns the next drawn int64.
func (g *LongRangeGenerator) Long() int64 {
	width := g.max - g.min + 1
	if width <= 0 {
		return g.min
	}
	return g.min + g.rng.Int64N(width)
}

// Draw implements Generator.
func (g *LongRangeGenerator) Draw() any { return g.Long() }

const defaultStringAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// StringGenerator draws length-bounded strings over an alphabet.
type StringGenerator struct {
	base
	minLen, maxLen int
	alphabet       string
}

// NewString builds a string generator producing strings of length in
// [minLen, maxLen], drawn from alphabet (defaultStringAlphabet if empty).
func NewString(seed uint64, minLen, maxLen int, alphabet string, opts ...Option) *StringGenerator {
	if alphabet == "" {
		alphabet = defaultStringAlphabet
	}
	return &StringGenerator{base: applyOptions(newBase(seed, false), opts), minLen: minLen, maxLen: maxLen, alphabet: alphabet}
}

// String returns the next drawn string.
func (g *StringGenerator) String() string {
	length := g.minLen
	if g.maxLen > g.minLen {
		length += g.rng.IntN(g.maxLen - g.minLen + 1)
	}
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(g.alphabet[g.rng.IntN(len(g.alphabet))])
	}
	return sb.String()
}

// Draw implements Generator.
func (g *StringGenerator) Draw() any { return g.String() }

// BoolGenerator draws uniformly random booleans.
type BoolGenerator struct{ base }

// NewBool builds a boolean generator.
func NewBool(seed uint64, opts ...Option) *BoolGenerator {
	return &BoolGenerator{base: applyOptions(newBase(seed, false), opts)}
}

// Bool returns the next drawn bool.
func (g *BoolGenerator) Bool() bool { return g.rng.IntN(2) == 1 }

// Draw implements Generator.
func (g *BoolGenerator) Draw() any { return g.Bool() }

// EnumGenerator draws uniformly from a fixed set of values.
type EnumGenerator[T any] struct {
	base
	values []T
}

// NewEnum builds a generator choosing uniformly among values.
func NewEnum[T any](seed uint64, values []T, opts ...Option) *EnumGenerator[T] {
	return &EnumGenerator[T]{base: applyOptions(newBase(seed, false), opts), values: values}
}

// Choice returns the next drawn value.
func (g *EnumGenerator[T]) Choice() T { return g.values[g.rng.IntN(len(g.values))] }

// Draw implements Generator.
func (g *EnumGenerator[T]) Draw() any { return g.Choice() }

// ThreadIDToken is a sentinel value standing in for "the runtime thread id
// of whichever thread executes this actor" (spec §4.B). The execution
// generator substitutes it with the actor's assigned thread id when the
// scenario is built (§4.C); it must never reach the runner unresolved.
type ThreadIDToken struct{}

// ThreadIDGenerator always draws ThreadIDToken{}; it owns no PRNG state
// because its output is constant until resolved.
type ThreadIDGenerator struct{ useOnce bool }

// NewThreadID builds a thread-id token generator.
func NewThreadID(opts ...Option) *ThreadIDGenerator {
	b := applyOptions(base{}, opts)
	return &ThreadIDGenerator{useOnce: b.useOnce}
}

// Draw implements Generator.
func (g *ThreadIDGenerator) Draw() any { return ThreadIDToken{} }

// UseOnce implements Generator.
func (g *ThreadIDGenerator) UseOnce() bool { return g.useOnce }

// ResolveThreadID replaces every ThreadIDToken in args with the concrete
// thread id assigned to the actor, in place on a fresh copy.
func ResolveThreadID(args []any, threadID int) []any {
	resolved := make([]any, len(args))
	for i, a := range args {
		if _, ok := a.(ThreadIDToken); ok {
			resolved[i] = threadID
		} else {
			resolved[i] = a
		}
	}
	return resolved
}
