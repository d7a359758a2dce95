package lcparam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntRangeGenerator_Diversity(t *testing.T) {
	// Property from spec §4.B: six successive draws from a range of width
	// >= 6 must contain at least two distinct values with high probability.
	g := NewIntRange(1, 0, 9)
	seen := map[int]struct{}{}
	for i := 0; i < 6; i++ {
		v := g.Int()
		require.GreaterOrEqual(t, v, 0)
		require.LessOrEqual(t, v, 9)
		seen[v] = struct{}{}
	}
	assert.GreaterOrEqual(t, len(seen), 2)
}

func TestIntRangeGenerator_Deterministic(t *testing.T) {
	a := NewIntRange(42, 0, 1000)
	b := NewIntRange(42, 0, 1000)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Int(), b.Int())
	}
}

func TestStringGenerator_LengthBounds(t *testing.T) {
	g := NewString(7, 2, 5, "")
	for i := 0; i < 50; i++ {
		s := g.String()
		assert.GreaterOrEqual(t, len(s), 2)
		assert.LessOrEqual(t, len(s), 5)
	}
}

func TestEnumGenerator_Choice(t *testing.T) {
	g := NewEnum(3, []string{"a", "b", "c"})
	for i := 0; i < 10; i++ {
		v := g.Choice()
		assert.Contains(t, []string{"a", "b", "c"}, v)
	}
}

func TestUseOnceOption(t *testing.T) {
	g := NewIntRange(1, 0, 10, UseOnce())
	assert.True(t, g.UseOnce())

	notOnce := NewIntRange(1, 0, 10)
	assert.False(t, notOnce.UseOnce())
}

func TestResolveThreadID(t *testing.T) {
	args := []any{1, ThreadIDToken{}, "x"}
	resolved := ResolveThreadID(args, 3)
	assert.Equal(t, []any{1, 3, "x"}, resolved)
	// original untouched
	assert.Equal(t, ThreadIDToken{}, args[1])
}
