package lcmc

import "math/rand/v2"

// childSlot is one edge out of a choice point: how much of the subtree
// below it remains unexplored (1.0 until fully explored, 0.0 once every
// descendant outcome is known).
type childSlot struct {
	fractionUnexplored float64
}

// choiceSet is one node of the interleaving tree: a lazily-populated set of
// weighted children, keyed by an integer choice id. Both ThreadChoosingNode
// and SwitchChoosingNode (spec §4.H) are thin, differently-keyed views over
// the same structure — the distinction is in what the integer key means,
// not in how children are tracked or explored.
type choiceSet struct {
	children map[int]*childSlot
}

func newChoiceSet() *choiceSet {
	return &choiceSet{children: map[int]*childSlot{}}
}

func (c *choiceSet) slot(key int) *childSlot {
	s, ok := c.children[key]
	if !ok {
		s = &childSlot{fractionUnexplored: 1.0}
		c.children[key] = s
	}
	return s
}

// pick chooses one of candidates, weighted by fractionUnexplored (spec
// §4.H: "weight = child's fraction_unexplored"). Falls back to uniform
// choice if every candidate is fully explored (the tree has nothing left
// to teach us about this step; any choice is as good as another).
func (c *choiceSet) pick(rng *rand.Rand, candidates []int) int {
	if len(candidates) == 0 {
		panic("lcmc: pick called with no candidates")
	}
	var total float64
	weights := make([]float64, len(candidates))
	for i, k := range candidates {
		w := c.slot(k).fractionUnexplored
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return candidates[rng.IntN(len(candidates))]
	}
	r := rng.Float64() * total
	for i, w := range weights {
		if r < w {
			return candidates[i]
		}
		r -= w
	}
	return candidates[len(candidates)-1]
}

// markExplored records that key's whole subtree has yielded no further
// unexplored outcomes.
func (c *choiceSet) markExplored(key int) {
	c.slot(key).fractionUnexplored = 0
}

// fullyExplored reports whether every one of candidates is fully explored.
func (c *choiceSet) fullyExplored(candidates []int) bool {
	for _, k := range candidates {
		if c.slot(k).fractionUnexplored > 0 {
			return false
		}
	}
	return true
}

// tree is the path-indexed interleaving tree (spec §4.H): nodes are
// addressed by the sequence of choices leading to them rather than by
// explicit parent/child pointers, the same lazy-expansion structure a
// Monte-Carlo search tree uses, and a natural fit for a cooperative
// scheduler that discovers its own branching factor (the current set of
// runnable threads) only at run time.
type tree struct {
	nodes map[string]*choiceSet
}

func newTree() *tree {
	return &tree{nodes: map[string]*choiceSet{}}
}

func (t *tree) node(path string) *choiceSet {
	cs, ok := t.nodes[path]
	if !ok {
		cs = newChoiceSet()
		t.nodes[path] = cs
	}
	return cs
}
