package lcverify

import (
	"fmt"
	"sync"

	"github.com/joeycumines/go-lincheck/internal/lcactor"
)

// cache is the verifier's results cache: scenario -> set of ExecutionResults
// already proven linearizable (spec §4.E: "Map scenario -> set<ExecutionResult>;
// on hit return success"). Guarded by a single mutex, mirroring
// eventloop/registry.go's map-plus-mutex registry; unlike that registry this
// cache has no scavenger, since a verifier's cache lives for the process
// lifetime of the Verifier value, not per-invocation (spec §5: "LTS nodes
// live for the duration of the verifier").
type cache struct {
	mu    sync.Mutex
	table map[string]map[string]struct{}
}

func newCache() *cache {
	return &cache{table: make(map[string]map[string]struct{})}
}

// hit reports whether (scenario, result) was previously confirmed
// linearizable, ignoring state snapshots and clocks per ExecutionResult.Equal.
func (c *cache) hit(scenario lcactor.Scenario, result lcactor.ExecutionResult) bool {
	sk := scenarioKey(scenario)
	rk := resultKey(result)

	c.mu.Lock()
	defer c.mu.Unlock()
	results, ok := c.table[sk]
	if !ok {
		return false
	}
	_, ok = results[rk]
	return ok
}

// store records (scenario, result) as confirmed linearizable.
func (c *cache) store(scenario lcactor.Scenario, result lcactor.ExecutionResult) {
	sk := scenarioKey(scenario)
	rk := resultKey(result)

	c.mu.Lock()
	defer c.mu.Unlock()
	results, ok := c.table[sk]
	if !ok {
		results = make(map[string]struct{})
		c.table[sk] = results
	}
	results[rk] = struct{}{}
}

// scenarioKey and resultKey render opaque scenario/result content into a
// comparable string, the same best-effort approach as
// internal/lclts.newTransitionKey: adequate for the bounded, simple argument
// and return values the seed tests and demo fixtures use.
func scenarioKey(s lcactor.Scenario) string {
	return fmt.Sprintf("%#v", s)
}

func resultKey(r lcactor.ExecutionResult) string {
	return fmt.Sprintf("%#v", r.WithEmptyClocks())
}
