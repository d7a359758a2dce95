// Package lcmc implements the model-checking strategy (spec §4.H): a
// lazily-built interleaving tree that drives lcrun's cooperative,
// single-worker-at-a-time scheduling, escalating the number of permitted
// context switches once the tree under the current budget is exhausted.
package lcmc

import (
	"context"
	"math/rand/v2"

	"github.com/joeycumines/go-lincheck/internal/lcactor"
	"github.com/joeycumines/go-lincheck/internal/lclog"
	"github.com/joeycumines/go-lincheck/internal/lcrun"
	"github.com/joeycumines/go-lincheck/internal/lcverify"
)

// Config configures the model-checking strategy (spec §4.H / §6).
type Config struct {
	// MaxInvocations bounds how many scenario replays this strategy will
	// run in total before giving up (spec: "usedInvocations == max_invocations").
	MaxInvocations int
	// CheckObstructionFreedom enables the coarse obstruction-freedom check
	// (spec §6 check_obstruction_freedom).
	CheckObstructionFreedom bool
	// ObstructionRetryThreshold bounds consecutive solo dispatches of one
	// thread, while another remains alive but never ready, before an
	// obstruction-freedom violation is reported.
	ObstructionRetryThreshold int
	Seed                      uint64
	// Logger receives per-invocation and escalation events (spec §6
	// `logger` option). Defaults to a disabled logger if nil.
	Logger *lclog.Logger
}

// Result is what Explore found.
type Result struct {
	// Failing is non-nil if some invocation produced a LincheckFailure:
	// an incomplete/bad Outcome, a Completed result the verifier rejected,
	// or an obstruction-freedom violation.
	Failing *lcrun.InvocationResult
	// ObstructionFreedomViolated is set alongside Failing when the
	// obstruction-freedom check (rather than the runner or verifier)
	// triggered the failure.
	ObstructionFreedomViolated bool
	Invocations                int
	// FullyExplored reports whether the interleaving tree was exhausted
	// (every reachable schedule tried) before MaxInvocations was spent.
	FullyExplored bool
	MaxSwitchesReached int
}

// Strategy drives lcrun.Runner through the interleaving tree.
type Strategy struct {
	cfg      Config
	runner   *lcrun.Runner
	verifier lcverify.Verifier
	rng      *rand.Rand
}

// New builds a model-checking Strategy.
func New(cfg Config, runner *lcrun.Runner, verifier lcverify.Verifier) *Strategy {
	if cfg.MaxInvocations <= 0 {
		cfg.MaxInvocations = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = lclog.Discard
	}
	return &Strategy{cfg: cfg, runner: runner, verifier: verifier, rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x2545f4914f6cdd1d))}
}

// Explore runs scenario repeatedly under escalating max_switches budgets
// until the tree is fully explored under the root or MaxInvocations is
// spent, stopping early at the first failure (spec §4.H).
func (s *Strategy) Explore(ctx context.Context, scenario lcactor.Scenario) Result {
	t := newTree()
	maxSwitches := 1
	used := 0

	actorCounts := make(map[int]int, scenario.ThreadCount())
	for i := 0; i < scenario.ThreadCount(); i++ {
		actorCounts[i+1] = len(scenario.Parallel[i])
	}

	for used < s.cfg.MaxInvocations {
		coord := newCoordinator(t, s.rng, maxSwitches, scenario.ThreadCount(), s.obstructionThreshold(), actorCounts)

		result := s.runner.Run(ctx, scenario, coord)
		used++

		if coord.obstructionViolated {
			s.cfg.Logger.Warning().Int("invocations", used).Log("lcmc: obstruction-freedom violation detected")
			return Result{
				Failing:                    &result,
				ObstructionFreedomViolated: true,
				Invocations:                used,
			}
		}

		if result.Outcome != lcrun.Completed {
			s.cfg.Logger.Warning().Int("invocations", used).Str("outcome", result.Outcome.String()).Log("lcmc: invocation did not complete")
			return Result{Failing: &result, Invocations: used, MaxSwitchesReached: maxSwitches}
		}
		if !s.verifier.Verify(scenario, result.Execution) {
			s.cfg.Logger.Warning().Int("invocations", used).Log("lcmc: verifier rejected a completed invocation")
			return Result{Failing: &result, Invocations: used, MaxSwitchesReached: maxSwitches}
		}

		markPathExplored(t, coord.path)

		if rootFullyExplored(t, scenario.ThreadCount()) {
			maxSwitches++
			t = newTree() // a larger switch budget changes every node's branching factor
			s.cfg.Logger.Debug().Int("max_switches", maxSwitches).Int("invocations", used).Log("lcmc: escalating switch budget")
			if maxSwitches > totalActors(actorCounts) {
				// no interleaving needs more switches than total actors - 1;
				// once a budget equal to the total actor count has been fully
				// explored, every ordering was already reachable, so there is
				// nothing left to escalate toward.
				return Result{Invocations: used, FullyExplored: true, MaxSwitchesReached: maxSwitches - 1}
			}
		}
	}

	return Result{Invocations: used, MaxSwitchesReached: maxSwitches}
}

func (s *Strategy) obstructionThreshold() int {
	if !s.cfg.CheckObstructionFreedom {
		return 0
	}
	if s.cfg.ObstructionRetryThreshold > 0 {
		return s.cfg.ObstructionRetryThreshold
	}
	return 1000
}

// markPathExplored marks the full decision path walked by one completed,
// verifier-accepted invocation as explored, so future runs weight away
// from repeating it exactly.
func markPathExplored(t *tree, path string) {
	// The path is a sequence of "T<id>;" and "S<id>;" segments; each
	// prefix up to and including a segment names the node+key pair that
	// was chosen there. Marking every prefix's final choice explored is a
	// conservative under-approximation of "this whole subtree is done"
	// (it only guarantees that one exact leaf won't be revisited), which
	// is why root-level full-exploration additionally requires every
	// sibling at every level to independently reach fractionUnexplored 0 —
	// see rootFullyExplored.
	prefix := ""
	i := 0
	for i < len(path) {
		j := i
		for j < len(path) && path[j] != ';' {
			j++
		}
		segment := path[i:j] // e.g. "T2" or "S1"
		kind := segment[:1]
		var key int
		for _, r := range segment[1:] {
			key = key*10 + int(r-'0')
		}
		cs := t.node(prefix + "|" + kind)
		cs.markExplored(key)
		prefix += segment + ";"
		i = j + 1
	}
}

// rootFullyExplored reports whether the root ThreadChoosingNode has no
// unexplored thread-choice children left among the parallel thread ids and
// no choice recorded anywhere in the tree still has an unexplored child.
func rootFullyExplored(t *tree, threads int) bool {
	cs := t.node("|T")
	candidates := make([]int, threads)
	for i := range candidates {
		candidates[i] = i + 1
	}
	if !cs.fullyExplored(candidates) {
		return false
	}
	for _, node := range t.nodes {
		for _, slot := range node.children {
			if slot.fractionUnexplored > 0 {
				return false
			}
		}
	}
	return true
}

func totalActors(counts map[int]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}
