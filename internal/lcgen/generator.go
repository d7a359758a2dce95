// Package lcgen implements the execution generator (spec §4.C): the
// algorithm that draws a random Scenario from a pool of actor generators,
// partitioned into non-parallel groups (all actors of one group pinned to
// the same thread) and a shared parallel pool.
package lcgen

import (
	"math/rand/v2"

	"github.com/joeycumines/go-lincheck/internal/lcactor"
	"github.com/joeycumines/go-lincheck/internal/lcparam"
)

// ActorGenerator describes one operation the execution generator may draw:
// its method id, one lcparam.Generator per argument position, and its
// behavior flags/handled exceptions (spec §3/§4.B).
type ActorGenerator struct {
	Method  lcactor.MethodID
	Args    []lcparam.Generator
	Flags   lcactor.ActorFlags
	Handled []lcactor.ExceptionKind
}

func (g ActorGenerator) useOnce() bool     { return g.Flags.Has(lcactor.FlagUseOnce) }
func (g ActorGenerator) suspendable() bool { return g.Flags.Has(lcactor.FlagSuspendable) }

func (g ActorGenerator) draw(threadID int) lcactor.Actor {
	args := make([]any, len(g.Args))
	for i, a := range g.Args {
		args[i] = a.Draw()
	}
	args = lcparam.ResolveThreadID(args, threadID)
	opts := []lcactor.ActorOption{lcactor.WithFlags(g.Flags)}
	if len(g.Handled) > 0 {
		opts = append(opts, lcactor.WithHandledExceptions(g.Handled...))
	}
	return lcactor.NewActor(g.Method, args, opts...)
}

// Group is a non-parallel group (spec §4.C): all actors drawn from its
// generators are pinned to the same parallel thread.
type Group struct {
	Name       string
	Generators []ActorGenerator
}

// Config is the execution generator's input (spec §4.C / §6 configuration
// surface): thread count, per-phase actor budgets, and the generator pools.
type Config struct {
	Threads         int
	ActorsPerThread int
	ActorsBefore    int
	ActorsAfter     int
	Groups          []Group
	SharedPool      []ActorGenerator
}

// Generate draws one random Scenario from cfg using rng, following spec
// §4.C's five-step algorithm.
func Generate(cfg Config, rng *rand.Rand) lcactor.Scenario {
	init := drawInit(cfg, rng)

	groupOrder := append([]Group(nil), cfg.Groups...)
	rng.Shuffle(len(groupOrder), func(i, j int) { groupOrder[i], groupOrder[j] = groupOrder[j], groupOrder[i] })

	threadGroups := make([][]ActorGenerator, cfg.Threads)
	for i, g := range groupOrder {
		if cfg.Threads == 0 {
			break
		}
		thread := i % cfg.Threads
		threadGroups[thread] = append(threadGroups[thread], g.Generators...)
	}
	shared := append([]ActorGenerator(nil), cfg.SharedPool...)

	parallel := make([][]lcactor.Actor, 0, cfg.Threads)
	anySuspendable := false
	for t := 0; t < cfg.Threads; t++ {
		threadID := t + 1
		var actors []lcactor.Actor
		for i := 0; i < cfg.ActorsPerThread; i++ {
			cands := candidates(threadGroups[t], shared)
			if len(cands) == 0 {
				break
			}
			pick := cands[rng.IntN(len(cands))]
			actors = append(actors, pick.gen.draw(threadID))
			if pick.gen.suspendable() {
				anySuspendable = true
			}
			if pick.gen.useOnce() {
				if pick.fromGroup {
					threadGroups[t] = removeAt(threadGroups[t], pick.index)
				} else {
					shared = removeAt(shared, pick.index)
				}
			}
		}
		if len(actors) > 0 {
			parallel = append(parallel, actors)
		}
	}

	var post []lcactor.Actor
	if !anySuspendable {
		post = drawPost(cfg, threadGroups, shared, rng)
	}

	return lcactor.NewScenario(init, parallel, post)
}

// drawInit draws up to cfg.ActorsBefore actors (spec §4.C step 1) from
// generators that are neither use_once nor suspendable; init actors run
// sequentially before thread ids are assigned, so ThreadIDToken resolves to
// 0.
func drawInit(cfg Config, rng *rand.Rand) []lcactor.Actor {
	pool := eligiblePool(cfg, func(g ActorGenerator) bool {
		return !g.useOnce() && !g.suspendable()
	})
	if len(pool) == 0 {
		return nil
	}
	var init []lcactor.Actor
	for i := 0; i < cfg.ActorsBefore; i++ {
		g := pool[rng.IntN(len(pool))]
		init = append(init, g.draw(0))
	}
	return init
}

// drawPost draws up to cfg.ActorsAfter actors (spec §4.C step 5) from the
// remaining, not-yet-exhausted generators across every group and the shared
// pool, excluding suspendable ones (post must never carry a suspendable
// actor, conservatively enforced even though spec §3's invariant only names
// this for the case where the parallel part itself has a suspendable actor).
func drawPost(cfg Config, threadGroups [][]ActorGenerator, shared []ActorGenerator, rng *rand.Rand) []lcactor.Actor {
	var pool []ActorGenerator
	for _, g := range threadGroups {
		for _, gen := range g {
			if !gen.suspendable() {
				pool = append(pool, gen)
			}
		}
	}
	for _, gen := range shared {
		if !gen.suspendable() {
			pool = append(pool, gen)
		}
	}
	if len(pool) == 0 {
		return nil
	}
	var post []lcactor.Actor
	threadID := cfg.Threads + 1
	for i := 0; i < cfg.ActorsAfter; i++ {
		g := pool[rng.IntN(len(pool))]
		post = append(post, g.draw(threadID))
	}
	return post
}

func eligiblePool(cfg Config, keep func(ActorGenerator) bool) []ActorGenerator {
	var out []ActorGenerator
	for _, g := range cfg.Groups {
		for _, gen := range g.Generators {
			if keep(gen) {
				out = append(out, gen)
			}
		}
	}
	for _, gen := range cfg.SharedPool {
		if keep(gen) {
			out = append(out, gen)
		}
	}
	return out
}

type candidate struct {
	gen       ActorGenerator
	fromGroup bool
	index     int
}

func candidates(group, shared []ActorGenerator) []candidate {
	out := make([]candidate, 0, len(group)+len(shared))
	for i, g := range group {
		out = append(out, candidate{gen: g, fromGroup: true, index: i})
	}
	for i, g := range shared {
		out = append(out, candidate{gen: g, fromGroup: false, index: i})
	}
	return out
}

func removeAt(gens []ActorGenerator, index int) []ActorGenerator {
	out := make([]ActorGenerator, 0, len(gens)-1)
	out = append(out, gens[:index]...)
	out = append(out, gens[index+1:]...)
	return out
}
