// Package lcconfig implements the §6 configuration surface as a
// functional-option set, grounded on the teacher's LoopOption pattern
// (options.go's loopOptionImpl/resolveLoopOptions): a sealed Option
// interface, small constructor functions returning it, and one resolver
// that applies them over seeded defaults.
package lcconfig

import (
	"time"

	"github.com/joeycumines/go-lincheck/internal/lclog"
	"github.com/joeycumines/go-lincheck/internal/lclts"
	"github.com/joeycumines/go-lincheck/internal/lcverify"
)

// StrategyKind selects which strategy (internal/lcstress or internal/lcmc)
// drives each iteration (spec §6 `strategy`).
type StrategyKind int

const (
	StrategyStress StrategyKind = iota
	StrategyModelChecking
)

// VerifierKind selects the correctness criterion (spec §6 `verifier`).
type VerifierKind int

const (
	VerifierLinearizability VerifierKind = iota
	VerifierQuiescentConsistency
	VerifierSerializability
	VerifierEpsilon
)

// Config holds every resolved option (spec §6, plus the SPEC_FULL.md
// additions logger/batch_concurrency/rng_seed).
type Config struct {
	Iterations                int
	Threads                   int
	ActorsPerThread           int
	ActorsBefore              int
	ActorsAfter               int
	InvocationsPerIteration   int
	MinimizeFailedScenario    bool
	Verifier                  VerifierKind
	Strategy                  StrategyKind
	CheckObstructionFreedom   bool
	HangingDetectionThreshold int
	Timeout                   time.Duration
	Logger                    *lclog.Logger
	BatchConcurrency          int
	RNGSeed                   uint64
}

// Option configures a Config (spec §6). The sealed-interface-over-a-
// constructor-function shape mirrors eventloop's LoopOption/loopOptionImpl.
type Option interface {
	apply(*Config)
}

type optionFunc func(*Config)

func (f optionFunc) apply(c *Config) { f(c) }

// WithIterations sets how many distinct scenarios are generated and
// checked (spec §6 `iterations`).
func WithIterations(n int) Option {
	return optionFunc(func(c *Config) { c.Iterations = n })
}

// WithThreads sets the parallel thread count the execution generator
// draws actors for (spec §6 `threads`).
func WithThreads(n int) Option {
	return optionFunc(func(c *Config) { c.Threads = n })
}

// WithActorsPerThread sets how many actors the generator draws per
// parallel thread (spec §6 `actors_per_thread`).
func WithActorsPerThread(n int) Option {
	return optionFunc(func(c *Config) { c.ActorsPerThread = n })
}

// WithActorsBefore sets the init-phase actor budget (spec §6
// `actors_before`).
func WithActorsBefore(n int) Option {
	return optionFunc(func(c *Config) { c.ActorsBefore = n })
}

// WithActorsAfter sets the post-phase actor budget (spec §6
// `actors_after`).
func WithActorsAfter(n int) Option {
	return optionFunc(func(c *Config) { c.ActorsAfter = n })
}

// WithInvocationsPerIteration bounds replays per generated scenario (spec
// §6 `invocations_per_iteration`).
func WithInvocationsPerIteration(n int) Option {
	return optionFunc(func(c *Config) { c.InvocationsPerIteration = n })
}

// WithMinimizeFailedScenario enables the greedy minimizer on a failing
// scenario (spec §6 `minimize_failed_scenario`).
func WithMinimizeFailedScenario(enabled bool) Option {
	return optionFunc(func(c *Config) { c.MinimizeFailedScenario = enabled })
}

// WithVerifier selects the correctness criterion (spec §6 `verifier`).
func WithVerifier(kind VerifierKind) Option {
	return optionFunc(func(c *Config) { c.Verifier = kind })
}

// WithStrategy selects the execution strategy (spec §6 `strategy`).
func WithStrategy(kind StrategyKind) Option {
	return optionFunc(func(c *Config) { c.Strategy = kind })
}

// WithCheckObstructionFreedom enables the coarse obstruction-freedom check
// (spec §6 `check_obstruction_freedom`); only consulted by the
// model-checking strategy.
func WithCheckObstructionFreedom(enabled bool) Option {
	return optionFunc(func(c *Config) { c.CheckObstructionFreedom = enabled })
}

// WithHangingDetectionThreshold bounds consecutive solo dispatches before
// an obstruction-freedom violation is reported (spec §6
// `hanging_detection_threshold`).
func WithHangingDetectionThreshold(n int) Option {
	return optionFunc(func(c *Config) { c.HangingDetectionThreshold = n })
}

// WithTimeout sets the per-invocation wall-clock budget (spec §6
// `timeout_ms`).
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *Config) { c.Timeout = d })
}

// WithLogger selects the structured-logging backend (SPEC_FULL.md `logger`
// addition).
func WithLogger(logger *lclog.Logger) Option {
	return optionFunc(func(c *Config) { c.Logger = logger })
}

// WithBatchConcurrency bounds concurrent invocation replays within one
// iteration (SPEC_FULL.md `batch_concurrency` addition, stress strategy
// only).
func WithBatchConcurrency(n int) Option {
	return optionFunc(func(c *Config) { c.BatchConcurrency = n })
}

// WithRNGSeed sets the seed for the execution generator's draws and for
// the chosen strategy (SPEC_FULL.md `rng_seed` addition). Parameter
// generators keep the seeds they were constructed with.
func WithRNGSeed(seed uint64) Option {
	return optionFunc(func(c *Config) { c.RNGSeed = seed })
}

// Resolve applies opts over the documented defaults, the same
// resolveLoopOptions shape the teacher uses.
func Resolve(opts []Option) Config {
	cfg := Config{
		Iterations:                100,
		Threads:                   2,
		ActorsPerThread:           3,
		InvocationsPerIteration:   100,
		MinimizeFailedScenario:    true,
		HangingDetectionThreshold: 1000,
		Timeout:                   5 * time.Second,
		Logger:                    lclog.Discard,
		BatchConcurrency:          1,
	}
	for _, o := range opts {
		if o != nil {
			o.apply(&cfg)
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = lclog.Discard
	}
	return cfg
}

// BuildVerifier constructs the lcverify.Verifier kind selects, rooted at
// factory's initial state.
func BuildVerifier(kind VerifierKind, factory lclts.Factory) lcverify.Verifier {
	switch kind {
	case VerifierQuiescentConsistency:
		return lcverify.NewQuiescentConsistency(factory)
	case VerifierSerializability:
		return lcverify.NewSerializability(factory)
	case VerifierEpsilon:
		return lcverify.EpsilonVerifier{}
	default:
		return lcverify.NewLinearizability(factory)
	}
}
