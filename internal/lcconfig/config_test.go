package lcconfig_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/joeycumines/go-lincheck/internal/lcconfig"
	"github.com/joeycumines/go-lincheck/internal/lcfixtures"
	"github.com/joeycumines/go-lincheck/internal/lclog"
	"github.com/joeycumines/go-lincheck/internal/lcverify"
)

func TestResolve_Defaults(t *testing.T) {
	cfg := lcconfig.Resolve(nil)

	assert.Equal(t, 100, cfg.Iterations)
	assert.Equal(t, 2, cfg.Threads)
	assert.Equal(t, 3, cfg.ActorsPerThread)
	assert.Equal(t, 100, cfg.InvocationsPerIteration)
	assert.True(t, cfg.MinimizeFailedScenario)
	assert.Equal(t, 1000, cfg.HangingDetectionThreshold)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 1, cfg.BatchConcurrency)
	assert.Same(t, lclog.Discard, cfg.Logger)
}

func TestResolve_AppliesOptionsOverDefaults(t *testing.T) {
	logger := lclog.New(lclog.Config{Level: lclog.LevelDebug})

	cfg := lcconfig.Resolve([]lcconfig.Option{
		nil, // Resolve must tolerate a nil Option, same as resolveLoopOptions
		lcconfig.WithIterations(10),
		lcconfig.WithThreads(4),
		lcconfig.WithStrategy(lcconfig.StrategyModelChecking),
		lcconfig.WithVerifier(lcconfig.VerifierEpsilon),
		lcconfig.WithMinimizeFailedScenario(false),
		lcconfig.WithCheckObstructionFreedom(true),
		lcconfig.WithRNGSeed(42),
		lcconfig.WithLogger(logger),
	})

	assert.Equal(t, 10, cfg.Iterations)
	assert.Equal(t, 4, cfg.Threads)
	assert.Equal(t, lcconfig.StrategyModelChecking, cfg.Strategy)
	assert.Equal(t, lcconfig.VerifierEpsilon, cfg.Verifier)
	assert.False(t, cfg.MinimizeFailedScenario)
	assert.True(t, cfg.CheckObstructionFreedom)
	assert.EqualValues(t, 42, cfg.RNGSeed)
	assert.Same(t, logger, cfg.Logger)
}

func TestResolve_NilLoggerOptionFallsBackToDiscard(t *testing.T) {
	cfg := lcconfig.Resolve([]lcconfig.Option{lcconfig.WithLogger(nil)})
	assert.Same(t, lclog.Discard, cfg.Logger)
}

func TestBuildVerifier_SelectsEveryKind(t *testing.T) {
	factory := lcfixtures.NewCounterFactory()

	cases := map[lcconfig.VerifierKind]any{
		lcconfig.VerifierLinearizability:      &lcverify.LinearizabilityVerifier{},
		lcconfig.VerifierQuiescentConsistency: &lcverify.QuiescentConsistencyVerifier{},
		lcconfig.VerifierSerializability:      &lcverify.SerializabilityVerifier{},
		lcconfig.VerifierEpsilon:              lcverify.EpsilonVerifier{},
	}
	for kind, want := range cases {
		v := lcconfig.BuildVerifier(kind, factory)
		assert.IsType(t, want, v)
	}
}
