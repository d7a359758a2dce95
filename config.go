package lincheck

import (
	"github.com/joeycumines/go-lincheck/internal/lcconfig"
	"github.com/joeycumines/go-lincheck/internal/lclog"
)

// Option configures Check (spec §6's configuration surface). Build one with
// the With* constructors below; options not supplied keep the documented
// defaults, while a value passed to a With* constructor is used as given
// (only a nil logger falls back to the default).
type Option = lcconfig.Option

// VerifierKind selects the correctness criterion (spec §6 `verifier`).
type VerifierKind = lcconfig.VerifierKind

const (
	VerifierLinearizability      = lcconfig.VerifierLinearizability
	VerifierQuiescentConsistency = lcconfig.VerifierQuiescentConsistency
	VerifierSerializability      = lcconfig.VerifierSerializability
	VerifierEpsilon              = lcconfig.VerifierEpsilon
)

// StrategyKind selects which execution strategy drives each iteration
// (spec §6 `strategy`).
type StrategyKind = lcconfig.StrategyKind

const (
	StrategyStress        = lcconfig.StrategyStress
	StrategyModelChecking = lcconfig.StrategyModelChecking
)

// Logger is the structured-logging handle accepted by WithLogger (SPEC_FULL
// `logger` addition).
type Logger = lclog.Logger

// NewLogger builds a Logger from a lclog.Config (SPEC_FULL `logger`
// addition); see lclog.Config's fields for backend/level selection.
func NewLogger(cfg lclog.Config) *Logger { return lclog.New(cfg) }

var (
	WithIterations                = lcconfig.WithIterations
	WithThreads                   = lcconfig.WithThreads
	WithActorsPerThread           = lcconfig.WithActorsPerThread
	WithActorsBefore              = lcconfig.WithActorsBefore
	WithActorsAfter               = lcconfig.WithActorsAfter
	WithInvocationsPerIteration   = lcconfig.WithInvocationsPerIteration
	WithMinimizeFailedScenario    = lcconfig.WithMinimizeFailedScenario
	WithVerifier                  = lcconfig.WithVerifier
	WithStrategy                  = lcconfig.WithStrategy
	WithCheckObstructionFreedom   = lcconfig.WithCheckObstructionFreedom
	WithHangingDetectionThreshold = lcconfig.WithHangingDetectionThreshold
	WithTimeout                   = lcconfig.WithTimeout
	WithLogger                    = lcconfig.WithLogger
	WithBatchConcurrency          = lcconfig.WithBatchConcurrency
	WithRNGSeed                   = lcconfig.WithRNGSeed
)
