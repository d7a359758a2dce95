// Package lclog is the engine's shared structured-logging facade: every
// other component logs through a *Logger obtained here instead of calling
// fmt.Printf/log.Printf directly, the same centralize-behind-one-interface
// idea the teacher applies package-wide, generalized to the third-party
// logiface abstraction (already in the dependency set, with swappable
// backends) instead of a bespoke Logger type.
package lclog

import (
	"io"
	"os"

	"github.com/joeycumines/izerolog"
	"github.com/joeycumines/logiface"
	"github.com/rs/zerolog"
)

// Logger is the type every component accepts and logs through: the
// generic, any-Event logiface logger, narrowed via (*logiface.Logger[E]).Logger().
type Logger = logiface.Logger[logiface.Event]

// Level re-exports logiface's level type so callers configuring lclog never
// need to import logiface directly.
type Level = logiface.Level

const (
	LevelDisabled = logiface.LevelDisabled
	LevelError    = logiface.LevelError
	LevelWarning  = logiface.LevelWarning
	LevelInfo     = logiface.LevelInformational
	LevelDebug    = logiface.LevelDebug
	LevelTrace    = logiface.LevelTrace
)

// Config selects and configures the logging backend (spec §6 `logger`
// option). The zero value is a working, fully-disabled no-op logger.
type Config struct {
	// Level is the minimum level that reaches the backend. LevelDisabled
	// (the zero value) silences everything, matching the zero-overhead
	// default a library embedding this engine expects.
	Level Level
	// Writer is where the zerolog backend writes; defaults to os.Stderr.
	Writer io.Writer
}

// New builds a Logger from cfg. With Level left at LevelDisabled, every
// call site below short-circuits via logiface's own IsEnabled check before
// formatting anything, so a disabled logger costs nothing beyond the
// initial construction.
func New(cfg Config) *Logger {
	if cfg.Level == LevelDisabled {
		return izerolog.L.New().Logger()
	}
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	zl := zerolog.New(w).With().Timestamp().Logger()
	return izerolog.L.New(
		izerolog.L.WithZerolog(zl),
		izerolog.L.WithLevel(cfg.Level),
	).Logger()
}

// Discard is a ready-made no-op Logger, for components that default to
// "no logger configured" without constructing one themselves each time.
var Discard = izerolog.L.New().Logger()
