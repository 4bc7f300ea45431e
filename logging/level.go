package logging

import (
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

// Level is a logging severity level, ordered least to most severe.
type Level int32

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "Debug"
	case INFO:
		return "Info"
	case WARN:
		return "Warn"
	case ERROR:
		return "Error"
	default:
		return "Unknown"
	}
}

// AsZap converts l to the equivalent zapcore level.
func (l Level) AsZap() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// LevelFromString parses a case-insensitive level name.
func LevelFromString(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	default:
		return 0, errors.Errorf("unknown log level %q", s)
	}
}

// AtomicLevel is a level that can be read and swapped concurrently. It
// wraps a pointer to the underlying atomic word, the same way zap's own
// AtomicLevel wraps a pointer to an atomic.Value, so that an AtomicLevel
// itself stays safe to copy by value (every copy shares the same word)
// instead of embedding sync/atomic.Int32 directly, which carries a noCopy
// guard and would fail go vet's copylocks check the moment it is assigned
// into a struct field by value.
type AtomicLevel struct {
	v *atomic.Int32
}

// NewAtomicLevelAt returns an AtomicLevel initialized to level.
func NewAtomicLevelAt(level Level) AtomicLevel {
	a := AtomicLevel{v: new(atomic.Int32)}
	a.Set(level)
	return a
}

// Get returns the current level.
func (a AtomicLevel) Get() Level {
	return Level(a.v.Load())
}

// Set updates the current level.
func (a AtomicLevel) Set(level Level) {
	a.v.Store(int32(level))
}
