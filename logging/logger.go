// Package logging provides the structured logger used across the
// calibration pipeline: named, sublogger-capable, level-filtered, backed by
// zap, with pluggable Appenders so tests can capture output without
// touching stdout.
package logging

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger interface used throughout this module.
type Logger interface {
	Sublogger(subname string) Logger
	SetLevel(level Level)
	GetLevel() Level

	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})

	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})

	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})

	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, err error, keysAndValues ...interface{})

	AsZap() *zap.SugaredLogger
	Sync() error
}

type impl struct {
	name  string
	level AtomicLevel

	mu        sync.Mutex
	appenders []Appender
}

// NewLogger returns a logger named name that logs Info and above to stdout.
func NewLogger(name string) Logger {
	return &impl{name: name, level: NewAtomicLevelAt(INFO), appenders: []Appender{NewStdoutAppender()}}
}

// NewDebugLogger returns a logger named name that logs Debug and above to
// stdout.
func NewDebugLogger(name string) Logger {
	return &impl{name: name, level: NewAtomicLevelAt(DEBUG), appenders: []Appender{NewStdoutAppender()}}
}

// NewTestLogger returns a logger suitable for use inside tb: it writes
// uncolored Debug+ lines to stdout, which `go test` captures and associates
// with the running test.
func NewTestLogger(tb testing.TB) Logger {
	tb.Helper()
	return &impl{level: NewAtomicLevelAt(DEBUG), appenders: []Appender{NewStdoutTestAppender()}}
}

// NewObservedTestLogger is like NewTestLogger but also records every entry
// in memory, for assertions against emitted log lines.
func NewObservedTestLogger(tb testing.TB) (Logger, *ObservedLogs) {
	tb.Helper()
	observed := &ObservedLogs{}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig(false)),
		zapcore.AddSync(observed),
		zap.NewAtomicLevelAt(zapcore.DebugLevel),
	)
	logger := &impl{
		level: NewAtomicLevelAt(DEBUG),
		appenders: []Appender{
			NewStdoutTestAppender(),
			newObserverAppender(core),
		},
	}
	return logger, observed
}

// ObservedLogs accumulates raw encoded log lines for test assertions.
type ObservedLogs struct {
	mu    sync.Mutex
	lines []string
}

func (o *ObservedLogs) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines = append(o.lines, string(p))
	return len(p), nil
}

func (o *ObservedLogs) Sync() error { return nil }

// Lines returns every encoded log line observed so far.
func (o *ObservedLogs) Lines() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.lines...)
}

func (imp *impl) Sublogger(subname string) Logger {
	name := subname
	if imp.name != "" {
		name = fmt.Sprintf("%s.%s", imp.name, subname)
	}
	imp.mu.Lock()
	defer imp.mu.Unlock()
	return &impl{
		name:      name,
		level:     NewAtomicLevelAt(imp.level.Get()),
		appenders: append([]Appender(nil), imp.appenders...),
	}
}

func (imp *impl) SetLevel(level Level) { imp.level.Set(level) }
func (imp *impl) GetLevel() Level      { return imp.level.Get() }

func (imp *impl) shouldLog(level Level) bool { return level >= imp.level.Get() }

func (imp *impl) log(level Level, fields []zapcore.Field, msg string) {
	if !imp.shouldLog(level) {
		return
	}
	entry := zapcore.Entry{
		Level:      level.AsZap(),
		Time:       time.Now(),
		LoggerName: imp.name,
		Message:    msg,
	}

	imp.mu.Lock()
	appenders := imp.appenders
	imp.mu.Unlock()

	for _, appender := range appenders {
		if err := appender.Write(entry, fields); err != nil {
			fmt.Println("logging: appender write failed:", err)
		}
	}
}

func (imp *impl) Debug(args ...interface{})  { imp.log(DEBUG, nil, fmt.Sprint(args...)) }
func (imp *impl) Info(args ...interface{})   { imp.log(INFO, nil, fmt.Sprint(args...)) }
func (imp *impl) Warn(args ...interface{})   { imp.log(WARN, nil, fmt.Sprint(args...)) }
func (imp *impl) Error(args ...interface{})  { imp.log(ERROR, nil, fmt.Sprint(args...)) }

func (imp *impl) Debugf(t string, args ...interface{}) { imp.log(DEBUG, nil, fmt.Sprintf(t, args...)) }
func (imp *impl) Infof(t string, args ...interface{})  { imp.log(INFO, nil, fmt.Sprintf(t, args...)) }
func (imp *impl) Warnf(t string, args ...interface{})  { imp.log(WARN, nil, fmt.Sprintf(t, args...)) }
func (imp *impl) Errorf(t string, args ...interface{}) { imp.log(ERROR, nil, fmt.Sprintf(t, args...)) }

func (imp *impl) Debugw(msg string, kv ...interface{}) { imp.log(DEBUG, keysAndValuesToFields(kv), msg) }
func (imp *impl) Infow(msg string, kv ...interface{})  { imp.log(INFO, keysAndValuesToFields(kv), msg) }
func (imp *impl) Warnw(msg string, kv ...interface{})  { imp.log(WARN, keysAndValuesToFields(kv), msg) }

func (imp *impl) Errorw(msg string, err error, kv ...interface{}) {
	fields := keysAndValuesToFields(kv)
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	imp.log(ERROR, fields, msg)
}

func keysAndValuesToFields(kv []interface{}) []zapcore.Field {
	fields := make([]zapcore.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields = append(fields, zap.Any(key, kv[i+1]))
	}
	return fields
}

func (imp *impl) AsZap() *zap.SugaredLogger {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(imp.level.Get().AsZap())
	logger := zap.Must(config.Build()).Sugar().Named(imp.name)

	imp.mu.Lock()
	defer imp.mu.Unlock()
	for _, appender := range imp.appenders {
		if core, ok := appender.(zapcore.Core); ok {
			logger = logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
				return zapcore.NewTee(c, core)
			}))
		}
	}
	return logger
}

func (imp *impl) Sync() error {
	imp.mu.Lock()
	defer imp.mu.Unlock()
	var errs []error
	for _, appender := range imp.appenders {
		if err := appender.Sync(); err != nil {
			errs = append(errs, err)
		}
	}
	return multierr.Combine(errs...)
}
