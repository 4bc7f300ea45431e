package logging

import (
	"os"

	"go.uber.org/zap/zapcore"
)

// Appender receives log entries from every Logger it is attached to. It
// mirrors zapcore.Core's write surface so zap cores (e.g. an observer used
// by tests) can be used as Appenders directly.
type Appender interface {
	Write(entry zapcore.Entry, fields []zapcore.Field) error
	Sync() error
}

type consoleAppender struct {
	encoder zapcore.Encoder
	ws      zapcore.WriteSyncer
}

// NewStdoutAppender returns an Appender that writes colorized console lines
// to stdout.
func NewStdoutAppender() Appender {
	return &consoleAppender{
		encoder: zapcore.NewConsoleEncoder(consoleEncoderConfig(true)),
		ws:      zapcore.AddSync(os.Stdout),
	}
}

// NewStdoutTestAppender is like NewStdoutAppender but without ANSI color
// codes, which confuse test runners that capture output.
func NewStdoutTestAppender() Appender {
	return &consoleAppender{
		encoder: zapcore.NewConsoleEncoder(consoleEncoderConfig(false)),
		ws:      zapcore.AddSync(os.Stdout),
	}
}

func consoleEncoderConfig(color bool) zapcore.EncoderConfig {
	levelEncoder := zapcore.CapitalLevelEncoder
	if color {
		levelEncoder = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  zapcore.OmitKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    levelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func (c *consoleAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.encoder.EncodeEntry(entry, fields)
	if err != nil {
		return err
	}
	defer buf.Free()
	_, err = c.ws.Write(buf.Bytes())
	return err
}

func (c *consoleAppender) Sync() error {
	return c.ws.Sync()
}

// observerAppender adapts a zapcore.Core (e.g. zap's test observer) to the
// Appender interface.
type observerAppender struct {
	core zapcore.Core
}

func newObserverAppender(core zapcore.Core) Appender {
	return &observerAppender{core: core}
}

func (o *observerAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return o.core.Write(entry, fields)
}

func (o *observerAppender) Sync() error {
	return o.core.Sync()
}
