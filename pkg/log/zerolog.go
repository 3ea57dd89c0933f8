package log

import (
	"context"
	"fmt"
	"io"

	"github.com/YuminosukeSato/glucorisk/pkg/errors"
	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger on top of zerolog.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger creates a JSON logger writing to w at the given minimum level.
// Wrap w in zerolog.ConsoleWriter for human readable output.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl}
}

// FromZerolog adapts an already configured zerolog.Logger.
func FromZerolog(zl zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{zl: zl}
}

// Debug implements Logger.Debug.
func (l *ZerologLogger) Debug(msg string, fields ...any) {
	write(l.zl.Debug(), msg, fields)
}

// Info implements Logger.Info.
func (l *ZerologLogger) Info(msg string, fields ...any) {
	write(l.zl.Info(), msg, fields)
}

// Warn implements Logger.Warn.
func (l *ZerologLogger) Warn(msg string, fields ...any) {
	write(l.zl.Warn(), msg, fields)
}

// Error implements Logger.Error.
func (l *ZerologLogger) Error(msg string, fields ...any) {
	write(l.zl.Error(), msg, fields)
}

// With implements Logger.With.
func (l *ZerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i < len(fields); {
		if err, ok := fields[i].(error); ok {
			ctx = ctx.AnErr(zerolog.ErrorFieldName, err)
			i++
			continue
		}
		if i+1 >= len(fields) {
			ctx = ctx.Str("!BADKEY", fmt.Sprint(fields[i]))
			break
		}
		ctx = ctx.Interface(fmt.Sprint(fields[i]), fields[i+1])
		i += 2
	}
	return &ZerologLogger{zl: ctx.Logger()}
}

// Enabled implements Logger.Enabled.
func (l *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	zlevel := toZerologLevel(level)
	return zlevel >= l.zl.GetLevel() && zlevel >= zerolog.GlobalLevel()
}

// write appends key/value pairs to a zerolog event. A nil event means the level is disabled.
func write(e *zerolog.Event, msg string, fields []any) {
	if e == nil {
		return
	}
	for i := 0; i < len(fields); {
		if err, ok := fields[i].(error); ok {
			appendValue(e, zerolog.ErrorFieldName, err)
			i++
			continue
		}
		if i+1 >= len(fields) {
			e.Str("!BADKEY", fmt.Sprint(fields[i]))
			break
		}
		appendValue(e, fmt.Sprint(fields[i]), fields[i+1])
		i += 2
	}
	e.Msg(msg)
}

func appendValue(e *zerolog.Event, key string, value any) {
	if err, ok := value.(error); ok {
		var m zerolog.LogObjectMarshaler
		if errors.As(err, &m) {
			e.Object(key, m)
		} else {
			e.AnErr(key, err)
		}
		appendStack(e, err)
		return
	}
	if m, ok := value.(zerolog.LogObjectMarshaler); ok {
		e.Object(key, m)
		return
	}
	e.Interface(key, value)
}

func appendStack(e *zerolog.Event, err error) {
	if stack := errors.StackTrace(err); stack != "" {
		e.Str(StacktraceKey, stack)
	}
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
