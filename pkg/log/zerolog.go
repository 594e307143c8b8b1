package log

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger on top of rs/zerolog.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger creates a logger writing to w at the given minimum level.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *ZerologLogger {
	return &ZerologLogger{zl: zerolog.Nop()}
}

// Debug implements Logger.Debug.
func (z *ZerologLogger) Debug(msg string, fields ...any) {
	emit(z.zl.Debug(), msg, fields)
}

// Info implements Logger.Info.
func (z *ZerologLogger) Info(msg string, fields ...any) {
	emit(z.zl.Info(), msg, fields)
}

// Warn implements Logger.Warn.
func (z *ZerologLogger) Warn(msg string, fields ...any) {
	emit(z.zl.Warn(), msg, fields)
}

// Error implements Logger.Error. A leading error value is attached with
// zerolog's Err so that it lands under the "error" key.
func (z *ZerologLogger) Error(msg string, fields ...any) {
	emit(z.zl.Error(), msg, fields)
}

// With implements Logger.With.
func (z *ZerologLogger) With(fields ...any) Logger {
	ctx := z.zl.With()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok && len(fields)%2 == 1 {
			ctx = ctx.Err(err)
			fields = fields[1:]
		}
	}
	ctx = ctx.Fields(toFieldMap(fields))
	return &ZerologLogger{zl: ctx.Logger()}
}

// Enabled implements Logger.Enabled.
func (z *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	zlLevel := z.zl.GetLevel()
	if zlLevel == zerolog.Disabled {
		return false
	}
	return toZerologLevel(level) >= zlLevel
}

// warn forwards library warnings, embedding structured fields when the
// warning knows how to marshal itself.
func (z *ZerologLogger) warn(w error) {
	event := z.zl.Warn()
	if obj, ok := w.(zerolog.LogObjectMarshaler); ok {
		event = event.EmbedObject(obj)
	}
	event.Msg(w.Error())
}

func emit(event *zerolog.Event, msg string, fields []any) {
	if event == nil {
		return
	}
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok && len(fields)%2 == 1 {
			event = event.Err(err)
			fields = fields[1:]
		}
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		switch v := fields[i+1].(type) {
		case error:
			event = event.AnErr(key, v)
		case zerolog.LogObjectMarshaler:
			event = event.Object(key, v)
		default:
			event = event.Interface(key, v)
		}
	}
	event.Msg(msg)
}

func toFieldMap(fields []any) map[string]interface{} {
	m := make(map[string]interface{}, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		if err, ok := fields[i+1].(error); ok {
			m[key] = err.Error()
			continue
		}
		m[key] = fields[i+1]
	}
	return m
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
