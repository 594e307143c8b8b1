package log

import (
	"context"
	"log/slog"
)

// SlogLogger adapts a *slog.Logger to the Logger interface.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps the given handler.
func NewSlogLogger(h slog.Handler) *SlogLogger {
	return &SlogLogger{l: slog.New(h)}
}

func (s *SlogLogger) Debug(msg string, fields ...any) { s.l.Debug(msg, slogArgs(fields)...) }
func (s *SlogLogger) Info(msg string, fields ...any)  { s.l.Info(msg, slogArgs(fields)...) }
func (s *SlogLogger) Warn(msg string, fields ...any)  { s.l.Warn(msg, slogArgs(fields)...) }
func (s *SlogLogger) Error(msg string, fields ...any) { s.l.Error(msg, slogArgs(fields)...) }

// With implements Logger.With.
func (s *SlogLogger) With(fields ...any) Logger {
	return &SlogLogger{l: s.l.With(slogArgs(fields)...)}
}

// Enabled implements Logger.Enabled.
func (s *SlogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.l.Enabled(ctx, slog.Level(level))
}

// slogArgs turns a leading error into the ErrAttr understood by ErrFmtHandler.
func slogArgs(fields []any) []any {
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok && len(fields)%2 == 1 {
			return append([]any{ErrAttr(err)}, fields[1:]...)
		}
	}
	return fields
}
