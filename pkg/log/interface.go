// Package log is the logging layer of synthgen.
//
// Resamplers, the encoder and the Assembler take a Logger through their
// options and fall back to GetLogger. The CLI installs one at startup with
// SetupLogger, choosing among three backends:
//
//   - console and json: ZerologLogger, which attaches a leading error value
//     with its cockroachdb/errors stack
//   - slog: SlogLogger over a Cloud Logging JSON handler wrapped in
//     ErrFmtHandler, so wrapped errors keep their detail and stack trace
//
// TestLogger captures JSON lines in a buffer for assertions. Field names
// shared by every component (run id, operation, minority class, median_std,
// synthetic sample count) live in attributes.go.
//
//	logger := log.GetLoggerWithName("over_sampling").With(log.RunIDKey, runID)
//	logger.Info("resampled",
//		log.OperationKey, log.OperationFitResample,
//		log.SyntheticSamplesKey, 900,
//	)
package log

import (
	"context"
)

// Logger is the subset of *slog.Logger the synthesis pipeline logs through.
// Fields are alternating key/value pairs. Error treats a leading error value
// specially: the backends render its message, details and stack.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	// Warn is used for recoverable data issues such as fractional values
	// truncated into an int column.
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
	// With returns a logger that adds fields to every record, typically the
	// model name and run id of one synthesis run.
	With(fields ...any) Logger
	// Enabled reports whether a record at level would be emitted.
	Enabled(ctx context.Context, level Level) bool
}

// Level mirrors slog.Level values.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
