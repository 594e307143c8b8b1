package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/synthgen/pkg/errors"
)

// Output formats accepted by SetupLogger.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatSlog    = "slog"
)

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = NewNopLogger()
)

// GetLogger returns the process default logger. Components fall back to it
// when no logger is injected through their options.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// GetLoggerWithName returns the default logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With(ComponentKey, name)
}

// SetLogger replaces the process default logger.
func SetLogger(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// SetupLogger builds a logger for the given level and format, installs it as
// the default and routes library warnings through it.
//
// Formats:
//   - console: zerolog human readable output
//   - json: zerolog JSON lines
//   - slog: log/slog JSON handler in Cloud Logging layout, with stack traces
//     extracted from cockroachdb/errors values
func SetupLogger(w io.Writer, loglevel, format string) (Logger, error) {
	level, err := ParseLevel(loglevel)
	if err != nil {
		return nil, err
	}

	var logger Logger
	switch strings.ToLower(format) {
	case "", FormatConsole:
		zl := NewZerologLogger(zerolog.ConsoleWriter{Out: w, NoColor: true}, level)
		errors.SetZerologWarnFunc(zl.warn)
		logger = zl
	case FormatJSON:
		zl := NewZerologLogger(w, level)
		errors.SetZerologWarnFunc(zl.warn)
		logger = zl
	case FormatSlog:
		sl := NewSlogLogger(newCloudLoggingHandler(w, level))
		errors.SetZerologWarnFunc(func(warning error) {
			sl.Warn(warning.Error(), ErrorTypeKey, fmt.Sprintf("%T", warning))
		})
		logger = sl
	default:
		return nil, errors.NewConfigurationError("log.SetupLogger", "log_format", "must be one of console, json, slog", format)
	}

	SetLogger(logger)
	return logger, nil
}

// ParseLevel converts a textual level into a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, errors.NewConfigurationError("log.ParseLevel", "log_level", "must be one of debug, info, warn, error", level)
	}
}

func newCloudLoggingHandler(w io.Writer, level Level) slog.Handler {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     slog.Level(level),
		// Replace attributes to convert to CloudLogging format.
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{
					Key:   "severity",
					Value: attr.Value,
				}
			case slog.MessageKey:
				attr = slog.Attr{
					Key:   "message",
					Value: attr.Value,
				}
			case slog.SourceKey:
				attr = slog.Attr{
					Key:   "logging.googleapis.com/sourceLocation",
					Value: attr.Value,
				}
			}
			return attr
		},
	}
	return WrapByErrFmtHandler(slog.NewJSONHandler(w, &ops))
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
