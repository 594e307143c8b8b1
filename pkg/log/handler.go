package log

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrFmtHandler is a slog handler that adds a stacktrace attribute for
// records carrying a cockroachdb/errors value under ErrAttrKey.
type ErrFmtHandler struct {
	handler slog.Handler
}

// WrapByErrFmtHandler wraps handler with stack trace extraction.
func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{
		handler: handler,
	}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var (
		stacktrace string
		errType    string
	)
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		if err, ok := attr.Value.Any().(error); ok {
			stacktrace = extractStacktrace(err)
			errType = fmt.Sprintf("%T", errors.UnwrapAll(err))
		}
		return false
	})
	if stacktrace != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, stacktrace))
	}
	if errType != "" {
		r.AddAttrs(slog.String(ErrorTypeKey, errType))
	}
	return eh.handler.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

// extractStacktrace prefers the safe details recorded by WithStack and falls
// back to the verbose formatting of the error chain.
func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	verbose := fmt.Sprintf("%+v", err)
	if strings.Contains(verbose, "\n") {
		return verbose
	}
	return ""
}
