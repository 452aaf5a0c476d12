// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the per-request logger injected by the request-logging
// middleware, so every line from a handler carries the request ID:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("product created", "product_id", id)
//	// → time=... level=INFO msg="product created" request_id=a1b2c3d4 product_id=...
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/productapi/config"
)

var L *slog.Logger

func init() {
	Setup(config.IsProduction())
}

// Setup rebuilds the base logger. Production uses JSON on stdout, anything
// else human-readable text. Extra handlers (e.g. a MongoHandler) receive
// every record as well.
func Setup(production bool, extra ...slog.Handler) {
	L = slog.New(newHandler(os.Stdout, production, extra...))
	slog.SetDefault(L)
}

func newHandler(w io.Writer, production bool, extra ...slog.Handler) slog.Handler {
	var handler slog.Handler
	if production {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	if len(extra) == 0 {
		return handler
	}
	return NewMultiHandler(append([]slog.Handler{handler}, extra...)...)
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the logger stored in ctx, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx. Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
