package middleware

import (
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dtroode/contacts-server/internal/logger"
)

// Logging is a huma middleware that logs HTTP requests and results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs operation, status and duration once the request completes.
func (l *Logging) Handle(ctx huma.Context, next func(huma.Context)) {
	start := time.Now()
	op := ctx.Operation()

	next(ctx)

	status := ctx.Status()
	args := []any{
		"method", op.Method,
		"path", op.Path,
		"operation", op.OperationID,
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
		"remote_addr", ctx.RemoteAddr(),
	}
	if id := ctx.Header("X-Request-Id"); id != "" {
		args = append(args, "request_id", id)
	}

	switch {
	case status >= 500:
		l.logger.Error("HTTP request failed", args...)
	case status >= 400:
		l.logger.Warn("HTTP request rejected", args...)
	default:
		l.logger.Info("HTTP request completed", args...)
	}
}
