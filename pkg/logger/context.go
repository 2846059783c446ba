package logger

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// echoLoggerKey is the echo context key under which Middleware stores the
// request-scoped logger
const echoLoggerKey = "logger"

// contextKey keeps the plain-context variant collision-free
type contextKey int

const loggerKey contextKey = iota

// WithLogger returns a copy of ctx carrying the given logger, for code paths
// that only see a context.Context (workers, service internals)
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the request-scoped logger for a handler: the one bound
// by Middleware, then one carried on the request's context, then the global
// logger.
func FromContext(c echo.Context) *zap.Logger {
	if l, ok := c.Get(echoLoggerKey).(*zap.Logger); ok {
		return l
	}
	if l, ok := c.Request().Context().Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.L()
}
