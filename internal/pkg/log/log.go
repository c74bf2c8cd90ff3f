package log

import (
	"context"
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Logger is the logging interface handed to usecases and repositories.
// Handlers keep the underlying *otelzap.Logger so they can attach the fiber
// request context directly.
type Logger interface {
	Info(ctx context.Context, message string, args ...interface{})
	Warn(ctx context.Context, message string, args ...interface{})
	Error(ctx context.Context, message string, args ...interface{})
}

var logger Logger

// SetupLogger builds the otelzap logger used across the service.
func SetupLogger() *otelzap.Logger {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return otelzap.New(zapLogger, otelzap.WithMinLevel(zap.InfoLevel))
}

func Init(l *otelzap.Logger) {
	logger = &zapLogger{l: l}
}

func GetLogger() Logger {
	return logger
}

type zapLogger struct {
	l *otelzap.Logger
}

func format(message string, args ...interface{}) string {
	if len(args) == 0 {
		return message
	}
	return fmt.Sprintf("%s: %v", message, args)
}

func (z *zapLogger) Info(ctx context.Context, message string, args ...interface{}) {
	z.l.Ctx(ctx).Info(format(message, args...))
}

func (z *zapLogger) Warn(ctx context.Context, message string, args ...interface{}) {
	z.l.Ctx(ctx).Warn(format(message, args...))
}

func (z *zapLogger) Error(ctx context.Context, message string, args ...interface{}) {
	z.l.Ctx(ctx).Error(format(message, args...))
}
