package observability

import (
	"context"
	"fmt"
	"strings"

	"github.com/upb/shotlocker/internal/shared"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap logger. format is "json" (production encoder) or
// "text" (development console encoder).
func NewLogger(level, format string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch strings.ToLower(format) {
	case "", "json":
		cfg = zap.NewProductionConfig()
	case "text", "console":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q: must be json or text", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}

// WithRequest returns logger annotated with the request ID carried by ctx, if any.
func WithRequest(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if id := shared.RequestID(ctx); id != "" {
		return logger.With(zap.String("request_id", id))
	}
	return logger
}
