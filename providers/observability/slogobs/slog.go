// Package slogobs provides an [observability.Observer] backed by log/slog,
// for applications that want transport trace events in their structured logs
// without running a dedicated tracing stack.
package slogobs

import (
	"context"
	"log/slog"

	"github.com/helicon-ai/relay/providers/observability"
)

// LevelTrace sits below slog.LevelDebug; trace events are suppressed by
// default slog configurations.
const LevelTrace = slog.LevelDebug - 4

// Observer routes observability events to a slog.Logger.
type Observer struct {
	logger *slog.Logger
}

// New creates an Observer writing to logger. A nil logger falls back to
// slog.Default().
func New(logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer{logger: logger}
}

func (o *Observer) log(ctx context.Context, level slog.Level, msg string, attrs []observability.Attribute) {
	if !o.logger.Enabled(ctx, level) {
		return
	}

	args := make([]any, 0, len(attrs)*2)
	for _, attr := range attrs {
		args = append(args, attr.Key, attr.Value)
	}
	o.logger.Log(ctx, level, msg, args...)
}

func (o *Observer) Trace(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, LevelTrace, msg, attrs)
}

func (o *Observer) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelDebug, msg, attrs)
}

func (o *Observer) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelInfo, msg, attrs)
}

func (o *Observer) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelWarn, msg, attrs)
}

func (o *Observer) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelError, msg, attrs)
}
