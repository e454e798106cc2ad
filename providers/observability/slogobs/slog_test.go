package slogobs

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/helicon-ai/relay/providers/observability"
)

// TestObserver_Trace_EmitsBelowDebug verifies trace events reach the logger
// when the handler level admits them, with attributes flattened into args.
func TestObserver_Trace_EmitsBelowDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: LevelTrace}))

	observer := New(logger)
	observer.Trace(context.Background(), "rate limit gate passed",
		observability.String("ratelimit.key", "openai"),
	)

	out := buf.String()
	if !strings.Contains(out, "rate limit gate passed") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "ratelimit.key=openai") {
		t.Errorf("expected attribute in output, got %q", out)
	}
}

// TestObserver_Trace_SuppressedAtDefaultLevel verifies trace events are
// dropped by a handler configured at the slog default level.
func TestObserver_Trace_SuppressedAtDefaultLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	observer := New(logger)
	observer.Trace(context.Background(), "invisible")

	if buf.Len() != 0 {
		t.Errorf("expected no output at default level, got %q", buf.String())
	}
}

// TestNew_NilLoggerFallsBack verifies a nil logger does not panic on use.
func TestNew_NilLoggerFallsBack(t *testing.T) {
	observer := New(nil)
	observer.Info(context.Background(), "fallback logger in use")
}
