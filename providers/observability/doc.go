// Package observability defines the tracing and structured-event surface the
// transport layer emits into.
//
// The transport never requires an observability backend: every emit site
// first checks for a [Span] or [Observer] in the request context and does
// nothing when none is present. Applications opt in by attaching their own
// implementations via [ContextWithSpan] and [ContextWithObserver]; the
// slogobs subpackage provides an Observer backed by log/slog for setups that
// do not run a dedicated tracing stack.
package observability
