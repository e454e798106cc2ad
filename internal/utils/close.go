package utils

import (
	"io"
	"log/slog"
)

// CloseWithLog closes closer and logs a warning on failure. It is meant for
// defer sites where a close error must not override the function's primary
// error but should still not disappear silently, such as HTTP response
// bodies.
func CloseWithLog(closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		slog.Warn("failed to close resource", "error", err.Error())
	}
}
