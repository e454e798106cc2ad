// Package sse decodes Server-Sent Event streams into lazy sequences of typed
// values.
//
// The package is layered. [Parser] is a push-based frame decoder: it accepts
// raw byte chunks in whatever sizes the network delivers them and emits
// complete events, buffering partial lines across chunk boundaries. [Decoder]
// drives a Parser from an io.Reader and exposes a pull interface (Next, or
// Events for range-over-func iteration). [Stream] sits on top of Decoder and
// JSON-decodes each event's data into a caller-chosen type, terminating on
// the provider convention of a "[DONE]" sentinel payload and silently
// skipping payloads that are not valid JSON.
//
// All sequences are single-pass and non-restartable, and events are yielded
// in exactly the order their terminating blank lines appear in the input.
package sse
