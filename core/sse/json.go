package sse

import (
	"encoding/json"
	"io"
	"iter"

	"github.com/kaptinlin/jsonrepair"
)

// DoneSentinel is the literal data payload OpenAI-compatible providers send
// to mark logical stream completion, distinct from transport-level closure.
const DoneSentinel = "[DONE]"

// StreamOption configures a [Stream].
type StreamOption func(*streamOptions)

type streamOptions struct {
	sentinel string
	lenient  bool
}

// WithSentinel overrides the terminator payload. Pass an empty string to
// disable sentinel detection entirely.
func WithSentinel(sentinel string) StreamOption {
	return func(o *streamOptions) { o.sentinel = sentinel }
}

// WithLenientJSON makes the stream attempt to repair malformed payloads
// before skipping them. Some providers interleave heartbeat or almost-JSON
// frames; repair recovers the recoverable ones and the rest are still
// skipped silently.
func WithLenientJSON() StreamOption {
	return func(o *streamOptions) { o.lenient = true }
}

// Stream decodes each SSE event's data payload as JSON into T.
//
// The sequence terminates on the sentinel payload (by default
// [DoneSentinel]); the underlying reader is not consumed further, and closing
// it remains the caller's responsibility (or use [Stream.Close] when the
// source is owned by the stream). Payloads that fail to decode are skipped,
// never surfaced: resilience against stray non-JSON frames is worth more
// here than strictness, since one bad heartbeat must not kill a long
// completion.
type Stream[T any] struct {
	decoder *Decoder
	closer  io.Closer
	opts    streamOptions
	done    bool
}

// NewStream creates a typed JSON stream over body. The stream takes ownership
// of body: Close releases it, and abandoning an Events loop without calling
// Close leaks the underlying connection.
func NewStream[T any](body io.ReadCloser, opts ...StreamOption) *Stream[T] {
	options := streamOptions{sentinel: DoneSentinel}
	for _, opt := range opts {
		opt(&options)
	}

	return &Stream[T]{
		decoder: NewDecoder(body),
		closer:  body,
		opts:    options,
	}
}

// Next returns the next decoded value. It returns io.EOF when the sentinel is
// seen or the source is exhausted, and any transport error exactly once at
// the point of failure; values already returned remain valid.
func (s *Stream[T]) Next() (T, error) {
	var zero T

	if s.done {
		return zero, io.EOF
	}

	for {
		event, err := s.decoder.Next()
		if err != nil {
			if err == io.EOF {
				s.done = true
			}
			return zero, err
		}

		if s.opts.sentinel != "" && event.Data == s.opts.sentinel {
			s.done = true
			return zero, io.EOF
		}

		if value, ok := s.decode(event.Data); ok {
			return value, nil
		}
		// Malformed payload: skip and keep reading.
	}
}

// decode unmarshals data into T, optionally repairing it first in lenient
// mode.
func (s *Stream[T]) decode(data string) (T, bool) {
	var value T

	if err := json.Unmarshal([]byte(data), &value); err == nil {
		return value, true
	}

	if s.opts.lenient {
		repaired, err := jsonrepair.JSONRepair(data)
		if err == nil && json.Unmarshal([]byte(repaired), &value) == nil {
			return value, true
		}
	}

	var zero T
	return zero, false
}

// Values returns the stream as a lazy range-over-func sequence, ending at the
// sentinel or source exhaustion. A mid-stream transport error is yielded once
// with a zero value and terminates the sequence.
func (s *Stream[T]) Values() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			value, err := s.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(value, nil) {
				return
			}
		}
	}
}

// Close releases the underlying transport stream. It is safe to call after
// the sequence has ended, and must be called when abandoning the stream
// early: the sentinel only ends the logical sequence, not the connection.
func (s *Stream[T]) Close() error {
	s.done = true
	if s.closer == nil {
		return nil
	}

	closer := s.closer
	s.closer = nil
	return closer.Close()
}
