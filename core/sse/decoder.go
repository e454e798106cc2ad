package sse

import (
	"errors"
	"fmt"
	"io"
	"iter"
)

// maxLineSize is the maximum size of a single SSE line (1 MB). Lines are
// normally tiny, but tool-call arguments or long completions from
// OpenAI-compatible APIs can produce very large data lines; anything past
// this cap is treated as a corrupt stream rather than buffered without bound.
const maxLineSize = 1 * 1024 * 1024

// ErrLineTooLong is returned by Decoder when a single SSE line exceeds
// maxLineSize.
var ErrLineTooLong = errors.New("sse: line exceeds maximum size")

// readChunkSize is the per-read buffer size handed to the underlying reader.
const readChunkSize = 16 * 1024

// Decoder reads SSE events from an io.Reader. It is the pull-side companion
// of [Parser]: each Next call reads as many chunks as needed to complete the
// next event. The sequence is finite iff the reader is finite; long-lived
// streaming connections simply block in Next until more bytes arrive.
//
// A Decoder is single-pass, non-restartable, and not safe for concurrent use.
type Decoder struct {
	reader  io.Reader
	parser  Parser
	buf     []byte
	queue   []Event
	err     error
	flushed bool
}

// NewDecoder creates a Decoder reading from r. The Decoder does not close r;
// ownership of the underlying transport stays with the caller.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		reader: r,
		buf:    make([]byte, readChunkSize),
	}
}

// Next returns the next event. It returns io.EOF once the source is
// exhausted and any final unterminated event has been flushed. A transport
// error is surfaced once, after the events decoded before it; subsequent
// calls return io.EOF.
func (d *Decoder) Next() (Event, error) {
	for {
		if len(d.queue) > 0 {
			event := d.queue[0]
			d.queue = d.queue[1:]
			return event, nil
		}

		if d.err != nil {
			if !d.flushed {
				d.flushed = true
				if event, ok := d.parser.Flush(); ok {
					return event, nil
				}
			}

			err := d.err
			if err != io.EOF {
				// Surface the transport error exactly once.
				d.err = io.EOF
			}
			return Event{}, err
		}

		n, err := d.reader.Read(d.buf)
		if n > 0 {
			d.queue = d.parser.Feed(d.buf[:n])

			if d.parser.pendingSize() > maxLineSize {
				d.err = fmt.Errorf("%w (%d bytes buffered)", ErrLineTooLong, d.parser.pendingSize())
				continue
			}
		}
		if err != nil {
			if err != io.EOF {
				err = fmt.Errorf("sse: read error: %w", err)
			}
			d.err = err
		}
	}
}

// Events returns the decoder as a lazy range-over-func sequence. Iteration
// stops at the end of the stream; a transport error is yielded once with a
// zero Event and terminates the sequence. Breaking out of the loop abandons
// the decode session.
//
// Example:
//
//	for event, err := range decoder.Events() {
//	    if err != nil { handle error }
//	    process(event)
//	}
func (d *Decoder) Events() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			event, err := d.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Event{}, err)
				return
			}
			if !yield(event, nil) {
				return
			}
		}
	}
}
