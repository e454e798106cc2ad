package sse

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// chunkReader delivers its chunks one per Read call, simulating arbitrary
// network read boundaries.
type chunkReader struct {
	chunks []string
	err    error
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}

	chunk := r.chunks[0]
	r.chunks = r.chunks[1:]
	return copy(p, chunk), nil
}

// TestDecoder_SplitAcrossReads_YieldsOneEvent verifies the spec example:
// reads "data: hel" then "lo\n\n" decode to exactly one {Data: "hello"}.
func TestDecoder_SplitAcrossReads_YieldsOneEvent(t *testing.T) {
	decoder := NewDecoder(&chunkReader{chunks: []string{"data: hel", "lo\n\n"}})

	event, err := decoder.Next()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if event.Data != "hello" {
		t.Errorf("expected data %q, got %q", "hello", event.Data)
	}

	if _, err := decoder.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after last event, got %v", err)
	}
}

// TestDecoder_MultipleEventsInOneRead_YieldsInOrder verifies that several
// complete events arriving in a single read are yielded in wire order.
func TestDecoder_MultipleEventsInOneRead_YieldsInOrder(t *testing.T) {
	input := "data: first\n\ndata: second\n\ndata: third\n\n"
	decoder := NewDecoder(strings.NewReader(input))

	for _, expected := range []string{"first", "second", "third"} {
		event, err := decoder.Next()
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if event.Data != expected {
			t.Errorf("expected %q, got %q", expected, event.Data)
		}
	}

	if _, err := decoder.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

// TestDecoder_TrailingEvent_FlushedBeforeEOF verifies that a stream ending
// without a final blank line still delivers the pending event before io.EOF.
func TestDecoder_TrailingEvent_FlushedBeforeEOF(t *testing.T) {
	decoder := NewDecoder(strings.NewReader("data: trailing"))

	event, err := decoder.Next()
	if err != nil {
		t.Fatalf("expected flushed event, got error %v", err)
	}
	if event.Data != "trailing" {
		t.Errorf("expected %q, got %q", "trailing", event.Data)
	}

	if _, err := decoder.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after flush, got %v", err)
	}
}

// TestDecoder_EmptyStream_ReturnsEOF verifies an empty source yields io.EOF
// immediately.
func TestDecoder_EmptyStream_ReturnsEOF(t *testing.T) {
	decoder := NewDecoder(strings.NewReader(""))

	if _, err := decoder.Next(); err != io.EOF {
		t.Errorf("expected io.EOF for empty stream, got %v", err)
	}
}

// TestDecoder_MidStreamError_SurfacedAfterDecodedEvents verifies that a
// transport failure surfaces at the point of failure, after the events
// decoded before it, and that already-yielded events stand.
func TestDecoder_MidStreamError_SurfacedAfterDecodedEvents(t *testing.T) {
	transportErr := errors.New("connection reset")
	decoder := NewDecoder(&chunkReader{
		chunks: []string{"data: delivered\n\n"},
		err:    transportErr,
	})

	event, err := decoder.Next()
	if err != nil {
		t.Fatalf("expected the delivered event first, got error %v", err)
	}
	if event.Data != "delivered" {
		t.Errorf("expected %q, got %q", "delivered", event.Data)
	}

	_, err = decoder.Next()
	if !errors.Is(err, transportErr) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}

	// The error is surfaced exactly once; the sequence then terminates.
	if _, err := decoder.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after surfaced error, got %v", err)
	}
}

// TestDecoder_Events_RangeIteration verifies the iter.Seq2 surface, including
// early break.
func TestDecoder_Events_RangeIteration(t *testing.T) {
	input := "data: one\n\ndata: two\n\ndata: three\n\n"
	decoder := NewDecoder(strings.NewReader(input))

	var collected []string
	for event, err := range decoder.Events() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		collected = append(collected, event.Data)
		if len(collected) == 2 {
			break
		}
	}

	if len(collected) != 2 || collected[0] != "one" || collected[1] != "two" {
		t.Errorf("expected [one two], got %v", collected)
	}
}

// TestDecoder_OversizedLine_ReturnsErrLineTooLong verifies the line-size cap.
func TestDecoder_OversizedLine_ReturnsErrLineTooLong(t *testing.T) {
	huge := "data: " + strings.Repeat("x", maxLineSize+1)
	decoder := NewDecoder(strings.NewReader(huge))

	_, err := decoder.Next()
	if !errors.Is(err, ErrLineTooLong) {
		t.Fatalf("expected ErrLineTooLong, got %v", err)
	}
}
