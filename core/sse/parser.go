package sse

import (
	"strconv"
	"strings"
)

// Parser is the push-based SSE frame decoder. Callers feed it raw byte chunks
// exactly as they arrive from the transport; the parser reassembles logical
// lines across chunk boundaries and emits events as their terminating blank
// lines are observed. Output is therefore invariant under how the input was
// chunked: one byte at a time and one giant read produce the same events.
//
// A Parser holds the state of one decode session and is not safe for
// concurrent use. It is driven by a single reader goroutine in practice
// (see [Decoder]).
type Parser struct {
	// pending holds the unterminated tail of the input: bytes after the last
	// newline seen so far.
	pending string

	// current accumulates fields for the event being assembled. dataSet
	// records whether a "data:" line has been seen since the last emit, which
	// is what makes the event eligible to be emitted; it also distinguishes
	// an explicit empty payload ("data:\n") from no payload at all.
	current Event
	dataSet bool
}

// Feed appends chunk to the carry-over buffer, processes every complete line
// it now contains, and returns the events completed by this chunk (often
// none). The final, possibly incomplete line fragment is retained for the
// next call.
func (p *Parser) Feed(chunk []byte) []Event {
	var events []Event

	buf := p.pending + string(chunk)

	for {
		idx := strings.IndexByte(buf, '\n')
		if idx < 0 {
			break
		}

		line := strings.TrimSuffix(buf[:idx], "\r")
		buf = buf[idx+1:]

		if event, ok := p.processLine(line); ok {
			events = append(events, event)
		}
	}

	p.pending = buf
	return events
}

// Flush terminates the decode session. If the event being assembled has a
// payload it is returned once, so a trailing event whose stream ended without
// a final blank line is not lost. Any unterminated partial line is discarded.
func (p *Parser) Flush() (Event, bool) {
	p.pending = ""

	if !p.dataSet {
		return Event{}, false
	}

	event := p.current
	p.current = Event{}
	p.dataSet = false
	return event, true
}

// processLine applies one complete line to the event being assembled and
// reports whether that completed an event.
func (p *Parser) processLine(line string) (Event, bool) {
	// Blank line: emit the pending event, but only if it has a payload. Runs
	// of blank lines between events must not produce spurious empty events.
	if line == "" {
		if !p.dataSet {
			return Event{}, false
		}

		event := p.current
		p.current = Event{}
		p.dataSet = false
		return event, true
	}

	// Comment line.
	if strings.HasPrefix(line, ":") {
		return Event{}, false
	}

	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		// Malformed field line; dropped rather than treated as fatal.
		return Event{}, false
	}

	field := line[:idx]
	value := strings.TrimPrefix(line[idx+1:], " ")

	switch field {
	case "event":
		p.current.Event = value
	case "id":
		p.current.ID = value
	case "data":
		if p.dataSet {
			p.current.Data += "\n" + value
		} else {
			p.current.Data = value
		}
		p.dataSet = true
	case "retry":
		// Non-numeric retry values are ignored without affecting the event.
		if retry, err := strconv.Atoi(value); err == nil {
			p.current.Retry = retry
		}
	default:
		// Unknown field names are ignored per the SSE grammar.
	}

	return Event{}, false
}

// pendingSize returns the length of the buffered unterminated line, used by
// Decoder to enforce its line-size cap.
func (p *Parser) pendingSize() int {
	return len(p.pending)
}
