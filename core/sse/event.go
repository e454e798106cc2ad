package sse

// Event is a single decoded Server-Sent Event.
//
// Data carries the payload; when the wire event had multiple "data:" lines
// they are joined with newlines, per the SSE grammar. Event, ID, and Retry
// are optional fields and keep their zero values when absent. An event is
// only emitted once a terminating blank line (or the end of the stream) has
// been seen with Data set at least once.
type Event struct {
	Event string
	Data  string
	ID    string
	Retry int
}
