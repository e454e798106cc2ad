package utils

import "time"

// Timer measures request latency. [NewTimer] starts measuring immediately;
// [Timer.Stop] captures the elapsed duration for retrieval via
// [Timer.GetDuration]. The transport layer uses one Timer per attempt to
// attach latency to log entries and span events.
type Timer struct {
	startTime time.Time
	duration  time.Duration
}

// NewTimer creates a Timer whose measurement begins now.
func NewTimer() *Timer {
	return &Timer{startTime: time.Now()}
}

// Start restarts the measurement from now, reusing the instance.
func (t *Timer) Start() {
	t.startTime = time.Now()
}

// Stop captures the time elapsed since construction or the last Start.
func (t *Timer) Stop() {
	t.duration = time.Since(t.startTime)
}

// GetDuration returns the duration captured by the most recent Stop, or zero
// if Stop has not been called.
func (t *Timer) GetDuration() time.Duration {
	return t.duration
}
