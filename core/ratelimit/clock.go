package ratelimit

import "time"

// Clock supplies the current time to a bucket. Buckets sample the clock at
// every access rather than owning a timer, so any monotonically advancing
// implementation works. Production code uses [SystemClock]; tests inject a
// manually advanced fake.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the Clock backed by [time.Now]. It is the default for
// buckets constructed with a zero-valued Config.Clock.
func SystemClock() Clock { return systemClock{} }
