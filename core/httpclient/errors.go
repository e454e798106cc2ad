package httpclient

import (
	"errors"
	"fmt"
)

// ErrRetryExhausted is returned when every retry attempt has been consumed
// without a successful response. It is wrapped together with the last
// underlying error, so callers can inspect either:
//
//	if errors.Is(err, httpclient.ErrRetryExhausted) {
//	    // all attempts failed
//	}
var ErrRetryExhausted = errors.New("relay: all retry attempts exhausted")

// StatusError is the error returned for a non-2xx response. The response body
// is captured (capped) so provider error payloads survive into logs and
// error chains; the status code is what retry classification keys on.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("non-2xx status %d: %s", e.StatusCode, e.Body)
}
