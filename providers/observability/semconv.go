package observability

// Semantic conventions for transport-layer attributes and event names. Using
// shared constants keeps attribute naming consistent across the HTTP client,
// rate limiter, and stream decoder.

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the request method
	AttrHTTPMethod = "http.method"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPStatusCode is the response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPRequestBodySize is the serialized request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body_size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body_size"

	// AttrHTTPRequestDuration is the wall-clock duration of one attempt
	AttrHTTPRequestDuration = "http.request.duration"
)

// --- Retry Attributes ---

const (
	// AttrRetryAttempt is the 1-based attempt number
	AttrRetryAttempt = "retry.attempt"

	// AttrRetryBackoff is the backoff slept before this attempt
	AttrRetryBackoff = "retry.backoff"

	// AttrRetryMaxAttempts is the configured attempt bound
	AttrRetryMaxAttempts = "retry.max_attempts"
)

// --- Rate Limit Attributes ---

const (
	// AttrRateLimitKey is the logical key the request was throttled under
	AttrRateLimitKey = "ratelimit.key"

	// AttrRateLimitWait is how long the request waited for tokens
	AttrRateLimitWait = "ratelimit.wait"
)

// --- Stream Attributes ---

const (
	// AttrStreamEventCount is the number of SSE events decoded
	AttrStreamEventCount = "stream.event_count"
)

// --- Event Names ---

const (
	// EventRequestPrepared marks the request body being serialized
	EventRequestPrepared = "http.request.prepared"

	// EventRequestError marks a failed attempt
	EventRequestError = "http.request.error"

	// EventResponseReceived marks a buffered response arriving
	EventResponseReceived = "http.response.received"

	// EventStreamStarted marks a streaming response body being handed to the
	// SSE decoder
	EventStreamStarted = "http.stream.started"

	// EventRateLimitWaited marks a rate-limit gate that blocked the request
	EventRateLimitWaited = "ratelimit.waited"

	// EventRetryScheduled marks a retry being scheduled after a retryable
	// failure
	EventRetryScheduled = "retry.scheduled"
)
