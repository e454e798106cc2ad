package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Request describes one outbound provider request.
type Request struct {
	// Method is the HTTP method. When empty it defaults to GET for body-less
	// requests and POST otherwise.
	Method string

	// URL is the target. Absolute URLs are used as-is; anything else is
	// resolved against the client's base URL.
	URL string

	// Header holds per-request headers. They override the client's default
	// headers on key collision. Fully-formed authentication headers belong
	// here or on the client; the transport performs no credential logic.
	Header http.Header

	// Body is serialized to JSON unless it is already raw bytes
	// ([]byte or json.RawMessage). Nil means no body.
	Body any

	// RateLimitKey selects the token bucket gating this request, typically
	// the provider name. Empty disables rate limiting for the request.
	RateLimitKey string

	// Retry overrides the client's retry policy for this request.
	Retry *RetryPolicy

	// Stream marks the request as expecting a Server-Sent-Event response:
	// the Accept header is set accordingly and the response body is returned
	// unread. Set implicitly by [Stream].
	Stream bool
}

// encodeBody serializes a request body once, so retries replay identical
// bytes.
func encodeBody(body any) ([]byte, error) {
	switch value := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return value, nil
	case []byte:
		return value, nil
	default:
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error marshaling body: %w", err)
		}
		return encoded, nil
	}
}
