package httpclient

import (
	"context"

	"github.com/helicon-ai/relay/core/sse"
	"github.com/helicon-ai/relay/providers/observability"
)

// Stream issues the request expecting a Server-Sent-Event response and
// returns a typed lazy sequence over the decoded payloads. The rate-limit
// gate and retry loop apply to establishing the connection exactly as in
// [Client.Do]; once the stream is open, failures are never retried and
// instead surface on the returned sequence, since events already delivered
// to the caller cannot be replayed.
//
// The returned stream owns the response body: it is released when the
// sequence ends, or by calling Close when abandoning it early. Note that the
// [DONE] sentinel ends the logical sequence without closing the underlying
// connection; callers that stop at the sentinel and keep the stream around
// must still Close it.
func Stream[T any](ctx context.Context, client *Client, req Request, opts ...sse.StreamOption) (*sse.Stream[T], error) {
	req.Stream = true

	response, err := client.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventStreamStarted,
			observability.Int(observability.AttrHTTPStatusCode, response.StatusCode),
		)
	}
	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Trace(ctx, "stream opened",
			observability.Int(observability.AttrHTTPStatusCode, response.StatusCode),
		)
	}

	return sse.NewStream[T](response.Body, opts...), nil
}
