// Package httpclient is the resilient HTTP façade of the transport layer.
//
// A [Client] gates every request through a keyed token-bucket rate limiter,
// classifies failures against a [RetryPolicy], and retries with exponential
// backoff before the request is committed to the wire. Buffered responses are
// issued with [Client.Do] or decoded with [DoJSON]; streaming responses go
// through [Stream], which hands the open response body to the SSE decode
// pipeline in package sse.
//
// Rate limiting and retry are pre-flight concerns: they apply before a
// request is dispatched. Streaming decode is in-flight: once bytes have been
// committed to the caller, a mid-stream failure surfaces on the lazy
// sequence instead of being silently retried, because partial output may
// already have been delivered.
package httpclient
