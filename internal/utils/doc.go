// Package utils holds small internal helpers shared across the transport
// layer: string truncation for log/error previews, logged resource cleanup,
// latency timing, and pointer construction.
package utils
