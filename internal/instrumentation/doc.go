// Package instrumentation provides OpenTelemetry-based metrics for the MCP
// server: tool invocation counts and durations, Google Drive API operation
// outcomes, and OAuth authorization/refresh results.
//
// Metrics are exported through a configurable exporter (Prometheus by
// default, OTLP or stdout as alternatives). The Prometheus exporter registers
// with the default Prometheus registry, which the metrics server exposes on
// /metrics.
package instrumentation
