// Package server provides the MCP server context plus the auxiliary HTTP
// servers (metrics, health) for the gdrive-mcp application.
//
// ServerContext wires the credential provider, metrics recorder, and
// logger together and hands tool handlers a fresh authenticated Drive
// client per invocation. MetricsServer serves Prometheus metrics on a
// dedicated port, isolated from the MCP transport. HealthChecker exposes
// liveness and readiness endpoints for the HTTP transport.
package server
