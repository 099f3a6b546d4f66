// Package common provides shared plumbing for MCP tool implementations,
// currently the instrumented handler wrapper that records per-tool
// invocation metrics and logs.
package common
