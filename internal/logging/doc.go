// Package logging provides structured logging helpers built on log/slog.
//
// It defines canonical attribute keys used throughout the application so that
// log output stays consistent and greppable, plus small helpers for attaching
// common attributes (operation, tool, status, error) and for sanitizing
// secrets before they reach a log line.
package logging
