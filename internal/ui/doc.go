// Package ui provides helpers for formatting human-readable console output.
//
// The helpers translate command execution events and run summaries into
// concise messages for CLI users while detailed telemetry continues to flow
// through structured loggers.
package ui
