// Package logging assembles structured slog loggers and formatting helpers used
// across reelquery.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so router code can tag log lines
// with the request correlation id and the active route. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
