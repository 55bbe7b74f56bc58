// Package logging assembles the slog loggers used across Marquee.
//
// It owns the console and JSON handlers, routes records to the terminal and
// the log file at independent levels, and exposes context helpers so handlers
// and views tag lines with media IDs, view names, and request IDs. A no-op
// logger is provided for tests and wiring code that cannot fail.
package logging
