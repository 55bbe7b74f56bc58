// Package services defines shared utilities consumed by the catalog client,
// the rating store, and the views built on top of them.
//
// Key responsibilities:
//   - Context helpers that stamp media IDs, view names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures as
//     configuration, not-found, upstream, validation, or storage problems.
//   - UserMessage, which turns any classified failure into display text at the
//     boundary where an operation was started.
//
// Callers test classification with errors.Is against the exported markers rather
// than matching on message strings.
package services
