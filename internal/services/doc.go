// Package services defines shared utilities consumed by the resolver
// components and their host-side adapters.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers and the active route
//     for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (ambiguous, not found, unsafe query, store or generative outage) so the
//     router can turn them into "route produced nothing" consistently.
//
// Use these helpers when wiring new routes so error handling and observability
// stay uniform across the resolver.
package services
