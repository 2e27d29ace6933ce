// Package main hosts the reelquery CLI entrypoint and command graph.
//
// The Cobra-based command tree wires configuration, logging, the SQLite
// catalog and the question router, then renders answers as text, tables or
// JSON. Subcommands stay thin: resolution logic lives in internal/router and
// the packages it composes.
package main
