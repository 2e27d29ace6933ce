// Package sqlguard authorizes generated read queries against a fixed table
// whitelist.
//
// The gate never executes anything. Validate returns an opaque Query that is
// the only type a Runner accepts, so an unvalidated string cannot reach the
// store. Enforcement is table-level: every FROM and JOIN target must be a
// whitelisted table. Column sets are carried on the Policy for prompt
// construction and documentation, not enforced.
package sqlguard
