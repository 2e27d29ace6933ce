// Package config loads, normalizes, and validates reelquery configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the REELQUERY_CATALOG_PATH
// environment fallback. Matching thresholds, cache budgets, the query gate
// whitelist and feature flags all live on Config so the router can be
// assembled from one value.
package config
