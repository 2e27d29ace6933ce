// Package identification turns a free-text title reference into catalog
// candidates and, when possible, a single selected title.
//
// The Searcher ranks titles by trigram similarity against the catalog search
// index and attaches metadata for the survivors. The arbiter narrows that list
// with a typed hint (ordinal, year, director, id) or picks the leader outright
// when its score clears the configured threshold and margin.
package identification
