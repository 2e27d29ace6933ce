// Package catalog owns the SQLite database holding titles, their canonical
// metadata, per-country popularity counters and streaming availability.
//
// Reads go through Run, which accepts only sqlguard.Query values, so every
// statement that touches catalog data has passed the query gate. The fixed
// domain queries in queries.go are validated once at package init. Import
// loads a JSON dataset transactionally and is the only write path.
package catalog
