// Package textutil provides text folding and trigram similarity used for
// fuzzy title matching.
//
// The primary use cases are:
//   - Folding text to lowercase ASCII-comparable form (accents removed)
//   - Cleaning titles into space separated alphanumeric words
//   - Scoring two strings with word-padded trigram similarity
//
// Similarity mirrors PostgreSQL pg_trgm: each word is padded with two leading
// spaces and one trailing space, the distinct 3-grams form a set, and the
// score is the Jaccard index of the two sets.
package textutil
