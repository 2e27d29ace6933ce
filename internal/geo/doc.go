// Package geo resolves country mentions in free text against an embedded
// bilingual (English and Spanish) country table.
//
// Matching is deterministic: a whole-text match first, then the longest
// word-bounded name or alias, then a bare ISO 3166-1 alpha-2 code written in
// upper case. Finding nothing is a valid outcome meaning global scope.
package geo
