// Package hints cleans free-form questions and extracts the single typed hint
// a question carries.
//
// Extraction is priority ordered and short-circuits: an external reference id
// wins over a catalog id, which wins over a release year, then an ordinal reply
// to a disambiguation list ("the second one", "la tercera"), then a trailing
// director clause ("by Denis Villeneuve"). ExtractTitleQuery strips question
// phrasing so the residue can be fed to the candidate search.
package hints
