package identification

import (
	"strconv"
	"strings"
)

// ContentKind classifies a catalog title.
type ContentKind string

const (
	KindUnknown ContentKind = "unknown"
	KindMovie   ContentKind = "movie"
	KindSeries  ContentKind = "series"
)

// ParseContentKind maps stored and spoken kind names onto a ContentKind.
func ParseContentKind(value string) ContentKind {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "movie", "movies", "film", "films", "pelicula", "peliculas", "película", "películas":
		return KindMovie
	case "series", "serie", "show", "shows", "tv", "tv_series":
		return KindSeries
	default:
		return KindUnknown
	}
}

// Candidate is one fuzzy match for a title query.
type Candidate struct {
	CatalogUID   string      `json:"catalog_uid"`
	ExternalID   string      `json:"external_id,omitempty"`
	DisplayTitle string      `json:"display_title"`
	ReleaseYear  int         `json:"release_year,omitempty"`
	Kind         ContentKind `json:"content_kind"`
	Directors    []string    `json:"director_names,omitempty"`
	Synopsis     string      `json:"synopsis,omitempty"`
	Similarity   float64     `json:"similarity"`
}

// Label renders "Title (Year)" for choice lists.
func (c Candidate) Label() string {
	if c.ReleaseYear > 0 {
		return c.DisplayTitle + " (" + strconv.Itoa(c.ReleaseYear) + ")"
	}
	return c.DisplayTitle
}

// UIDs returns the catalog uids of candidates in order.
func UIDs(candidates []Candidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.CatalogUID)
	}
	return out
}
