package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"reelquery/internal/identification"
	"reelquery/internal/sqlguard"
	"reelquery/internal/temporal"
)

const periodLayout = "2006-01-02"

var (
	searchIndexQuery = sqlguard.MustValidate(
		`SELECT uid, display_title, clean_title FROM titles`)

	popularityTotalQuery = sqlguard.MustValidate(
		`SELECT COALESCE(SUM(hits), 0) AS hits FROM popularity
		 WHERE uid = ? AND period BETWEEN ? AND ? AND (? = '' OR country_iso2 = ?)`)

	countryBreakdownQuery = sqlguard.MustValidate(
		`SELECT country_iso2, SUM(hits) AS hits FROM popularity
		 WHERE uid = ? AND period BETWEEN ? AND ?
		 GROUP BY country_iso2 ORDER BY hits DESC, country_iso2 LIMIT ?`)

	availabilityQuery = sqlguard.MustValidate(
		`SELECT DISTINCT platform FROM availability
		 WHERE uid = ? AND (? = '' OR country_iso2 = ?) ORDER BY platform`)

	topTitlesQuery = sqlguard.MustValidate(
		`SELECT t.uid, t.display_title, m.external_id, m.release_year, m.content_kind, SUM(p.hits) AS hits
		 FROM popularity p
		 JOIN titles t ON t.uid = p.uid
		 JOIN title_metadata m ON m.uid = p.uid
		 WHERE p.period BETWEEN ? AND ? AND (? = '' OR p.country_iso2 = ?) AND (? = '' OR m.content_kind = ?)
		 GROUP BY t.uid, t.display_title, m.external_id, m.release_year, m.content_kind
		 ORDER BY hits DESC, t.uid LIMIT ?`)

	titleByUIDQuery = sqlguard.MustValidate(
		`SELECT t.uid, t.display_title, m.external_id, m.release_year, m.content_kind, m.directors, m.synopsis
		 FROM titles t JOIN title_metadata m ON m.uid = t.uid WHERE lower(t.uid) = lower(?)`)

	titleByExternalIDQuery = sqlguard.MustValidate(
		`SELECT t.uid, t.display_title, m.external_id, m.release_year, m.content_kind, m.directors, m.synopsis
		 FROM titles t JOIN title_metadata m ON m.uid = t.uid WHERE lower(m.external_id) = lower(?)
		 ORDER BY t.uid LIMIT 1`)

	statsQuery = sqlguard.MustValidate(
		`SELECT (SELECT COUNT(1) FROM titles) AS titles,
		        (SELECT COUNT(1) FROM title_metadata) AS metadata,
		        (SELECT COUNT(1) FROM popularity) AS popularity,
		        (SELECT COUNT(1) FROM availability) AS availability`)
)

// metadataByUIDsQuery validates the IN list for n uids.
func metadataByUIDsQuery(n int) sqlguard.Query {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
	return sqlguard.MustValidate(fmt.Sprintf(
		`SELECT uid, external_id, release_year, content_kind, directors, synopsis FROM title_metadata WHERE uid IN (%s)`,
		placeholders))
}

// CountryHits is one row of a per-country breakdown.
type CountryHits struct {
	Country string `json:"country"`
	Hits    int64  `json:"hits"`
}

// RankingQuery selects the top titles in a window.
type RankingQuery struct {
	Kind    identification.ContentKind
	Country string
	Range   temporal.Range
	Limit   int
}

// RankedTitle is one row of a top-N list.
type RankedTitle struct {
	Rank         int                        `json:"rank"`
	CatalogUID   string                     `json:"catalog_uid"`
	DisplayTitle string                     `json:"display_title"`
	ExternalID   string                     `json:"external_id,omitempty"`
	ReleaseYear  int                        `json:"release_year,omitempty"`
	Kind         identification.ContentKind `json:"content_kind"`
	Hits         int64                      `json:"hits"`
}

// Stats counts rows per table.
type Stats struct {
	Titles       int64 `json:"titles"`
	Metadata     int64 `json:"metadata"`
	Popularity   int64 `json:"popularity"`
	Availability int64 `json:"availability"`
}

// SearchIndex returns every title with its clean form.
func (s *Store) SearchIndex(ctx context.Context) ([]identification.IndexEntry, error) {
	rows, err := s.Run(ctx, searchIndexQuery)
	if err != nil {
		return nil, err
	}
	entries := make([]identification.IndexEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, identification.IndexEntry{
			UID:          asString(row["uid"]),
			DisplayTitle: asString(row["display_title"]),
			CleanTitle:   asString(row["clean_title"]),
		})
	}
	return entries, nil
}

// MetadataByUIDs returns canonical metadata keyed by uid. Missing uids are absent.
func (s *Store) MetadataByUIDs(ctx context.Context, uids []string) (map[string]identification.Metadata, error) {
	out := make(map[string]identification.Metadata, len(uids))
	if len(uids) == 0 {
		return out, nil
	}
	params := make([]any, len(uids))
	for i, uid := range uids {
		params[i] = uid
	}
	rows, err := s.Run(ctx, metadataByUIDsQuery(len(uids)), params...)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		meta := metadataFromRow(row)
		out[meta.UID] = meta
	}
	return out, nil
}

// PopularityTotal sums hits for uid inside r. An empty country sums all countries.
func (s *Store) PopularityTotal(ctx context.Context, uid, country string, r temporal.Range) (int64, error) {
	from, to := periodBounds(r)
	country = strings.ToUpper(country)
	rows, err := s.Run(ctx, popularityTotalQuery, uid, from, to, country, country)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return asInt64(rows[0]["hits"]), nil
}

// CountryBreakdown returns the countries with the most hits for uid inside r.
func (s *Store) CountryBreakdown(ctx context.Context, uid string, r temporal.Range, limit int) ([]CountryHits, error) {
	from, to := periodBounds(r)
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.Run(ctx, countryBreakdownQuery, uid, from, to, limit)
	if err != nil {
		return nil, err
	}
	out := make([]CountryHits, 0, len(rows))
	for _, row := range rows {
		out = append(out, CountryHits{Country: asString(row["country_iso2"]), Hits: asInt64(row["hits"])})
	}
	return out, nil
}

// Availability lists platforms carrying uid. An empty country lists all.
func (s *Store) Availability(ctx context.Context, uid, country string) ([]string, error) {
	country = strings.ToUpper(country)
	rows, err := s.Run(ctx, availabilityQuery, uid, country, country)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, asString(row["platform"]))
	}
	return out, nil
}

// TopTitles ranks titles by hits inside the query window.
func (s *Store) TopTitles(ctx context.Context, q RankingQuery) ([]RankedTitle, error) {
	from, to := periodBounds(q.Range)
	country := strings.ToUpper(q.Country)
	kind := ""
	if q.Kind != "" && q.Kind != identification.KindUnknown {
		kind = string(q.Kind)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.Run(ctx, topTitlesQuery, from, to, country, country, kind, kind, limit)
	if err != nil {
		return nil, err
	}
	out := make([]RankedTitle, 0, len(rows))
	for i, row := range rows {
		out = append(out, RankedTitle{
			Rank:         i + 1,
			CatalogUID:   asString(row["uid"]),
			DisplayTitle: asString(row["display_title"]),
			ExternalID:   asString(row["external_id"]),
			ReleaseYear:  int(asInt64(row["release_year"])),
			Kind:         identification.ParseContentKind(asString(row["content_kind"])),
			Hits:         asInt64(row["hits"]),
		})
	}
	return out, nil
}

// TitleByUID returns the title with its metadata, matched case-insensitively.
func (s *Store) TitleByUID(ctx context.Context, uid string) (identification.Candidate, bool, error) {
	return s.singleTitle(ctx, titleByUIDQuery, strings.TrimSpace(uid))
}

// TitleByExternalID returns the title carrying an external reference id.
func (s *Store) TitleByExternalID(ctx context.Context, externalID string) (identification.Candidate, bool, error) {
	return s.singleTitle(ctx, titleByExternalIDQuery, strings.TrimSpace(externalID))
}

func (s *Store) singleTitle(ctx context.Context, q sqlguard.Query, key string) (identification.Candidate, bool, error) {
	if key == "" {
		return identification.Candidate{}, false, nil
	}
	rows, err := s.Run(ctx, q, key)
	if err != nil {
		return identification.Candidate{}, false, err
	}
	if len(rows) == 0 {
		return identification.Candidate{}, false, nil
	}
	meta := metadataFromRow(rows[0])
	return identification.Candidate{
		CatalogUID:   meta.UID,
		ExternalID:   meta.ExternalID,
		DisplayTitle: asString(rows[0]["display_title"]),
		ReleaseYear:  meta.ReleaseYear,
		Kind:         meta.Kind,
		Directors:    meta.Directors,
		Synopsis:     meta.Synopsis,
		Similarity:   1,
	}, true, nil
}

// Stats returns table row counts.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	rows, err := s.Run(ctx, statsQuery)
	if err != nil {
		return Stats{}, err
	}
	if len(rows) == 0 {
		return Stats{}, nil
	}
	row := rows[0]
	return Stats{
		Titles:       asInt64(row["titles"]),
		Metadata:     asInt64(row["metadata"]),
		Popularity:   asInt64(row["popularity"]),
		Availability: asInt64(row["availability"]),
	}, nil
}

func metadataFromRow(row sqlguard.Row) identification.Metadata {
	return identification.Metadata{
		UID:         asString(row["uid"]),
		ExternalID:  asString(row["external_id"]),
		ReleaseYear: int(asInt64(row["release_year"])),
		Kind:        identification.ParseContentKind(asString(row["content_kind"])),
		Directors:   splitDirectors(asString(row["directors"])),
		Synopsis:    asString(row["synopsis"]),
	}
}

const directorSeparator = "; "

func joinDirectors(names []string) string {
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			cleaned = append(cleaned, name)
		}
	}
	return strings.Join(cleaned, directorSeparator)
}

func splitDirectors(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ";")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func periodBounds(r temporal.Range) (string, string) {
	return r.From.Format(periodLayout), r.To.Format(periodLayout)
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

func asInt64(value any) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n
	case []byte:
		n, _ := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
		return n
	default:
		return 0
	}
}
