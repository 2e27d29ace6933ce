package identification

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"reelquery/internal/cache"
	"reelquery/internal/logging"
	"reelquery/internal/services"
	"reelquery/internal/textutil"
)

const (
	DefaultTopK          = 20
	DefaultMinSimilarity = 0.80
)

// IndexEntry is one searchable catalog title.
type IndexEntry struct {
	UID          string
	DisplayTitle string
	CleanTitle   string
}

// Metadata is the canonical record joined onto search hits.
type Metadata struct {
	UID         string
	ExternalID  string
	ReleaseYear int
	Kind        ContentKind
	Directors   []string
	Synopsis    string
}

// Catalog is the read-only data the searcher needs.
type Catalog interface {
	SearchIndex(ctx context.Context) ([]IndexEntry, error)
	MetadataByUIDs(ctx context.Context, uids []string) (map[string]Metadata, error)
}

// Searcher scores catalog titles against a query term.
type Searcher struct {
	catalog Catalog
	data    *cache.DataCache
	logger  *slog.Logger
}

// NewSearcher builds a searcher. data may be nil to disable result caching.
func NewSearcher(catalog Catalog, data *cache.DataCache, logger *slog.Logger) *Searcher {
	return &Searcher{
		catalog: catalog,
		data:    data,
		logger:  logging.NewComponentLogger(logger, "search"),
	}
}

// Search returns catalog titles whose clean title is at least minSimilarity
// similar to term, best first, capped at topK. Titles without metadata are
// dropped. A blank term returns nothing without touching the catalog.
func (s *Searcher) Search(ctx context.Context, term string, topK int, minSimilarity float64) ([]Candidate, error) {
	term = textutil.CleanTitle(term)
	if term == "" {
		return nil, nil
	}
	if s == nil || s.catalog == nil {
		return nil, services.Wrap(services.ErrStoreUnavailable, "search", "search", "catalog not configured", nil)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if minSimilarity <= 0 {
		minSimilarity = DefaultMinSimilarity
	}

	index, err := cache.GetOrLoad(ctx, s.data, "search.index", nil, nil, s.catalog.SearchIndex)
	if err != nil {
		return nil, services.Wrap(services.ErrStoreUnavailable, "search", "load index", "catalog index unavailable", err)
	}

	termGrams := textutil.Trigrams(term)
	hits := make([]Candidate, 0, 16)
	for _, entry := range index {
		similarity := textutil.SetSimilarity(termGrams, textutil.Trigrams(entry.CleanTitle))
		if similarity < minSimilarity {
			continue
		}
		hits = append(hits, Candidate{
			CatalogUID:   entry.UID,
			DisplayTitle: entry.DisplayTitle,
			Similarity:   similarity,
		})
	}
	if len(hits) == 0 {
		s.logger.Debug("no titles above similarity threshold",
			logging.String("term", term),
			logging.Float64("min_similarity", minSimilarity))
		return nil, nil
	}

	uids := UIDs(hits)
	sort.Strings(uids)
	metadata, err := cache.GetOrLoad(ctx, s.data, "metadata.by_uids", []any{strings.Join(uids, ",")}, nil,
		func(ctx context.Context) (map[string]Metadata, error) {
			return s.catalog.MetadataByUIDs(ctx, uids)
		})
	if err != nil {
		return nil, services.Wrap(services.ErrStoreUnavailable, "search", "load metadata", "title metadata unavailable", err)
	}

	candidates := hits[:0]
	for _, hit := range hits {
		meta, ok := metadata[hit.CatalogUID]
		if !ok {
			continue
		}
		hit.ExternalID = meta.ExternalID
		hit.ReleaseYear = meta.ReleaseYear
		hit.Kind = meta.Kind
		if hit.Kind == "" {
			hit.Kind = KindUnknown
		}
		hit.Directors = meta.Directors
		hit.Synopsis = meta.Synopsis
		candidates = append(candidates, hit)
	}

	SortCandidates(candidates)
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	s.logger.Debug("search completed",
		logging.String("term", term),
		logging.Int("matches", len(candidates)),
		logging.Int("dropped_without_metadata", len(hits)-len(candidates)))
	return candidates, nil
}

// SortCandidates orders by similarity descending, then release year
// descending with unknown years last, then catalog uid for determinism.
func SortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		if a.ReleaseYear != b.ReleaseYear {
			if a.ReleaseYear == 0 || b.ReleaseYear == 0 {
				return b.ReleaseYear == 0
			}
			return a.ReleaseYear > b.ReleaseYear
		}
		return a.CatalogUID < b.CatalogUID
	})
}

// String implements fmt.Stringer for log output.
func (c Candidate) String() string {
	return fmt.Sprintf("%s %s %.3f", c.CatalogUID, c.Label(), c.Similarity)
}
