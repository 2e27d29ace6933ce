package identification

import (
	"context"
	"errors"
	"testing"
	"time"

	"reelquery/internal/cache"
	"reelquery/internal/logging"
	"reelquery/internal/services"
	"reelquery/internal/textutil"
)

type fakeCatalog struct {
	entries       []IndexEntry
	metadata      map[string]Metadata
	indexCalls    int
	metadataCalls int
	err           error
}

func (f *fakeCatalog) SearchIndex(context.Context) ([]IndexEntry, error) {
	f.indexCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func (f *fakeCatalog) MetadataByUIDs(_ context.Context, uids []string) (map[string]Metadata, error) {
	f.metadataCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]Metadata, len(uids))
	for _, uid := range uids {
		if meta, ok := f.metadata[uid]; ok {
			out[uid] = meta
		}
	}
	return out, nil
}

func newFakeCatalog() *fakeCatalog {
	add := func(f *fakeCatalog, uid, title string, year int, kind ContentKind, withMeta bool) {
		f.entries = append(f.entries, IndexEntry{UID: uid, DisplayTitle: title, CleanTitle: textutil.CleanTitle(title)})
		if withMeta {
			f.metadata[uid] = Metadata{UID: uid, ExternalID: "tt" + uid[len(uid)-7:], ReleaseYear: year, Kind: kind}
		}
	}
	f := &fakeCatalog{metadata: map[string]Metadata{}}
	add(f, "uid-0000001", "Dune", 2021, KindMovie, true)
	add(f, "uid-0000002", "Dune", 1984, KindMovie, true)
	add(f, "uid-0000003", "Dune", 0, KindSeries, true)
	add(f, "uid-0000004", "Dune", 2000, KindSeries, false)
	add(f, "uid-0000005", "Dunes", 2010, KindMovie, true)
	add(f, "uid-0000006", "The Matrix", 1999, KindMovie, true)
	return f
}

func TestSearchOrdersAndFilters(t *testing.T) {
	catalog := newFakeCatalog()
	searcher := NewSearcher(catalog, nil, logging.NewNop())

	got, err := searcher.Search(context.Background(), "  DUNE ", 20, 0.80)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	wantOrder := []string{"uid-0000001", "uid-0000002", "uid-0000003"}
	if len(got) != len(wantOrder) {
		t.Fatalf("expected %d candidates, got %v", len(wantOrder), got)
	}
	for i, uid := range wantOrder {
		if got[i].CatalogUID != uid {
			t.Fatalf("candidate %d = %s, want %s (%v)", i, got[i].CatalogUID, uid, got)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].Similarity > got[i-1].Similarity {
			t.Fatalf("similarity increased at %d: %v", i, got)
		}
	}
	if got[0].ExternalID != "tt0000001" || got[0].Kind != KindMovie {
		t.Fatalf("metadata not joined: %+v", got[0])
	}
}

func TestSearchCapsAtTopK(t *testing.T) {
	searcher := NewSearcher(newFakeCatalog(), nil, nil)
	got, err := searcher.Search(context.Background(), "dune", 2, 0.5)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
}

func TestSearchBlankTermSkipsCatalog(t *testing.T) {
	catalog := newFakeCatalog()
	searcher := NewSearcher(catalog, nil, nil)
	got, err := searcher.Search(context.Background(), "  ?! ", 20, 0.8)
	if err != nil || len(got) != 0 {
		t.Fatalf("Search(blank) = %v, %v", got, err)
	}
	if catalog.indexCalls != 0 {
		t.Fatal("blank term must not touch the catalog")
	}
}

func TestSearchNoMatches(t *testing.T) {
	catalog := newFakeCatalog()
	got, err := NewSearcher(catalog, nil, nil).Search(context.Background(), "Casablanca", 20, 0.8)
	if err != nil || len(got) != 0 {
		t.Fatalf("Search = %v, %v", got, err)
	}
	if catalog.metadataCalls != 0 {
		t.Fatal("metadata should not be loaded without hits")
	}
}

func TestSearchStoreUnavailable(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.err = errors.New("database is locked")
	_, err := NewSearcher(catalog, nil, nil).Search(context.Background(), "dune", 20, 0.8)
	if !errors.Is(err, services.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestSearchUsesDataCache(t *testing.T) {
	catalog := newFakeCatalog()
	data := cache.NewDataCache(100, map[string]time.Duration{cache.ClassSearch: time.Minute, cache.ClassMetadata: time.Minute}, nil)
	searcher := NewSearcher(catalog, data, nil)
	for i := 0; i < 3; i++ {
		if _, err := searcher.Search(context.Background(), "dune", 20, 0.8); err != nil {
			t.Fatalf("Search returned error: %v", err)
		}
	}
	if catalog.indexCalls != 1 || catalog.metadataCalls != 1 {
		t.Fatalf("expected cached loads, got index=%d metadata=%d", catalog.indexCalls, catalog.metadataCalls)
	}
}

func TestSortCandidatesUnknownYearLast(t *testing.T) {
	candidates := []Candidate{
		{CatalogUID: "c", Similarity: 0.9},
		{CatalogUID: "b", Similarity: 0.9, ReleaseYear: 1990},
		{CatalogUID: "a", Similarity: 0.95},
		{CatalogUID: "d", Similarity: 0.9, ReleaseYear: 2005},
	}
	SortCandidates(candidates)
	want := []string{"a", "d", "b", "c"}
	for i, uid := range want {
		if candidates[i].CatalogUID != uid {
			t.Fatalf("order = %v, want %v", UIDs(candidates), want)
		}
	}
}

func TestParseContentKind(t *testing.T) {
	tests := map[string]ContentKind{"Series": KindSeries, "películas": KindMovie, "tv": KindSeries, "": KindUnknown, "anime": KindUnknown}
	for in, want := range tests {
		if got := ParseContentKind(in); got != want {
			t.Errorf("ParseContentKind(%q) = %s, want %s", in, got, want)
		}
	}
}
