package testsupport

import (
	"context"
	"testing"

	"reelquery/internal/catalog"
	"reelquery/internal/config"
	"reelquery/internal/logging"
)

// Fixture uids.
const (
	MatrixUID        = "a1b2c3d4e5f60718"
	MatrixReloadUID  = "a1b2c3d4e5f60719"
	DarkUID          = "b2c3d4e5f6071829"
	MoneyHeistUID    = "c3d4e5f607182930"
	RomaCuaronUID    = "d4e5f60718293041"
	RomaFelliniUID   = "d4e5f60718293042"
	BreakingBadUID   = "e5f6071829304152"
	MatrixExternalID = "tt0133093"
)

// MustOpenCatalog opens a catalog.Store for tests and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// SeedCatalog imports FixtureDataset into store.
func SeedCatalog(t testing.TB, store *catalog.Store) catalog.ImportSummary {
	t.Helper()

	summary, err := store.Import(context.Background(), FixtureDataset())
	if err != nil {
		t.Fatalf("store.Import: %v", err)
	}
	return summary
}

// FixtureDataset returns a small catalog covering movies, series, two
// titles sharing a name and popularity across 2023 and 2024.
func FixtureDataset() catalog.Dataset {
	return catalog.Dataset{Titles: []catalog.DatasetTitle{
		{
			UID:          MatrixUID,
			DisplayTitle: "The Matrix",
			Metadata: &catalog.DatasetMetadata{
				ExternalID:  MatrixExternalID,
				ReleaseYear: 1999,
				Kind:        "movie",
				Directors:   []string{"Lana Wachowski", "Lilly Wachowski"},
				Synopsis:    "A hacker learns the world is a simulation.",
			},
			Popularity: []catalog.DatasetPopularity{
				{Country: "US", Period: "2024-01", Hits: 500},
				{Country: "MX", Period: "2024-02-01", Hits: 300},
				{Country: "ES", Period: "2023-06", Hits: 50},
			},
			Availability: []catalog.DatasetOffer{
				{Country: "US", Platform: "Max"},
				{Country: "MX", Platform: "Netflix"},
			},
		},
		{
			UID:          MatrixReloadUID,
			DisplayTitle: "The Matrix Reloaded",
			Metadata: &catalog.DatasetMetadata{
				ExternalID:  "tt0234215",
				ReleaseYear: 2003,
				Kind:        "movie",
				Directors:   []string{"Lana Wachowski", "Lilly Wachowski"},
			},
			Popularity: []catalog.DatasetPopularity{
				{Country: "US", Period: "2024-03", Hits: 120},
			},
		},
		{
			UID:          DarkUID,
			DisplayTitle: "Dark",
			Metadata: &catalog.DatasetMetadata{
				ExternalID:  "tt5753856",
				ReleaseYear: 2017,
				Kind:        "series",
				Directors:   []string{"Baran bo Odar"},
			},
			Popularity: []catalog.DatasetPopularity{
				{Country: "DE", Period: "2024-05", Hits: 900},
				{Country: "US", Period: "2024-05", Hits: 200},
			},
			Availability: []catalog.DatasetOffer{{Country: "DE", Platform: "Netflix"}},
		},
		{
			UID:          MoneyHeistUID,
			DisplayTitle: "La Casa de Papel",
			Metadata: &catalog.DatasetMetadata{
				ExternalID:  "tt6468322",
				ReleaseYear: 2017,
				Kind:        "series",
				Directors:   []string{"Jesús Colmenar"},
			},
			Popularity: []catalog.DatasetPopularity{
				{Country: "ES", Period: "2024-07", Hits: 700},
				{Country: "MX", Period: "2024-07", Hits: 650},
			},
		},
		{
			UID:          RomaCuaronUID,
			DisplayTitle: "Roma",
			Metadata: &catalog.DatasetMetadata{
				ExternalID:  "tt6155172",
				ReleaseYear: 2018,
				Kind:        "movie",
				Directors:   []string{"Alfonso Cuarón"},
			},
			Popularity: []catalog.DatasetPopularity{
				{Country: "MX", Period: "2024-01", Hits: 400},
			},
		},
		{
			UID:          RomaFelliniUID,
			DisplayTitle: "Roma",
			Metadata: &catalog.DatasetMetadata{
				ExternalID:  "tt0069191",
				ReleaseYear: 1972,
				Kind:        "movie",
				Directors:   []string{"Federico Fellini"},
			},
			Popularity: []catalog.DatasetPopularity{
				{Country: "IT", Period: "2024-01", Hits: 40},
			},
		},
		{
			UID:          BreakingBadUID,
			DisplayTitle: "Breaking Bad",
			Metadata: &catalog.DatasetMetadata{
				ExternalID:  "tt0903747",
				ReleaseYear: 2008,
				Kind:        "series",
				Directors:   []string{"Vince Gilligan"},
			},
			Popularity: []catalog.DatasetPopularity{
				{Country: "US", Period: "2024-02", Hits: 800},
				{Country: "US", Period: "2023-02", Hits: 1000},
			},
		},
	}}
}
