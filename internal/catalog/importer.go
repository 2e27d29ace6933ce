package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"reelquery/internal/identification"
	"reelquery/internal/logging"
	"reelquery/internal/services"
	"reelquery/internal/textutil"
)

// Dataset is the JSON import format.
type Dataset struct {
	Titles []DatasetTitle `json:"titles"`
}

// DatasetTitle is one title with its metadata, popularity and availability.
type DatasetTitle struct {
	UID          string              `json:"uid"`
	DisplayTitle string              `json:"display_title"`
	Metadata     *DatasetMetadata    `json:"metadata,omitempty"`
	Popularity   []DatasetPopularity `json:"popularity,omitempty"`
	Availability []DatasetOffer      `json:"availability,omitempty"`
}

// DatasetMetadata is the canonical metadata of a title.
type DatasetMetadata struct {
	ExternalID  string   `json:"external_id,omitempty"`
	ReleaseYear int      `json:"release_year,omitempty"`
	Kind        string   `json:"content_kind,omitempty"`
	Directors   []string `json:"directors,omitempty"`
	Synopsis    string   `json:"synopsis,omitempty"`
}

// DatasetPopularity is the hit count for one country and period.
type DatasetPopularity struct {
	Country string `json:"country"`
	Period  string `json:"period"`
	Hits    int64  `json:"hits"`
}

// DatasetOffer places a title on a platform in a country.
type DatasetOffer struct {
	Country  string `json:"country"`
	Platform string `json:"platform"`
}

// ImportSummary counts the rows written by Import.
type ImportSummary struct {
	Titles       int `json:"titles"`
	Metadata     int `json:"metadata"`
	Popularity   int `json:"popularity"`
	Availability int `json:"availability"`
}

// LoadDataset decodes a dataset and rejects unknown fields.
func LoadDataset(r io.Reader) (Dataset, error) {
	var ds Dataset
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&ds); err != nil {
		return Dataset{}, services.Wrap(services.ErrValidation, "catalog", "load dataset", "decode dataset", err)
	}
	for i, title := range ds.Titles {
		if strings.TrimSpace(title.UID) == "" {
			return Dataset{}, services.Wrap(services.ErrValidation, "catalog", "load dataset",
				fmt.Sprintf("title %d has no uid", i), nil)
		}
		if strings.TrimSpace(title.DisplayTitle) == "" {
			return Dataset{}, services.Wrap(services.ErrValidation, "catalog", "load dataset",
				fmt.Sprintf("title %q has no display_title", title.UID), nil)
		}
	}
	return ds, nil
}

// Import upserts ds in a single transaction.
func (s *Store) Import(ctx context.Context, ds Dataset) (ImportSummary, error) {
	if s == nil || s.db == nil {
		return ImportSummary{}, services.Wrap(services.ErrStoreUnavailable, "catalog", "import", "catalog not open", nil)
	}
	ctx = ensureContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var summary ImportSummary
	for _, title := range ds.Titles {
		uid := strings.ToLower(strings.TrimSpace(title.UID))
		display := strings.TrimSpace(title.DisplayTitle)
		if err := s.execWithRetry(ctx, tx,
			`INSERT INTO titles (uid, display_title, clean_title) VALUES (?, ?, ?)
			 ON CONFLICT(uid) DO UPDATE SET display_title = excluded.display_title, clean_title = excluded.clean_title`,
			uid, display, textutil.CleanTitle(display)); err != nil {
			return ImportSummary{}, fmt.Errorf("upsert title %s: %w", uid, err)
		}
		summary.Titles++

		if meta := title.Metadata; meta != nil {
			var externalID any
			if id := strings.ToLower(strings.TrimSpace(meta.ExternalID)); id != "" {
				externalID = id
			}
			var year any
			if meta.ReleaseYear > 0 {
				year = meta.ReleaseYear
			}
			if err := s.execWithRetry(ctx, tx,
				`INSERT INTO title_metadata (uid, external_id, release_year, content_kind, directors, synopsis)
				 VALUES (?, ?, ?, ?, ?, ?)
				 ON CONFLICT(uid) DO UPDATE SET external_id = excluded.external_id,
				   release_year = excluded.release_year, content_kind = excluded.content_kind,
				   directors = excluded.directors, synopsis = excluded.synopsis`,
				uid, externalID, year, string(identification.ParseContentKind(meta.Kind)),
				joinDirectors(meta.Directors), strings.TrimSpace(meta.Synopsis)); err != nil {
				return ImportSummary{}, fmt.Errorf("upsert metadata %s: %w", uid, err)
			}
			summary.Metadata++
		}

		for _, pop := range title.Popularity {
			period, err := normalizePeriod(pop.Period)
			if err != nil {
				return ImportSummary{}, services.Wrap(services.ErrValidation, "catalog", "import",
					fmt.Sprintf("title %s", uid), err)
			}
			if err := s.execWithRetry(ctx, tx,
				`INSERT INTO popularity (uid, country_iso2, period, hits) VALUES (?, ?, ?, ?)
				 ON CONFLICT(uid, country_iso2, period) DO UPDATE SET hits = excluded.hits`,
				uid, strings.ToUpper(strings.TrimSpace(pop.Country)), period, pop.Hits); err != nil {
				return ImportSummary{}, fmt.Errorf("upsert popularity %s: %w", uid, err)
			}
			summary.Popularity++
		}

		for _, offer := range title.Availability {
			platform := strings.TrimSpace(offer.Platform)
			if platform == "" {
				continue
			}
			if err := s.execWithRetry(ctx, tx,
				`INSERT OR IGNORE INTO availability (uid, country_iso2, platform) VALUES (?, ?, ?)`,
				uid, strings.ToUpper(strings.TrimSpace(offer.Country)), platform); err != nil {
				return ImportSummary{}, fmt.Errorf("insert availability %s: %w", uid, err)
			}
			summary.Availability++
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportSummary{}, fmt.Errorf("commit import: %w", err)
	}
	s.logger.Info("catalog import complete",
		logging.String(logging.FieldEventType, "catalog_import"),
		logging.Int("titles", summary.Titles),
		logging.Int("popularity_rows", summary.Popularity),
		logging.Int("availability_rows", summary.Availability),
	)
	return summary, nil
}

// normalizePeriod accepts YYYY-MM-DD or YYYY-MM (first of month).
func normalizePeriod(value string) (string, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(periodLayout, value); err == nil {
		return t.Format(periodLayout), nil
	}
	if t, err := time.Parse("2006-01", value); err == nil {
		return t.Format(periodLayout), nil
	}
	return "", fmt.Errorf("invalid period %q", value)
}
