package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"reelquery/internal/config"
	"reelquery/internal/logging"
	"reelquery/internal/services"
	"reelquery/internal/sqlguard"
)

// Store is the SQLite catalog.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Open connects to the catalog database named by cfg, creating it if needed.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "open", "configuration required", nil)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Clean(cfg.Catalog.Path)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.CatalogBusyTimeout().Milliseconds()),
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, logger: logging.NewComponentLogger(logger, "catalog")}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Run executes a validated read query and returns its rows. Busy errors are
// retried with backoff; other failures are reported as ErrStoreUnavailable.
func (s *Store) Run(ctx context.Context, q sqlguard.Query, params ...any) ([]sqlguard.Row, error) {
	if q.IsZero() {
		return nil, services.Wrap(services.ErrUnsafeQuery, "catalog", "run", "query was not validated", nil)
	}
	if s == nil || s.db == nil {
		return nil, services.Wrap(services.ErrStoreUnavailable, "catalog", "run", "catalog not open", nil)
	}
	ctx = ensureContext(ctx)

	var rows []sqlguard.Row
	err := retryOnBusy(ctx, func() error {
		var queryErr error
		rows, queryErr = s.query(ctx, q.String(), params...)
		return queryErr
	})
	if err != nil {
		return nil, services.Wrap(services.ErrStoreUnavailable, "catalog", "run", "query failed", err)
	}
	return rows, nil
}

func (s *Store) query(ctx context.Context, query string, params ...any) ([]sqlguard.Row, error) {
	result, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	columns, err := result.Columns()
	if err != nil {
		return nil, err
	}
	var rows []sqlguard.Row
	for result.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := result.Scan(pointers...); err != nil {
			return nil, err
		}
		row := make(sqlguard.Row, len(columns))
		for i, column := range columns {
			if b, ok := values[i].([]byte); ok {
				row[column] = string(b)
				continue
			}
			row[column] = values[i]
		}
		rows = append(rows, row)
	}
	return rows, result.Err()
}

func (s *Store) execWithRetry(ctx context.Context, tx *sql.Tx, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	})
}
