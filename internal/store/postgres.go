package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/mmcdole/cinelist/internal/domain"
)

const queryTimeout = 5 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS catalog_genres (
	catalog    TEXT PRIMARY KEY,
	dict       JSONB NOT NULL,
	fetched_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS catalog_history (
	catalog    TEXT PRIMARY KEY,
	last_query TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// PostgresStore implements domain.Store on a shared PostgreSQL database, so
// several API servers can share one genre cache. Rows are keyed by catalog
// URL; one database can hold any number of catalogs.
type PostgresStore struct {
	db      *sql.DB
	catalog string
	logger  *slog.Logger
	now     func() time.Time
}

var _ domain.Store = (*PostgresStore)(nil)

// NewPostgresStore connects to dsn and creates the tables if needed
func NewPostgresStore(dsn, catalogURL string, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database not reachable: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &PostgresStore{
		db:      db,
		catalog: strings.TrimRight(strings.ToLower(catalogURL), "/"),
		logger:  logger,
		now:     time.Now,
	}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), queryTimeout)
}

// === Genres ===

func (s *PostgresStore) GetGenres() (*domain.GenreDictionary, bool) {
	ctx, cancel := s.ctx()
	defer cancel()

	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT dict FROM catalog_genres WHERE catalog = $1`, s.catalog).Scan(&raw)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("genre cache read failed", "error", err)
		}
		return nil, false
	}

	var dict domain.GenreDictionary
	if err := json.Unmarshal(raw, &dict); err != nil {
		s.logger.Warn("genre cache entry is corrupt", "error", err)
		return nil, false
	}
	return &dict, true
}

func (s *PostgresStore) SaveGenres(dict *domain.GenreDictionary, fetchedAt time.Time) error {
	if dict == nil {
		return fmt.Errorf("save genres: nil dictionary")
	}
	raw, err := json.Marshal(dict)
	if err != nil {
		return err
	}

	ctx, cancel := s.ctx()
	defer cancel()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO catalog_genres (catalog, dict, fetched_at) VALUES ($1, $2, $3)
		ON CONFLICT (catalog) DO UPDATE SET dict = EXCLUDED.dict, fetched_at = EXCLUDED.fetched_at`,
		s.catalog, raw, fetchedAt.UTC())
	return err
}

// GenresFresh reports whether a stored dictionary is younger than maxAge.
// A non-positive maxAge means stored genres never expire.
func (s *PostgresStore) GenresFresh(maxAge time.Duration) bool {
	ctx, cancel := s.ctx()
	defer cancel()

	var fetched time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT fetched_at FROM catalog_genres WHERE catalog = $1`, s.catalog).Scan(&fetched)
	if err != nil {
		return false
	}
	if maxAge <= 0 {
		return true
	}
	return s.now().Sub(fetched) < maxAge
}

// === Browse history ===

func (s *PostgresStore) GetLastQuery() (string, bool) {
	ctx, cancel := s.ctx()
	defer cancel()

	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT last_query FROM catalog_history WHERE catalog = $1`, s.catalog).Scan(&raw)
	if err != nil {
		return "", false
	}
	return raw, true
}

func (s *PostgresStore) SaveLastQuery(rawQuery string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO catalog_history (catalog, last_query) VALUES ($1, $2)
		ON CONFLICT (catalog) DO UPDATE SET last_query = EXCLUDED.last_query, updated_at = NOW()`,
		s.catalog, rawQuery)
	return err
}

// === Invalidation ===

func (s *PostgresStore) InvalidateGenres() {
	s.exec(`DELETE FROM catalog_genres WHERE catalog = $1`)
}

func (s *PostgresStore) InvalidateAll() {
	s.exec(`DELETE FROM catalog_genres WHERE catalog = $1`)
	s.exec(`DELETE FROM catalog_history WHERE catalog = $1`)
}

func (s *PostgresStore) exec(query string) {
	ctx, cancel := s.ctx()
	defer cancel()
	if _, err := s.db.ExecContext(ctx, query, s.catalog); err != nil {
		s.logger.Warn("cache invalidation failed", "error", err)
	}
}
