package domain

import "time"

// Store handles the local cache (BoltDB + memory).
type Store interface {
	// === Genres ===
	GetGenres() (*GenreDictionary, bool)
	SaveGenres(dict *GenreDictionary, fetchedAt time.Time) error

	// === Freshness ===
	GenresFresh(maxAge time.Duration) bool

	// === Browse history ===
	GetLastQuery() (string, bool)
	SaveLastQuery(rawQuery string) error

	// === Invalidation ===
	InvalidateGenres()
	InvalidateAll()

	Close() error
}
