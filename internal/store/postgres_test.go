package store

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/cinelist/internal/adapter"
	"github.com/mmcdole/cinelist/internal/domain"
)

// newTestPostgresStore connects to CINELIST_TEST_DATABASE_URL. Each test gets
// its own catalog key so runs never see each other's rows.
func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("CINELIST_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CINELIST_TEST_DATABASE_URL not set")
	}

	s, err := NewPostgresStore(dsn, "https://test.invalid/"+uuid.NewString(), adapter.NullLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		s.InvalidateAll()
		s.Close()
	})
	return s
}

func TestPostgresStore_GenresRoundTrip(t *testing.T) {
	s := newTestPostgresStore(t)

	_, ok := s.GetGenres()
	assert.False(t, ok)
	assert.False(t, s.GenresFresh(time.Hour))

	dict := &domain.GenreDictionary{Movie: []domain.Genre{{ID: "28", Name: "Action"}}}
	require.NoError(t, s.SaveGenres(dict, time.Now()))

	got, ok := s.GetGenres()
	require.True(t, ok)
	assert.Equal(t, dict, got)
	assert.True(t, s.GenresFresh(time.Hour))

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.False(t, s.GenresFresh(time.Hour))
	assert.True(t, s.GenresFresh(0))

	s.InvalidateGenres()
	_, ok = s.GetGenres()
	assert.False(t, ok)
}

func TestPostgresStore_LastQuery(t *testing.T) {
	s := newTestPostgresStore(t)

	require.NoError(t, s.SaveLastQuery("type=movie"))
	require.NoError(t, s.SaveLastQuery("type=tv&q=heat"))

	raw, ok := s.GetLastQuery()
	require.True(t, ok)
	assert.Equal(t, "type=tv&q=heat", raw)
}

func TestPostgresStore_SaveNilGenres(t *testing.T) {
	s := newTestPostgresStore(t)
	assert.Error(t, s.SaveGenres(nil, time.Now()))
}
