package store

import (
	"testing"
	"time"

	"github.com/mmcdole/cinelist/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDict() *domain.GenreDictionary {
	return &domain.GenreDictionary{
		Movie:  []domain.Genre{{ID: "28", Name: "Action"}, {ID: "18", Name: "Drama"}},
		Series: []domain.Genre{{ID: "18", Name: "Drama"}, {ID: "10765", Name: "Sci-Fi & Fantasy"}},
	}
}

func TestCatalogStore_GenresRoundTripOnDisk(t *testing.T) {
	dir := t.TempDir()

	s, err := NewCatalogStore(dir, "https://api.themoviedb.org/3")
	require.NoError(t, err)

	_, ok := s.GetGenres()
	assert.False(t, ok)

	require.NoError(t, s.SaveGenres(sampleDict(), time.Now()))
	require.NoError(t, s.Close())

	// Reopen: data must come back from bolt, not the memory cache
	s, err = NewCatalogStore(dir, "https://api.themoviedb.org/3/")
	require.NoError(t, err)
	defer s.Close()

	dict, ok := s.GetGenres()
	require.True(t, ok)
	assert.Equal(t, sampleDict(), dict)
}

func TestCatalogStore_SeparateDirectoryPerCatalog(t *testing.T) {
	dir := t.TempDir()

	tmdb, err := NewCatalogStore(dir, "https://api.themoviedb.org/3")
	require.NoError(t, err)
	defer tmdb.Close()
	require.NoError(t, tmdb.SaveGenres(sampleDict(), time.Now()))

	imdb, err := NewCatalogStore(dir, "https://api.imdbapi.dev")
	require.NoError(t, err)
	defer imdb.Close()

	_, ok := imdb.GetGenres()
	assert.False(t, ok)
}

func TestCatalogStore_GenresFresh(t *testing.T) {
	s, err := NewCatalogStore("", "")
	require.NoError(t, err)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	assert.False(t, s.GenresFresh(time.Hour), "nothing stored yet")

	require.NoError(t, s.SaveGenres(sampleDict(), now.Add(-30*time.Minute)))
	assert.True(t, s.GenresFresh(time.Hour))
	assert.False(t, s.GenresFresh(10*time.Minute))
	assert.True(t, s.GenresFresh(0), "zero max age never expires")
}

func TestCatalogStore_LastQuery(t *testing.T) {
	s, err := NewCatalogStore(t.TempDir(), "")
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.GetLastQuery()
	assert.False(t, ok)

	require.NoError(t, s.SaveLastQuery("type=movie&sort_by=newest"))
	raw, ok := s.GetLastQuery()
	require.True(t, ok)
	assert.Equal(t, "type=movie&sort_by=newest", raw)
}

func TestCatalogStore_Invalidate(t *testing.T) {
	s, err := NewCatalogStore(t.TempDir(), "")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveGenres(sampleDict(), time.Now()))
	require.NoError(t, s.SaveLastQuery("q=alien"))

	s.InvalidateGenres()
	_, ok := s.GetGenres()
	assert.False(t, ok)
	_, ok = s.GetLastQuery()
	assert.True(t, ok, "history survives genre invalidation")

	s.InvalidateAll()
	_, ok = s.GetLastQuery()
	assert.False(t, ok)
}

func TestCatalogStore_SaveNilGenres(t *testing.T) {
	s, err := NewCatalogStore("", "")
	require.NoError(t, err)
	assert.Error(t, s.SaveGenres(nil, time.Now()))
}
