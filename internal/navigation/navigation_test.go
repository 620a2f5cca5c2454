package navigation

import (
	"errors"
	"net/url"
	"testing"

	"github.com/mmcdole/cinelist/internal/adapter"
	"github.com/mmcdole/cinelist/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaults = Defaults{Kind: domain.KindAll, Sort: domain.SortTopRated}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  domain.QueryParameters
	}{
		{
			name:  "empty uses defaults",
			query: "",
			want:  domain.QueryParameters{Kind: domain.KindAll, Sort: domain.SortTopRated},
		},
		{
			name:  "full query",
			query: "type=tv&sort_by=newest&genre=18,10765&q=+dark+",
			want: domain.QueryParameters{
				Kind:       domain.KindSeries,
				Sort:       domain.SortNewest,
				Genres:     domain.GenreSet{"10765", "18"},
				SearchText: "dark",
			},
		},
		{
			name:  "unknown type falls back to all",
			query: "type=podcast",
			want:  domain.QueryParameters{Kind: domain.KindAll, Sort: domain.SortTopRated},
		},
		{
			name:  "unknown sort keeps default",
			query: "type=movie&sort_by=popularity",
			want:  domain.QueryParameters{Kind: domain.KindMovie, Sort: domain.SortTopRated},
		},
		{
			name:  "repeated and blank genres",
			query: "genre=28,,12&genre=28",
			want:  domain.QueryParameters{Kind: domain.KindAll, Sort: domain.SortTopRated, Genres: domain.GenreSet{"12", "28"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuery(tt.query, defaults)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	params := domain.QueryParameters{
		Kind:       domain.KindMovie,
		Sort:       domain.SortNewest,
		Genres:     domain.NewGenreSet("35", "28"),
		SearchText: "heat",
	}
	values := Encode(params)
	assert.Equal(t, "28,35", values.Get(KeyGenre))
	assert.True(t, Parse(values, defaults).Equal(params))
}

func TestDefaultsFrom(t *testing.T) {
	assert.Equal(t, Defaults{Kind: domain.KindMovie, Sort: domain.SortNewest}, DefaultsFrom("movie", "newest"))
	assert.Equal(t, Defaults{Kind: domain.KindAll, Sort: domain.SortTopRated}, DefaultsFrom("bogus", ""))
}

func testDict() *domain.GenreDictionary {
	return &domain.GenreDictionary{
		Movie: []domain.Genre{
			{ID: "28", Name: "Action"},
			{ID: "878", Name: "Science Fiction"},
			{ID: "35", Name: "Comedy"},
		},
		Series: []domain.Genre{
			{ID: "10765", Name: "Sci-Fi & Fantasy"},
			{ID: "35", Name: "Comedy"},
		},
	}
}

func TestResolveGenres(t *testing.T) {
	dict := testDict()

	got, unmatched := ResolveGenres(domain.NewGenreSet("28", "comedy"), domain.KindMovie, dict)
	assert.Equal(t, domain.GenreSet{"28", "35"}, got)
	assert.Empty(t, unmatched)

	got, _ = ResolveGenres(domain.NewGenreSet("SCIENCE"), domain.KindMovie, dict)
	assert.Equal(t, domain.GenreSet{"878"}, got)

	got, unmatched = ResolveGenres(domain.NewGenreSet("western"), domain.KindMovie, dict)
	assert.Equal(t, domain.GenreSet{"western"}, got, "unmatched names still narrow the list")
	assert.Equal(t, domain.GenreSet{"western"}, unmatched)

	got, unmatched = ResolveGenres(domain.NewGenreSet("10765", "action"), domain.KindMovie, dict)
	assert.Equal(t, domain.GenreSet{"10765", "28"}, got)
	assert.Equal(t, domain.GenreSet{"10765"}, unmatched, "series-only id is not offered for movies")

	got, unmatched = ResolveGenres(domain.NewGenreSet("anything"), domain.KindAll, nil)
	assert.Equal(t, domain.GenreSet{"anything"}, got, "no dictionary, no resolution")
	assert.Empty(t, unmatched)
}

type recordingLoader struct {
	calls []domain.QueryParameters
}

func (r *recordingLoader) ResetAndLoad(params domain.QueryParameters) {
	r.calls = append(r.calls, params)
}

func TestBinder_SkipsUnchangedParams(t *testing.T) {
	loader := &recordingLoader{}
	b := NewBinder(loader, defaults, nil, adapter.NullLogger())

	assert.True(t, b.Apply(domain.QueryParameters{Kind: domain.KindMovie, Genres: domain.GenreSet{"28", "12"}}))
	assert.False(t, b.Apply(domain.QueryParameters{Kind: domain.KindMovie, Genres: domain.GenreSet{"12", "28"}}), "genre order is irrelevant")
	assert.True(t, b.Apply(domain.QueryParameters{Kind: domain.KindMovie, SearchText: "x"}))
	assert.Len(t, loader.calls, 2)

	b.Force(domain.QueryParameters{Kind: domain.KindMovie, SearchText: "x"})
	assert.Len(t, loader.calls, 3)
}

func TestBinder_FirstApplyAlwaysLoads(t *testing.T) {
	loader := &recordingLoader{}
	b := NewBinder(loader, defaults, nil, adapter.NullLogger())

	// Zero-value params still need an initial load
	assert.True(t, b.Apply(domain.QueryParameters{}))
	assert.Len(t, loader.calls, 1)
}

func TestBinder_ApplyValuesResolvesGenreNames(t *testing.T) {
	loader := &recordingLoader{}
	b := NewBinder(loader, defaults, nil, adapter.NullLogger())
	b.SetGenres(testDict())

	params, changed := b.ApplyValues(url.Values{KeyType: {"movie"}, KeyGenre: {"action"}})
	require.True(t, changed)
	assert.Equal(t, domain.GenreSet{"28"}, params.Genres)
	assert.Equal(t, params, loader.calls[0])
}

func TestBinder_ApplyValuesKeepsUnknownGenres(t *testing.T) {
	loader := &recordingLoader{}
	b := NewBinder(loader, defaults, nil, adapter.NullLogger())
	b.SetGenres(testDict())

	params, changed := b.ApplyValues(url.Values{KeyType: {"movie"}, KeyGenre: {"nonexistent"}})
	require.True(t, changed)
	assert.Equal(t, domain.GenreSet{"nonexistent"}, params.Genres, "an unknown genre never widens to an unfiltered list")
	require.Len(t, loader.calls, 1)
	assert.Equal(t, domain.GenreSet{"nonexistent"}, loader.calls[0].Genres)
}

type memoryHistoryStore struct {
	last    string
	saveErr error
}

func (m *memoryHistoryStore) GetLastQuery() (string, bool) { return m.last, m.last != "" }

func (m *memoryHistoryStore) SaveLastQuery(raw string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.last = raw
	return nil
}

func TestHistory_PushAndRestore(t *testing.T) {
	st := &memoryHistoryStore{}
	h := NewHistory(st, adapter.NullLogger())

	_, ok := h.Restore()
	assert.False(t, ok)

	h.Push("type=movie")
	h.Push("type=tv")
	h.Push("type=tv")
	assert.Equal(t, "type=tv", h.Current())
	assert.Equal(t, "type=movie", h.Previous())

	raw, ok := NewHistory(st, adapter.NullLogger()).Restore()
	require.True(t, ok)
	assert.Equal(t, "type=tv", raw)
}

func TestHistory_SaveErrorIsNotFatal(t *testing.T) {
	h := NewHistory(&memoryHistoryStore{saveErr: errors.New("disk full")}, adapter.NullLogger())
	h.Push("q=x")
	assert.Equal(t, "q=x", h.Current())
}

func TestBinder_RecordsHistory(t *testing.T) {
	st := &memoryHistoryStore{}
	h := NewHistory(st, adapter.NullLogger())
	b := NewBinder(&recordingLoader{}, defaults, h, adapter.NullLogger())

	b.Apply(domain.QueryParameters{Kind: domain.KindSeries, Sort: domain.SortNewest})
	assert.Equal(t, "sort_by=newest&type=tv", st.last)
}
