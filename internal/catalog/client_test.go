package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/cinelist/internal/adapter"
	"github.com/mmcdole/cinelist/internal/domain"
	"github.com/mmcdole/cinelist/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves fixed pages keyed by kind and cursor
type fakeSource struct {
	mu          sync.Mutex
	pages       map[domain.MediaKind]map[domain.Cursor]domain.Page
	discoverErr map[domain.MediaKind]error
	genres      map[domain.MediaKind][]domain.Genre
	genresErr   error
	genreCalls  int
	calls       []string

	// searchPages, when set, replaces the single canned search hit
	searchPages map[domain.Cursor]domain.Page
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pages:       map[domain.MediaKind]map[domain.Cursor]domain.Page{},
		discoverErr: map[domain.MediaKind]error{},
		genres:      map[domain.MediaKind][]domain.Genre{},
	}
}

func (f *fakeSource) setPage(kind domain.MediaKind, cursor domain.Cursor, next domain.Cursor, titles ...string) {
	if f.pages[kind] == nil {
		f.pages[kind] = map[domain.Cursor]domain.Page{}
	}
	items := make([]domain.CatalogItem, len(titles))
	for i, t := range titles {
		items[i] = domain.CatalogItem{ID: t, Title: t, Kind: kind}
	}
	f.pages[kind][cursor] = domain.Page{Items: items, Next: next}
}

func (f *fakeSource) Discover(_ context.Context, kind domain.MediaKind, _ domain.SortOrder, _ domain.GenreSet, cursor domain.Cursor) (domain.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("%s:%s", kind, cursor))
	if err := f.discoverErr[kind]; err != nil {
		return domain.Page{}, err
	}
	return f.pages[kind][cursor], nil
}

func (f *fakeSource) Search(_ context.Context, text string, kind domain.MediaKind, cursor domain.Cursor) (domain.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("search:%s:%s:%s", text, kind, cursor))
	if f.searchPages != nil {
		return f.searchPages[cursor], nil
	}
	return domain.Page{Items: []domain.CatalogItem{{ID: "s1", Title: text, Kind: domain.KindMovie}}}, nil
}

func (f *fakeSource) Genres(_ context.Context, kind domain.MediaKind) ([]domain.Genre, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genreCalls++
	if f.genresErr != nil {
		return nil, f.genresErr
	}
	return f.genres[kind], nil
}

func (f *fakeSource) Detail(_ context.Context, kind domain.MediaKind, id string) (*domain.TitleDetail, error) {
	return &domain.TitleDetail{CatalogItem: domain.CatalogItem{ID: id, Kind: kind}}, nil
}

func titles(items []domain.CatalogItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestFetchList_ConcreteKindPassesThrough(t *testing.T) {
	src := newFakeSource()
	src.setPage(domain.KindMovie, "", "2", "A", "B")
	c := NewClient(src, nil, 0, adapter.NullLogger())

	page, err := c.FetchList(context.Background(), domain.KindMovie, domain.SortNewest, nil, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, titles(page.Items))
	assert.Equal(t, domain.Cursor("2"), page.Next)
}

func TestFetchList_AllInterleavesByRank(t *testing.T) {
	src := newFakeSource()
	src.setPage(domain.KindMovie, "", "m2", "M1", "M2", "M3")
	src.setPage(domain.KindSeries, "", "s2", "S1")
	c := NewClient(src, nil, 0, adapter.NullLogger())

	page, err := c.FetchList(context.Background(), domain.KindAll, domain.SortTopRated, nil, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"M1", "S1", "M2", "M3"}, titles(page.Items))
	assert.NotEmpty(t, page.Next)
}

func TestFetchList_AllStopsQueryingExhaustedKind(t *testing.T) {
	src := newFakeSource()
	src.setPage(domain.KindMovie, "", "m2", "M1")
	src.setPage(domain.KindSeries, "", "", "S1")
	src.setPage(domain.KindMovie, "m2", "", "M2")
	c := NewClient(src, nil, 0, adapter.NullLogger())

	first, err := c.FetchList(context.Background(), domain.KindAll, domain.SortNewest, nil, "")
	require.NoError(t, err)
	require.NotEmpty(t, first.Next)

	src.calls = nil
	second, err := c.FetchList(context.Background(), domain.KindAll, domain.SortNewest, nil, first.Next)
	require.NoError(t, err)
	assert.Equal(t, []string{"M2"}, titles(second.Items))
	assert.Equal(t, []string{"movie:m2"}, src.calls, "series is exhausted and must not be queried")
	assert.Empty(t, second.Next, "both kinds exhausted")
}

func TestFetchList_AllEmptyEndsPagination(t *testing.T) {
	src := newFakeSource()
	c := NewClient(src, nil, 0, adapter.NullLogger())

	page, err := c.FetchList(context.Background(), domain.KindAll, domain.SortNewest, nil, "")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Empty(t, page.Next)
}

func TestFetchList_AllFailsWhenOneKindFails(t *testing.T) {
	src := newFakeSource()
	src.setPage(domain.KindMovie, "", "m2", "M1")
	src.discoverErr[domain.KindSeries] = &domain.APIError{Op: "GET /discover/tv", Status: 500}
	c := NewClient(src, nil, 0, adapter.NullLogger())

	_, err := c.FetchList(context.Background(), domain.KindAll, domain.SortNewest, nil, "")
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.Status)
}

func TestFetchList_InvalidMergedCursor(t *testing.T) {
	c := NewClient(newFakeSource(), nil, 0, adapter.NullLogger())

	_, err := c.FetchList(context.Background(), domain.KindAll, domain.SortNewest, nil, "%%%not-base64")
	assert.ErrorIs(t, err, domain.ErrInvalidCursor)
}

func TestSearch_PassesKindAndCursor(t *testing.T) {
	src := newFakeSource()
	c := NewClient(src, nil, 0, adapter.NullLogger())

	page, err := c.Search(context.Background(), "alien", domain.KindSeries, "3")
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, []string{"search:alien:tv:3"}, src.calls)
}

func TestSearch_SkipsEmptyPagesWithCursor(t *testing.T) {
	src := newFakeSource()
	src.searchPages = map[domain.Cursor]domain.Page{
		"":  {Next: "2"},
		"2": {Next: "3"},
		"3": {Items: []domain.CatalogItem{{ID: "t1", Title: "Heat"}}, Next: "4"},
	}
	c := NewClient(src, nil, 0, adapter.NullLogger())

	page, err := c.Search(context.Background(), "heat", domain.KindMovie, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Heat"}, titles(page.Items))
	assert.Equal(t, domain.Cursor("4"), page.Next)
	assert.Equal(t, []string{"search:heat:movie:", "search:heat:movie:2", "search:heat:movie:3"}, src.calls)
}

func TestSearch_EmptyPageSkipsAreBounded(t *testing.T) {
	src := newFakeSource()
	src.searchPages = map[domain.Cursor]domain.Page{}
	for i := 0; i <= maxEmptySkips+2; i++ {
		cur := domain.Cursor("")
		if i > 0 {
			cur = domain.Cursor(fmt.Sprint(i))
		}
		src.searchPages[cur] = domain.Page{Next: domain.Cursor(fmt.Sprint(i + 1))}
	}
	c := NewClient(src, nil, 0, adapter.NullLogger())

	page, err := c.Search(context.Background(), "x", domain.KindAll, "")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Len(t, src.calls, maxEmptySkips+1)
}

func TestFetchList_ConcreteKindSkipsEmptyPage(t *testing.T) {
	src := newFakeSource()
	src.setPage(domain.KindMovie, "", "2")
	src.setPage(domain.KindMovie, "2", "", "A")
	c := NewClient(src, nil, 0, adapter.NullLogger())

	page, err := c.FetchList(context.Background(), domain.KindMovie, domain.SortTopRated, nil, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, titles(page.Items))
	assert.True(t, page.Done())
}

func TestDetail_EmptyID(t *testing.T) {
	c := NewClient(newFakeSource(), nil, 0, adapter.NullLogger())
	_, err := c.Detail(context.Background(), domain.KindMovie, "")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestFetchGenres_Memoized(t *testing.T) {
	src := newFakeSource()
	src.genres[domain.KindMovie] = []domain.Genre{{ID: "28", Name: "Action"}}
	src.genres[domain.KindSeries] = []domain.Genre{{ID: "18", Name: "Drama"}}
	c := NewClient(src, nil, 0, adapter.NullLogger())

	first, err := c.FetchGenres(context.Background())
	require.NoError(t, err)
	second, err := c.FetchGenres(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 2, src.genreCalls, "one call per kind, once")
	assert.Equal(t, "Action", first.Name("28"))
}

func TestFetchGenres_FailureNotMemoized(t *testing.T) {
	src := newFakeSource()
	src.genresErr = errors.New("boom")
	c := NewClient(src, nil, 0, adapter.NullLogger())

	_, err := c.FetchGenres(context.Background())
	require.Error(t, err)

	src.genresErr = nil
	src.genres[domain.KindMovie] = []domain.Genre{{ID: "28", Name: "Action"}}
	dict, err := c.FetchGenres(context.Background())
	require.NoError(t, err)
	assert.Len(t, dict.Movie, 1)
}

func TestFetchGenres_UsesFreshStore(t *testing.T) {
	s, err := store.NewCatalogStore("", "")
	require.NoError(t, err)
	cached := &domain.GenreDictionary{Movie: []domain.Genre{{ID: "1", Name: "Cached"}}}
	require.NoError(t, s.SaveGenres(cached, time.Now()))

	src := newFakeSource()
	c := NewClient(src, s, time.Hour, adapter.NullLogger())

	dict, err := c.FetchGenres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Cached", dict.Name("1"))
	assert.Zero(t, src.genreCalls)
}

func TestFetchGenres_StaleStoreFallback(t *testing.T) {
	s, err := store.NewCatalogStore("", "")
	require.NoError(t, err)
	stale := &domain.GenreDictionary{Movie: []domain.Genre{{ID: "1", Name: "Old"}}}
	require.NoError(t, s.SaveGenres(stale, time.Now().Add(-48*time.Hour)))

	src := newFakeSource()
	src.genresErr = errors.New("offline")
	c := NewClient(src, s, time.Hour, adapter.NullLogger())

	dict, err := c.FetchGenres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Old", dict.Name("1"))
	assert.Equal(t, 2, src.genreCalls, "stale cache triggers a refresh attempt")
}

func TestFetchGenres_SavesToStore(t *testing.T) {
	s, err := store.NewCatalogStore("", "")
	require.NoError(t, err)

	src := newFakeSource()
	src.genres[domain.KindSeries] = []domain.Genre{{ID: "18", Name: "Drama"}}
	c := NewClient(src, s, time.Hour, adapter.NullLogger())

	_, err = c.FetchGenres(context.Background())
	require.NoError(t, err)

	saved, ok := s.GetGenres()
	require.True(t, ok)
	assert.Equal(t, "Drama", saved.Name("18"))
	assert.True(t, s.GenresFresh(time.Hour))
}
