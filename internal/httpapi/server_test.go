package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mmcdole/cinelist/internal/adapter"
	"github.com/mmcdole/cinelist/internal/domain"
	"github.com/mmcdole/cinelist/internal/navigation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	mu        sync.Mutex
	listCalls []string
	genresErr error
}

func (f *fakeCatalog) FetchList(_ context.Context, kind domain.MediaKind, _ domain.SortOrder, genres domain.GenreSet, cursor domain.Cursor) (domain.Page, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, kind.String()+"|"+strings.Join(genres, ",")+"|"+string(cursor))
	f.mu.Unlock()

	switch cursor {
	case "":
		return domain.Page{Items: []domain.CatalogItem{{ID: "1", Title: "One", Kind: domain.KindMovie}}, Next: "2"}, nil
	case "2":
		return domain.Page{Items: []domain.CatalogItem{{ID: "2", Title: "Two", Kind: domain.KindMovie}}}, nil
	default:
		return domain.Page{}, domain.ErrInvalidCursor
	}
}

func (f *fakeCatalog) Search(_ context.Context, text string, _ domain.MediaKind, _ domain.Cursor) (domain.Page, error) {
	return domain.Page{Items: []domain.CatalogItem{
		{ID: "a", Title: text, Kind: domain.KindMovie, GenreIDs: []string{"28"}},
		{ID: "b", Title: text, Kind: domain.KindSeries, GenreIDs: []string{"18"}},
	}}, nil
}

func (f *fakeCatalog) FetchGenres(context.Context) (*domain.GenreDictionary, error) {
	if f.genresErr != nil {
		return nil, f.genresErr
	}
	return &domain.GenreDictionary{
		Movie:  []domain.Genre{{ID: "28", Name: "action"}},
		Series: []domain.Genre{{ID: "18", Name: "drama"}},
	}, nil
}

func (f *fakeCatalog) Detail(_ context.Context, kind domain.MediaKind, id string) (*domain.TitleDetail, error) {
	if id == "missing" {
		return nil, domain.ErrItemNotFound
	}
	return &domain.TitleDetail{CatalogItem: domain.CatalogItem{ID: id, Title: "Heat", Kind: kind}, Overview: "Crime."}, nil
}

func (f *fakeCatalog) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.listCalls...)
}

func newTestServer(t *testing.T, cat *fakeCatalog) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := New(cat, Options{
		SessionTTL:  time.Hour,
		PageTimeout: time.Second,
		Defaults:    navigation.Defaults{Kind: domain.KindAll, Sort: domain.SortTopRated},
		Logger:      adapter.NullLogger(),
	})
	t.Cleanup(s.sessions.closeAll)
	return s
}

func do(t *testing.T, s *Server, method, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

type stateBody struct {
	Items []struct {
		ID string `json:"id"`
	} `json:"items"`
	HasMore   bool   `json:"hasMore"`
	Phase     string `json:"phase"`
	Error     string `json:"error"`
	Triggered bool   `json:"triggered"`
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) stateBody {
	t.Helper()
	var body stateBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (b stateBody) ids() []string {
	out := make([]string, len(b.Items))
	for i, it := range b.Items {
		out[i] = it.ID
	}
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &fakeCatalog{})
	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestTitles_ListAndPaginate(t *testing.T) {
	cat := &fakeCatalog{}
	s := newTestServer(t, cat)

	rec := do(t, s, http.MethodGet, "/api/titles?type=movie&sort_by=newest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeState(t, rec)
	assert.Equal(t, []string{"1"}, body.ids())
	assert.True(t, body.HasMore)
	assert.Equal(t, "ready", body.Phase)

	cookie := sessionCookie(t, rec)

	rec = do(t, s, http.MethodPost, "/api/titles/more", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeState(t, rec)
	assert.True(t, body.Triggered)
	assert.Equal(t, []string{"1", "2"}, body.ids())
	assert.False(t, body.HasMore)

	rec = do(t, s, http.MethodPost, "/api/titles/more", cookie)
	body = decodeState(t, rec)
	assert.False(t, body.Triggered, "no more pages")
	assert.Len(t, body.Items, 2)
}

func TestTitles_UnchangedQueryDoesNotReload(t *testing.T) {
	cat := &fakeCatalog{}
	s := newTestServer(t, cat)

	rec := do(t, s, http.MethodGet, "/api/titles?type=movie", nil)
	cookie := sessionCookie(t, rec)
	do(t, s, http.MethodGet, "/api/titles?type=movie", cookie)
	assert.Len(t, cat.calls(), 1)

	do(t, s, http.MethodGet, "/api/titles?type=movie&refresh=1", cookie)
	assert.Len(t, cat.calls(), 2)
}

func TestTitles_SessionsAreIsolated(t *testing.T) {
	cat := &fakeCatalog{}
	s := newTestServer(t, cat)

	first := do(t, s, http.MethodGet, "/api/titles?type=movie", nil)
	second := do(t, s, http.MethodGet, "/api/titles?type=movie", nil)
	assert.NotEqual(t, sessionCookie(t, first).Value, sessionCookie(t, second).Value)
	assert.Len(t, cat.calls(), 2)
	assert.Equal(t, 2, s.sessions.count())
}

func TestTitles_SearchPostFiltersByResolvedGenreName(t *testing.T) {
	s := newTestServer(t, &fakeCatalog{})

	rec := do(t, s, http.MethodGet, "/api/titles?q=heat&genre=Drama", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"b"}, decodeState(t, rec).ids())
}

func TestTitles_GenreFailureStillLists(t *testing.T) {
	cat := &fakeCatalog{genresErr: errors.New("down")}
	s := newTestServer(t, cat)

	rec := do(t, s, http.MethodGet, "/api/titles?type=movie&genre=28", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"movie|28|"}, cat.calls())
}

func TestTitles_BogusCookieGetsNewSession(t *testing.T) {
	s := newTestServer(t, &fakeCatalog{})
	rec := do(t, s, http.MethodGet, "/api/titles", &http.Cookie{Name: SessionCookie, Value: "not-a-uuid"})
	assert.NotEqual(t, "not-a-uuid", sessionCookie(t, rec).Value)
}

func TestGenres(t *testing.T) {
	s := newTestServer(t, &fakeCatalog{})

	rec := do(t, s, http.MethodGet, "/api/genres?type=all", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"kind":"all","genres":[{"id":"28","name":"Action"},{"id":"18","name":"Drama"}]}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/api/genres?type=podcast", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenres_UpstreamFailure(t *testing.T) {
	s := newTestServer(t, &fakeCatalog{genresErr: &domain.NetworkError{Op: "GET /genre/movie/list", Err: errors.New("refused")}})
	rec := do(t, s, http.MethodGet, "/api/genres", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestDetail(t *testing.T) {
	s := newTestServer(t, &fakeCatalog{})

	rec := do(t, s, http.MethodGet, "/api/titles/movie/949", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail domain.TitleDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "949", detail.ID)
	assert.Equal(t, domain.KindMovie, detail.Kind)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/titles/tv/missing", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/titles/all/949", nil).Code)
}

func TestSessions_EvictIdle(t *testing.T) {
	s := newTestServer(t, &fakeCatalog{})
	now := time.Now()
	s.sessions.now = func() time.Time { return now }

	do(t, s, http.MethodGet, "/health", nil)
	rec := do(t, s, http.MethodGet, "/api/titles", nil)
	cookie := sessionCookie(t, rec)
	require.Equal(t, 1, s.sessions.count())

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, s.sessions.evictIdle())
	assert.Zero(t, s.sessions.count())

	rec = do(t, s, http.MethodGet, "/api/titles", cookie)
	assert.NotEqual(t, cookie.Value, sessionCookie(t, rec).Value, "evicted session is replaced")
}
