package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/cinelist/internal/adapter"
	"github.com/mmcdole/cinelist/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(Options{BaseURL: srv.URL + "/", Token: "secret", Logger: adapter.NullLogger()})
	c.retryDelay = time.Millisecond
	return c
}

func TestGetJSON_SendsHeadersAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/movie", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)

		w.Write([]byte(`{"page":2}`))
	})

	var out struct {
		Page int `json:"page"`
	}
	require.NoError(t, c.GetJSON(context.Background(), "/discover/movie", url.Values{"page": {"2"}}, &out))
	assert.Equal(t, 2, out.Page)
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	})

	_, err := c.Get(context.Background(), "/x", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())
}

func TestGet_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status_message":"maintenance"}`))
	})

	_, err := c.Get(context.Background(), "/x", nil)

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Equal(t, "maintenance", apiErr.Message)
	assert.EqualValues(t, maxRetries+1, calls.Load())
}

func TestGet_MapsStatuses(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrAuthFailed},
		{http.StatusNotFound, domain.ErrItemNotFound},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := c.Get(context.Background(), "/x", nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGet_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"bad page"}`))
	})

	_, err := c.Get(context.Background(), "/x", nil)

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "bad page", apiErr.Message)
	assert.EqualValues(t, 1, calls.Load())
}

func TestGet_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := New(Options{BaseURL: srv.URL, Logger: adapter.NullLogger()})
	_, err := c.Get(context.Background(), "/x", nil)

	var netErr *domain.NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestGet_CanceledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "/x", nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNew_TrimsBaseURL(t *testing.T) {
	c := New(Options{BaseURL: "https://api.example.com/3/"})
	assert.Equal(t, "https://api.example.com/3", c.BaseURL())
}
