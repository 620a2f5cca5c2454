package imdb

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/mmcdole/cinelist/internal/adapter/httpx"
	"github.com/mmcdole/cinelist/internal/domain"
)

const (
	// DefaultBaseURL is the public IMDb API root
	DefaultBaseURL = "https://api.imdbapi.dev"

	topRatedMinVotes  = 1000
	requestsPerSecond = 10
)

// Client implements domain.CatalogSource for the IMDb API.
// Pagination uses the API's opaque nextPageToken as the cursor verbatim.
type Client struct {
	http   *httpx.Client
	logger *slog.Logger
}

// NewClient creates a new IMDb API client. The public API needs no token.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http: httpx.New(httpx.Options{
			BaseURL:           baseURL,
			Token:             token,
			Timeout:           timeout,
			RequestsPerSecond: requestsPerSecond,
			Burst:             requestsPerSecond,
			Logger:            logger,
		}),
		logger: logger,
	}
}

// Discover lists titles of one kind through /titles
func (c *Client) Discover(
	ctx context.Context,
	kind domain.MediaKind,
	sort domain.SortOrder,
	genres domain.GenreSet,
	cursor domain.Cursor,
) (domain.Page, error) {
	query := url.Values{}
	for _, t := range TitleTypes(kind) {
		query.Add("types", t)
	}
	for _, g := range genres {
		query.Add("genres", g)
	}
	query.Set("sortOrder", "DESC")
	if sort == domain.SortTopRated {
		query.Set("sortBy", "SORT_BY_USER_RATING")
		query.Set("minVoteCount", strconv.Itoa(topRatedMinVotes))
	} else {
		query.Set("sortBy", "SORT_BY_RELEASE_DATE")
	}
	if cursor != "" {
		query.Set("pageToken", string(cursor))
	}

	var resp ListTitlesResponse
	if err := c.http.GetJSON(ctx, "/titles", query, &resp); err != nil {
		return domain.Page{}, err
	}

	items := MapTitles(resp.Titles, kind)
	c.logger.Debug("imdb discover", "kind", kind, "count", len(items), "hasNext", resp.NextPageToken != "")
	return domain.Page{Items: items, Next: domain.Cursor(resp.NextPageToken)}, nil
}

// Search runs /search/titles. The endpoint has no type parameter so kind is applied to the results.
func (c *Client) Search(ctx context.Context, text string, kind domain.MediaKind, cursor domain.Cursor) (domain.Page, error) {
	query := url.Values{}
	query.Set("query", text)
	if cursor != "" {
		query.Set("pageToken", string(cursor))
	}

	var resp SearchTitlesResponse
	if err := c.http.GetJSON(ctx, "/search/titles", query, &resp); err != nil {
		return domain.Page{}, err
	}

	items := MapTitles(resp.Titles, kind)
	c.logger.Debug("imdb search", "kind", kind, "count", len(items), "hasNext", resp.NextPageToken != "")
	return domain.Page{Items: items, Next: domain.Cursor(resp.NextPageToken)}, nil
}

// Genres returns the shared genre taxonomy; IMDb uses one list for every kind
func (c *Client) Genres(ctx context.Context, kind domain.MediaKind) ([]domain.Genre, error) {
	var resp InterestCategoriesResponse
	if err := c.http.GetJSON(ctx, "/interests", nil, &resp); err != nil {
		return nil, err
	}
	return MapGenres(resp.Categories), nil
}

// Detail loads a single title
func (c *Client) Detail(ctx context.Context, kind domain.MediaKind, id string) (*domain.TitleDetail, error) {
	if id == "" {
		return nil, fmt.Errorf("imdb detail: %w", domain.ErrItemNotFound)
	}

	var resp Title
	if err := c.http.GetJSON(ctx, "/titles/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return MapDetails(resp), nil
}
