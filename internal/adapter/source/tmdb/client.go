package tmdb

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/cinelist/internal/adapter/httpx"
	"github.com/mmcdole/cinelist/internal/domain"
)

const (
	// DefaultBaseURL is the public TMDB v3 API root
	DefaultBaseURL = "https://api.themoviedb.org/3"

	// TMDB refuses page numbers above 500 regardless of total_pages
	maxPage = 500

	// Top-rated lists ignore titles with fewer votes
	topRatedMinVotes = 200

	requestsPerSecond = 20
)

// Client implements domain.CatalogSource for The Movie Database.
// Pagination is page-number based; page numbers travel as decimal cursors.
type Client struct {
	http     *httpx.Client
	language string
	logger   *slog.Logger
	now      func() time.Time
}

// NewClient creates a new TMDB client. token is a v4 read access token.
func NewClient(baseURL, token, language string, timeout time.Duration, logger *slog.Logger) *Client {
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
		language: language,
		logger:   logger,
		now:      time.Now,
	}
}

// Discover lists movies or series through /discover
func (c *Client) Discover(
	ctx context.Context,
	kind domain.MediaKind,
	sort domain.SortOrder,
	genres domain.GenreSet,
	cursor domain.Cursor,
) (domain.Page, error) {
	page, err := decodeCursor(cursor)
	if err != nil {
		return domain.Page{}, err
	}

	query := c.baseQuery()
	query.Set("page", strconv.Itoa(page))
	query.Set("include_adult", "false")
	if len(genres) > 0 {
		// "|" is OR in TMDB's filter syntax, "," would be AND
		query.Set("with_genres", strings.Join(genres, "|"))
	}

	today := c.now().Format("2006-01-02")
	switch {
	case sort == domain.SortTopRated:
		query.Set("sort_by", "vote_average.desc")
		query.Set("vote_count.gte", strconv.Itoa(topRatedMinVotes))
	case kind == domain.KindSeries:
		query.Set("sort_by", "first_air_date.desc")
		query.Set("first_air_date.lte", today)
	default:
		query.Set("sort_by", "primary_release_date.desc")
		query.Set("primary_release_date.lte", today)
	}

	var resp PagedResponse
	if err := c.http.GetJSON(ctx, "/discover/"+endpointKind(kind), query, &resp); err != nil {
		return domain.Page{}, err
	}

	items := MapResults(resp.Results, kind)
	c.logger.Debug("tmdb discover", "kind", kind, "page", resp.Page, "totalPages", resp.TotalPages, "count", len(items))
	return domain.Page{Items: items, Next: nextCursor(resp)}, nil
}

// Search runs a text search; All goes through /search/multi
func (c *Client) Search(ctx context.Context, text string, kind domain.MediaKind, cursor domain.Cursor) (domain.Page, error) {
	page, err := decodeCursor(cursor)
	if err != nil {
		return domain.Page{}, err
	}

	query := c.baseQuery()
	query.Set("query", text)
	query.Set("page", strconv.Itoa(page))
	query.Set("include_adult", "false")

	path := "/search/multi"
	if kind != domain.KindAll {
		path = "/search/" + endpointKind(kind)
	}

	var resp PagedResponse
	if err := c.http.GetJSON(ctx, path, query, &resp); err != nil {
		return domain.Page{}, err
	}

	items := MapResults(resp.Results, kind)
	c.logger.Debug("tmdb search", "kind", kind, "page", resp.Page, "totalPages", resp.TotalPages, "count", len(items))
	return domain.Page{Items: items, Next: nextCursor(resp)}, nil
}

// Genres loads the genre list for one kind
func (c *Client) Genres(ctx context.Context, kind domain.MediaKind) ([]domain.Genre, error) {
	var resp GenreResponse
	if err := c.http.GetJSON(ctx, "/genre/"+endpointKind(kind)+"/list", c.baseQuery(), &resp); err != nil {
		return nil, err
	}
	return MapGenres(resp.Genres), nil
}

// Detail loads a movie or series with credits appended
func (c *Client) Detail(ctx context.Context, kind domain.MediaKind, id string) (*domain.TitleDetail, error) {
	if kind == domain.KindAll {
		return nil, fmt.Errorf("tmdb detail needs a concrete kind for %s", id)
	}
	if _, err := strconv.Atoi(id); err != nil {
		return nil, fmt.Errorf("tmdb id %q: %w", id, domain.ErrItemNotFound)
	}

	query := c.baseQuery()
	query.Set("append_to_response", "credits")

	var resp Details
	if err := c.http.GetJSON(ctx, "/"+endpointKind(kind)+"/"+id, query, &resp); err != nil {
		return nil, err
	}
	return MapDetails(resp, kind), nil
}

func (c *Client) baseQuery() url.Values {
	query := url.Values{}
	if c.language != "" {
		query.Set("language", c.language)
	}
	return query
}

func endpointKind(kind domain.MediaKind) string {
	if kind == domain.KindSeries {
		return "tv"
	}
	return "movie"
}

// decodeCursor turns a cursor into a 1-based page number
func decodeCursor(cursor domain.Cursor) (int, error) {
	if cursor == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(string(cursor))
	if err != nil || page < 1 || page > maxPage {
		return 0, fmt.Errorf("tmdb cursor %q: %w", cursor, domain.ErrInvalidCursor)
	}
	return page, nil
}

func nextCursor(resp PagedResponse) domain.Cursor {
	last := min(resp.TotalPages, maxPage)
	if len(resp.Results) == 0 || resp.Page >= last {
		return ""
	}
	return domain.Cursor(strconv.Itoa(resp.Page + 1))
}
