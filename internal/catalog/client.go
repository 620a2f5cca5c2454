package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/cinelist/internal/domain"
)

// maxEmptySkips bounds how many empty pages are skipped in one call. Providers
// that filter results after paging can return an empty page mid-list.
const maxEmptySkips = 5

// Client normalizes a provider backend into the list, search, genre and
// detail operations the rest of the app consumes.
type Client struct {
	source   domain.CatalogSource
	store    domain.Store // optional
	genreTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time

	genresMu sync.Mutex
	genres   *domain.GenreDictionary
}

var (
	_ domain.Catalog       = (*Client)(nil)
	_ domain.GenreProvider = (*Client)(nil)
)

// NewClient creates a catalog client. store may be nil to disable the genre cache.
func NewClient(source domain.CatalogSource, store domain.Store, genreTTL time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		source:   source,
		store:    store,
		genreTTL: genreTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// FetchList returns one page of titles. A concrete kind maps to a single
// source query; All queries both kinds concurrently and interleaves them by rank.
func (c *Client) FetchList(
	ctx context.Context,
	kind domain.MediaKind,
	sort domain.SortOrder,
	genres domain.GenreSet,
	cursor domain.Cursor,
) (domain.Page, error) {
	if kind != domain.KindAll {
		page, err := c.skipEmpty(ctx, cursor, func(ctx context.Context, cur domain.Cursor) (domain.Page, error) {
			return c.source.Discover(ctx, kind, sort, genres, cur)
		})
		if err != nil {
			c.logger.Error("list fetch failed", "kind", kind, "sort", sort, "error", err)
			return domain.Page{}, err
		}
		c.logger.Debug("fetched list page", "kind", kind, "sort", sort, "count", len(page.Items), "hasNext", page.Next != "")
		return page, nil
	}

	merged, err := decodeMergedCursor(cursor)
	if err != nil {
		return domain.Page{}, err
	}

	kinds := domain.KindAll.Concrete()
	pages := make([]domain.Page, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, k := range kinds {
		sub, done := merged.sub(k)
		if done {
			continue
		}
		i, k := i, k
		g.Go(func() error {
			page, err := c.source.Discover(gctx, k, sort, genres, sub)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", k, err)
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.Error("list fetch failed", "kind", kind, "sort", sort, "error", err)
		return domain.Page{}, err
	}

	for i, k := range kinds {
		if _, done := merged.sub(k); !done {
			merged.advance(k, pages[i])
		}
	}

	items := interleave(pages[0].Items, pages[1].Items)
	c.logger.Debug("fetched merged list page",
		"sort", sort,
		"movies", len(pages[0].Items),
		"series", len(pages[1].Items),
		"movieDone", merged.MovieDone,
		"seriesDone", merged.SeriesDone)
	return domain.Page{Items: items, Next: merged.encode()}, nil
}

// Search runs a free-text search. Search endpoints take no genre filter.
func (c *Client) Search(ctx context.Context, text string, kind domain.MediaKind, cursor domain.Cursor) (domain.Page, error) {
	page, err := c.skipEmpty(ctx, cursor, func(ctx context.Context, cur domain.Cursor) (domain.Page, error) {
		return c.source.Search(ctx, text, kind, cur)
	})
	if err != nil {
		c.logger.Error("search failed", "query", text, "kind", kind, "error", err)
		return domain.Page{}, err
	}
	c.logger.Debug("fetched search page", "query", text, "kind", kind, "count", len(page.Items), "hasNext", page.Next != "")
	return page, nil
}

// skipEmpty fetches cursor and follows the next cursor past pages that came
// back empty, up to maxEmptySkips times. An empty page with no next cursor is
// the real end of the list and is returned as is.
func (c *Client) skipEmpty(ctx context.Context, cursor domain.Cursor, fetch func(context.Context, domain.Cursor) (domain.Page, error)) (domain.Page, error) {
	page, err := fetch(ctx, cursor)
	for skips := 0; err == nil && len(page.Items) == 0 && page.Next != "" && skips < maxEmptySkips; skips++ {
		c.logger.Debug("skipping empty page", "cursor", cursor, "next", page.Next)
		cursor = page.Next
		page, err = fetch(ctx, cursor)
	}
	return page, err
}

// Detail returns the full record of one title
func (c *Client) Detail(ctx context.Context, kind domain.MediaKind, id string) (*domain.TitleDetail, error) {
	if id == "" {
		return nil, fmt.Errorf("detail: empty id: %w", domain.ErrItemNotFound)
	}
	detail, err := c.source.Detail(ctx, kind, id)
	if err != nil {
		c.logger.Error("detail fetch failed", "kind", kind, "id", id, "error", err)
		return nil, err
	}
	return detail, nil
}
