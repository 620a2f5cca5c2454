package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/cinelist/internal/domain"
)

// FetchGenres returns the genre dictionary, loading it at most once per process.
// A fresh copy in the store is used before going to the network. Failures are
// not memoized, so the next call retries.
func (c *Client) FetchGenres(ctx context.Context) (*domain.GenreDictionary, error) {
	c.genresMu.Lock()
	defer c.genresMu.Unlock()

	if c.genres != nil {
		return c.genres, nil
	}

	if c.store != nil && c.store.GenresFresh(c.genreTTL) {
		if dict, ok := c.store.GetGenres(); ok {
			c.logger.Debug("genres loaded from cache", "movie", len(dict.Movie), "series", len(dict.Series))
			c.genres = dict
			return dict, nil
		}
	}

	dict, err := c.loadGenres(ctx)
	if err != nil {
		// A stale copy beats no sidebar at all, but keep retrying the network
		if c.store != nil {
			if stale, ok := c.store.GetGenres(); ok {
				c.logger.Warn("using stale genres", "error", err)
				return stale, nil
			}
		}
		c.logger.Error("failed to fetch genres", "error", err)
		return nil, err
	}

	if c.store != nil {
		if err := c.store.SaveGenres(dict, c.now()); err != nil {
			c.logger.Error("failed to save genres", "error", err)
		}
	}
	c.logger.Debug("fetched genres", "movie", len(dict.Movie), "series", len(dict.Series))
	c.genres = dict
	return dict, nil
}

func (c *Client) loadGenres(ctx context.Context) (*domain.GenreDictionary, error) {
	var dict domain.GenreDictionary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		genres, err := c.source.Genres(gctx, domain.KindMovie)
		if err != nil {
			return fmt.Errorf("movie genres: %w", err)
		}
		dict.Movie = genres
		return nil
	})
	g.Go(func() error {
		genres, err := c.source.Genres(gctx, domain.KindSeries)
		if err != nil {
			return fmt.Errorf("series genres: %w", err)
		}
		dict.Series = genres
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dict, nil
}

// InvalidateGenres drops the memoized and stored dictionary
func (c *Client) InvalidateGenres() {
	c.genresMu.Lock()
	c.genres = nil
	c.genresMu.Unlock()

	if c.store != nil {
		c.store.InvalidateGenres()
	}
}
