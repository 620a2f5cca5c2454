package catalog

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mmcdole/cinelist/internal/domain"
)

// mergedCursor tracks the two per-kind continuations behind an All listing.
// A done kind is never queried again.
type mergedCursor struct {
	Movie      domain.Cursor `json:"m,omitempty"`
	Series     domain.Cursor `json:"s,omitempty"`
	MovieDone  bool          `json:"md,omitempty"`
	SeriesDone bool          `json:"sd,omitempty"`
}

func (c mergedCursor) exhausted() bool {
	return c.MovieDone && c.SeriesDone
}

func (c mergedCursor) sub(kind domain.MediaKind) (domain.Cursor, bool) {
	if kind == domain.KindSeries {
		return c.Series, c.SeriesDone
	}
	return c.Movie, c.MovieDone
}

func (c *mergedCursor) advance(kind domain.MediaKind, page domain.Page) {
	done := page.Done()
	next := page.Next
	if done {
		next = ""
	}
	if kind == domain.KindSeries {
		c.Series, c.SeriesDone = next, done
		return
	}
	c.Movie, c.MovieDone = next, done
}

// encode returns "" once both kinds are exhausted
func (c mergedCursor) encode() domain.Cursor {
	if c.exhausted() {
		return ""
	}
	data, _ := json.Marshal(c)
	return domain.Cursor(base64.RawURLEncoding.EncodeToString(data))
}

func decodeMergedCursor(cursor domain.Cursor) (mergedCursor, error) {
	var c mergedCursor
	if cursor == "" {
		return c, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(string(cursor))
	if err != nil {
		return c, fmt.Errorf("decode cursor: %w", domain.ErrInvalidCursor)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("decode cursor: %w", domain.ErrInvalidCursor)
	}
	if c.exhausted() {
		return c, fmt.Errorf("cursor past the end: %w", domain.ErrInvalidCursor)
	}
	return c, nil
}

// interleave merges two ranked lists as a[0], b[0], a[1], b[1], ...
// and appends the tail of the longer list.
func interleave(a, b []domain.CatalogItem) []domain.CatalogItem {
	out := make([]domain.CatalogItem, 0, len(a)+len(b))
	for i := 0; i < len(a) || i < len(b); i++ {
		if i < len(a) {
			out = append(out, a[i])
		}
		if i < len(b) {
			out = append(out, b[i])
		}
	}
	return out
}
