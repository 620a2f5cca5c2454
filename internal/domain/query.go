package domain

import (
	"slices"
	"sort"
	"strings"
)

// GenreSet is an order-insensitive set of genre identifiers.
// NewGenreSet keeps it sorted and deduplicated; Equal tolerates hand-built values.
type GenreSet []string

// NewGenreSet builds a canonical set from ids, dropping blanks and duplicates
func NewGenreSet(ids ...string) GenreSet {
	if len(ids) == 0 {
		return nil
	}
	set := make(GenreSet, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			set = append(set, id)
		}
	}
	sort.Strings(set)
	set = slices.Compact(set)
	if len(set) == 0 {
		return nil
	}
	return set
}

// Contains reports whether id is in the set
func (g GenreSet) Contains(id string) bool {
	for _, v := range g {
		if v == id {
			return true
		}
	}
	return false
}

// Equal compares two sets ignoring order and duplicates
func (g GenreSet) Equal(other GenreSet) bool {
	return slices.Equal(NewGenreSet(g...), NewGenreSet(other...))
}

// QueryParameters is the navigation state a list is built from
type QueryParameters struct {
	Kind       MediaKind `json:"kind"`
	Sort       SortOrder `json:"sort"`
	Genres     GenreSet  `json:"genres,omitempty"`
	SearchText string    `json:"q,omitempty"`
}

// Equal is structural equality; genres compare as sets
func (q QueryParameters) Equal(other QueryParameters) bool {
	return q.Kind == other.Kind &&
		q.Sort == other.Sort &&
		q.SearchText == other.SearchText &&
		q.Genres.Equal(other.Genres)
}

// IsSearch reports whether the query is served by the search endpoint
func (q QueryParameters) IsSearch() bool {
	return q.SearchText != ""
}

// NeedsPostFilter reports whether genres must be applied client-side.
// Search endpoints take no genre parameter, so a search with genres is filtered locally.
func (q QueryParameters) NeedsPostFilter() bool {
	return q.IsSearch() && len(q.Genres) > 0
}

// Cursor is an opaque pagination continuation.
// As a request argument "" asks for the first page; as a response value "" means no more pages.
type Cursor string

// Page is one batch of results plus the cursor for the next one
type Page struct {
	Items []CatalogItem
	Next  Cursor
}

// Done reports whether the page ends the result set
func (p Page) Done() bool {
	return len(p.Items) == 0 || p.Next == ""
}
