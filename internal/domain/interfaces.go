package domain

import "context"

// CatalogSource is implemented by each catalog provider backend.
// Discover is only ever called with a concrete kind (Movie or Series).
type CatalogSource interface {
	// Discover lists titles of one kind filtered by genres (any-of) and ranked by sort
	Discover(ctx context.Context, kind MediaKind, sort SortOrder, genres GenreSet, cursor Cursor) (Page, error)

	// Search runs a free-text search; kind may be All
	Search(ctx context.Context, text string, kind MediaKind, cursor Cursor) (Page, error)

	// Genres returns the taxonomy for one concrete kind
	Genres(ctx context.Context, kind MediaKind) ([]Genre, error)

	// Detail returns the full record of a single title
	Detail(ctx context.Context, kind MediaKind, id string) (*TitleDetail, error)
}

// Catalog is the normalized client the list orchestrator consumes
type Catalog interface {
	FetchList(ctx context.Context, kind MediaKind, sort SortOrder, genres GenreSet, cursor Cursor) (Page, error)
	Search(ctx context.Context, text string, kind MediaKind, cursor Cursor) (Page, error)
}

// GenreProvider exposes the memoized genre taxonomy
type GenreProvider interface {
	FetchGenres(ctx context.Context) (*GenreDictionary, error)
}
