// Package navigation binds URL-style query state to list parameters.
package navigation

import (
	"net/url"
	"strings"

	"github.com/mmcdole/cinelist/internal/domain"
)

// Query keys
const (
	KeyType  = "type"
	KeySort  = "sort_by"
	KeyGenre = "genre"
	KeyQuery = "q"
)

// Defaults fill in parameters the query omits
type Defaults struct {
	Kind domain.MediaKind
	Sort domain.SortOrder
}

// DefaultsFrom parses configured default strings. Unknown values fall back
// to All and TopRated.
func DefaultsFrom(kind, sort string) Defaults {
	d := Defaults{Kind: domain.KindAll, Sort: domain.SortTopRated}
	if k, ok := domain.ParseMediaKind(kind); ok {
		d.Kind = k
	}
	if s, ok := domain.ParseSortOrder(sort); ok {
		d.Sort = s
	}
	return d
}

// Parse turns query values into list parameters. An unknown type or sort_by
// falls back to the defaults; genre is a comma list and may repeat.
func Parse(values url.Values, defaults Defaults) domain.QueryParameters {
	params := domain.QueryParameters{Kind: defaults.Kind, Sort: defaults.Sort}

	if raw := values.Get(KeyType); raw != "" {
		if k, ok := domain.ParseMediaKind(raw); ok {
			params.Kind = k
		} else {
			params.Kind = domain.KindAll
		}
	}
	if raw := values.Get(KeySort); raw != "" {
		if s, ok := domain.ParseSortOrder(raw); ok {
			params.Sort = s
		}
	}

	var genres []string
	for _, raw := range values[KeyGenre] {
		genres = append(genres, strings.Split(raw, ",")...)
	}
	params.Genres = domain.NewGenreSet(genres...)
	params.SearchText = strings.TrimSpace(values.Get(KeyQuery))

	return params
}

// ParseQuery parses a raw query string such as "type=movie&genre=28,12"
func ParseQuery(raw string, defaults Defaults) (domain.QueryParameters, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return domain.QueryParameters{}, err
	}
	return Parse(values, defaults), nil
}

// Encode is the inverse of Parse
func Encode(params domain.QueryParameters) url.Values {
	values := url.Values{}
	values.Set(KeyType, params.Kind.String())
	values.Set(KeySort, params.Sort.String())
	if len(params.Genres) > 0 {
		values.Set(KeyGenre, strings.Join(domain.NewGenreSet(params.Genres...), ","))
	}
	if params.SearchText != "" {
		values.Set(KeyQuery, params.SearchText)
	}
	return values
}
