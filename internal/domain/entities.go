package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// MediaKind distinguishes catalog content kinds
type MediaKind int

const (
	KindAll MediaKind = iota
	KindMovie
	KindSeries
)

// String returns the URL form of the kind: "all", "movie" or "tv"
func (k MediaKind) String() string {
	switch k {
	case KindMovie:
		return "movie"
	case KindSeries:
		return "tv"
	default:
		return "all"
	}
}

// Concrete returns the kinds a query for k has to hit.
// All expands to Movie then Series; concrete kinds return themselves.
func (k MediaKind) Concrete() []MediaKind {
	if k == KindAll {
		return []MediaKind{KindMovie, KindSeries}
	}
	return []MediaKind{k}
}

// MarshalText implements encoding.TextMarshaler
func (k MediaKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *MediaKind) UnmarshalText(text []byte) error {
	parsed, ok := ParseMediaKind(string(text))
	if !ok {
		return fmt.Errorf("unknown media kind %q", text)
	}
	*k = parsed
	return nil
}

// ParseMediaKind parses the URL form of a kind. "series" is accepted as an alias of "tv".
func ParseMediaKind(s string) (MediaKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "":
		return KindAll, true
	case "movie", "movies":
		return KindMovie, true
	case "tv", "series":
		return KindSeries, true
	default:
		return KindAll, false
	}
}

// SortOrder selects how list results are ranked
type SortOrder int

const (
	SortNewest SortOrder = iota
	SortTopRated
)

// String returns the URL form of the sort order
func (s SortOrder) String() string {
	if s == SortTopRated {
		return "top_rated"
	}
	return "newest"
}

// MarshalText implements encoding.TextMarshaler
func (s SortOrder) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *SortOrder) UnmarshalText(text []byte) error {
	parsed, ok := ParseSortOrder(string(text))
	if !ok {
		return fmt.Errorf("unknown sort order %q", text)
	}
	*s = parsed
	return nil
}

// ParseSortOrder parses the URL form of a sort order
func ParseSortOrder(s string) (SortOrder, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "newest":
		return SortNewest, true
	case "top_rated":
		return SortTopRated, true
	default:
		return SortTopRated, false
	}
}

// CatalogItem is the normalized shape of a movie or series entry.
// Provider payloads are mapped into it at the source boundary; nothing past
// the catalog client ever sees a provider-specific shape.
type CatalogItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Kind        MediaKind `json:"kind"`
	Year        int       `json:"year,omitempty"`         // 0 if unknown
	ReleaseDate string    `json:"release_date,omitempty"` // YYYY-MM-DD when the provider has it
	Rating      *float64  `json:"rating,omitempty"`       // nil when the provider has no votes
	GenreIDs    []string  `json:"genre_ids"`
	Poster      string    `json:"poster,omitempty"` // empty when there is no artwork
}

// HasAnyGenre reports whether the item carries at least one genre of set
func (c CatalogItem) HasAnyGenre(set GenreSet) bool {
	for _, id := range c.GenreIDs {
		if set.Contains(id) {
			return true
		}
	}
	return false
}

// FormattedRating returns the rating with one decimal, or "-" when absent
func (c CatalogItem) FormattedRating() string {
	if c.Rating == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *c.Rating)
}

// TitleDetail is the detail endpoint's view of a single title
type TitleDetail struct {
	CatalogItem
	OriginalTitle string        `json:"original_title,omitempty"`
	Overview      string        `json:"overview,omitempty"`
	Runtime       time.Duration `json:"runtime,omitempty"`
	Status        string        `json:"status,omitempty"`
	GenreNames    []string      `json:"genre_names,omitempty"`
	Directors     []string      `json:"directors,omitempty"`
	Stars         []string      `json:"stars,omitempty"`
}

// FormattedRuntime returns the runtime in a human-readable format
func (d TitleDetail) FormattedRuntime() string {
	if d.Runtime <= 0 {
		return ""
	}
	h := int(d.Runtime.Hours())
	mins := int(d.Runtime.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// YearFromDate extracts the year of a YYYY-MM-DD (or YYYY) date, 0 if absent
func YearFromDate(date string) int {
	if len(date) < 4 {
		return 0
	}
	year := 0
	for _, r := range date[:4] {
		if r < '0' || r > '9' {
			return 0
		}
		year = year*10 + int(r-'0')
	}
	return year
}

// Capitalize upper-cases the first rune of s
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
