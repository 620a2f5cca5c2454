package imdb

import (
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/cinelist/internal/domain"
)

const (
	posterMarker = "._V1_"
	posterWidth  = 300
)

// MapTitleType folds the API's title types into the two catalog kinds.
// Anything that is not a series (shorts, videos, TV movies...) counts as a movie.
func MapTitleType(titleType string) domain.MediaKind {
	switch strings.ToUpper(titleType) {
	case TypeTVSeries, TypeTVMiniSeries, TypeTVSpecial:
		return domain.KindSeries
	default:
		return domain.KindMovie
	}
}

// TitleTypes returns the API types requested for a concrete kind
func TitleTypes(kind domain.MediaKind) []string {
	switch kind {
	case domain.KindMovie:
		return []string{TypeMovie, TypeTVMovie}
	case domain.KindSeries:
		return []string{TypeTVSeries, TypeTVMiniSeries}
	default:
		return nil
	}
}

// MapTitles converts titles to catalog items, keeping only those of kind (All keeps everything)
func MapTitles(titles []Title, kind domain.MediaKind) []domain.CatalogItem {
	items := make([]domain.CatalogItem, 0, len(titles))
	for _, t := range titles {
		item := mapTitle(t)
		if kind != domain.KindAll && item.Kind != kind {
			continue
		}
		items = append(items, item)
	}
	return items
}

func mapTitle(t Title) domain.CatalogItem {
	title := t.PrimaryTitle
	if title == "" {
		title = t.OriginalTitle
	}

	item := domain.CatalogItem{
		ID:       t.ID,
		Title:    title,
		Kind:     MapTitleType(t.Type),
		Year:     t.StartYear,
		GenreIDs: append([]string{}, t.Genres...),
	}
	if t.Rating != nil && t.Rating.VoteCount > 0 {
		r := t.Rating.AggregateRating
		item.Rating = &r
	}
	if t.PrimaryImage != nil {
		item.Poster = ResizePoster(t.PrimaryImage.URL, posterWidth)
	}
	return item
}

// ResizePoster asks the image CDN for a copy scaled to width pixels.
// URLs without the ._V1_ marker are returned unchanged.
func ResizePoster(rawURL string, width int) string {
	if !strings.Contains(rawURL, posterMarker) {
		return rawURL
	}
	return strings.Replace(rawURL, posterMarker, posterMarker+"UX"+strconv.Itoa(width)+"_", 1)
}

// MapGenres extracts top-level genres from interest categories.
// Title records carry genre names, so the name doubles as the genre ID.
func MapGenres(categories []InterestCategory) []domain.Genre {
	seen := make(map[string]bool)
	var genres []domain.Genre
	for _, cat := range categories {
		for _, in := range cat.Interests {
			if in.IsSubgenre || in.Name == "" || seen[in.Name] {
				continue
			}
			seen[in.Name] = true
			genres = append(genres, domain.Genre{ID: in.Name, Name: in.Name})
		}
	}
	return genres
}

// MapDetails converts a full title record to a title detail
func MapDetails(t Title) *domain.TitleDetail {
	detail := &domain.TitleDetail{
		CatalogItem:   mapTitle(t),
		OriginalTitle: t.OriginalTitle,
		Overview:      t.Plot,
		Runtime:       time.Duration(t.RuntimeSeconds) * time.Second,
	}
	for _, g := range t.Genres {
		detail.GenreNames = append(detail.GenreNames, domain.Capitalize(g))
	}
	for _, n := range t.Directors {
		detail.Directors = append(detail.Directors, n.DisplayName)
	}
	for _, n := range t.Stars {
		detail.Stars = append(detail.Stars, n.DisplayName)
	}
	return detail
}
