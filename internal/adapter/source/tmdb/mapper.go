package tmdb

import (
	"strconv"
	"time"

	"github.com/mmcdole/cinelist/internal/domain"
)

const (
	imageBaseURL = "https://image.tmdb.org/t/p/"
	posterSize   = "w500"
	maxCastNames = 5
)

// MapResults converts discover/search results to catalog items.
// kind is the kind of the endpoint; for /search/multi pass KindAll and the
// per-result media_type decides, with person entries dropped.
func MapResults(results []Result, kind domain.MediaKind) []domain.CatalogItem {
	items := make([]domain.CatalogItem, 0, len(results))
	for _, r := range results {
		itemKind := kind
		if kind == domain.KindAll {
			switch r.MediaType {
			case "movie":
				itemKind = domain.KindMovie
			case "tv":
				itemKind = domain.KindSeries
			default:
				continue
			}
		}
		items = append(items, mapResult(r, itemKind))
	}
	return items
}

func mapResult(r Result, kind domain.MediaKind) domain.CatalogItem {
	title, date := r.Title, r.ReleaseDate
	if kind == domain.KindSeries {
		title, date = r.Name, r.FirstAirDate
	}

	genreIDs := make([]string, len(r.GenreIDs))
	for i, id := range r.GenreIDs {
		genreIDs[i] = strconv.Itoa(id)
	}

	return domain.CatalogItem{
		ID:          strconv.Itoa(r.ID),
		Title:       title,
		Kind:        kind,
		Year:        domain.YearFromDate(date),
		ReleaseDate: date,
		Rating:      rating(r.VoteAverage, r.VoteCount),
		GenreIDs:    genreIDs,
		Poster:      posterURL(r.PosterPath),
	}
}

// MapGenres converts a TMDB genre list to domain genres
func MapGenres(genres []Genre) []domain.Genre {
	out := make([]domain.Genre, len(genres))
	for i, g := range genres {
		out[i] = domain.Genre{ID: strconv.Itoa(g.ID), Name: g.Name}
	}
	return out
}

// MapDetails converts a /movie or /tv record to a title detail
func MapDetails(d Details, kind domain.MediaKind) *domain.TitleDetail {
	title, original, date := d.Title, d.OriginalTitle, d.ReleaseDate
	runtime := d.Runtime
	if kind == domain.KindSeries {
		title, original, date = d.Name, d.OriginalName, d.FirstAirDate
		if len(d.EpisodeRunTime) > 0 {
			runtime = d.EpisodeRunTime[0]
		}
	}

	genreIDs := make([]string, len(d.Genres))
	genreNames := make([]string, len(d.Genres))
	for i, g := range d.Genres {
		genreIDs[i] = strconv.Itoa(g.ID)
		genreNames[i] = domain.Capitalize(g.Name)
	}

	var directors []string
	for _, c := range d.CreatedBy {
		directors = append(directors, c.Name)
	}
	for _, c := range d.Credits.Crew {
		if c.Job == "Director" {
			directors = append(directors, c.Name)
		}
	}

	var stars []string
	for _, c := range d.Credits.Cast {
		if len(stars) == maxCastNames {
			break
		}
		stars = append(stars, c.Name)
	}

	return &domain.TitleDetail{
		CatalogItem: domain.CatalogItem{
			ID:          strconv.Itoa(d.ID),
			Title:       title,
			Kind:        kind,
			Year:        domain.YearFromDate(date),
			ReleaseDate: date,
			Rating:      rating(d.VoteAverage, d.VoteCount),
			GenreIDs:    genreIDs,
			Poster:      posterURL(d.PosterPath),
		},
		OriginalTitle: original,
		Overview:      d.Overview,
		Runtime:       time.Duration(runtime) * time.Minute,
		Status:        d.Status,
		GenreNames:    genreNames,
		Directors:     directors,
		Stars:         stars,
	}
}

// rating returns nil for unrated titles; TMDB reports 0.0 when nobody voted
func rating(average float64, votes int) *float64 {
	if votes == 0 {
		return nil
	}
	return &average
}

func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + posterSize + path
}
