package tui

import (
	"net/url"
	"strings"

	"github.com/mmcdole/cinelist/internal/domain"
	"github.com/mmcdole/cinelist/internal/navigation"
)

// Every view change rewrites the query and hands it to the binder, so the
// terminal and the HTTP API drive the list the same way.

// params returns the parameters currently bound
func (m Model) params() domain.QueryParameters {
	if params, ok := m.binder.Current(); ok {
		return params
	}
	d := m.binder.Defaults()
	return domain.QueryParameters{Kind: d.Kind, Sort: d.Sort}
}

func (m *Model) navigate(edit func(values url.Values)) {
	values := navigation.Encode(m.params())
	edit(values)
	m.binder.ApplyValues(values)
}

var kindCycle = []domain.MediaKind{domain.KindAll, domain.KindMovie, domain.KindSeries}

// cycleKind moves to the next kind, keeping only genres the new kind knows
func (m *Model) cycleKind() {
	current := m.params()
	next := kindCycle[0]
	for i, k := range kindCycle {
		if k == current.Kind {
			next = kindCycle[(i+1)%len(kindCycle)]
			break
		}
	}

	var keep []string
	if !m.genres.Empty() {
		for _, g := range m.genres.ForKind(next) {
			if current.Genres.Contains(g.ID) {
				keep = append(keep, g.ID)
			}
		}
	} else {
		keep = current.Genres
	}

	m.navigate(func(v url.Values) {
		v.Set(navigation.KeyType, next.String())
		setGenreValue(v, domain.NewGenreSet(keep...))
	})
}

func (m *Model) toggleSort() {
	next := domain.SortTopRated
	if m.params().Sort == domain.SortTopRated {
		next = domain.SortNewest
	}
	m.navigate(func(v url.Values) {
		v.Set(navigation.KeySort, next.String())
	})
}

func (m *Model) setGenres(genres domain.GenreSet) {
	m.navigate(func(v url.Values) {
		setGenreValue(v, genres)
	})
}

// setSearch sets the search text; empty text returns to browsing
func (m *Model) setSearch(text string) {
	m.navigate(func(v url.Values) {
		if text == "" {
			v.Del(navigation.KeyQuery)
			return
		}
		v.Set(navigation.KeyQuery, text)
	})
}

func (m *Model) clearFilters() {
	m.navigate(func(v url.Values) {
		v.Del(navigation.KeyGenre)
		v.Del(navigation.KeyQuery)
	})
}

// goBack returns to the previous query, if there is one
func (m *Model) goBack() {
	if m.history == nil {
		return
	}
	prev := m.history.Previous()
	if prev == "" {
		return
	}
	if _, _, err := m.binder.ApplyQuery(prev); err != nil {
		m.logger.Warn("ignoring malformed history entry", "query", prev, "error", err)
	}
}

func setGenreValue(v url.Values, genres domain.GenreSet) {
	if len(genres) == 0 {
		v.Del(navigation.KeyGenre)
		return
	}
	v.Set(navigation.KeyGenre, strings.Join(genres, ","))
}
