package domain

import (
	"sort"
	"strings"
)

// Genre is one entry of a provider's genre taxonomy
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GenreDictionary holds the movie and series taxonomies of a provider
type GenreDictionary struct {
	Movie  []Genre `json:"movie"`
	Series []Genre `json:"series"`
}

// ForKind returns the genres to offer for kind, capitalized and sorted by name.
// All is the union of both taxonomies deduplicated by ID; the series name wins on conflict.
func (d *GenreDictionary) ForKind(kind MediaKind) []Genre {
	if d == nil {
		return nil
	}

	var source []Genre
	switch kind {
	case KindMovie:
		source = d.Movie
	case KindSeries:
		source = d.Series
	default:
		byID := make(map[string]int, len(d.Movie)+len(d.Series))
		for _, g := range append(append([]Genre{}, d.Movie...), d.Series...) {
			if i, ok := byID[g.ID]; ok {
				source[i].Name = g.Name
				continue
			}
			byID[g.ID] = len(source)
			source = append(source, g)
		}
	}

	out := make([]Genre, len(source))
	for i, g := range source {
		out[i] = Genre{ID: g.ID, Name: Capitalize(g.Name)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Name returns the display name for id, or "" if the id is unknown
func (d *GenreDictionary) Name(id string) string {
	if d == nil {
		return ""
	}
	for _, list := range [][]Genre{d.Movie, d.Series} {
		for _, g := range list {
			if g.ID == id {
				return Capitalize(g.Name)
			}
		}
	}
	return ""
}

// Names maps ids to display names, skipping unknown ids
func (d *GenreDictionary) Names(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name := d.Name(id); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Empty reports whether neither taxonomy has entries
func (d *GenreDictionary) Empty() bool {
	return d == nil || (len(d.Movie) == 0 && len(d.Series) == 0)
}
