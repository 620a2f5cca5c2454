package navigation

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/cinelist/internal/domain"
)

// ResolveGenres maps genre tokens to genre IDs offered for kind.
// Known IDs pass through. Other tokens are matched against genre names,
// ignoring case and diacritics, and the closest name wins. Tokens that match
// nothing are kept verbatim and also reported in unmatched, so the filter
// narrows to nothing instead of silently widening. Without a dictionary the
// tokens are returned unchanged.
func ResolveGenres(tokens domain.GenreSet, kind domain.MediaKind, dict *domain.GenreDictionary) (resolved, unmatched domain.GenreSet) {
	if len(tokens) == 0 || dict.Empty() {
		return tokens, nil
	}

	offered := dict.ForKind(kind)
	byID := make(map[string]bool, len(offered))
	names := make([]string, len(offered))
	for i, g := range offered {
		byID[g.ID] = true
		names[i] = g.Name
	}

	ids := make([]string, 0, len(tokens))
	var missed []string
	for _, token := range tokens {
		if byID[token] {
			ids = append(ids, token)
			continue
		}
		ranks := fuzzy.RankFindNormalizedFold(token, names)
		if len(ranks) == 0 {
			ids = append(ids, token)
			missed = append(missed, token)
			continue
		}
		sort.Sort(ranks)
		ids = append(ids, offered[ranks[0].OriginalIndex].ID)
	}
	return domain.NewGenreSet(ids...), domain.NewGenreSet(missed...)
}
