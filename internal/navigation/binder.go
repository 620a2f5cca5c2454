package navigation

import (
	"log/slog"
	"net/url"
	"sync"

	"github.com/mmcdole/cinelist/internal/domain"
)

// Loader is the list entry point the binder drives
type Loader interface {
	ResetAndLoad(params domain.QueryParameters)
}

// Binder forwards navigation changes to a Loader. A change that yields the
// same parameters as the previous one is skipped.
type Binder struct {
	loader   Loader
	defaults Defaults
	history  *History // optional
	logger   *slog.Logger

	mu     sync.Mutex
	last   domain.QueryParameters
	bound  bool
	genres *domain.GenreDictionary
}

// NewBinder creates a binder. history may be nil.
func NewBinder(loader Loader, defaults Defaults, history *History, logger *slog.Logger) *Binder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Binder{loader: loader, defaults: defaults, history: history, logger: logger}
}

// SetGenres supplies the dictionary used to resolve genre names in queries
func (b *Binder) SetGenres(dict *domain.GenreDictionary) {
	b.mu.Lock()
	b.genres = dict
	b.mu.Unlock()
}

// Defaults returns the parameters used for omitted query keys
func (b *Binder) Defaults() Defaults {
	return b.defaults
}

// Current returns the last forwarded parameters
func (b *Binder) Current() (domain.QueryParameters, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, b.bound
}

// ApplyValues parses query values and applies them. It returns the resolved
// parameters and whether a reload was triggered.
func (b *Binder) ApplyValues(values url.Values) (domain.QueryParameters, bool) {
	params := Parse(values, b.defaults)

	b.mu.Lock()
	dict := b.genres
	b.mu.Unlock()
	var unmatched domain.GenreSet
	params.Genres, unmatched = ResolveGenres(params.Genres, params.Kind, dict)
	if len(unmatched) > 0 {
		b.logger.Warn("unknown genres in query", "kind", params.Kind, "genres", []string(unmatched))
	}

	return params, b.Apply(params)
}

// ApplyQuery is ApplyValues for a raw query string
func (b *Binder) ApplyQuery(raw string) (domain.QueryParameters, bool, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return domain.QueryParameters{}, false, err
	}
	params, changed := b.ApplyValues(values)
	return params, changed, nil
}

// Apply forwards params unless they equal the previously forwarded ones
func (b *Binder) Apply(params domain.QueryParameters) bool {
	b.mu.Lock()
	if b.bound && b.last.Equal(params) {
		b.mu.Unlock()
		b.logger.Debug("navigation unchanged, skipping reload")
		return false
	}
	b.last = params
	b.bound = true
	b.mu.Unlock()

	b.forward(params)
	return true
}

// Force forwards params even when unchanged, e.g. for an explicit retry
func (b *Binder) Force(params domain.QueryParameters) {
	b.mu.Lock()
	b.last = params
	b.bound = true
	b.mu.Unlock()

	b.forward(params)
}

func (b *Binder) forward(params domain.QueryParameters) {
	if b.history != nil {
		b.history.Push(Encode(params).Encode())
	}
	b.loader.ResetAndLoad(params)
}
