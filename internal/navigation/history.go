package navigation

import (
	"log/slog"
	"sync"
)

// HistoryStore persists the last browse query
type HistoryStore interface {
	GetLastQuery() (string, bool)
	SaveLastQuery(rawQuery string) error
}

// History tracks the previous and current query strings
type History struct {
	store  HistoryStore // optional
	logger *slog.Logger

	mu       sync.Mutex
	previous string
	current  string
}

// NewHistory creates a history. store may be nil.
func NewHistory(store HistoryStore, logger *slog.Logger) *History {
	if logger == nil {
		logger = slog.Default()
	}
	return &History{store: store, logger: logger}
}

// Push records raw as the current query
func (h *History) Push(raw string) {
	h.mu.Lock()
	if raw == h.current {
		h.mu.Unlock()
		return
	}
	h.previous = h.current
	h.current = raw
	h.mu.Unlock()

	if h.store != nil {
		if err := h.store.SaveLastQuery(raw); err != nil {
			h.logger.Error("failed to save last query", "error", err)
		}
	}
}

// Current returns the current query
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Previous returns the query before the current one, "" if none
func (h *History) Previous() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.previous
}

// Restore returns the query persisted by a previous run
func (h *History) Restore() (string, bool) {
	if h.store == nil {
		return "", false
	}
	raw, ok := h.store.GetLastQuery()
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}
