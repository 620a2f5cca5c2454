package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/cinelist/internal/domain"
	"github.com/mmcdole/cinelist/internal/listing"
)

// Command factories for async operations

// WaitForStateCmd blocks until the orchestrator publishes a snapshot.
// It must be re-issued after every StateMsg.
func WaitForStateCmd(ch <-chan listing.State) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return nil
		}
		return StateMsg{State: state}
	}
}

// LoadGenresCmd loads the genre dictionary
func LoadGenresCmd(catalog Catalog) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		dict, err := catalog.FetchGenres(ctx)
		if err != nil {
			return GenresFailedMsg{Err: err}
		}
		return GenresLoadedMsg{Genres: dict}
	}
}

// LoadDetailCmd loads the detail of one title
func LoadDetailCmd(catalog Catalog, item domain.CatalogItem) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		detail, err := catalog.Detail(ctx, item.Kind, item.ID)
		if err != nil {
			return DetailFailedMsg{ID: item.ID, Err: err}
		}
		return DetailLoadedMsg{Detail: detail}
	}
}

// ClearToastCmd expires a toast after d
func ClearToastCmd(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearToastMsg{ID: id}
	})
}
