package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/cinelist/internal/domain"
	"github.com/mmcdole/cinelist/internal/listing"
	"github.com/mmcdole/cinelist/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return m.spinner.View() + " Loading..."
	}

	body := m.Titles.View()
	if m.state.Phase == listing.PhaseError {
		body = m.renderFailure()
	}
	if m.Sidebar.IsVisible() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.Sidebar.View(), body)
	}

	switch {
	case m.Inspector.IsVisible():
		body = m.overlay(m.Inspector.View())
	case m.Search.IsVisible():
		body = m.overlay(m.Search.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		body,
		m.renderFooter(),
	)
}

func (m Model) overlay(modal string) string {
	return lipgloss.Place(m.Width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, modal)
}

// refreshStatus pushes loading and empty lines into the title list
func (m *Model) refreshStatus() {
	var loading, loadingMore, empty string
	if m.state.IsLoading {
		loading = m.spinner.View() + " Loading..."
	}
	if m.state.IsLoadingMore {
		loadingMore = m.spinner.View() + styles.DimStyle.Render(" Loading more...")
	} else if m.state.Err != "" && m.state.Phase != listing.PhaseError {
		loadingMore = styles.ErrorStyle.Render("Could not load more. Press r to retry.")
	}
	if m.state.Empty() {
		empty = emptyMessage(m.state.Params)
	}
	m.Titles.SetStatus(loading, loadingMore, empty)
}

// emptyMessage describes an empty result set for params
func emptyMessage(params domain.QueryParameters) string {
	if params.IsSearch() {
		return fmt.Sprintf("No results for %q.", params.SearchText)
	}
	var noun string
	switch params.Kind {
	case domain.KindMovie:
		noun = "movies"
	case domain.KindSeries:
		noun = "series"
	default:
		noun = "titles"
	}
	if len(params.Genres) > 0 {
		return fmt.Sprintf("No %s match the selected genres.", noun)
	}
	return fmt.Sprintf("No %s found.", noun)
}

func (m Model) renderFailure() string {
	msg := lipgloss.JoinVertical(lipgloss.Center,
		styles.ErrorStyle.Render(m.state.Err),
		"",
		styles.DimStyle.Render("Press r to retry"),
	)
	return lipgloss.Place(m.listWidth(), m.bodyHeight(), lipgloss.Center, lipgloss.Center, msg)
}

func (m Model) renderHeader() string {
	params := m.params()

	var parts []string
	parts = append(parts, styles.AccentStyle.Bold(true).Render("cinelist"))

	for _, k := range kindCycle {
		label := kindLabel(k)
		if k == params.Kind {
			parts = append(parts, styles.BadgeStyle.Render(label))
		} else {
			parts = append(parts, styles.DimBadgeStyle.Render(label))
		}
	}

	if params.IsSearch() {
		parts = append(parts, styles.SubtitleStyle.Render(fmt.Sprintf("search %q", params.SearchText)))
	} else if params.Sort == domain.SortTopRated {
		parts = append(parts, styles.SubtitleStyle.Render("top rated"))
	} else {
		parts = append(parts, styles.SubtitleStyle.Render("newest"))
	}

	if len(params.Genres) > 0 {
		names := m.genres.Names(params.Genres)
		if len(names) == 0 {
			names = params.Genres
		}
		parts = append(parts, styles.AccentStyle.Render(strings.Join(names, ", ")))
	}

	if n := len(m.state.Items); n > 0 {
		count := fmt.Sprintf("%d", n)
		if m.state.HasMore {
			count += "+"
		}
		parts = append(parts, styles.DimStyle.Render(count))
	}

	return lipgloss.NewStyle().MaxWidth(max(m.Width, 1)).Render(strings.Join(parts, " "))
}

func kindLabel(k domain.MediaKind) string {
	switch k {
	case domain.KindMovie:
		return "Movies"
	case domain.KindSeries:
		return "Series"
	default:
		return "All"
	}
}

func (m Model) renderFooter() string {
	if m.toast != "" {
		return styles.ToastStyle.Render(styles.Truncate(m.toast, max(m.Width-2, 1)))
	}
	if m.showHelp {
		return m.help.FullHelpView(m.keys.FullHelp())
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}
