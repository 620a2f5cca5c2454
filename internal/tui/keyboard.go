package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/cinelist/internal/listing"
	"github.com/mmcdole/cinelist/internal/tui/components"
)

// handleKeyMsg processes keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Overlays get input first
	if handled, newM, cmd := m.routeToModal(msg); handled {
		return newM, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.updateLayout()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.Titles.MoveUp(1)
	case key.Matches(msg, m.keys.Down):
		m.Titles.MoveDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.Titles.MoveUp(m.Titles.PageSize())
	case key.Matches(msg, m.keys.PageDown):
		m.Titles.MoveDown(m.Titles.PageSize())
	case key.Matches(msg, m.keys.Home):
		m.Titles.Top()
	case key.Matches(msg, m.keys.End):
		m.Titles.Bottom()

	case key.Matches(msg, m.keys.Enter):
		return m.openInspector()

	case key.Matches(msg, m.keys.Search):
		m.Search.Show(m.params().SearchText)
		return m, nil

	case key.Matches(msg, m.keys.Kind):
		m.cycleKind()
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		m.toggleSort()
		return m, nil

	case key.Matches(msg, m.keys.Genres):
		return m.openSidebar()

	case key.Matches(msg, m.keys.Clear):
		m.clearFilters()
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.goBack()
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		m.retry()
		return m, nil

	default:
		return m, nil
	}

	// Cursor moved
	m.checkScroll()
	return m, nil
}

// routeToModal sends input to whichever overlay is open. Returns handled=true
// when an overlay consumed the key.
func (m Model) routeToModal(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	switch {
	case m.Sidebar.IsVisible():
		var cmd tea.Cmd
		var result components.SidebarResult
		m.Sidebar, cmd, result = m.Sidebar.Update(msg)
		switch result {
		case components.SidebarApplied:
			m.closeSidebar()
			m.setGenres(m.Sidebar.Selection())
		case components.SidebarCanceled:
			m.closeSidebar()
		}
		return true, m, cmd

	case m.Search.IsVisible():
		var cmd tea.Cmd
		var submitted bool
		m.Search, cmd, submitted = m.Search.Update(msg)
		if submitted {
			m.setSearch(m.Search.Value())
		}
		return true, m, cmd

	case m.Inspector.IsVisible():
		if key.Matches(msg, m.keys.Escape, m.keys.Enter, m.keys.Quit) {
			m.Inspector.Hide()
		}
		return true, m, nil
	}
	return false, m, nil
}

func (m Model) openInspector() (tea.Model, tea.Cmd) {
	item, ok := m.Titles.Selected()
	if !ok {
		return m, nil
	}
	m.Inspector.Show(item, m.genres.Names(item.GenreIDs))
	return m, LoadDetailCmd(m.catalog, item)
}

// openSidebar shows the genre picker and holds the scroll lock until it closes
func (m Model) openSidebar() (tea.Model, tea.Cmd) {
	params := m.params()
	genres := m.genres.ForKind(params.Kind)
	if len(genres) == 0 {
		return m, tea.Batch(
			m.showToast("Genres are not available yet."),
			LoadGenresCmd(m.catalog),
		)
	}

	m.Sidebar.Show(genres, params.Genres)
	if m.releaseLock == nil {
		m.releaseLock = m.lock.Acquire()
	}
	m.updateLayout()
	return m, nil
}

func (m *Model) closeSidebar() {
	if m.releaseLock != nil {
		m.releaseLock()
		m.releaseLock = nil
	}
	m.updateLayout()
}

// retry reloads after a failed first page, or re-requests a failed page
func (m *Model) retry() {
	switch {
	case m.state.Phase == listing.PhaseError:
		params, ok := m.binder.Current()
		if !ok {
			params = m.list.Params()
		}
		m.binder.Force(params)
	case m.state.Err != "":
		m.list.LoadNextPage()
	}
}
