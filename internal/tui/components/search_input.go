package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/cinelist/internal/tui/styles"
)

// SearchInput is the search text modal
type SearchInput struct {
	visible bool
	input   textinput.Model
}

// NewSearchInput creates a hidden search input
func NewSearchInput() SearchInput {
	ti := textinput.New()
	ti.Placeholder = "Search movies and series..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SearchInput{input: ti}
}

// Show displays the modal prefilled with the current search text
func (m *SearchInput) Show(current string) {
	m.visible = true
	m.input.SetValue(current)
	m.input.CursorEnd()
	m.input.Focus()
}

// Hide dismisses the modal
func (m *SearchInput) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m SearchInput) IsVisible() bool {
	return m.visible
}

// Value returns the trimmed search text
func (m SearchInput) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// Update handles input events, returns (modal, cmd, submitted).
// The modal hides itself on submit and on esc.
func (m SearchInput) Update(msg tea.Msg) (SearchInput, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			m.Hide()
			return m, nil, true
		case "esc":
			m.Hide()
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd, false
}

// View renders the search modal
func (m SearchInput) View() string {
	if !m.visible {
		return ""
	}

	const modalWidth = 46

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Width(modalWidth).Render("Search"),
		lipgloss.NewStyle().Width(modalWidth).Render(m.input.View()),
		styles.DimStyle.Render("enter to search, empty to clear, esc to cancel"),
	)

	return styles.ModalStyle.Render(content)
}
