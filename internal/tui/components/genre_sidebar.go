package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/cinelist/internal/domain"
	"github.com/mmcdole/cinelist/internal/tui/styles"
)

// SidebarWidth is the rendered width of the genre sidebar including its border
const SidebarWidth = 32

// SidebarResult tells the parent what the last key did
type SidebarResult int

const (
	SidebarOpen SidebarResult = iota
	SidebarApplied
	SidebarCanceled
)

// GenreSidebar lets the user pick genres for the current kind.
// Typing filters the genres; space toggles, enter applies, esc discards.
type GenreSidebar struct {
	visible  bool
	genres   []domain.Genre
	selected map[string]bool
	filter   textinput.Model
	matches  []int // indexes into genres, in display order
	cursor   int
	height   int
}

// NewGenreSidebar creates a hidden sidebar
func NewGenreSidebar() GenreSidebar {
	ti := textinput.New()
	ti.Placeholder = "filter genres..."
	ti.Prompt = "/ "
	ti.CharLimit = 40
	ti.Width = SidebarWidth - 8
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return GenreSidebar{filter: ti, selected: make(map[string]bool)}
}

// Show opens the sidebar with genres and the ids currently applied
func (s *GenreSidebar) Show(genres []domain.Genre, selected domain.GenreSet) {
	s.visible = true
	s.genres = genres
	s.selected = make(map[string]bool, len(selected))
	for _, id := range selected {
		s.selected[id] = true
	}
	s.cursor = 0
	s.filter.SetValue("")
	s.filter.Focus()
	s.applyFilter()
}

// Hide closes the sidebar
func (s *GenreSidebar) Hide() {
	s.visible = false
	s.filter.Blur()
}

// IsVisible returns whether the sidebar is shown
func (s GenreSidebar) IsVisible() bool {
	return s.visible
}

// SetHeight updates the available height
func (s *GenreSidebar) SetHeight(height int) {
	s.height = height
}

// Selection returns the toggled genre ids
func (s GenreSidebar) Selection() domain.GenreSet {
	ids := make([]string, 0, len(s.selected))
	for id, on := range s.selected {
		if on {
			ids = append(ids, id)
		}
	}
	return domain.NewGenreSet(ids...)
}

// Matches returns the genres passing the current filter, in display order
func (s GenreSidebar) Matches() []domain.Genre {
	out := make([]domain.Genre, len(s.matches))
	for i, idx := range s.matches {
		out[i] = s.genres[idx]
	}
	return out
}

// Update handles input. The sidebar hides itself on apply and cancel.
func (s GenreSidebar) Update(msg tea.Msg) (GenreSidebar, tea.Cmd, SidebarResult) {
	if !s.visible {
		return s, nil, SidebarCanceled
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			s.Hide()
			return s, nil, SidebarApplied
		case "esc":
			s.Hide()
			return s, nil, SidebarCanceled
		case "up", "ctrl+p":
			if s.cursor > 0 {
				s.cursor--
			}
			return s, nil, SidebarOpen
		case "down", "ctrl+n":
			if s.cursor < len(s.matches)-1 {
				s.cursor++
			}
			return s, nil, SidebarOpen
		case " ", "tab":
			if s.cursor < len(s.matches) {
				id := s.genres[s.matches[s.cursor]].ID
				s.selected[id] = !s.selected[id]
			}
			return s, nil, SidebarOpen
		}
	}

	before := s.filter.Value()
	var cmd tea.Cmd
	s.filter, cmd = s.filter.Update(msg)
	if s.filter.Value() != before {
		s.applyFilter()
	}
	return s, cmd, SidebarOpen
}

func (s *GenreSidebar) applyFilter() {
	query := strings.TrimSpace(s.filter.Value())
	s.matches = s.matches[:0]

	if query == "" {
		for i := range s.genres {
			s.matches = append(s.matches, i)
		}
	} else {
		names := make([]string, len(s.genres))
		for i, g := range s.genres {
			names[i] = strings.ToLower(g.Name)
		}
		for _, m := range fuzzy.Find(strings.ToLower(query), names) {
			s.matches = append(s.matches, m.Index)
		}
	}

	if s.cursor >= len(s.matches) {
		s.cursor = max(len(s.matches)-1, 0)
	}
}

// View renders the sidebar
func (s GenreSidebar) View() string {
	if !s.visible {
		return ""
	}

	innerWidth := SidebarWidth - 4
	lines := []string{
		styles.AccentStyle.Render("Genres"),
		s.filter.View(),
		"",
	}

	rows := max(s.height-len(lines)-2, 1)
	start := 0
	if s.cursor >= rows {
		start = s.cursor - rows + 1
	}
	end := min(start+rows, len(s.matches))

	if len(s.matches) == 0 {
		lines = append(lines, styles.DimStyle.Render("No matching genres"))
	}
	for i := start; i < end; i++ {
		g := s.genres[s.matches[i]]
		mark := "[ ] "
		if s.selected[g.ID] {
			mark = "[x] "
		}
		var fg *lipgloss.Color
		if s.selected[g.ID] {
			accent := styles.Accent
			fg = &accent
		}
		lines = append(lines, styles.RenderListRow([]styles.RowPart{
			{Text: mark, Foreground: fg},
			{Text: styles.Truncate(g.Name, innerWidth-6)},
		}, i == s.cursor, innerWidth))
	}

	return styles.ActiveBorder.
		Width(SidebarWidth - 2).
		Height(max(s.height-2, 1)).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
