package tui

import "github.com/mmcdole/cinelist/internal/tui/components"

// Vertical chrome: header line, blank line, footer line
const (
	HeaderHeight = 2
	FooterHeight = 1
	MinListWidth = 20
)

// listWidth is the width left for the title list
func (m Model) listWidth() int {
	width := m.Width
	if m.Sidebar.IsVisible() {
		width -= components.SidebarWidth
	}
	return max(width, MinListWidth)
}

func (m Model) bodyHeight() int {
	footer := FooterHeight
	if m.showHelp {
		footer = 0
		for _, col := range m.keys.FullHelp() {
			footer = max(footer, len(col))
		}
	}
	return max(m.Height-HeaderHeight-footer, 1)
}

// updateLayout recalculates component sizes
func (m *Model) updateLayout() {
	body := m.bodyHeight()
	m.Titles.SetSize(m.listWidth(), body)
	m.Sidebar.SetHeight(body)
	m.Inspector.SetSize(m.Width, body)
	m.help.Width = m.Width
}
