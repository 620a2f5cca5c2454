package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/cinelist/internal/domain"
	"github.com/mmcdole/cinelist/internal/tui/styles"
)

// Column widths for list rows
const (
	kindColumnWidth   = 7
	yearColumnWidth   = 6
	ratingColumnWidth = 6
)

// TitleList is the scrollable list of catalog items
type TitleList struct {
	items  []domain.CatalogItem
	cursor int
	offset int
	width  int
	height int

	// Status lines rendered instead of, or below, the rows
	loading     string
	loadingMore string
	emptyMsg    string
}

// NewTitleList creates an empty list
func NewTitleList() TitleList {
	return TitleList{}
}

// SetSize updates the component dimensions
func (l *TitleList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.ensureVisible()
}

// SetItems replaces the rows. The cursor is kept where it was, clamped to the
// new length, so appended pages do not move the selection.
func (l *TitleList) SetItems(items []domain.CatalogItem) {
	l.items = items
	if l.cursor >= len(items) {
		l.cursor = max(len(items)-1, 0)
	}
	l.ensureVisible()
}

// Reset moves the selection back to the top
func (l *TitleList) Reset() {
	l.cursor = 0
	l.offset = 0
}

// SetStatus sets the loading line, the footer loading line and the empty message.
// Empty strings hide them.
func (l *TitleList) SetStatus(loading, loadingMore, empty string) {
	l.loading = loading
	l.loadingMore = loadingMore
	l.emptyMsg = empty
	l.ensureVisible()
}

// Len returns the number of rows
func (l TitleList) Len() int {
	return len(l.items)
}

// Cursor returns the selected row index
func (l TitleList) Cursor() int {
	return l.cursor
}

// Selected returns the selected item
func (l TitleList) Selected() (domain.CatalogItem, bool) {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return domain.CatalogItem{}, false
	}
	return l.items[l.cursor], true
}

// LastVisible returns the index of the last row on screen, -1 when empty
func (l TitleList) LastVisible() int {
	if len(l.items) == 0 {
		return -1
	}
	return min(l.offset+l.visibleRows(), len(l.items)) - 1
}

// MoveUp moves the selection by n rows towards the top
func (l *TitleList) MoveUp(n int) {
	l.cursor = max(l.cursor-n, 0)
	l.ensureVisible()
}

// MoveDown moves the selection by n rows towards the bottom
func (l *TitleList) MoveDown(n int) {
	if len(l.items) == 0 {
		return
	}
	l.cursor = min(l.cursor+n, len(l.items)-1)
	l.ensureVisible()
}

// PageSize is the number of rows a page key moves
func (l TitleList) PageSize() int {
	return max(l.visibleRows()-1, 1)
}

// Top selects the first row
func (l *TitleList) Top() {
	l.cursor = 0
	l.ensureVisible()
}

// Bottom selects the last row
func (l *TitleList) Bottom() {
	l.cursor = max(len(l.items)-1, 0)
	l.ensureVisible()
}

func (l TitleList) visibleRows() int {
	rows := l.height
	if l.loadingMore != "" {
		rows--
	}
	return max(rows, 1)
}

func (l *TitleList) ensureVisible() {
	rows := l.visibleRows()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+rows {
		l.offset = l.cursor - rows + 1
	}
	l.offset = max(min(l.offset, len(l.items)-rows), 0)
}

// View renders the component
func (l TitleList) View() string {
	if l.loading != "" && len(l.items) == 0 {
		return l.centered(l.loading)
	}
	if l.emptyMsg != "" && len(l.items) == 0 {
		return l.centered(styles.DimStyle.Render(l.emptyMsg))
	}

	var lines []string
	end := min(l.offset+l.visibleRows(), len(l.items))
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderRow(l.items[i], i == l.cursor))
	}
	if l.loadingMore != "" {
		lines = append(lines, " "+l.loadingMore)
	}
	for len(lines) < l.height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (l TitleList) centered(s string) string {
	return lipgloss.Place(l.width, l.height, lipgloss.Center, lipgloss.Center, s)
}

func (l TitleList) renderRow(item domain.CatalogItem, selected bool) string {
	titleWidth := l.width - kindColumnWidth - yearColumnWidth - ratingColumnWidth - 2
	if titleWidth < 10 {
		titleWidth = 10
	}

	kind := "Movie"
	if item.Kind == domain.KindSeries {
		kind = "Series"
	}
	year := ""
	if item.Year > 0 {
		year = fmt.Sprintf("%d", item.Year)
	}

	dim := styles.DimGray
	gold := styles.Gold
	ratingFg := &gold
	if item.Rating == nil {
		ratingFg = &dim
	}

	parts := []styles.RowPart{
		{Text: styles.Pad(item.Title, titleWidth)},
		{Text: styles.Pad(kind, kindColumnWidth), Foreground: &dim},
		{Text: styles.Pad(year, yearColumnWidth), Foreground: &dim},
		{Text: fmt.Sprintf("%*s", ratingColumnWidth-1, item.FormattedRating()), Foreground: ratingFg},
	}
	return styles.RenderListRow(parts, selected, l.width)
}
