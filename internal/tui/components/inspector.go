package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/cinelist/internal/domain"
	"github.com/mmcdole/cinelist/internal/tui/styles"
)

// Inspector is the detail overlay for one title. It shows the list row
// immediately and fills in the detail once it has loaded.
type Inspector struct {
	visible bool
	item    domain.CatalogItem
	detail  *domain.TitleDetail
	genres  []string
	err     string
	width   int
	height  int
}

// NewInspector creates a hidden inspector
func NewInspector() Inspector {
	return Inspector{}
}

// Show opens the inspector for item. genreNames are the display names of
// the item's genres, used until the detail arrives.
func (i *Inspector) Show(item domain.CatalogItem, genreNames []string) {
	i.visible = true
	i.item = item
	i.genres = genreNames
	i.detail = nil
	i.err = ""
}

// Hide closes the inspector
func (i *Inspector) Hide() {
	i.visible = false
	i.detail = nil
}

// IsVisible returns whether the inspector is shown
func (i Inspector) IsVisible() bool {
	return i.visible
}

// Item returns the title being inspected
func (i Inspector) Item() domain.CatalogItem {
	return i.item
}

// SetDetail fills in the loaded detail. Detail for another title is ignored.
func (i *Inspector) SetDetail(detail *domain.TitleDetail) {
	if !i.visible || detail == nil || detail.ID != i.item.ID {
		return
	}
	i.detail = detail
	i.err = ""
}

// SetError shows a load failure in place of the overview
func (i *Inspector) SetError(msg string) {
	i.err = msg
}

// SetSize updates the available area
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
}

// View renders the inspector as a modal
func (i Inspector) View() string {
	if !i.visible {
		return ""
	}

	width := min(max(i.width-10, 30), 80)
	contentWidth := width - 6

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(styles.Truncate(i.item.Title, contentWidth)))
	b.WriteString("\n")

	var meta []string
	if i.item.Year > 0 {
		meta = append(meta, fmt.Sprintf("%d", i.item.Year))
	}
	if i.item.Kind == domain.KindSeries {
		meta = append(meta, "Series")
	} else {
		meta = append(meta, "Movie")
	}
	if i.detail != nil {
		if rt := i.detail.FormattedRuntime(); rt != "" {
			meta = append(meta, rt)
		}
		if i.detail.Status != "" {
			meta = append(meta, i.detail.Status)
		}
	}
	b.WriteString(styles.SubtitleStyle.Render(strings.Join(meta, " · ")))
	b.WriteString("  ")
	b.WriteString(styles.RatingStyle.Render("★ " + i.item.FormattedRating()))
	b.WriteString("\n")

	if i.detail != nil && i.detail.OriginalTitle != "" && i.detail.OriginalTitle != i.item.Title {
		b.WriteString(styles.DimStyle.Render(styles.Truncate(i.detail.OriginalTitle, contentWidth)))
		b.WriteString("\n")
	}

	genres := i.genres
	if i.detail != nil && len(i.detail.GenreNames) > 0 {
		genres = i.detail.GenreNames
	}
	if len(genres) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentStyle.Render(strings.Join(genres, ", ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case i.err != "":
		b.WriteString(styles.ErrorStyle.Render(i.err))
	case i.detail == nil:
		b.WriteString(styles.DimStyle.Render("Loading details..."))
	case i.detail.Overview == "":
		b.WriteString(styles.DimStyle.Render("No overview available."))
	default:
		b.WriteString(lipgloss.NewStyle().Width(contentWidth).Render(i.detail.Overview))
	}

	if i.detail != nil {
		if len(i.detail.Directors) > 0 {
			b.WriteString("\n\n")
			b.WriteString(styles.DimStyle.Render("Directed by "))
			b.WriteString(strings.Join(i.detail.Directors, ", "))
		}
		if len(i.detail.Stars) > 0 {
			b.WriteString("\n")
			b.WriteString(styles.DimStyle.Render("Starring "))
			b.WriteString(styles.Truncate(strings.Join(i.detail.Stars, ", "), contentWidth-9))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(styles.HelpKeyStyle.Render("esc"))
	b.WriteString(styles.HelpDescStyle.Render(" close"))

	return styles.ModalStyle.Width(width).Render(b.String())
}
