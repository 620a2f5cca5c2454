package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	Accent     = lipgloss.Color("#01B4E4")
	Gold       = lipgloss.Color("#F5C518")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
)

// ApplyTheme switches the accent color. "imdb" uses the IMDb gold;
// anything else keeps the default.
func ApplyTheme(name string) {
	if strings.EqualFold(name, "imdb") {
		Accent = Gold
	}
	rebuild()
}

// Borders
var (
	ActiveBorder   lipgloss.Style
	InactiveBorder lipgloss.Style
)

// Text styles
var (
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	DimStyle      lipgloss.Style
	AccentStyle   lipgloss.Style
	ErrorStyle    lipgloss.Style
	SuccessStyle  lipgloss.Style
	RatingStyle   lipgloss.Style
)

// Modal and help styles
var (
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	HelpKeyStyle    lipgloss.Style
	HelpDescStyle   lipgloss.Style
	SpinnerStyle    lipgloss.Style
	ToastStyle      lipgloss.Style
	BadgeStyle      lipgloss.Style
	DimBadgeStyle   lipgloss.Style
)

func init() {
	rebuild()
}

func rebuild() {
	ActiveBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent)
	InactiveBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(DimGray)

	TitleStyle = lipgloss.NewStyle().Foreground(White).Bold(true)
	SubtitleStyle = lipgloss.NewStyle().Foreground(LightGray)
	DimStyle = lipgloss.NewStyle().Foreground(DimGray)
	AccentStyle = lipgloss.NewStyle().Foreground(Accent)
	ErrorStyle = lipgloss.NewStyle().Foreground(Red)
	SuccessStyle = lipgloss.NewStyle().Foreground(Green)
	RatingStyle = lipgloss.NewStyle().Foreground(Gold)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent).
		Padding(1, 2).
		Background(SlateDark)
	ModalTitleStyle = lipgloss.NewStyle().
		Foreground(White).
		Bold(true).
		MarginBottom(1)

	HelpKeyStyle = lipgloss.NewStyle().Foreground(Accent)
	HelpDescStyle = lipgloss.NewStyle().Foreground(DimGray)
	SpinnerStyle = lipgloss.NewStyle().Foreground(Accent)

	ToastStyle = lipgloss.NewStyle().
		Foreground(White).
		Background(Red).
		Padding(0, 1)

	BadgeStyle = lipgloss.NewStyle().
		Foreground(SlateDark).
		Background(Accent).
		Padding(0, 1)
	DimBadgeStyle = lipgloss.NewStyle().
		Foreground(LightGray).
		Background(SlateLight).
		Padding(0, 1)
}

// SpinnerFrames animate progress outside of Bubble Tea, e.g. during setup
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Helper functions

// Truncate truncates a string to the given display width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		return string(runes[:min(width, len(runes))])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// Pad pads a string to the given display width
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return Truncate(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// RowPart represents a part of a row with optional foreground color
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
}

// RenderListRow renders a complete list row with uniform background when selected.
// Each part is styled explicitly to avoid ANSI reset code issues.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	bg := SlateLight

	var b strings.Builder
	visibleLen := 0

	for _, part := range parts {
		style := lipgloss.NewStyle()
		switch {
		case part.Foreground != nil:
			style = style.Foreground(*part.Foreground)
		case selected:
			style = style.Foreground(White)
		default:
			style = style.Foreground(LightGray)
		}
		if selected {
			style = style.Background(bg)
		}
		b.WriteString(style.Render(part.Text))
		visibleLen += lipgloss.Width(part.Text)
	}

	// Fill the width, minus one margin column on each side
	if pad := width - visibleLen - 2; pad > 0 {
		padStyle := lipgloss.NewStyle()
		if selected {
			padStyle = padStyle.Background(bg)
		}
		b.WriteString(padStyle.Render(strings.Repeat(" ", pad)))
	}

	marginStyle := lipgloss.NewStyle()
	if selected {
		marginStyle = marginStyle.Background(bg)
	}
	margin := marginStyle.Render(" ")

	return margin + b.String() + margin
}
