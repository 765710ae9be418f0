package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasklist-go/internal/config"
)

// Palette holds the colors for one theme.
type Palette struct {
	Name    string
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Danger  lipgloss.Color
	Success lipgloss.Color
	Border  lipgloss.Color
	// Heat runs from the first row (strongest) to the last (faintest).
	Heat []lipgloss.Color
}

// LightPalette is used on light terminals.
func LightPalette() Palette {
	return Palette{
		Name:    config.ThemeLight,
		Text:    lipgloss.Color("#111827"),
		Muted:   lipgloss.Color("#6B7280"),
		Accent:  lipgloss.Color("#6D28D9"),
		Danger:  lipgloss.Color("#B91C1C"),
		Success: lipgloss.Color("#047857"),
		Border:  lipgloss.Color("#9CA3AF"),
		Heat: []lipgloss.Color{
			"#DC2626", "#EF4444", "#F87171", "#FCA5A5", "#FECACA",
		},
	}
}

// DarkPalette is used on dark terminals.
func DarkPalette() Palette {
	return Palette{
		Name:    config.ThemeDark,
		Text:    lipgloss.Color("#F9FAFB"),
		Muted:   lipgloss.Color("#9CA3AF"),
		Accent:  lipgloss.Color("#A78BFA"),
		Danger:  lipgloss.Color("#F87171"),
		Success: lipgloss.Color("#10B981"),
		Border:  lipgloss.Color("#6B7280"),
		Heat: []lipgloss.Color{
			"#F87171", "#DC2626", "#B91C1C", "#7F1D1D", "#450A0A",
		},
	}
}

// PaletteFor returns the palette for a theme name, defaulting to light.
func PaletteFor(theme string) Palette {
	if theme == config.ThemeDark {
		return DarkPalette()
	}
	return LightPalette()
}

// Styles are the rendered lipgloss styles for a palette.
type Styles struct {
	Palette     Palette
	Title       lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Row         lipgloss.Style
	Selected    lipgloss.Style
	Critical    lipgloss.Style
	Due         lipgloss.Style
	Muted       lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
	Form        lipgloss.Style
	Label       lipgloss.Style
}

// NewStyles builds styles from p.
func NewStyles(p Palette) Styles {
	return Styles{
		Palette: p,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			MarginBottom(1),
		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			Underline(true).
			Padding(0, 2),
		TabInactive: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 2),
		Row:      lipgloss.NewStyle().Foreground(p.Text),
		Selected: lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Critical: lipgloss.NewStyle().Foreground(p.Danger).Bold(true),
		Due:      lipgloss.NewStyle().Foreground(p.Muted),
		Muted:    lipgloss.NewStyle().Foreground(p.Muted),
		Status:   lipgloss.NewStyle().Foreground(p.Success),
		Error:    lipgloss.NewStyle().Foreground(p.Danger),
		Form: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		Label: lipgloss.NewStyle().Foreground(p.Muted).Width(10),
	}
}

// Heat returns the marker style for row i of n. Earlier rows are stronger.
func (s Styles) Heat(i, n int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.Palette.Heat[heatLevel(i, n, len(s.Palette.Heat))])
}

// heatLevel maps row i of n onto one of levels buckets.
func heatLevel(i, n, levels int) int {
	if n <= 1 || levels <= 1 || i <= 0 {
		return 0
	}
	if i >= n {
		i = n - 1
	}
	return i * levels / n
}
