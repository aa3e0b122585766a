package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles is the set of lipgloss styles derived from a theme.
type styles struct {
	title  lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	muted  lipgloss.Style
	panel  lipgloss.Style
	chart  lipgloss.Style
	good   lipgloss.Style
	warn   lipgloss.Style
	bad    lipgloss.Style
	status lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(t.Primary).MarginBottom(1),
		label: lipgloss.NewStyle().Foreground(t.Muted).Width(16),
		value: lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		muted: lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 2),
		chart:  lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 0),
		good:   lipgloss.NewStyle().Foreground(t.Good),
		warn:   lipgloss.NewStyle().Foreground(t.Warning),
		bad:    lipgloss.NewStyle().Foreground(t.Bad),
		status: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
	}
}

// progressBar renders frac of width cells, colored by how far along it is.
func (s styles) progressBar(frac float64, width int) string {
	filled := int(frac * float64(width))
	filled = max(0, min(filled, width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case frac > 0.8:
		return s.good.Render(bar)
	case frac > 0.4:
		return s.warn.Render(bar)
	default:
		return s.bad.Render(bar)
	}
}
