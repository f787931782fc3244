package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/rohankatakam/depscan/internal/analyzer"
)

// Palette
var (
	ColorAccent  = lipgloss.Color("#20B9B4")
	ColorBorder  = lipgloss.Color("#16858E")
	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorMuted   = lipgloss.Color("#6C8A94")
)

// styles is bound to one renderer so colour detection follows the writer
type styles struct {
	Title   lipgloss.Style
	Plain   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	High    lipgloss.Style
	Medium  lipgloss.Style
	Box     lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		Title:   r.NewStyle().Bold(true).Foreground(ColorAccent),
		Plain:   r.NewStyle(),
		Label:   r.NewStyle().Foreground(ColorAccent),
		Value:   r.NewStyle().Foreground(ColorWarning),
		Muted:   r.NewStyle().Foreground(ColorMuted),
		Success: r.NewStyle().Bold(true).Foreground(ColorSuccess),
		High:    r.NewStyle().Foreground(ColorError),
		Medium:  r.NewStyle().Foreground(ColorWarning),
		Box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1),
	}
}

func (s styles) level(l analyzer.Level) lipgloss.Style {
	if l == analyzer.LevelHigh {
		return s.High
	}
	return s.Medium
}
