package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles is derived from a Theme whenever the theme changes.
type styles struct {
	header    lipgloss.Style
	panel     lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	selected  lipgloss.Style
	running   lipgloss.Style
	paused    lipgloss.Style
	warning   lipgloss.Style
	muted     lipgloss.Style
	sparkHigh lipgloss.Style
	sparkMid  lipgloss.Style
	sparkLow  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(0, 1),
		label:     lipgloss.NewStyle().Foreground(t.Muted).Width(8),
		value:     lipgloss.NewStyle().Foreground(t.Text),
		selected:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		running:   lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		paused:    lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		warning:   lipgloss.NewStyle().Foreground(t.Error),
		muted:     lipgloss.NewStyle().Foreground(t.Muted),
		sparkHigh: lipgloss.NewStyle().Foreground(t.Error),
		sparkMid:  lipgloss.NewStyle().Foreground(t.Warning),
		sparkLow:  lipgloss.NewStyle().Foreground(t.Primary),
	}
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// sparkline renders the last width values scaled between their min and
// max. High values are drawn hot.
func (s styles) sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return s.muted.Render(strings.Repeat("─", width))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		idx := int(norm * float64(len(sparkChars)-1))
		idx = max(0, min(idx, len(sparkChars)-1))
		c := string(sparkChars[idx])
		switch {
		case norm > 0.7:
			b.WriteString(s.sparkHigh.Render(c))
		case norm > 0.3:
			b.WriteString(s.sparkMid.Render(c))
		default:
			b.WriteString(s.sparkLow.Render(c))
		}
	}
	return b.String()
}

func (s styles) separator(width int) string {
	if width < 7 {
		return s.muted.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return s.muted.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}
