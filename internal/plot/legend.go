package plot

import (
	"github.com/charmbracelet/lipgloss"
)

var legendLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

// RenderLegend renders the legend block for the chart's series, in first
// appearance order, or "" when the legend is hidden or no series exist.
// Position controls stacking: entries stack vertically on the right, and run
// horizontally along the bottom.
func (c *Chart) RenderLegend() string {
	if c.destroyed || !c.cfg.Legend.Visible {
		return ""
	}
	ids := c.store.Series()
	if len(ids) == 0 {
		return ""
	}

	entries := make([]string, 0, len(ids))
	for _, id := range ids {
		marker := c.SeriesStyle(id).Render("──")
		entries = append(entries, marker+" "+legendLabelStyle.Render(c.SeriesLabel(id)))
	}

	if c.cfg.Legend.Position == LegendBottom {
		out := entries[0]
		for _, e := range entries[1:] {
			out = lipgloss.JoinHorizontal(lipgloss.Top, out, "   ", e)
		}
		return out
	}
	return lipgloss.JoinVertical(lipgloss.Left, entries...)
}
