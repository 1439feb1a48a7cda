package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Kreijstal/plotstream/internal/plot"
)

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m.quit()

	case "?", "h":
		m.showHelp = !m.showHelp
		return m, nil

	case "f", "r":
		m.chart.ResetView()

	case "c":
		m.chart.ClearData()

	case "l":
		visible := !m.chart.Config().Legend.Visible
		if err := m.chart.UpdateChartConfig(plot.ConfigPatch{
			Legend: &plot.LegendPatch{Visible: &visible},
		}); err != nil {
			m.lastErr = err.Error()
		}
		if m.settings != nil {
			if err := m.settings.SetLegendVisible(visible); err != nil {
				m.logger.CaptureWarn("settings: save failed", "error", err)
			}
		}
		// Legend visibility changes the canvas area.
		w, h := m.chartSize()
		m.chart.Resize(w, h)

	case "g":
		show := !m.chart.Config().XAxis.ShowGridLines
		if err := m.chart.UpdateChartConfig(plot.ConfigPatch{
			XAxis: &plot.AxisPatch{ShowGridLines: &show},
			YAxis: &plot.AxisPatch{ShowGridLines: &show},
		}); err != nil {
			m.lastErr = err.Error()
		}
		if m.settings != nil {
			if err := m.settings.SetShowGridLines(show); err != nil {
				m.logger.CaptureWarn("settings: save failed", "error", err)
			}
		}
	}
	return m, nil
}

// handleMouse routes wheel and drag events into chart gestures.
func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	ev := tea.MouseEvent(msg)

	if ev.IsWheel() {
		switch ev.Button {
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
			gx, gy := m.graphCell(msg.X, msg.Y)
			m.chart.HandleWheel(gx, gy,
				ev.Button == tea.MouseButtonWheelUp,
				wheelAxes(ev))
		}
		return m, nil
	}

	switch {
	case ev.Button == tea.MouseButtonLeft && ev.Action == tea.MouseActionPress:
		m.dragging = true
		m.lastMouseX, m.lastMouseY = msg.X, msg.Y
		m.chart.DragStart()

	case ev.Action == tea.MouseActionMotion && m.dragging:
		dx := msg.X - m.lastMouseX
		// Screen y grows downward; gesture deltas use bottom-up pixels.
		dy := m.lastMouseY - msg.Y
		m.lastMouseX, m.lastMouseY = msg.X, msg.Y
		m.chart.DragDelta(float64(dx), float64(dy))

	case ev.Action == tea.MouseActionRelease && m.dragging:
		m.dragging = false
		m.chart.DragEnd()
	}
	return m, nil
}

// wheelAxes maps zoom modifiers: alt restricts to X, shift to Y, both or
// neither zoom both axes.
func wheelAxes(ev tea.MouseEvent) plot.AxisMask {
	switch {
	case ev.Alt && ev.Shift:
		return plot.MaskXY
	case ev.Alt:
		return plot.MaskX
	case ev.Shift:
		return plot.MaskY
	default:
		return plot.MaskXY
	}
}

// graphCell converts terminal coordinates into graph-local cells with the
// origin at the bottom-left of the plotting area.
func (m *Model) graphCell(termX, termY int) (int, int) {
	// The canvas sits inside a one-cell border; the plotting area starts
	// right of the Y axis column.
	gx := termX - 1 - (m.chart.Origin().X + 1)
	gy := (m.chart.GraphHeight() - 1) - (termY - 1)

	gx = clampInt(gx, 0, m.chart.GraphWidth()-1)
	gy = clampInt(gy, 0, m.chart.GraphHeight()-1)
	return gx, gy
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
