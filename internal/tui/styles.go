package tui

import "github.com/charmbracelet/lipgloss"

// Layout constants.
const (
	StatusBarHeight = 1
	MinChartWidth   = 20
	MinChartHeight  = 5

	// Legend column width when positioned on the right.
	LegendColWidth = 18
)

var (
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")) // dark gray

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")). // light gray
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	statusPhaseStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#4C9AFF")).
				Bold(true)

	statusErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF7452"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)
