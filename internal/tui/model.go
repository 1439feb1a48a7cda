package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/time/rate"

	"github.com/Kreijstal/plotstream/internal/feed"
	"github.com/Kreijstal/plotstream/internal/observability"
	"github.com/Kreijstal/plotstream/internal/plot"
)

const (
	defaultTickInterval = 200 * time.Millisecond

	// Minimum interval between chart rasterizations. Data can arrive much
	// faster than a terminal can usefully repaint.
	redrawInterval = 50 * time.Millisecond
)

// Params configures the application model.
type Params struct {
	// SamplePath is a JSONL file to tail. Ignored when Demo is set.
	SamplePath string

	// Demo replaces the file feed with a synthetic generator.
	Demo bool

	// TickInterval is the demo generator period.
	TickInterval time.Duration

	Config plot.Config
	Logger *observability.CoreLogger

	// Settings optionally persists UI preferences across sessions and
	// overrides the corresponding Config fields at startup.
	Settings *SettingsManager
}

// Model is the application state.
//
// Implements tea.Model.
type Model struct {
	chart    *plot.Chart
	logger   *observability.CoreLogger
	settings *SettingsManager

	tailer *feed.Tailer
	watch  *feed.WatchManager

	synth        *feed.Synth
	tickInterval time.Duration

	width, height int
	showHelp      bool

	// Drag state for pan gestures.
	dragging               bool
	lastMouseX, lastMouseY int

	// Rasterization throttle; the cached frame is reused between repaints.
	limiter    *rate.Limiter
	chartFrame string

	lastErr string
}

func NewModel(params Params) (*Model, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("tui: logger is required")
	}

	cfg := params.Config
	if params.Settings != nil {
		s := params.Settings.Snapshot()
		cfg.Legend.Visible = s.LegendVisible
		cfg.Legend.Position = s.LegendPosition
		cfg.XAxis.ShowGridLines = s.ShowGridLines
		cfg.YAxis.ShowGridLines = s.ShowGridLines
	}

	// Sized properly on the first WindowSizeMsg.
	chart, err := plot.NewChart(80, 24, cfg, params.Logger)
	if err != nil {
		return nil, err
	}

	m := &Model{
		chart:        chart,
		logger:       params.Logger,
		settings:     params.Settings,
		tickInterval: params.TickInterval,
		limiter:      rate.NewLimiter(rate.Every(redrawInterval), 1),
	}
	if m.tickInterval <= 0 {
		m.tickInterval = defaultTickInterval
	}

	if params.Demo {
		m.synth = feed.NewSynth(time.Now().UnixNano())
	} else {
		msgs := make(chan tea.Msg, 16)
		m.tailer = feed.NewTailer(params.SamplePath, params.Logger)
		m.watch = feed.NewWatchManager(msgs, params.Logger)
	}
	return m, nil
}

// Chart exposes the chart widget, mainly for tests and the status bar.
func (m *Model) Chart() *plot.Chart { return m.chart }

// Init implements tea.Model.Init.
func (m *Model) Init() tea.Cmd {
	if m.synth != nil {
		return m.tickCmd()
	}

	if err := m.watch.Start(m.tailer.Path()); err != nil {
		return func() tea.Msg { return ErrorMsg{Err: err} }
	}
	// Read whatever is already in the file, then wait for changes.
	return tea.Batch(m.readFeedCmd(), m.waitForWatcherCmd())
}

// Update implements tea.Model.Update.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch t := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = t.Width, t.Height
		w, h := m.chartSize()
		m.chart.Resize(w, h)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(t)

	case tea.MouseMsg:
		return m.handleMouse(t)

	case DataMsg:
		m.chart.AddData(t.Batches)
		return m, nil

	case TickMsg:
		m.chart.AddData(m.synth.Next(1))
		return m, m.tickCmd()

	case feed.FileChangedMsg:
		return m, tea.Batch(m.readFeedCmd(), m.waitForWatcherCmd())

	case ErrorMsg:
		m.lastErr = t.Err.Error()
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.View.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	// Repaint the canvas at most once per redraw interval; between
	// repaints the cached frame is shown with a fresh status bar.
	if m.chartFrame == "" || (m.chart.Dirty() && m.limiter.Allow()) {
		m.chart.Draw()
		m.chartFrame = m.chart.View()
	}

	body := borderStyle.Render(m.chartFrame)
	if legend := m.chart.RenderLegend(); legend != "" {
		if m.chart.Config().Legend.Position == plot.LegendBottom {
			body = lipgloss.JoinVertical(lipgloss.Left, body, legend)
		} else {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", legend)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar())
}

// chartSize returns the canvas cell size for the current terminal size and
// legend placement.
func (m *Model) chartSize() (int, int) {
	w := m.width - 2 // border
	h := m.height - StatusBarHeight - 2

	cfg := m.chart.Config()
	if cfg.Legend.Visible {
		if cfg.Legend.Position == plot.LegendBottom {
			h--
		} else {
			w -= LegendColWidth
		}
	}
	if w < MinChartWidth {
		w = MinChartWidth
	}
	if h < MinChartHeight {
		h = MinChartHeight
	}
	return w, h
}

func (m *Model) renderStatusBar() string {
	phase := statusPhaseStyle.Render(m.chart.Phase().String())

	x, y := m.chart.XDomain(), m.chart.YDomain()
	points := 0
	for _, id := range m.chart.Store().Series() {
		points += m.chart.Store().Len(id)
	}
	info := statusStyle.Render(fmt.Sprintf(
		" | x [%.2f, %.2f] y [%.2f, %.2f] | %d series, %d points | ? help",
		x.Min, x.Max, y.Min, y.Max, len(m.chart.Store().Series()), points))

	line := phase + info
	if m.lastErr != "" {
		line += statusErrStyle.Render(" | " + m.lastErr)
	}
	return line
}

func (m *Model) renderHelp() string {
	title := titleStyle.Render("plotstream")
	body := helpStyle.Render(`
  mouse wheel     zoom at cursor (alt: x only, shift: y only)
  drag            pan
  f / r           follow mode (reset view)
  c               clear data
  l               toggle legend
  g               toggle grid lines
  ? / h           toggle this help
  q / ctrl+c      quit
`)
	return lipgloss.JoinVertical(lipgloss.Left, title, body)
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tickInterval, func(at time.Time) tea.Msg {
		return TickMsg{At: at}
	})
}

func (m *Model) waitForWatcherCmd() tea.Cmd {
	return m.watch.WaitForMsg
}

// readFeedCmd tails the sample file off the UI goroutine.
func (m *Model) readFeedCmd() tea.Cmd {
	return func() tea.Msg {
		batches, err := m.tailer.ReadNew()
		if err != nil {
			return ErrorMsg{Err: err}
		}
		if len(batches) == 0 {
			return nil
		}
		return DataMsg{Batches: batches}
	}
}

// quit tears the app down in order: stop the feed, then the chart.
func (m *Model) quit() (tea.Model, tea.Cmd) {
	if m.watch != nil {
		m.watch.Finish()
	}
	m.chart.Destroy()
	return m, tea.Quit
}
