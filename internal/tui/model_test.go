package tui_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/Kreijstal/plotstream/internal/observability"
	"github.com/Kreijstal/plotstream/internal/plot"
	"github.com/Kreijstal/plotstream/internal/tui"
)

func newTestModel(t *testing.T) *tui.Model {
	t.Helper()
	m, err := tui.NewModel(tui.Params{
		Demo:   true,
		Config: plot.DefaultConfig(),
		Logger: observability.NewNoOpLogger(),
	})
	require.NoError(t, err)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(*tui.Model)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_RequiresLogger(t *testing.T) {
	t.Parallel()

	_, err := tui.NewModel(tui.Params{Demo: true, Config: plot.DefaultConfig()})
	require.Error(t, err)
}

func TestModel_DataMsgIngests(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	updated, _ := m.Update(tui.DataMsg{Batches: map[string]plot.SeriesBatch{
		"loss": {X: []float64{1, 2}, Y: []float64{0.5, 0.4}},
	}})
	m = updated.(*tui.Model)

	require.Equal(t, 2, m.Chart().Store().Len("loss"))
	require.True(t, m.Chart().Following())
}

func TestModel_ResetKeyRestoresFollowing(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.Update(tui.DataMsg{Batches: map[string]plot.SeriesBatch{
		"a": {X: []float64{0, 10}, Y: []float64{0, 1}},
	}})

	xMin, xMax := 1.0, 5.0
	require.NoError(t, m.Chart().SetView(plot.ViewRequest{XMin: &xMin, XMax: &xMax}))
	require.Equal(t, plot.Frozen, m.Chart().Phase())

	m.Update(key("r"))
	require.True(t, m.Chart().Following())
}

func TestModel_ClearKeyEmptiesStore(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.Update(tui.DataMsg{Batches: map[string]plot.SeriesBatch{
		"a": {X: []float64{1}, Y: []float64{1}},
	}})

	m.Update(key("c"))
	require.Equal(t, 0, m.Chart().Store().Len("a"))
	require.True(t, m.Chart().Store().Has("a"))
}

func TestModel_LegendToggle(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	require.True(t, m.Chart().Config().Legend.Visible)

	m.Update(key("l"))
	require.False(t, m.Chart().Config().Legend.Visible)

	m.Update(key("l"))
	require.True(t, m.Chart().Config().Legend.Visible)
}

func TestModel_WheelZoomFreezesView(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.Update(tui.DataMsg{Batches: map[string]plot.SeriesBatch{
		"a": {X: []float64{0, 100}, Y: []float64{0, 10}},
	}})
	before := m.Chart().XDomain()

	m.Update(tea.MouseMsg{
		X: 40, Y: 10,
		Button: tea.MouseButtonWheelUp,
		Action: tea.MouseActionPress,
	})

	require.Equal(t, plot.Frozen, m.Chart().Phase())
	require.Less(t, m.Chart().XDomain().Width(), before.Width())
}

func TestModel_DragLifecycle(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.Update(tui.DataMsg{Batches: map[string]plot.SeriesBatch{
		"a": {X: []float64{0, 100}, Y: []float64{0, 10}},
	}})
	before := m.Chart().XDomain()

	press := tea.MouseMsg{X: 40, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
	move := tea.MouseMsg{X: 50, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion}
	release := tea.MouseMsg{X: 50, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease}

	m.Update(press)
	require.Equal(t, plot.GestureActive, m.Chart().Phase())
	m.Update(move)
	m.Update(release)

	require.Equal(t, plot.Frozen, m.Chart().Phase())
	after := m.Chart().XDomain()
	require.InDelta(t, before.Width(), after.Width(), 1e-9)
	require.Less(t, after.Min, before.Min, "dragging right pans toward smaller x")
}

func TestModel_ViewRendersStatusBar(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.Update(tui.DataMsg{Batches: map[string]plot.SeriesBatch{
		"a": {X: []float64{1}, Y: []float64{1}},
	}})

	out := m.View()
	require.Contains(t, out, "following")
	require.Contains(t, out, "1 series")
}

func TestModel_QuitDestroysChart(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	require.True(t, m.Chart().Destroyed())
}
