package plot

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/graph"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/Kreijstal/plotstream/internal/observability"
)

// ErrDestroyed is returned by chart operations after Destroy.
var ErrDestroyed = errors.New("plot: chart destroyed")

// tailAnchorEdge is how close to the right edge (as a proportion of graph
// width) the cursor must be for a zoom-in to stay anchored to the newest data.
const tailAnchorEdge = 0.95

// ViewRequest is an explicit viewport. Nil bounds default: omitted X bounds
// keep the current live value, while omitting both Y bounds auto-scales Y to
// the data visible in the requested X window.
type ViewRequest struct {
	XMin *float64
	XMax *float64
	YMin *float64
	YMax *float64
}

// Chart is a multi-series real-time line chart. It owns the data store, the
// view state machine and the presentation config, and renders into the
// embedded canvas with Braille patterns.
//
// Chart is not safe for concurrent use; all calls must come from the owning
// event loop.
type Chart struct {
	linechart.Model

	cfg     Config
	store   *Store
	view    *View
	palette *Palette
	styles  map[string]lipgloss.Style
	logger  *observability.CoreLogger

	gridStyle lipgloss.Style

	dirty     bool
	destroyed bool
}

// NewChart builds a chart with the given terminal cell size. The config is
// normalized first and rejected if still unusable.
func NewChart(width, height int, cfg Config, logger *observability.CoreLogger) (*Chart, error) {
	if logger == nil {
		return nil, errors.New("plot: logger is required")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("plot: chart size must be positive, got %dx%d", width, height)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &Chart{
		Model: linechart.New(width, height, 0, 1, 0, 1,
			linechart.WithXYSteps(4, 5),
			linechart.WithYLabelFormatter(func(_ int, f float64) string {
				return formatAxisLabel(f)
			}),
		),
		cfg:       cfg,
		store:     NewStore(cfg.MaxDataPointsPerSeries),
		view:      NewView(),
		palette:   NewPalette(),
		styles:    make(map[string]lipgloss.Style),
		logger:    logger,
		gridStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
	for id := range cfg.Series {
		c.ensureSeries(id)
	}

	// Establish initial domains (fixed ranges apply even with no data).
	c.view.ResetView(c.recomputeDomains)
	c.syncRanges()
	return c, nil
}

// View state accessors, mainly for the status surface and tests.

func (c *Chart) Phase() Phase    { return c.view.Phase() }
func (c *Chart) Following() bool { return c.view.Following() }
func (c *Chart) XDomain() Domain { return c.view.X() }
func (c *Chart) YDomain() Domain { return c.view.Y() }
func (c *Chart) Config() Config  { return c.cfg }
func (c *Chart) Store() *Store   { return c.store }
func (c *Chart) Destroyed() bool { return c.destroyed }
func (c *Chart) Dirty() bool     { return c.dirty }

// SeriesStyle returns the lipgloss style drawn for a series.
func (c *Chart) SeriesStyle(id string) lipgloss.Style {
	if s, ok := c.styles[id]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// SeriesLabel returns the legend label for a series, defaulting to its id.
func (c *Chart) SeriesLabel(id string) string {
	if sc, ok := c.cfg.Series[id]; ok && sc.Label != "" {
		return sc.Label
	}
	return id
}

// AddData ingests one batch per series. A malformed batch is dropped with a
// warning; the remaining series still ingest. While following, both domains
// recompute; a frozen or gesture-held viewport only redraws geometry.
func (c *Chart) AddData(data map[string]SeriesBatch) {
	if c.destroyed || len(data) == 0 {
		return
	}

	ids := make([]string, 0, len(data))
	for id := range data {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	ingested := false
	for _, id := range ids {
		batch := data[id]
		if err := batch.Validate(); err != nil {
			c.logger.CaptureWarn("plot: dropping batch",
				"series", id, "error", err)
			continue
		}
		if batch.Len() == 0 {
			continue
		}
		c.store.Append(id, batch)
		c.ensureSeries(id)
		ingested = true
	}
	if !ingested {
		return
	}

	c.applyRedraw(c.view.DataArrived(c.recomputeDomains))
}

// SetView pins an explicit viewport and exits follow mode. Bounds that
// resolve to an empty or inverted interval are rejected.
func (c *Chart) SetView(req ViewRequest) error {
	if c.destroyed {
		return ErrDestroyed
	}

	xDom := c.view.X()
	if req.XMin != nil {
		xDom.Min = *req.XMin
	}
	if req.XMax != nil {
		xDom.Max = *req.XMax
	}
	if !xDom.Valid() {
		return fmt.Errorf("plot: invalid x view [%v, %v]", xDom.Min, xDom.Max)
	}
	xDom = c.clampWidth(xDom, c.cfg.XAxis)

	var yDom Domain
	if req.YMin == nil && req.YMax == nil {
		yDom = VisibleYDomain(c.store, xDom, c.cfg.YAxis)
	} else {
		yDom = c.view.Y()
		if req.YMin != nil {
			yDom.Min = *req.YMin
		}
		if req.YMax != nil {
			yDom.Max = *req.YMax
		}
	}
	if !yDom.Valid() {
		return fmt.Errorf("plot: invalid y view [%v, %v]", yDom.Min, yDom.Max)
	}
	yDom = c.clampWidth(yDom, c.cfg.YAxis)

	c.applyRedraw(c.view.SetView(xDom, yDom))
	return nil
}

// ResetView returns to follow mode with freshly computed full-data domains.
// Calling it while already following is idempotent.
func (c *Chart) ResetView() {
	if c.destroyed {
		return
	}
	c.applyRedraw(c.view.ResetView(c.recomputeDomains))
}

// ClearData empties every series buffer. Series identities, colors and
// config survive. A frozen viewport is kept; follow mode falls back to the
// default domains.
func (c *Chart) ClearData() {
	if c.destroyed {
		return
	}
	c.store.Clear()
	c.applyRedraw(c.view.DataCleared(c.recomputeDomains))
}

// UpdateSeriesConfig patches presentation settings for one series. Unknown
// series are reported and ignored.
func (c *Chart) UpdateSeriesConfig(id string, patch SeriesPatch) {
	if c.destroyed {
		return
	}
	_, known := c.cfg.Series[id]
	if !known && !c.store.Has(id) {
		c.logger.CaptureWarn("plot: series config for unknown series", "series", id)
		return
	}
	sc := c.cfg.Series[id]
	mergeSeries(&sc, patch)
	c.cfg.Series[id] = sc
	c.refreshStyle(id)
	c.markDirty(RedrawLines | RedrawLegend)
}

// UpdateChartConfig merges a partial config. Validation runs on the merged
// result; on failure the previous config stays in effect. Pinning an axis
// range behaves like an explicit setView; a shrunk retention limit prunes
// retroactively.
func (c *Chart) UpdateChartConfig(patch ConfigPatch) error {
	if c.destroyed {
		return ErrDestroyed
	}

	next := c.cfg.merge(patch)
	if err := next.validate(); err != nil {
		return err
	}

	pin := patchPinsRange(patch)
	c.cfg = next
	if c.store.MaxPoints() != next.MaxDataPointsPerSeries {
		c.store.SetMaxPoints(next.MaxDataPointsPerSeries)
	}
	for id := range next.Series {
		c.ensureSeries(id)
		c.refreshStyle(id)
	}

	c.applyRedraw(c.view.ConfigChanged(pin, c.recomputeDomains))

	// A held viewport must satisfy newly configured width clamps right away,
	// not on the next gesture.
	if !pin && c.view.Phase() == Frozen {
		xd := c.clampWidth(c.view.X(), c.cfg.XAxis)
		yd := c.clampWidth(c.view.Y(), c.cfg.YAxis)
		if xd != c.view.X() || yd != c.view.Y() {
			c.applyRedraw(c.view.SetView(xd, yd))
		}
	}
	c.markDirty(RedrawAll)
	return nil
}

// patchPinsRange reports whether the patch establishes a fixed axis bound,
// which pins the viewport like setView.
func patchPinsRange(p ConfigPatch) bool {
	pins := func(a *AxisPatch) bool {
		return a != nil && a.Range != nil && (a.Range.Min != nil || a.Range.Max != nil)
	}
	return pins(p.XAxis) || pins(p.YAxis)
}

// GestureStart freezes the current domains and begins accumulating gesture
// deltas against them. Safe to call redundantly. With all interactions
// disabled no gesture can begin, so the programmatic path cannot move a
// view the pointer paths would refuse to.
func (c *Chart) GestureStart() {
	if c.destroyed || !(c.cfg.Interactions.Zoom || c.cfg.Interactions.Pan) {
		return
	}
	c.view.GestureStart(float64(c.GraphWidth()), float64(c.GraphHeight()))
}

// GestureChange applies a cumulative zoom/pan transform relative to the
// domains at gesture start. Outside a gesture it is ignored.
func (c *Chart) GestureChange(t Transform) {
	if c.destroyed || !(c.cfg.Interactions.Zoom || c.cfg.Interactions.Pan) {
		return
	}
	if c.view.Phase() != GestureActive {
		c.logger.Debug("plot: gesture change outside gesture, ignoring")
		return
	}
	xd, yd, ok := c.view.Tracker().ZoomPan(t)
	if !ok {
		return
	}
	c.applyGestureDomains(xd, yd, false)
}

// GestureEnd retains the gesture's final viewport as the frozen view.
func (c *Chart) GestureEnd() {
	if c.destroyed {
		return
	}
	c.applyRedraw(c.view.GestureEnd())
}

// HandleWheel applies one zoom notch about the cursor. mouseX/mouseY are
// graph-local cells with the origin at the bottom-left. Each notch is a
// self-contained gesture unless one is already active (e.g. wheel during a
// drag). The value under the cursor stays under the cursor.
func (c *Chart) HandleWheel(mouseX, mouseY int, zoomIn bool, axes AxisMask) {
	if c.destroyed || !c.cfg.Interactions.Zoom {
		return
	}
	if axes == 0 {
		axes = MaskXY
	}

	started := c.view.Phase() == GestureActive
	if !started {
		c.GestureStart()
	}

	factor := 1 - c.cfg.ZoomStep
	if zoomIn {
		factor = 1 / (1 - c.cfg.ZoomStep)
	}

	px := float64(mouseX)
	py := float64(mouseY)
	xd, yd, ok := c.view.Tracker().WheelZoom(px, py, factor, axes)
	if ok {
		anchor := zoomIn && axes&MaskX != 0 &&
			px >= tailAnchorEdge*float64(c.GraphWidth())
		if anchor {
			xd = c.anchorTail(xd)
		}
		c.applyGestureDomains(xd, yd, false)
	}
	if !started {
		c.GestureEnd()
	}
}

// DragStart begins a pan gesture.
func (c *Chart) DragStart() {
	if c.destroyed || !c.cfg.Interactions.Pan {
		return
	}
	c.GestureStart()
}

// DragDelta pans by a pixel delta with the origin at the bottom-left:
// positive dx moves the content right (revealing smaller x), positive dy
// moves it up.
func (c *Chart) DragDelta(dxPx, dyPx float64) {
	if c.destroyed || !c.cfg.Interactions.Pan {
		return
	}
	if c.view.Phase() != GestureActive {
		return
	}
	xd, yd, ok := c.view.Tracker().Drag(dxPx, dyPx)
	if !ok {
		return
	}
	c.applyGestureDomains(xd, yd, true)
}

// DragEnd finishes a pan gesture.
func (c *Chart) DragEnd() {
	if c.destroyed {
		return
	}
	c.applyRedraw(c.view.GestureEnd())
}

// applyGestureDomains clamps tracker output and publishes it. Width clamps
// are skipped for pure pans, which preserve width by construction.
func (c *Chart) applyGestureDomains(xd, yd Domain, pan bool) {
	if !pan {
		xd = c.clampWidth(xd, c.cfg.XAxis)
		yd = c.clampWidth(yd, c.cfg.YAxis)
	}
	c.applyRedraw(c.view.GestureDelta(xd, yd))
}

// anchorTail nudges a zoomed X domain so the newest data point stays in
// view, the way live charts keep the leading edge visible when the user
// zooms at the right margin.
func (c *Chart) anchorTail(xd Domain) Domain {
	dataMax, ok := c.dataMaxX()
	if !ok || dataMax <= xd.Max {
		return xd
	}
	pad := 2 * c.pixelEpsX(xd.Width())
	return xd.Translate(dataMax + pad - xd.Max)
}

func (c *Chart) dataMaxX() (float64, bool) {
	_, hi, ok := c.store.Extent(AxisX)
	return hi, ok
}

// Resize changes the terminal cell size. Follow mode recomputes domains;
// frozen viewports keep their value ranges and only the pixel mapping
// changes. An active gesture re-anchors to the new extent.
func (c *Chart) Resize(width, height int) {
	if c.destroyed || width <= 0 || height <= 0 {
		return
	}
	c.Model.Resize(width, height)
	c.applyRedraw(c.view.Resized(
		float64(c.GraphWidth()), float64(c.GraphHeight()), c.recomputeDomains))
	c.markDirty(RedrawAll)
}

// Destroy tears the chart down. All further operations are no-ops; Destroy
// itself is idempotent.
func (c *Chart) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.styles = nil
}

// recomputeDomains is the follow-mode domain computation: full data extent,
// optionally limited to a trailing X window, with Y auto-scaled to what is
// visible when a window applies.
func (c *Chart) recomputeDomains() (Domain, Domain) {
	xDom := FullDomain(AxisX, c.store, c.cfg.XAxis)

	windowed := false
	if w := c.cfg.XAxis.MaxTrackX; w > 0 && c.cfg.XAxis.Range.Min == nil && xDom.Width() > w {
		xDom.Min = xDom.Max - w
		windowed = true
	}
	if c.cfg.XAxis.Range.Min == nil && c.cfg.XAxis.Range.Max == nil {
		xDom = c.clampWidth(xDom, c.cfg.XAxis)
	}

	var yDom Domain
	if windowed {
		yDom = VisibleYDomain(c.store, xDom, c.cfg.YAxis)
	} else {
		yDom = FullDomain(AxisY, c.store, c.cfg.YAxis)
	}
	yDom = c.floorNonNegative(yDom)
	return xDom, yDom
}

// floorNonNegative keeps the Y axis from dipping below zero when no stored
// value is negative and no explicit bound asks for it.
func (c *Chart) floorNonNegative(yDom Domain) Domain {
	if c.cfg.YAxis.Range.Min != nil {
		return yDom
	}
	lo, _, ok := c.store.Extent(AxisY)
	if ok && lo >= 0 && yDom.Min < 0 {
		yDom.Min = 0
	}
	if !yDom.Valid() {
		return widenDegenerate(AxisY, yDom.Min, c.cfg.YAxis)
	}
	return yDom
}

func (c *Chart) clampWidth(d Domain, a AxisConfig) Domain {
	return d.ClampWidth(a.MinDomainWidth, a.MaxDomainWidth)
}

// ensureSeries assigns a default color and config slot on first appearance.
func (c *Chart) ensureSeries(id string) {
	sc, ok := c.cfg.Series[id]
	if !ok {
		sc = SeriesConfig{}
	}
	if sc.Color == "" {
		sc.Color = c.palette.Color(id)
	}
	if sc.LineWidth <= 0 {
		sc.LineWidth = 1
	}
	c.cfg.Series[id] = sc
	if _, ok := c.styles[id]; !ok {
		c.refreshStyle(id)
	}
}

func (c *Chart) refreshStyle(id string) {
	if c.styles == nil {
		return
	}
	sc := c.cfg.Series[id]
	color := sc.Color
	if color == "" {
		color = c.palette.Color(id)
	}
	c.styles[id] = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// applyRedraw pushes the view's domains into the canvas ranges and records
// which layers need repainting.
func (c *Chart) applyRedraw(r Redraw) {
	if r == RedrawNone {
		return
	}
	if r.Has(RedrawAxes) {
		c.syncRanges()
	}
	c.markDirty(r)
}

func (c *Chart) markDirty(r Redraw) {
	if r != RedrawNone {
		c.dirty = true
	}
}

// syncRanges mirrors the live domains into the embedded model so axis labels
// and scaling stay consistent with the view state.
func (c *Chart) syncRanges() {
	x, y := c.view.X(), c.view.Y()
	c.SetXYRange(x.Min, x.Max, y.Min, y.Max)
	c.SetViewXYRange(x.Min, x.Max, y.Min, y.Max)
}

// Redraw forces a full repaint regardless of the dirty flag.
func (c *Chart) Redraw() {
	if c.destroyed {
		return
	}
	c.syncRanges()
	c.Draw()
}

// DrawIfNeeded redraws only when a transition invalidated something.
func (c *Chart) DrawIfNeeded() {
	if c.dirty {
		c.Draw()
	}
}

// Draw renders axes, grid and every series with Braille patterns.
//
//gocyclo:ignore
func (c *Chart) Draw() {
	if c.destroyed {
		return
	}
	c.Clear()
	c.DrawXYAxisAndLabel()
	if c.cfg.XAxis.ShowGridLines || c.cfg.YAxis.ShowGridLines {
		c.drawGrid()
	}

	xDom, yDom := c.view.X(), c.view.Y()
	if !xDom.Valid() || !yDom.Valid() {
		c.dirty = false
		return
	}
	eps := c.pixelEpsX(xDom.Width())

	for _, id := range c.store.Series() {
		c.drawSeries(id, xDom, yDom, eps)
	}
	c.dirty = false
}

func (c *Chart) drawSeries(id string, xDom, yDom Domain, eps float64) {
	xs, ys := c.store.XY(id)
	if len(xs) == 0 {
		return
	}

	// Visible window on X; a point exactly at the right edge is kept.
	lb, ub := c.store.VisibleRange(id, xDom, eps)
	if lb > 0 {
		lb-- // one point left of the window so the entering segment draws
	}
	if ub < len(xs) {
		ub++
	}
	if ub-lb <= 0 {
		return
	}

	w := float64(c.GraphWidth())
	h := float64(c.GraphHeight())
	xScale := w / xDom.Width()
	yScale := h / yDom.Width()

	bGrid := graph.NewBrailleGrid(c.GraphWidth(), c.GraphHeight(), 0, w, 0, h)

	points := make([]canvas.Float64Point, 0, ub-lb)
	for i := lb; i < ub; i++ {
		if !isFinite(ys[i]) {
			// Non-finite samples break the line rather than drawing.
			c.plotSegments(bGrid, points)
			points = points[:0]
			continue
		}
		x := (xs[i] - xDom.Min) * xScale
		y := (ys[i] - yDom.Min) * yScale
		if x < 0 || x > w || y < 0 || y > h {
			continue
		}
		points = append(points, canvas.Float64Point{X: x, Y: y})
	}
	c.plotSegments(bGrid, points)

	startX := 0
	if c.YStep() > 0 {
		startX = c.Origin().X + 1
	}
	graph.DrawBraillePatterns(&c.Canvas,
		canvas.Point{X: startX, Y: 0},
		bGrid.BraillePatterns(),
		c.SeriesStyle(id))
}

// plotSegments draws a polyline (or single dot) into the braille grid.
func (c *Chart) plotSegments(bGrid *graph.BrailleGrid, points []canvas.Float64Point) {
	if len(points) == 0 {
		return
	}
	if len(points) == 1 {
		bGrid.Set(bGrid.GridPoint(points[0]))
		return
	}
	for i := 0; i < len(points)-1; i++ {
		drawBrailleLine(bGrid, bGrid.GridPoint(points[i]), bGrid.GridPoint(points[i+1]))
	}
}

// drawGrid paints faint dotted guide lines across the plotting area.
func (c *Chart) drawGrid() {
	startX := 0
	if c.YStep() > 0 {
		startX = c.Origin().X + 1
	}
	w, h := c.GraphWidth(), c.GraphHeight()
	if w <= 0 || h <= 0 {
		return
	}

	rowStep := h / 4
	if rowStep < 2 {
		rowStep = 2
	}
	colStep := w / 5
	if colStep < 4 {
		colStep = 4
	}

	if c.cfg.YAxis.ShowGridLines {
		for row := rowStep; row < h; row += rowStep {
			for col := 0; col < w; col++ {
				c.Canvas.SetCell(
					canvas.Point{X: startX + col, Y: h - 1 - row},
					canvas.NewCellWithStyle('┄', c.gridStyle))
			}
		}
	}
	if c.cfg.XAxis.ShowGridLines {
		for col := colStep; col < w; col += colStep {
			for row := 0; row < h; row++ {
				c.Canvas.SetCell(
					canvas.Point{X: startX + col, Y: h - 1 - row},
					canvas.NewCellWithStyle('┆', c.gridStyle))
			}
		}
	}
}

// pixelEpsX returns ~1 horizontal pixel in X units for the current graph.
func (c *Chart) pixelEpsX(xRange float64) float64 {
	if c.GraphWidth() <= 0 || xRange <= 0 {
		return 0
	}
	return xRange / float64(c.GraphWidth())
}

// drawBrailleLine rasterizes a segment with Bresenham's algorithm.
//
// See https://en.wikipedia.org/wiki/Bresenham%27s_line_algorithm.
func drawBrailleLine(bGrid *graph.BrailleGrid, p1, p2 canvas.Point) {
	dx := intAbs(p2.X - p1.X)
	dy := intAbs(p2.Y - p1.Y)

	sx := 1
	if p1.X > p2.X {
		sx = -1
	}
	sy := 1
	if p1.Y > p2.Y {
		sy = -1
	}

	err := dx - dy
	x, y := p1.X, p1.Y

	for {
		bGrid.Set(canvas.Point{X: x, Y: y})
		if x == p2.X && y == p2.Y {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// formatAxisLabel renders a tick value compactly, collapsing large
// magnitudes to K/M/B suffixes.
func formatAxisLabel(f float64) string {
	abs := math.Abs(f)
	switch {
	case abs >= 1e9:
		return trimTrailingZero(f/1e9) + "B"
	case abs >= 1e6:
		return trimTrailingZero(f/1e6) + "M"
	case abs >= 1e3:
		return trimTrailingZero(f/1e3) + "K"
	case abs >= 100:
		return strconv.FormatFloat(f, 'f', 0, 64)
	case abs >= 1:
		return trimTrailingZero(f)
	case abs == 0:
		return "0"
	default:
		return strconv.FormatFloat(f, 'g', 2, 64)
	}
}

func trimTrailingZero(f float64) string {
	s := strconv.FormatFloat(f, 'f', 1, 64)
	if len(s) > 2 && s[len(s)-2:] == ".0" {
		return s[:len(s)-2]
	}
	return s
}
