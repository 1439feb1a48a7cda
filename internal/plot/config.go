package plot

import (
	"fmt"
)

const (
	// Padding applied when an extent collapses to a single value.
	defaultDegenerateXPad = 1.0
	defaultDegenerateYPad = 0.5

	// Proportional padding around computed Y extents.
	defaultPadFraction        = 0.10
	defaultVisiblePadFraction = 0.05

	// Per-notch wheel zoom step: zooming in multiplies the visible span by
	// (1 - step).
	DefaultZoomStep = 0.1

	DefaultMaxDataPointsPerSeries = 100_000
)

// Legend positions.
const (
	LegendRight  = "right"
	LegendBottom = "bottom"
)

// AxisRange optionally pins one or both domain bounds. A nil pointer means
// the bound is computed from data.
type AxisRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// AxisConfig configures one axis.
type AxisConfig struct {
	Range         AxisRange `json:"range"`
	Label         string    `json:"label"`
	ShowGridLines bool      `json:"show_grid_lines"`

	// MaxTrackX bounds the trailing window shown while following. Zero
	// means the full data extent. Only honored on the X axis.
	MaxTrackX float64 `json:"max_track_x,omitempty"`

	// Domain width clamps applied to gesture and setView results. Zero
	// disables the clamp.
	MinDomainWidth float64 `json:"min_domain_width,omitempty"`
	MaxDomainWidth float64 `json:"max_domain_width,omitempty"`

	// Padding rules. These default to the observed charting conventions
	// (±1 degenerate X, 10% full Y, 5% visible Y) but are configurable.
	DegeneratePad      float64 `json:"degenerate_pad,omitempty"`
	PadFraction        float64 `json:"pad_fraction,omitempty"`
	VisiblePadFraction float64 `json:"visible_pad_fraction,omitempty"`
}

// SeriesConfig is presentation metadata for one series. It is not part of
// the view state; defaults are assigned from the palette on first
// appearance.
type SeriesConfig struct {
	Label     string `json:"label"`
	Color     string `json:"color"`
	LineWidth int    `json:"line_width"`
}

// Interactions enables or disables user gestures.
type Interactions struct {
	Zoom bool `json:"zoom"`
	Pan  bool `json:"pan"`
}

// Legend configures the legend block.
type Legend struct {
	Visible  bool   `json:"visible"`
	Position string `json:"position"`
}

// Config is the full chart configuration.
type Config struct {
	XAxis        AxisConfig              `json:"x_axis"`
	YAxis        AxisConfig              `json:"y_axis"`
	Series       map[string]SeriesConfig `json:"series,omitempty"`
	Interactions Interactions            `json:"interactions"`
	Legend       Legend                  `json:"legend"`

	// MaxDataPointsPerSeries bounds each series buffer; pruning drops the
	// oldest points first.
	MaxDataPointsPerSeries int `json:"max_data_points_per_series"`

	// ZoomStep is the per-notch wheel zoom fraction.
	ZoomStep float64 `json:"zoom_step,omitempty"`
}

// DefaultConfig returns the configuration used when the caller provides
// nothing.
func DefaultConfig() Config {
	return Config{
		XAxis: AxisConfig{
			ShowGridLines:      true,
			DegeneratePad:      defaultDegenerateXPad,
			PadFraction:        defaultPadFraction,
			VisiblePadFraction: defaultVisiblePadFraction,
		},
		YAxis: AxisConfig{
			ShowGridLines:      true,
			DegeneratePad:      defaultDegenerateYPad,
			PadFraction:        defaultPadFraction,
			VisiblePadFraction: defaultVisiblePadFraction,
		},
		Interactions:           Interactions{Zoom: true, Pan: true},
		Legend:                 Legend{Visible: true, Position: LegendRight},
		MaxDataPointsPerSeries: DefaultMaxDataPointsPerSeries,
		ZoomStep:               DefaultZoomStep,
	}
}

// normalize clamps config values into valid ranges, filling zero values
// with defaults.
func (c *Config) normalize() {
	if c.MaxDataPointsPerSeries <= 0 {
		c.MaxDataPointsPerSeries = DefaultMaxDataPointsPerSeries
	}
	if c.ZoomStep <= 0 || c.ZoomStep >= 1 {
		c.ZoomStep = DefaultZoomStep
	}
	if c.Legend.Position != LegendRight && c.Legend.Position != LegendBottom {
		c.Legend.Position = LegendRight
	}
	normalizeAxis(&c.XAxis, defaultDegenerateXPad)
	normalizeAxis(&c.YAxis, defaultDegenerateYPad)
	if c.Series == nil {
		c.Series = make(map[string]SeriesConfig)
	}
}

func normalizeAxis(a *AxisConfig, degeneratePad float64) {
	if a.DegeneratePad <= 0 {
		a.DegeneratePad = degeneratePad
	}
	if a.PadFraction <= 0 {
		a.PadFraction = defaultPadFraction
	}
	if a.VisiblePadFraction <= 0 {
		a.VisiblePadFraction = defaultVisiblePadFraction
	}
	if a.MaxTrackX < 0 {
		a.MaxTrackX = 0
	}
	if a.MinDomainWidth < 0 {
		a.MinDomainWidth = 0
	}
	if a.MaxDomainWidth < 0 {
		a.MaxDomainWidth = 0
	}
}

// validate rejects configurations that cannot produce a working chart.
// Construction-time misconfiguration fails loudly.
func (c *Config) validate() error {
	if err := validateAxis("x_axis", c.XAxis); err != nil {
		return err
	}
	return validateAxis("y_axis", c.YAxis)
}

func validateAxis(name string, a AxisConfig) error {
	if a.Range.Min != nil && a.Range.Max != nil && *a.Range.Min >= *a.Range.Max {
		return fmt.Errorf("config: %s fixed range is inverted: [%v, %v]", name, *a.Range.Min, *a.Range.Max)
	}
	if a.MinDomainWidth > 0 && a.MaxDomainWidth > 0 && a.MinDomainWidth > a.MaxDomainWidth {
		return fmt.Errorf("config: %s min domain width %v exceeds max %v", name, a.MinDomainWidth, a.MaxDomainWidth)
	}
	return nil
}

// AxisPatch is a partial AxisConfig for deep merges.
type AxisPatch struct {
	Range              *AxisRange `json:"range,omitempty"`
	Label              *string    `json:"label,omitempty"`
	ShowGridLines      *bool      `json:"show_grid_lines,omitempty"`
	MaxTrackX          *float64   `json:"max_track_x,omitempty"`
	MinDomainWidth     *float64   `json:"min_domain_width,omitempty"`
	MaxDomainWidth     *float64   `json:"max_domain_width,omitempty"`
	DegeneratePad      *float64   `json:"degenerate_pad,omitempty"`
	PadFraction        *float64   `json:"pad_fraction,omitempty"`
	VisiblePadFraction *float64   `json:"visible_pad_fraction,omitempty"`
}

// SeriesPatch is a partial SeriesConfig.
type SeriesPatch struct {
	Label     *string `json:"label,omitempty"`
	Color     *string `json:"color,omitempty"`
	LineWidth *int    `json:"line_width,omitempty"`
}

// InteractionsPatch is a partial Interactions.
type InteractionsPatch struct {
	Zoom *bool `json:"zoom,omitempty"`
	Pan  *bool `json:"pan,omitempty"`
}

// LegendPatch is a partial Legend.
type LegendPatch struct {
	Visible  *bool   `json:"visible,omitempty"`
	Position *string `json:"position,omitempty"`
}

// ConfigPatch is a partial Config; nil fields leave the current value
// unchanged. Series entries merge per series.
type ConfigPatch struct {
	XAxis                  *AxisPatch             `json:"x_axis,omitempty"`
	YAxis                  *AxisPatch             `json:"y_axis,omitempty"`
	Series                 map[string]SeriesPatch `json:"series,omitempty"`
	Interactions           *InteractionsPatch     `json:"interactions,omitempty"`
	Legend                 *LegendPatch           `json:"legend,omitempty"`
	MaxDataPointsPerSeries *int                   `json:"max_data_points_per_series,omitempty"`
	ZoomStep               *float64               `json:"zoom_step,omitempty"`
}

// merge applies the patch onto a copy of the config and returns it. The
// receiver is not mutated, so a failed transition can discard the result.
func (c Config) merge(p ConfigPatch) Config {
	out := c
	out.Series = make(map[string]SeriesConfig, len(c.Series))
	for id, sc := range c.Series {
		out.Series[id] = sc
	}

	if p.XAxis != nil {
		mergeAxis(&out.XAxis, *p.XAxis)
	}
	if p.YAxis != nil {
		mergeAxis(&out.YAxis, *p.YAxis)
	}
	for id, sp := range p.Series {
		sc := out.Series[id]
		mergeSeries(&sc, sp)
		out.Series[id] = sc
	}
	if p.Interactions != nil {
		if p.Interactions.Zoom != nil {
			out.Interactions.Zoom = *p.Interactions.Zoom
		}
		if p.Interactions.Pan != nil {
			out.Interactions.Pan = *p.Interactions.Pan
		}
	}
	if p.Legend != nil {
		if p.Legend.Visible != nil {
			out.Legend.Visible = *p.Legend.Visible
		}
		if p.Legend.Position != nil {
			out.Legend.Position = *p.Legend.Position
		}
	}
	if p.MaxDataPointsPerSeries != nil {
		out.MaxDataPointsPerSeries = *p.MaxDataPointsPerSeries
	}
	if p.ZoomStep != nil {
		out.ZoomStep = *p.ZoomStep
	}

	out.normalize()
	return out
}

func mergeAxis(a *AxisConfig, p AxisPatch) {
	if p.Range != nil {
		a.Range = *p.Range
	}
	if p.Label != nil {
		a.Label = *p.Label
	}
	if p.ShowGridLines != nil {
		a.ShowGridLines = *p.ShowGridLines
	}
	if p.MaxTrackX != nil {
		a.MaxTrackX = *p.MaxTrackX
	}
	if p.MinDomainWidth != nil {
		a.MinDomainWidth = *p.MinDomainWidth
	}
	if p.MaxDomainWidth != nil {
		a.MaxDomainWidth = *p.MaxDomainWidth
	}
	if p.DegeneratePad != nil {
		a.DegeneratePad = *p.DegeneratePad
	}
	if p.PadFraction != nil {
		a.PadFraction = *p.PadFraction
	}
	if p.VisiblePadFraction != nil {
		a.VisiblePadFraction = *p.VisiblePadFraction
	}
}

func mergeSeries(sc *SeriesConfig, p SeriesPatch) {
	if p.Label != nil {
		sc.Label = *p.Label
	}
	if p.Color != nil {
		sc.Color = *p.Color
	}
	if p.LineWidth != nil {
		sc.LineWidth = *p.LineWidth
	}
}
