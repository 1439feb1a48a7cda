package plot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig_NormalizeFillsDefaults(t *testing.T) {
	t.Parallel()

	var cfg Config
	cfg.normalize()

	require.Equal(t, DefaultMaxDataPointsPerSeries, cfg.MaxDataPointsPerSeries)
	require.Equal(t, DefaultZoomStep, cfg.ZoomStep)
	require.Equal(t, LegendRight, cfg.Legend.Position)
	require.Equal(t, defaultDegenerateXPad, cfg.XAxis.DegeneratePad)
	require.Equal(t, defaultDegenerateYPad, cfg.YAxis.DegeneratePad)
	require.NotNil(t, cfg.Series)
}

func TestConfig_ValidateRejectsInvertedRange(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	lo, hi := 10.0, 5.0
	cfg.YAxis.Range = AxisRange{Min: &lo, Max: &hi}
	require.Error(t, cfg.validate())
}

func TestConfig_ValidateRejectsInvertedWidthClamps(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.XAxis.MinDomainWidth = 100
	cfg.XAxis.MaxDomainWidth = 10
	require.Error(t, cfg.validate())
}

func TestConfig_MergeIsDeepAndNonDestructive(t *testing.T) {
	t.Parallel()

	base := DefaultConfig()
	base.normalize()
	base.Series["loss"] = SeriesConfig{Label: "Loss", Color: "#FF0000", LineWidth: 1}

	label := "Training loss"
	maxPts := 500
	zoom := false
	patch := ConfigPatch{
		Series:                 map[string]SeriesPatch{"loss": {Label: &label}},
		MaxDataPointsPerSeries: &maxPts,
		Interactions:           &InteractionsPatch{Zoom: &zoom},
	}

	merged := base.merge(patch)

	require.Equal(t, "Training loss", merged.Series["loss"].Label)
	require.Equal(t, "#FF0000", merged.Series["loss"].Color, "unpatched fields survive")
	require.Equal(t, 500, merged.MaxDataPointsPerSeries)
	require.False(t, merged.Interactions.Zoom)
	require.True(t, merged.Interactions.Pan, "untouched interaction keeps its value")

	// The receiver must be untouched so a failed validation can discard.
	require.Equal(t, "Loss", base.Series["loss"].Label)
	require.Equal(t, DefaultMaxDataPointsPerSeries, base.MaxDataPointsPerSeries)
}

func TestConfig_MergeAxisRangeReplacesWholeRange(t *testing.T) {
	t.Parallel()

	base := DefaultConfig()
	lo := 0.0
	base.XAxis.Range = AxisRange{Min: &lo}

	merged := base.merge(ConfigPatch{XAxis: &AxisPatch{Range: &AxisRange{}}})
	require.Nil(t, merged.XAxis.Range.Min, "patched range replaces, not merges")
	require.Nil(t, merged.XAxis.Range.Max)
}
