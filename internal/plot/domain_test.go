package plot_test

import (
	"math"
	"testing"

	"github.com/Kreijstal/plotstream/internal/plot"
)

func axisCfg() (x, y plot.AxisConfig) {
	cfg := plot.DefaultConfig()
	return cfg.XAxis, cfg.YAxis
}

func TestFullDomain_NoData(t *testing.T) {
	t.Parallel()

	xCfg, yCfg := axisCfg()
	store := plot.NewStore(100)

	if d := plot.FullDomain(plot.AxisX, store, xCfg); d != plot.DefaultDomain() {
		t.Fatalf("expected default X domain, got [%v,%v]", d.Min, d.Max)
	}
	if d := plot.FullDomain(plot.AxisY, store, yCfg); d != plot.DefaultDomain() {
		t.Fatalf("expected default Y domain, got [%v,%v]", d.Min, d.Max)
	}
}

func TestFullDomain_SinglePointWidens(t *testing.T) {
	t.Parallel()

	xCfg, yCfg := axisCfg()
	store := plot.NewStore(100)
	store.Append("a", plot.SeriesBatch{X: []float64{5}, Y: []float64{5}})

	// A lone sample widens by ±1 on X and ±10% of |v| on Y.
	if d := plot.FullDomain(plot.AxisX, store, xCfg); d.Min != 4 || d.Max != 6 {
		t.Fatalf("expected X [4,6], got [%v,%v]", d.Min, d.Max)
	}
	if d := plot.FullDomain(plot.AxisY, store, yCfg); d.Min != 4.5 || d.Max != 5.5 {
		t.Fatalf("expected Y [4.5,5.5], got [%v,%v]", d.Min, d.Max)
	}
}

func TestFullDomain_ZeroValueFallbackPad(t *testing.T) {
	t.Parallel()

	_, yCfg := axisCfg()
	store := plot.NewStore(100)
	store.Append("a", plot.SeriesBatch{X: []float64{1}, Y: []float64{0}})

	// 10% of |0| is zero, so the absolute fallback pad applies.
	if d := plot.FullDomain(plot.AxisY, store, yCfg); d.Min != -0.5 || d.Max != 0.5 {
		t.Fatalf("expected Y [-0.5,0.5], got [%v,%v]", d.Min, d.Max)
	}
}

func TestFullDomain_FixedRangeOverrides(t *testing.T) {
	t.Parallel()

	xCfg, _ := axisCfg()
	lo, hi := -3.0, 42.0
	xCfg.Range = plot.AxisRange{Min: &lo, Max: &hi}

	store := plot.NewStore(100)
	store.Append("a", plot.SeriesBatch{X: []float64{0, 100}, Y: []float64{1, 2}})

	if d := plot.FullDomain(plot.AxisX, store, xCfg); d.Min != -3 || d.Max != 42 {
		t.Fatalf("fixed range should win over data, got [%v,%v]", d.Min, d.Max)
	}
}

func TestVisibleYDomain_PadsVisiblePoints(t *testing.T) {
	t.Parallel()

	_, yCfg := axisCfg()
	store := plot.NewStore(100)
	store.Append("a", plot.SeriesBatch{
		X: []float64{0, 1, 2, 50},
		Y: []float64{10, 20, 30, 1000},
	})

	// Only x in [0,2] is visible; the outlier at x=50 must not influence Y.
	d := plot.VisibleYDomain(store, plot.Domain{Min: 0, Max: 2}, yCfg)
	wantPad := (30.0 - 10.0) * 0.05
	if math.Abs(d.Min-(10-wantPad)) > 1e-12 || math.Abs(d.Max-(30+wantPad)) > 1e-12 {
		t.Fatalf("expected Y [%v,%v], got [%v,%v]", 10-wantPad, 30+wantPad, d.Min, d.Max)
	}
}

func TestVisibleYDomain_NothingVisibleFallsBack(t *testing.T) {
	t.Parallel()

	_, yCfg := axisCfg()
	store := plot.NewStore(100)
	store.Append("a", plot.SeriesBatch{X: []float64{100}, Y: []float64{7}})

	d := plot.VisibleYDomain(store, plot.Domain{Min: 0, Max: 1}, yCfg)
	full := plot.FullDomain(plot.AxisY, store, yCfg)
	if d != full {
		t.Fatalf("expected fallback to full domain [%v,%v], got [%v,%v]",
			full.Min, full.Max, d.Min, d.Max)
	}
}

func TestDomain_ClampWidth(t *testing.T) {
	t.Parallel()

	d := plot.Domain{Min: 0, Max: 10}

	if got := d.ClampWidth(20, 0); got.Width() != 20 || got.Mid() != 5 {
		t.Fatalf("min clamp should widen around center, got [%v,%v]", got.Min, got.Max)
	}
	if got := d.ClampWidth(0, 4); got.Width() != 4 || got.Mid() != 5 {
		t.Fatalf("max clamp should shrink around center, got [%v,%v]", got.Min, got.Max)
	}
	if got := d.ClampWidth(1, 100); got != d {
		t.Fatalf("in-bounds width should be untouched, got [%v,%v]", got.Min, got.Max)
	}
}

func TestDomain_TranslatePreservesWidth(t *testing.T) {
	t.Parallel()

	d := plot.Domain{Min: 2, Max: 7}
	got := d.Translate(-3)
	if got.Min != -1 || got.Max != 4 {
		t.Fatalf("expected [-1,4], got [%v,%v]", got.Min, got.Max)
	}
	if got.Width() != d.Width() {
		t.Fatalf("translate changed width: %v != %v", got.Width(), d.Width())
	}
}
