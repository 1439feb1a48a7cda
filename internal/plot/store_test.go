package plot_test

import (
	"math"
	"testing"

	"github.com/Kreijstal/plotstream/internal/plot"
)

func TestStore_PruneDropsOldestFirst(t *testing.T) {
	t.Parallel()

	store := plot.NewStore(3)
	store.Append("a", plot.SeriesBatch{X: []float64{1, 2}, Y: []float64{1, 2}})
	store.Append("a", plot.SeriesBatch{X: []float64{3, 4}, Y: []float64{3, 4}})

	xs, ys := store.XY("a")
	wantX := []float64{2, 3, 4}
	if len(xs) != 3 {
		t.Fatalf("expected 3 retained points, got %d", len(xs))
	}
	for i := range wantX {
		if xs[i] != wantX[i] || ys[i] != wantX[i] {
			t.Fatalf("expected retained point (%v,%v) at %d, got (%v,%v)",
				wantX[i], wantX[i], i, xs[i], ys[i])
		}
	}
}

func TestStore_PruneRecomputesExtents(t *testing.T) {
	t.Parallel()

	store := plot.NewStore(2)
	// The global Y minimum sits in the prefix that gets dropped.
	store.Append("a", plot.SeriesBatch{X: []float64{1, 2, 3}, Y: []float64{-100, 5, 6}})

	lo, hi, ok := store.Extent(plot.AxisY)
	if !ok || lo != 5 || hi != 6 {
		t.Fatalf("expected Y extent [5,6] after prune, got [%v,%v] ok=%v", lo, hi, ok)
	}
}

func TestStore_SetMaxPointsRetroactive(t *testing.T) {
	t.Parallel()

	store := plot.NewStore(100)
	store.Append("a", plot.SeriesBatch{
		X: []float64{1, 2, 3, 4, 5},
		Y: []float64{1, 2, 3, 4, 5},
	})

	store.SetMaxPoints(2)
	xs, _ := store.XY("a")
	if len(xs) != 2 || xs[0] != 4 || xs[1] != 5 {
		t.Fatalf("expected newest two points [4,5], got %v", xs)
	}
}

func TestStore_ClearKeepsSeriesIdentity(t *testing.T) {
	t.Parallel()

	store := plot.NewStore(10)
	store.Append("b", plot.SeriesBatch{X: []float64{1}, Y: []float64{1}})
	store.Append("a", plot.SeriesBatch{X: []float64{2}, Y: []float64{2}})

	store.Clear()

	if got := store.Series(); len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Fatalf("expected series order [b a] to survive clear, got %v", got)
	}
	if store.Len("b") != 0 || store.Len("a") != 0 {
		t.Fatal("expected empty buffers after clear")
	}
	if _, _, ok := store.Extent(plot.AxisX); ok {
		t.Fatal("expected no extent after clear")
	}
}

func TestStore_ExtentIgnoresNonFiniteY(t *testing.T) {
	t.Parallel()

	store := plot.NewStore(10)
	store.Append("a", plot.SeriesBatch{
		X: []float64{1, 2, 3},
		Y: []float64{math.NaN(), 5, math.Inf(1)},
	})

	lo, hi, ok := store.Extent(plot.AxisY)
	if !ok || lo != 5 || hi != 5 {
		t.Fatalf("expected Y extent [5,5], got [%v,%v] ok=%v", lo, hi, ok)
	}
}

func TestStore_VisibleRangeSorted(t *testing.T) {
	t.Parallel()

	store := plot.NewStore(100)
	store.Append("a", plot.SeriesBatch{
		X: []float64{0, 1, 2, 3, 4, 5},
		Y: []float64{0, 1, 2, 3, 4, 5},
	})

	lb, ub := store.VisibleRange("a", plot.Domain{Min: 1.5, Max: 3.5}, 0)
	if lb != 2 || ub != 4 {
		t.Fatalf("expected window [2,4), got [%d,%d)", lb, ub)
	}
}

func TestStore_VisibleRangeUnsortedFallsBackToFullSpan(t *testing.T) {
	t.Parallel()

	store := plot.NewStore(100)
	store.Append("a", plot.SeriesBatch{
		X: []float64{5, 1, 3},
		Y: []float64{5, 1, 3},
	})

	lb, ub := store.VisibleRange("a", plot.Domain{Min: 2, Max: 4}, 0)
	if lb != 0 || ub != 3 {
		t.Fatalf("unsorted series should scan the full span, got [%d,%d)", lb, ub)
	}
}
