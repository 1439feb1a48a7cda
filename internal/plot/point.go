package plot

import (
	"fmt"
	"math"
)

// Point is a single (x, y) sample.
type Point struct {
	X float64
	Y float64
}

// SeriesBatch carries columnar samples for one series, as delivered by a
// data feed. X and Y must have equal length.
type SeriesBatch struct {
	X []float64
	Y []float64
}

// Validate reports whether the batch has a usable shape.
//
// A batch with mismatched column lengths is rejected as a whole; NaN and
// infinite Y values are accepted here and filtered at domain computation.
func (b SeriesBatch) Validate() error {
	if len(b.X) != len(b.Y) {
		return fmt.Errorf("mismatched sample columns: %d x values, %d y values", len(b.X), len(b.Y))
	}
	for i, x := range b.X {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("non-finite x value at index %d", i)
		}
	}
	return nil
}

// Len returns the number of samples in the batch.
func (b SeriesBatch) Len() int {
	return len(b.X)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
