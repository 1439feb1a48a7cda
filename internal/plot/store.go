package plot

import (
	"math"
	"sort"
)

// buffer holds the samples of one series in arrival order.
type buffer struct {
	xs []float64
	ys []float64

	// Running extents over finite values; recomputed after pruning.
	minX, maxX float64
	minY, maxY float64
	hasExtent  bool

	// sorted tracks whether xs is non-decreasing, which is the normal case
	// for real-time feeds and enables binary search over the visible window.
	sorted bool
}

func newBuffer() *buffer {
	return &buffer{
		xs:     make([]float64, 0, 1024),
		ys:     make([]float64, 0, 1024),
		minX:   math.Inf(1),
		maxX:   math.Inf(-1),
		minY:   math.Inf(1),
		maxY:   math.Inf(-1),
		sorted: true,
	}
}

func (b *buffer) append(x, y float64) {
	if n := len(b.xs); n > 0 && x < b.xs[n-1] {
		b.sorted = false
	}
	b.xs = append(b.xs, x)
	b.ys = append(b.ys, y)
	b.extend(x, y)
}

func (b *buffer) extend(x, y float64) {
	if x < b.minX {
		b.minX = x
	}
	if x > b.maxX {
		b.maxX = x
	}
	if isFinite(y) {
		if y < b.minY {
			b.minY = y
		}
		if y > b.maxY {
			b.maxY = y
		}
	}
	b.hasExtent = b.hasExtent || isFinite(y)
}

// recomputeExtent rebuilds the running extents from scratch. Needed after
// dropping a prefix, since the dropped points may have held the extremes.
func (b *buffer) recomputeExtent() {
	b.minX, b.maxX = math.Inf(1), math.Inf(-1)
	b.minY, b.maxY = math.Inf(1), math.Inf(-1)
	b.hasExtent = false
	b.sorted = true
	for i, x := range b.xs {
		if i > 0 && x < b.xs[i-1] {
			b.sorted = false
		}
		b.extend(x, b.ys[i])
	}
}

func (b *buffer) clear() {
	b.xs = b.xs[:0]
	b.ys = b.ys[:0]
	b.minX, b.maxX = math.Inf(1), math.Inf(-1)
	b.minY, b.maxY = math.Inf(1), math.Inf(-1)
	b.hasExtent = false
	b.sorted = true
}

// visibleRange returns the index range [lb, ub) of points with x in dom,
// extended by eps on the right so a point exactly at the edge is kept.
func (b *buffer) visibleRange(dom Domain, eps float64) (int, int) {
	if !b.sorted {
		return 0, len(b.xs)
	}
	lb := sort.SearchFloat64s(b.xs, dom.Min)
	ub := sort.Search(len(b.xs), func(i int) bool { return b.xs[i] > dom.Max+eps })
	return lb, ub
}

// Store owns the per-series point buffers. It is the single mutation point
// for ingestion, pruning and clearing; the chart engine reads from it when
// recomputing domains and drawing.
type Store struct {
	series    map[string]*buffer
	order     []string
	maxPoints int
}

func NewStore(maxPoints int) *Store {
	return &Store{
		series:    make(map[string]*buffer),
		maxPoints: maxPoints,
	}
}

// Append adds a validated batch to the series, creating it on first use,
// and prunes the buffer to the retention limit.
func (s *Store) Append(id string, batch SeriesBatch) {
	buf, ok := s.series[id]
	if !ok {
		buf = newBuffer()
		s.series[id] = buf
		s.order = append(s.order, id)
	}
	for i := range batch.X {
		buf.append(batch.X[i], batch.Y[i])
	}
	s.prune(buf)
}

// prune drops the oldest points beyond the retention limit, preserving
// arrival order.
func (s *Store) prune(buf *buffer) {
	if s.maxPoints <= 0 || len(buf.xs) <= s.maxPoints {
		return
	}
	drop := len(buf.xs) - s.maxPoints
	buf.xs = append(buf.xs[:0], buf.xs[drop:]...)
	buf.ys = append(buf.ys[:0], buf.ys[drop:]...)
	buf.recomputeExtent()
}

// SetMaxPoints updates the retention limit and re-applies it to every
// series.
func (s *Store) SetMaxPoints(n int) {
	s.maxPoints = n
	for _, buf := range s.series {
		s.prune(buf)
	}
}

// MaxPoints returns the current retention limit.
func (s *Store) MaxPoints() int {
	return s.maxPoints
}

// Clear empties every series buffer. Series identities survive so their
// presentation config and colors are retained.
func (s *Store) Clear() {
	for _, buf := range s.series {
		buf.clear()
	}
}

// Series returns the series ids in order of first appearance.
func (s *Store) Series() []string {
	return s.order
}

// Has reports whether the series exists.
func (s *Store) Has(id string) bool {
	_, ok := s.series[id]
	return ok
}

// Len returns the number of stored points for a series.
func (s *Store) Len(id string) int {
	if buf, ok := s.series[id]; ok {
		return len(buf.xs)
	}
	return 0
}

// XY returns the series columns. The slices are owned by the store and must
// not be mutated or retained across mutations.
func (s *Store) XY(id string) ([]float64, []float64) {
	if buf, ok := s.series[id]; ok {
		return buf.xs, buf.ys
	}
	return nil, nil
}

// Extent returns the [lo, hi] extent for an axis across all series,
// ignoring non-finite Y values. ok is false when no usable data exists.
func (s *Store) Extent(axis Axis) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, buf := range s.series {
		if len(buf.xs) == 0 || !buf.hasExtent {
			continue
		}
		switch axis {
		case AxisX:
			lo = math.Min(lo, buf.minX)
			hi = math.Max(hi, buf.maxX)
		default:
			lo = math.Min(lo, buf.minY)
			hi = math.Max(hi, buf.maxY)
		}
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// ExtentYWithin returns the Y extent over points whose x lies inside xDom.
// ok is false when no point is visible.
func (s *Store) ExtentYWithin(xDom Domain) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, buf := range s.series {
		lb, ub := buf.visibleRange(xDom, 0)
		for i := lb; i < ub; i++ {
			if !xDom.Contains(buf.xs[i]) || !isFinite(buf.ys[i]) {
				continue
			}
			lo = math.Min(lo, buf.ys[i])
			hi = math.Max(hi, buf.ys[i])
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// VisibleRange exposes the visible index window of a series for drawing.
func (s *Store) VisibleRange(id string, xDom Domain, eps float64) (int, int) {
	if buf, ok := s.series[id]; ok {
		return buf.visibleRange(xDom, eps)
	}
	return 0, 0
}
