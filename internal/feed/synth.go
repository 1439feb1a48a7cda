package feed

import (
	"math"
	"math/rand"

	"github.com/Kreijstal/plotstream/internal/plot"
)

// Synth generates demo sample batches: a sine wave, a noisy random walk and
// a slow drifting trend, keyed by a shared monotonically increasing x.
type Synth struct {
	x    float64
	walk float64
	rng  *rand.Rand
}

func NewSynth(seed int64) *Synth {
	return &Synth{rng: rand.New(rand.NewSource(seed))}
}

// Next produces the next n samples per series.
func (s *Synth) Next(n int) map[string]plot.SeriesBatch {
	var sine, walk, trend plot.SeriesBatch
	for range n {
		s.x++
		s.walk += s.rng.NormFloat64() * 0.3

		sine.X = append(sine.X, s.x)
		sine.Y = append(sine.Y, 5+3*math.Sin(s.x/8))

		walk.X = append(walk.X, s.x)
		walk.Y = append(walk.Y, 5+s.walk)

		trend.X = append(trend.X, s.x)
		trend.Y = append(trend.Y, s.x/20+s.rng.Float64()*0.2)
	}
	return map[string]plot.SeriesBatch{
		"sine":  sine,
		"walk":  walk,
		"trend": trend,
	}
}
