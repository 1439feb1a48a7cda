package tui

import (
	"time"

	"github.com/Kreijstal/plotstream/internal/plot"
)

// DataMsg carries a batch of samples per series, from the file tailer or
// the demo generator.
type DataMsg struct {
	Batches map[string]plot.SeriesBatch
}

// TickMsg drives the demo generator.
type TickMsg struct {
	At time.Time
}

// ErrorMsg wraps a feed error for display in the status bar.
type ErrorMsg struct {
	Err error
}
