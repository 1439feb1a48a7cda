// Package feed turns JSONL sample files into chart batches.
package feed

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/wandb/simplejsonext"

	"github.com/Kreijstal/plotstream/internal/observability"
	"github.com/Kreijstal/plotstream/internal/plot"
)

// Tailer incrementally reads complete JSONL lines appended to a file.
//
// Each line is a JSON object with a "series" name and either scalar or
// columnar sample fields:
//
//	{"series": "loss", "x": 1, "y": 0.52}
//	{"series": "loss", "x": [2, 3], "y": [0.44, 0.41]}
//
// Malformed lines are logged and skipped; one bad line never blocks the
// rest of the file. Truncating the file restarts from the beginning.
type Tailer struct {
	path    string
	offset  int64
	partial []byte
	logger  *observability.CoreLogger
}

func NewTailer(path string, logger *observability.CoreLogger) *Tailer {
	return &Tailer{path: path, logger: logger}
}

func (t *Tailer) Path() string { return t.path }

// ReadNew consumes everything appended since the last call and returns one
// batch per series. An incomplete trailing line is buffered for the next
// call.
func (t *Tailer) ReadNew() (map[string]plot.SeriesBatch, error) {
	f, err := os.Open(t.path)
	if err != nil {
		return nil, fmt.Errorf("feed: open %s: %w", t.path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("feed: stat %s: %w", t.path, err)
	}
	if info.Size() < t.offset {
		t.logger.CaptureInfo("feed: file truncated, restarting", "path", t.path)
		t.offset = 0
		t.partial = nil
	}

	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("feed: seek %s: %w", t.path, err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("feed: read %s: %w", t.path, err)
	}
	t.offset += int64(len(data))

	data = append(t.partial, data...)
	t.partial = nil

	batches := make(map[string]plot.SeriesBatch)
	for len(data) > 0 {
		nl := bytes.IndexByte(data, '\n')
		if nl < 0 {
			t.partial = append([]byte(nil), data...)
			break
		}
		line := bytes.TrimSpace(data[:nl])
		data = data[nl+1:]
		if len(line) == 0 {
			continue
		}
		series, batch, err := parseLine(line)
		if err != nil {
			t.logger.CaptureWarn("feed: skipping malformed line",
				"path", t.path, "error", err)
			continue
		}
		b := batches[series]
		b.X = append(b.X, batch.X...)
		b.Y = append(b.Y, batch.Y...)
		batches[series] = b
	}
	return batches, nil
}

// parseLine decodes one JSONL record into a series id and its samples.
func parseLine(line []byte) (string, plot.SeriesBatch, error) {
	obj, err := simplejsonext.UnmarshalObject(line)
	if err != nil {
		return "", plot.SeriesBatch{}, err
	}

	series, ok := obj["series"].(string)
	if !ok || series == "" {
		return "", plot.SeriesBatch{}, fmt.Errorf("missing series name")
	}

	xs, err := numberColumn(obj["x"])
	if err != nil {
		return "", plot.SeriesBatch{}, fmt.Errorf("field x: %w", err)
	}
	ys, err := numberColumn(obj["y"])
	if err != nil {
		return "", plot.SeriesBatch{}, fmt.Errorf("field y: %w", err)
	}
	if len(xs) != len(ys) {
		return "", plot.SeriesBatch{}, fmt.Errorf(
			"mismatched columns: %d x values, %d y values", len(xs), len(ys))
	}
	return series, plot.SeriesBatch{X: xs, Y: ys}, nil
}

// numberColumn accepts a scalar or an array of numbers.
func numberColumn(v any) ([]float64, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("missing")
	case []any:
		out := make([]float64, 0, len(val))
		for i, e := range val {
			f, ok := asFloat(e)
			if !ok {
				return nil, fmt.Errorf("element %d is not a number", i)
			}
			out = append(out, f)
		}
		return out, nil
	default:
		f, ok := asFloat(v)
		if !ok {
			return nil, fmt.Errorf("not a number")
		}
		return []float64{f}, nil
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
