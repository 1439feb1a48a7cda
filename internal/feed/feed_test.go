package feed_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kreijstal/plotstream/internal/feed"
	"github.com/Kreijstal/plotstream/internal/observability"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func appendFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	_, err = f.WriteString(content)
	require.NoError(t, err)
}

func TestTailer_ScalarAndColumnarLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "samples.jsonl")
	writeFile(t, path,
		`{"series":"loss","x":1,"y":0.5}`+"\n"+
			`{"series":"loss","x":[2,3],"y":[0.4,0.3]}`+"\n"+
			`{"series":"acc","x":1,"y":0.9}`+"\n")

	tl := feed.NewTailer(path, observability.NewNoOpLogger())
	batches, err := tl.ReadNew()
	require.NoError(t, err)

	require.Equal(t, []float64{1, 2, 3}, batches["loss"].X)
	require.Equal(t, []float64{0.5, 0.4, 0.3}, batches["loss"].Y)
	require.Equal(t, []float64{1}, batches["acc"].X)
}

func TestTailer_SkipsMalformedLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "samples.jsonl")
	writeFile(t, path,
		"not json\n"+
			`{"series":"a","x":[1,2],"y":[1]}`+"\n"+ // mismatched columns
			`{"x":1,"y":2}`+"\n"+ // missing series
			`{"series":"a","x":1,"y":2}`+"\n")

	tl := feed.NewTailer(path, observability.NewNoOpLogger())
	batches, err := tl.ReadNew()
	require.NoError(t, err)

	require.Len(t, batches, 1)
	require.Equal(t, []float64{1}, batches["a"].X)
	require.Equal(t, []float64{2}, batches["a"].Y)
}

func TestTailer_ReadsOnlyAppendedData(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "samples.jsonl")
	writeFile(t, path, `{"series":"a","x":1,"y":1}`+"\n")

	tl := feed.NewTailer(path, observability.NewNoOpLogger())
	_, err := tl.ReadNew()
	require.NoError(t, err)

	appendFile(t, path, `{"series":"a","x":2,"y":2}`+"\n")
	batches, err := tl.ReadNew()
	require.NoError(t, err)
	require.Equal(t, []float64{2}, batches["a"].X)
}

func TestTailer_BuffersPartialTrailingLine(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "samples.jsonl")
	writeFile(t, path, `{"series":"a","x":1,`)

	tl := feed.NewTailer(path, observability.NewNoOpLogger())
	batches, err := tl.ReadNew()
	require.NoError(t, err)
	require.Empty(t, batches, "half a line must not parse")

	appendFile(t, path, `"y":1}`+"\n")
	batches, err = tl.ReadNew()
	require.NoError(t, err)
	require.Equal(t, []float64{1}, batches["a"].X)
}

func TestTailer_TruncationRestarts(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "samples.jsonl")
	writeFile(t, path, `{"series":"a","x":1,"y":1}`+"\n"+`{"series":"a","x":2,"y":2}`+"\n")

	tl := feed.NewTailer(path, observability.NewNoOpLogger())
	_, err := tl.ReadNew()
	require.NoError(t, err)

	writeFile(t, path, `{"series":"a","x":9,"y":9}`+"\n")
	batches, err := tl.ReadNew()
	require.NoError(t, err)
	require.Equal(t, []float64{9}, batches["a"].X)
}

func TestSynth_DeterministicAndMonotonic(t *testing.T) {
	t.Parallel()

	a := feed.NewSynth(42)
	b := feed.NewSynth(42)

	ba := a.Next(5)
	bb := b.Next(5)
	require.Equal(t, ba, bb, "same seed must generate identical batches")

	require.Len(t, ba, 3)
	for name, batch := range ba {
		require.Len(t, batch.X, 5, name)
		for i := 1; i < len(batch.X); i++ {
			require.Greater(t, batch.X[i], batch.X[i-1], name)
		}
	}

	next := a.Next(1)
	require.Greater(t, next["sine"].X[0], ba["sine"].X[4],
		"x must keep increasing across calls")
}
