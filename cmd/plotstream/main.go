package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Kreijstal/plotstream/internal/observability"
	"github.com/Kreijstal/plotstream/internal/plot"
	"github.com/Kreijstal/plotstream/internal/tui"
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	demo := flag.Bool("demo", false, "plot a synthetic data feed instead of a file")
	interval := flag.Duration("interval", 200*time.Millisecond, "demo sample period")
	maxPoints := flag.Int("max-points", plot.DefaultMaxDataPointsPerSeries,
		"points retained per series; the oldest are dropped first")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "plotstream - live line charts in your terminal\n\n")
		fmt.Fprintf(os.Stderr, "Tails a JSONL sample file and plots it as it grows.\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  plotstream [flags] <samples.jsonl>\n")
		fmt.Fprintf(os.Stderr, "  plotstream -demo\n\n")
		fmt.Fprintf(os.Stderr, "Each line is one record, scalar or columnar:\n")
		fmt.Fprintf(os.Stderr, "  {\"series\": \"loss\", \"x\": 1, \"y\": 0.52}\n")
		fmt.Fprintf(os.Stderr, "  {\"series\": \"loss\", \"x\": [2, 3], \"y\": [0.44, 0.41]}\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PLOTSTREAM_DEBUG      Enable debug logging (creates plotstream.debug.log)\n")
	}

	flag.Parse()

	if !*demo && flag.NArg() != 1 {
		flag.Usage()
		return 1
	}

	// Enable debug logging if PLOTSTREAM_DEBUG env var is set.
	var writer io.Writer = io.Discard
	if os.Getenv("PLOTSTREAM_DEBUG") != "" {
		loggerFile, err := os.OpenFile(
			"plotstream.debug.log", os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "fatal:", err)
			return 1
		}
		writer = loggerFile
		defer func() {
			_ = loggerFile.Close()
		}()
	}

	logger := observability.NewCoreLogger(
		slog.New(slog.NewJSONHandler(
			writer,
			&slog.HandlerOptions{Level: slog.LevelDebug},
		)),
		&observability.CoreLoggerParams{
			Tags: observability.Tags{},
		},
	)

	var samplePath string
	if !*demo {
		samplePath = flag.Arg(0)
		if _, err := os.Stat(samplePath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot access %s: %v\n", samplePath, err)
			return 1
		}
	}

	cfg := plot.DefaultConfig()
	cfg.MaxDataPointsPerSeries = *maxPoints

	model, err := tui.NewModel(tui.Params{
		SamplePath:   samplePath,
		Demo:         *demo,
		TickInterval: *interval,
		Config:       cfg,
		Logger:       logger,
		Settings:     tui.NewSettingsManager("", logger),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		logger.Error(fmt.Sprintf("plotstream: %v", err))
		return 1
	}
	return 0
}
