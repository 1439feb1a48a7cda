package feed

import (
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	poller "github.com/radovskyb/watcher"

	"github.com/Kreijstal/plotstream/internal/observability"
)

// FileChangedMsg is emitted when the watched sample file may have new
// content.
type FileChangedMsg struct {
	Path string
}

const defaultPollingPeriod = 250 * time.Millisecond

// WatchManager polls a sample file for changes and forwards change events
// to the UI's message channel.
type WatchManager struct {
	delegate      *poller.Watcher
	msgs          chan tea.Msg
	logger        *observability.CoreLogger
	pollingPeriod time.Duration
	started       bool
	wg            sync.WaitGroup
}

func NewWatchManager(msgs chan tea.Msg, logger *observability.CoreLogger) *WatchManager {
	return &WatchManager{
		msgs:          msgs,
		logger:        logger,
		pollingPeriod: defaultPollingPeriod,
	}
}

// Start begins watching the file. Calling Start twice is a no-op.
func (wm *WatchManager) Start(path string) error {
	if wm.started {
		return nil
	}

	wm.delegate = poller.New()
	// Create is included because the poller may report pre-existing files
	// as created on its first cycle; both mean "re-read the file".
	wm.delegate.FilterOps(poller.Write, poller.Create)
	if err := wm.delegate.Add(path); err != nil {
		wm.logger.CaptureError(fmt.Errorf("feed: watch %s: %w", path, err))
		return err
	}

	wm.wg.Add(1)
	go wm.loop()
	go func() {
		if err := wm.delegate.Start(wm.pollingPeriod); err != nil {
			wm.logger.CaptureError(fmt.Errorf("feed: watcher start: %w", err))
		}
	}()

	wm.started = true
	wm.logger.Debug("feed: watching", "path", path)
	return nil
}

func (wm *WatchManager) loop() {
	defer wm.wg.Done()
	for {
		select {
		case event := <-wm.delegate.Event:
			if event.IsDir() {
				continue
			}
			select {
			case wm.msgs <- FileChangedMsg{Path: event.Path}:
			default:
				// The UI is behind; the pending message already forces a
				// re-read, so dropping this one loses nothing.
			}

		case err := <-wm.delegate.Error:
			wm.logger.CaptureError(fmt.Errorf("feed: watcher: %w", err))

		case <-wm.delegate.Closed:
			return
		}
	}
}

// WaitForMsg blocks until the next change event, for use as a bubbletea
// command.
func (wm *WatchManager) WaitForMsg() tea.Msg {
	return <-wm.msgs
}

// Finish stops the watcher and waits for its loop to exit.
func (wm *WatchManager) Finish() {
	if !wm.started {
		return
	}
	wm.delegate.Close()
	wm.wg.Wait()
	wm.started = false
}
