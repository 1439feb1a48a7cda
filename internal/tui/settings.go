package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Kreijstal/plotstream/internal/observability"
	"github.com/Kreijstal/plotstream/internal/plot"
)

const (
	envConfigDir = "PLOTSTREAM_CONFIG_DIR"
	settingsName = "plotstream.json"
)

// Settings are the UI preferences that persist across sessions. Viewport
// state (zoom, pan, follow mode) deliberately does not persist.
type Settings struct {
	LegendVisible  bool   `json:"legend_visible"`
	LegendPosition string `json:"legend_position"`
	ShowGridLines  bool   `json:"show_grid_lines"`
}

// SettingsManager manages persisted UI preferences with thread-safe access.
//
// All setter methods automatically save changes to disk.
type SettingsManager struct {
	mu       sync.RWMutex
	path     string
	settings Settings
	logger   *observability.CoreLogger
}

// NewSettingsManager loads settings from path, creating the file with
// defaults if absent. An empty path picks a default under the user config
// directory (override with PLOTSTREAM_CONFIG_DIR).
func NewSettingsManager(path string, logger *observability.CoreLogger) *SettingsManager {
	sm := &SettingsManager{
		path: path,
		settings: Settings{
			LegendVisible:  true,
			LegendPosition: plot.LegendRight,
			ShowGridLines:  true,
		},
		logger: logger,
	}
	if sm.path == "" {
		sm.path = defaultSettingsPath()
	}
	if err := sm.loadOrCreate(); err != nil {
		// Settings are a convenience; run with defaults if the disk fights us.
		logger.CaptureWarn("settings: using defaults", "error", err)
	}
	return sm
}

func defaultSettingsPath() string {
	if dir := os.Getenv(envConfigDir); dir != "" {
		return filepath.Join(dir, settingsName)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return settingsName
	}
	return filepath.Join(dir, "plotstream", settingsName)
}

func (sm *SettingsManager) loadOrCreate() error {
	data, err := os.ReadFile(sm.path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(sm.path), 0o755); err != nil {
			return err
		}
		return sm.save()
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, &sm.settings); err != nil {
		return fmt.Errorf("settings: parse %s: %w", sm.path, err)
	}
	sm.normalize()
	return nil
}

func (sm *SettingsManager) normalize() {
	if sm.settings.LegendPosition != plot.LegendRight &&
		sm.settings.LegendPosition != plot.LegendBottom {
		sm.settings.LegendPosition = plot.LegendRight
	}
}

func (sm *SettingsManager) save() error {
	data, err := json.MarshalIndent(sm.settings, "", "  ")
	if err != nil {
		return err
	}

	// Write atomically via temp file + rename.
	tempPath := sm.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("settings: write temp file: %v", err)
	}
	if err := os.Rename(tempPath, sm.path); err != nil {
		return fmt.Errorf("settings: rename temp file: %v", err)
	}
	return nil
}

// Snapshot returns a copy of the current settings.
func (sm *SettingsManager) Snapshot() Settings {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.settings
}

func (sm *SettingsManager) Path() string {
	return sm.path
}

// SetLegendVisible persists the legend visibility preference.
func (sm *SettingsManager) SetLegendVisible(visible bool) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.settings.LegendVisible = visible
	return sm.save()
}

// SetShowGridLines persists the grid line preference.
func (sm *SettingsManager) SetShowGridLines(show bool) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.settings.ShowGridLines = show
	return sm.save()
}
