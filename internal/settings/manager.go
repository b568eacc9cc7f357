package settings

import (
	"fmt"
	"log"
	"sync"

	"StockDash/internal/model"
)

// Manager holds the runtime-mutable dashboard controls with concurrency
// safety. User edits are persisted to a JSON state file so they survive
// restarts; cached market data never is.
type Manager struct {
	mu       sync.RWMutex
	state    *model.Settings
	filePath string
}

// NewManager creates a Manager, loading or initializing state from disk.
// Defaults apply only for fields the state file does not carry.
func NewManager(filePath string, defaults model.Settings) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}

	if state.WatchlistInput == "" {
		state.WatchlistInput = defaults.WatchlistInput
	}
	if state.RefreshSec == 0 {
		state.RefreshSec = defaults.RefreshSec
	}
	if !model.ValidChartMode(state.ChartMode) {
		state.ChartMode = defaults.ChartMode
	}
	state.RefreshSec = clampRefresh(state.RefreshSec)

	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// Snapshot returns a copy of the current settings.
func (m *Manager) Snapshot() model.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.state
}

// SetWatchlist replaces the raw watchlist input. Parsing happens at the
// start of each refresh cycle, so an edit takes effect on the next tick.
func (m *Manager) SetWatchlist(input string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.WatchlistInput = input
	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save settings: %v", err)
	}
}

// SetRefresh updates the refresh interval. Out-of-bounds values are rejected.
func (m *Manager) SetRefresh(sec int) error {
	if sec < model.MinRefreshSec || sec > model.MaxRefreshSec {
		return fmt.Errorf("refresh interval must be between %d and %d seconds", model.MinRefreshSec, model.MaxRefreshSec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.RefreshSec = sec
	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save settings: %v", err)
	}
	return nil
}

// SetChartMode updates the chart mode. Unknown modes are rejected.
func (m *Manager) SetChartMode(mode string) error {
	if !model.ValidChartMode(mode) {
		return fmt.Errorf("unknown chart mode %q", mode)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.ChartMode = mode
	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save settings: %v", err)
	}
	return nil
}

func clampRefresh(sec int) int {
	if sec < model.MinRefreshSec {
		return model.MinRefreshSec
	}
	if sec > model.MaxRefreshSec {
		return model.MaxRefreshSec
	}
	return sec
}

func (m *Manager) save() error {
	if m.filePath == "" {
		return nil
	}
	return SaveState(m.filePath, m.state)
}
