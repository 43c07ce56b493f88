package weights

import (
	"maps"
	"sync"
	"time"

	"DrawSentinel/internal/logging"
	"DrawSentinel/internal/model"
)

// Manager owns the learned ensemble weights with concurrency safety.
type Manager struct {
	mu       sync.Mutex
	state    *model.WeightState
	filePath string
}

// NewManager creates a Manager, loading state from disk. A missing file
// leaves the manager empty, which means unweighted voting.
func NewManager(filePath string) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	return &Manager{state: state, filePath: filePath}, nil
}

// GetState returns a copy of the current weight state.
func (m *Manager) GetState() model.WeightState {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := *m.state
	s.Weights = maps.Clone(m.state.Weights)
	return s
}

// Get returns a copy of the weights, or nil when nothing has been learned.
func (m *Manager) Get() map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.state.Weights) == 0 {
		return nil
	}
	return maps.Clone(m.state.Weights)
}

// Apply stores freshly learned weights and persists them.
func (m *Manager) Apply(w map[string]float64, window int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Weights = maps.Clone(w)
	m.state.Window = window
	m.state.Runs++
	m.state.LastLearnedAt = time.Now()

	if err := m.save(); err != nil {
		logging.Errorf("failed to save weight state: %v", err)
		return err
	}
	return nil
}

// Reset drops learned weights, returning the ensemble to unweighted voting.
func (m *Manager) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Weights = nil
	m.state.Window = 0
	m.state.LastLearnedAt = time.Time{}

	if err := m.save(); err != nil {
		logging.Errorf("failed to save weight state after reset: %v", err)
		return err
	}
	return nil
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}
