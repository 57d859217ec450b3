package manager

import (
	"sync"
	"time"

	"ttsd/pkg/types"
)

type Manager struct {
	mu          sync.RWMutex
	state       types.ModelState
	assets      types.ModelAssets
	caps        types.Capabilities
	errCount    int
	lastErr     string
	lastSuccess time.Time

	backend   Backend
	publisher EventPublisher

	// Queueing primitives
	genCh   chan struct{} // size 1: single in-flight invocation
	queueCh chan struct{} // buffered: queue slots

	// Immutable after construction
	model           string
	modelDir        string
	refWav          string
	language        string
	maxQueueDepth   int
	maxWait         time.Duration
	maxAttempts     int
	retryDelay      time.Duration
	attemptTimeout  time.Duration
	fallbackEnabled bool
	fallbackDur     time.Duration
	keepSilence     time.Duration
	topK            int
	topP            float64
	xttsBin         string
	spawnMode       bool
	startTime       time.Time
}

// New constructs a Manager for the given model directory with package defaults.
func New(modelDir, refWav string) *Manager {
	// Delegate to NewWithConfig to centralize defaults and option parsing
	return NewWithConfig(ManagerConfig{
		ModelDir:     modelDir,
		ReferenceWav: refWav,
	})
}

// Ready reports whether synthesis requests can be admitted right now.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.CanServe()
}

// State returns the current lifecycle state.
func (m *Manager) State() types.ModelState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Assets returns the validated model assets from the last successful load.
func (m *Manager) Assets() types.ModelAssets {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.assets
}

// Language returns the default language applied to requests without one.
func (m *Manager) Language() string { return m.language }

// Close releases the backend and stops a spawned sidecar if any.
func (m *Manager) Close() error {
	return m.backend.Close()
}
