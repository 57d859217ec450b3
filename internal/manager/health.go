package manager

import (
	"time"

	"ttsd/pkg/types"
)

// Health returns a consistent snapshot of the wrapper. Every field comes from
// the same critical section so readers never see contradictory values, and it
// never blocks on the invocation gate.
func (m *Manager) Health() types.HealthSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := time.Now()
	snap := types.HealthSnapshot{
		State:                 m.state,
		ErrorCount:            m.errCount,
		LastError:             m.lastErr,
		BackendLoaded:         m.caps.BackendLoaded,
		ConfigLoaded:          m.caps.ConfigLoaded,
		ConditioningAvailable: m.caps.ConditioningAvailable,
		AcceleratorAvailable:  m.caps.AcceleratorAvailable,
		FallbackEnabled:       m.fallbackEnabled,
		UptimeSeconds:         int64(now.Sub(m.startTime).Seconds()),
		ServerTimeUnix:        now.Unix(),
	}
	if !m.lastSuccess.IsZero() {
		snap.LastSuccessUnix = m.lastSuccess.Unix()
	}
	return snap
}
