package manager

import (
	"os"
	"os/exec"
)

// SanityReport describes runtime checks for external dependencies.
type SanityReport struct {
	SpawnEnabled bool   `json:"spawn_enabled"`
	XTTSFound    bool   `json:"xtts_found"`
	XTTSPath     string `json:"xtts_path,omitempty"`
	Error        string `json:"error,omitempty"`
}

// SanityCheck validates that the sidecar binary is available when the manager
// is expected to spawn it. It does not mutate state and is safe to call at
// any time.
func (m *Manager) SanityCheck() SanityReport {
	r := SanityReport{SpawnEnabled: m.spawnMode}
	if !m.spawnMode {
		return r
	}
	// Try configured path first, then discovery.
	bin := m.xttsBin
	if bin == "" {
		bin = discoverXTTSBin()
	}
	if bin == "" {
		r.XTTSFound = false
		r.Error = "xtts-server not found"
		return r
	}
	if fi, err := os.Stat(bin); err == nil && !fi.IsDir() {
		r.XTTSFound = true
		r.XTTSPath = bin
		return r
	} else {
		r.XTTSFound = false
		r.XTTSPath = bin
		if err != nil {
			r.Error = err.Error()
		} else {
			r.Error = "xtts path is a directory"
		}
		return r
	}
}

// discoverXTTSBin attempts to locate the sidecar binary on PATH. It
// deliberately avoids environment-variable configuration; callers should pass
// --xtts-bin to override.
func discoverXTTSBin() string {
	if lp, err := exec.LookPath("xtts-server"); err == nil {
		return lp
	}
	return ""
}
