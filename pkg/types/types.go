package types

// ModelState is the lifecycle state of the wrapped TTS backend.
type ModelState string

const (
	// StateUninitialized means no load has been attempted yet.
	StateUninitialized ModelState = "uninitialized"
	// StateLoading means a load or reload is in progress.
	StateLoading ModelState = "loading"
	// StateReady means the backend is loaded and serving.
	StateReady ModelState = "ready"
	// StateError means the last load failed; only a reload can leave this state.
	StateError ModelState = "error"
	// StateDegraded means the backend is loaded but recent invocations kept failing.
	StateDegraded ModelState = "degraded"
)

// IsValid reports whether s is one of the known states.
func (s ModelState) IsValid() bool {
	switch s {
	case StateUninitialized, StateLoading, StateReady, StateError, StateDegraded:
		return true
	}
	return false
}

// CanServe reports whether synthesis requests may be admitted in state s.
// Degraded still serves; callers get fallback audio when attempts keep failing.
func (s ModelState) CanServe() bool {
	return s == StateReady || s == StateDegraded
}

// IsTerminalFailure reports whether s requires an explicit reload to recover.
func (s ModelState) IsTerminalFailure() bool { return s == StateError }

// Capabilities describes what the loaded backend can currently do.
// Reported by the adapter after load and folded into health snapshots.
type Capabilities struct {
	// Model weights resident in the backend process.
	BackendLoaded bool `json:"backend_loaded"`
	// Model config.json parsed successfully.
	ConfigLoaded bool `json:"config_loaded"`
	// Speaker conditioning latents computed from the reference wav.
	ConditioningAvailable bool `json:"conditioning_available"`
	// CUDA (or equivalent) visible to the backend.
	AcceleratorAvailable bool `json:"accelerator_available"`
	// Output sample rate in Hz.
	// example: 24000
	SampleRate int `json:"sample_rate" example:"24000"`
}

// RetryPolicy bounds the invocation guard's retry behavior.
type RetryPolicy struct {
	// Maximum attempts per invocation, including the first. Minimum 1.
	// example: 2
	MaxAttempts int `json:"max_attempts" example:"2"`
	// Fixed delay between attempts in milliseconds.
	// example: 500
	DelayMS int `json:"delay_ms" example:"500"`
	// Per-attempt timeout in milliseconds. 0 disables the attempt deadline.
	// example: 30000
	AttemptTimeoutMS int `json:"attempt_timeout_ms" example:"30000"`
}

// HealthSnapshot is a consistent read-only view of the wrapper, captured
// under a single lock so its fields never contradict each other.
type HealthSnapshot struct {
	// Current lifecycle state.
	// example: ready
	State ModelState `json:"state" example:"ready"`
	// Failed attempts and failed loads since the last successful load.
	// example: 0
	ErrorCount int `json:"error_count" example:"0"`
	// Message of the most recent failure, empty if none.
	LastError string `json:"last_error,omitempty"`
	// Unix seconds of the last successful synthesis, 0 if never.
	// example: 1700000000
	LastSuccessUnix int64 `json:"last_success_unix,omitempty" example:"1700000000"`
	// Backend capability flags at last load.
	BackendLoaded         bool `json:"backend_loaded"`
	ConfigLoaded          bool `json:"config_loaded"`
	ConditioningAvailable bool `json:"conditioning_available"`
	AcceleratorAvailable  bool `json:"accelerator_available"`
	// Whether the guard substitutes placeholder audio on exhausted retries.
	FallbackEnabled bool `json:"fallback_enabled"`
	// Uptime of the wrapper in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// ModelAssets locates the on-disk files a backend load needs.
type ModelAssets struct {
	// Model directory containing config, vocab and checkpoint.
	Dir string `json:"dir"`
	// Path to config.json.
	ConfigPath string `json:"config_path"`
	// Path to vocab.json.
	VocabPath string `json:"vocab_path"`
	// Path to the checkpoint file (*.pth or model.safetensors).
	CheckpointPath string `json:"checkpoint_path"`
	// Reference wav used to compute speaker conditioning.
	ReferenceWav string `json:"reference_wav"`
}
