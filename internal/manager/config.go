package manager

import (
	"path/filepath"
	"time"

	"ttsd/internal/audio"
	"ttsd/pkg/types"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultMaxQueueDepth    = 2
	defaultMaxWait          = 30 * time.Second
	defaultMaxAttempts      = 2
	defaultRetryDelay       = 500 * time.Millisecond
	defaultAttemptTimeout   = 30 * time.Second
	defaultFallbackDuration = 1 * time.Second
	defaultStartupTimeout   = 60 * time.Second
	defaultLanguage         = "vi"
	defaultTopK             = 50
	defaultTopP             = 0.85
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	// Model assets validated by the registry before each load.
	ModelDir     string
	ReferenceWav string
	// Default language for requests that do not carry one.
	Language string

	// Queue config: MaxQueueDepth bounds admitted-but-unfinished invocations
	// (the in-flight one plus waiters); MaxWait bounds time spent queued.
	MaxQueueDepth int
	MaxWait       time.Duration

	// Retry bounds applied per guarded invocation.
	Retry types.RetryPolicy

	// DisableFallback returns errors instead of placeholder audio on exhaustion.
	DisableFallback  bool
	FallbackDuration time.Duration
	// Silence pad kept after the last voiced frame when trimming.
	KeepSilence time.Duration

	// Sampling knobs forwarded to the backend with every request.
	TopK int
	TopP float64

	// Sidecar configuration (no envs; set by callers).
	// XTTSURL connects to a running sidecar; XTTSBin spawns one.
	XTTSURL        string
	XTTSBin        string
	XTTSHost       string
	XTTSPortStart  int
	XTTSPortEnd    int
	XTTSArgs       []string
	StartupTimeout time.Duration

	// Backend overrides the URL/bin selection entirely (used by tests).
	Backend Backend
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		state:     types.StateUninitialized,
		publisher: noopPublisher{},
		model:     modelName(cfg.ModelDir),
		modelDir:  cfg.ModelDir,
		refWav:    cfg.ReferenceWav,
		language:  cfg.Language,
	}
	// Apply defaults if unset
	if m.language == "" {
		m.language = defaultLanguage
	}
	if cfg.MaxQueueDepth <= 0 {
		m.maxQueueDepth = defaultMaxQueueDepth
	} else {
		m.maxQueueDepth = cfg.MaxQueueDepth
	}
	if cfg.MaxWait <= 0 {
		m.maxWait = defaultMaxWait
	} else {
		m.maxWait = cfg.MaxWait
	}
	if cfg.Retry.MaxAttempts < 1 {
		m.maxAttempts = defaultMaxAttempts
	} else {
		m.maxAttempts = cfg.Retry.MaxAttempts
	}
	if cfg.Retry.DelayMS < 0 {
		m.retryDelay = defaultRetryDelay
	} else {
		m.retryDelay = time.Duration(cfg.Retry.DelayMS) * time.Millisecond
	}
	if cfg.Retry.AttemptTimeoutMS < 0 {
		m.attemptTimeout = defaultAttemptTimeout
	} else {
		m.attemptTimeout = time.Duration(cfg.Retry.AttemptTimeoutMS) * time.Millisecond
	}
	if cfg.Retry == (types.RetryPolicy{}) {
		m.retryDelay = defaultRetryDelay
		m.attemptTimeout = defaultAttemptTimeout
	}
	m.fallbackEnabled = !cfg.DisableFallback
	if cfg.FallbackDuration <= 0 {
		m.fallbackDur = defaultFallbackDuration
	} else {
		m.fallbackDur = cfg.FallbackDuration
	}
	if cfg.KeepSilence <= 0 {
		m.keepSilence = audio.DefaultKeepSilence
	} else {
		m.keepSilence = cfg.KeepSilence
	}
	if cfg.TopK <= 0 {
		m.topK = defaultTopK
	} else {
		m.topK = cfg.TopK
	}
	if cfg.TopP <= 0 {
		m.topP = defaultTopP
	} else {
		m.topP = cfg.TopP
	}
	// Queueing primitives
	m.genCh = make(chan struct{}, 1)
	m.queueCh = make(chan struct{}, m.maxQueueDepth)
	// Backend selection: explicit override, then connect, then spawn.
	switch {
	case cfg.Backend != nil:
		m.backend = cfg.Backend
	case cfg.XTTSURL != "":
		m.backend = NewXTTSHTTPAdapter(cfg.XTTSURL)
	default:
		m.backend = NewXTTSSpawnAdapter(cfg)
		m.spawnMode = true
	}
	m.xttsBin = cfg.XTTSBin
	m.startTime = time.Now()
	return m
}

// modelName derives a short display name from the model directory.
func modelName(dir string) string {
	if dir == "" {
		return "xtts"
	}
	return filepath.Base(dir)
}
