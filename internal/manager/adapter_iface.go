package manager

import (
	"context"

	"ttsd/pkg/types"
)

// Backend abstracts the TTS runtime the Manager drives. Concrete
// implementations (HTTP sidecar client, spawned sidecar) satisfy this
// interface; tests substitute an in-memory fake.
type Backend interface {
	// Load makes the model under modelDir resident and computes speaker
	// conditioning from refWav. It reports the resulting capabilities.
	Load(ctx context.Context, modelDir, refWav string) (types.Capabilities, error)
	// Synthesize renders one utterance and returns a complete WAV file.
	// Implementations must return when the context is canceled.
	Synthesize(ctx context.Context, req BackendRequest) ([]byte, error)
	// Capabilities reports the backend's current capability flags.
	Capabilities(ctx context.Context) (types.Capabilities, error)
	// Close releases resources and stops a spawned sidecar if any.
	Close() error
}

// BackendRequest captures synthesis parameters passed to the backend.
type BackendRequest struct {
	Text     string
	Language string

	Speed             float64
	Temperature       float64
	LengthPenalty     float64
	RepetitionPenalty float64
	TopK              int
	TopP              float64
	// EnableTextSplitting lets the backend split internally; the daemon
	// normally splits sentences itself and leaves this off.
	EnableTextSplitting bool
}
