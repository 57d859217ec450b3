package manager

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ttsd/internal/audio"
	"ttsd/pkg/types"
)

// xttsHTTPAdapter drives an already-running XTTS sidecar over its HTTP
// interface: POST /load, POST /synthesize (audio/wav), GET /capabilities.
type xttsHTTPAdapter struct {
	baseURL    string
	httpClient *http.Client
}

// maxWAVBytes bounds one synthesize response; about ten minutes of 24kHz
// 16-bit mono audio.
const maxWAVBytes = 10 * 60 * 24000 * 2

// NewXTTSHTTPAdapter constructs a client for a sidecar at baseURL.
// Intentionally set Timeout=0: all calls must use context-based timeouts,
// which the invocation guard supplies per attempt.
func NewXTTSHTTPAdapter(baseURL string) Backend {
	return &xttsHTTPAdapter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 0},
	}
}

type xttsLoadRequest struct {
	ModelDir     string `json:"model_dir"`
	ReferenceWav string `json:"reference_wav"`
}

type xttsSynthesizeRequest struct {
	Text                string  `json:"text"`
	Language            string  `json:"language"`
	Speed               float64 `json:"speed,omitempty"`
	Temperature         float64 `json:"temperature,omitempty"`
	LengthPenalty       float64 `json:"length_penalty,omitempty"`
	RepetitionPenalty   float64 `json:"repetition_penalty,omitempty"`
	TopK                int     `json:"top_k,omitempty"`
	TopP                float64 `json:"top_p,omitempty"`
	EnableTextSplitting bool    `json:"enable_text_splitting,omitempty"`
}

func (a *xttsHTTPAdapter) Load(ctx context.Context, modelDir, refWav string) (types.Capabilities, error) {
	body, _ := json.Marshal(xttsLoadRequest{ModelDir: modelDir, ReferenceWav: refWav})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/load", bytes.NewReader(body))
	if err != nil {
		return types.Capabilities{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return types.Capabilities{}, ctx.Err()
		}
		return types.Capabilities{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return types.Capabilities{}, fmt.Errorf("xtts load http error: %s: %s", resp.Status, string(b))
	}
	var caps types.Capabilities
	if err := json.NewDecoder(resp.Body).Decode(&caps); err != nil {
		return types.Capabilities{}, fmt.Errorf("decode capabilities: %w", err)
	}
	return caps, nil
}

func (a *xttsHTTPAdapter) Synthesize(ctx context.Context, breq BackendRequest) ([]byte, error) {
	body, _ := json.Marshal(xttsSynthesizeRequest{
		Text:                breq.Text,
		Language:            breq.Language,
		Speed:               breq.Speed,
		Temperature:         breq.Temperature,
		LengthPenalty:       breq.LengthPenalty,
		RepetitionPenalty:   breq.RepetitionPenalty,
		TopK:                breq.TopK,
		TopP:                breq.TopP,
		EnableTextSplitting: breq.EnableTextSplitting,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/synthesize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("xtts synthesize http error: %s: %s", resp.Status, string(b))
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "audio/wav") && !strings.HasPrefix(ct, "audio/x-wav") {
		return nil, fmt.Errorf("xtts synthesize: unexpected content type %q", ct)
	}
	wav, err := io.ReadAll(io.LimitReader(resp.Body, maxWAVBytes+1))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if len(wav) > maxWAVBytes {
		return nil, fmt.Errorf("xtts synthesize: response exceeds %d bytes", maxWAVBytes)
	}
	if !audio.IsWAV(wav) {
		return nil, fmt.Errorf("xtts synthesize: response is not a RIFF/WAVE file")
	}
	return wav, nil
}

func (a *xttsHTTPAdapter) Capabilities(ctx context.Context) (types.Capabilities, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/capabilities", nil)
	if err != nil {
		return types.Capabilities{}, err
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return types.Capabilities{}, ctx.Err()
		}
		return types.Capabilities{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return types.Capabilities{}, fmt.Errorf("xtts capabilities http error: %s: %s", resp.Status, string(b))
	}
	var caps types.Capabilities
	if err := json.NewDecoder(resp.Body).Decode(&caps); err != nil {
		return types.Capabilities{}, fmt.Errorf("decode capabilities: %w", err)
	}
	return caps, nil
}

func (a *xttsHTTPAdapter) Close() error { return nil }
