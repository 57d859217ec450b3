package manager

import (
	"context"
	"log"
	"strings"
	"time"

	"ttsd/internal/audio"
	"ttsd/internal/text"
	"ttsd/pkg/types"
)

// InferenceResult is the outcome of one guarded synthesis invocation.
type InferenceResult struct {
	// Audio is a complete WAV file.
	Audio      []byte
	SampleRate int
	// Fallback marks placeholder audio substituted after exhausted retries;
	// LastError then carries the final attempt's failure message.
	Fallback  bool
	LastError string
	// Attempts actually made against the backend.
	Attempts  int
	Timestamp time.Time
}

// Speak synthesizes one utterance through the invocation guard: normalize the
// text, derive per-sentence inference parameters, run the guarded backend
// invocation, then trim trailing silence from real (non-fallback) audio.
func (m *Manager) Speak(ctx context.Context, req types.SpeakRequest) (InferenceResult, error) {
	utterance := strings.TrimSpace(req.Text)
	if utterance == "" {
		return InferenceResult{}, ErrInvalidRequest("text is required")
	}
	lang := req.Language
	if lang == "" {
		lang = m.language
	}

	norm := text.Normalize(utterance, lang)
	params := text.CalculateInferenceParams(norm)
	if req.Speed > 0 {
		params.Speed = req.Speed
	}
	res, err := m.invoke(ctx, BackendRequest{
		Text:                norm,
		Language:            lang,
		Speed:               params.Speed,
		Temperature:         params.Temperature,
		LengthPenalty:       params.LengthPenalty,
		RepetitionPenalty:   params.RepetitionPenalty,
		TopK:                m.topK,
		TopP:                m.topP,
		EnableTextSplitting: params.EnableTextSplitting,
	})
	if err != nil || res.Fallback {
		return res, err
	}
	if trimmed, terr := audio.TrimTrailingSilence(res.Audio, m.keepSilence); terr == nil {
		res.Audio = trimmed
	}
	return res, nil
}

// invoke runs one guarded backend invocation: admission through the gate,
// bounded retries with a fixed delay, a deadline per attempt, then fallback
// audio or a typed error once the budget is spent. Parent cancellation aborts
// immediately with no retry and no fallback.
func (m *Manager) invoke(ctx context.Context, req BackendRequest) (InferenceResult, error) {
	release, err := m.beginSynthesis(ctx)
	if err != nil {
		return InferenceResult{}, err
	}
	defer release()

	started := time.Now()
	var lastErr error
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		wav, err := m.attempt(ctx, req)
		if err == nil {
			m.recordSuccess()
			m.publish(Event{Name: "synthesize_ok", Model: m.model, Fields: map[string]any{
				"attempts": attempt,
				"dur_ms":   int(time.Since(started) / time.Millisecond),
				"bytes":    len(wav),
			}})
			return InferenceResult{
				Audio:      wav,
				SampleRate: m.sampleRate(),
				Attempts:   attempt,
				Timestamp:  time.Now(),
			}, nil
		}
		// Parent cancellation aborts the run; attempt deadlines do not. A
		// canceled attempt is the caller's doing and is not counted against
		// the backend.
		if ctx.Err() != nil {
			return InferenceResult{}, ctx.Err()
		}
		lastErr = err
		m.recordAttemptFailure(err)
		log.Printf("manager event=attempt_fail model=%q attempt=%d err=%v", m.model, attempt, err)
		m.publish(Event{Name: "attempt_fail", Model: m.model, Fields: map[string]any{
			"attempt": attempt,
			"error":   err.Error(),
		}})
		if attempt < m.maxAttempts && m.retryDelay > 0 {
			timer := time.NewTimer(m.retryDelay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return InferenceResult{}, ctx.Err()
			}
		}
	}

	if m.fallbackEnabled {
		m.recordExhaustion(eventInvokeFallback)
		log.Printf("manager event=synthesize_fallback model=%q attempts=%d err=%v", m.model, m.maxAttempts, lastErr)
		m.publish(Event{Name: "synthesize_fallback", Model: m.model, Fields: map[string]any{
			"attempts": m.maxAttempts,
			"error":    lastErr.Error(),
		}})
		return InferenceResult{
			Audio:      m.fallbackWAV(),
			SampleRate: fallbackSampleRate,
			Fallback:   true,
			LastError:  lastErr.Error(),
			Attempts:   m.maxAttempts,
			Timestamp:  time.Now(),
		}, nil
	}
	m.recordExhaustion(eventInvokeFailed)
	return InferenceResult{}, exhaustedRetriesError{attempts: m.maxAttempts, cause: lastErr}
}

// attempt runs a single backend call under its own deadline.
func (m *Manager) attempt(ctx context.Context, req BackendRequest) ([]byte, error) {
	actx := ctx
	if m.attemptTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, m.attemptTimeout)
		defer cancel()
	}
	wav, err := m.backend.Synthesize(actx, req)
	if err != nil {
		return nil, inferenceError{cause: err}
	}
	return wav, nil
}

// recordSuccess notes the success instant and promotes degraded back to ready.
// ErrorCount is deliberately left alone; only a successful load clears it.
func (m *Manager) recordSuccess() {
	m.mu.Lock()
	m.lastSuccess = time.Now()
	prev, next := m.applyLocked(eventInvokeSucceeded)
	m.mu.Unlock()
	m.announceState(prev, next, eventInvokeSucceeded)
}

// recordAttemptFailure counts one failed backend attempt.
func (m *Manager) recordAttemptFailure(cause error) {
	m.mu.Lock()
	m.errCount++
	m.lastErr = cause.Error()
	m.mu.Unlock()
}

// recordExhaustion moves the lifecycle after a spent retry budget: to degraded
// when fallback audio was substituted, to error when fallback is disabled.
func (m *Manager) recordExhaustion(ev stateEvent) {
	m.mu.Lock()
	prev, next := m.applyLocked(ev)
	m.mu.Unlock()
	m.announceState(prev, next, ev)
}

// sampleRate reports the backend's output rate from the last load.
func (m *Manager) sampleRate() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.caps.SampleRate > 0 {
		return m.caps.SampleRate
	}
	return fallbackSampleRate
}
