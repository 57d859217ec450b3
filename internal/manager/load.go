package manager

import (
	"context"
	"log"
	"time"

	"ttsd/internal/registry"
	"ttsd/pkg/types"
)

// Load validates the model directory and asks the backend to make it
// resident. It transitions to loading first so synthesis callers fail fast,
// and drains the in-flight slot so no invocation observes a half-loaded
// backend. Success resets the error counters; failure moves to error state.
// Concurrent calls coalesce: the second caller gets an already-loading error.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	if m.state == types.StateLoading {
		m.mu.Unlock()
		return alreadyLoadingError{}
	}
	ev := eventLoadStarted
	if m.state != types.StateUninitialized {
		ev = eventReloadRequested
	}
	prev, next := m.applyLocked(ev)
	m.mu.Unlock()
	m.announceState(prev, next, ev)
	log.Printf("manager event=load_start model=%q cause=%s", m.model, ev)
	m.publish(Event{Name: "load_start", Model: m.model, Fields: map[string]any{"cause": string(ev)}})

	// Drain: wait for the in-flight invocation to finish before touching the
	// backend. New callers are already rejected by the loading state.
	select {
	case m.genCh <- struct{}{}:
	case <-ctx.Done():
		// Canceled before the backend was touched: restore the prior state.
		m.mu.Lock()
		m.state = prev
		m.mu.Unlock()
		log.Printf("manager event=load_abort model=%q err=%v", m.model, ctx.Err())
		m.publish(Event{Name: "load_abort", Model: m.model, Fields: map[string]any{"error": ctx.Err().Error()}})
		return ctx.Err()
	}
	defer func() { <-m.genCh }()

	started := time.Now()
	assets, err := registry.LoadModelDir(m.modelDir, m.refWav)
	if err != nil {
		cerr := configError{cause: err}
		m.finishLoadFailure(cerr)
		return cerr
	}
	caps, err := m.backend.Load(ctx, assets.Dir, assets.ReferenceWav)
	if err != nil {
		lerr := loadError{cause: err}
		m.finishLoadFailure(lerr)
		return lerr
	}

	m.mu.Lock()
	m.assets = assets
	m.caps = caps
	m.errCount = 0
	m.lastErr = ""
	prev, next = m.applyLocked(eventLoadSucceeded)
	m.mu.Unlock()
	m.announceState(prev, next, eventLoadSucceeded)
	log.Printf("manager event=load_ready model=%q dur_ms=%d sample_rate=%d", m.model, time.Since(started)/time.Millisecond, caps.SampleRate)
	m.publish(Event{Name: "load_ready", Model: m.model, Fields: map[string]any{
		"dur_ms":      int(time.Since(started) / time.Millisecond),
		"sample_rate": caps.SampleRate,
	}})
	return nil
}

// Reload re-runs the load path from ready, degraded or error.
func (m *Manager) Reload(ctx context.Context) error { return m.Load(ctx) }

// finishLoadFailure records a failed load: error state, counter bumped,
// message kept for health reporting.
func (m *Manager) finishLoadFailure(cause error) {
	m.mu.Lock()
	m.errCount++
	m.lastErr = cause.Error()
	prev, next := m.applyLocked(eventLoadFailed)
	m.mu.Unlock()
	m.announceState(prev, next, eventLoadFailed)
	log.Printf("manager event=load_error model=%q err=%v", m.model, cause)
	m.publish(Event{Name: "load_error", Model: m.model, Fields: map[string]any{"error": cause.Error()}})
}
