package manager

import (
	"context"
	"time"
)

// beginSynthesis admits one guarded invocation: it reserves a queue slot and
// then the single in-flight slot. Queue slots cover the in-flight invocation
// and the waiters behind it, so cap(queueCh) bounds admitted-but-unfinished
// work. Returns a release func to be deferred.
func (m *Manager) beginSynthesis(ctx context.Context) (func(), error) {
	m.mu.RLock()
	st := m.state
	m.mu.RUnlock()
	// Fail fast while uninitialized/loading/error instead of queueing.
	if !st.CanServe() {
		return func() {}, notReadyError{state: st}
	}

	// Fast path: respect an already-canceled context
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}

	// Try to reserve a queue slot with timeout
	timer := time.NewTimer(m.maxWait)
	defer timer.Stop()
	select {
	case m.queueCh <- struct{}{}:
		// reserved queue slot
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, tooBusyError{model: m.model}
	}

	// Wait to acquire the single in-flight slot
	acquired := false
	defer func() {
		if !acquired {
			<-m.queueCh
		}
	}()
	// Check for cancellation again before blocking on the in-flight slot
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}
	timer2 := time.NewTimer(m.maxWait)
	defer timer2.Stop()
	select {
	case m.genCh <- struct{}{}:
		// Re-check serveability: a reload may have started while we waited.
		m.mu.RLock()
		st = m.state
		m.mu.RUnlock()
		if !st.CanServe() {
			<-m.genCh
			return func() {}, notReadyError{state: st}
		}
		acquired = true
		return func() { <-m.genCh; <-m.queueCh }, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer2.C:
		return func() {}, tooBusyError{model: m.model}
	}
}
