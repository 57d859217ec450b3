package manager

import (
	"log"

	"ttsd/pkg/types"
)

// stateEvent is an input to the lifecycle transition table.
type stateEvent string

const (
	eventLoadStarted     stateEvent = "load_started"
	eventLoadSucceeded   stateEvent = "load_succeeded"
	eventLoadFailed      stateEvent = "load_failed"
	eventInvokeSucceeded stateEvent = "invoke_succeeded"
	// eventInvokeFallback fires when an invocation exhausts its retry budget
	// and placeholder audio is substituted; eventInvokeFailed fires when the
	// budget is exhausted with fallback disabled.
	eventInvokeFallback  stateEvent = "invoke_fallback"
	eventInvokeFailed    stateEvent = "invoke_failed"
	eventReloadRequested stateEvent = "reload_requested"
)

// nextState is the lifecycle transition table. Pairs not listed keep the
// current state unchanged, which makes the function total.
func nextState(cur types.ModelState, ev stateEvent) types.ModelState {
	switch ev {
	case eventLoadStarted:
		if cur == types.StateUninitialized {
			return types.StateLoading
		}
	case eventReloadRequested:
		switch cur {
		case types.StateReady, types.StateError, types.StateDegraded:
			return types.StateLoading
		}
	case eventLoadSucceeded:
		if cur == types.StateLoading {
			return types.StateReady
		}
	case eventLoadFailed:
		if cur == types.StateLoading {
			return types.StateError
		}
	case eventInvokeSucceeded:
		if cur == types.StateDegraded {
			return types.StateReady
		}
	case eventInvokeFallback:
		switch cur {
		case types.StateReady, types.StateDegraded:
			return types.StateDegraded
		}
	case eventInvokeFailed:
		if cur == types.StateReady {
			return types.StateError
		}
	}
	return cur
}

// applyLocked runs ev through the table and records the move. Callers must
// hold m.mu; the returned previous state lets them log/publish after unlock.
func (m *Manager) applyLocked(ev stateEvent) (prev, next types.ModelState) {
	prev = m.state
	next = nextState(prev, ev)
	m.state = next
	return prev, next
}

// announceState logs and publishes a state change. Call without m.mu held.
func (m *Manager) announceState(prev, next types.ModelState, ev stateEvent) {
	if prev == next {
		return
	}
	log.Printf("manager event=state_change model=%q from=%s to=%s cause=%s", m.model, prev, next, ev)
	m.publish(Event{Name: "state_change", Model: m.model, Fields: map[string]any{
		"from":  string(prev),
		"to":    string(next),
		"cause": string(ev),
	}})
}
