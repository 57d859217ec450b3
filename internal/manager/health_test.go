package manager

import (
	"context"
	"testing"
	"time"

	"ttsd/pkg/types"
)

func TestHealthBeforeLoad(t *testing.T) {
	m := newTestManager(t, newFakeBackend(), nil)
	h := m.Health()
	if h.State != types.StateUninitialized {
		t.Fatalf("state = %s", h.State)
	}
	if h.ErrorCount != 0 || h.LastError != "" || h.LastSuccessUnix != 0 {
		t.Fatalf("fresh snapshot carries history: %+v", h)
	}
	if h.BackendLoaded || h.ConfigLoaded || h.ConditioningAvailable {
		t.Fatalf("capability flags set before load: %+v", h)
	}
	if !h.FallbackEnabled {
		t.Fatalf("fallback should be enabled by default")
	}
	if h.ServerTimeUnix == 0 {
		t.Fatalf("server time missing")
	}
	if h.UptimeSeconds < 0 {
		t.Fatalf("uptime = %d", h.UptimeSeconds)
	}
}

func TestHealthFallbackDisabledFlag(t *testing.T) {
	m := newTestManager(t, newFakeBackend(), func(c *ManagerConfig) {
		c.DisableFallback = true
	})
	if m.Health().FallbackEnabled {
		t.Fatalf("fallback flag should report disabled")
	}
}

func TestHealthDoesNotBlockOnGate(t *testing.T) {
	fb := newFakeBackend()
	fb.delay = 5 * time.Second
	m := loadedManager(t, fb, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_, _ = m.Speak(ctx, types.SpeakRequest{Text: "hello"})
	}()
	waitFor(t, func() bool { return len(m.genCh) == 1 })

	done := make(chan types.HealthSnapshot, 1)
	go func() { done <- m.Health() }()
	select {
	case h := <-done:
		if h.State != types.StateReady {
			t.Fatalf("state = %s", h.State)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("Health blocked behind an in-flight invocation")
	}
}
