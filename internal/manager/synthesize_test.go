package manager

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ttsd/internal/audio"
	"ttsd/pkg/types"
)

func TestSpeakSuccess(t *testing.T) {
	fb := newFakeBackend()
	m := loadedManager(t, fb, nil)

	res, err := m.Speak(testCtx(t), types.SpeakRequest{Text: "Tôi có 3 quả táo."})
	if err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if res.Fallback {
		t.Fatalf("unexpected fallback result")
	}
	if res.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", res.Attempts)
	}
	if res.SampleRate != 24000 {
		t.Fatalf("sample rate = %d", res.SampleRate)
	}
	if !audio.IsWAV(res.Audio) {
		t.Fatalf("result is not a WAV")
	}
	if res.Timestamp.IsZero() {
		t.Fatalf("result timestamp not set")
	}

	last := fb.last()
	if strings.Contains(last.Text, "3") {
		t.Fatalf("digits not normalized: %q", last.Text)
	}
	if !strings.Contains(last.Text, "ba") {
		t.Fatalf("expected spelled-out number in %q", last.Text)
	}
	if last.Language != "vi" {
		t.Fatalf("language = %q, want vi", last.Language)
	}
	if last.TopK != defaultTopK || last.TopP != defaultTopP {
		t.Fatalf("sampling params not applied: top_k=%d top_p=%v", last.TopK, last.TopP)
	}

	if m.Health().LastSuccessUnix == 0 {
		t.Fatalf("last success not recorded")
	}
}

func TestSpeakEmptyText(t *testing.T) {
	m := loadedManager(t, newFakeBackend(), nil)
	_, err := m.Speak(testCtx(t), types.SpeakRequest{Text: "   "})
	if !IsInvalidRequest(err) {
		t.Fatalf("expected invalid request, got %v", err)
	}
}

func TestSpeakExplicitLanguageAndSpeed(t *testing.T) {
	fb := newFakeBackend()
	m := loadedManager(t, fb, nil)
	_, err := m.Speak(testCtx(t), types.SpeakRequest{Text: "hello there", Language: "en", Speed: 1.3})
	if err != nil {
		t.Fatalf("Speak: %v", err)
	}
	last := fb.last()
	if last.Language != "en" {
		t.Fatalf("language = %q, want en", last.Language)
	}
	if last.Speed != 1.3 {
		t.Fatalf("speed = %v, want explicit override", last.Speed)
	}
}

func TestRetryThenSuccess(t *testing.T) {
	fb := newFakeBackend()
	fb.failFirst = 1
	m := loadedManager(t, fb, func(c *ManagerConfig) {
		c.Retry = types.RetryPolicy{MaxAttempts: 3, DelayMS: 5, AttemptTimeoutMS: 1000}
	})
	res, err := m.Speak(testCtx(t), types.SpeakRequest{Text: "hello"})
	if err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if res.Fallback {
		t.Fatalf("unexpected fallback after recoverable failure")
	}
	if res.Attempts != 2 {
		t.Fatalf("attempts = %d, want 2", res.Attempts)
	}
	if fb.synthCount() != 2 {
		t.Fatalf("backend calls = %d, want 2", fb.synthCount())
	}
	// The failed first attempt stays on the books even though the run recovered.
	if got := m.Health().ErrorCount; got != 1 {
		t.Fatalf("error count = %d after recovered run, want 1", got)
	}
	if m.State() != types.StateReady {
		t.Fatalf("state = %s after recovered run, want ready", m.State())
	}
}

func TestFallbackOnExhaustion(t *testing.T) {
	fb := newFakeBackend()
	fb.setSynthErr(errors.New("sidecar oom"))
	m := loadedManager(t, fb, func(c *ManagerConfig) {
		c.Retry = types.RetryPolicy{MaxAttempts: 2, DelayMS: 5, AttemptTimeoutMS: 1000}
	})
	res, err := m.Speak(testCtx(t), types.SpeakRequest{Text: "hello"})
	if err != nil {
		t.Fatalf("Speak with fallback enabled: %v", err)
	}
	if !res.Fallback {
		t.Fatalf("expected fallback result")
	}
	if fb.synthCount() != 2 {
		t.Fatalf("backend calls = %d, want 2", fb.synthCount())
	}

	pcm, info, err := audio.DecodePCM16(res.Audio)
	if err != nil {
		t.Fatalf("fallback WAV invalid: %v", err)
	}
	if info.SampleRate != 24000 {
		t.Fatalf("fallback rate = %d", info.SampleRate)
	}
	if len(pcm) != 24000 {
		t.Fatalf("fallback samples = %d, want 1s at 24kHz", len(pcm))
	}
	for i, s := range pcm {
		if s != 0 {
			t.Fatalf("fallback sample %d = %d, want silence", i, s)
		}
	}

	h := m.Health()
	if h.ErrorCount != 2 {
		t.Fatalf("error count = %d, want one per failed attempt", h.ErrorCount)
	}
	if h.LastError == "" {
		t.Fatalf("last error not recorded")
	}
	if h.State != types.StateDegraded {
		t.Fatalf("state = %s, want degraded after exhausted run", h.State)
	}
	if res.LastError == "" || !strings.Contains(res.LastError, "sidecar oom") {
		t.Fatalf("fallback result must carry the failure, got %q", res.LastError)
	}
}

func TestExhaustionErrorWhenFallbackDisabled(t *testing.T) {
	fb := newFakeBackend()
	fb.setSynthErr(errors.New("sidecar oom"))
	m := loadedManager(t, fb, func(c *ManagerConfig) {
		c.DisableFallback = true
		c.Retry = types.RetryPolicy{MaxAttempts: 2, DelayMS: 5, AttemptTimeoutMS: 1000}
	})
	_, err := m.Speak(testCtx(t), types.SpeakRequest{Text: "hello"})
	if !IsExhaustedRetries(err) {
		t.Fatalf("expected exhausted retries, got %v", err)
	}
	if !strings.Contains(err.Error(), "sidecar oom") {
		t.Fatalf("error does not carry cause: %v", err)
	}
	if !IsInferenceError(errors.Unwrap(err)) {
		t.Fatalf("unwrap = %v, want inference error", errors.Unwrap(err))
	}

	// With no fallback to mask the exhaustion the lifecycle goes to error and
	// requests fail fast until a reload.
	if m.State() != types.StateError {
		t.Fatalf("state = %s, want error", m.State())
	}
	if _, err := m.Speak(testCtx(t), types.SpeakRequest{Text: "hello"}); !IsNotReady(err) {
		t.Fatalf("expected not ready after fatal exhaustion, got %v", err)
	}
	if got := m.Health().ErrorCount; got != 2 {
		t.Fatalf("error count = %d, want one per failed attempt", got)
	}

	fb.setSynthErr(nil)
	if err := m.Reload(testCtx(t)); err != nil {
		t.Fatalf("reload out of error state: %v", err)
	}
	if m.State() != types.StateReady {
		t.Fatalf("state = %s after reload, want ready", m.State())
	}
	if _, err := m.Speak(testCtx(t), types.SpeakRequest{Text: "hello"}); err != nil {
		t.Fatalf("speak after recovery reload: %v", err)
	}
}

func TestParentCancelAbortsRun(t *testing.T) {
	fb := newFakeBackend()
	fb.delay = 5 * time.Second
	m := loadedManager(t, fb, func(c *ManagerConfig) {
		c.Retry = types.RetryPolicy{MaxAttempts: 3, DelayMS: 5, AttemptTimeoutMS: 10000}
	})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	_, err := m.Speak(ctx, types.SpeakRequest{Text: "hello"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	// Caller cancellation is not a backend fault: no retry, no fallback,
	// no error accounting.
	if fb.synthCount() != 1 {
		t.Fatalf("backend calls = %d, want 1", fb.synthCount())
	}
	if got := m.Health().ErrorCount; got != 0 {
		t.Fatalf("error count = %d after cancel", got)
	}
}

func TestAttemptTimeoutRetries(t *testing.T) {
	fb := newFakeBackend()
	fb.delay = 200 * time.Millisecond
	m := loadedManager(t, fb, func(c *ManagerConfig) {
		c.Retry = types.RetryPolicy{MaxAttempts: 2, DelayMS: 5, AttemptTimeoutMS: 40}
	})
	res, err := m.Speak(testCtx(t), types.SpeakRequest{Text: "hello"})
	if err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if !res.Fallback {
		t.Fatalf("expected fallback after per-attempt timeouts")
	}
	if fb.synthCount() != 2 {
		t.Fatalf("backend calls = %d, want one per attempt", fb.synthCount())
	}
}

func TestDegradedAndRecovery(t *testing.T) {
	fb := newFakeBackend()
	fb.setSynthErr(errors.New("boom"))
	m := loadedManager(t, fb, func(c *ManagerConfig) {
		c.Retry = types.RetryPolicy{MaxAttempts: 1, DelayMS: 0, AttemptTimeoutMS: 1000}
	})

	res, err := m.Speak(testCtx(t), types.SpeakRequest{Text: "a"})
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	if !res.Fallback {
		t.Fatalf("expected fallback result")
	}
	if m.State() != types.StateDegraded {
		t.Fatalf("state = %s after exhausted run, want degraded", m.State())
	}
	if !m.Ready() {
		t.Fatalf("degraded manager must still serve")
	}

	// Another exhausted run re-enters degraded and keeps counting.
	if _, err := m.Speak(testCtx(t), types.SpeakRequest{Text: "a"}); err != nil {
		t.Fatalf("second speak: %v", err)
	}
	if got := m.Health().ErrorCount; got != 2 {
		t.Fatalf("error count = %d, want one per failed attempt", got)
	}

	fb.setSynthErr(nil)
	res, err = m.Speak(testCtx(t), types.SpeakRequest{Text: "a"})
	if err != nil || res.Fallback {
		t.Fatalf("recovery speak: res=%+v err=%v", res, err)
	}
	h := m.Health()
	if h.State != types.StateReady {
		t.Fatalf("state = %s after success, want ready", h.State)
	}
	// Success promotes the state but leaves the counter; only a reload clears it.
	if h.ErrorCount != 2 {
		t.Fatalf("error count = %d after recovery, want 2", h.ErrorCount)
	}
	if h.LastSuccessUnix == 0 {
		t.Fatalf("success instant not recorded")
	}

	if err := m.Reload(testCtx(t)); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := m.Health().ErrorCount; got != 0 {
		t.Fatalf("error count = %d after reload, want 0", got)
	}
}
