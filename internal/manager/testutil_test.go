package manager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"ttsd/internal/audio"
	"ttsd/pkg/types"
)

// testCtx returns a context with a short timeout, canceled on test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

// testModelDir lays out a valid model directory for registry validation.
func testModelDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"config.json":   `{"model":"xtts"}`,
		"vocab.json":    `{}`,
		"model.pth":     "",
		"vi_sample.wav": "",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

// fakeBackend is a lightweight in-memory backend used for tests.
type fakeBackend struct {
	mu          sync.Mutex
	loadErr     error
	loadDelay   time.Duration
	synthErr    error
	failFirst   int // fail this many Synthesize calls, then succeed
	delay       time.Duration
	wav         []byte
	caps        types.Capabilities
	loads       int
	synths      int
	inFlight    int
	maxInFlight int
	lastReq     BackendRequest
	closed      bool
	calls       []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		wav: audio.Silence(100*time.Millisecond, 24000),
		caps: types.Capabilities{
			BackendLoaded:         true,
			ConfigLoaded:          true,
			ConditioningAvailable: true,
			SampleRate:            24000,
		},
	}
}

func (f *fakeBackend) Load(ctx context.Context, modelDir, refWav string) (types.Capabilities, error) {
	f.mu.Lock()
	f.loads++
	f.calls = append(f.calls, "load")
	loadErr := f.loadErr
	loadDelay := f.loadDelay
	caps := f.caps
	f.mu.Unlock()
	if loadDelay > 0 {
		select {
		case <-time.After(loadDelay):
		case <-ctx.Done():
			return types.Capabilities{}, ctx.Err()
		}
	}
	if loadErr != nil {
		return types.Capabilities{}, loadErr
	}
	return caps, nil
}

func (f *fakeBackend) Synthesize(ctx context.Context, req BackendRequest) ([]byte, error) {
	f.mu.Lock()
	f.synths++
	f.lastReq = req
	f.calls = append(f.calls, "synthesize")
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	fail := f.synthErr
	if fail == nil && f.failFirst > 0 {
		f.failFirst--
		fail = errors.New("transient backend failure")
	}
	delay := f.delay
	wav := f.wav
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.calls = append(f.calls, "synthesize_done")
		f.mu.Unlock()
	}()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail != nil {
		return nil, fail
	}
	return wav, nil
}

func (f *fakeBackend) Capabilities(ctx context.Context) (types.Capabilities, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.caps, nil
}

func (f *fakeBackend) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

func (f *fakeBackend) synthCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.synths
}

func (f *fakeBackend) last() BackendRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq
}

func (f *fakeBackend) maxObservedInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

func (f *fakeBackend) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeBackend) setSynthErr(err error) {
	f.mu.Lock()
	f.synthErr = err
	f.mu.Unlock()
}

func (f *fakeBackend) setLoadErr(err error) {
	f.mu.Lock()
	f.loadErr = err
	f.mu.Unlock()
}

func (f *fakeBackend) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// newTestManager builds a Manager over a fake backend and a valid model dir,
// with short timings so failure paths resolve quickly.
func newTestManager(t *testing.T, fb Backend, mutate func(*ManagerConfig)) *Manager {
	t.Helper()
	cfg := ManagerConfig{
		ModelDir: testModelDir(t),
		Backend:  fb,
		MaxWait:  500 * time.Millisecond,
		Retry:    types.RetryPolicy{MaxAttempts: 2, DelayMS: 10, AttemptTimeoutMS: 1000},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewWithConfig(cfg)
}

// loadedManager is newTestManager plus a successful initial Load.
func loadedManager(t *testing.T, fb Backend, mutate func(*ManagerConfig)) *Manager {
	t.Helper()
	m := newTestManager(t, fb, mutate)
	if err := m.Load(testCtx(t)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}
