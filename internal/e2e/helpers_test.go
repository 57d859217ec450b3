package e2e

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"ttsd/internal/audio"
	"ttsd/internal/httpapi"
	"ttsd/internal/manager"
	"ttsd/pkg/types"
)

// createTempModelDir lays out a minimal XTTS-style model directory that
// passes registry validation.
func createTempModelDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"config.json":   `{"model":"xtts"}`,
		"vocab.json":    `{}`,
		"model.pth":     "",
		"vi_sample.wav": "",
	}
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	return dir
}

// stubBackend is an in-memory backend for end-to-end tests. failN makes the
// first N synthesize calls fail; block makes synthesize wait until release.
type stubBackend struct {
	mu      sync.Mutex
	failN   int
	failAll bool
	block   chan struct{}
	synths  int
	wav     []byte
}

func newStubBackend() *stubBackend {
	return &stubBackend{wav: audio.Silence(100*time.Millisecond, 24000)}
}

func (s *stubBackend) Load(ctx context.Context, modelDir, refWav string) (types.Capabilities, error) {
	return types.Capabilities{
		BackendLoaded:         true,
		ConfigLoaded:          true,
		ConditioningAvailable: true,
		SampleRate:            24000,
	}, nil
}

func (s *stubBackend) Synthesize(ctx context.Context, req manager.BackendRequest) ([]byte, error) {
	s.mu.Lock()
	s.synths++
	fail := s.failAll
	if !fail && s.failN > 0 {
		s.failN--
		fail = true
	}
	block := s.block
	wav := s.wav
	s.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail {
		return nil, errors.New("stub backend failure")
	}
	return wav, nil
}

func (s *stubBackend) Capabilities(ctx context.Context) (types.Capabilities, error) {
	return types.Capabilities{BackendLoaded: true, SampleRate: 24000}, nil
}

func (s *stubBackend) Close() error { return nil }

func (s *stubBackend) synthCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.synths
}

func (s *stubBackend) setFailAll(v bool) {
	s.mu.Lock()
	s.failAll = v
	s.mu.Unlock()
}

// newServer builds a Manager over the stub backend and serves the full HTTP
// mux from a test listener. The model is not loaded; tests drive Load
// explicitly so they can observe the pre-ready behavior.
func newServer(t *testing.T, sb manager.Backend, mutate func(*manager.ManagerConfig)) (*httptest.Server, *manager.Manager) {
	t.Helper()
	cfg := manager.ManagerConfig{
		ModelDir: createTempModelDir(t),
		Backend:  sb,
		MaxWait:  500 * time.Millisecond,
		Retry:    types.RetryPolicy{MaxAttempts: 2, DelayMS: 10, AttemptTimeoutMS: 1000},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	mgr := manager.NewWithConfig(cfg)
	mux := httpapi.NewMux(mgr)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Cleanup(func() { _ = mgr.Close() })
	return srv, mgr
}

// loadedServer is newServer plus a successful initial Load.
func loadedServer(t *testing.T, sb manager.Backend, mutate func(*manager.ManagerConfig)) (*httptest.Server, *manager.Manager) {
	t.Helper()
	srv, mgr := newServer(t, sb, mutate)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mgr.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	return srv, mgr
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
