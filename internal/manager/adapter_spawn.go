package manager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"ttsd/pkg/types"
)

// xttsSpawnAdapter spawns the XTTS sidecar process and drives it over HTTP.
// It owns the process lifetime: spawn on load, health-gated reuse, SIGTERM
// then kill on stop. Synthesis never respawns; a dead sidecar surfaces as
// attempt failures until a reload brings it back with the model resident.
type xttsSpawnAdapter struct {
	cfg        ManagerConfig
	mu         sync.Mutex
	proc       *sidecarProc
	inner      *xttsHTTPAdapter
	httpClient *http.Client
	publisher  EventPublisher
}

type sidecarProc struct {
	cmd     *exec.Cmd
	baseURL string
	pid     int
	// waitCh receives the single cmd.Wait result; waitDone closes after it.
	waitCh   chan error
	waitDone chan struct{}
}

// NewXTTSSpawnAdapter constructs a subprocess-backed adapter.
// Intentionally set Timeout=0: all calls must use context-based timeouts.
func NewXTTSSpawnAdapter(cfg ManagerConfig) Backend {
	return &xttsSpawnAdapter{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 0},
		publisher:  noopPublisher{},
	}
}

func (a *xttsSpawnAdapter) Load(ctx context.Context, modelDir, refWav string) (types.Capabilities, error) {
	inner, err := a.ensureProcess()
	if err != nil {
		return types.Capabilities{}, err
	}
	return inner.Load(ctx, modelDir, refWav)
}

func (a *xttsSpawnAdapter) Synthesize(ctx context.Context, req BackendRequest) ([]byte, error) {
	inner := a.client()
	if inner == nil {
		return nil, errors.New("xtts sidecar not running")
	}
	return inner.Synthesize(ctx, req)
}

func (a *xttsSpawnAdapter) Capabilities(ctx context.Context) (types.Capabilities, error) {
	inner := a.client()
	if inner == nil {
		return types.Capabilities{}, errors.New("xtts sidecar not running")
	}
	return inner.Capabilities(ctx)
}

// Close terminates the spawned sidecar. Best effort.
func (a *xttsSpawnAdapter) Close() error { return a.Stop() }

// client returns the HTTP client for the running sidecar, nil if none.
func (a *xttsSpawnAdapter) client() *xttsHTTPAdapter {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inner
}

// isHealthy checks if the sidecar at baseURL responds OK to /capabilities.
func (a *xttsSpawnAdapter) isHealthy(baseURL string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/capabilities", nil)
	if err != nil {
		return false
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// ensureProcess starts (or reuses) the sidecar and waits for readiness.
func (a *xttsSpawnAdapter) ensureProcess() (*xttsHTTPAdapter, error) {
	a.mu.Lock()
	if p := a.proc; p != nil {
		base := p.baseURL
		inner := a.inner
		a.mu.Unlock()
		if inner != nil && a.isHealthy(base, 1*time.Second) {
			return inner, nil
		}
		// Unhealthy: stop and respawn.
		_ = a.Stop()
		a.mu.Lock()
	}
	a.mu.Unlock()

	bin := strings.TrimSpace(a.cfg.XTTSBin)
	if bin == "" {
		bin = discoverXTTSBin()
	}
	if bin == "" {
		return nil, errors.New("xtts binary not configured and xtts-server not on PATH")
	}
	host := strings.TrimSpace(a.cfg.XTTSHost)
	if host == "" {
		host = "127.0.0.1"
	}
	// Choose port (respect configured range if set)
	var port int
	var err error
	if a.cfg.XTTSPortStart > 0 && a.cfg.XTTSPortEnd >= a.cfg.XTTSPortStart {
		port, err = pickPortInRange(host, a.cfg.XTTSPortStart, a.cfg.XTTSPortEnd)
	} else {
		port, err = pickFreePort(host)
	}
	if err != nil {
		return nil, err
	}
	baseURL := fmt.Sprintf("http://%s:%d", host, port)

	args := []string{"--host", host, "--port", fmt.Sprint(port)}
	if len(a.cfg.XTTSArgs) > 0 {
		args = append(args, a.cfg.XTTSArgs...)
	}

	cmd := exec.Command(bin, args...)
	// Capture stderr for diagnostics (kept in-memory; tail is included on failure)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start xtts sidecar: %w", err)
	}
	log.Printf("adapter=xtts_spawn event=start pid=%d host=%s port=%d", cmd.Process.Pid, host, port)
	a.publisher.Publish(Event{Name: "spawn_start", Model: "xtts", Fields: map[string]any{"pid": cmd.Process.Pid, "host": host, "port": port}})

	proc := &sidecarProc{
		cmd:      cmd,
		baseURL:  baseURL,
		pid:      cmd.Process.Pid,
		waitCh:   make(chan error, 1),
		waitDone: make(chan struct{}),
	}
	a.mu.Lock()
	a.proc = proc
	a.inner = nil
	a.mu.Unlock()

	// Early-exit watcher: surface a dead process before readiness.
	go func() {
		proc.waitCh <- cmd.Wait()
		close(proc.waitDone)
	}()

	startupTimeout := a.cfg.StartupTimeout
	if startupTimeout <= 0 {
		startupTimeout = defaultStartupTimeout
	}
	deadline := time.Now().Add(startupTimeout)
	for {
		if time.Now().After(deadline) {
			a.mu.Lock()
			a.proc = nil
			a.mu.Unlock()
			log.Printf("adapter=xtts_spawn event=timeout pid=%d", proc.pid)
			a.publisher.Publish(Event{Name: "spawn_timeout", Model: "xtts", Fields: map[string]any{"pid": proc.pid}})
			_ = cmd.Process.Kill()
			return nil, fmt.Errorf("xtts sidecar not ready in time: %s", baseURL)
		}
		select {
		case werr := <-proc.waitCh:
			a.mu.Lock()
			a.proc = nil
			a.mu.Unlock()
			if werr != nil {
				tail := stderr.String()
				if len(tail) > 4096 {
					tail = tail[len(tail)-4096:]
				}
				log.Printf("adapter=xtts_spawn event=exit_early pid=%d err=%v", proc.pid, werr)
				a.publisher.Publish(Event{Name: "spawn_exit", Model: "xtts", Fields: map[string]any{"pid": proc.pid, "error": werr.Error()}})
				return nil, fmt.Errorf("xtts sidecar exited early: %v; stderr tail: %s", werr, tail)
			}
			log.Printf("adapter=xtts_spawn event=exit_clean pid=%d before_ready=1", proc.pid)
			a.publisher.Publish(Event{Name: "spawn_exit", Model: "xtts", Fields: map[string]any{"pid": proc.pid, "before_ready": true}})
			return nil, fmt.Errorf("xtts sidecar exited before ready: %s", baseURL)
		default:
			// proceed to health check
		}

		if a.isHealthy(baseURL, 1*time.Second) {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	inner := &xttsHTTPAdapter{baseURL: baseURL, httpClient: a.httpClient}
	a.mu.Lock()
	a.inner = inner
	a.mu.Unlock()
	log.Printf("adapter=xtts_spawn event=ready pid=%d url=%s", proc.pid, baseURL)
	a.publisher.Publish(Event{Name: "spawn_ready", Model: "xtts", Fields: map[string]any{"pid": proc.pid, "url": baseURL}})
	return inner, nil
}

// Stop terminates the spawned sidecar, if present. SIGTERM first, kill after
// a short grace period.
func (a *xttsSpawnAdapter) Stop() error {
	a.mu.Lock()
	p := a.proc
	a.proc = nil
	a.inner = nil
	a.mu.Unlock()
	if p == nil || p.cmd == nil || p.cmd.Process == nil {
		return nil
	}
	_ = p.cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-p.waitDone:
		// exited gracefully
	case <-time.After(2 * time.Second):
		_ = p.cmd.Process.Kill()
		<-p.waitDone
	}
	a.publisher.Publish(Event{Name: "spawn_stop", Model: "xtts", Fields: map[string]any{"pid": p.pid}})
	return nil
}

// getProcInfo returns a snapshot of the running sidecar, if any.
func (a *xttsSpawnAdapter) getProcInfo() (pid int, baseURL string, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.proc == nil {
		return 0, "", false
	}
	return a.proc.pid, a.proc.baseURL, true
}

// setPublisher installs an EventPublisher for emitting adapter events.
func (a *xttsSpawnAdapter) setPublisher(p EventPublisher) {
	if p == nil {
		a.publisher = noopPublisher{}
		return
	}
	a.publisher = p
}

func pickPortInRange(host string, start, end int) (int, error) {
	for p := start; p <= end; p++ {
		l, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, p))
		if err != nil {
			continue
		}
		_ = l.Close()
		return p, nil
	}
	return 0, fmt.Errorf("no free port in range %d-%d", start, end)
}

func pickFreePort(host string) (int, error) {
	l, err := net.Listen("tcp", host+":0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	addr := l.Addr().String()
	// addr like 127.0.0.1:54321
	lastColon := strings.LastIndex(addr, ":")
	if lastColon < 0 {
		return 0, fmt.Errorf("unexpected addr: %s", addr)
	}
	p, err := strconv.Atoi(addr[lastColon+1:])
	if err != nil {
		return 0, err
	}
	return p, nil
}
