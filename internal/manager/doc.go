// Package manager provides lifecycle, admission, and fault tolerance for a
// wrapped XTTS backend. It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - state.go: lifecycle transition table and state-change bookkeeping.
//   - errors.go: typed errors and predicates (IsNotReady, IsTooBusy, ...).
//   - gate.go: single-flight admission with a bounded queue.
//   - load.go: Load/Reload with gate draining and coalescing.
//   - synthesize.go: the invocation guard (retries, attempt deadlines, fallback).
//   - fallback.go: deterministic placeholder audio.
//   - health.go: consistent HealthSnapshot capture.
//   - sanity.go: external dependency checks for /sanity.
//   - events.go: Event/EventPublisher plumbing.
//   - adapter_iface.go: the Backend contract.
//   - adapter_http.go: HTTP client for a running sidecar.
//   - adapter_spawn.go: sidecar process spawning and lifetime.
//
// External packages should treat this package as the orchestration layer and
// use public methods only (e.g., New/NewWithConfig, Load, Reload, Speak,
// Health, Ready, SanityCheck). Internal types are subject to change.
package manager
