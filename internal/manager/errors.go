package manager

import (
	"fmt"

	"ttsd/pkg/types"
)

// notReadyError signals the backend cannot serve yet for 503 mapping.
type notReadyError struct{ state types.ModelState }

func (e notReadyError) Error() string { return "backend not ready: state=" + string(e.state) }

// IsNotReady reports whether err means synthesis cannot be admitted yet (return 503).
func IsNotReady(err error) bool {
	_, ok := err.(notReadyError)
	return ok
}

// tooBusyError signals queue timeout/overflow for 429 mapping.
type tooBusyError struct{ model string }

func (e tooBusyError) Error() string { return "too busy: " + e.model }

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool {
	_, ok := err.(tooBusyError)
	return ok
}

// loadError wraps a failure from the load phase of the backend.
type loadError struct{ cause error }

func (e loadError) Error() string { return "backend load failed: " + e.cause.Error() }
func (e loadError) Unwrap() error { return e.cause }

// IsLoadError reports whether err came from a failed backend load.
func IsLoadError(err error) bool {
	_, ok := err.(loadError)
	return ok
}

// configError signals invalid or incomplete model directory assets.
type configError struct{ cause error }

func (e configError) Error() string { return "model config invalid: " + e.cause.Error() }
func (e configError) Unwrap() error { return e.cause }

// IsConfigError reports whether err indicates unusable model assets.
func IsConfigError(err error) bool {
	_, ok := err.(configError)
	return ok
}

// inferenceError wraps a failure from a single synthesis attempt.
type inferenceError struct{ cause error }

func (e inferenceError) Error() string { return "synthesis failed: " + e.cause.Error() }
func (e inferenceError) Unwrap() error { return e.cause }

// IsInferenceError reports whether err came from a failed synthesis attempt.
func IsInferenceError(err error) bool {
	_, ok := err.(inferenceError)
	return ok
}

// exhaustedRetriesError is returned when the retry budget is spent and
// fallback audio is disabled. It wraps the last attempt's cause for 502 mapping.
type exhaustedRetriesError struct {
	attempts int
	cause    error
}

func (e exhaustedRetriesError) Error() string {
	return fmt.Sprintf("synthesis failed after %d attempts: %v", e.attempts, e.cause)
}
func (e exhaustedRetriesError) Unwrap() error { return e.cause }

// IsExhaustedRetries reports whether err means every attempt failed (return 502).
func IsExhaustedRetries(err error) bool {
	_, ok := err.(exhaustedRetriesError)
	return ok
}

// alreadyLoadingError signals a load/reload while one is in progress (409 mapping).
type alreadyLoadingError struct{}

func (alreadyLoadingError) Error() string { return "load already in progress" }

// IsAlreadyLoading reports whether err indicates a coalesced reload request.
func IsAlreadyLoading(err error) bool {
	_, ok := err.(alreadyLoadingError)
	return ok
}

// invalidRequestError signals a request the guard refuses to run (400 mapping).
type invalidRequestError struct{ msg string }

func (e invalidRequestError) Error() string { return e.msg }

// ErrInvalidRequest constructs an invalidRequestError.
func ErrInvalidRequest(msg string) error { return invalidRequestError{msg: msg} }

// IsInvalidRequest reports whether err indicates a malformed synthesis request.
func IsInvalidRequest(err error) bool {
	_, ok := err.(invalidRequestError)
	return ok
}
