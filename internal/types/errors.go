package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors.
var (
	// ErrUnknownJobKind is returned when a job kind has no registry entry.
	ErrUnknownJobKind = errors.New("unknown job kind")

	// ErrNoArtifacts is returned when a succeeded run produced zero
	// artifacts where its schema expects at least one. This is a contract
	// violation by the remote job, not a transport failure.
	ErrNoArtifacts = errors.New("run succeeded but produced no artifacts")
)

// InvalidParametersError rejects a dispatch before any network call is made.
type InvalidParametersError struct {
	Field  string
	Reason string
}

func (e *InvalidParametersError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Field, e.Reason)
}

// IncompleteRegistryError indicates a declared job kind has no schema
// registered. It is fatal and only surfaces at startup.
type IncompleteRegistryError struct {
	Missing []JobKind
}

func (e *IncompleteRegistryError) Error() string {
	names := make([]string, len(e.Missing))
	for i, kind := range e.Missing {
		names[i] = kind.String()
	}
	return fmt.Sprintf("job registry is missing schemas for: %s", strings.Join(names, ", "))
}

// DispatchRejectedError is returned when the remote trigger API refuses a
// start request with a non-retriable status code.
type DispatchRejectedError struct {
	StatusCode int
	Body       string
}

func (e *DispatchRejectedError) Error() string {
	return fmt.Sprintf("dispatch rejected with status %d: %s", e.StatusCode, e.Body)
}

// PollingFailedError is returned when status polling fails at the transport
// level beyond its retry bound. It is distinct from a remote-reported job
// failure.
type PollingFailedError struct {
	Handle RunHandle
	Cause  error
}

func (e *PollingFailedError) Error() string {
	return fmt.Sprintf("polling run %s failed: %v", e.Handle, e.Cause)
}

func (e *PollingFailedError) Unwrap() error { return e.Cause }

// TimedOutError is returned when the wall-clock budget elapses before a
// terminal remote state is observed. The remote run is not cancelled unless
// the caller enabled cancel-on-timeout.
type TimedOutError struct {
	Handle  RunHandle
	Elapsed time.Duration
}

func (e *TimedOutError) Error() string {
	return fmt.Sprintf("run %s did not reach a terminal state within %s", e.Handle, e.Elapsed)
}

// ArtifactFetchError is returned when downloading a specific named artifact
// fails after bounded retry.
type ArtifactFetchError struct {
	Name  string
	Cause error
}

func (e *ArtifactFetchError) Error() string {
	return fmt.Sprintf("fetching artifact %q failed: %v", e.Name, e.Cause)
}

func (e *ArtifactFetchError) Unwrap() error { return e.Cause }

// DecodeError is returned when artifact bytes cannot be decoded into the
// result shape for their job kind.
type DecodeError struct {
	Kind  JobKind
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s result: %v", e.Kind, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// MalformedPayloadError is returned when a structured artifact payload does
// not match its declared shape. Decoding is atomic: no partial results are
// returned alongside it.
type MalformedPayloadError struct {
	Detail string
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed payload: %s", e.Detail)
}
