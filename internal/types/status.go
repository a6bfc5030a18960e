package types

import (
	"encoding/json"
	"fmt"
)

// RunStatus represents the observed state of a remote workflow run.
//
// The lifecycle is Queued -> Running -> one of the terminal states.
// TimedOut is assigned client-side when the polling budget elapses before
// a terminal remote state is observed; the remote run may still be running.
type RunStatus int

const (
	// we need unknown to be the first status to avoid conflicts with the default value
	RunStatusUnknown RunStatus = iota
	RunStatusQueued
	RunStatusRunning
	RunStatusSucceeded
	RunStatusFailed
	RunStatusTimedOut
	RunStatusCancelled
)

var runStatusNames = []string{
	"unknown",
	"queued",
	"running",
	"succeeded",
	"failed",
	"timed_out",
	"cancelled",
}

func (s RunStatus) String() string {
	if s < 0 || int(s) >= len(runStatusNames) {
		return "unknown"
	}
	return runStatusNames[s]
}

// ParseRunStatus converts a string into a RunStatus.
func ParseRunStatus(str string) (RunStatus, error) {
	for i, name := range runStatusNames {
		if name == str {
			return RunStatus(i), nil
		}
	}

	return RunStatusUnknown, fmt.Errorf("invalid run status: %s", str)
}

// Terminal reports whether no further transition can occur from s.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusSucceeded, RunStatusFailed, RunStatusTimedOut, RunStatusCancelled:
		return true
	default:
		return false
	}
}

// Rank places s in the run lifecycle lattice: Unknown < Queued < Running <
// terminal. Reported status sequences must be non-decreasing in this rank.
func (s RunStatus) Rank() int {
	switch s {
	case RunStatusQueued:
		return 1
	case RunStatusRunning:
		return 2
	case RunStatusSucceeded, RunStatusFailed, RunStatusTimedOut, RunStatusCancelled:
		return 3
	default:
		return 0
	}
}

func (s RunStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *RunStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status, err := ParseRunStatus(str)
	if err != nil {
		return err
	}

	*s = status
	return nil
}
