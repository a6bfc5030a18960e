package types

import "fmt"

// RunHandle identifies one dispatched remote execution. Handles are created
// by the dispatcher, owned by the caller for the run's lifetime, and never
// reused across runs.
type RunHandle struct {
	// ID is the workflow run ID assigned by the CI platform.
	ID int64 `json:"id"`
	// Kind is the job kind the run was dispatched for.
	Kind JobKind `json:"kind"`
	// Token is the idempotency token supplied at dispatch time.
	Token string `json:"token"`
}

func (h RunHandle) String() string {
	return fmt.Sprintf("%s/%d", h.Kind, h.ID)
}

// Artifact is a named byte-blob output of a run, immutable after creation.
type Artifact struct {
	Name        string `json:"name"`
	Content     []byte `json:"content"`
	ContentType string `json:"content_type"` // hint only, may be empty
}
