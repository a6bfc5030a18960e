package actions

import (
	"time"

	"github.com/yasha-ai/gemini-worker/internal/types"
)

// WorkflowRun is the subset of the CI platform's run object the client
// needs: identity, lifecycle state, and enough metadata to match a run back
// to its dispatch token.
type WorkflowRun struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Conclusion string    `json:"conclusion"`
	HeadBranch string    `json:"head_branch"`
	CreatedAt  time.Time `json:"created_at"`
}

// runsResponse is the wire shape of the list-runs endpoint.
type runsResponse struct {
	TotalCount   int           `json:"total_count"`
	WorkflowRuns []WorkflowRun `json:"workflow_runs"`
}

// ArtifactDescriptor describes one named artifact produced by a run.
// Content is fetched separately via ArchiveDownloadURL.
type ArtifactDescriptor struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	SizeInBytes        int64  `json:"size_in_bytes"`
	ArchiveDownloadURL string `json:"archive_download_url"`
	Expired            bool   `json:"expired"`
}

// artifactsResponse is the wire shape of the list-artifacts endpoint.
type artifactsResponse struct {
	TotalCount int                  `json:"total_count"`
	Artifacts  []ArtifactDescriptor `json:"artifacts"`
}

// dispatchRequest is the body of a workflow-dispatch call.
type dispatchRequest struct {
	Ref    string            `json:"ref"`
	Inputs map[string]string `json:"inputs,omitempty"`
}

// RunStatus maps the platform's status/conclusion pair onto the internal
// run lifecycle lattice.
func (r WorkflowRun) RunStatus() types.RunStatus {
	switch r.Status {
	case "queued", "waiting", "requested", "pending":
		return types.RunStatusQueued
	case "in_progress":
		return types.RunStatusRunning
	case "completed":
		switch r.Conclusion {
		case "success":
			return types.RunStatusSucceeded
		case "cancelled":
			return types.RunStatusCancelled
		case "timed_out":
			return types.RunStatusTimedOut
		default:
			// failure, startup_failure, action_required and anything the
			// platform adds later all count as a remote-reported failure.
			return types.RunStatusFailed
		}
	default:
		return types.RunStatusUnknown
	}
}
