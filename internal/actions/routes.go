package actions

import "fmt"

// DefaultBaseURL is the public API endpoint of the CI platform.
const DefaultBaseURL = "https://api.github.com"

// APIVersion is sent on every request.
const APIVersion = "2022-11-28"

func dispatchURL(owner, repo, workflow string) string {
	return fmt.Sprintf("/repos/%s/%s/actions/workflows/%s/dispatches", owner, repo, workflow)
}

func workflowRunsURL(owner, repo, workflow string, perPage int) string {
	return fmt.Sprintf("/repos/%s/%s/actions/workflows/%s/runs?event=workflow_dispatch&per_page=%d", owner, repo, workflow, perPage)
}

func runURL(owner, repo string, runID int64) string {
	return fmt.Sprintf("/repos/%s/%s/actions/runs/%d", owner, repo, runID)
}

func cancelRunURL(owner, repo string, runID int64) string {
	return fmt.Sprintf("/repos/%s/%s/actions/runs/%d/cancel", owner, repo, runID)
}

func runArtifactsURL(owner, repo string, runID int64) string {
	return fmt.Sprintf("/repos/%s/%s/actions/runs/%d/artifacts", owner, repo, runID)
}
