// Package mock provides a test double for the actions client.
package mock

import (
	"context"
	"sync"

	"github.com/yasha-ai/gemini-worker/internal/actions"
)

// Client implements actions.Client for testing. Behavior is supplied via
// the Fn fields; calls are tracked for verification. It is safe for
// concurrent use.
type Client struct {
	DispatchWorkflowFn func(ctx context.Context, workflow, ref string, inputs map[string]string) error
	FindRunByTokenFn   func(ctx context.Context, workflow, token string) (actions.WorkflowRun, error)
	GetRunFn           func(ctx context.Context, runID int64) (actions.WorkflowRun, error)
	CancelRunFn        func(ctx context.Context, runID int64) error
	ListArtifactsFn    func(ctx context.Context, runID int64) ([]actions.ArtifactDescriptor, error)
	DownloadArtifactFn func(ctx context.Context, archiveURL string) ([]byte, error)

	mu sync.Mutex

	DispatchWorkflowCalls []struct {
		Workflow string
		Ref      string
		Inputs   map[string]string
	}
	FindRunByTokenCalls []struct {
		Workflow string
		Token    string
	}
	GetRunCalls           []int64
	CancelRunCalls        []int64
	ListArtifactsCalls    []int64
	DownloadArtifactCalls []string
}

var _ actions.Client = &Client{}

// DispatchWorkflow records the call and delegates to DispatchWorkflowFn.
func (c *Client) DispatchWorkflow(ctx context.Context, workflow, ref string, inputs map[string]string) error {
	c.mu.Lock()
	c.DispatchWorkflowCalls = append(c.DispatchWorkflowCalls, struct {
		Workflow string
		Ref      string
		Inputs   map[string]string
	}{workflow, ref, inputs})
	c.mu.Unlock()

	if c.DispatchWorkflowFn != nil {
		return c.DispatchWorkflowFn(ctx, workflow, ref, inputs)
	}
	return nil
}

// FindRunByToken records the call and delegates to FindRunByTokenFn.
func (c *Client) FindRunByToken(ctx context.Context, workflow, token string) (actions.WorkflowRun, error) {
	c.mu.Lock()
	c.FindRunByTokenCalls = append(c.FindRunByTokenCalls, struct {
		Workflow string
		Token    string
	}{workflow, token})
	c.mu.Unlock()

	if c.FindRunByTokenFn != nil {
		return c.FindRunByTokenFn(ctx, workflow, token)
	}
	return actions.WorkflowRun{}, actions.ErrRunNotFound
}

// GetRun records the call and delegates to GetRunFn.
func (c *Client) GetRun(ctx context.Context, runID int64) (actions.WorkflowRun, error) {
	c.mu.Lock()
	c.GetRunCalls = append(c.GetRunCalls, runID)
	c.mu.Unlock()

	if c.GetRunFn != nil {
		return c.GetRunFn(ctx, runID)
	}
	return actions.WorkflowRun{}, nil
}

// CancelRun records the call and delegates to CancelRunFn.
func (c *Client) CancelRun(ctx context.Context, runID int64) error {
	c.mu.Lock()
	c.CancelRunCalls = append(c.CancelRunCalls, runID)
	c.mu.Unlock()

	if c.CancelRunFn != nil {
		return c.CancelRunFn(ctx, runID)
	}
	return nil
}

// ListArtifacts records the call and delegates to ListArtifactsFn.
func (c *Client) ListArtifacts(ctx context.Context, runID int64) ([]actions.ArtifactDescriptor, error) {
	c.mu.Lock()
	c.ListArtifactsCalls = append(c.ListArtifactsCalls, runID)
	c.mu.Unlock()

	if c.ListArtifactsFn != nil {
		return c.ListArtifactsFn(ctx, runID)
	}
	return nil, nil
}

// DownloadArtifact records the call and delegates to DownloadArtifactFn.
func (c *Client) DownloadArtifact(ctx context.Context, archiveURL string) ([]byte, error) {
	c.mu.Lock()
	c.DownloadArtifactCalls = append(c.DownloadArtifactCalls, archiveURL)
	c.mu.Unlock()

	if c.DownloadArtifactFn != nil {
		return c.DownloadArtifactFn(ctx, archiveURL)
	}
	return nil, nil
}
