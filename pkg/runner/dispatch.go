package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/yasha-ai/gemini-worker/internal/actions"
	"github.com/yasha-ai/gemini-worker/internal/jobs"
	"github.com/yasha-ai/gemini-worker/internal/logger"
	"github.com/yasha-ai/gemini-worker/internal/types"
)

// tokenInput is the workflow input carrying the idempotency token. The
// workflow interpolates it into its run-name so the run can be located, and
// repeated dispatches with the same token resolve to the same run.
const tokenInput = "dispatch_token"

// Dispatch validates params against the registry schema for kind and
// starts exactly one remote run. Validation failures reject before any
// network call. Transport retries cannot create duplicate runs: the
// idempotency token ties every retry to the same logical run.
func (r *Runner) Dispatch(ctx context.Context, kind types.JobKind, params jobs.Parameters) (types.RunHandle, error) {
	normalized, err := jobs.Validate(kind, params)
	if err != nil {
		return types.RunHandle{}, err
	}

	schema, err := jobs.Describe(kind)
	if err != nil {
		return types.RunHandle{}, err
	}

	token := uuid.NewString()
	inputs := make(map[string]string, len(normalized)+1)
	for name, value := range normalized {
		inputs[name] = value
	}
	inputs[tokenInput] = token

	logger.Infof("Dispatching %s job: workflow=%s, token=%s", kind, schema.Workflow, token)

	if err := r.client.DispatchWorkflow(ctx, schema.Workflow, r.opts.Ref, inputs); err != nil {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return types.RunHandle{}, &types.DispatchRejectedError{
				StatusCode: fiberErr.Code,
				Body:       fiberErr.Message,
			}
		}
		return types.RunHandle{}, fmt.Errorf("dispatching %s job: %w", kind, err)
	}

	run, err := r.locateRun(ctx, schema.Workflow, token)
	if err != nil {
		return types.RunHandle{}, fmt.Errorf("locating %s run: %w", kind, err)
	}

	handle := types.RunHandle{ID: run.ID, Kind: kind, Token: token}
	logger.Infof("Run registered: %s", handle)
	return handle, nil
}

// locateRun waits for the dispatched run to register with the platform and
// returns it. Registration usually lags the dispatch by a few seconds.
func (r *Runner) locateRun(ctx context.Context, workflow, token string) (actions.WorkflowRun, error) {
	var lastErr error
	for attempt := 1; attempt <= r.opts.LocateAttempts; attempt++ {
		run, err := r.client.FindRunByToken(ctx, workflow, token)
		if err == nil {
			return run, nil
		}
		if !errors.Is(err, actions.ErrRunNotFound) {
			return actions.WorkflowRun{}, err
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return actions.WorkflowRun{}, ctx.Err()
		case <-time.After(r.opts.LocateWait):
		}
	}
	return actions.WorkflowRun{}, lastErr
}
