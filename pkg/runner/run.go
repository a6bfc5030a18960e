package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yasha-ai/gemini-worker/internal/decode"
	"github.com/yasha-ai/gemini-worker/internal/jobs"
	"github.com/yasha-ai/gemini-worker/internal/types"
)

// Run is the synchronous facade: dispatch, await, resolve and decode in one
// call. A zero timeout takes DefaultAwaitTimeout. Every surfaced error is
// terminal for this job; retrying a whole job is the caller's decision.
func (r *Runner) Run(ctx context.Context, kind types.JobKind, params jobs.Parameters, timeout time.Duration) (types.JobResult, error) {
	handle, err := r.Dispatch(ctx, kind, params)
	if err != nil {
		return nil, err
	}

	status, err := r.Await(ctx, handle, timeout)
	if err != nil {
		return nil, err
	}
	if status != types.RunStatusSucceeded {
		return nil, fmt.Errorf("run %s finished with status %s", handle, status)
	}

	artifacts, err := r.Resolve(ctx, handle)
	if err != nil {
		return nil, err
	}

	return decode.Decode(kind, artifacts)
}

// Request is one job in a batch.
type Request struct {
	Kind    types.JobKind
	Params  jobs.Parameters
	Timeout time.Duration
}

// Outcome is the result of one batched job. Err is the terminal error of
// that chain; other chains are unaffected.
type Outcome struct {
	Result types.JobResult
	Err    error
}

// RunAll executes the requests concurrently with at most limit chains in
// flight, respecting the remote rate limit through each chain's own backoff
// policies. Outcomes are returned in request order. A limit below one runs
// everything at once.
func (r *Runner) RunAll(ctx context.Context, requests []Request, limit int) []Outcome {
	if limit < 1 {
		limit = len(requests)
	}

	outcomes := make([]Outcome, len(requests))
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i, req := range requests {
		wg.Add(1)
		go func(i int, req Request) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := r.Run(ctx, req.Kind, req.Params, req.Timeout)
			outcomes[i] = Outcome{Result: result, Err: err}
		}(i, req)
	}

	wg.Wait()
	return outcomes
}
