package runner

import (
	"context"
	"math/rand"
	"time"

	"github.com/yasha-ai/gemini-worker/internal/logger"
	"github.com/yasha-ai/gemini-worker/internal/types"
)

// Await polls the run until a terminal status is observed or the wall-clock
// budget elapses. A zero timeout takes DefaultAwaitTimeout. On timeout the
// remote run keeps running unless CancelOnTimeout is set; the returned
// status is then RunStatusTimedOut alongside a TimedOutError.
//
// Observed statuses never move backward in the lifecycle lattice: a status
// already reported is never followed by an earlier one.
func (r *Runner) Await(ctx context.Context, handle types.RunHandle, timeout time.Duration) (types.RunStatus, error) {
	if timeout == 0 {
		timeout = DefaultAwaitTimeout
	}
	start := time.Now()
	deadline := start.Add(timeout)

	reported := types.RunStatusUnknown
	delay := r.opts.PollInitial

	for {
		status, err := r.pollOnce(ctx, handle)
		if err != nil {
			return types.RunStatusUnknown, &types.PollingFailedError{Handle: handle, Cause: err}
		}

		// Guard against the platform reporting a stale state.
		if status.Rank() > reported.Rank() {
			reported = status
			logger.Debugf("Run %s is %s", handle, status)
			if r.opts.OnStatus != nil {
				r.opts.OnStatus(handle, status)
			}
		}

		if reported.Terminal() {
			return reported, nil
		}

		wait := delay + time.Duration(rand.Int63n(int64(delay)/2+1))
		if time.Now().Add(wait).After(deadline) {
			return r.timedOut(ctx, handle, time.Since(start))
		}

		select {
		case <-ctx.Done():
			// Local cancellation stops polling; the remote run is only
			// cancelled when the caller opted in.
			if r.opts.CancelOnTimeout {
				r.cancelRemote(handle)
			}
			return types.RunStatusUnknown, ctx.Err()
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * r.opts.PollMultiplier)
		if delay > r.opts.PollMax {
			delay = r.opts.PollMax
		}
	}
}

// pollOnce fetches the run status, retrying transient transport failures up
// to the poll retry bound.
func (r *Runner) pollOnce(ctx context.Context, handle types.RunHandle) (types.RunStatus, error) {
	var lastErr error
	for attempt := 1; attempt <= r.opts.PollRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return types.RunStatusUnknown, err
		}

		run, err := r.client.GetRun(ctx, handle.ID)
		if err == nil {
			return run.RunStatus(), nil
		}
		lastErr = err
		logger.Warnf("Poll failed for run %s: attempt=%d, error=%v", handle, attempt, err)
	}
	return types.RunStatusUnknown, lastErr
}

func (r *Runner) timedOut(ctx context.Context, handle types.RunHandle, elapsed time.Duration) (types.RunStatus, error) {
	logger.Warnf("Run %s did not finish within %s", handle, elapsed)
	if r.opts.CancelOnTimeout {
		r.cancelRemote(handle)
	}
	return types.RunStatusTimedOut, &types.TimedOutError{Handle: handle, Elapsed: elapsed}
}

// cancelRemote is best-effort: the wait already failed, so a cancellation
// error is only logged.
func (r *Runner) cancelRemote(handle types.RunHandle) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := r.client.CancelRun(ctx, handle.ID); err != nil {
		logger.Errorf("Failed to cancel run %s: %v", handle, err)
		return
	}
	logger.Infof("Requested cancellation of run %s", handle)
}

// Cancel explicitly requests cancellation of the remote run.
func (r *Runner) Cancel(ctx context.Context, handle types.RunHandle) error {
	return r.client.CancelRun(ctx, handle.ID)
}

// Status fetches the current run status once, without waiting. Useful for
// re-checking a run after a timed-out wait.
func (r *Runner) Status(ctx context.Context, handle types.RunHandle) (types.RunStatus, error) {
	status, err := r.pollOnce(ctx, handle)
	if err != nil {
		return types.RunStatusUnknown, &types.PollingFailedError{Handle: handle, Cause: err}
	}
	return status, nil
}
