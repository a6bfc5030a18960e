// Package runner composes workflow dispatch, status polling, artifact
// retrieval and decoding into a single client for the remote generation
// jobs. Each dispatch/await/resolve chain is independent; chains may run
// concurrently and share no mutable state.
package runner

import (
	"time"

	"github.com/yasha-ai/gemini-worker/internal/actions"
	"github.com/yasha-ai/gemini-worker/internal/jobs"
	"github.com/yasha-ai/gemini-worker/internal/types"
)

const (
	// DefaultAwaitTimeout bounds a wait when the caller does not supply a
	// budget, so no chain blocks indefinitely.
	DefaultAwaitTimeout = 15 * time.Minute

	defaultPollInitial    = 2 * time.Second
	defaultPollMax        = 30 * time.Second
	defaultPollMultiplier = 1.5
	defaultPollRetries    = 3
	defaultLocateAttempts = 10
	defaultLocateWait     = 2 * time.Second
)

// Options configures a Runner.
type Options struct {
	// Ref is the git ref workflows are dispatched on.
	Ref string

	// CancelOnTimeout issues a remote cancellation when a wait times out
	// or is cancelled locally. Off by default: a local timeout does not
	// stop the remote run.
	CancelOnTimeout bool

	// OnStatus, when set, receives each observed status transition. The
	// reported sequence is monotonically non-decreasing in the run
	// lifecycle lattice.
	OnStatus func(types.RunHandle, types.RunStatus)

	// PollInitial, PollMax and PollMultiplier shape the polling backoff
	// schedule. Zero values take the defaults (2s, 30s, 1.5).
	PollInitial    time.Duration
	PollMax        time.Duration
	PollMultiplier float64

	// PollRetries bounds per-poll transport retries before the wait
	// fails. Transient poll errors are never conflated with job failure.
	PollRetries int

	// LocateAttempts and LocateWait bound the search for a freshly
	// dispatched run while the platform registers it.
	LocateAttempts int
	LocateWait     time.Duration
}

// Runner is the client facade over the CI platform.
type Runner struct {
	client actions.Client
	opts   Options
}

// New creates a Runner on top of the given transport client. It fails fast
// if the job registry is incomplete.
func New(client actions.Client, opts Options) (*Runner, error) {
	if err := jobs.CheckRegistry(); err != nil {
		return nil, err
	}

	if opts.Ref == "" {
		opts.Ref = "main"
	}
	if opts.PollInitial == 0 {
		opts.PollInitial = defaultPollInitial
	}
	if opts.PollMax == 0 {
		opts.PollMax = defaultPollMax
	}
	if opts.PollMultiplier == 0 {
		opts.PollMultiplier = defaultPollMultiplier
	}
	if opts.PollRetries == 0 {
		opts.PollRetries = defaultPollRetries
	}
	if opts.LocateAttempts == 0 {
		opts.LocateAttempts = defaultLocateAttempts
	}
	if opts.LocateWait == 0 {
		opts.LocateWait = defaultLocateWait
	}

	return &Runner{client: client, opts: opts}, nil
}
