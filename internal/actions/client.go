// Package actions implements the REST client for the CI platform's
// workflow-dispatch, run-status and artifact-download endpoints.
package actions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/yasha-ai/gemini-worker/internal/logger"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

const (
	defaultMaxRetries = 3
	defaultRetryWait  = time.Second
	maxRedirects      = 3
)

// ErrRunNotFound is returned by FindRunByToken when no run carries the
// given dispatch token.
var ErrRunNotFound = errors.New("no workflow run found for dispatch token")

// Client is the interface for the CI platform API client.
type Client interface {
	// DispatchWorkflow issues a workflow-dispatch event for the given
	// workflow file. The platform does not return the run ID; use
	// FindRunByToken to locate the run that was created.
	DispatchWorkflow(ctx context.Context, workflow, ref string, inputs map[string]string) error

	// FindRunByToken locates the run whose name carries the dispatch
	// token. Workflows are expected to interpolate the dispatch_token
	// input into their run-name.
	FindRunByToken(ctx context.Context, workflow, token string) (WorkflowRun, error)

	// GetRun fetches the current state of a run.
	GetRun(ctx context.Context, runID int64) (WorkflowRun, error)

	// CancelRun asks the platform to cancel a run.
	CancelRun(ctx context.Context, runID int64) error

	// ListArtifacts lists artifact descriptors for a run, in the order
	// the platform reports them.
	ListArtifacts(ctx context.Context, runID int64) ([]ArtifactDescriptor, error)

	// DownloadArtifact fetches an artifact archive. The returned bytes
	// are the raw zip payload.
	DownloadArtifact(ctx context.Context, archiveURL string) ([]byte, error)
}

var _ Client = &APIClient{}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// Token is the scoped API token used to authenticate. This is the CI
	// platform token, never the generation API key used inside the jobs.
	Token string

	// Owner and Repo identify the repository hosting the workflows.
	Owner string
	Repo  string

	// Timeout is the request timeout
	Timeout time.Duration

	// MaxRetries bounds transport-level retries per request.
	MaxRetries int

	// RetryWait is the initial backoff delay; it doubles per attempt with
	// jitter applied.
	RetryWait time.Duration
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL:    DefaultBaseURL,
		Timeout:    DefaultTimeout,
		MaxRetries: defaultMaxRetries,
		RetryWait:  defaultRetryWait,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL    string
	token      string
	owner      string
	repo       string
	timeout    time.Duration
	maxRetries int
	retryWait  time.Duration
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (*APIClient, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if opts.Owner == "" || opts.Repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}

	client := &APIClient{
		baseURL:    opts.BaseURL,
		token:      opts.Token,
		owner:      opts.Owner,
		repo:       opts.Repo,
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		retryWait:  opts.RetryWait,
	}
	if client.timeout == 0 {
		client.timeout = DefaultTimeout
	}
	if client.maxRetries == 0 {
		client.maxRetries = defaultMaxRetries
	}
	if client.retryWait == 0 {
		client.retryWait = defaultRetryWait
	}
	return client, nil
}

// createAgent creates a new Fiber Agent for the given method and URL
func (c *APIClient) createAgent(ctx context.Context, method, fullURL string, body interface{}) (*fiber.Agent, error) {
	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	agent.Set("Accept", "application/vnd.github+json")
	agent.Set("X-GitHub-Api-Version", APIVersion)
	if c.token != "" {
		agent.Set("Authorization", "Bearer "+c.token)
	}

	if body != nil {
		agent.Set("Content-Type", "application/json")
		agent.JSON(body)
	}

	return agent, nil
}

// shouldRetry reports whether a status code belongs to a retriable class.
// Rate limiting and server-side errors are retried; other client errors
// fail immediately.
func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

// retryDelay returns the backoff delay for the given attempt with jitter so
// many in-flight chains do not retry in lockstep.
func (c *APIClient) retryDelay(attempt int) time.Duration {
	delay := c.retryWait << (attempt - 1)
	return delay + time.Duration(rand.Int63n(int64(delay)/2+1))
}

// execute sends the request with bounded retries for transport errors and
// retriable status codes. It returns the final status code and body.
func (c *APIClient) execute(ctx context.Context, method, endpoint string, body interface{}) (int, []byte, error) {
	fullURL := endpoint
	if len(endpoint) > 0 && endpoint[0] == '/' {
		fullURL = c.baseURL + endpoint
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}

		agent, err := c.createAgent(ctx, method, fullURL, body)
		if err != nil {
			return 0, nil, err
		}

		statusCode, respBody, errs := agent.Bytes()
		if len(errs) > 0 {
			lastErr = errs[0]
			logger.Warnf("Request to %s failed: attempt=%d, error=%v", endpoint, attempt, lastErr)
			if attempt < c.maxRetries {
				time.Sleep(c.retryDelay(attempt))
			}
			continue
		}

		if !shouldRetry(statusCode) {
			return statusCode, respBody, nil
		}

		lastErr = &fiber.Error{Code: statusCode, Message: string(respBody)}
		logger.Warnf("Retrying request due to status code: attempt=%d, status_code=%d", attempt, statusCode)
		if attempt < c.maxRetries {
			time.Sleep(c.retryDelay(attempt))
		}
	}

	return 0, nil, fmt.Errorf("request failed after %d attempts: %w", c.maxRetries, lastErr)
}

// executeJSON sends the request and decodes a 2xx response body into v.
func (c *APIClient) executeJSON(ctx context.Context, method, endpoint string, body, v interface{}) error {
	statusCode, respBody, err := c.execute(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	if statusCode < 200 || statusCode >= 300 {
		return &fiber.Error{
			Code:    statusCode,
			Message: string(respBody),
		}
	}

	if v != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, v); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}

	return nil
}

// DispatchWorkflow issues a workflow-dispatch event.
func (c *APIClient) DispatchWorkflow(ctx context.Context, workflow, ref string, inputs map[string]string) error {
	endpoint := dispatchURL(c.owner, c.repo, workflow)
	body := dispatchRequest{Ref: ref, Inputs: inputs}

	logger.Debugf("Dispatching workflow: workflow=%s, ref=%s", workflow, ref)
	return c.executeJSON(ctx, http.MethodPost, endpoint, body, nil)
}

// FindRunByToken locates the run carrying the dispatch token in its name.
func (c *APIClient) FindRunByToken(ctx context.Context, workflow, token string) (WorkflowRun, error) {
	endpoint := workflowRunsURL(c.owner, c.repo, workflow, 50)

	var response runsResponse
	if err := c.executeJSON(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return WorkflowRun{}, err
	}

	for _, run := range response.WorkflowRuns {
		if token != "" && strings.Contains(run.Name, token) {
			return run, nil
		}
	}
	return WorkflowRun{}, ErrRunNotFound
}

// GetRun fetches the current state of a run.
func (c *APIClient) GetRun(ctx context.Context, runID int64) (WorkflowRun, error) {
	endpoint := runURL(c.owner, c.repo, runID)

	var run WorkflowRun
	if err := c.executeJSON(ctx, http.MethodGet, endpoint, nil, &run); err != nil {
		return WorkflowRun{}, err
	}
	return run, nil
}

// CancelRun asks the platform to cancel a run.
func (c *APIClient) CancelRun(ctx context.Context, runID int64) error {
	endpoint := cancelRunURL(c.owner, c.repo, runID)
	return c.executeJSON(ctx, http.MethodPost, endpoint, nil, nil)
}

// ListArtifacts lists artifact descriptors for a run.
func (c *APIClient) ListArtifacts(ctx context.Context, runID int64) ([]ArtifactDescriptor, error) {
	endpoint := runArtifactsURL(c.owner, c.repo, runID)

	var response artifactsResponse
	if err := c.executeJSON(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Artifacts, nil
}

// DownloadArtifact fetches an artifact archive, following the platform's
// redirect to blob storage.
func (c *APIClient) DownloadArtifact(ctx context.Context, archiveURL string) ([]byte, error) {
	target := archiveURL
	for redirect := 0; redirect <= maxRedirects; redirect++ {
		statusCode, body, err := c.executeWithHeaders(ctx, target)
		if err != nil {
			return nil, err
		}

		switch {
		case statusCode >= 200 && statusCode < 300:
			return body, nil
		case statusCode == http.StatusMovedPermanently || statusCode == http.StatusFound ||
			statusCode == http.StatusTemporaryRedirect:
			location := string(body)
			if location == "" {
				return nil, fmt.Errorf("redirect without location from %s", target)
			}
			target = location
		default:
			return nil, &fiber.Error{Code: statusCode, Message: string(body)}
		}
	}

	return nil, fmt.Errorf("too many redirects downloading %s", archiveURL)
}

// executeWithHeaders is execute for download requests: on a redirect status
// the returned body is the Location header instead of the payload.
func (c *APIClient) executeWithHeaders(ctx context.Context, fullURL string) (int, []byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}

		agent, err := c.createAgent(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return 0, nil, err
		}

		// Capture the response so the Location header survives the call.
		resp := fiber.AcquireResponse()
		agent.SetResponse(resp)

		statusCode, body, errs := agent.Bytes()
		if len(errs) > 0 {
			fiber.ReleaseResponse(resp)
			lastErr = errs[0]
			logger.Warnf("Download request failed: attempt=%d, error=%v", attempt, lastErr)
			if attempt < c.maxRetries {
				time.Sleep(c.retryDelay(attempt))
			}
			continue
		}

		if statusCode == http.StatusMovedPermanently || statusCode == http.StatusFound ||
			statusCode == http.StatusTemporaryRedirect {
			location := append([]byte(nil), resp.Header.Peek("Location")...)
			fiber.ReleaseResponse(resp)
			return statusCode, location, nil
		}
		fiber.ReleaseResponse(resp)

		if !shouldRetry(statusCode) {
			return statusCode, body, nil
		}

		lastErr = &fiber.Error{Code: statusCode, Message: string(body)}
		if attempt < c.maxRetries {
			time.Sleep(c.retryDelay(attempt))
		}
	}

	return 0, nil, fmt.Errorf("download failed after %d attempts: %w", c.maxRetries, lastErr)
}
