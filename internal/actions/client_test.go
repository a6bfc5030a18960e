// Package actions provides unit tests for the CI platform API client.
//
// The tests use httptest to simulate the platform's REST API, so the
// client's request construction, retry policy and response handling can be
// verified without a real remote.
package actions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, baseURL string) *APIClient {
	t.Helper()
	client, err := NewClient(&Options{
		BaseURL:    baseURL,
		Token:      "test-token",
		Owner:      "yasha-ai",
		Repo:       "content",
		Timeout:    5 * time.Second,
		MaxRetries: 3,
		RetryWait:  time.Millisecond,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("missing owner and repo", func(t *testing.T) {
		_, err := NewClient(&Options{BaseURL: DefaultBaseURL})
		assert.Error(t, err)
	})

	t.Run("defaults applied", func(t *testing.T) {
		client, err := NewClient(&Options{Owner: "o", Repo: "r"})
		require.NoError(t, err)
		assert.Equal(t, DefaultTimeout, client.timeout)
		assert.Equal(t, defaultMaxRetries, client.maxRetries)
	})
}

func TestDispatchWorkflow(t *testing.T) {
	var calls int32
	var gotAuth string
	var gotBody dispatchRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	err := client.DispatchWorkflow(context.Background(), "generate-text.yml", "main", map[string]string{
		"prompt":         "hello",
		"dispatch_token": "tok-1",
	})

	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "main", gotBody.Ref)
	assert.Equal(t, "tok-1", gotBody.Inputs["dispatch_token"])
}

func TestDispatchWorkflowRejectedIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Unexpected inputs provided"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	err := client.DispatchWorkflow(context.Background(), "generate-text.yml", "main", nil)

	var fiberErr *fiber.Error
	require.True(t, errors.As(err, &fiberErr))
	assert.Equal(t, http.StatusUnprocessableEntity, fiberErr.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "4xx responses must not be retried")
}

func TestDispatchWorkflowRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	err := client.DispatchWorkflow(context.Background(), "generate-text.yml", "main", nil)

	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDispatchWorkflowRetriesRateLimit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	require.NoError(t, client.DispatchWorkflow(context.Background(), "generate-text.yml", "main", nil))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFindRunByToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "workflows/generate-text.yml/runs")
		_ = json.NewEncoder(w).Encode(runsResponse{
			TotalCount: 2,
			WorkflowRuns: []WorkflowRun{
				{ID: 11, Name: "text [tok-other]", Status: "completed", Conclusion: "success"},
				{ID: 12, Name: "text [tok-match]", Status: "queued"},
			},
		})
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	run, err := client.FindRunByToken(context.Background(), "generate-text.yml", "tok-match")
	require.NoError(t, err)
	assert.Equal(t, int64(12), run.ID)

	_, err = client.FindRunByToken(context.Background(), "generate-text.yml", "tok-missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestGetRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/yasha-ai/content/actions/runs/42", r.URL.Path)
		_ = json.NewEncoder(w).Encode(WorkflowRun{ID: 42, Status: "in_progress"})
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	run, err := client.GetRun(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), run.ID)
	assert.Equal(t, "in_progress", run.Status)
}

func TestListArtifacts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/yasha-ai/content/actions/runs/42/artifacts", r.URL.Path)
		_ = json.NewEncoder(w).Encode(artifactsResponse{
			TotalCount: 2,
			Artifacts: []ArtifactDescriptor{
				{ID: 1, Name: "output", ArchiveDownloadURL: "http://example.com/1/zip"},
				{ID: 2, Name: "manifest", ArchiveDownloadURL: "http://example.com/2/zip"},
			},
		})
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	artifacts, err := client.ListArtifacts(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	assert.Equal(t, "output", artifacts[0].Name)
	assert.Equal(t, "manifest", artifacts[1].Name)
}

func TestDownloadArtifactFollowsRedirect(t *testing.T) {
	payload := []byte("zip-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/artifact/zip":
			w.Header().Set("Location", "http://"+r.Host+"/blob")
			w.WriteHeader(http.StatusFound)
		case "/blob":
			_, _ = w.Write(payload)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	got, err := client.DownloadArtifact(context.Background(), server.URL+"/artifact/zip")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDownloadArtifactSurfacesErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	_, err := client.DownloadArtifact(context.Background(), server.URL+"/artifact/zip")

	var fiberErr *fiber.Error
	require.True(t, errors.As(err, &fiberErr))
	assert.Equal(t, http.StatusGone, fiberErr.Code)
}
