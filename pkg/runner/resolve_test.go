package runner

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasha-ai/gemini-worker/internal/actions"
	"github.com/yasha-ai/gemini-worker/internal/actions/mock"
	"github.com/yasha-ai/gemini-worker/internal/types"
)

// zipArchive builds an in-memory zip from name/content pairs, in order.
func zipArchive(t *testing.T, files map[string][]byte, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := writer.Create(name)
		require.NoError(t, err)
		_, err = w.Write(files[name])
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return buf.Bytes()
}

func succeededClient(descriptors []actions.ArtifactDescriptor, payloads map[string][]byte) *mock.Client {
	return &mock.Client{
		GetRunFn: func(_ context.Context, runID int64) (actions.WorkflowRun, error) {
			return actions.WorkflowRun{ID: runID, Status: "completed", Conclusion: "success"}, nil
		},
		ListArtifactsFn: func(context.Context, int64) ([]actions.ArtifactDescriptor, error) {
			return descriptors, nil
		},
		DownloadArtifactFn: func(_ context.Context, url string) ([]byte, error) {
			payload, ok := payloads[url]
			if !ok {
				return nil, errors.New("unexpected download")
			}
			return payload, nil
		},
	}
}

func TestResolveRequiresSuccess(t *testing.T) {
	client := &mock.Client{
		GetRunFn: func(_ context.Context, runID int64) (actions.WorkflowRun, error) {
			return actions.WorkflowRun{ID: runID, Status: "in_progress"}, nil
		},
	}
	r := newTestRunner(t, client, testOptions())

	_, err := r.Resolve(context.Background(), textHandle(1))
	require.Error(t, err)
	assert.Empty(t, client.ListArtifactsCalls)
}

func TestResolveNoArtifacts(t *testing.T) {
	client := succeededClient(nil, nil)
	r := newTestRunner(t, client, testOptions())

	_, err := r.Resolve(context.Background(), textHandle(2))
	assert.ErrorIs(t, err, types.ErrNoArtifacts)
}

func TestResolveExpiredArtifactsDoNotCount(t *testing.T) {
	client := succeededClient([]actions.ArtifactDescriptor{
		{Name: "output", ArchiveDownloadURL: "u1", Expired: true},
	}, nil)
	r := newTestRunner(t, client, testOptions())

	_, err := r.Resolve(context.Background(), textHandle(3))
	assert.ErrorIs(t, err, types.ErrNoArtifacts)
}

func TestResolveExtractsArchives(t *testing.T) {
	archive := zipArchive(t, map[string][]byte{
		"output.txt": []byte("hello"),
	}, []string{"output.txt"})

	client := succeededClient([]actions.ArtifactDescriptor{
		{Name: "output", ArchiveDownloadURL: "u1"},
	}, map[string][]byte{"u1": archive})
	r := newTestRunner(t, client, testOptions())

	artifacts, err := r.Resolve(context.Background(), textHandle(4))
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "output.txt", artifacts[0].Name)
	assert.Equal(t, []byte("hello"), artifacts[0].Content)
	assert.Contains(t, artifacts[0].ContentType, "text/plain")
}

func TestResolvePreservesReportedOrder(t *testing.T) {
	first := zipArchive(t, map[string][]byte{"a.json": []byte(`[]`)}, []string{"a.json"})
	second := zipArchive(t, map[string][]byte{"b.json": []byte(`[]`)}, []string{"b.json"})

	client := succeededClient([]actions.ArtifactDescriptor{
		{Name: "first", ArchiveDownloadURL: "u1"},
		{Name: "second", ArchiveDownloadURL: "u2"},
	}, map[string][]byte{"u1": first, "u2": second})

	handle := types.RunHandle{ID: 5, Kind: types.JobKindIdeas, Token: "tok"}
	r := newTestRunner(t, client, testOptions())

	artifacts, err := r.Resolve(context.Background(), handle)
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	assert.Equal(t, "a.json", artifacts[0].Name)
	assert.Equal(t, "b.json", artifacts[1].Name)
}

func TestResolveDownloadFailure(t *testing.T) {
	client := succeededClient([]actions.ArtifactDescriptor{
		{Name: "output", ArchiveDownloadURL: "u-missing"},
	}, map[string][]byte{})
	r := newTestRunner(t, client, testOptions())

	_, err := r.Resolve(context.Background(), textHandle(6))

	var fetchErr *types.ArtifactFetchError
	require.True(t, errors.As(err, &fetchErr), "want ArtifactFetchError, got %v", err)
	assert.Equal(t, "output", fetchErr.Name)
}

func TestResolvePassesThroughRawPayloads(t *testing.T) {
	// Test doubles and local fixtures serve raw bytes instead of zips.
	client := succeededClient([]actions.ArtifactDescriptor{
		{Name: "output.txt", ArchiveDownloadURL: "u1"},
	}, map[string][]byte{"u1": []byte("plain")})
	r := newTestRunner(t, client, testOptions())

	artifacts, err := r.Resolve(context.Background(), textHandle(7))
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, []byte("plain"), artifacts[0].Content)
}
