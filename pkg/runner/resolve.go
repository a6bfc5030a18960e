package runner

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/yasha-ai/gemini-worker/internal/jobs"
	"github.com/yasha-ai/gemini-worker/internal/logger"
	"github.com/yasha-ai/gemini-worker/internal/types"
)

// Resolve downloads the artifacts of a succeeded run, in the order the
// platform reports them. It must only be called after Await returned
// RunStatusSucceeded; the remote state is re-checked to enforce that. A
// succeeded run with fewer artifacts than its schema requires fails with
// ErrNoArtifacts — a contract violation by the remote job, distinct from
// any transport error.
func (r *Runner) Resolve(ctx context.Context, handle types.RunHandle) ([]types.Artifact, error) {
	schema, err := jobs.Describe(handle.Kind)
	if err != nil {
		return nil, err
	}

	run, err := r.client.GetRun(ctx, handle.ID)
	if err != nil {
		return nil, fmt.Errorf("checking run %s before resolve: %w", handle, err)
	}
	if status := run.RunStatus(); status != types.RunStatusSucceeded {
		return nil, fmt.Errorf("run %s is %s, artifacts can only be resolved after success", handle, status)
	}

	descriptors, err := r.client.ListArtifacts(ctx, handle.ID)
	if err != nil {
		return nil, fmt.Errorf("listing artifacts for run %s: %w", handle, err)
	}

	live := descriptors[:0]
	for _, desc := range descriptors {
		if !desc.Expired {
			live = append(live, desc)
		}
	}

	if len(live) < schema.MinArtifacts {
		return nil, fmt.Errorf("run %s: %w", handle, types.ErrNoArtifacts)
	}

	var artifacts []types.Artifact
	for _, desc := range live {
		payload, err := r.client.DownloadArtifact(ctx, desc.ArchiveDownloadURL)
		if err != nil {
			return nil, &types.ArtifactFetchError{Name: desc.Name, Cause: err}
		}

		extracted, err := extractArchive(desc.Name, payload)
		if err != nil {
			return nil, &types.ArtifactFetchError{Name: desc.Name, Cause: err}
		}
		artifacts = append(artifacts, extracted...)
	}

	logger.Debugf("Resolved %d artifacts for run %s", len(artifacts), handle)
	return artifacts, nil
}

// extractArchive flattens a downloaded artifact archive into artifacts, one
// per contained file, in archive order. Payloads that are not zip archives
// are passed through unchanged under the descriptor's name, which is what
// test doubles serve.
func extractArchive(name string, payload []byte) ([]types.Artifact, error) {
	reader, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return []types.Artifact{{
			Name:        name,
			Content:     payload,
			ContentType: mime.TypeByExtension(filepath.Ext(name)),
		}}, nil
	}

	var artifacts []types.Artifact
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %q in archive %q: %w", file.Name, name, err)
		}
		content, err := io.ReadAll(rc)
		closeErr := rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %q from archive %q: %w", file.Name, name, err)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("closing %q in archive %q: %w", file.Name, name, closeErr)
		}

		artifacts = append(artifacts, types.Artifact{
			Name:        file.Name,
			Content:     content,
			ContentType: mime.TypeByExtension(filepath.Ext(file.Name)),
		})
	}

	if len(artifacts) == 0 {
		return nil, fmt.Errorf("archive %q contains no files", name)
	}
	return artifacts, nil
}
