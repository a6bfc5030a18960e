// Package decode converts raw run artifacts into typed job results. All
// decoding is a pure function of the artifact bytes and the job kind, so a
// decode can be replayed deterministically; artifact content is never
// mutated.
package decode

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yasha-ai/gemini-worker/internal/jobs"
	"github.com/yasha-ai/gemini-worker/internal/types"
)

// Decode dispatches on kind and returns the typed result for the given
// artifacts. Decoding is atomic: on any malformed payload the whole decode
// fails and no partial result is returned.
func Decode(kind types.JobKind, artifacts []types.Artifact) (types.JobResult, error) {
	schema, err := jobs.Describe(kind)
	if err != nil {
		return nil, err
	}

	decoder, ok := decoders[kind]
	if !ok {
		return nil, types.ErrUnknownJobKind
	}
	return decoder(schema, artifacts)
}

type decoderFunc func(jobs.Schema, []types.Artifact) (types.JobResult, error)

// decoders is the per-kind dispatch table. Adding a kind means adding one
// registration here alongside its registry schema.
var decoders = map[types.JobKind]decoderFunc{
	types.JobKindText:       decodeText,
	types.JobKindImage:      decodeImage,
	types.JobKindVoice:      decodeVoice,
	types.JobKindIdeas:      decodeIdeas,
	types.JobKindPlayground: decodePlayground,
}

func single(kind types.JobKind, artifacts []types.Artifact) (types.Artifact, error) {
	if len(artifacts) != 1 {
		return types.Artifact{}, &types.DecodeError{
			Kind:  kind,
			Cause: fmt.Errorf("expected exactly one artifact, got %d", len(artifacts)),
		}
	}
	return artifacts[0], nil
}

func contentType(artifact types.Artifact, schema jobs.Schema) string {
	if artifact.ContentType != "" {
		return artifact.ContentType
	}
	return schema.DefaultContentType
}

func decodeText(schema jobs.Schema, artifacts []types.Artifact) (types.JobResult, error) {
	artifact, err := single(types.JobKindText, artifacts)
	if err != nil {
		return nil, err
	}

	if !utf8.Valid(artifact.Content) {
		return nil, &types.DecodeError{
			Kind:  types.JobKindText,
			Cause: fmt.Errorf("artifact %q is not valid UTF-8", artifact.Name),
		}
	}
	return types.TextResult{Text: string(artifact.Content)}, nil
}

func decodeImage(schema jobs.Schema, artifacts []types.Artifact) (types.JobResult, error) {
	artifact, err := single(types.JobKindImage, artifacts)
	if err != nil {
		return nil, err
	}

	return types.ImageResult{
		Content: artifact.Content,
		MIME:    contentType(artifact, schema),
	}, nil
}

func decodeVoice(schema jobs.Schema, artifacts []types.Artifact) (types.JobResult, error) {
	artifact, err := single(types.JobKindVoice, artifacts)
	if err != nil {
		return nil, err
	}

	mime := contentType(artifact, schema)
	return types.AudioResult{
		Content: artifact.Content,
		MIME:    mime,
		Format:  ParseSampleFormat(mime),
	}, nil
}

// ParseSampleFormat extracts PCM parameters from a mime type such as
// "audio/L16;codec=pcm;rate=24000". Missing parameters fall back to the
// TTS defaults: 24 kHz, 16-bit, mono.
func ParseSampleFormat(mime string) types.SampleFormat {
	format := types.SampleFormat{Rate: 24000, Bits: 16, Channels: 1}

	parts := strings.Split(mime, ";")
	if strings.HasPrefix(strings.TrimSpace(parts[0]), "audio/L") {
		if bits, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(parts[0]), "audio/L")); err == nil {
			format.Bits = bits
		}
	}
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if value, ok := strings.CutPrefix(part, "rate="); ok {
			if rate, err := strconv.Atoi(value); err == nil {
				format.Rate = rate
			}
		}
		if value, ok := strings.CutPrefix(part, "channels="); ok {
			if channels, err := strconv.Atoi(value); err == nil {
				format.Channels = channels
			}
		}
	}
	return format
}

func decodeIdeas(schema jobs.Schema, artifacts []types.Artifact) (types.JobResult, error) {
	artifact, err := single(types.JobKindIdeas, artifacts)
	if err != nil {
		return nil, err
	}

	payload := stripCodeFences(artifact.Content)

	var raw []json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, &types.MalformedPayloadError{
			Detail: fmt.Sprintf("ideas payload is not a JSON array: %v", err),
		}
	}

	ideas := make([]types.Idea, len(raw))
	for i, entry := range raw {
		var idea types.Idea
		if err := json.Unmarshal(entry, &idea); err != nil {
			return nil, &types.MalformedPayloadError{
				Detail: fmt.Sprintf("idea %d is not an object: %v", i, err),
			}
		}
		if idea.Title == "" {
			return nil, &types.MalformedPayloadError{
				Detail: fmt.Sprintf("idea %d is missing a title", i),
			}
		}
		ideas[i] = idea
	}

	return types.IdeasResult{Ideas: ideas}, nil
}

// commitManifest is the payload the playground workflow uploads after
// committing generated lessons.
type commitManifest struct {
	Section string   `json:"section"`
	Files   []string `json:"files"`
}

func decodePlayground(schema jobs.Schema, artifacts []types.Artifact) (types.JobResult, error) {
	artifact, err := single(types.JobKindPlayground, artifacts)
	if err != nil {
		return nil, err
	}

	var manifest commitManifest
	if err := json.Unmarshal(stripCodeFences(artifact.Content), &manifest); err != nil {
		return nil, &types.MalformedPayloadError{
			Detail: fmt.Sprintf("commit manifest is not parseable: %v", err),
		}
	}
	if manifest.Files == nil {
		return nil, &types.MalformedPayloadError{Detail: "commit manifest has no files field"}
	}

	return types.PlaygroundResult{Files: manifest.Files}, nil
}

// stripCodeFences removes a surrounding markdown code fence, which the
// generation models occasionally wrap around JSON payloads.
func stripCodeFences(content []byte) []byte {
	text := strings.TrimSpace(string(content))
	if !strings.HasPrefix(text, "```") {
		return content
	}

	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return content
	}
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return []byte(strings.Join(lines, "\n"))
}
