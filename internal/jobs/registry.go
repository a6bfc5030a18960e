// Package jobs holds the static descriptor registry for the remote
// generation jobs: which parameters each job kind accepts and what artifact
// shape it is expected to produce.
package jobs

import (
	"github.com/yasha-ai/gemini-worker/internal/types"
)

// ParamType is the declared type of a workflow input. All inputs travel as
// strings on the wire; the type governs validation before dispatch.
type ParamType int

const (
	ParamString ParamType = iota
	ParamInt
	ParamFloat
	ParamEnum
)

// ParamSpec declares a single parameter of a job kind.
type ParamSpec struct {
	Name     string
	Type     ParamType
	Required bool
	Default  string   // applied when the parameter is absent, empty for none
	Enum     []string // allowed values when Type == ParamEnum
}

// Schema describes the parameter surface and expected artifact shape of one
// job kind.
type Schema struct {
	// Workflow is the CI workflow file that implements the job.
	Workflow string
	// Params lists the accepted parameters.
	Params []ParamSpec
	// MinArtifacts is the minimum artifact count a succeeded run must
	// produce. A run below this bound is a contract violation.
	MinArtifacts int
	// OrderSensitive marks kinds whose artifact order must be preserved
	// into the decoded result.
	OrderSensitive bool
	// DefaultContentType is used when the artifact carries no content-type
	// hint of its own.
	DefaultContentType string
}

// registry maps every dispatchable job kind to its schema. Adding a kind
// means adding exactly one entry here.
var registry = map[types.JobKind]Schema{
	types.JobKindText: {
		Workflow: "generate-text.yml",
		Params: []ParamSpec{
			{Name: "prompt", Type: ParamString, Required: true},
			{Name: "model", Type: ParamString, Default: "gemini-3.1-pro-preview"},
			{Name: "max_tokens", Type: ParamInt, Default: "8192"},
			{Name: "temperature", Type: ParamFloat, Default: "0.7"},
		},
		MinArtifacts:       1,
		DefaultContentType: "text/plain; charset=utf-8",
	},
	types.JobKindImage: {
		Workflow: "generate-image.yml",
		Params: []ParamSpec{
			{Name: "prompt", Type: ParamString, Required: true},
			{Name: "model", Type: ParamString, Default: "gemini-3-pro-image-preview"},
			{Name: "reference", Type: ParamString},
		},
		MinArtifacts:       1,
		DefaultContentType: "image/png",
	},
	types.JobKindVoice: {
		Workflow: "generate-voice.yml",
		Params: []ParamSpec{
			{Name: "text", Type: ParamString, Required: true},
			{Name: "voice", Type: ParamEnum, Default: "Fenrir", Enum: []string{"Fenrir", "Kore", "Charon", "Aoede"}},
			{Name: "model", Type: ParamString, Default: "gemini-2.5-flash-preview-tts"},
		},
		MinArtifacts:       1,
		DefaultContentType: "audio/L16;codec=pcm;rate=24000",
	},
	types.JobKindIdeas: {
		Workflow: "youtube-ideas.yml",
		Params: []ParamSpec{
			{Name: "topic", Type: ParamString, Required: true},
			{Name: "count", Type: ParamInt, Default: "10"},
			{Name: "model", Type: ParamString, Default: "gemini-3.1-pro-preview"},
		},
		MinArtifacts:       1,
		OrderSensitive:     true,
		DefaultContentType: "application/json",
	},
	types.JobKindPlayground: {
		Workflow: "generate-playgrounds.yml",
		Params: []ParamSpec{
			{Name: "section", Type: ParamEnum, Required: true, Enum: []string{"javascript", "typescript", "css", "html", "php", "react"}},
			{Name: "limit", Type: ParamInt, Default: "0"},
			{Name: "model", Type: ParamString, Default: "gemini-3.1-pro-preview"},
		},
		MinArtifacts:       1,
		OrderSensitive:     true,
		DefaultContentType: "application/json",
	},
}

// Describe returns the schema registered for kind. It is pure and performs
// no I/O.
func Describe(kind types.JobKind) (Schema, error) {
	schema, ok := registry[kind]
	if !ok {
		return Schema{}, types.ErrUnknownJobKind
	}
	return schema, nil
}

// CheckRegistry verifies every declared job kind has a schema entry. It is
// meant to run once at startup; an IncompleteRegistryError is fatal.
func CheckRegistry() error {
	var missing []types.JobKind
	for _, kind := range types.Kinds() {
		if _, ok := registry[kind]; !ok {
			missing = append(missing, kind)
		}
	}

	if len(missing) > 0 {
		return &types.IncompleteRegistryError{Missing: missing}
	}
	return nil
}
