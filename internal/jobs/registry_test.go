package jobs

import (
	"errors"
	"testing"

	"github.com/yasha-ai/gemini-worker/internal/types"
)

func TestDescribeIsDefinedForAllKinds(t *testing.T) {
	for _, kind := range types.Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			schema, err := Describe(kind)
			if err != nil {
				t.Fatalf("Describe(%v) error = %v", kind, err)
			}
			if schema.Workflow == "" {
				t.Errorf("Describe(%v) has no workflow file", kind)
			}
			if len(schema.Params) == 0 {
				t.Errorf("Describe(%v) has an empty parameter list", kind)
			}
			if schema.MinArtifacts < 1 {
				t.Errorf("Describe(%v) expects no artifacts", kind)
			}

			// Every kind takes at least one required prompt/topic-like field.
			required := 0
			for _, spec := range schema.Params {
				if spec.Required {
					required++
				}
			}
			if required == 0 {
				t.Errorf("Describe(%v) declares no required parameters", kind)
			}
		})
	}
}

func TestDescribeUnknownKind(t *testing.T) {
	if _, err := Describe(types.JobKindUnknown); !errors.Is(err, types.ErrUnknownJobKind) {
		t.Errorf("Describe(unknown) error = %v, want ErrUnknownJobKind", err)
	}
	if _, err := Describe(types.JobKind(99)); !errors.Is(err, types.ErrUnknownJobKind) {
		t.Errorf("Describe(99) error = %v, want ErrUnknownJobKind", err)
	}
}

func TestCheckRegistry(t *testing.T) {
	if err := CheckRegistry(); err != nil {
		t.Fatalf("CheckRegistry() error = %v", err)
	}
}
