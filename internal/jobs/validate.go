package jobs

import (
	"strconv"

	"github.com/yasha-ai/gemini-worker/internal/types"
)

// Parameters maps parameter names to their raw string values, as they will
// be sent as workflow inputs.
type Parameters map[string]string

// Validate checks params against the schema for kind and returns the
// normalized parameter set with defaults applied. It rejects unknown keys,
// missing required keys, and values outside their declared type or enum,
// all before any network call is made.
func Validate(kind types.JobKind, params Parameters) (Parameters, error) {
	schema, err := Describe(kind)
	if err != nil {
		return nil, err
	}

	specs := make(map[string]ParamSpec, len(schema.Params))
	for _, spec := range schema.Params {
		specs[spec.Name] = spec
	}

	for name := range params {
		if _, ok := specs[name]; !ok {
			return nil, &types.InvalidParametersError{Field: name, Reason: "unknown parameter"}
		}
	}

	normalized := make(Parameters, len(schema.Params))
	for _, spec := range schema.Params {
		value, present := params[spec.Name]
		if !present || value == "" {
			if spec.Required {
				return nil, &types.InvalidParametersError{Field: spec.Name, Reason: "required parameter is missing"}
			}
			if spec.Default != "" {
				normalized[spec.Name] = spec.Default
			}
			continue
		}

		if err := checkValue(spec, value); err != nil {
			return nil, err
		}
		normalized[spec.Name] = value
	}

	return normalized, nil
}

func checkValue(spec ParamSpec, value string) error {
	switch spec.Type {
	case ParamInt:
		if _, err := strconv.Atoi(value); err != nil {
			return &types.InvalidParametersError{Field: spec.Name, Reason: "must be an integer"}
		}
	case ParamFloat:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return &types.InvalidParametersError{Field: spec.Name, Reason: "must be a number"}
		}
	case ParamEnum:
		for _, allowed := range spec.Enum {
			if value == allowed {
				return nil
			}
		}
		return &types.InvalidParametersError{Field: spec.Name, Reason: "value is not in the allowed set"}
	}
	return nil
}
