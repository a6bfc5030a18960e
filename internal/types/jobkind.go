// Package types defines the shared data model for dispatching generation
// jobs and retrieving their results.
package types

import (
	"encoding/json"
	"fmt"
)

// JobKind identifies one of the remote generation jobs.
type JobKind int

const (
	// we need unknown to be the first kind to avoid conflicts with the default value
	JobKindUnknown JobKind = iota
	JobKindPlayground
	JobKindImage
	JobKindText
	JobKindVoice
	JobKindIdeas
)

// jobKindNames is indexed by JobKind. Keep in sync with the constants above.
var jobKindNames = []string{
	"unknown",
	"playground",
	"image",
	"text",
	"voice",
	"ideas",
}

// Kinds returns every dispatchable job kind, in declaration order.
func Kinds() []JobKind {
	return []JobKind{
		JobKindPlayground,
		JobKindImage,
		JobKindText,
		JobKindVoice,
		JobKindIdeas,
	}
}

func (k JobKind) String() string {
	if k < 0 || int(k) >= len(jobKindNames) {
		return "unknown"
	}
	return jobKindNames[k]
}

// ParseJobKind converts a string into a JobKind.
func ParseJobKind(str string) (JobKind, error) {
	for i, name := range jobKindNames {
		if name == str && JobKind(i) != JobKindUnknown {
			return JobKind(i), nil
		}
	}

	return JobKindUnknown, fmt.Errorf("%w: %q", ErrUnknownJobKind, str)
}

func (k JobKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *JobKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	kind, err := ParseJobKind(str)
	if err != nil {
		return err
	}

	*k = kind
	return nil
}
