package commands

import (
	"errors"

	"github.com/yasha-ai/gemini-worker/internal/types"
)

// Process exit codes, one per error class.
const (
	ExitOK         = 0
	ExitValidation = 1
	ExitRemote     = 2
	ExitDecode     = 3
)

// ExitCode maps an error from the runner onto a process exit code:
// validation errors, remote/transport errors and decode errors each get
// their own code so callers can script against the CLI.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var invalidParams *types.InvalidParametersError
	var incomplete *types.IncompleteRegistryError
	if errors.As(err, &invalidParams) || errors.As(err, &incomplete) || errors.Is(err, types.ErrUnknownJobKind) {
		return ExitValidation
	}

	var decodeErr *types.DecodeError
	var malformed *types.MalformedPayloadError
	if errors.As(err, &decodeErr) || errors.As(err, &malformed) {
		return ExitDecode
	}

	return ExitRemote
}
