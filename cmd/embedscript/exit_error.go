// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"embedscript-cli/internal/issue"
	"embedscript-cli/internal/payload"
	"embedscript-cli/internal/script"
	"embedscript-cli/pkg/types"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
// Reported is set when the handler already printed a diagnostic for Err.
type ExitError struct {
	Code     types.ExitCode
	Err      error
	Reported bool
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// classify maps a generation failure to its exit code, the one-line message
// shown to the user and the issue catalog entry with further help.
func classify(err error) (types.ExitCode, string, issue.Id) {
	var pathErr *script.PathError
	if errors.As(err, &pathErr) {
		switch pathErr.Kind {
		case script.InfileNotFound:
			return types.ExitInvalidPath, pathErr.Message(), issue.InfileNotFoundId
		case script.InfileDirInvalid:
			return types.ExitInvalidPath, pathErr.Message(), issue.InfileDirInvalidId
		default:
			return types.ExitInvalidPath, pathErr.Message(), issue.ScriptDirInvalidId
		}
	}

	switch {
	case errors.Is(err, payload.ErrSourcePermission):
		return types.ExitEncodingFailed, "Unable to read input file: " + err.Error(), issue.PermissionDeniedId
	case errors.Is(err, payload.ErrSourceNotFound):
		// The file vanished or changed type between validation and encoding.
		return types.ExitEncodingFailed, "Unable to encode input file: " + err.Error(), issue.InfileNotFoundId
	default:
		return types.ExitEncodingFailed, "Unable to encode input file: " + err.Error(), issue.EncodingFailedId
	}
}
