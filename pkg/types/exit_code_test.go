// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCodeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     ExitCode
		wantValid bool
	}{
		{name: "zero is valid", value: 0, wantValid: true},
		{name: "missing argument is valid", value: ExitMissingArgument, wantValid: true},
		{name: "payload mismatch is valid", value: ExitPayloadMismatch, wantValid: true},
		{name: "255 is valid", value: 255, wantValid: true},
		{name: "negative is invalid", value: -1, wantValid: false},
		{name: "256 is invalid", value: 256, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if (err == nil) != tt.wantValid {
				t.Errorf("ExitCode(%d).Validate() error = %v, wantValid %v", tt.value, err, tt.wantValid)
			}
			if !tt.wantValid && !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("error does not wrap ErrInvalidExitCode: %v", err)
			}
		})
	}
}

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	// The CLI contract fixes these values; scripts calling embedscript depend on them.
	want := map[ExitCode]int{
		ExitSuccess:         0,
		ExitMissingArgument: 1,
		ExitInvalidPath:     2,
		ExitEncodingFailed:  3,
		ExitPayloadMismatch: 4,
	}
	for code, n := range want {
		if int(code) != n {
			t.Errorf("exit code = %d, want %d", code, n)
		}
	}
	if len(want) != 5 {
		t.Errorf("exit codes are not distinct: %v", want)
	}
}

func TestExitCodeIsSuccess(t *testing.T) {
	t.Parallel()

	if !ExitSuccess.IsSuccess() {
		t.Error("ExitSuccess.IsSuccess() = false, want true")
	}
	if ExitInvalidPath.IsSuccess() {
		t.Error("ExitInvalidPath.IsSuccess() = true, want false")
	}
}

func TestExitCodeString(t *testing.T) {
	t.Parallel()

	if got := ExitEncodingFailed.String(); got != "3" {
		t.Errorf("ExitEncodingFailed.String() = %q, want %q", got, "3")
	}
}
