// SPDX-License-Identifier: MPL-2.0

package payload

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// HeaderPrefix starts the first line of every encoded payload.
	HeaderPrefix = "begin-base64"
	// Trailer is the line that terminates an encoded payload.
	Trailer = "===="
	// DefaultLineLength is the number of base64 characters per body line.
	DefaultLineLength = 76
	// MaxLineLength bounds the configurable body line length.
	MaxLineLength = 4096
)

var (
	// ErrSourceNotFound is matched by errors for a source path that does not
	// exist or is not a regular file.
	ErrSourceNotFound = errors.New("source file not found")
	// ErrSourcePermission is matched by errors for a source file that cannot be read.
	ErrSourcePermission = errors.New("source file not readable")
	// ErrEncoding is matched by every EncodingError.
	ErrEncoding = errors.New("encoding failed")
	// ErrMalformed is matched by every DecodeError.
	ErrMalformed = errors.New("malformed payload")
	// ErrInvalidLineLength is the sentinel error wrapped by InvalidLineLengthError.
	ErrInvalidLineLength = errors.New("invalid line length")
)

type (
	// Header is the first line of an encoded payload.
	Header struct {
		// Mode holds the permission bits the decoded file is given.
		Mode fs.FileMode
		// Name is the path the payload decodes to.
		Name string
	}

	// SourceError reports a source file that could not be opened for encoding.
	// Kind is ErrSourceNotFound or ErrSourcePermission.
	SourceError struct {
		Path string
		Kind error
		Err  error
	}

	// EncodingError reports a failure of the encoding itself: a name the
	// header cannot carry, or an I/O failure while streaming the payload.
	EncodingError struct {
		Name   string
		Reason string
		Err    error
	}

	// DecodeError reports malformed input to the decoder.
	DecodeError struct {
		Line   int
		Reason string
	}

	// InvalidLineLengthError is returned for a body line length that is not a
	// positive multiple of 4 or exceeds MaxLineLength.
	InvalidLineLengthError struct {
		Value int
	}
)

// String renders the header line without its newline.
func (h Header) String() string {
	return fmt.Sprintf("%s %03o %s", HeaderPrefix, uint32(h.Mode.Perm()), h.Name)
}

// ParseHeader parses a header line as produced by Header.String.
func ParseHeader(line string) (Header, error) {
	rest, ok := strings.CutPrefix(line, HeaderPrefix+" ")
	if !ok {
		return Header{}, fmt.Errorf("header must start with %q", HeaderPrefix+" ")
	}
	modeField, name, ok := strings.Cut(rest, " ")
	if !ok {
		return Header{}, errors.New("header is missing the file name")
	}
	mode, err := strconv.ParseUint(modeField, 8, 32)
	if err != nil || mode > 0o777 {
		return Header{}, fmt.Errorf("invalid file mode %q", modeField)
	}
	if err := ValidateName(name); err != nil {
		return Header{}, err
	}
	return Header{Mode: fs.FileMode(mode), Name: name}, nil
}

// ValidateName reports whether name can be carried by a header line. The
// name must be non-empty valid UTF-8 without control characters; a newline
// or carriage return would split the header and a NUL cannot be passed to
// the filesystem.
func ValidateName(name string) error {
	if name == "" {
		return &EncodingError{Name: name, Reason: "file name is empty"}
	}
	if !utf8.ValidString(name) {
		return &EncodingError{Name: name, Reason: "file name is not valid UTF-8"}
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return &EncodingError{Name: name, Reason: fmt.Sprintf("file name contains control character %U", r)}
		}
	}
	return nil
}

func validateLineLength(n int) error {
	if n < 4 || n%4 != 0 || n > MaxLineLength {
		return &InvalidLineLengthError{Value: n}
	}
	return nil
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Path)
}

// Is matches the error's Kind sentinel.
func (e *SourceError) Is(target error) bool { return target == e.Kind }

// Unwrap returns the underlying filesystem error.
func (e *SourceError) Unwrap() error { return e.Err }

// Error implements the error interface.
func (e *EncodingError) Error() string {
	var msg strings.Builder
	msg.WriteString("encode")
	if e.Name != "" {
		fmt.Fprintf(&msg, " %q", e.Name)
	}
	if e.Reason != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Reason)
	}
	if e.Err != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Err.Error())
	}
	return msg.String()
}

// Is matches ErrEncoding.
func (e *EncodingError) Is(target error) bool { return target == ErrEncoding }

// Unwrap returns the underlying cause, if any.
func (e *EncodingError) Unwrap() error { return e.Err }

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed payload at line %d: %s", e.Line, e.Reason)
}

// Unwrap returns ErrMalformed for errors.Is() compatibility.
func (e *DecodeError) Unwrap() error { return ErrMalformed }

// Error implements the error interface.
func (e *InvalidLineLengthError) Error() string {
	return fmt.Sprintf("invalid line length %d (must be a multiple of 4 between 4 and %d)", e.Value, MaxLineLength)
}

// Unwrap returns ErrInvalidLineLength for errors.Is() compatibility.
func (e *InvalidLineLengthError) Unwrap() error { return ErrInvalidLineLength }
