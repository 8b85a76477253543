// SPDX-License-Identifier: MPL-2.0

package script

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"embedscript-cli/pkg/fspath"
	"embedscript-cli/pkg/types"
)

const (
	// DefaultExtension is appended to derived script names.
	DefaultExtension = ".sh"

	derivedSuffix = "_expand"
)

// ErrInvalidPath is matched by every PathError.
var ErrInvalidPath = errors.New("invalid path")

type (
	// Request holds the user's path choices before defaults are applied.
	Request struct {
		// Infile is the file to embed. Required.
		Infile types.FilesystemPath
		// Outfile is the path the generated script recreates. Defaults to Infile.
		Outfile types.FilesystemPath
		// Script is the path of the generated script. Derived from Infile when empty.
		Script types.FilesystemPath
		// Extension is used for derived script names. Defaults to DefaultExtension.
		Extension string
	}

	// Plan is a validated Request with every default applied.
	Plan struct {
		Infile  string
		Outfile string
		Script  string
		// ScriptDerived reports whether Script was derived from Infile.
		ScriptDerived bool
	}

	// PathErrorKind classifies a PathError.
	PathErrorKind int

	// PathError reports a path that failed validation before any file was touched.
	PathError struct {
		Kind PathErrorKind
		Path string
		Err  error
	}
)

const (
	// InfileNotFound means the input path does not name a regular file.
	InfileNotFound PathErrorKind = iota + 1
	// InfileDirInvalid means the directory of the input path does not exist, so
	// no script path can be derived next to it.
	InfileDirInvalid
	// ScriptDirInvalid means the directory of an explicit script path does not exist.
	ScriptDirInvalid
)

// String returns a short name for the kind.
func (k PathErrorKind) String() string {
	switch k {
	case InfileNotFound:
		return "infile not found"
	case InfileDirInvalid:
		return "infile directory invalid"
	case ScriptDirInvalid:
		return "script directory invalid"
	default:
		return fmt.Sprintf("PathErrorKind(%d)", int(k))
	}
}

// Error implements the error interface.
func (e *PathError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Path)
}

// Is matches ErrInvalidPath.
func (e *PathError) Is(target error) bool { return target == ErrInvalidPath }

// Unwrap returns the underlying cause, if any.
func (e *PathError) Unwrap() error { return e.Err }

// Message returns the one-line diagnostic shown to users.
func (e *PathError) Message() string {
	switch e.Kind {
	case InfileNotFound:
		return "File to embed cannot be found, check destination and try again"
	case InfileDirInvalid:
		return "Path to infile is invalid, check destination and try again"
	case ScriptDirInvalid:
		return "Path to script is invalid, check destination and try again"
	default:
		return e.Error()
	}
}

// DeriveScriptPath returns the default script path for infile: the script
// sits next to infile and is named after its base name with every "."
// replaced by "_", followed by "_expand" and ext.
//
//	DeriveScriptPath("/data/photo.bin", ".sh") == "/data/photo_bin_expand.sh"
func DeriveScriptPath(infile types.FilesystemPath, ext string) types.FilesystemPath {
	base := strings.ReplaceAll(fspath.Base(infile), ".", "_")
	return fspath.JoinStr(fspath.Dir(infile), base+derivedSuffix+ext)
}

// Resolve applies defaults to req and validates the resulting paths in
// order: the directory of a derived script path, then the input file, then
// the directory of an explicit script path. It does not touch the filesystem
// beyond stat calls.
func Resolve(req Request) (Plan, error) {
	if err := req.Infile.Validate(); err != nil {
		return Plan{}, &PathError{Kind: InfileNotFound, Path: req.Infile.String(), Err: err}
	}
	infile := req.Infile.String()

	ext := req.Extension
	if ext == "" {
		ext = DefaultExtension
	}

	plan := Plan{
		Infile:  infile,
		Outfile: req.Outfile.String(),
		Script:  req.Script.String(),
	}

	if req.Script.IsZero() {
		dir := fspath.Dir(req.Infile)
		if !isDir(dir) {
			return Plan{}, &PathError{Kind: InfileDirInvalid, Path: dir.String()}
		}
		plan.Script = DeriveScriptPath(req.Infile, ext).String()
		plan.ScriptDerived = true
	}

	if req.Outfile.IsZero() {
		plan.Outfile = infile
	}

	info, err := os.Stat(infile)
	if err != nil {
		return Plan{}, &PathError{Kind: InfileNotFound, Path: infile, Err: err}
	}
	if !info.Mode().IsRegular() {
		return Plan{}, &PathError{Kind: InfileNotFound, Path: infile, Err: errors.New("not a regular file")}
	}

	if !plan.ScriptDerived {
		if err := req.Script.Validate(); err != nil {
			return Plan{}, &PathError{Kind: ScriptDirInvalid, Path: plan.Script, Err: err}
		}
		if dir := fspath.Dir(req.Script); !isDir(dir) {
			return Plan{}, &PathError{Kind: ScriptDirInvalid, Path: dir.String()}
		}
	}

	return plan, nil
}

func isDir(path types.FilesystemPath) bool {
	info, err := os.Stat(path.String())
	return err == nil && info.IsDir()
}
