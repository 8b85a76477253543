// SPDX-License-Identifier: MPL-2.0

package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"embedscript-cli/internal/payload"

	"github.com/charmbracelet/log"
)

// ScriptMode is the permission set on generated scripts.
const ScriptMode os.FileMode = 0o755

// ErrGenerate is matched by every GenerateError.
var ErrGenerate = errors.New("script generation failed")

type (
	// Generator writes self-extracting scripts for resolved plans.
	// The zero value is usable: default template, default line length, the
	// system temp directory for scratch files and no logging.
	Generator struct {
		// Template renders the non-payload parts of the script.
		Template Template
		// LineLength is the base64 line length; 0 means payload.DefaultLineLength.
		LineLength int
		// ScratchDir holds the intermediate encoded payload; "" means os.TempDir().
		ScratchDir string
		// KeepScratch leaves the scratch file on disk after generation.
		KeepScratch bool
		// Logger receives debug output; nil discards it.
		Logger *log.Logger
	}

	// Result describes a generated script.
	Result struct {
		Plan Plan
		// Header is the payload header embedded in the script.
		Header payload.Header
		// PayloadSize is the size of the embedded file in bytes.
		PayloadSize int64
		// ScriptSize is the size of the generated script in bytes.
		ScriptSize int64
		// ScratchPath is the kept scratch file, or "" when it was removed.
		ScratchPath string
	}

	// GenerateError reports a failure after the plan was validated. Nothing
	// is left at the script path when it is returned.
	GenerateError struct {
		Op  string
		Err error
	}
)

// Error implements the error interface.
func (e *GenerateError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Is matches ErrGenerate.
func (e *GenerateError) Is(target error) bool { return target == ErrGenerate }

// Unwrap returns the underlying cause.
func (e *GenerateError) Unwrap() error { return e.Err }

func (g *Generator) logger() *log.Logger {
	if g.Logger == nil {
		return log.New(io.Discard)
	}
	return g.Logger
}

// Generate encodes plan.Infile into a scratch file, assembles the script
// and writes it to plan.Script with ScriptMode. The script is written to a
// temporary file next to its destination and renamed into place, so a
// failure never leaves a partial script behind.
func (g *Generator) Generate(ctx context.Context, plan Plan) (res Result, err error) {
	logger := g.logger()
	res.Plan = plan

	if err := g.Template.Validate(plan.Outfile); err != nil {
		return res, &GenerateError{Op: "validate script template", Err: err}
	}

	scratch, err := os.CreateTemp(g.ScratchDir, scratchPattern(plan.Infile))
	if err != nil {
		return res, &GenerateError{Op: "create scratch file", Err: err}
	}
	logger.Debug("created scratch file", "path", scratch.Name())
	defer func() {
		if closeErr := scratch.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
			logger.Debug("closing scratch file failed", "error", closeErr)
		}
		if g.KeepScratch {
			res.ScratchPath = scratch.Name()
			return
		}
		if rmErr := os.Remove(scratch.Name()); rmErr != nil {
			logger.Warn("removing scratch file failed", "path", scratch.Name(), "error", rmErr)
		}
	}()

	var opts []payload.EncodeOption
	if g.LineLength != 0 {
		opts = append(opts, payload.WithLineLength(g.LineLength))
	}
	header, n, err := payload.EncodeFile(ctx, scratch, plan.Infile, plan.Outfile, opts...)
	if err != nil {
		return res, &GenerateError{Op: "encode " + plan.Infile, Err: err}
	}
	res.Header = header
	res.PayloadSize = n
	logger.Debug("encoded payload", "infile", plan.Infile, "bytes", n, "mode", fmt.Sprintf("%03o", uint32(header.Mode)))

	if _, err := scratch.Seek(0, io.SeekStart); err != nil {
		return res, &GenerateError{Op: "rewind scratch file", Err: err}
	}

	size, err := g.writeScript(ctx, plan, scratch)
	if err != nil {
		return res, err
	}
	res.ScriptSize = size
	logger.Debug("wrote script", "path", plan.Script, "bytes", size)

	return res, nil
}

func (g *Generator) writeScript(ctx context.Context, plan Plan, body io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, &GenerateError{Op: "write script", Err: err}
	}

	dir := filepath.Dir(plan.Script)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(plan.Script)+".*")
	if err != nil {
		return 0, &GenerateError{Op: "create script", Err: err}
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	counter := &countingWriter{w: tmp}
	if err := Assemble(counter, body, plan.Outfile, g.Template); err != nil {
		return 0, &GenerateError{Op: "assemble script", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return 0, &GenerateError{Op: "write script", Err: err}
	}
	// Chmod instead of relying on the create mode, which the umask would narrow.
	if err := os.Chmod(tmpName, ScriptMode); err != nil {
		return 0, &GenerateError{Op: "make script executable", Err: err}
	}
	if err := os.Rename(tmpName, plan.Script); err != nil {
		return 0, &GenerateError{Op: "write script", Err: err}
	}
	committed = true
	return counter.n, nil
}

// scratchPattern names scratch files after the input's base name without
// its extension; os.CreateTemp replaces the '*' with a random string.
func scratchPattern(infile string) string {
	base := filepath.Base(infile)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || strings.ContainsAny(stem, `*/\`) {
		stem = "payload"
	}
	return stem + "-*.tmp"
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
