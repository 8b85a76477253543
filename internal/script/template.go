// SPDX-License-Identifier: MPL-2.0

package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"embedscript-cli/internal/payload"

	"mvdan.cc/sh/v3/syntax"
)

const (
	// Delimiter terminates the here-document that carries the payload. It
	// contains '_', which is outside the base64 alphabet, and no payload
	// header can equal it, so it never occurs as a payload line.
	Delimiter = "EMBEDSCRIPT_PAYLOAD_EOF"

	// DefaultShell is the interpreter named on the #! line.
	DefaultShell = "/bin/sh"

	// ExtensionMarker is the comment after which post-unpack steps go.
	ExtensionMarker = "# Insert code to work with the unpacked file below."

	// OutfileVar is the shell variable holding the output path.
	OutfileVar = "outfile"
)

var (
	// ErrDelimiterInBody is returned when a body line equals Delimiter.
	ErrDelimiterInBody = errors.New("payload contains the here-document delimiter")
	// ErrInvalidTemplate is matched by errors from Template.Validate.
	ErrInvalidTemplate = errors.New("invalid script template")
)

// sampleBody stands in for the payload when validating the template.
const sampleBody = "begin-base64 644 sample\nAP9BCg==\n====\n"

// Template holds the parts of a generated script that are not the payload.
type Template struct {
	// Shell is the interpreter on the #! line. Defaults to DefaultShell.
	Shell string
	// Version is recorded in the generated-by comment.
	Version string
	// PostUnpack is shell code inserted after ExtensionMarker. It runs with
	// $outfile set once the file has been recreated.
	PostUnpack string
}

func (t Template) shell() string {
	if t.Shell == "" {
		return DefaultShell
	}
	return t.Shell
}

// outfileOperand keeps a relative outfile from being read as an option.
// BSD and busybox chmod stop option parsing at the mode operand, so "--"
// cannot be used there.
func outfileOperand(outfile string) string {
	if strings.HasPrefix(outfile, "-") {
		return "./" + outfile
	}
	return outfile
}

// Preamble renders everything up to and including the here-document opener.
func (t Template) Preamble(outfile string) (string, error) {
	if err := payload.ValidateName(outfile); err != nil {
		return "", err
	}
	quoted, err := syntax.Quote(outfileOperand(outfile), syntax.LangPOSIX)
	if err != nil {
		return "", fmt.Errorf("quote output path: %w", err)
	}
	for _, r := range t.shell() {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: shell %q contains control characters", ErrInvalidTemplate, t.shell())
		}
	}

	version := t.Version
	if version == "" {
		version = "dev"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "#!%s\n", t.shell())
	fmt.Fprintf(&b, "# Generated by embedscript %s.\n", version)
	fmt.Fprintf(&b, "# Running this script recreates %s.\n", outfile)
	b.WriteString("set -eu\n\n")
	fmt.Fprintf(&b, "%s=%s\n", OutfileVar, quoted)
	b.WriteString(`tmp=$(mktemp "${TMPDIR:-/tmp}/embedscript.XXXXXX")` + "\n")
	b.WriteString(`trap 'rm -f "$tmp"' EXIT` + "\n\n")
	fmt.Fprintf(&b, "cat > \"$tmp\" <<'%s'\n", Delimiter)
	return b.String(), nil
}

// Postamble renders the here-document terminator and the decode steps.
func (t Template) Postamble() string {
	var b strings.Builder
	b.WriteString(Delimiter + "\n\n")
	b.WriteString(`read -r _ mode _ < "$tmp"` + "\n")
	b.WriteString("{\n")
	b.WriteString("\tread -r _\n")
	b.WriteString("\twhile IFS= read -r line; do\n")
	fmt.Fprintf(&b, "\t\t[ \"$line\" = %q ] && break\n", payload.Trailer)
	b.WriteString("\t\tprintf '%s\\n' \"$line\"\n")
	b.WriteString("\tdone\n")
	fmt.Fprintf(&b, "} < \"$tmp\" | base64 -d > \"$%s\"\n", OutfileVar)
	fmt.Fprintf(&b, "chmod \"$mode\" \"$%s\"\n\n", OutfileVar)
	b.WriteString(ExtensionMarker + "\n")
	if post := strings.TrimSpace(t.PostUnpack); post != "" {
		b.WriteString(post + "\n")
	}
	b.WriteString("\nexit 0\n")
	return b.String()
}

// Validate renders the template around a sample payload and parses the
// result as a POSIX shell program.
func (t Template) Validate(outfile string) error {
	var buf strings.Builder
	if err := Assemble(&buf, strings.NewReader(sampleBody), outfile, t); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX))
	if _, err := parser.Parse(strings.NewReader(buf.String()), "script"); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	return nil
}

// Assemble writes the preamble, the encoded payload read from body and the
// postamble to w. Every body line is checked against Delimiter.
func Assemble(w io.Writer, body io.Reader, outfile string, t Template) error {
	pre, err := t.Preamble(outfile)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(pre); err != nil {
		return err
	}
	if err := copyBody(bw, body); err != nil {
		return err
	}
	if _, err := bw.WriteString(t.Postamble()); err != nil {
		return err
	}
	return bw.Flush()
}

func copyBody(w *bufio.Writer, body io.Reader) error {
	br := bufio.NewReader(body)
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lineNo++
			if strings.TrimSuffix(line, "\n") == Delimiter {
				return fmt.Errorf("%w: line %d", ErrDelimiterInBody, lineNo)
			}
			if !strings.HasSuffix(line, "\n") {
				line += "\n"
			}
			if _, werr := w.WriteString(line); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
