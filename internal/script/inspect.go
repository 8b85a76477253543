// SPDX-License-Identifier: MPL-2.0

package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"embedscript-cli/internal/payload"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// ErrNoPayload is returned by Inspect for a script without an embedded payload.
var ErrNoPayload = errors.New("no embedded payload found")

// Inspection is what Inspect recovers from a generated script.
type Inspection struct {
	// Shell is the interpreter named on the #! line, if any.
	Shell string
	// Outfile is the path the script writes, taken from its outfile assignment.
	Outfile string
	// Header is the embedded payload header.
	Header payload.Header
	// Data holds the decoded payload.
	Data []byte
}

// Inspect parses a generated script and decodes its embedded payload
// without running it. name is used in parse error messages.
func Inspect(r io.Reader, name string) (Inspection, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return Inspection{}, fmt.Errorf("read %s: %w", name, err)
	}

	file, err := syntax.NewParser(syntax.Variant(syntax.LangPOSIX)).Parse(bytes.NewReader(src), name)
	if err != nil {
		return Inspection{}, fmt.Errorf("parse %s: %w", name, err)
	}

	var (
		ins     Inspection
		hdoc    *syntax.Word
		walkErr error
	)
	if line, _, _ := strings.Cut(string(src), "\n"); strings.HasPrefix(line, "#!") {
		ins.Shell = strings.TrimSpace(strings.TrimPrefix(line, "#!"))
	}

	syntax.Walk(file, func(node syntax.Node) bool {
		if walkErr != nil {
			return false
		}
		switch n := node.(type) {
		case *syntax.Assign:
			if ins.Outfile == "" && n.Name != nil && n.Name.Value == OutfileVar && n.Value != nil {
				ins.Outfile, walkErr = literal(n.Value)
			}
		case *syntax.Redirect:
			if hdoc != nil || (n.Op != syntax.Hdoc && n.Op != syntax.DashHdoc) || n.Word == nil {
				return true
			}
			delim, err := literal(n.Word)
			if err != nil {
				return true
			}
			if delim == Delimiter && n.Hdoc != nil {
				hdoc = n.Hdoc
			}
		}
		return true
	})
	if walkErr != nil {
		return Inspection{}, fmt.Errorf("read %s assignment in %s: %w", OutfileVar, name, walkErr)
	}
	if rest, ok := strings.CutPrefix(ins.Outfile, "./"); ok && strings.HasPrefix(rest, "-") {
		ins.Outfile = rest
	}
	if hdoc == nil {
		return Inspection{}, fmt.Errorf("%s: %w", name, ErrNoPayload)
	}

	body := src[hdoc.Pos().Offset():hdoc.End().Offset()]
	ins.Header, ins.Data, err = payload.Decode(bytes.NewReader(body))
	if err != nil {
		return Inspection{}, fmt.Errorf("%s: %w", name, err)
	}
	return ins, nil
}

// literal expands a word that may only contain quoting, no expansions.
func literal(w *syntax.Word) (string, error) {
	return expand.Literal(&expand.Config{}, w)
}
