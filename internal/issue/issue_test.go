// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

var allIds = []Id{
	MissingInfileId,
	InfileNotFoundId,
	InfileDirInvalidId,
	ScriptDirInvalidId,
	EncodingFailedId,
	PermissionDeniedId,
	ConfigLoadFailedId,
	NoPayloadId,
	PayloadMismatchId,
}

// stubRender replaces the glamour renderer with the identity function.
func stubRender(t *testing.T) {
	t.Helper()
	original := render
	t.Cleanup(func() { render = original })
	render = func(in string, _ string) (string, error) { return in, nil }
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		contains string
	}{
		{MissingInfileId, "No input file given"},
		{InfileNotFoundId, "File to embed cannot be found"},
		{InfileDirInvalidId, "Path to infile is invalid"},
		{ScriptDirInvalidId, "Path to script is invalid"},
		{EncodingFailedId, "could not be encoded"},
		{PermissionDeniedId, "Permission denied"},
		{ConfigLoadFailedId, "Failed to load configuration"},
		{NoPayloadId, "No embedded payload found"},
		{PayloadMismatchId, "Embedded payload differs"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			issue := Get(tt.id)
			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if issue.Id() != tt.id {
				t.Errorf("Get(%d).Id() = %d", tt.id, issue.Id())
			}
			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
		})
	}

	if Get(Id(9999)) != nil {
		t.Error("Get(9999) should return nil")
	}
}

func TestValues(t *testing.T) {
	issues := Values()
	if len(issues) != len(allIds) {
		t.Fatalf("Values() returned %d issues, want %d", len(issues), len(allIds))
	}
	for i, issue := range issues {
		if issue.Id() != allIds[i] {
			t.Errorf("Values()[%d].Id() = %d, want %d (sorted by id)", i, issue.Id(), allIds[i])
		}
	}
	if MissingInfileId != 1 {
		t.Errorf("MissingInfileId = %d, want 1", MissingInfileId)
	}
}

func TestIssue_LinksAreCloned(t *testing.T) {
	issue := Get(EncodingFailedId)
	links := issue.ExtLinks()
	if len(links) == 0 {
		t.Fatal("EncodingFailed should carry external links")
	}
	links[0] = "modified"
	if issue.ExtLinks()[0] == "modified" {
		t.Error("ExtLinks() should return a clone")
	}
	if issue.DocLinks() != nil {
		t.Errorf("DocLinks() = %v, want nil", issue.DocLinks())
	}
}

func TestIssue_Render(t *testing.T) {
	stubRender(t)

	t.Run("with links", func(t *testing.T) {
		testIssue := &Issue{
			id:       Id(9999),
			mdMsg:    "# Test Issue\n\nThis is a test.",
			docLinks: []HttpLink{"https://docs.example.com"},
			extLinks: []HttpLink{"https://external.example.com"},
		}
		rendered, err := testIssue.Render("")
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		for _, want := range []string{"## See also", "- <https://docs.example.com>", "- <https://external.example.com>"} {
			if !strings.Contains(rendered, want) {
				t.Errorf("Render() output missing %q:\n%s", want, rendered)
			}
		}
	})

	t.Run("without links", func(t *testing.T) {
		testIssue := &Issue{id: Id(9998), mdMsg: "# Test Issue\n\nNo links here."}
		rendered, err := testIssue.Render("")
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if strings.Contains(rendered, "See also") {
			t.Error("Render() without links should not contain 'See also'")
		}
	})

	t.Run("catalog", func(t *testing.T) {
		for _, issue := range Values() {
			rendered, err := issue.Render("")
			if err != nil {
				t.Errorf("issue %d failed to render: %v", issue.Id(), err)
			}
			if strings.TrimSpace(rendered) == "" {
				t.Errorf("issue %d rendered to empty string", issue.Id())
			}
		}
	})
}

func TestIssue_RenderWithGlamour(t *testing.T) {
	rendered, err := Get(ScriptDirInvalidId).Render("notty")
	if err != nil {
		t.Fatalf("Render(notty) error = %v", err)
	}
	if !strings.Contains(rendered, "Path to script is invalid") {
		t.Errorf("rendered output missing heading:\n%s", rendered)
	}
	if strings.Contains(rendered, "\x1b[") {
		t.Error("notty style should not emit ANSI escapes")
	}
}

func TestFor(t *testing.T) {
	linked := NewErrorContext().
		WithOperation("load configuration").
		WithIssue(ConfigLoadFailedId).
		Wrap(errors.New("bad")).
		BuildError()

	tests := []struct {
		name string
		err  error
		want Id
	}{
		{name: "linked", err: linked, want: ConfigLoadFailedId},
		{name: "wrapped", err: fmt.Errorf("outer: %w", linked), want: ConfigLoadFailedId},
		{name: "unlinked actionable", err: WrapWithContext(errors.New("x"), "op", "res")},
		{name: "plain error", err: errors.New("plain")},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := For(tt.err)
			if tt.want == 0 {
				if got != nil {
					t.Errorf("For() = issue %d, want nil", got.Id())
				}
				return
			}
			if got == nil || got.Id() != tt.want {
				t.Errorf("For() = %v, want issue %d", got, tt.want)
			}
		})
	}
}
