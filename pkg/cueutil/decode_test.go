// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Settings: {
	name?:  string
	count?: int & >=1 & <=10
	tags?: [...string]
}
`

type settings struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

func TestDecode_Struct(t *testing.T) {
	t.Parallel()

	got, err := Decode[settings](testSchema, []byte(`name: "x", count: 3, tags: ["a", "b"]`), "#Settings")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Name != "x" || got.Count != 3 || len(got.Tags) != 2 {
		t.Errorf("Decode() = %+v, want name x, count 3, two tags", got)
	}
}

func TestDecode_MapOmitsUnsetOptionalFields(t *testing.T) {
	t.Parallel()

	got, err := Decode[map[string]any](testSchema, []byte(`count: 2`), "#Settings")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if _, ok := got["name"]; ok {
		t.Errorf("Decode() = %v, unset optional field should be absent", got)
	}
	if len(got) != 1 {
		t.Errorf("Decode() returned %d keys, want 1", len(got))
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		contains string
	}{
		{name: "out of bound", data: `count: 11`, contains: "count"},
		{name: "wrong type", data: `name: 5`, contains: "name"},
		{name: "unknown field", data: `color: "red"`, contains: "color"},
		{name: "syntax error", data: `name: "unterminated`, contains: "settings.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode[settings](testSchema, []byte(tt.data), "#Settings", WithFilename("settings.cue"))
			if err == nil {
				t.Fatal("Decode() should fail")
			}
			if !strings.HasPrefix(err.Error(), "settings.cue: ") {
				t.Errorf("Decode() error = %q, want it prefixed with the filename", err)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Decode() error = %q, want it to contain %q", err, tt.contains)
			}
		})
	}
}

func TestDecode_FileTooLarge(t *testing.T) {
	t.Parallel()

	_, err := Decode[settings](testSchema, []byte(`name: "abcdef"`), "#Settings", WithMaxFileSize(4))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("Decode() error = %v, want ErrFileTooLarge", err)
	}
}

func TestDecode_MissingDefinition(t *testing.T) {
	t.Parallel()

	_, err := Decode[settings](testSchema, []byte(`name: "x"`), "#Missing")
	if err == nil || !strings.Contains(err.Error(), "#Missing") {
		t.Errorf("Decode() error = %v, want missing definition error", err)
	}
}

func TestDecode_Concrete(t *testing.T) {
	t.Parallel()

	schema := `#S: { name: string }`
	if _, err := Decode[map[string]any](schema, []byte(`{}`), "#S", WithConcrete()); err == nil {
		t.Error("Decode() with WithConcrete should reject a missing required field")
	}
}
