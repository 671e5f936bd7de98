package scaffold

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dotai-labs/dotai/internal/catalog"
	"github.com/dotai-labs/dotai/internal/content"
)

func TestNewData(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantID    string
		wantTitle string
	}{
		{"already kebab", "code-review", "code-review", "Code Review"},
		{"spaces and case", "My Great Tool", "my-great-tool", "My Great Tool"},
		{"punctuation", "Lint Fix!", "lint-fix", "Lint Fix"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewData(content.Skills, tt.input, "")
			if err != nil {
				t.Fatalf("NewData() error: %v", err)
			}
			if d.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", d.ID, tt.wantID)
			}
			if d.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", d.Title, tt.wantTitle)
			}
			if !strings.Contains(d.Description, "Use when") {
				t.Errorf("default description %q lacks a trigger phrase", d.Description)
			}
		})
	}

	if _, err := NewData(content.Skills, "!!!", ""); err == nil {
		t.Error("expected error for a name with no usable characters")
	}
}

func TestNewData_CollapsesDescription(t *testing.T) {
	d, err := NewData(content.Rules, "x", "  line one\nline two  ")
	if err != nil {
		t.Fatal(err)
	}
	if d.Description != "line one line two" {
		t.Errorf("Description = %q", d.Description)
	}
}

func TestGenerate_EveryType(t *testing.T) {
	root := t.TempDir()

	for _, typ := range content.All() {
		t.Run(string(typ), func(t *testing.T) {
			result, err := Generate(typ, "Sample Item", "Does a thing. Use when testing scaffolds.", root)
			if err != nil {
				t.Fatalf("Generate() error: %v", err)
			}
			want := filepath.Join(root, string(typ), "sample-item", typ.FileName())
			if result.File != want {
				t.Errorf("File = %q, want %q", result.File, want)
			}
			if len(result.Warnings) != 0 {
				t.Errorf("Warnings = %v, want none", result.Warnings)
			}

			data, err := os.ReadFile(want)
			if err != nil {
				t.Fatal(err)
			}
			text := string(data)
			for _, s := range []string{"name: sample-item", "category: general", "tags: [" + typ.Singular() + "]", "# Sample Item"} {
				if !strings.Contains(text, s) {
					t.Errorf("generated file missing %q:\n%s", s, text)
				}
			}
		})
	}

	// The generated tree is a valid catalog root.
	report, err := catalog.New(os.DirFS(root)).Lint(t.Context())
	if err != nil {
		t.Fatalf("Lint: %v", err)
	}
	for _, e := range report.Entries {
		if e.Excluded || len(e.Issues) != 0 {
			t.Errorf("lint %s/%s: excluded=%v issues=%v", e.Type, e.ID, e.Excluded, e.Issues)
		}
	}
}

func TestGenerate_RefusesNonEmptyTarget(t *testing.T) {
	root := t.TempDir()
	if _, err := Generate(content.Skills, "dup", "", root); err != nil {
		t.Fatalf("first Generate() error: %v", err)
	}
	_, err := Generate(content.Skills, "dup", "", root)
	if !errors.Is(err, ErrNotEmpty) {
		t.Errorf("second Generate() error = %v, want ErrNotEmpty", err)
	}
}

func TestGenerate_WarnsOnBadDescription(t *testing.T) {
	result, err := Generate(content.Prompts, "tagged", "Wraps <input> text", t.TempDir())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	joined := strings.Join(result.Warnings, "\n")
	if !strings.Contains(joined, "< or >") {
		t.Errorf("Warnings = %v, want angle bracket issue", result.Warnings)
	}
	if !strings.Contains(joined, "when to use") {
		t.Errorf("Warnings = %v, want trigger phrase warning", result.Warnings)
	}
}

func TestGenerate_UnknownType(t *testing.T) {
	if _, err := Generate(content.Type("widgets"), "x", "", t.TempDir()); !errors.Is(err, content.ErrUnknownType) {
		t.Errorf("error = %v, want ErrUnknownType", err)
	}
}
