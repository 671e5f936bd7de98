package catalog

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/dotai-labs/dotai/internal/content"
	"github.com/dotai-labs/dotai/internal/manifest"
)

func findEntry(r *LintReport, t content.Type, id string) (LintEntry, bool) {
	for _, e := range r.Entries {
		if e.Type == t && e.ID == id {
			return e, true
		}
	}
	return LintEntry{}, false
}

func hasIssue(e LintEntry, sev manifest.Severity, field string) bool {
	for _, issue := range e.Issues {
		if issue.Severity == sev && issue.Field == field {
			return true
		}
	}
	return false
}

func TestLintReportsExcludedItems(t *testing.T) {
	report, err := New(testFS()).Lint(context.Background())
	if err != nil {
		t.Fatalf("Lint: %v", err)
	}
	if !report.HasErrors() {
		t.Error("expected errors in report")
	}

	tests := []struct {
		typ      content.Type
		id       string
		excluded bool
	}{
		{content.Skills, "empty-dir", true},
		{content.Rules, "binary", true},
		{content.Skills, "beta", false},
		{content.Skills, "zeta", false},
	}
	for _, tt := range tests {
		e, ok := findEntry(report, tt.typ, tt.id)
		if !ok {
			t.Errorf("%s/%s missing from report", tt.typ, tt.id)
			continue
		}
		if e.Excluded != tt.excluded {
			t.Errorf("%s/%s excluded = %v, want %v (%s)", tt.typ, tt.id, e.Excluded, tt.excluded, e.Reason)
		}
	}

	if _, ok := findEntry(report, content.Skills, ".hidden"); ok {
		t.Error("hidden directories should not be linted")
	}
}

func TestLintValidationFindings(t *testing.T) {
	report, err := New(testFS()).Lint(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	beta, _ := findEntry(report, content.Skills, "beta")
	if !hasIssue(beta, manifest.SeverityError, "frontmatter") || !hasIssue(beta, manifest.SeverityError, "name") {
		t.Errorf("beta should report missing frontmatter and name: %v", beta.Issues)
	}
	if !hasIssue(beta, manifest.SeverityWarning, "body") {
		t.Errorf("beta body has no heading: %v", beta.Issues)
	}

	alpha, _ := findEntry(report, content.Skills, "alpha")
	if !hasIssue(alpha, manifest.SeverityError, "name") {
		t.Errorf("alpha name is not kebab-case: %v", alpha.Issues)
	}

	zeta, _ := findEntry(report, content.Skills, "zeta")
	if zeta.HasErrors() || len(zeta.Issues) != 0 {
		t.Errorf("zeta should be clean: %v", zeta.Issues)
	}
}

func TestLintBodyChecks(t *testing.T) {
	fsys := fstest.MapFS{
		"prompts/empty/PROMPT.md": file("---\nname: empty\ndescription: Use when nothing.\ncategory: c\ntags: [t]\n---\n\n"),
		"prompts/dup/PROMPT.md":   file("---\nname: empty\ndescription: Use when duplicated.\ncategory: c\ntags: [t]\n---\n# Title\n"),
	}
	report, err := New(fsys).Lint(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	empty, _ := findEntry(report, content.Prompts, "empty")
	if !hasIssue(empty, manifest.SeverityWarning, "body") {
		t.Errorf("expected empty body warning: %v", empty.Issues)
	}

	// dup sorts before empty, so the duplicate is reported on empty.
	if !hasIssue(empty, manifest.SeverityWarning, "name") {
		t.Errorf("expected duplicate or mismatch name warning: %v", empty.Issues)
	}
	dup, _ := findEntry(report, content.Prompts, "dup")
	if !hasIssue(dup, manifest.SeverityWarning, "name") {
		t.Errorf("dup name differs from directory: %v", dup.Issues)
	}

	items, errs, warnings := report.Counts()
	if items != 2 || errs != 0 || warnings == 0 {
		t.Errorf("Counts() = %d, %d, %d", items, errs, warnings)
	}
}
