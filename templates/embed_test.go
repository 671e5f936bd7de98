package templates_test

import (
	"context"
	"testing"

	"github.com/dotai-labs/dotai/internal/catalog"
	"github.com/dotai-labs/dotai/templates"
)

func TestBuiltinCorpusIsClean(t *testing.T) {
	c := catalog.New(templates.FS, catalog.WithSource(templates.Source))

	report, err := c.Lint(context.Background())
	if err != nil {
		t.Fatalf("Lint: %v", err)
	}
	for _, e := range report.Entries {
		if e.Excluded {
			t.Errorf("%s excluded: %s", e.Path, e.Reason)
		}
		for _, issue := range e.Issues {
			t.Errorf("%s: %s", e.Path, issue)
		}
	}
}

func TestBuiltinCorpusCoversEveryType(t *testing.T) {
	c := catalog.New(templates.FS, catalog.WithSource(templates.Source))

	items, err := c.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[string]bool)
	for _, item := range items {
		seen[string(item.Type)] = true
		if item.Source != templates.Source {
			t.Errorf("%s source = %q", item.Key(), item.Source)
		}
	}
	for _, typ := range []string{"skills", "agents", "commands", "rules", "prompts"} {
		if !seen[typ] {
			t.Errorf("no builtin %s", typ)
		}
	}
}
