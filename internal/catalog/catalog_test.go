package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/dotai-labs/dotai/internal/content"
)

func file(s string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(s)}
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"skills/zeta/SKILL.md": file("---\nname: zeta\ndescription: Last alphabetically. Use when sorting.\ncategory: misc\ntags: [order]\n---\n# Zeta\n"),
		"skills/alpha/SKILL.md": file("---\nname: Alpha\ndescription: \"First. Use when testing\"\ntags: [git, review]\n---\n# Alpha\n"),
		"skills/alpha/extra.md": file("supporting file"),
		"skills/beta/SKILL.md":  file("no frontmatter at all\n"),
		"skills/empty-dir/README.md": file("no content file"),
		"skills/.hidden/SKILL.md":    file("---\nname: hidden\n---\n"),
		"skills/stray.md":            file("a file, not a directory"),
		"rules/no-secrets/RULE.md":   file("---\nname: no-secrets\ndescription: Keep secrets out. Use when committing.\ncategory: security\n---\n# Rules\n"),
		"rules/binary/RULE.md":       &fstest.MapFile{Data: []byte{0xff, 0xfe, 0x00}},
	}
}

func TestLoadType(t *testing.T) {
	c := New(testFS(), WithSource("test"))

	items, err := c.LoadType(context.Background(), content.Skills)
	if err != nil {
		t.Fatalf("LoadType: %v", err)
	}

	var ids []string
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	// Sorted by display name: Alpha, beta (falls back to id), zeta.
	if strings.Join(ids, ",") != "alpha,beta,zeta" {
		t.Errorf("ids = %v, want [alpha beta zeta]", ids)
	}

	alpha := items[0]
	if alpha.Name != "Alpha" || alpha.Description != "First. Use when testing" {
		t.Errorf("alpha metadata = %+v", alpha)
	}
	if strings.Join(alpha.Tags, ",") != "git,review" {
		t.Errorf("alpha tags = %v", alpha.Tags)
	}
	if alpha.RelativePath != "skills/alpha" || alpha.Source != "test" {
		t.Errorf("alpha path/source = %q/%q", alpha.RelativePath, alpha.Source)
	}

	beta := items[1]
	if beta.Name != "beta" || beta.Description != "" {
		t.Errorf("beta should fall back to id and empty description: %+v", beta)
	}
}

func TestLoadTypeMissingDirectory(t *testing.T) {
	c := New(testFS())
	items, err := c.LoadType(context.Background(), content.Prompts)
	if err != nil {
		t.Fatalf("LoadType: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty list, got %v", items)
	}
}

func TestLoadExcludesInvalidUTF8(t *testing.T) {
	c := New(testFS())
	items, err := c.LoadType(context.Background(), content.Rules)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != "no-secrets" {
		t.Errorf("expected only no-secrets, got %v", items)
	}
}

func TestLoadOrdersByType(t *testing.T) {
	c := New(testFS())
	items, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var keys []string
	for _, item := range items {
		keys = append(keys, item.Key())
	}
	want := "skills/alpha,skills/beta,skills/zeta,rules/no-secrets"
	if strings.Join(keys, ",") != want {
		t.Errorf("keys = %v, want %s", keys, want)
	}
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(testFS()).Load(ctx); err == nil {
		t.Error("expected context error")
	}
}

func TestSearch(t *testing.T) {
	c := New(testFS())

	tests := []struct {
		query string
		want  string
	}{
		{"FIRST", "skills/alpha"},
		{"zeta", "skills/zeta"},
		{"review", "skills/alpha"},
		{"security", "rules/no-secrets"},
		{"use when", "skills/alpha,skills/zeta,rules/no-secrets"},
		{"nothing-matches", ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			items, err := c.Search(context.Background(), tt.query)
			if err != nil {
				t.Fatal(err)
			}
			var keys []string
			for _, item := range items {
				keys = append(keys, item.Key())
			}
			if got := strings.Join(keys, ","); got != tt.want {
				t.Errorf("Search(%q) = %s, want %s", tt.query, got, tt.want)
			}
		})
	}
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	c := New(testFS())
	all, _ := c.Load(context.Background())
	got, err := c.Search(context.Background(), "  ")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(all) {
		t.Errorf("empty query returned %d items, want %d", len(got), len(all))
	}
}

func TestGet(t *testing.T) {
	c := New(testFS())
	ctx := context.Background()

	item, err := c.Get(ctx, content.Skills, "zeta")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if item.Category != "misc" {
		t.Errorf("category = %q", item.Category)
	}

	for _, id := range []string{"missing", "empty-dir", "../rules", ""} {
		if _, err := c.Get(ctx, content.Skills, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) error = %v, want ErrNotFound", id, err)
		}
	}
}

func TestContent(t *testing.T) {
	c := New(testFS())
	item, err := c.Get(context.Background(), content.Skills, "zeta")
	if err != nil {
		t.Fatal(err)
	}
	text, err := c.Content(item)
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if !strings.HasPrefix(text, "---\nname: zeta") {
		t.Errorf("Content() = %q, want raw frontmatter and body", text)
	}
}

func TestOpenDirectory(t *testing.T) {
	dir := t.TempDir()
	itemDir := filepath.Join(dir, "commands", "deploy")
	if err := os.MkdirAll(itemDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(itemDir, "COMMAND.md"), []byte("---\nname: deploy\n---\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !strings.HasPrefix(c.Source(), "local:") {
		t.Errorf("Source() = %q, want local: prefix", c.Source())
	}

	item, err := c.Get(context.Background(), content.Commands, "deploy")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.ItemDir(item); got != itemDir {
		t.Errorf("ItemDir() = %q, want %q", got, itemDir)
	}

	if _, err := Open(filepath.Join(dir, "nope")); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestItemDirWithoutDisk(t *testing.T) {
	c := New(testFS())
	if got := c.ItemDir(Item{RelativePath: "skills/alpha"}); got != "" {
		t.Errorf("ItemDir() = %q, want empty for in-memory catalog", got)
	}
}
