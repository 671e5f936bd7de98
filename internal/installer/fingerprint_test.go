package installer

import (
	"regexp"
	"testing"
	"testing/fstest"
)

func TestFingerprint(t *testing.T) {
	base := fstest.MapFS{
		"item/SKILL.md": file("body"),
		"item/a/b.txt":  file("nested"),
	}
	hash := func(fsys fstest.MapFS) string {
		t.Helper()
		h, err := Fingerprint(fsys, "item")
		if err != nil {
			t.Fatalf("Fingerprint: %v", err)
		}
		return h
	}
	want := hash(base)

	if !regexp.MustCompile(`^xxh64:[0-9a-f]{16}$`).MatchString(want) {
		t.Errorf("Fingerprint = %q, want xxh64:<16 hex>", want)
	}

	tests := []struct {
		name string
		fsys fstest.MapFS
		same bool
	}{
		{"identical", fstest.MapFS{"item/SKILL.md": file("body"), "item/a/b.txt": file("nested")}, true},
		{"excluded names ignored", fstest.MapFS{"item/SKILL.md": file("body"), "item/a/b.txt": file("nested"), "item/.DS_Store": file("x"), "item/.git/HEAD": file("ref")}, true},
		{"content changed", fstest.MapFS{"item/SKILL.md": file("body!"), "item/a/b.txt": file("nested")}, false},
		{"file renamed", fstest.MapFS{"item/SKILL.md": file("body"), "item/a/c.txt": file("nested")}, false},
		{"file added", fstest.MapFS{"item/SKILL.md": file("body"), "item/a/b.txt": file("nested"), "item/new": file("")}, false},
		{"bytes shifted between files", fstest.MapFS{"item/SKILL.md": file("bodyn"), "item/a/b.txt": file("ested")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hash(tt.fsys)
			if (got == want) != tt.same {
				t.Errorf("Fingerprint = %q, base %q, same = %v", got, want, tt.same)
			}
		})
	}
}

func TestFingerprint_MissingDir(t *testing.T) {
	if _, err := Fingerprint(fstest.MapFS{}, "nope"); err == nil {
		t.Error("expected error for missing directory")
	}
}
