package lockfile

import (
	"errors"
	"strings"
	"testing"

	"github.com/dotai-labs/dotai/internal/content"
)

func TestMerge(t *testing.T) {
	lf := Empty()
	lf.Merge(testItem("foo", "claude", "claude"))
	lf.Merge(testItem("foo", "cursor", "amp"))

	if len(lf.Installed) != 1 {
		t.Fatalf("expected one entry, got %d", len(lf.Installed))
	}
	got := lf.Installed["skills/foo"].Assistants
	if strings.Join(got, ",") != "amp,claude,cursor" {
		t.Errorf("assistants = %v", got)
	}
}

func TestRemoveAssistant(t *testing.T) {
	tests := []struct {
		name        string
		assistants  []string
		remove      string
		wantChanged bool
		wantLeft    string
		wantEntry   bool
	}{
		{"one of two", []string{"claude", "cursor"}, "claude", true, "cursor", true},
		{"last one", []string{"claude"}, "claude", true, "", false},
		{"not wired", []string{"claude"}, "cursor", false, "claude", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lf := Empty()
			lf.Merge(testItem("foo", tt.assistants...))

			if changed := lf.RemoveAssistant(content.Skills, "foo", tt.remove); changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			item, ok := lf.Installed["skills/foo"]
			if ok != tt.wantEntry {
				t.Fatalf("entry present = %v, want %v", ok, tt.wantEntry)
			}
			if ok && strings.Join(item.Assistants, ",") != tt.wantLeft {
				t.Errorf("assistants = %v, want %s", item.Assistants, tt.wantLeft)
			}
		})
	}
}

func TestDecodeNormalizesKeys(t *testing.T) {
	doc := `{"version":"1.0.0","installed":{"rules/wrong":{"type":"skills","id":"right","source":"builtin","hash":"h","installedAt":"2026-01-01T00:00:00Z","assistants":["b","a","b"],"scope":"project","method":"copy"}}}`

	lf, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	item, ok := lf.Installed["skills/right"]
	if !ok {
		t.Fatalf("expected entry re-keyed to skills/right, got %v", lf.Installed)
	}
	if strings.Join(item.Assistants, ",") != "a,b" {
		t.Errorf("assistants = %v, want sorted unique", item.Assistants)
	}
}

func TestDecodeSchemaError(t *testing.T) {
	_, err := Decode([]byte(`{"version": 1, "installed": {}}`))
	var se *SchemaError
	if !errors.As(err, &se) || len(se.Issues) == 0 {
		t.Fatalf("expected *SchemaError with issues, got %T %v", err, err)
	}
	if !strings.Contains(se.Error(), "/version") {
		t.Errorf("issue should point at /version: %v", se)
	}
}
