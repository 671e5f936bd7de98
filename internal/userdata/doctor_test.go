package userdata

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dotai-labs/dotai/internal/content"
)

func TestCheckLayoutMissingRoot(t *testing.T) {
	project := t.TempDir()
	env := NewEnvironment(t.TempDir(), project, nil)

	var buf bytes.Buffer
	if err := CheckLayout(&buf, env, content.ScopeProject, "", false); err != nil {
		t.Fatalf("CheckLayout: %v", err)
	}
	if !strings.Contains(buf.String(), "[MISS]") {
		t.Errorf("expected a MISS line, got:\n%s", buf.String())
	}
	if _, err := os.Stat(filepath.Join(project, CanonicalDir)); !os.IsNotExist(err) {
		t.Error("CheckLayout without fix must not create directories")
	}
}

func TestCheckLayoutFixCreatesRoot(t *testing.T) {
	project := t.TempDir()
	env := NewEnvironment(t.TempDir(), project, nil)

	var buf bytes.Buffer
	if err := CheckLayout(&buf, env, content.ScopeProject, "", true); err != nil {
		t.Fatalf("CheckLayout: %v", err)
	}
	if !strings.Contains(buf.String(), "[FIX ]") {
		t.Errorf("expected a FIX line, got:\n%s", buf.String())
	}
	if info, err := os.Stat(filepath.Join(project, CanonicalDir)); err != nil || !info.IsDir() {
		t.Error("expected canonical root to be created")
	}
}

func TestCheckLayoutReportsTypeDirs(t *testing.T) {
	project := t.TempDir()
	env := NewEnvironment(t.TempDir(), project, nil)
	if err := os.MkdirAll(env.TypeDir(content.Skills, content.ScopeProject, ""), 0755); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := CheckLayout(&buf, env, content.ScopeProject, "", false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "[ OK ] "+env.TypeDir(content.Skills, content.ScopeProject, "")) {
		t.Errorf("skills dir not reported OK:\n%s", out)
	}
	if !strings.Contains(out, "[ -- ] "+env.TypeDir(content.Rules, content.ScopeProject, "")) {
		t.Errorf("rules dir not reported absent:\n%s", out)
	}
}
