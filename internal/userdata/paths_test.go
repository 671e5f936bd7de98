package userdata

import (
	"path/filepath"
	"testing"

	"github.com/dotai-labs/dotai/internal/content"
)

func testEnv(vars map[string]string) Environment {
	return NewEnvironment("/home/dev", "/work/repo", vars)
}

func TestCanonicalPath(t *testing.T) {
	env := testEnv(nil)

	tests := []struct {
		name        string
		scope       content.Scope
		projectRoot string
		want        string
	}{
		{"project explicit root", content.ScopeProject, "/repo", "/repo/.ai/skills/foo"},
		{"project default root", content.ScopeProject, "", "/work/repo/.ai/skills/foo"},
		{"project relative root", content.ScopeProject, "sub", "/work/repo/sub/.ai/skills/foo"},
		{"global ignores project root", content.ScopeGlobal, "/repo", "/home/dev/.ai/skills/foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := env.CanonicalPath(content.Skills, "foo", tt.scope, tt.projectRoot)
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("CanonicalPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLockPath(t *testing.T) {
	env := testEnv(nil)

	if got, want := env.LockPath(content.ScopeProject, "/repo"), filepath.FromSlash("/repo/.ai/.skill-lock.json"); got != want {
		t.Errorf("project LockPath = %q, want %q", got, want)
	}
	if got, want := env.LockPath(content.ScopeGlobal, ""), filepath.FromSlash("/home/dev/.ai/.skill-lock.json"); got != want {
		t.Errorf("global LockPath = %q, want %q", got, want)
	}
}

func TestAssistantHomeOverrides(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		get  func(Environment) string
		want string
	}{
		{"claude default", nil, Environment.ClaudeConfigDir, "/home/dev/.claude"},
		{"claude override", map[string]string{EnvClaudeConfigDir: "/opt/claude"}, Environment.ClaudeConfigDir, "/opt/claude"},
		{"claude tilde", map[string]string{EnvClaudeConfigDir: "~/cfg/claude"}, Environment.ClaudeConfigDir, "/home/dev/cfg/claude"},
		{"codex default", nil, Environment.CodexHome, "/home/dev/.codex"},
		{"codex override", map[string]string{EnvCodexHome: "/x/codex"}, Environment.CodexHome, "/x/codex"},
		{"xdg default", nil, Environment.XDGConfigHome, "/home/dev/.config"},
		{"xdg override", map[string]string{EnvXDGConfigHome: "/xdg"}, Environment.XDGConfigHome, "/xdg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.get(testEnv(tt.vars)); got != filepath.FromSlash(tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnvironmentIsSnapshot(t *testing.T) {
	vars := map[string]string{EnvCodexHome: "/a"}
	env := testEnv(vars)
	vars[EnvCodexHome] = "/b"

	if got := env.CodexHome(); got != filepath.FromSlash("/a") {
		t.Errorf("environment observed caller mutation: %q", got)
	}
}

func TestCatalogOverride(t *testing.T) {
	if got := testEnv(nil).CatalogOverride(); got != "" {
		t.Errorf("CatalogOverride() = %q, want empty", got)
	}
	env := testEnv(map[string]string{"DOTAI_CATALOG": "templates"})
	if got, want := env.CatalogOverride(), filepath.FromSlash("/work/repo/templates"); got != want {
		t.Errorf("CatalogOverride() = %q, want %q", got, want)
	}
}

func TestWithWorkDir(t *testing.T) {
	env := testEnv(nil).WithWorkDir("/other")
	if got, want := env.CanonicalRoot(content.ScopeProject, ""), filepath.FromSlash("/other/.ai"); got != want {
		t.Errorf("CanonicalRoot() = %q, want %q", got, want)
	}
}
