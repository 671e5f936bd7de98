package userdata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dotai-labs/dotai/internal/branding"
)

// Environment variables that relocate an assistant family's global config.
const (
	EnvClaudeConfigDir = "CLAUDE_CONFIG_DIR"
	EnvCodexHome       = "CODEX_HOME"
	EnvXDGConfigHome   = "XDG_CONFIG_HOME"
)

// Environment is an immutable snapshot of the process inputs that affect
// path resolution.
type Environment struct {
	home    string
	workDir string
	vars    map[string]string
}

// FromOS captures the current process environment.
func FromOS() (Environment, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Environment{}, fmt.Errorf("resolving home directory: %w", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return Environment{}, fmt.Errorf("resolving working directory: %w", err)
	}

	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return NewEnvironment(home, wd, vars), nil
}

// NewEnvironment builds an Environment from explicit values. vars is copied.
func NewEnvironment(home, workDir string, vars map[string]string) Environment {
	copied := make(map[string]string, len(vars))
	for k, v := range vars {
		copied[k] = v
	}
	return Environment{
		home:    filepath.Clean(home),
		workDir: filepath.Clean(workDir),
		vars:    copied,
	}
}

// Home returns the user's home directory.
func (e Environment) Home() string { return e.home }

// WorkDir returns the working directory captured at startup.
func (e Environment) WorkDir() string { return e.workDir }

// Getenv returns the snapshot value of key, or "" when unset.
func (e Environment) Getenv(key string) string { return e.vars[key] }

// WithWorkDir returns a copy of e rooted at dir.
func (e Environment) WithWorkDir(dir string) Environment {
	e.workDir = e.resolve(dir)
	return e
}

// ClaudeConfigDir is CLAUDE_CONFIG_DIR, defaulting to ~/.claude.
func (e Environment) ClaudeConfigDir() string {
	return e.dirOr(EnvClaudeConfigDir, filepath.Join(e.home, ".claude"))
}

// CodexHome is CODEX_HOME, defaulting to ~/.codex.
func (e Environment) CodexHome() string {
	return e.dirOr(EnvCodexHome, filepath.Join(e.home, ".codex"))
}

// XDGConfigHome is XDG_CONFIG_HOME, defaulting to ~/.config.
func (e Environment) XDGConfigHome() string {
	return e.dirOr(EnvXDGConfigHome, filepath.Join(e.home, ".config"))
}

// CatalogOverride returns the DOTAI_CATALOG template root, or "".
func (e Environment) CatalogOverride() string {
	if v := e.vars[branding.EnvVar("CATALOG")]; v != "" {
		return e.resolve(v)
	}
	return ""
}

// ConfigDir is the user config directory, ~/.ai.
func (e Environment) ConfigDir() string {
	return filepath.Join(e.home, branding.HomeDir())
}

func (e Environment) dirOr(key, fallback string) string {
	if v := e.vars[key]; v != "" {
		return e.resolve(v)
	}
	return fallback
}

// resolve expands a leading ~ and anchors relative paths at the working
// directory.
func (e Environment) resolve(p string) string {
	if p == "~" {
		return e.home
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(e.home, p[2:])
	}
	if !filepath.IsAbs(p) {
		return filepath.Join(e.workDir, p)
	}
	return filepath.Clean(p)
}

// ResolvePath expands a leading ~ and anchors a relative p at the working
// directory.
func (e Environment) ResolvePath(p string) string {
	return e.resolve(p)
}
