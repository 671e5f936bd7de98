package userdata

import (
	"os"
	"path/filepath"

	"github.com/dotai-labs/dotai/internal/content"
)

// Directory and file name constants for the canonical layout.
const (
	CanonicalDir = ".ai"
	LockFileName = ".skill-lock.json"
	// LockSuffix names the advisory lock file that sits next to a lock
	// file while it is being rewritten.
	LockSuffix = ".lock"
	// ContextDir is a free-form directory of project notes that bridge
	// files point at when present. It holds no catalog items.
	ContextDir = "context"
)

// Permission constants.
const (
	DirPermNormal  os.FileMode = 0755
	FilePermNormal os.FileMode = 0644
)

// BaseDir returns the root a scope is anchored at: the home directory for
// global scope, projectRoot (default the working directory) for project
// scope.
func (e Environment) BaseDir(scope content.Scope, projectRoot string) string {
	if scope == content.ScopeGlobal {
		return e.home
	}
	if projectRoot == "" {
		return e.workDir
	}
	return e.resolve(projectRoot)
}

// CanonicalRoot returns <base>/.ai.
func (e Environment) CanonicalRoot(scope content.Scope, projectRoot string) string {
	return filepath.Join(e.BaseDir(scope, projectRoot), CanonicalDir)
}

// TypeDir returns <base>/.ai/<type>.
func (e Environment) TypeDir(t content.Type, scope content.Scope, projectRoot string) string {
	return filepath.Join(e.CanonicalRoot(scope, projectRoot), string(t))
}

// CanonicalPath returns <base>/.ai/<type>/<id>, the single location an
// installed item lives at regardless of which assistants use it.
func (e Environment) CanonicalPath(t content.Type, id string, scope content.Scope, projectRoot string) string {
	return filepath.Join(e.TypeDir(t, scope, projectRoot), id)
}

// LockPath returns <base>/.ai/.skill-lock.json.
func (e Environment) LockPath(scope content.Scope, projectRoot string) string {
	return filepath.Join(e.CanonicalRoot(scope, projectRoot), LockFileName)
}
