package userdata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dotai-labs/dotai/internal/platform"
)

// GitignorePatterns are the project paths that should never be committed.
func GitignorePatterns() []string {
	return []string{
		"/" + CanonicalDir + "/" + LockFileName + LockSuffix,
	}
}

// AddToGitignore appends each missing pattern to <projectRoot>/.gitignore
// and returns the ones it added. Existing lines are left untouched.
func AddToGitignore(projectRoot string, patterns ...string) ([]string, error) {
	path := filepath.Join(projectRoot, ".gitignore")

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading .gitignore: %w", err)
	}

	present := make(map[string]bool)
	for _, l := range strings.Split(string(data), "\n") {
		present[strings.TrimSpace(l)] = true
	}

	var added []string
	var b strings.Builder
	b.Write(data)
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		b.WriteString("\n")
	}
	for _, p := range patterns {
		if present[p] {
			continue
		}
		present[p] = true
		b.WriteString(p + "\n")
		added = append(added, p)
	}
	if len(added) == 0 {
		return nil, nil
	}

	if err := platform.WriteFileAtomic(path, []byte(b.String()), FilePermNormal); err != nil {
		return nil, fmt.Errorf("writing .gitignore: %w", err)
	}
	return added, nil
}
