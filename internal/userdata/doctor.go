package userdata

import (
	"fmt"
	"io"
	"os"

	"github.com/dotai-labs/dotai/internal/content"
	"github.com/dotai-labs/dotai/internal/platform"
)

// CheckLayout reports on the canonical directory of one scope: whether it
// exists, which type directories are present and whether the lock file is
// readable. When fix is true, it creates the canonical root and repairs
// lock file permissions.
func CheckLayout(w io.Writer, env Environment, scope content.Scope, projectRoot string, fix bool) error {
	root := env.CanonicalRoot(scope, projectRoot)

	fmt.Fprintf(w, "Layout check (%s):\n", scope)

	if _, statErr := os.Stat(root); os.IsNotExist(statErr) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", root)
		if !fix {
			fmt.Fprintln(w, "         Install an item or run 'dotai init' to create it")
			return nil
		}
		if err := platform.EnsureDir(root, DirPermNormal); err != nil {
			return fmt.Errorf("auto-fix canonical root: %w", err)
		}
		fmt.Fprintf(w, "  [FIX ] Created %s\n", root)
	} else if statErr != nil {
		return fmt.Errorf("checking %s: %w", root, statErr)
	} else {
		fmt.Fprintf(w, "  [ OK ] %s exists\n", root)
	}

	for _, t := range content.All() {
		checkTypeDir(w, env.TypeDir(t, scope, projectRoot))
	}

	checkLockFile(w, env.LockPath(scope, projectRoot), fix)
	return nil
}

func checkTypeDir(w io.Writer, path string) {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		fmt.Fprintf(w, "  [ -- ] %s not present\n", path)
	case err != nil:
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
	case !info.IsDir():
		fmt.Fprintf(w, "  [WARN] %s exists but is not a directory\n", path)
	default:
		fmt.Fprintf(w, "  [ OK ] %s\n", path)
	}
}

func checkLockFile(w io.Writer, path string, fix bool) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		fmt.Fprintf(w, "  [MISS] %s does not exist (nothing installed yet)\n", path)
		return
	}
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return
	}

	f, err := os.Open(path)
	if err == nil {
		f.Close()
	}
	perm := info.Mode().Perm()
	if err == nil && perm&0200 != 0 {
		fmt.Fprintf(w, "  [ OK ] %s (permissions %o)\n", path, perm)
		return
	}

	fmt.Fprintf(w, "  [WARN] %s has permissions %o (expected %o)\n", path, perm, FilePermNormal)
	if fix {
		if chErr := platform.Chmod(path, FilePermNormal); chErr != nil {
			fmt.Fprintf(w, "  [FAIL] Could not fix permissions on %s: %v\n", path, chErr)
			return
		}
		fmt.Fprintf(w, "  [FIX ] Fixed permissions on %s to %o\n", path, FilePermNormal)
	}
}
