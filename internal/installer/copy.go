package installer

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dotai-labs/dotai/internal/platform"
	"github.com/dotai-labs/dotai/internal/userdata"
)

// excludedNames are files and directories never copied or fingerprinted.
var excludedNames = map[string]bool{
	"node_modules": true,
	".git":         true,
	".DS_Store":    true,
}

func shouldExclude(name string) bool {
	return excludedNames[name]
}

// copyTree copies the directory src of fsys to dst on disk, overwriting
// files already present. Files keep their executable bit; everything else
// gets normal permissions, since embedded files report read-only modes.
func copyTree(fsys fs.FS, src, dst string) error {
	if err := platform.EnsureDir(dst, userdata.DirPermNormal); err != nil {
		return err
	}

	return walkFiles(fsys, src, func(rel string, info fs.FileInfo) error {
		target := filepath.Join(dst, filepath.FromSlash(rel))
		if info.IsDir() {
			return platform.EnsureDir(target, userdata.DirPermNormal)
		}

		data, err := fs.ReadFile(fsys, path.Join(src, rel))
		if err != nil {
			return fmt.Errorf("reading %s: %w", rel, err)
		}
		perm := userdata.FilePermNormal
		if info.Mode().Perm()&0o111 != 0 {
			perm = 0o755
		}
		if err := platform.WriteFileAtomic(target, data, perm); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
		return nil
	})
}

// replaceTree copies src into a hidden sibling of dst and swaps it into
// place, so dst only ever holds a complete copy of the current source.
// Files that left the source do not survive a reinstall.
func replaceTree(fsys fs.FS, src, dst string) error {
	parent := filepath.Dir(dst)
	if err := platform.EnsureDir(parent, userdata.DirPermNormal); err != nil {
		return err
	}
	stage, err := os.MkdirTemp(parent, "."+filepath.Base(dst)+".new-*")
	if err != nil {
		return fmt.Errorf("staging %s: %w", dst, err)
	}
	defer os.RemoveAll(stage)

	if err := platform.Chmod(stage, userdata.DirPermNormal); err != nil {
		return err
	}
	if err := copyTree(fsys, src, stage); err != nil {
		return err
	}

	var old string
	if _, err := os.Lstat(dst); err == nil {
		old = stage + ".old"
		if err := os.Rename(dst, old); err != nil {
			return fmt.Errorf("replacing %s: %w", dst, err)
		}
	}
	if err := os.Rename(stage, dst); err != nil {
		if old != "" {
			_ = os.Rename(old, dst)
		}
		return fmt.Errorf("replacing %s: %w", dst, err)
	}
	if old != "" {
		return clearPath(old)
	}
	return nil
}

// walkFiles visits every directory and regular file under root in lexical
// order, skipping excluded names and anything that is neither. rel is
// slash-separated and relative to root; root itself is not visited.
func walkFiles(fsys fs.FS, root string, fn func(rel string, info fs.FileInfo) error) error {
	return fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if shouldExclude(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		// Stat follows symlinked files in on-disk catalogs.
		info, err := fs.Stat(fsys, p)
		if err != nil {
			return err
		}
		if !info.IsDir() && !info.Mode().IsRegular() {
			return nil
		}
		if info.IsDir() && !d.IsDir() {
			// Symlinked directories are not followed.
			return nil
		}
		return fn(relTo(root, p), info)
	})
}

func relTo(root, p string) string {
	if root == "." {
		return p
	}
	return strings.TrimPrefix(p, root+"/")
}

// replaceLink points dst at target, replacing whatever is at dst.
func replaceLink(target, dst string) error {
	if err := clearPath(dst); err != nil {
		return err
	}
	if err := platform.EnsureDir(filepath.Dir(dst), userdata.DirPermNormal); err != nil {
		return err
	}
	return platform.CreateSymlink(target, dst)
}

// clearPath removes a symlink or directory at p. A missing p is fine.
func clearPath(p string) error {
	if platform.IsSymlink(p) {
		return platform.RemoveSymlink(p)
	}
	if err := os.RemoveAll(p); err != nil {
		return fmt.Errorf("removing %s: %w", p, err)
	}
	return nil
}
