package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ErrSymlinkUnsupported is returned when the OS refuses to create a symlink,
// typically Windows without developer mode.
var ErrSymlinkUnsupported = errors.New("symlinks are not supported on this system")

// CreateSymlink creates a symbolic link at link pointing to target. A
// relative target is resolved from the directory containing link, as the
// OS does. On Windows a failed attempt is reported as ErrSymlinkUnsupported
// so callers can fall back to copying.
func CreateSymlink(target, link string) error {
	err := os.Symlink(target, link)
	if err == nil {
		return nil
	}
	if runtime.GOOS == "windows" {
		return fmt.Errorf("linking %s: %w", link, ErrSymlinkUnsupported)
	}
	return err
}

// RemoveSymlink removes the link itself, never its target.
func RemoveSymlink(path string) error {
	if !IsSymlink(path) {
		return fmt.Errorf("%s is not a symlink", path)
	}
	return os.Remove(path)
}

// IsSymlink reports whether path exists and is a symbolic link.
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// ReadSymlinkTarget returns the target of a symlink as an absolute path.
func ReadSymlinkTarget(path string) (string, error) {
	target, err := os.Readlink(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), nil
}

// IsSymlinkSupported returns true if the current platform supports native symlinks.
// On Windows this attempts a test symlink to check developer mode.
func IsSymlinkSupported() bool {
	if runtime.GOOS != "windows" {
		return true
	}

	dir, err := os.MkdirTemp("", "dotai-symlink-test-")
	if err != nil {
		return false
	}
	defer os.RemoveAll(dir)

	return os.Symlink(dir, filepath.Join(dir, "link")) == nil
}
