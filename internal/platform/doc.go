// Package platform wraps the filesystem operations whose behavior differs
// between operating systems: symlinks, permission bits and atomic file
// replacement. Windows without developer mode cannot create symlinks, so
// callers check IsSymlinkSupported or handle ErrSymlinkUnsupported and copy
// instead.
package platform
