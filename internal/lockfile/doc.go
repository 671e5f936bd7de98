// Package lockfile persists what dotai has installed, where, and for which
// assistants. There is one lock file per scope root, at
// <root>/.ai/.skill-lock.json. Documents are validated against an embedded
// JSON schema on read; anything missing or unreadable is treated as an
// empty lock rather than an error.
//
// Every read-modify-write cycle holds an in-process lock for the path and
// an advisory file lock on <path>.lock, and writes go through a temp file
// and rename, so concurrent dotai processes never lose updates or observe
// a partial file.
package lockfile
