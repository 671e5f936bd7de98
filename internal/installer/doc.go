// Package installer moves catalog items into canonical storage and keeps
// the lock file in step. Content for an item lives once, at
// <base>/.ai/<type>/<id>; assistants are wired to it through lock entries
// and bridge files, never through private copies.
//
// Multi-item installs are not atomic: each item succeeds or fails on its
// own and the Summary reports both.
package installer
