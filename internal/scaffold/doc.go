// Package scaffold creates new catalog items from embedded templates. It
// powers the "new" command, writing a content file with valid frontmatter
// and a starter body for each content type.
package scaffold
