// Package catalog discovers template items in a template root and answers
// listing and search queries over them.
//
// A template root is any fs.FS laid out as <type>/<id>/<FILE>.md, where
// FILE is the content file for the type (SKILL.md for skills, and so on).
// The builtin corpus is embedded; a directory on disk can replace it.
//
// Listing favors availability: a directory without its content file, or
// with an unreadable one, is left out without error. Lint is the strict
// counterpart that reports every such directory along with validation
// findings, for checking a corpus before it ships.
package catalog
