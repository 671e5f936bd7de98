// Package manifest validates template frontmatter against the authoring
// rules of the catalog. Validation is pure: it takes parsed metadata and
// returns a structured result of errors and warnings, never an error value.
package manifest
