// Package bridge generates the small pointer files that send each
// assistant's context loader to the canonical .ai directory. Assistants
// that share a file convention share a family and get one file between
// them; the universal AGENTS.md is always produced.
//
// Bridge files are meant to be edited by users, so Write never replaces an
// existing file unless asked to.
package bridge
