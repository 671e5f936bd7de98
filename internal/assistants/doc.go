// Package assistants describes the AI coding assistants dotai can wire
// content into: their identity, where each keeps content per type at
// project and global scope, which bridge file they read, and how to detect
// an installation.
//
// The table is embedded YAML, expanded once against a userdata.Environment
// when a Registry is built. Nothing here reads process state on its own.
package assistants
