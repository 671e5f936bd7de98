// Package cli implements the dotai command tree using cobra. Commands are
// thin: they resolve scope, build the catalog, registry and installer from
// one environment snapshot, and print results.
package cli
