// Package templates embeds the builtin catalog that ships with dotai. Each
// item is a directory <type>/<id>/ holding the type's content file and any
// supporting files.
package templates

import "embed"

// Source is the provenance recorded for items installed from FS.
const Source = "builtin"

//go:embed skills agents commands rules prompts
var FS embed.FS
