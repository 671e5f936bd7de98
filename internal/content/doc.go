// Package content defines the closed vocabularies shared by the catalog,
// lock store and installer: content types, installation scopes and
// installation methods.
package content
