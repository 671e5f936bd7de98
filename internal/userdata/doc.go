// Package userdata resolves where dotai keeps state on disk. An Environment
// is a snapshot of the home directory, working directory and environment
// variables taken once at startup; every path in the system derives from
// it, so tests can fabricate one instead of touching the real home.
package userdata
