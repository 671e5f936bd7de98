// Package config manages user-level settings stored at ~/.ai/config.yaml.
// Settings can be overridden per process with DOTAI_<KEY> environment
// variables, e.g. DOTAI_CATALOG_ROOT.
package config
