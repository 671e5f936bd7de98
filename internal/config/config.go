package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/dotai-labs/dotai/internal/branding"
	"github.com/dotai-labs/dotai/internal/logging"
	"github.com/dotai-labs/dotai/internal/platform"
	"github.com/dotai-labs/dotai/internal/userdata"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Known keys.
const (
	KeyCatalogRoot = "catalog_root"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
)

// ErrUnknownKey is returned by Set for keys this build does not know.
var ErrUnknownKey = errors.New("unknown config key")

var defaults = map[string]string{
	KeyCatalogRoot: "",
	KeyLogLevel:    "warn",
	KeyLogFormat:   string(logging.FormatText),
}

// Keys returns the known keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Config is the user configuration for one environment.
type Config struct {
	v   *viper.Viper
	env userdata.Environment
}

// Dir returns the config directory (~/.ai/).
func Dir(env userdata.Environment) string {
	return env.ConfigDir()
}

// FilePath returns the full path to the config file (~/.ai/config.yaml).
func FilePath(env userdata.Environment) string {
	return filepath.Join(Dir(env), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir(env userdata.Environment) error {
	dir := Dir(env)
	if err := platform.EnsureDir(dir, userdata.DirPermNormal); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load reads the config file for env. A missing file is not an error.
func Load(env userdata.Environment) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(FilePath(env))
	v.SetConfigType(fileType)
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return &Config{v: v, env: env}, nil
}

// envName returns the override variable for key, e.g. DOTAI_LOG_LEVEL.
func envName(key string) string {
	return branding.EnvVar(strings.ToUpper(key))
}

// Get returns a config value by key. The environment overrides the file.
// Returns empty string if not set.
func (c *Config) Get(key string) string {
	if val := c.env.Getenv(envName(key)); val != "" {
		return val
	}
	return c.v.GetString(key)
}

// Set validates and writes a config key-value pair and saves the config
// file.
func (c *Config) Set(key, value string) error {
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("%w %q: expected one of %s", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	if err := validate(key, value); err != nil {
		return err
	}
	if err := EnsureDir(c.env); err != nil {
		return err
	}

	c.v.Set(key, value)
	if err := c.v.WriteConfigAs(FilePath(c.env)); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// CatalogRoot returns the configured template root, resolved against the
// working directory, or "" for the embedded corpus. DOTAI_CATALOG wins
// over the catalog_root key.
func (c *Config) CatalogRoot() string {
	root := c.env.CatalogOverride()
	if root == "" {
		root = c.Get(KeyCatalogRoot)
	}
	if root == "" {
		return ""
	}
	return c.env.ResolvePath(root)
}

func validate(key, value string) error {
	switch key {
	case KeyLogLevel:
		_, err := logging.ParseLevel(value)
		return err
	case KeyLogFormat:
		_, err := logging.ParseFormat(value)
		return err
	}
	return nil
}
