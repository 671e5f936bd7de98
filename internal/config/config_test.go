package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dotai-labs/dotai/internal/userdata"
)

func testEnv(t *testing.T, vars map[string]string) userdata.Environment {
	t.Helper()
	root := t.TempDir()
	return userdata.NewEnvironment(filepath.Join(root, "home"), filepath.Join(root, "work"), vars)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(testEnv(t, nil))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	tests := map[string]string{
		KeyCatalogRoot: "",
		KeyLogLevel:    "warn",
		KeyLogFormat:   "text",
	}
	for key, want := range tests {
		if got := cfg.Get(key); got != want {
			t.Errorf("Get(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestSet_PersistsAcrossLoads(t *testing.T) {
	env := testEnv(t, nil)
	cfg, err := Load(env)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Set(KeyLogLevel, "debug"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if _, err := os.Stat(FilePath(env)); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	reloaded, err := Load(env)
	if err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Get(KeyLogLevel); got != "debug" {
		t.Errorf("Get(log_level) after reload = %q, want debug", got)
	}
}

func TestSet_Rejects(t *testing.T) {
	cfg, err := Load(testEnv(t, nil))
	if err != nil {
		t.Fatal(err)
	}

	if err := cfg.Set("mirror", "x"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Set(unknown) error = %v, want ErrUnknownKey", err)
	}
	if err := cfg.Set(KeyLogLevel, "loud"); err == nil {
		t.Error("Set(log_level, loud) should fail")
	}
	if err := cfg.Set(KeyLogFormat, "xml"); err == nil {
		t.Error("Set(log_format, xml) should fail")
	}
}

func TestGet_EnvironmentOverrides(t *testing.T) {
	env := testEnv(t, map[string]string{"DOTAI_LOG_FORMAT": "json"})
	cfg, err := Load(env)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Set(KeyLogFormat, "text"); err != nil {
		t.Fatal(err)
	}
	if got := cfg.Get(KeyLogFormat); got != "json" {
		t.Errorf("Get(log_format) = %q, want env override json", got)
	}
}

func TestLoad_BadFile(t *testing.T) {
	env := testEnv(t, nil)
	if err := EnsureDir(env); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(FilePath(env), []byte("log_level: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(env); err == nil {
		t.Error("Load() should report a malformed config file")
	}
}

func TestCatalogRoot(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		cfg, _ := Load(testEnv(t, nil))
		if got := cfg.CatalogRoot(); got != "" {
			t.Errorf("CatalogRoot() = %q, want empty", got)
		}
	})

	t.Run("relative key resolves against workdir", func(t *testing.T) {
		env := testEnv(t, nil)
		cfg, _ := Load(env)
		if err := cfg.Set(KeyCatalogRoot, "my-templates"); err != nil {
			t.Fatal(err)
		}
		want := filepath.Join(env.WorkDir(), "my-templates")
		if got := cfg.CatalogRoot(); got != want {
			t.Errorf("CatalogRoot() = %q, want %q", got, want)
		}
	})

	t.Run("DOTAI_CATALOG wins", func(t *testing.T) {
		env := testEnv(t, map[string]string{"DOTAI_CATALOG": "~/corpus"})
		cfg, _ := Load(env)
		if err := cfg.Set(KeyCatalogRoot, "/elsewhere"); err != nil {
			t.Fatal(err)
		}
		got := cfg.CatalogRoot()
		if !strings.HasSuffix(got, filepath.Join("home", "corpus")) {
			t.Errorf("CatalogRoot() = %q, want ~/corpus", got)
		}
	})
}

func TestKeys(t *testing.T) {
	if got := strings.Join(Keys(), ","); got != "catalog_root,log_format,log_level" {
		t.Errorf("Keys() = %q", got)
	}
}
