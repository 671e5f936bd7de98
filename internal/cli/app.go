package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dotai-labs/dotai/internal/assistants"
	"github.com/dotai-labs/dotai/internal/bridge"
	"github.com/dotai-labs/dotai/internal/catalog"
	"github.com/dotai-labs/dotai/internal/config"
	"github.com/dotai-labs/dotai/internal/content"
	"github.com/dotai-labs/dotai/internal/installer"
	"github.com/dotai-labs/dotai/internal/lockfile"
	"github.com/dotai-labs/dotai/internal/logging"
	"github.com/dotai-labs/dotai/internal/userdata"
	"github.com/dotai-labs/dotai/templates"
)

// app is everything a command needs, built once per invocation.
type app struct {
	env         userdata.Environment
	cfg         *config.Config
	logger      *slog.Logger
	scope       content.Scope
	projectRoot string
	prober      assistants.Prober

	cat *catalog.Catalog
	reg *assistants.Registry
}

type appKey struct{}

func withApp(ctx context.Context, a *app) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

func appFrom(cmd *cobra.Command) *app {
	a, _ := cmd.Context().Value(appKey{}).(*app)
	return a
}

func newApp(cmd *cobra.Command) (*app, error) {
	env, err := loadEnvironment()
	if err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	cfg, err := config.Load(env)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Get(config.KeyLogLevel))
	if err != nil {
		return nil, err
	}
	if flagVerbose {
		level = slog.LevelDebug
	}
	format, err := logging.ParseFormat(cfg.Get(config.KeyLogFormat))
	if err != nil {
		return nil, err
	}

	a := &app{
		env:    env,
		cfg:    cfg,
		logger: logging.New(cmd.ErrOrStderr(), level, format),
		scope:  content.ScopeProject,
		prober: newProber(),
	}
	if flagProject != "" {
		a.projectRoot = env.ResolvePath(flagProject)
	} else {
		a.projectRoot = env.WorkDir()
	}

	switch {
	case flagGlobal:
		a.scope = content.ScopeGlobal
	case flagProject == "":
		// Global preferences may make global the default scope.
		prefs, err := a.storeFor(content.ScopeGlobal).Preferences(cmd.Context())
		if err == nil && prefs.DefaultScope == content.ScopeGlobal {
			a.scope = content.ScopeGlobal
		}
	}
	a.logger = logging.WithScope(a.logger, string(a.scope))
	return a, nil
}

// catalog returns the configured template root, or the builtin corpus.
func (a *app) catalog() (*catalog.Catalog, error) {
	if a.cat != nil {
		return a.cat, nil
	}
	if root := a.cfg.CatalogRoot(); root != "" {
		cat, err := catalog.Open(root, catalog.WithLogger(a.logger))
		if err != nil {
			return nil, err
		}
		a.cat = cat
		return cat, nil
	}
	a.cat = catalog.New(templates.FS, catalog.WithSource(templates.Source), catalog.WithLogger(a.logger))
	return a.cat, nil
}

func (a *app) registry() (*assistants.Registry, error) {
	if a.reg != nil {
		return a.reg, nil
	}
	reg, err := assistants.New(a.env)
	if err != nil {
		return nil, err
	}
	a.reg = reg
	return reg, nil
}

func (a *app) installer() (*installer.Installer, error) {
	cat, err := a.catalog()
	if err != nil {
		return nil, err
	}
	return installer.New(cat, a.env, installer.WithLogger(a.logger)), nil
}

func (a *app) bridges() (*bridge.Generator, error) {
	reg, err := a.registry()
	if err != nil {
		return nil, err
	}
	return bridge.New(reg, bridge.WithLogger(a.logger)), nil
}

func (a *app) store() *lockfile.Store {
	return a.storeFor(a.scope)
}

func (a *app) storeFor(scope content.Scope) *lockfile.Store {
	return lockfile.ForScope(a.env, scope, a.projectRoot, lockfile.WithLogger(a.logger))
}

// assistantsFor picks the assistants for an install: explicit ids, then
// stored preferences, then whatever is detected on this machine.
func (a *app) assistantsFor(ctx context.Context, explicit []string) ([]string, error) {
	reg, err := a.registry()
	if err != nil {
		return nil, err
	}
	if len(explicit) > 0 {
		return reg.Resolve(explicit)
	}

	prefs, err := a.store().Preferences(ctx)
	if err != nil {
		return nil, err
	}
	if len(prefs.DefaultAssistants) > 0 {
		return reg.Resolve(prefs.DefaultAssistants)
	}

	if detected := reg.Detected(ctx, a.prober); len(detected) > 0 {
		a.logger.Debug("using detected assistants", "assistants", detected)
		return detected, nil
	}
	return nil, fmt.Errorf("no assistants detected; pass --assistant (see '%s assistants')", rootCmd.Name())
}

// wiredAssistants returns every assistant referenced by the lock file.
func (a *app) wiredAssistants(ctx context.Context) ([]string, error) {
	items, err := a.store().Items(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var ids []string
	for _, item := range items {
		for _, id := range item.Assistants {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

// method resolves the install method from the flag, then preferences.
func (a *app) method(ctx context.Context, flag string) (content.Method, error) {
	if flag != "" {
		return content.ParseMethod(flag)
	}
	prefs, err := a.store().Preferences(ctx)
	if err != nil {
		return "", err
	}
	if prefs.DefaultMethod != "" {
		return prefs.DefaultMethod, nil
	}
	return content.MethodCopy, nil
}
