package installer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dotai-labs/dotai/internal/catalog"
	"github.com/dotai-labs/dotai/internal/content"
	"github.com/dotai-labs/dotai/internal/lockfile"
	"github.com/dotai-labs/dotai/internal/logging"
	"github.com/dotai-labs/dotai/internal/platform"
	"github.com/dotai-labs/dotai/internal/userdata"
)

// ErrNoAssistants is reported for every item when an install names no
// assistants; an entry without assistants would be pruned from the lock.
var ErrNoAssistants = errors.New("no assistants selected")

// ErrInvalidID is returned when an id would not name a single entry
// under its type directory.
var ErrInvalidID = errors.New("invalid item id")

// Options controls one Install call.
type Options struct {
	Assistants []string
	Scope      content.Scope
	Method     content.Method
	// ProjectRoot is used for project scope; empty means the working
	// directory.
	ProjectRoot string
}

func (o Options) withDefaults() Options {
	if o.Scope == "" {
		o.Scope = content.ScopeProject
	}
	if o.Method == "" {
		o.Method = content.MethodCopy
	}
	return o
}

// Result is the outcome for one item.
type Result struct {
	Item    catalog.Item
	Success bool
	Path    string
	// Method is what was actually used, which may differ from the request
	// when symlinks are unavailable.
	Method content.Method
	Hash   string
	Err    error
}

// Summary aggregates the results of an Install call.
type Summary struct {
	Total      int
	Successful int
	Failed     int
	Results    []Result
}

// Installer places catalog content and records it in the lock file.
type Installer struct {
	cat    *catalog.Catalog
	env    userdata.Environment
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an Installer.
type Option func(*Installer)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(in *Installer) { in.logger = l }
}

// WithClock overrides the time source used for installedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(in *Installer) { in.now = now }
}

// New returns an Installer drawing content from cat.
func New(cat *catalog.Catalog, env userdata.Environment, opts ...Option) *Installer {
	in := &Installer{
		cat:    cat,
		env:    env,
		logger: logging.Discard(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(in)
	}
	return in
}

// Store returns the lock store for scope.
func (in *Installer) Store(scope content.Scope, projectRoot string) *lockfile.Store {
	return lockfile.ForScope(in.env, scope, projectRoot, lockfile.WithLogger(in.logger))
}

// Install places each item and records it in the lock file. Items are
// processed in order; a failure is recorded and the rest continue.
// Re-installing an item refreshes its content and merges assistants.
func (in *Installer) Install(ctx context.Context, items []catalog.Item, opts Options) *Summary {
	opts = opts.withDefaults()
	store := in.Store(opts.Scope, opts.ProjectRoot)

	sum := &Summary{Total: len(items), Results: make([]Result, 0, len(items))}
	for _, item := range items {
		res := in.installOne(ctx, store, item, opts)
		if res.Success {
			sum.Successful++
		} else {
			sum.Failed++
			logging.WithItem(in.logger, item.Key()).Warn("install failed", "error", res.Err)
		}
		sum.Results = append(sum.Results, res)
	}
	return sum
}

func (in *Installer) installOne(ctx context.Context, store *lockfile.Store, item catalog.Item, opts Options) Result {
	res := Result{Item: item}
	fail := func(err error) Result {
		res.Err = err
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if len(opts.Assistants) == 0 {
		return fail(ErrNoAssistants)
	}
	if !item.Type.Valid() || !content.ValidID(item.ID) {
		return fail(fmt.Errorf("invalid item %q", item.Key()))
	}

	hash, err := Fingerprint(in.cat.FS(), item.RelativePath)
	if err != nil {
		return fail(err)
	}
	res.Hash = hash

	dst := in.env.CanonicalPath(item.Type, item.ID, opts.Scope, opts.ProjectRoot)
	res.Path = dst

	method, err := in.place(item, dst, opts.Method)
	if err != nil {
		return fail(err)
	}
	res.Method = method

	err = store.Update(ctx, lockfile.InstalledItem{
		Type:        item.Type,
		ID:          item.ID,
		Source:      item.Source,
		Hash:        hash,
		InstalledAt: in.now().UTC(),
		Assistants:  opts.Assistants,
		Scope:       opts.Scope,
		Method:      method,
	})
	if err != nil {
		return fail(fmt.Errorf("recording %s: %w", item.Key(), err))
	}

	logging.WithItem(in.logger, item.Key()).Info("installed", "path", dst, "method", method)
	res.Success = true
	return res
}

// place puts item content at dst and returns the method used. Symlinks
// need an on-disk catalog; otherwise, or when the platform refuses, the
// content is copied.
func (in *Installer) place(item catalog.Item, dst string, want content.Method) (content.Method, error) {
	if want == content.MethodSymlink {
		src := in.cat.ItemDir(item)
		if src != "" {
			err := replaceLink(src, dst)
			if err == nil {
				return content.MethodSymlink, nil
			}
			if !errors.Is(err, platform.ErrSymlinkUnsupported) {
				return "", err
			}
			in.logger.Info("symlinks unavailable, copying", "item", item.Key())
		} else {
			in.logger.Debug("catalog is not on disk, copying", "item", item.Key())
		}
	}

	// A link at dst is renamed aside, never written through.
	if err := replaceTree(in.cat.FS(), item.RelativePath, dst); err != nil {
		return "", err
	}
	return content.MethodCopy, nil
}

// Uninstall removes the canonical content for (t, id) outright: the
// directory, or the link for symlinked installs. Content is shared, so
// this affects every assistant. It reports whether something was
// removed; failures are logged and reported as false. The lock file is
// not touched.
func (in *Installer) Uninstall(ctx context.Context, t content.Type, id string, scope content.Scope, projectRoot string) bool {
	if ctx.Err() != nil || !content.ValidID(id) {
		return false
	}
	p := in.env.CanonicalPath(t, id, scope, projectRoot)
	if _, err := os.Lstat(p); err != nil {
		return false
	}
	if err := clearPath(p); err != nil {
		logging.WithItem(in.logger, content.Key(t, id)).Warn("uninstall failed", "error", err)
		return false
	}
	return true
}

// IsInstalled reports whether canonical content for (t, id) is present.
// A dangling link counts as absent.
func (in *Installer) IsInstalled(t content.Type, id string, scope content.Scope, projectRoot string) bool {
	if !content.ValidID(id) {
		return false
	}
	_, err := os.Stat(in.env.CanonicalPath(t, id, scope, projectRoot))
	return err == nil
}

// RemoveResult describes what Remove did.
type RemoveResult struct {
	// Entry is false when the lock had no entry for the item.
	Entry bool
	// Remaining lists assistants still wired after the call.
	Remaining []string
	// ContentRemoved is true when the canonical content was deleted.
	ContentRemoved bool
}

// Remove unwires assistants from (t, id). With no assistants the entry is
// dropped entirely. Content is deleted once no assistant uses it.
func (in *Installer) Remove(ctx context.Context, t content.Type, id string, assistants []string, scope content.Scope, projectRoot string) (*RemoveResult, error) {
	if !content.ValidID(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	store := in.Store(scope, projectRoot)

	info, err := store.Info(ctx, t, id)
	if err != nil {
		return nil, err
	}
	res := &RemoveResult{Entry: info != nil}

	if len(assistants) == 0 {
		if _, err := store.Delete(ctx, t, id); err != nil {
			return nil, err
		}
	} else {
		for _, a := range assistants {
			if _, err := store.Remove(ctx, t, id, a); err != nil {
				return nil, err
			}
		}
		after, err := store.Info(ctx, t, id)
		if err != nil {
			return nil, err
		}
		if after != nil {
			res.Remaining = after.Assistants
			return res, nil
		}
	}

	res.ContentRemoved = in.Uninstall(ctx, t, id, scope, projectRoot)
	return res, nil
}
