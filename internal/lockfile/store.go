package lockfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/dotai-labs/dotai/internal/content"
	"github.com/dotai-labs/dotai/internal/logging"
	"github.com/dotai-labs/dotai/internal/platform"
	"github.com/dotai-labs/dotai/internal/userdata"
)

// ErrLocked is returned when the lock file stays held by another writer
// until the context ends.
var ErrLocked = errors.New("lock file is busy")

const lockRetryDelay = 25 * time.Millisecond

// pathGates serializes writers within this process, one gate per lock
// path. flock alone is not enough because it may be reentrant for the same
// process on some platforms.
var pathGates sync.Map // map[string]chan struct{}

func gateFor(path string) chan struct{} {
	g, _ := pathGates.LoadOrStore(path, make(chan struct{}, 1))
	return g.(chan struct{})
}

// Store reads and writes one lock file.
type Store struct {
	path   string
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for recoverable problems.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a store for the lock file at path.
func NewStore(path string, opts ...Option) *Store {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	s := &Store{path: path, logger: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ForScope creates the store for a scope's lock file.
func ForScope(env userdata.Environment, scope content.Scope, projectRoot string, opts ...Option) *Store {
	return NewStore(env.LockPath(scope, projectRoot), opts...)
}

// Path returns the lock file location.
func (s *Store) Path() string {
	return s.path
}

// Read returns the current document. A missing, malformed or older-format
// file yields Empty(). Only I/O failures and files from a newer major
// version are errors.
func (s *Store) Read(ctx context.Context) (*LockFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading lock file: %w", err)
	}

	lf, err := Decode(data)
	if errors.Is(err, ErrUnsupportedVersion) {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if err != nil {
		s.logger.Warn("ignoring unreadable lock file", "path", s.path, "error", err)
		return Empty(), nil
	}
	return lf, nil
}

// Write replaces the lock file with lf.
func (s *Store) Write(ctx context.Context, lf *LockFile) error {
	return s.withLock(ctx, func() error {
		return s.write(lf)
	})
}

// Mutate runs a read-modify-write cycle under the store's locks. fn's
// changes are written only when it returns nil.
func (s *Store) Mutate(ctx context.Context, fn func(*LockFile) error) error {
	return s.withLock(ctx, func() error {
		lf, err := s.Read(ctx)
		if err != nil {
			return err
		}
		if err := fn(lf); err != nil {
			return err
		}
		return s.write(lf)
	})
}

// Update merges item into its entry, unioning assistants.
func (s *Store) Update(ctx context.Context, item InstalledItem) error {
	return s.Mutate(ctx, func(lf *LockFile) error {
		lf.Merge(item)
		return nil
	})
}

// Remove unwires assistantID from (t, id), deleting the entry when its
// last assistant goes. It reports whether the entry referenced assistantID.
func (s *Store) Remove(ctx context.Context, t content.Type, id, assistantID string) (bool, error) {
	var changed bool
	err := s.Mutate(ctx, func(lf *LockFile) error {
		changed = lf.RemoveAssistant(t, id, assistantID)
		return nil
	})
	return changed, err
}

// Delete drops the entry for (t, id) for every assistant.
func (s *Store) Delete(ctx context.Context, t content.Type, id string) (bool, error) {
	var changed bool
	err := s.Mutate(ctx, func(lf *LockFile) error {
		changed = lf.Delete(t, id)
		return nil
	})
	return changed, err
}

// SetPreferences replaces the stored preferences.
func (s *Store) SetPreferences(ctx context.Context, p Preferences) error {
	return s.Mutate(ctx, func(lf *LockFile) error {
		lf.Preferences = &p
		return nil
	})
}

// MarkUpdateCheck records when updates were last checked for.
func (s *Store) MarkUpdateCheck(ctx context.Context, at time.Time) error {
	return s.Mutate(ctx, func(lf *LockFile) error {
		at = at.UTC()
		lf.LastUpdateCheck = &at
		return nil
	})
}

// IsInstalled reports whether an entry exists for (t, id).
func (s *Store) IsInstalled(ctx context.Context, t content.Type, id string) (bool, error) {
	info, err := s.Info(ctx, t, id)
	return info != nil, err
}

// Info returns the entry for (t, id), or nil when there is none.
func (s *Store) Info(ctx context.Context, t content.Type, id string) (*InstalledItem, error) {
	lf, err := s.Read(ctx)
	if err != nil {
		return nil, err
	}
	item, ok := lf.Installed[content.Key(t, id)]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

// ItemsByType returns the entries of type t sorted by id.
func (s *Store) ItemsByType(ctx context.Context, t content.Type) ([]InstalledItem, error) {
	lf, err := s.Read(ctx)
	if err != nil {
		return nil, err
	}
	var out []InstalledItem
	for _, item := range lf.Installed {
		if item.Type == t {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Items returns every entry sorted by key.
func (s *Store) Items(ctx context.Context) ([]InstalledItem, error) {
	lf, err := s.Read(ctx)
	if err != nil {
		return nil, err
	}
	return lf.Items(), nil
}

// Preferences returns the stored preferences, zero when unset.
func (s *Store) Preferences(ctx context.Context) (Preferences, error) {
	lf, err := s.Read(ctx)
	if err != nil {
		return Preferences{}, err
	}
	if lf.Preferences == nil {
		return Preferences{}, nil
	}
	return *lf.Preferences, nil
}

func (s *Store) write(lf *LockFile) error {
	lf.normalize()

	data, err := json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling lock file: %w", err)
	}
	data = append(data, '\n')

	if err := platform.WriteFileAtomic(s.path, data, userdata.FilePermNormal); err != nil {
		return fmt.Errorf("writing lock file: %w", err)
	}
	return nil
}

// withLock holds the in-process gate and the advisory file lock for the
// duration of fn.
func (s *Store) withLock(ctx context.Context, fn func() error) error {
	gate := gateFor(s.path)
	select {
	case gate <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrLocked, ctx.Err())
	}
	defer func() { <-gate }()

	if err := platform.EnsureDir(filepath.Dir(s.path), userdata.DirPermNormal); err != nil {
		return fmt.Errorf("creating lock directory: %w", err)
	}

	fl := flock.New(s.path + userdata.LockSuffix)
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrLocked, ctx.Err())
		}
		return fmt.Errorf("acquiring lock on %s: %w", s.path, err)
	}
	if !locked {
		return ErrLocked
	}
	defer fl.Unlock()

	return fn()
}
