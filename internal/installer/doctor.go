package installer

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/dotai-labs/dotai/internal/content"
)

// Report lists divergences between the lock file and canonical storage.
// Keys are "<type>/<id>" in sorted order.
type Report struct {
	// Missing entries are in the lock file but have no content.
	Missing []string
	// Untracked content exists on disk without a lock entry.
	Untracked []string
	// Modified copies no longer match the hash they were installed with.
	Modified []string
}

// Healthy reports whether nothing diverged.
func (r *Report) Healthy() bool {
	return len(r.Missing) == 0 && len(r.Untracked) == 0 && len(r.Modified) == 0
}

// Doctor cross-checks the lock file against canonical storage for scope.
func (in *Installer) Doctor(ctx context.Context, scope content.Scope, projectRoot string) (*Report, error) {
	items, err := in.Store(scope, projectRoot).Items(ctx)
	if err != nil {
		return nil, err
	}

	rep := &Report{}
	tracked := make(map[string]bool, len(items))
	for _, entry := range items {
		tracked[entry.Key()] = true
		p := in.env.CanonicalPath(entry.Type, entry.ID, scope, projectRoot)
		if _, err := os.Stat(p); err != nil {
			rep.Missing = append(rep.Missing, entry.Key())
			continue
		}
		if entry.Method != content.MethodCopy {
			continue
		}
		hash, err := Fingerprint(os.DirFS(p), ".")
		if err != nil {
			return nil, err
		}
		if hash != entry.Hash {
			rep.Modified = append(rep.Modified, entry.Key())
		}
	}

	for _, t := range content.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries, err := os.ReadDir(in.env.TypeDir(t, scope, projectRoot))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".") {
				continue
			}
			if !e.IsDir() && e.Type()&fs.ModeSymlink == 0 {
				continue
			}
			if key := content.Key(t, e.Name()); !tracked[key] {
				rep.Untracked = append(rep.Untracked, key)
			}
		}
	}
	sort.Strings(rep.Untracked)
	return rep, nil
}
