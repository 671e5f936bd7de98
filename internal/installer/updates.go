package installer

import (
	"context"
	"errors"
	"fmt"

	"github.com/dotai-labs/dotai/internal/catalog"
	"github.com/dotai-labs/dotai/internal/content"
)

// Update describes one installed item whose catalog content has moved on.
type Update struct {
	Key           string
	InstalledHash string
	// AvailableHash is empty when Missing is set.
	AvailableHash string
	// Missing means the item is no longer in the catalog.
	Missing bool
}

// CheckForUpdates compares lock hashes against the current catalog.
// Entries installed from a different source are skipped. The check time
// is recorded in the lock file.
func (in *Installer) CheckForUpdates(ctx context.Context, scope content.Scope, projectRoot string) ([]Update, error) {
	store := in.Store(scope, projectRoot)
	items, err := store.Items(ctx)
	if err != nil {
		return nil, err
	}

	var updates []Update
	for _, entry := range items {
		if entry.Source != in.cat.Source() {
			in.logger.Debug("skipping entry from other source", "item", entry.Key(), "source", entry.Source)
			continue
		}
		item, err := in.cat.Get(ctx, entry.Type, entry.ID)
		if errors.Is(err, catalog.ErrNotFound) {
			updates = append(updates, Update{Key: entry.Key(), InstalledHash: entry.Hash, Missing: true})
			continue
		}
		if err != nil {
			return nil, err
		}
		hash, err := Fingerprint(in.cat.FS(), item.RelativePath)
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", entry.Key(), err)
		}
		if hash != entry.Hash {
			updates = append(updates, Update{Key: entry.Key(), InstalledHash: entry.Hash, AvailableHash: hash})
		}
	}

	if err := store.MarkUpdateCheck(ctx, in.now()); err != nil {
		return nil, err
	}
	return updates, nil
}
