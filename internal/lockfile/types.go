package lockfile

import (
	"sort"
	"time"

	"github.com/dotai-labs/dotai/internal/content"
)

// Version is the lock file schema version written by this build.
const Version = "1.0.0"

// InstalledItem records one (type, id) installation.
type InstalledItem struct {
	Type        content.Type   `json:"type"`
	ID          string         `json:"id"`
	Source      string         `json:"source"`
	Hash        string         `json:"hash"`
	InstalledAt time.Time      `json:"installedAt"`
	Assistants  []string       `json:"assistants"`
	Scope       content.Scope  `json:"scope"`
	Method      content.Method `json:"method"`
}

// Key returns the map key for the item, "<type>/<id>".
func (i InstalledItem) Key() string {
	return content.Key(i.Type, i.ID)
}

// HasAssistant reports whether the item is wired to id.
func (i InstalledItem) HasAssistant(id string) bool {
	for _, a := range i.Assistants {
		if a == id {
			return true
		}
	}
	return false
}

// Preferences are per-scope installation defaults.
type Preferences struct {
	DefaultAssistants []string       `json:"defaultAssistants,omitempty"`
	DefaultScope      content.Scope  `json:"defaultScope,omitempty"`
	DefaultMethod     content.Method `json:"defaultMethod,omitempty"`
}

// LockFile is the root persisted document.
type LockFile struct {
	Version         string                   `json:"version"`
	LastUpdateCheck *time.Time               `json:"lastUpdateCheck,omitempty"`
	Installed       map[string]InstalledItem `json:"installed"`
	Preferences     *Preferences             `json:"preferences,omitempty"`
}

// Empty returns a lock file with no entries at the current version.
func Empty() *LockFile {
	return &LockFile{
		Version:   Version,
		Installed: make(map[string]InstalledItem),
	}
}

// Merge adds item, unioning its assistants with any existing entry for the
// same key. All other fields take item's values.
func (lf *LockFile) Merge(item InstalledItem) {
	if lf.Installed == nil {
		lf.Installed = make(map[string]InstalledItem)
	}
	key := item.Key()
	if existing, ok := lf.Installed[key]; ok {
		item.Assistants = union(existing.Assistants, item.Assistants)
	} else {
		item.Assistants = union(nil, item.Assistants)
	}
	lf.Installed[key] = item
}

// RemoveAssistant unwires assistantID from the entry for (t, id), deleting
// the entry when no assistants remain. It reports whether anything changed.
func (lf *LockFile) RemoveAssistant(t content.Type, id, assistantID string) bool {
	key := content.Key(t, id)
	item, ok := lf.Installed[key]
	if !ok || !item.HasAssistant(assistantID) {
		return false
	}

	kept := make([]string, 0, len(item.Assistants))
	for _, a := range item.Assistants {
		if a != assistantID {
			kept = append(kept, a)
		}
	}
	if len(kept) == 0 {
		delete(lf.Installed, key)
		return true
	}
	item.Assistants = kept
	lf.Installed[key] = item
	return true
}

// Delete drops the entry for (t, id) regardless of its assistants.
func (lf *LockFile) Delete(t content.Type, id string) bool {
	key := content.Key(t, id)
	if _, ok := lf.Installed[key]; !ok {
		return false
	}
	delete(lf.Installed, key)
	return true
}

// normalize restores the document invariants: a non-nil map, keys that
// match their entries, sorted unique assistants, and no entry without
// assistants.
func (lf *LockFile) normalize() {
	if lf.Version == "" {
		lf.Version = Version
	}
	items := lf.Installed
	lf.Installed = make(map[string]InstalledItem, len(items))
	for _, item := range items {
		item.Assistants = union(nil, item.Assistants)
		if len(item.Assistants) == 0 {
			continue
		}
		lf.Installed[item.Key()] = item
	}
}

// Items returns all entries sorted by key.
func (lf *LockFile) Items() []InstalledItem {
	out := make([]InstalledItem, 0, len(lf.Installed))
	for _, item := range lf.Installed {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
