package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/dotai-labs/dotai/internal/content"
	"github.com/dotai-labs/dotai/internal/frontmatter"
	"github.com/dotai-labs/dotai/internal/logging"
)

// ErrNotFound is returned by Get when no item matches.
var ErrNotFound = errors.New("item not found in catalog")

// Item is one discoverable template unit.
type Item struct {
	ID          string
	Name        string
	Description string
	Type        content.Type
	Category    string
	Tags        []string
	// RelativePath is the item directory under the template root, slash
	// separated.
	RelativePath string
	Source       string
}

// Key returns "<type>/<id>".
func (i Item) Key() string {
	return content.Key(i.Type, i.ID)
}

// ContentPath is the slash-separated path of the item's content file
// within the template root.
func (i Item) ContentPath() string {
	return path.Join(i.RelativePath, i.Type.FileName())
}

// Catalog reads items from a template root.
type Catalog struct {
	fsys   fs.FS
	source string
	dir    string
	logger *slog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithSource sets the provenance string recorded for installed items.
func WithSource(source string) Option {
	return func(c *Catalog) { c.source = source }
}

// WithDir records that the template root is the on-disk directory dir,
// which lets installs link to item directories instead of copying them.
func WithDir(dir string) Option {
	return func(c *Catalog) { c.dir = dir }
}

// WithLogger sets the logger for excluded items.
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a catalog over fsys.
func New(fsys fs.FS, opts ...Option) *Catalog {
	c := &Catalog{fsys: fsys, source: "unknown", logger: logging.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open creates a catalog over the directory dir on disk.
func Open(dir string, opts ...Option) (*Catalog, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving catalog root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("opening catalog root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog root %s is not a directory", abs)
	}
	base := []Option{WithDir(abs), WithSource("local:" + filepath.ToSlash(abs))}
	return New(os.DirFS(abs), append(base, opts...)...), nil
}

// Source returns the provenance string for items from this catalog.
func (c *Catalog) Source() string { return c.source }

// Dir returns the on-disk template root, or "" for a non-disk catalog.
func (c *Catalog) Dir() string { return c.dir }

// FS returns the template root.
func (c *Catalog) FS() fs.FS { return c.fsys }

// ItemDir returns the on-disk directory of item, or "" when the catalog is
// not backed by a directory.
func (c *Catalog) ItemDir(item Item) string {
	if c.dir == "" {
		return ""
	}
	return filepath.Join(c.dir, filepath.FromSlash(item.RelativePath))
}

// Load returns every item, grouped by type in content.All order and sorted
// by name within each type. Types are discovered concurrently.
func (c *Catalog) Load(ctx context.Context) ([]Item, error) {
	types := content.All()
	results := make([][]Item, len(types))

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range types {
		g.Go(func() error {
			items, err := c.LoadType(gctx, t)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Item
	for _, items := range results {
		all = append(all, items...)
	}
	return all, nil
}

// LoadType returns the items of type t sorted by case-insensitive name. A
// missing type directory yields an empty list.
func (c *Catalog) LoadType(ctx context.Context, t content.Type) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirs, err := c.itemDirs(t)
	if err != nil {
		c.logger.Warn("skipping unreadable type directory", "type", t, "error", err)
		return nil, nil
	}

	items := make([]Item, 0, len(dirs))
	for _, id := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, reason := c.loadItem(t, id)
		if reason != "" {
			c.logger.Debug("excluding catalog item", "item", content.Key(t, id), "reason", reason)
			continue
		}
		items = append(items, item)
	}

	sortItems(items)
	return items, nil
}

// Get returns the item (t, id).
func (c *Catalog) Get(ctx context.Context, t content.Type, id string) (Item, error) {
	if err := ctx.Err(); err != nil {
		return Item{}, err
	}
	if !content.ValidID(id) {
		return Item{}, fmt.Errorf("%w: %s", ErrNotFound, content.Key(t, id))
	}
	item, reason := c.loadItem(t, id)
	if reason != "" {
		return Item{}, fmt.Errorf("%w: %s (%s)", ErrNotFound, content.Key(t, id), reason)
	}
	return item, nil
}

// Search returns items whose name, description, category or any tag
// contains query, case-insensitively, in Load order. An empty query
// matches everything.
func (c *Catalog) Search(ctx context.Context, query string) ([]Item, error) {
	all, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all, nil
	}

	var out []Item
	for _, item := range all {
		if matches(item, q) {
			out = append(out, item)
		}
	}
	return out, nil
}

func matches(item Item, q string) bool {
	if strings.Contains(strings.ToLower(item.Name), q) ||
		strings.Contains(strings.ToLower(item.Description), q) ||
		strings.Contains(strings.ToLower(item.Category), q) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Content returns the raw text of item's content file. It is read on every
// call.
func (c *Catalog) Content(item Item) (string, error) {
	data, err := fs.ReadFile(c.fsys, item.ContentPath())
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", item.Key(), err)
	}
	return string(data), nil
}

// itemDirs lists the candidate item directories of type t.
func (c *Catalog) itemDirs(t content.Type) ([]string, error) {
	entries, err := fs.ReadDir(c.fsys, string(t))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !e.IsDir() {
			// Follow symlinked item directories in on-disk catalogs.
			info, err := fs.Stat(c.fsys, path.Join(string(t), name))
			if err != nil || !info.IsDir() {
				continue
			}
		}
		ids = append(ids, name)
	}
	return ids, nil
}

// loadItem reads one item. A non-empty reason means it is excluded.
func (c *Catalog) loadItem(t content.Type, id string) (Item, string) {
	rel := path.Join(string(t), id)
	data, err := fs.ReadFile(c.fsys, path.Join(rel, t.FileName()))
	if errors.Is(err, fs.ErrNotExist) {
		return Item{}, "missing " + t.FileName()
	}
	if err != nil {
		return Item{}, err.Error()
	}
	if !utf8.Valid(data) {
		return Item{}, t.FileName() + " is not valid UTF-8"
	}

	doc := frontmatter.Parse(string(data))
	item := Item{
		ID:           id,
		Name:         id,
		Type:         t,
		RelativePath: rel,
		Source:       c.source,
	}
	if name, ok := doc.Metadata.String("name"); ok && strings.TrimSpace(name) != "" {
		item.Name = name
	}
	item.Description, _ = doc.Metadata.String("description")
	item.Category, _ = doc.Metadata.String("category")
	item.Tags = tagsOf(doc.Metadata)
	return item, ""
}

// tagsOf accepts the bracketed list form and, leniently, a comma-separated
// scalar.
func tagsOf(meta frontmatter.Metadata) []string {
	if tags, ok := meta.List("tags"); ok {
		return tags
	}
	s, ok := meta.String("tags")
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := strings.ToLower(items[i].Name), strings.ToLower(items[j].Name)
		if a != b {
			return a < b
		}
		return items[i].ID < items[j].ID
	})
}
