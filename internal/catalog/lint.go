package catalog

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dotai-labs/dotai/internal/content"
	"github.com/dotai-labs/dotai/internal/frontmatter"
	"github.com/dotai-labs/dotai/internal/manifest"
)

// LintEntry is the strict report for one item directory.
type LintEntry struct {
	Type content.Type
	ID   string
	// Path is the slash-separated directory under the template root.
	Path string
	// Excluded is true when Load would leave the directory out.
	Excluded bool
	Reason   string
	Issues   []manifest.ValidationIssue
}

// HasErrors reports whether the entry is excluded or has error issues.
func (e LintEntry) HasErrors() bool {
	if e.Excluded {
		return true
	}
	for _, issue := range e.Issues {
		if issue.Severity == manifest.SeverityError {
			return true
		}
	}
	return false
}

// LintReport collects the entries of a Lint run in type, then id order.
type LintReport struct {
	Entries []LintEntry
}

// HasErrors reports whether any entry has errors.
func (r *LintReport) HasErrors() bool {
	for _, e := range r.Entries {
		if e.HasErrors() {
			return true
		}
	}
	return false
}

// Counts returns the number of entries, error findings and warnings. An
// excluded directory counts as one error.
func (r *LintReport) Counts() (items, errs, warnings int) {
	for _, e := range r.Entries {
		items++
		if e.Excluded {
			errs++
		}
		for _, issue := range e.Issues {
			if issue.Severity == manifest.SeverityError {
				errs++
			} else {
				warnings++
			}
		}
	}
	return items, errs, warnings
}

var markdown = goldmark.New()

// Lint checks every item directory of every type, including the ones Load
// silently excludes.
func (c *Catalog) Lint(ctx context.Context) (*LintReport, error) {
	report := &LintReport{}

	for _, t := range content.All() {
		ids, err := c.itemDirs(t)
		if err != nil {
			report.Entries = append(report.Entries, LintEntry{
				Type: t, Path: string(t), Excluded: true, Reason: err.Error(),
			})
			continue
		}

		names := make(map[string]string)
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			entry, name := c.lintItem(t, id)
			if name != "" {
				if other, dup := names[name]; dup {
					entry.Issues = append(entry.Issues, manifest.ValidationIssue{
						Severity: manifest.SeverityWarning,
						Field:    "name",
						Message:  "name " + name + " is also used by " + other,
					})
				} else {
					names[name] = path.Join(string(t), id)
				}
			}
			report.Entries = append(report.Entries, entry)
		}
	}
	return report, nil
}

// lintItem returns the entry and the frontmatter name, if any.
func (c *Catalog) lintItem(t content.Type, id string) (LintEntry, string) {
	rel := path.Join(string(t), id)
	entry := LintEntry{Type: t, ID: id, Path: rel}

	data, err := fs.ReadFile(c.fsys, path.Join(rel, t.FileName()))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		entry.Excluded, entry.Reason = true, "missing "+t.FileName()
		return entry, ""
	case err != nil:
		entry.Excluded, entry.Reason = true, err.Error()
		return entry, ""
	case !utf8.Valid(data):
		entry.Excluded, entry.Reason = true, t.FileName()+" is not valid UTF-8"
		return entry, ""
	}

	doc := frontmatter.Parse(string(data))
	if !doc.HasFrontmatter {
		entry.Issues = append(entry.Issues, manifest.ValidationIssue{
			Severity: manifest.SeverityError,
			Field:    "frontmatter",
			Message:  "no --- delimited frontmatter block at the top of " + t.FileName(),
		})
	}
	entry.Issues = append(entry.Issues, manifest.ValidateFrontmatter(doc.Metadata, id).Issues...)
	entry.Issues = append(entry.Issues, checkBody(doc.Body)...)

	name, _ := doc.Metadata.String("name")
	return entry, name
}

// checkBody flags bodies an assistant cannot do much with.
func checkBody(body string) []manifest.ValidationIssue {
	if strings.TrimSpace(body) == "" {
		return []manifest.ValidationIssue{{
			Severity: manifest.SeverityWarning,
			Field:    "body",
			Message:  "body is empty",
		}}
	}

	src := []byte(body)
	root := markdown.Parser().Parse(text.NewReader(src))

	hasHeading := false
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindHeading {
			hasHeading = true
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if !hasHeading {
		return []manifest.ValidationIssue{{
			Severity: manifest.SeverityWarning,
			Field:    "body",
			Message:  "body has no heading",
		}}
	}
	return nil
}
