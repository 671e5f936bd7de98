package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/gosimple/slug"

	"github.com/dotai-labs/dotai/internal/content"
	"github.com/dotai-labs/dotai/internal/frontmatter"
	"github.com/dotai-labs/dotai/internal/manifest"
	"github.com/dotai-labs/dotai/internal/platform"
	"github.com/dotai-labs/dotai/internal/userdata"
)

//go:embed scaffolds/*.md.tmpl
var scaffoldFS embed.FS

// DefaultCategory is written into new items.
const DefaultCategory = "general"

// ErrNotEmpty is returned when the target item directory already has files.
var ErrNotEmpty = errors.New("target directory is not empty")

// Data holds the template variables available to scaffold templates.
type Data struct {
	ID          string // e.g., "code-review"
	Title       string // e.g., "Code Review"
	Description string
	Category    string
	Type        content.Type
	Singular    string // e.g., "skill"
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	ID        string
	OutputDir string
	File      string
	// Warnings carries every validation issue found in the generated
	// frontmatter.
	Warnings []string
}

// NewData derives template variables from a free-form name.
func NewData(t content.Type, name, description string) (*Data, error) {
	id := slug.Make(name)
	if id == "" {
		return nil, fmt.Errorf("name %q has no usable characters", name)
	}
	d := &Data{
		ID:          id,
		Title:       titleOf(id),
		Description: strings.Join(strings.Fields(description), " "),
		Category:    DefaultCategory,
		Type:        t,
		Singular:    t.Singular(),
	}
	if d.Description == "" {
		d.Description = fmt.Sprintf("%s %s. Use when the task calls for %s.", d.Title, d.Singular, strings.ToLower(d.Title))
	}
	return d, nil
}

func titleOf(id string) string {
	words := strings.Split(id, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Generate writes a new item of type t under root, at
// <root>/<type>/<id>/<FILE>, where id is the slug of name.
func Generate(t content.Type, name, description, root string) (*Result, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w %q", content.ErrUnknownType, t)
	}
	data, err := NewData(t, name, description)
	if err != nil {
		return nil, err
	}

	tmplPath := "scaffolds/" + string(t) + ".md.tmpl"
	tmpl, err := template.ParseFS(scaffoldFS, tmplPath)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", tmplPath, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", tmplPath, err)
	}

	outputDir := filepath.Join(root, string(t), data.ID)

	// Check for existing files to prevent accidental overwrites.
	if entries, err := os.ReadDir(outputDir); err == nil && len(entries) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotEmpty, outputDir)
	}
	if err := platform.EnsureDir(outputDir, userdata.DirPermNormal); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	outPath := filepath.Join(outputDir, t.FileName())
	if err := platform.WriteFileAtomic(outPath, buf.Bytes(), userdata.FilePermNormal); err != nil {
		return nil, fmt.Errorf("writing %s: %w", outPath, err)
	}

	result := &Result{ID: data.ID, OutputDir: outputDir, File: outPath}

	// Validate what was written, not what was asked for.
	doc := frontmatter.Parse(buf.String())
	for _, issue := range manifest.ValidateFrontmatter(doc.Metadata, data.ID).Issues {
		result.Warnings = append(result.Warnings, issue.String())
	}
	return result, nil
}
