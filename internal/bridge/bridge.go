package bridge

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/template"

	"github.com/dotai-labs/dotai/internal/assistants"
	"github.com/dotai-labs/dotai/internal/branding"
	"github.com/dotai-labs/dotai/internal/content"
	"github.com/dotai-labs/dotai/internal/logging"
	"github.com/dotai-labs/dotai/internal/platform"
	"github.com/dotai-labs/dotai/internal/userdata"
)

// Section is a canonical subdirectory a bridge file can point at.
type Section string

// SectionContext is the free-form project notes directory.
const SectionContext Section = userdata.ContextDir

// Sections returns every section in output order.
func Sections() []Section {
	out := make([]Section, 0, len(content.All())+1)
	for _, t := range content.All() {
		out = append(out, Section(t))
	}
	return append(out, SectionContext)
}

// defaultSections are assumed before anything is installed, so a first
// run still produces useful files.
var defaultSections = []Section{Section(content.Skills), Section(content.Rules)}

var sectionInfo = map[Section]struct {
	listing     string
	instruction string
}{
	Section(content.Skills): {
		listing:     "reusable skills, one folder per skill with a SKILL.md",
		instruction: "Before starting a task, check `.ai/skills/` for a skill whose description matches it. Read its SKILL.md and follow it; supporting files sit in the same folder.",
	},
	Section(content.Agents): {
		listing:     "agent definitions, one AGENT.md per agent",
		instruction: "`.ai/agents/` defines specialized agents. When a task matches an agent's description, take on that agent's instructions for the task.",
	},
	Section(content.Commands): {
		listing:     "commands the user can run by name, one COMMAND.md each",
		instruction: "When the user names a command, read `.ai/commands/<name>/COMMAND.md` and carry out its steps.",
	},
	Section(content.Rules): {
		listing:     "rules that apply to every task, one RULE.md each",
		instruction: "Rules in `.ai/rules/` are hard constraints. They apply to every task and take precedence over skills and commands.",
	},
	Section(content.Prompts): {
		listing:     "prompt templates, one PROMPT.md each",
		instruction: "`.ai/prompts/` holds prompt templates the user may ask you to run by name.",
	},
	SectionContext: {
		listing:     "background notes about this project",
		instruction: "`.ai/context/` describes this project. Read the relevant notes before making design decisions.",
	},
}

// File is one generated bridge file.
type File struct {
	Family assistants.Family
	// Path is relative to the project root.
	Path    string
	Content string
	// Assistants are the requested ids served by this file.
	Assistants []string
}

// WriteResult reports which absolute paths were written and which were
// left alone because they already existed.
type WriteResult struct {
	Written []string
	Skipped []string
}

// State is the on-disk condition of a bridge file.
type State string

const (
	StateMissing    State = "missing"
	StateCurrent    State = "current"
	StateCustomized State = "customized"
)

// FileStatus pairs a bridge file with its on-disk state.
type FileStatus struct {
	File  File
	Path  string
	State State
}

// Generator builds bridge files from the assistant registry.
type Generator struct {
	reg    *assistants.Registry
	logger *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used to report skipped files.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a generator.
func New(reg *assistants.Registry, opts ...Option) *Generator {
	g := &Generator{reg: reg, logger: logging.Discard()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FamilyPath returns the project-relative bridge file path for f.
func FamilyPath(f assistants.Family) string {
	name := branding.CLIName()
	switch f {
	case assistants.FamilyClaude:
		return "CLAUDE.md"
	case assistants.FamilyCursor:
		return filepath.Join(".cursor", "rules", name+".mdc")
	case assistants.FamilyCopilot:
		return filepath.Join(".github", "copilot-instructions.md")
	case assistants.FamilyGemini:
		return "GEMINI.md"
	case assistants.FamilyWindsurf:
		return filepath.Join(".windsurf", "rules", name+".md")
	case assistants.FamilyCline:
		return filepath.Join(".clinerules", name+".md")
	default:
		return "AGENTS.md"
	}
}

// Inspect returns the canonical sections present under projectRoot, in
// output order. When none exist it returns skills and rules.
func (g *Generator) Inspect(projectRoot string) []Section {
	root := g.reg.Environment().CanonicalRoot(content.ScopeProject, projectRoot)

	var found []Section
	for _, s := range Sections() {
		info, err := os.Stat(filepath.Join(root, string(s)))
		if err == nil && info.IsDir() {
			found = append(found, s)
		}
	}
	if len(found) == 0 {
		return append([]Section(nil), defaultSections...)
	}
	return found
}

// Generate returns one file per distinct family among assistantIDs, plus
// the universal family, in assistants.Families order.
func (g *Generator) Generate(assistantIDs []string, projectRoot string) ([]File, error) {
	byFamily := make(map[assistants.Family][]string)
	byFamily[assistants.FamilyUniversal] = nil

	for _, id := range assistantIDs {
		a, ok := g.reg.Get(id)
		if !ok {
			return nil, fmt.Errorf("unknown assistant %q", id)
		}
		if !contains(byFamily[a.Bridge], id) {
			byFamily[a.Bridge] = append(byFamily[a.Bridge], id)
		}
	}

	sections := g.Inspect(projectRoot)

	var files []File
	for _, f := range assistants.Families() {
		ids, ok := byFamily[f]
		if !ok {
			continue
		}
		text, err := render(f, sections)
		if err != nil {
			return nil, fmt.Errorf("rendering %s bridge: %w", f, err)
		}
		files = append(files, File{
			Family:     f,
			Path:       FamilyPath(f),
			Content:    text,
			Assistants: ids,
		})
	}
	return files, nil
}

// Write puts files under projectRoot. Existing files are skipped unless
// overwrite is set.
func (g *Generator) Write(projectRoot string, files []File, overwrite bool) (*WriteResult, error) {
	base := g.reg.Environment().BaseDir(content.ScopeProject, projectRoot)
	result := &WriteResult{}

	for _, f := range files {
		path := filepath.Join(base, f.Path)

		if _, err := os.Lstat(path); err == nil && !overwrite {
			g.logger.Info("keeping existing bridge file", "path", path)
			result.Skipped = append(result.Skipped, path)
			continue
		} else if err != nil && !os.IsNotExist(err) {
			return result, fmt.Errorf("checking %s: %w", path, err)
		}

		if err := platform.EnsureDir(filepath.Dir(path), userdata.DirPermNormal); err != nil {
			return result, err
		}
		if err := platform.WriteFileAtomic(path, []byte(f.Content), userdata.FilePermNormal); err != nil {
			return result, fmt.Errorf("writing %s: %w", path, err)
		}
		result.Written = append(result.Written, path)
	}
	return result, nil
}

// Status compares files with what is on disk under projectRoot.
func (g *Generator) Status(projectRoot string, files []File) []FileStatus {
	base := g.reg.Environment().BaseDir(content.ScopeProject, projectRoot)

	out := make([]FileStatus, 0, len(files))
	for _, f := range files {
		path := filepath.Join(base, f.Path)
		st := FileStatus{File: f, Path: path, State: StateMissing}

		data, err := os.ReadFile(path)
		switch {
		case err != nil:
		case bytes.Equal(data, []byte(f.Content)):
			st.State = StateCurrent
		default:
			st.State = StateCustomized
		}
		out = append(out, st)
	}
	return out
}

const bridgeTemplate = `{{- .Preamble -}}
# {{ .Title }}

This project keeps its assistant content in ` + "`.ai/`" + `, managed by {{ .CLI }}.
Read it from there instead of looking for tool-specific copies.

## Layout
{{ range .Sections }}
- ` + "`.ai/{{ .Name }}/`" + `: {{ .Listing }}
{{- end }}

## Instructions
{{ range .Sections }}
{{ .Instruction }}
{{ end }}
Do not edit files under ` + "`.ai/`" + ` unless asked to; reinstalling replaces them.
`

var tmpl = template.Must(template.New("bridge").Parse(bridgeTemplate))

type sectionView struct {
	Name        string
	Listing     string
	Instruction string
}

func render(f assistants.Family, sections []Section) (string, error) {
	data := struct {
		Preamble string
		Title    string
		CLI      string
		Sections []sectionView
	}{
		Preamble: preamble(f),
		Title:    "Project assistant context",
		CLI:      branding.CLIName(),
	}
	for _, s := range sections {
		info := sectionInfo[s]
		data.Sections = append(data.Sections, sectionView{
			Name:        string(s),
			Listing:     info.listing,
			Instruction: info.instruction,
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// preamble is the frontmatter some editors require on rule files.
func preamble(f assistants.Family) string {
	switch f {
	case assistants.FamilyCursor:
		return "---\ndescription: Points at the project's canonical .ai directory\nalwaysApply: true\n---\n\n"
	case assistants.FamilyWindsurf:
		return "---\ntrigger: always_on\n---\n\n"
	default:
		return ""
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
