package assistants

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/dotai-labs/dotai/internal/content"
	"github.com/dotai-labs/dotai/internal/userdata"
)

//go:embed assistants.yaml
var tableYAML []byte

// Family identifies a bridge file convention shared by one or more
// assistants.
type Family string

const (
	FamilyUniversal Family = "universal"
	FamilyClaude    Family = "claude"
	FamilyCursor    Family = "cursor"
	FamilyCopilot   Family = "copilot"
	FamilyGemini    Family = "gemini"
	FamilyWindsurf  Family = "windsurf"
	FamilyCline     Family = "cline"
)

// Families returns every bridge family in output order.
func Families() []Family {
	return []Family{FamilyUniversal, FamilyClaude, FamilyCursor, FamilyCopilot, FamilyGemini, FamilyWindsurf, FamilyCline}
}

func validFamily(f Family) bool {
	for _, known := range Families() {
		if f == known {
			return true
		}
	}
	return false
}

// Spec is one entry of the assistant table before path templates are
// expanded.
type Spec struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Universal   bool              `yaml:"universal"`
	ContextFile string            `yaml:"context_file"`
	Bridge      string            `yaml:"bridge"`
	Paths       map[string]string `yaml:"paths"`
	GlobalPaths map[string]string `yaml:"global_paths"`
	Probe       Probe             `yaml:"probe"`
}

// Assistant is a resolved assistant descriptor.
type Assistant struct {
	ID          string
	Name        string
	Description string
	// Paths are project-relative directories per content type.
	Paths map[content.Type]string
	// GlobalPaths are absolute directories per content type.
	GlobalPaths map[content.Type]string
	Universal   bool
	ContextFile string
	Bridge      Family
	Probe       Probe
}

// Supports reports whether the assistant has a path for t.
func (a Assistant) Supports(t content.Type) bool {
	_, ok := a.Paths[t]
	return ok
}

// Types returns the supported content types in canonical order.
func (a Assistant) Types() []content.Type {
	var out []content.Type
	for _, t := range content.All() {
		if a.Supports(t) {
			out = append(out, t)
		}
	}
	return out
}

// Registry is an immutable, ordered set of assistants.
type Registry struct {
	env        userdata.Environment
	assistants []Assistant
	byID       map[string]int
}

// DefaultSpecs decodes the embedded assistant table.
func DefaultSpecs() ([]Spec, error) {
	var specs []Spec
	if err := yaml.Unmarshal(tableYAML, &specs); err != nil {
		return nil, fmt.Errorf("parsing assistant table: %w", err)
	}
	return specs, nil
}

// New builds the registry from the embedded table.
func New(env userdata.Environment) (*Registry, error) {
	specs, err := DefaultSpecs()
	if err != nil {
		return nil, err
	}
	return NewFromSpecs(env, specs)
}

// NewFromSpecs expands specs against env and validates the result.
func NewFromSpecs(env userdata.Environment, specs []Spec) (*Registry, error) {
	r := &Registry{env: env, byID: make(map[string]int, len(specs))}
	vars := templateVars(env)

	for _, s := range specs {
		if s.ID == "" {
			return nil, fmt.Errorf("assistant table: entry with empty id")
		}
		if _, dup := r.byID[s.ID]; dup {
			return nil, fmt.Errorf("assistant table: duplicate id %q", s.ID)
		}

		a, err := resolve(s, vars)
		if err != nil {
			return nil, fmt.Errorf("assistant %q: %w", s.ID, err)
		}
		r.byID[a.ID] = len(r.assistants)
		r.assistants = append(r.assistants, a)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func templateVars(env userdata.Environment) *strings.Replacer {
	return strings.NewReplacer(
		"{home}", env.Home(),
		"{claude_config}", env.ClaudeConfigDir(),
		"{codex_home}", env.CodexHome(),
		"{xdg_config}", env.XDGConfigHome(),
	)
}

func resolve(s Spec, vars *strings.Replacer) (Assistant, error) {
	a := Assistant{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Universal:   s.Universal,
		ContextFile: s.ContextFile,
		Bridge:      Family(s.Bridge),
		Paths:       make(map[content.Type]string, len(s.Paths)),
		GlobalPaths: make(map[content.Type]string, len(s.GlobalPaths)),
	}
	if a.Name == "" {
		a.Name = a.ID
	}

	for raw, p := range s.Paths {
		t, err := content.Parse(raw)
		if err != nil {
			return Assistant{}, err
		}
		a.Paths[t] = filepath.FromSlash(p)
	}
	for raw, p := range s.GlobalPaths {
		t, err := content.Parse(raw)
		if err != nil {
			return Assistant{}, err
		}
		a.GlobalPaths[t] = filepath.Clean(filepath.FromSlash(vars.Replace(p)))
	}

	for _, d := range s.Probe.Dirs {
		a.Probe.Dirs = append(a.Probe.Dirs, filepath.Clean(filepath.FromSlash(vars.Replace(d))))
	}
	a.Probe.Commands = append(a.Probe.Commands, s.Probe.Commands...)
	return a, nil
}

// Validate checks the table invariants: every assistant has at least one
// project path, each project path has a matching global path, global paths
// are absolute, and universal assistants point at the canonical directory
// for every type they support.
func (r *Registry) Validate() error {
	for _, a := range r.assistants {
		if len(a.Paths) == 0 {
			return fmt.Errorf("assistant %q: no content paths defined", a.ID)
		}
		if !validFamily(a.Bridge) {
			return fmt.Errorf("assistant %q: unknown bridge family %q", a.ID, a.Bridge)
		}
		for t, p := range a.Paths {
			if filepath.IsAbs(p) {
				return fmt.Errorf("assistant %q: %s path %q must be project-relative", a.ID, t, p)
			}
			g, ok := a.GlobalPaths[t]
			if !ok {
				return fmt.Errorf("assistant %q: %s has a project path but no global path", a.ID, t)
			}
			if !filepath.IsAbs(g) {
				return fmt.Errorf("assistant %q: global %s path %q is not absolute", a.ID, t, g)
			}
			if a.Universal {
				want := filepath.Join(userdata.CanonicalDir, string(t))
				if p != want {
					return fmt.Errorf("assistant %q: universal assistants must use %q for %s, got %q", a.ID, want, t, p)
				}
			}
		}
		for t := range a.GlobalPaths {
			if _, ok := a.Paths[t]; !ok {
				return fmt.Errorf("assistant %q: %s has a global path but no project path", a.ID, t)
			}
		}
	}
	return nil
}

// All returns assistants in table order.
func (r *Registry) All() []Assistant {
	out := make([]Assistant, len(r.assistants))
	copy(out, r.assistants)
	return out
}

// Get looks up an assistant by id.
func (r *Registry) Get(id string) (Assistant, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Assistant{}, false
	}
	return r.assistants[i], true
}

// IDs returns every assistant id in table order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.assistants))
	for i, a := range r.assistants {
		ids[i] = a.ID
	}
	return ids
}

// Universal returns the assistants that read the canonical directory
// directly.
func (r *Registry) Universal() []Assistant {
	var out []Assistant
	for _, a := range r.assistants {
		if a.Universal {
			out = append(out, a)
		}
	}
	return out
}

// SupportedBy returns the assistants with a path for t.
func (r *Registry) SupportedBy(t content.Type) []Assistant {
	var out []Assistant
	for _, a := range r.assistants {
		if a.Supports(t) {
			out = append(out, a)
		}
	}
	return out
}

// Resolve validates a list of ids and returns them deduplicated and sorted.
func (r *Registry) Resolve(ids []string) ([]string, error) {
	seen := make(map[string]bool, len(ids))
	var unknown []string
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := r.byID[id]; !ok {
			unknown = append(unknown, id)
			continue
		}
		out = append(out, id)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown assistant(s): %s (known: %s)", strings.Join(unknown, ", "), strings.Join(r.IDs(), ", "))
	}
	sort.Strings(out)
	return out, nil
}

// ContentPath returns where a keeps content of type t. Global scope yields
// the absolute global path; project scope joins the project path under
// projectRoot (default the working directory). ok is false when a does not
// support t, which is not an error.
func (r *Registry) ContentPath(a Assistant, t content.Type, scope content.Scope, projectRoot string) (string, bool) {
	if scope == content.ScopeGlobal {
		p, ok := a.GlobalPaths[t]
		return p, ok
	}
	p, ok := a.Paths[t]
	if !ok {
		return "", false
	}
	return filepath.Join(r.env.BaseDir(content.ScopeProject, projectRoot), p), true
}

// CanonicalPath returns the location content physically lives at. It does
// not depend on any assistant.
func (r *Registry) CanonicalPath(t content.Type, id string, scope content.Scope, projectRoot string) string {
	return r.env.CanonicalPath(t, id, scope, projectRoot)
}

// Environment returns the environment the registry was resolved against.
func (r *Registry) Environment() userdata.Environment {
	return r.env
}
