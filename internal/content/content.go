package content

import (
	"errors"
	"fmt"
	"strings"
)

// Type identifies one kind of catalog item. Values are the plural directory
// names used in the canonical layout and in lock-file keys.
type Type string

const (
	Skills   Type = "skills"
	Agents   Type = "agents"
	Commands Type = "commands"
	Rules    Type = "rules"
	Prompts  Type = "prompts"
)

// ErrUnknownType is returned when a string does not name a content type.
var ErrUnknownType = errors.New("unknown content type")

var fileNames = map[Type]string{
	Skills:   "SKILL.md",
	Agents:   "AGENT.md",
	Commands: "COMMAND.md",
	Rules:    "RULE.md",
	Prompts:  "PROMPT.md",
}

// All returns every content type in canonical order.
func All() []Type {
	return []Type{Skills, Agents, Commands, Rules, Prompts}
}

// Valid reports whether t is one of the known content types.
func (t Type) Valid() bool {
	_, ok := fileNames[t]
	return ok
}

// FileName returns the content file expected inside an item directory,
// e.g. "SKILL.md" for skills.
func (t Type) FileName() string {
	return fileNames[t]
}

// Singular returns the singular form, e.g. "skill".
func (t Type) Singular() string {
	return strings.TrimSuffix(string(t), "s")
}

func (t Type) String() string { return string(t) }

// Parse accepts plural or singular spellings ("skills", "skill") in any case.
func Parse(s string) (Type, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, t := range All() {
		if v == string(t) || v == t.Singular() {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w %q: expected one of skills, agents, commands, rules, prompts", ErrUnknownType, s)
}

// Key returns the lock-file key "<type>/<id>".
func Key(t Type, id string) string {
	return string(t) + "/" + id
}

// ParseKey splits a "<type>/<id>" reference.
func ParseKey(ref string) (Type, string, error) {
	typ, id, ok := strings.Cut(ref, "/")
	if !ok || !ValidID(id) {
		return "", "", fmt.Errorf("invalid reference %q: expected <type>/<id> (e.g., skills/code-review)", ref)
	}
	t, err := Parse(typ)
	if err != nil {
		return "", "", err
	}
	return t, id, nil
}

// ValidID reports whether id names a single directory entry. Ids are joined
// onto type directories, so "." and ".." and separators must never pass.
func ValidID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}

// Scope selects whether state is rooted at the project or the home directory.
type Scope string

const (
	ScopeProject Scope = "project"
	ScopeGlobal  Scope = "global"
)

// ParseScope parses "project" or "global".
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeProject:
		return ScopeProject, nil
	case ScopeGlobal:
		return ScopeGlobal, nil
	default:
		return "", fmt.Errorf("invalid scope %q: expected project or global", s)
	}
}

// Method records how content was placed at its canonical location.
type Method string

const (
	MethodSymlink Method = "symlink"
	MethodCopy    Method = "copy"
)

// ParseMethod parses "symlink" or "copy".
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case MethodSymlink:
		return MethodSymlink, nil
	case MethodCopy:
		return MethodCopy, nil
	default:
		return "", fmt.Errorf("invalid method %q: expected symlink or copy", s)
	}
}
