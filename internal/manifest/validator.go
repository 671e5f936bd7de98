package manifest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"

	"github.com/dotai-labs/dotai/internal/frontmatter"
)

// MaxDescriptionLength is the longest description accepted, in characters.
const MaxDescriptionLength = 1024

// Severity classifies a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationResult contains the outcome of a frontmatter validation.
// Valid is false iff at least one issue has SeverityError.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue is a single finding against one frontmatter field.
type ValidationIssue struct {
	Severity Severity
	Field    string
	Message  string
}

func (i ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Field, i.Message)
}

// Errors returns the error-severity issues in order.
func (r *ValidationResult) Errors() []ValidationIssue {
	return r.filter(SeverityError)
}

// Warnings returns the warning-severity issues in order.
func (r *ValidationResult) Warnings() []ValidationIssue {
	return r.filter(SeverityWarning)
}

func (r *ValidationResult) filter(s Severity) []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range r.Issues {
		if issue.Severity == s {
			out = append(out, issue)
		}
	}
	return out
}

var (
	namePattern      = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	reservedPrefixes = []string{"claude", "anthropic"}

	// triggerPhrases tell an assistant when a template applies. Matched as
	// case-insensitive substrings of the description.
	triggerPhrases = []string{
		"use when",
		"use for",
		"use this",
		"use to",
		"asks about",
		"asks for",
		"when the user",
		"when you need",
		"when working",
		"invoke when",
		"helps with",
		"trigger",
	}
)

// ValidateFrontmatter checks metadata against the authoring rules. When
// expectedID is non-empty, a name that differs from it produces a warning.
func ValidateFrontmatter(meta frontmatter.Metadata, expectedID string) *ValidationResult {
	v := &validator{}

	v.checkName(meta, expectedID)
	description := v.checkDescription(meta)
	v.checkOtherFields(meta)

	if _, ok := meta["category"]; !ok {
		v.warn("category", "category is missing; items without one are listed as uncategorized")
	}
	if _, ok := meta["tags"]; !ok {
		v.warn("tags", "tags are missing; search will only match name, description and category")
	}

	if description != "" && !hasTriggerPhrase(description) {
		v.warn("description", `description does not say when to use the item (for example "Use when ...")`)
	}

	return &ValidationResult{
		Valid:  len(v.result.Errors()) == 0,
		Issues: v.result.Issues,
	}
}

type validator struct {
	result ValidationResult
}

func (v *validator) fail(field, format string, args ...any) {
	v.add(SeverityError, field, fmt.Sprintf(format, args...))
}

func (v *validator) warn(field, format string, args ...any) {
	v.add(SeverityWarning, field, fmt.Sprintf(format, args...))
}

func (v *validator) add(s Severity, field, msg string) {
	v.result.Issues = append(v.result.Issues, ValidationIssue{Severity: s, Field: field, Message: msg})
}

func (v *validator) checkName(meta frontmatter.Metadata, expectedID string) {
	raw, present := meta["name"]
	if !present {
		v.fail("name", "name is required")
		return
	}
	name, ok := raw.(string)
	if !ok {
		v.fail("name", "name must be a single value, not a list")
		return
	}
	if name == "" {
		v.fail("name", "name is required")
		return
	}

	if !namePattern.MatchString(name) {
		msg := fmt.Sprintf("name %q must be kebab-case (lowercase letters and digits separated by single hyphens)", name)
		if suggestion := slug.Make(name); suggestion != "" && suggestion != name {
			msg += fmt.Sprintf("; try %q", suggestion)
		}
		v.fail("name", "%s", msg)
	}

	lower := strings.ToLower(name)
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(lower, prefix) {
			v.fail("name", "name %q starts with reserved prefix %q", name, prefix)
			break
		}
	}

	if expectedID != "" && name != expectedID {
		v.warn("name", "name %q does not match directory %q", name, expectedID)
	}
}

func (v *validator) checkDescription(meta frontmatter.Metadata) string {
	raw, present := meta["description"]
	if !present {
		v.fail("description", "description is required")
		return ""
	}
	description, ok := raw.(string)
	if !ok {
		v.fail("description", "description must be a single value, not a list")
		return ""
	}
	if strings.TrimSpace(description) == "" {
		v.fail("description", "description is required")
		return ""
	}

	if n := utf8.RuneCountInString(description); n > MaxDescriptionLength {
		v.fail("description", "description is %d characters; the maximum is %d", n, MaxDescriptionLength)
	}
	if containsAngleBrackets(description) {
		v.fail("description", "description must not contain XML tags or angle brackets (< or >)")
	}
	return description
}

// checkOtherFields applies the angle bracket rule to every remaining scalar
// field, in key order so results are deterministic.
func (v *validator) checkOtherFields(meta frontmatter.Metadata) {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		if k == "name" || k == "description" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		s, ok := meta[k].(string)
		if ok && containsAngleBrackets(s) {
			v.fail(k, "%s must not contain XML tags or angle brackets (< or >)", k)
		}
	}
}

func containsAngleBrackets(s string) bool {
	return strings.ContainsAny(s, "<>")
}

func hasTriggerPhrase(description string) bool {
	lower := strings.ToLower(description)
	for _, phrase := range triggerPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
