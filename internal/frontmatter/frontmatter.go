// Package frontmatter parses the leading metadata block of template files.
//
// The grammar is deliberately smaller than YAML, because the template corpus
// is authored against it:
//
//	---
//	name: code-review
//	description: "Reviews a diff. Use when the user asks for a review."
//	tags: [review, "quality"]
//	---
//	body...
//
// Each line inside the block is "key: value", split at the first colon. A
// value wrapped in double quotes has them stripped. A value wrapped in square
// brackets becomes a list, split on commas, with every element trimmed and
// quote-stripped. Lines of any other shape are ignored. Nested mappings,
// multi-line scalars and "- item" lists are not supported, and list
// elements cannot contain commas.
//
// Text that does not open with a "---" line closed by another "---" line is
// all body, with empty metadata.
package frontmatter

import (
	"sort"
	"strings"
)

const delimiter = "---"

// Metadata maps frontmatter keys to values. Every value is either a string
// or a []string.
type Metadata map[string]any

// String returns the scalar value stored under key.
func (m Metadata) String(key string) (string, bool) {
	v, ok := m[key].(string)
	return v, ok
}

// List returns the list value stored under key.
func (m Metadata) List(key string) ([]string, bool) {
	v, ok := m[key].([]string)
	return v, ok
}

// Document is a parsed template file.
type Document struct {
	// Keys holds metadata keys in first-seen order.
	Keys     []string
	Metadata Metadata
	Body     string
	// HasFrontmatter is false when the delimiters were absent and the whole
	// input became Body.
	HasFrontmatter bool
}

// Parse splits text into metadata and body. It never fails.
func Parse(text string) Document {
	doc := Document{Metadata: Metadata{}, Body: text}

	lines := strings.Split(strings.TrimPrefix(text, "\uFEFF"), "\n")
	if len(lines) < 2 || trimCR(lines[0]) != delimiter {
		return doc
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if trimCR(lines[i]) == delimiter {
			end = i
			break
		}
	}
	if end < 0 {
		return doc
	}

	for _, line := range lines[1:end] {
		key, value, ok := parseLine(trimCR(line))
		if !ok {
			continue
		}
		if _, seen := doc.Metadata[key]; !seen {
			doc.Keys = append(doc.Keys, key)
		}
		doc.Metadata[key] = value
	}

	doc.Body = strings.Join(lines[end+1:], "\n")
	doc.HasFrontmatter = true
	return doc
}

// parseLine handles a single "key: value" line.
func parseLine(line string) (string, any, bool) {
	rawKey, rawValue, found := strings.Cut(line, ":")
	if !found {
		return "", nil, false
	}
	key := strings.TrimSpace(rawKey)
	if key == "" {
		return "", nil, false
	}

	value := strings.TrimSpace(rawValue)
	if isBracketed(value) {
		return key, parseList(value[1 : len(value)-1]), true
	}
	return key, unquote(value), true
}

func parseList(inner string) []string {
	items := []string{}
	for _, part := range strings.Split(inner, ",") {
		item := unquote(strings.TrimSpace(part))
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

func isBracketed(v string) bool {
	return len(v) >= 2 && strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]")
}

func isQuoted(v string) bool {
	return len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`)
}

func unquote(v string) string {
	if isQuoted(v) {
		return v[1 : len(v)-1]
	}
	return v
}

func trimCR(line string) string {
	return strings.TrimSuffix(line, "\r")
}

// Format renders doc back into frontmatter-plus-body text. Keys are written
// in doc.Keys order; metadata keys missing from doc.Keys follow in sorted
// order. Scalars that Parse would reinterpret are wrapped in quotes.
func Format(doc Document) string {
	var b strings.Builder
	b.WriteString(delimiter + "\n")
	for _, key := range orderedKeys(doc) {
		switch v := doc.Metadata[key].(type) {
		case string:
			b.WriteString(key + ": " + quoteIfAmbiguous(v) + "\n")
		case []string:
			quoted := make([]string, len(v))
			for i, item := range v {
				quoted[i] = quoteIfAmbiguous(item)
			}
			b.WriteString(key + ": [" + strings.Join(quoted, ", ") + "]\n")
		}
	}
	b.WriteString(delimiter + "\n")
	b.WriteString(doc.Body)
	return b.String()
}

func orderedKeys(doc Document) []string {
	seen := make(map[string]bool, len(doc.Metadata))
	keys := make([]string, 0, len(doc.Metadata))
	for _, k := range doc.Keys {
		if _, ok := doc.Metadata[k]; ok && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range doc.Metadata {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func quoteIfAmbiguous(v string) string {
	if isQuoted(v) || isBracketed(v) {
		return `"` + v + `"`
	}
	return v
}
