package schema

import (
	"sort"

	"inputparser/internal/field"
	"inputparser/internal/kind"
)

// FieldDecl declares a single configuration key.
type FieldDecl struct {
	Key        string         // e.g., "interest_rate"
	Types      []kind.Kind    // accepted kinds, in declaration order
	Default    any            // fallback value
	Required   bool           // whether the document must set the key
	Constraint string         // built-in constraint name, empty for none
	Params     map[string]any // params handed to the constraint
}

// Schema represents the full set of field declarations
type Schema struct {
	Fields map[string]FieldDecl
}

// Entry pairs a live Field with the key's presence requirement.
type Entry struct {
	Field    *field.Field
	Required bool
}

// Template maps configuration keys to their fields.
type Template map[string]Entry

// Keys returns the template's keys in sorted order.
func (t Template) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
