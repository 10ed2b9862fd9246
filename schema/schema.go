// Package schema validates procedure input against small JSON object
// schemas and decodes it into typed Go values.
//
// A Schema carries per-field messages so that validation failures can be
// shown to users as-is ("Name is required"), and per-field defaults that are
// filled in before validation.
package schema

import "sort"

// Schema defines the JSON object accepted by a procedure.
type Schema struct {
	// Name identifies the schema in logs and error details.
	Name string `json:"-"`

	// Type must be "object"
	Type string `json:"type"`

	// Properties defines the accepted fields
	Properties map[string]PropertyDef `json:"properties"`

	// Required lists the names of required fields, in reporting order
	Required []string `json:"required,omitempty"`
}

// PropertyDef defines a single field in the schema
type PropertyDef struct {
	// Type is the JSON type (string, integer, number, boolean)
	Type string `json:"type"`

	// Description explains what this field is for
	Description string `json:"description,omitempty"`

	// Enum restricts the field to specific values
	Enum []string `json:"enum,omitempty"`

	// Minimum/Maximum for number types
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	// MinLength/MaxLength for string types
	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`

	// Trim makes length checks ignore leading and trailing whitespace.
	Trim bool `json:"-"`

	// Nullable accepts an explicit null for optional fields.
	Nullable bool `json:"-"`

	// Default is used when the field is absent.
	Default any `json:"default,omitempty"`

	// Message replaces the generic message for a missing or too short value.
	Message string `json:"-"`
}

// Extend returns a copy of s with additional properties. Names in required
// are reported before the ones already required by s.
func (s Schema) Extend(name string, props map[string]PropertyDef, required ...string) Schema {
	out := Schema{
		Name:       name,
		Type:       s.Type,
		Properties: make(map[string]PropertyDef, len(s.Properties)+len(props)),
	}
	for k, v := range s.Properties {
		out.Properties[k] = v
	}
	for k, v := range props {
		out.Properties[k] = v
	}
	out.Required = append(out.Required, required...)
	out.Required = append(out.Required, s.Required...)
	return out
}

// fieldOrder returns property names in a stable order: required fields as
// declared, then the rest alphabetically.
func (s Schema) fieldOrder() []string {
	seen := make(map[string]bool, len(s.Properties))
	order := make([]string, 0, len(s.Properties))
	for _, name := range s.Required {
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	var rest []string
	for name := range s.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func (s Schema) isRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

func ptr[T any](v T) *T {
	return &v
}
