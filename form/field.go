package form

import (
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/barkingbob/json-builder-app/datapath"
	"github.com/barkingbob/json-builder-app/schemadoc"
)

// Input is a presentation hint telling a renderer which control fits a field.
type Input string

// Input hints.
const (
	InputText     Input = "text"
	InputDateTime Input = "datetime"
	InputNumber   Input = "number"
	InputInteger  Input = "integer"
	InputCheckbox Input = "checkbox"
	InputSelect   Input = "select"
	InputGroup    Input = "group"
	InputList     Input = "list"
)

// Field is a read-only descriptor of one schema node bound to a data tree
// location. Object groups carry their members in Children; array groups carry
// one descriptor per current element in Items.
type Field struct {
	// Schema is the dereferenced schema for this location.
	Schema *jsonschema.Schema `json:"-"`
	// ItemSchema is the dereferenced item schema of an array field.
	ItemSchema *jsonschema.Schema `json:"-"`
	// Err is set on unsupported fields.
	Err         error          `json:"-"`
	Minimum     *float64       `json:"minimum,omitempty"`
	Maximum     *float64       `json:"maximum,omitempty"`
	Path        datapath.Path  `json:"path"`
	Name        string         `json:"name"`
	Label       string         `json:"label"`
	Description string         `json:"description,omitempty"`
	Type        string         `json:"type,omitempty"`
	Ref         string         `json:"ref,omitempty"`
	Format      string         `json:"format,omitempty"`
	Pattern     string         `json:"pattern,omitempty"`
	Input       Input          `json:"input"`
	// Default is the coerced schema default, shown as a hint. It is never
	// written to the data tree.
	Default     any            `json:"default,omitempty"`
	Enum        []any          `json:"enum,omitempty"`
	Children    []*Field       `json:"children,omitempty"`
	Items       []*Field       `json:"items,omitempty"`
	Kind        schemadoc.Kind `json:"kind"`
	Required    bool           `json:"required,omitempty"`
	Unsupported bool           `json:"unsupported,omitempty"`
}

// IsLeaf reports whether f holds a single editable value.
func (f *Field) IsLeaf() bool {
	return f.Kind != schemadoc.KindObject && f.Kind != schemadoc.KindArray
}

// DisplayLabel returns the label with a " *" marker on required fields.
func (f *Field) DisplayLabel() string {
	if f.Required {
		return f.Label + " *"
	}

	return f.Label
}

// Walk visits fields depth-first: each group before its children or items.
// Returning false from fn skips the field's descendants.
func Walk(fields []*Field, fn func(f *Field, depth int) bool) {
	walk(fields, 0, fn)
}

func walk(fields []*Field, depth int, fn func(*Field, int) bool) {
	for _, f := range fields {
		if !fn(f, depth) {
			continue
		}

		walk(f.Children, depth+1, fn)
		walk(f.Items, depth+1, fn)
	}
}

// Flatten returns every field in [Walk] order.
func Flatten(fields []*Field) []*Field {
	var out []*Field

	Walk(fields, func(f *Field, _ int) bool {
		out = append(out, f)
		return true
	})

	return out
}

func label(s *jsonschema.Schema, name string) string {
	switch {
	case s != nil && s.Title != "":
		return s.Title
	case s != nil && s.Description != "":
		return s.Description
	}

	return name
}

func inputFor(node schemadoc.Node) Input {
	if node.Kind == schemadoc.KindEnum {
		return InputSelect
	}

	switch node.Type {
	case schemadoc.TypeString:
		if node.Schema != nil && node.Schema.Format == "date-time" {
			return InputDateTime
		}

		return InputText
	case schemadoc.TypeInteger:
		return InputInteger
	case schemadoc.TypeNumber:
		return InputNumber
	case schemadoc.TypeBoolean:
		return InputCheckbox
	case schemadoc.TypeObject:
		return InputGroup
	case schemadoc.TypeArray:
		return InputList
	}

	return InputText
}
