package schemadoc

import (
	"reflect"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
)

// JSON Schema type names.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeNull    = "null"
)

// Kind tags a schema node with the shape the rest of the system switches on.
type Kind int

const (
	// KindUnknown is a node whose type has no known handling.
	KindUnknown Kind = iota
	// KindPrimitive is a string, integer, number or boolean.
	KindPrimitive
	// KindEnum is a node with an enum list, whatever its type.
	KindEnum
	// KindObject is an object with (possibly zero) properties.
	KindObject
	// KindArray is an array with an item schema.
	KindArray
	// KindReference is a node that could not be dereferenced.
	KindReference
)

var kindNames = map[Kind]string{
	KindUnknown:   "unknown",
	KindPrimitive: "primitive",
	KindEnum:      "enum",
	KindObject:    "object",
	KindArray:     "array",
	KindReference: "reference",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "unknown"
}

// MarshalText implements [encoding.TextMarshaler].
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Node is a classified schema node.
type Node struct {
	// Schema is the dereferenced schema.
	Schema *jsonschema.Schema
	// Ref is the reference that led here, or "" for inline schemas.
	Ref string
	// Type is the effective type name (see [TypeOf]).
	Type string
	Kind Kind
}

func newNode(s *jsonschema.Schema, ref string) Node {
	return Node{
		Schema: s,
		Ref:    ref,
		Type:   TypeOf(s),
		Kind:   Classify(s),
	}
}

// Classify returns the [Kind] of s. A node carrying $ref is
// [KindReference]; dereference it first with [Document.Deref].
func Classify(s *jsonschema.Schema) Kind {
	if s == nil {
		return KindUnknown
	}

	if s.Ref != "" {
		return KindReference
	}

	if len(s.Enum) > 0 {
		return KindEnum
	}

	switch TypeOf(s) {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean:
		return KindPrimitive
	case TypeObject:
		return KindObject
	case TypeArray:
		return KindArray
	}

	return KindUnknown
}

// TypeOf returns the effective type of s. With a type list, the first
// non-null entry wins. Without any declared type, a node with properties is
// an object and a node with items is an array.
func TypeOf(s *jsonschema.Schema) string {
	if s == nil {
		return ""
	}

	if s.Type != "" {
		return s.Type
	}

	for _, t := range s.Types {
		if t != TypeNull {
			return t
		}
	}

	switch {
	case s.Properties != nil:
		return TypeObject
	case s.Items != nil:
		return TypeArray
	}

	return ""
}

// PropertyNames returns the property names of s in document order. Names
// missing from PropertyOrder follow in sorted order.
func PropertyNames(s *jsonschema.Schema) []string {
	if s == nil || len(s.Properties) == 0 {
		return nil
	}

	names := make([]string, 0, len(s.Properties))
	seen := make(map[string]bool, len(s.Properties))

	for _, name := range s.PropertyOrder {
		if _, ok := s.Properties[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}

	var rest []string

	for name := range s.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}

	slices.Sort(rest)

	return append(names, rest...)
}

// AllowsAdditional reports whether s accepts properties beyond the declared
// ones. An absent additionalProperties keyword counts as false here, the way
// request DTOs are written.
func AllowsAdditional(s *jsonschema.Schema) bool {
	if s == nil || s.AdditionalProperties == nil {
		return false
	}

	return !IsFalseSchema(s.AdditionalProperties)
}

// IsFalseSchema reports whether s is the schema that validates nothing.
func IsFalseSchema(s *jsonschema.Schema) bool {
	return s != nil && reflect.DeepEqual(s, &jsonschema.Schema{Not: &jsonschema.Schema{}})
}

// IsEmptyObject reports whether s is an object with no properties that does
// not allow additional ones. Such a schema offers nothing to edit.
func IsEmptyObject(s *jsonschema.Schema) bool {
	return TypeOf(s) == TypeObject && len(s.Properties) == 0 && !AllowsAdditional(s)
}

// IsRequired reports whether name is listed in s.Required.
func IsRequired(s *jsonschema.Schema, name string) bool {
	return s != nil && slices.Contains(s.Required, name)
}
