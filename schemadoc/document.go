package schemadoc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
)

const (
	// RefPrefix is the sentinel every internal reference starts with.
	RefPrefix = "#/"

	// MaxRefChain is the longest chain of references [Document.Deref] follows.
	MaxRefChain = 32

	// MediaTypeJSON is the request body media type used by default.
	MediaTypeJSON = "application/json"
)

// Sentinel errors returned by the resolver.
var (
	ErrUnresolvableReference = errors.New("unresolvable reference")
	ErrDocumentNotLoaded     = errors.New("document not loaded")
	ErrInvalidDocument       = errors.New("invalid document")
	ErrOperationNotFound     = errors.New("operation not found")
)

// Document is a parsed schema document.
//
// Create instances with [Load].
type Document struct {
	root yaml.MapSlice
}

// Load parses a JSON or YAML document. The top level must be a mapping.
func Load(data []byte) (*Document, error) {
	var v any

	err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	root, ok := v.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("%w: top level is %T, not a mapping", ErrInvalidDocument, v)
	}

	return &Document{root: root}, nil
}

// Lookup returns the raw value a reference points at, converted to plain
// map[string]any / []any values.
func (d *Document) Lookup(ref string) (any, error) {
	raw, err := d.lookupRaw(ref)
	if err != nil {
		return nil, err
	}

	return plain(raw), nil
}

// Resolve returns the schema a reference points at. The result is not
// dereferenced further; see [Document.Deref].
func (d *Document) Resolve(ref string) (*jsonschema.Schema, error) {
	raw, err := d.lookupRaw(ref)
	if err != nil {
		return nil, err
	}

	s, err := toSchema(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnresolvableReference, ref, err)
	}

	return s, nil
}

// Deref follows s.Ref until it reaches a schema without a reference. A
// schema without a reference is returned unchanged. Attributes beside a
// $ref are ignored.
func (d *Document) Deref(s *jsonschema.Schema) (*jsonschema.Schema, error) {
	if s == nil {
		return nil, nil
	}

	seen := make(map[string]bool)

	for s.Ref != "" {
		if seen[s.Ref] || len(seen) >= MaxRefChain {
			return nil, fmt.Errorf("%w: %s: reference cycle", ErrUnresolvableReference, s.Ref)
		}

		seen[s.Ref] = true

		next, err := d.Resolve(s.Ref)
		if err != nil {
			return nil, err
		}

		s = next
	}

	return s, nil
}

// Node dereferences s and classifies the result. The returned node's Ref is
// the first reference followed, if any.
func (d *Document) Node(s *jsonschema.Schema) (Node, error) {
	if s == nil {
		return Node{Kind: KindUnknown}, nil
	}

	ref := s.Ref

	resolved, err := d.Deref(s)
	if err != nil {
		return Node{Kind: KindReference, Ref: ref}, err
	}

	return newNode(resolved, ref), nil
}

// RequestBodySchema returns the dereferenced request body schema of the
// operation at paths[opPath][method] for the given media type. An empty
// mediaType means [MediaTypeJSON].
func (d *Document) RequestBodySchema(opPath, method, mediaType string) (*jsonschema.Schema, error) {
	if d == nil {
		return nil, ErrDocumentNotLoaded
	}

	if mediaType == "" {
		mediaType = MediaTypeJSON
	}

	method = strings.ToLower(method)

	paths, ok := get(d.root, "paths")
	if !ok {
		return nil, fmt.Errorf("%w: document has no paths", ErrOperationNotFound)
	}

	item, ok := get(paths, opPath)
	if !ok {
		return nil, fmt.Errorf("%w: path %s", ErrOperationNotFound, opPath)
	}

	op, ok := get(item, method)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrOperationNotFound, strings.ToUpper(method), opPath)
	}

	body, ok := get(op, "requestBody")
	if !ok {
		return nil, fmt.Errorf("%w: %s %s has no request body", ErrOperationNotFound, strings.ToUpper(method), opPath)
	}

	// Request bodies may themselves be shared components.
	body, err := d.derefRaw(body)
	if err != nil {
		return nil, err
	}

	raw, ok := get(body, "content", mediaType, "schema")
	if !ok {
		return nil, fmt.Errorf("%w: %s %s has no %s schema", ErrOperationNotFound, strings.ToUpper(method), opPath, mediaType)
	}

	s, err := toSchema(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrInvalidDocument, strings.ToUpper(method), opPath, err)
	}

	return d.Deref(s)
}

// derefRaw follows a "$ref" member on a raw mapping.
func (d *Document) derefRaw(v any) (any, error) {
	for range MaxRefChain {
		ref, ok := get(v, "$ref")
		if !ok {
			return v, nil
		}

		refStr, ok := ref.(string)
		if !ok {
			return nil, fmt.Errorf("%w: $ref is %T, not a string", ErrUnresolvableReference, ref)
		}

		next, err := d.lookupRaw(refStr)
		if err != nil {
			return nil, err
		}

		v = next
	}

	return nil, fmt.Errorf("%w: reference chain too long", ErrUnresolvableReference)
}

func (d *Document) lookupRaw(ref string) (any, error) {
	if d == nil || d.root == nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnresolvableReference, ref, ErrDocumentNotLoaded)
	}

	if !strings.HasPrefix(ref, RefPrefix) {
		return nil, fmt.Errorf("%w: %q is not an internal reference", ErrUnresolvableReference, ref)
	}

	parts := strings.Split(strings.TrimPrefix(ref, RefPrefix), "/")

	var cur any = d.root

	for i, part := range parts {
		part = unescapePointerToken(part)

		switch v := cur.(type) {
		case yaml.MapSlice:
			next, ok := get(v, part)
			if !ok {
				return nil, fmt.Errorf("%w: %s (missing key %q at #/%s)",
					ErrUnresolvableReference, ref, part, strings.Join(parts[:i], "/"))
			}

			cur = next

		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, fmt.Errorf("%w: %s (bad index %q at #/%s)",
					ErrUnresolvableReference, ref, part, strings.Join(parts[:i], "/"))
			}

			cur = v[idx]

		default:
			return nil, fmt.Errorf("%w: %s (cannot traverse %T at #/%s)",
				ErrUnresolvableReference, ref, v, strings.Join(parts[:i], "/"))
		}
	}

	return cur, nil
}

// unescapePointerToken applies RFC 6901 unescaping: ~1 is / and ~0 is ~.
func unescapePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

// get walks keys through nested ordered mappings.
func get(v any, keys ...string) (any, bool) {
	for _, key := range keys {
		m, ok := v.(yaml.MapSlice)
		if !ok {
			return nil, false
		}

		found := false

		for _, item := range m {
			if keyString(item.Key) == key {
				v = item.Value
				found = true

				break
			}
		}

		if !found {
			return nil, false
		}
	}

	return v, true
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}

	return fmt.Sprint(k)
}
