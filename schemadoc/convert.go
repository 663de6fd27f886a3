package schemadoc

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
)

// toSchema converts a raw document node to a [*jsonschema.Schema] by
// marshaling through JSON, then restores property order from the node.
func toSchema(raw any) (*jsonschema.Schema, error) {
	v := plain(raw)

	m, ok := v.(map[string]any)
	if !ok {
		if b, isBool := v.(bool); isBool {
			if b {
				return &jsonschema.Schema{}, nil
			}

			return &jsonschema.Schema{Not: &jsonschema.Schema{}}, nil
		}

		return nil, fmt.Errorf("schema node is %T, not a mapping", v)
	}

	normalize(m)

	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal schema node: %w", err)
	}

	var s jsonschema.Schema

	err = json.Unmarshal(b, &s)
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema node: %w", err)
	}

	applyOrder(&s, raw)

	return &s, nil
}

// plain converts ordered mappings to map[string]any, recursively.
func plain(v any) any {
	switch c := v.(type) {
	case yaml.MapSlice:
		out := make(map[string]any, len(c))
		for _, item := range c {
			out[keyString(item.Key)] = plain(item.Value)
		}

		return out

	case []any:
		out := make([]any, len(c))
		for i, item := range c {
			out[i] = plain(item)
		}

		return out
	}

	return v
}

// normalize rewrites OpenAPI 3.0 keywords that do not decode into the JSON
// Schema representation. Boolean exclusiveMinimum/exclusiveMaximum are folded
// into numeric bounds.
func normalize(m map[string]any) {
	foldExclusive(m, "exclusiveMinimum", "minimum")
	foldExclusive(m, "exclusiveMaximum", "maximum")

	for _, v := range m {
		switch c := v.(type) {
		case map[string]any:
			normalize(c)
		case []any:
			for _, item := range c {
				if im, ok := item.(map[string]any); ok {
					normalize(im)
				}
			}
		}
	}
}

func foldExclusive(m map[string]any, exclusiveKey, boundKey string) {
	flag, ok := m[exclusiveKey].(bool)
	if !ok {
		return
	}

	delete(m, exclusiveKey)

	if bound, hasBound := m[boundKey]; flag && hasBound {
		m[exclusiveKey] = bound
		delete(m, boundKey)
	}
}

// applyOrder copies mapping order from the raw node onto PropertyOrder of s
// and its nested schemas.
func applyOrder(s *jsonschema.Schema, raw any) {
	m, ok := raw.(yaml.MapSlice)
	if s == nil || !ok {
		return
	}

	for _, item := range m {
		switch keyString(item.Key) {
		case "properties":
			props, ok := item.Value.(yaml.MapSlice)
			if !ok {
				continue
			}

			order := make([]string, 0, len(props))
			for _, p := range props {
				name := keyString(p.Key)
				order = append(order, name)
				applyOrder(s.Properties[name], p.Value)
			}

			s.PropertyOrder = order

		case "items":
			applyOrder(s.Items, item.Value)

		case "additionalProperties":
			applyOrder(s.AdditionalProperties, item.Value)

		case "allOf":
			applyOrderSeq(s.AllOf, item.Value)

		case "anyOf":
			applyOrderSeq(s.AnyOf, item.Value)

		case "oneOf":
			applyOrderSeq(s.OneOf, item.Value)
		}
	}
}

func applyOrderSeq(schemas []*jsonschema.Schema, raw any) {
	seq, ok := raw.([]any)
	if !ok {
		return
	}

	for i, item := range seq {
		if i < len(schemas) {
			applyOrder(schemas[i], item)
		}
	}
}
