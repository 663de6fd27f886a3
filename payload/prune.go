package payload

import (
	"github.com/barkingbob/json-builder-app/datapath"
)

// Prune returns a copy of v without empty values, and false when nothing
// survives. Empty strings, nil and holes are dropped; sequences and mappings
// keep their surviving elements (in order) and are dropped when none survive.
// The input is never modified.
func Prune(v any) (any, bool) {
	switch c := v.(type) {
	case nil:
		return nil, false

	case string:
		if c == "" {
			return nil, false
		}

		return c, true

	case map[string]any:
		out := make(map[string]any, len(c))

		for k, child := range c {
			if pruned, ok := Prune(child); ok {
				out[k] = pruned
			}
		}

		if len(out) == 0 {
			return nil, false
		}

		return out, true

	case []any:
		out := make([]any, 0, len(c))

		for _, child := range c {
			if pruned, ok := Prune(child); ok {
				out = append(out, pruned)
			}
		}

		if len(out) == 0 {
			return nil, false
		}

		return out, true
	}

	if datapath.IsAbsent(v) {
		return nil, false
	}

	return v, true
}
