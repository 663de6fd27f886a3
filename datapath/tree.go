package datapath

import (
	"fmt"
)

type absent struct{}

// String makes holes readable in debug output.
func (absent) String() string { return "<absent>" }

// Absent is the marker value that deletes a location when passed to [Set].
// Sequences keep it in place as a hole.
var Absent any = absent{}

// IsAbsent reports whether v is the [Absent] marker.
func IsAbsent(v any) bool {
	_, ok := v.(absent)
	return ok
}

// Get returns the value at p and true, or nil and false when any step along
// p is missing, out of range, lands on a hole, or crosses a non-container.
func Get(tree map[string]any, p Path) (any, bool) {
	if p.IsZero() {
		return nil, false
	}

	var cur any = tree

	for _, s := range p.steps {
		next, ok := lookup(cur, s)
		if !ok {
			return nil, false
		}

		cur = next
	}

	return cur, true
}

// Set writes v at p, creating intermediate containers as needed. Passing
// [Absent] as v deletes the location instead; see [Delete].
func Set(tree map[string]any, p Path, v any) error {
	if p.IsZero() {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	if tree == nil {
		return fmt.Errorf("%w: nil tree", ErrInvalidPath)
	}

	if p.steps[0].isIndex {
		return fmt.Errorf("%w: first step must be a key", ErrInvalidPath)
	}

	for _, s := range p.steps {
		if s.isIndex && s.index < 0 {
			return fmt.Errorf("%w: negative index %d", ErrInvalidPath, s.index)
		}
	}

	if IsAbsent(v) {
		Delete(tree, p)
		return nil
	}

	setIn(tree, p.steps, v)

	return nil
}

// Delete removes the mapping member at p, or replaces the sequence element at
// p with a hole. Missing intermediate containers make Delete a no-op.
func Delete(tree map[string]any, p Path) {
	if p.IsZero() {
		return
	}

	parentPath := p.Parent()

	var parent any = tree
	if !parentPath.IsZero() {
		var ok bool

		parent, ok = Get(tree, parentPath)
		if !ok {
			return
		}
	}

	switch c := parent.(type) {
	case map[string]any:
		if key, ok := p.Last().Key(); ok {
			delete(c, key)
		}

	case []any:
		if i, ok := p.Last().Index(); ok && i >= 0 && i < len(c) {
			c[i] = Absent
		}
	}
}

// Len returns the length of the sequence at p, or 0 when there is no
// sequence there.
func Len(tree map[string]any, p Path) int {
	v, ok := Get(tree, p)
	if !ok {
		return 0
	}

	s, ok := v.([]any)
	if !ok {
		return 0
	}

	return len(s)
}

func lookup(container any, s Step) (any, bool) {
	var (
		v  any
		ok bool
	)

	switch c := container.(type) {
	case map[string]any:
		if s.isIndex {
			return nil, false
		}

		v, ok = c[s.key]

	case []any:
		if !s.isIndex || s.index < 0 || s.index >= len(c) {
			return nil, false
		}

		v, ok = c[s.index], true

	default:
		return nil, false
	}

	if !ok || IsAbsent(v) {
		return nil, false
	}

	return v, true
}

// setIn writes v below container and returns the (possibly reallocated)
// container. container always has the kind that steps[0] requires.
func setIn(container any, steps []Step, v any) any {
	s := steps[0]
	if len(steps) == 1 {
		return assign(container, s, v)
	}

	child, _ := lookup(container, s)
	child = ensureContainer(child, steps[1])
	child = setIn(child, steps[1:], v)

	return assign(container, s, child)
}

// ensureContainer returns v when it already suits the next step, or a fresh
// container of the right kind otherwise.
func ensureContainer(v any, next Step) any {
	if next.isIndex {
		if s, ok := v.([]any); ok {
			return s
		}

		return []any{}
	}

	if m, ok := v.(map[string]any); ok {
		return m
	}

	return map[string]any{}
}

func assign(container any, s Step, v any) any {
	switch c := container.(type) {
	case map[string]any:
		c[s.key] = v
		return c

	case []any:
		for len(c) <= s.index {
			c = append(c, Absent)
		}

		c[s.index] = v

		return c
	}

	return container
}

// Clone returns a deep copy of v. Mappings and sequences are copied
// recursively; every other value is copied by assignment.
func Clone(v any) any {
	switch c := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(c))
		for k, child := range c {
			out[k] = Clone(child)
		}

		return out

	case []any:
		out := make([]any, len(c))
		for i, child := range c {
			out[i] = Clone(child)
		}

		return out
	}

	return v
}
