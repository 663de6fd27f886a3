package form

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/barkingbob/json-builder-app/datapath"
	"github.com/barkingbob/json-builder-app/schemadoc"
)

var (
	// ErrNotArray indicates an item operation on a location that does not
	// hold (or is not declared as) a sequence.
	ErrNotArray = errors.New("not an array")
	// ErrIndexOutOfRange indicates an item index past the end of a sequence.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// initialItem returns the seed value for a new element of the given type.
func initialItem(typ string) any {
	switch typ {
	case schemadoc.TypeObject:
		return map[string]any{}
	case schemadoc.TypeBoolean:
		return false
	case schemadoc.TypeNumber, schemadoc.TypeInteger:
		return nil
	}

	return ""
}

// AddItem appends a new element to the sequence at base and returns its path
// and initial value. A nil item uses the item schema of the array field at
// base. Object elements are seeded like a fresh selection, so nested arrays
// start empty.
func (s *Session) AddItem(base datapath.Path, item *jsonschema.Schema) (datapath.Path, any, error) {
	if s.body == nil {
		return datapath.Path{}, nil, ErrNoSelection
	}

	if item == nil {
		f, ok := s.index[base.String()]
		if !ok || f.Kind != schemadoc.KindArray {
			return datapath.Path{}, nil, fmt.Errorf("%w: %s", ErrNotArray, base)
		}

		item = f.ItemSchema
	}

	node, err := s.doc.Node(item)
	if err != nil {
		return datapath.Path{}, nil, err
	}

	n := 0

	if v, ok := datapath.Get(s.tree, base); ok {
		seq, isSeq := v.([]any)
		if !isSeq {
			return datapath.Path{}, nil, fmt.Errorf("%w: %s holds %T", ErrNotArray, base, v)
		}

		n = len(seq)
	}

	p := base.Elem(n)
	if err := datapath.Set(s.tree, p, initialItem(node.Type)); err != nil {
		return datapath.Path{}, nil, err
	}

	if node.Kind == schemadoc.KindObject {
		s.seed(node.Schema, p)
	}

	s.refresh()

	s.logger.Debug("added item",
		slog.String("path", p.String()),
		slog.String("type", node.Type),
	)

	return p, initialItem(node.Type), nil
}

// RemoveItem splices element index out of the sequence at base. Later
// elements shift down, and so do their descriptors and error flags.
func (s *Session) RemoveItem(base datapath.Path, index int) error {
	if s.body == nil {
		return ErrNoSelection
	}

	v, ok := datapath.Get(s.tree, base)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotArray, base)
	}

	seq, ok := v.([]any)
	if !ok {
		return fmt.Errorf("%w: %s holds %T", ErrNotArray, base, v)
	}

	if index < 0 || index >= len(seq) {
		return fmt.Errorf("%w: %d (length %d)", ErrIndexOutOfRange, index, len(seq))
	}

	if err := datapath.Set(s.tree, base, slices.Delete(seq, index, index+1)); err != nil {
		return err
	}

	s.shift(base, index)
	s.refresh()

	s.logger.Debug("removed item",
		slog.String("path", base.Elem(index).String()),
	)

	return nil
}
