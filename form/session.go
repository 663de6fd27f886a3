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

// BodyKey is the governing-schema property holding the request body, and the
// first step of every field path.
const BodyKey = "bodyParameters"

var (
	// ErrNoSelection indicates an edit before a governing schema was selected.
	ErrNoSelection = errors.New("no schema selected")
	// ErrUnknownField indicates a path the body schema does not declare.
	ErrUnknownField = errors.New("unknown field")
)

// BodyState describes what the selected schema offers for editing.
type BodyState int

const (
	// BodyAbsent means the governing schema declares no body section.
	BodyAbsent BodyState = iota
	// BodyEmpty means the body section has nothing to configure.
	BodyEmpty
	// BodyFields means the body section produced field descriptors.
	BodyFields
)

// Option configures a [Session].
type Option func(*Session)

// WithLogger sets the logger for a [Session]. Defaults to [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

type inputState struct {
	err  error
	path datapath.Path
	raw  string
}

// Session owns the data tree and field descriptors for one governing schema.
// It is not safe for concurrent use.
type Session struct {
	doc       *schemadoc.Document
	logger    *slog.Logger
	governing *jsonschema.Schema
	body      *jsonschema.Schema
	tree      map[string]any
	index     map[string]*Field
	inputs    map[string]inputState
	fields    []*Field
	issues    []Issue
}

// NewSession creates a [Session] resolving references against doc.
func NewSession(doc *schemadoc.Document, opts ...Option) *Session {
	s := &Session{
		doc:    doc,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.Reset()

	return s
}

// Root returns the path of the body section in the data tree.
func Root() datapath.Path {
	return datapath.New(BodyKey)
}

// Reset discards the selection, the data tree and every error flag.
func (s *Session) Reset() {
	s.governing = nil
	s.body = nil
	s.tree = map[string]any{}
	s.index = map[string]*Field{}
	s.inputs = map[string]inputState{}
	s.fields = nil
	s.issues = nil
}

// Select makes governing the schema for this session. The data tree is
// cleared and reseeded, and the field descriptors rebuilt. An error is
// returned only when the body section itself cannot be resolved; problems
// deeper in the schema are reported by [Session.Issues].
func (s *Session) Select(governing *jsonschema.Schema) error {
	s.Reset()

	dto, err := s.doc.Deref(governing)
	if err != nil {
		return fmt.Errorf("resolve request schema: %w", err)
	}

	s.governing = dto
	if dto == nil || dto.Properties[BodyKey] == nil {
		s.logger.Debug("no body section")
		return nil
	}

	body, err := s.doc.Deref(dto.Properties[BodyKey])
	if err != nil {
		s.skip(Root(), err)
		return fmt.Errorf("resolve %s: %w", BodyKey, err)
	}

	s.body = body
	s.seed(body, Root())
	s.refresh()

	s.logger.Debug("selected schema",
		slog.Int("fields", len(s.index)),
		slog.Int("issues", len(s.issues)),
	)

	return nil
}

// refresh regenerates every descriptor from the body schema and the
// current data tree.
func (s *Session) refresh() {
	s.index = map[string]*Field{}
	s.issues = nil
	s.fields = nil

	if s.body == nil {
		return
	}

	descs := s.describe(s.body, Root(), nil)
	if len(descs) == 1 && descs[0].Kind == schemadoc.KindObject && descs[0].Path.Equal(Root()) {
		s.fields = descs[0].Children
		delete(s.index, Root().String())

		return
	}

	s.fields = descs
}

// Governing returns the dereferenced governing schema, or nil.
func (s *Session) Governing() *jsonschema.Schema {
	return s.governing
}

// BodySchema returns the dereferenced body schema, or nil.
func (s *Session) BodySchema() *jsonschema.Schema {
	return s.body
}

// BodyState reports what the selected schema offers for editing.
func (s *Session) BodyState() BodyState {
	switch {
	case s.body == nil:
		return BodyAbsent
	case len(s.fields) == 0:
		return BodyEmpty
	}

	return BodyFields
}

// Fields returns the top-level descriptors. They are regenerated after every
// structural change; do not hold on to them across edits.
func (s *Session) Fields() []*Field {
	return s.fields
}

// Field returns the descriptor bound to p.
func (s *Session) Field(p datapath.Path) (*Field, bool) {
	f, ok := s.index[p.String()]
	return f, ok
}

// Issues returns the schema branches skipped by the last rebuild.
func (s *Session) Issues() []Issue {
	return slices.Clone(s.issues)
}

// Tree returns the data tree. The body section lives under [BodyKey].
func (s *Session) Tree() map[string]any {
	return s.tree
}

// Body returns the body section of the data tree.
func (s *Session) Body() (any, bool) {
	return datapath.Get(s.tree, Root())
}

// Set writes v at p without coercion or descriptor updates.
func (s *Session) Set(p datapath.Path, v any) error {
	return datapath.Set(s.tree, p, v)
}

// Errors returns the paths currently flagged with a coercion error.
func (s *Session) Errors() map[string]error {
	out := make(map[string]error, len(s.inputs))

	for k, in := range s.inputs {
		if in.err != nil {
			out[k] = in.err
		}
	}

	return out
}

// Err returns the coercion error flagged for p, if any.
func (s *Session) Err(p datapath.Path) error {
	return s.inputs[p.String()].err
}

// RawInput returns the last raw text entered at p that failed coercion.
func (s *Session) RawInput(p datapath.Path) (string, bool) {
	in, ok := s.inputs[p.String()]
	return in.raw, ok
}

// Apply coerces raw to the schema type at p and writes it into the data
// tree. Paths without a descriptor (such as elements not added yet) are
// resolved by walking the body schema. Object and array fields only change
// through their members and [Session.AddItem], so applying a value to one
// fails with [ErrUnknownField] and leaves the tree untouched.
func (s *Session) Apply(p datapath.Path, raw any) error {
	if s.body == nil {
		return ErrNoSelection
	}

	if f, ok := s.index[p.String()]; ok {
		if !f.IsLeaf() {
			return fmt.Errorf("%w: %s is a group", ErrUnknownField, p)
		}

		return s.ApplyValue(p, raw, f.Schema, f.Required)
	}

	schema, required, err := s.schemaAt(p)
	if err != nil {
		return err
	}

	node, err := s.doc.Node(schema)
	if err == nil && (node.Kind == schemadoc.KindObject || node.Kind == schemadoc.KindArray) {
		return fmt.Errorf("%w: %s is a group", ErrUnknownField, p)
	}

	err = s.ApplyValue(p, raw, schema, required)
	s.refresh()

	return err
}

// ApplyValue is [Session.Apply] with an explicit schema node and required
// flag. A coercion failure flags p and returns an error wrapping
// [ErrCoercion]; the tree then keeps the raw text for required fields and
// drops the location otherwise. An empty string clears the location unless
// the field is required or boolean.
func (s *Session) ApplyValue(p datapath.Path, raw any, schema *jsonschema.Schema, required bool) error {
	key := p.String()

	value, err := Coerce(raw, schema)
	if err != nil {
		s.inputs[key] = inputState{path: p, raw: fmt.Sprint(raw), err: err}

		s.logger.Debug("coercion failed",
			slog.String("path", key),
			slog.Any("error", err),
		)

		if required {
			return errors.Join(err, datapath.Set(s.tree, p, raw))
		}

		return errors.Join(err, datapath.Set(s.tree, p, datapath.Absent))
	}

	delete(s.inputs, key)

	if str, ok := value.(string); ok && str == "" && !required &&
		schemadoc.TypeOf(schema) != schemadoc.TypeBoolean {
		value = datapath.Absent
	}

	return datapath.Set(s.tree, p, value)
}

// schemaAt walks the body schema along p, returning the node at p and
// whether its enclosing object requires it.
func (s *Session) schemaAt(p datapath.Path) (*jsonschema.Schema, bool, error) {
	if !p.HasPrefix(Root()) || p.Len() < 2 {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownField, p)
	}

	cur := s.body
	required := false

	for _, step := range p.Steps()[1:] {
		node, err := s.doc.Deref(cur)
		if err != nil {
			return nil, false, err
		}

		if node == nil {
			return nil, false, fmt.Errorf("%w: %s", ErrUnknownField, p)
		}

		if name, ok := step.Key(); ok {
			cur = node.Properties[name]
			required = schemadoc.IsRequired(node, name)
		} else {
			cur = node.Items
			required = false
		}

		if cur == nil {
			return nil, false, fmt.Errorf("%w: %s", ErrUnknownField, p)
		}
	}

	schema, err := s.doc.Deref(cur)
	if err != nil {
		return nil, false, err
	}

	return schema, required, nil
}

// shift drops the input state recorded under base[index] and moves state
// recorded under later elements of base down by one.
func (s *Session) shift(base datapath.Path, index int) {
	removed := base.Elem(index)
	pos := base.Len()
	next := make(map[string]inputState, len(s.inputs))

	for key, in := range s.inputs {
		if in.path.HasPrefix(removed) {
			continue
		}

		if in.path.HasPrefix(base) && in.path.Len() > pos {
			if i, ok := in.path.Steps()[pos].Index(); ok && i > index {
				in.path = in.path.WithStep(pos, datapath.IndexStep(i-1))
				key = in.path.String()
			}
		}

		next[key] = in
	}

	s.inputs = next
}
