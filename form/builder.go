package form

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/barkingbob/json-builder-app/datapath"
	"github.com/barkingbob/json-builder-app/schemadoc"
)

// Issue records a schema branch the builder had to skip.
type Issue struct {
	Err  error
	Path datapath.Path
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %v", i.Path, i.Err)
}

func (i Issue) Unwrap() error {
	return i.Err
}

// seed initializes the data tree under p for schema: arrays become empty
// sequences. Schema defaults are not written; they surface as
// [Field.Default]. Resolution errors are left for describe to report.
func (s *Session) seed(schema *jsonschema.Schema, p datapath.Path) {
	node, err := s.doc.Node(schema)
	if err != nil {
		return
	}

	switch node.Kind {
	case schemadoc.KindObject:
		for _, name := range schemadoc.PropertyNames(node.Schema) {
			s.seed(node.Schema.Properties[name], p.Child(name))
		}

	case schemadoc.KindArray:
		if err := datapath.Set(s.tree, p, []any{}); err != nil {
			s.logger.Debug("seed array",
				slog.String("path", p.String()),
				slog.Any("error", err),
			)
		}

	default:
	}
}

// defaultValue decodes the schema default and coerces it to the declared
// type. Defaults that do not coerce are ignored.
func (s *Session) defaultValue(schema *jsonschema.Schema, p datapath.Path) any {
	if len(schema.Default) == 0 {
		return nil
	}

	var v any
	if err := json.Unmarshal(schema.Default, &v); err != nil || v == nil {
		return nil
	}

	coerced, err := Coerce(v, schema)
	if err != nil {
		s.logger.Debug("ignore default",
			slog.String("path", p.String()),
			slog.Any("error", err),
		)

		return nil
	}

	return coerced
}

// describe returns the descriptors for schema bound at p. Object nodes
// return a single group; the caller flattens the root group. required holds
// the names the enclosing object marks as required.
func (s *Session) describe(schema *jsonschema.Schema, p datapath.Path, required []string) []*Field {
	node, err := s.doc.Node(schema)
	if err != nil {
		s.skip(p, err)
		return nil
	}

	switch node.Kind {
	case schemadoc.KindObject:
		if schemadoc.IsEmptyObject(node.Schema) {
			return nil
		}

		f := s.newField(node, p, required)
		f.Children = s.members(node.Schema, p)

		return []*Field{f}

	case schemadoc.KindArray:
		return []*Field{s.describeArray(node, p, required)}

	default:
		return []*Field{s.leaf(node, p, required)}
	}
}

func (s *Session) members(schema *jsonschema.Schema, p datapath.Path) []*Field {
	var fields []*Field

	for _, name := range schemadoc.PropertyNames(schema) {
		fields = append(fields, s.describe(schema.Properties[name], p.Child(name), schema.Required)...)
	}

	return fields
}

func (s *Session) describeArray(node schemadoc.Node, p datapath.Path, required []string) *Field {
	f := s.newField(node, p, required)

	item, err := s.doc.Node(node.Schema.Items)
	if err != nil {
		s.skip(p.Elem(0), err)
		return f
	}

	f.ItemSchema = item.Schema
	if f.ItemSchema == nil {
		f.ItemSchema = &jsonschema.Schema{}
	}

	title := label(item.Schema, f.Label)

	for i := range datapath.Len(s.tree, p) {
		// Holes left by clearing an item still get a descriptor.
		ip := p.Elem(i)

		descs := s.describe(f.ItemSchema, ip, nil)
		if len(descs) == 0 {
			// Empty object items still need a handle for removal.
			descs = []*Field{s.newField(item, ip, nil)}
		}

		for _, d := range descs {
			if d.Kind == schemadoc.KindObject {
				d.Label = fmt.Sprintf("%s %d", title, i+1)
			}

			f.Items = append(f.Items, d)
		}
	}

	return f
}

func (s *Session) leaf(node schemadoc.Node, p datapath.Path, required []string) *Field {
	f := s.newField(node, p, required)

	if node.Kind == schemadoc.KindUnknown || node.Kind == schemadoc.KindReference {
		f.Unsupported = true
		f.Err = fmt.Errorf("%w: %q", ErrUnsupportedSchemaType, node.Type)
		f.Input = InputText

		s.logger.Warn("unsupported schema type",
			slog.String("path", p.String()),
			slog.String("type", node.Type),
		)
	}

	return f
}

func (s *Session) newField(node schemadoc.Node, p datapath.Path, required []string) *Field {
	schema := node.Schema
	if schema == nil {
		schema = &jsonschema.Schema{}
	}

	name := p.Name()
	if i, ok := p.Last().Index(); ok {
		name = "item_" + strconv.Itoa(i)
	}

	f := &Field{
		Schema:      schema,
		Path:        p,
		Name:        name,
		Label:       label(schema, name),
		Description: schema.Description,
		Type:        node.Type,
		Ref:         node.Ref,
		Format:      schema.Format,
		Pattern:     schema.Pattern,
		Input:       inputFor(node),
		Enum:        schema.Enum,
		Minimum:     schema.Minimum,
		Maximum:     schema.Maximum,
		Kind:        node.Kind,
		Required:    slices.Contains(required, name),
	}

	if f.IsLeaf() {
		f.Default = s.defaultValue(schema, p)
	}

	s.index[p.String()] = f

	return f
}

func (s *Session) skip(p datapath.Path, err error) {
	s.issues = append(s.issues, Issue{Path: p, Err: err})

	s.logger.Warn("skip schema branch",
		slog.String("path", p.String()),
		slog.Any("error", err),
	)
}
