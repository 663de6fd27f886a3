package payload

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/barkingbob/json-builder-app/datapath"
	"github.com/barkingbob/json-builder-app/form"
	"github.com/barkingbob/json-builder-app/schemadoc"
)

// ExecutionKey is the governing-schema property that accepts a future
// execution time.
const ExecutionKey = "executionDateTime"

var (
	// ErrIncompleteSelection indicates assembly before every required
	// upstream selection was made.
	ErrIncompleteSelection = errors.New("incomplete selection")
	// ErrPastExecutionTime indicates an execution time that is not in the
	// future.
	ErrPastExecutionTime = errors.New("execution time must be in the future")
)

// Selection holds the header values chosen upstream of the body form.
type Selection struct {
	// ExecuteAt is the requested execution time; zero means immediate.
	ExecuteAt      time.Time
	DUISVersion    string
	OriginatorName string
	Target         string
	SRV            string
	CV             int
	// FutureDated reports whether the service request accepts an execution
	// time at all.
	FutureDated bool
}

// Validate reports every missing selection.
func (s Selection) Validate() error {
	var missing []string

	if s.DUISVersion == "" {
		missing = append(missing, "DUIS version")
	}

	if s.OriginatorName == "" {
		missing = append(missing, "originator")
	}

	if s.SRV == "" {
		missing = append(missing, "SRV")
	}

	if s.CV == 0 {
		missing = append(missing, "command variant")
	}

	if strings.TrimSpace(s.Target) == "" {
		missing = append(missing, "target")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteSelection, strings.Join(missing, ", "))
	}

	return nil
}

// Option configures an [Assembler].
type Option func(*Assembler)

// WithClock sets the time source used to check execution times.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		a.now = now
	}
}

// WithLogger sets the logger for an [Assembler].
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// Assembler composes request documents from a selection and a data tree.
type Assembler struct {
	doc    *schemadoc.Document
	logger *slog.Logger
	now    func() time.Time
}

// NewAssembler creates an [Assembler] resolving references against doc.
func NewAssembler(doc *schemadoc.Document, opts ...Option) *Assembler {
	a := &Assembler{
		doc:    doc,
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Assemble builds the request document. tree is the data tree of a
// [form.Session] and governing the schema it was built from; a nil governing
// schema means the request has no body section. The tree is not modified.
func (a *Assembler) Assemble(sel Selection, tree map[string]any, governing *jsonschema.Schema) (*Document, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	out := &Document{
		DUISVersion: sel.DUISVersion,
		Header: Header{
			OriginatorName: sel.OriginatorName,
			Target:         strings.TrimSpace(sel.Target),
			SR:             ShortCode(sel.SRV),
			SRV:            sel.SRV,
			CV:             sel.CV,
		},
	}

	dto, err := a.doc.Deref(governing)
	if err != nil {
		a.logger.Warn("governing schema unresolvable, assembling without body section",
			slog.Any("error", err),
		)

		dto = nil
	}

	if sel.FutureDated && !sel.ExecuteAt.IsZero() {
		if !sel.ExecuteAt.After(a.now()) {
			return nil, fmt.Errorf("%w: %s", ErrPastExecutionTime, FormatTimestamp(sel.ExecuteAt))
		}

		if dto != nil && dto.Properties[ExecutionKey] != nil {
			out.ExecutionDateTime = FormatTimestamp(sel.ExecuteAt)
		}
	}

	out.BodyParameters = a.body(tree, dto)

	a.logger.Debug("assembled request",
		slog.String("srv", sel.SRV),
		slog.Int("cv", sel.CV),
		slog.Bool("body", out.BodyParameters != nil),
	)

	return out, nil
}

func (a *Assembler) body(tree map[string]any, dto *jsonschema.Schema) any {
	raw, _ := datapath.Get(tree, form.Root())
	if cleaned, ok := Prune(raw); ok {
		return cleaned
	}

	// An empty body is still sent when the schema offers something to fill.
	if dto == nil || dto.Properties[form.BodyKey] == nil {
		return nil
	}

	schema, err := a.doc.Deref(dto.Properties[form.BodyKey])
	if err != nil || schema == nil {
		return nil
	}

	if schemadoc.IsEmptyObject(schema) {
		return nil
	}

	return map[string]any{}
}
