package request

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/barkingbob/json-builder-app/catalog"
	"github.com/barkingbob/json-builder-app/form"
	"github.com/barkingbob/json-builder-app/payload"
)

var (
	// ErrNotEligible indicates a selection the upstream choices rule out.
	ErrNotEligible = errors.New("not eligible")
	// ErrTargetFixed indicates an attempt to enter a target for a command
	// variant whose target comes from the environment.
	ErrTargetFixed = errors.New("target is fixed for this command variant")
	// ErrFutureDateUnsupported indicates an execution time for an SRV that
	// runs immediately.
	ErrFutureDateUnsupported = errors.New("SRV does not support future dated execution")
)

// Option configures a [Builder].
type Option func(*Builder)

// WithLogger sets the logger for a [Builder] and the components it drives.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithClock sets the time source for execution time checks.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// WithLocation sets the location for execution times entered without a
// zone. Defaults to [time.Local].
func WithLocation(loc *time.Location) Option {
	return func(b *Builder) {
		b.loc = loc
	}
}

// Output is a generated request.
type Output struct {
	Document *payload.Document
	// JSON is the indented document.
	JSON []byte
	// Curl posts the document to the selected environment.
	Curl string
}

// Builder walks the selection chain environment, role, DUIS version, SRV,
// command variant and target, and owns the body form of the selected SRV.
// Changing a selection clears every selection after it.
type Builder struct {
	executeAt  time.Time
	cat        *catalog.Catalog
	logger     *slog.Logger
	now        func() time.Time
	loc        *time.Location
	form       *form.Session
	asm        *payload.Assembler
	env        *catalog.Environment
	role       *catalog.Role
	srv        *catalog.SRV
	duis       string
	originator string
	target     string
	executeRaw string
	cv         int
}

// New creates a [Builder] over cat.
func New(cat *catalog.Catalog, opts ...Option) *Builder {
	b := &Builder{
		cat:    cat,
		logger: slog.Default(),
		now:    time.Now,
		loc:    time.Local,
	}

	for _, opt := range opts {
		opt(b)
	}

	b.form = form.NewSession(cat.Schema, form.WithLogger(b.logger))
	b.asm = payload.NewAssembler(cat.Schema,
		payload.WithLogger(b.logger),
		payload.WithClock(b.now),
	)

	return b
}

type step int

const (
	stepEnvironment step = iota
	stepRole
	stepDUIS
	stepSRV
	stepCV
)

// reset clears every selection made after from.
func (b *Builder) reset(from step) {
	switch from {
	case stepEnvironment:
		b.role = nil

		fallthrough
	case stepRole:
		b.duis = ""

		fallthrough
	case stepDUIS:
		b.originator = ""
		b.srv = nil

		fallthrough
	case stepSRV:
		b.cv = 0
		b.executeAt = time.Time{}
		b.executeRaw = ""
		b.form.Reset()

		fallthrough
	case stepCV:
		b.target = ""
	}
}

// SelectEnvironment selects the environment called name.
func (b *Builder) SelectEnvironment(name string) error {
	env, err := b.cat.Environment(name)
	if err != nil {
		return err
	}

	b.env = &env
	b.reset(stepEnvironment)

	return nil
}

// SelectRole selects a role by abbreviation or full name.
func (b *Builder) SelectRole(name string) error {
	if b.env == nil {
		return fmt.Errorf("%w: select an environment first", payload.ErrIncompleteSelection)
	}

	role, err := b.cat.Role(name)
	if err != nil {
		return err
	}

	b.role = &role
	b.reset(stepRole)

	return nil
}

// SelectDUISVersion selects a DUIS version and looks up the originator name
// for the environment, role and version.
func (b *Builder) SelectDUISVersion(version string) error {
	if b.env == nil || b.role == nil {
		return fmt.Errorf("%w: select an environment and role first", payload.ErrIncompleteSelection)
	}

	if !slices.Contains(b.DUISVersions(), version) {
		return fmt.Errorf("%w: DUIS version %q for %s/%s", ErrNotEligible, version, b.env.Name, b.role.Abbreviation)
	}

	b.duis = version
	b.reset(stepDUIS)

	originator, err := b.cat.Originator(b.env.Name, b.role.Abbreviation, version)
	if err != nil {
		return err
	}

	b.originator = originator

	return nil
}

// SelectSRV selects an SRV, resolves its request schema and rebuilds the
// body form. The SRV stays selected when its schema cannot be resolved; the
// request is then built without a body section.
func (b *Builder) SelectSRV(code string) error {
	if b.role == nil || b.originator == "" {
		return fmt.Errorf("%w: select a role and DUIS version with an originator first", payload.ErrIncompleteSelection)
	}

	srv, err := b.cat.SRV(code)
	if err != nil {
		return err
	}

	if !slices.ContainsFunc(b.EligibleSRVs(), func(s catalog.SRV) bool { return s.Code == code }) {
		return fmt.Errorf("%w: SRV %s for role %s", ErrNotEligible, code, b.role.Abbreviation)
	}

	b.srv = &srv
	b.reset(stepSRV)

	governing, err := b.cat.Schema.RequestBodySchema(srv.OperationPath(), "post", "")
	if err != nil {
		return fmt.Errorf("SRV %s: %w", code, err)
	}

	if err := b.form.Select(governing); err != nil {
		return fmt.Errorf("SRV %s: %w", code, err)
	}

	b.logger.Debug("selected SRV",
		slog.String("srv", code),
		slog.Int("issues", len(b.form.Issues())),
	)

	return nil
}

// SelectCV selects a command variant of the selected SRV. Command variant
// [catalog.TargetCV] takes its target from the environment.
func (b *Builder) SelectCV(cv int) error {
	if b.srv == nil {
		return fmt.Errorf("%w: select an SRV first", payload.ErrIncompleteSelection)
	}

	if !b.srv.SupportsCV(cv) {
		return fmt.Errorf("%w: command variant %d for SRV %s", ErrNotEligible, cv, b.srv.Code)
	}

	b.cv = cv
	b.reset(stepCV)

	if cv == catalog.TargetCV {
		b.target = b.env.TargetCV8
	}

	return nil
}

// SetTarget sets the target device identifier for the selected command
// variant.
func (b *Builder) SetTarget(target string) error {
	if b.cv == 0 {
		return fmt.Errorf("%w: select a command variant first", payload.ErrIncompleteSelection)
	}

	if b.cv == catalog.TargetCV {
		return fmt.Errorf("%w: %d", ErrTargetFixed, b.cv)
	}

	b.target = strings.TrimSpace(target)

	return nil
}

// SetExecutionTime sets a future execution time from RFC 3339 text or a
// local date and time. An empty value clears it. When the body schema
// declares an execution time too, the text is mirrored into the body.
func (b *Builder) SetExecutionTime(raw string) error {
	if b.srv == nil {
		return fmt.Errorf("%w: select an SRV first", payload.ErrIncompleteSelection)
	}

	if !b.srv.SupportsFutureDate {
		return fmt.Errorf("%w: %s", ErrFutureDateUnsupported, b.srv.Code)
	}

	raw = strings.TrimSpace(raw)

	var at time.Time

	if raw != "" {
		var err error

		at, err = payload.ParseTimestamp(raw, b.loc)
		if err != nil {
			return err
		}
	}

	b.executeAt = at
	b.executeRaw = raw

	if body := b.form.BodySchema(); body != nil && body.Properties[payload.ExecutionKey] != nil {
		p := form.Root().Child(payload.ExecutionKey)
		if err := b.form.Apply(p, raw); err != nil {
			return fmt.Errorf("mirror execution time: %w", err)
		}
	}

	return nil
}

// Form returns the body form of the selected SRV.
func (b *Builder) Form() *form.Session {
	return b.form
}

// Selection returns the header values selected so far.
func (b *Builder) Selection() payload.Selection {
	sel := payload.Selection{
		DUISVersion:    b.duis,
		OriginatorName: b.originator,
		Target:         b.target,
		CV:             b.cv,
		ExecuteAt:      b.executeAt,
	}

	if b.srv != nil {
		sel.SRV = b.srv.Code
		sel.FutureDated = b.srv.SupportsFutureDate
	}

	return sel
}

// Generate assembles the request and renders it for display.
func (b *Builder) Generate() (*Output, error) {
	if b.env == nil || b.role == nil {
		return nil, fmt.Errorf("%w: missing environment or role", payload.ErrIncompleteSelection)
	}

	doc, err := b.asm.Assemble(b.Selection(), b.form.Tree(), b.form.Governing())
	if err != nil {
		return nil, err
	}

	data, err := payload.Encode(doc)
	if err != nil {
		return nil, err
	}

	curl, err := payload.Curl(b.env.BaseURL(), b.srv.OperationPath(), doc)
	if err != nil {
		return nil, err
	}

	return &Output{Document: doc, JSON: data, Curl: curl}, nil
}

// Environment returns the selected environment, or nil.
func (b *Builder) Environment() *catalog.Environment { return b.env }

// Role returns the selected role, or nil.
func (b *Builder) Role() *catalog.Role { return b.role }

// DUISVersion returns the selected DUIS version.
func (b *Builder) DUISVersion() string { return b.duis }

// Originator returns the originator name for the selection.
func (b *Builder) Originator() string { return b.originator }

// SRV returns the selected SRV, or nil.
func (b *Builder) SRV() *catalog.SRV { return b.srv }

// CV returns the selected command variant, or 0.
func (b *Builder) CV() int { return b.cv }

// Target returns the target device identifier.
func (b *Builder) Target() string { return b.target }

// ExecutionTime returns the text the execution time was set from.
func (b *Builder) ExecutionTime() string { return b.executeRaw }

// DUISVersions returns the versions available for the selected environment
// and role.
func (b *Builder) DUISVersions() []string {
	if b.env == nil || b.role == nil {
		return nil
	}

	return b.cat.DUISVersions(b.env.Name, b.role.Abbreviation)
}

// EligibleSRVs returns the SRVs available to the selected role.
func (b *Builder) EligibleSRVs() []catalog.SRV {
	if b.role == nil {
		return nil
	}

	return b.cat.EligibleSRVs(*b.role)
}

// CommandVariants returns the command variants of the selected SRV.
func (b *Builder) CommandVariants() []int {
	if b.srv == nil {
		return nil
	}

	return b.srv.CommandVariants
}
