package datapath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPath indicates a path string or step sequence that cannot address
// a location in a data tree.
var ErrInvalidPath = errors.New("invalid path")

// Step is a single element of a [Path]: either a mapping key or a sequence
// index.
type Step struct {
	key     string
	index   int
	isIndex bool
}

// KeyStep returns a step selecting the mapping member name.
func KeyStep(name string) Step {
	return Step{key: name}
}

// IndexStep returns a step selecting the sequence element at i.
func IndexStep(i int) Step {
	return Step{index: i, isIndex: true}
}

// Key returns the mapping key and true when s is a key step.
func (s Step) Key() (string, bool) {
	return s.key, !s.isIndex
}

// Index returns the sequence index and true when s is an index step.
func (s Step) Index() (int, bool) {
	return s.index, s.isIndex
}

// IsIndex reports whether s selects a sequence element.
func (s Step) IsIndex() bool {
	return s.isIndex
}

// String returns the key, or the index in decimal.
func (s Step) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}

	return s.key
}

// Path is an immutable sequence of steps from the data tree root.
//
// The zero value is the empty path, which addresses nothing. Create paths with
// [Parse], [MustParse] or [New] and extend them with [Path.Child] and
// [Path.Elem].
type Path struct {
	steps []Step
}

// New returns a single-step path rooted at the mapping key root.
func New(root string) Path {
	return Path{steps: []Step{KeyStep(root)}}
}

// FromSteps builds a path from steps. The first step must be a key step and
// every index must be non-negative.
func FromSteps(steps ...Step) (Path, error) {
	if len(steps) == 0 {
		return Path{}, fmt.Errorf("%w: no steps", ErrInvalidPath)
	}

	if steps[0].isIndex {
		return Path{}, fmt.Errorf("%w: first step must be a key", ErrInvalidPath)
	}

	for _, s := range steps {
		if s.isIndex && s.index < 0 {
			return Path{}, fmt.Errorf("%w: negative index %d", ErrInvalidPath, s.index)
		}
	}

	return Path{steps: append([]Step(nil), steps...)}, nil
}

// Parse converts the dotted/bracketed string form into a [Path].
func Parse(s string) (Path, error) {
	if s == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	var steps []Step

	for seg := range strings.SplitSeq(s, ".") {
		segSteps, err := parseSegment(seg)
		if err != nil {
			return Path{}, fmt.Errorf("%w: %q: %w", ErrInvalidPath, s, err)
		}

		steps = append(steps, segSteps...)
	}

	if steps[0].isIndex {
		return Path{}, fmt.Errorf("%w: %q: first step must be a key", ErrInvalidPath, s)
	}

	return Path{steps: steps}, nil
}

// MustParse is like [Parse] but panics on error. Use it for constant paths.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return p
}

// parseSegment parses one dot-separated segment: an optional name followed by
// any number of bracketed indices.
func parseSegment(seg string) ([]Step, error) {
	name, rest, _ := strings.Cut(seg, "[")
	if strings.Contains(name, "]") {
		return nil, fmt.Errorf("unexpected ']' in %q", seg)
	}

	var steps []Step

	switch {
	case name == "" && rest == "":
		return nil, errors.New("empty segment")
	case name == "":
		// Segment starts with an index, e.g. "[0]" after a dot.
	case isDigits(name):
		i, err := strconv.Atoi(name)
		if err != nil {
			return nil, fmt.Errorf("index %q: %w", name, err)
		}

		steps = append(steps, IndexStep(i))
	default:
		steps = append(steps, KeyStep(name))
	}

	if !strings.Contains(seg, "[") {
		return steps, nil
	}

	rest = "[" + rest
	for rest != "" {
		if rest[0] != '[' {
			return nil, fmt.Errorf("unexpected %q after index", rest)
		}

		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, fmt.Errorf("unterminated index in %q", seg)
		}

		digits := rest[1:end]
		if !isDigits(digits) {
			return nil, fmt.Errorf("index %q is not a non-negative integer", digits)
		}

		i, err := strconv.Atoi(digits)
		if err != nil {
			return nil, fmt.Errorf("index %q: %w", digits, err)
		}

		steps = append(steps, IndexStep(i))
		rest = rest[end+1:]
	}

	return steps, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// Child returns a new path extended by the mapping key name.
func (p Path) Child(name string) Path {
	return p.with(KeyStep(name))
}

// Elem returns a new path extended by the sequence index i.
func (p Path) Elem(i int) Path {
	return p.with(IndexStep(i))
}

func (p Path) with(s Step) Path {
	steps := make([]Step, len(p.steps), len(p.steps)+1)
	copy(steps, p.steps)

	return Path{steps: append(steps, s)}
}

// Steps returns a copy of the path's steps.
func (p Path) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// Len returns the number of steps.
func (p Path) Len() int {
	return len(p.steps)
}

// IsZero reports whether p is the empty path.
func (p Path) IsZero() bool {
	return len(p.steps) == 0
}

// Last returns the final step. It returns the zero Step for the empty path.
func (p Path) Last() Step {
	if len(p.steps) == 0 {
		return Step{}
	}

	return p.steps[len(p.steps)-1]
}

// Name returns the final mapping key, or "" when the path ends in an index.
func (p Path) Name() string {
	name, ok := p.Last().Key()
	if !ok {
		return ""
	}

	return name
}

// Parent returns p without its final step.
func (p Path) Parent() Path {
	if len(p.steps) <= 1 {
		return Path{}
	}

	return Path{steps: p.steps[:len(p.steps)-1 : len(p.steps)-1]}
}

// HasPrefix reports whether prefix is a leading part of p (or equal to it).
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.steps) > len(p.steps) {
		return false
	}

	for i, s := range prefix.steps {
		if p.steps[i] != s {
			return false
		}
	}

	return true
}

// Equal reports whether p and o address the same location.
func (p Path) Equal(o Path) bool {
	return len(p.steps) == len(o.steps) && p.HasPrefix(o)
}

// WithStep returns a copy of p whose step at position i is replaced by s.
func (p Path) WithStep(i int, s Step) Path {
	steps := p.Steps()
	steps[i] = s

	return Path{steps: steps}
}

// String renders the dotted/bracketed form, e.g. "root.items[0].name".
func (p Path) String() string {
	var sb strings.Builder

	for i, s := range p.steps {
		if s.isIndex {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(s.index))
			sb.WriteByte(']')

			continue
		}

		if i > 0 {
			sb.WriteByte('.')
		}

		sb.WriteString(s.key)
	}

	return sb.String()
}

// MarshalText implements [encoding.TextMarshaler].
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (p *Path) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}
