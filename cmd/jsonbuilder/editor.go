package main

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/barkingbob/json-builder-app/datapath"
	"github.com/barkingbob/json-builder-app/form"
	"github.com/barkingbob/json-builder-app/log"
	"github.com/barkingbob/json-builder-app/request"
	"github.com/barkingbob/json-builder-app/schemadoc"
)

// logMsg carries one log entry into the editor.
type logMsg string

type editorRow struct {
	field *form.Field
	depth int
}

// editor is the bubbletea model for the body form of one request.
type editor struct {
	b       *request.Builder
	sub     *log.Subscription
	output  *request.Output
	rows    []editorRow
	input   []rune
	status  string
	lastLog string
	cursor  int
	height  int
	editing bool
}

func newEditor(b *request.Builder, sub *log.Subscription) *editor {
	e := &editor{b: b, sub: sub}
	e.refresh()

	return e
}

// Init starts listening for log entries.
func (e *editor) Init() tea.Cmd {
	return e.waitLog()
}

func (e *editor) waitLog() tea.Cmd {
	if e.sub == nil {
		return nil
	}

	return func() tea.Msg {
		entry, ok := <-e.sub.C()
		if !ok {
			return nil
		}

		return logMsg(entry)
	}
}

// Update handles key presses, resizes and log entries.
func (e *editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case logMsg:
		e.lastLog = string(msg)

		return e, e.waitLog()

	case tea.WindowSizeMsg:
		e.height = msg.Height

	case tea.KeyPressMsg:
		if e.editing {
			e.editKey(msg)

			return e, nil
		}

		return e, e.navigateKey(msg)
	}

	return e, nil
}

func (e *editor) navigateKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return tea.Quit
	case "up", "k":
		e.move(-1)
	case "down", "j":
		e.move(1)
	case "enter", "space", " ":
		e.activate()
	case "a":
		e.addItem()
	case "x", "delete":
		e.removeItem()
	case "g":
		return e.generate()
	}

	return nil
}

func (e *editor) editKey(msg tea.KeyPressMsg) {
	switch msg.String() {
	case "esc":
		e.editing = false
	case "enter":
		e.editing = false
		e.apply(string(e.input))
	case "backspace":
		if len(e.input) > 0 {
			e.input = e.input[:len(e.input)-1]
		}
	case "ctrl+u":
		e.input = nil
	default:
		e.input = append(e.input, []rune(msg.Text)...)
	}
}

// refresh rebuilds the rows from the current descriptors.
func (e *editor) refresh() {
	e.rows = e.rows[:0]

	form.Walk(e.b.Form().Fields(), func(f *form.Field, depth int) bool {
		e.rows = append(e.rows, editorRow{field: f, depth: depth})
		return true
	})

	e.cursor = max(min(e.cursor, len(e.rows)-1), 0)
}

func (e *editor) move(delta int) {
	if len(e.rows) == 0 {
		return
	}

	e.cursor = (e.cursor + delta + len(e.rows)) % len(e.rows)
}

func (e *editor) current() *form.Field {
	if e.cursor >= len(e.rows) {
		return nil
	}

	return e.rows[e.cursor].field
}

// activate edits, toggles or cycles the field under the cursor, or adds an
// item when it is a list.
func (e *editor) activate() {
	f := e.current()
	if f == nil {
		return
	}

	switch {
	case f.Kind == schemadoc.KindArray:
		e.addItem()
	case f.Unsupported, !f.IsLeaf():
	case f.Input == form.InputCheckbox:
		on, _ := e.value(f).(bool)
		e.apply(!on)
	case f.Input == form.InputSelect:
		e.apply(nextEnum(f.Enum, e.value(f)))
	default:
		e.editing = true
		e.input = []rune(e.text(f))
		e.status = ""
	}
}

func (e *editor) apply(raw any) {
	f := e.current()
	if f == nil {
		return
	}

	if err := e.b.Form().Apply(f.Path, raw); err != nil {
		e.status = err.Error()
	} else {
		e.status = ""
	}

	e.refresh()
}

func (e *editor) addItem() {
	f := e.current()
	if f == nil {
		return
	}

	base := f.Path
	if f.Kind != schemadoc.KindArray {
		if !f.Path.Last().IsIndex() {
			return
		}

		base = f.Path.Parent()
	}

	p, _, err := e.b.Form().AddItem(base, nil)
	if err != nil {
		e.status = err.Error()
		return
	}

	e.refresh()
	e.focus(p)
}

func (e *editor) removeItem() {
	f := e.current()
	if f == nil {
		return
	}

	i, ok := f.Path.Last().Index()
	if !ok {
		return
	}

	if err := e.b.Form().RemoveItem(f.Path.Parent(), i); err != nil {
		e.status = err.Error()
		return
	}

	e.refresh()
}

func (e *editor) focus(p datapath.Path) {
	for i, row := range e.rows {
		if row.field.Path.Equal(p) {
			e.cursor = i
			return
		}
	}
}

func (e *editor) generate() tea.Cmd {
	out, err := e.b.Generate()
	if err != nil {
		e.status = err.Error()
		return nil
	}

	e.output = out

	return tea.Quit
}

func (e *editor) value(f *form.Field) any {
	v, ok := datapath.Get(e.b.Form().Tree(), f.Path)
	if !ok {
		return nil
	}

	return v
}

// text is the field's value as the user would type it. Flagged input shows
// the rejected text.
func (e *editor) text(f *form.Field) string {
	if raw, ok := e.b.Form().RawInput(f.Path); ok {
		return raw
	}

	v := e.value(f)
	if v == nil {
		return ""
	}

	return fmt.Sprint(v)
}

func nextEnum(values []any, current any) any {
	if len(values) == 0 {
		return current
	}

	for i, v := range values {
		if fmt.Sprint(v) == fmt.Sprint(current) {
			return values[(i+1)%len(values)]
		}
	}

	return values[0]
}

// View shows the form on the alternate screen.
func (e *editor) View() tea.View {
	v := tea.NewView(e.render())
	v.AltScreen = true

	return v
}

// render draws the header, the visible rows and the status lines.
func (e *editor) render() string {
	var b strings.Builder

	srv := e.b.SRV()
	fmt.Fprintf(&b, "%s  cv %d  target %s", srv, e.b.CV(), e.b.Target())

	if t := e.b.ExecutionTime(); t != "" {
		fmt.Fprintf(&b, "  at %s", t)
	}

	b.WriteString("\n\n")

	if len(e.rows) == 0 {
		b.WriteString("  nothing to configure\n")
	}

	first, last := e.window()
	for i := first; i < last; i++ {
		e.renderRow(&b, i)
	}

	b.WriteString("\n")

	if e.status != "" {
		fmt.Fprintf(&b, "! %s\n", e.status)
	}

	if e.lastLog != "" {
		fmt.Fprintf(&b, "%s\n", e.lastLog)
	}

	if e.editing {
		b.WriteString("enter: save  esc: cancel  ctrl+u: clear")
	} else {
		b.WriteString("↑/↓: move  enter: edit  a: add item  x: remove item  g: generate  q: quit")
	}

	return b.String()
}

// window returns the range of rows that fit the terminal around the cursor.
func (e *editor) window() (int, int) {
	visible := e.height - 8
	if e.height == 0 || visible >= len(e.rows) {
		return 0, len(e.rows)
	}

	visible = max(visible, 1)
	first := max(e.cursor-visible/2, 0)
	last := min(first+visible, len(e.rows))

	return last - visible, last
}

func (e *editor) renderRow(b *strings.Builder, i int) {
	row := e.rows[i]
	f := row.field

	marker := "  "
	if i == e.cursor {
		marker = "> "
	}

	b.WriteString(marker)
	b.WriteString(strings.Repeat("  ", row.depth))
	b.WriteString(f.DisplayLabel())

	switch {
	case f.Unsupported:
		fmt.Fprintf(b, "  (unsupported: %v)", f.Err)
	case f.Kind == schemadoc.KindArray:
		fmt.Fprintf(b, "  [%d]", len(f.Items))
	case !f.IsLeaf():
	case e.editing && i == e.cursor:
		fmt.Fprintf(b, ": %s_", string(e.input))
	default:
		fmt.Fprintf(b, ": %s", e.text(f))

		if err := e.b.Form().Err(f.Path); err != nil {
			fmt.Fprintf(b, "  ! %v", err)
		}
	}

	b.WriteString("\n")
}
