package main

import (
	"os"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barkingbob/json-builder-app/catalog"
	"github.com/barkingbob/json-builder-app/datapath"
	"github.com/barkingbob/json-builder-app/form"
	"github.com/barkingbob/json-builder-app/request"
)

func newTestEditor(t *testing.T, srv string, cv int) *editor {
	t.Helper()

	cat, err := catalog.Load(os.DirFS(testConfigDir))
	require.NoError(t, err)

	b := request.New(cat, request.WithClock(func() time.Time {
		return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, b.SelectEnvironment("SIT-A"))
	require.NoError(t, b.SelectRole("ISU"))
	require.NoError(t, b.SelectDUISVersion("5.1"))
	require.NoError(t, b.SelectSRV(srv))
	require.NoError(t, b.SelectCV(cv))

	return newEditor(b, nil)
}

func press(e *editor, keys ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd

	for _, k := range keys {
		_, cmd = e.Update(k)
	}

	return cmd
}

func typeText(s string) []tea.KeyPressMsg {
	keys := make([]tea.KeyPressMsg, 0, len(s))
	for _, r := range s {
		keys = append(keys, tea.KeyPressMsg{Code: r, Text: string(r)})
	}

	return keys
}

func (e *editor) cursorPath() string {
	return e.current().Path.String()
}

func (e *editor) focusPath(t *testing.T, p string) {
	t.Helper()

	e.focus(datapath.MustParse(p))
	require.Equal(t, p, e.cursorPath())
}

func TestEditorRows(t *testing.T) {
	t.Parallel()

	e := newTestEditor(t, "1.1.1", 8)

	var paths []string
	for _, row := range e.rows {
		paths = append(paths, row.field.Path.String())
	}

	assert.Equal(t, []string{
		"bodyParameters.zeta",
		"bodyParameters.tariffs",
		"bodyParameters.mode",
		"bodyParameters.alpha",
		"bodyParameters.executionDateTime",
	}, paths)

	press(e, tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, "bodyParameters.tariffs", e.cursorPath())

	press(e, tea.KeyPressMsg{Code: tea.KeyUp}, tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, "bodyParameters.executionDateTime", e.cursorPath(), "cursor wraps")
}

func TestEditorEditText(t *testing.T) {
	t.Parallel()

	e := newTestEditor(t, "1.1.1", 8)
	e.focusPath(t, "bodyParameters.alpha")

	press(e, tea.KeyPressMsg{Code: tea.KeyEnter})
	require.True(t, e.editing)

	press(e, typeText("4x")...)
	press(e, tea.KeyPressMsg{Code: tea.KeyBackspace})
	press(e, typeText("2")...)
	press(e, tea.KeyPressMsg{Code: tea.KeyEnter})

	assert.False(t, e.editing)
	assert.Empty(t, e.status)
	assert.Equal(t, int64(42), e.value(e.current()))

	press(e, tea.KeyPressMsg{Code: tea.KeyEnter}, tea.KeyPressMsg{Code: 'u', Mod: tea.ModCtrl})
	press(e, typeText("lots")...)
	press(e, tea.KeyPressMsg{Code: tea.KeyEnter})

	assert.Contains(t, e.status, "coercion failed")
	require.ErrorIs(t, e.b.Form().Err(e.current().Path), form.ErrCoercion)
	assert.Equal(t, "lots", e.text(e.current()), "rejected text is shown")
	assert.Nil(t, e.value(e.current()), "optional field is cleared")
}

func TestEditorCancelEdit(t *testing.T) {
	t.Parallel()

	e := newTestEditor(t, "1.1.1", 8)
	e.focusPath(t, "bodyParameters.zeta")

	press(e, tea.KeyPressMsg{Code: tea.KeyEnter})
	press(e, typeText("abc")...)
	press(e, tea.KeyPressMsg{Code: tea.KeyEscape})

	assert.False(t, e.editing)
	assert.Nil(t, e.value(e.current()))
}

func TestEditorSelectAndCheckbox(t *testing.T) {
	t.Parallel()

	e := newTestEditor(t, "1.1.1", 8)
	e.focusPath(t, "bodyParameters.mode")

	press(e, tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, "ON", e.value(e.current()))

	press(e, tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, "OFF", e.value(e.current()))

	press(e, tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, "ON", e.value(e.current()), "cycles back to the first value")

	c := newTestEditor(t, "6.15.1", 2)
	c.focusPath(t, "bodyParameters.resetMeterBalance")

	press(c, tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, true, c.value(c.current()))

	press(c, tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, false, c.value(c.current()))
}

func TestEditorItems(t *testing.T) {
	t.Parallel()

	e := newTestEditor(t, "1.1.1", 8)
	e.focusPath(t, "bodyParameters.tariffs")

	press(e, typeText("a")...)
	assert.Equal(t, "bodyParameters.tariffs[0]", e.cursorPath(), "cursor follows the new item")

	press(e, typeText("a")...)
	assert.Equal(t, "bodyParameters.tariffs[1]", e.cursorPath(), "adding from an item appends to its list")

	e.focusPath(t, "bodyParameters.tariffs[1].price")
	press(e, tea.KeyPressMsg{Code: tea.KeyEnter})
	press(e, typeText("9.5")...)
	press(e, tea.KeyPressMsg{Code: tea.KeyEnter})

	e.focusPath(t, "bodyParameters.tariffs[0]")
	press(e, typeText("x")...)

	tariffs, ok := datapath.Get(e.b.Form().Tree(), form.Root().Child("tariffs"))
	require.True(t, ok)
	assert.Equal(t, []any{map[string]any{"price": 9.5}}, tariffs)

	e.focusPath(t, "bodyParameters.mode")
	press(e, typeText("x")...)
	assert.Empty(t, e.status, "removing a non-item is ignored")
}

func TestEditorGenerate(t *testing.T) {
	t.Parallel()

	e := newTestEditor(t, "6.15.1", 2)

	cmd := press(e, typeText("g")...)
	assert.Nil(t, cmd)
	assert.Contains(t, e.status, "missing target")

	require.NoError(t, e.b.SetTarget("00-AA"))

	cmd = press(e, typeText("g")...)
	require.NotNil(t, cmd)
	require.NotNil(t, e.output)
	assert.Contains(t, string(e.output.JSON), `"target": "00-AA"`)
}

func TestEditorView(t *testing.T) {
	t.Parallel()

	e := newTestEditor(t, "1.1.1", 8)
	_, _ = e.Update(logMsg("level=INFO msg=hello"))
	_, _ = e.Update(tea.WindowSizeMsg{Width: 80, Height: 40})

	assert.True(t, e.View().AltScreen)

	out := e.render()
	assert.Contains(t, out, "1.1.1 - Update Import Tariff  cv 8  target 00-DB-12-34-56-78-90-A0")
	assert.Contains(t, out, "> Zeta: ")
	assert.Contains(t, out, "tariffs *  [0]")
	assert.Contains(t, out, "level=INFO msg=hello")
}

func TestEditorWindow(t *testing.T) {
	t.Parallel()

	e := newTestEditor(t, "1.1.1", 8)
	e.height = 10

	first, last := e.window()
	assert.Equal(t, 0, first)
	assert.Equal(t, 2, last)

	e.cursor = 4
	first, last = e.window()
	assert.Equal(t, 3, first)
	assert.Equal(t, 5, last)
}
