package form_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barkingbob/json-builder-app/datapath"
	"github.com/barkingbob/json-builder-app/form"
)

func TestAddItemSeedsByType(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want any
		base string
		item *jsonschema.Schema
	}{
		"object": {
			base: "bodyParameters.readings",
			want: map[string]any{},
		},
		"boolean": {
			base: "bodyParameters.flags",
			want: false,
		},
		"string": {
			base: "bodyParameters.settings.tags",
			want: "",
		},
		"explicit integer schema": {
			base: "bodyParameters.settings.tags",
			item: &jsonschema.Schema{Type: "integer"},
			want: nil,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			sess := newSession(t, "Request")
			base := datapath.MustParse(tc.base)

			p, v, err := sess.AddItem(base, tc.item)
			require.NoError(t, err)
			assert.Equal(t, base.Elem(0), p)
			assert.Equal(t, tc.want, v)
			assert.Equal(t, 1, datapath.Len(sess.Tree(), base))
		})
	}
}

func TestAddItemSeedsNestedArrays(t *testing.T) {
	t.Parallel()

	sess := newSession(t, "Request")
	base := datapath.MustParse("bodyParameters.readings")

	p, _, err := sess.AddItem(base, nil)
	require.NoError(t, err)

	got, ok := datapath.Get(sess.Tree(), p)
	require.True(t, ok)

	if diff := cmp.Diff(map[string]any{"samples": []any{}}, got); diff != "" {
		t.Errorf("item mismatch (-want +got):\n%s", diff)
	}

	samples := p.Child("samples")

	q, v, err := sess.AddItem(samples, nil)
	require.NoError(t, err)
	assert.Equal(t, "bodyParameters.readings[0].samples[0]", q.String())
	assert.Nil(t, v)

	f, ok := sess.Field(samples)
	require.True(t, ok)
	require.Len(t, f.Items, 1)
	assert.Equal(t, "item_0", f.Items[0].Name)
}

func TestRemoveItemRenumbers(t *testing.T) {
	t.Parallel()

	sess := newSession(t, "Request")
	base := datapath.MustParse("bodyParameters.readings")

	for range 3 {
		_, _, err := sess.AddItem(base, nil)
		require.NoError(t, err)
	}

	require.NoError(t, sess.Apply(base.Elem(0).Child("value"), "1"))
	require.NoError(t, sess.Apply(base.Elem(1).Child("value"), "2"))
	require.ErrorIs(t, sess.Apply(base.Elem(2).Child("value"), "three"), form.ErrCoercion)
	require.NoError(t, sess.Apply(base.Elem(1).Child("unit"), "kWh"))

	require.NoError(t, sess.RemoveItem(base, 1))

	got, ok := datapath.Get(sess.Tree(), base)
	require.True(t, ok)

	want := []any{
		map[string]any{"value": float64(1), "samples": []any{}},
		map[string]any{"value": "three", "samples": []any{}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}

	require.ErrorIs(t, sess.Err(base.Elem(1).Child("value")), form.ErrCoercion)
	require.NoError(t, sess.Err(base.Elem(2).Child("value")))
	assert.Len(t, sess.Errors(), 1)

	f, ok := sess.Field(base)
	require.True(t, ok)
	require.Len(t, f.Items, 2)
	assert.Equal(t, "Reading 2", f.Items[1].Label)
	assert.Equal(t, base.Elem(1), f.Items[1].Path)
	assert.Equal(t, []string{"value", "unit", "samples"}, names(f.Items[1].Children))

	_, ok = sess.Field(base.Elem(2).Child("value"))
	assert.False(t, ok)
}

func TestAddThenRemoveRestoresLength(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		base     string
		existing int
	}{
		"empty objects":    {base: "bodyParameters.readings"},
		"objects":          {base: "bodyParameters.readings", existing: 2},
		"booleans":         {base: "bodyParameters.flags", existing: 1},
		"strings":          {base: "bodyParameters.settings.tags", existing: 3},
		"nested sequences": {base: "bodyParameters.readings[0].samples", existing: 1},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			sess := newSession(t, "Request")
			base := datapath.MustParse(tc.base)

			if base.Len() > 2 && base.Steps()[2].IsIndex() {
				_, _, err := sess.AddItem(base.Parent().Parent(), nil)
				require.NoError(t, err)
			}

			for range tc.existing {
				_, _, err := sess.AddItem(base, nil)
				require.NoError(t, err)
			}

			before := datapath.Clone(sess.Tree())

			p, _, err := sess.AddItem(base, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.existing+1, datapath.Len(sess.Tree(), base))

			i, ok := p.Last().Index()
			require.True(t, ok)
			require.NoError(t, sess.RemoveItem(base, i))

			assert.Equal(t, tc.existing, datapath.Len(sess.Tree(), base))

			if diff := cmp.Diff(before, sess.Tree()); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRemoveItemDropsFlagsOfRemovedElement(t *testing.T) {
	t.Parallel()

	sess := newSession(t, "Request")
	base := datapath.MustParse("bodyParameters.readings")

	_, _, err := sess.AddItem(base, nil)
	require.NoError(t, err)
	require.ErrorIs(t, sess.Apply(base.Elem(0).Child("value"), "bad"), form.ErrCoercion)

	require.NoError(t, sess.RemoveItem(base, 0))

	assert.Empty(t, sess.Errors())
	assert.Equal(t, 0, datapath.Len(sess.Tree(), base))
}

func TestItemErrors(t *testing.T) {
	t.Parallel()

	sess := newSession(t, "Request")
	require.NoError(t, sess.Apply(datapath.MustParse("bodyParameters.name"), "meter"))

	readings := datapath.MustParse("bodyParameters.readings")
	name := datapath.MustParse("bodyParameters.name")

	require.ErrorIs(t, sess.RemoveItem(readings, 0), form.ErrIndexOutOfRange)
	require.ErrorIs(t, sess.RemoveItem(readings, -1), form.ErrIndexOutOfRange)
	require.ErrorIs(t, sess.RemoveItem(name, 0), form.ErrNotArray)
	require.ErrorIs(t, sess.RemoveItem(datapath.MustParse("bodyParameters.ratio"), 0), form.ErrNotArray)

	_, _, err := sess.AddItem(name, nil)
	require.ErrorIs(t, err, form.ErrNotArray)

	_, _, err = sess.AddItem(name, &jsonschema.Schema{Type: "string"})
	require.ErrorIs(t, err, form.ErrNotArray)

	empty := form.NewSession(loadDoc(t))
	_, _, err = empty.AddItem(readings, nil)
	require.ErrorIs(t, err, form.ErrNoSelection)
	require.ErrorIs(t, empty.RemoveItem(readings, 0), form.ErrNoSelection)
}
