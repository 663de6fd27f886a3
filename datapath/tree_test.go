package datapath_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barkingbob/json-builder-app/datapath"
)

func TestSetCreatesContainers(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		path  string
		value any
		want  map[string]any
	}{
		"top level key": {
			path:  "root",
			value: "x",
			want:  map[string]any{"root": "x"},
		},
		"nested mappings": {
			path:  "root.a.b",
			value: true,
			want: map[string]any{
				"root": map[string]any{"a": map[string]any{"b": true}},
			},
		},
		"sequence from index step": {
			path:  "root.items[0].name",
			value: "first",
			want: map[string]any{
				"root": map[string]any{
					"items": []any{map[string]any{"name": "first"}},
				},
			},
		},
		"dotted index makes a sequence": {
			path:  "root.items.0",
			value: 4.0,
			want: map[string]any{
				"root": map[string]any{"items": []any{4.0}},
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tree := map[string]any{}
			require.NoError(t, datapath.Set(tree, datapath.MustParse(tc.path), tc.value))

			if diff := cmp.Diff(tc.want, tree); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetThenGet(t *testing.T) {
	t.Parallel()

	paths := []string{
		"root",
		"root.a",
		"root.a.b.c",
		"root.list[0]",
		"root.list[3]",
		"root.list[2].inner",
		"root.grid[1][1]",
		"other.x[0].y[0].z",
	}
	values := []any{"text", 0.0, int64(7), false, true, nil, map[string]any{}, []any{"a"}}

	for _, ps := range paths {
		for _, v := range values {
			tree := map[string]any{}
			p := datapath.MustParse(ps)

			require.NoError(t, datapath.Set(tree, p, v))

			got, ok := datapath.Get(tree, p)
			require.True(t, ok, "path %s", ps)
			assert.Equal(t, v, got, "path %s", ps)

			require.NoError(t, datapath.Set(tree, p, datapath.Absent))

			_, ok = datapath.Get(tree, p)
			assert.False(t, ok, "path %s after delete", ps)
		}
	}
}

func TestSetReplacesMismatchedContainer(t *testing.T) {
	t.Parallel()

	tree := map[string]any{"root": map[string]any{"items": "oops"}}

	require.NoError(t, datapath.Set(tree, datapath.MustParse("root.items[1]"), "b"))

	got, ok := datapath.Get(tree, datapath.MustParse("root.items"))
	require.True(t, ok)
	assert.Equal(t, []any{datapath.Absent, "b"}, got)

	_, ok = datapath.Get(tree, datapath.MustParse("root.items[0]"))
	assert.False(t, ok, "padding element is a hole")

	require.NoError(t, datapath.Set(tree, datapath.MustParse("root.items.name"), "c"))

	got, ok = datapath.Get(tree, datapath.MustParse("root.items"))
	require.True(t, ok)
	assert.Equal(t, map[string]any{"name": "c"}, got)
}

func TestDeleteLeavesHoleInSequence(t *testing.T) {
	t.Parallel()

	tree := map[string]any{
		"root": map[string]any{"items": []any{"a", "b", "c"}},
	}

	require.NoError(t, datapath.Set(tree, datapath.MustParse("root.items[1]"), datapath.Absent))

	assert.Equal(t, 3, datapath.Len(tree, datapath.MustParse("root.items")))

	got, ok := datapath.Get(tree, datapath.MustParse("root.items[2]"))
	require.True(t, ok)
	assert.Equal(t, "c", got)

	_, ok = datapath.Get(tree, datapath.MustParse("root.items[1]"))
	assert.False(t, ok)
}

func TestDeleteMissingIsNoop(t *testing.T) {
	t.Parallel()

	tree := map[string]any{"root": map[string]any{}}

	datapath.Delete(tree, datapath.MustParse("root.a.b.c"))
	datapath.Delete(tree, datapath.MustParse("root.items[4]"))

	want := map[string]any{"root": map[string]any{}}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestGetMissing(t *testing.T) {
	t.Parallel()

	tree := map[string]any{
		"root": map[string]any{
			"scalar": "x",
			"items":  []any{"a"},
		},
	}

	for _, ps := range []string{
		"nope",
		"root.nope",
		"root.scalar.deeper",
		"root.items[5]",
		"root.items.name",
		"root[0]",
	} {
		_, ok := datapath.Get(tree, datapath.MustParse(ps))
		assert.False(t, ok, ps)
	}

	_, ok := datapath.Get(tree, datapath.Path{})
	assert.False(t, ok)
}

func TestSetRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	err := datapath.Set(map[string]any{}, datapath.Path{}, "x")
	require.ErrorIs(t, err, datapath.ErrInvalidPath)

	err = datapath.Set(nil, datapath.New("a"), "x")
	require.ErrorIs(t, err, datapath.ErrInvalidPath)
}

func TestNegativeIndex(t *testing.T) {
	t.Parallel()

	tree := map[string]any{"a": []any{"x", "y"}}
	p := datapath.New("a").Elem(-1)

	tcs := map[string]struct {
		value any
	}{
		"set":    {value: "z"},
		"delete": {value: datapath.Absent},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := datapath.Set(datapath.Clone(tree).(map[string]any), p, tc.value)
			require.ErrorIs(t, err, datapath.ErrInvalidPath)
		})
	}

	_, ok := datapath.Get(tree, p)
	assert.False(t, ok)

	datapath.Delete(tree, p)
	assert.Equal(t, []any{"x", "y"}, tree["a"])
}

func TestClone(t *testing.T) {
	t.Parallel()

	orig := map[string]any{
		"a": []any{map[string]any{"b": "c"}, 1.0},
		"d": "e",
	}

	cloned, ok := datapath.Clone(orig).(map[string]any)
	require.True(t, ok)

	require.NoError(t, datapath.Set(cloned, datapath.MustParse("a[0].b"), "changed"))

	got, ok := datapath.Get(orig, datapath.MustParse("a[0].b"))
	require.True(t, ok)
	assert.Equal(t, "c", got)
}
