package form_test

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barkingbob/json-builder-app/form"
)

func TestCoerce(t *testing.T) {
	t.Parallel()

	var (
		integer = &jsonschema.Schema{Type: "integer"}
		number  = &jsonschema.Schema{Type: "number"}
		boolean = &jsonschema.Schema{Type: "boolean"}
		str     = &jsonschema.Schema{Type: "string"}
	)

	tcs := map[string]struct {
		raw    any
		schema *jsonschema.Schema
		want   any
		err    bool
	}{
		"integer text":           {raw: "42", schema: integer, want: int64(42)},
		"integer padded":         {raw: " -7 ", schema: integer, want: int64(-7)},
		"integer exponent":       {raw: "1e3", schema: integer, want: int64(1000)},
		"integer fraction":       {raw: "1.5", schema: integer, want: "1.5", err: true},
		"integer garbage":        {raw: "abc", schema: integer, want: "abc", err: true},
		"integer empty":          {raw: "", schema: integer, want: ""},
		"integer from float":     {raw: float64(3), schema: integer, want: int64(3)},
		"integer from json":      {raw: json.Number("12"), schema: integer, want: int64(12)},
		"integer from bool":      {raw: true, schema: integer, want: true, err: true},
		"integer max":            {raw: "9223372036854775807", schema: integer, want: int64(math.MaxInt64)},
		"integer min":            {raw: "-9223372036854775808", schema: integer, want: int64(math.MinInt64)},
		"integer overflow":       {raw: "9223372036854775808", schema: integer, want: "9223372036854775808", err: true},
		"integer overflow float": {raw: float64(1 << 63), schema: integer, want: float64(1 << 63), err: true},
		"integer underflow":      {raw: "-1e19", schema: integer, want: "-1e19", err: true},
		"number text":            {raw: "12.5", schema: number, want: 12.5},
		"number integral":        {raw: "5", schema: number, want: float64(5)},
		"number infinity":        {raw: "Inf", schema: number, want: "Inf", err: true},
		"number nan":             {raw: "NaN", schema: number, want: "NaN", err: true},
		"number garbage":         {raw: "12,5", schema: number, want: "12,5", err: true},
		"number empty":           {raw: "", schema: number, want: ""},
		"number from int":        {raw: 4, schema: number, want: float64(4)},
		"boolean value":          {raw: false, schema: boolean, want: false},
		"boolean text":           {raw: "true", schema: boolean, want: true},
		"boolean garbage":        {raw: "yes please", schema: boolean, want: "yes please", err: true},
		"string passes through":  {raw: "12", schema: str, want: "12"},
		"untyped passes through": {raw: "x", schema: &jsonschema.Schema{}, want: "x"},
		"nil schema":             {raw: "x", schema: nil, want: "x"},
		"integer enum": {
			raw:    "2",
			schema: &jsonschema.Schema{Type: "integer", Enum: []any{1, 2}},
			want:   int64(2),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := form.Coerce(tc.raw, tc.schema)
			if tc.err {
				require.ErrorIs(t, err, form.ErrCoercion)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tc.want, got)
		})
	}
}
