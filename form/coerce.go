package form

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/barkingbob/json-builder-app/schemadoc"
)

var (
	// ErrCoercion indicates that raw input could not be converted to the
	// declared type of its field.
	ErrCoercion = errors.New("coercion failed")
	// ErrUnsupportedSchemaType indicates a schema node with no known
	// handling.
	ErrUnsupportedSchemaType = errors.New("unsupported schema type")
)

// Coerce converts raw input to the type declared by schema.
//
// Numeric types parse strings as decimal numbers; integers must be integral
// and are returned as int64, numbers as float64. An empty string is returned
// as is so the caller can decide whether to clear the field. Boolean fields
// accept a bool or a string understood by [strconv.ParseBool]. Every other
// type passes raw through unchanged.
//
// On failure the returned value is raw and the error wraps [ErrCoercion].
func Coerce(raw any, schema *jsonschema.Schema) (any, error) {
	switch schemadoc.TypeOf(schema) {
	case schemadoc.TypeInteger:
		return coerceInteger(raw)
	case schemadoc.TypeNumber:
		return coerceNumber(raw)
	case schemadoc.TypeBoolean:
		return coerceBoolean(raw)
	}

	return raw, nil
}

func coerceInteger(raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return v, nil
		}

		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return i, nil
		}

		f, err := parseFloat(text)
		if err != nil {
			return raw, err
		}

		return integral(raw, f)

	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return integral(raw, v)
	case json.Number:
		return coerceInteger(v.String())
	}

	return raw, fmt.Errorf("%w: %T is not an integer", ErrCoercion, raw)
}

func coerceNumber(raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return v, nil
		}

		f, err := parseFloat(text)
		if err != nil {
			return raw, err
		}

		return f, nil

	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return raw, fmt.Errorf("%w: %v is not a finite number", ErrCoercion, v)
		}

		return v, nil

	case json.Number:
		return coerceNumber(v.String())
	}

	return raw, fmt.Errorf("%w: %T is not a number", ErrCoercion, raw)
}

func coerceBoolean(raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return raw, fmt.Errorf("%w: %q is not a boolean", ErrCoercion, v)
		}

		return b, nil
	}

	return raw, fmt.Errorf("%w: %T is not a boolean", ErrCoercion, raw)
}

func parseFloat(text string) (float64, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a finite number", ErrCoercion, text)
	}

	return f, nil
}

func integral(raw any, f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
		f >= math.MaxInt64 || f < math.MinInt64 {
		return raw, fmt.Errorf("%w: %v is not an integer", ErrCoercion, raw)
	}

	return int64(f), nil
}
