package jsonx

import (
	"encoding"
	"encoding/json"
	"math"
	"reflect"
	"strings"
)

// TypeMismatch names the first attribute whose JSON type does not fit the
// Go field it decodes into. Path segments are joined with dots; array
// elements share the path of their array.
type TypeMismatch struct {
	Path     string
	Expected string
	Actual   string
}

var (
	jsonUnmarshaler = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	textUnmarshaler = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	rawMessageType  = reflect.TypeOf(RawMessage(nil))
)

// FindTypeMismatch locates the attribute of data that cannot be decoded
// into v. It reports false when data is not well-formed or every value fits.
func FindTypeMismatch(data []byte, v any) (TypeMismatch, bool) {
	var doc any
	if err := api.Unmarshal(data, &doc); err != nil {
		return TypeMismatch{}, false
	}
	t := reflect.TypeOf(v)
	if t == nil {
		return TypeMismatch{}, false
	}
	return walk(nil, t, doc)
}

func walk(path []string, t reflect.Type, value any) (TypeMismatch, bool) {
	if value == nil || skip(t) {
		return TypeMismatch{}, false
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
		if skip(t) {
			return TypeMismatch{}, false
		}
	}
	mismatch := func(expected string) (TypeMismatch, bool) {
		return TypeMismatch{Path: joinPath(path), Expected: expected, Actual: kindOf(value)}, true
	}

	switch t.Kind() {
	case reflect.Interface:
		return TypeMismatch{}, false
	case reflect.String:
		if _, ok := value.(string); !ok {
			return mismatch("string")
		}
	case reflect.Bool:
		if _, ok := value.(bool); !ok {
			return mismatch("boolean")
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := value.(float64)
		if !ok || n != math.Trunc(n) {
			return mismatch("integer")
		}
	case reflect.Float32, reflect.Float64:
		if _, ok := value.(float64); !ok {
			return mismatch("number")
		}
	case reflect.Slice, reflect.Array:
		items, ok := value.([]any)
		if !ok {
			return mismatch("array")
		}
		for _, item := range items {
			if m, found := walk(path, t.Elem(), item); found {
				return m, true
			}
		}
	case reflect.Map:
		fields, ok := value.(map[string]any)
		if !ok {
			return mismatch("object")
		}
		for key, item := range fields {
			if m, found := walk(append(path[:len(path):len(path)], key), t.Elem(), item); found {
				return m, true
			}
		}
	case reflect.Struct:
		fields, ok := value.(map[string]any)
		if !ok {
			return mismatch("object")
		}
		return walkStruct(path, t, fields)
	}
	return TypeMismatch{}, false
}

func walkStruct(path []string, t reflect.Type, fields map[string]any) (TypeMismatch, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct {
			if m, found := walkStruct(path, f.Type, fields); found {
				return m, true
			}
			continue
		}
		if name == "" {
			name = f.Name
		}
		value, ok := fields[name]
		if !ok {
			continue
		}
		if m, found := walk(append(path[:len(path):len(path)], name), f.Type, value); found {
			return m, true
		}
	}
	return TypeMismatch{}, false
}

func skip(t reflect.Type) bool {
	if t == rawMessageType {
		return true
	}
	return t.Implements(jsonUnmarshaler) || t.Implements(textUnmarshaler) ||
		reflect.PointerTo(t).Implements(jsonUnmarshaler) || reflect.PointerTo(t).Implements(textUnmarshaler)
}

func joinPath(path []string) string {
	if len(path) == 0 {
		return "params"
	}
	return strings.Join(path, ".")
}

func kindOf(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return "null"
}
