// Package jsonx is the JSON codec shared by the command boundary and the
// jsonb document stores.
package jsonx

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var (
	api    = jsoniter.ConfigCompatibleWithStandardLibrary
	strict = jsoniter.Config{
		EscapeHTML:             true,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
		DisallowUnknownFields:  true,
	}.Froze()
)

// RawMessage is a raw encoded JSON value, decoded later.
type RawMessage = jsoniter.RawMessage

func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}

// Valid reports whether data is a well-formed JSON document.
func Valid(data []byte) bool {
	return api.Valid(data)
}

func NewEncoder(w io.Writer) *jsoniter.Encoder {
	return api.NewEncoder(w)
}

// DecodeStrict decodes data into v and rejects unknown fields.
func DecodeStrict(data []byte, v any) error {
	return strict.Unmarshal(data, v)
}
