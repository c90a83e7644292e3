package jsonx

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID     string     `json:"id"`
	Params RawMessage `json:"params"`
}

func TestRoundTripKeepsRawParams(t *testing.T) {
	in := []byte(`{"id":"c-1","params":{"cpid":"x","n":1.5}}`)

	var p payload
	require.NoError(t, Unmarshal(in, &p))
	assert.Equal(t, "c-1", p.ID)
	assert.JSONEq(t, `{"cpid":"x","n":1.5}`, string(p.Params))

	out, err := Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, string(in), string(out))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid([]byte(`{"a":[1,2]}`)))
	assert.False(t, Valid([]byte(`{"a":`)))
}

func TestDecodeStrictRejectsUnknownFields(t *testing.T) {
	var p payload
	assert.Error(t, DecodeStrict([]byte(`{"id":"c-1","extra":true}`), &p))
	assert.NoError(t, DecodeStrict([]byte(`{"id":"c-1"}`), &p))
}

func TestEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(map[string]int{"n": 1}))
	assert.JSONEq(t, `{"n":1}`, buf.String())
}

type mismatchTarget struct {
	Cpid     *string    `json:"cpid"`
	Count    *int64     `json:"count"`
	Flag     bool       `json:"flag"`
	Raw      RawMessage `json:"raw"`
	Anything any        `json:"anything"`
	When     *time.Time `json:"when"`
	Lots     []struct {
		ID    string   `json:"id"`
		Items []string `json:"items"`
	} `json:"lots"`
}

func TestFindTypeMismatch(t *testing.T) {
	tests := []struct {
		name string
		data string
		want TypeMismatch
	}{
		{"string given a number", `{"cpid":5}`, TypeMismatch{"cpid", "string", "number"}},
		{"integer given a fraction", `{"count":1.5}`, TypeMismatch{"count", "integer", "number"}},
		{"boolean given a string", `{"flag":"yes"}`, TypeMismatch{"flag", "boolean", "string"}},
		{"array given an object", `{"lots":{}}`, TypeMismatch{"lots", "array", "object"}},
		{"nested field inside an array", `{"lots":[{"id":"a"},{"id":true}]}`, TypeMismatch{"lots.id", "string", "boolean"}},
		{"array element", `{"lots":[{"id":"a","items":["x",1]}]}`, TypeMismatch{"lots.items", "string", "number"}},
		{"root of the wrong kind", `[1]`, TypeMismatch{"params", "object", "array"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target mismatchTarget
			require.Error(t, Unmarshal([]byte(tt.data), &target))

			got, found := FindTypeMismatch([]byte(tt.data), &target)
			require.True(t, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindTypeMismatchIgnoresFittingValues(t *testing.T) {
	data := []byte(`{"cpid":null,"count":3,"raw":[1,"a"],"anything":{"x":1},"when":"2024-03-01T10:00:00Z","unknown":1}`)

	var target mismatchTarget
	require.NoError(t, Unmarshal(data, &target))
	_, found := FindTypeMismatch(data, &target)
	assert.False(t, found)

	_, found = FindTypeMismatch([]byte(`{"cpid":`), &target)
	assert.False(t, found)
}
