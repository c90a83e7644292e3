package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dossier/pkg/platform/jsonx"
)

func TestValueTagFollowsToken(t *testing.T) {
	tests := []struct {
		raw  string
		want DataType
		text string
	}{
		{`true`, DataTypeBoolean, "true"},
		{`false`, DataTypeBoolean, "false"},
		{`"yes"`, DataTypeString, "yes"},
		{`"12"`, DataTypeString, "12"},
		{`12`, DataTypeInteger, "12"},
		{`-3`, DataTypeInteger, "-3"},
		{`12.5`, DataTypeNumber, "12.5"},
		{`1.0`, DataTypeNumber, "1.0"},
		{`1e3`, DataTypeNumber, "1e3"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var v Value
			require.NoError(t, jsonx.Unmarshal([]byte(tt.raw), &v))
			assert.Equal(t, tt.want, v.DataType())
			assert.Equal(t, tt.text, v.String())

			out, err := jsonx.Marshal(v)
			require.NoError(t, err)
			var back Value
			require.NoError(t, jsonx.Unmarshal(out, &back))
			assert.True(t, v.Equal(back), "round trip of %s gave %s", tt.raw, out)
		})
	}
}

func TestValueRejectsContainers(t *testing.T) {
	var v Value
	assert.Error(t, jsonx.Unmarshal([]byte(`{"a":1}`), &v))
	assert.Error(t, jsonx.Unmarshal([]byte(`[1]`), &v))
	assert.Error(t, jsonx.Unmarshal([]byte(`99999999999999999999`), &v))
}

func TestValueInStruct(t *testing.T) {
	var doc struct {
		Value *Value `json:"value"`
		Min   *Value `json:"minValue"`
	}
	require.NoError(t, jsonx.Unmarshal([]byte(`{"value":2.5}`), &doc))
	require.NotNil(t, doc.Value)
	assert.Nil(t, doc.Min)
	f, ok := doc.Value.Float()
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)
}

func TestNumberValueKeepsFraction(t *testing.T) {
	v := NumberValue(2)
	assert.Equal(t, "2.0", v.String())
	assert.Equal(t, DataTypeNumber, v.DataType())
	assert.True(t, v.Equal(NumberValue(2.0)))
	assert.False(t, v.Equal(IntegerValue(2)))
}
