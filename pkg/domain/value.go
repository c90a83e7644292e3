package domain

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dossier/pkg/platform/jsonx"
)

// Value is a requirement or response value. Its data type is the tag of the
// JSON token it was decoded from: true/false is boolean, a quoted token is
// string, a number with a fraction or exponent is number, any other number
// is integer.
type Value struct {
	dataType DataType
	boolean  bool
	text     string
	integer  int64
}

func BoolValue(b bool) Value { return Value{dataType: DataTypeBoolean, boolean: b} }

func StringValue(s string) Value { return Value{dataType: DataTypeString, text: s} }

func IntegerValue(i int64) Value { return Value{dataType: DataTypeInteger, integer: i} }

// NumberValue keeps a fractional part in the rendering so the value decodes
// back as a number.
func NumberValue(f float64) Value {
	text := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(text, ".eE") {
		text += ".0"
	}
	return Value{dataType: DataTypeNumber, text: text}
}

// DataType is empty for the zero Value.
func (v Value) DataType() DataType { return v.dataType }

func (v Value) IsZero() bool { return v.dataType == "" }

func (v Value) Bool() (bool, bool) {
	return v.boolean, v.dataType == DataTypeBoolean
}

func (v Value) Text() (string, bool) {
	return v.text, v.dataType == DataTypeString
}

// Float returns numeric values as float64.
func (v Value) Float() (float64, bool) {
	switch v.dataType {
	case DataTypeInteger:
		return float64(v.integer), true
	case DataTypeNumber:
		f, err := strconv.ParseFloat(v.text, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func (v Value) String() string {
	switch v.dataType {
	case DataTypeBoolean:
		return strconv.FormatBool(v.boolean)
	case DataTypeInteger:
		return strconv.FormatInt(v.integer, 10)
	case DataTypeNumber, DataTypeString:
		return v.text
	default:
		return ""
	}
}

// Equal compares type and value. Numbers compare numerically.
func (v Value) Equal(other Value) bool {
	if v.dataType != other.dataType {
		return false
	}
	if v.dataType == DataTypeNumber {
		a, _ := v.Float()
		b, _ := other.Float()
		return a == b
	}
	return v == other
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.dataType {
	case DataTypeString:
		return jsonx.Marshal(v.text)
	case DataTypeBoolean, DataTypeInteger, DataTypeNumber:
		return []byte(v.String()), nil
	default:
		return []byte("null"), nil
	}
}

var errUnsupportedValue = errors.New("value must be a boolean, string or number")

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errUnsupportedValue
	}
	switch c := data[0]; {
	case bytes.Equal(data, []byte("null")):
		*v = Value{}
	case c == 't' || c == 'f':
		b, err := strconv.ParseBool(string(data))
		if err != nil {
			return fmt.Errorf("parse boolean value: %w", err)
		}
		*v = BoolValue(b)
	case c == '"':
		var s string
		if err := jsonx.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("parse string value: %w", err)
		}
		*v = StringValue(s)
	case c == '-' || (c >= '0' && c <= '9'):
		text := string(data)
		if strings.ContainsAny(text, ".eE") {
			if _, err := strconv.ParseFloat(text, 64); err != nil {
				return fmt.Errorf("parse number value: %w", err)
			}
			*v = Value{dataType: DataTypeNumber, text: text}
			return nil
		}
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return fmt.Errorf("parse integer value: %w", err)
		}
		*v = IntegerValue(i)
	default:
		return errUnsupportedValue
	}
	return nil
}
