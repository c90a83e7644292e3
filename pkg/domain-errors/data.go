package domainerrors

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const (
	CodeMissingRequiredAttribute Code = "DR-1"
	CodeDataTypeMismatch         Code = "DR-2"
	CodeUnknownValue             Code = "DR-3"
	CodeDataFormatMismatch       Code = "DR-4"
	CodeDataMismatchToPattern    Code = "DR-5"
	CodeUniquenessDataMismatch   Code = "DR-6"
	CodeEmptyObject              Code = "DR-9"
	CodeEmptyArray               Code = "DR-10"
	CodeEmptyString              Code = "DR-11"
)

// DataError reports an attribute that cannot be accepted as supplied.
type DataError struct {
	code        Code
	description string
	attribute   string
	actual      string
	expected    string
}

func (e *DataError) Error() string       { return e.Message() }
func (e *DataError) Code() Code          { return e.code }
func (e *DataError) Description() string { return e.description }
func (e *DataError) Message() string     { return message(e.code, e.description) }
func (e *DataError) Kind() Kind          { return KindError }
func (e *DataError) sealed()             {}

// Attribute is the dotted path of the offending attribute.
func (e *DataError) Attribute() string { return e.attribute }

// Actual is the offending value, empty when the attribute was absent.
func (e *DataError) Actual() string { return e.actual }

// Expected describes what would have been accepted: a pattern, a format or
// the allowed set.
func (e *DataError) Expected() string { return e.expected }

func (e *DataError) Log(ctx context.Context, logger *slog.Logger) {
	logger.WarnContext(ctx, e.Message(),
		"code", e.code,
		"attribute", e.attribute,
	)
}

func MissingRequiredAttribute(attribute string) *DataError {
	return &DataError{
		code:        CodeMissingRequiredAttribute,
		description: fmt.Sprintf("Missing required attribute '%s'.", attribute),
		attribute:   attribute,
	}
}

func DataTypeMismatch(attribute, expected, actual string) *DataError {
	return &DataError{
		code:        CodeDataTypeMismatch,
		description: fmt.Sprintf("Data type mismatch of attribute '%s'. Expected data type: '%s', actual data type: '%s'.", attribute, expected, actual),
		attribute:   attribute,
		actual:      actual,
		expected:    expected,
	}
}

// UnknownValue reports a value outside the allowed set of an enumeration.
func UnknownValue(attribute, actual string, allowed []string) *DataError {
	expected := strings.Join(allowed, ", ")
	return &DataError{
		code:        CodeUnknownValue,
		description: fmt.Sprintf("Attribute '%s' has an unknown value '%s'. Allowed values: '%s'.", attribute, actual, expected),
		attribute:   attribute,
		actual:      actual,
		expected:    expected,
	}
}

func DataFormatMismatch(attribute, actual, format string) *DataError {
	return &DataError{
		code:        CodeDataFormatMismatch,
		description: fmt.Sprintf("Data format mismatch of attribute '%s'. Expected data format: '%s', actual value: '%s'.", attribute, format, actual),
		attribute:   attribute,
		actual:      actual,
		expected:    format,
	}
}

func DataMismatchToPattern(attribute, actual, pattern string) *DataError {
	return &DataError{
		code:        CodeDataMismatchToPattern,
		description: fmt.Sprintf("Data mismatch of attribute '%s' to the pattern: '%s'. Actual value: '%s'.", attribute, pattern, actual),
		attribute:   attribute,
		actual:      actual,
		expected:    pattern,
	}
}

func UniquenessDataMismatch(attribute, duplicate string) *DataError {
	return &DataError{
		code:        CodeUniquenessDataMismatch,
		description: fmt.Sprintf("Attribute '%s' has non-unique elements. Duplicated value: '%s'.", attribute, duplicate),
		attribute:   attribute,
		actual:      duplicate,
	}
}

func EmptyObject(attribute string) *DataError {
	return &DataError{
		code:        CodeEmptyObject,
		description: fmt.Sprintf("Attribute '%s' is an empty object.", attribute),
		attribute:   attribute,
	}
}

func EmptyArray(attribute string) *DataError {
	return &DataError{
		code:        CodeEmptyArray,
		description: fmt.Sprintf("Attribute '%s' is an empty array.", attribute),
		attribute:   attribute,
	}
}

func EmptyString(attribute string) *DataError {
	return &DataError{
		code:        CodeEmptyString,
		description: fmt.Sprintf("Attribute '%s' is an empty string.", attribute),
		attribute:   attribute,
	}
}
