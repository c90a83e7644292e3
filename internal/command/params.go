package command

import (
	"bytes"

	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/platform/jsonx"
	"dossier/pkg/result"
)

// Decode unmarshals the command params into T. Absent params are a missing
// attribute; a value of the wrong JSON type is a data type mismatch on its
// attribute; anything else that does not fit T is a parsing error.
func Decode[T any](cmd Command) result.Result[T, dErrors.Fail] {
	raw := bytes.TrimSpace(cmd.Params)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return result.Failure[T, dErrors.Fail](dErrors.MissingRequiredAttribute("params"))
	}
	var params T
	if err := jsonx.Unmarshal(raw, &params); err != nil {
		if m, found := jsonx.FindTypeMismatch(raw, &params); found {
			return result.Failure[T, dErrors.Fail](dErrors.DataTypeMismatch(m.Path, m.Expected, m.Actual))
		}
		return result.Failure[T, dErrors.Fail](dErrors.RequestParsing(err))
	}
	return result.Success[T, dErrors.Fail](params)
}

// Required parses a mandatory attribute.
func Required[T, U any](attribute string, value *T, parse func(T) result.Result[U, dErrors.Fail]) result.Result[U, dErrors.Fail] {
	if value == nil {
		return result.Failure[U, dErrors.Fail](dErrors.MissingRequiredAttribute(attribute))
	}
	return parse(*value)
}

// Optional parses an attribute that may be absent.
func Optional[T, U any](value *T, parse func(T) result.Result[U, dErrors.Fail]) result.Result[*U, dErrors.Fail] {
	return result.Optional(value, parse)
}

// Reply lifts a typed result into an Outcome.
func Reply[T any](r result.Result[T, dErrors.Fail]) Outcome {
	return result.Map(r, func(v T) any { return v })
}

// ReplyEmpty lifts a validation into an Outcome with no payload.
func ReplyEmpty(v result.Validation[dErrors.Fail]) Outcome {
	return result.AsResult[any](v, nil)
}
