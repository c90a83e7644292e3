package domainerrors

import (
	"context"
	"log/slog"
)

const (
	CodeRequestParsing     Code = "RQ-1"
	CodeUnknownAction      Code = "RQ-2"
	CodeUnsupportedVersion Code = "RQ-3"
)

// RequestError reports an envelope that cannot be dispatched at all.
type RequestError struct {
	code        Code
	description string
	cause       error
}

func (e *RequestError) Error() string       { return e.Message() }
func (e *RequestError) Code() Code          { return e.code }
func (e *RequestError) Description() string { return e.description }
func (e *RequestError) Message() string     { return message(e.code, e.description) }
func (e *RequestError) Kind() Kind          { return KindError }
func (e *RequestError) Unwrap() error       { return e.cause }
func (e *RequestError) sealed()             {}

func (e *RequestError) Log(ctx context.Context, logger *slog.Logger) {
	attrs := []any{"code", e.code}
	if e.cause != nil {
		attrs = append(attrs, "error", e.cause.Error())
	}
	logger.WarnContext(ctx, e.Message(), attrs...)
}

// RequestParsing reports a body that is not a valid command envelope.
func RequestParsing(cause error) *RequestError {
	return &RequestError{
		code:        CodeRequestParsing,
		description: "Error parsing request payload.",
		cause:       cause,
	}
}

// UnknownAction reports an action the service does not dispatch.
func UnknownAction(action string) *RequestError {
	return &RequestError{
		code:        CodeUnknownAction,
		description: "Unknown action '" + action + "'.",
	}
}

// UnsupportedVersion reports an envelope version the service does not speak.
func UnsupportedVersion(version string) *RequestError {
	return &RequestError{
		code:        CodeUnsupportedVersion,
		description: "Unsupported version '" + version + "'.",
	}
}
