package domainerrors

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	CodeDatabaseInteraction Code = "INC-1.1"
	CodeDatabaseConsistency Code = "INC-1.2"
	CodeDatabaseParsing     Code = "INC-1.3"
	CodeTransformParsing    Code = "INC-2.1"
	CodeSerialization       Code = "INC-2.2"
	CodeDeserialization     Code = "INC-2.3"
	CodeBusUnavailable      Code = "INC-3.1"
	CodeConfiguration       Code = "INC-4.1"
)

// Level decides the log channel an incident is written to.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Incident is a failure attributable to the system rather than the caller.
type Incident struct {
	code        Code
	description string
	level       Level
	cause       error
}

func (e *Incident) Error() string       { return e.Message() }
func (e *Incident) Code() Code          { return e.code }
func (e *Incident) Description() string { return e.description }
func (e *Incident) Message() string     { return message(e.code, e.description) }
func (e *Incident) Kind() Kind          { return KindIncident }
func (e *Incident) Level() Level        { return e.level }
func (e *Incident) Unwrap() error       { return e.cause }
func (e *Incident) sealed()             {}

func (e *Incident) Log(ctx context.Context, logger *slog.Logger) {
	attrs := []any{"code", e.code, "incident_level", e.level}
	if e.cause != nil {
		attrs = append(attrs, "error", e.cause.Error())
	}
	switch e.level {
	case LevelWarning:
		logger.WarnContext(ctx, e.Message(), attrs...)
	case LevelInfo:
		logger.InfoContext(ctx, e.Message(), attrs...)
	default:
		logger.ErrorContext(ctx, e.Message(), attrs...)
	}
}

func newIncident(code Code, level Level, cause error, format string, args ...any) *Incident {
	return &Incident{
		code:        code,
		description: fmt.Sprintf(format, args...),
		level:       level,
		cause:       cause,
	}
}

// DatabaseInteraction wraps a failed store call.
func DatabaseInteraction(cause error) *Incident {
	return newIncident(CodeDatabaseInteraction, LevelError, cause, "Database interaction error.")
}

// DatabaseConsistency reports stored data that contradicts itself or the request.
func DatabaseConsistency(detail string) *Incident {
	return newIncident(CodeDatabaseConsistency, LevelError, nil, "Database consistency incident. %s", detail)
}

// DatabaseParsing reports a stored value that no longer parses into its type.
func DatabaseParsing(attribute, value string, cause error) *Incident {
	return newIncident(CodeDatabaseParsing, LevelError, cause,
		"Could not parse stored attribute '%s' with value '%s'.", attribute, value)
}

// TransformParsing reports a malformed value supplied by a trusted upstream,
// such as an owner or token carried in the command context.
func TransformParsing(attribute, value string, cause error) *Incident {
	return newIncident(CodeTransformParsing, LevelError, cause,
		"Could not parse attribute '%s' with value '%s'.", attribute, value)
}

func Serialization(subject string, cause error) *Incident {
	return newIncident(CodeSerialization, LevelError, cause, "Could not serialize '%s'.", subject)
}

func Deserialization(subject string, cause error) *Incident {
	return newIncident(CodeDeserialization, LevelError, cause, "Could not deserialize '%s'.", subject)
}

// BusUnavailable reports that an incident could not be published.
func BusUnavailable(cause error) *Incident {
	return newIncident(CodeBusUnavailable, LevelWarning, cause, "Incident bus is unavailable.")
}

// Configuration reports a startup configuration problem.
func Configuration(detail string) *Incident {
	return newIncident(CodeConfiguration, LevelInfo, nil, "Configuration incident. %s", detail)
}

// FromStore returns the Fail carried by err, wrapping it as a database interaction
// when it is not already a Fail. Callers use it to lift store errors.
func FromStore(err error) Fail {
	if fail, ok := As(err); ok {
		return fail
	}
	return DatabaseInteraction(err)
}
