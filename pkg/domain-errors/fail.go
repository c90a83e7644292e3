// Package domainerrors is the closed failure taxonomy of the service.
//
// Every failure is a Fail, and every Fail belongs to exactly one family:
//
//   - *RequestError    (RQ-n)    the request envelope itself is unusable
//   - *DataError       (DR-n)    an attribute is missing, malformed or not allowed
//   - *ValidationError (VR-x.y)  well-formed input breaks a business rule
//   - *Incident        (INC-x.y) the system failed (storage, serialization)
//
// The first three are caller-attributable errors; incidents are
// system-attributable and carry a Level that decides the log channel.
// Codes are part of the wire contract and never change for a given rule.
//
// Consumers that need per-family behavior go through Match so that adding a
// family is a compile error at every consumption site.
package domainerrors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Code is a stable failure identifier, "<prefix>-<number>".
type Code string

func (c Code) String() string {
	return string(c)
}

// Kind separates caller-attributable errors from system incidents.
type Kind int

const (
	KindError Kind = iota + 1
	KindIncident
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindIncident:
		return "incident"
	default:
		return "unknown"
	}
}

// Fail is implemented only by the four families in this package.
type Fail interface {
	error
	Code() Code
	Description() string
	// Message renders "ERROR CODE: '<code>', DESCRIPTION: '<description>'."
	Message() string
	Kind() Kind
	// Log writes the failure to the channel that matches its kind and level.
	Log(ctx context.Context, logger *slog.Logger)

	sealed()
}

func message(code Code, description string) string {
	return fmt.Sprintf("ERROR CODE: '%s', DESCRIPTION: '%s'.", code, description)
}

// Match dispatches on the failure family. Every family needs a handler.
func Match[R any](
	fail Fail,
	onRequest func(*RequestError) R,
	onData func(*DataError) R,
	onValidation func(*ValidationError) R,
	onIncident func(*Incident) R,
) R {
	switch f := fail.(type) {
	case *RequestError:
		return onRequest(f)
	case *DataError:
		return onData(f)
	case *ValidationError:
		return onValidation(f)
	case *Incident:
		return onIncident(f)
	default:
		panic(fmt.Sprintf("domainerrors: unknown failure family %T", fail))
	}
}

// As extracts a Fail from an error chain.
func As(err error) (Fail, bool) {
	if err == nil {
		return nil, false
	}
	var fail Fail
	if errors.As(err, &fail) {
		return fail, true
	}
	return nil, false
}

// HasCode reports whether err carries a Fail with the given code.
func HasCode(err error, code Code) bool {
	fail, ok := As(err)
	return ok && fail.Code() == code
}

// IsIncident reports whether err carries an Incident.
func IsIncident(err error) bool {
	fail, ok := As(err)
	return ok && fail.Kind() == KindIncident
}
