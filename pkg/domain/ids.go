package domain

import (
	"errors"

	"github.com/google/uuid"

	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/result"
)

// UUID-backed identifiers. Owner, Token and SubmissionID normally reach the
// service from the upstream platform, so a malformed value there is an
// incident. Identifiers typed by the client go through the *Attribute
// parsers and fail as data errors.
type (
	Owner        uuid.UUID
	Token        uuid.UUID
	SubmissionID uuid.UUID
)

var errNilUUID = errors.New("nil uuid")

func parseTrustedUUID(attribute, raw string) result.Result[uuid.UUID, dErrors.Fail] {
	id, err := uuid.Parse(raw)
	if err == nil && id == uuid.Nil {
		err = errNilUUID
	}
	if err != nil {
		return result.Failure[uuid.UUID, dErrors.Fail](dErrors.TransformParsing(attribute, raw, err))
	}
	return result.Success[uuid.UUID, dErrors.Fail](id)
}

func ParseOwner(raw string) result.Result[Owner, dErrors.Fail] {
	return result.Map(parseTrustedUUID("owner", raw), func(id uuid.UUID) Owner { return Owner(id) })
}

func ParseToken(raw string) result.Result[Token, dErrors.Fail] {
	return result.Map(parseTrustedUUID("token", raw), func(id uuid.UUID) Token { return Token(id) })
}

func ParseSubmissionID(raw string) result.Result[SubmissionID, dErrors.Fail] {
	return result.Map(parseTrustedUUID("submission.id", raw), func(id uuid.UUID) SubmissionID { return SubmissionID(id) })
}

// ParseSubmissionIDAttribute parses a submission id typed by the client.
func ParseSubmissionIDAttribute(attribute, raw string) result.Result[SubmissionID, dErrors.Fail] {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return result.Failure[SubmissionID, dErrors.Fail](dErrors.DataFormatMismatch(attribute, raw, "uuid"))
	}
	return result.Success[SubmissionID, dErrors.Fail](SubmissionID(id))
}

func NewSubmissionID() SubmissionID { return SubmissionID(uuid.New()) }
func NewToken() Token               { return Token(uuid.New()) }

func (id Owner) String() string        { return uuid.UUID(id).String() }
func (id Token) String() string        { return uuid.UUID(id).String() }
func (id SubmissionID) String() string { return uuid.UUID(id).String() }

// String-backed identifiers supplied in request payloads. Only emptiness is
// checked: their format belongs to the platform that issued them.
type (
	PersonID      string
	CandidateID   string
	RequirementID string
	DocumentID    string
	ItemID        string
)

func parseNonEmpty[T ~string](attribute, raw string) result.Result[T, dErrors.Fail] {
	if raw == "" {
		return result.Failure[T, dErrors.Fail](dErrors.EmptyString(attribute))
	}
	return result.Success[T, dErrors.Fail](T(raw))
}

func ParsePersonID(attribute, raw string) result.Result[PersonID, dErrors.Fail] {
	return parseNonEmpty[PersonID](attribute, raw)
}

func ParseCandidateID(attribute, raw string) result.Result[CandidateID, dErrors.Fail] {
	return parseNonEmpty[CandidateID](attribute, raw)
}

func ParseRequirementID(attribute, raw string) result.Result[RequirementID, dErrors.Fail] {
	return parseNonEmpty[RequirementID](attribute, raw)
}

func ParseDocumentID(attribute, raw string) result.Result[DocumentID, dErrors.Fail] {
	return parseNonEmpty[DocumentID](attribute, raw)
}

func ParseItemID(attribute, raw string) result.Result[ItemID, dErrors.Fail] {
	return parseNonEmpty[ItemID](attribute, raw)
}

func (id PersonID) String() string      { return string(id) }
func (id CandidateID) String() string   { return string(id) }
func (id RequirementID) String() string { return string(id) }
func (id DocumentID) String() string    { return string(id) }
func (id ItemID) String() string        { return string(id) }
