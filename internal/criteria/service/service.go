package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"dossier/internal/criteria/models"
	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/platform/sentinel"
	"dossier/pkg/result"
)

// Store persists one criteria document per cpid. Save reports false when a
// document already exists.
type Store interface {
	Find(ctx context.Context, cpid domain.Cpid) (*models.Document, error)
	Save(ctx context.Context, doc models.Document) (bool, error)
}

type Validation = result.Validation[dErrors.Fail]

type Service struct {
	documents Store
	limits    Limits
	newID     func() string
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithLimits(limits Limits) Option {
	return func(s *Service) {
		s.limits = limits
	}
}

// WithIDGenerator replaces the permanent id source. Tests use it to get
// predictable ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

func New(documents Store, opts ...Option) *Service {
	s := &Service{
		documents: documents,
		limits:    DefaultLimits,
		newID:     uuid.NewString,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateCriteria runs the criteria pipeline without storing anything.
func (s *Service) ValidateCriteria(_ context.Context, draft models.Draft) Validation {
	return validateDraft(draft, s.limits)
}

// CreateCriteria validates the draft, allocates permanent ids and stores the
// document.
func (s *Service) CreateCriteria(ctx context.Context, draft models.Draft) result.Result[models.Document, dErrors.Fail] {
	if fail, ok := validateDraft(draft, s.limits).Unwrap(); !ok {
		return result.Failure[models.Document](fail)
	}

	doc := build(draft, s.newID)
	saved, err := s.documents.Save(ctx, doc)
	if err != nil {
		return result.Failure[models.Document](dErrors.FromStore(err))
	}
	if !saved {
		return result.Failure[models.Document, dErrors.Fail](dErrors.CriteriaAlreadyExist(draft.Cpid.String()))
	}

	s.logger.InfoContext(ctx, "criteria created",
		"cpid", doc.Cpid.String(),
		"ocid", doc.Ocid.String(),
		"criteria", len(doc.Criteria),
		"conversions", len(doc.Conversions),
	)
	return result.Success[models.Document, dErrors.Fail](doc)
}

// GetCriteria returns the stored document, or nil when there is none.
func (s *Service) GetCriteria(ctx context.Context, cpid domain.Cpid) result.Result[*models.Document, dErrors.Fail] {
	doc, err := s.documents.Find(ctx, cpid)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return result.Success[*models.Document, dErrors.Fail](nil)
		}
		return result.Failure[*models.Document](dErrors.FromStore(err))
	}
	return result.Success[*models.Document, dErrors.Fail](doc)
}

type answerKey struct {
	requirement domain.RequirementID
	candidate   domain.CandidateID
}

// ValidateRequirementResponses checks submitted answers against the stored
// criteria: every response must match a requirement and its data type, and
// every candidate must answer every requirement exactly once.
func (s *Service) ValidateRequirementResponses(ctx context.Context, params models.ResponsesParams) Validation {
	doc, fail, ok := s.GetCriteria(ctx, params.Cpid).Unwrap()
	if !ok {
		return result.Invalid(fail)
	}
	if doc == nil {
		return result.Invalid[dErrors.Fail](dErrors.ResponseCriteriaNotFound(params.Cpid.String()))
	}

	requirements := models.Requirements(doc.Criteria)
	idx := indexRequirements(doc.Criteria)
	candidates := make(map[domain.CandidateID]struct{}, len(params.Candidates))
	for _, c := range params.Candidates {
		candidates[c] = struct{}{}
	}

	answered := make(map[answerKey]struct{}, len(params.Responses))
	check := result.Every(params.Responses, func(r models.Response) Validation {
		req, found := idx[r.Requirement]
		if !found {
			return result.Invalid[dErrors.Fail](dErrors.RequirementNotFound(r.Requirement.String()))
		}
		if r.Value.DataType() != req.DataType {
			return result.Invalid[dErrors.Fail](
				dErrors.ResponseDataTypeMismatch(r.ID, req.DataType.String(), r.Value.DataType().String()))
		}
		if _, known := candidates[r.RelatedCandidate]; !known {
			return result.Invalid[dErrors.Fail](dErrors.RelatedCandidateNotFound(r.ID, r.RelatedCandidate.String()))
		}
		k := answerKey{requirement: r.Requirement, candidate: r.RelatedCandidate}
		if _, dup := answered[k]; dup {
			return result.Invalid[dErrors.Fail](
				dErrors.DuplicateResponse(r.Requirement.String(), r.RelatedCandidate.String()))
		}
		answered[k] = struct{}{}
		return result.Valid[dErrors.Fail]()
	})
	if check.IsInvalid() {
		return check
	}

	var missing []string
	reported := make(map[domain.RequirementID]struct{})
	for _, c := range params.Candidates {
		for _, req := range requirements {
			if _, ok := answered[answerKey{requirement: req.ID, candidate: c}]; ok {
				continue
			}
			if _, seen := reported[req.ID]; !seen {
				reported[req.ID] = struct{}{}
				missing = append(missing, req.ID.String())
			}
		}
	}
	if len(missing) > 0 {
		return result.Invalid[dErrors.Fail](dErrors.MissingResponse(missing))
	}
	return result.Valid[dErrors.Fail]()
}
