package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	periodModels "dossier/internal/period/models"
	"dossier/internal/submission/models"
	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/platform/sentinel"
	"dossier/pkg/result"
	"dossier/pkg/rules"
)

// Store persists submissions. UpdateStatuses applies all states or none and
// returns sentinel.ErrNotFound when any id is unknown.
type Store interface {
	Save(ctx context.Context, submission models.Submission) error
	FindByIDs(ctx context.Context, cpid domain.Cpid, ocid domain.Ocid, ids []domain.SubmissionID) ([]models.Submission, error)
	FindAll(ctx context.Context, cpid domain.Cpid, ocid domain.Ocid) ([]models.Submission, error)
	UpdateStatuses(ctx context.Context, cpid domain.Cpid, ocid domain.Ocid, states []models.State) error
}

// PeriodFinder resolves the submission period of a release.
type PeriodFinder interface {
	FindPeriod(ctx context.Context, cpid domain.Cpid, ocid domain.Ocid) result.Result[*periodModels.Record, dErrors.Fail]
}

// RuleStore resolves the configured minimal number of submissions.
type RuleStore interface {
	FindMinimumSubmissions(ctx context.Context, country domain.Country, pmd domain.ProcurementMethod) (int64, bool, error)
}

type Validation = result.Validation[dErrors.Fail]

type Service struct {
	submissions Store
	periods     PeriodFinder
	rules       RuleStore
	logger      *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(submissions Store, periods PeriodFinder, rules RuleStore, opts ...Option) *Service {
	s := &Service{submissions: submissions, periods: periods, rules: rules, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSubmission stores a pending submission dated inside the submission
// period of the release.
func (s *Service) CreateSubmission(ctx context.Context, params models.CreateParams) result.Result[models.Created, dErrors.Fail] {
	stored, fail, ok := s.periods.FindPeriod(ctx, params.Cpid, params.Ocid).Unwrap()
	if !ok {
		return result.Failure[models.Created](fail)
	}
	if stored == nil {
		return result.Failure[models.Created, dErrors.Fail](
			dErrors.SubmissionPeriodNotFound(params.Cpid.String(), params.Ocid.String()))
	}
	if !stored.Period.Contains(params.Date) {
		return result.Failure[models.Created, dErrors.Fail](
			dErrors.SubmissionDateOutside(params.Date, stored.Period.StartDate, stored.Period.EndDate))
	}

	if fail, ok := validateDraft(params.Draft).Unwrap(); !ok {
		return result.Failure[models.Created](fail)
	}

	submission := models.Submission{
		ID:                   domain.NewSubmissionID(),
		Cpid:                 params.Cpid,
		Ocid:                 params.Ocid,
		Owner:                params.Owner,
		Token:                domain.NewToken(),
		Status:               domain.SubmissionPending,
		Date:                 params.Date,
		Candidates:           params.Draft.Candidates,
		Documents:            params.Draft.Documents,
		RequirementResponses: params.Draft.RequirementResponses,
	}
	if err := s.submissions.Save(ctx, submission); err != nil {
		return result.Failure[models.Created](dErrors.FromStore(err))
	}

	s.logger.InfoContext(ctx, "submission created",
		"cpid", params.Cpid.String(),
		"ocid", params.Ocid.String(),
		"submission_id", submission.ID.String(),
		"candidates", len(submission.Candidates),
	)
	return result.Success[models.Created, dErrors.Fail](models.Created{
		ID:     submission.ID,
		Token:  submission.Token,
		Status: submission.Status,
		Date:   submission.Date,
	})
}

func validateDraft(d models.Draft) Validation {
	return result.Chain(
		func() Validation {
			if len(d.Candidates) == 0 {
				return result.Invalid[dErrors.Fail](dErrors.EmptyArray("candidates"))
			}
			return result.Valid[dErrors.Fail]()
		},
		func() Validation {
			seen := make(map[domain.CandidateID]struct{}, len(d.Candidates))
			for _, c := range d.Candidates {
				if _, dup := seen[c.ID]; dup {
					return result.Invalid[dErrors.Fail](dErrors.DuplicateCandidate(c.ID.String()))
				}
				seen[c.ID] = struct{}{}
			}
			return result.Valid[dErrors.Fail]()
		},
		func() Validation {
			return rules.Collection("documents", d.Documents, func(doc models.Document) domain.DocumentID { return doc.ID })
		},
		func() Validation {
			return rules.Collection("requirementResponses", d.RequirementResponses,
				func(r models.RequirementResponse) string { return r.ID })
		},
		func() Validation {
			for _, r := range d.RequirementResponses {
				if !hasCandidate(d.Candidates, r.RelatedCandidate) {
					return result.Invalid[dErrors.Fail](dErrors.RelatedCandidateNotFound(r.ID, r.RelatedCandidate.String()))
				}
			}
			return result.Valid[dErrors.Fail]()
		},
	)
}

func hasCandidate(candidates []models.Candidate, id domain.CandidateID) bool {
	for _, c := range candidates {
		if c.ID == id {
			return true
		}
	}
	return false
}

// CheckPresenceCandidateInOneSubmission rejects a submission whose candidate
// also appears in another active submission of the release.
func (s *Service) CheckPresenceCandidateInOneSubmission(ctx context.Context, params models.PresenceParams) Validation {
	all, fail, ok := s.findAll(ctx, params.Cpid, params.Ocid).Unwrap()
	if !ok {
		return result.Invalid(fail)
	}

	var target *models.Submission
	for i := range all {
		if all[i].ID == params.ID {
			target = &all[i]
			break
		}
	}
	if target == nil {
		return result.Invalid[dErrors.Fail](dErrors.PresenceSubmissionNotFound(params.ID.String()))
	}

	for _, candidate := range target.Candidates {
		var others []string
		for _, other := range all {
			if other.ID == target.ID || other.Status == domain.SubmissionWithdrawn {
				continue
			}
			if other.HasCandidate(candidate.ID) {
				others = append(others, other.ID.String())
			}
		}
		if len(others) > 0 {
			sort.Strings(others)
			return result.Invalid[dErrors.Fail](dErrors.CandidateInManySubmissions(candidate.ID.String(), others))
		}
	}
	return result.Valid[dErrors.Fail]()
}

// SetStateForSubmission moves one submission to a new status.
func (s *Service) SetStateForSubmission(ctx context.Context, params models.SetStateParams) result.Result[models.State, dErrors.Fail] {
	found, fail, ok := s.findByIDs(ctx, params.Cpid, params.Ocid, []domain.SubmissionID{params.ID}).Unwrap()
	if !ok {
		return result.Failure[models.State](fail)
	}
	if len(found) == 0 {
		return result.Failure[models.State, dErrors.Fail](dErrors.StateSubmissionNotFound([]string{params.ID.String()}))
	}

	state := models.State{ID: params.ID, Status: params.Status}
	if fail, ok := s.updateStatuses(ctx, params.Cpid, params.Ocid, []models.State{state}).Unwrap(); !ok {
		return result.Failure[models.State](fail)
	}
	return result.Success[models.State, dErrors.Fail](state)
}

var qualificationOutcome = map[domain.QualificationStatus]domain.SubmissionStatus{
	domain.QualificationActive:       domain.SubmissionValid,
	domain.QualificationUnsuccessful: domain.SubmissionDisqualified,
}

// FinalizeSubmissions applies qualification outcomes. Pending submissions
// without a qualification are withdrawn. Returns the changed states.
func (s *Service) FinalizeSubmissions(ctx context.Context, params models.FinalizeParams) result.Result[[]models.State, dErrors.Fail] {
	all, fail, ok := s.findAll(ctx, params.Cpid, params.Ocid).Unwrap()
	if !ok {
		return result.Failure[[]models.State](fail)
	}

	byID := make(map[domain.SubmissionID]models.Submission, len(all))
	for _, sub := range all {
		byID[sub.ID] = sub
	}

	var missing []string
	outcome := make(map[domain.SubmissionID]domain.SubmissionStatus, len(params.Qualifications))
	for _, q := range params.Qualifications {
		if _, exists := byID[q.RelatedSubmission]; !exists {
			missing = append(missing, q.RelatedSubmission.String())
			continue
		}
		status, allowed := qualificationOutcome[q.Status]
		if !allowed {
			// Handlers parse statuses through the finalize allow-list.
			panic("submission: qualification status outside the finalize allow-list: " + q.Status.String())
		}
		outcome[q.RelatedSubmission] = status
	}
	if len(missing) > 0 {
		return result.Failure[[]models.State, dErrors.Fail](dErrors.StateSubmissionNotFound(missing))
	}

	var changed []models.State
	for _, sub := range all {
		if status, qualified := outcome[sub.ID]; qualified {
			changed = append(changed, models.State{ID: sub.ID, Status: status})
			continue
		}
		if sub.Status == domain.SubmissionPending {
			changed = append(changed, models.State{ID: sub.ID, Status: domain.SubmissionWithdrawn})
		}
	}
	if len(changed) == 0 {
		return result.Success[[]models.State, dErrors.Fail](changed)
	}

	if fail, ok := s.updateStatuses(ctx, params.Cpid, params.Ocid, changed).Unwrap(); !ok {
		return result.Failure[[]models.State](fail)
	}
	s.logger.InfoContext(ctx, "submissions finalized",
		"cpid", params.Cpid.String(),
		"ocid", params.Ocid.String(),
		"changed", len(changed),
	)
	return result.Success[[]models.State, dErrors.Fail](changed)
}

// CheckAccessToSubmission verifies the owner and token of a submission.
func (s *Service) CheckAccessToSubmission(ctx context.Context, params models.AccessParams) Validation {
	found, fail, ok := s.findByIDs(ctx, params.Cpid, params.Ocid, []domain.SubmissionID{params.ID}).Unwrap()
	if !ok {
		return result.Invalid(fail)
	}
	if len(found) == 0 {
		return result.Invalid[dErrors.Fail](dErrors.AccessSubmissionNotFound(params.ID.String()))
	}
	submission := found[0]
	if submission.Owner != params.Owner {
		return result.Invalid[dErrors.Fail](dErrors.InvalidOwner(params.ID.String()))
	}
	if submission.Token != params.Token {
		return result.Invalid[dErrors.Fail](dErrors.InvalidToken(params.ID.String()))
	}
	return result.Valid[dErrors.Fail]()
}

// CheckSubmissionsMinimumQuantity compares the number of submissions still
// in play (pending or valid) with the configured minimum.
func (s *Service) CheckSubmissionsMinimumQuantity(ctx context.Context, params models.MinimumQuantityParams) Validation {
	minimum, found, err := s.rules.FindMinimumSubmissions(ctx, params.Country, params.Pmd)
	if err != nil {
		return result.Invalid(dErrors.FromStore(err))
	}
	if !found {
		return result.Invalid[dErrors.Fail](dErrors.MinimumRuleNotFound(params.Country.String(), params.Pmd.String()))
	}

	all, fail, ok := s.findAll(ctx, params.Cpid, params.Ocid).Unwrap()
	if !ok {
		return result.Invalid(fail)
	}
	active := 0
	for _, sub := range all {
		if sub.Status == domain.SubmissionPending || sub.Status == domain.SubmissionValid {
			active++
		}
	}
	if int64(active) < minimum {
		return result.Invalid[dErrors.Fail](dErrors.NotEnoughSubmissions(active, minimum))
	}
	return result.Valid[dErrors.Fail]()
}

// GetSubmissionStateByIds returns the states in request order.
func (s *Service) GetSubmissionStateByIds(ctx context.Context, params models.StatesParams) result.Result[[]models.State, dErrors.Fail] {
	found, fail, ok := s.findByIDs(ctx, params.Cpid, params.Ocid, params.IDs).Unwrap()
	if !ok {
		return result.Failure[[]models.State](fail)
	}
	byID := make(map[domain.SubmissionID]models.Submission, len(found))
	for _, sub := range found {
		byID[sub.ID] = sub
	}

	states := make([]models.State, 0, len(params.IDs))
	var missing []string
	for _, id := range params.IDs {
		sub, ok := byID[id]
		if !ok {
			missing = append(missing, id.String())
			continue
		}
		states = append(states, sub.State())
	}
	if len(missing) > 0 {
		return result.Failure[[]models.State, dErrors.Fail](dErrors.StateSubmissionNotFound(missing))
	}
	return result.Success[[]models.State, dErrors.Fail](states)
}

// FindSubmissions exposes the submissions of a release to other commands.
func (s *Service) FindSubmissions(ctx context.Context, cpid domain.Cpid, ocid domain.Ocid) result.Result[[]models.Submission, dErrors.Fail] {
	return s.findAll(ctx, cpid, ocid)
}

func (s *Service) findAll(ctx context.Context, cpid domain.Cpid, ocid domain.Ocid) result.Result[[]models.Submission, dErrors.Fail] {
	all, err := s.submissions.FindAll(ctx, cpid, ocid)
	if err != nil {
		return result.Failure[[]models.Submission](dErrors.FromStore(err))
	}
	return result.Success[[]models.Submission, dErrors.Fail](all)
}

func (s *Service) findByIDs(ctx context.Context, cpid domain.Cpid, ocid domain.Ocid, ids []domain.SubmissionID) result.Result[[]models.Submission, dErrors.Fail] {
	found, err := s.submissions.FindByIDs(ctx, cpid, ocid, ids)
	if err != nil {
		return result.Failure[[]models.Submission](dErrors.FromStore(err))
	}
	return result.Success[[]models.Submission, dErrors.Fail](found)
}

func (s *Service) updateStatuses(ctx context.Context, cpid domain.Cpid, ocid domain.Ocid, states []models.State) Validation {
	err := s.submissions.UpdateStatuses(ctx, cpid, ocid, states)
	switch {
	case err == nil:
		return result.Valid[dErrors.Fail]()
	case errors.Is(err, sentinel.ErrNotFound):
		// Removed between the read and the write.
		ids := make([]string, 0, len(states))
		for _, st := range states {
			ids = append(ids, st.ID.String())
		}
		return result.Invalid[dErrors.Fail](dErrors.StateSubmissionNotFound(ids))
	default:
		return result.Invalid(dErrors.FromStore(err))
	}
}
