package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dossier/internal/period/models"
	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/platform/sentinel"
	"dossier/pkg/requestcontext"
	"dossier/pkg/result"
)

// Store persists one period per release. Find returns sentinel.ErrNotFound
// when nothing is stored. SaveOrUpdate must refuse, with sentinel.ErrConflict,
// to move a stored end date backwards.
type Store interface {
	Find(ctx context.Context, cpid domain.Cpid, ocid domain.Ocid) (*models.Record, error)
	SaveOrUpdate(ctx context.Context, record models.Record) error
}

// RuleStore resolves the configured minimal period duration.
type RuleStore interface {
	FindPeriodDuration(ctx context.Context, country domain.Country, pmd domain.ProcurementMethod) (time.Duration, bool, error)
}

type Validation = result.Validation[dErrors.Fail]

// Service applies the period lifecycle rules.
type Service struct {
	periods Store
	rules   RuleStore
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(periods Store, rules RuleStore, opts ...Option) *Service {
	s := &Service{periods: periods, rules: rules, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidatePeriod checks a new period against ordering and the minimal
// duration for the country and procurement method.
func (s *Service) ValidatePeriod(ctx context.Context, params models.ValidateParams) Validation {
	if !params.Period.IsOrdered() {
		return result.Invalid[dErrors.Fail](dErrors.InvalidPeriodDates(params.Period.StartDate, params.Period.EndDate))
	}

	required, fail, ok := s.requiredDuration(ctx, params).Unwrap()
	if !ok {
		return result.Invalid(fail)
	}
	if actual := params.Period.Duration(); actual < required {
		return result.Invalid[dErrors.Fail](dErrors.InvalidPeriodDuration(actual, required))
	}
	return result.Valid[dErrors.Fail]()
}

func (s *Service) requiredDuration(ctx context.Context, params models.ValidateParams) result.Result[time.Duration, dErrors.Fail] {
	if params.Duration != nil {
		return result.Success[time.Duration, dErrors.Fail](*params.Duration)
	}
	duration, found, err := s.rules.FindPeriodDuration(ctx, params.Country, params.Pmd)
	if err != nil {
		return result.Failure[time.Duration](dErrors.FromStore(err))
	}
	if !found {
		return result.Failure[time.Duration, dErrors.Fail](dErrors.PeriodRuleNotFound(params.Country.String(), params.Pmd.String()))
	}
	return result.Success[time.Duration, dErrors.Fail](duration)
}

// CheckPeriod verifies that date falls inside the stored period and that
// the proposed end date does not move it backwards.
func (s *Service) CheckPeriod(ctx context.Context, params models.CheckParams) result.Result[models.CheckResult, dErrors.Fail] {
	stored, fail, ok := s.find(ctx, params.Cpid, params.Ocid).Unwrap()
	if !ok {
		return result.Failure[models.CheckResult](fail)
	}
	if stored == nil {
		return result.Failure[models.CheckResult, dErrors.Fail](dErrors.PeriodNotFound(params.Cpid.String(), params.Ocid.String()))
	}

	storedPeriod := stored.Period
	if !storedPeriod.Contains(params.Date) {
		return result.Failure[models.CheckResult, dErrors.Fail](
			dErrors.DateOutsidePeriod(params.Date, storedPeriod.StartDate, storedPeriod.EndDate))
	}
	if !stored.ExtendsTo(params.EndDate) {
		return result.Failure[models.CheckResult, dErrors.Fail](
			dErrors.InvalidPeriodEndDate(params.EndDate, storedPeriod.EndDate))
	}

	return result.Success[models.CheckResult, dErrors.Fail](models.CheckResult{
		IsPreviousPeriodChanged: !params.EndDate.Equal(storedPeriod.EndDate),
		StoredPeriod:            storedPeriod,
		NewPeriod:               models.Period{StartDate: storedPeriod.StartDate, EndDate: params.EndDate},
	})
}

// SavePeriod stores the period of a release. An existing period may only be
// extended; the store enforces the same rule against concurrent writers.
func (s *Service) SavePeriod(ctx context.Context, params models.SaveParams) Validation {
	period := params.Period
	if !period.IsOrdered() {
		return result.Invalid[dErrors.Fail](dErrors.SaveInvalidPeriodDates(period.StartDate, period.EndDate))
	}

	stored, fail, ok := s.find(ctx, params.Cpid, params.Ocid).Unwrap()
	if !ok {
		return result.Invalid(fail)
	}
	if stored != nil && !stored.ExtendsTo(period.EndDate) {
		return result.Invalid[dErrors.Fail](dErrors.SaveInvalidPeriodEndDate(period.EndDate, stored.Period.EndDate))
	}

	record := models.Record{Cpid: params.Cpid, Ocid: params.Ocid, Period: period}
	if err := s.periods.SaveOrUpdate(ctx, record); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// A concurrent save moved the end date past ours.
			storedEnd := period.EndDate
			if current, _, ok := s.find(ctx, params.Cpid, params.Ocid).Unwrap(); ok && current != nil {
				storedEnd = current.Period.EndDate
			}
			return result.Invalid[dErrors.Fail](dErrors.SaveInvalidPeriodEndDate(period.EndDate, storedEnd))
		}
		return result.Invalid(dErrors.FromStore(err))
	}

	s.logger.InfoContext(ctx, "period saved",
		"cpid", params.Cpid.String(),
		"ocid", params.Ocid.String(),
		"extended", stored != nil,
	)
	return result.Valid[dErrors.Fail]()
}

// VerifySubmissionPeriodEnd reports whether the submission period of the
// release has ended at the given date, or at the request time.
func (s *Service) VerifySubmissionPeriodEnd(ctx context.Context, params models.VerifyParams) result.Result[bool, dErrors.Fail] {
	stored, fail, ok := s.find(ctx, params.Cpid, params.Ocid).Unwrap()
	if !ok {
		return result.Failure[bool](fail)
	}
	if stored == nil {
		return result.Failure[bool, dErrors.Fail](dErrors.PeriodNotFound(params.Cpid.String(), params.Ocid.String()))
	}

	at := requestcontext.Now(ctx)
	if params.Date != nil {
		at = *params.Date
	}
	return result.Success[bool, dErrors.Fail](!at.Before(stored.Period.EndDate))
}

// FindPeriod exposes the stored period to other commands. A missing
// period is a nil success.
func (s *Service) FindPeriod(ctx context.Context, cpid domain.Cpid, ocid domain.Ocid) result.Result[*models.Record, dErrors.Fail] {
	return s.find(ctx, cpid, ocid)
}

func (s *Service) find(ctx context.Context, cpid domain.Cpid, ocid domain.Ocid) result.Result[*models.Record, dErrors.Fail] {
	record, err := s.periods.Find(ctx, cpid, ocid)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return result.Success[*models.Record, dErrors.Fail](nil)
		}
		return result.Failure[*models.Record](dErrors.FromStore(err))
	}
	return result.Success[*models.Record, dErrors.Fail](record)
}
