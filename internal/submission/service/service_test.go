package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,PeriodFinder,RuleStore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	periodModels "dossier/internal/period/models"
	"dossier/internal/submission/models"
	"dossier/internal/submission/service/mocks"
	"dossier/internal/submission/store"
	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/platform/sentinel"
	"dossier/pkg/result"
)

const (
	testCpid = "ocds-b3wdp1-MD-1580458690892"
	testOcid = "ocds-b3wdp1-MD-1580458690892-EV-1580458791896"
)

var (
	periodStart = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	periodEnd   = periodStart.Add(10 * 24 * time.Hour)
	inPeriod    = periodStart.Add(time.Hour)
)

type SubmissionServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	periods *mocks.MockPeriodFinder
	rules   *mocks.MockRuleStore
	store   *store.InMemoryStore
	service *Service
	cpid    domain.Cpid
	ocid    domain.Ocid
	owner   domain.Owner
}

func TestSubmissionServiceSuite(t *testing.T) {
	suite.Run(t, new(SubmissionServiceSuite))
}

func (s *SubmissionServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.periods = mocks.NewMockPeriodFinder(s.ctrl)
	s.rules = mocks.NewMockRuleStore(s.ctrl)
	s.store = store.NewInMemory()
	s.service = New(s.store, s.periods, s.rules)
	s.cpid = domain.ParseCpid(testCpid).Get()
	s.ocid = domain.ParseOcid(testOcid).Get()
	s.owner = domain.Owner(uuid.New())
}

func (s *SubmissionServiceSuite) requireCode(err error, code dErrors.Code) {
	s.T().Helper()
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, code), "expected %s, got %v", code, err)
}

func (s *SubmissionServiceSuite) expectPeriod() {
	record := &periodModels.Record{
		Cpid:   s.cpid,
		Ocid:   s.ocid,
		Period: periodModels.Period{StartDate: periodStart, EndDate: periodEnd},
	}
	s.periods.EXPECT().FindPeriod(gomock.Any(), s.cpid, s.ocid).
		Return(result.Success[*periodModels.Record, dErrors.Fail](record))
}

func draft(candidates ...string) models.Draft {
	d := models.Draft{}
	for _, c := range candidates {
		d.Candidates = append(d.Candidates, models.Candidate{ID: domain.CandidateID(c), Name: "Candidate " + c})
	}
	return d
}

func (s *SubmissionServiceSuite) create(d models.Draft) models.Created {
	s.T().Helper()
	s.expectPeriod()
	r := s.service.CreateSubmission(context.Background(), models.CreateParams{
		Cpid: s.cpid, Ocid: s.ocid, Owner: s.owner, Date: inPeriod, Draft: d,
	})
	s.Require().True(r.IsSuccess(), "create: %v", r.Err())
	return r.Get()
}

func (s *SubmissionServiceSuite) TestCreateSubmission() {
	ctx := context.Background()
	params := func(date time.Time, d models.Draft) models.CreateParams {
		return models.CreateParams{Cpid: s.cpid, Ocid: s.ocid, Owner: s.owner, Date: date, Draft: d}
	}

	s.Run("stores a pending submission with a fresh token", func() {
		created := s.create(draft("c-1", "c-2"))
		s.Equal(domain.SubmissionPending, created.Status)
		s.NotEqual(domain.Token{}, created.Token)
		s.True(created.Date.Equal(inPeriod))

		found, err := s.store.FindByIDs(ctx, s.cpid, s.ocid, []domain.SubmissionID{created.ID})
		s.Require().NoError(err)
		s.Require().Len(found, 1)
		s.Equal(s.owner, found[0].Owner)
		s.Len(found[0].Candidates, 2)
	})

	s.Run("missing period", func() {
		s.periods.EXPECT().FindPeriod(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(result.Success[*periodModels.Record, dErrors.Fail](nil))
		r := s.service.CreateSubmission(ctx, params(inPeriod, draft("c-1")))
		s.requireCode(r.Err(), dErrors.CodeSubmissionPeriodNotFound)
	})

	s.Run("date on the period boundary", func() {
		for _, date := range []time.Time{periodStart, periodEnd} {
			s.expectPeriod()
			r := s.service.CreateSubmission(ctx, params(date, draft("c-1")))
			s.requireCode(r.Err(), dErrors.CodeSubmissionDateOutside)
		}
	})

	s.Run("duplicate candidate", func() {
		s.expectPeriod()
		r := s.service.CreateSubmission(ctx, params(inPeriod, draft("c-1", "c-1")))
		s.requireCode(r.Err(), dErrors.CodeDuplicateCandidate)
	})

	s.Run("no candidates", func() {
		s.expectPeriod()
		r := s.service.CreateSubmission(ctx, params(inPeriod, models.Draft{}))
		s.requireCode(r.Err(), dErrors.CodeEmptyArray)
	})

	s.Run("response for an undeclared candidate", func() {
		d := draft("c-1")
		d.RequirementResponses = []models.RequirementResponse{{
			ID: "rr-1", Value: domain.BoolValue(true), Requirement: "req-1", RelatedCandidate: "c-9",
		}}
		s.expectPeriod()
		r := s.service.CreateSubmission(ctx, params(inPeriod, d))
		s.requireCode(r.Err(), dErrors.CodeRelatedCandidateNotFound)
	})

	s.Run("duplicate document ids", func() {
		d := draft("c-1")
		d.Documents = []models.Document{{ID: "doc-1"}, {ID: "doc-1"}}
		s.expectPeriod()
		r := s.service.CreateSubmission(ctx, params(inPeriod, d))
		s.requireCode(r.Err(), dErrors.CodeUniquenessDataMismatch)
	})

	s.Run("period lookup incident is passed through", func() {
		s.periods.EXPECT().FindPeriod(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(result.Failure[*periodModels.Record, dErrors.Fail](dErrors.DatabaseInteraction(errors.New("timeout"))))
		r := s.service.CreateSubmission(ctx, params(inPeriod, draft("c-1")))
		s.True(dErrors.IsIncident(r.Err()))
	})
}

func (s *SubmissionServiceSuite) TestCheckPresenceCandidateInOneSubmission() {
	ctx := context.Background()
	first := s.create(draft("c-1", "c-2"))
	second := s.create(draft("c-2"))
	alone := s.create(draft("c-3"))

	check := func(id domain.SubmissionID) error {
		return s.service.CheckPresenceCandidateInOneSubmission(ctx,
			models.PresenceParams{Cpid: s.cpid, Ocid: s.ocid, ID: id}).Err()
	}

	s.Run("candidate shared with another submission", func() {
		err := check(first.ID)
		s.requireCode(err, dErrors.CodeCandidateInManySubmissions)
		s.Contains(err.Error(), second.ID.String())
	})

	s.Run("candidate declared once", func() {
		s.NoError(check(alone.ID))
	})

	s.Run("withdrawn submissions do not count", func() {
		s.Require().NoError(s.store.UpdateStatuses(ctx, s.cpid, s.ocid,
			[]models.State{{ID: second.ID, Status: domain.SubmissionWithdrawn}}))
		s.NoError(check(first.ID))
	})

	s.Run("unknown submission", func() {
		s.requireCode(check(domain.NewSubmissionID()), dErrors.CodePresenceSubmissionNotFound)
	})
}

func (s *SubmissionServiceSuite) TestSetStateForSubmission() {
	ctx := context.Background()
	created := s.create(draft("c-1"))

	r := s.service.SetStateForSubmission(ctx, models.SetStateParams{
		Cpid: s.cpid, Ocid: s.ocid, ID: created.ID, Status: domain.SubmissionValid,
	})
	s.Require().True(r.IsSuccess())
	s.Equal(models.State{ID: created.ID, Status: domain.SubmissionValid}, r.Get())

	found, err := s.store.FindByIDs(ctx, s.cpid, s.ocid, []domain.SubmissionID{created.ID})
	s.Require().NoError(err)
	s.Equal(domain.SubmissionValid, found[0].Status)

	missing := s.service.SetStateForSubmission(ctx, models.SetStateParams{
		Cpid: s.cpid, Ocid: s.ocid, ID: domain.NewSubmissionID(), Status: domain.SubmissionValid,
	})
	s.requireCode(missing.Err(), dErrors.CodeStateSubmissionNotFound)
}

func (s *SubmissionServiceSuite) TestFinalizeSubmissions() {
	ctx := context.Background()
	winner := s.create(draft("c-1"))
	loser := s.create(draft("c-2"))
	idle := s.create(draft("c-3"))

	r := s.service.FinalizeSubmissions(ctx, models.FinalizeParams{
		Cpid: s.cpid,
		Ocid: s.ocid,
		Qualifications: []models.Qualification{
			{RelatedSubmission: winner.ID, Status: domain.QualificationActive},
			{RelatedSubmission: loser.ID, Status: domain.QualificationUnsuccessful},
		},
	})
	s.Require().True(r.IsSuccess(), "finalize: %v", r.Err())
	s.ElementsMatch([]models.State{
		{ID: winner.ID, Status: domain.SubmissionValid},
		{ID: loser.ID, Status: domain.SubmissionDisqualified},
		{ID: idle.ID, Status: domain.SubmissionWithdrawn},
	}, r.Get())

	states := s.service.GetSubmissionStateByIds(ctx, models.StatesParams{
		Cpid: s.cpid, Ocid: s.ocid, IDs: []domain.SubmissionID{idle.ID, winner.ID},
	})
	s.Require().True(states.IsSuccess())
	s.Equal([]models.State{
		{ID: idle.ID, Status: domain.SubmissionWithdrawn},
		{ID: winner.ID, Status: domain.SubmissionValid},
	}, states.Get())
}

func (s *SubmissionServiceSuite) TestFinalizeUnknownSubmissionChangesNothing() {
	ctx := context.Background()
	created := s.create(draft("c-1"))
	unknown := domain.NewSubmissionID()

	r := s.service.FinalizeSubmissions(ctx, models.FinalizeParams{
		Cpid: s.cpid,
		Ocid: s.ocid,
		Qualifications: []models.Qualification{
			{RelatedSubmission: created.ID, Status: domain.QualificationActive},
			{RelatedSubmission: unknown, Status: domain.QualificationActive},
		},
	})
	s.requireCode(r.Err(), dErrors.CodeStateSubmissionNotFound)
	s.Contains(r.Err().Error(), unknown.String())

	found, err := s.store.FindByIDs(ctx, s.cpid, s.ocid, []domain.SubmissionID{created.ID})
	s.Require().NoError(err)
	s.Equal(domain.SubmissionPending, found[0].Status)
}

func (s *SubmissionServiceSuite) TestFinalizeStoreRace() {
	submissions := mocks.NewMockStore(s.ctrl)
	svc := New(submissions, s.periods, s.rules)
	id := domain.NewSubmissionID()

	gomock.InOrder(
		submissions.EXPECT().FindAll(gomock.Any(), s.cpid, s.ocid).
			Return([]models.Submission{{ID: id, Status: domain.SubmissionPending}}, nil),
		submissions.EXPECT().UpdateStatuses(gomock.Any(), s.cpid, s.ocid,
			[]models.State{{ID: id, Status: domain.SubmissionWithdrawn}}).
			Return(sentinel.ErrNotFound),
	)

	r := svc.FinalizeSubmissions(context.Background(), models.FinalizeParams{Cpid: s.cpid, Ocid: s.ocid})
	s.requireCode(r.Err(), dErrors.CodeStateSubmissionNotFound)
}

func (s *SubmissionServiceSuite) TestCheckAccessToSubmission() {
	ctx := context.Background()
	created := s.create(draft("c-1"))
	access := func(id domain.SubmissionID, owner domain.Owner, token domain.Token) error {
		return s.service.CheckAccessToSubmission(ctx, models.AccessParams{
			Cpid: s.cpid, Ocid: s.ocid, ID: id, Owner: owner, Token: token,
		}).Err()
	}

	s.NoError(access(created.ID, s.owner, created.Token))
	s.requireCode(access(domain.NewSubmissionID(), s.owner, created.Token), dErrors.CodeAccessSubmissionNotFound)
	s.requireCode(access(created.ID, domain.Owner(uuid.New()), created.Token), dErrors.CodeInvalidOwner)
	s.requireCode(access(created.ID, s.owner, domain.NewToken()), dErrors.CodeInvalidToken)
}

func (s *SubmissionServiceSuite) TestCheckSubmissionsMinimumQuantity() {
	ctx := context.Background()
	params := models.MinimumQuantityParams{Cpid: s.cpid, Ocid: s.ocid, Country: "MD", Pmd: domain.PmdOT}
	first := s.create(draft("c-1"))
	s.create(draft("c-2"))

	s.Run("enough submissions", func() {
		s.rules.EXPECT().FindMinimumSubmissions(gomock.Any(), domain.Country("MD"), domain.PmdOT).Return(int64(2), true, nil)
		s.NoError(s.service.CheckSubmissionsMinimumQuantity(ctx, params).Err())
	})

	s.Run("withdrawn submissions are not counted", func() {
		s.Require().NoError(s.store.UpdateStatuses(ctx, s.cpid, s.ocid,
			[]models.State{{ID: first.ID, Status: domain.SubmissionWithdrawn}}))
		s.rules.EXPECT().FindMinimumSubmissions(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(2), true, nil)
		s.requireCode(s.service.CheckSubmissionsMinimumQuantity(ctx, params).Err(), dErrors.CodeNotEnoughSubmissions)
	})

	s.Run("missing rule", func() {
		s.rules.EXPECT().FindMinimumSubmissions(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), false, nil)
		s.requireCode(s.service.CheckSubmissionsMinimumQuantity(ctx, params).Err(), dErrors.CodeMinimumRuleNotFound)
	})

	s.Run("rule store failure", func() {
		s.rules.EXPECT().FindMinimumSubmissions(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), false, errors.New("refused"))
		s.True(dErrors.IsIncident(s.service.CheckSubmissionsMinimumQuantity(ctx, params).Err()))
	})
}

func (s *SubmissionServiceSuite) TestGetSubmissionStateByIdsMissing() {
	created := s.create(draft("c-1"))
	unknown := domain.NewSubmissionID()
	r := s.service.GetSubmissionStateByIds(context.Background(), models.StatesParams{
		Cpid: s.cpid, Ocid: s.ocid, IDs: []domain.SubmissionID{created.ID, unknown},
	})
	s.requireCode(r.Err(), dErrors.CodeStateSubmissionNotFound)
	s.Contains(r.Err().Error(), unknown.String())
	s.NotContains(r.Err().Error(), created.ID.String())
}
