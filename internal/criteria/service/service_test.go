package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"dossier/internal/criteria/models"
	"dossier/internal/criteria/service/mocks"
	"dossier/internal/criteria/store"
	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/platform/jsonx"
)

const (
	testCpid = "ocds-b3wdp1-MD-1580458690892"
	testOcid = "ocds-b3wdp1-MD-1580458690892-EV-1580458791896"
)

type CriteriaServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	store   *store.InMemoryStore
	service *Service
	cpid    domain.Cpid
	ocid    domain.Ocid
}

func TestCriteriaServiceSuite(t *testing.T) {
	suite.Run(t, new(CriteriaServiceSuite))
}

func (s *CriteriaServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = store.NewInMemory()
	s.service = New(s.store, WithIDGenerator(sequence()))
	s.cpid = domain.ParseCpid(testCpid).Get()
	s.ocid = domain.ParseOcid(testOcid).Get()
}

func (s *CriteriaServiceSuite) requireCode(err error, code dErrors.Code) {
	s.T().Helper()
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, code), "expected %s, got %v", code, err)
}

func sequence() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func ptr[T any](v T) *T { return &v }

// validDraft has two criteria and one conversion over the integer
// requirement r-1.
func (s *CriteriaServiceSuite) validDraft() models.Draft {
	return models.Draft{
		Cpid:                 s.cpid,
		Ocid:                 s.ocid,
		AwardCriteria:        domain.AwardRatedCriteria,
		AwardCriteriaDetails: ptr(domain.DetailsManual),
		Items:                []domain.ItemID{"item-1"},
		Lots:                 []string{"lot-1"},
		Criteria: []models.Criterion{
			{
				ID:        "c-1",
				Title:     "Experience",
				RelatesTo: ptr(domain.CriterionToTenderer),
				RequirementGroups: []models.RequirementGroup{{
					ID: "g-1",
					Requirements: []models.Requirement{
						{
							ID: "r-1", Title: "Years in business", DataType: domain.DataTypeInteger,
							MinValue: ptr(domain.IntegerValue(1)), MaxValue: ptr(domain.IntegerValue(10)),
						},
						{ID: "r-2", Title: "Certified", DataType: domain.DataTypeBoolean, ExpectedValue: ptr(domain.BoolValue(true))},
					},
				}},
			},
			{
				ID:          "c-2",
				Title:       "Origin",
				RelatesTo:   ptr(domain.CriterionToItem),
				RelatedItem: "item-1",
				RequirementGroups: []models.RequirementGroup{{
					ID:           "g-2",
					Requirements: []models.Requirement{{ID: "r-3", Title: "Country", DataType: domain.DataTypeString}},
				}},
			},
		},
		Conversions: []models.Conversion{{
			ID:          "cv-1",
			RelatesTo:   domain.ConversionToRequirement,
			RelatedItem: "r-1",
			Rationale:   "experience discount",
			Coefficients: []models.Coefficient{
				{ID: "cf-1", Value: domain.IntegerValue(1), Coefficient: 0.5},
				{ID: "cf-2", Value: domain.IntegerValue(5), Coefficient: 1},
			},
		}},
	}
}

func (s *CriteriaServiceSuite) TestValidateCriteria_Stages() {
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(d *models.Draft)
		code   dErrors.Code
	}{
		{"details required for rated criteria", func(d *models.Draft) { d.AwardCriteriaDetails = nil },
			dErrors.CodeAwardCriteriaDetailsRequired},
		{"empty criteria", func(d *models.Draft) { d.Criteria = []models.Criterion{} }, dErrors.CodeEmptyArray},
		{"criteria without conversions", func(d *models.Draft) { d.Conversions = nil }, dErrors.CodeConversionsRequired},
		{"conversions without criteria", func(d *models.Draft) { d.Criteria = nil }, dErrors.CodeCriteriaRequired},
		{"item criterion without related item", func(d *models.Draft) { d.Criteria[1].RelatedItem = "" },
			dErrors.CodeMissingRequiredAttribute},
		{"empty requirement groups", func(d *models.Draft) { d.Criteria[0].RequirementGroups = []models.RequirementGroup{} },
			dErrors.CodeEmptyArray},
		{"absent requirements", func(d *models.Draft) { d.Criteria[1].RequirementGroups[0].Requirements = nil },
			dErrors.CodeMissingRequiredAttribute},
		{"absent coefficients", func(d *models.Draft) { d.Conversions[0].Coefficients = nil },
			dErrors.CodeMissingRequiredAttribute},
		{"duplicate criterion id", func(d *models.Draft) { d.Criteria[1].ID = "c-1" }, dErrors.CodeUniquenessDataMismatch},
		{"duplicate requirement id", func(d *models.Draft) { d.Criteria[1].RequirementGroups[0].Requirements[0].ID = "r-1" },
			dErrors.CodeUniquenessDataMismatch},
		{"duplicate coefficient id", func(d *models.Draft) { d.Conversions[0].Coefficients[1].ID = "cf-1" },
			dErrors.CodeUniquenessDataMismatch},
		{"duplicate coefficient value", func(d *models.Draft) { d.Conversions[0].Coefficients[1].Value = domain.IntegerValue(1) },
			dErrors.CodeDuplicatedCoefficientValue},
		{"unknown related item", func(d *models.Draft) { d.Criteria[1].RelatedItem = "item-9" }, dErrors.CodeRelatedItemNotFound},
		{"unknown related lot", func(d *models.Draft) { d.Criteria[1].RelatesTo = ptr(domain.CriterionToLot) },
			dErrors.CodeRelatedItemNotFound},
		{"conversion over unknown requirement", func(d *models.Draft) { d.Conversions[0].RelatedItem = "r-9" },
			dErrors.CodeConversionRelationNotFound},
		{"requirement value of another type", func(d *models.Draft) {
			d.Criteria[0].RequirementGroups[0].Requirements[1].ExpectedValue = ptr(domain.StringValue("yes"))
		}, dErrors.CodeRequirementDataTypeMismatch},
		{"min above max", func(d *models.Draft) {
			d.Criteria[0].RequirementGroups[0].Requirements[0].MinValue = ptr(domain.IntegerValue(11))
		}, dErrors.CodeMinGreaterThanMax},
		{"empty requirement period", func(d *models.Draft) {
			at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
			d.Criteria[1].RequirementGroups[0].Requirements[0].Period = &models.RequirementPeriod{StartDate: at, EndDate: at}
		}, dErrors.CodeInvalidRequirementPeriod},
		{"bounds on a string requirement", func(d *models.Draft) {
			d.Criteria[1].RequirementGroups[0].Requirements[0].MinValue = ptr(domain.StringValue("a"))
		}, dErrors.CodeMinMaxOnNonNumeric},
		{"coefficient value of another type", func(d *models.Draft) {
			d.Conversions[0].Coefficients[1].Value = domain.BoolValue(true)
		}, dErrors.CodeCoefficientDataTypeMismatch},
		{"coefficient above range", func(d *models.Draft) { d.Conversions[0].Coefficients[1].Coefficient = 2.5 },
			dErrors.CodeCoefficientOutOfRange},
		{"coefficient below range", func(d *models.Draft) { d.Conversions[0].Coefficients[0].Coefficient = 0.001 },
			dErrors.CodeCoefficientOutOfRange},
		{"cast above limit", func(d *models.Draft) { d.Conversions[0].Coefficients[0].Coefficient = 0.1 },
			dErrors.CodeCastCoefficientExceeded},
		{"award criterion relation", func(d *models.Draft) { d.Criteria[0].RelatesTo = ptr(domain.CriterionToAward) },
			dErrors.CodeUnknownValue},
		{"option conversion relation", func(d *models.Draft) { d.Conversions[0].RelatesTo = domain.ConversionToOption },
			dErrors.CodeUnknownValue},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			d := s.validDraft()
			tc.mutate(&d)
			s.requireCode(s.service.ValidateCriteria(ctx, d).Err(), tc.code)
		})
	}

	s.Run("valid draft", func() {
		s.NoError(s.service.ValidateCriteria(ctx, s.validDraft()).Err())
	})

	s.Run("price only without criteria or conversions", func() {
		d := models.Draft{Cpid: s.cpid, Ocid: s.ocid, AwardCriteria: domain.AwardPriceOnly}
		s.NoError(s.service.ValidateCriteria(ctx, d).Err())
	})

	s.Run("numbers differing only in notation collide", func() {
		d := s.validDraft()
		d.Criteria[0].RequirementGroups[0].Requirements[0] = models.Requirement{ID: "r-1", DataType: domain.DataTypeNumber}
		s.Require().NoError(jsonx.Unmarshal([]byte("1.5"), &d.Conversions[0].Coefficients[0].Value))
		s.Require().NoError(jsonx.Unmarshal([]byte("1.50"), &d.Conversions[0].Coefficients[1].Value))
		s.requireCode(s.service.ValidateCriteria(ctx, d).Err(), dErrors.CodeDuplicatedCoefficientValue)
	})
}

func (s *CriteriaServiceSuite) TestValidateCriteria_CustomLimits() {
	service := New(s.store, WithLimits(Limits{CoefficientMin: 0.01, CoefficientMax: 2, CastLimit: 0.3}))
	err := service.ValidateCriteria(context.Background(), s.validDraft()).Err()
	s.requireCode(err, dErrors.CodeCastCoefficientExceeded)
	s.Contains(err.Error(), "0.3")
}

func (s *CriteriaServiceSuite) TestCreateCriteria() {
	ctx := context.Background()

	s.Run("ids are replaced and relations relinked", func() {
		doc, fail, ok := s.service.CreateCriteria(ctx, s.validDraft()).Unwrap()
		s.Require().True(ok, "unexpected failure: %v", fail)

		s.Equal(domain.DetailsManual, doc.AwardCriteriaDetails)
		s.Equal("id-1", doc.Criteria[0].ID)
		s.Equal("id-2", doc.Criteria[0].RequirementGroups[0].ID)
		s.Equal(domain.RequirementID("id-3"), doc.Criteria[0].RequirementGroups[0].Requirements[0].ID)
		s.Equal(domain.RequirementID("id-4"), doc.Criteria[0].RequirementGroups[0].Requirements[1].ID)
		s.Equal(domain.RequirementID("id-7"), doc.Criteria[1].RequirementGroups[0].Requirements[0].ID)
		s.Equal("item-1", doc.Criteria[1].RelatedItem)
		s.Equal("id-8", doc.Conversions[0].ID)
		s.Equal("id-3", doc.Conversions[0].RelatedItem)
		s.Equal([]string{"id-9", "id-10"},
			[]string{doc.Conversions[0].Coefficients[0].ID, doc.Conversions[0].Coefficients[1].ID})

		stored, err := s.store.Find(ctx, s.cpid)
		s.Require().NoError(err)
		s.Equal(doc.Criteria, stored.Criteria)
	})

	s.Run("second document for the same cpid", func() {
		r := s.service.CreateCriteria(ctx, s.validDraft())
		s.requireCode(r.Err(), dErrors.CodeCriteriaAlreadyExist)
	})
}

func (s *CriteriaServiceSuite) TestCreateCriteria_PriceOnlyDefaultsToAutomated() {
	d := models.Draft{Cpid: s.cpid, Ocid: s.ocid, AwardCriteria: domain.AwardPriceOnly}

	doc, fail, ok := s.service.CreateCriteria(context.Background(), d).Unwrap()
	s.Require().True(ok, "unexpected failure: %v", fail)
	s.Equal(domain.DetailsAutomated, doc.AwardCriteriaDetails)
	s.Nil(doc.Criteria)
	s.Nil(doc.Conversions)
}

func (s *CriteriaServiceSuite) TestCreateCriteria_InvalidDraftIsNotStored() {
	documents := mocks.NewMockStore(s.ctrl)
	service := New(documents)
	d := s.validDraft()
	d.Conversions = nil

	s.requireCode(service.CreateCriteria(context.Background(), d).Err(), dErrors.CodeConversionsRequired)
}

func (s *CriteriaServiceSuite) TestStoreFailuresAreIncidents() {
	ctx := context.Background()
	documents := mocks.NewMockStore(s.ctrl)
	service := New(documents)

	s.Run("save", func() {
		documents.EXPECT().Save(gomock.Any(), gomock.Any()).Return(false, errors.New("connection reset"))
		err := service.CreateCriteria(ctx, s.validDraft()).Err()
		s.requireCode(err, dErrors.CodeDatabaseInteraction)
	})

	s.Run("find", func() {
		documents.EXPECT().Find(gomock.Any(), s.cpid).Return(nil, errors.New("connection reset"))
		err := service.ValidateRequirementResponses(ctx, models.ResponsesParams{Cpid: s.cpid, Ocid: s.ocid}).Err()
		s.True(dErrors.IsIncident(err))
	})
}

func (s *CriteriaServiceSuite) TestGetCriteria() {
	ctx := context.Background()

	doc, fail, ok := s.service.GetCriteria(ctx, s.cpid).Unwrap()
	s.Require().True(ok, "unexpected failure: %v", fail)
	s.Nil(doc)

	s.Require().NoError(s.service.CreateCriteria(ctx, s.validDraft()).Err())
	doc, fail, ok = s.service.GetCriteria(ctx, s.cpid).Unwrap()
	s.Require().True(ok, "unexpected failure: %v", fail)
	s.Require().NotNil(doc)
	s.Len(doc.Criteria, 2)
}

func (s *CriteriaServiceSuite) storedDocument() {
	s.T().Helper()
	_, err := s.store.Save(context.Background(), models.Document{
		Cpid:                 s.cpid,
		Ocid:                 s.ocid,
		AwardCriteria:        domain.AwardRatedCriteria,
		AwardCriteriaDetails: domain.DetailsManual,
		Criteria: []models.Criterion{{
			ID: "c-1",
			RequirementGroups: []models.RequirementGroup{{
				ID: "g-1",
				Requirements: []models.Requirement{
					{ID: "r-1", DataType: domain.DataTypeInteger},
					{ID: "r-2", DataType: domain.DataTypeBoolean},
				},
			}},
		}},
	})
	s.Require().NoError(err)
}

func (s *CriteriaServiceSuite) TestValidateRequirementResponses() {
	ctx := context.Background()
	answer := func(id, requirement, candidate string, v domain.Value) models.Response {
		return models.Response{
			ID: id, Value: v, Requirement: domain.RequirementID(requirement), RelatedCandidate: domain.CandidateID(candidate),
		}
	}
	params := func(responses ...models.Response) models.ResponsesParams {
		return models.ResponsesParams{
			Cpid: s.cpid, Ocid: s.ocid, Candidates: []domain.CandidateID{"cand-1", "cand-2"}, Responses: responses,
		}
	}
	complete := []models.Response{
		answer("a-1", "r-1", "cand-1", domain.IntegerValue(3)),
		answer("a-2", "r-2", "cand-1", domain.BoolValue(true)),
		answer("a-3", "r-1", "cand-2", domain.IntegerValue(7)),
		answer("a-4", "r-2", "cand-2", domain.BoolValue(false)),
	}

	s.Run("no criteria stored", func() {
		err := s.service.ValidateRequirementResponses(ctx, params(complete...)).Err()
		s.requireCode(err, dErrors.CodeResponseCriteriaNotFound)
	})

	s.storedDocument()

	s.Run("every candidate answers every requirement", func() {
		s.NoError(s.service.ValidateRequirementResponses(ctx, params(complete...)).Err())
	})

	s.Run("unknown requirement", func() {
		err := s.service.ValidateRequirementResponses(ctx,
			params(append([]models.Response{answer("a-0", "r-9", "cand-1", domain.IntegerValue(1))}, complete...)...)).Err()
		s.requireCode(err, dErrors.CodeRequirementNotFound)
		s.Contains(err.Error(), "r-9")
	})

	s.Run("answer of another type", func() {
		err := s.service.ValidateRequirementResponses(ctx,
			params(answer("a-1", "r-1", "cand-1", domain.StringValue("3")))).Err()
		s.requireCode(err, dErrors.CodeResponseDataTypeMismatch)
	})

	s.Run("answer for an unknown candidate", func() {
		err := s.service.ValidateRequirementResponses(ctx,
			params(answer("a-1", "r-1", "cand-9", domain.IntegerValue(3)))).Err()
		s.requireCode(err, dErrors.CodeRelatedCandidateNotFound)
	})

	s.Run("requirement answered twice by one candidate", func() {
		err := s.service.ValidateRequirementResponses(ctx,
			params(append(complete, answer("a-5", "r-1", "cand-1", domain.IntegerValue(4)))...)).Err()
		s.requireCode(err, dErrors.CodeDuplicateResponse)
	})

	s.Run("unanswered requirement", func() {
		err := s.service.ValidateRequirementResponses(ctx, params(complete[0], complete[1], complete[2])).Err()
		s.requireCode(err, dErrors.CodeMissingResponse)
		s.Contains(err.Error(), "r-2")
		s.NotContains(err.Error(), "r-1")
	})
}
