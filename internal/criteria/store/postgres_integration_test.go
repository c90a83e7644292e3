//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"dossier/internal/criteria/models"
	"dossier/internal/criteria/store"
	"dossier/pkg/domain"
	"dossier/pkg/platform/sentinel"
	"dossier/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	cpid     domain.Cpid
	ocid     domain.Ocid
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.Pool)
	s.cpid = domain.ParseCpid("ocds-b3wdp1-MD-1580458690892").Get()
	s.ocid = domain.ParseOcid("ocds-b3wdp1-MD-1580458690892-EV-1580458791896").Get()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "criteria"))
}

func (s *PostgresStoreSuite) document() models.Document {
	expected := domain.IntegerValue(3)
	return models.Document{
		Cpid:                 s.cpid,
		Ocid:                 s.ocid,
		AwardCriteria:        domain.AwardRatedCriteria,
		AwardCriteriaDetails: domain.DetailsManual,
		Criteria: []models.Criterion{{
			ID:    "c-1",
			Title: "Experience",
			RequirementGroups: []models.RequirementGroup{{
				ID: "g-1",
				Requirements: []models.Requirement{{
					ID: "r-1", Title: "Years", DataType: domain.DataTypeInteger, ExpectedValue: &expected,
				}},
			}},
		}},
		Conversions: []models.Conversion{{
			ID: "cv-1", RelatesTo: domain.ConversionToRequirement, RelatedItem: "r-1", Rationale: "experience",
			Coefficients: []models.Coefficient{{ID: "cf-1", Value: domain.IntegerValue(3), Coefficient: 0.9}},
		}},
	}
}

func (s *PostgresStoreSuite) TestSaveAndFind() {
	ctx := context.Background()
	doc := s.document()

	saved, err := s.store.Save(ctx, doc)
	s.Require().NoError(err)
	s.True(saved)

	found, err := s.store.Find(ctx, s.cpid)
	s.Require().NoError(err)
	s.Equal(s.ocid, found.Ocid)
	s.Equal(domain.DetailsManual, found.AwardCriteriaDetails)
	s.Require().Len(found.Criteria, 1)
	s.True(found.Criteria[0].RequirementGroups[0].Requirements[0].ExpectedValue.Equal(domain.IntegerValue(3)))
	s.Equal(0.9, found.Conversions[0].Coefficients[0].Coefficient)
}

func (s *PostgresStoreSuite) TestSaveKeepsFirstDocument() {
	ctx := context.Background()
	first := s.document()
	second := s.document()
	second.AwardCriteriaDetails = domain.DetailsAutomated

	saved, err := s.store.Save(ctx, first)
	s.Require().NoError(err)
	s.True(saved)

	saved, err = s.store.Save(ctx, second)
	s.Require().NoError(err)
	s.False(saved)

	found, err := s.store.Find(ctx, s.cpid)
	s.Require().NoError(err)
	s.Equal(domain.DetailsManual, found.AwardCriteriaDetails)
}

func (s *PostgresStoreSuite) TestFindMissing() {
	_, err := s.store.Find(context.Background(), s.cpid)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
