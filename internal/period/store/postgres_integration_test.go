//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"dossier/internal/period/models"
	"dossier/internal/period/store"
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
	s.store = store.NewPostgres(s.postgres.DB)
	s.cpid = domain.ParseCpid("ocds-b3wdp1-MD-1580458690892").Get()
	s.ocid = domain.ParseOcid("ocds-b3wdp1-MD-1580458690892-EV-1580458791896").Get()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "periods"))
}

func (s *PostgresStoreSuite) record(start, end time.Time) models.Record {
	return models.Record{Cpid: s.cpid, Ocid: s.ocid, Period: models.Period{StartDate: start, EndDate: end}}
}

func (s *PostgresStoreSuite) TestFindMissing() {
	_, err := s.store.Find(context.Background(), s.cpid, s.ocid)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSaveAndExtend() {
	ctx := context.Background()
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	s.Require().NoError(s.store.SaveOrUpdate(ctx, s.record(start, end)))
	s.Require().NoError(s.store.SaveOrUpdate(ctx, s.record(start, end)), "equal end date is an extension")
	s.Require().NoError(s.store.SaveOrUpdate(ctx, s.record(start, end.Add(time.Hour))))

	found, err := s.store.Find(ctx, s.cpid, s.ocid)
	s.Require().NoError(err)
	s.Equal(s.ocid.String(), found.Ocid.String())
	s.True(found.Period.StartDate.Equal(start))
	s.True(found.Period.EndDate.Equal(end.Add(time.Hour)))
}

func (s *PostgresStoreSuite) TestRegressionConflicts() {
	ctx := context.Background()
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	s.Require().NoError(s.store.SaveOrUpdate(ctx, s.record(start, end)))
	err := s.store.SaveOrUpdate(ctx, s.record(start, end.Add(-time.Second)))
	s.ErrorIs(err, sentinel.ErrConflict)

	found, err := s.store.Find(ctx, s.cpid, s.ocid)
	s.Require().NoError(err)
	s.True(found.Period.EndDate.Equal(end))
}

func (s *PostgresStoreSuite) TestConcurrentExtensionsNeverRegress() {
	ctx := context.Background()
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	base := start.Add(24 * time.Hour)
	s.Require().NoError(s.store.SaveOrUpdate(ctx, s.record(start, base)))

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(hours int) {
			defer wg.Done()
			err := s.store.SaveOrUpdate(ctx, s.record(start, base.Add(time.Duration(hours)*time.Hour)))
			if err != nil && !errors.Is(err, sentinel.ErrConflict) {
				s.Fail("unexpected error", err.Error())
			}
		}(i)
	}
	wg.Wait()

	found, err := s.store.Find(ctx, s.cpid, s.ocid)
	s.Require().NoError(err)
	s.True(found.Period.EndDate.Equal(base.Add(20*time.Hour)), "got %s", found.Period.EndDate)
}
