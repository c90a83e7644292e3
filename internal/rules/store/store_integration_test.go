//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"dossier/internal/rules/models"
	"dossier/internal/rules/store"
	"dossier/pkg/domain"
	"dossier/pkg/platform/sentinel"
	"dossier/pkg/testutil/containers"
)

type RulesStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	redis    *containers.RedisContainer
	store    *store.PostgresStore
	cache    *store.Cache
}

func TestRulesStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RulesStoreSuite))
}

func (s *RulesStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.redis = mgr.GetRedis(s.T())
	s.store = store.NewPostgres(s.postgres.DB.DB)
	s.cache = store.NewCache(s.redis.Client.Client, s.store, time.Minute)
}

func (s *RulesStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "rules"))
	s.Require().NoError(s.redis.FlushAll(ctx))
}

var minKey = models.Key{Country: "MD", Pmd: domain.PmdOT, Parameter: models.ParamMinSubmissions}

func (s *RulesStoreSuite) TestUpsertAndFind() {
	ctx := context.Background()
	s.Require().NoError(s.store.Upsert(ctx, []models.Rule{{Key: minKey, Value: 2}}))
	s.Require().NoError(s.store.Upsert(ctx, []models.Rule{{Key: minKey, Value: 3}}))

	v, err := s.store.Find(ctx, minKey)
	s.Require().NoError(err)
	s.Equal(int64(3), v)
}

func (s *RulesStoreSuite) TestFindMissing() {
	_, err := s.store.Find(context.Background(), minKey)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RulesStoreSuite) TestCacheReadThrough() {
	ctx := context.Background()

	_, err := s.cache.Find(ctx, minKey)
	s.ErrorIs(err, sentinel.ErrNotFound)

	// A negative entry is cached until the key is written through the cache.
	s.Require().NoError(s.store.Upsert(ctx, []models.Rule{{Key: minKey, Value: 4}}))
	_, err = s.cache.Find(ctx, minKey)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.cache.Upsert(ctx, []models.Rule{{Key: minKey, Value: 5}}))
	v, err := s.cache.Find(ctx, minKey)
	s.Require().NoError(err)
	s.Equal(int64(5), v)

	cached, err := s.redis.Client.Get(ctx, "dossier:rules:"+minKey.String()).Result()
	s.Require().NoError(err)
	s.Equal("5", cached)
}
