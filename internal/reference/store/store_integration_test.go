//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"

	"certify/internal/issuance/models"
	"certify/internal/reference/store"
	"certify/pkg/testutil/containers"
)

type ReferenceStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	redis    *containers.RedisContainer
	db       *sqlx.DB
	pg       *store.PostgresStore
}

func TestReferenceStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ReferenceStoreSuite))
}

func (s *ReferenceStoreSuite) SetupSuite() {
	ctx := context.Background()
	s.postgres = containers.NewPostgresContainer(s.T())
	s.redis = containers.NewRedisContainer(s.T())

	db, err := sqlx.ConnectContext(ctx, "postgres", s.postgres.DSN)
	s.Require().NoError(err)
	s.db = db
	s.T().Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, store.Schema)
	s.Require().NoError(err)

	pg, err := store.NewPostgres(db, "reference_records")
	s.Require().NoError(err)
	s.pg = pg
}

func (s *ReferenceStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.redis.FlushAll(ctx))
	s.exec(`TRUNCATE reference_records RESTART IDENTITY`)
	s.exec(`INSERT INTO reference_records (username, submission_code, full_name) VALUES
		('jsmith', 'ART-42', 'Jane Smith'),
		('msilva', 'ART-7', 'Maria Silva'),
		('jsmith', 'ART-42', 'Jane Duplicate')`)
}

func (s *ReferenceStoreSuite) exec(query string) {
	_, err := s.db.ExecContext(context.Background(), query)
	s.Require().NoError(err)
}

func (s *ReferenceStoreSuite) TestPostgresSnapshotKeepsInsertOrder() {
	records, err := s.pg.Snapshot(context.Background())
	s.Require().NoError(err)
	s.Require().Len(records, 3)
	s.Equal("Jane Smith", records[0].FullName)
	s.Equal("Jane Duplicate", records[2].FullName)
}

func (s *ReferenceStoreSuite) TestCachedStoreServesFromRedisAfterFirstRead() {
	ctx := context.Background()
	cached := store.NewCachedStore(s.pg, s.redis.Client, time.Minute)

	first, err := cached.Snapshot(ctx)
	s.Require().NoError(err)
	s.Len(first, 3)

	s.exec(`TRUNCATE reference_records`)

	second, err := cached.Snapshot(ctx)
	s.Require().NoError(err)
	s.Equal(first, second)

	s.Require().NoError(cached.Invalidate(ctx))
	third, err := cached.Snapshot(ctx)
	s.Require().NoError(err)
	s.Empty(third)
}

func (s *ReferenceStoreSuite) TestCachedStoreFallsBackWhenRedisIsDown() {
	source := store.NewInMemoryStore(models.ReferenceRecord{Username: "a", SubmissionCode: "1", FullName: "A"})
	closed := containers.NewRedisContainer(s.T()).Client
	s.Require().NoError(closed.Close())

	records, err := store.NewCachedStore(source, closed, time.Minute).Snapshot(context.Background())
	s.Require().NoError(err)
	s.Len(records, 1)
}
