//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"mirathi/internal/member"
	"mirathi/internal/member/store"
	"mirathi/pkg/domain"
	"mirathi/pkg/platform/sentinel"
	"mirathi/pkg/testutil"
	"mirathi/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "family_members", "outbox")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestInsertGetRoundTrip() {
	ctx := context.Background()
	now := testutil.Date(2026, 3, 1)
	m := newMember(s.T(), domain.NewFamilyID(), now)
	p := m.Projection(now)

	err := s.store.Insert(ctx, p, m.DrainEvents())
	s.Require().NoError(err)

	got, err := s.store.Get(ctx, m.ID())
	s.Require().NoError(err)
	s.Equal(p, got)

	rebuilt, err := member.Reconstruct(got)
	s.Require().NoError(err)
	s.Equal(p, rebuilt.Projection(now))
}

func (s *PostgresStoreSuite) TestInsertWritesOutboxAtomically() {
	ctx := context.Background()
	now := testutil.Date(2026, 3, 1)
	m := newMember(s.T(), domain.NewFamilyID(), now)
	events := m.DrainEvents()

	err := s.store.Insert(ctx, m.Projection(now), events)
	s.Require().NoError(err)

	rows, err := s.postgres.DB.QueryContext(ctx, `
		SELECT id FROM outbox WHERE aggregate_id = $1 AND published_at IS NULL
	`, m.ID().String())
	s.Require().NoError(err)
	defer rows.Close()

	var rowIDs []string
	for rows.Next() {
		var id string
		s.Require().NoError(rows.Scan(&id))
		rowIDs = append(rowIDs, id)
	}
	s.Require().NoError(rows.Err())

	// The outbox rows carry the event IDs so consumers can dedupe.
	eventIDs := make([]string, 0, len(events))
	for _, ev := range events {
		eventIDs = append(eventIDs, ev.ID)
	}
	s.ElementsMatch(eventIDs, rowIDs)
}

func (s *PostgresStoreSuite) TestDoubleInsertFails() {
	ctx := context.Background()
	now := testutil.Date(2026, 3, 1)
	m := newMember(s.T(), domain.NewFamilyID(), now)
	p := m.Projection(now)

	s.Require().NoError(s.store.Insert(ctx, p, nil))
	s.Require().ErrorIs(s.store.Insert(ctx, p, nil), sentinel.ErrAlreadyExists)
}

func (s *PostgresStoreSuite) TestOptimisticConcurrency() {
	ctx := context.Background()
	now := testutil.Date(2026, 3, 1)
	m := newMember(s.T(), domain.NewFamilyID(), now)
	s.Require().NoError(s.store.Insert(ctx, m.Projection(now), m.DrainEvents()))

	s.Require().NoError(m.Archive("duplicate record", "clerk-3", now))
	p := m.Projection(now)

	s.Require().NoError(s.store.Update(ctx, p, 1, m.DrainEvents()))
	s.Require().ErrorIs(s.store.Update(ctx, p, 1, nil), sentinel.ErrConflict)

	got, err := s.store.Get(ctx, m.ID())
	s.Require().NoError(err)
	s.Equal(2, got.Version)
}

func (s *PostgresStoreSuite) TestUpdateMissingMember() {
	ctx := context.Background()
	now := testutil.Date(2026, 3, 1)
	m := newMember(s.T(), domain.NewFamilyID(), now)

	err := s.store.Update(ctx, m.Projection(now), 1, nil)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListByFamily() {
	ctx := context.Background()
	now := testutil.Date(2026, 3, 1)
	familyID := domain.NewFamilyID()

	for i := 0; i < 3; i++ {
		m := newMember(s.T(), familyID, now)
		s.Require().NoError(s.store.Insert(ctx, m.Projection(now), nil))
	}
	other := newMember(s.T(), domain.NewFamilyID(), now)
	s.Require().NoError(s.store.Insert(ctx, other.Projection(now), nil))

	got, err := s.store.ListByFamily(ctx, familyID)
	s.Require().NoError(err)
	s.Len(got, 3)
}
