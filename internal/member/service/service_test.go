package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"mirathi/internal/member"
	"mirathi/internal/member/service"
	"mirathi/internal/member/store"
	"mirathi/internal/person"
	"mirathi/pkg/domain"
	dErrors "mirathi/pkg/domain-errors"
	"mirathi/pkg/platform/sentinel"
	"mirathi/pkg/testutil"
)

// memoryCache is an in-process Cache double.
type memoryCache struct {
	entries     map[string]member.Projection
	invalidated int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]member.Projection)}
}

func (c *memoryCache) Get(_ context.Context, id domain.MemberID) (member.Projection, error) {
	p, ok := c.entries[id.String()]
	if !ok {
		return member.Projection{}, sentinel.ErrNotFound
	}
	return p, nil
}

func (c *memoryCache) Set(_ context.Context, p member.Projection) error {
	c.entries[p.ID] = p
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, id domain.MemberID) error {
	delete(c.entries, id.String())
	c.invalidated++
	return nil
}

// conflictingStore wraps the memory store and forces the first N
// updates to conflict.
type conflictingStore struct {
	*store.InMemoryStore
	conflicts int
}

func (s *conflictingStore) Update(ctx context.Context, p member.Projection, expectedVersion int, events []member.Event) error {
	if s.conflicts > 0 {
		s.conflicts--
		return sentinel.ErrConflict
	}
	return s.InMemoryStore.Update(ctx, p, expectedVersion, events)
}

type ServiceSuite struct {
	suite.Suite

	now   time.Time
	store *store.InMemoryStore
	cache *memoryCache
	svc   *service.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = testutil.Date(2026, 3, 1)
	s.store = store.NewInMemoryStore()
	s.cache = newMemoryCache()
	s.svc = service.New(s.store,
		service.WithCache(s.cache),
		service.WithClock(testutil.FixedClock(s.now)),
	)
}

func (s *ServiceSuite) register() member.Projection {
	s.T().Helper()
	name, err := person.NewFullName("Amani", "", "Chebet")
	s.Require().NoError(err)
	p, err := s.svc.Register(context.Background(), member.CreateFacts{
		FamilyID: domain.NewFamilyID(),
		Name:     name,
	})
	s.Require().NoError(err)
	return p
}

func (s *ServiceSuite) TestRegister() {
	s.Run("generates an ID, persists and caches", func() {
		p := s.register()

		s.NotEmpty(p.ID)
		s.Equal(1, p.Version)

		id, err := domain.ParseMemberID(p.ID)
		s.Require().NoError(err)
		stored, err := s.store.Get(context.Background(), id)
		s.Require().NoError(err)
		s.Equal(p, stored)
		s.Contains(s.cache.entries, p.ID)
		s.Len(s.store.Outbox(), 2)
	})

	s.Run("a domain rejection reaches the caller unwrapped", func() {
		_, err := s.svc.Register(context.Background(), member.CreateFacts{
			FamilyID: domain.NewFamilyID(),
		})

		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestGet() {
	s.Run("serves from the cache when present", func() {
		p := s.register()
		id, err := domain.ParseMemberID(p.ID)
		s.Require().NoError(err)

		// Poison the cache to prove it is preferred.
		poisoned := p
		poisoned.Version = 99
		s.cache.entries[p.ID] = poisoned

		got, err := s.svc.Get(context.Background(), id)
		s.Require().NoError(err)
		s.Equal(99, got.Version)
	})

	s.Run("falls back to the store and refills the cache", func() {
		p := s.register()
		id, err := domain.ParseMemberID(p.ID)
		s.Require().NoError(err)
		delete(s.cache.entries, p.ID)

		got, err := s.svc.Get(context.Background(), id)
		s.Require().NoError(err)
		s.Equal(p, got)
		s.Contains(s.cache.entries, p.ID)
	})

	s.Run("unknown member is not found", func() {
		_, err := s.svc.Get(context.Background(), domain.NewMemberID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *ServiceSuite) TestMutation() {
	s.Run("update bumps the version and refreshes the cache", func() {
		p := s.register()
		id, err := domain.ParseMemberID(p.ID)
		s.Require().NoError(err)

		contact, err := person.NewContactInfo("0712345678", "")
		s.Require().NoError(err)

		updated, err := s.svc.UpdateContactInfo(context.Background(), id, contact)
		s.Require().NoError(err)
		s.Equal(2, updated.Version)
		s.Equal(updated, s.cache.entries[p.ID])
		s.Len(s.store.Outbox(), 3)
	})

	s.Run("a guard rejection leaves store and version untouched", func() {
		p := s.register()
		id, err := domain.ParseMemberID(p.ID)
		s.Require().NoError(err)
		_, err = s.svc.Archive(context.Background(), id, "duplicate", "clerk-3")
		s.Require().NoError(err)

		contact, err := person.NewContactInfo("0712345678", "")
		s.Require().NoError(err)
		_, err = s.svc.UpdateContactInfo(context.Background(), id, contact)

		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		stored, err := s.store.Get(context.Background(), id)
		s.Require().NoError(err)
		s.Equal(2, stored.Version)
	})

	s.Run("mark deceased then unarchive stays rejected", func() {
		p := s.register()
		id, err := domain.ParseMemberID(p.ID)
		s.Require().NoError(err)

		dead, err := s.svc.MarkDeceased(context.Background(), id, service.DeathFacts{
			DateOfDeath: testutil.Date(2026, 2, 20),
			RecordedBy:  "registrar-17",
		})
		s.Require().NoError(err)
		s.True(dead.Archived)

		_, err = s.svc.Unarchive(context.Background(), id)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *ServiceSuite) TestConflictRetry() {
	s.Run("retries a conflicted save against the reloaded record", func() {
		p := s.register()
		id, err := domain.ParseMemberID(p.ID)
		s.Require().NoError(err)

		conflicted := &conflictingStore{InMemoryStore: s.store, conflicts: 2}
		svc := service.New(conflicted,
			service.WithCache(s.cache),
			service.WithClock(testutil.FixedClock(s.now)),
		)

		updated, err := svc.Archive(context.Background(), id, "relocated", "clerk-3")
		s.Require().NoError(err)
		s.Equal(2, updated.Version)
		s.GreaterOrEqual(s.cache.invalidated, 2)
	})

	s.Run("surfaces the conflict once retries are exhausted", func() {
		p := s.register()
		id, err := domain.ParseMemberID(p.ID)
		s.Require().NoError(err)

		conflicted := &conflictingStore{InMemoryStore: s.store, conflicts: 100}
		svc := service.New(conflicted, service.WithClock(testutil.FixedClock(s.now)))

		_, err = svc.Archive(context.Background(), id, "relocated", "clerk-3")
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})
}
