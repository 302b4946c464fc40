package store

import (
	"context"
	"sync"

	"mirathi/internal/member"
	"mirathi/pkg/domain"
	"mirathi/pkg/platform/sentinel"
)

// InMemoryStore is the non-durable Store used in tests and local runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]member.Projection
	outbox  []member.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]member.Projection)}
}

func (s *InMemoryStore) Insert(_ context.Context, p member.Projection, events []member.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[p.ID]; ok {
		return sentinel.ErrAlreadyExists
	}
	s.records[p.ID] = p
	s.outbox = append(s.outbox, events...)
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id domain.MemberID) (member.Projection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.records[id.String()]
	if !ok {
		return member.Projection{}, sentinel.ErrNotFound
	}
	return p, nil
}

func (s *InMemoryStore) ListByFamily(_ context.Context, familyID domain.FamilyID) ([]member.Projection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []member.Projection
	for _, p := range s.records {
		if p.FamilyID == familyID.String() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, p member.Projection, expectedVersion int, events []member.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.records[p.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if current.Version != expectedVersion {
		return sentinel.ErrConflict
	}
	s.records[p.ID] = p
	s.outbox = append(s.outbox, events...)
	return nil
}

// Outbox returns a copy of every event written so far, in write order.
func (s *InMemoryStore) Outbox() []member.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]member.Event, len(s.outbox))
	copy(out, s.outbox)
	return out
}
