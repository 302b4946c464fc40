package store

import (
	"context"

	"mirathi/internal/member"
	"mirathi/pkg/domain"
)

// Store persists member projections together with their drained events
// in one atomic write (transactional outbox).
//
// Insert fails with sentinel.ErrAlreadyExists when the ID is taken.
// Get fails with sentinel.ErrNotFound.
// Update is compare-and-swap on the version the caller loaded:
// a concurrent writer surfaces as sentinel.ErrConflict and the caller
// reloads and retries at the application layer.
type Store interface {
	Insert(ctx context.Context, p member.Projection, events []member.Event) error
	Get(ctx context.Context, id domain.MemberID) (member.Projection, error)
	ListByFamily(ctx context.Context, familyID domain.FamilyID) ([]member.Projection, error)
	Update(ctx context.Context, p member.Projection, expectedVersion int, events []member.Event) error
}
