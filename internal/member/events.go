package member

import (
	"time"

	"github.com/google/uuid"

	"mirathi/pkg/domain"
)

// EventType names a domain event on the member stream.
type EventType string

const (
	EventCreated                EventType = "member.created"
	EventUpdated                EventType = "member.updated"
	EventDeceased               EventType = "member.deceased"
	EventAgeRecalculated        EventType = "member.age_recalculated"
	EventArchived               EventType = "member.archived"
	EventUnarchived             EventType = "member.unarchived"
	EventMissingStatusChanged   EventType = "member.missing_status_changed"
	EventHouseAssigned          EventType = "member.house_assigned"
	EventStatutoryStatusChanged EventType = "member.statutory_status_changed"
	EventIdentityVerified       EventType = "member.identity_verified"
	EventDependencyAssessed     EventType = "member.dependency_assessed"
)

// FieldDelta is an old/new pair for one changed field on an Updated
// event.
type FieldDelta struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// Event is an immutable record of something that happened to a member,
// buffered on the aggregate until the persistence boundary drains it.
type Event struct {
	ID         string                `json:"id"`
	Type       EventType             `json:"type"`
	MemberID   domain.MemberID       `json:"member_id"`
	FamilyID   domain.FamilyID       `json:"family_id"`
	Version    int                   `json:"version"`
	OccurredAt time.Time             `json:"occurred_at"`
	Payload    map[string]any        `json:"payload,omitempty"`
	Deltas     map[string]FieldDelta `json:"deltas,omitempty"`
}

func newEvent(t EventType, m *FamilyMember, at time.Time, payload map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		MemberID:   m.id,
		FamilyID:   m.familyID,
		Version:    m.version,
		OccurredAt: at,
		Payload:    payload,
	}
}
