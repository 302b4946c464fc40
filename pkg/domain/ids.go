// Package domain holds the shared kernel for the family registry:
// typed identifiers and primitives used across bounded contexts.
//
// Typed IDs prevent cross-type assignment at compile time; parsing
// rejects empty, malformed and nil UUIDs at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "mirathi/pkg/domain-errors"
)

// MemberID identifies a family member aggregate.
type MemberID uuid.UUID

// FamilyID identifies the family a member belongs to.
type FamilyID uuid.UUID

// HouseID identifies a house within a polygamous family.
type HouseID uuid.UUID

// NewMemberID generates a fresh member identifier. The domain never
// generates its own IDs during mutation; only creation paths call this.
func NewMemberID() MemberID {
	return MemberID(uuid.New())
}

// NewFamilyID generates a fresh family identifier.
func NewFamilyID() FamilyID {
	return FamilyID(uuid.New())
}

// NewHouseID generates a fresh house identifier.
func NewHouseID() HouseID {
	return HouseID(uuid.New())
}

// ParseMemberID validates and parses a member ID from its string form.
func ParseMemberID(s string) (MemberID, error) {
	u, err := parseUUID(s, "member_id")
	return MemberID(u), err
}

// ParseFamilyID validates and parses a family ID from its string form.
func ParseFamilyID(s string) (FamilyID, error) {
	u, err := parseUUID(s, "family_id")
	return FamilyID(u), err
}

// ParseHouseID validates and parses a house ID from its string form.
func ParseHouseID(s string) (HouseID, error) {
	u, err := parseUUID(s, "house_id")
	return HouseID(u), err
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be empty").WithField(field)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is not a valid UUID").WithField(field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be the nil UUID").WithField(field)
	}
	return u, nil
}

func (id MemberID) String() string { return uuid.UUID(id).String() }
func (id FamilyID) String() string { return uuid.UUID(id).String() }
func (id HouseID) String() string { return uuid.UUID(id).String() }

func (id MemberID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id FamilyID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id HouseID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// Typed IDs serialize as canonical UUID strings.

func (id MemberID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id FamilyID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id HouseID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }

func (id *MemberID) UnmarshalText(b []byte) error {
	parsed, err := ParseMemberID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *FamilyID) UnmarshalText(b []byte) error {
	parsed, err := ParseFamilyID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *HouseID) UnmarshalText(b []byte) error {
	parsed, err := ParseHouseID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
