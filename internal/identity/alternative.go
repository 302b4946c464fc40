package identity

import (
	"time"

	dErrors "mirathi/pkg/domain-errors"
)

// DocumentKind distinguishes the alternative identity documents the
// registry accepts alongside the national ID.
type DocumentKind string

const (
	KindPassport   DocumentKind = "PASSPORT"
	KindAlienID    DocumentKind = "ALIEN_ID"
	KindMilitaryID DocumentKind = "MILITARY_ID"
	KindRefugeeID  DocumentKind = "REFUGEE_ID"
)

func (k DocumentKind) valid() bool {
	switch k {
	case KindPassport, KindAlienID, KindMilitaryID, KindRefugeeID:
		return true
	}
	return false
}

// AlternativeID is a non-primary identity document. An Identity holds
// at most one per kind.
type AlternativeID struct {
	kind         DocumentKind
	number       string
	issuedBy     string
	verification Verification
}

// NewAlternativeID validates and constructs an unverified alternative
// document.
func NewAlternativeID(kind DocumentKind, number, issuedBy string) (AlternativeID, error) {
	if !kind.valid() {
		return AlternativeID{}, dErrors.New(dErrors.CodeValidation, "unknown document kind").
			WithField("alternative_id.kind").
			WithContext("kind", string(kind))
	}
	if number == "" {
		return AlternativeID{}, dErrors.New(dErrors.CodeValidation, "document number is required").
			WithField("alternative_id.number")
	}
	return AlternativeID{kind: kind, number: number, issuedBy: issuedBy, verification: Unverified()}, nil
}

// Verify returns a verified copy of the document.
func (a AlternativeID) Verify(by string, method VerificationMethod, at time.Time) (AlternativeID, error) {
	v, err := Verified(by, method, at)
	if err != nil {
		return AlternativeID{}, err
	}
	a.verification = v
	return a, nil
}

func (a AlternativeID) Kind() DocumentKind { return a.kind }
func (a AlternativeID) Number() string { return a.number }
func (a AlternativeID) IssuedBy() string { return a.issuedBy }
func (a AlternativeID) IsVerified() bool { return a.verification.IsVerified() }
func (a AlternativeID) Verification() Verification { return a.verification }

// Equals compares documents structurally.
func (a AlternativeID) Equals(other AlternativeID) bool {
	return a.kind == other.kind &&
		a.number == other.number &&
		a.issuedBy == other.issuedBy &&
		a.verification.Equals(other.verification)
}

// AlternativeIDProjection is the plain snapshot of an alternative
// document.
type AlternativeIDProjection struct {
	Kind         string                 `json:"kind"`
	Number       string                 `json:"number"`
	IssuedBy     string                 `json:"issued_by,omitempty"`
	Verification VerificationProjection `json:"verification"`
}

func (a AlternativeID) Projection() AlternativeIDProjection {
	return AlternativeIDProjection{
		Kind:         string(a.kind),
		Number:       a.number,
		IssuedBy:     a.issuedBy,
		Verification: a.verification.Projection(),
	}
}
