package identity

import (
	"time"

	dErrors "mirathi/pkg/domain-errors"
)

// LegalIDType names the document class a primary legal identifier was
// resolved from.
type LegalIDType string

const (
	LegalIDNationalID       LegalIDType = "NATIONAL_ID"
	LegalIDPassport         LegalIDType = "PASSPORT"
	LegalIDAlienID          LegalIDType = "ALIEN_ID"
	LegalIDBirthCertificate LegalIDType = "BIRTH_CERTIFICATE"
)

// LegalID is the best available legal identifier for a member.
type LegalID struct {
	Type  LegalIDType `json:"type"`
	Value string      `json:"value"`
}

// Identity composes a member's identity documents and cultural
// attributes. It is immutable: every With method returns a new
// instance with the trust-flag caches refreshed.
//
// Invariants:
//   - At most one alternative document per kind
//   - Death date never precedes birth date when both records exist
//   - Cached trust flags always agree with the live getters
type Identity struct {
	nationalID       *NationalID
	kraPin           *KRAPin
	birthCertificate *BirthCertificate
	deathCertificate *DeathCertificate
	alternatives     map[DocumentKind]AlternativeID
	cultural         CulturalDetails

	// Caches of the derived trust flags. Refreshed by refreshed() on
	// every mutation path. Both are stored so their zero value matches
	// the live computation on an empty identity: nothing is verified,
	// and customary law applies, so the applicability cache is stored
	// inverted as an exemption flag.
	legallyVerified    bool
	customaryLawExempt bool
}

// NewIdentity returns an empty identity with caches initialized.
func NewIdentity() Identity {
	return Identity{}.refreshed()
}

// clone copies the identity including a fresh alternatives map so
// copy-on-write updates never alias the original.
func (i Identity) clone() Identity {
	c := i
	if i.alternatives != nil {
		c.alternatives = make(map[DocumentKind]AlternativeID, len(i.alternatives))
		for k, v := range i.alternatives {
			c.alternatives[k] = v
		}
	}
	return c
}

// refreshed recomputes the cached trust flags. Every With method must
// return through here.
func (i Identity) refreshed() Identity {
	i.legallyVerified = i.computeLegallyVerified()
	i.customaryLawExempt = !i.computeAppliesCustomaryLaw()
	return i
}

// WithNationalID returns a copy holding the given national ID.
func (i Identity) WithNationalID(n NationalID) Identity {
	c := i.clone()
	c.nationalID = &n
	return c.refreshed()
}

// WithKRAPin returns a copy holding the given KRA PIN.
func (i Identity) WithKRAPin(k KRAPin) Identity {
	c := i.clone()
	c.kraPin = &k
	return c.refreshed()
}

// WithBirthCertificate returns a copy holding the given birth record.
// Fails if an existing death record predates the birth date.
func (i Identity) WithBirthCertificate(b BirthCertificate) (Identity, error) {
	if i.deathCertificate != nil && i.deathCertificate.DateOfDeath().Before(b.DateOfBirth()) {
		return Identity{}, dErrors.New(dErrors.CodeValidation, "date of death precedes date of birth").
			WithField("birth_certificate.date_of_birth").
			WithContext("date_of_birth", b.DateOfBirth()).
			WithContext("date_of_death", i.deathCertificate.DateOfDeath())
	}
	c := i.clone()
	c.birthCertificate = &b
	return c.refreshed(), nil
}

// WithDeathCertificate returns a copy holding the given death record.
// Fails if an existing birth record postdates the death date.
func (i Identity) WithDeathCertificate(d DeathCertificate) (Identity, error) {
	if i.birthCertificate != nil && d.DateOfDeath().Before(i.birthCertificate.DateOfBirth()) {
		return Identity{}, dErrors.New(dErrors.CodeValidation, "date of death precedes date of birth").
			WithField("death_certificate.date_of_death").
			WithContext("date_of_birth", i.birthCertificate.DateOfBirth()).
			WithContext("date_of_death", d.DateOfDeath())
	}
	c := i.clone()
	c.deathCertificate = &d
	return c.refreshed(), nil
}

// AddAlternativeID returns a copy holding the document. An existing
// document of the same kind is replaced, never duplicated.
func (i Identity) AddAlternativeID(a AlternativeID) Identity {
	c := i.clone()
	if c.alternatives == nil {
		c.alternatives = make(map[DocumentKind]AlternativeID, 1)
	}
	c.alternatives[a.Kind()] = a
	return c.refreshed()
}

// WithCulturalDetails returns a copy holding the cultural attributes.
func (i Identity) WithCulturalDetails(cd CulturalDetails) Identity {
	c := i.clone()
	c.cultural = cd
	return c.refreshed()
}

// VerifyNationalID returns a copy with the national ID verified.
// Fails if no national ID is recorded.
func (i Identity) VerifyNationalID(by string, method VerificationMethod, at time.Time) (Identity, error) {
	if i.nationalID == nil {
		return Identity{}, dErrors.New(dErrors.CodeInvariantViolation, "no national ID to verify").
			WithField("national_id")
	}
	verified, err := i.nationalID.Verify(by, method, at)
	if err != nil {
		return Identity{}, err
	}
	return i.WithNationalID(verified), nil
}

// VerifyKRAPin returns a copy with the KRA PIN verified. Fails if no
// PIN is recorded.
func (i Identity) VerifyKRAPin(by string, method VerificationMethod, at time.Time) (Identity, error) {
	if i.kraPin == nil {
		return Identity{}, dErrors.New(dErrors.CodeInvariantViolation, "no KRA PIN to verify").
			WithField("kra_pin")
	}
	verified, err := i.kraPin.Verify(by, method, at)
	if err != nil {
		return Identity{}, err
	}
	return i.WithKRAPin(verified), nil
}

func (i Identity) NationalID() (NationalID, bool) {
	if i.nationalID == nil {
		return NationalID{}, false
	}
	return *i.nationalID, true
}

func (i Identity) KRAPin() (KRAPin, bool) {
	if i.kraPin == nil {
		return KRAPin{}, false
	}
	return *i.kraPin, true
}

func (i Identity) BirthCertificate() (BirthCertificate, bool) {
	if i.birthCertificate == nil {
		return BirthCertificate{}, false
	}
	return *i.birthCertificate, true
}

func (i Identity) DeathCertificate() (DeathCertificate, bool) {
	if i.deathCertificate == nil {
		return DeathCertificate{}, false
	}
	return *i.deathCertificate, true
}

func (i Identity) AlternativeID(kind DocumentKind) (AlternativeID, bool) {
	a, ok := i.alternatives[kind]
	return a, ok
}

func (i Identity) CulturalDetails() CulturalDetails { return i.cultural }

// PrimaryLegalID resolves the best available identifier in fixed
// priority order: national ID, passport, alien ID, birth certificate
// entry number. The second return is false when no document exists.
func (i Identity) PrimaryLegalID() (LegalID, bool) {
	if i.nationalID != nil {
		return LegalID{Type: LegalIDNationalID, Value: i.nationalID.Number()}, true
	}
	if p, ok := i.alternatives[KindPassport]; ok {
		return LegalID{Type: LegalIDPassport, Value: p.Number()}, true
	}
	if a, ok := i.alternatives[KindAlienID]; ok {
		return LegalID{Type: LegalIDAlienID, Value: a.Number()}, true
	}
	if i.birthCertificate != nil {
		return LegalID{Type: LegalIDBirthCertificate, Value: i.birthCertificate.EntryNumber()}, true
	}
	return LegalID{}, false
}

// IsLegallyVerified is the live trust computation: a verified national
// ID or a verified passport.
func (i Identity) IsLegallyVerified() bool {
	return i.computeLegallyVerified()
}

// AppliesCustomaryLaw is the live computation: customary law applies
// unless a religion-based exemption holds and no ethnicity is
// recorded.
func (i Identity) AppliesCustomaryLaw() bool {
	return i.computeAppliesCustomaryLaw()
}

// CachedLegallyVerified exposes the cache for divergence checks and
// projections.
func (i Identity) CachedLegallyVerified() bool { return i.legallyVerified }

// CachedAppliesCustomaryLaw exposes the cache for divergence checks
// and projections.
func (i Identity) CachedAppliesCustomaryLaw() bool { return !i.customaryLawExempt }

func (i Identity) computeLegallyVerified() bool {
	if i.nationalID != nil && i.nationalID.IsVerified() {
		return true
	}
	if p, ok := i.alternatives[KindPassport]; ok && p.IsVerified() {
		return true
	}
	return false
}

func (i Identity) computeAppliesCustomaryLaw() bool {
	if i.cultural.Religion().exemptFromCustomaryLaw() && i.cultural.Ethnicity() == "" {
		return false
	}
	return true
}

// Equals performs a deep structural comparison.
func (i Identity) Equals(other Identity) bool {
	if !optEquals(i.nationalID, other.nationalID, NationalID.Equals) {
		return false
	}
	if !optEquals(i.kraPin, other.kraPin, KRAPin.Equals) {
		return false
	}
	if !optEquals(i.birthCertificate, other.birthCertificate, BirthCertificate.Equals) {
		return false
	}
	if !optEquals(i.deathCertificate, other.deathCertificate, DeathCertificate.Equals) {
		return false
	}
	if len(i.alternatives) != len(other.alternatives) {
		return false
	}
	for kind, a := range i.alternatives {
		b, ok := other.alternatives[kind]
		if !ok || !a.Equals(b) {
			return false
		}
	}
	return i.cultural.Equals(other.cultural)
}

func optEquals[T any](a, b *T, eq func(T, T) bool) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return eq(*a, *b)
}

// IdentityProjection is the fully expanded snapshot of an identity,
// including the derived trust flags. Derived booleans reflect the
// caches, which construction guarantees match the live getters.
type IdentityProjection struct {
	NationalID       *NationalIDProjection       `json:"national_id,omitempty"`
	KRAPin           *KRAPinProjection           `json:"kra_pin,omitempty"`
	BirthCertificate *BirthCertificateProjection `json:"birth_certificate,omitempty"`
	DeathCertificate *DeathCertificateProjection `json:"death_certificate,omitempty"`
	AlternativeIDs   []AlternativeIDProjection   `json:"alternative_ids,omitempty"`
	CulturalDetails  CulturalDetailsProjection   `json:"cultural_details"`
	PrimaryLegalID   *LegalID                    `json:"primary_legal_id,omitempty"`
	LegallyVerified  bool                        `json:"legally_verified"`
	CustomaryLaw     bool                        `json:"customary_law"`
}

// Projection returns the expanded snapshot, recomputed per call except
// for the explicitly cached trust flags.
func (i Identity) Projection() IdentityProjection {
	p := IdentityProjection{
		CulturalDetails: i.cultural.Projection(),
		LegallyVerified: i.legallyVerified,
		CustomaryLaw:    !i.customaryLawExempt,
	}
	if i.nationalID != nil {
		np := i.nationalID.Projection()
		p.NationalID = &np
	}
	if i.kraPin != nil {
		kp := i.kraPin.Projection()
		p.KRAPin = &kp
	}
	if i.birthCertificate != nil {
		bp := i.birthCertificate.Projection()
		p.BirthCertificate = &bp
	}
	if i.deathCertificate != nil {
		dp := i.deathCertificate.Projection()
		p.DeathCertificate = &dp
	}
	// Stable order so projections of equal identities are equal.
	for _, kind := range []DocumentKind{KindPassport, KindAlienID, KindMilitaryID, KindRefugeeID} {
		if a, ok := i.alternatives[kind]; ok {
			p.AlternativeIDs = append(p.AlternativeIDs, a.Projection())
		}
	}
	if legal, ok := i.PrimaryLegalID(); ok {
		p.PrimaryLegalID = &legal
	}
	return p
}
