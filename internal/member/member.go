package member

import (
	"time"

	"mirathi/internal/geo"
	"mirathi/internal/identity"
	"mirathi/internal/person"
	"mirathi/internal/succession"
	"mirathi/pkg/domain"
	dErrors "mirathi/pkg/domain-errors"
)

// FamilyMember is the aggregate root for one person in a family
// register.
//
// Invariants:
//   - Version increases by exactly one per successful mutation and is
//     unchanged after a failed one
//   - A deceased member is automatically archived
//   - An archived member rejects all mutation except Unarchive
//   - Date of birth, when known, never postdates date of death
type FamilyMember struct {
	id       domain.MemberID
	familyID domain.FamilyID

	name         person.FullName
	ident        identity.Identity
	lifeStatus   person.LifeStatus
	dateOfBirth  *time.Time
	contact      *person.ContactInfo
	demographics *person.Demographics
	disability   *person.DisabilityStatus
	residence    *geo.Location

	houseID    *domain.HouseID
	houseOrder int

	archived      bool
	archiveReason string
	archivedBy    string
	archivedAt    *time.Time

	quality  QualityPolicy
	warnings []domain.Warning

	version int
	events  []Event
}

// CreateFacts are the flat facts the validating factory accepts.
type CreateFacts struct {
	ID       domain.MemberID
	FamilyID domain.FamilyID

	Name       person.FullName
	Identity   identity.Identity
	LifeStatus person.LifeStatus

	DateOfBirth  *time.Time
	Contact      *person.ContactInfo
	Demographics *person.Demographics
	Disability   *person.DisabilityStatus
	Residence    *geo.Location

	Quality *QualityPolicy
}

// New validates the facts and constructs the aggregate at version 1,
// emitting Created and the initial DependencyAssessed. A member
// created already deceased is archived at once and additionally
// emits Archived.
func New(facts CreateFacts, now time.Time) (*FamilyMember, error) {
	if facts.ID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "member ID is required").WithField("member_id")
	}
	if facts.FamilyID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "family ID is required").WithField("family_id")
	}
	if facts.Name.First() == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required").WithField("name")
	}

	lifeStatus := facts.LifeStatus
	if lifeStatus.State() == "" {
		lifeStatus = person.Alive()
	}

	dob := facts.DateOfBirth
	if dob == nil {
		// A birth certificate on the identity is the authoritative
		// date of birth when none was stated.
		if cert, ok := facts.Identity.BirthCertificate(); ok {
			d := cert.DateOfBirth()
			dob = &d
		}
	}
	if dob != nil {
		if dob.After(now) {
			return nil, dErrors.New(dErrors.CodeValidation, "date of birth is in the future").
				WithField("date_of_birth").
				WithContext("date_of_birth", *dob)
		}
		if dod, ok := lifeStatus.DateOfDeath(); ok && dob.After(dod) {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "date of birth is after date of death").
				WithContext("date_of_birth", *dob).
				WithContext("date_of_death", dod)
		}
	}

	quality := DefaultQualityPolicy()
	if facts.Quality != nil {
		quality = *facts.Quality
	}

	m := &FamilyMember{
		id:           facts.ID,
		familyID:     facts.FamilyID,
		name:         facts.Name,
		ident:        facts.Identity,
		lifeStatus:   lifeStatus,
		dateOfBirth:  copyTime(dob),
		contact:      facts.Contact,
		demographics: facts.Demographics,
		disability:   facts.Disability,
		residence:    facts.Residence,
		quality:      quality,
		version:      1,
	}

	// Deceased-on-creation still honors the auto-archive invariant,
	// under the same date guard MarkDeceased applies.
	if m.lifeStatus.IsDeceased() {
		if dod, ok := m.lifeStatus.DateOfDeath(); ok && dod.After(now) {
			return nil, dErrors.New(dErrors.CodeValidation, "date of death is in the future").
				WithField("life_status.date_of_death").
				WithContext("date_of_death", dod)
		}
		m.archived = true
		m.archiveReason = "deceased"
		at := now
		m.archivedAt = &at
	}

	m.append(EventCreated, now, map[string]any{
		"name":      m.name.Full(),
		"family_id": m.familyID.String(),
	})
	m.append(EventDependencyAssessed, now, map[string]any{
		"dependency_level": string(m.DependencyLevel(now)),
	})
	if m.archived {
		m.append(EventArchived, now, map[string]any{
			"reason": m.archiveReason,
		})
	}
	return m, nil
}

func (m *FamilyMember) ID() domain.MemberID { return m.id }
func (m *FamilyMember) FamilyID() domain.FamilyID { return m.familyID }
func (m *FamilyMember) Version() int { return m.version }
func (m *FamilyMember) Name() person.FullName { return m.name }
func (m *FamilyMember) Identity() identity.Identity { return m.ident }
func (m *FamilyMember) LifeStatus() person.LifeStatus { return m.lifeStatus }
func (m *FamilyMember) IsArchived() bool { return m.archived }

func (m *FamilyMember) DateOfBirth() (time.Time, bool) {
	if m.dateOfBirth == nil {
		return time.Time{}, false
	}
	return *m.dateOfBirth, true
}

func (m *FamilyMember) House() (domain.HouseID, int, bool) {
	if m.houseID == nil {
		return domain.HouseID{}, 0, false
	}
	return *m.houseID, m.houseOrder, true
}

// Warnings returns the advisory observations accumulated on the
// aggregate.
func (m *FamilyMember) Warnings() []domain.Warning {
	out := make([]domain.Warning, len(m.warnings))
	copy(out, m.warnings)
	return out
}

// PendingEvents returns the buffered events without clearing them.
func (m *FamilyMember) PendingEvents() []Event {
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// DrainEvents returns and clears the buffered events. The persistence
// boundary calls this exactly once per successful save.
func (m *FamilyMember) DrainEvents() []Event {
	out := m.events
	m.events = nil
	return out
}

// ApplyQualityPolicy replaces the advisory-versus-error policy. The
// policy is configuration, not state; reconstruction installs the
// default and the application layer reapplies its own.
func (m *FamilyMember) ApplyQualityPolicy(q QualityPolicy) {
	m.quality = q
}

// guardMutable rejects mutation of an archived member.
func (m *FamilyMember) guardMutable() error {
	if m.archived {
		return dErrors.New(dErrors.CodeInvariantViolation, "archived member cannot be modified").
			WithContext("member_id", m.id.String())
	}
	return nil
}

func (m *FamilyMember) append(t EventType, at time.Time, payload map[string]any) {
	m.events = append(m.events, newEvent(t, m, at, payload))
}

// PersonalUpdate carries the optional personal fields an update may
// change. Nil means "leave unchanged".
type PersonalUpdate struct {
	Name         *person.FullName
	Demographics *person.Demographics
	DateOfBirth  *time.Time
	Disability   *person.DisabilityStatus
	Residence    *geo.Location
}

// UpdatePersonalInfo applies a partial update, emitting one Updated
// event carrying only the changed-field deltas. A change that alters
// the dependency assessment also emits DependencyAssessed.
func (m *FamilyMember) UpdatePersonalInfo(u PersonalUpdate, now time.Time) error {
	if err := m.guardMutable(); err != nil {
		return err
	}
	if u.Name == nil && u.Demographics == nil && u.DateOfBirth == nil && u.Disability == nil && u.Residence == nil {
		return dErrors.New(dErrors.CodeValidation, "update contains no fields").WithField("update")
	}
	if u.DateOfBirth != nil {
		if u.DateOfBirth.After(now) {
			return dErrors.New(dErrors.CodeValidation, "date of birth is in the future").
				WithField("date_of_birth")
		}
		if dod, ok := m.lifeStatus.DateOfDeath(); ok && u.DateOfBirth.After(dod) {
			return dErrors.New(dErrors.CodeInvariantViolation, "date of birth is after date of death").
				WithContext("date_of_birth", *u.DateOfBirth).
				WithContext("date_of_death", dod)
		}
	}

	levelBefore := m.DependencyLevel(now)
	deltas := make(map[string]FieldDelta)

	if u.Name != nil && !u.Name.Equals(m.name) {
		deltas["name"] = FieldDelta{Old: m.name.Projection(), New: u.Name.Projection()}
		m.name = *u.Name
	}
	if u.Demographics != nil && (m.demographics == nil || !u.Demographics.Equals(*m.demographics)) {
		deltas["demographics"] = FieldDelta{Old: projOrNil(m.demographics), New: u.Demographics.Projection()}
		d := *u.Demographics
		m.demographics = &d
	}
	if u.DateOfBirth != nil && (m.dateOfBirth == nil || !u.DateOfBirth.Equal(*m.dateOfBirth)) {
		deltas["date_of_birth"] = FieldDelta{Old: m.dateOfBirth, New: *u.DateOfBirth}
		m.dateOfBirth = copyTime(u.DateOfBirth)
	}
	if u.Disability != nil && (m.disability == nil || !u.Disability.Equals(*m.disability)) {
		deltas["disability"] = FieldDelta{Old: disProjOrNil(m.disability), New: u.Disability.Projection()}
		d := *u.Disability
		m.disability = &d
	}
	if u.Residence != nil && (m.residence == nil || !u.Residence.Equals(*m.residence)) {
		deltas["residence"] = FieldDelta{Old: locProjOrNil(m.residence), New: u.Residence.Projection()}
		r := *u.Residence
		m.residence = &r
	}

	if len(deltas) == 0 {
		return dErrors.New(dErrors.CodeValidation, "update matches current state").WithField("update")
	}

	m.version++
	ev := newEvent(EventUpdated, m, now, nil)
	ev.Deltas = deltas
	m.events = append(m.events, ev)

	if level := m.DependencyLevel(now); level != levelBefore {
		m.append(EventDependencyAssessed, now, map[string]any{
			"dependency_level": string(level),
		})
	}
	return nil
}

// UpdateContactInfo replaces the contact details, emitting an Updated
// event with the contact delta.
func (m *FamilyMember) UpdateContactInfo(c person.ContactInfo, now time.Time) error {
	if err := m.guardMutable(); err != nil {
		return err
	}
	if m.contact != nil && c.Equals(*m.contact) {
		return dErrors.New(dErrors.CodeValidation, "update matches current state").WithField("contact")
	}

	old := conProjOrNil(m.contact)
	m.contact = &c
	m.version++

	ev := newEvent(EventUpdated, m, now, nil)
	ev.Deltas = map[string]FieldDelta{
		"contact": {Old: old, New: c.Projection()},
	}
	m.events = append(m.events, ev)
	return nil
}

// MarkDeceased transitions the member to Deceased, attaches the death
// certificate when provided, auto-archives, and emits Deceased,
// AgeRecalculated and Archived. Not idempotent: a second call fails.
func (m *FamilyMember) MarkDeceased(dateOfDeath time.Time, placeOfDeath, causeOfDeath string, cert *identity.DeathCertificate, recordedBy string, now time.Time) error {
	if m.lifeStatus.IsDeceased() {
		return dErrors.New(dErrors.CodeInvariantViolation, "member is already deceased").
			WithContext("member_id", m.id.String())
	}
	if err := m.guardMutable(); err != nil {
		return err
	}

	newStatus, err := m.lifeStatus.MarkDeceased(dateOfDeath, placeOfDeath, causeOfDeath, now)
	if err != nil {
		return err
	}
	if m.dateOfBirth != nil && m.dateOfBirth.After(dateOfDeath) {
		return dErrors.New(dErrors.CodeInvariantViolation, "date of birth is after date of death").
			WithContext("date_of_birth", *m.dateOfBirth).
			WithContext("date_of_death", dateOfDeath)
	}

	newIdent := m.ident
	if cert != nil {
		newIdent, err = m.ident.WithDeathCertificate(*cert)
		if err != nil {
			return err
		}
	} else if !m.quality.MissingDeathCertificateAdvisory {
		return dErrors.New(dErrors.CodeInvariantViolation, "death certificate is required").
			WithField("death_certificate")
	}

	m.lifeStatus = newStatus
	m.ident = newIdent
	if cert == nil {
		m.warnings = append(m.warnings, domain.NewWarning(
			"death_certificate",
			"member marked deceased without a death certificate on file",
		))
	}
	m.archived = true
	m.archiveReason = "deceased"
	m.archivedBy = recordedBy
	at := now
	m.archivedAt = &at
	m.version++

	m.append(EventDeceased, now, map[string]any{
		"date_of_death":  dateOfDeath,
		"place_of_death": placeOfDeath,
		"cause_of_death": causeOfDeath,
	})
	agePayload := map[string]any{}
	if age, ok := m.ageAt(dateOfDeath); ok {
		agePayload["age_at_death"] = age.Years()
	}
	m.append(EventAgeRecalculated, now, agePayload)
	m.append(EventArchived, now, map[string]any{
		"reason": "deceased",
		"actor":  recordedBy,
	})
	return nil
}

// MarkMissing transitions the member to Missing and emits
// MissingStatusChanged.
func (m *FamilyMember) MarkMissing(missingSince time.Time, lastSeen *geo.Location, now time.Time) error {
	if err := m.guardMutable(); err != nil {
		return err
	}
	newStatus, err := m.lifeStatus.MarkMissing(missingSince, lastSeen, now)
	if err != nil {
		return err
	}
	m.lifeStatus = newStatus
	m.version++
	payload := map[string]any{
		"missing":       true,
		"missing_since": missingSince,
	}
	if lastSeen != nil {
		payload["last_seen_location"] = lastSeen.Projection()
	}
	m.append(EventMissingStatusChanged, now, payload)
	return nil
}

// MarkFound returns a missing member to Alive and emits
// MissingStatusChanged.
func (m *FamilyMember) MarkFound(now time.Time) error {
	if err := m.guardMutable(); err != nil {
		return err
	}
	newStatus, err := m.lifeStatus.MarkFound()
	if err != nil {
		return err
	}
	m.lifeStatus = newStatus
	m.version++
	m.append(EventMissingStatusChanged, now, map[string]any{"missing": false})
	return nil
}

// AssignToHouse places the member in a polygamous house, enforcing the
// statutory gender rule from the policy, and emits HouseAssigned plus
// StatutoryStatusChanged.
func (m *FamilyMember) AssignToHouse(houseID domain.HouseID, order int, policy succession.HouseheadPolicy, now time.Time) error {
	if err := m.guardMutable(); err != nil {
		return err
	}
	if houseID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "house ID is required").WithField("house_id")
	}

	gender := person.GenderUnspecified
	if m.demographics != nil {
		gender = m.demographics.Gender()
	}
	verdict := succession.EvaluateHouseAssignment(succession.HouseAssignmentContext{
		MemberGender:     gender,
		MemberIsDeceased: m.lifeStatus.IsDeceased(),
		HouseOrder:       order,
	}, policy)
	if !verdict.IsValid {
		return dErrors.New(dErrors.CodeInvariantViolation, verdict.RejectionReason).
			WithField("house_assignment").
			WithContext("legal_citation", verdict.LegalCitation)
	}

	m.houseID = &houseID
	m.houseOrder = order
	m.version++

	m.append(EventHouseAssigned, now, map[string]any{
		"house_id":    houseID.String(),
		"house_order": order,
	})
	m.append(EventStatutoryStatusChanged, now, map[string]any{
		"statutory_status": "POLYGAMOUS_HOUSE_MEMBER",
		"legal_citation":   "Law of Succession Act, Cap 160, s.40",
	})
	return nil
}

// Archive soft-deactivates the member. The domain never hard-deletes.
func (m *FamilyMember) Archive(reason, actor string, now time.Time) error {
	if m.archived {
		return dErrors.New(dErrors.CodeInvariantViolation, "member is already archived").
			WithContext("member_id", m.id.String())
	}
	if reason == "" {
		return dErrors.New(dErrors.CodeValidation, "archive reason is required").WithField("reason")
	}
	m.archived = true
	m.archiveReason = reason
	m.archivedBy = actor
	at := now
	m.archivedAt = &at
	m.version++
	m.append(EventArchived, now, map[string]any{"reason": reason, "actor": actor})
	return nil
}

// Unarchive reactivates an archived member. A deceased member stays
// archived.
func (m *FamilyMember) Unarchive(now time.Time) error {
	if !m.archived {
		return dErrors.New(dErrors.CodeInvariantViolation, "member is not archived").
			WithContext("member_id", m.id.String())
	}
	if m.lifeStatus.IsDeceased() {
		return dErrors.New(dErrors.CodeInvariantViolation, "deceased member remains archived").
			WithContext("member_id", m.id.String())
	}
	m.archived = false
	m.archiveReason = ""
	m.archivedBy = ""
	m.archivedAt = nil
	m.version++
	m.append(EventUnarchived, now, nil)
	return nil
}

// VerifyNationalID marks the national ID as verified and emits
// IdentityVerified. Fails if no national ID is on file.
func (m *FamilyMember) VerifyNationalID(by string, method identity.VerificationMethod, now time.Time) error {
	if err := m.guardMutable(); err != nil {
		return err
	}
	newIdent, err := m.ident.VerifyNationalID(by, method, now)
	if err != nil {
		return err
	}
	m.ident = newIdent
	m.version++
	m.append(EventIdentityVerified, now, map[string]any{
		"document": "NATIONAL_ID",
		"by":       by,
		"method":   string(method),
	})
	return nil
}

// VerifyKRAPin marks the KRA PIN as verified and emits
// IdentityVerified. Fails if no PIN is on file.
func (m *FamilyMember) VerifyKRAPin(by string, method identity.VerificationMethod, now time.Time) error {
	if err := m.guardMutable(); err != nil {
		return err
	}
	newIdent, err := m.ident.VerifyKRAPin(by, method, now)
	if err != nil {
		return err
	}
	m.ident = newIdent
	m.version++
	m.append(EventIdentityVerified, now, map[string]any{
		"document": "KRA_PIN",
		"by":       by,
		"method":   string(method),
	})
	return nil
}

// ageAt computes the member's age at the reference time, if the date
// of birth is known.
func (m *FamilyMember) ageAt(ref time.Time) (person.Age, bool) {
	if m.dateOfBirth == nil {
		return person.Age{}, false
	}
	age, err := person.NewAge(*m.dateOfBirth, ref)
	if err != nil {
		return person.Age{}, false
	}
	return age, true
}

// IsMinor reports whether the member is under the age of majority.
// Unknown date of birth means not provably a minor.
func (m *FamilyMember) IsMinor(now time.Time) bool {
	age, ok := m.ageAt(now)
	return ok && age.IsMinor()
}

// IsEligibleForInheritance: not deceased, identity legally verified,
// presumed alive (not missing), and not archived.
func (m *FamilyMember) IsEligibleForInheritance() bool {
	return !m.lifeStatus.IsDeceased() &&
		m.ident.IsLegallyVerified() &&
		m.lifeStatus.IsAlive() &&
		!m.archived
}

// IsPotentialDependant: a minor, a member with a disability, or a
// member in the student-age window.
func (m *FamilyMember) IsPotentialDependant(now time.Time) bool {
	if m.disability != nil && m.disability.HasDisability() {
		return true
	}
	age, ok := m.ageAt(now)
	if !ok {
		return false
	}
	return age.IsMinor() || age.IsStudentAge()
}

// DependencyLevel applies the fixed decision table over disability
// severity and age bracket.
func (m *FamilyMember) DependencyLevel(now time.Time) succession.DependencyLevel {
	severity := person.SeverityNone
	if m.disability != nil {
		severity = m.disability.Severity()
	}
	bracket := person.BracketAdult
	if age, ok := m.ageAt(now); ok {
		bracket = age.Bracket()
	}
	return succession.DependencyLevelFor(severity, bracket)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func projOrNil(d *person.Demographics) any {
	if d == nil {
		return nil
	}
	return d.Projection()
}

func disProjOrNil(d *person.DisabilityStatus) any {
	if d == nil {
		return nil
	}
	return d.Projection()
}

func locProjOrNil(l *geo.Location) any {
	if l == nil {
		return nil
	}
	return l.Projection()
}

func conProjOrNil(c *person.ContactInfo) any {
	if c == nil {
		return nil
	}
	return c.Projection()
}
