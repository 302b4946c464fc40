package member

import (
	"time"

	"mirathi/internal/geo"
	"mirathi/internal/identity"
	"mirathi/internal/person"
	"mirathi/pkg/domain"
)

// Projection is the flat, serializable snapshot of a member. Derived
// fields are recomputed at projection time against the caller's clock;
// they are informational on the way out and ignored on the way back in.
type Projection struct {
	ID       string `json:"id"`
	FamilyID string `json:"family_id"`
	Version  int    `json:"version"`

	Name         person.FullNameProjection          `json:"name"`
	Identity     identity.IdentityProjection        `json:"identity"`
	LifeStatus   person.LifeStatusProjection        `json:"life_status"`
	DateOfBirth  *time.Time                         `json:"date_of_birth,omitempty"`
	Contact      *person.ContactInfoProjection      `json:"contact,omitempty"`
	Demographics *person.DemographicsProjection     `json:"demographics,omitempty"`
	Disability   *person.DisabilityStatusProjection `json:"disability,omitempty"`
	Residence    *geo.LocationProjection            `json:"residence,omitempty"`

	HouseID    string `json:"house_id,omitempty"`
	HouseOrder int    `json:"house_order,omitempty"`

	Archived      bool       `json:"archived"`
	ArchiveReason string     `json:"archive_reason,omitempty"`
	ArchivedBy    string     `json:"archived_by,omitempty"`
	ArchivedAt    *time.Time `json:"archived_at,omitempty"`

	Warnings []domain.Warning `json:"warnings,omitempty"`

	AgeYears                      *int   `json:"age_years,omitempty"`
	IsMinor                       bool   `json:"is_minor"`
	IsEligibleForInheritance      bool   `json:"is_eligible_for_inheritance"`
	IsPotentialDependant          bool   `json:"is_potential_dependant"`
	DependencyLevel               string `json:"dependency_level"`
	EligibleForPresumptionOfDeath bool   `json:"eligible_for_presumption_of_death"`
}

// Projection snapshots the aggregate at the given reference time.
func (m *FamilyMember) Projection(now time.Time) Projection {
	p := Projection{
		ID:         m.id.String(),
		FamilyID:   m.familyID.String(),
		Version:    m.version,
		Name:       m.name.Projection(),
		Identity:   m.ident.Projection(),
		LifeStatus: m.lifeStatus.Projection(),
		HouseOrder: m.houseOrder,

		Archived:      m.archived,
		ArchiveReason: m.archiveReason,
		ArchivedBy:    m.archivedBy,
		ArchivedAt:    copyTime(m.archivedAt),

		IsMinor:                       m.IsMinor(now),
		IsEligibleForInheritance:      m.IsEligibleForInheritance(),
		IsPotentialDependant:          m.IsPotentialDependant(now),
		DependencyLevel:               string(m.DependencyLevel(now)),
		EligibleForPresumptionOfDeath: m.lifeStatus.EligibleForPresumptionOfDeath(now),
	}
	p.DateOfBirth = copyTime(m.dateOfBirth)
	if age, ok := m.ageAt(now); ok {
		years := age.Years()
		p.AgeYears = &years
	}
	if m.contact != nil {
		c := m.contact.Projection()
		p.Contact = &c
	}
	if m.demographics != nil {
		d := m.demographics.Projection()
		p.Demographics = &d
	}
	if m.disability != nil {
		d := m.disability.Projection()
		p.Disability = &d
	}
	if m.residence != nil {
		r := m.residence.Projection()
		p.Residence = &r
	}
	if m.houseID != nil {
		p.HouseID = m.houseID.String()
	}
	if len(m.warnings) > 0 {
		p.Warnings = make([]domain.Warning, len(m.warnings))
		copy(p.Warnings, m.warnings)
	}
	return p
}

// Reconstruct rebuilds an aggregate from a persisted projection,
// re-running every constructor so a stored record that violates a
// current invariant fails loudly instead of resurrecting silently.
// Derived fields in the projection are ignored. The rebuilt aggregate
// carries no pending events.
func Reconstruct(p Projection) (*FamilyMember, error) {
	id, err := domain.ParseMemberID(p.ID)
	if err != nil {
		return nil, err
	}
	familyID, err := domain.ParseFamilyID(p.FamilyID)
	if err != nil {
		return nil, err
	}
	name, err := person.NewFullName(p.Name.First, p.Name.Middle, p.Name.Last)
	if err != nil {
		return nil, err
	}
	ident, err := identity.Reconstruct(p.Identity)
	if err != nil {
		return nil, err
	}
	lifeStatus, err := person.ReconstructLifeStatus(p.LifeStatus)
	if err != nil {
		return nil, err
	}

	m := &FamilyMember{
		id:          id,
		familyID:    familyID,
		name:        name,
		ident:       ident,
		lifeStatus:  lifeStatus,
		dateOfBirth: copyTime(p.DateOfBirth),
		houseOrder:  p.HouseOrder,

		archived:      p.Archived,
		archiveReason: p.ArchiveReason,
		archivedBy:    p.ArchivedBy,
		archivedAt:    copyTime(p.ArchivedAt),

		quality: DefaultQualityPolicy(),
		version: p.Version,
	}
	// Records persisted before versioning carried no counter.
	if m.version < 1 {
		m.version = 1
	}

	if p.Contact != nil {
		contact, err := person.NewContactInfo(p.Contact.Phone, p.Contact.Email)
		if err != nil {
			return nil, err
		}
		m.contact = &contact
	}
	if p.Demographics != nil {
		demo, err := person.NewDemographics(
			person.Gender(p.Demographics.Gender),
			person.MaritalStatus(p.Demographics.MaritalStatus),
			p.Demographics.Occupation,
			p.Demographics.Education,
		)
		if err != nil {
			return nil, err
		}
		m.demographics = &demo
	}
	if p.Disability != nil {
		dis, err := person.NewDisabilityStatus(
			person.DisabilitySeverity(p.Disability.Severity),
			p.Disability.Description,
			p.Disability.Registered,
		)
		if err != nil {
			return nil, err
		}
		m.disability = &dis
	}
	if p.Residence != nil {
		res, err := geo.ReconstructLocation(*p.Residence)
		if err != nil {
			return nil, err
		}
		m.residence = &res
	}
	if p.HouseID != "" {
		houseID, err := domain.ParseHouseID(p.HouseID)
		if err != nil {
			return nil, err
		}
		m.houseID = &houseID
	}
	if len(p.Warnings) > 0 {
		m.warnings = make([]domain.Warning, len(p.Warnings))
		copy(m.warnings, p.Warnings)
	}
	return m, nil
}
