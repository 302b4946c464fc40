package member_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"mirathi/internal/geo"
	"mirathi/internal/identity"
	"mirathi/internal/member"
	"mirathi/internal/person"
	"mirathi/internal/succession"
	"mirathi/pkg/domain"
	dErrors "mirathi/pkg/domain-errors"
	"mirathi/pkg/testutil"
)

type MemberSuite struct {
	suite.Suite

	now time.Time
}

func TestMemberSuite(t *testing.T) {
	suite.Run(t, new(MemberSuite))
}

func (s *MemberSuite) SetupTest() {
	s.now = testutil.Date(2026, 3, 1)
}

func (s *MemberSuite) newAdult() *member.FamilyMember {
	s.T().Helper()

	name, err := person.NewFullName("Wanjiku", "", "Kamau")
	s.Require().NoError(err)

	dob := testutil.Date(1985, 6, 14)
	demo, err := person.NewDemographics(person.GenderFemale, person.MaritalMarried, "nurse", "")
	s.Require().NoError(err)

	m, err := member.New(member.CreateFacts{
		ID:           domain.NewMemberID(),
		FamilyID:     domain.NewFamilyID(),
		Name:         name,
		Identity:     identity.Identity{},
		DateOfBirth:  &dob,
		Demographics: &demo,
	}, s.now)
	s.Require().NoError(err)
	return m
}

func (s *MemberSuite) TestNew() {
	s.Run("starts at version 1 with created and dependency events", func() {
		m := s.newAdult()

		s.Equal(1, m.Version())
		s.False(m.IsArchived())

		events := m.DrainEvents()
		s.Require().Len(events, 2)
		s.Equal(member.EventCreated, events[0].Type)
		s.Equal(member.EventDependencyAssessed, events[1].Type)
		s.Equal(m.ID(), events[0].MemberID)
		s.Equal(1, events[0].Version)
	})

	s.Run("rejects a missing name", func() {
		_, err := member.New(member.CreateFacts{
			ID:       domain.NewMemberID(),
			FamilyID: domain.NewFamilyID(),
		}, s.now)

		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal("name", dErrors.FieldOf(err))
	})

	s.Run("rejects a future date of birth", func() {
		name, err := person.NewFullName("Baraka", "", "Otieno")
		s.Require().NoError(err)
		dob := s.now.AddDate(1, 0, 0)

		_, err = member.New(member.CreateFacts{
			ID:          domain.NewMemberID(),
			FamilyID:    domain.NewFamilyID(),
			Name:        name,
			DateOfBirth: &dob,
		}, s.now)

		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("takes the date of birth from the birth certificate when unstated", func() {
		name, err := person.NewFullName("Akinyi", "", "Odhiambo")
		s.Require().NoError(err)

		cert, err := identity.NewBirthCertificate("BC-991", testutil.Date(2012, 2, 2), testutil.Date(2012, 3, 1), "Kisumu")
		s.Require().NoError(err)
		ident, err := identity.Identity{}.WithBirthCertificate(cert)
		s.Require().NoError(err)

		m, err := member.New(member.CreateFacts{
			ID:       domain.NewMemberID(),
			FamilyID: domain.NewFamilyID(),
			Name:     name,
			Identity: ident,
		}, s.now)
		s.Require().NoError(err)

		dob, ok := m.DateOfBirth()
		s.Require().True(ok)
		s.Equal(testutil.Date(2012, 2, 2), dob)
		s.True(m.IsMinor(s.now))
	})

	s.Run("deceased on creation is archived immediately", func() {
		name, err := person.NewFullName("Mzee", "", "Karanja")
		s.Require().NoError(err)
		dod := testutil.Date(2020, 1, 1)
		ls, err := person.NewLifeStatus(person.StateDeceased, &dod, "Nyeri", "", nil, nil)
		s.Require().NoError(err)

		m, err := member.New(member.CreateFacts{
			ID:         domain.NewMemberID(),
			FamilyID:   domain.NewFamilyID(),
			Name:       name,
			LifeStatus: ls,
		}, s.now)
		s.Require().NoError(err)

		s.True(m.IsArchived())
		s.False(m.IsEligibleForInheritance())

		events := m.DrainEvents()
		s.Require().Len(events, 3)
		s.Equal(member.EventCreated, events[0].Type)
		s.Equal(member.EventDependencyAssessed, events[1].Type)
		s.Equal(member.EventArchived, events[2].Type)
		s.Equal("deceased", events[2].Payload["reason"])
	})

	s.Run("rejects a future date of death on creation", func() {
		name, err := person.NewFullName("Mzee", "", "Karanja")
		s.Require().NoError(err)
		dod := s.now.AddDate(0, 1, 0)
		ls, err := person.NewLifeStatus(person.StateDeceased, &dod, "Nyeri", "", nil, nil)
		s.Require().NoError(err)

		_, err = member.New(member.CreateFacts{
			ID:         domain.NewMemberID(),
			FamilyID:   domain.NewFamilyID(),
			Name:       name,
			LifeStatus: ls,
		}, s.now)

		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal("life_status.date_of_death", dErrors.FieldOf(err))
	})
}

func (s *MemberSuite) TestUpdatePersonalInfo() {
	s.Run("carries only the changed fields as deltas", func() {
		m := s.newAdult()
		m.DrainEvents()

		newName, err := person.NewFullName("Wanjiku", "Njeri", "Kamau")
		s.Require().NoError(err)

		err = m.UpdatePersonalInfo(member.PersonalUpdate{Name: &newName}, s.now)
		s.Require().NoError(err)

		s.Equal(2, m.Version())
		events := m.DrainEvents()
		s.Require().Len(events, 1)
		s.Equal(member.EventUpdated, events[0].Type)
		s.Len(events[0].Deltas, 1)
		s.Contains(events[0].Deltas, "name")
	})

	s.Run("re-emits dependency assessment when the level changes", func() {
		m := s.newAdult()
		m.DrainEvents()

		dis, err := person.NewDisabilityStatus(person.SeveritySevere, "quadriplegia", true)
		s.Require().NoError(err)

		err = m.UpdatePersonalInfo(member.PersonalUpdate{Disability: &dis}, s.now)
		s.Require().NoError(err)

		events := m.DrainEvents()
		s.Require().Len(events, 2)
		s.Equal(member.EventUpdated, events[0].Type)
		s.Equal(member.EventDependencyAssessed, events[1].Type)
		s.Equal(string(succession.DependencyFull), events[1].Payload["dependency_level"])
	})

	s.Run("an empty update is rejected and the version is unchanged", func() {
		m := s.newAdult()
		m.DrainEvents()

		err := m.UpdatePersonalInfo(member.PersonalUpdate{}, s.now)

		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal(1, m.Version())
		s.Empty(m.DrainEvents())
	})

	s.Run("an identical value is rejected as a no-op", func() {
		m := s.newAdult()
		name := m.Name()

		err := m.UpdatePersonalInfo(member.PersonalUpdate{Name: &name}, s.now)

		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal(1, m.Version())
	})
}

func (s *MemberSuite) TestMarkDeceased() {
	s.Run("archives, attaches the certificate and emits three events", func() {
		m := s.newAdult()
		m.DrainEvents()

		cert, err := identity.NewDeathCertificate("DC-100", testutil.Date(2026, 2, 20), "Nakuru", "natural causes")
		s.Require().NoError(err)

		err = m.MarkDeceased(testutil.Date(2026, 2, 20), "Nakuru", "natural causes", &cert, "registrar-17", s.now)
		s.Require().NoError(err)

		s.Equal(2, m.Version())
		s.True(m.IsArchived())
		s.True(m.LifeStatus().IsDeceased())
		_, hasCert := m.Identity().DeathCertificate()
		s.True(hasCert)
		s.Empty(m.Warnings())

		events := m.DrainEvents()
		s.Require().Len(events, 3)
		s.Equal(member.EventDeceased, events[0].Type)
		s.Equal(member.EventAgeRecalculated, events[1].Type)
		s.Equal(member.EventArchived, events[2].Type)
		s.Equal(40, events[1].Payload["age_at_death"])
	})

	s.Run("a missing certificate is an advisory warning under the default policy", func() {
		m := s.newAdult()
		m.DrainEvents()

		err := m.MarkDeceased(testutil.Date(2026, 2, 20), "", "", nil, "registrar-17", s.now)
		s.Require().NoError(err)

		warnings := m.Warnings()
		s.Require().Len(warnings, 1)
		s.Equal("death_certificate", warnings[0].Field)
	})

	s.Run("a strict policy rejects a missing certificate", func() {
		name, err := person.NewFullName("Wanjiku", "", "Kamau")
		s.Require().NoError(err)
		strict := member.QualityPolicy{MissingDeathCertificateAdvisory: false}

		m, err := member.New(member.CreateFacts{
			ID:       domain.NewMemberID(),
			FamilyID: domain.NewFamilyID(),
			Name:     name,
			Quality:  &strict,
		}, s.now)
		s.Require().NoError(err)
		m.DrainEvents()

		err = m.MarkDeceased(testutil.Date(2026, 2, 20), "", "", nil, "registrar-17", s.now)

		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		s.Equal(1, m.Version())
		s.False(m.IsArchived())
	})

	s.Run("rejects a future date of death without touching state", func() {
		m := s.newAdult()
		m.DrainEvents()

		err := m.MarkDeceased(s.now.AddDate(0, 1, 0), "", "", nil, "registrar-17", s.now)

		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal(1, m.Version())
		s.False(m.IsArchived())
		s.Empty(m.DrainEvents())
	})

	s.Run("is not idempotent", func() {
		m := s.newAdult()
		err := m.MarkDeceased(testutil.Date(2026, 2, 20), "", "", nil, "registrar-17", s.now)
		s.Require().NoError(err)
		versionAfterFirst := m.Version()

		err = m.MarkDeceased(testutil.Date(2026, 2, 21), "", "", nil, "registrar-17", s.now)

		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		s.Equal(versionAfterFirst, m.Version())
	})

	s.Run("rejects a death date before the date of birth", func() {
		m := s.newAdult()

		err := m.MarkDeceased(testutil.Date(1980, 1, 1), "", "", nil, "registrar-17", s.now)

		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *MemberSuite) TestMissing() {
	s.Run("mark missing then found round-trips through missing status events", func() {
		m := s.newAdult()
		m.DrainEvents()

		since := testutil.Date(2026, 1, 1)
		err := m.MarkMissing(since, nil, s.now)
		s.Require().NoError(err)
		s.True(m.LifeStatus().IsMissing())

		err = m.MarkFound(s.now)
		s.Require().NoError(err)
		s.True(m.LifeStatus().IsAlive())
		s.Equal(3, m.Version())

		events := m.DrainEvents()
		s.Require().Len(events, 2)
		s.Equal(member.EventMissingStatusChanged, events[0].Type)
		s.Equal(true, events[0].Payload["missing"])
		s.Equal(false, events[1].Payload["missing"])
	})

	s.Run("presumption of death needs seven continuous years", func() {
		m := s.newAdult()
		since := testutil.Date(2018, 1, 1)
		s.Require().NoError(m.MarkMissing(since, nil, testutil.Date(2018, 1, 2)))

		s.False(m.LifeStatus().EligibleForPresumptionOfDeath(testutil.Date(2024, 12, 1)))
		s.True(m.LifeStatus().EligibleForPresumptionOfDeath(testutil.Date(2025, 2, 1)))
	})
}

func (s *MemberSuite) TestArchive() {
	s.Run("archived member rejects every mutation except unarchive", func() {
		m := s.newAdult()
		s.Require().NoError(m.Archive("duplicate record", "clerk-3", s.now))
		m.DrainEvents()

		contact, err := person.NewContactInfo("0712345678", "")
		s.Require().NoError(err)

		s.True(dErrors.HasCode(m.UpdateContactInfo(contact, s.now), dErrors.CodeInvariantViolation))
		s.True(dErrors.HasCode(m.MarkMissing(s.now, nil, s.now), dErrors.CodeInvariantViolation))
		s.True(dErrors.HasCode(m.AssignToHouse(domain.NewHouseID(), 1, succession.DefaultHouseheadPolicy(), s.now), dErrors.CodeInvariantViolation))
		s.Equal(2, m.Version())
		s.Empty(m.DrainEvents())

		s.Require().NoError(m.Unarchive(s.now))
		s.False(m.IsArchived())
		s.Equal(3, m.Version())
	})

	s.Run("archive requires a reason and is not repeatable", func() {
		m := s.newAdult()

		s.True(dErrors.HasCode(m.Archive("", "clerk-3", s.now), dErrors.CodeValidation))

		s.Require().NoError(m.Archive("left jurisdiction", "clerk-3", s.now))
		s.True(dErrors.HasCode(m.Archive("again", "clerk-3", s.now), dErrors.CodeInvariantViolation))
	})

	s.Run("a deceased member cannot be unarchived", func() {
		m := s.newAdult()
		s.Require().NoError(m.MarkDeceased(testutil.Date(2026, 2, 1), "", "", nil, "registrar-17", s.now))

		err := m.Unarchive(s.now)

		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		s.True(m.IsArchived())
	})
}

func (s *MemberSuite) TestAssignToHouse() {
	s.Run("assigns under the default rule and records the statutory basis", func() {
		m := s.newAdult()
		m.DrainEvents()
		houseID := domain.NewHouseID()

		err := m.AssignToHouse(houseID, 2, succession.DefaultHouseheadPolicy(), s.now)
		s.Require().NoError(err)

		gotID, order, ok := m.House()
		s.Require().True(ok)
		s.Equal(houseID, gotID)
		s.Equal(2, order)

		events := m.DrainEvents()
		s.Require().Len(events, 2)
		s.Equal(member.EventHouseAssigned, events[0].Type)
		s.Equal(member.EventStatutoryStatusChanged, events[1].Type)
	})

	s.Run("the default rule rejects a member who is not female", func() {
		name, err := person.NewFullName("Juma", "", "Mwangi")
		s.Require().NoError(err)
		demo, err := person.NewDemographics(person.GenderMale, person.MaritalMarried, "", "")
		s.Require().NoError(err)

		m, err := member.New(member.CreateFacts{
			ID:           domain.NewMemberID(),
			FamilyID:     domain.NewFamilyID(),
			Name:         name,
			Demographics: &demo,
		}, s.now)
		s.Require().NoError(err)
		m.DrainEvents()

		err = m.AssignToHouse(domain.NewHouseID(), 1, succession.DefaultHouseheadPolicy(), s.now)

		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		s.Equal(1, m.Version())
	})

	s.Run("a non-positive house order is rejected", func() {
		m := s.newAdult()

		err := m.AssignToHouse(domain.NewHouseID(), 0, succession.DefaultHouseheadPolicy(), s.now)

		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *MemberSuite) TestVerification() {
	s.Run("verifying the national ID emits an identity event", func() {
		nid, err := identity.NewNationalID("12345678")
		s.Require().NoError(err)
		name, err := person.NewFullName("Wanjiku", "", "Kamau")
		s.Require().NoError(err)

		m, err := member.New(member.CreateFacts{
			ID:       domain.NewMemberID(),
			FamilyID: domain.NewFamilyID(),
			Name:     name,
			Identity: identity.Identity{}.WithNationalID(nid),
		}, s.now)
		s.Require().NoError(err)
		m.DrainEvents()
		s.False(m.IsEligibleForInheritance())

		err = m.VerifyNationalID("iprs-sync", identity.MethodIPRS, s.now)
		s.Require().NoError(err)

		s.True(m.Identity().IsLegallyVerified())
		s.True(m.IsEligibleForInheritance())

		events := m.DrainEvents()
		s.Require().Len(events, 1)
		s.Equal(member.EventIdentityVerified, events[0].Type)
		s.Equal("NATIONAL_ID", events[0].Payload["document"])
	})

	s.Run("verifying an absent document fails", func() {
		m := s.newAdult()
		m.DrainEvents()

		err := m.VerifyKRAPin("officer-2", identity.MethodManual, s.now)

		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		s.Equal(1, m.Version())
	})
}

func (s *MemberSuite) TestDependency() {
	s.Run("a minor with no disability is a full dependant", func() {
		name, err := person.NewFullName("Zawadi", "", "Njoroge")
		s.Require().NoError(err)
		dob := testutil.Date(2015, 5, 5)

		m, err := member.New(member.CreateFacts{
			ID:          domain.NewMemberID(),
			FamilyID:    domain.NewFamilyID(),
			Name:        name,
			DateOfBirth: &dob,
		}, s.now)
		s.Require().NoError(err)

		s.True(m.IsPotentialDependant(s.now))
		s.Equal(succession.DependencyFull, m.DependencyLevel(s.now))
	})

	s.Run("an able-bodied adult outside the student window is no dependant", func() {
		m := s.newAdult()

		s.False(m.IsPotentialDependant(s.now))
		s.Equal(succession.DependencyNone, m.DependencyLevel(s.now))
	})
}

func (s *MemberSuite) TestDrainEvents() {
	m := s.newAdult()

	first := m.DrainEvents()
	s.Len(first, 2)
	s.Empty(m.DrainEvents())
}

func (s *MemberSuite) TestRoundTrip() {
	s.Run("projection reconstructs to an identical projection", func() {
		m := s.newAdult()
		contact, err := person.NewContactInfo("+254712345678", "wanjiku@gmail.com")
		s.Require().NoError(err)
		s.Require().NoError(m.UpdateContactInfo(contact, s.now))

		loc, err := geo.NewLocation("NAKURU", "Njoro", nil)
		s.Require().NoError(err)
		s.Require().NoError(m.UpdatePersonalInfo(member.PersonalUpdate{Residence: &loc}, s.now))

		p := m.Projection(s.now)

		rebuilt, err := member.Reconstruct(p)
		s.Require().NoError(err)

		s.Equal(p, rebuilt.Projection(s.now))
		s.Empty(rebuilt.DrainEvents())
		s.Equal(m.Version(), rebuilt.Version())
	})

	s.Run("a record that violates a current invariant fails loudly", func() {
		m := s.newAdult()
		p := m.Projection(s.now)
		p.Name.First = ""

		_, err := member.Reconstruct(p)

		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
