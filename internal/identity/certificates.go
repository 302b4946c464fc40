package identity

import (
	"time"

	"mirathi/pkg/domain"
	dErrors "mirathi/pkg/domain-errors"
)

// LateRegistrationWindow is how long after birth a certificate may be
// registered before the record is flagged as late. Late registration is
// advisory, never a construction failure.
const LateRegistrationWindow = 6 * 30 * 24 * time.Hour

// BirthCertificate records a registered birth.
type BirthCertificate struct {
	entryNumber  string
	dateOfBirth  time.Time
	registeredAt time.Time
	placeOfBirth string
	warnings     []domain.Warning
}

// NewBirthCertificate validates and constructs a birth certificate.
// Registration more than six months after birth produces an advisory
// warning on the instance.
func NewBirthCertificate(entryNumber string, dateOfBirth, registeredAt time.Time, placeOfBirth string) (BirthCertificate, error) {
	if entryNumber == "" {
		return BirthCertificate{}, dErrors.New(dErrors.CodeValidation, "entry number is required").
			WithField("birth_certificate.entry_number")
	}
	if dateOfBirth.IsZero() {
		return BirthCertificate{}, dErrors.New(dErrors.CodeValidation, "date of birth is required").
			WithField("birth_certificate.date_of_birth")
	}
	if registeredAt.IsZero() {
		return BirthCertificate{}, dErrors.New(dErrors.CodeValidation, "registration date is required").
			WithField("birth_certificate.registered_at")
	}
	if registeredAt.Before(dateOfBirth) {
		return BirthCertificate{}, dErrors.New(dErrors.CodeValidation, "registration date cannot precede date of birth").
			WithField("birth_certificate.registered_at").
			WithContext("date_of_birth", dateOfBirth).
			WithContext("registered_at", registeredAt)
	}

	c := BirthCertificate{
		entryNumber:  entryNumber,
		dateOfBirth:  dateOfBirth,
		registeredAt: registeredAt,
		placeOfBirth: placeOfBirth,
	}
	if c.IsLateRegistration() {
		c.warnings = append(c.warnings, domain.NewWarning(
			"birth_certificate.registered_at",
			"birth registered more than six months after date of birth",
		))
	}
	return c, nil
}

func (c BirthCertificate) EntryNumber() string { return c.entryNumber }
func (c BirthCertificate) DateOfBirth() time.Time { return c.dateOfBirth }
func (c BirthCertificate) RegisteredAt() time.Time { return c.registeredAt }
func (c BirthCertificate) PlaceOfBirth() string { return c.placeOfBirth }

// IsLateRegistration is recomputed from the dates on each call.
func (c BirthCertificate) IsLateRegistration() bool {
	return c.registeredAt.Sub(c.dateOfBirth) > LateRegistrationWindow
}

// Warnings returns the advisory observations recorded at construction.
func (c BirthCertificate) Warnings() []domain.Warning {
	out := make([]domain.Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Equals compares certificates structurally.
func (c BirthCertificate) Equals(other BirthCertificate) bool {
	return c.entryNumber == other.entryNumber &&
		c.dateOfBirth.Equal(other.dateOfBirth) &&
		c.registeredAt.Equal(other.registeredAt) &&
		c.placeOfBirth == other.placeOfBirth
}

// BirthCertificateProjection is the plain snapshot of a birth record.
type BirthCertificateProjection struct {
	EntryNumber        string           `json:"entry_number"`
	DateOfBirth        time.Time        `json:"date_of_birth"`
	RegisteredAt       time.Time        `json:"registered_at"`
	PlaceOfBirth       string           `json:"place_of_birth,omitempty"`
	IsLateRegistration bool             `json:"is_late_registration"`
	Warnings           []domain.Warning `json:"warnings,omitempty"`
}

func (c BirthCertificate) Projection() BirthCertificateProjection {
	return BirthCertificateProjection{
		EntryNumber:        c.entryNumber,
		DateOfBirth:        c.dateOfBirth,
		RegisteredAt:       c.registeredAt,
		PlaceOfBirth:       c.placeOfBirth,
		IsLateRegistration: c.IsLateRegistration(),
		Warnings:           c.Warnings(),
	}
}

// DeathCertificate records a registered death.
type DeathCertificate struct {
	certificateNumber string
	dateOfDeath       time.Time
	placeOfDeath      string
	causeOfDeath      string
}

// NewDeathCertificate validates and constructs a death certificate.
// Place and cause are optional; coroner records often lack both.
func NewDeathCertificate(certificateNumber string, dateOfDeath time.Time, placeOfDeath, causeOfDeath string) (DeathCertificate, error) {
	if certificateNumber == "" {
		return DeathCertificate{}, dErrors.New(dErrors.CodeValidation, "certificate number is required").
			WithField("death_certificate.certificate_number")
	}
	if dateOfDeath.IsZero() {
		return DeathCertificate{}, dErrors.New(dErrors.CodeValidation, "date of death is required").
			WithField("death_certificate.date_of_death")
	}
	return DeathCertificate{
		certificateNumber: certificateNumber,
		dateOfDeath:       dateOfDeath,
		placeOfDeath:      placeOfDeath,
		causeOfDeath:      causeOfDeath,
	}, nil
}

func (c DeathCertificate) CertificateNumber() string { return c.certificateNumber }
func (c DeathCertificate) DateOfDeath() time.Time { return c.dateOfDeath }
func (c DeathCertificate) PlaceOfDeath() string { return c.placeOfDeath }
func (c DeathCertificate) CauseOfDeath() string { return c.causeOfDeath }

// Equals compares certificates structurally.
func (c DeathCertificate) Equals(other DeathCertificate) bool {
	return c.certificateNumber == other.certificateNumber &&
		c.dateOfDeath.Equal(other.dateOfDeath) &&
		c.placeOfDeath == other.placeOfDeath &&
		c.causeOfDeath == other.causeOfDeath
}

// DeathCertificateProjection is the plain snapshot of a death record.
type DeathCertificateProjection struct {
	CertificateNumber string    `json:"certificate_number"`
	DateOfDeath       time.Time `json:"date_of_death"`
	PlaceOfDeath      string    `json:"place_of_death,omitempty"`
	CauseOfDeath      string    `json:"cause_of_death,omitempty"`
}

func (c DeathCertificate) Projection() DeathCertificateProjection {
	return DeathCertificateProjection{
		CertificateNumber: c.certificateNumber,
		DateOfDeath:       c.dateOfDeath,
		PlaceOfDeath:      c.placeOfDeath,
		CauseOfDeath:      c.causeOfDeath,
	}
}
