package person

import (
	"time"

	dErrors "mirathi/pkg/domain-errors"
)

// Gender as recorded on the identity document. The succession rules
// that depend on gender (house headship) take it from here.
type Gender string

const (
	GenderFemale      Gender = "FEMALE"
	GenderMale        Gender = "MALE"
	GenderUnspecified Gender = "UNSPECIFIED"
)

func (g Gender) valid() bool {
	switch g {
	case GenderFemale, GenderMale, GenderUnspecified:
		return true
	}
	return false
}

// MaritalStatus of the member.
type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "SINGLE"
	MaritalMarried  MaritalStatus = "MARRIED"
	MaritalDivorced MaritalStatus = "DIVORCED"
	MaritalWidowed  MaritalStatus = "WIDOWED"
	MaritalUnknown  MaritalStatus = "UNKNOWN"
)

func (m MaritalStatus) valid() bool {
	switch m {
	case MaritalSingle, MaritalMarried, MaritalDivorced, MaritalWidowed, MaritalUnknown:
		return true
	}
	return false
}

// Demographics groups the descriptive attributes used by the
// dependency and house-assignment rules.
type Demographics struct {
	gender        Gender
	maritalStatus MaritalStatus
	occupation    string
	education     string
}

// NewDemographics validates and constructs demographics. Empty gender
// and marital status default to their unknown values.
func NewDemographics(gender Gender, maritalStatus MaritalStatus, occupation, education string) (Demographics, error) {
	if gender == "" {
		gender = GenderUnspecified
	}
	if maritalStatus == "" {
		maritalStatus = MaritalUnknown
	}
	if !gender.valid() {
		return Demographics{}, dErrors.New(dErrors.CodeValidation, "unknown gender").
			WithField("demographics.gender").
			WithContext("gender", string(gender))
	}
	if !maritalStatus.valid() {
		return Demographics{}, dErrors.New(dErrors.CodeValidation, "unknown marital status").
			WithField("demographics.marital_status").
			WithContext("marital_status", string(maritalStatus))
	}
	return Demographics{
		gender:        gender,
		maritalStatus: maritalStatus,
		occupation:    occupation,
		education:     education,
	}, nil
}

func (d Demographics) Gender() Gender               { return d.gender }
func (d Demographics) MaritalStatus() MaritalStatus { return d.maritalStatus }
func (d Demographics) Occupation() string           { return d.occupation }
func (d Demographics) Education() string            { return d.education }

// Equals compares demographics structurally.
func (d Demographics) Equals(other Demographics) bool {
	return d == other
}

// DemographicsProjection is the plain snapshot of demographics.
type DemographicsProjection struct {
	Gender        string `json:"gender"`
	MaritalStatus string `json:"marital_status"`
	Occupation    string `json:"occupation,omitempty"`
	Education     string `json:"education,omitempty"`
}

func (d Demographics) Projection() DemographicsProjection {
	gender := d.gender
	if gender == "" {
		gender = GenderUnspecified
	}
	marital := d.maritalStatus
	if marital == "" {
		marital = MaritalUnknown
	}
	return DemographicsProjection{
		Gender:        string(gender),
		MaritalStatus: string(marital),
		Occupation:    d.occupation,
		Education:     d.education,
	}
}

// Age brackets drive the dependency decision table.
type AgeBracket string

const (
	BracketMinor   AgeBracket = "MINOR"       // under 18
	BracketStudent AgeBracket = "STUDENT_AGE" // 18 through 25
	BracketAdult   AgeBracket = "ADULT"       // 26 through 64
	BracketElderly AgeBracket = "ELDERLY"     // 65 and above
)

const (
	majorityAge   = 18
	studentAgeMax = 25
	elderlyAge    = 65
)

// Age is the whole-year age computed from a date of birth against an
// injected reference time.
type Age struct {
	years int
}

// NewAge computes the age at the reference time. The date of birth may
// not be in the future of the reference.
func NewAge(dateOfBirth, ref time.Time) (Age, error) {
	if dateOfBirth.IsZero() {
		return Age{}, dErrors.New(dErrors.CodeValidation, "date of birth is required").WithField("date_of_birth")
	}
	if dateOfBirth.After(ref) {
		return Age{}, dErrors.New(dErrors.CodeValidation, "date of birth is in the future").
			WithField("date_of_birth").
			WithContext("date_of_birth", dateOfBirth).
			WithContext("reference", ref)
	}
	years := ref.Year() - dateOfBirth.Year()
	anniversary := dateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(ref) {
		years--
	}
	return Age{years: years}, nil
}

func (a Age) Years() int { return a.years }

func (a Age) IsMinor() bool { return a.years < majorityAge }

// IsStudentAge reports whether the age falls in the statutory
// student-dependant window.
func (a Age) IsStudentAge() bool {
	return a.years >= majorityAge && a.years <= studentAgeMax
}

func (a Age) IsElderly() bool { return a.years >= elderlyAge }

// Bracket classifies the age for the dependency table.
func (a Age) Bracket() AgeBracket {
	switch {
	case a.years < majorityAge:
		return BracketMinor
	case a.years <= studentAgeMax:
		return BracketStudent
	case a.years < elderlyAge:
		return BracketAdult
	default:
		return BracketElderly
	}
}
