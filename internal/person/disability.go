package person

import dErrors "mirathi/pkg/domain-errors"

// DisabilitySeverity grades a disability for the dependency decision
// table.
type DisabilitySeverity string

const (
	SeverityNone     DisabilitySeverity = "NONE"
	SeverityMild     DisabilitySeverity = "MILD"
	SeverityModerate DisabilitySeverity = "MODERATE"
	SeveritySevere   DisabilitySeverity = "SEVERE"
)

func (s DisabilitySeverity) valid() bool {
	switch s {
	case SeverityNone, SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// DisabilityStatus records a member's disability, if any.
type DisabilityStatus struct {
	severity    DisabilitySeverity
	description string
	registered  bool // NCPWD register
}

// NewDisabilityStatus validates and constructs a disability record. A
// severity above NONE requires a description.
func NewDisabilityStatus(severity DisabilitySeverity, description string, registered bool) (DisabilityStatus, error) {
	if severity == "" {
		severity = SeverityNone
	}
	if !severity.valid() {
		return DisabilityStatus{}, dErrors.New(dErrors.CodeValidation, "unknown disability severity").
			WithField("disability.severity").
			WithContext("severity", string(severity))
	}
	if severity != SeverityNone && description == "" {
		return DisabilityStatus{}, dErrors.New(dErrors.CodeValidation, "disability description is required when a severity is recorded").
			WithField("disability.description")
	}
	if severity == SeverityNone && registered {
		return DisabilityStatus{}, dErrors.New(dErrors.CodeValidation, "NCPWD registration requires a recorded disability").
			WithField("disability.registered")
	}
	return DisabilityStatus{severity: severity, description: description, registered: registered}, nil
}

func (d DisabilityStatus) Severity() DisabilitySeverity { return d.severity }
func (d DisabilityStatus) Description() string          { return d.description }
func (d DisabilityStatus) IsRegistered() bool           { return d.registered }

// HasDisability reports whether any disability is recorded.
func (d DisabilityStatus) HasDisability() bool {
	return d.severity != "" && d.severity != SeverityNone
}

// Equals compares disability records structurally.
func (d DisabilityStatus) Equals(other DisabilityStatus) bool {
	return d == other
}

// DisabilityStatusProjection is the plain snapshot of a disability
// record.
type DisabilityStatusProjection struct {
	Severity      string `json:"severity"`
	Description   string `json:"description,omitempty"`
	Registered    bool   `json:"registered"`
	HasDisability bool   `json:"has_disability"`
}

func (d DisabilityStatus) Projection() DisabilityStatusProjection {
	severity := d.severity
	if severity == "" {
		severity = SeverityNone
	}
	return DisabilityStatusProjection{
		Severity:      string(severity),
		Description:   d.description,
		Registered:    d.registered,
		HasDisability: d.HasDisability(),
	}
}
