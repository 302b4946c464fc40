package person

import (
	"time"

	"mirathi/internal/geo"
	dErrors "mirathi/pkg/domain-errors"
)

// LifeState is the member's lifecycle state.
type LifeState string

const (
	StateAlive    LifeState = "ALIVE"
	StateDeceased LifeState = "DECEASED"
	StateMissing  LifeState = "MISSING"
)

// PresumptionOfDeathPeriod is the statutory period of continuous
// absence after which a court may presume death (Law of Succession
// Act; Evidence Act s.118A). Seven years.
const PresumptionOfDeathPeriod = 7 * 365 * 24 * time.Hour

// LifeStatus is the three-state life record. Deceased and Missing are
// mutually exclusive; state-specific fields are invalid outside their
// owning state.
//
// Transitions:
//
//	Alive    -> Deceased (date of death not in the future)
//	Alive    -> Missing  (missing-since not in the future)
//	Missing  -> Alive    (found; missing fields cleared)
//	Missing  -> Deceased (missing person confirmed dead)
//	Deceased is terminal.
type LifeStatus struct {
	state LifeState

	dateOfDeath  *time.Time
	placeOfDeath string
	causeOfDeath string

	missingSince     *time.Time
	lastSeenLocation *geo.Location
}

// Alive is the initial life status.
func Alive() LifeStatus {
	return LifeStatus{state: StateAlive}
}

// NewLifeStatus rebuilds a life status from persisted parts, enforcing
// state-field ownership. Used by the reconstruction path.
func NewLifeStatus(state LifeState, dateOfDeath *time.Time, placeOfDeath, causeOfDeath string, missingSince *time.Time, lastSeen *geo.Location) (LifeStatus, error) {
	if dateOfDeath != nil && missingSince != nil {
		return LifeStatus{}, dErrors.New(dErrors.CodeValidation, "date of death and missing-since are mutually exclusive").
			WithField("life_status")
	}
	switch state {
	case StateAlive:
		if dateOfDeath != nil || missingSince != nil || placeOfDeath != "" || causeOfDeath != "" || lastSeen != nil {
			return LifeStatus{}, dErrors.New(dErrors.CodeValidation, "alive status cannot carry death or missing fields").
				WithField("life_status")
		}
		return Alive(), nil
	case StateDeceased:
		if dateOfDeath == nil {
			return LifeStatus{}, dErrors.New(dErrors.CodeValidation, "deceased status requires a date of death").
				WithField("life_status.date_of_death")
		}
		if missingSince != nil || lastSeen != nil {
			return LifeStatus{}, dErrors.New(dErrors.CodeValidation, "deceased status cannot carry missing fields").
				WithField("life_status")
		}
		dod := *dateOfDeath
		return LifeStatus{state: StateDeceased, dateOfDeath: &dod, placeOfDeath: placeOfDeath, causeOfDeath: causeOfDeath}, nil
	case StateMissing:
		if missingSince == nil {
			return LifeStatus{}, dErrors.New(dErrors.CodeValidation, "missing status requires a missing-since date").
				WithField("life_status.missing_since")
		}
		if dateOfDeath != nil || placeOfDeath != "" || causeOfDeath != "" {
			return LifeStatus{}, dErrors.New(dErrors.CodeValidation, "missing status cannot carry death fields").
				WithField("life_status")
		}
		since := *missingSince
		ls := LifeStatus{state: StateMissing, missingSince: &since}
		if lastSeen != nil {
			loc := *lastSeen
			ls.lastSeenLocation = &loc
		}
		return ls, nil
	default:
		return LifeStatus{}, dErrors.New(dErrors.CodeValidation, "unknown life state").
			WithField("life_status.state").
			WithContext("state", string(state))
	}
}

// MarkDeceased transitions to Deceased from Alive or Missing.
func (s LifeStatus) MarkDeceased(dateOfDeath time.Time, placeOfDeath, causeOfDeath string, now time.Time) (LifeStatus, error) {
	if s.state == StateDeceased {
		return LifeStatus{}, dErrors.New(dErrors.CodeInvariantViolation, "member is already deceased").
			WithField("life_status")
	}
	if dateOfDeath.IsZero() {
		return LifeStatus{}, dErrors.New(dErrors.CodeValidation, "date of death is required").
			WithField("life_status.date_of_death")
	}
	if dateOfDeath.After(now) {
		return LifeStatus{}, dErrors.New(dErrors.CodeValidation, "date of death cannot be in the future").
			WithField("life_status.date_of_death").
			WithContext("date_of_death", dateOfDeath).
			WithContext("now", now)
	}
	return LifeStatus{
		state:        StateDeceased,
		dateOfDeath:  &dateOfDeath,
		placeOfDeath: placeOfDeath,
		causeOfDeath: causeOfDeath,
	}, nil
}

// MarkMissing transitions Alive -> Missing.
func (s LifeStatus) MarkMissing(missingSince time.Time, lastSeen *geo.Location, now time.Time) (LifeStatus, error) {
	switch s.state {
	case StateDeceased:
		return LifeStatus{}, dErrors.New(dErrors.CodeInvariantViolation, "a deceased member cannot be marked missing").
			WithField("life_status")
	case StateMissing:
		return LifeStatus{}, dErrors.New(dErrors.CodeInvariantViolation, "member is already missing").
			WithField("life_status")
	}
	if missingSince.IsZero() {
		return LifeStatus{}, dErrors.New(dErrors.CodeValidation, "missing-since date is required").
			WithField("life_status.missing_since")
	}
	if missingSince.After(now) {
		return LifeStatus{}, dErrors.New(dErrors.CodeValidation, "missing-since date cannot be in the future").
			WithField("life_status.missing_since").
			WithContext("missing_since", missingSince).
			WithContext("now", now)
	}
	ls := LifeStatus{state: StateMissing, missingSince: &missingSince}
	if lastSeen != nil {
		loc := *lastSeen
		ls.lastSeenLocation = &loc
	}
	return ls, nil
}

// MarkFound transitions Missing -> Alive, clearing the missing fields.
func (s LifeStatus) MarkFound() (LifeStatus, error) {
	if s.state != StateMissing {
		return LifeStatus{}, dErrors.New(dErrors.CodeInvariantViolation, "only a missing member can be found").
			WithField("life_status").
			WithContext("state", string(s.state))
	}
	return Alive(), nil
}

func (s LifeStatus) State() LifeState { return s.state }
func (s LifeStatus) IsAlive() bool    { return s.state == StateAlive }
func (s LifeStatus) IsDeceased() bool { return s.state == StateDeceased }
func (s LifeStatus) IsMissing() bool  { return s.state == StateMissing }

func (s LifeStatus) DateOfDeath() (time.Time, bool) {
	if s.dateOfDeath == nil {
		return time.Time{}, false
	}
	return *s.dateOfDeath, true
}

func (s LifeStatus) PlaceOfDeath() string { return s.placeOfDeath }
func (s LifeStatus) CauseOfDeath() string { return s.causeOfDeath }

func (s LifeStatus) MissingSince() (time.Time, bool) {
	if s.missingSince == nil {
		return time.Time{}, false
	}
	return *s.missingSince, true
}

func (s LifeStatus) LastSeenLocation() (geo.Location, bool) {
	if s.lastSeenLocation == nil {
		return geo.Location{}, false
	}
	return *s.lastSeenLocation, true
}

// EligibleForPresumptionOfDeath reports whether the member has been
// continuously missing for the statutory period. This is a derived
// predicate only: transitioning to Deceased on its basis requires an
// external authoritative action, never an automatic state change.
func (s LifeStatus) EligibleForPresumptionOfDeath(now time.Time) bool {
	if s.state != StateMissing || s.missingSince == nil {
		return false
	}
	return now.Sub(*s.missingSince) >= PresumptionOfDeathPeriod
}

// Equals compares life statuses structurally.
func (s LifeStatus) Equals(other LifeStatus) bool {
	if s.state != other.state || s.placeOfDeath != other.placeOfDeath || s.causeOfDeath != other.causeOfDeath {
		return false
	}
	if !timePtrEqual(s.dateOfDeath, other.dateOfDeath) || !timePtrEqual(s.missingSince, other.missingSince) {
		return false
	}
	if (s.lastSeenLocation == nil) != (other.lastSeenLocation == nil) {
		return false
	}
	if s.lastSeenLocation == nil {
		return true
	}
	return s.lastSeenLocation.Equals(*other.lastSeenLocation)
}

func timePtrEqual(a, b *time.Time) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return a.Equal(*b)
}

// LifeStatusProjection is the plain snapshot of a life status.
type LifeStatusProjection struct {
	State            string                 `json:"state"`
	DateOfDeath      *time.Time             `json:"date_of_death,omitempty"`
	PlaceOfDeath     string                 `json:"place_of_death,omitempty"`
	CauseOfDeath     string                 `json:"cause_of_death,omitempty"`
	MissingSince     *time.Time             `json:"missing_since,omitempty"`
	LastSeenLocation *geo.LocationProjection `json:"last_seen_location,omitempty"`
}

func (s LifeStatus) Projection() LifeStatusProjection {
	state := s.state
	if state == "" {
		state = StateAlive
	}
	p := LifeStatusProjection{
		State:        string(state),
		PlaceOfDeath: s.placeOfDeath,
		CauseOfDeath: s.causeOfDeath,
	}
	if s.dateOfDeath != nil {
		dod := *s.dateOfDeath
		p.DateOfDeath = &dod
	}
	if s.missingSince != nil {
		since := *s.missingSince
		p.MissingSince = &since
	}
	if s.lastSeenLocation != nil {
		lp := s.lastSeenLocation.Projection()
		p.LastSeenLocation = &lp
	}
	return p
}

// ReconstructLifeStatus rebuilds a life status from a persisted
// projection.
func ReconstructLifeStatus(p LifeStatusProjection) (LifeStatus, error) {
	state := LifeState(p.State)
	if p.State == "" {
		state = StateAlive
	}
	var lastSeen *geo.Location
	if p.LastSeenLocation != nil {
		loc, err := geo.ReconstructLocation(*p.LastSeenLocation)
		if err != nil {
			return LifeStatus{}, err
		}
		lastSeen = &loc
	}
	return NewLifeStatus(state, p.DateOfDeath, p.PlaceOfDeath, p.CauseOfDeath, p.MissingSince, lastSeen)
}
