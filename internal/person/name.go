package person

import (
	"strings"

	dErrors "mirathi/pkg/domain-errors"
)

const maxNamePartLength = 64

// FullName is a member's legal name. First and last names are
// required; the middle name is optional.
type FullName struct {
	first  string
	middle string
	last   string
}

// NewFullName validates and constructs a name. Parts are trimmed;
// internal casing is preserved as entered on the source document.
func NewFullName(first, middle, last string) (FullName, error) {
	first = strings.TrimSpace(first)
	middle = strings.TrimSpace(middle)
	last = strings.TrimSpace(last)

	if first == "" {
		return FullName{}, dErrors.New(dErrors.CodeValidation, "first name is required").WithField("name.first")
	}
	if last == "" {
		return FullName{}, dErrors.New(dErrors.CodeValidation, "last name is required").WithField("name.last")
	}
	for field, part := range map[string]string{"name.first": first, "name.middle": middle, "name.last": last} {
		if len(part) > maxNamePartLength {
			return FullName{}, dErrors.Newf(dErrors.CodeValidation, "name part exceeds %d characters", maxNamePartLength).
				WithField(field)
		}
		if !validNamePart(part) {
			return FullName{}, dErrors.New(dErrors.CodeValidation, "name contains invalid characters").
				WithField(field).
				WithContext("value", part)
		}
	}
	return FullName{first: first, middle: middle, last: last}, nil
}

// validNamePart accepts letters plus the separators found on Kenyan
// identity documents (space, hyphen, apostrophe).
func validNamePart(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r == ' ', r == '-', r == '\'':
		case r >= 0x00C0 && r <= 0x024F: // latin letters with diacritics
		default:
			return false
		}
	}
	return true
}

func (n FullName) First() string { return n.first }
func (n FullName) Middle() string { return n.middle }
func (n FullName) Last() string { return n.last }

// Full renders the display form: first [middle] last.
func (n FullName) Full() string {
	if n.middle == "" {
		return n.first + " " + n.last
	}
	return n.first + " " + n.middle + " " + n.last
}

// Equals compares names structurally.
func (n FullName) Equals(other FullName) bool {
	return n == other
}

// FullNameProjection is the plain snapshot of a name.
type FullNameProjection struct {
	First  string `json:"first"`
	Middle string `json:"middle,omitempty"`
	Last   string `json:"last"`
	Full   string `json:"full"`
}

func (n FullName) Projection() FullNameProjection {
	return FullNameProjection{First: n.first, Middle: n.middle, Last: n.last, Full: n.Full()}
}
