package person

import (
	"strings"

	"mirathi/pkg/domain"
	dErrors "mirathi/pkg/domain-errors"
)

// PreferredEmailDomains lists the domains the registry treats as
// stable for official correspondence. Anything else is advisory, not
// an error.
var PreferredEmailDomains = []string{"gmail.com", "yahoo.com", "outlook.com"}

// ContactInfo holds a member's reachable addresses. Phone and email
// are each optional, but at least one must be present.
type ContactInfo struct {
	phone    string
	email    string
	warnings []domain.Warning
}

// NewContactInfo validates and constructs contact details. A
// non-preferred email domain is recorded as an advisory warning.
func NewContactInfo(phone, email string) (ContactInfo, error) {
	phone = strings.TrimSpace(phone)
	email = strings.TrimSpace(strings.ToLower(email))

	if phone == "" && email == "" {
		return ContactInfo{}, dErrors.New(dErrors.CodeValidation, "at least one of phone or email is required").
			WithField("contact")
	}
	if phone != "" && !validKenyanPhone(phone) {
		return ContactInfo{}, dErrors.New(dErrors.CodeValidation, "phone must be a Kenyan number (+254..., 07..., 01...)").
			WithField("contact.phone").
			WithContext("phone", phone)
	}
	if email != "" && !validEmail(email) {
		return ContactInfo{}, dErrors.New(dErrors.CodeValidation, "email address is malformed").
			WithField("contact.email").
			WithContext("email", email)
	}

	c := ContactInfo{phone: phone, email: email}
	if email != "" && !preferredEmailDomain(email) {
		c.warnings = append(c.warnings, domain.NewWarning(
			"contact.email",
			"email domain is not on the preferred list",
		))
	}
	return c, nil
}

// validKenyanPhone accepts +2547XXXXXXXX / +2541XXXXXXXX international
// form and the 07XXXXXXXX / 01XXXXXXXX national form.
func validKenyanPhone(phone string) bool {
	digitsOnly := func(s string) bool {
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
	if strings.HasPrefix(phone, "+254") {
		rest := phone[4:]
		return len(rest) == 9 && (rest[0] == '7' || rest[0] == '1') && digitsOnly(rest)
	}
	if strings.HasPrefix(phone, "07") || strings.HasPrefix(phone, "01") {
		return len(phone) == 10 && digitsOnly(phone)
	}
	return false
}

// validEmail is a plausibility check, not RFC 5322 enforcement; the
// registry stores what the clerk was given.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domainPart := email[at+1:]
	if strings.Contains(email[:at], " ") || strings.Contains(domainPart, " ") {
		return false
	}
	dot := strings.LastIndex(domainPart, ".")
	return dot > 0 && dot < len(domainPart)-1
}

func preferredEmailDomain(email string) bool {
	at := strings.Index(email, "@")
	d := email[at+1:]
	for _, preferred := range PreferredEmailDomains {
		if d == preferred {
			return true
		}
	}
	return false
}

func (c ContactInfo) Phone() string { return c.phone }
func (c ContactInfo) Email() string { return c.email }

// Warnings returns the advisory observations recorded at construction.
func (c ContactInfo) Warnings() []domain.Warning {
	out := make([]domain.Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Equals compares contact details structurally.
func (c ContactInfo) Equals(other ContactInfo) bool {
	return c.phone == other.phone && c.email == other.email
}

// ContactInfoProjection is the plain snapshot of contact details.
type ContactInfoProjection struct {
	Phone    string           `json:"phone,omitempty"`
	Email    string           `json:"email,omitempty"`
	Warnings []domain.Warning `json:"warnings,omitempty"`
}

func (c ContactInfo) Projection() ContactInfoProjection {
	return ContactInfoProjection{Phone: c.phone, Email: c.email, Warnings: c.Warnings()}
}
