package identity

import (
	"regexp"
	"strings"
	"time"

	dErrors "mirathi/pkg/domain-errors"
)

// kraPinPattern matches KRA PINs: a leading A (individual) or P
// (company), nine digits, and a trailing check letter.
var kraPinPattern = regexp.MustCompile(`^[AP]\d{9}[A-Z]$`)

// KRAPin is a Kenya Revenue Authority personal identification number.
// Only individual (A-prefixed) PINs are accepted here; estates of
// companies are outside the registry.
type KRAPin struct {
	pin          string
	verification Verification
}

// NewKRAPin validates and constructs an unverified KRA PIN. Input is
// upper-cased before validation so clerk-entered lowercase passes.
func NewKRAPin(pin string) (KRAPin, error) {
	pin = strings.ToUpper(strings.TrimSpace(pin))
	if pin == "" {
		return KRAPin{}, dErrors.New(dErrors.CodeValidation, "KRA PIN is required").WithField("kra_pin")
	}
	if !kraPinPattern.MatchString(pin) {
		return KRAPin{}, dErrors.New(dErrors.CodeValidation, "KRA PIN must match A#########X format").
			WithField("kra_pin").
			WithContext("pin", pin)
	}
	if pin[0] != 'A' {
		return KRAPin{}, dErrors.New(dErrors.CodeValidation, "only individual (A-prefixed) KRA PINs are accepted").
			WithField("kra_pin").
			WithContext("prefix", string(pin[0]))
	}
	return KRAPin{pin: pin, verification: Unverified()}, nil
}

// Verify returns a verified copy of the PIN.
func (k KRAPin) Verify(by string, method VerificationMethod, at time.Time) (KRAPin, error) {
	v, err := Verified(by, method, at)
	if err != nil {
		return KRAPin{}, err
	}
	k.verification = v
	return k, nil
}

func (k KRAPin) Pin() string { return k.pin }
func (k KRAPin) IsVerified() bool { return k.verification.IsVerified() }
func (k KRAPin) Verification() Verification { return k.verification }

// Equals compares PINs structurally.
func (k KRAPin) Equals(other KRAPin) bool {
	return k.pin == other.pin && k.verification.Equals(other.verification)
}

// KRAPinProjection is the plain snapshot of a KRA PIN.
type KRAPinProjection struct {
	Pin          string                 `json:"pin"`
	Verification VerificationProjection `json:"verification"`
}

func (k KRAPin) Projection() KRAPinProjection {
	return KRAPinProjection{Pin: k.pin, Verification: k.verification.Projection()}
}
