package identity

import (
	"time"

	dErrors "mirathi/pkg/domain-errors"
)

// NationalID is the Kenyan national identity card number. Old-format
// cards carry 7 digits, new-generation cards 8.
type NationalID struct {
	number       string
	verification Verification
}

// NewNationalID validates and constructs an unverified national ID.
func NewNationalID(number string) (NationalID, error) {
	if number == "" {
		return NationalID{}, dErrors.New(dErrors.CodeValidation, "national ID number is required").
			WithField("national_id")
	}
	if len(number) < 7 || len(number) > 8 {
		return NationalID{}, dErrors.New(dErrors.CodeValidation, "national ID number must be 7 or 8 digits").
			WithField("national_id").
			WithContext("length", len(number))
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return NationalID{}, dErrors.New(dErrors.CodeValidation, "national ID number must contain only digits").
				WithField("national_id").
				WithContext("number", number)
		}
	}
	return NationalID{number: number, verification: Unverified()}, nil
}

// Verify returns a verified copy of the document. The original is
// untouched.
func (n NationalID) Verify(by string, method VerificationMethod, at time.Time) (NationalID, error) {
	v, err := Verified(by, method, at)
	if err != nil {
		return NationalID{}, err
	}
	n.verification = v
	return n, nil
}

func (n NationalID) Number() string { return n.number }
func (n NationalID) IsVerified() bool { return n.verification.IsVerified() }
func (n NationalID) Verification() Verification { return n.verification }

// Equals compares national IDs structurally, including verification
// state.
func (n NationalID) Equals(other NationalID) bool {
	return n.number == other.number && n.verification.Equals(other.verification)
}

// NationalIDProjection is the plain snapshot of a national ID.
type NationalIDProjection struct {
	Number       string                 `json:"number"`
	Verification VerificationProjection `json:"verification"`
}

func (n NationalID) Projection() NationalIDProjection {
	return NationalIDProjection{
		Number:       n.number,
		Verification: n.verification.Projection(),
	}
}
