package identity

import (
	"time"

	dErrors "mirathi/pkg/domain-errors"
)

// VerificationMethod says how a document was checked against an
// authoritative source.
type VerificationMethod string

const (
	// MethodIPRS is a lookup against the Integrated Population
	// Registration Services database.
	MethodIPRS VerificationMethod = "IPRS"

	// MethodManual is a clerk-performed physical document check.
	MethodManual VerificationMethod = "MANUAL"

	// MethodBiometric is a fingerprint or facial match.
	MethodBiometric VerificationMethod = "BIOMETRIC"
)

func (m VerificationMethod) valid() bool {
	switch m {
	case MethodIPRS, MethodManual, MethodBiometric:
		return true
	}
	return false
}

// Verification is the per-document verification sub-state. The zero
// value is the unverified state; Verified constructs the verified
// state with full provenance.
type Verification struct {
	verified bool
	by       string
	method   VerificationMethod
	at       time.Time
}

// Unverified returns the initial verification state.
func Unverified() Verification {
	return Verification{}
}

// Verified constructs a verified state carrying who verified, how, and
// when. All three are required.
func Verified(by string, method VerificationMethod, at time.Time) (Verification, error) {
	if by == "" {
		return Verification{}, dErrors.New(dErrors.CodeValidation, "verifier is required").WithField("verified_by")
	}
	if !method.valid() {
		return Verification{}, dErrors.New(dErrors.CodeValidation, "unknown verification method").
			WithField("verification_method").
			WithContext("method", string(method))
	}
	if at.IsZero() {
		return Verification{}, dErrors.New(dErrors.CodeValidation, "verification time is required").WithField("verified_at")
	}
	return Verification{verified: true, by: by, method: method, at: at}, nil
}

func (v Verification) IsVerified() bool { return v.verified }
func (v Verification) By() string { return v.by }
func (v Verification) Method() VerificationMethod { return v.method }
func (v Verification) At() time.Time { return v.at }

// Equals compares verification states structurally.
func (v Verification) Equals(other Verification) bool {
	return v.verified == other.verified &&
		v.by == other.by &&
		v.method == other.method &&
		v.at.Equal(other.at)
}

// VerificationProjection is the plain snapshot of a verification state.
type VerificationProjection struct {
	Verified bool       `json:"verified"`
	By       string     `json:"by,omitempty"`
	Method   string     `json:"method,omitempty"`
	At       *time.Time `json:"at,omitempty"`
}

// Projection returns the expanded snapshot, recomputed per call.
func (v Verification) Projection() VerificationProjection {
	p := VerificationProjection{Verified: v.verified}
	if v.verified {
		p.By = v.by
		p.Method = string(v.method)
		at := v.at
		p.At = &at
	}
	return p
}
