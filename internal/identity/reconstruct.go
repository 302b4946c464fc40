package identity

import "time"

// Reconstruct rebuilds an Identity from a previously persisted
// projection. Validation runs again so a corrupted record cannot
// produce an invalid identity; verification provenance is restored
// as-is.
func Reconstruct(p IdentityProjection) (Identity, error) {
	ident := NewIdentity()

	if p.NationalID != nil {
		n, err := NewNationalID(p.NationalID.Number)
		if err != nil {
			return Identity{}, err
		}
		n, err = restoreVerification(n, p.NationalID.Verification)
		if err != nil {
			return Identity{}, err
		}
		ident = ident.WithNationalID(n)
	}

	if p.KRAPin != nil {
		k, err := NewKRAPin(p.KRAPin.Pin)
		if err != nil {
			return Identity{}, err
		}
		if p.KRAPin.Verification.Verified {
			k, err = k.Verify(p.KRAPin.Verification.By, VerificationMethod(p.KRAPin.Verification.Method), deref(p.KRAPin.Verification.At))
			if err != nil {
				return Identity{}, err
			}
		}
		ident = ident.WithKRAPin(k)
	}

	if p.BirthCertificate != nil {
		b, err := NewBirthCertificate(
			p.BirthCertificate.EntryNumber,
			p.BirthCertificate.DateOfBirth,
			p.BirthCertificate.RegisteredAt,
			p.BirthCertificate.PlaceOfBirth,
		)
		if err != nil {
			return Identity{}, err
		}
		ident, err = ident.WithBirthCertificate(b)
		if err != nil {
			return Identity{}, err
		}
	}

	if p.DeathCertificate != nil {
		d, err := NewDeathCertificate(
			p.DeathCertificate.CertificateNumber,
			p.DeathCertificate.DateOfDeath,
			p.DeathCertificate.PlaceOfDeath,
			p.DeathCertificate.CauseOfDeath,
		)
		if err != nil {
			return Identity{}, err
		}
		ident, err = ident.WithDeathCertificate(d)
		if err != nil {
			return Identity{}, err
		}
	}

	for _, ap := range p.AlternativeIDs {
		a, err := NewAlternativeID(DocumentKind(ap.Kind), ap.Number, ap.IssuedBy)
		if err != nil {
			return Identity{}, err
		}
		if ap.Verification.Verified {
			a, err = a.Verify(ap.Verification.By, VerificationMethod(ap.Verification.Method), deref(ap.Verification.At))
			if err != nil {
				return Identity{}, err
			}
		}
		ident = ident.AddAlternativeID(a)
	}

	cd, err := NewCulturalDetails(Religion(p.CulturalDetails.Religion), p.CulturalDetails.Ethnicity, p.CulturalDetails.Clan)
	if err != nil {
		return Identity{}, err
	}
	ident = ident.WithCulturalDetails(cd)

	return ident, nil
}

func restoreVerification(n NationalID, vp VerificationProjection) (NationalID, error) {
	if !vp.Verified {
		return n, nil
	}
	return n.Verify(vp.By, VerificationMethod(vp.Method), deref(vp.At))
}

func deref(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
