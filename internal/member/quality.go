package member

// QualityPolicy names which data-quality anomalies are advisory
// warnings rather than hard errors, so the boundary is explicit
// configuration instead of scattered case-by-case decisions.
type QualityPolicy struct {
	// MissingDeathCertificateAdvisory flags (instead of rejecting) a
	// MarkDeceased call that attaches no death certificate.
	MissingDeathCertificateAdvisory bool
}

// DefaultQualityPolicy: registry practice is to record first and chase
// paperwork after, so the missing certificate is advisory.
func DefaultQualityPolicy() QualityPolicy {
	return QualityPolicy{MissingDeathCertificateAdvisory: true}
}
