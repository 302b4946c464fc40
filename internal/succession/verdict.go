package succession

// Verdict is the structured outcome of a statutory evaluation. It is
// data, not an error: rejection and discretion both travel back to the
// caller for gating or routing to review.
type Verdict struct {
	IsValid                 bool   `json:"is_valid"`
	RejectionReason         string `json:"rejection_reason,omitempty"`
	LegalCitation           string `json:"legal_citation,omitempty"`
	RequiresCourtDiscretion bool   `json:"requires_court_discretion"`
	Warning                 string `json:"warning,omitempty"`
}

func pass() Verdict {
	return Verdict{IsValid: true}
}

func passWithReview(warning, citation string) Verdict {
	return Verdict{IsValid: true, RequiresCourtDiscretion: true, Warning: warning, LegalCitation: citation}
}

func reject(reason, citation string) Verdict {
	return Verdict{IsValid: false, RejectionReason: reason, LegalCitation: citation}
}

func rejectWithReview(reason, citation, warning string) Verdict {
	return Verdict{
		IsValid:                 false,
		RejectionReason:         reason,
		LegalCitation:           citation,
		RequiresCourtDiscretion: true,
		Warning:                 warning,
	}
}
