package domain

// Warning is an advisory data-quality observation that does not block
// construction or mutation. Records carrying warnings are saved as
// "plausible but flagged" rather than rejected.
//
// Hard invariant violations use pkg/domain-errors instead; the split
// between the two tiers is fixed by each package's QualityPolicy.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewWarning builds an advisory warning for a field.
func NewWarning(field, message string) Warning {
	return Warning{Field: field, Message: message}
}
