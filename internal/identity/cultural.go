package identity

import dErrors "mirathi/pkg/domain-errors"

// Religion is the religious affiliation relevant to which body of
// succession law applies.
type Religion string

const (
	ReligionUnspecified Religion = "UNSPECIFIED"
	ReligionChristian   Religion = "CHRISTIAN"
	ReligionMuslim      Religion = "MUSLIM"
	ReligionHindu       Religion = "HINDU"
	ReligionTraditional Religion = "TRADITIONAL"
	ReligionOther       Religion = "OTHER"
)

func (r Religion) valid() bool {
	switch r {
	case ReligionUnspecified, ReligionChristian, ReligionMuslim,
		ReligionHindu, ReligionTraditional, ReligionOther:
		return true
	}
	return false
}

// exemptFromCustomaryLaw reports whether the religion routes the estate
// to its own legal system (Law of Succession Act, s.2(3)-(4)).
func (r Religion) exemptFromCustomaryLaw() bool {
	return r == ReligionMuslim || r == ReligionHindu
}

// CulturalDetails captures the attributes that select which customary
// rules, if any, govern a member's estate. The zero value means
// nothing recorded.
type CulturalDetails struct {
	religion  Religion
	ethnicity string
	clan      string
}

// NewCulturalDetails validates and constructs cultural attributes.
func NewCulturalDetails(religion Religion, ethnicity, clan string) (CulturalDetails, error) {
	if religion == "" {
		religion = ReligionUnspecified
	}
	if !religion.valid() {
		return CulturalDetails{}, dErrors.New(dErrors.CodeValidation, "unknown religion").
			WithField("cultural_details.religion").
			WithContext("religion", string(religion))
	}
	if clan != "" && ethnicity == "" {
		return CulturalDetails{}, dErrors.New(dErrors.CodeValidation, "clan requires an ethnicity").
			WithField("cultural_details.clan")
	}
	return CulturalDetails{religion: religion, ethnicity: ethnicity, clan: clan}, nil
}

func (c CulturalDetails) Religion() Religion { return c.religion }
func (c CulturalDetails) Ethnicity() string { return c.ethnicity }
func (c CulturalDetails) Clan() string { return c.clan }

// Equals compares cultural details structurally.
func (c CulturalDetails) Equals(other CulturalDetails) bool {
	return c == other
}

// CulturalDetailsProjection is the plain snapshot of cultural
// attributes.
type CulturalDetailsProjection struct {
	Religion  string `json:"religion"`
	Ethnicity string `json:"ethnicity,omitempty"`
	Clan      string `json:"clan,omitempty"`
}

func (c CulturalDetails) Projection() CulturalDetailsProjection {
	religion := c.religion
	if religion == "" {
		religion = ReligionUnspecified
	}
	return CulturalDetailsProjection{
		Religion:  string(religion),
		Ethnicity: c.ethnicity,
		Clan:      c.clan,
	}
}
