package succession

import "mirathi/internal/person"

// DependencyLevel grades how much of a member's upkeep falls on the
// estate.
type DependencyLevel string

const (
	DependencyNone    DependencyLevel = "NONE"
	DependencyPartial DependencyLevel = "PARTIAL"
	DependencyFull    DependencyLevel = "FULL"
)

// DependencyLevelFor is the fixed decision table over disability
// severity and age bracket. Minors are always fully dependent; a
// severe disability is fully dependent at any age.
func DependencyLevelFor(severity person.DisabilitySeverity, bracket person.AgeBracket) DependencyLevel {
	if severity == person.SeveritySevere {
		return DependencyFull
	}
	if bracket == person.BracketMinor {
		return DependencyFull
	}

	switch severity {
	case person.SeverityModerate:
		switch bracket {
		case person.BracketStudent, person.BracketElderly:
			return DependencyFull
		default:
			return DependencyPartial
		}
	case person.SeverityMild:
		switch bracket {
		case person.BracketStudent, person.BracketElderly:
			return DependencyPartial
		default:
			return DependencyNone
		}
	default: // no disability
		switch bracket {
		case person.BracketStudent, person.BracketElderly:
			return DependencyPartial
		default:
			return DependencyNone
		}
	}
}

// DependencyContext is the fact pattern for a dependant claim against
// an estate under s.29 of the Law of Succession Act.
type DependencyContext struct {
	ClaimantIsDeceased bool
	AgeKnown           bool
	Bracket            person.AgeBracket
	DisabilitySeverity person.DisabilitySeverity
}

// EvaluateDependantClaim runs the dependant-status chain.
//  1. Claimant alive - an estate cannot maintain the dead
//  2. Level from the decision table; None is a hard rejection
//  3. Partial dependency is valid but the share is discretionary
func EvaluateDependantClaim(ctx DependencyContext) Verdict {
	const citation = "Law of Succession Act, Cap 160, s.29"

	if ctx.ClaimantIsDeceased {
		return reject("claimant is deceased", citation)
	}

	bracket := ctx.Bracket
	if !ctx.AgeKnown {
		// Unknown age cannot establish minority or the student window;
		// treat as adult and let disability carry the claim.
		bracket = person.BracketAdult
	}

	switch DependencyLevelFor(ctx.DisabilitySeverity, bracket) {
	case DependencyNone:
		return reject("claimant does not qualify as a dependant", citation)
	case DependencyPartial:
		return passWithReview(
			"partial dependency established; maintenance share at the court's discretion",
			citation,
		)
	default:
		return pass()
	}
}
