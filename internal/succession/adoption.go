package succession

// Statutory adoption bounds under the Children Act, 2022.
const (
	AdopterMinimumAge     = 25
	AdopterMaximumAge     = 65
	MinimumAdoptionAgeGap = 21
)

// AdoptionContext is the fact pattern an adoption application is
// evaluated against.
type AdoptionContext struct {
	AdopterAge             int
	ChildAge               int
	AdopterIsRelative      bool
	AdopterLegallyVerified bool
	AdopterIsDeceased      bool
}

// EvaluateAdoption runs the adoption eligibility chain. Check order,
// fail-fast:
//  1. Adopter alive - a deceased adopter is structurally fatal
//  2. Adopter identity legally verified - evidentiary baseline
//  3. Child is a minor - adult adoption is not provided for
//  4. Adopter minimum age - hard statutory floor
//  5. Adopter maximum age - rejected, but flagged for court review
//  6. Age gap - below the minimum a kinship exception may excuse it
func EvaluateAdoption(ctx AdoptionContext) Verdict {
	if ctx.AdopterIsDeceased {
		return reject(
			"adopter is deceased",
			"Children Act, 2022, s.183",
		)
	}

	if !ctx.AdopterLegallyVerified {
		return reject(
			"adopter identity is not legally verified",
			"Children Act, 2022, s.183(1)",
		)
	}

	if ctx.ChildAge >= 18 {
		return reject(
			"person to be adopted is not a minor",
			"Children Act, 2022, s.184",
		)
	}

	if ctx.AdopterAge < AdopterMinimumAge {
		return reject(
			"adopter is below the statutory minimum age of 25",
			"Children Act, 2022, s.185(1)",
		)
	}

	if ctx.AdopterAge > AdopterMaximumAge {
		// Legal in principle only with leave of the court: rejected
		// for automated purposes, routed to judicial review.
		return rejectWithReview(
			"adopter is above the statutory maximum age of 65",
			"Children Act, 2022, s.185(1)",
			"court may grant leave in special circumstances",
		)
	}

	if ctx.AdopterAge-ctx.ChildAge < MinimumAdoptionAgeGap {
		if ctx.AdopterIsRelative {
			return passWithReview(
				"age gap below the statutory minimum; kinship exception subject to court approval",
				"Children Act, 2022, s.185(2)",
			)
		}
		return reject(
			"age gap between adopter and child is below the statutory minimum of 21 years",
			"Children Act, 2022, s.185(2)",
		)
	}

	return pass()
}
