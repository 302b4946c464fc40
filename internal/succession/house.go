package succession

import "mirathi/internal/person"

// HouseheadPolicy configures the gender rule for polygamous-house
// assignment. The default encodes the customary position under s.40 of
// the Law of Succession Act, where each house is constituted around a
// wife; the rule is configurable pending domain-expert review rather
// than hard-coded.
type HouseheadPolicy struct {
	// RequiredGender of the member a house is constituted around.
	// GenderUnspecified disables the gender check entirely.
	RequiredGender person.Gender
}

// DefaultHouseheadPolicy returns the customary s.40 rule.
func DefaultHouseheadPolicy() HouseheadPolicy {
	return HouseheadPolicy{RequiredGender: person.GenderFemale}
}

// HouseAssignmentContext is the fact pattern for assigning a member to
// a polygamous house.
type HouseAssignmentContext struct {
	MemberGender     person.Gender
	MemberIsDeceased bool
	HouseOrder       int
}

// EvaluateHouseAssignment runs the house-assignment chain.
//  1. Member alive - the estate of a deceased member distributes,
//     it does not join houses
//  2. House order positive
//  3. Gender rule from the policy
func EvaluateHouseAssignment(ctx HouseAssignmentContext, policy HouseheadPolicy) Verdict {
	const citation = "Law of Succession Act, Cap 160, s.40"

	if ctx.MemberIsDeceased {
		return reject("a deceased member cannot be assigned to a house", citation)
	}

	if ctx.HouseOrder < 1 {
		return reject("house order must be a positive rank", citation)
	}

	if policy.RequiredGender != "" && policy.RequiredGender != person.GenderUnspecified {
		if ctx.MemberGender != policy.RequiredGender {
			return reject("member does not satisfy the house-headship gender rule", citation)
		}
	}

	return pass()
}
