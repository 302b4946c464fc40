package succession

// RecognitionScope says how widely a union was treated as a marriage.
type RecognitionScope string

const (
	RecognitionNone      RecognitionScope = "NONE"
	RecognitionFamily    RecognitionScope = "FAMILY_ONLY"
	RecognitionCommunity RecognitionScope = "COMMUNITY"
	RecognitionPublic    RecognitionScope = "PUBLIC"
)

// CohabitationEvidence is the evidence bundle supporting a presumption
// of marriage.
type CohabitationEvidence struct {
	SupportingDocuments int
	WitnessCount        int
	Recognition         RecognitionScope
	Registered          bool
	YearsCohabiting     int
}

// Evidence weights. Documents and witnesses saturate so a thick file
// alone can never reach the maximum without registration and public
// recognition.
const (
	maxScoredDocuments = 5
	perDocumentScore   = 8 // max 40
	maxScoredWitnesses = 3
	perWitnessScore    = 10 // max 30
	registrationScore  = 15
)

// Score bands.
const (
	ScoreInsufficient = 40 // below: no presumption
	ScoreStrong       = 70 // at or above: presumption stands
)

// ScoreCohabitationEvidence computes the 0-100 evidence score.
func ScoreCohabitationEvidence(ev CohabitationEvidence) int {
	score := 0

	docs := ev.SupportingDocuments
	if docs > maxScoredDocuments {
		docs = maxScoredDocuments
	}
	if docs < 0 {
		docs = 0
	}
	score += docs * perDocumentScore

	witnesses := ev.WitnessCount
	if witnesses > maxScoredWitnesses {
		witnesses = maxScoredWitnesses
	}
	if witnesses < 0 {
		witnesses = 0
	}
	score += witnesses * perWitnessScore

	switch ev.Recognition {
	case RecognitionPublic:
		score += 15
	case RecognitionCommunity:
		score += 10
	case RecognitionFamily:
		score += 5
	}

	if ev.Registered {
		score += registrationScore
	}

	return score
}

// EvaluatePresumptionOfMarriage applies the score bands:
// below 40 the presumption fails; 40-69 it is arguable and needs the
// court; 70+ it stands.
func EvaluatePresumptionOfMarriage(ev CohabitationEvidence) Verdict {
	const citation = "Marriage Act, 2014, s.6; presumption of marriage doctrine"

	score := ScoreCohabitationEvidence(ev)

	if score < ScoreInsufficient {
		return reject("evidence of cohabitation is insufficient to presume marriage", citation)
	}
	if score < ScoreStrong {
		return passWithReview(
			"cohabitation evidence supports an arguable presumption of marriage; judicial confirmation required",
			citation,
		)
	}
	return pass()
}
