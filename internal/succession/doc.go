// Package succession encodes statutory decision rules over family
// registry facts: adoption eligibility, presumption of marriage from
// cohabitation evidence, dependant status, and polygamous-house
// assignment.
//
// Every evaluator is a pure function from a context struct to a
// Verdict. Checks run in a fixed order from structurally fatal to
// discretionary; the first failing check determines the rejection
// reason and citation. A verdict can fail a strict rule yet flag
// court discretion instead of hard-stopping; the discretion axis is
// orthogonal to validity so the same evaluator drives automated gating
// and a human-review queue.
package succession
