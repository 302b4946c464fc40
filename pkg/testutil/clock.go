package testutil

import "time"

// FixedClock returns a clock function pinned to t so tests control the
// reference time the domain receives.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Date is shorthand for a UTC midnight timestamp in tests.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
