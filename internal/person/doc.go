// Package person models the personal and life facts of a family
// member: name, contact details, demographics, disability status, and
// the life-status state machine (alive, deceased, missing).
//
// Same construction discipline as package identity: validating
// constructors, unexported fields, copy-on-write updates, no I/O and
// no time.Now(); reference time is always a parameter.
package person
