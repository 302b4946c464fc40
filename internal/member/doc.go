// Package member holds the FamilyMember aggregate root: the single
// entry point guarding invariants across a member's identity, life
// status and personal facts.
//
// Every mutating operation is atomic and synchronous: guards first,
// operation-specific validation second, then the state change, a
// version increment of exactly one, and exactly the events the
// operation implies. Precondition failures raise before any field is
// touched and the version is unchanged. There is no retry logic here;
// optimistic-concurrency conflicts surface from the store and
// resolution is the application's concern.
//
// Events buffer in memory on the aggregate and are drained exactly
// once by the persistence boundary after a successful save (outbox
// pattern); a failed operation appends nothing.
package member
