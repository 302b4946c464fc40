// Package identity models the legally significant documents that
// establish who a family member is: the national ID, KRA PIN, birth and
// death certificates, and alternative documents such as passports.
//
// Every type is a self-validating immutable value object: the
// constructor runs validation before any instance escapes, fields are
// unexported, and updates are copy-on-write. The composite Identity
// aggregates the documents and derives the trust flags that the
// succession evaluators depend on.
//
// Domain purity: no I/O, no context.Context, no time.Now(). Time is
// always received as a parameter from the application layer.
package identity
