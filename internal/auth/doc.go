// Package auth implements the credential store: a persisted mapping of
// usernames to one-way password digests with register and authenticate
// operations.
//
// The store is deliberately simple to match the system it fronts: no
// sessions, no tokens, no lockout. Failures are reported through
// distinguishable sentinel errors so the presentation boundary can render
// a human-readable reason for each.
//
// Thread Safety: all Store methods are safe for concurrent use.
package auth
