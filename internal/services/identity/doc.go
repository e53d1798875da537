// Package identity manages the lifecycle of the per-profile signing identity.
//
// It creates identities lazily, rotates them on request and deletes them
// together with the session cache whose key they determine. Callers only ever
// see an IdentitySummary; the verifying key in it is re-derived from the stored
// seed on every call.
package identity
