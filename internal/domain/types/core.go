package types

// WayfairID is the globally unique identifier of a local identity. It is
// stable for the lifetime of a profile and is what relays see in a hello.
type WayfairID string

// String returns the string form of the identifier.
func (id WayfairID) String() string { return string(id) }

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// Profile names an isolated identity and session-cache pair. Raw values are
// sanitised by the store before they touch the filesystem.
type Profile string

// String returns the string form of the profile.
func (p Profile) String() string { return string(p) }
