package types

// Identity is the durable signing identity of one profile. Only the secret
// seed is kept; the verifying key is always re-derived from it.
type Identity struct {
	WayfairID   WayfairID   `json:"wayfair_id"`
	SigningSeed Ed25519Seed `json:"-"`
	DeviceName  string      `json:"device_name"`
	Platform    string      `json:"platform"`
}

// IdentitySummary is the public view of an Identity handed to callers.
type IdentitySummary struct {
	WayfairID       WayfairID     `json:"wayfair_id"`
	VerifyingKey    Ed25519Public `json:"-"`
	VerifyingKeyB64 string        `json:"verifying_key_b64"`
	Fingerprint     Fingerprint   `json:"fingerprint"`
	DeviceName      string        `json:"device_name"`
	Platform        string        `json:"platform"`
}
