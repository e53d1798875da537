package types

// Ed25519Seed is the 32-byte secret seed an Ed25519 signing key is expanded from.
type Ed25519Seed [32]byte

// Slice returns the seed as a []byte.
func (s Ed25519Seed) Slice() []byte { return s[:] }

// Ed25519Public is an Ed25519 verifying key.
type Ed25519Public [32]byte

// Slice returns the key as a []byte.
func (p Ed25519Public) Slice() []byte { return p[:] }
