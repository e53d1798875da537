// Package crypto exposes the minimal primitives used by aethos.
//
// Contents
//
//   - Ed25519 seed generation and verifying-key derivation (GenerateSeed,
//     VerifyingKey)
//   - Session-cache key derivation bound to an identity (DeriveCacheKey)
//   - ChaCha20-Poly1305 sealing with a fresh random nonce per call (Seal, Open)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//   - Standard base64 helpers (B64, FromB64)
//
// # Notes
//
// DeriveCacheKey is a single SHA-256 over seed || id with no label. Changing
// it makes every cache already on disk unreadable. Callers wipe returned keys
// with memzero.Zero.
package crypto
