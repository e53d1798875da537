package crypto

import (
	"encoding/hex"

	"github.com/minio/sha256-simd"

	"aethos/internal/domain"
)

// Fingerprint returns a short hex fingerprint of a public key.
//
// It hashes with SHA-256 and truncates to 10 bytes (20 hex chars).
func Fingerprint(pub domain.Ed25519Public) domain.Fingerprint {
	sum := sha256.Sum256(pub[:])
	return domain.Fingerprint(hex.EncodeToString(sum[:10]))
}
