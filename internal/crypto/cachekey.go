package crypto

import (
	"github.com/minio/sha256-simd"
	"golang.org/x/crypto/chacha20poly1305"

	"aethos/internal/domain"
)

// DeriveCacheKey returns SHA-256(seed || id). The result keys the session
// cache, so rotating either the seed or the id invalidates existing caches.
func DeriveCacheKey(seed domain.Ed25519Seed, id domain.WayfairID) []byte {
	h := sha256.New()
	h.Write(seed[:])
	h.Write([]byte(id))
	return h.Sum(make([]byte, 0, chacha20poly1305.KeySize))
}
