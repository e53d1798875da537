package crypto

import (
	"crypto/ed25519"
	"crypto/rand"

	"aethos/internal/domain"
	"aethos/internal/util/memzero"
)

// GenerateSeed returns a fresh random Ed25519 seed.
func GenerateSeed() (seed domain.Ed25519Seed, err error) {
	if _, err = rand.Read(seed[:]); err != nil {
		return domain.Ed25519Seed{}, err
	}
	return seed, nil
}

// VerifyingKey expands seed and returns its public half.
func VerifyingKey(seed domain.Ed25519Seed) domain.Ed25519Public {
	priv := ed25519.NewKeyFromSeed(seed[:])
	defer memzero.Zero(priv)

	var pub domain.Ed25519Public
	copy(pub[:], priv.Public().(ed25519.PublicKey))
	return pub
}
