package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"aethos/internal/crypto"
	"aethos/internal/domain"
	"aethos/internal/util/memzero"
)

// ErrCorruptIdentity is returned when an identity file exists but cannot be
// understood. It is never treated as "no identity".
var ErrCorruptIdentity = errors.New("corrupt identity file")

// storedIdentity is the on-disk JSON shape of an identity.
type storedIdentity struct {
	WayfairID     string `json:"wayfair_id"`
	SigningKeyB64 string `json:"signing_key_b64"`
	DeviceName    string `json:"device_name"`
	Platform      string `json:"platform"`
}

// IdentityFileStore persists one identity per profile under a data root.
type IdentityFileStore struct {
	root string
	mu   sync.Mutex
}

// NewIdentityFileStore returns an IdentityFileStore rooted at root.
func NewIdentityFileStore(root string) *IdentityFileStore {
	return &IdentityFileStore{root: root}
}

// SaveIdentity overwrites the identity record of profile.
func (s *IdentityFileStore) SaveIdentity(profile domain.Profile, id domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := IdentityPath(s.root, profile)
	rec := storedIdentity{
		WayfairID:     id.WayfairID.String(),
		SigningKeyB64: crypto.B64(id.SigningSeed[:]),
		DeviceName:    id.DeviceName,
		Platform:      id.Platform,
	}
	if err := writeJSON(path, rec, fileMode); err != nil {
		return fmt.Errorf("write identity file %s: %w", path, err)
	}
	return nil
}

// LoadIdentity returns the identity of profile and whether it was present.
func (s *IdentityFileStore) LoadIdentity(profile domain.Profile) (domain.Identity, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := IdentityPath(s.root, profile)
	b, err := readFile(path)
	if err != nil {
		return domain.Identity{}, false, fmt.Errorf("read identity file %s: %w", path, err)
	}
	if b == nil {
		return domain.Identity{}, false, nil
	}

	var rec storedIdentity
	if err := json.Unmarshal(b, &rec); err != nil {
		return domain.Identity{}, false, fmt.Errorf("%w: parse %s: %v", ErrCorruptIdentity, path, err)
	}
	if rec.WayfairID == "" {
		return domain.Identity{}, false, fmt.Errorf("%w: %s has no wayfair_id", ErrCorruptIdentity, path)
	}
	seed, err := crypto.FromB64(rec.SigningKeyB64)
	if err != nil {
		return domain.Identity{}, false, fmt.Errorf("%w: decode signing key: %v", ErrCorruptIdentity, err)
	}
	defer memzero.Zero(seed)
	if len(seed) != len(domain.Ed25519Seed{}) {
		return domain.Identity{}, false, fmt.Errorf(
			"%w: signing key has %d bytes, want %d", ErrCorruptIdentity, len(seed), len(domain.Ed25519Seed{}),
		)
	}

	id := domain.Identity{
		WayfairID:  domain.WayfairID(rec.WayfairID),
		DeviceName: rec.DeviceName,
		Platform:   rec.Platform,
	}
	copy(id.SigningSeed[:], seed)
	return id, true, nil
}

// DeleteIdentity removes the identity file of profile. A missing file is not an error.
func (s *IdentityFileStore) DeleteIdentity(profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := IdentityPath(s.root, profile)
	if err := removeFile(path); err != nil {
		return fmt.Errorf("delete identity file %s: %w", path, err)
	}
	return nil
}

// Compile-time assertion that IdentityFileStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*IdentityFileStore)(nil)
