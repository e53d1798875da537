package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"aethos/internal/crypto"
	"aethos/internal/domain"
	"aethos/internal/util/memzero"
)

// SessionCacheFileStore persists the encrypted relay session cache per profile.
type SessionCacheFileStore struct {
	root string
	mu   sync.Mutex
}

// NewSessionCacheFileStore returns a SessionCacheFileStore rooted at root.
func NewSessionCacheFileStore(root string) *SessionCacheFileStore {
	return &SessionCacheFileStore{root: root}
}

// SaveSessionCache encrypts cache under a key derived from id and overwrites
// the cache file of profile.
func (s *SessionCacheFileStore) SaveSessionCache(
	profile domain.Profile,
	id domain.Identity,
	cache domain.SessionCache,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(cache)
	if err != nil {
		return fmt.Errorf("serialize session cache: %w", err)
	}
	defer memzero.Zero(raw)

	key := crypto.DeriveCacheKey(id.SigningSeed, id.WayfairID)
	defer memzero.Zero(key)

	blob, err := sealEnvelope(key, raw)
	if err != nil {
		return err
	}
	path := SessionCachePath(s.root, profile)
	if err := writeFile(path, blob, fileMode); err != nil {
		return fmt.Errorf("write session cache file %s: %w", path, err)
	}
	return nil
}

// LoadSessionCache decrypts the cache of profile with a key derived from id.
// A missing file yields ok=false; any decode or authentication failure is an error.
func (s *SessionCacheFileStore) LoadSessionCache(
	profile domain.Profile,
	id domain.Identity,
) (domain.SessionCache, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := SessionCachePath(s.root, profile)
	b, err := readFile(path)
	if err != nil {
		return domain.SessionCache{}, false, fmt.Errorf("read session cache file %s: %w", path, err)
	}
	if b == nil {
		return domain.SessionCache{}, false, nil
	}

	key := crypto.DeriveCacheKey(id.SigningSeed, id.WayfairID)
	defer memzero.Zero(key)

	pt, err := openEnvelope(key, b)
	if err != nil {
		return domain.SessionCache{}, false, fmt.Errorf("%s: %w", path, err)
	}
	defer memzero.Zero(pt)

	var cache domain.SessionCache
	if err := json.Unmarshal(pt, &cache); err != nil {
		return domain.SessionCache{}, false, fmt.Errorf("%w: parse payload: %v", ErrCorruptCache, err)
	}
	return cache, true, nil
}

// DeleteSessionCache removes the cache file of profile. A missing file is not an error.
func (s *SessionCacheFileStore) DeleteSessionCache(profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := SessionCachePath(s.root, profile)
	if err := removeFile(path); err != nil {
		return fmt.Errorf("delete session cache file %s: %w", path, err)
	}
	return nil
}

// Compile-time assertion that SessionCacheFileStore implements domain.SessionCacheStore.
var _ domain.SessionCacheStore = (*SessionCacheFileStore)(nil)
