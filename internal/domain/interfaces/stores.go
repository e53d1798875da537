package interfaces

import domaintypes "aethos/internal/domain/types"

// IdentityStore persists one identity per profile.
type IdentityStore interface {
	SaveIdentity(profile domaintypes.Profile, identity domaintypes.Identity) error
	LoadIdentity(profile domaintypes.Profile) (domaintypes.Identity, bool, error)
	DeleteIdentity(profile domaintypes.Profile) error
}

// SessionCacheStore persists the encrypted relay session cache of a profile.
// The cache key is bound to the identity passed in, so a cache written under
// one identity cannot be read back under another.
type SessionCacheStore interface {
	SaveSessionCache(
		profile domaintypes.Profile,
		identity domaintypes.Identity,
		cache domaintypes.SessionCache,
	) error
	LoadSessionCache(
		profile domaintypes.Profile,
		identity domaintypes.Identity,
	) (domaintypes.SessionCache, bool, error)
	DeleteSessionCache(profile domaintypes.Profile) error
}
