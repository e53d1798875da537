package interfaces

import domaintypes "aethos/internal/domain/types"

// IdentityService creates, rotates, deletes and inspects profile identities
// and guards the session cache that depends on them.
type IdentityService interface {
	EnsureIdentity(profile domaintypes.Profile) (domaintypes.IdentitySummary, error)
	RegenerateIdentity(profile domaintypes.Profile) (domaintypes.IdentitySummary, error)
	DeleteIdentity(profile domaintypes.Profile) error

	SaveSessionCache(profile domaintypes.Profile, cache domaintypes.SessionCache) error
	LoadSessionCache(profile domaintypes.Profile) (domaintypes.SessionCache, bool, error)
}
