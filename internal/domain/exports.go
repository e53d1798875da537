package domain

import (
	interfaces "aethos/internal/domain/interfaces"
	types "aethos/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	WayfairID       = types.WayfairID
	Fingerprint     = types.Fingerprint
	Profile         = types.Profile
	Ed25519Seed     = types.Ed25519Seed
	Ed25519Public   = types.Ed25519Public
	Identity        = types.Identity
	IdentitySummary = types.IdentitySummary
	SessionCache    = types.SessionCache
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	IdentityStore     = interfaces.IdentityStore
	SessionCacheStore = interfaces.SessionCacheStore
	IdentityService   = interfaces.IdentityService
)
