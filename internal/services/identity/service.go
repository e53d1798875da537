package identity

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"aethos/internal/crypto"
	"aethos/internal/domain"
)

const (
	// PlatformLinux is the platform tag stamped on new identities.
	PlatformLinux = "linux"
	// DefaultDeviceName is used when no hostname is available.
	DefaultDeviceName = "linux-device"
)

// InferDeviceName returns the device label for new identities from $HOSTNAME.
func InferDeviceName(getenv func(string) string) string {
	if h := strings.TrimSpace(getenv("HOSTNAME")); h != "" {
		return h
	}
	return DefaultDeviceName
}

// Service manages identities and their dependent session caches.
type Service struct {
	ids        domain.IdentityStore
	caches     domain.SessionCacheStore
	deviceName string
	log        *zap.Logger
}

// New returns an identity service backed by the given stores. A nil logger
// disables logging.
func New(
	ids domain.IdentityStore,
	caches domain.SessionCacheStore,
	deviceName string,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if strings.TrimSpace(deviceName) == "" {
		deviceName = DefaultDeviceName
	}
	return &Service{
		ids:        ids,
		caches:     caches,
		deviceName: deviceName,
		log:        log.Named("identity"),
	}
}

// EnsureIdentity returns the identity of profile, creating and persisting one
// if none exists. A corrupt identity file is an error, never replaced.
func (s *Service) EnsureIdentity(profile domain.Profile) (domain.IdentitySummary, error) {
	id, err := s.ensure(profile)
	if err != nil {
		return domain.IdentitySummary{}, err
	}
	return Summarize(id), nil
}

// RegenerateIdentity replaces the identity of profile unconditionally. The old
// seed is gone afterwards and any existing session cache no longer decrypts.
func (s *Service) RegenerateIdentity(profile domain.Profile) (domain.IdentitySummary, error) {
	id, err := s.generate(profile)
	if err != nil {
		return domain.IdentitySummary{}, err
	}
	s.log.Info("identity regenerated",
		zap.String("profile", profile.String()),
		zap.String("wayfair_id", id.WayfairID.String()),
	)
	return Summarize(id), nil
}

// DeleteIdentity removes the identity and the session cache of profile. Both
// removals are attempted; a failure of either is reported and nothing is
// rolled back.
func (s *Service) DeleteIdentity(profile domain.Profile) error {
	err := multierr.Combine(
		s.ids.DeleteIdentity(profile),
		s.caches.DeleteSessionCache(profile),
	)
	if err != nil {
		s.log.Warn("profile delete incomplete",
			zap.String("profile", profile.String()),
			zap.Error(err),
		)
		return fmt.Errorf("delete profile %q: %w", profile, err)
	}
	s.log.Info("identity deleted", zap.String("profile", profile.String()))
	return nil
}

// SaveSessionCache encrypts cache under the identity of profile, creating the
// identity first if needed.
func (s *Service) SaveSessionCache(profile domain.Profile, cache domain.SessionCache) error {
	id, err := s.ensure(profile)
	if err != nil {
		return err
	}
	return s.caches.SaveSessionCache(profile, id, cache)
}

// LoadSessionCache decrypts the session cache of profile. Without a stored
// identity there is no key, so the cache counts as absent.
func (s *Service) LoadSessionCache(profile domain.Profile) (domain.SessionCache, bool, error) {
	id, ok, err := s.ids.LoadIdentity(profile)
	if err != nil {
		return domain.SessionCache{}, false, err
	}
	if !ok {
		return domain.SessionCache{}, false, nil
	}
	return s.caches.LoadSessionCache(profile, id)
}

// Summarize builds the public view of id, re-deriving the verifying key.
func Summarize(id domain.Identity) domain.IdentitySummary {
	pub := crypto.VerifyingKey(id.SigningSeed)
	return domain.IdentitySummary{
		WayfairID:       id.WayfairID,
		VerifyingKey:    pub,
		VerifyingKeyB64: crypto.B64(pub.Slice()),
		Fingerprint:     crypto.Fingerprint(pub),
		DeviceName:      id.DeviceName,
		Platform:        id.Platform,
	}
}

func (s *Service) ensure(profile domain.Profile) (domain.Identity, error) {
	id, ok, err := s.ids.LoadIdentity(profile)
	if err != nil {
		return domain.Identity{}, err
	}
	if ok {
		return id, nil
	}
	id, err = s.generate(profile)
	if err != nil {
		return domain.Identity{}, err
	}
	s.log.Info("identity created",
		zap.String("profile", profile.String()),
		zap.String("wayfair_id", id.WayfairID.String()),
	)
	return id, nil
}

func (s *Service) generate(profile domain.Profile) (domain.Identity, error) {
	seed, err := crypto.GenerateSeed()
	if err != nil {
		return domain.Identity{}, fmt.Errorf("generate signing seed: %w", err)
	}
	wid, err := uuid.NewRandom()
	if err != nil {
		return domain.Identity{}, fmt.Errorf("generate wayfair id: %w", err)
	}
	id := domain.Identity{
		WayfairID:   domain.WayfairID(wid.String()),
		SigningSeed: seed,
		DeviceName:  s.deviceName,
		Platform:    PlatformLinux,
	}
	if err := s.ids.SaveIdentity(profile, id); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
