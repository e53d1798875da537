package app

import (
	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"aethos/internal/domain"
	"aethos/internal/metrics"
	"aethos/internal/relay"
	"aethos/internal/services/connect"
	identitysvc "aethos/internal/services/identity"
	"aethos/internal/store"
)

// Wire bundles all stores, services and relay machinery for the CLI.
type Wire struct {
	Identity    domain.IdentityService
	Sessions    *relay.SessionManager
	Transport   *relay.WebSocketTransport
	Coordinator *connect.Coordinator
	Registry    *prometheus.Registry
	Metrics     *metrics.Collector
	Logger      *zap.Logger
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config, log *zap.Logger) (*Wire, error) {
	if log == nil {
		log = zap.NewNop()
	}
	clk := clock.New()

	// File-based stores
	identityStore := store.NewIdentityFileStore(cfg.DataHome)
	cacheStore := store.NewSessionCacheFileStore(cfg.DataHome)

	// Metrics on a private registry, served only when asked for
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	sessions, err := relay.NewSessionManager(cfg.Relays, cfg.Session, clk)
	if err != nil {
		return nil, err
	}
	transport := relay.NewWebSocketTransport(cfg.ConnectTimeout, cfg.AwaitAck, log)
	transport.Clock = clk

	coord := connect.New(sessions, transport, connect.Options{
		PollInterval: cfg.PollInterval,
		Clock:        clk,
		Metrics:      collector,
		Logger:       log,
	})
	coord.SetSharedAuthToken(cfg.AuthToken)

	return &Wire{
		Identity:    identitysvc.New(identityStore, cacheStore, cfg.DeviceName, log),
		Sessions:    sessions,
		Transport:   transport,
		Coordinator: coord,
		Registry:    reg,
		Metrics:     collector,
		Logger:      log,
	}, nil
}
