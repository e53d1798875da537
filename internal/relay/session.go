package relay

import (
	"errors"
	"time"

	"github.com/benbjohnson/clock"
)

// ErrNoEndpoints is returned when a SessionManager is built from an empty list.
var ErrNoEndpoints = errors.New("no relay endpoints configured")

// SessionConfig bounds the health score and the failure backoff.
type SessionConfig struct {
	BaseBackoff time.Duration `toml:"base_backoff"`
	MaxBackoff  time.Duration `toml:"max_backoff"`
	MinHealth   int           `toml:"min_health"`
	MaxHealth   int           `toml:"max_health"`
}

// DefaultSessionConfig returns 1s base backoff, 60s cap and health in [-10, 10].
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		BaseBackoff: time.Second,
		MaxBackoff:  time.Minute,
		MinHealth:   -10,
		MaxHealth:   10,
	}
}

// Backoff returns BaseBackoff * 2^(failures-1), capped at MaxBackoff. It is
// zero for zero failures.
func (c SessionConfig) Backoff(failures int) time.Duration {
	if failures <= 0 {
		return 0
	}
	d := c.BaseBackoff
	for i := 1; i < failures; i++ {
		if d > c.MaxBackoff/2 {
			return c.MaxBackoff
		}
		d *= 2
	}
	if d > c.MaxBackoff {
		return c.MaxBackoff
	}
	return d
}

// Endpoint is the managed state of one relay slot.
type Endpoint struct {
	HTTP        string
	WS          string
	AuthToken   string
	Health      int
	Failures    int
	NextAttempt time.Time
}

// Eligible reports whether the endpoint may be selected at now.
func (e Endpoint) Eligible(now time.Time) bool {
	return !e.NextAttempt.After(now)
}

// Selection is what Select hands to a transport attempt.
type Selection struct {
	Slot      int
	HTTP      string
	WS        string
	AuthToken string
}

// SessionManager keeps the fixed pool of relay endpoints with their health
// and backoff, and rotates selection across them.
type SessionManager struct {
	cfg       SessionConfig
	clk       clock.Clock
	endpoints []Endpoint
	cursor    int
}

// NewSessionManager builds a manager over addrs. Every endpoint starts
// eligible with zero health and zero failures. A nil clk uses the wall clock.
func NewSessionManager(addrs []string, cfg SessionConfig, clk clock.Clock) (*SessionManager, error) {
	if len(addrs) == 0 {
		return nil, ErrNoEndpoints
	}
	if clk == nil {
		clk = clock.New()
	}
	now := clk.Now()
	eps := make([]Endpoint, 0, len(addrs))
	for _, a := range addrs {
		httpForm := NormalizeHTTPEndpoint(a)
		eps = append(eps, Endpoint{
			HTTP:        httpForm,
			WS:          ToWebSocketEndpoint(httpForm),
			NextAttempt: now,
		})
	}
	return &SessionManager{cfg: cfg, clk: clk, endpoints: eps}, nil
}

// Len returns the number of slots.
func (m *SessionManager) Len() int { return len(m.endpoints) }

// Endpoints returns a copy of the current endpoint states.
func (m *SessionManager) Endpoints() []Endpoint {
	out := make([]Endpoint, len(m.endpoints))
	copy(out, m.endpoints)
	return out
}

// SetAuthToken sets the bearer token of slot. An empty token means
// unauthenticated. Out-of-range slots are ignored.
func (m *SessionManager) SetAuthToken(slot int, token string) {
	if ep := m.at(slot); ep != nil {
		ep.AuthToken = token
	}
}

// Select returns the first eligible endpoint at or after the cursor and moves
// the cursor past it. It returns false when every endpoint is backed off.
func (m *SessionManager) Select(now time.Time) (Selection, bool) {
	n := len(m.endpoints)
	for off := 0; off < n; off++ {
		idx := (m.cursor + off) % n
		ep := m.endpoints[idx]
		if !ep.Eligible(now) {
			continue
		}
		m.cursor = (idx + 1) % n
		return Selection{Slot: idx, HTTP: ep.HTTP, WS: ep.WS, AuthToken: ep.AuthToken}, true
	}
	return Selection{}, false
}

// MarkSuccess clears the failure streak of slot, raises its health and makes
// it eligible immediately.
func (m *SessionManager) MarkSuccess(slot int) {
	ep := m.at(slot)
	if ep == nil {
		return
	}
	ep.Failures = 0
	ep.Health = min(ep.Health+1, m.cfg.MaxHealth)
	ep.NextAttempt = m.clk.Now()
}

// MarkFailure extends the failure streak of slot, lowers its health and backs
// it off. It returns the backoff applied.
func (m *SessionManager) MarkFailure(slot int) time.Duration {
	ep := m.at(slot)
	if ep == nil {
		return 0
	}
	ep.Failures++
	ep.Health = max(ep.Health-1, m.cfg.MinHealth)
	d := m.cfg.Backoff(ep.Failures)
	ep.NextAttempt = m.clk.Now().Add(d)
	return d
}

func (m *SessionManager) at(slot int) *Endpoint {
	if slot < 0 || slot >= len(m.endpoints) {
		return nil
	}
	return &m.endpoints[slot]
}
