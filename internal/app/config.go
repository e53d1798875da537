package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"aethos/internal/relay"
	"aethos/internal/services/connect"
	"aethos/internal/store"
)

// Environment variables read by ApplyEnv.
const (
	EnvAuthToken = "AETHOS_RELAY_AUTH_TOKEN"
	EnvRelays    = "AETHOS_RELAYS"
	EnvProfile   = "AETHOS_PROFILE"
	EnvHostname  = "HOSTNAME"
)

// DefaultRelays are the primary and secondary relays probed when none are configured.
var DefaultRelays = []string{
	"http://192.168.1.200:8082",
	"http://192.168.1.200:9082",
}

// Config holds runtime wiring options for building the app.
type Config struct {
	DataHome   string   `toml:"data_home"` // data root; aethos-linux/ is created below it
	Profile    string   `toml:"profile"`
	Relays     []string `toml:"relays"`
	AuthToken  string   `toml:"auth_token"` // shared bearer token for every relay slot
	DeviceName string   `toml:"device_name"`

	ConnectTimeout time.Duration       `toml:"connect_timeout"`
	AwaitAck       bool                `toml:"await_ack"`
	PollInterval   time.Duration       `toml:"poll_interval"`
	Session        relay.SessionConfig `toml:"session"`

	LogLevel    string `toml:"log_level"`
	MetricsAddr string `toml:"metrics_addr"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Profile:        store.DefaultProfile,
		Relays:         append([]string(nil), DefaultRelays...),
		ConnectTimeout: relay.DefaultConnectTimeout,
		PollInterval:   connect.DefaultPollInterval,
		Session:        relay.DefaultSessionConfig(),
		LogLevel:       "info",
	}
}

// LoadFile overlays the TOML file at path onto cfg. Unknown keys are an error.
func LoadFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overlays environment settings onto cfg and fills the data root and
// device name when still unset.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvAuthToken); v != "" {
		c.AuthToken = v
	}
	if v := getenv(EnvRelays); v != "" {
		var relays []string
		for _, r := range strings.Split(v, ",") {
			if r = strings.TrimSpace(r); r != "" {
				relays = append(relays, r)
			}
		}
		if len(relays) > 0 {
			c.Relays = relays
		}
	}
	if v := strings.TrimSpace(getenv(EnvProfile)); v != "" {
		c.Profile = v
	}
	if c.DeviceName == "" {
		c.DeviceName = strings.TrimSpace(getenv(EnvHostname))
	}
	if c.DataHome == "" {
		c.DataHome = store.ResolveDataRoot(getenv)
	}
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	switch {
	case len(c.Relays) == 0:
		return relay.ErrNoEndpoints
	case c.ConnectTimeout <= 0:
		return errors.New("connect_timeout must be positive")
	case c.PollInterval <= 0:
		return errors.New("poll_interval must be positive")
	case c.Session.BaseBackoff <= 0:
		return errors.New("session.base_backoff must be positive")
	case c.Session.MaxBackoff < c.Session.BaseBackoff:
		return errors.New("session.max_backoff must not be below session.base_backoff")
	case c.Session.MinHealth > c.Session.MaxHealth:
		return errors.New("session.min_health must not exceed session.max_health")
	case c.DataHome == "":
		return errors.New("data_home is empty")
	}
	return nil
}
