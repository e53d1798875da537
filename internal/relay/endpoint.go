package relay

import (
	"net/url"
	"strings"
)

// WSPath is the fixed websocket path on every relay.
const WSPath = "/ws"

// NormalizeHTTPEndpoint trims raw and prefixes "http://" unless it already
// carries an http or https scheme.
func NormalizeHTTPEndpoint(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	return "http://" + s
}

// ToWebSocketEndpoint derives the canonical websocket URL of a relay: http
// becomes ws, https becomes wss, the path is forced to WSPath and query and
// fragment are dropped. Input that cannot be parsed, or that ends up with
// another scheme, is returned unchanged.
func ToWebSocketEndpoint(raw string) string {
	u, err := url.Parse(NormalizeHTTPEndpoint(raw))
	if err != nil {
		return raw
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return raw
	}
	u.Path = WSPath
	u.RawPath = ""
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
