package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"aethos/internal/protocol/hello"
)

// DefaultConnectTimeout bounds each phase of an attempt.
const DefaultConnectTimeout = 5 * time.Second

// Outcome is the coarse classification of one transport attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeInvalidAddress
	OutcomeResolveFailure
	OutcomeConnectFailure
	OutcomeHandshakeFailure
	OutcomeSendFailure
	OutcomeAckFailure
)

var outcomeText = map[Outcome]string{
	OutcomeSuccess:          "connected + hello sent",
	OutcomeInvalidAddress:   "invalid relay URL",
	OutcomeResolveFailure:   "relay host resolution failed",
	OutcomeConnectFailure:   "tcp connection timeout/failure",
	OutcomeHandshakeFailure: "websocket handshake failed",
	OutcomeSendFailure:      "connected; hello send failed",
	OutcomeAckFailure:       "connected; hello not acknowledged",
}

var outcomeLabel = map[Outcome]string{
	OutcomeSuccess:          "success",
	OutcomeInvalidAddress:   "invalid_address",
	OutcomeResolveFailure:   "resolve_failure",
	OutcomeConnectFailure:   "connect_failure",
	OutcomeHandshakeFailure: "handshake_failure",
	OutcomeSendFailure:      "send_failure",
	OutcomeAckFailure:       "ack_failure",
}

// String returns the human readable form shown in status lines.
func (o Outcome) String() string {
	if s, ok := outcomeText[o]; ok {
		return s
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Label returns a short snake_case name suitable for metric labels.
func (o Outcome) Label() string {
	if s, ok := outcomeLabel[o]; ok {
		return s
	}
	return "unknown"
}

// Result is what one Attempt reports back to the coordinator.
type Result struct {
	Outcome Outcome
	Err     error
	Elapsed time.Duration
}

// OK reports whether the attempt succeeded.
func (r Result) OK() bool { return r.Outcome == OutcomeSuccess }

// ResponseType is the message type the coordinator records against the
// pending hello.
func (r Result) ResponseType() string {
	if r.OK() {
		return hello.MessageTypeHelloAck
	}
	return hello.MessageTypeHelloError
}

// String renders the outcome with its cause, if any.
func (r Result) String() string {
	if r.Err == nil {
		return r.Outcome.String()
	}
	return fmt.Sprintf("%s: %v", r.Outcome, r.Err)
}

// Transport performs one connect-and-hello attempt against a selected
// endpoint. It never retries.
type Transport interface {
	Attempt(ctx context.Context, sel Selection, envelope []byte) Result
}

// HostResolver looks up the addresses of a relay host. *net.Resolver
// satisfies it.
type HostResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// WebSocketTransport dials relays with gorilla/websocket.
type WebSocketTransport struct {
	// Timeout bounds resolution, TCP connect, the upgrade and each read or write.
	Timeout time.Duration
	// AwaitAck makes success require a hello_ack from the relay.
	AwaitAck bool

	Resolver HostResolver
	Clock    clock.Clock
	Logger   *zap.Logger
}

// NewWebSocketTransport returns a transport with the given timeout. A
// non-positive timeout means DefaultConnectTimeout.
func NewWebSocketTransport(timeout time.Duration, awaitAck bool, log *zap.Logger) *WebSocketTransport {
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &WebSocketTransport{
		Timeout:  timeout,
		AwaitAck: awaitAck,
		Resolver: net.DefaultResolver,
		Clock:    clock.New(),
		Logger:   log.Named("transport"),
	}
}

// Attempt resolves, connects, upgrades with an optional bearer token, sends
// envelope as one text message and optionally waits for the ack.
func (t *WebSocketTransport) Attempt(ctx context.Context, sel Selection, envelope []byte) Result {
	clk := t.Clock
	if clk == nil {
		clk = clock.New()
	}
	start := clk.Now()
	res := t.attempt(ctx, sel, envelope)
	res.Elapsed = clk.Since(start)

	log := t.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(
		zap.Int("slot", sel.Slot),
		zap.String("relay_ws", sel.WS),
		zap.String("outcome", res.Outcome.Label()),
		zap.Duration("elapsed", res.Elapsed),
	)
	if res.Err != nil {
		log.Debug("relay attempt failed", zap.Error(res.Err))
	} else {
		log.Debug("relay attempt succeeded")
	}
	return res
}

func (t *WebSocketTransport) attempt(ctx context.Context, sel Selection, envelope []byte) Result {
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	u, err := url.Parse(sel.WS)
	if err != nil {
		return Result{Outcome: OutcomeInvalidAddress, Err: err}
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return Result{Outcome: OutcomeInvalidAddress, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}
	host := u.Hostname()
	if host == "" {
		return Result{Outcome: OutcomeInvalidAddress, Err: errors.New("relay URL missing host")}
	}
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "wss" {
			port = "443"
		}
	}

	header := http.Header{}
	if sel.AuthToken != "" {
		if strings.ContainsAny(sel.AuthToken, "\r\n\x00") {
			return Result{Outcome: OutcomeHandshakeFailure, Err: errors.New("invalid auth token header")}
		}
		header.Set("Authorization", "Bearer "+sel.AuthToken)
	}

	rctx, cancel := context.WithTimeout(ctx, timeout)
	addrs, err := t.resolver().LookupHost(rctx, host)
	cancel()
	if err != nil {
		return Result{Outcome: OutcomeResolveFailure, Err: err}
	}
	if len(addrs) == 0 {
		return Result{Outcome: OutcomeResolveFailure, Err: fmt.Errorf("no addresses for %s", host)}
	}

	// dialErr is the last failed address; it only counts when no address connected.
	var (
		dialErr   error
		connected bool
	)
	nd := &net.Dialer{Timeout: timeout}
	dialer := websocket.Dialer{
		HandshakeTimeout: timeout,
		NetDialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
			for _, a := range addrs {
				c, err := nd.DialContext(ctx, network, net.JoinHostPort(a, port))
				if err == nil {
					connected = true
					return c, nil
				}
				dialErr = err
			}
			return nil, dialErr
		},
	}

	conn, resp, err := dialer.DialContext(ctx, sel.WS, header)
	if err != nil {
		if !connected && dialErr != nil {
			return Result{Outcome: OutcomeConnectFailure, Err: dialErr}
		}
		if resp != nil {
			err = fmt.Errorf("%w (status %s)", err, resp.Status)
		}
		return Result{Outcome: OutcomeHandshakeFailure, Err: err}
	}
	defer func() { _ = conn.Close() }()

	// The dialer clears deadlines after the upgrade.
	deadline := time.Now().Add(timeout)
	_ = conn.SetReadDeadline(deadline)
	_ = conn.SetWriteDeadline(deadline)

	if err := conn.WriteMessage(websocket.TextMessage, envelope); err != nil {
		return Result{Outcome: OutcomeSendFailure, Err: err}
	}

	if t.AwaitAck {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return Result{Outcome: OutcomeAckFailure, Err: err}
		}
		if _, err := hello.ParseAck(msg); err != nil {
			return Result{Outcome: OutcomeAckFailure, Err: err}
		}
	}

	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return Result{Outcome: OutcomeSuccess}
}

func (t *WebSocketTransport) resolver() HostResolver {
	if t.Resolver != nil {
		return t.Resolver
	}
	return net.DefaultResolver
}

// Compile-time assertion that WebSocketTransport implements Transport.
var _ Transport = (*WebSocketTransport)(nil)
