package connect

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"aethos/internal/domain"
	"aethos/internal/metrics"
	"aethos/internal/protocol/hello"
	"aethos/internal/relay"
)

// DefaultPollInterval is how long the coordinator waits when no endpoint is
// eligible and nothing is in flight.
const DefaultPollInterval = 50 * time.Millisecond

// Options tune a Coordinator. Zero values pick defaults.
type Options struct {
	PollInterval time.Duration
	Clock        clock.Clock
	Metrics      metrics.Recorder
	Logger       *zap.Logger
}

// Coordinator probes every configured relay once per Probe call.
type Coordinator struct {
	sessions  *relay.SessionManager
	transport relay.Transport
	disp      relay.Dispatcher

	poll time.Duration
	clk  clock.Clock
	rec  metrics.Recorder
	log  *zap.Logger
}

// New returns a Coordinator over sessions and transport.
func New(sessions *relay.SessionManager, transport relay.Transport, opts Options) *Coordinator {
	c := &Coordinator{
		sessions:  sessions,
		transport: transport,
		poll:      opts.PollInterval,
		clk:       opts.Clock,
		rec:       opts.Metrics,
		log:       opts.Logger,
	}
	if c.poll <= 0 {
		c.poll = DefaultPollInterval
	}
	if c.clk == nil {
		c.clk = clock.New()
	}
	if c.rec == nil {
		c.rec = metrics.Nop{}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.log = c.log.Named("connect")
	return c
}

// SetSharedAuthToken applies token to every slot.
func (c *Coordinator) SetSharedAuthToken(token string) {
	for slot := range c.sessions.Len() {
		c.sessions.SetAuthToken(slot, token)
	}
}

// Pending returns the number of hellos still awaiting a result.
func (c *Coordinator) Pending() int { return c.disp.PendingCount() }

type attempt struct {
	sel   relay.Selection
	frame relay.Frame
	res   relay.Result
}

// Probe runs one attempt per configured endpoint, sending a hello for
// wayfairID, and returns the statuses in completion order together with the
// session cache they imply. On cancellation it returns what completed so far
// and ctx.Err(); workers still running finish into a buffered channel.
func (c *Coordinator) Probe(ctx context.Context, wayfairID domain.WayfairID) ([]Status, domain.SessionCache, error) {
	total := c.sessions.Len()
	envelope, err := hello.New(wayfairID.String()).Marshal()
	if err != nil {
		return nil, domain.SessionCache{}, fmt.Errorf("encode hello: %w", err)
	}

	results := make(chan attempt, total)
	statuses := make([]Status, 0, total)
	launched, inFlight := 0, 0

	for len(statuses) < total {
		if launched < total {
			if sel, ok := c.sessions.Select(c.clk.Now()); ok {
				frame := c.register(sel, wayfairID)
				launched++
				inFlight++
				go func() {
					results <- attempt{sel: sel, frame: frame, res: c.transport.Attempt(ctx, sel, envelope)}
				}()
				continue
			}
		}

		if inFlight > 0 {
			select {
			case a := <-results:
				inFlight--
				statuses = append(statuses, c.apply(a))
			case <-ctx.Done():
				return statuses, CacheFromStatuses(statuses), ctx.Err()
			}
			continue
		}

		select {
		case <-c.clk.After(c.poll):
		case <-ctx.Done():
			return statuses, CacheFromStatuses(statuses), ctx.Err()
		}
	}
	return statuses, CacheFromStatuses(statuses), nil
}

// attemptPayload is the body of the outbound frame registered per attempt.
type attemptPayload struct {
	WayfairID string `json:"wayfair_id"`
	RelaySlot int    `json:"relay_slot"`
}

// resultPayload is the body of the response frame recorded per attempt.
type resultPayload struct {
	RelayWS string `json:"relay_ws"`
	State   string `json:"state"`
}

func (c *Coordinator) register(sel relay.Selection, wayfairID domain.WayfairID) relay.Frame {
	payload, err := json.Marshal(attemptPayload{WayfairID: wayfairID.String(), RelaySlot: sel.Slot})
	if err != nil {
		c.log.Warn("encode attempt payload", zap.Int("slot", sel.Slot), zap.Error(err))
		payload = nil
	}

	frame := c.disp.RegisterOutbound(hello.MessageTypeHello, payload)
	c.rec.SetPending(c.disp.PendingCount())
	c.log.Debug("attempt started",
		zap.Int("slot", sel.Slot),
		zap.String("relay_ws", sel.WS),
		zap.String("correlation_id", frame.CorrelationID),
	)
	return frame
}

func (c *Coordinator) apply(a attempt) Status {
	log := c.log.With(
		zap.Int("slot", a.sel.Slot),
		zap.String("relay_ws", a.sel.WS),
		zap.String("correlation_id", a.frame.CorrelationID),
		zap.String("outcome", a.res.Outcome.Label()),
	)

	if a.res.OK() {
		c.sessions.MarkSuccess(a.sel.Slot)
		log.Info("relay reachable", zap.Duration("elapsed", a.res.Elapsed))
	} else {
		backoff := c.sessions.MarkFailure(a.sel.Slot)
		log.Warn("relay attempt failed", zap.Duration("backoff", backoff), zap.Error(a.res.Err))
	}

	payload, err := json.Marshal(resultPayload{RelayWS: a.sel.WS, State: a.res.String()})
	if err != nil {
		log.Warn("encode result payload", zap.Error(err))
		payload = nil
	}
	resolved, err := c.disp.ResolveResponse(relay.Frame{
		CorrelationID: a.frame.CorrelationID,
		MessageType:   a.res.ResponseType(),
		Payload:       payload,
	})

	st := Status{
		Slot:    a.sel.Slot,
		HTTP:    a.sel.HTTP,
		WS:      a.sel.WS,
		Result:  a.res,
		Pending: c.disp.PendingCount(),
	}
	if err != nil {
		log.Warn("unmatched relay response", zap.Error(err))
		st.DispatchErr = err
	} else {
		st.Resolved = resolved
	}

	c.rec.ObserveAttempt(a.sel.WS, a.res.Outcome.Label(), a.res.Elapsed)
	c.rec.SetPending(st.Pending)
	ep := c.sessions.Endpoints()[a.sel.Slot]
	c.rec.SetHealth(a.sel.Slot, ep.WS, ep.Health)
	return st
}
