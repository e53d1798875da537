package connect

import (
	"fmt"

	"aethos/internal/domain"
	"aethos/internal/relay"
)

const (
	primaryLabel   = "Primary relay status: "
	secondaryLabel = "Secondary relay status: "
	idleText       = "idle"
)

// Status is the outcome of one probe attempt as shown to the user.
type Status struct {
	Slot    int
	HTTP    string
	WS      string
	Result  relay.Result
	Pending int

	Resolved    relay.Resolved
	DispatchErr error
}

// Dispatch renders the correlation bookkeeping of the attempt.
func (s Status) Dispatch() string {
	if s.DispatchErr != nil {
		return "dispatcher error: unknown correlation"
	}
	return fmt.Sprintf("corr=%s req=%s resp=%s pending=%d payload=%s",
		s.Resolved.CorrelationID,
		s.Resolved.RequestType,
		s.Resolved.ResponseType,
		s.Pending,
		s.Resolved.Payload,
	)
}

// Text is the one-line diagnostic for the attempt.
func (s Status) Text() string {
	return fmt.Sprintf("%s -> %s · %s · %s", s.HTTP, s.WS, s.Result, s.Dispatch())
}

// CacheFromStatuses folds statuses into the session cache. Slot 0 is the
// primary relay, every other slot feeds the secondary line; later statuses
// win. Unprobed lines read "idle".
func CacheFromStatuses(statuses []Status) domain.SessionCache {
	cache := domain.SessionCache{
		PrimaryStatus:   primaryLabel + idleText,
		SecondaryStatus: secondaryLabel + idleText,
	}
	for _, s := range statuses {
		if s.Slot == 0 {
			cache.PrimaryStatus = primaryLabel + s.Text()
		} else {
			cache.SecondaryStatus = secondaryLabel + s.Text()
		}
	}
	return cache
}
