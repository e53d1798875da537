package relay

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownCorrelationID is returned when a response matches no pending request.
var ErrUnknownCorrelationID = errors.New("unknown correlation id")

// correlationPrefix prefixes every id this client allocates.
const correlationPrefix = "linux"

// Frame is a correlated relay message. Payload is opaque to the dispatcher.
type Frame struct {
	CorrelationID string          `json:"correlation_id"`
	MessageType   string          `json:"message_type"`
	Payload       json.RawMessage `json:"payload"`
}

// Resolved pairs a response with the type of the request it answers.
type Resolved struct {
	CorrelationID string
	RequestType   string
	ResponseType  string
	Payload       json.RawMessage
}

// Dispatcher tracks outbound requests until their response arrives. The zero
// value is ready to use.
type Dispatcher struct {
	next    uint64
	pending map[string]string
}

// RegisterOutbound allocates a fresh correlation id, records messageType as
// pending under it and returns the frame to send.
func (d *Dispatcher) RegisterOutbound(messageType string, payload json.RawMessage) Frame {
	if d.pending == nil {
		d.pending = make(map[string]string)
	}
	d.next++
	id := fmt.Sprintf("%s-%d", correlationPrefix, d.next)
	d.pending[id] = messageType
	return Frame{CorrelationID: id, MessageType: messageType, Payload: payload}
}

// ResolveResponse removes the pending record matching f. An unmatched frame
// yields ErrUnknownCorrelationID and leaves the pending set untouched.
func (d *Dispatcher) ResolveResponse(f Frame) (Resolved, error) {
	reqType, ok := d.pending[f.CorrelationID]
	if !ok {
		return Resolved{}, fmt.Errorf("%w: %q", ErrUnknownCorrelationID, f.CorrelationID)
	}
	delete(d.pending, f.CorrelationID)
	return Resolved{
		CorrelationID: f.CorrelationID,
		RequestType:   reqType,
		ResponseType:  f.MessageType,
		Payload:       f.Payload,
	}, nil
}

// PendingCount returns the number of outstanding requests.
func (d *Dispatcher) PendingCount() int { return len(d.pending) }
