package hello

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrRejected is returned by ParseAck when the relay answered with hello_error.
var ErrRejected = errors.New("hello rejected by relay")

// Ack is the relay's reply to a hello. Reason is set only on hello_error.
type Ack struct {
	Version     string `json:"version"`
	MessageType string `json:"message_type"`
	Relay       string `json:"relay,omitempty"`
	WayfairID   string `json:"wayfair_id,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// NewAck builds a hello_ack from relay for wayfairID.
func NewAck(relay, wayfairID string) Ack {
	return Ack{
		Version:     ProtocolVersion,
		MessageType: MessageTypeHelloAck,
		Relay:       relay,
		WayfairID:   wayfairID,
	}
}

// NewError builds a hello_error from relay.
func NewError(relay, reason string) Ack {
	return Ack{
		Version:     ProtocolVersion,
		MessageType: MessageTypeHelloError,
		Relay:       relay,
		Reason:      reason,
	}
}

// Marshal returns the JSON encoding of a.
func (a Ack) Marshal() ([]byte, error) {
	return json.Marshal(a)
}

// ParseAck decodes a relay reply and succeeds only for a hello_ack.
func ParseAck(b []byte) (Ack, error) {
	var a Ack
	if err := json.Unmarshal(b, &a); err != nil {
		return Ack{}, fmt.Errorf("decode ack: %w", err)
	}
	if a.Version != ProtocolVersion {
		return a, fmt.Errorf("%w: %q", ErrUnsupportedVersion, a.Version)
	}
	switch a.MessageType {
	case MessageTypeHelloAck:
		return a, nil
	case MessageTypeHelloError:
		return a, fmt.Errorf("%w: %s", ErrRejected, a.Reason)
	default:
		return a, fmt.Errorf("%w: %q", ErrUnexpectedType, a.MessageType)
	}
}
