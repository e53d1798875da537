package hello

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// ProtocolVersion is the only version this client speaks.
	ProtocolVersion = "0.1"

	MessageTypeHello      = "hello"
	MessageTypeHelloAck   = "hello_ack"
	MessageTypeHelloError = "hello_error"

	PlatformLinux = "linux"
	// ClientTag identifies this implementation to relays.
	ClientTag = "aethos-linux"
)

var (
	// ErrUnsupportedVersion is returned when a message carries another protocol version.
	ErrUnsupportedVersion = errors.New("unsupported protocol version")
	// ErrUnexpectedType is returned when a message is not of the expected type.
	ErrUnexpectedType = errors.New("unexpected message type")
	// ErrMissingWayfairID is returned for a hello without a sender id.
	ErrMissingWayfairID = errors.New("hello has no wayfair_id")
)

// Envelope is the hello message. Field order is the wire order.
type Envelope struct {
	Version     string `json:"version"`
	MessageType string `json:"message_type"`
	Platform    string `json:"platform"`
	Client      string `json:"client"`
	WayfairID   string `json:"wayfair_id"`
}

// New returns the hello envelope for wayfairID.
func New(wayfairID string) Envelope {
	return Envelope{
		Version:     ProtocolVersion,
		MessageType: MessageTypeHello,
		Platform:    PlatformLinux,
		Client:      ClientTag,
		WayfairID:   wayfairID,
	}
}

// Marshal returns the JSON encoding of e.
func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Parse decodes and checks a hello envelope.
func Parse(b []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode hello: %w", err)
	}
	if e.Version != ProtocolVersion {
		return Envelope{}, fmt.Errorf("%w: %q", ErrUnsupportedVersion, e.Version)
	}
	if e.MessageType != MessageTypeHello {
		return Envelope{}, fmt.Errorf("%w: %q", ErrUnexpectedType, e.MessageType)
	}
	if e.WayfairID == "" {
		return Envelope{}, ErrMissingWayfairID
	}
	return e, nil
}
