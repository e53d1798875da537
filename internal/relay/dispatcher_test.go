package relay_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aethos/internal/relay"
)

func TestDispatcher_RegisterAndResolve(t *testing.T) {
	var d relay.Dispatcher

	out := d.RegisterOutbound("hello", json.RawMessage(`{"relay_ws":"ws://a/ws"}`))
	assert.Equal(t, "linux-1", out.CorrelationID)
	assert.Equal(t, "hello", out.MessageType)
	assert.Equal(t, 1, d.PendingCount())

	res, err := d.ResolveResponse(relay.Frame{
		CorrelationID: out.CorrelationID,
		MessageType:   "hello_ack",
		Payload:       json.RawMessage(`{"state":"ok"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", res.RequestType)
	assert.Equal(t, "hello_ack", res.ResponseType)
	assert.JSONEq(t, `{"state":"ok"}`, string(res.Payload))
	assert.Zero(t, d.PendingCount())

	// Resolved ids are forgotten.
	_, err = d.ResolveResponse(relay.Frame{CorrelationID: out.CorrelationID})
	assert.ErrorIs(t, err, relay.ErrUnknownCorrelationID)
}

func TestDispatcher_UnknownIDLeavesPendingUntouched(t *testing.T) {
	var d relay.Dispatcher
	d.RegisterOutbound("hello", nil)

	_, err := d.ResolveResponse(relay.Frame{CorrelationID: "linux-99", MessageType: "hello_ack"})
	assert.ErrorIs(t, err, relay.ErrUnknownCorrelationID)
	assert.Equal(t, 1, d.PendingCount())
}

func TestDispatcher_IDsAreUnique(t *testing.T) {
	var d relay.Dispatcher
	seen := map[string]bool{}
	for range 100 {
		f := d.RegisterOutbound("hello", nil)
		require.False(t, seen[f.CorrelationID], f.CorrelationID)
		seen[f.CorrelationID] = true
	}
	assert.Equal(t, 100, d.PendingCount())
}

func TestFrame_JSON(t *testing.T) {
	f := relay.Frame{CorrelationID: "linux-1", MessageType: "hello", Payload: json.RawMessage(`{"a":1}`)}
	b, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"correlation_id":"linux-1","message_type":"hello","payload":{"a":1}}`, string(b))
}
