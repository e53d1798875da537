package hello_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aethos/internal/protocol/hello"
)

func TestEnvelope_WireShape(t *testing.T) {
	b, err := hello.New("id-1").Marshal()
	require.NoError(t, err)
	assert.Equal(t,
		`{"version":"0.1","message_type":"hello","platform":"linux","client":"aethos-linux","wayfair_id":"id-1"}`,
		string(b),
	)
}

func TestEnvelope_Deterministic(t *testing.T) {
	a, err := hello.New("x").Marshal()
	require.NoError(t, err)
	b, err := hello.New("x").Marshal()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParse(t *testing.T) {
	b, err := hello.New("id-1").Marshal()
	require.NoError(t, err)
	e, err := hello.Parse(b)
	require.NoError(t, err)
	assert.Equal(t, hello.New("id-1"), e)

	_, err = hello.Parse([]byte(`{"version":"9","message_type":"hello","wayfair_id":"x"}`))
	assert.ErrorIs(t, err, hello.ErrUnsupportedVersion)

	_, err = hello.Parse([]byte(`{"version":"0.1","message_type":"ping","wayfair_id":"x"}`))
	assert.ErrorIs(t, err, hello.ErrUnexpectedType)

	_, err = hello.Parse([]byte(`{"version":"0.1","message_type":"hello"}`))
	assert.ErrorIs(t, err, hello.ErrMissingWayfairID)

	_, err = hello.Parse([]byte(`not json`))
	assert.Error(t, err)
}

func TestParseAck(t *testing.T) {
	b, err := hello.NewAck("relay-a", "id-1").Marshal()
	require.NoError(t, err)
	a, err := hello.ParseAck(b)
	require.NoError(t, err)
	assert.Equal(t, "relay-a", a.Relay)
	assert.Equal(t, "id-1", a.WayfairID)

	b, err = hello.NewError("relay-a", "unknown client").Marshal()
	require.NoError(t, err)
	a, err = hello.ParseAck(b)
	assert.ErrorIs(t, err, hello.ErrRejected)
	assert.Equal(t, "unknown client", a.Reason)

	b, err = hello.New("id-1").Marshal()
	require.NoError(t, err)
	_, err = hello.ParseAck(b)
	assert.ErrorIs(t, err, hello.ErrUnexpectedType)
}
