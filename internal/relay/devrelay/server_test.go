package devrelay_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aethos/internal/protocol/hello"
	"aethos/internal/relay"
	"aethos/internal/relay/devrelay"
)

type countingRecorder struct {
	mu       sync.Mutex
	accepted int
	rejected int
}

func (c *countingRecorder) HelloServed(_ string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ok {
		c.accepted++
	} else {
		c.rejected++
	}
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + relay.WSPath
}

func exchange(t *testing.T, url string, header http.Header, msg []byte) hello.Ack {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, msg))
	_, b, err := conn.ReadMessage()
	require.NoError(t, err)

	// hello_error is returned as a value too; callers inspect MessageType.
	a, _ := hello.ParseAck(b)
	return a
}

func TestServer_AcksHello(t *testing.T) {
	rec := &countingRecorder{}
	s := devrelay.New(devrelay.Options{Name: "a", Recorder: rec})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	msg, err := hello.New("id-1").Marshal()
	require.NoError(t, err)
	ack := exchange(t, wsURL(srv), nil, msg)

	assert.Equal(t, hello.MessageTypeHelloAck, ack.MessageType)
	assert.Equal(t, "a", ack.Relay)
	assert.Equal(t, "id-1", ack.WayfairID)
	assert.Equal(t, []hello.Envelope{hello.New("id-1")}, s.Hellos())
	assert.Equal(t, 1, rec.accepted)
}

func TestServer_RejectsMalformedHello(t *testing.T) {
	rec := &countingRecorder{}
	s := devrelay.New(devrelay.Options{Recorder: rec})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ack := exchange(t, wsURL(srv), nil, []byte(`{"version":"0.1","message_type":"ping"}`))
	assert.Equal(t, hello.MessageTypeHelloError, ack.MessageType)
	assert.NotEmpty(t, ack.Reason)
	assert.Empty(t, s.Hellos())
	assert.Equal(t, 1, rec.rejected)
}

func TestServer_RequiresBearerToken(t *testing.T) {
	s := devrelay.New(devrelay.Options{Token: "secret"})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	h := http.Header{}
	h.Set("Authorization", "Bearer wrong")
	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv), h)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	h.Set("Authorization", "Bearer secret")
	msg, err := hello.New("id-1").Marshal()
	require.NoError(t, err)
	ack := exchange(t, wsURL(srv), h, msg)
	assert.Equal(t, hello.MessageTypeHelloAck, ack.MessageType)
}

func TestServer_Healthz(t *testing.T) {
	srv := httptest.NewServer(devrelay.New(devrelay.Options{}).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
