package devrelay

import (
	"crypto/subtle"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"aethos/internal/protocol/hello"
	"aethos/internal/relay"
)

const readTimeout = 10 * time.Second

// Recorder observes served hellos.
type Recorder interface {
	HelloServed(relay string, accepted bool)
}

// Options configures a Server.
type Options struct {
	// Name is reported in acks.
	Name string
	// Token, when set, is required as a bearer credential on the upgrade.
	Token string

	Logger   *zap.Logger
	Recorder Recorder
}

// Server accepts websocket upgrades on relay.WSPath and acknowledges hellos.
type Server struct {
	opts     Options
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu     sync.Mutex
	hellos []hello.Envelope
}

// New returns a Server.
func New(opts Options) *Server {
	if opts.Name == "" {
		opts.Name = "devrelay"
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		opts: opts,
		log:  log.Named("devrelay").With(zap.String("relay", opts.Name)),
		upgrader: websocket.Upgrader{
			HandshakeTimeout: readTimeout,
			CheckOrigin:      func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes: the websocket endpoint and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(relay.WSPath, s.ServeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// ServeWS authorises and upgrades the request, reads one hello and answers it.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		s.log.Info("rejected upgrade", zap.String("remote", r.RemoteAddr))
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		s.log.Warn("upgrade failed", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		s.log.Debug("read hello", zap.Error(err))
		return
	}

	reply := s.answer(msg)
	b, err := reply.Marshal()
	if err != nil {
		s.log.Error("encode reply", zap.Error(err))
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(readTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		s.log.Debug("write reply", zap.Error(err))
	}
}

// Hellos returns a copy of the accepted hellos in arrival order.
func (s *Server) Hellos() []hello.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]hello.Envelope, len(s.hellos))
	copy(out, s.hellos)
	return out
}

func (s *Server) answer(msg []byte) hello.Ack {
	env, err := hello.Parse(msg)
	if err != nil {
		s.record(false)
		s.log.Info("bad hello", zap.Error(err))
		return hello.NewError(s.opts.Name, err.Error())
	}

	s.mu.Lock()
	s.hellos = append(s.hellos, env)
	s.mu.Unlock()
	s.record(true)

	s.log.Info("hello",
		zap.String("wayfair_id", env.WayfairID),
		zap.String("client", env.Client),
		zap.String("platform", env.Platform),
	)
	return hello.NewAck(s.opts.Name, env.WayfairID)
}

func (s *Server) authorized(r *http.Request) bool {
	if s.opts.Token == "" {
		return true
	}
	want := []byte("Bearer " + s.opts.Token)
	got := []byte(r.Header.Get("Authorization"))
	return subtle.ConstantTimeCompare(got, want) == 1
}

func (s *Server) record(accepted bool) {
	if s.opts.Recorder != nil {
		s.opts.Recorder.HelloServed(s.opts.Name, accepted)
	}
}
