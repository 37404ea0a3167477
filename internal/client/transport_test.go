package client

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gomokuclient-go/internal/credentials/memory"
	"github.com/mcoot/gomokuclient-go/internal/model"
	"github.com/mcoot/gomokuclient-go/internal/protocol"
	"github.com/mcoot/gomokuclient-go/internal/testutil"
)

type TransportSuite struct {
	suite.Suite
}

func TestTransportSuite(t *testing.T) {
	suite.Run(t, new(TransportSuite))
}

func (s *TransportSuite) TestEndpointDerivation() {
	for _, tc := range []struct {
		serverURL string
		expected  string
	}{
		{"http://localhost:8080", "ws://localhost:8080/ws"},
		{"https://gomoku.example.com", "wss://gomoku.example.com/ws"},
		{"http://localhost:8080/", "ws://localhost:8080/ws"},
		{"ws://localhost:8080/ws", "ws://localhost:8080/ws"},
		{"wss://gomoku.example.com", "wss://gomoku.example.com/ws"},
	} {
		endpoint, err := Endpoint(tc.serverURL)
		s.NoError(err, tc.serverURL)
		s.Equal(tc.expected, endpoint, tc.serverURL)
	}
}

func (s *TransportSuite) TestEndpointRejectsUnsupportedScheme() {
	_, err := Endpoint("ftp://example.com")
	s.Error(err)
}

func (s *TransportSuite) TestFixedDelayIgnoresAttemptCount() {
	p := FixedDelay{Delay: 3 * time.Second}
	s.Equal(3*time.Second, p.NextDelay(1))
	s.Equal(3*time.Second, p.NextDelay(50))
}

func (s *TransportSuite) TestExponentialBackoffDoublesToCap() {
	p := ExponentialBackoff{Initial: 100 * time.Millisecond, Max: time.Second}
	s.Equal(100*time.Millisecond, p.NextDelay(1))
	s.Equal(200*time.Millisecond, p.NextDelay(2))
	s.Equal(400*time.Millisecond, p.NextDelay(3))
	s.Equal(800*time.Millisecond, p.NextDelay(4))
	s.Equal(time.Second, p.NextDelay(5))
	s.Equal(time.Second, p.NextDelay(20))
}

func (s *TransportSuite) TestReconnectsAfterEachDrop() {
	var dials atomic.Int32
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		dials.Add(1)
		// Drop the connection immediately to force a reconnect.
		_ = conn.Close()
	}))
	defer server.Close()

	endpoint := strings.Replace(server.URL, "http", "ws", 1)
	conn := NewWSConnector(endpoint, FixedDelay{Delay: 10 * time.Millisecond}, testutil.NopLogger())
	conn.Bind(ConnectorHooks{})
	conn.Start()
	defer func() { _ = conn.Close() }()

	s.Eventually(func() bool {
		return dials.Load() >= 3
	}, 2*time.Second, 10*time.Millisecond, "connector should redial after every drop")
}

func (s *TransportSuite) TestCloseStopsReconnecting() {
	var dials atomic.Int32
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		dials.Add(1)
		_ = conn.Close()
	}))
	defer server.Close()

	endpoint := strings.Replace(server.URL, "http", "ws", 1)
	conn := NewWSConnector(endpoint, FixedDelay{Delay: 10 * time.Millisecond}, testutil.NopLogger())
	conn.Bind(ConnectorHooks{})
	conn.Start()

	s.Eventually(func() bool { return dials.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	s.Require().NoError(conn.Close())
	s.Equal(model.ConnClosed, conn.State())

	settled := dials.Load()
	time.Sleep(100 * time.Millisecond)
	s.Equal(settled, dials.Load(), "no redial after Close")
}

func (s *TransportSuite) TestDeliversInboundEnvelopes() {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		env, _ := protocol.NewEnvelope(protocol.MsgPong, &protocol.PongResp{})
		data, _ := env.Encode()
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}))
	defer server.Close()

	received := make(chan *protocol.Envelope, 1)
	endpoint := strings.Replace(server.URL, "http", "ws", 1)
	conn := NewWSConnector(endpoint, FixedDelay{Delay: 10 * time.Millisecond}, testutil.NopLogger())
	conn.Bind(ConnectorHooks{
		OnEnvelope: func(env *protocol.Envelope) {
			select {
			case received <- env:
			default:
			}
		},
	})
	conn.Start()
	defer func() { _ = conn.Close() }()

	select {
	case env := <-received:
		s.Equal(protocol.MsgPong, env.Type)
	case <-time.After(2 * time.Second):
		s.Fail("timed out waiting for inbound envelope")
	}
}

func (s *TransportSuite) TestReauthOnReopen() {
	upgrader := websocket.Upgrader{}
	logins := make(chan protocol.LoginReq, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		env, err := protocol.DecodeEnvelope(data)
		if err != nil || env.Type != protocol.MsgLogin {
			return
		}
		var req protocol.LoginReq
		if err := env.Decode(&req); err != nil {
			return
		}
		logins <- req
		// Drop to force the client back through the reconnect path.
		_ = conn.Close()
	}))
	defer server.Close()

	creds := memory.New()
	s.Require().NoError(creds.Set("T1"))
	c, err := New(Config{
		ServerURL:       server.URL,
		Credentials:     creds,
		Notifier:        newRecordingNotifier(),
		ReconnectPolicy: FixedDelay{Delay: 10 * time.Millisecond},
		Logger:          testutil.NopLogger(),
	})
	s.Require().NoError(err)
	c.Start()
	defer func() { _ = c.Close() }()

	// Every reopen, not just the first, replays the stored token.
	for i := 0; i < 2; i++ {
		select {
		case req := <-logins:
			s.Equal("T1", req.Token)
			s.Empty(req.Username)
		case <-time.After(2 * time.Second):
			s.Fail("timed out waiting for re-auth login")
		}
	}
}
