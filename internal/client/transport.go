package client

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/gomokuclient-go/internal/model"
	"github.com/mcoot/gomokuclient-go/internal/protocol"
)

// Connector owns the channel lifecycle: connect, send, receive, close,
// reconnect. Implementations deliver inbound envelopes and lifecycle
// transitions through the callbacks configured at construction, invoking
// them from a single goroutine so handlers never run concurrently.
type Connector interface {
	// Bind installs the lifecycle callbacks. It must be called before
	// Start.
	Bind(hooks ConnectorHooks)

	// Start begins the connect/reconnect loop in the background
	Start()

	// Send transmits an envelope if the channel is open. When it is not,
	// the message is silently dropped: no queuing, no retry.
	Send(msgType protocol.MsgType, payload any)

	// State returns the current connection state
	State() model.ConnState

	// Close tears the connection down permanently; no further reconnect
	// is scheduled
	Close() error
}

// ConnectorHooks are the callbacks a Connector drives. All of them are
// optional.
type ConnectorHooks struct {
	// OnOpen fires after each successful connect, including reconnects
	OnOpen func()

	// OnEnvelope fires for every decoded inbound envelope
	OnEnvelope func(*protocol.Envelope)

	// OnStateChange fires on every connection state transition
	OnStateChange func(model.ConnState)
}

// Endpoint derives the websocket endpoint from the server's base URL,
// selecting the secure variant from the origin scheme: http becomes ws,
// https becomes wss. The endpoint path is fixed at /ws.
func Endpoint(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		// Already a websocket URL
	default:
		return "", fmt.Errorf("unsupported scheme %q in server url", u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/ws") {
		u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	}
	return u.String(), nil
}

// WSConnector is the websocket Connector. A dropped connection schedules
// a reconnect through the configured policy, unconditionally and with no
// retry cap; transport-level errors are logged and never surfaced.
type WSConnector struct {
	endpoint string
	policy   ReconnectPolicy
	hooks    ConnectorHooks
	logger   *slog.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	state  model.ConnState
	closed bool

	done chan struct{}
}

// NewWSConnector creates a websocket connector for the given endpoint
func NewWSConnector(endpoint string, policy ReconnectPolicy, logger *slog.Logger) *WSConnector {
	if policy == nil {
		policy = DefaultReconnectPolicy()
	}
	return &WSConnector{
		endpoint: endpoint,
		policy:   policy,
		logger:   logger.With(slog.String("component", "transport")),
		state:    model.ConnClosed,
		done:     make(chan struct{}),
	}
}

// Bind installs the lifecycle callbacks
func (c *WSConnector) Bind(hooks ConnectorHooks) {
	c.hooks = hooks
}

// Start begins the connect/reconnect loop
func (c *WSConnector) Start() {
	go c.run()
}

// State returns the current connection state
func (c *WSConnector) State() model.ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Send transmits an envelope if the channel is open, dropping it
// otherwise. Write failures are logged only; the subsequent close event
// is the sole trigger for recovery.
func (c *WSConnector) Send(msgType protocol.MsgType, payload any) {
	env, err := protocol.NewEnvelope(msgType, payload)
	if err != nil {
		c.logger.Error("failed to build envelope", slog.Int("type", int(msgType)), slog.String("error", err.Error()))
		return
	}
	data, err := env.Encode()
	if err != nil {
		c.logger.Error("failed to encode envelope", slog.Int("type", int(msgType)), slog.String("error", err.Error()))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != model.ConnOpen || c.conn == nil {
		c.logger.Debug("dropping message on closed channel", slog.Int("type", int(msgType)))
		return
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.logger.Debug("write failed", slog.Int("type", int(msgType)), slog.String("error", err.Error()))
	}
}

// Close tears down the connection permanently
func (c *WSConnector) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.mu.Unlock()

	close(c.done)
	if conn != nil {
		_ = conn.Close()
	}
	c.setState(model.ConnClosed)
	return nil
}

func (c *WSConnector) run() {
	attempt := 0
	for {
		if c.isClosed() {
			return
		}

		c.setState(model.ConnConnecting)
		conn, _, err := websocket.DefaultDialer.Dial(c.endpoint, nil)
		if err != nil {
			attempt++
			c.logger.Debug("dial failed",
				slog.String("endpoint", c.endpoint),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			c.setState(model.ConnClosed)
			if !c.wait(c.policy.NextDelay(attempt)) {
				return
			}
			continue
		}

		attempt = 0
		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()
		c.setState(model.ConnOpen)
		c.logger.Info("connected", slog.String("endpoint", c.endpoint))

		if c.hooks.OnOpen != nil {
			c.hooks.OnOpen()
		}

		c.readLoop(conn)

		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		c.setState(model.ConnClosed)

		if c.isClosed() {
			return
		}
		attempt++
		c.logger.Info("disconnected, scheduling reconnect")
		if !c.wait(c.policy.NextDelay(attempt)) {
			return
		}
	}
}

// readLoop delivers inbound envelopes until the connection fails. It is
// the only goroutine invoking OnEnvelope, which serializes all handler
// execution.
func (c *WSConnector) readLoop(conn *websocket.Conn) {
	defer func() { _ = conn.Close() }()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.logger.Debug("read failed", slog.String("error", err.Error()))
			return
		}
		env, err := protocol.DecodeEnvelope(data)
		if err != nil {
			c.logger.Warn("discarding malformed frame", slog.String("error", err.Error()))
			continue
		}
		if c.hooks.OnEnvelope != nil {
			c.hooks.OnEnvelope(env)
		}
	}
}

func (c *WSConnector) setState(state model.ConnState) {
	c.mu.Lock()
	changed := c.state != state
	c.state = state
	c.mu.Unlock()
	if changed && c.hooks.OnStateChange != nil {
		c.hooks.OnStateChange(state)
	}
}

func (c *WSConnector) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// wait sleeps for d, returning false if the connector was closed first
func (c *WSConnector) wait(d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-c.done:
		return false
	}
}
