package client

import (
	"bufio"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/mcoot/gomokuclient-go/internal/model"
	"github.com/mcoot/gomokuclient-go/internal/protocol"
)

// TCPConnector speaks the same message catalogue over raw TCP using the
// length-prefixed binary packet framing. It shares the websocket
// connector's lifecycle semantics: silent drop when not open, policy-
// driven uncapped reconnection, errors logged only.
type TCPConnector struct {
	addr   string
	policy ReconnectPolicy
	hooks  ConnectorHooks
	logger *slog.Logger

	mu     sync.Mutex
	conn   net.Conn
	state  model.ConnState
	seq    uint16
	closed bool

	done chan struct{}
}

// NewTCPConnector creates a TCP connector for the given host:port address
func NewTCPConnector(addr string, policy ReconnectPolicy, logger *slog.Logger) *TCPConnector {
	if policy == nil {
		policy = DefaultReconnectPolicy()
	}
	return &TCPConnector{
		addr:   addr,
		policy: policy,
		logger: logger.With(slog.String("component", "transport"), slog.String("proto", "tcp")),
		state:  model.ConnClosed,
		done:   make(chan struct{}),
	}
}

// Bind installs the lifecycle callbacks
func (c *TCPConnector) Bind(hooks ConnectorHooks) {
	c.hooks = hooks
}

// Start begins the connect/reconnect loop
func (c *TCPConnector) Start() {
	go c.run()
}

// State returns the current connection state
func (c *TCPConnector) State() model.ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Send frames and transmits a packet if the channel is open, dropping it
// otherwise. The sequence number increments per sent packet.
func (c *TCPConnector) Send(msgType protocol.MsgType, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != model.ConnOpen || c.conn == nil {
		c.logger.Debug("dropping message on closed channel", slog.Int("type", int(msgType)))
		return
	}

	c.seq++
	data, err := protocol.EncodePacket(msgType, c.seq, payload)
	if err != nil {
		c.logger.Error("failed to encode packet", slog.Int("type", int(msgType)), slog.String("error", err.Error()))
		return
	}
	if _, err := c.conn.Write(data); err != nil {
		c.logger.Debug("write failed", slog.Int("type", int(msgType)), slog.String("error", err.Error()))
	}
}

// Close tears down the connection permanently
func (c *TCPConnector) Close() error {
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

func (c *TCPConnector) run() {
	attempt := 0
	for {
		if c.isClosed() {
			return
		}

		c.setState(model.ConnConnecting)
		conn, err := net.Dial("tcp", c.addr)
		if err != nil {
			attempt++
			c.logger.Debug("dial failed",
				slog.String("addr", c.addr),
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
		c.logger.Info("connected", slog.String("addr", c.addr))

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

func (c *TCPConnector) readLoop(conn net.Conn) {
	defer func() { _ = conn.Close() }()
	reader := bufio.NewReader(conn)
	for {
		p, err := protocol.ReadPacket(reader)
		if err != nil {
			c.logger.Debug("read failed", slog.String("error", err.Error()))
			return
		}
		if c.hooks.OnEnvelope != nil {
			c.hooks.OnEnvelope(p.Envelope())
		}
	}
}

func (c *TCPConnector) setState(state model.ConnState) {
	c.mu.Lock()
	changed := c.state != state
	c.state = state
	c.mu.Unlock()
	if changed && c.hooks.OnStateChange != nil {
		c.hooks.OnStateChange(state)
	}
}

func (c *TCPConnector) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *TCPConnector) wait(d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-c.done:
		return false
	}
}
