package client

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mcoot/gomokuclient-go/internal/model"
	"github.com/mcoot/gomokuclient-go/internal/protocol"
)

// DefaultHeartbeatInterval is the keep-alive period
const DefaultHeartbeatInterval = 30 * time.Second

// Heartbeat emits a one-directional keep-alive ping while the channel is
// open. There is no liveness tracking: a half-open connection is not
// detected here; recovery relies entirely on the transport's close
// event.
type Heartbeat struct {
	conn     Connector
	interval time.Duration
	logger   *slog.Logger
	done     chan struct{}
}

// NewHeartbeat creates a heartbeat monitor for the given connector
func NewHeartbeat(conn Connector, interval time.Duration, logger *slog.Logger) *Heartbeat {
	return &Heartbeat{
		conn:     conn,
		interval: interval,
		logger:   logger.With(slog.String("component", "heartbeat")),
		done:     make(chan struct{}),
	}
}

// Start begins ticking in the background
func (h *Heartbeat) Start() {
	go h.run()
}

// Stop halts the heartbeat permanently
func (h *Heartbeat) Stop() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}

// handlePong records when the server last answered a heartbeat. The
// timestamp is diagnostic only; staleness is never enforced.
func (c *Client) handlePong(_ json.RawMessage) {
	c.mu.Lock()
	c.lastPong = c.clock.Now()
	c.mu.Unlock()
}

func (h *Heartbeat) run() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if h.conn.State() == model.ConnOpen {
				h.conn.Send(protocol.MsgPing, &protocol.PingReq{})
			}
		case <-h.done:
			return
		}
	}
}
