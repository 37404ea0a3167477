package client

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/gomokuclient-go/internal/protocol"
)

// HandlerFunc processes the payload of one inbound message
type HandlerFunc func(payload json.RawMessage)

// Dispatcher routes inbound envelopes to the handler registered for
// their type code. An envelope whose type has no registered handler is
// silently ignored.
type Dispatcher struct {
	handlers map[protocol.MsgType]HandlerFunc
	logger   *slog.Logger
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[protocol.MsgType]HandlerFunc),
		logger:   logger.With(slog.String("component", "dispatcher")),
	}
}

// Register installs the handler for a message type, replacing any
// previous one. Registration happens once at client construction, before
// the transport starts; the map is read-only afterwards.
func (d *Dispatcher) Register(msgType protocol.MsgType, handler HandlerFunc) {
	d.handlers[msgType] = handler
}

// Dispatch routes the envelope to its handler
func (d *Dispatcher) Dispatch(env *protocol.Envelope) {
	handler, ok := d.handlers[env.Type]
	if !ok {
		d.logger.Debug("ignoring message with no handler", slog.Int("type", int(env.Type)))
		return
	}
	handler(env.Payload)
}
