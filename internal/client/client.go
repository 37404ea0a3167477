// Package client implements the connection, session, room, and game
// state machine for the gomoku server's envelope protocol. All local
// state tracks server-pushed events; user actions are gated against
// locally-known state before they reach the wire, but authority rests
// entirely with the server.
package client

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/gomokuclient-go/internal/credentials"
	"github.com/mcoot/gomokuclient-go/internal/credentials/memory"
	"github.com/mcoot/gomokuclient-go/internal/dependencies/clock"
	"github.com/mcoot/gomokuclient-go/internal/model"
	"github.com/mcoot/gomokuclient-go/internal/protocol"
)

// Notifier surfaces blocking messages and confirmations to the user
type Notifier interface {
	// Notify shows a blocking message. A new message replaces any
	// pending one from the user's perspective.
	Notify(message string)

	// Confirm asks a yes/no question and blocks for the answer
	Confirm(prompt string) bool
}

// NopNotifier discards messages and answers yes to every confirmation.
// Use it for headless or scripted sessions.
type NopNotifier struct{}

func (NopNotifier) Notify(string) {}

func (NopNotifier) Confirm(string) bool { return true }

// Config holds configuration for the client
type Config struct {
	// ServerURL is the server's base URL; the websocket endpoint is
	// derived from it. Ignored when Transport is set.
	ServerURL string

	// Transport overrides the connector, e.g. for the TCP variant or
	// tests. Optional.
	Transport Connector

	// Credentials persists the auth token. Defaults to an in-process
	// store that forgets the token on exit.
	Credentials credentials.Store

	// Notifier surfaces blocking messages. Defaults to NopNotifier.
	Notifier Notifier

	// ReconnectPolicy governs reconnection delays. Defaults to a fixed
	// 3 second delay, uncapped.
	ReconnectPolicy ReconnectPolicy

	// HeartbeatInterval is the keep-alive period. Defaults to 30s.
	HeartbeatInterval time.Duration

	// EventBuffer is the event channel capacity. Defaults to 256.
	EventBuffer int

	Logger *slog.Logger
	Clock  clock.Clock
}

// Client owns the session context: connection handle, current session,
// room, game, and board. All server-driven mutation happens inside
// handlers invoked from the transport's single read goroutine; user
// actions from other goroutines synchronize on the client's mutex.
type Client struct {
	logger     *slog.Logger
	creds      credentials.Store
	notifier   Notifier
	clock      clock.Clock
	conn       Connector
	dispatcher *Dispatcher
	heartbeat  *Heartbeat
	events     chan model.Event

	mu          sync.Mutex
	session     *model.Session
	stats       *model.UserStats
	directory   model.Directory
	currentRoom *model.CurrentRoom
	game        *model.GameSession
	leaderboard []model.RankEntry
	lastPong    time.Time
}

// New creates a client wired to its transport. Call Start to connect.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NopNotifier{}
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.HeartbeatInterval == 0 {
		cfg.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if cfg.EventBuffer == 0 {
		cfg.EventBuffer = 256
	}

	conn := cfg.Transport
	if conn == nil {
		endpoint, err := Endpoint(cfg.ServerURL)
		if err != nil {
			return nil, fmt.Errorf("failed to derive endpoint: %w", err)
		}
		conn = NewWSConnector(endpoint, cfg.ReconnectPolicy, cfg.Logger)
	}

	c := &Client{
		logger:     cfg.Logger.With(slog.String("component", "client")),
		creds:      cfg.Credentials,
		notifier:   cfg.Notifier,
		clock:      cfg.Clock,
		conn:       conn,
		dispatcher: NewDispatcher(cfg.Logger),
		events:     make(chan model.Event, cfg.EventBuffer),
	}
	if c.creds == nil {
		c.creds = memory.New()
	}
	c.heartbeat = NewHeartbeat(conn, cfg.HeartbeatInterval, cfg.Logger)

	c.registerHandlers()
	conn.Bind(ConnectorHooks{
		OnOpen:        c.handleOpen,
		OnEnvelope:    c.dispatcher.Dispatch,
		OnStateChange: c.handleConnState,
	})
	return c, nil
}

// Start connects to the server and begins the heartbeat
func (c *Client) Start() {
	c.conn.Start()
	c.heartbeat.Start()
}

// Close shuts the client down; no reconnect is scheduled afterwards
func (c *Client) Close() error {
	c.heartbeat.Stop()
	return c.conn.Close()
}

// Events returns the stream of view-model events. Consumers must drain
// it; events are dropped, not queued, when the buffer fills.
func (c *Client) Events() <-chan model.Event {
	return c.events
}

// ConnState returns the transport connection state
func (c *Client) ConnState() model.ConnState {
	return c.conn.State()
}

// Session returns a copy of the current session, or nil when
// unauthenticated
func (c *Client) Session() *model.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// Stats returns a copy of the local user's stats, or nil when unknown
func (c *Client) Stats() *model.UserStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stats == nil {
		return nil
	}
	s := *c.stats
	return &s
}

// Directory returns a copy of the current room list snapshot
func (c *Client) Directory() model.Directory {
	c.mu.Lock()
	defer c.mu.Unlock()
	rooms := make([]model.Room, len(c.directory.Rooms))
	copy(rooms, c.directory.Rooms)
	return model.Directory{Rooms: rooms}
}

// CurrentRoom returns a copy of the joined room view, or nil when in the
// lobby
func (c *Client) CurrentRoom() *model.CurrentRoom {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentRoom == nil {
		return nil
	}
	r := *c.currentRoom
	return &r
}

// Game returns a copy of the live game session, or nil when no game
// exists
func (c *Client) Game() *model.GameSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.game == nil {
		return nil
	}
	g := *c.game
	g.Board = c.game.Board.Clone()
	g.Players = append([]model.UserID(nil), c.game.Players...)
	g.WinLine = append([]int(nil), c.game.WinLine...)
	return &g
}

// Leaderboard returns a copy of the latest leaderboard snapshot
func (c *Client) Leaderboard() []model.RankEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.RankEntry(nil), c.leaderboard...)
}

// LastPong returns when the server last answered a heartbeat. Purely
// diagnostic; staleness is never acted upon.
func (c *Client) LastPong() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPong
}

// registerHandlers installs the full inbound message catalogue. Message
// types not registered here (move and forfeit acknowledgments) are
// dropped by the dispatcher.
func (c *Client) registerHandlers() {
	c.dispatcher.Register(protocol.MsgLoginResp, c.handleLoginResp)
	c.dispatcher.Register(protocol.MsgRegisterResp, c.handleRegisterResp)
	c.dispatcher.Register(protocol.MsgCreateRoomResp, c.handleCreateRoomResp)
	c.dispatcher.Register(protocol.MsgJoinRoomResp, c.handleJoinRoomResp)
	c.dispatcher.Register(protocol.MsgLeaveRoomResp, c.handleLeaveRoomResp)
	c.dispatcher.Register(protocol.MsgRoomListResp, c.handleRoomListResp)
	c.dispatcher.Register(protocol.MsgPlayerJoin, c.handlePlayerJoin)
	c.dispatcher.Register(protocol.MsgPlayerLeave, c.handlePlayerLeave)
	c.dispatcher.Register(protocol.MsgGameStart, c.handleGameStart)
	c.dispatcher.Register(protocol.MsgBoardUpdate, c.handleBoardUpdate)
	c.dispatcher.Register(protocol.MsgGameOver, c.handleGameOver)
	c.dispatcher.Register(protocol.MsgLeaderboardResp, c.handleLeaderboardResp)
	c.dispatcher.Register(protocol.MsgUserStatsResp, c.handleUserStatsResp)
	c.dispatcher.Register(protocol.MsgPong, c.handlePong)
	c.dispatcher.Register(protocol.MsgError, c.handleError)
}

// handleOpen fires on every successful connect. A stored token triggers
// silent re-authentication.
func (c *Client) handleOpen() {
	token, err := c.creds.Get()
	if err != nil {
		c.logger.Warn("failed to read stored token", slog.String("error", err.Error()))
		return
	}
	if token != "" {
		c.conn.Send(protocol.MsgLogin, &protocol.LoginReq{Token: token})
	}
}

func (c *Client) handleConnState(state model.ConnState) {
	c.emit(model.Event{
		Type:    model.EventConnStateChanged,
		Payload: model.ConnStateChangedPayload{State: state},
	})
}

// emit pushes an event without blocking; a full buffer drops the event
func (c *Client) emit(event model.Event) {
	select {
	case c.events <- event:
	default:
		c.logger.Warn("event dropped - buffer full", slog.String("type", string(event.Type)))
	}
}

// localUser returns the authenticated user id, or "" before login.
// Callers must hold c.mu.
func (c *Client) localUser() model.UserID {
	if c.session == nil {
		return ""
	}
	return c.session.UserID
}

// refresh triggers the standard post-transition cascade: user stats,
// room list, leaderboard top 10. Callers must hold c.mu.
func (c *Client) refresh() {
	userID := c.localUser()
	c.conn.Send(protocol.MsgUserStatsReq, &protocol.UserStatsReq{UserID: string(userID)})
	c.conn.Send(protocol.MsgRoomList, &protocol.RoomListReq{})
	c.conn.Send(protocol.MsgLeaderboardReq, &protocol.LeaderboardReq{Limit: 10})
}
