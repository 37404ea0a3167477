// Package testserver implements an in-process gomoku server speaking the
// envelope protocol over websocket and TCP framings. It backs the e2e
// tests and the local development loop; it is not a production server.
package testserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mcoot/gomokuclient-go/internal/middleware"
	"github.com/mcoot/gomokuclient-go/internal/protocol"
)

// Server is a complete in-memory game server
type Server struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu         sync.Mutex
	accounts   map[string]string // username -> password
	tokens     map[string]string // token -> username
	stats      map[string]*playerStats
	rooms      map[int64]*room
	nextRoomID int64
}

type playerStats struct {
	Score     int
	WinCount  int
	LoseCount int
}

// room holds at most two seated players; seat 0 is the creator and
// plays black
type room struct {
	id      int64
	name    string
	creator string
	seats   []*conn
	game    *game
}

func (r *room) seatIndex(c *conn) int {
	for i, seat := range r.seats {
		if seat == c {
			return i
		}
	}
	return -1
}

func (r *room) playerNames() []string {
	names := make([]string, 0, len(r.seats))
	for _, c := range r.seats {
		names = append(names, c.user)
	}
	return names
}

// NewServer creates an empty server
func NewServer(logger *slog.Logger) *Server {
	return &Server{
		logger:   logger.With(slog.String("component", "testserver")),
		accounts: make(map[string]string),
		tokens:   make(map[string]string),
		stats:    make(map[string]*playerStats),
		rooms:    make(map[int64]*room),
	}
}

// Router returns the HTTP handler exposing the websocket endpoint at /ws
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.Logging(s.logger))
	r.HandleFunc("/ws", s.handleWS)
	return r
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &conn{
		srv: s,
		writeEnv: func(env *protocol.Envelope) error {
			data, err := env.Encode()
			if err != nil {
				return err
			}
			return ws.WriteMessage(websocket.TextMessage, data)
		},
	}
	defer func() {
		_ = ws.Close()
		s.disconnect(c)
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		env, err := protocol.DecodeEnvelope(data)
		if err != nil {
			s.logger.Warn("discarding malformed frame", slog.String("error", err.Error()))
			continue
		}
		s.dispatch(c, env)
	}
}

// conn is one connected client on either framing
type conn struct {
	srv      *Server
	user     string // authenticated username, "" before login
	writeMu  sync.Mutex
	writeEnv func(*protocol.Envelope) error
}

func (c *conn) send(msgType protocol.MsgType, payload any) {
	env, err := protocol.NewEnvelope(msgType, payload)
	if err != nil {
		c.srv.logger.Error("failed to build envelope", slog.Int("type", int(msgType)), slog.String("error", err.Error()))
		return
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.writeEnv(env); err != nil {
		c.srv.logger.Debug("write failed", slog.Int("type", int(msgType)), slog.String("error", err.Error()))
	}
}

func (s *Server) dispatch(c *conn, env *protocol.Envelope) {
	var err error
	switch env.Type {
	case protocol.MsgPing:
		c.send(protocol.MsgPong, &protocol.PongResp{})
	case protocol.MsgLogin:
		err = s.handleLogin(c, env)
	case protocol.MsgRegister:
		err = s.handleRegister(c, env)
	case protocol.MsgCreateRoom:
		err = s.handleCreateRoom(c, env)
	case protocol.MsgJoinRoom:
		err = s.handleJoinRoom(c, env)
	case protocol.MsgLeaveRoom:
		err = s.handleLeaveRoom(c, env)
	case protocol.MsgRoomList:
		s.handleRoomList(c)
	case protocol.MsgMove:
		err = s.handleMove(c, env)
	case protocol.MsgForfeit:
		err = s.handleForfeit(c, env)
	case protocol.MsgLeaderboardReq:
		err = s.handleLeaderboard(c, env)
	case protocol.MsgUserStatsReq:
		err = s.handleUserStats(c, env)
	default:
		c.send(protocol.MsgError, &protocol.ErrorResp{
			Code:    400,
			Message: fmt.Sprintf("unknown message type %d", env.Type),
		})
	}
	if err != nil {
		s.logger.Warn("handler failed", slog.Int("type", int(env.Type)), slog.String("error", err.Error()))
		c.send(protocol.MsgError, &protocol.ErrorResp{Code: 400, Message: "malformed request"})
	}
}

func (s *Server) handleLogin(c *conn, env *protocol.Envelope) error {
	var req protocol.LoginReq
	if err := env.Decode(&req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var user string
	switch {
	case req.Token != "":
		u, ok := s.tokens[req.Token]
		if !ok {
			c.send(protocol.MsgLoginResp, &protocol.LoginResp{Code: 401, Message: "invalid token"})
			return nil
		}
		user = u
	default:
		pass, ok := s.accounts[req.Username]
		if !ok || pass != req.Password {
			c.send(protocol.MsgLoginResp, &protocol.LoginResp{Code: 401, Message: "invalid username or password"})
			return nil
		}
		user = req.Username
	}

	token := uuid.NewString()
	s.tokens[token] = user
	c.user = user
	if _, ok := s.stats[user]; !ok {
		s.stats[user] = &playerStats{}
	}

	c.send(protocol.MsgLoginResp, &protocol.LoginResp{
		Code:   protocol.StatusOK,
		UserID: user,
		Token:  token,
	})
	return nil
}

func (s *Server) handleRegister(c *conn, env *protocol.Envelope) error {
	var req protocol.RegisterReq
	if err := env.Decode(&req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Username == "" || req.Password == "" {
		c.send(protocol.MsgRegisterResp, &protocol.RegisterResp{Code: 400, Message: "username and password required"})
		return nil
	}
	if _, exists := s.accounts[req.Username]; exists {
		c.send(protocol.MsgRegisterResp, &protocol.RegisterResp{Code: 409, Message: "username already exists"})
		return nil
	}

	s.accounts[req.Username] = req.Password
	s.stats[req.Username] = &playerStats{}
	c.send(protocol.MsgRegisterResp, &protocol.RegisterResp{Code: protocol.StatusOK})
	return nil
}

func (s *Server) handleCreateRoom(c *conn, env *protocol.Envelope) error {
	var req protocol.CreateRoomReq
	if err := env.Decode(&req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c.user == "" {
		c.send(protocol.MsgCreateRoomResp, &protocol.CreateRoomResp{Code: 401, Message: "not logged in"})
		return nil
	}
	if s.roomOf(c) != nil {
		c.send(protocol.MsgCreateRoomResp, &protocol.CreateRoomResp{Code: 400, Message: "already in a room"})
		return nil
	}

	s.nextRoomID++
	r := &room{
		id:      s.nextRoomID,
		name:    req.RoomName,
		creator: c.user,
		seats:   []*conn{c},
	}
	s.rooms[r.id] = r

	c.send(protocol.MsgCreateRoomResp, &protocol.CreateRoomResp{
		Code:   protocol.StatusOK,
		RoomID: r.id,
	})
	return nil
}

func (s *Server) handleJoinRoom(c *conn, env *protocol.Envelope) error {
	var req protocol.JoinRoomReq
	if err := env.Decode(&req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c.user == "" {
		c.send(protocol.MsgJoinRoomResp, &protocol.JoinRoomResp{Code: 401, Message: "not logged in"})
		return nil
	}
	r, ok := s.rooms[req.RoomID]
	if !ok {
		c.send(protocol.MsgJoinRoomResp, &protocol.JoinRoomResp{Code: 404, Message: "room not found"})
		return nil
	}
	if len(r.seats) >= 2 {
		c.send(protocol.MsgJoinRoomResp, &protocol.JoinRoomResp{Code: 400, Message: "room is full"})
		return nil
	}

	r.seats = append(r.seats, c)
	c.send(protocol.MsgJoinRoomResp, &protocol.JoinRoomResp{
		Code:   protocol.StatusOK,
		RoomID: r.id,
	})
	r.seats[0].send(protocol.MsgPlayerJoin, &protocol.PlayerJoin{
		RoomID:   r.id,
		UserID:   c.user,
		Username: c.user,
	})

	// A full room starts immediately; the creator holds the first turn.
	r.game = newGame()
	start := &protocol.GameStart{
		RoomID:      r.id,
		Players:     r.playerNames(),
		FirstPlayer: r.seats[0].user,
	}
	for _, seat := range r.seats {
		seat.send(protocol.MsgGameStart, start)
	}
	return nil
}

func (s *Server) handleLeaveRoom(c *conn, env *protocol.Envelope) error {
	var req protocol.LeaveRoomReq
	if err := env.Decode(&req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.roomOf(c)
	if r == nil || r.id != req.RoomID {
		c.send(protocol.MsgLeaveRoomResp, &protocol.LeaveRoomResp{Code: 404, Message: "not in that room"})
		return nil
	}

	s.removeFromRoom(r, c, "left")
	c.send(protocol.MsgLeaveRoomResp, &protocol.LeaveRoomResp{Code: protocol.StatusOK})
	return nil
}

func (s *Server) handleRoomList(c *conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rooms := make([]*protocol.RoomInfo, 0, len(ids))
	for _, id := range ids {
		r := s.rooms[id]
		status := 0
		if r.game != nil && r.game.active {
			status = 1
		}
		rooms = append(rooms, &protocol.RoomInfo{
			RoomID:    r.id,
			RoomName:  r.name,
			Players:   r.playerNames(),
			CreatorID: r.creator,
			Status:    status,
		})
	}

	c.send(protocol.MsgRoomListResp, &protocol.RoomListResp{
		Code:  protocol.StatusOK,
		Rooms: rooms,
	})
}

func (s *Server) handleMove(c *conn, env *protocol.Envelope) error {
	var req protocol.MoveReq
	if err := env.Decode(&req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.roomOf(c)
	if r == nil || r.game == nil || !r.game.active {
		c.send(protocol.MsgMoveResp, &protocol.MoveResp{Code: 400, Message: "no game in progress"})
		return nil
	}
	seat := r.seatIndex(c)
	if r.game.turn != seat {
		c.send(protocol.MsgMoveResp, &protocol.MoveResp{Code: 400, Message: "not your turn"})
		return nil
	}
	if !r.game.inBounds(req.X, req.Y) {
		c.send(protocol.MsgMoveResp, &protocol.MoveResp{Code: 400, Message: "move out of bounds"})
		return nil
	}
	if r.game.board[req.X][req.Y] != 0 {
		c.send(protocol.MsgMoveResp, &protocol.MoveResp{Code: 400, Message: "cell occupied"})
		return nil
	}

	r.game.place(seat, req.X, req.Y)
	c.send(protocol.MsgMoveResp, &protocol.MoveResp{
		Code: protocol.StatusOK, X: req.X, Y: req.Y, Player: c.user,
	})

	line := r.game.winLine(req.X, req.Y)
	next := (seat + 1) % len(r.seats)
	if line == nil {
		r.game.turn = next
	}

	update := &protocol.BoardUpdate{
		RoomID:        r.id,
		Board:         r.game.snapshot(),
		LastX:         req.X,
		LastY:         req.Y,
		LastPlayer:    c.user,
		CurrentPlayer: r.seats[r.game.turn].user,
	}
	for _, occupant := range r.seats {
		occupant.send(protocol.MsgBoardUpdate, update)
	}

	if line != nil {
		s.concludeGame(r, c.user, line)
	}
	return nil
}

func (s *Server) handleForfeit(c *conn, env *protocol.Envelope) error {
	var req protocol.ForfeitReq
	if err := env.Decode(&req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.roomOf(c)
	if r == nil || r.game == nil || !r.game.active {
		c.send(protocol.MsgForfeitResp, &protocol.ForfeitResp{Code: 400, Message: "no game in progress"})
		return nil
	}

	winner := r.seats[(r.seatIndex(c)+1)%len(r.seats)].user
	c.send(protocol.MsgForfeitResp, &protocol.ForfeitResp{Code: protocol.StatusOK, Winner: winner})
	s.concludeGame(r, winner, nil)
	return nil
}

func (s *Server) handleLeaderboard(c *conn, env *protocol.Envelope) error {
	var req protocol.LeaderboardReq
	if err := env.Decode(&req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	type entry struct {
		user  string
		stats *playerStats
	}
	entries := make([]entry, 0, len(s.stats))
	for user, st := range s.stats {
		entries = append(entries, entry{user, st})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].stats.Score != entries[j].stats.Score {
			return entries[i].stats.Score > entries[j].stats.Score
		}
		return entries[i].user < entries[j].user
	})

	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	ranks := make([]*protocol.RankEntry, 0, limit)
	for i, e := range entries {
		if i < req.Offset {
			continue
		}
		if len(ranks) >= limit {
			break
		}
		ranks = append(ranks, &protocol.RankEntry{
			UserID:    e.user,
			Username:  e.user,
			Score:     e.stats.Score,
			WinCount:  e.stats.WinCount,
			LoseCount: e.stats.LoseCount,
			WinRate:   winRate(e.stats),
			Rank:      i + 1,
		})
	}

	c.send(protocol.MsgLeaderboardResp, &protocol.LeaderboardResp{
		Code:  protocol.StatusOK,
		Ranks: ranks,
	})
	return nil
}

func (s *Server) handleUserStats(c *conn, env *protocol.Envelope) error {
	var req protocol.UserStatsReq
	if err := env.Decode(&req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user := req.UserID
	if user == "" {
		user = c.user
	}
	st, ok := s.stats[user]
	if !ok {
		c.send(protocol.MsgUserStatsResp, &protocol.UserStatsResp{Code: 404, Message: "unknown user"})
		return nil
	}

	c.send(protocol.MsgUserStatsResp, &protocol.UserStatsResp{
		Code:      protocol.StatusOK,
		UserID:    user,
		Username:  user,
		Score:     st.Score,
		WinCount:  st.WinCount,
		LoseCount: st.LoseCount,
		WinRate:   winRate(st),
		Rank:      s.rankOf(user),
	})
	return nil
}

// concludeGame ends the room's match, broadcasts the result, and
// applies the stats delta. Caller holds s.mu.
func (s *Server) concludeGame(r *room, winner string, line []int) {
	r.game.active = false

	over := &protocol.GameOver{RoomID: r.id, Winner: winner, WinLine: line}
	for _, seat := range r.seats {
		seat.send(protocol.MsgGameOver, over)
	}

	for _, seat := range r.seats {
		st, ok := s.stats[seat.user]
		if !ok {
			continue
		}
		if seat.user == winner {
			st.WinCount++
			st.Score += 10
		} else {
			st.LoseCount++
		}
	}
}

// removeFromRoom unseats the player, ending any running game in the
// opponent's favor, and deletes the room when it empties. Caller holds
// s.mu.
func (s *Server) removeFromRoom(r *room, c *conn, reason string) {
	seat := r.seatIndex(c)
	if seat < 0 {
		return
	}

	if r.game != nil && r.game.active && len(r.seats) == 2 {
		winner := r.seats[(seat+1)%2].user
		s.concludeGame(r, winner, nil)
	}

	r.seats = append(r.seats[:seat], r.seats[seat+1:]...)
	if len(r.seats) == 0 {
		delete(s.rooms, r.id)
		return
	}
	for _, other := range r.seats {
		other.send(protocol.MsgPlayerLeave, &protocol.PlayerLeave{
			RoomID:   r.id,
			UserID:   c.user,
			Username: c.user,
			Reason:   reason,
		})
	}
}

// disconnect cleans up after a dropped connection
func (s *Server) disconnect(c *conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r := s.roomOf(c); r != nil {
		s.removeFromRoom(r, c, "disconnected")
	}
}

// roomOf returns the room the connection is seated in. Caller holds s.mu.
func (s *Server) roomOf(c *conn) *room {
	for _, r := range s.rooms {
		for _, seat := range r.seats {
			if seat == c {
				return r
			}
		}
	}
	return nil
}

func (s *Server) rankOf(user string) int {
	type entry struct {
		user  string
		score int
	}
	entries := make([]entry, 0, len(s.stats))
	for u, st := range s.stats {
		entries = append(entries, entry{u, st.Score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].user < entries[j].user
	})
	for i, e := range entries {
		if e.user == user {
			return i + 1
		}
	}
	return 0
}

func winRate(st *playerStats) string {
	total := st.WinCount + st.LoseCount
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(st.WinCount)/float64(total)*100)
}
