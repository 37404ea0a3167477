package client

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/mcoot/gomokuclient-go/internal/model"
	"github.com/mcoot/gomokuclient-go/internal/protocol"
)

// CreateRoom asks the server to create a room with the given name
func (c *Client) CreateRoom(name string) error {
	if strings.TrimSpace(name) == "" {
		c.notifier.Notify("Please enter a room name")
		return model.ErrEmptyRoomName
	}

	c.mu.Lock()
	authed := c.session != nil
	c.mu.Unlock()
	if !authed {
		return model.ErrNotAuthenticated
	}

	c.conn.Send(protocol.MsgCreateRoom, &protocol.CreateRoomReq{RoomName: name})
	return nil
}

// JoinRoom asks the server to seat the local user in the given room
func (c *Client) JoinRoom(id model.RoomID) error {
	c.mu.Lock()
	authed := c.session != nil
	c.mu.Unlock()
	if !authed {
		return model.ErrNotAuthenticated
	}

	c.conn.Send(protocol.MsgJoinRoom, &protocol.JoinRoomReq{RoomID: int64(id)})
	return nil
}

// LeaveRoom asks the server to release the local user's seat
func (c *Client) LeaveRoom() error {
	c.mu.Lock()
	room := c.currentRoom
	c.mu.Unlock()
	if room == nil {
		return model.ErrNoCurrentRoom
	}

	c.conn.Send(protocol.MsgLeaveRoom, &protocol.LeaveRoomReq{RoomID: int64(room.ID)})
	return nil
}

// RequestRoomList asks for a fresh directory snapshot
func (c *Client) RequestRoomList() {
	c.conn.Send(protocol.MsgRoomList, &protocol.RoomListReq{})
}

// RequestLeaderboard asks for the top entries of the leaderboard
func (c *Client) RequestLeaderboard(limit int) {
	c.conn.Send(protocol.MsgLeaderboardReq, &protocol.LeaderboardReq{Limit: limit})
}

// RequestStats asks for the local user's stats
func (c *Client) RequestStats() error {
	c.mu.Lock()
	userID := c.localUser()
	c.mu.Unlock()
	if userID == "" {
		return model.ErrNotAuthenticated
	}
	c.conn.Send(protocol.MsgUserStatsReq, &protocol.UserStatsReq{UserID: string(userID)})
	return nil
}

// handleCreateRoomResp establishes the current room with the local user
// in the first seat and the second seat empty until a join notification
// fills it
func (c *Client) handleCreateRoomResp(payload json.RawMessage) {
	var resp protocol.CreateRoomResp
	if err := json.Unmarshal(payload, &resp); err != nil {
		c.logger.Warn("malformed create room response", slog.String("error", err.Error()))
		return
	}

	if resp.Code != protocol.StatusOK {
		c.notifier.Notify(resp.Message)
		return
	}

	c.mu.Lock()
	room := model.CurrentRoom{ID: model.RoomID(resp.RoomID)}
	room.Players[0] = string(c.localUser())
	c.currentRoom = &room
	c.mu.Unlock()

	c.emit(model.Event{
		Type:    model.EventRoomEntered,
		Payload: model.RoomEnteredPayload{Room: room},
	})
}

// handleJoinRoomResp establishes the current room and immediately
// re-requests the directory to keep it consistent
func (c *Client) handleJoinRoomResp(payload json.RawMessage) {
	var resp protocol.JoinRoomResp
	if err := json.Unmarshal(payload, &resp); err != nil {
		c.logger.Warn("malformed join room response", slog.String("error", err.Error()))
		return
	}

	if resp.Code != protocol.StatusOK {
		c.notifier.Notify(resp.Message)
		return
	}

	c.mu.Lock()
	room := model.CurrentRoom{ID: model.RoomID(resp.RoomID)}
	room.Players[0] = string(c.localUser())
	c.currentRoom = &room
	c.mu.Unlock()

	c.emit(model.Event{
		Type:    model.EventRoomEntered,
		Payload: model.RoomEnteredPayload{Room: room},
	})
	c.RequestRoomList()
}

// handleLeaveRoomResp clears the current room unconditionally, without
// distinguishing success from failure, then refreshes the directory.
// Repeated leaves are idempotent.
func (c *Client) handleLeaveRoomResp(payload json.RawMessage) {
	var resp protocol.LeaveRoomResp
	if err := json.Unmarshal(payload, &resp); err != nil {
		c.logger.Warn("malformed leave room response", slog.String("error", err.Error()))
		return
	}

	c.mu.Lock()
	c.currentRoom = nil
	c.mu.Unlock()

	c.emit(model.Event{Type: model.EventRoomLeft})
	c.RequestRoomList()
}

// handleRoomListResp replaces the directory snapshot wholesale; there is
// no per-room diffing or merging
func (c *Client) handleRoomListResp(payload json.RawMessage) {
	var resp protocol.RoomListResp
	if err := json.Unmarshal(payload, &resp); err != nil {
		c.logger.Warn("malformed room list response", slog.String("error", err.Error()))
		return
	}
	if resp.Code != protocol.StatusOK {
		c.notifier.Notify(resp.Message)
		return
	}

	rooms := make([]model.Room, 0, len(resp.Rooms))
	for _, r := range resp.Rooms {
		players := make([]model.UserID, 0, len(r.Players))
		for _, p := range r.Players {
			players = append(players, model.UserID(p))
		}
		rooms = append(rooms, model.Room{
			ID:        model.RoomID(r.RoomID),
			Name:      r.RoomName,
			Players:   players,
			CreatorID: model.UserID(r.CreatorID),
			Status:    r.Status,
		})
	}
	directory := model.Directory{Rooms: rooms}

	c.mu.Lock()
	c.directory = directory
	c.mu.Unlock()

	c.emit(model.Event{
		Type:    model.EventDirectoryUpdated,
		Payload: model.DirectoryUpdatedPayload{Directory: directory},
	})
}

// handlePlayerJoin fills the second seat of the currently-viewed room.
// Join notifications and directory refreshes are unordered; last write
// wins.
func (c *Client) handlePlayerJoin(payload json.RawMessage) {
	var msg protocol.PlayerJoin
	if err := json.Unmarshal(payload, &msg); err != nil {
		c.logger.Warn("malformed player join", slog.String("error", err.Error()))
		return
	}

	c.mu.Lock()
	if c.currentRoom == nil {
		c.mu.Unlock()
		return
	}
	c.currentRoom.Players[1] = msg.Username
	c.mu.Unlock()

	c.emit(model.Event{
		Type:    model.EventOpponentJoined,
		Payload: model.OpponentJoinedPayload{Username: msg.Username},
	})
}

// handlePlayerLeave empties the second seat of the currently-viewed room
func (c *Client) handlePlayerLeave(payload json.RawMessage) {
	var msg protocol.PlayerLeave
	if err := json.Unmarshal(payload, &msg); err != nil {
		c.logger.Warn("malformed player leave", slog.String("error", err.Error()))
		return
	}

	c.mu.Lock()
	if c.currentRoom == nil {
		c.mu.Unlock()
		return
	}
	c.currentRoom.Players[1] = ""
	c.mu.Unlock()

	c.emit(model.Event{Type: model.EventOpponentLeft})
}
