package client

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/mcoot/gomokuclient-go/internal/model"
	"github.com/mcoot/gomokuclient-go/internal/protocol"
)

// Login authenticates with a username and password. Empty credentials
// are rejected locally before anything reaches the wire.
func (c *Client) Login(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		c.notifier.Notify("Please enter a username and password")
		return model.ErrEmptyCredentials
	}
	c.conn.Send(protocol.MsgLogin, &protocol.LoginReq{Username: username, Password: password})
	return nil
}

// Register creates a new account. Success does not log the user in; the
// server confirms and the user logs in explicitly.
func (c *Client) Register(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		c.notifier.Notify("Please enter a username and password")
		return model.ErrEmptyCredentials
	}
	c.conn.Send(protocol.MsgRegister, &protocol.RegisterReq{Username: username, Password: password})
	return nil
}

// Logout clears the persisted token and all session state, returning the
// client to the unauthenticated state. The connection stays up.
func (c *Client) Logout() error {
	if err := c.creds.Clear(); err != nil {
		return err
	}

	c.mu.Lock()
	c.session = nil
	c.stats = nil
	c.directory = model.Directory{}
	c.currentRoom = nil
	c.game = nil
	c.leaderboard = nil
	c.mu.Unlock()

	c.emit(model.Event{Type: model.EventSessionClosed})
	return nil
}

// handleLoginResp finalizes authentication. Success persists the token,
// creates the session, and triggers the refresh cascade; failure
// surfaces the server's message and leaves the session absent.
func (c *Client) handleLoginResp(payload json.RawMessage) {
	var resp protocol.LoginResp
	if err := json.Unmarshal(payload, &resp); err != nil {
		c.logger.Warn("malformed login response", slog.String("error", err.Error()))
		return
	}

	if resp.Code != protocol.StatusOK {
		c.notifier.Notify(resp.Message)
		return
	}

	if err := c.creds.Set(resp.Token); err != nil {
		c.logger.Warn("failed to persist token", slog.String("error", err.Error()))
	}

	c.mu.Lock()
	c.session = &model.Session{UserID: model.UserID(resp.UserID), Token: resp.Token}
	c.refresh()
	c.mu.Unlock()

	c.emit(model.Event{
		Type:    model.EventSessionEstablished,
		Payload: model.SessionEstablishedPayload{UserID: model.UserID(resp.UserID)},
	})
}

func (c *Client) handleRegisterResp(payload json.RawMessage) {
	var resp protocol.RegisterResp
	if err := json.Unmarshal(payload, &resp); err != nil {
		c.logger.Warn("malformed register response", slog.String("error", err.Error()))
		return
	}

	if resp.Code != protocol.StatusOK {
		c.notifier.Notify(resp.Message)
		return
	}

	c.notifier.Notify("Registration successful, please log in")
	c.emit(model.Event{Type: model.EventRegistered})
}

func (c *Client) handleUserStatsResp(payload json.RawMessage) {
	var resp protocol.UserStatsResp
	if err := json.Unmarshal(payload, &resp); err != nil {
		c.logger.Warn("malformed stats response", slog.String("error", err.Error()))
		return
	}
	if resp.Code != protocol.StatusOK {
		return
	}

	stats := model.UserStats{
		UserID:    model.UserID(resp.UserID),
		Username:  resp.Username,
		Score:     resp.Score,
		WinCount:  resp.WinCount,
		LoseCount: resp.LoseCount,
		WinRate:   resp.WinRate,
		Rank:      resp.Rank,
	}

	c.mu.Lock()
	c.stats = &stats
	c.mu.Unlock()

	c.emit(model.Event{
		Type:    model.EventStatsUpdated,
		Payload: model.StatsUpdatedPayload{Stats: stats},
	})
}

func (c *Client) handleLeaderboardResp(payload json.RawMessage) {
	var resp protocol.LeaderboardResp
	if err := json.Unmarshal(payload, &resp); err != nil {
		c.logger.Warn("malformed leaderboard response", slog.String("error", err.Error()))
		return
	}
	if resp.Code != protocol.StatusOK {
		return
	}

	ranks := make([]model.RankEntry, 0, len(resp.Ranks))
	for _, r := range resp.Ranks {
		ranks = append(ranks, model.RankEntry{
			UserID:    model.UserID(r.UserID),
			Username:  r.Username,
			Score:     r.Score,
			WinCount:  r.WinCount,
			LoseCount: r.LoseCount,
			WinRate:   r.WinRate,
			Rank:      r.Rank,
		})
	}

	c.mu.Lock()
	c.leaderboard = ranks
	c.mu.Unlock()

	c.emit(model.Event{
		Type:    model.EventLeaderboardUpdated,
		Payload: model.LeaderboardUpdatedPayload{Ranks: ranks},
	})
}

// handleError surfaces the reserved out-of-band error type as a blocking
// notification
func (c *Client) handleError(payload json.RawMessage) {
	var resp protocol.ErrorResp
	if err := json.Unmarshal(payload, &resp); err != nil {
		c.logger.Warn("malformed error message", slog.String("error", err.Error()))
		return
	}
	c.notifier.Notify(resp.Message)
}
