package client

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/gomokuclient-go/internal/model"
	"github.com/mcoot/gomokuclient-go/internal/protocol"
)

// SubmitMove sends a move for the cell at (x, y). The move is checked
// locally first: there must be an active game, it must be the local
// player's turn, and the target cell must be in bounds and empty. The
// local board is never mutated optimistically; the stone appears only
// when the server echoes a board broadcast.
func (c *Client) SubmitMove(x, y int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.game == nil || c.game.Status != model.GameStatusActive {
		return model.ErrNoActiveGame
	}
	if !c.game.IsTurn(c.localUser()) {
		return model.ErrNotYourTurn
	}
	if !c.game.Board.InBounds(x, y) {
		return model.ErrOutOfBounds
	}
	if !c.game.Board.IsEmpty(x, y) {
		return model.ErrCellOccupied
	}

	c.conn.Send(protocol.MsgMove, &protocol.MoveReq{RoomID: int64(c.game.RoomID), X: x, Y: y})
	return nil
}

// Forfeit concedes the game after user confirmation. The forfeit
// acknowledgment itself is ignored; the subsequent GameOver naming the
// opponent as winner is the sole authoritative outcome signal.
func (c *Client) Forfeit() error {
	c.mu.Lock()
	if c.game == nil || c.game.Status != model.GameStatusActive {
		c.mu.Unlock()
		return model.ErrNoActiveGame
	}
	roomID := c.game.RoomID
	c.mu.Unlock()

	if !c.notifier.Confirm("Forfeit the game?") {
		return model.ErrForfeitDeclined
	}

	c.conn.Send(protocol.MsgForfeit, &protocol.ForfeitReq{RoomID: int64(roomID)})
	return nil
}

// ReturnToLobby leaves a concluded game, discarding the game session and
// the current room, and re-triggers the post-transition refresh cascade
func (c *Client) ReturnToLobby() {
	c.mu.Lock()
	c.game = nil
	c.currentRoom = nil
	c.refresh()
	c.mu.Unlock()

	c.emit(model.Event{Type: model.EventRoomLeft})
}

// handleGameStart initializes a fresh game session: an all-empty board,
// positional colors, and the server-chosen first turn holder
func (c *Client) handleGameStart(payload json.RawMessage) {
	var msg protocol.GameStart
	if err := json.Unmarshal(payload, &msg); err != nil {
		c.logger.Warn("malformed game start", slog.String("error", err.Error()))
		return
	}

	players := make([]model.UserID, 0, len(msg.Players))
	for _, p := range msg.Players {
		players = append(players, model.UserID(p))
	}

	game := &model.GameSession{
		RoomID:        model.RoomID(msg.RoomID),
		Players:       players,
		CurrentPlayer: model.UserID(msg.FirstPlayer),
		Board:         model.NewBoard(),
		Status:        model.GameStatusActive,
	}

	c.mu.Lock()
	c.game = game
	localColor := game.ColorOf(c.localUser())
	c.mu.Unlock()

	c.emit(model.Event{
		Type: model.EventGameStarted,
		Payload: model.GameStartedPayload{
			RoomID:      game.RoomID,
			Players:     players,
			LocalColor:  localColor,
			FirstPlayer: game.CurrentPlayer,
		},
	})
}

// handleBoardUpdate replaces the board wholesale with the received
// snapshot and installs the new turn holder. Updates arriving with no
// game in progress are stale and dropped.
func (c *Client) handleBoardUpdate(payload json.RawMessage) {
	var msg protocol.BoardUpdate
	if err := json.Unmarshal(payload, &msg); err != nil {
		c.logger.Warn("malformed board update", slog.String("error", err.Error()))
		return
	}

	c.mu.Lock()
	if c.game == nil {
		c.mu.Unlock()
		c.logger.Debug("dropping board update with no game in progress")
		return
	}
	c.game.Board = model.BoardFromInts(msg.Board)
	c.game.CurrentPlayer = model.UserID(msg.CurrentPlayer)
	c.game.LastX = msg.LastX
	c.game.LastY = msg.LastY
	c.game.LastPlayer = model.UserID(msg.LastPlayer)
	board := c.game.Board.Clone()
	localTurn := c.game.IsTurn(c.localUser())
	c.mu.Unlock()

	c.emit(model.Event{
		Type: model.EventBoardUpdated,
		Payload: model.BoardUpdatedPayload{
			Board:         board,
			CurrentPlayer: model.UserID(msg.CurrentPlayer),
			LocalTurn:     localTurn,
		},
	})
}

// handleGameOver concludes the game. The outcome is framed relative to
// the local user: win or lose, nothing else.
func (c *Client) handleGameOver(payload json.RawMessage) {
	var msg protocol.GameOver
	if err := json.Unmarshal(payload, &msg); err != nil {
		c.logger.Warn("malformed game over", slog.String("error", err.Error()))
		return
	}

	c.mu.Lock()
	if c.game == nil {
		c.mu.Unlock()
		c.logger.Debug("dropping game over with no game in progress")
		return
	}
	c.game.Status = model.GameStatusOver
	c.game.Winner = model.UserID(msg.Winner)
	c.game.WinLine = msg.WinLine
	outcome := c.game.OutcomeFor(c.localUser())
	c.mu.Unlock()

	c.emit(model.Event{
		Type: model.EventGameEnded,
		Payload: model.GameEndedPayload{
			Winner:  model.UserID(msg.Winner),
			Outcome: outcome,
			WinLine: msg.WinLine,
		},
	})
}
