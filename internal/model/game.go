package model

// GameStatus represents the current phase of a game session
type GameStatus string

const (
	GameStatusWaiting GameStatus = "waiting" // No match running
	GameStatusActive  GameStatus = "active"  // Match in progress
	GameStatusOver    GameStatus = "over"    // Match concluded, awaiting return to lobby
)

// Outcome frames a concluded game relative to the local user. The
// protocol carries no draw signal, so there is no third outcome.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

// GameSession is the live state of one in-progress or concluded match.
// Color assignment is positional: Players[0] plays Black, Players[1]
// plays White, fixed for the session's lifetime.
type GameSession struct {
	RoomID        RoomID
	Players       []UserID // ordered pair
	CurrentPlayer UserID   // always one of Players
	Board         Board
	Status        GameStatus
	Winner        UserID // set only when Status is GameStatusOver
	WinLine       []int  // optional winning line, as sent by the server

	// Fields describing the most recent move, from the latest snapshot
	LastX      int
	LastY      int
	LastPlayer UserID
}

// ColorOf returns the stone color assigned to the given player, or Empty
// for anyone not seated in this game
func (g *GameSession) ColorOf(u UserID) Stone {
	for i, p := range g.Players {
		if p == u {
			if i == 0 {
				return Black
			}
			return White
		}
	}
	return Empty
}

// IsTurn reports whether it is currently the given player's turn
func (g *GameSession) IsTurn(u UserID) bool {
	return g.Status == GameStatusActive && g.CurrentPlayer == u
}

// OutcomeFor frames the result relative to the given user
func (g *GameSession) OutcomeFor(u UserID) Outcome {
	if g.Winner == u {
		return OutcomeWin
	}
	return OutcomeLoss
}

// Opponent returns the other seated player, or "" when u is not seated
func (g *GameSession) Opponent(u UserID) UserID {
	for _, p := range g.Players {
		if p != u {
			return p
		}
	}
	return ""
}
