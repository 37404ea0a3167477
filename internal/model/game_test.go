package model

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type GameSuite struct {
	suite.Suite
	game *GameSession
}

func TestGameSuite(t *testing.T) {
	suite.Run(t, new(GameSuite))
}

func (s *GameSuite) SetupTest() {
	s.game = &GameSession{
		RoomID:        42,
		Players:       []UserID{"alice", "bob"},
		CurrentPlayer: "alice",
		Board:         NewBoard(),
		Status:        GameStatusActive,
	}
}

func (s *GameSuite) TestColorAssignmentIsPositional() {
	s.Equal(Black, s.game.ColorOf("alice"))
	s.Equal(White, s.game.ColorOf("bob"))
}

func (s *GameSuite) TestColorAssignmentIgnoresFirstPlayer() {
	// Color follows seat order even when the second seat moves first.
	s.game.CurrentPlayer = "bob"
	s.Equal(Black, s.game.ColorOf("alice"))
	s.Equal(White, s.game.ColorOf("bob"))
}

func (s *GameSuite) TestColorOfUnseatedPlayer() {
	s.Equal(Empty, s.game.ColorOf("carol"))
}

func (s *GameSuite) TestIsTurn() {
	s.True(s.game.IsTurn("alice"))
	s.False(s.game.IsTurn("bob"))
}

func (s *GameSuite) TestIsTurnFalseWhenNotActive() {
	s.game.Status = GameStatusOver
	s.False(s.game.IsTurn("alice"))
}

func (s *GameSuite) TestOutcomeForWinner() {
	s.game.Winner = "alice"
	s.Equal(OutcomeWin, s.game.OutcomeFor("alice"))
}

func (s *GameSuite) TestOutcomeForLoser() {
	s.game.Winner = "bob"
	s.Equal(OutcomeLoss, s.game.OutcomeFor("alice"))
}

func (s *GameSuite) TestOpponent() {
	s.Equal(UserID("bob"), s.game.Opponent("alice"))
	s.Equal(UserID("alice"), s.game.Opponent("bob"))
}
