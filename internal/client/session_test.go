package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gomokuclient-go/internal/credentials/memory"
	"github.com/mcoot/gomokuclient-go/internal/dependencies/mocks"
	"github.com/mcoot/gomokuclient-go/internal/model"
	"github.com/mcoot/gomokuclient-go/internal/protocol"
	"github.com/mcoot/gomokuclient-go/internal/testutil"
)

type SessionSuite struct {
	suite.Suite
	conn     *fakeConnector
	creds    *memory.Store
	notifier *recordingNotifier
	clock    *mocks.MockClock
	client   *Client
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.conn = newFakeConnector()
	s.creds = memory.New()
	s.notifier = newRecordingNotifier()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	var err error
	s.client, err = New(Config{
		Transport:   s.conn,
		Credentials: s.creds,
		Notifier:    s.notifier,
		Logger:      testutil.NopLogger(),
		Clock:       s.clock,
	})
	s.Require().NoError(err)
	s.conn.Open()
	s.conn.Reset()
}

func (s *SessionSuite) login() {
	s.Require().NoError(s.client.Login("alice", "pw"))
	s.conn.Deliver(protocol.MsgLoginResp, &protocol.LoginResp{
		Code: protocol.StatusOK, UserID: "alice", Token: "T1",
	})
	s.conn.Reset()
}

func (s *SessionSuite) TestLoginSendsRequest() {
	s.Require().NoError(s.client.Login("alice", "pw"))

	sent := s.conn.Sent()
	s.Require().Len(sent, 1)
	s.Equal(protocol.MsgLogin, sent[0].Type)
	s.Equal(&protocol.LoginReq{Username: "alice", Password: "pw"}, sent[0].Payload)
}

func (s *SessionSuite) TestLoginEmptyCredentialsRejectedLocally() {
	err := s.client.Login("", "pw")
	s.ErrorIs(err, model.ErrEmptyCredentials)
	s.Empty(s.conn.Sent())
	s.NotEmpty(s.notifier.Messages())
}

func (s *SessionSuite) TestLoginSuccessEstablishesSessionAndCascades() {
	s.Require().NoError(s.client.Login("alice", "pw"))
	s.conn.Reset()

	s.conn.Deliver(protocol.MsgLoginResp, &protocol.LoginResp{
		Code: protocol.StatusOK, UserID: "alice", Token: "T1",
	})

	token, err := s.creds.Get()
	s.Require().NoError(err)
	s.Equal("T1", token)

	session := s.client.Session()
	s.Require().NotNil(session)
	s.Equal(model.UserID("alice"), session.UserID)

	// Exactly three follow-up requests, in order.
	sent := s.conn.Sent()
	s.Require().Len(sent, 3)
	s.Equal(protocol.MsgUserStatsReq, sent[0].Type)
	s.Equal(&protocol.UserStatsReq{UserID: "alice"}, sent[0].Payload)
	s.Equal(protocol.MsgRoomList, sent[1].Type)
	s.Equal(protocol.MsgLeaderboardReq, sent[2].Type)
	s.Equal(&protocol.LeaderboardReq{Limit: 10}, sent[2].Payload)
}

func (s *SessionSuite) TestLoginFailureSurfacesMessage() {
	s.Require().NoError(s.client.Login("alice", "bad"))
	s.conn.Reset()

	s.conn.Deliver(protocol.MsgLoginResp, &protocol.LoginResp{
		Code: 401, Message: "invalid credentials",
	})

	s.Nil(s.client.Session())
	s.Empty(s.conn.Sent())
	s.Contains(s.notifier.Messages(), "invalid credentials")
}

func (s *SessionSuite) TestStoredTokenTriggersReauthOnOpen() {
	s.Require().NoError(s.creds.Set("T1"))

	s.conn.Open()

	sent := s.conn.Sent()
	s.Require().Len(sent, 1)
	s.Equal(protocol.MsgLogin, sent[0].Type)
	s.Equal(&protocol.LoginReq{Token: "T1"}, sent[0].Payload)
}

func (s *SessionSuite) TestOpenWithoutStoredTokenSendsNothing() {
	s.conn.Open()
	s.Empty(s.conn.Sent())
}

func (s *SessionSuite) TestRegisterSuccessDoesNotAutoLogin() {
	s.Require().NoError(s.client.Register("alice", "pw"))
	s.conn.Reset()

	s.conn.Deliver(protocol.MsgRegisterResp, &protocol.RegisterResp{Code: protocol.StatusOK})

	s.Nil(s.client.Session())
	s.Empty(s.conn.Sent())
	s.NotEmpty(s.notifier.Messages())
}

func (s *SessionSuite) TestRegisterFailureSurfacesMessage() {
	s.Require().NoError(s.client.Register("alice", "pw"))
	s.conn.Deliver(protocol.MsgRegisterResp, &protocol.RegisterResp{
		Code: 409, Message: "username taken",
	})

	s.Contains(s.notifier.Messages(), "username taken")
}

func (s *SessionSuite) TestLogoutClearsTokenAndSession() {
	s.login()
	s.Require().NoError(s.client.Logout())

	token, err := s.creds.Get()
	s.Require().NoError(err)
	s.Empty(token)
	s.Nil(s.client.Session())
}

func (s *SessionSuite) TestServerErrorSurfacedAsNotification() {
	s.conn.Deliver(protocol.MsgError, &protocol.ErrorResp{Message: "room is full"})
	s.Contains(s.notifier.Messages(), "room is full")
}

func (s *SessionSuite) TestStatsUpdateStored() {
	s.login()
	s.conn.Deliver(protocol.MsgUserStatsResp, &protocol.UserStatsResp{
		Code: protocol.StatusOK, UserID: "alice", Score: 120, WinCount: 3, WinRate: "75%",
	})

	stats := s.client.Stats()
	s.Require().NotNil(stats)
	s.Equal(120, stats.Score)
	s.Equal("75%", stats.WinRate)
}

func (s *SessionSuite) TestLeaderboardUpdateStored() {
	s.conn.Deliver(protocol.MsgLeaderboardResp, &protocol.LeaderboardResp{
		Code: protocol.StatusOK,
		Ranks: []*protocol.RankEntry{
			{Username: "alice", Score: 120, WinRate: "75%"},
			{Username: "bob", Score: 90, WinRate: "50%"},
		},
	})

	ranks := s.client.Leaderboard()
	s.Require().Len(ranks, 2)
	s.Equal("alice", ranks[0].Username)
}

func (s *SessionSuite) TestPongRecordsTimestamp() {
	s.clock.Set(time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC))
	s.conn.Deliver(protocol.MsgPong, &protocol.PongResp{})

	s.Equal(s.clock.CurrentTime, s.client.LastPong())
}

func (s *SessionSuite) TestUnknownMessageTypeIgnored() {
	// Type 4002 (move ack) has no handler: must be dropped silently.
	s.conn.Deliver(protocol.MsgMoveResp, &protocol.MoveResp{Code: 400, Message: "bad move"})
	s.Empty(s.notifier.Messages())
	s.Empty(s.conn.Sent())
}
