package testserver

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gomokuclient-go/internal/protocol"
	"github.com/mcoot/gomokuclient-go/internal/testutil"
)

type ServerSuite struct {
	suite.Suite
	server   *Server
	httpSrv  *httptest.Server
	endpoint string
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	s.server = NewServer(testutil.NopLogger())
	s.httpSrv = httptest.NewServer(s.server.Router())
	s.endpoint = strings.Replace(s.httpSrv.URL, "http", "ws", 1) + "/ws"
}

func (s *ServerSuite) TearDownTest() {
	s.httpSrv.Close()
}

// wsClient is a bare websocket client for driving the server directly
type wsClient struct {
	s    *ServerSuite
	conn *websocket.Conn
}

func (s *ServerSuite) connect() *wsClient {
	conn, _, err := websocket.DefaultDialer.Dial(s.endpoint, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return &wsClient{s: s, conn: conn}
}

func (c *wsClient) send(msgType protocol.MsgType, payload any) {
	env, err := protocol.NewEnvelope(msgType, payload)
	c.s.Require().NoError(err)
	data, err := env.Encode()
	c.s.Require().NoError(err)
	c.s.Require().NoError(c.conn.WriteMessage(websocket.TextMessage, data))
}

// expect reads frames until one of the wanted type arrives
func (c *wsClient) expect(msgType protocol.MsgType) *protocol.Envelope {
	deadline := time.Now().Add(5 * time.Second)
	for {
		c.s.Require().NoError(c.conn.SetReadDeadline(deadline))
		_, data, err := c.conn.ReadMessage()
		c.s.Require().NoError(err)
		env, err := protocol.DecodeEnvelope(data)
		c.s.Require().NoError(err)
		if env.Type == msgType {
			return env
		}
	}
}

// login registers (ignoring conflicts) and authenticates the user
func (c *wsClient) login(user string) {
	c.send(protocol.MsgRegister, &protocol.RegisterReq{Username: user, Password: "pw"})
	c.expect(protocol.MsgRegisterResp)
	c.send(protocol.MsgLogin, &protocol.LoginReq{Username: user, Password: "pw"})
	resp := c.expect(protocol.MsgLoginResp)
	var login protocol.LoginResp
	c.s.Require().NoError(resp.Decode(&login))
	c.s.Require().Equal(protocol.StatusOK, login.Code)
}

func (s *ServerSuite) TestPingPong() {
	c := s.connect()
	c.send(protocol.MsgPing, &protocol.PingReq{})
	c.expect(protocol.MsgPong)
}

func (s *ServerSuite) TestRegisterRejectsDuplicate() {
	c := s.connect()
	c.send(protocol.MsgRegister, &protocol.RegisterReq{Username: "alice", Password: "pw"})
	c.expect(protocol.MsgRegisterResp)

	c.send(protocol.MsgRegister, &protocol.RegisterReq{Username: "alice", Password: "other"})
	resp := c.expect(protocol.MsgRegisterResp)
	var reg protocol.RegisterResp
	s.Require().NoError(resp.Decode(&reg))
	s.Equal(409, reg.Code)
}

func (s *ServerSuite) TestLoginRejectsBadPassword() {
	c := s.connect()
	c.send(protocol.MsgRegister, &protocol.RegisterReq{Username: "alice", Password: "pw"})
	c.expect(protocol.MsgRegisterResp)

	c.send(protocol.MsgLogin, &protocol.LoginReq{Username: "alice", Password: "wrong"})
	resp := c.expect(protocol.MsgLoginResp)
	var login protocol.LoginResp
	s.Require().NoError(resp.Decode(&login))
	s.Equal(401, login.Code)
}

func (s *ServerSuite) TestTokenLogin() {
	c := s.connect()
	c.login("alice")
	c.send(protocol.MsgLogin, &protocol.LoginReq{Username: "alice", Password: "pw"})
	resp := c.expect(protocol.MsgLoginResp)
	var first protocol.LoginResp
	s.Require().NoError(resp.Decode(&first))

	other := s.connect()
	other.send(protocol.MsgLogin, &protocol.LoginReq{Token: first.Token})
	resp = other.expect(protocol.MsgLoginResp)
	var second protocol.LoginResp
	s.Require().NoError(resp.Decode(&second))
	s.Equal(protocol.StatusOK, second.Code)
	s.Equal("alice", second.UserID)
}

func (s *ServerSuite) TestSecondJoinStartsGame() {
	alice := s.connect()
	alice.login("alice")
	alice.send(protocol.MsgCreateRoom, &protocol.CreateRoomReq{RoomName: "r"})
	resp := alice.expect(protocol.MsgCreateRoomResp)
	var created protocol.CreateRoomResp
	s.Require().NoError(resp.Decode(&created))
	s.Require().Equal(protocol.StatusOK, created.Code)

	bob := s.connect()
	bob.login("bob")
	bob.send(protocol.MsgJoinRoom, &protocol.JoinRoomReq{RoomID: created.RoomID})
	bob.expect(protocol.MsgJoinRoomResp)

	alice.expect(protocol.MsgPlayerJoin)

	var start protocol.GameStart
	s.Require().NoError(alice.expect(protocol.MsgGameStart).Decode(&start))
	s.Equal([]string{"alice", "bob"}, start.Players)
	s.Equal("alice", start.FirstPlayer)
	bob.expect(protocol.MsgGameStart)
}

func (s *ServerSuite) TestFiveInARowWins() {
	alice := s.connect()
	alice.login("alice")
	alice.send(protocol.MsgCreateRoom, &protocol.CreateRoomReq{RoomName: "r"})
	var created protocol.CreateRoomResp
	s.Require().NoError(alice.expect(protocol.MsgCreateRoomResp).Decode(&created))

	bob := s.connect()
	bob.login("bob")
	bob.send(protocol.MsgJoinRoom, &protocol.JoinRoomReq{RoomID: created.RoomID})
	alice.expect(protocol.MsgGameStart)
	bob.expect(protocol.MsgGameStart)

	// Alice builds a horizontal run; bob plays a parallel losing line.
	for i := 0; i < 5; i++ {
		alice.send(protocol.MsgMove, &protocol.MoveReq{RoomID: created.RoomID, X: i, Y: 0})
		alice.expect(protocol.MsgBoardUpdate)
		bob.expect(protocol.MsgBoardUpdate)
		if i == 4 {
			break
		}
		bob.send(protocol.MsgMove, &protocol.MoveReq{RoomID: created.RoomID, X: i, Y: 10})
		alice.expect(protocol.MsgBoardUpdate)
		bob.expect(protocol.MsgBoardUpdate)
	}

	var over protocol.GameOver
	s.Require().NoError(alice.expect(protocol.MsgGameOver).Decode(&over))
	s.Equal("alice", over.Winner)
	s.Len(over.WinLine, 10)
	bob.expect(protocol.MsgGameOver)
}

func (s *ServerSuite) TestMoveOutOfTurnRejected() {
	alice := s.connect()
	alice.login("alice")
	alice.send(protocol.MsgCreateRoom, &protocol.CreateRoomReq{RoomName: "r"})
	var created protocol.CreateRoomResp
	s.Require().NoError(alice.expect(protocol.MsgCreateRoomResp).Decode(&created))

	bob := s.connect()
	bob.login("bob")
	bob.send(protocol.MsgJoinRoom, &protocol.JoinRoomReq{RoomID: created.RoomID})
	bob.expect(protocol.MsgGameStart)

	bob.send(protocol.MsgMove, &protocol.MoveReq{RoomID: created.RoomID, X: 0, Y: 0})
	var move protocol.MoveResp
	s.Require().NoError(bob.expect(protocol.MsgMoveResp).Decode(&move))
	s.Equal(400, move.Code)
}

func (s *ServerSuite) TestForfeitAwardsOpponent() {
	alice := s.connect()
	alice.login("alice")
	alice.send(protocol.MsgCreateRoom, &protocol.CreateRoomReq{RoomName: "r"})
	var created protocol.CreateRoomResp
	s.Require().NoError(alice.expect(protocol.MsgCreateRoomResp).Decode(&created))

	bob := s.connect()
	bob.login("bob")
	bob.send(protocol.MsgJoinRoom, &protocol.JoinRoomReq{RoomID: created.RoomID})
	bob.expect(protocol.MsgGameStart)

	alice.send(protocol.MsgForfeit, &protocol.ForfeitReq{RoomID: created.RoomID})
	var over protocol.GameOver
	s.Require().NoError(alice.expect(protocol.MsgGameOver).Decode(&over))
	s.Equal("bob", over.Winner)
}

func (s *ServerSuite) TestLeaveEndsActiveGame() {
	alice := s.connect()
	alice.login("alice")
	alice.send(protocol.MsgCreateRoom, &protocol.CreateRoomReq{RoomName: "r"})
	var created protocol.CreateRoomResp
	s.Require().NoError(alice.expect(protocol.MsgCreateRoomResp).Decode(&created))

	bob := s.connect()
	bob.login("bob")
	bob.send(protocol.MsgJoinRoom, &protocol.JoinRoomReq{RoomID: created.RoomID})
	bob.expect(protocol.MsgGameStart)

	bob.send(protocol.MsgLeaveRoom, &protocol.LeaveRoomReq{RoomID: created.RoomID})
	var over protocol.GameOver
	s.Require().NoError(alice.expect(protocol.MsgGameOver).Decode(&over))
	s.Equal("alice", over.Winner)
	alice.expect(protocol.MsgPlayerLeave)
}

func (s *ServerSuite) TestRoomListSnapshot() {
	alice := s.connect()
	alice.login("alice")
	alice.send(protocol.MsgCreateRoom, &protocol.CreateRoomReq{RoomName: "first"})
	alice.expect(protocol.MsgCreateRoomResp)

	bob := s.connect()
	bob.login("bob")
	bob.send(protocol.MsgRoomList, &protocol.RoomListReq{})
	var list protocol.RoomListResp
	s.Require().NoError(bob.expect(protocol.MsgRoomListResp).Decode(&list))
	s.Require().Len(list.Rooms, 1)
	s.Equal("first", list.Rooms[0].RoomName)
	s.Equal([]string{"alice"}, list.Rooms[0].Players)
}

func (s *ServerSuite) TestStatsTrackOutcomes() {
	alice := s.connect()
	alice.login("alice")
	alice.send(protocol.MsgCreateRoom, &protocol.CreateRoomReq{RoomName: "r"})
	var created protocol.CreateRoomResp
	s.Require().NoError(alice.expect(protocol.MsgCreateRoomResp).Decode(&created))

	bob := s.connect()
	bob.login("bob")
	bob.send(protocol.MsgJoinRoom, &protocol.JoinRoomReq{RoomID: created.RoomID})
	bob.expect(protocol.MsgGameStart)

	bob.send(protocol.MsgForfeit, &protocol.ForfeitReq{RoomID: created.RoomID})
	alice.expect(protocol.MsgGameOver)

	alice.send(protocol.MsgUserStatsReq, &protocol.UserStatsReq{UserID: "alice"})
	var stats protocol.UserStatsResp
	s.Require().NoError(alice.expect(protocol.MsgUserStatsResp).Decode(&stats))
	s.Equal(1, stats.WinCount)
	s.Equal(10, stats.Score)

	alice.send(protocol.MsgLeaderboardReq, &protocol.LeaderboardReq{Limit: 10})
	var board protocol.LeaderboardResp
	s.Require().NoError(alice.expect(protocol.MsgLeaderboardResp).Decode(&board))
	s.Require().NotEmpty(board.Ranks)
	s.Equal("alice", board.Ranks[0].Username)
}

func (s *ServerSuite) TestUnknownTypeGetsError() {
	c := s.connect()
	c.send(protocol.MsgType(12345), nil)
	env := c.expect(protocol.MsgError)
	var errResp protocol.ErrorResp
	s.Require().NoError(env.Decode(&errResp))
	s.Contains(errResp.Message, "unknown message type")
}
