package protocol

// MsgType is the numeric message type code carried in every envelope.
type MsgType uint16

const (
	MsgPing            MsgType = 1000
	MsgPong            MsgType = 1001
	MsgLogin           MsgType = 2001
	MsgLoginResp       MsgType = 2002
	MsgRegister        MsgType = 2003
	MsgRegisterResp    MsgType = 2004
	MsgCreateRoom      MsgType = 3001
	MsgCreateRoomResp  MsgType = 3011
	MsgJoinRoom        MsgType = 3002
	MsgJoinRoomResp    MsgType = 3012
	MsgLeaveRoom       MsgType = 3003
	MsgLeaveRoomResp   MsgType = 3013
	MsgRoomList        MsgType = 3004
	MsgRoomListResp    MsgType = 3014
	MsgPlayerJoin      MsgType = 3015
	MsgPlayerLeave     MsgType = 3016
	MsgMove            MsgType = 4001
	MsgMoveResp        MsgType = 4002
	MsgGameOver        MsgType = 4003
	MsgGameStart       MsgType = 4004
	MsgBoardUpdate     MsgType = 4005
	MsgForfeit         MsgType = 4006
	MsgForfeitResp     MsgType = 4007
	MsgLeaderboardReq  MsgType = 5001
	MsgLeaderboardResp MsgType = 5002
	MsgUserStatsReq    MsgType = 5003
	MsgUserStatsResp   MsgType = 5004
	MsgError           MsgType = 9999
)

// StatusOK is the success value of the `code` field carried by every
// response payload. Anything else is a server-reported failure.
const StatusOK = 200
