package protocol

// Payload structs for the message catalogue. User ids are strings on the
// wire; room ids are int64.

// LoginReq authenticates either by username+password or by a previously
// issued token.
type LoginReq struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Token    string `json:"token,omitempty"`
}

type LoginResp struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	UserID  string `json:"user_id,omitempty"`
	Token   string `json:"token,omitempty"`
}

type RegisterReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResp struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

type CreateRoomReq struct {
	RoomName string `json:"room_name"`
}

type CreateRoomResp struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	RoomID  int64  `json:"room_id,omitempty"`
}

type JoinRoomReq struct {
	RoomID int64 `json:"room_id"`
}

type JoinRoomResp struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	RoomID  int64  `json:"room_id,omitempty"`
}

type LeaveRoomReq struct {
	RoomID int64 `json:"room_id"`
}

type LeaveRoomResp struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

type RoomListReq struct{}

// RoomInfo is one entry in a directory snapshot.
type RoomInfo struct {
	RoomID    int64    `json:"room_id"`
	RoomName  string   `json:"room_name"`
	Players   []string `json:"players"`
	CreatorID string   `json:"creator_id,omitempty"`
	Status    int      `json:"status,omitempty"`
}

type RoomListResp struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Rooms   []*RoomInfo `json:"rooms,omitempty"`
}

// PlayerJoin is pushed to a room's occupants when a second player joins.
type PlayerJoin struct {
	RoomID   int64  `json:"room_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username"`
}

// PlayerLeave is pushed to a room's occupants when the other player leaves.
type PlayerLeave struct {
	RoomID   int64  `json:"room_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type MoveReq struct {
	RoomID int64 `json:"room_id"`
	X      int   `json:"x"`
	Y      int   `json:"y"`
}

type MoveResp struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	X       int    `json:"x,omitempty"`
	Y       int    `json:"y,omitempty"`
	Player  string `json:"player,omitempty"`
}

type GameStart struct {
	RoomID      int64    `json:"room_id"`
	Players     []string `json:"players"`
	FirstPlayer string   `json:"first_player"`
}

// BoardUpdate carries a full board snapshot, never a delta.
type BoardUpdate struct {
	RoomID        int64   `json:"room_id,omitempty"`
	Board         [][]int `json:"board"`
	LastX         int     `json:"last_x,omitempty"`
	LastY         int     `json:"last_y,omitempty"`
	LastPlayer    string  `json:"last_player,omitempty"`
	CurrentPlayer string  `json:"current_player"`
}

type GameOver struct {
	RoomID  int64  `json:"room_id,omitempty"`
	Winner  string `json:"winner"`
	WinLine []int  `json:"win_line,omitempty"`
}

type ForfeitReq struct {
	RoomID int64 `json:"room_id"`
}

type ForfeitResp struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Winner  string `json:"winner,omitempty"`
}

type LeaderboardReq struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

type RankEntry struct {
	UserID    string `json:"user_id,omitempty"`
	Username  string `json:"username"`
	Score     int    `json:"score"`
	WinCount  int    `json:"win_count,omitempty"`
	LoseCount int    `json:"lose_count,omitempty"`
	WinRate   string `json:"win_rate,omitempty"`
	Rank      int    `json:"rank,omitempty"`
}

type LeaderboardResp struct {
	Code    int          `json:"code"`
	Message string       `json:"message,omitempty"`
	Ranks   []*RankEntry `json:"ranks,omitempty"`
}

type UserStatsReq struct {
	UserID string `json:"user_id"`
}

type UserStatsResp struct {
	Code      int    `json:"code"`
	Message   string `json:"message,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
	Score     int    `json:"score"`
	WinCount  int    `json:"win_count,omitempty"`
	LoseCount int    `json:"lose_count,omitempty"`
	WinRate   string `json:"win_rate,omitempty"`
	Rank      int    `json:"rank,omitempty"`
}

type PingReq struct{}

type PongResp struct{}

// ErrorResp is the reserved out-of-band error message (type 9999).
type ErrorResp struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}
