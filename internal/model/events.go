package model

// ConnState is the lifecycle state of the transport connection
type ConnState string

const (
	ConnClosed     ConnState = "closed"
	ConnConnecting ConnState = "connecting"
	ConnOpen       ConnState = "open"
)

// EventType identifies the type of event
type EventType string

const (
	// Connection events
	EventConnStateChanged EventType = "conn_state_changed"

	// Session events
	EventSessionEstablished EventType = "session_established"
	EventSessionClosed      EventType = "session_closed"
	EventRegistered         EventType = "registered"

	// Room events
	EventDirectoryUpdated EventType = "directory_updated"
	EventRoomEntered      EventType = "room_entered"
	EventRoomLeft         EventType = "room_left"
	EventOpponentJoined   EventType = "opponent_joined"
	EventOpponentLeft     EventType = "opponent_left"

	// Game events
	EventGameStarted  EventType = "game_started"
	EventBoardUpdated EventType = "board_updated"
	EventGameEnded    EventType = "game_ended"

	// Stats events
	EventStatsUpdated       EventType = "stats_updated"
	EventLeaderboardUpdated EventType = "leaderboard_updated"
)

// Event is a view-model snapshot pushed to consumers (renderer, CLI)
// after a state transition
type Event struct {
	Type    EventType
	Payload any // Type-specific data
}

// ConnStateChangedPayload contains data for connection state events
type ConnStateChangedPayload struct {
	State ConnState
}

// SessionEstablishedPayload contains data for session established events
type SessionEstablishedPayload struct {
	UserID UserID
}

// DirectoryUpdatedPayload carries the replaced room list snapshot
type DirectoryUpdatedPayload struct {
	Directory Directory
}

// RoomEnteredPayload contains data for room entered events
type RoomEnteredPayload struct {
	Room CurrentRoom
}

// OpponentJoinedPayload contains data for opponent joined events
type OpponentJoinedPayload struct {
	Username string
}

// GameStartedPayload contains data for game started events
type GameStartedPayload struct {
	RoomID      RoomID
	Players     []UserID
	LocalColor  Stone
	FirstPlayer UserID
}

// BoardUpdatedPayload carries the replaced board snapshot and turn holder
type BoardUpdatedPayload struct {
	Board         Board
	CurrentPlayer UserID
	LocalTurn     bool
}

// GameEndedPayload contains data for game ended events
type GameEndedPayload struct {
	Winner  UserID
	Outcome Outcome
	WinLine []int
}

// StatsUpdatedPayload contains data for stats updated events
type StatsUpdatedPayload struct {
	Stats UserStats
}

// LeaderboardUpdatedPayload carries the refreshed leaderboard
type LeaderboardUpdatedPayload struct {
	Ranks []RankEntry
}
