package model

// UserID uniquely identifies a user across the system
type UserID string

// Session is the authenticated identity state for the local user.
// Its presence means the user is authenticated; it is destroyed on
// logout or failed re-authentication.
type Session struct {
	UserID UserID
	Token  string
}

// UserStats is the server-maintained record for one user
type UserStats struct {
	UserID    UserID
	Username  string
	Score     int
	WinCount  int
	LoseCount int
	WinRate   string
	Rank      int
}

// RankEntry is one row of the leaderboard
type RankEntry struct {
	UserID    UserID
	Username  string
	Score     int
	WinCount  int
	LoseCount int
	WinRate   string
	Rank      int
}
