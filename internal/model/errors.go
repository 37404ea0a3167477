package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrEmptyCredentials = errors.New("username and password are required")
	ErrNotAuthenticated = errors.New("not authenticated")

	// Room errors
	ErrEmptyRoomName = errors.New("room name is required")
	ErrNoCurrentRoom = errors.New("not currently in a room")

	// Game errors
	ErrNoActiveGame    = errors.New("no game in progress")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrOutOfBounds     = errors.New("position is outside the board")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrForfeitDeclined = errors.New("forfeit not confirmed")
)
