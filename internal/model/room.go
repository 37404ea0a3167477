package model

// RoomID uniquely identifies a room
type RoomID int64

// MaxRoomPlayers is the room capacity; gomoku is strictly two-player
const MaxRoomPlayers = 2

// Room is one entry in the directory snapshot. Rooms have no identity
// beyond the snapshot that contains them: each directory refresh replaces
// them wholesale.
type Room struct {
	ID        RoomID
	Name      string
	Players   []UserID // ordered, at most MaxRoomPlayers
	CreatorID UserID
	Status    int
}

// IsFull returns true when the room has no free seat
func (r *Room) IsFull() bool {
	return len(r.Players) >= MaxRoomPlayers
}

// Directory is the full, non-incremental room list snapshot
type Directory struct {
	Rooms []Room
}

// ByID returns the room with the given id, or nil if absent from the
// current snapshot
func (d *Directory) ByID(id RoomID) *Room {
	for i := range d.Rooms {
		if d.Rooms[i].ID == id {
			return &d.Rooms[i]
		}
	}
	return nil
}

// CurrentRoom tracks the room the local user currently occupies. The
// local user sits in the first slot; the second slot holds the opponent's
// display name, empty while no opponent is seated. Join/leave
// notifications and directory refreshes both write to this view with no
// ordering guarantee between them: last write wins.
type CurrentRoom struct {
	ID      RoomID
	Players [MaxRoomPlayers]string
}

// HasOpponent returns true when the second seat is taken
func (r *CurrentRoom) HasOpponent() bool {
	return r.Players[1] != ""
}
