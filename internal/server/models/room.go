package models

import "slices"

// Room types as exposed on the wire.
const (
	RoomTypeOneToOne = 1
	RoomTypeGroup    = 2
	RoomTypePublic   = 3
)

// Room is a conversation. The owner is its only moderator.
type Room struct {
	Token        string
	Name         string
	Type         int
	Owner        string
	Participants []string
	PasswordHash []byte
	LastPing     int64
	CreatedAt    int64
}

func (r *Room) IsParticipant(username string) bool {
	return slices.Contains(r.Participants, username)
}

func (r *Room) IsModerator(username string) bool {
	return r.Owner == username
}

// Clone returns a deep copy so callers never share slices with the store.
func (r *Room) Clone() *Room {
	c := *r
	c.Participants = slices.Clone(r.Participants)
	c.PasswordHash = slices.Clone(r.PasswordHash)
	return &c
}
