package models

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// RoomType mirrors the Talk server's conversation type.
type RoomType int

const (
	RoomTypeOneToOne RoomType = 1
	RoomTypeGroup    RoomType = 2
	RoomTypePublic   RoomType = 3
	RoomTypeOther    RoomType = 4
)

func (t RoomType) String() string {
	switch t {
	case RoomTypeOneToOne:
		return "one-to-one"
	case RoomTypeGroup:
		return "group"
	case RoomTypePublic:
		return "public"
	default:
		return "other"
	}
}

// Room is a call/chat room as listed by the server. It is never stored locally.
type Room struct {
	Token       string   `json:"token"`
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Type        RoomType `json:"type"`
	HasPassword bool     `json:"hasPassword"`
	// LastPing is the last activity as unix seconds; 0 means never.
	LastPing int64 `json:"lastPing"`

	// Password is set by the client before a set-password operation.
	Password string `json:"-"`
}

func (r Room) Equal(o Room) bool {
	return r == o
}

// Hash is consistent with Equal.
func (r Room) Hash() uint64 {
	d := xxhash.New()
	for _, s := range []string{
		r.Token, r.Name, r.DisplayName,
		strconv.Itoa(int(r.Type)),
		strconv.FormatBool(r.HasPassword),
		strconv.FormatInt(r.LastPing, 10),
		r.Password,
	} {
		_, _ = d.WriteString(s)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}
