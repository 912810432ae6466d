package client

import (
	"context"

	"github.com/dmitrijs2005/talkclient/internal/client/models"
)

// Client is the subset of the Talk API the client core consumes.
//
// Calls acting as an account take it as models.User: BaseURL selects the
// server and (Username, Token) are sent as basic-auth credentials.
type Client interface {
	Ping(ctx context.Context, baseURL string) error
	AppPassword(ctx context.Context, baseURL, username, password string) (string, error)
	Profile(ctx context.Context, user models.User) (*models.Profile, error)

	Rooms(ctx context.Context, user models.User) ([]models.Room, error)
	RemoveSelfFromRoom(ctx context.Context, user models.User, roomToken string) error
	RenameRoom(ctx context.Context, user models.User, roomToken, name string) error
	MakeRoomPublic(ctx context.Context, user models.User, roomToken string) error
	MakeRoomPrivate(ctx context.Context, user models.User, roomToken string) error
	SetPassword(ctx context.Context, user models.User, roomToken, password string) error
	DeleteRoom(ctx context.Context, user models.User, roomToken string) error
	// JoinRoom returns the call session id.
	JoinRoom(ctx context.Context, user models.User, roomToken, password string) (string, error)

	Avatar(ctx context.Context, user models.User, name string, size int) ([]byte, error)
}
