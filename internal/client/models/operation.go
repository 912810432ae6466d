package models

// OperationCode selects the room-management action a screen performs.
type OperationCode int

const (
	OpLeaveRoom     OperationCode = 1
	OpRenameRoom    OperationCode = 2
	OpMakePublic    OperationCode = 3
	OpSetPassword   OperationCode = 4
	OpChangePass    OperationCode = 5
	OpClearPassword OperationCode = 6
	OpShareLink     OperationCode = 7
	OpMakePrivate   OperationCode = 8
	OpDeleteRoom    OperationCode = 9
	OpJoinRoom      OperationCode = 99
)

func (c OperationCode) String() string {
	switch c {
	case OpLeaveRoom:
		return "leave"
	case OpRenameRoom:
		return "rename"
	case OpMakePublic:
		return "make-public"
	case OpSetPassword, OpChangePass, OpClearPassword:
		return "password"
	case OpShareLink:
		return "share"
	case OpMakePrivate:
		return "make-private"
	case OpDeleteRoom:
		return "delete"
	case OpJoinRoom:
		return "join"
	default:
		return "unknown"
	}
}

// OperationRequest is consumed within the lifetime of one operation screen.
type OperationRequest struct {
	Code OperationCode
	Room Room
	// CallPassword is sent with a join; it may be empty.
	CallPassword string
	// User overrides the current account when set.
	User *User
}

// CallTarget is what a successful join hands over to the call screen.
type CallTarget struct {
	RoomToken string
	User      User
	SessionID string
}
