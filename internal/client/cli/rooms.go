package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/talkclient/internal/client/models"
	"github.com/dmitrijs2005/talkclient/internal/client/roomlist"
	"github.com/dmitrijs2005/talkclient/internal/client/services"
	"github.com/dmitrijs2005/talkclient/internal/common"
)

var (
	errWrongCallPassword = errors.New("wrong call password")
	errOperationFailed   = errors.New("operation failed")
)

// now is a test seam for the clock used to render last activity.
var now = time.Now

// operationCommands maps REPL commands to operation codes. The password
// command picks between set, change and clear at run time.
var operationCommands = map[string]models.OperationCode{
	"leave":    models.OpLeaveRoom,
	"rename":   models.OpRenameRoom,
	"public":   models.OpMakePublic,
	"password": models.OpSetPassword,
	"private":  models.OpMakePrivate,
	"delete":   models.OpDeleteRoom,
	"join":     models.OpJoinRoom,
}

// Rooms lists the rooms of the current account. The list is fetched again
// after a login, a switch or an operation that asked for a refresh. An
// optional argument filters rows by display name.
func (a *App) Rooms(ctx context.Context, args []string) error {
	u := a.currentUser()
	if u == nil {
		a.say("Not logged in")
		return nil
	}

	a.mu.Lock()
	stale := a.roomsStale
	a.mu.Unlock()

	if stale {
		rooms, err := a.api.Rooms(ctx, *u)
		if err != nil {
			a.say("Could not load rooms: %v", err)
			return err
		}
		a.adapter.SetItems(roomlist.ItemsFor(rooms, *u))
		a.mu.Lock()
		a.roomsStale = false
		a.mu.Unlock()
	}

	a.adapter.SetSearch(strings.Join(args, " "))
	rows, err := a.adapter.BindAll(ctx, now())
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		a.say("No rooms.")
		return nil
	}
	for i, r := range rows {
		a.say("%2d. %s %s  %s%s", i+1, avatarMark(r), markSpans(r.DisplayName, r.Highlights), r.LastActivity, lockMark(r.PasswordProtected))
	}
	return nil
}

// More opens the operation menu of the n-th row of the last listing.
func (a *App) More(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.say("Usage: more <row>")
		return errors.New("missing row number")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		a.say("Usage: more <row>")
		return err
	}
	if err := a.adapter.ClickMore(n - 1); err != nil {
		a.say("No row %d", n)
		return err
	}
	return nil
}

// showMenu is the adapter's menu callback. It selects the room for the
// operation commands.
func (a *App) showMenu(room models.Room) {
	a.mu.Lock()
	a.menuRoom = &room
	a.mu.Unlock()

	ops := []string{"join", "leave", "rename <name>", "password"}
	if room.Type == models.RoomTypePublic {
		ops = append(ops, "private")
	} else if room.Type == models.RoomTypeGroup {
		ops = append(ops, "public")
	}
	ops = append(ops, "delete")
	a.say("%s: %s", room.DisplayName, strings.Join(ops, ", "))
}

func (a *App) selectedRoom() *models.Room {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.menuRoom == nil {
		return nil
	}
	r := *a.menuRoom
	return &r
}

// Operation runs one room operation on the room picked with "more" and waits
// for its outcome.
func (a *App) Operation(ctx context.Context, cmd string, args []string) error {
	code, ok := operationCommands[cmd]
	if !ok {
		a.say("Unknown operation: %s", cmd)
		return services.ErrOperationNotDispatched
	}
	room := a.selectedRoom()
	if room == nil {
		a.say("Pick a room first: more <row>")
		return common.ErrNotFound
	}

	req := models.OperationRequest{Code: code, Room: *room}

	switch code {
	case models.OpRenameRoom:
		if len(args) == 0 {
			a.say("Usage: rename <name>")
			return errors.New("missing room name")
		}
		req.Room.Name = strings.Join(args, " ")

	case models.OpSetPassword:
		pw, err := getPassword("Room password (empty to remove)", a.out)
		if err != nil {
			return err
		}
		req.Room.Password = string(pw)
		common.WipeByteArray(pw)
		switch {
		case req.Room.Password == "":
			req.Code = models.OpClearPassword
		case room.HasPassword:
			req.Code = models.OpChangePass
		}

	case models.OpJoinRoom:
		if room.HasPassword {
			pw, err := getPassword("Call password", a.out)
			if err != nil {
				return err
			}
			req.CallPassword = string(pw)
			common.WipeByteArray(pw)
		}
	}

	if err := a.runner.Start(ctx, req); err != nil {
		a.say("Could not start %s: %v", req.Code, err)
		return err
	}
	if err := a.runner.Wait(ctx); err != nil {
		return err
	}

	if a.runner.ErrorHolder().Take() == services.MessageCallPasswordWrong {
		a.say("Wrong call password for %s", room.DisplayName)
		return errWrongCallPassword
	}
	if a.runner.State() == services.StateFailed {
		return errOperationFailed
	}
	return nil
}

func markSpans(s string, spans []roomlist.Span) string {
	if len(spans) == 0 {
		return s
	}
	var b strings.Builder
	prev := 0
	for _, sp := range spans {
		b.WriteString(s[prev:sp.Start])
		b.WriteString("[")
		b.WriteString(s[sp.Start:sp.End])
		b.WriteString("]")
		prev = sp.End
	}
	b.WriteString(s[prev:])
	return b.String()
}

func avatarMark(r roomlist.Row) string {
	switch r.Avatar.Kind {
	case roomlist.AvatarContact:
		if r.Image == nil {
			return "(?)"
		}
		return "(@)"
	case roomlist.AvatarGroup:
		return "(#)"
	case roomlist.AvatarLink:
		return "(~)"
	default:
		return "   "
	}
}

func lockMark(locked bool) string {
	if locked {
		return "  [locked]"
	}
	return ""
}
