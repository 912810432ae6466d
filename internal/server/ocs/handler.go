package ocs

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/talkclient/internal/buildinfo"
	"github.com/dmitrijs2005/talkclient/internal/common"
	"github.com/dmitrijs2005/talkclient/internal/server/models"
)

// roomView is a room as listed to one participant.
type roomView struct {
	Token       string `json:"token"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Type        int    `json:"type"`
	HasPassword bool   `json:"hasPassword"`
	LastPing    int64  `json:"lastPing"`
}

func (s *Server) status(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"installed":   true,
		"maintenance": false,
		"version":     buildinfo.Version,
	})
}

func (s *Server) getAppPassword(c echo.Context) error {
	u := currentUser(c)
	p, err := s.users.IssueAppPassword(c.Request().Context(), u.UserName)
	if err != nil {
		return err
	}
	s.logger.Info(c.Request().Context(), "app password issued", "user", u.UserName)
	return ok(c, map[string]string{"apppassword": p})
}

func (s *Server) cloudUser(c echo.Context) error {
	u := currentUser(c)
	return ok(c, map[string]string{"id": u.UserName, "displayname": u.DisplayName})
}

func (s *Server) listRooms(c echo.Context) error {
	ctx := c.Request().Context()
	u := currentUser(c)

	rooms, err := s.rooms.List(ctx, u.UserName)
	if err != nil {
		return err
	}

	out := make([]roomView, 0, len(rooms))
	for _, r := range rooms {
		v := roomView{
			Token:       r.Token,
			Name:        r.Name,
			DisplayName: r.Name,
			Type:        r.Type,
			HasPassword: r.PasswordHash != nil,
			LastPing:    r.LastPing,
		}
		if r.Type == models.RoomTypeOneToOne {
			v.Name, v.DisplayName = s.peerOf(c, r, u.UserName)
		}
		out = append(out, v)
	}
	return ok(c, out)
}

// peerOf returns the username and display name of the other participant of a
// one-to-one room. Both are empty once the peer has left.
func (s *Server) peerOf(c echo.Context, r *models.Room, self string) (string, string) {
	for _, p := range r.Participants {
		if p == self {
			continue
		}
		peer, err := s.users.Get(c.Request().Context(), p)
		if err != nil {
			return p, p
		}
		return peer.UserName, peer.DisplayName
	}
	return "", ""
}

func token(c echo.Context) (string, error) {
	t, err := url.PathUnescape(c.Param("token"))
	if err != nil || t == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "bad room token")
	}
	return t, nil
}

// roomAction adapts a room service call taking (user, token) to a handler.
func (s *Server) roomAction(fn func(c echo.Context, user, token string) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		t, err := token(c)
		if err != nil {
			return err
		}
		u := currentUser(c)
		if err := fn(c, u.UserName, t); err != nil {
			return err
		}
		s.logger.Debug(c.Request().Context(), "room updated", "room", t, "user", u.UserName, "route", c.Path())
		return ok(c, nil)
	}
}

func (s *Server) renameRoom(c echo.Context, user, token string) error {
	return s.rooms.Rename(c.Request().Context(), user, token, c.FormValue("roomName"))
}

func (s *Server) deleteRoom(c echo.Context, user, token string) error {
	return s.rooms.Delete(c.Request().Context(), user, token)
}

func (s *Server) makePublic(c echo.Context, user, token string) error {
	return s.rooms.SetPublic(c.Request().Context(), user, token, true)
}

func (s *Server) makePrivate(c echo.Context, user, token string) error {
	return s.rooms.SetPublic(c.Request().Context(), user, token, false)
}

func (s *Server) setPassword(c echo.Context, user, token string) error {
	return s.rooms.SetPassword(c.Request().Context(), user, token, c.FormValue("password"))
}

func (s *Server) leaveRoom(c echo.Context, user, token string) error {
	return s.rooms.Leave(c.Request().Context(), user, token)
}

func (s *Server) joinRoom(c echo.Context) error {
	t, err := token(c)
	if err != nil {
		return err
	}
	u := currentUser(c)

	sid, err := s.rooms.Join(c.Request().Context(), u.UserName, t, c.FormValue("password"))
	if err != nil {
		if errors.Is(err, common.ErrForbidden) {
			s.logger.Warn(c.Request().Context(), "wrong room password", "room", t, "user", u.UserName)
		}
		return err
	}
	return ok(c, map[string]string{"sessionId": sid})
}
