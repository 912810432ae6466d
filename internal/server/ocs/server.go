// Package ocs serves the subset of the Nextcloud Talk OCS API the client
// uses, backed by the in-memory development services.
package ocs

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dmitrijs2005/talkclient/internal/common"
	"github.com/dmitrijs2005/talkclient/internal/logging"
	"github.com/dmitrijs2005/talkclient/internal/server/services"
)

type Server struct {
	address string
	users   *services.UserService
	rooms   *services.RoomService
	logger  logging.Logger
	echo    *echo.Echo
}

func NewServer(a string, l logging.Logger, us *services.UserService, rs *services.RoomService) *Server {
	s := &Server{
		address: a,
		logger:  l.With("module", "ocs_server"),
		users:   us,
		rooms:   rs,
	}
	s.echo = s.routes()
	return s
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler

	e.Use(middleware.Recover())
	e.Use(s.requestLogger())

	e.GET(common.StatusPath, s.status)
	e.GET(common.AvatarPath+"/:name/:size", s.avatar, s.basicAuth())

	o := e.Group(common.OCSBasePath, requireOCSHeader, s.basicAuth())
	o.GET("/core/getapppassword", s.getAppPassword)
	o.GET("/cloud/user", s.cloudUser)

	talk := e.Group(common.TalkAPIPath, requireOCSHeader, s.basicAuth())
	talk.GET("/room", s.listRooms)
	talk.PUT("/room/:token", s.roomAction(s.renameRoom))
	talk.DELETE("/room/:token", s.roomAction(s.deleteRoom))
	talk.POST("/room/:token/public", s.roomAction(s.makePublic))
	talk.DELETE("/room/:token/public", s.roomAction(s.makePrivate))
	talk.PUT("/room/:token/password", s.roomAction(s.setPassword))
	talk.DELETE("/room/:token/participants/self", s.roomAction(s.leaveRoom))
	talk.POST("/room/:token/participants/active", s.joinRoom)

	return e
}

// Handler exposes the routes, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(context.Background(), "shutdown failed", "err", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
