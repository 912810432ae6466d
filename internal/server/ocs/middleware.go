package ocs

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dmitrijs2005/talkclient/internal/common"
	"github.com/dmitrijs2005/talkclient/internal/server/models"
)

const userKey = "user"

// basicAuth accepts the login password or an app password.
func (s *Server) basicAuth() echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Realm: "Nextcloud",
		Validator: func(username, secret string, c echo.Context) (bool, error) {
			u, err := s.users.Authenticate(c.Request().Context(), username, secret)
			if err != nil {
				if errors.Is(err, common.ErrUnauthorized) {
					return false, nil
				}
				return false, err
			}
			c.Set(userKey, u)
			return true, nil
		},
	})
}

// requireOCSHeader rejects OCS calls without the OCS-APIRequest header.
func requireOCSHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !strings.EqualFold(c.Request().Header.Get(common.OCSAPIRequestHeader), "true") {
			return echo.NewHTTPError(http.StatusPreconditionFailed, "CSRF check failed")
		}
		return next(c)
	}
}

// requestLogger logs one line per request through the server logger.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if u := currentUser(c); u != nil {
				args = append(args, "user", u.UserName)
			}
			if v.Error != nil {
				args = append(args, "err", v.Error)
			}
			s.logger.Info(context.Background(), "request", args...)
			return nil
		},
	})
}

func currentUser(c echo.Context) *models.User {
	u, _ := c.Get(userKey).(*models.User)
	return u
}
