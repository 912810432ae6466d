package ocs

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/talkclient/internal/common"
	"github.com/dmitrijs2005/talkclient/internal/server/services"
)

type meta struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statuscode"`
	Message    string `json:"message"`
}

type body struct {
	Meta meta `json:"meta"`
	Data any  `json:"data"`
}

type envelope struct {
	OCS body `json:"ocs"`
}

// ok writes data wrapped in a successful OCS envelope.
func ok(c echo.Context, data any) error {
	if data == nil {
		data = []any{}
	}
	return c.JSON(http.StatusOK, envelope{OCS: body{
		Meta: meta{Status: "ok", StatusCode: http.StatusOK, Message: "OK"},
		Data: data,
	}})
}

func failure(c echo.Context, code int, message string) error {
	return c.JSON(code, envelope{OCS: body{
		Meta: meta{Status: "failure", StatusCode: code, Message: message},
		Data: []any{},
	}})
}

// statusOf maps service errors to HTTP status codes.
func statusOf(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorHandler renders every error as an OCS failure envelope. Internal
// errors are logged and not echoed to the client.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := statusOf(err)
	message := http.StatusText(code)
	if code == http.StatusInternalServerError {
		s.logger.Error(c.Request().Context(), "request failed", "uri", c.Request().RequestURI, "err", err)
	} else if errors.Is(err, services.ErrBadRequest) {
		message = err.Error()
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = failure(c, code, message)
}
