package ocs

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/talkclient/internal/common"
)

// avatar serves a square PNG in a color derived from the user name. Only
// known users have avatars.
func (s *Server) avatar(c echo.Context) error {
	name, err := url.PathUnescape(c.Param("name"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad avatar name")
	}
	size, err := strconv.Atoi(c.Param("size"))
	if err != nil || (size != common.AvatarSizeSmall && size != common.AvatarSizeLarge) {
		return echo.NewHTTPError(http.StatusBadRequest, "bad avatar size")
	}
	if _, err := s.users.Get(c.Request().Context(), name); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, solidSquare(colorFor(name), size)); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func colorFor(name string) color.RGBA {
	h := xxhash.Sum64String(name)
	return color.RGBA{R: uint8(h), G: uint8(h >> 8), B: uint8(h >> 16), A: 0xff}
}

func solidSquare(col color.RGBA, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = col.R, col.G, col.B, col.A
	}
	return img
}
