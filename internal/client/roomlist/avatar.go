package roomlist

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dmitrijs2005/talkclient/internal/client/models"
	"github.com/dmitrijs2005/talkclient/internal/common"
)

type AvatarKind int

const (
	AvatarHidden AvatarKind = iota
	AvatarContact
	AvatarGroup
	AvatarLink
)

func (k AvatarKind) String() string {
	switch k {
	case AvatarContact:
		return "contact"
	case AvatarGroup:
		return "group"
	case AvatarLink:
		return "link"
	default:
		return "hidden"
	}
}

// Avatar selects the picture of a row. Name is set for contact avatars.
type Avatar struct {
	Kind AvatarKind
	Name string
}

// AvatarFor picks the avatar by room type: the peer's picture for one-to-one
// rooms with a name, a group glyph, a link glyph for public rooms, and none
// otherwise.
func AvatarFor(r models.Room) Avatar {
	switch r.Type {
	case models.RoomTypeOneToOne:
		if r.Name == "" {
			return Avatar{Kind: AvatarHidden}
		}
		return Avatar{Kind: AvatarContact, Name: r.Name}
	case models.RoomTypeGroup:
		return Avatar{Kind: AvatarGroup}
	case models.RoomTypePublic:
		return Avatar{Kind: AvatarLink}
	default:
		return Avatar{Kind: AvatarHidden}
	}
}

// AvatarFetcher downloads raw avatar bytes.
type AvatarFetcher interface {
	Avatar(ctx context.Context, user models.User, name string, size int) ([]byte, error)
}

// AvatarLoader resolves avatars to circle-cropped images. Nothing is cached.
type AvatarLoader struct {
	api  AvatarFetcher
	size int
}

func NewAvatarLoader(api AvatarFetcher) *AvatarLoader {
	return &AvatarLoader{api: api, size: common.AvatarSizeSmall}
}

// Load returns nil for hidden avatars.
func (l *AvatarLoader) Load(ctx context.Context, user models.User, a Avatar) (image.Image, error) {
	switch a.Kind {
	case AvatarContact:
		data, err := l.api.Avatar(ctx, user, a.Name, l.size)
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode avatar %q: %w", a.Name, err)
		}
		return CircleCrop(img), nil
	case AvatarGroup, AvatarLink:
		return CircleCrop(glyph(a.Kind, l.size)), nil
	default:
		return nil, nil
	}
}

// CircleCrop centers the largest square of src and masks it with a circle.
// Pixels outside the circle are transparent.
func CircleCrop(src image.Image) *image.RGBA {
	b := src.Bounds()
	side := min(b.Dx(), b.Dy())
	origin := image.Pt(b.Min.X+(b.Dx()-side)/2, b.Min.Y+(b.Dy()-side)/2)

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	mask := &circle{center: image.Pt(side/2, side/2), r: side / 2}
	draw.DrawMask(dst, dst.Bounds(), src, origin, mask, image.Point{}, draw.Over)
	return dst
}

type circle struct {
	center image.Point
	r      int
}

func (c *circle) ColorModel() color.Model { return color.AlphaModel }

func (c *circle) Bounds() image.Rectangle {
	return image.Rect(c.center.X-c.r, c.center.Y-c.r, c.center.X+c.r, c.center.Y+c.r)
}

func (c *circle) At(x, y int) color.Color {
	// sample the pixel center
	dx, dy, r := 2*(x-c.center.X)+1, 2*(y-c.center.Y)+1, 2*c.r
	if dx*dx+dy*dy <= r*r {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}

var glyphColors = map[AvatarKind]color.RGBA{
	AvatarGroup: {R: 0x00, G: 0x82, B: 0xc9, A: 0xff},
	AvatarLink:  {R: 0x46, G: 0xba, B: 0x61, A: 0xff},
}

// glyph draws the built-in icon for group and link rooms: a white mark on the
// theme color.
func glyph(kind AvatarKind, size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: glyphColors[kind]}, image.Point{}, draw.Src)

	white := &image.Uniform{C: color.White}
	u := size / 8
	switch kind {
	case AvatarGroup:
		// two heads
		draw.Draw(img, image.Rect(2*u, 3*u, 4*u, 5*u), white, image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(4*u+u/2, 3*u, 6*u+u/2, 5*u), white, image.Point{}, draw.Src)
	case AvatarLink:
		// two chain links
		draw.Draw(img, image.Rect(2*u, 3*u, 5*u, 4*u), white, image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(3*u, 4*u, 6*u, 5*u), white, image.Point{}, draw.Src)
	}
	return img
}
