package roomlist

import (
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/talkclient/internal/client/models"
)

// NeverText is shown for rooms without any recorded activity.
const NeverText = "never"

// Item is one row: a room as seen by the acting account.
type Item struct {
	Room models.Room
	User models.User
}

// ItemsFor wraps rooms for user.
func ItemsFor(rooms []models.Room, user models.User) []Item {
	items := make([]Item, 0, len(rooms))
	for _, r := range rooms {
		items = append(items, Item{Room: r, User: user})
	}
	return items
}

// Equal compares the rooms only.
func (it Item) Equal(o Item) bool {
	return it.Room.Equal(o.Room)
}

func (it Item) Hash() uint64 {
	return it.Room.Hash()
}

// Filter reports whether the trimmed display name contains query, ignoring
// case. Rooms without a display name never match.
func (it Item) Filter(query string) bool {
	if it.Room.DisplayName == "" {
		return false
	}
	name := strings.ToLower(strings.TrimSpace(it.Room.DisplayName))
	return strings.Contains(name, strings.ToLower(query))
}

// Span is a half-open byte range of DisplayName.
type Span struct {
	Start, End int
}

// View is the bindable state of a row.
type View struct {
	Token             string
	DisplayName       string
	Highlights        []Span
	LastActivity      string
	PasswordProtected bool
	Avatar            Avatar
}

// Bind renders the row at time now. A non-empty search adds the highlight
// spans of every match in the display name.
func (it Item) Bind(now time.Time, search string) View {
	v := View{
		Token:             it.Room.Token,
		DisplayName:       it.Room.DisplayName,
		LastActivity:      LastActivity(it.Room.LastPing, now),
		PasswordProtected: it.Room.HasPassword,
		Avatar:            AvatarFor(it.Room),
	}
	if search != "" {
		v.Highlights = Highlight(it.Room.DisplayName, search)
	}
	return v
}

// LastActivity renders a unix timestamp relative to now, or NeverText for 0.
func LastActivity(lastPing int64, now time.Time) string {
	if lastPing == 0 {
		return NeverText
	}
	return humanize.RelTime(time.Unix(lastPing, 0), now, "ago", "from now")
}

// Highlight returns the byte spans of the non-overlapping, case-insensitive
// occurrences of query in s.
func Highlight(s, query string) []Span {
	q := []rune(query)
	if len(q) == 0 {
		return nil
	}
	for i := range q {
		q[i] = unicode.ToLower(q[i])
	}

	runes := make([]rune, 0, len(s))
	offsets := make([]int, 0, len(s)+1)
	for i, r := range s {
		runes = append(runes, unicode.ToLower(r))
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(s))

	var spans []Span
	for i := 0; i+len(q) <= len(runes); {
		if equalRunes(runes[i:i+len(q)], q) {
			spans = append(spans, Span{Start: offsets[i], End: offsets[i+len(q)]})
			i += len(q)
			continue
		}
		i++
	}
	return spans
}

func equalRunes(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
