package roomlist

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/talkclient/internal/client/models"
	"github.com/dmitrijs2005/talkclient/internal/logging"
)

const defaultAvatarWorkers = 4

// Row is a bound item with its loaded avatar; Image is nil when the avatar is
// hidden or could not be loaded.
type Row struct {
	View
	Image image.Image
}

// Adapter is the room list. It is safe for concurrent use.
type Adapter struct {
	loader     *AvatarLoader
	onMoreMenu func(models.Room)
	workers    int
	log        logging.Logger

	mu     sync.RWMutex
	items  []Item
	search string
}

// NewAdapter builds an Adapter. onMoreMenu receives the room whose menu
// button was clicked; loader may be nil to skip avatars.
func NewAdapter(loader *AvatarLoader, onMoreMenu func(models.Room), log logging.Logger) *Adapter {
	return &Adapter{
		loader:     loader,
		onMoreMenu: onMoreMenu,
		workers:    defaultAvatarWorkers,
		log:        log.With("module", "roomlist"),
	}
}

// SetItems replaces the list. Items equal to an earlier one are dropped.
func (a *Adapter) SetItems(items []Item) {
	seen := make(map[uint64][]Item, len(items))
	out := make([]Item, 0, len(items))
next:
	for _, it := range items {
		h := it.Hash()
		for _, prev := range seen[h] {
			if prev.Equal(it) {
				continue next
			}
		}
		seen[h] = append(seen[h], it)
		out = append(out, it)
	}

	a.mu.Lock()
	a.items = out
	a.mu.Unlock()
}

func (a *Adapter) SetSearch(query string) {
	a.mu.Lock()
	a.search = query
	a.mu.Unlock()
}

func (a *Adapter) Search() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.search
}

// Visible returns the items passing the current search filter; all items
// when no search is set.
func (a *Adapter) Visible() []Item {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.visibleLocked()
}

func (a *Adapter) visibleLocked() []Item {
	if a.search == "" {
		return append([]Item(nil), a.items...)
	}
	out := make([]Item, 0, len(a.items))
	for _, it := range a.items {
		if it.Filter(a.search) {
			out = append(out, it)
		}
	}
	return out
}

// BindAll binds every visible item and loads the avatars concurrently. A
// failed avatar leaves Row.Image nil; only cancellation of ctx is an error.
func (a *Adapter) BindAll(ctx context.Context, now time.Time) ([]Row, error) {
	a.mu.RLock()
	items := a.visibleLocked()
	search := a.search
	a.mu.RUnlock()

	rows := make([]Row, len(items))
	for i, it := range items {
		rows[i] = Row{View: it.Bind(now, search)}
	}
	if a.loader == nil {
		return rows, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, it := range items {
		if rows[i].Avatar.Kind == AvatarHidden {
			continue
		}
		g.Go(func() error {
			img, err := a.loader.Load(gctx, it.User, rows[i].Avatar)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				a.log.Warn(gctx, "avatar load failed", "room", it.Room.Token, "avatar", rows[i].Avatar.Name, "err", err)
				return nil
			}
			rows[i].Image = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// ClickMore reports a click on the menu button of the i-th visible row.
func (a *Adapter) ClickMore(i int) error {
	visible := a.Visible()
	if i < 0 || i >= len(visible) {
		return fmt.Errorf("row %d out of range [0,%d)", i, len(visible))
	}
	if a.onMoreMenu != nil {
		a.onMoreMenu(visible[i].Room)
	}
	return nil
}
