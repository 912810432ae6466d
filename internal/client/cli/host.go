package cli

import (
	"context"

	"github.com/dmitrijs2005/talkclient/internal/client/models"
	"github.com/dmitrijs2005/talkclient/internal/client/services"
)

// host renders operation outcomes in the terminal. Its methods run through
// App.dispatch, so they write with sayLocked.
type host struct {
	app *App
}

func (h *host) ShowResult(r services.Result) {
	if r.OK {
		h.app.sayLocked("✔ %s done", r.Code)
		return
	}
	h.app.sayLocked("✘ %s failed: %v", r.Code, r.Err)
	h.Dismiss(r.DismissAction)
}

// Dismiss closes the operation view. A terminal has nothing to close, so only
// the refresh request matters: the next "rooms" refetches.
func (h *host) Dismiss(d services.Dismissal) {
	if d.Delay > 0 {
		h.app.log.Debug(context.Background(), "operation view dismissed", "delay", d.Delay)
	}
	if d.Refresh {
		h.app.mu.Lock()
		h.app.roomsStale = true
		h.app.mu.Unlock()
	}
}

func (h *host) OpenCall(t models.CallTarget) {
	h.app.sayLocked("Joined room %s as %s (session %s)", t.RoomToken, t.User.Username, t.SessionID)
}

// Pop leaves the operation screen; the reason, if any, is in the error holder
// and shown when the prompt comes back.
func (h *host) Pop() {
	h.app.mu.Lock()
	h.app.menuRoom = nil
	h.app.mu.Unlock()
}
