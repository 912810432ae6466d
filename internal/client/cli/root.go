package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.user != nil {
		s = displayName(*a.user) + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if a.menuRoom != nil {
		s = s + " #" + a.menuRoom.DisplayName
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// loadCurrentUser restores the account the previous session acted as, or
// promotes the first stored one. Either way it ends as the only current one.
func (a *App) loadCurrentUser(ctx context.Context) {
	u, err := a.accounts.CurrentUser(ctx)
	if err == nil && u == nil {
		u, err = a.accounts.AnyUserAndSetActive(ctx)
	}
	if err == nil && u != nil {
		u, err = a.accounts.SwitchTo(ctx, u.ID)
	}
	if err != nil {
		a.log.Error(ctx, "error loading current account", "err", err)
		return
	}
	if u == nil {
		a.say("No accounts yet. Type 'login' to add one.")
		return
	}
	a.setUser(u)
	a.say("Acting as %s on %s", displayName(*u), u.BaseURL)
	a.checkOnline(ctx)
}

// Root starts the background watchers and the REPL. It blocks until the user
// exits or stdin is closed.
func (a *App) Root(ctx context.Context) {
	a.say("Welcome to Talk CLI (type 'help' for commands)")

	a.loadCurrentUser(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	go a.StartPurgeWatcher(ctx, a.config.PurgeInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
